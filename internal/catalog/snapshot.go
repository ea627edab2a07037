package catalog

import (
	"sync"

	"github.com/Gani-23/KrushiGowrava/internal/domain"
)

// Snapshot holds the catalog as last fetched from the remote product API.
// Fetches are tagged with a generation counter: a fetch started later always
// supersedes an earlier one, and a stale completion arriving out of order is
// discarded rather than allowed to overwrite fresher data.
type Snapshot struct {
	mu       sync.RWMutex
	started  uint64
	applied  uint64
	products []domain.Product
	// term is the search term the current products are the authoritative
	// answer for ("" for a plain listing).
	term string
}

// NewSnapshot creates an empty catalog snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Begin registers the start of a fetch and returns its generation tag.
func (s *Snapshot) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started++
	return s.started
}

// Replace installs the result of the fetch tagged gen, replacing the catalog
// wholesale. It reports false and leaves the snapshot untouched when a fetch
// started later has already been applied.
func (s *Snapshot) Replace(gen uint64, products []domain.Product, term string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen < s.applied {
		return false
	}
	s.applied = gen
	s.products = products
	s.term = term
	return true
}

// Patch replaces the single product with a matching id in place, preserving
// order. Used when a rating submission returns the authoritative updated
// record. It reports whether a matching product was found.
func (s *Snapshot) Patch(p domain.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == p.ID {
			s.products[i] = p
			return true
		}
	}
	return false
}

// Products returns a copy of the current catalog.
func (s *Snapshot) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Product(nil), s.products...)
}

// Get returns the product with the given id from the snapshot.
func (s *Snapshot) Get(id string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.products {
		if s.products[i].ID == id {
			return s.products[i], true
		}
	}
	return domain.Product{}, false
}

// View returns the catalog as it should be presented while the given search
// term is active. If the snapshot is already the authoritative answer for the
// term, it is returned as-is; otherwise a client-side substring pass masks
// the latency until the debounced server-side query lands.
func (s *Snapshot) View(term string) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if term == "" || term == s.term {
		return append([]domain.Product(nil), s.products...)
	}

	filtered := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.MatchesTerm(term) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Categories returns the categories present in the snapshot, "all" first.
func (s *Snapshot) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.ExtractCategories(s.products)
}
