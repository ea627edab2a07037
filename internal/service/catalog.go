package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Gani-23/KrushiGowrava/internal/catalog"
	"github.com/Gani-23/KrushiGowrava/internal/domain"
	"github.com/Gani-23/KrushiGowrava/pkg/debounce"
)

// CatalogFetcher is the remote catalog surface the service needs; satisfied
// by catalog.Client.
type CatalogFetcher interface {
	FetchProducts(ctx context.Context, q catalog.Request) ([]domain.Product, error)
	FetchRatingStats(ctx context.Context, productID string) (*catalog.RatingStats, error)
}

// BrowseResult is a presentable slice of the catalog: the products to show
// for the active filters plus the category list derived from the snapshot.
type BrowseResult struct {
	Products   []domain.Product `json:"products"`
	Categories []string         `json:"categories"`
	SearchTerm string           `json:"searchTerm,omitempty"`
}

// CatalogService keeps a shared snapshot of the remote catalog and serves
// filtered views of it.
//
// Plain listings fetch synchronously and replace the snapshot before
// answering. Searches answer immediately from the current snapshot through a
// client-side substring pass, while the authoritative server-side query is
// debounced behind a settle window; once it lands it replaces the snapshot,
// tagged with its generation so a slower, older fetch can never clobber a
// newer one.
type CatalogService struct {
	client       CatalogFetcher
	snapshot     *catalog.Snapshot
	debouncer    *debounce.Debouncer
	fetchTimeout time.Duration
	logger       *slog.Logger
}

// NewCatalogService creates a catalog service with the given search settle
// delay.
func NewCatalogService(client CatalogFetcher, settle time.Duration, fetchTimeout time.Duration, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		client:       client,
		snapshot:     catalog.NewSnapshot(),
		debouncer:    debounce.New(settle),
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// Snapshot exposes the shared catalog snapshot for collaborators that patch
// it (the rating flow).
func (s *CatalogService) Snapshot() *catalog.Snapshot {
	return s.snapshot
}

// Browse serves the catalog for the given filter state.
func (s *CatalogService) Browse(ctx context.Context, f domain.FilterState) (*BrowseResult, error) {
	term := strings.TrimSpace(f.SearchTerm)

	if term == "" {
		if err := s.fetchNow(ctx, f); err != nil {
			return nil, err
		}
		return s.result(""), nil
	}

	// Serve the substring-filtered view of what we already have and let the
	// authoritative query settle in the background.
	s.scheduleSearch(f)
	return s.result(term), nil
}

// Refresh forces a synchronous snapshot replace for the given filters.
func (s *CatalogService) Refresh(ctx context.Context, f domain.FilterState) error {
	return s.fetchNow(ctx, f)
}

// Product returns the product with the given id from the snapshot.
func (s *CatalogService) Product(id string) (domain.Product, bool) {
	return s.snapshot.Get(id)
}

// RatingStats proxies the aggregate rating statistics for a product.
func (s *CatalogService) RatingStats(ctx context.Context, productID string) (*catalog.RatingStats, error) {
	return s.client.FetchRatingStats(ctx, productID)
}

// Stop cancels any pending debounced fetch.
func (s *CatalogService) Stop() {
	s.debouncer.Stop()
}

func (s *CatalogService) fetchNow(ctx context.Context, f domain.FilterState) error {
	gen := s.snapshot.Begin()

	products, err := s.client.FetchProducts(ctx, catalog.BuildQuery(f))
	if err != nil {
		return err
	}

	if !s.snapshot.Replace(gen, products, strings.TrimSpace(f.SearchTerm)) {
		s.logger.DebugContext(ctx, "catalog fetch superseded, result discarded")
	}
	return nil
}

func (s *CatalogService) scheduleSearch(f domain.FilterState) {
	s.debouncer.Trigger(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.fetchTimeout)
		defer cancel()

		if err := s.fetchNow(ctx, f); err != nil {
			// The stale view keeps serving; the next keystroke or browse
			// retries naturally.
			s.logger.WarnContext(ctx, "debounced catalog search failed",
				slog.String("term", f.SearchTerm),
				slog.String("error", err.Error()),
			)
		}
	})
}

func (s *CatalogService) result(term string) *BrowseResult {
	return &BrowseResult{
		Products:   s.snapshot.View(term),
		Categories: s.snapshot.Categories(),
		SearchTerm: term,
	}
}
