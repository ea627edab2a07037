package domain

// CategoryAll is the sentinel meaning "no category filter".
const CategoryAll = "all"

// Sort fields accepted by the remote catalog API.
const (
	SortCreatedAt = "createdAt"
	SortPrice     = "price"
	SortRating    = "averageRating"
)

// Sort orders.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Price range defaults; values at the defaults are not sent upstream.
const (
	DefaultMinPrice = 0
	DefaultMaxPrice = 1000
)

// PriceRange is an inclusive price filter. Min <= Max.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterState is the immutable configuration a catalog query is built from.
// A new query is constructed fresh from the current state on every fetch.
type FilterState struct {
	Category   string     `json:"category"`
	MinRating  int        `json:"minRating"`
	SortBy     string     `json:"sortBy"`
	SortOrder  string     `json:"sortOrder"`
	PriceRange PriceRange `json:"priceRange"`
	SearchTerm string     `json:"searchTerm"`
}

// DefaultFilterState returns the unfiltered state: all categories, any
// rating, newest first, full price range, no search term.
func DefaultFilterState() FilterState {
	return FilterState{
		Category:   CategoryAll,
		MinRating:  0,
		SortBy:     SortCreatedAt,
		SortOrder:  OrderDesc,
		PriceRange: PriceRange{Min: DefaultMinPrice, Max: DefaultMaxPrice},
	}
}

// ValidSortBy reports whether the given sort field is accepted.
func ValidSortBy(s string) bool {
	switch s {
	case SortCreatedAt, SortPrice, SortRating:
		return true
	}
	return false
}

// ValidSortOrder reports whether the given sort order is accepted.
func ValidSortOrder(s string) bool {
	return s == OrderAsc || s == OrderDesc
}
