package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/Gani-23/KrushiGowrava/internal/domain"
)

// Remote catalog entry points, relative to the API base URL.
const (
	PathProducts = "/products"
	PathSearch   = "/products/search"
)

// Request is an opaque description of a remote catalog query: an entry-point
// path plus query parameters. The builder performs no I/O.
type Request struct {
	Path   string
	Params url.Values
}

// Encode renders the request as a path with query string.
func (r Request) Encode() string {
	if len(r.Params) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Params.Encode()
}

// BuildQuery deterministically constructs a catalog request from the filter
// state. Parameters equal to their unfiltered defaults (category "all",
// minRating 0, price range [0, 1000]) are omitted entirely, keeping queries
// minimal and cache-friendly upstream. A non-empty search term routes to the
// search entry point, still carrying the other filters.
func BuildQuery(f domain.FilterState) Request {
	params := url.Values{}

	if f.Category != "" && f.Category != domain.CategoryAll {
		params.Set("category", f.Category)
	}
	if f.MinRating > 0 {
		params.Set("minRating", strconv.Itoa(f.MinRating))
	}
	if f.SortBy != "" {
		params.Set("sortBy", f.SortBy)
		params.Set("order", f.SortOrder)
	}
	if f.PriceRange.Min > domain.DefaultMinPrice {
		params.Set("minPrice", formatPrice(f.PriceRange.Min))
	}
	if f.PriceRange.Max < domain.DefaultMaxPrice {
		params.Set("maxPrice", formatPrice(f.PriceRange.Max))
	}

	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		params.Set("q", term)
		return Request{Path: PathSearch, Params: params}
	}

	return Request{Path: PathProducts, Params: params}
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
