package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Gani-23/KrushiGowrava/internal/domain"
)

// ============================================================================
// Default omission
// ============================================================================

func TestBuildQuery_DefaultsOmitEverythingButSort(t *testing.T) {
	req := BuildQuery(domain.DefaultFilterState())

	assert.Equal(t, PathProducts, req.Path)
	assert.Empty(t, req.Params.Get("category"))
	assert.Empty(t, req.Params.Get("minRating"))
	assert.Empty(t, req.Params.Get("minPrice"))
	assert.Empty(t, req.Params.Get("maxPrice"))
	// Sort is always carried when set.
	assert.Equal(t, domain.SortCreatedAt, req.Params.Get("sortBy"))
	assert.Equal(t, domain.OrderDesc, req.Params.Get("order"))
}

func TestBuildQuery_CategoryAllOmitted(t *testing.T) {
	f := domain.DefaultFilterState()
	f.Category = domain.CategoryAll

	req := BuildQuery(f)
	assert.NotContains(t, req.Params, "category")
}

func TestBuildQuery_CategoryIncluded(t *testing.T) {
	f := domain.DefaultFilterState()
	f.Category = "fruits"

	req := BuildQuery(f)
	assert.Equal(t, "fruits", req.Params.Get("category"))
}

func TestBuildQuery_MinRatingIncludedWhenPositive(t *testing.T) {
	f := domain.DefaultFilterState()
	f.MinRating = 4

	req := BuildQuery(f)
	assert.Equal(t, "4", req.Params.Get("minRating"))
}

func TestBuildQuery_PriceRangeDefaultsOmitted(t *testing.T) {
	f := domain.DefaultFilterState()
	f.PriceRange = domain.PriceRange{Min: 0, Max: 1000}

	req := BuildQuery(f)
	assert.NotContains(t, req.Params, "minPrice")
	assert.NotContains(t, req.Params, "maxPrice")
}

func TestBuildQuery_PriceRangeIncludedWhenNarrowed(t *testing.T) {
	f := domain.DefaultFilterState()
	f.PriceRange = domain.PriceRange{Min: 10.5, Max: 250}

	req := BuildQuery(f)
	assert.Equal(t, "10.5", req.Params.Get("minPrice"))
	assert.Equal(t, "250", req.Params.Get("maxPrice"))
}

// ============================================================================
// Sort handling
// ============================================================================

func TestBuildQuery_SortCarriesOrder(t *testing.T) {
	f := domain.DefaultFilterState()
	f.SortBy = domain.SortPrice
	f.SortOrder = domain.OrderAsc

	req := BuildQuery(f)
	assert.Equal(t, domain.SortPrice, req.Params.Get("sortBy"))
	assert.Equal(t, domain.OrderAsc, req.Params.Get("order"))
}

func TestBuildQuery_EmptySortOmitted(t *testing.T) {
	f := domain.DefaultFilterState()
	f.SortBy = ""

	req := BuildQuery(f)
	assert.NotContains(t, req.Params, "sortBy")
	assert.NotContains(t, req.Params, "order")
}

// ============================================================================
// Search routing
// ============================================================================

func TestBuildQuery_SearchTermRoutesToSearchPath(t *testing.T) {
	f := domain.DefaultFilterState()
	f.SearchTerm = "apples"

	req := BuildQuery(f)
	assert.Equal(t, PathSearch, req.Path)
	assert.Equal(t, "apples", req.Params.Get("q"))
}

func TestBuildQuery_SearchCarriesOtherFilters(t *testing.T) {
	f := domain.DefaultFilterState()
	f.SearchTerm = "apples"
	f.Category = "fruits"
	f.MinRating = 3

	req := BuildQuery(f)
	assert.Equal(t, PathSearch, req.Path)
	assert.Equal(t, "fruits", req.Params.Get("category"))
	assert.Equal(t, "3", req.Params.Get("minRating"))
}

func TestBuildQuery_BlankSearchTermUsesListing(t *testing.T) {
	f := domain.DefaultFilterState()
	f.SearchTerm = "   "

	req := BuildQuery(f)
	assert.Equal(t, PathProducts, req.Path)
	assert.NotContains(t, req.Params, "q")
}

// ============================================================================
// Encoding
// ============================================================================

func TestRequest_Encode(t *testing.T) {
	f := domain.DefaultFilterState()
	f.SortBy = ""
	req := BuildQuery(f)
	assert.Equal(t, PathProducts, req.Encode())

	f.Category = "dairy"
	req = BuildQuery(f)
	assert.Equal(t, PathProducts+"?category=dairy", req.Encode())
}

func TestBuildQuery_Deterministic(t *testing.T) {
	f := domain.DefaultFilterState()
	f.Category = "fruits"
	f.MinRating = 2
	f.PriceRange = domain.PriceRange{Min: 5, Max: 500}
	f.SearchTerm = "fresh"

	assert.Equal(t, BuildQuery(f).Encode(), BuildQuery(f).Encode())
}
