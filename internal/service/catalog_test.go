package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gani-23/KrushiGowrava/internal/catalog"
	"github.com/Gani-23/KrushiGowrava/internal/domain"
)

// fakeCatalog records the queries it serves.
type fakeCatalog struct {
	mu       sync.Mutex
	queries  []string
	products []domain.Product
	fetches  atomic.Int64
}

func (f *fakeCatalog) FetchProducts(ctx context.Context, q catalog.Request) ([]domain.Product, error) {
	f.fetches.Add(1)
	f.mu.Lock()
	f.queries = append(f.queries, q.Encode())
	products := f.products
	f.mu.Unlock()
	return products, nil
}

func (f *fakeCatalog) FetchRatingStats(ctx context.Context, productID string) (*catalog.RatingStats, error) {
	return &catalog.RatingStats{AverageRating: 4, TotalRatings: 1}, nil
}

func (f *fakeCatalog) lastQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return ""
	}
	return f.queries[len(f.queries)-1]
}

func newCatalogService(fake *fakeCatalog, settle time.Duration) *CatalogService {
	return NewCatalogService(fake, settle, time.Second, discardLogger())
}

func TestCatalogService_PlainBrowseFetchesSynchronously(t *testing.T) {
	fake := &fakeCatalog{products: []domain.Product{
		{ID: "p1", Title: "Apples", Category: "fruits"},
		{ID: "p2", Title: "Milk", Category: "dairy"},
	}}
	svc := newCatalogService(fake, 500*time.Millisecond)

	result, err := svc.Browse(context.Background(), domain.DefaultFilterState())
	require.NoError(t, err)
	assert.Len(t, result.Products, 2)
	assert.Equal(t, []string{"all", "fruits", "dairy"}, result.Categories)
	assert.Equal(t, int64(1), fake.fetches.Load())
}

func TestCatalogService_SearchAnswersImmediatelyFromSnapshot(t *testing.T) {
	fake := &fakeCatalog{products: []domain.Product{
		{ID: "p1", Title: "Organic Apples"},
		{ID: "p2", Title: "Milk"},
	}}
	svc := newCatalogService(fake, time.Hour)
	t.Cleanup(svc.Stop)
	ctx := context.Background()

	// Seed the snapshot with a plain listing.
	_, err := svc.Browse(ctx, domain.DefaultFilterState())
	require.NoError(t, err)

	f := domain.DefaultFilterState()
	f.SearchTerm = "apple"
	result, err := svc.Browse(ctx, f)
	require.NoError(t, err)

	// The substring pass answers before any search request is sent.
	require.Len(t, result.Products, 1)
	assert.Equal(t, "p1", result.Products[0].ID)
	assert.Equal(t, int64(1), fake.fetches.Load())
}

func TestCatalogService_RapidSearchesCoalesceIntoOneFetch(t *testing.T) {
	fake := &fakeCatalog{products: []domain.Product{{ID: "p1", Title: "Apples"}}}
	svc := newCatalogService(fake, 30*time.Millisecond)
	t.Cleanup(svc.Stop)
	ctx := context.Background()

	for _, term := range []string{"a", "ap", "app"} {
		f := domain.DefaultFilterState()
		f.SearchTerm = term
		_, err := svc.Browse(ctx, f)
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		return fake.fetches.Load() == 1
	}, time.Second, 5*time.Millisecond)

	// Only the settled term reached the server.
	assert.Contains(t, fake.lastQuery(), "q=app")
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int64(1), fake.fetches.Load())
}

func TestCatalogService_DebouncedResultBecomesAuthoritative(t *testing.T) {
	fake := &fakeCatalog{products: []domain.Product{
		// The server search matches on fields the substring pass cannot see.
		{ID: "p9", Title: "Butter", Description: "churned cream"},
	}}
	svc := newCatalogService(fake, 10*time.Millisecond)
	t.Cleanup(svc.Stop)
	ctx := context.Background()

	f := domain.DefaultFilterState()
	f.SearchTerm = "butter"
	_, err := svc.Browse(ctx, f)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		result, err := svc.Browse(ctx, f)
		return err == nil && len(result.Products) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestCatalogService_ProductLookup(t *testing.T) {
	fake := &fakeCatalog{products: []domain.Product{{ID: "p1", Title: "Apples"}}}
	svc := newCatalogService(fake, time.Hour)

	_, err := svc.Browse(context.Background(), domain.DefaultFilterState())
	require.NoError(t, err)

	p, ok := svc.Product("p1")
	require.True(t, ok)
	assert.Equal(t, "Apples", p.Title)

	_, ok = svc.Product("missing")
	assert.False(t, ok)
}
