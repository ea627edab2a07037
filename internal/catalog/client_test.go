package catalog

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gani-23/KrushiGowrava/internal/domain"
	apperrors "github.com/Gani-23/KrushiGowrava/pkg/errors"
	"github.com/Gani-23/KrushiGowrava/pkg/httpclient"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := httpclient.NoRetryConfig()
	return NewClient(srv.URL+"/api", httpclient.New(cfg), testLogger())
}

// ============================================================================
// FetchProducts
// ============================================================================

func TestFetchProducts_BareArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]domain.Product{{ID: "p1", Title: "Apples"}})
	})

	products, err := c.FetchProducts(context.Background(), Request{Path: PathProducts})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
}

func TestFetchProducts_WrappedShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"products":[{"_id":"p1","title":"Apples"},{"_id":"p2","title":"Milk"}]}`))
	})

	products, err := c.FetchProducts(context.Background(), Request{Path: PathProducts})
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestFetchProducts_ForwardsQueryParams(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/search", r.URL.Path)
		assert.Equal(t, "apples", r.URL.Query().Get("q"))
		assert.Equal(t, "fruits", r.URL.Query().Get("category"))
		_, _ = w.Write([]byte(`[]`))
	})

	f := domain.DefaultFilterState()
	f.SearchTerm = "apples"
	f.Category = "fruits"

	_, err := c.FetchProducts(context.Background(), BuildQuery(f))
	require.NoError(t, err)
}

func TestFetchProducts_Non200IsUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad filter"}`, http.StatusBadRequest)
	})

	_, err := c.FetchProducts(context.Background(), Request{Path: PathProducts})
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestFetchProducts_UnparsableBodyIsUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	})

	_, err := c.FetchProducts(context.Background(), Request{Path: PathProducts})
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

// ============================================================================
// FetchRatingStats
// ============================================================================

func TestFetchRatingStats_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/p1/ratings", r.URL.Path)
		_, _ = w.Write([]byte(`{"averageRating":4.2,"totalRatings":17}`))
	})

	stats, err := c.FetchRatingStats(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 4.2, stats.AverageRating)
	assert.Equal(t, 17, stats.TotalRatings)
}

func TestFetchRatingStats_Failure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.FetchRatingStats(context.Background(), "p1")
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

// ============================================================================
// SubmitRating
// ============================================================================

func TestSubmitRating_ReturnsUpdatedProduct(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/products/p1/rate", r.URL.Path)

		var sub RatingSubmission
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sub))
		assert.Equal(t, "507f1f77bcf86cd799439011", sub.UserID)
		assert.Equal(t, 5, sub.Rating)

		_, _ = w.Write([]byte(`{"_id":"p1","title":"Apples","averageRating":4.8,"totalRatings":9}`))
	})

	updated, err := c.SubmitRating(context.Background(), "p1", RatingSubmission{
		UserID: "507f1f77bcf86cd799439011",
		Rating: 5,
		Review: "crisp",
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", updated.ID)
	assert.Equal(t, 4.8, updated.AverageRating)
}

func TestSubmitRating_RemoteErrorBodySurfaced(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"rating must be between 1 and 5"}`))
	})

	_, err := c.SubmitRating(context.Background(), "p1", RatingSubmission{UserID: "u", Rating: 9})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "rating must be between 1 and 5", appErr.Message)
}

func TestSubmitRating_UnparsableSuccessBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	})

	_, err := c.SubmitRating(context.Background(), "p1", RatingSubmission{UserID: "u", Rating: 4})
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}
