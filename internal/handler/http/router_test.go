package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gani-23/KrushiGowrava/internal/catalog"
	"github.com/Gani-23/KrushiGowrava/internal/chatbot"
	"github.com/Gani-23/KrushiGowrava/internal/domain"
	"github.com/Gani-23/KrushiGowrava/internal/repository/memory"
	"github.com/Gani-23/KrushiGowrava/internal/service"
	"github.com/Gani-23/KrushiGowrava/pkg/health"
	"github.com/Gani-23/KrushiGowrava/pkg/httpclient"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// noopPublisher satisfies service.EventPublisher without a broker.
type noopPublisher struct{}

func (noopPublisher) PublishCartUpdated(ctx context.Context, sessionID string, cart *domain.Cart) error {
	return nil
}

func (noopPublisher) PublishCartCleared(ctx context.Context, sessionID string) error {
	return nil
}

func (noopPublisher) PublishWishlistUpdated(ctx context.Context, sessionID string, wl *domain.Wishlist) error {
	return nil
}

// newTestServer wires the full router over in-memory state and httptest
// stand-ins for the remote catalog and chatbot.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := testLogger()

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			// Rating submission echoes an updated product record.
			_, _ = fmt.Fprintf(w, `{"_id":"p1","title":"Organic Apples","price":100,"stock":5,"averageRating":4.5,"totalRatings":2}`)
		case r.URL.Path == "/api/products/p1/ratings":
			_, _ = w.Write([]byte(`{"averageRating":4.5,"totalRatings":2}`))
		default:
			_, _ = w.Write([]byte(`[{"_id":"p1","title":"Organic Apples","price":100,"stock":5,"category":"fruits"}]`))
		}
	}))
	t.Cleanup(remote.Close)

	bot := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":"Hello from the farm!"}`))
	}))
	t.Cleanup(bot.Close)

	repo := memory.NewStateRepository()
	doer := httpclient.New(httpclient.NoRetryConfig())
	catalogClient := catalog.NewClient(remote.URL+"/api", doer, logger)

	cartSvc := service.NewCartService(repo, noopPublisher{}, logger)
	wishlistSvc := service.NewWishlistService(repo, noopPublisher{}, logger)
	catalogSvc := service.NewCatalogService(catalogClient, 10*time.Millisecond, time.Second, logger)
	t.Cleanup(catalogSvc.Stop)
	identitySvc := service.NewIdentityService(repo, logger)
	ratingSvc := service.NewRatingService(catalogClient, catalogSvc.Snapshot(), identitySvc, logger)
	checkoutSvc := service.NewCheckoutService(cartSvc, "9182345999", logger)
	chatRelay := chatbot.NewClient(bot.URL+"/api/chat", doer, logger)

	router := NewRouter(Services{
		Cart:     cartSvc,
		Wishlist: wishlistSvc,
		Catalog:  catalogSvc,
		Rating:   ratingSvc,
		Identity: identitySvc,
		Checkout: checkoutSvc,
		Chatbot:  chatRelay,
	}, health.NewHandler(), logger)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, sessionID string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var envelope map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func TestRouter_SessionHeaderRequired(t *testing.T) {
	srv := newTestServer(t)

	resp, envelope := do(t, srv, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(envelope["error"]), "X-Session-ID")
}

func TestRouter_CartRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	product := domain.Product{ID: "p1", Title: "Organic Apples", Price: 100, Stock: 5}

	resp, _ := do(t, srv, http.MethodPost, "/api/v1/cart/items", "s1", AddItemRequest{Product: product})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, envelope := do(t, srv, http.MethodGet, "/api/v1/cart", "s1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view cartView
	require.NoError(t, json.Unmarshal(envelope["data"], &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.ItemCount)
	assert.Equal(t, 100.0, view.Total)

	resp, _ = do(t, srv, http.MethodPut, "/api/v1/cart/items/p1", "s1", UpdateQuantityRequest{Quantity: 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, envelope = do(t, srv, http.MethodGet, "/api/v1/cart", "s1", nil)
	require.NoError(t, json.Unmarshal(envelope["data"], &view))
	assert.Equal(t, 3, view.ItemCount)
	assert.Equal(t, 300.0, view.Total)

	resp, _ = do(t, srv, http.MethodDelete, "/api/v1/cart", "s1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, envelope = do(t, srv, http.MethodGet, "/api/v1/cart", "s1", nil)
	require.NoError(t, json.Unmarshal(envelope["data"], &view))
	assert.Empty(t, view.Items)
}

func TestRouter_WishlistToggle(t *testing.T) {
	srv := newTestServer(t)
	product := domain.Product{ID: "p1", Title: "Organic Apples", Price: 100, Stock: 5}

	resp, envelope := do(t, srv, http.MethodPost, "/api/v1/wishlist/toggle", "s1", ToggleRequest{Product: product})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view wishlistView
	require.NoError(t, json.Unmarshal(envelope["data"], &view))
	require.NotNil(t, view.Member)
	assert.True(t, *view.Member)
	assert.Len(t, view.Items, 1)

	_, envelope = do(t, srv, http.MethodPost, "/api/v1/wishlist/toggle", "s1", ToggleRequest{Product: product})
	require.NoError(t, json.Unmarshal(envelope["data"], &view))
	assert.False(t, *view.Member)
	assert.Empty(t, view.Items)
}

func TestRouter_BrowseProducts(t *testing.T) {
	srv := newTestServer(t)

	resp, envelope := do(t, srv, http.MethodGet, "/api/v1/products", "s1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result service.BrowseResult
	require.NoError(t, json.Unmarshal(envelope["data"], &result))
	require.Len(t, result.Products, 1)
	assert.Equal(t, "Organic Apples", result.Products[0].Title)
	assert.Equal(t, []string{"all", "fruits"}, result.Categories)
}

func TestRouter_BrowseRejectsBadSort(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := do(t, srv, http.MethodGet, "/api/v1/products?sortBy=bogus", "s1", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_RatingRequiresLogin(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := do(t, srv, http.MethodPost, "/api/v1/products/p1/rate", "s1", service.SubmitRatingInput{Rating: 5})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_RatingAfterLogin(t *testing.T) {
	srv := newTestServer(t)

	// Seed the snapshot so the patched product is observable.
	resp, _ := do(t, srv, http.MethodGet, "/api/v1/products", "s1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, envelope := do(t, srv, http.MethodPost, "/api/v1/session/login", "s1", LoginRequest{Username: "asha"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var identity domain.Identity
	require.NoError(t, json.Unmarshal(envelope["data"], &identity))
	assert.Len(t, identity.UserID, domain.ObjectIDLength)

	resp, envelope = do(t, srv, http.MethodPost, "/api/v1/products/p1/rate", "s1", service.SubmitRatingInput{Rating: 5, Review: "fresh"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view ratingView
	require.NoError(t, json.Unmarshal(envelope["data"], &view))
	require.NotNil(t, view.Product)
	assert.Equal(t, 4.5, view.Product.AverageRating)
}

func TestRouter_ChatRelay(t *testing.T) {
	srv := newTestServer(t)

	resp, envelope := do(t, srv, http.MethodPost, "/api/v1/chat", "s1", ChatRequest{Message: "hi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reply chatbot.Reply
	require.NoError(t, json.Unmarshal(envelope["data"], &reply))
	assert.Equal(t, "Hello from the farm!", reply.Response)
}

func TestRouter_CheckoutLink(t *testing.T) {
	srv := newTestServer(t)
	product := domain.Product{ID: "p1", Title: "Organic Apples", Price: 100, Stock: 5}

	// Empty cart is rejected.
	resp, _ := do(t, srv, http.MethodGet, "/api/v1/checkout/link", "s1", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, _ = do(t, srv, http.MethodPost, "/api/v1/cart/items", "s1", AddItemRequest{Product: product})

	resp, envelope := do(t, srv, http.MethodGet, "/api/v1/checkout/link", "s1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var link service.CheckoutLink
	require.NoError(t, json.Unmarshal(envelope["data"], &link))
	assert.Contains(t, link.Link, "https://wa.me/9182345999?text=")
	assert.Contains(t, link.Message, "Organic Apples (x1)")
}

func TestRouter_HealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health/live")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/health/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
