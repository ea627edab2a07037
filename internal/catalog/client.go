package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Gani-23/KrushiGowrava/internal/domain"
	apperrors "github.com/Gani-23/KrushiGowrava/pkg/errors"
)

// HTTPDoer is the outbound HTTP surface the client needs; satisfied by
// pkg/httpclient.CircuitBreakerClient.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client talks to the remote product API. All storefront business logic
// (inventory, pricing, rating aggregation) lives behind this API; the client
// only moves records back and forth.
type Client struct {
	baseURL string
	http    HTTPDoer
	logger  *slog.Logger
}

// NewClient creates a catalog client for the given API base URL
// (e.g. "https://host/api").
func NewClient(baseURL string, doer HTTPDoer, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    doer,
		logger:  logger,
	}
}

// RatingStats is the aggregate rating statistics record for one product.
type RatingStats struct {
	AverageRating float64        `json:"averageRating"`
	TotalRatings  int            `json:"totalRatings"`
	Distribution  map[string]int `json:"distribution,omitempty"`
}

// RatingSubmission is the payload for POST /products/{id}/rate.
type RatingSubmission struct {
	UserID string `json:"userId"`
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

// apiError is the remote API's error body shape.
type apiError struct {
	Error string `json:"error"`
}

// FetchProducts executes a built catalog query and returns the product list.
// The endpoint may return either a bare JSON array or {"products": [...]};
// both shapes are accepted.
func (c *Client) FetchProducts(ctx context.Context, q Request) ([]domain.Product, error) {
	url := c.baseURL + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create products request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, apperrors.Upstream("failed to fetch products", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Upstream("failed to fetch products", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Upstream("failed to fetch products", remoteError(resp.StatusCode, body))
	}

	products, err := decodeProducts(body)
	if err != nil {
		// Unparsable bodies are treated identically to transport failures.
		return nil, apperrors.Upstream("failed to fetch products", err)
	}

	c.logger.DebugContext(ctx, "catalog fetched",
		slog.String("query", q.Encode()),
		slog.Int("count", len(products)),
	)

	return products, nil
}

// FetchRatingStats retrieves aggregate rating statistics for a product.
func (c *Client) FetchRatingStats(ctx context.Context, productID string) (*RatingStats, error) {
	url := c.baseURL + PathProducts + "/" + productID + "/ratings"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create rating stats request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, apperrors.Upstream("failed to fetch rating statistics", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Upstream("failed to fetch rating statistics", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Upstream("failed to fetch rating statistics", remoteError(resp.StatusCode, body))
	}

	var stats RatingStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, apperrors.Upstream("failed to fetch rating statistics", err)
	}
	return &stats, nil
}

// SubmitRating posts a rating+review for a product. On success the response
// is the authoritative, fully updated product record. On a non-success
// status the remote error body ({"error": "..."}) is surfaced when present.
func (c *Client) SubmitRating(ctx context.Context, productID string, sub RatingSubmission) (*domain.Product, error) {
	url := c.baseURL + PathProducts + "/" + productID + "/rate"

	payload, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("marshal rating submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create rate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, apperrors.Upstream("failed to submit rating", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Upstream("failed to submit rating", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, apperrors.Upstream(ratingErrorMessage(body), remoteError(resp.StatusCode, body))
	}

	var updated domain.Product
	if err := json.Unmarshal(body, &updated); err != nil {
		return nil, apperrors.Upstream("invalid response from server", fmt.Errorf("decode updated product: %w", err))
	}
	if updated.ID == "" {
		return nil, apperrors.Upstream("invalid response from server", fmt.Errorf("updated product missing id"))
	}

	return &updated, nil
}

// decodeProducts accepts either a bare array or a {"products": [...]} wrapper.
func decodeProducts(body []byte) ([]domain.Product, error) {
	var products []domain.Product
	if err := json.Unmarshal(body, &products); err == nil {
		return products, nil
	}

	var wrapped struct {
		Products []domain.Product `json:"products"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	if wrapped.Products == nil {
		return nil, fmt.Errorf("decode products: unrecognized response shape")
	}
	return wrapped.Products, nil
}

// ratingErrorMessage extracts the remote {"error": "..."} message, falling
// back to a generic one for unparsable bodies.
func ratingErrorMessage(body []byte) string {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return apiErr.Error
	}
	if msg := strings.TrimSpace(string(body)); msg != "" && len(msg) < 200 {
		return msg
	}
	return "failed to submit rating"
}

func remoteError(status int, body []byte) error {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("status %d: %s", status, apiErr.Error)
	}
	return fmt.Errorf("status %d", status)
}
