package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Gani-23/KrushiGowrava/internal/domain"
	"github.com/Gani-23/KrushiGowrava/internal/service"
	apperrors "github.com/Gani-23/KrushiGowrava/pkg/errors"
	"github.com/Gani-23/KrushiGowrava/pkg/httputil"
)

// CatalogHandler handles HTTP requests for catalog browsing endpoints.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// Browse handles GET /api/v1/products
func (h *CatalogHandler) Browse(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	result, err := h.service.Browse(r.Context(), f)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// RatingStats handles GET /api/v1/products/{id}/ratings
func (h *CatalogHandler) RatingStats(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	stats, err := h.service.RatingStats(r.Context(), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: stats})
}

// filterFromQuery builds a FilterState from request query parameters,
// starting from the default state so omitted parameters keep their defaults.
func filterFromQuery(r *http.Request) (domain.FilterState, error) {
	f := domain.DefaultFilterState()
	q := r.URL.Query()

	if v := q.Get("category"); v != "" {
		f.Category = v
	}
	if v := q.Get("minRating"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 5 {
			return f, apperrors.InvalidInput("minRating must be an integer between 0 and 5")
		}
		f.MinRating = n
	}
	if v := q.Get("minPrice"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p < 0 {
			return f, apperrors.InvalidInput("minPrice must be a non-negative number")
		}
		f.PriceRange.Min = p
	}
	if v := q.Get("maxPrice"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p < 0 {
			return f, apperrors.InvalidInput("maxPrice must be a non-negative number")
		}
		f.PriceRange.Max = p
	}
	if f.PriceRange.Min > f.PriceRange.Max {
		return f, apperrors.InvalidInput("minPrice must not exceed maxPrice")
	}
	if v := q.Get("sortBy"); v != "" {
		if !domain.ValidSortBy(v) {
			return f, apperrors.InvalidInput("sortBy must be one of createdAt, price, averageRating")
		}
		f.SortBy = v
	}
	if v := q.Get("order"); v != "" {
		if !domain.ValidSortOrder(v) {
			return f, apperrors.InvalidInput("order must be asc or desc")
		}
		f.SortOrder = v
	}
	f.SearchTerm = q.Get("q")

	return f, nil
}
