package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Gani-23/KrushiGowrava/internal/domain"
	"github.com/Gani-23/KrushiGowrava/internal/service"
	"github.com/Gani-23/KrushiGowrava/pkg/httputil"
	"github.com/Gani-23/KrushiGowrava/pkg/validator"
)

// RatingHandler handles HTTP requests for the rating submission flow.
type RatingHandler struct {
	service *service.RatingService
	logger  *slog.Logger
}

// NewRatingHandler creates a new rating HTTP handler.
func NewRatingHandler(svc *service.RatingService, logger *slog.Logger) *RatingHandler {
	return &RatingHandler{
		service: svc,
		logger:  logger,
	}
}

// ratingView is the response shape for a successful submission.
type ratingView struct {
	Product *domain.Product `json:"product"`
}

// existingView is the response shape for the prefill lookup.
type existingView struct {
	Rating *domain.Rating `json:"rating"`
}

// Submit handles POST /api/v1/products/{id}/rate
func (h *RatingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	var req service.SubmitRatingInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	updated, err := h.service.Submit(r.Context(), sessionIDFromContext(r.Context()), productID, req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ratingView{Product: updated}})
}

// Existing handles GET /api/v1/products/{id}/rating
func (h *RatingHandler) Existing(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	rating, ok, err := h.service.Existing(r.Context(), sessionIDFromContext(r.Context()), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	view := existingView{}
	if ok {
		view.Rating = &rating
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}
