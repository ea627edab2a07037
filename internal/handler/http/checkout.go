package http

import (
	"log/slog"
	"net/http"

	"github.com/Gani-23/KrushiGowrava/internal/service"
	"github.com/Gani-23/KrushiGowrava/pkg/httputil"
)

// CheckoutHandler builds the WhatsApp checkout handoff.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// Link handles GET /api/v1/checkout/link
func (h *CheckoutHandler) Link(w http.ResponseWriter, r *http.Request) {
	link, err := h.service.Link(r.Context(), sessionIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: link})
}
