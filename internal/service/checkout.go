package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/Gani-23/KrushiGowrava/internal/domain"
	apperrors "github.com/Gani-23/KrushiGowrava/pkg/errors"
)

// CheckoutService hands the session cart off to WhatsApp: the order summary
// is rendered as a human-readable message and encoded into a wa.me link with
// the text pre-filled. Order processing from there on is a conversation, not
// an API.
type CheckoutService struct {
	cart           *CartService
	whatsappNumber string
	logger         *slog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(cart *CartService, whatsappNumber string, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		cart:           cart,
		whatsappNumber: whatsappNumber,
		logger:         logger,
	}
}

// CheckoutLink is the WhatsApp handoff for a session cart.
type CheckoutLink struct {
	Message string `json:"message"`
	Link    string `json:"link"`
}

// Link builds the WhatsApp handoff link for the session's cart. An empty
// cart is an error.
func (s *CheckoutService) Link(ctx context.Context, sessionID string) (*CheckoutLink, error) {
	cart, err := s.cart.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	message := OrderMessage(cart)
	link := "https://wa.me/" + s.whatsappNumber + "?text=" + url.QueryEscape(message)

	s.logger.InfoContext(ctx, "checkout link built",
		slog.String("session_id", sessionID),
		slog.Int("item_count", cart.ItemCount()),
	)

	return &CheckoutLink{Message: message, Link: link}, nil
}

// OrderMessage renders the cart as the human-readable order summary: one
// line per item with quantity and the two-decimal line total, then the
// two-decimal grand total in rupees.
func OrderMessage(cart *domain.Cart) string {
	var b strings.Builder
	b.WriteString("Order Summary:\n")
	for _, item := range cart.Items {
		lineTotal := item.Price * float64(item.Quantity)
		fmt.Fprintf(&b, "%s (x%d) - ₹%.2f\n", item.Title, item.Quantity, lineTotal)
	}
	fmt.Fprintf(&b, "Total: ₹%.2f", cart.Total())
	return b.String()
}
