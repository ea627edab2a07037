package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/Gani-23/KrushiGowrava/internal/domain"
	"github.com/Gani-23/KrushiGowrava/internal/repository"
	apperrors "github.com/Gani-23/KrushiGowrava/pkg/errors"
)

// CartService implements the session cart ledger. Mutations apply to the
// in-memory ledger first and are mirrored to the state repository afterwards;
// a failed mirror is logged and the mutation still succeeds. A session whose
// stored cart is absent or corrupt starts from an empty ledger.
type CartService struct {
	repo     repository.StateRepository
	producer EventPublisher
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.StateRepository, producer EventPublisher, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// Get returns the session's cart, empty when nothing usable is stored.
func (s *CartService) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	return s.load(ctx, sessionID), nil
}

// AddItem adds one unit of the product to the cart. Adding an out-of-stock
// product leaves the cart unchanged.
func (s *CartService) AddItem(ctx context.Context, sessionID string, product domain.Product) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if product.ID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	cart := s.load(ctx, sessionID)
	if !cart.Add(product) {
		s.logger.InfoContext(ctx, "add to cart skipped, product out of stock",
			slog.String("session_id", sessionID),
			slog.String("product_id", product.ID),
		)
		return cart, nil
	}

	s.persist(ctx, sessionID, cart)
	s.publishUpdated(ctx, sessionID, cart)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", product.ID),
		slog.Int("item_count", cart.ItemCount()),
	)

	return cart, nil
}

// SetQuantity sets the quantity for a cart line. A quantity below 1 removes
// the line.
func (s *CartService) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	cart := s.load(ctx, sessionID)
	cart.SetQuantity(productID, quantity)

	s.persist(ctx, sessionID, cart)
	s.publishUpdated(ctx, sessionID, cart)

	s.logger.InfoContext(ctx, "cart quantity updated",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// RemoveItem removes a cart line. Removing an absent line is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	cart := s.load(ctx, sessionID)
	cart.Remove(productID)

	s.persist(ctx, sessionID, cart)
	s.publishUpdated(ctx, sessionID, cart)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
	)

	return cart, nil
}

// Clear empties the session's cart.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.repo.Delete(ctx, sessionID, repository.KeyCart); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear stored cart",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishCartCleared(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", sessionID),
	)

	return nil
}

// load reads the stored cart for the session. Anything unusable (absent key,
// repository failure, corrupt JSON) degrades to an empty cart.
func (s *CartService) load(ctx context.Context, sessionID string) *domain.Cart {
	cart := &domain.Cart{Items: []domain.CartItem{}}

	raw, err := s.repo.Get(ctx, sessionID, repository.KeyCart)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to load stored cart, starting empty",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
		return cart
	}

	var items []domain.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.WarnContext(ctx, "stored cart is corrupt, starting empty",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return cart
	}

	cart.Items = items
	return cart
}

// persist mirrors the cart to the state repository. Failures are logged and
// swallowed; the in-memory mutation already succeeded.
func (s *CartService) persist(ctx context.Context, sessionID string, cart *domain.Cart) {
	raw, err := json.Marshal(cart.Items)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encode cart for storage",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.repo.Set(ctx, sessionID, repository.KeyCart, string(raw)); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist cart",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CartService) publishUpdated(ctx context.Context, sessionID string, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, sessionID, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}
