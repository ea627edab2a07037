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

// WishlistService implements the session wishlist set. Storage follows the
// same best-effort contract as the cart: mutations never fail on a broken
// mirror, and unusable stored state degrades to an empty set.
type WishlistService struct {
	repo     repository.StateRepository
	producer EventPublisher
	logger   *slog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(repo repository.StateRepository, producer EventPublisher, logger *slog.Logger) *WishlistService {
	return &WishlistService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// Get returns the session's wishlist, empty when nothing usable is stored.
func (s *WishlistService) Get(ctx context.Context, sessionID string) (*domain.Wishlist, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	return s.load(ctx, sessionID), nil
}

// Toggle flips the product's membership and reports whether it is a member
// after the call.
func (s *WishlistService) Toggle(ctx context.Context, sessionID string, product domain.Product) (bool, *domain.Wishlist, error) {
	if sessionID == "" {
		return false, nil, apperrors.InvalidInput("session id is required")
	}
	if product.ID == "" {
		return false, nil, apperrors.InvalidInput("product id is required")
	}

	wl := s.load(ctx, sessionID)
	member := wl.Toggle(product)

	s.persist(ctx, sessionID, wl)
	s.publishUpdated(ctx, sessionID, wl)

	s.logger.InfoContext(ctx, "wishlist toggled",
		slog.String("session_id", sessionID),
		slog.String("product_id", product.ID),
		slog.Bool("member", member),
	)

	return member, wl, nil
}

// Remove deletes the product from the set. Removing an absent product is a
// no-op.
func (s *WishlistService) Remove(ctx context.Context, sessionID, productID string) (*domain.Wishlist, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	wl := s.load(ctx, sessionID)
	wl.Remove(productID)

	s.persist(ctx, sessionID, wl)
	s.publishUpdated(ctx, sessionID, wl)

	return wl, nil
}

func (s *WishlistService) load(ctx context.Context, sessionID string) *domain.Wishlist {
	wl := &domain.Wishlist{Items: []domain.Product{}}

	raw, err := s.repo.Get(ctx, sessionID, repository.KeyWishlist)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to load stored wishlist, starting empty",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
		return wl
	}

	var items []domain.Product
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.WarnContext(ctx, "stored wishlist is corrupt, starting empty",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return wl
	}

	wl.Items = items
	return wl
}

func (s *WishlistService) persist(ctx context.Context, sessionID string, wl *domain.Wishlist) {
	raw, err := json.Marshal(wl.Items)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encode wishlist for storage",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.repo.Set(ctx, sessionID, repository.KeyWishlist, string(raw)); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist wishlist",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *WishlistService) publishUpdated(ctx context.Context, sessionID string, wl *domain.Wishlist) {
	if err := s.producer.PublishWishlistUpdated(ctx, sessionID, wl); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.updated event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}
