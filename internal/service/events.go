package service

import (
	"context"

	"github.com/Gani-23/KrushiGowrava/internal/domain"
)

// EventPublisher is the analytics event surface the services need; satisfied
// by event.Producer. Publishing is always best-effort: a failed publish is
// logged by the caller and never fails the mutation.
type EventPublisher interface {
	PublishCartUpdated(ctx context.Context, sessionID string, cart *domain.Cart) error
	PublishCartCleared(ctx context.Context, sessionID string) error
	PublishWishlistUpdated(ctx context.Context, sessionID string, wl *domain.Wishlist) error
}
