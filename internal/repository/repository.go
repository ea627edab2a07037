package repository

import "context"

// Well-known state keys mirrored from the browser storage the storefront
// originally persisted into.
const (
	KeyCart     = "cart"
	KeyWishlist = "wishlist"
	KeyUsername = "username"
	KeyUserID   = "userId"
)

// StateRepository persists per-session storefront state as string-keyed
// entries. Values are opaque to the repository; collections are stored as
// JSON by the service layer.
type StateRepository interface {
	// Get retrieves the value stored under key for the session.
	// Returns an error wrapping apperrors.ErrNotFound when absent.
	Get(ctx context.Context, sessionID, key string) (string, error)

	// Set stores value under key for the session, overwriting any prior value.
	Set(ctx context.Context, sessionID, key, value string) error

	// Delete removes the given keys for the session. Missing keys are ignored.
	Delete(ctx context.Context, sessionID string, keys ...string) error
}
