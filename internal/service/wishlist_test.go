package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gani-23/KrushiGowrava/internal/repository"
	"github.com/Gani-23/KrushiGowrava/internal/repository/memory"
)

func newWishlistService(repo repository.StateRepository) (*WishlistService, *recordingPublisher) {
	pub := &recordingPublisher{}
	return NewWishlistService(repo, pub, discardLogger()), pub
}

func TestWishlistService_ToggleInsertsThenRemoves(t *testing.T) {
	svc, pub := newWishlistService(memory.NewStateRepository())
	ctx := context.Background()
	p := testProduct("p1", 10, 5)

	member, wl, err := svc.Toggle(ctx, "s1", p)
	require.NoError(t, err)
	assert.True(t, member)
	assert.True(t, wl.Contains("p1"))

	member, wl, err = svc.Toggle(ctx, "s1", p)
	require.NoError(t, err)
	assert.False(t, member)
	assert.False(t, wl.Contains("p1"))
	assert.Empty(t, wl.Items)

	assert.Equal(t, int64(2), pub.wishlistUpdated.Load())
}

func TestWishlistService_PersistsAcrossLoads(t *testing.T) {
	repo := memory.NewStateRepository()
	svc, _ := newWishlistService(repo)
	ctx := context.Background()

	_, _, err := svc.Toggle(ctx, "s1", testProduct("p1", 10, 5))
	require.NoError(t, err)

	svc2, _ := newWishlistService(repo)
	wl, err := svc2.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, wl.Contains("p1"))
}

func TestWishlistService_Remove(t *testing.T) {
	svc, _ := newWishlistService(memory.NewStateRepository())
	ctx := context.Background()

	_, _, err := svc.Toggle(ctx, "s1", testProduct("p1", 10, 5))
	require.NoError(t, err)

	wl, err := svc.Remove(ctx, "s1", "p1")
	require.NoError(t, err)
	assert.Empty(t, wl.Items)

	// Removing again is a quiet no-op.
	wl, err = svc.Remove(ctx, "s1", "p1")
	require.NoError(t, err)
	assert.Empty(t, wl.Items)
}

func TestWishlistService_CorruptStoredSetDegradesToEmpty(t *testing.T) {
	repo := memory.NewStateRepository()
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, "s1", repository.KeyWishlist, "[1,2"))

	svc, _ := newWishlistService(repo)
	wl, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, wl.Items)
}

func TestWishlistService_StorageFailureDoesNotFailToggle(t *testing.T) {
	svc, _ := newWishlistService(failingRepository{})

	member, wl, err := svc.Toggle(context.Background(), "s1", testProduct("p1", 10, 5))
	require.NoError(t, err)
	assert.True(t, member)
	assert.True(t, wl.Contains("p1"))
}
