package memory

import (
	"context"
	"sync"

	apperrors "github.com/Gani-23/KrushiGowrava/pkg/errors"
)

// StateRepository is an in-memory repository.StateRepository, used in tests
// and as a degraded mode when Redis is unavailable.
type StateRepository struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

// NewStateRepository creates an empty in-memory session state repository.
func NewStateRepository() *StateRepository {
	return &StateRepository{
		sessions: make(map[string]map[string]string),
	}
}

// Get retrieves a session state entry.
func (r *StateRepository) Get(ctx context.Context, sessionID, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if value, ok := r.sessions[sessionID][key]; ok {
		return value, nil
	}
	return "", apperrors.NotFound("session state", sessionID+"/"+key)
}

// Set stores a session state entry.
func (r *StateRepository) Set(ctx context.Context, sessionID, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sessions[sessionID] == nil {
		r.sessions[sessionID] = make(map[string]string)
	}
	r.sessions[sessionID][key] = value
	return nil
}

// Delete removes session state entries.
func (r *StateRepository) Delete(ctx context.Context, sessionID string, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, k := range keys {
		delete(r.sessions[sessionID], k)
	}
	return nil
}
