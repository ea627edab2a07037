package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Gani-23/KrushiGowrava/internal/domain"
	"github.com/Gani-23/KrushiGowrava/internal/repository"
	apperrors "github.com/Gani-23/KrushiGowrava/pkg/errors"
)

// IdentityService resolves the per-session user identity. A session with no
// stored display name is anonymous and never gets a user id. A session with a
// display name always resolves to a well-formed 24-hex user id: a missing or
// malformed stored id is regenerated and persisted, and the id then stays
// stable for as long as the display name remains.
type IdentityService struct {
	repo   repository.StateRepository
	logger *slog.Logger
}

// NewIdentityService creates a new identity service.
func NewIdentityService(repo repository.StateRepository, logger *slog.Logger) *IdentityService {
	return &IdentityService{
		repo:   repo,
		logger: logger,
	}
}

// Resolve returns the session's identity.
func (s *IdentityService) Resolve(ctx context.Context, sessionID string) (domain.Identity, error) {
	if sessionID == "" {
		return domain.Identity{}, apperrors.InvalidInput("session id is required")
	}

	name, err := s.repo.Get(ctx, sessionID, repository.KeyUsername)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Identity{}, nil
		}
		return domain.Identity{}, fmt.Errorf("load username: %w", err)
	}
	if name == "" {
		return domain.Identity{}, nil
	}

	id, err := s.repo.Get(ctx, sessionID, repository.KeyUserID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return domain.Identity{}, fmt.Errorf("load user id: %w", err)
	}

	if !domain.ValidObjectID(id) {
		id = domain.NewObjectID()
		if err := s.repo.Set(ctx, sessionID, repository.KeyUserID, id); err != nil {
			// The freshly generated id still serves this request; it will be
			// regenerated next time if the store never catches up.
			s.logger.WarnContext(ctx, "failed to persist generated user id",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		} else {
			s.logger.InfoContext(ctx, "generated user id for session",
				slog.String("session_id", sessionID),
			)
		}
	}

	return domain.Identity{DisplayName: name, UserID: id}, nil
}

// Login associates a display name with the session and resolves the identity.
func (s *IdentityService) Login(ctx context.Context, sessionID, displayName string) (domain.Identity, error) {
	if sessionID == "" {
		return domain.Identity{}, apperrors.InvalidInput("session id is required")
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return domain.Identity{}, apperrors.InvalidInput("display name is required")
	}

	if err := s.repo.Set(ctx, sessionID, repository.KeyUsername, displayName); err != nil {
		return domain.Identity{}, fmt.Errorf("store username: %w", err)
	}

	identity, err := s.Resolve(ctx, sessionID)
	if err != nil {
		return domain.Identity{}, err
	}

	s.logger.InfoContext(ctx, "session signed in",
		slog.String("session_id", sessionID),
	)

	return identity, nil
}

// Clear erases the session's identity, both display name and user id.
func (s *IdentityService) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.repo.Delete(ctx, sessionID, repository.KeyUsername, repository.KeyUserID); err != nil {
		return fmt.Errorf("clear identity: %w", err)
	}

	s.logger.InfoContext(ctx, "session signed out",
		slog.String("session_id", sessionID),
	)

	return nil
}
