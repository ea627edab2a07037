package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Gani-23/KrushiGowrava/internal/catalog"
	"github.com/Gani-23/KrushiGowrava/internal/domain"
	apperrors "github.com/Gani-23/KrushiGowrava/pkg/errors"
)

// RatingSubmitter is the remote rating surface the service needs; satisfied
// by catalog.Client.
type RatingSubmitter interface {
	SubmitRating(ctx context.Context, productID string, sub catalog.RatingSubmission) (*domain.Product, error)
	FetchRatingStats(ctx context.Context, productID string) (*catalog.RatingStats, error)
}

// SubmitRatingInput holds the parameters for a rating submission.
type SubmitRatingInput struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Review string `json:"review" validate:"max=2000"`
}

// RatingService drives the rating submission flow: anonymous sessions are
// rejected before any network call, at most one submission is in flight
// process-wide, and a successful submission patches the authoritative product
// record into the shared catalog snapshot.
type RatingService struct {
	client       RatingSubmitter
	snapshot     *catalog.Snapshot
	identity     *IdentityService
	inFlight     atomic.Bool
	statsTimeout time.Duration
	logger       *slog.Logger
}

// NewRatingService creates a new rating service.
func NewRatingService(client RatingSubmitter, snapshot *catalog.Snapshot, identity *IdentityService, logger *slog.Logger) *RatingService {
	return &RatingService{
		client:       client,
		snapshot:     snapshot,
		identity:     identity,
		statsTimeout: 10 * time.Second,
		logger:       logger,
	}
}

// Submit posts a rating for the product on behalf of the session and returns
// the updated product record. The snapshot is patched on success; on failure
// it is left untouched.
func (s *RatingService) Submit(ctx context.Context, sessionID, productID string, input SubmitRatingInput) (*domain.Product, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}

	identity, err := s.identity.Resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if identity.Anonymous() {
		return nil, apperrors.AuthRequired("please log in to rate products")
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, apperrors.InFlight("a rating submission is already in progress")
	}
	defer s.inFlight.Store(false)

	updated, err := s.client.SubmitRating(ctx, productID, catalog.RatingSubmission{
		UserID: identity.UserID,
		Rating: input.Rating,
		Review: input.Review,
	})
	if err != nil {
		return nil, err
	}

	if !s.snapshot.Patch(*updated) {
		s.logger.DebugContext(ctx, "rated product not in snapshot, patch skipped",
			slog.String("product_id", productID),
		)
	}

	s.logger.InfoContext(ctx, "rating submitted",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
		slog.Int("rating", input.Rating),
	)

	// Refresh the aggregate stats independently of the submission result
	// already in hand; a failure here only costs freshness.
	go s.refreshStats(productID)

	return updated, nil
}

// Existing returns the rating the session's user previously left on the
// product, so the form can be prefilled. An anonymous session or an unknown
// product has no existing rating.
func (s *RatingService) Existing(ctx context.Context, sessionID, productID string) (domain.Rating, bool, error) {
	identity, err := s.identity.Resolve(ctx, sessionID)
	if err != nil {
		return domain.Rating{}, false, err
	}
	if identity.Anonymous() {
		return domain.Rating{}, false, nil
	}

	product, ok := s.snapshot.Get(productID)
	if !ok {
		return domain.Rating{}, false, nil
	}

	rating, ok := product.RatingByUser(identity.UserID)
	return rating, ok, nil
}

func (s *RatingService) refreshStats(productID string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.statsTimeout)
	defer cancel()

	if _, err := s.client.FetchRatingStats(ctx, productID); err != nil {
		s.logger.WarnContext(ctx, "rating stats refresh failed",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}
