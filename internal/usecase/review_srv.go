package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"whats-poppin/internal/data/entity"
	"whats-poppin/internal/data/repository"
	"whats-poppin/internal/dto/request"
	"whats-poppin/internal/dto/response"
	"whats-poppin/pkg/cache"
	"whats-poppin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	GetVenueReviews(ctx context.Context, venueID string) ([]response.ReviewResponse, error)
	GetVenueReviewStats(ctx context.Context, venueID string) (*response.ReviewStatsResponse, error)

	// caller-scoped: every user owns at most one review per venue
	GetMyReview(ctx context.Context, identity utils.Identity, venueID string) (*response.ReviewResponse, error)
	UpsertMyReview(ctx context.Context, identity utils.Identity, venueID string, req *request.UpsertReviewRequest) (*response.ReviewResponse, error)
	DeleteMyReview(ctx context.Context, identity utils.Identity, venueID string) error
}

type reviewService struct {
	repo  *repository.Repository
	cache cache.Cache
	log   *zap.Logger
}

func NewReviewService(repo *repository.Repository, c cache.Cache, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:  repo,
		cache: c,
		log:   log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) loadVenue(ctx context.Context, venueID string) (*entity.VenueWithStats, error) {
	id, err := uuid.Parse(venueID)
	if err != nil {
		return nil, invalid("invalid venue ID format")
	}

	venue, err := s.repo.Venue.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load venue: %w", err)
	}
	if venue == nil {
		return nil, fmt.Errorf("%w: venue %s", ErrNotFound, venueID)
	}
	return venue, nil
}

func (s *reviewService) GetVenueReviews(ctx context.Context, venueID string) ([]response.ReviewResponse, error) {
	venue, err := s.loadVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.repo.Review.FindByVenueID(ctx, venue.ID)
	if err != nil {
		return nil, fmt.Errorf("get venue reviews: %w", err)
	}

	items := make([]response.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		items = append(items, response.ReviewToResponse(r))
	}
	return items, nil
}

func (s *reviewService) GetVenueReviewStats(ctx context.Context, venueID string) (*response.ReviewStatsResponse, error) {
	venue, err := s.loadVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.Review.StatsByVenue(ctx, venue.ID)
	if err != nil {
		return nil, fmt.Errorf("get review stats: %w", err)
	}

	return &response.ReviewStatsResponse{
		AverageRating: stats.AverageRating,
		ReviewCount:   stats.ReviewCount,
	}, nil
}

func (s *reviewService) GetMyReview(ctx context.Context, identity utils.Identity, venueID string) (*response.ReviewResponse, error) {
	venue, err := s.loadVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}

	review, err := s.repo.Review.FindByUserAndVenue(ctx, identity.UserID, venue.ID)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	if review == nil {
		return nil, fmt.Errorf("%w: no review for this venue", ErrNotFound)
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) UpsertMyReview(ctx context.Context, identity utils.Identity, venueID string, req *request.UpsertReviewRequest) (*response.ReviewResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Upsert review validation failed", zap.Error(err))
		return nil, err
	}

	venue, err := s.loadVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	review, err := s.repo.Review.Upsert(ctx, &entity.Review{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		VenueID: venue.ID,
		UserID:  identity.UserID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return nil, fmt.Errorf("save review: %w", err)
	}

	s.invalidate(ctx, venue)

	s.log.Info("Review saved",
		zap.String("review_id", review.ID.String()),
		zap.String("user_id", identity.UserID.String()),
		zap.String("venue_id", venueID),
		zap.Int("rating", review.Rating),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) DeleteMyReview(ctx context.Context, identity utils.Identity, venueID string) error {
	venue, err := s.loadVenue(ctx, venueID)
	if err != nil {
		return err
	}

	if err := s.repo.Review.Delete(ctx, identity.UserID, venue.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: no review for this venue", ErrNotFound)
		}
		return fmt.Errorf("delete review: %w", err)
	}

	s.invalidate(ctx, venue)

	s.log.Info("Review deleted",
		zap.String("user_id", identity.UserID.String()),
		zap.String("venue_id", venueID),
	)
	return nil
}

// category listings carry review aggregates
func (s *reviewService) invalidate(ctx context.Context, venue *entity.VenueWithStats) {
	if err := s.cache.Delete(ctx, categoryCacheKey(venue.Category)); err != nil {
		s.log.Warn("Failed to invalidate venue cache", zap.Error(err))
	}
}
