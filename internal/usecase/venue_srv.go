package usecase

import (
	"context"
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

const (
	defaultTrendingLimit = 10
	maxTrendingLimit     = 50
)

type VenueService interface {
	ListByCategory(ctx context.Context, category string) ([]response.VenueResponse, error)
	Trending(ctx context.Context, limit int) ([]response.VenueResponse, error)
	GetVenue(ctx context.Context, venueID string) (*response.VenueResponse, error)

	SubmitHiddenGem(ctx context.Context, identity utils.Identity, req *request.SubmitHiddenGemRequest) (*response.VenueResponse, error)
	CreateVenue(ctx context.Context, identity utils.Identity, req *request.CreateVenueRequest) (*response.VenueResponse, error)
}

type venueService struct {
	repo  *repository.Repository
	cache cache.Cache
	log   *zap.Logger
}

func NewVenueService(repo *repository.Repository, c cache.Cache, log *zap.Logger) VenueService {
	return &venueService{
		repo:  repo,
		cache: c,
		log:   log.With(zap.String("service", "venue")),
	}
}

func categoryCacheKey(category entity.VenueCategory) string {
	return "venues:category:" + string(category)
}

func (s *venueService) ListByCategory(ctx context.Context, category string) ([]response.VenueResponse, error) {
	c := entity.VenueCategory(category)
	if !c.Valid() {
		return nil, invalid("unknown category %q", category)
	}

	key := categoryCacheKey(c)
	var cached []response.VenueResponse
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("Venue cache read failed", zap.Error(err), zap.String("key", key))
	}
	if hit {
		return cached, nil
	}

	venues, err := s.repo.Venue.FindByCategory(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}

	items := make([]response.VenueResponse, 0, len(venues))
	for _, v := range venues {
		items = append(items, response.VenueWithStatsToResponse(v))
	}

	if err := s.cache.Set(ctx, key, items); err != nil {
		s.log.Warn("Venue cache write failed", zap.Error(err), zap.String("key", key))
	}

	return items, nil
}

func (s *venueService) Trending(ctx context.Context, limit int) ([]response.VenueResponse, error) {
	if limit < 1 {
		limit = defaultTrendingLimit
	}
	if limit > maxTrendingLimit {
		limit = maxTrendingLimit
	}

	venues, err := s.repo.Venue.FindTrending(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list trending venues: %w", err)
	}

	items := make([]response.VenueResponse, 0, len(venues))
	for _, v := range venues {
		items = append(items, response.VenueWithStatsToResponse(v))
	}
	return items, nil
}

func (s *venueService) GetVenue(ctx context.Context, venueID string) (*response.VenueResponse, error) {
	id, err := uuid.Parse(venueID)
	if err != nil {
		return nil, invalid("invalid venue ID format")
	}

	venue, err := s.repo.Venue.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get venue: %w", err)
	}
	if venue == nil {
		return nil, fmt.Errorf("%w: venue %s", ErrNotFound, venueID)
	}

	resp := response.VenueWithStatsToResponse(venue)
	return &resp, nil
}

func (s *venueService) SubmitHiddenGem(ctx context.Context, identity utils.Identity, req *request.SubmitHiddenGemRequest) (*response.VenueResponse, error) {
	req.Trim()
	if err := validate(req); err != nil {
		s.log.Warn("Hidden gem validation failed", zap.Error(err))
		return nil, err
	}
	if !req.HasLocation() {
		return nil, invalid("location required")
	}

	now := time.Now()
	submitter := identity.UserID
	venue := &entity.Venue{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Category:    entity.CategoryHiddenGems,
		Address:     &req.Address,
		Description: &req.Description,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
		ImageURL:    req.ImageURL,
		IsHiddenGem: true,
		SubmittedBy: &submitter,
	}

	return s.create(ctx, venue)
}

func (s *venueService) CreateVenue(ctx context.Context, identity utils.Identity, req *request.CreateVenueRequest) (*response.VenueResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	category := entity.VenueCategory(req.Category)
	venue := &entity.Venue{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Category:    category,
		Address:     req.Address,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		ImageURL:    req.ImageURL,
		IsHiddenGem: category == entity.CategoryHiddenGems,
	}

	s.log.Info("Operator creating venue", zap.String("admin_id", identity.UserID.String()))
	return s.create(ctx, venue)
}

func (s *venueService) create(ctx context.Context, venue *entity.Venue) (*response.VenueResponse, error) {
	if err := s.repo.Venue.Create(ctx, venue); err != nil {
		return nil, fmt.Errorf("create venue: %w", err)
	}

	if err := s.cache.Delete(ctx, categoryCacheKey(venue.Category)); err != nil {
		s.log.Warn("Failed to invalidate venue cache", zap.Error(err))
	}

	s.log.Info("Venue created",
		zap.String("venue_id", venue.ID.String()),
		zap.String("category", string(venue.Category)),
		zap.Bool("hidden_gem", venue.IsHiddenGem),
	)

	resp := response.VenueToResponse(venue)
	return &resp, nil
}
