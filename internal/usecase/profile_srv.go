package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"whats-poppin/internal/data/repository"
	"whats-poppin/internal/dto/request"
	"whats-poppin/internal/dto/response"
	"whats-poppin/pkg/utils"

	"go.uber.org/zap"
)

type ProfileService interface {
	GetProfile(ctx context.Context, identity utils.Identity) (*response.ProfileResponse, error)
	UpdateProfile(ctx context.Context, identity utils.Identity, req *request.UpdateProfileRequest) (*response.ProfileResponse, error)
}

type profileService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewProfileService(repo *repository.Repository, log *zap.Logger) ProfileService {
	return &profileService{
		repo: repo,
		log:  log.With(zap.String("service", "profile")),
	}
}

func (s *profileService) GetProfile(ctx context.Context, identity utils.Identity) (*response.ProfileResponse, error) {
	profile, err := s.repo.Profile.FindByUserID(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: profile", ErrNotFound)
	}

	resp := response.ProfileToResponse(profile, identity.Email)
	return &resp, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, identity utils.Identity, req *request.UpdateProfileRequest) (*response.ProfileResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	profile, err := s.repo.Profile.FindByUserID(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: profile", ErrNotFound)
	}

	if req.DisplayName != nil {
		profile.DisplayName = req.DisplayName
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = req.AvatarURL
	}
	profile.UpdatedAt = time.Now()

	if err := s.repo.Profile.Update(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: profile", ErrNotFound)
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.log.Info("Profile updated", zap.String("user_id", identity.UserID.String()))

	resp := response.ProfileToResponse(profile, identity.Email)
	return &resp, nil
}
