package service

import (
	"context"
	"fmt"

	"alumnet/internal/common"
	"alumnet/internal/domain/model"
	"alumnet/internal/domain/repository"
)

type ProfileService struct {
	userRepo  repository.UserRepository
	mediaRepo repository.MediaRepository
}

func NewProfileService(userRepo repository.UserRepository, mediaRepo repository.MediaRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo, mediaRepo: mediaRepo}
}

type UpdateProfileRequest struct {
	Name      *string `json:"name,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Contact   *string `json:"contact,omitempty"`
	PicID     *int64  `json:"pic,omitempty"`
	Onboarded *bool   `json:"onboarded,omitempty"`
}

// Own returns the caller's full profile.
func (s *ProfileService) Own(ctx context.Context, userID int64) (*model.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// Update applies a partial profile update and returns the updated user.
func (s *ProfileService) Update(ctx context.Context, userID int64, req UpdateProfileRequest) (*model.User, error) {
	if req.Name == nil && req.Bio == nil && req.Contact == nil && req.PicID == nil && req.Onboarded == nil {
		return nil, fmt.Errorf("no fields to update: %w", common.ErrValidation)
	}
	if req.Name != nil && *req.Name == "" {
		return nil, fmt.Errorf("name cannot be empty: %w", common.ErrValidation)
	}

	if req.PicID != nil {
		if _, err := s.mediaRepo.FindByID(ctx, *req.PicID); err != nil {
			return nil, fmt.Errorf("profile picture media %d not found: %w", *req.PicID, common.ErrNotFound)
		}
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, repository.ProfileUpdate{
		Name:      req.Name,
		Bio:       req.Bio,
		Contact:   req.Contact,
		PicID:     req.PicID,
		Onboarded: req.Onboarded,
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Public returns the profile card shown to other users.
func (s *ProfileService) Public(ctx context.Context, profileID int64) (*model.Profile, error) {
	return s.userRepo.GetProfile(ctx, profileID)
}
