package service

import (
	"context"
	"errors"
	"fmt"

	"alumnet/internal/common"
	"alumnet/internal/domain/model"
	"alumnet/internal/domain/repository"
)

const exploreLimit = 5

type NetworkService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewNetworkService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *NetworkService {
	return &NetworkService{followRepo: followRepo, userRepo: userRepo}
}

// Follow creates the directed edge follower → target. Duplicates surface as
// ErrConflict from the store's unique constraint, never from a prior read.
func (s *NetworkService) Follow(ctx context.Context, followerID, targetID int64) error {
	if followerID == targetID {
		return fmt.Errorf("cannot follow yourself: %w", common.ErrBadRequest)
	}

	follow := &model.Follow{FollowerID: followerID, FollowingID: targetID}
	if err := s.followRepo.Create(ctx, follow); err != nil {
		if errors.Is(err, common.ErrConflict) || errors.Is(err, common.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to follow user: %w", err)
	}
	return nil
}

// Unfollow removes the edge if present. Unfollowing someone not followed is a
// no-op.
func (s *NetworkService) Unfollow(ctx context.Context, followerID, targetID int64) error {
	if err := s.followRepo.Delete(ctx, followerID, targetID); err != nil {
		return fmt.Errorf("failed to unfollow user: %w", err)
	}
	return nil
}

type NetworkResponse struct {
	Following []model.Profile `json:"following"`
	Followers []model.Profile `json:"followers"`
}

// Network returns who the user follows and who follows them.
func (s *NetworkService) Network(ctx context.Context, userID int64) (*NetworkResponse, error) {
	following, err := s.followRepo.ListFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	followers, err := s.followRepo.ListFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	return &NetworkResponse{Following: following, Followers: followers}, nil
}

// Explore suggests random users. An authenticated viewer never sees themselves
// or anyone they already follow.
func (s *NetworkService) Explore(ctx context.Context, viewerID *int64) ([]model.Profile, error) {
	profiles, err := s.userRepo.ListRandomProfiles(ctx, viewerID, exploreLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list explore profiles: %w", err)
	}
	return profiles, nil
}
