package service

import (
	"context"

	"go.uber.org/zap"

	"fairway/backend/internal/repository"
	"fairway/backend/pkg/logger"
)

// FollowService manages the follow graph.
type FollowService interface {
	Follow(ctx context.Context, followerID, targetID string) error
	Unfollow(ctx context.Context, followerID, targetID string) error
	// IsFollowing never fails; lookup errors read as "not following".
	IsFollowing(ctx context.Context, followerID, targetID string) bool
}

type followService struct {
	follows  repository.FollowRepository
	profiles repository.ProfileRepository
}

func NewFollowService(follows repository.FollowRepository, profiles repository.ProfileRepository) FollowService {
	return &followService{follows: follows, profiles: profiles}
}

func (s *followService) Follow(ctx context.Context, followerID, targetID string) error {
	if followerID == targetID {
		return ErrFollowSelf
	}
	if _, err := s.profiles.Get(ctx, targetID); err != nil {
		return err
	}
	return s.follows.Create(ctx, followerID, targetID)
}

func (s *followService) Unfollow(ctx context.Context, followerID, targetID string) error {
	return s.follows.Delete(ctx, followerID, targetID)
}

func (s *followService) IsFollowing(ctx context.Context, followerID, targetID string) bool {
	if followerID == "" || followerID == targetID {
		return false
	}
	ok, err := s.follows.Exists(ctx, followerID, targetID)
	if err != nil {
		logger.Warn("follow status lookup failed", zap.String("follower_id", followerID), zap.String("target_id", targetID), zap.Error(err))
		return false
	}
	return ok
}
