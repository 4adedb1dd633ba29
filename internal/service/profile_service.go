package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"fairway/backend/internal/models"
	"fairway/backend/internal/photo"
	"fairway/backend/internal/repository"
	"fairway/backend/internal/storage"
	"fairway/backend/pkg/logger"
)

// UpdateProfileInput carries the editable profile fields; nil leaves a field unchanged.
type UpdateProfileInput struct {
	Username *string
	FullName *string
	Bio      *string
	Location *string
	Handicap *float64
}

// PublicProfile is a profile as seen by another user.
type PublicProfile struct {
	models.Profile
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	IsFollowing    bool  `json:"is_following"`
}

type ProfileService struct {
	profiles   repository.ProfileRepository
	follows    repository.FollowRepository
	followSvc  FollowService
	store      storage.Store
	compressor *photo.Compressor
}

func NewProfileService(
	profiles repository.ProfileRepository,
	follows repository.FollowRepository,
	followSvc FollowService,
	store storage.Store,
	compressor *photo.Compressor,
) *ProfileService {
	return &ProfileService{profiles: profiles, follows: follows, followSvc: followSvc, store: store, compressor: compressor}
}

// Ensure returns the caller's profile, creating it on the first authenticated request.
func (s *ProfileService) Ensure(ctx context.Context, id, usernameHint string) (*models.Profile, error) {
	return s.profiles.Ensure(ctx, id, usernameHint)
}

func (s *ProfileService) Get(ctx context.Context, id string) (*models.Profile, error) {
	return s.profiles.Get(ctx, id)
}

func (s *ProfileService) Public(ctx context.Context, viewerID, id string) (*PublicProfile, error) {
	p, err := s.profiles.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	followers, following, err := s.follows.Counts(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PublicProfile{
		Profile:        *p,
		FollowersCount: followers,
		FollowingCount: following,
		IsFollowing:    s.followSvc.IsFollowing(ctx, viewerID, id),
	}, nil
}

func (s *ProfileService) Search(ctx context.Context, query string, offset, limit int) ([]models.Profile, int64, error) {
	return s.profiles.Search(ctx, strings.TrimSpace(query), offset, limit)
}

func (s *ProfileService) Update(ctx context.Context, id string, in UpdateProfileInput) (*models.Profile, error) {
	p, err := s.profiles.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Username != nil {
		username := slug.Make(*in.Username)
		if len(username) < 3 || len(username) > 64 {
			return nil, fmt.Errorf("%w: username must be 3 to 64 letters, digits or dashes", ErrInvalidProfile)
		}
		p.Username = username
	}
	if in.FullName != nil {
		p.FullName = in.FullName
	}
	if in.Bio != nil {
		p.Bio = in.Bio
	}
	if in.Location != nil {
		p.Location = in.Location
	}
	if in.Handicap != nil {
		if *in.Handicap < -10 || *in.Handicap > 54 {
			return nil, fmt.Errorf("%w: handicap must be between -10 and 54", ErrInvalidProfile)
		}
		p.Handicap = in.Handicap
	}
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetAvatar compresses and uploads a new avatar, then removes the previous one.
func (s *ProfileService) SetAvatar(ctx context.Context, id string, data []byte, name string) (*models.Profile, error) {
	p, err := s.profiles.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := s.compressor.Compress(data)
	if err != nil {
		return nil, err
	}
	key := storage.ObjectKey(storage.BucketAvatars, id, name, photo.Extension(res.ContentType))
	url, err := s.store.Upload(ctx, key, res.Data, res.ContentType)
	if err != nil {
		return nil, err
	}
	if err := s.profiles.SetAvatar(ctx, id, &url); err != nil {
		s.remove(ctx, key)
		return nil, err
	}
	s.removeURL(ctx, p.AvatarURL)
	p.AvatarURL = &url
	return p, nil
}

func (s *ProfileService) RemoveAvatar(ctx context.Context, id string) error {
	p, err := s.profiles.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.AvatarURL == nil {
		return nil
	}
	if err := s.profiles.SetAvatar(ctx, id, nil); err != nil {
		return err
	}
	s.removeURL(ctx, p.AvatarURL)
	return nil
}

func (s *ProfileService) removeURL(ctx context.Context, url *string) {
	if url == nil {
		return
	}
	if key, ok := storage.KeyFromURL(s.store, *url); ok {
		s.remove(ctx, key)
	}
}

func (s *ProfileService) remove(ctx context.Context, key string) {
	if err := s.store.Remove(ctx, key); err != nil {
		logger.Warn("failed to remove avatar", zap.String("key", key), zap.Error(err))
	}
}
