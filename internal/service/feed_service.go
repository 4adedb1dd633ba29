package service

import (
	"context"

	"fairway/backend/internal/feed"
	"fairway/backend/internal/models"
	"fairway/backend/internal/repository"
	"fairway/backend/internal/settings"
)

// FeedPage is one page of the ranked feed.
type FeedPage struct {
	Items      []feed.RoundView      `json:"items"`
	Offset     int                   `json:"offset"`
	Limit      int                   `json:"limit"`
	NextOffset int                   `json:"next_offset"`
	HasMore    bool                  `json:"has_more"`
	Settings   settings.FeedSettings `json:"settings"`
}

type FeedService struct {
	rpc      repository.RPCRepository
	settings *settings.Provider
	views    *viewBuilder
}

func NewFeedService(
	rpc repository.RPCRepository,
	provider *settings.Provider,
	reactions repository.ReactionRepository,
	comments repository.CommentRepository,
	follows repository.FollowRepository,
	normalizer *feed.Normalizer,
) *FeedService {
	return &FeedService{
		rpc:      rpc,
		settings: provider,
		views:    &viewBuilder{reactions: reactions, comments: comments, follows: follows, normalizer: normalizer},
	}
}

// Page asks the ranking function for rounds at offset using the current feed settings.
// A limit of zero uses the configured feed limit; larger limits are capped at MaxFeedLimit.
func (s *FeedService) Page(ctx context.Context, viewerID string, offset, limit int) (*FeedPage, error) {
	cfg := s.settings.Current(ctx)
	switch {
	case limit <= 0:
		limit = cfg.FeedLimit
	case limit > settings.MaxFeedLimit:
		limit = settings.MaxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.rpc.FeedWithDiscovery(ctx, viewerID, limit, offset, cfg)
	if err != nil {
		return nil, err
	}

	rounds := make([]models.Round, len(entries))
	tags := make(map[string]feed.Tag, len(entries))
	for i, e := range entries {
		rounds[i] = e.Round
		tags[e.Round.ID] = feed.Tag{Source: e.Source, Reason: e.Reason}
	}
	items, err := s.views.build(ctx, viewerID, rounds, tags)
	if err != nil {
		return nil, err
	}

	return &FeedPage{
		Items:      items,
		Offset:     offset,
		Limit:      limit,
		NextOffset: offset + len(items),
		HasMore:    len(items) >= limit,
		Settings:   cfg,
	}, nil
}
