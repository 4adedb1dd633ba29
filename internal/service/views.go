package service

import (
	"context"

	"go.uber.org/zap"

	"fairway/backend/internal/feed"
	"fairway/backend/internal/models"
	"fairway/backend/internal/repository"
	"fairway/backend/pkg/logger"
)

// viewBuilder loads the social data of a page of rounds and normalizes it.
type viewBuilder struct {
	reactions  repository.ReactionRepository
	comments   repository.CommentRepository
	follows    repository.FollowRepository
	normalizer *feed.Normalizer
}

func (b *viewBuilder) build(ctx context.Context, viewerID string, rounds []models.Round, tags map[string]feed.Tag) ([]feed.RoundView, error) {
	ids := make([]string, len(rounds))
	authors := make([]string, 0, len(rounds))
	seen := make(map[string]bool, len(rounds))
	for i, r := range rounds {
		ids[i] = r.ID
		if !seen[r.UserID] {
			seen[r.UserID] = true
			authors = append(authors, r.UserID)
		}
	}

	reactions, err := b.reactions.ListForRounds(ctx, ids)
	if err != nil {
		return nil, err
	}
	comments, err := b.comments.ListForRounds(ctx, ids)
	if err != nil {
		return nil, err
	}
	mine, err := b.reactions.ListByUser(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	following, err := b.follows.FollowingAmong(ctx, viewerID, authors)
	if err != nil {
		logger.Warn("follow status lookup failed, assuming not following", zap.String("viewer_id", viewerID), zap.Error(err))
		following = map[string]bool{}
	}

	return b.normalizer.Normalize(feed.Input{
		Rounds:      rounds,
		Tags:        tags,
		Reactions:   reactions,
		Comments:    comments,
		MyReactions: mine,
		Following:   following,
	}), nil
}
