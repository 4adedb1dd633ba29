package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"fairway/backend/internal/feed"
	"fairway/backend/internal/hub"
	"fairway/backend/internal/models"
	"fairway/backend/internal/repository"
)

// ReactionResult is the state of a round's reactions after a toggle.
type ReactionResult struct {
	RoundID      string                `json:"round_id"`
	ReactionType models.ReactionType   `json:"reaction_type"`
	Reacted      bool                  `json:"reacted"`
	Counts       models.ReactionCounts `json:"counts"`
}

// SocialService handles reactions and comments on rounds.
type SocialService struct {
	rounds    repository.RoundRepository
	reactions repository.ReactionRepository
	comments  repository.CommentRepository
	hub       *hub.Hub
}

func NewSocialService(rounds repository.RoundRepository, reactions repository.ReactionRepository, comments repository.CommentRepository, h *hub.Hub) *SocialService {
	return &SocialService{rounds: rounds, reactions: reactions, comments: comments, hub: h}
}

func (s *SocialService) ToggleReaction(ctx context.Context, userID, roundID string, t models.ReactionType) (*ReactionResult, error) {
	if !t.Valid() {
		return nil, ErrInvalidReaction
	}
	if _, err := s.rounds.Get(ctx, roundID); err != nil {
		return nil, err
	}
	reacted, err := s.reactions.Toggle(ctx, userID, roundID, t)
	if err != nil {
		return nil, err
	}
	counts, err := s.reactions.Counts(ctx, roundID)
	if err != nil {
		return nil, err
	}

	res := &ReactionResult{RoundID: roundID, ReactionType: t, Reacted: reacted, Counts: counts}
	s.hub.Broadcast(roundID, hub.Event{Type: hub.EventReaction, Payload: map[string]any{
		"round_id": roundID,
		"user_id":  userID,
		"type":     t,
		"reacted":  reacted,
		"counts":   counts,
	}})
	return res, nil
}

func (s *SocialService) ListComments(ctx context.Context, roundID string) ([]feed.CommentView, error) {
	if _, err := s.rounds.Get(ctx, roundID); err != nil {
		return nil, err
	}
	list, err := s.comments.ListForRounds(ctx, []string{roundID})
	if err != nil {
		return nil, err
	}
	return feed.CommentViews(list), nil
}

func (s *SocialService) AddComment(ctx context.Context, userID, roundID, content string) (*feed.CommentView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}
	if utf8.RuneCountInString(content) > models.MaxCommentLength {
		return nil, fmt.Errorf("%w: max %d characters", ErrCommentTooLong, models.MaxCommentLength)
	}
	if _, err := s.rounds.Get(ctx, roundID); err != nil {
		return nil, err
	}

	c := &models.Comment{ID: uuid.NewString(), RoundID: roundID, UserID: userID, Content: content}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	view := feed.CommentViews([]models.Comment{*c})[0]
	s.hub.Broadcast(roundID, hub.Event{Type: hub.EventCommentAdded, Payload: view})
	return &view, nil
}

// DeleteComment removes a comment. Only its author may delete it.
func (s *SocialService) DeleteComment(ctx context.Context, userID, commentID string) error {
	c, err := s.comments.Get(ctx, commentID)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return ErrForbidden
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		return err
	}
	s.hub.Broadcast(c.RoundID, hub.Event{Type: hub.EventCommentDeleted, Payload: map[string]string{
		"round_id":   c.RoundID,
		"comment_id": commentID,
	}})
	return nil
}
