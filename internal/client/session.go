package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"fairway/backend/internal/feed"
	"fairway/backend/internal/models"
	"fairway/backend/internal/optimistic"
	"fairway/backend/internal/settings"
)

// ErrSessionClosed is returned for work that finished after its session was closed.
var ErrSessionClosed = errors.New("feed session closed")

// DefaultPageSize is used when a session is opened without a page size.
const DefaultPageSize = 20

// FeedSession is one open feed view. Everything it starts runs under the session's
// lifetime context, and results that arrive after Close are dropped.
type FeedSession struct {
	client *Client
	ctx    context.Context
	cancel context.CancelFunc

	pager     *Pager[feed.RoundView]
	reactions *optimistic.Reactions
	comments  *optimistic.Comments

	mu     sync.Mutex
	closed bool
}

// OpenFeed starts a session whose lifetime is bounded by parent.
func (c *Client) OpenFeed(parent context.Context, pageSize int) *FeedSession {
	switch {
	case pageSize <= 0:
		pageSize = DefaultPageSize
	case pageSize > settings.MaxFeedLimit:
		pageSize = settings.MaxFeedLimit
	}
	ctx, cancel := context.WithCancel(parent)
	s := &FeedSession{
		client:    c,
		ctx:       ctx,
		cancel:    cancel,
		reactions: optimistic.NewReactions(),
		comments:  optimistic.NewComments(),
	}
	s.pager = NewPager(pageSize, func(ctx context.Context, offset, limit int) ([]feed.RoundView, error) {
		page, err := c.Feed(ctx, offset, limit)
		if err != nil {
			return nil, err
		}
		return page.Items, nil
	})
	return s
}

func (s *FeedSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close cancels in-flight requests. Later calls fail with ErrSessionClosed.
func (s *FeedSession) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// LoadMore fetches the next feed page and seeds the optimistic stores from it.
func (s *FeedSession) LoadMore() ([]feed.RoundView, error) {
	if s.isClosed() {
		return nil, ErrSessionClosed
	}
	page, err := s.pager.LoadMore(s.ctx)
	if s.isClosed() {
		return nil, ErrSessionClosed
	}
	if err != nil {
		return nil, err
	}
	for _, r := range page {
		s.reactions.Seed(r.ID, r.Reactions, r.MyReactions)
		s.comments.Seed(r.ID, r.Comments)
	}
	return page, nil
}

// Done reports whether the whole feed has been loaded.
func (s *FeedSession) Done() bool { return s.pager.Done() }

// Rounds returns the loaded rounds with the current optimistic reactions and comments.
func (s *FeedSession) Rounds() []feed.RoundView {
	rounds := s.pager.Items()
	for i := range rounds {
		id := rounds[i].ID
		rounds[i].Reactions = s.reactions.Counts(id)
		rounds[i].MyReactions = s.reactions.Mine(id)
		rounds[i].Comments = s.comments.List(id)
	}
	return rounds
}

// React toggles the caller's reaction. The change is visible in Rounds immediately and
// reverted if the server rejects it.
func (s *FeedSession) React(roundID string, t models.ReactionType) (optimistic.Outcome, error) {
	if s.isClosed() {
		return optimistic.Aborted, ErrSessionClosed
	}
	return s.reactions.Toggle(s.ctx, roundID, t, func(ctx context.Context) error {
		_, err := s.client.ToggleReaction(ctx, roundID, t)
		return err
	})
}

// Comment posts a comment, showing it under a temporary id until the server stores it.
func (s *FeedSession) Comment(roundID, content string, author feed.AuthorView) (*feed.CommentView, optimistic.Outcome, error) {
	if s.isClosed() {
		return nil, optimistic.Aborted, ErrSessionClosed
	}
	draft := feed.CommentView{
		UserID:         author.ID,
		Content:        content,
		Author:         author.DisplayName,
		AuthorUsername: author.Username,
		AuthorAvatar:   author.AvatarURL,
		CreatedAt:      time.Now().UTC(),
	}
	return s.comments.Add(s.ctx, roundID, draft, func(ctx context.Context) (*feed.CommentView, error) {
		return s.client.AddComment(ctx, roundID, content)
	})
}

// DeleteComment removes one of the caller's comments after the user confirmed it.
func (s *FeedSession) DeleteComment(roundID, commentID string) (optimistic.Outcome, error) {
	if s.isClosed() {
		return optimistic.Aborted, ErrSessionClosed
	}
	return s.comments.Delete(s.ctx, roundID, commentID, func(ctx context.Context) error {
		return s.client.DeleteComment(ctx, commentID)
	})
}
