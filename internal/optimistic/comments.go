package optimistic

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"fairway/backend/internal/feed"
)

// PendingPrefix marks the id of a comment that the server has not stored yet.
const PendingPrefix = "pending-"

func commentsKey(roundID string) string { return "comments:" + roundID }

// Comments tracks the comment list of each loaded round.
type Comments struct {
	store *Store[[]feed.CommentView]
}

func NewComments() *Comments {
	return &Comments{store: NewStore[[]feed.CommentView]()}
}

// Seed loads server state for a round.
func (c *Comments) Seed(roundID string, list []feed.CommentView) {
	c.store.Set(commentsKey(roundID), slices.Clone(list))
}

// List returns a copy of a round's comments, oldest first.
func (c *Comments) List(roundID string) []feed.CommentView {
	list, _ := c.store.Get(commentsKey(roundID))
	if list == nil {
		return []feed.CommentView{}
	}
	return slices.Clone(list)
}

// Add appends draft under a temporary id and posts it. On success the draft is replaced
// by the stored comment; on failure it disappears again.
func (c *Comments) Add(ctx context.Context, roundID string, draft feed.CommentView, commit func(context.Context) (*feed.CommentView, error)) (*feed.CommentView, Outcome, error) {
	draft.ID = PendingPrefix + uuid.NewString()
	draft.RoundID = roundID

	var saved *feed.CommentView
	outcome, err := c.store.Mutate(ctx, Mutation[[]feed.CommentView]{
		Key: commentsKey(roundID),
		Apply: func(list []feed.CommentView) []feed.CommentView {
			return append(slices.Clone(list), draft)
		},
		Commit: func(ctx context.Context) error {
			v, err := commit(ctx)
			saved = v
			return err
		},
		Confirm: func(list []feed.CommentView) []feed.CommentView {
			out := slices.Clone(list)
			for i := range out {
				if out[i].ID == draft.ID && saved != nil {
					out[i] = *saved
				}
			}
			return out
		},
	})
	return saved, outcome, err
}

// Delete hides a comment immediately and restores it if the delete fails.
func (c *Comments) Delete(ctx context.Context, roundID, commentID string, commit func(context.Context) error) (Outcome, error) {
	return c.store.Mutate(ctx, Mutation[[]feed.CommentView]{
		Key: commentsKey(roundID),
		Apply: func(list []feed.CommentView) []feed.CommentView {
			return slices.DeleteFunc(slices.Clone(list), func(v feed.CommentView) bool { return v.ID == commentID })
		},
		Commit: commit,
	})
}
