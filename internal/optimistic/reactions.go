package optimistic

import (
	"context"

	"fairway/backend/internal/models"
)

// ReactionCell is one round's state for one reaction type.
type ReactionCell struct {
	Count int
	Mine  bool
}

// Toggle flips the viewer's reaction. The count never drops below zero.
func (c ReactionCell) Toggle() ReactionCell {
	if c.Mine {
		if c.Count > 0 {
			c.Count--
		}
		c.Mine = false
		return c
	}
	c.Count++
	c.Mine = true
	return c
}

func reactionKey(roundID string, t models.ReactionType) string {
	return roundID + ":" + string(t)
}

// Reactions tracks reaction counts and the viewer's own reactions for loaded rounds.
type Reactions struct {
	store *Store[ReactionCell]
}

func NewReactions() *Reactions {
	return &Reactions{store: NewStore[ReactionCell]()}
}

// Seed loads server state for a round.
func (r *Reactions) Seed(roundID string, counts models.ReactionCounts, mine []models.ReactionType) {
	own := make(map[models.ReactionType]bool, len(mine))
	for _, t := range mine {
		own[t] = true
	}
	for _, t := range models.ReactionTypes {
		r.store.Set(reactionKey(roundID, t), ReactionCell{Count: counts[t], Mine: own[t]})
	}
}

// Toggle flips the viewer's reaction locally and runs commit. On failure both the count
// and the viewer's reaction revert to their prior values.
func (r *Reactions) Toggle(ctx context.Context, roundID string, t models.ReactionType, commit func(context.Context) error) (Outcome, error) {
	return r.store.Mutate(ctx, Mutation[ReactionCell]{
		Key:    reactionKey(roundID, t),
		Apply:  ReactionCell.Toggle,
		Commit: commit,
	})
}

// Counts returns all eight counts for a round.
func (r *Reactions) Counts(roundID string) models.ReactionCounts {
	counts := models.NewReactionCounts()
	for _, t := range models.ReactionTypes {
		if c, ok := r.store.Get(reactionKey(roundID, t)); ok {
			counts[t] = c.Count
		}
	}
	return counts
}

// Mine returns the viewer's reactions on a round in display order.
func (r *Reactions) Mine(roundID string) []models.ReactionType {
	mine := []models.ReactionType{}
	for _, t := range models.ReactionTypes {
		if c, ok := r.store.Get(reactionKey(roundID, t)); ok && c.Mine {
			mine = append(mine, t)
		}
	}
	return mine
}
