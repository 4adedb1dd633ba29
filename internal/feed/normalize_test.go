package feed

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairway/backend/internal/coursename"
	"fairway/backend/internal/models"
)

func strp(s string) *string { return &s }
func intp(v int) *int       { return &v }

func newNormalizer() *Normalizer {
	return NewNormalizer(coursename.NewResolver(coursename.DefaultAmbiguousWords))
}

func TestNormalize_EmptyRoundStillHasEveryReactionType(t *testing.T) {
	views := newNormalizer().Normalize(Input{Rounds: []models.Round{{ID: "r1", UserID: "u1"}}})
	require.Len(t, views, 1)

	v := views[0]
	assert.Len(t, v.Reactions, len(models.ReactionTypes))
	for _, rt := range models.ReactionTypes {
		c, ok := v.Reactions[rt]
		assert.True(t, ok, rt)
		assert.Zero(t, c)
	}
	assert.NotNil(t, v.Comments)
	assert.Empty(t, v.Comments)
	assert.NotNil(t, v.MyReactions)
	assert.False(t, v.Following)
	assert.Nil(t, v.VsPar)

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"comments":[]`)
	assert.Contains(t, string(raw), `"my_reactions":[]`)
}

func TestNormalize_GroupsByRound(t *testing.T) {
	t0 := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	alice := &models.Profile{ID: "u1", Username: "alice", FullName: strp("Alice Green"), AvatarURL: strp("https://cdn/a.jpg")}

	in := Input{
		Rounds: []models.Round{
			{ID: "r1", UserID: "u1", CourseName: "Pine Valley", ClubName: "Pine Valley Golf Club", TotalScore: 80, Par: intp(70), Author: alice},
			{ID: "r2", UserID: "u2", CourseName: "Ocean Course", ClubName: "Kiawah Island Golf Resort"},
		},
		Tags: map[string]Tag{"r2": {Source: "discovery", Reason: "popular"}},
		Reactions: []models.Reaction{
			{UserID: "u2", RoundID: "r1", ReactionType: models.ReactionFire},
			{UserID: "u3", RoundID: "r1", ReactionType: models.ReactionFire},
			{UserID: "u3", RoundID: "r2", ReactionType: models.ReactionSkull},
			{UserID: "u3", RoundID: "r2", ReactionType: "bogus"},
		},
		Comments: []models.Comment{
			{ID: "c2", RoundID: "r1", UserID: "u1", Content: "thanks", CreatedAt: t0.Add(time.Minute), Author: alice},
			{ID: "c1", RoundID: "r1", UserID: "u9", Content: "nice", CreatedAt: t0},
		},
		MyReactions: []models.Reaction{
			{UserID: "me", RoundID: "r1", ReactionType: models.ReactionFire},
			{UserID: "me", RoundID: "r1", ReactionType: models.ReactionFire},
		},
		Following: map[string]bool{"u1": true},
	}

	views := newNormalizer().Normalize(in)
	require.Len(t, views, 2)

	r1 := views[0]
	assert.Equal(t, "r1", r1.ID)
	assert.Equal(t, "Pine Valley Golf Club", r1.DisplayName)
	require.NotNil(t, r1.VsPar)
	assert.Equal(t, "+10", *r1.VsPar)
	assert.Equal(t, 2, r1.Reactions[models.ReactionFire])
	assert.Equal(t, []models.ReactionType{models.ReactionFire}, r1.MyReactions, "duplicates collapse")
	assert.True(t, r1.Following)
	require.NotNil(t, r1.Author)
	assert.Equal(t, "Alice Green", r1.Author.DisplayName)

	require.Len(t, r1.Comments, 2)
	assert.Equal(t, "c1", r1.Comments[0].ID, "oldest first")
	assert.Equal(t, AnonymousAuthor, r1.Comments[0].Author)
	assert.Equal(t, "", r1.Comments[0].AuthorUsername)
	assert.Equal(t, "Alice Green", r1.Comments[1].Author)
	assert.Equal(t, "alice", r1.Comments[1].AuthorUsername)
	assert.Equal(t, "https://cdn/a.jpg", *r1.Comments[1].AuthorAvatar)

	r2 := views[1]
	assert.Equal(t, "Ocean Course @ Kiawah Island Golf Resort", r2.DisplayName)
	assert.Equal(t, 1, r2.Reactions[models.ReactionSkull])
	assert.Len(t, r2.Reactions, len(models.ReactionTypes), "unknown types are ignored")
	assert.Empty(t, r2.Comments)
	assert.False(t, r2.Following)
	assert.Equal(t, "discovery", r2.Source)
	assert.Equal(t, "popular", r2.Reason)
}

func TestCommentViews_SortsAndFlattens(t *testing.T) {
	t0 := time.Now()
	views := CommentViews([]models.Comment{
		{ID: "b", CreatedAt: t0.Add(time.Second), Author: &models.Profile{Username: "bob"}},
		{ID: "a", CreatedAt: t0},
	})
	require.Len(t, views, 2)
	assert.Equal(t, "a", views[0].ID)
	assert.Equal(t, "bob", views[1].Author)
}
