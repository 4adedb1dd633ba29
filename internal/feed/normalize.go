// Package feed turns rounds and their social data into the view models the API returns.
package feed

import (
	"sort"
	"time"

	"fairway/backend/internal/coursename"
	"fairway/backend/internal/models"
	"fairway/backend/internal/scoring"
)

// AnonymousAuthor is shown when a comment's author profile cannot be resolved.
const AnonymousAuthor = "Anonymous"

// Tag records why the ranking function put a round in the feed.
type Tag struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

type AuthorView struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

type CommentView struct {
	ID             string    `json:"id"`
	RoundID        string    `json:"round_id"`
	UserID         string    `json:"user_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	Author         string    `json:"author"`
	AuthorUsername string    `json:"author_username"`
	AuthorAvatar   *string   `json:"author_avatar"`
}

// RoundView is everything needed to render one round card.
type RoundView struct {
	models.Round
	DisplayName string                `json:"display_name"`
	VsPar       *string               `json:"vs_par"`
	Author      *AuthorView           `json:"author"`
	Reactions   models.ReactionCounts `json:"reactions"`
	MyReactions []models.ReactionType `json:"my_reactions"`
	Comments    []CommentView         `json:"comments"`
	Following   bool                  `json:"following"`
	Source      string                `json:"source,omitempty"`
	Reason      string                `json:"reason,omitempty"`
}

// Input holds the parallel collections fetched for one page of rounds.
type Input struct {
	Rounds []models.Round
	// Tags are keyed by round id; only feed pages carry them.
	Tags      map[string]Tag
	Reactions []models.Reaction
	// Comments should have Author preloaded.
	Comments []models.Comment
	// MyReactions are the viewer's own reactions on these rounds.
	MyReactions []models.Reaction
	// Following is keyed by author id.
	Following map[string]bool
}

type Normalizer struct {
	names *coursename.Resolver
}

func NewNormalizer(names *coursename.Resolver) *Normalizer {
	return &Normalizer{names: names}
}

// Normalize returns one view per round in input order. Every view has all reaction types
// present and non-nil comment and reaction slices.
func (n *Normalizer) Normalize(in Input) []RoundView {
	counts := make(map[string]models.ReactionCounts, len(in.Rounds))
	for _, r := range in.Reactions {
		c, ok := counts[r.RoundID]
		if !ok {
			c = models.NewReactionCounts()
			counts[r.RoundID] = c
		}
		if r.ReactionType.Valid() {
			c[r.ReactionType]++
		}
	}

	mine := make(map[string]map[models.ReactionType]bool)
	for _, r := range in.MyReactions {
		set, ok := mine[r.RoundID]
		if !ok {
			set = make(map[models.ReactionType]bool)
			mine[r.RoundID] = set
		}
		set[r.ReactionType] = true
	}

	comments := make(map[string][]CommentView)
	for _, c := range in.Comments {
		comments[c.RoundID] = append(comments[c.RoundID], commentView(c))
	}

	views := make([]RoundView, 0, len(in.Rounds))
	for _, r := range in.Rounds {
		v := RoundView{
			Round:       r,
			DisplayName: n.names.DisplayName(r.CourseName, r.ClubName),
			Reactions:   counts[r.ID],
			MyReactions: []models.ReactionType{},
			Comments:    comments[r.ID],
			Following:   in.Following[r.UserID],
		}
		if v.Reactions == nil {
			v.Reactions = models.NewReactionCounts()
		}
		if v.Comments == nil {
			v.Comments = []CommentView{}
		}
		sort.SliceStable(v.Comments, func(i, j int) bool {
			return v.Comments[i].CreatedAt.Before(v.Comments[j].CreatedAt)
		})
		for _, t := range models.ReactionTypes {
			if mine[r.ID][t] {
				v.MyReactions = append(v.MyReactions, t)
			}
		}
		if s, ok := scoring.VsPar(r); ok {
			v.VsPar = &s
		}
		if r.Author != nil {
			v.Author = authorView(*r.Author)
		}
		if tag, ok := in.Tags[r.ID]; ok {
			v.Source, v.Reason = tag.Source, tag.Reason
		}
		views = append(views, v)
	}
	return views
}

func authorView(p models.Profile) *AuthorView {
	return &AuthorView{ID: p.ID, Username: p.Username, DisplayName: p.DisplayName(), AvatarURL: p.AvatarURL}
}

func commentView(c models.Comment) CommentView {
	v := CommentView{
		ID:        c.ID,
		RoundID:   c.RoundID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		Author:    AnonymousAuthor,
	}
	if c.Author != nil {
		v.Author = c.Author.DisplayName()
		v.AuthorUsername = c.Author.Username
		v.AuthorAvatar = c.Author.AvatarURL
	}
	return v
}

// CommentViews normalizes a standalone list of comments, oldest first.
func CommentViews(list []models.Comment) []CommentView {
	views := make([]CommentView, 0, len(list))
	for _, c := range list {
		views = append(views, commentView(c))
	}
	sort.SliceStable(views, func(i, j int) bool { return views[i].CreatedAt.Before(views[j].CreatedAt) })
	return views
}
