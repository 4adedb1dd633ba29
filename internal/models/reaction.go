package models

import "time"

// ReactionType is one of the fixed emoji reactions a round can receive.
type ReactionType string

const (
	ReactionFire  ReactionType = "fire"
	ReactionClap  ReactionType = "clap"
	ReactionDart  ReactionType = "dart"
	ReactionGoat  ReactionType = "goat"
	ReactionVomit ReactionType = "vomit"
	ReactionClown ReactionType = "clown"
	ReactionSkull ReactionType = "skull"
	ReactionLaugh ReactionType = "laugh"
)

// ReactionTypes lists every known reaction in display order.
var ReactionTypes = []ReactionType{
	ReactionFire, ReactionClap, ReactionDart, ReactionGoat,
	ReactionVomit, ReactionClown, ReactionSkull, ReactionLaugh,
}

// Valid reports whether t is a known reaction type.
func (t ReactionType) Valid() bool {
	for _, known := range ReactionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Reaction is one user's reaction of one type to one round.
// The composite primary key allows at most one row per (user, round, type).
type Reaction struct {
	UserID       string       `gorm:"primaryKey;type:varchar(36)" json:"user_id"`
	RoundID      string       `gorm:"primaryKey;type:varchar(36);index" json:"round_id"`
	ReactionType ReactionType `gorm:"primaryKey;type:varchar(16)" json:"reaction_type"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (Reaction) TableName() string { return "reactions" }

// ReactionCounts holds a count for every reaction type.
type ReactionCounts map[ReactionType]int

// NewReactionCounts returns counts with every known type present and zeroed.
func NewReactionCounts() ReactionCounts {
	counts := make(ReactionCounts, len(ReactionTypes))
	for _, t := range ReactionTypes {
		counts[t] = 0
	}
	return counts
}
