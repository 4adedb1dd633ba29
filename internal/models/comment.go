package models

import "time"

// MaxCommentLength is the longest comment body accepted, in characters.
const MaxCommentLength = 280

// Comment is a remark left on a round.
type Comment struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	RoundID   string    `gorm:"type:varchar(36);not null;index" json:"round_id"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Content   string    `gorm:"size:1200;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Author *Profile `gorm:"foreignKey:UserID" json:"author,omitempty"`
}

func (Comment) TableName() string { return "comments" }
