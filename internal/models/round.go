package models

import (
	"time"

	"gorm.io/datatypes"
)

// HolesPerRound is the number of holes on a full card.
const HolesPerRound = 18

// Round is one scoring session submitted by a user. This is the canonical shape every
// data source is mapped into; nothing downstream branches on alternate field names.
//
// ScoresByHole holds strokes per hole, nil for a hole that was not played. When any hole
// is played, Front9, Back9 and TotalScore are the sums of the played holes.
type Round struct {
	ID           string                    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID       string                    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	CourseID     *string                   `gorm:"type:varchar(36);index" json:"course_id,omitempty"`
	CourseName   string                    `gorm:"size:255" json:"course_name"`
	ClubName     string                    `gorm:"size:255" json:"club_name"`
	City         string                    `gorm:"size:120" json:"city"`
	State        string                    `gorm:"size:60" json:"state"`
	PlayedAt     time.Time                 `gorm:"index" json:"played_at"`
	Front9       *int                      `json:"front9,omitempty"`
	Back9        *int                      `json:"back9,omitempty"`
	TotalScore   int                       `gorm:"not null" json:"total_score"`
	ScoresByHole datatypes.JSONSlice[*int] `json:"scores_by_hole,omitempty"`
	Par          *int                      `json:"par,omitempty"`
	CoursePars   datatypes.JSONSlice[int]  `json:"course_pars,omitempty"`
	TeeData      datatypes.JSON            `json:"tee_data,omitempty"`
	Caption      *string                   `gorm:"size:500" json:"caption,omitempty"`
	PhotoURL     *string                   `gorm:"size:1024" json:"photo_url,omitempty"`
	PhotoKey     *string                   `gorm:"size:512" json:"-"`
	CreatedAt    time.Time                 `gorm:"index" json:"created_at"`

	Author *Profile `gorm:"foreignKey:UserID" json:"-"`
}

func (Round) TableName() string { return "rounds" }
