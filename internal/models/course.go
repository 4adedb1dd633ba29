package models

import (
	"time"

	"gorm.io/datatypes"
)

// Course is an entry of the searchable course catalog.
type Course struct {
	ID         string                   `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CourseName string                   `gorm:"size:255;not null;index" json:"course_name"`
	ClubName   string                   `gorm:"size:255;index" json:"club_name"`
	City       string                   `gorm:"size:120" json:"city"`
	State      string                   `gorm:"size:60" json:"state"`
	Par        *int                     `json:"par,omitempty"`
	CoursePars datatypes.JSONSlice[int] `json:"course_pars,omitempty"`
	CreatedAt  time.Time                `json:"-"`
	UpdatedAt  time.Time                `json:"-"`
}

func (Course) TableName() string { return "courses" }
