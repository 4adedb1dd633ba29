package models

import "time"

// Follow is a directed edge: FollowerID follows FollowingID.
// The composite primary key keeps the edge unique.
type Follow struct {
	FollowerID  string    `gorm:"primaryKey;type:varchar(36)" json:"follower_id"`
	FollowingID string    `gorm:"primaryKey;type:varchar(36);index" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Follow) TableName() string { return "follows" }
