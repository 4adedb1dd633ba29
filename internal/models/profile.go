package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Profile is the public identity of an authenticated account. ID is the auth subject
// issued by the managed auth service.
type Profile struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username  string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	FullName  *string   `gorm:"size:255" json:"full_name,omitempty"`
	AvatarURL *string   `gorm:"size:1024" json:"avatar_url,omitempty"`
	Bio       *string   `gorm:"size:500" json:"bio,omitempty"`
	Location  *string   `gorm:"size:255" json:"location,omitempty"`
	Handicap  *float64  `json:"handicap,omitempty"`
	Role      string    `gorm:"size:20;not null;default:'user';index" json:"-"`
	Banned    bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (Profile) TableName() string { return "profiles" }

// DisplayName prefers the full name over the username.
func (p Profile) DisplayName() string {
	if p.FullName != nil && *p.FullName != "" {
		return *p.FullName
	}
	return p.Username
}
