package models

import (
	"time"

	"gorm.io/datatypes"
)

// AppSetting is one entry of the key/value settings store.
type AppSetting struct {
	Key       string         `gorm:"primaryKey;size:64"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

func (AppSetting) TableName() string { return "app_settings" }
