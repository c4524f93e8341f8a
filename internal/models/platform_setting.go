package models

import "time"

// PlatformSetting is an admin-managed key/value knob read by services at
// call time (payment horizon, document size limits, URL TTLs).
type PlatformSetting struct {
	Key         string    `gorm:"primaryKey;size:100" json:"key"`
	Value       string    `gorm:"size:1000;not null" json:"value"`
	Description string    `gorm:"size:500" json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}
