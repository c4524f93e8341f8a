package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleTenant   = "tenant"
	RoleLandlord = "landlord"
	RoleAdmin    = "admin"
)

// User is the shared identity record. Role is only mutated by the
// verification workflow (tenant -> landlord) or by an admin.
type User struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email      string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password   string         `gorm:"not null" json:"-"`
	FirstName  string         `gorm:"size:100" json:"first_name"`
	LastName   string         `gorm:"size:100" json:"last_name"`
	Phone      string         `gorm:"size:30" json:"phone"`
	Role       string         `gorm:"size:20;not null;default:'tenant';index" json:"role"`
	IsVerified bool           `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
