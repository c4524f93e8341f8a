package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

// VerificationRequest is a tenant's application to become a landlord.
// Approval atomically flips the owning user's role. A resubmission after a
// rejection chains PreviousRequestID for audit.
type VerificationRequest struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Status            string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	IDFrontKey        string     `gorm:"size:500;not null" json:"-"`
	IDBackKey         string     `gorm:"size:500;not null" json:"-"`
	BusinessName      string     `gorm:"size:255" json:"business_name"`
	BusinessRegNumber string     `gorm:"size:100" json:"business_reg_number"`
	AdminNotes        string     `gorm:"size:1000" json:"admin_notes,omitempty"`
	PreviousRequestID *uuid.UUID `gorm:"type:uuid" json:"previous_request_id,omitempty"`
	ReviewedBy        *uuid.UUID `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	User              User       `gorm:"foreignKey:UserID" json:"-"`
}
