package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	InquiryPending   = "pending"
	InquiryApproved  = "approved"
	InquiryRejected  = "rejected"
	InquiryCompleted = "completed"
)

// Inquiry is a tenant's interest in a property and the anchor for the
// message thread between tenant and landlord.
type Inquiry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;index" json:"property_id"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	LandlordID uuid.UUID `gorm:"type:uuid;not null;index" json:"landlord_id"`
	Status     string    `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Message    string    `gorm:"size:2000" json:"message"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Property   Property  `gorm:"foreignKey:PropertyID" json:"-"`
	Tenant     User      `gorm:"foreignKey:TenantID" json:"-"`
	Landlord   User      `gorm:"foreignKey:LandlordID" json:"-"`
}

type Message struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	InquiryID uuid.UUID  `gorm:"type:uuid;not null;index" json:"inquiry_id"`
	SenderID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"sender_id"`
	Body      string     `gorm:"size:2000;not null" json:"body"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	Inquiry   Inquiry    `gorm:"foreignKey:InquiryID" json:"-"`
	Sender    User       `gorm:"foreignKey:SenderID" json:"-"`
}
