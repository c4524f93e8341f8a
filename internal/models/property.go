package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Property is a rental listing owned by a landlord. ApprovalStatus (admin
// moderation) is independent of IsAvailable (the landlord's listed/unlisted
// toggle); IsAvailable may only be true while ApprovalStatus is approved.
type Property struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	LandlordID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"landlord_id"`
	Title          string          `gorm:"not null;size:255" json:"title"`
	Description    string          `gorm:"type:text" json:"description"`
	Address        string          `gorm:"size:500" json:"address"`
	City           string          `gorm:"size:100;index" json:"city"`
	State          string          `gorm:"size:100" json:"state"`
	MonthlyRent    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"monthly_rent"`
	Bedrooms       int             `gorm:"default:0" json:"bedrooms"`
	Bathrooms      int             `gorm:"default:0" json:"bathrooms"`
	AreaSqFt       int             `gorm:"default:0" json:"area_sq_ft"`
	Images         datatypes.JSON  `gorm:"type:jsonb;default:'[]'" json:"images"`
	Amenities      datatypes.JSON  `gorm:"type:jsonb;default:'[]'" json:"amenities"`
	ApprovalStatus string          `gorm:"size:20;not null;default:'pending';index" json:"approval_status"`
	AdminNotes     string          `gorm:"size:1000" json:"admin_notes,omitempty"`
	IsAvailable    bool            `gorm:"not null;default:false" json:"is_available"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
	Landlord       User            `gorm:"foreignKey:LandlordID" json:"-"`
}
