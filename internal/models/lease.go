package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	LeaseDraft             = "draft"
	LeaseSentToTenant      = "sent_to_tenant"
	LeaseTenantSigned      = "tenant_signed"
	LeaseApproved          = "approved"
	LeaseRevisionRequested = "revision_requested"
	LeaseRejected          = "rejected"
	LeaseExpired           = "expired"
	LeaseTerminated        = "terminated"
)

const (
	DocTypeIDFront = "id_front"
	DocTypeIDBack  = "id_back"
	DocTypeOther   = "other"
)

// Lease is the agreement between a landlord and a tenant over one property.
// Status follows a fixed transition table (see services.LeaseService); leases
// are never deleted, they only reach terminal states.
type Lease struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PropertyID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"property_id"`
	TenantID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	LandlordID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"landlord_id"`
	Status          string          `gorm:"size:30;not null;default:'draft';index" json:"status"`
	StartDate       time.Time       `gorm:"not null" json:"start_date"`
	EndDate         time.Time       `gorm:"not null" json:"end_date"`
	MonthlyRent     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"monthly_rent"`
	DepositAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"deposit_amount"`
	Clauses         datatypes.JSON  `gorm:"type:jsonb;default:'[]'" json:"clauses"`
	TenantSignature string          `gorm:"type:text" json:"-"`
	SignedAt        *time.Time      `json:"signed_at,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	RevisionNote    string          `gorm:"size:1000" json:"revision_note,omitempty"`
	RejectionReason string          `gorm:"size:1000" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Property        Property        `gorm:"foreignKey:PropertyID" json:"-"`
	Tenant          User            `gorm:"foreignKey:TenantID" json:"-"`
	Landlord        User            `gorm:"foreignKey:LandlordID" json:"-"`
}

// LeaseDocument is a tenant-uploaded attachment (identity documents required
// for signing) referenced by an opaque storage key.
type LeaseDocument struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LeaseID    uuid.UUID `gorm:"type:uuid;not null;index" json:"lease_id"`
	UploaderID uuid.UUID `gorm:"type:uuid;not null" json:"uploader_id"`
	DocType    string    `gorm:"size:30;not null" json:"doc_type"`
	StorageKey string    `gorm:"size:500;not null" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	Lease      Lease     `gorm:"foreignKey:LeaseID" json:"-"`
}
