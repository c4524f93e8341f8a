package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DepositPending        = "pending"
	DepositHeld           = "held"
	DepositReleased       = "released"
	DepositPartialRelease = "partial_release"
	DepositForfeited      = "forfeited"
)

// Deposit is the escrow record for a lease, exactly one per lease. Once
// released, partially released or forfeited it accepts no further mutation.
type Deposit struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	LeaseID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"lease_id"`
	Amount          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	DeductionAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"deduction_amount"`
	DeductionReason string          `gorm:"size:1000" json:"deduction_reason,omitempty"`
	RefundAmount    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"refund_amount"`
	Status          string          `gorm:"size:30;not null;default:'pending';index" json:"status"`
	Method          string          `gorm:"size:50" json:"method,omitempty"`
	Reference       string          `gorm:"size:255" json:"reference,omitempty"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	ReleasedAt      *time.Time      `json:"released_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Lease           Lease           `gorm:"foreignKey:LeaseID" json:"-"`
}
