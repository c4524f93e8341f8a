package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentTypeRent    = "rent"
	PaymentTypeDeposit = "deposit"
	PaymentTypeLateFee = "late_fee"
)

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentOverdue = "overdue"
)

// Payment is one rent obligation on a lease. The recurring generator creates
// at most one row per (lease, due date, type), which makes re-runs idempotent.
type Payment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	LeaseID   uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_payments_lease_due_type" json:"lease_id"`
	Type      string          `gorm:"size:20;not null;default:'rent';uniqueIndex:idx_payments_lease_due_type" json:"type"`
	Status    string          `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	DueDate   time.Time       `gorm:"not null;index;uniqueIndex:idx_payments_lease_due_type" json:"due_date"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
	Method    string          `gorm:"size:50" json:"method,omitempty"`
	Reference string          `gorm:"size:255" json:"reference,omitempty"`
	Notes     string          `gorm:"size:1000" json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Lease     Lease           `gorm:"foreignKey:LeaseID" json:"-"`
}
