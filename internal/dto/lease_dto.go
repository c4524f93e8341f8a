package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateLeaseRequest struct {
	PropertyID    uuid.UUID       `json:"property_id"`
	TenantEmail   string          `json:"tenant_email"`
	StartDate     string          `json:"start_date"` // YYYY-MM-DD
	EndDate       string          `json:"end_date"`   // YYYY-MM-DD
	MonthlyRent   decimal.Decimal `json:"monthly_rent"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	Clauses       []string        `json:"clauses"`
}

type UpdateLeaseRequest struct {
	StartDate     *string          `json:"start_date"`
	EndDate       *string          `json:"end_date"`
	MonthlyRent   *decimal.Decimal `json:"monthly_rent"`
	DepositAmount *decimal.Decimal `json:"deposit_amount"`
	Clauses       []string         `json:"clauses"`
}

type SignLeaseRequest struct {
	Signature string `json:"signature"`
}

type LeaseNoteRequest struct {
	Note string `json:"note"`
}

type LeaseReasonRequest struct {
	Reason string `json:"reason"`
}
