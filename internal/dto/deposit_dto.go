package dto

import "github.com/shopspring/decimal"

type ConfirmDepositRequest struct {
	Method    string `json:"method"`
	Reference string `json:"reference"`
}

type ReleaseDepositRequest struct {
	DeductionAmount decimal.Decimal `json:"deduction_amount"`
	Reason          string          `json:"reason"`
}

type ForfeitDepositRequest struct {
	Reason string `json:"reason"`
}
