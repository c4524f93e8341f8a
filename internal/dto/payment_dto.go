package dto

type GeneratePaymentsRequest struct {
	MonthsAhead int `json:"months_ahead"`
}

type RecordPaymentRequest struct {
	Method    string `json:"method"`
	Reference string `json:"reference"`
	PaidAt    string `json:"paid_at"` // YYYY-MM-DD, defaults to now
	Notes     string `json:"notes"`
}
