package dto

import "github.com/google/uuid"

type CreateInquiryRequest struct {
	PropertyID uuid.UUID `json:"property_id"`
	Message    string    `json:"message"`
}

type InquiryDecisionRequest struct {
	Status string `json:"status"` // approved, rejected or completed
}

type SendMessageRequest struct {
	Body string `json:"body"`
}
