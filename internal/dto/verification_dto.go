package dto

import (
	"time"

	"github.com/google/uuid"
)

type VerificationDecisionRequest struct {
	Notes string `json:"notes"`
}

// VerificationDetail is the admin review view; document URLs are signed and
// expire after the storage TTL.
type VerificationDetail struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"user_id"`
	UserEmail         string     `json:"user_email"`
	Status            string     `json:"status"`
	BusinessName      string     `json:"business_name"`
	BusinessRegNumber string     `json:"business_reg_number"`
	AdminNotes        string     `json:"admin_notes,omitempty"`
	PreviousRequestID *uuid.UUID `json:"previous_request_id,omitempty"`
	IDFrontURL        string     `json:"id_front_url"`
	IDBackURL         string     `json:"id_back_url"`
	CreatedAt         time.Time  `json:"created_at"`
}
