package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentorahq/rentora-backend/internal/authz"
	"github.com/rentorahq/rentora-backend/internal/dto"
	"github.com/rentorahq/rentora-backend/internal/models"
	"github.com/rentorahq/rentora-backend/internal/storage"
)

var (
	ErrRequestNotFound      = errors.New("verification request not found")
	ErrDuplicatePending     = errors.New("a verification request is already pending")
	ErrDocumentRequired     = errors.New("both identity documents are required")
	ErrDocumentTooLarge     = errors.New("identity documents must be 5MB or smaller")
	ErrInvalidDocumentType  = errors.New("identity documents must be JPEG, PNG or PDF")
	ErrPreviousNotRejected  = errors.New("only a rejected request can be resubmitted")
	ErrAlreadyReviewed      = errors.New("verification request has already been reviewed")
	ErrRejectReasonRequired = errors.New("a rejection reason is required")
)

var allowedDocTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"application/pdf": true,
}

type VerificationService struct {
	db    *gorm.DB
	store *storage.Store
	maxMB int64
}

func NewVerificationService(db *gorm.DB, store *storage.Store, maxMB int64) *VerificationService {
	return &VerificationService{db: db, store: store, maxMB: maxMB}
}

// Submit files a landlord application with two identity documents.
func (s *VerificationService) Submit(actor authz.Actor, businessName, businessRegNumber string, idFront, idBack *multipart.FileHeader) (*models.VerificationRequest, error) {
	return s.create(actor, businessName, businessRegNumber, idFront, idBack, nil)
}

// Resubmit files a fresh application chained to a rejected one. The previous
// request must belong to the caller; the chain is kept for audit.
func (s *VerificationService) Resubmit(actor authz.Actor, previousID uuid.UUID, businessName, businessRegNumber string, idFront, idBack *multipart.FileHeader) (*models.VerificationRequest, error) {
	var previous models.VerificationRequest
	if err := s.db.First(&previous, "id = ?", previousID).Error; err != nil {
		return nil, ErrRequestNotFound
	}
	if previous.UserID != actor.ID {
		return nil, ErrRequestNotFound
	}
	if previous.Status != models.VerificationRejected {
		return nil, ErrPreviousNotRejected
	}
	return s.create(actor, businessName, businessRegNumber, idFront, idBack, &previousID)
}

func (s *VerificationService) create(actor authz.Actor, businessName, businessRegNumber string, idFront, idBack *multipart.FileHeader, previousID *uuid.UUID) (*models.VerificationRequest, error) {
	var pending models.VerificationRequest
	err := s.db.Where("user_id = ? AND status = ?", actor.ID, models.VerificationPending).First(&pending).Error
	if err == nil {
		return nil, ErrDuplicatePending
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check pending requests: %w", err)
	}

	if err := s.validateDocument(idFront); err != nil {
		return nil, err
	}
	if err := s.validateDocument(idBack); err != nil {
		return nil, err
	}

	frontKey, err := s.store.Save("verification", idFront)
	if err != nil {
		return nil, fmt.Errorf("failed to store identity document: %w", err)
	}
	backKey, err := s.store.Save("verification", idBack)
	if err != nil {
		s.store.Remove(frontKey)
		return nil, fmt.Errorf("failed to store identity document: %w", err)
	}

	request := models.VerificationRequest{
		ID:                uuid.New(),
		UserID:            actor.ID,
		Status:            models.VerificationPending,
		IDFrontKey:        frontKey,
		IDBackKey:         backKey,
		BusinessName:      businessName,
		BusinessRegNumber: businessRegNumber,
		PreviousRequestID: previousID,
	}

	if err := s.db.Create(&request).Error; err != nil {
		s.store.Remove(frontKey)
		s.store.Remove(backKey)
		return nil, fmt.Errorf("failed to create verification request: %w", err)
	}
	return &request, nil
}

func (s *VerificationService) validateDocument(file *multipart.FileHeader) error {
	if file == nil {
		return ErrDocumentRequired
	}
	maxMB := int64(settingInt(s.db, SettingVerificationMaxDocMB, int(s.maxMB)))
	if file.Size > maxMB*1024*1024 {
		return ErrDocumentTooLarge
	}
	if !allowedDocTypes[file.Header.Get("Content-Type")] {
		return ErrInvalidDocumentType
	}
	return nil
}

// MyRequests returns the caller's applications, newest first.
func (s *VerificationService) MyRequests(actor authz.Actor) ([]models.VerificationRequest, error) {
	var requests []models.VerificationRequest
	if err := s.db.Where("user_id = ?", actor.ID).Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// ListForReview returns applications by status for the admin dashboard.
func (s *VerificationService) ListForReview(status string, limit, offset int) ([]models.VerificationRequest, int64, error) {
	query := s.db.Model(&models.VerificationRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var requests []models.VerificationRequest
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&requests).Error; err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// Detail builds the admin review view with time-limited signed document URLs.
func (s *VerificationService) Detail(requestID uuid.UUID) (*dto.VerificationDetail, error) {
	var request models.VerificationRequest
	if err := s.db.Preload("User").First(&request, "id = ?", requestID).Error; err != nil {
		return nil, ErrRequestNotFound
	}

	return &dto.VerificationDetail{
		ID:                request.ID,
		UserID:            request.UserID,
		UserEmail:         request.User.Email,
		Status:            request.Status,
		BusinessName:      request.BusinessName,
		BusinessRegNumber: request.BusinessRegNumber,
		AdminNotes:        request.AdminNotes,
		PreviousRequestID: request.PreviousRequestID,
		IDFrontURL:        s.store.SignedURL(request.IDFrontKey),
		IDBackURL:         s.store.SignedURL(request.IDBackKey),
		CreatedAt:         request.CreatedAt,
	}, nil
}

// Approve marks the request approved and promotes the owning user to a
// verified landlord, both inside one transaction so the role flip can never
// drift from the request status.
func (s *VerificationService) Approve(reviewerID uuid.UUID, requestID uuid.UUID) error {
	var request models.VerificationRequest
	if err := s.db.First(&request, "id = ?", requestID).Error; err != nil {
		return ErrRequestNotFound
	}
	if request.Status != models.VerificationPending {
		return ErrAlreadyReviewed
	}

	now := time.Now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&request).Updates(map[string]interface{}{
			"status":      models.VerificationApproved,
			"reviewed_by": reviewerID,
			"reviewed_at": now,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", request.UserID).Updates(map[string]interface{}{
			"role":        models.RoleLandlord,
			"is_verified": true,
		}).Error
	})
}

// Reject closes the request with reviewer notes surfaced back to the applicant.
func (s *VerificationService) Reject(reviewerID uuid.UUID, requestID uuid.UUID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrRejectReasonRequired
	}

	var request models.VerificationRequest
	if err := s.db.First(&request, "id = ?", requestID).Error; err != nil {
		return ErrRequestNotFound
	}
	if request.Status != models.VerificationPending {
		return ErrAlreadyReviewed
	}

	now := time.Now()
	return s.db.Model(&request).Updates(map[string]interface{}{
		"status":      models.VerificationRejected,
		"admin_notes": reason,
		"reviewed_by": reviewerID,
		"reviewed_at": now,
	}).Error
}
