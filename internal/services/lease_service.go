package services

import (
	"encoding/json"
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
	ErrLeaseNotFound          = errors.New("lease not found")
	ErrInvalidLeaseTransition = errors.New("invalid lease status transition")
	ErrMissingSignature       = errors.New("a signature is required to submit the lease")
	ErrMissingDocuments       = errors.New("identity documents (front and back) are required to submit the lease")
	ErrTermsIncomplete        = errors.New("lease terms must be populated before sending")
	ErrRevisionNoteRequired   = errors.New("a note describing the requested changes is required")
	ErrLeaseReasonRequired    = errors.New("a reason is required")
	ErrTenantNotFound         = errors.New("tenant not found")
	ErrInvalidDates           = errors.New("end date must be after start date")
)

// leaseTransitions is the full transition table. Anything not listed here is
// rejected with ErrInvalidLeaseTransition; terminal states have no exits.
var leaseTransitions = map[string]map[string]bool{
	models.LeaseDraft: {
		models.LeaseSentToTenant: true,
		models.LeaseRejected:     true,
	},
	models.LeaseSentToTenant: {
		models.LeaseTenantSigned: true,
		models.LeaseRejected:     true,
	},
	models.LeaseRevisionRequested: {
		models.LeaseTenantSigned: true,
		models.LeaseRejected:     true,
	},
	models.LeaseTenantSigned: {
		models.LeaseApproved:          true,
		models.LeaseRevisionRequested: true,
		models.LeaseRejected:          true,
	},
	models.LeaseApproved: {
		models.LeaseExpired:    true,
		models.LeaseTerminated: true,
		models.LeaseRejected:   true,
	},
}

func canTransition(from, to string) bool {
	return leaseTransitions[from][to]
}

type LeaseService struct {
	db       *gorm.DB
	store    *storage.Store
	deposits *DepositService
	payments *PaymentService
}

func NewLeaseService(db *gorm.DB, store *storage.Store, deposits *DepositService, payments *PaymentService) *LeaseService {
	return &LeaseService{db: db, store: store, deposits: deposits, payments: payments}
}

// Create drafts a lease for one of the landlord's own properties, assigning
// the tenant by email.
func (s *LeaseService) Create(actor authz.Actor, req *dto.CreateLeaseRequest) (*models.Lease, error) {
	var property models.Property
	if err := s.db.First(&property, "id = ?", req.PropertyID).Error; err != nil {
		return nil, ErrPropertyNotFound
	}
	if property.LandlordID != actor.ID {
		return nil, ErrPropertyNotFound
	}

	var tenant models.User
	if err := s.db.Where("email = ?", req.TenantEmail).First(&tenant).Error; err != nil {
		return nil, ErrTenantNotFound
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, ErrInvalidDates
	}
	if req.MonthlyRent.Sign() <= 0 || req.DepositAmount.Sign() < 0 {
		return nil, errors.New("monthly rent must be positive and deposit non-negative")
	}

	lease := models.Lease{
		ID:            uuid.New(),
		PropertyID:    property.ID,
		TenantID:      tenant.ID,
		LandlordID:    actor.ID,
		Status:        models.LeaseDraft,
		StartDate:     start,
		EndDate:       end,
		MonthlyRent:   req.MonthlyRent,
		DepositAmount: req.DepositAmount,
		Clauses:       toJSONList(req.Clauses),
	}

	if err := s.db.Create(&lease).Error; err != nil {
		return nil, fmt.Errorf("failed to create lease: %w", err)
	}
	return &lease, nil
}

// Update edits draft terms. Once the lease has been sent, terms change only
// through the revision workflow.
func (s *LeaseService) Update(actor authz.Actor, leaseID uuid.UUID, req *dto.UpdateLeaseRequest) (*models.Lease, error) {
	lease, err := s.landlordLease(actor, leaseID)
	if err != nil {
		return nil, err
	}
	if lease.Status != models.LeaseDraft && lease.Status != models.LeaseRevisionRequested {
		return nil, ErrInvalidLeaseTransition
	}

	updates := map[string]interface{}{}
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, err
		}
		updates["start_date"] = start
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, err
		}
		updates["end_date"] = end
	}
	if req.MonthlyRent != nil {
		updates["monthly_rent"] = *req.MonthlyRent
	}
	if req.DepositAmount != nil {
		updates["deposit_amount"] = *req.DepositAmount
	}
	if req.Clauses != nil {
		updates["clauses"] = toJSONList(req.Clauses)
	}

	if len(updates) > 0 {
		if err := s.db.Model(lease).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update lease: %w", err)
		}
	}
	return lease, nil
}

// SendToTenant moves a populated draft into the tenant's court.
func (s *LeaseService) SendToTenant(actor authz.Actor, leaseID uuid.UUID) error {
	lease, err := s.landlordLease(actor, leaseID)
	if err != nil {
		return err
	}
	if !canTransition(lease.Status, models.LeaseSentToTenant) {
		return ErrInvalidLeaseTransition
	}

	var clauses []string
	_ = json.Unmarshal(lease.Clauses, &clauses)
	if len(clauses) == 0 {
		return ErrTermsIncomplete
	}

	return s.db.Model(lease).Update("status", models.LeaseSentToTenant).Error
}

// UploadDocument stores a tenant identity document against the lease.
func (s *LeaseService) UploadDocument(actor authz.Actor, leaseID uuid.UUID, docType string, file *multipart.FileHeader) (*models.LeaseDocument, error) {
	lease, err := s.tenantLease(actor, leaseID)
	if err != nil {
		return nil, err
	}
	if docType != models.DocTypeIDFront && docType != models.DocTypeIDBack && docType != models.DocTypeOther {
		return nil, errors.New("doc_type must be id_front, id_back or other")
	}
	if file == nil {
		return nil, ErrDocumentRequired
	}
	if file.Size > 5*1024*1024 {
		return nil, ErrDocumentTooLarge
	}

	key, err := s.store.Save("lease", file)
	if err != nil {
		return nil, fmt.Errorf("failed to store lease document: %w", err)
	}

	doc := models.LeaseDocument{
		ID:         uuid.New(),
		LeaseID:    lease.ID,
		UploaderID: actor.ID,
		DocType:    docType,
		StorageKey: key,
	}
	if err := s.db.Create(&doc).Error; err != nil {
		s.store.Remove(key)
		return nil, fmt.Errorf("failed to record lease document: %w", err)
	}
	return &doc, nil
}

// SubmitSigned records the tenant's signature. Requires both identity
// documents on file; legal from sent_to_tenant and revision_requested.
func (s *LeaseService) SubmitSigned(actor authz.Actor, leaseID uuid.UUID, signature string) error {
	lease, err := s.tenantLease(actor, leaseID)
	if err != nil {
		return err
	}
	if !canTransition(lease.Status, models.LeaseTenantSigned) {
		return ErrInvalidLeaseTransition
	}
	if strings.TrimSpace(signature) == "" {
		return ErrMissingSignature
	}

	var docTypes []string
	if err := s.db.Model(&models.LeaseDocument{}).
		Where("lease_id = ?", lease.ID).
		Distinct().Pluck("doc_type", &docTypes).Error; err != nil {
		return fmt.Errorf("failed to check lease documents: %w", err)
	}
	present := map[string]bool{}
	for _, t := range docTypes {
		present[t] = true
	}
	if !present[models.DocTypeIDFront] || !present[models.DocTypeIDBack] {
		return ErrMissingDocuments
	}

	now := time.Now()
	return s.db.Model(lease).Updates(map[string]interface{}{
		"status":           models.LeaseTenantSigned,
		"tenant_signature": signature,
		"signed_at":        now,
	}).Error
}

// Approve finalizes a signed lease. The deposit record, the first rent
// obligation and the recurring schedule are created in the same transaction
// as the status flip, so a failed side effect rolls everything back.
func (s *LeaseService) Approve(actor authz.Actor, leaseID uuid.UUID) error {
	lease, err := s.landlordLease(actor, leaseID)
	if err != nil {
		return err
	}
	if !canTransition(lease.Status, models.LeaseApproved) {
		return ErrInvalidLeaseTransition
	}

	now := time.Now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(lease).Updates(map[string]interface{}{
			"status":      models.LeaseApproved,
			"approved_at": now,
		}).Error; err != nil {
			return err
		}

		if err := s.deposits.createForLease(tx, lease); err != nil {
			return err
		}

		firstRent := models.Payment{
			ID:      uuid.New(),
			LeaseID: lease.ID,
			Type:    models.PaymentTypeRent,
			Status:  models.PaymentPending,
			Amount:  lease.MonthlyRent,
			DueDate: lease.StartDate,
		}
		if err := tx.Create(&firstRent).Error; err != nil {
			return fmt.Errorf("failed to create first rent payment: %w", err)
		}

		_, err := s.payments.generateForLease(tx, lease, defaultMonthsAhead)
		return err
	})
}

// RequestRevision sends a signed lease back to the tenant with required notes.
func (s *LeaseService) RequestRevision(actor authz.Actor, leaseID uuid.UUID, note string) error {
	lease, err := s.landlordLease(actor, leaseID)
	if err != nil {
		return err
	}
	if !canTransition(lease.Status, models.LeaseRevisionRequested) {
		return ErrInvalidLeaseTransition
	}
	if strings.TrimSpace(note) == "" {
		return ErrRevisionNoteRequired
	}

	return s.db.Model(lease).Updates(map[string]interface{}{
		"status":        models.LeaseRevisionRequested,
		"revision_note": note,
	}).Error
}

// Reject closes the lease from any non-terminal state with a required reason.
func (s *LeaseService) Reject(actor authz.Actor, leaseID uuid.UUID, reason string) error {
	lease, err := s.landlordLease(actor, leaseID)
	if err != nil {
		return err
	}
	if !canTransition(lease.Status, models.LeaseRejected) {
		return ErrInvalidLeaseTransition
	}
	if strings.TrimSpace(reason) == "" {
		return ErrLeaseReasonRequired
	}

	return s.db.Model(lease).Updates(map[string]interface{}{
		"status":           models.LeaseRejected,
		"rejection_reason": reason,
	}).Error
}

// Terminate ends an active lease early.
func (s *LeaseService) Terminate(actor authz.Actor, leaseID uuid.UUID, reason string) error {
	lease, err := s.landlordLease(actor, leaseID)
	if err != nil {
		return err
	}
	if !canTransition(lease.Status, models.LeaseTerminated) {
		return ErrInvalidLeaseTransition
	}
	if strings.TrimSpace(reason) == "" {
		return ErrLeaseReasonRequired
	}

	return s.db.Model(lease).Updates(map[string]interface{}{
		"status":           models.LeaseTerminated,
		"rejection_reason": reason,
	}).Error
}

// ExpireEnded flips approved leases whose end date has passed to expired.
// Run by the scheduler alongside the overdue-payment sweep.
func (s *LeaseService) ExpireEnded(now time.Time) (int64, error) {
	result := s.db.Model(&models.Lease{}).
		Where("status = ? AND end_date < ?", models.LeaseApproved, now).
		Update("status", models.LeaseExpired)
	return result.RowsAffected, result.Error
}

// Get returns the lease if the actor is a party to it (or an admin).
func (s *LeaseService) Get(actor authz.Actor, leaseID uuid.UUID) (*models.Lease, error) {
	var lease models.Lease
	if err := s.db.First(&lease, "id = ?", leaseID).Error; err != nil {
		return nil, ErrLeaseNotFound
	}
	if lease.TenantID != actor.ID && lease.LandlordID != actor.ID && !actor.IsAdmin() {
		return nil, ErrLeaseNotFound
	}
	return &lease, nil
}

// ListMine returns leases where the actor is tenant or landlord.
func (s *LeaseService) ListMine(actor authz.Actor) ([]models.Lease, error) {
	var leases []models.Lease
	if err := s.db.
		Where("tenant_id = ? OR landlord_id = ?", actor.ID, actor.ID).
		Order("created_at DESC").Find(&leases).Error; err != nil {
		return nil, err
	}
	return leases, nil
}

// Documents lists the lease's attachments with signed URLs, for parties only.
func (s *LeaseService) Documents(actor authz.Actor, leaseID uuid.UUID) ([]map[string]interface{}, error) {
	lease, err := s.Get(actor, leaseID)
	if err != nil {
		return nil, err
	}

	var docs []models.LeaseDocument
	if err := s.db.Where("lease_id = ?", lease.ID).Order("created_at").Find(&docs).Error; err != nil {
		return nil, err
	}

	out := make([]map[string]interface{}, 0, len(docs))
	for _, d := range docs {
		out = append(out, map[string]interface{}{
			"id":         d.ID,
			"doc_type":   d.DocType,
			"url":        s.store.SignedURL(d.StorageKey),
			"created_at": d.CreatedAt,
		})
	}
	return out, nil
}

func (s *LeaseService) landlordLease(actor authz.Actor, leaseID uuid.UUID) (*models.Lease, error) {
	var lease models.Lease
	if err := s.db.First(&lease, "id = ?", leaseID).Error; err != nil {
		return nil, ErrLeaseNotFound
	}
	if lease.LandlordID != actor.ID {
		return nil, ErrLeaseNotFound
	}
	return &lease, nil
}

func (s *LeaseService) tenantLease(actor authz.Actor, leaseID uuid.UUID) (*models.Lease, error) {
	var lease models.Lease
	if err := s.db.First(&lease, "id = ?", leaseID).Error; err != nil {
		return nil, ErrLeaseNotFound
	}
	if lease.TenantID != actor.ID {
		return nil, ErrLeaseNotFound
	}
	return &lease, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}
