package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rentorahq/rentora-backend/internal/authz"
	"github.com/rentorahq/rentora-backend/internal/dto"
	"github.com/rentorahq/rentora-backend/internal/models"
)

var (
	ErrDepositNotFound        = errors.New("deposit not found")
	ErrDepositAlreadyExists   = errors.New("a deposit already exists for this lease")
	ErrDepositNotPending      = errors.New("deposit payment can only be confirmed from pending")
	ErrDepositNotHeld         = errors.New("deposit must be held before release or forfeiture")
	ErrDeductionExceedsAmount = errors.New("deduction cannot exceed the deposit amount")
	ErrDeductionReason        = errors.New("a reason is required for deductions")
	ErrForfeitReason          = errors.New("a reason is required to forfeit a deposit")
)

type DepositService struct {
	db *gorm.DB
}

func NewDepositService(db *gorm.DB) *DepositService {
	return &DepositService{db: db}
}

// createForLease opens the escrow record when a lease is approved. Exactly
// one deposit per lease; the unique index backs this up under races.
func (s *DepositService) createForLease(tx *gorm.DB, lease *models.Lease) error {
	var count int64
	if err := tx.Model(&models.Deposit{}).Where("lease_id = ?", lease.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing deposit: %w", err)
	}
	if count > 0 {
		return ErrDepositAlreadyExists
	}

	deposit := models.Deposit{
		ID:      uuid.New(),
		LeaseID: lease.ID,
		Amount:  lease.DepositAmount,
		Status:  models.DepositPending,
	}
	if err := tx.Create(&deposit).Error; err != nil {
		return fmt.Errorf("failed to create deposit: %w", err)
	}
	return nil
}

// CreateForLease opens escrow outside the approval flow (admin repair path).
func (s *DepositService) CreateForLease(actor authz.Actor, leaseID uuid.UUID) (*models.Deposit, error) {
	var lease models.Lease
	if err := s.db.First(&lease, "id = ?", leaseID).Error; err != nil {
		return nil, ErrLeaseNotFound
	}
	if lease.LandlordID != actor.ID && !actor.IsAdmin() {
		return nil, ErrLeaseNotFound
	}

	if err := s.createForLease(s.db, &lease); err != nil {
		return nil, err
	}
	return s.GetForLease(actor, leaseID)
}

// ConfirmPayment records receipt of the deposit funds, moving pending -> held.
func (s *DepositService) ConfirmPayment(actor authz.Actor, leaseID uuid.UUID, req *dto.ConfirmDepositRequest) error {
	deposit, err := s.landlordDeposit(actor, leaseID)
	if err != nil {
		return err
	}
	if deposit.Status != models.DepositPending {
		return ErrDepositNotPending
	}

	now := time.Now()
	return s.db.Model(deposit).Updates(map[string]interface{}{
		"status":    models.DepositHeld,
		"method":    req.Method,
		"reference": req.Reference,
		"paid_at":   now,
	}).Error
}

// Release refunds the deposit. A zero deduction releases in full; a positive
// deduction needs a reason and moves the record to partial_release. The
// deduction is strictly clamped to the held amount.
func (s *DepositService) Release(actor authz.Actor, leaseID uuid.UUID, req *dto.ReleaseDepositRequest) error {
	deposit, err := s.landlordDeposit(actor, leaseID)
	if err != nil {
		return err
	}
	if deposit.Status != models.DepositHeld {
		return ErrDepositNotHeld
	}
	if req.DeductionAmount.Sign() < 0 {
		return errors.New("deduction cannot be negative")
	}
	if req.DeductionAmount.GreaterThan(deposit.Amount) {
		return ErrDeductionExceedsAmount
	}

	status := models.DepositReleased
	if req.DeductionAmount.Sign() > 0 {
		if strings.TrimSpace(req.Reason) == "" {
			return ErrDeductionReason
		}
		status = models.DepositPartialRelease
	}
	refund := deposit.Amount.Sub(req.DeductionAmount)

	now := time.Now()
	return s.db.Model(deposit).Updates(map[string]interface{}{
		"status":           status,
		"deduction_amount": req.DeductionAmount,
		"deduction_reason": req.Reason,
		"refund_amount":    refund,
		"released_at":      now,
	}).Error
}

// Forfeit keeps the entire deposit for the landlord, with a mandatory reason.
func (s *DepositService) Forfeit(actor authz.Actor, leaseID uuid.UUID, reason string) error {
	deposit, err := s.landlordDeposit(actor, leaseID)
	if err != nil {
		return err
	}
	if deposit.Status != models.DepositHeld {
		return ErrDepositNotHeld
	}
	if strings.TrimSpace(reason) == "" {
		return ErrForfeitReason
	}

	now := time.Now()
	return s.db.Model(deposit).Updates(map[string]interface{}{
		"status":           models.DepositForfeited,
		"deduction_amount": deposit.Amount,
		"deduction_reason": reason,
		"refund_amount":    decimal.Zero,
		"released_at":      now,
	}).Error
}

// GetForLease returns the lease's deposit for its parties.
func (s *DepositService) GetForLease(actor authz.Actor, leaseID uuid.UUID) (*models.Deposit, error) {
	var lease models.Lease
	if err := s.db.First(&lease, "id = ?", leaseID).Error; err != nil {
		return nil, ErrLeaseNotFound
	}
	if lease.TenantID != actor.ID && lease.LandlordID != actor.ID && !actor.IsAdmin() {
		return nil, ErrLeaseNotFound
	}

	var deposit models.Deposit
	if err := s.db.Where("lease_id = ?", leaseID).First(&deposit).Error; err != nil {
		return nil, ErrDepositNotFound
	}
	return &deposit, nil
}

// landlordDeposit resolves a lease's deposit for its landlord. Keyed by the
// lease because that is how the deposit is addressed on the wire and there is
// exactly one per lease.
func (s *DepositService) landlordDeposit(actor authz.Actor, leaseID uuid.UUID) (*models.Deposit, error) {
	var deposit models.Deposit
	if err := s.db.Preload("Lease").Where("lease_id = ?", leaseID).First(&deposit).Error; err != nil {
		return nil, ErrDepositNotFound
	}
	if deposit.Lease.LandlordID != actor.ID {
		return nil, ErrDepositNotFound
	}
	return &deposit, nil
}
