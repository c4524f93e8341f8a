package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentorahq/rentora-backend/internal/authz"
	"github.com/rentorahq/rentora-backend/internal/dto"
	"github.com/rentorahq/rentora-backend/internal/models"
)

const defaultMonthsAhead = 12

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrLeaseNotActive  = errors.New("lease is not approved")
	ErrAlreadyPaid     = errors.New("payment is already marked paid")
)

type PaymentService struct {
	db *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

// GenerateRecurring creates pending rent rows for the months ahead of the
// lease start. Safe to call repeatedly; existing due dates are skipped.
func (s *PaymentService) GenerateRecurring(actor authz.Actor, leaseID uuid.UUID, monthsAhead int) (int, error) {
	var lease models.Lease
	if err := s.db.First(&lease, "id = ?", leaseID).Error; err != nil {
		return 0, ErrLeaseNotFound
	}
	if lease.LandlordID != actor.ID {
		return 0, ErrLeaseNotFound
	}
	if lease.Status != models.LeaseApproved {
		return 0, ErrLeaseNotActive
	}
	if monthsAhead <= 0 {
		monthsAhead = settingInt(s.db, SettingPaymentMonthsAhead, defaultMonthsAhead)
	}
	return s.generateForLease(s.db, &lease, monthsAhead)
}

// generateForLease writes one pending rent payment per calendar month,
// starting the month after the lease start (the first month is created at
// approval time) and stopping before the lease end. Re-runs skip months that
// already have a row.
func (s *PaymentService) generateForLease(tx *gorm.DB, lease *models.Lease, monthsAhead int) (int, error) {
	created := 0
	for m := 1; m <= monthsAhead; m++ {
		due := lease.StartDate.AddDate(0, m, 0)
		if !due.Before(lease.EndDate) {
			break
		}

		var count int64
		if err := tx.Model(&models.Payment{}).
			Where("lease_id = ? AND due_date = ? AND type = ?", lease.ID, due, models.PaymentTypeRent).
			Count(&count).Error; err != nil {
			return created, fmt.Errorf("failed to check existing payments: %w", err)
		}
		if count > 0 {
			continue
		}

		payment := models.Payment{
			ID:      uuid.New(),
			LeaseID: lease.ID,
			Type:    models.PaymentTypeRent,
			Status:  models.PaymentPending,
			Amount:  lease.MonthlyRent,
			DueDate: due,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return created, fmt.Errorf("failed to create payment: %w", err)
		}
		created++
	}
	return created, nil
}

// MarkOverdue flips every pending payment past its due date to overdue.
// Invoked by the scheduler and exposed as an admin endpoint for on-demand runs.
func (s *PaymentService) MarkOverdue(now time.Time) (int64, error) {
	result := s.db.Model(&models.Payment{}).
		Where("status = ? AND due_date < ?", models.PaymentPending, now).
		Update("status", models.PaymentOverdue)
	return result.RowsAffected, result.Error
}

// Record marks a payment paid. Only the landlord on the payment's lease may
// confirm receipt; paid is terminal.
func (s *PaymentService) Record(actor authz.Actor, paymentID uuid.UUID, req *dto.RecordPaymentRequest) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.Preload("Lease").First(&payment, "id = ?", paymentID).Error; err != nil {
		return nil, ErrPaymentNotFound
	}
	if payment.Lease.LandlordID != actor.ID {
		return nil, ErrPaymentNotFound
	}
	if payment.Status == models.PaymentPaid {
		return nil, ErrAlreadyPaid
	}

	paidAt := time.Now()
	if req.PaidAt != "" {
		t, err := parseDate(req.PaidAt)
		if err != nil {
			return nil, err
		}
		paidAt = t
	}

	if err := s.db.Model(&payment).Updates(map[string]interface{}{
		"status":    models.PaymentPaid,
		"paid_at":   paidAt,
		"method":    req.Method,
		"reference": req.Reference,
		"notes":     req.Notes,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	return &payment, nil
}

// ListForLease returns the lease's payment schedule for its parties.
func (s *PaymentService) ListForLease(actor authz.Actor, leaseID uuid.UUID) ([]models.Payment, error) {
	var lease models.Lease
	if err := s.db.First(&lease, "id = ?", leaseID).Error; err != nil {
		return nil, ErrLeaseNotFound
	}
	if lease.TenantID != actor.ID && lease.LandlordID != actor.ID && !actor.IsAdmin() {
		return nil, ErrLeaseNotFound
	}

	var payments []models.Payment
	if err := s.db.Where("lease_id = ?", leaseID).Order("due_date").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// ListMine returns payments across all leases the actor is a party to,
// optionally filtered by status.
func (s *PaymentService) ListMine(actor authz.Actor, status string) ([]models.Payment, error) {
	query := s.db.
		Joins("JOIN leases ON leases.id = payments.lease_id").
		Where("leases.tenant_id = ? OR leases.landlord_id = ?", actor.ID, actor.ID)
	if status != "" {
		query = query.Where("payments.status = ?", status)
	}

	var payments []models.Payment
	if err := query.Order("payments.due_date").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}
