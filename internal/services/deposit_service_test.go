package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentorahq/rentora-backend/internal/dto"
	"github.com/rentorahq/rentora-backend/internal/models"
)

func TestOneDepositPerLease(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDepositService(db)
	landlord := createUser(t, db, "landlord@example.com", models.RoleLandlord, true)
	tenant := createUser(t, db, "tenant@example.com", models.RoleTenant, false)
	property := createProperty(t, db, landlord, models.ApprovalApproved, true)
	lease := createLease(t, db, landlord, tenant, property, models.LeaseApproved,
		date(2024, time.January, 1), date(2024, time.June, 1))

	deposit, err := svc.CreateForLease(actorFor(landlord), lease.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DepositPending, deposit.Status)
	assert.True(t, deposit.Amount.Equal(lease.DepositAmount))

	_, err = svc.CreateForLease(actorFor(landlord), lease.ID)
	assert.ErrorIs(t, err, ErrDepositAlreadyExists)
}

func TestConfirmDepositPayment(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDepositService(db)
	landlord := createUser(t, db, "landlord@example.com", models.RoleLandlord, true)
	tenant := createUser(t, db, "tenant@example.com", models.RoleTenant, false)
	property := createProperty(t, db, landlord, models.ApprovalApproved, true)
	lease := createLease(t, db, landlord, tenant, property, models.LeaseApproved,
		date(2024, time.January, 1), date(2024, time.June, 1))

	deposit, err := svc.CreateForLease(actorFor(landlord), lease.ID)
	require.NoError(t, err)

	require.NoError(t, svc.ConfirmPayment(actorFor(landlord), deposit.LeaseID, &dto.ConfirmDepositRequest{
		Method:    "bank_transfer",
		Reference: "DEP-42",
	}))

	var got models.Deposit
	require.NoError(t, db.First(&got, "id = ?", deposit.ID).Error)
	assert.Equal(t, models.DepositHeld, got.Status)
	assert.NotNil(t, got.PaidAt)

	// held is not pending anymore
	err = svc.ConfirmPayment(actorFor(landlord), deposit.LeaseID, &dto.ConfirmDepositRequest{})
	assert.ErrorIs(t, err, ErrDepositNotPending)
}

func TestReleaseDeposit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDepositService(db)
	landlord := createUser(t, db, "landlord@example.com", models.RoleLandlord, true)
	tenant := createUser(t, db, "tenant@example.com", models.RoleTenant, false)
	property := createProperty(t, db, landlord, models.ApprovalApproved, true)

	heldDeposit := func(t *testing.T) models.Deposit {
		lease := createLease(t, db, landlord, tenant, property, models.LeaseApproved,
			date(2024, time.January, 1), date(2024, time.June, 1))
		deposit, err := svc.CreateForLease(actorFor(landlord), lease.ID)
		require.NoError(t, err)
		require.NoError(t, svc.ConfirmPayment(actorFor(landlord), deposit.LeaseID, &dto.ConfirmDepositRequest{}))
		return *deposit
	}

	t.Run("full release", func(t *testing.T) {
		deposit := heldDeposit(t)
		require.NoError(t, svc.Release(actorFor(landlord), deposit.LeaseID, &dto.ReleaseDepositRequest{}))

		var got models.Deposit
		require.NoError(t, db.First(&got, "id = ?", deposit.ID).Error)
		assert.Equal(t, models.DepositReleased, got.Status)
		assert.True(t, got.RefundAmount.Equal(deposit.Amount))
		assert.True(t, got.DeductionAmount.IsZero())
		assert.NotNil(t, got.ReleasedAt)
	})

	t.Run("partial release", func(t *testing.T) {
		deposit := heldDeposit(t)
		require.NoError(t, svc.Release(actorFor(landlord), deposit.LeaseID, &dto.ReleaseDepositRequest{
			DeductionAmount: decimal.NewFromInt(500),
			Reason:          "Broken window",
		}))

		var got models.Deposit
		require.NoError(t, db.First(&got, "id = ?", deposit.ID).Error)
		assert.Equal(t, models.DepositPartialRelease, got.Status)
		assert.True(t, got.DeductionAmount.Equal(decimal.NewFromInt(500)))
		assert.True(t, got.RefundAmount.Equal(deposit.Amount.Sub(decimal.NewFromInt(500))))
		assert.Equal(t, "Broken window", got.DeductionReason)
	})

	t.Run("deduction needs a reason", func(t *testing.T) {
		deposit := heldDeposit(t)
		err := svc.Release(actorFor(landlord), deposit.LeaseID, &dto.ReleaseDepositRequest{
			DeductionAmount: decimal.NewFromInt(100),
		})
		assert.ErrorIs(t, err, ErrDeductionReason)
	})

	t.Run("deduction clamped to the amount", func(t *testing.T) {
		deposit := heldDeposit(t)
		err := svc.Release(actorFor(landlord), deposit.LeaseID, &dto.ReleaseDepositRequest{
			DeductionAmount: deposit.Amount.Add(decimal.NewFromInt(1)),
			Reason:          "Everything",
		})
		assert.ErrorIs(t, err, ErrDeductionExceedsAmount)
	})

	t.Run("released is terminal", func(t *testing.T) {
		deposit := heldDeposit(t)
		require.NoError(t, svc.Release(actorFor(landlord), deposit.LeaseID, &dto.ReleaseDepositRequest{}))
		err := svc.Release(actorFor(landlord), deposit.LeaseID, &dto.ReleaseDepositRequest{})
		assert.ErrorIs(t, err, ErrDepositNotHeld)
	})
}

func TestForfeitDeposit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDepositService(db)
	landlord := createUser(t, db, "landlord@example.com", models.RoleLandlord, true)
	tenant := createUser(t, db, "tenant@example.com", models.RoleTenant, false)
	property := createProperty(t, db, landlord, models.ApprovalApproved, true)
	lease := createLease(t, db, landlord, tenant, property, models.LeaseApproved,
		date(2024, time.January, 1), date(2024, time.June, 1))

	deposit, err := svc.CreateForLease(actorFor(landlord), lease.ID)
	require.NoError(t, err)

	// must be held first
	err = svc.Forfeit(actorFor(landlord), deposit.LeaseID, "Abandoned the unit")
	assert.ErrorIs(t, err, ErrDepositNotHeld)

	require.NoError(t, svc.ConfirmPayment(actorFor(landlord), deposit.LeaseID, &dto.ConfirmDepositRequest{}))

	err = svc.Forfeit(actorFor(landlord), deposit.LeaseID, "  ")
	assert.ErrorIs(t, err, ErrForfeitReason)

	require.NoError(t, svc.Forfeit(actorFor(landlord), deposit.LeaseID, "Abandoned the unit"))

	var got models.Deposit
	require.NoError(t, db.First(&got, "id = ?", deposit.ID).Error)
	assert.Equal(t, models.DepositForfeited, got.Status)
	assert.True(t, got.DeductionAmount.Equal(deposit.Amount))
	assert.True(t, got.RefundAmount.IsZero())
}

func TestDepositOwnership(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDepositService(db)
	landlord := createUser(t, db, "landlord@example.com", models.RoleLandlord, true)
	other := createUser(t, db, "other@example.com", models.RoleLandlord, true)
	outsider := createUser(t, db, "outsider@example.com", models.RoleTenant, false)
	tenant := createUser(t, db, "tenant@example.com", models.RoleTenant, false)
	property := createProperty(t, db, landlord, models.ApprovalApproved, true)
	lease := createLease(t, db, landlord, tenant, property, models.LeaseApproved,
		date(2024, time.January, 1), date(2024, time.June, 1))

	deposit, err := svc.CreateForLease(actorFor(landlord), lease.ID)
	require.NoError(t, err)

	err = svc.ConfirmPayment(actorFor(other), deposit.LeaseID, &dto.ConfirmDepositRequest{})
	assert.ErrorIs(t, err, ErrDepositNotFound)

	// parties can read, outsiders cannot
	_, err = svc.GetForLease(actorFor(tenant), lease.ID)
	assert.NoError(t, err)
	_, err = svc.GetForLease(actorFor(outsider), lease.ID)
	assert.ErrorIs(t, err, ErrLeaseNotFound)
}
