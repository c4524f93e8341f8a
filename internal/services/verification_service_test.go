package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentorahq/rentora-backend/internal/models"
	"github.com/rentorahq/rentora-backend/internal/storage"
)

func TestVerificationApprovePromotesUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db, newTestStore(t), 5)
	applicant := createUser(t, db, "applicant@example.com", models.RoleTenant, false)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin, true)

	request, err := svc.Submit(actorFor(applicant), "Acme Rentals", "REG-1",
		makeFileHeader(t, "front.png", "image/png", 256),
		makeFileHeader(t, "back.png", "image/png", 256))
	require.NoError(t, err)
	assert.Equal(t, models.VerificationPending, request.Status)

	require.NoError(t, svc.Approve(admin.ID, request.ID))

	var gotRequest models.VerificationRequest
	require.NoError(t, db.First(&gotRequest, "id = ?", request.ID).Error)
	assert.Equal(t, models.VerificationApproved, gotRequest.Status)
	require.NotNil(t, gotRequest.ReviewedBy)
	assert.Equal(t, admin.ID, *gotRequest.ReviewedBy)
	assert.NotNil(t, gotRequest.ReviewedAt)

	var gotUser models.User
	require.NoError(t, db.First(&gotUser, "id = ?", applicant.ID).Error)
	assert.Equal(t, models.RoleLandlord, gotUser.Role)
	assert.True(t, gotUser.IsVerified)

	// a decision is final
	err = svc.Approve(admin.ID, request.ID)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestVerificationDuplicatePending(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db, newTestStore(t), 5)
	applicant := createUser(t, db, "applicant@example.com", models.RoleTenant, false)

	_, err := svc.Submit(actorFor(applicant), "Acme Rentals", "REG-1",
		makeFileHeader(t, "front.png", "image/png", 256),
		makeFileHeader(t, "back.png", "image/png", 256))
	require.NoError(t, err)

	_, err = svc.Submit(actorFor(applicant), "Acme Rentals", "REG-1",
		makeFileHeader(t, "front.png", "image/png", 256),
		makeFileHeader(t, "back.png", "image/png", 256))
	assert.ErrorIs(t, err, ErrDuplicatePending)
}

func TestVerificationResubmitChain(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db, newTestStore(t), 5)
	applicant := createUser(t, db, "applicant@example.com", models.RoleTenant, false)
	stranger := createUser(t, db, "stranger@example.com", models.RoleTenant, false)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin, true)

	first, err := svc.Submit(actorFor(applicant), "Acme Rentals", "REG-1",
		makeFileHeader(t, "front.png", "image/png", 256),
		makeFileHeader(t, "back.png", "image/png", 256))
	require.NoError(t, err)

	// only rejected requests can be resubmitted
	_, err = svc.Resubmit(actorFor(applicant), first.ID, "Acme Rentals", "REG-1",
		makeFileHeader(t, "front.png", "image/png", 256),
		makeFileHeader(t, "back.png", "image/png", 256))
	assert.ErrorIs(t, err, ErrPreviousNotRejected)

	require.NoError(t, svc.Reject(admin.ID, first.ID, "Documents unreadable"))

	// the previous request must belong to the caller
	_, err = svc.Resubmit(actorFor(stranger), first.ID, "Acme Rentals", "REG-1",
		makeFileHeader(t, "front.png", "image/png", 256),
		makeFileHeader(t, "back.png", "image/png", 256))
	assert.ErrorIs(t, err, ErrRequestNotFound)

	second, err := svc.Resubmit(actorFor(applicant), first.ID, "Acme Rentals", "REG-1",
		makeFileHeader(t, "front.png", "image/png", 256),
		makeFileHeader(t, "back.png", "image/png", 256))
	require.NoError(t, err)
	require.NotNil(t, second.PreviousRequestID)
	assert.Equal(t, first.ID, *second.PreviousRequestID)
}

func TestVerificationDocumentValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db, newTestStore(t), 1)
	applicant := createUser(t, db, "applicant@example.com", models.RoleTenant, false)

	t.Run("missing document", func(t *testing.T) {
		_, err := svc.Submit(actorFor(applicant), "", "", nil,
			makeFileHeader(t, "back.png", "image/png", 256))
		assert.ErrorIs(t, err, ErrDocumentRequired)
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := svc.Submit(actorFor(applicant), "", "",
			makeFileHeader(t, "front.exe", "application/octet-stream", 256),
			makeFileHeader(t, "back.png", "image/png", 256))
		assert.ErrorIs(t, err, ErrInvalidDocumentType)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := svc.Submit(actorFor(applicant), "", "",
			makeFileHeader(t, "front.png", "image/png", 1024*1024+1),
			makeFileHeader(t, "back.png", "image/png", 256))
		assert.ErrorIs(t, err, ErrDocumentTooLarge)
	})
}

func TestVerificationRejectRequiresReason(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db, newTestStore(t), 5)
	applicant := createUser(t, db, "applicant@example.com", models.RoleTenant, false)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin, true)

	request, err := svc.Submit(actorFor(applicant), "", "",
		makeFileHeader(t, "front.png", "image/png", 256),
		makeFileHeader(t, "back.png", "image/png", 256))
	require.NoError(t, err)

	err = svc.Reject(admin.ID, request.ID, " ")
	assert.ErrorIs(t, err, ErrRejectReasonRequired)

	require.NoError(t, svc.Reject(admin.ID, request.ID, "Documents unreadable"))

	var gotUser models.User
	require.NoError(t, db.First(&gotUser, "id = ?", applicant.ID).Error)
	assert.Equal(t, models.RoleTenant, gotUser.Role)
	assert.False(t, gotUser.IsVerified)
}

func TestVerificationDocCeilingSetting(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db, newTestStore(t), 5)
	applicant := createUser(t, db, "applicant@example.com", models.RoleTenant, false)

	require.NoError(t, db.Create(&models.PlatformSetting{
		Key: SettingVerificationMaxDocMB, Value: "1",
	}).Error)

	_, err := svc.Submit(actorFor(applicant), "", "",
		makeFileHeader(t, "front.png", "image/png", 1024*1024+1),
		makeFileHeader(t, "back.png", "image/png", 256))
	assert.ErrorIs(t, err, ErrDocumentTooLarge)

	// removing the knob falls back to the configured ceiling
	require.NoError(t, db.Delete(&models.PlatformSetting{}, "key = ?", SettingVerificationMaxDocMB).Error)
	_, err = svc.Submit(actorFor(applicant), "", "",
		makeFileHeader(t, "front.png", "image/png", 1024*1024+1),
		makeFileHeader(t, "back.png", "image/png", 256))
	require.NoError(t, err)
}

func TestSubmitSurfacesStoreFailures(t *testing.T) {
	db := setupTestDB(t)
	dir := t.TempDir()
	svc := NewVerificationService(db, storage.New(dir, "test-secret", time.Hour, "http://localhost:8080"), 5)
	applicant := createUser(t, db, "applicant@example.com", models.RoleTenant, false)

	require.NoError(t, db.Migrator().DropTable(&models.VerificationRequest{}))

	_, err := svc.Submit(actorFor(applicant), "", "",
		makeFileHeader(t, "front.png", "image/png", 256),
		makeFileHeader(t, "back.png", "image/png", 256))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicatePending)

	// the failed submission must not leave documents behind
	_, statErr := os.Stat(filepath.Join(dir, "verification"))
	assert.True(t, os.IsNotExist(statErr))
}
