package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentorahq/rentora-backend/internal/config"
	"github.com/rentorahq/rentora-backend/internal/dto"
	"github.com/rentorahq/rentora-backend/internal/models"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testAuthConfig())

	resp, err := svc.Register(&dto.RegisterRequest{
		Email:    "jane@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.RoleTenant, resp.User.Role)
	assert.False(t, resp.User.IsVerified)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(&dto.RegisterRequest{
			Email:    "jane@example.com",
			Password: "another-password",
		})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := svc.Register(&dto.RegisterRequest{
			Email:    "short@example.com",
			Password: "short",
		})
		assert.Error(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(&dto.LoginRequest{
			Email:    "jane@example.com",
			Password: "wrong-password",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("valid login", func(t *testing.T) {
		got, err := svc.Login(&dto.LoginRequest{
			Email:    "jane@example.com",
			Password: "secret-password",
		})
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, got.User.ID)
	})
}

func TestRefreshRotatesToken(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testAuthConfig())

	resp, err := svc.Register(&dto.RegisterRequest{
		Email:    "jane@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	next, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, next.RefreshToken)

	// the old token is revoked on rotation
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	// the new one still works
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: next.RefreshToken})
	assert.NoError(t, err)
}

func TestLogoutRevokesToken(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testAuthConfig())

	resp, err := svc.Register(&dto.RegisterRequest{
		Email:    "jane@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: resp.RefreshToken}))

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDeleteAccountKeepsFinancialTrail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testAuthConfig())

	resp, err := svc.Register(&dto.RegisterRequest{
		Email:    "landlord@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", resp.User.ID).Error)
	tenant := createUser(t, db, "tenant@example.com", models.RoleTenant, false)
	property := createProperty(t, db, user, models.ApprovalApproved, true)
	lease := createLease(t, db, user, tenant, property, models.LeaseApproved,
		date(2024, time.January, 1), date(2024, time.June, 1))

	require.NoError(t, svc.DeleteAccount(user.ID, "secret-password"))

	err = db.First(&user, "id = ?", resp.User.ID).Error
	assert.Error(t, err)

	var gotLease models.Lease
	assert.NoError(t, db.First(&gotLease, "id = ?", lease.ID).Error)
}
