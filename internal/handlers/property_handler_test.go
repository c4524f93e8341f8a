package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rentorahq/rentora-backend/internal/authz"
	"github.com/rentorahq/rentora-backend/internal/models"
	"github.com/rentorahq/rentora-backend/internal/services"
	"github.com/rentorahq/rentora-backend/internal/storage"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Property{}))
	return db
}

// asActor injects an authenticated actor the way the JWT middleware would.
func asActor(actor authz.Actor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz.Store(c, actor)
		return c.Next()
	}
}

func newPropertyApp(t *testing.T, db *gorm.DB, actor authz.Actor) *fiber.App {
	t.Helper()
	store := storage.New(t.TempDir(), "test-secret", time.Hour, "http://localhost:8080")
	handler := NewPropertyHandler(services.NewPropertyService(db), store)

	app := fiber.New()
	app.Get("/api/properties", handler.Browse)
	app.Post("/api/properties", asActor(actor), handler.Create)
	app.Put("/api/properties/:id/availability", asActor(actor), handler.SetAvailability)
	return app
}

func TestPropertyCreateEndpoint(t *testing.T) {
	db := setupTestDB(t)
	landlord := models.User{
		ID: uuid.New(), Email: "landlord@example.com", Password: "x",
		Role: models.RoleLandlord, IsVerified: true,
	}
	require.NoError(t, db.Create(&landlord).Error)

	actor := authz.Actor{ID: landlord.ID, Email: landlord.Email, Role: landlord.Role, IsVerified: true}
	app := newPropertyApp(t, db, actor)

	body, _ := json.Marshal(fiber.Map{
		"title":        "Sunny two bed",
		"city":         "Springfield",
		"monthly_rent": "1500",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/properties", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var property models.Property
	require.NoError(t, db.First(&property).Error)
	assert.Equal(t, models.ApprovalPending, property.ApprovalStatus)
	assert.False(t, property.IsAvailable)
}

func TestPropertyCreateForbiddenForTenants(t *testing.T) {
	db := setupTestDB(t)
	actor := authz.Actor{ID: uuid.New(), Role: models.RoleTenant}
	app := newPropertyApp(t, db, actor)

	body, _ := json.Marshal(fiber.Map{"title": "Nope", "monthly_rent": "900"})
	req := httptest.NewRequest(http.MethodPost, "/api/properties", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var errBody struct {
		Error   bool   `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(raw, &errBody))
	assert.True(t, errBody.Error)
	assert.NotEmpty(t, errBody.Message)
}

func TestListUnapprovedPropertyConflicts(t *testing.T) {
	db := setupTestDB(t)
	landlordID := uuid.New()
	property := models.Property{
		ID: uuid.New(), LandlordID: landlordID, Title: "Pending flat",
		MonthlyRent: decimal.NewFromInt(1200), ApprovalStatus: models.ApprovalPending,
	}
	require.NoError(t, db.Create(&property).Error)

	actor := authz.Actor{ID: landlordID, Role: models.RoleLandlord, IsVerified: true}
	app := newPropertyApp(t, db, actor)

	body, _ := json.Marshal(fiber.Map{"is_available": true})
	req := httptest.NewRequest(http.MethodPut, "/api/properties/"+property.ID.String()+"/availability", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestBrowseShowsOnlyApproved(t *testing.T) {
	db := setupTestDB(t)
	landlordID := uuid.New()
	for _, status := range []string{models.ApprovalApproved, models.ApprovalPending} {
		available := status == models.ApprovalApproved
		require.NoError(t, db.Create(&models.Property{
			ID: uuid.New(), LandlordID: landlordID, Title: "Flat " + status,
			MonthlyRent: decimal.NewFromInt(1000), ApprovalStatus: status, IsAvailable: available,
		}).Error)
	}

	app := newPropertyApp(t, db, authz.Actor{})
	req := httptest.NewRequest(http.MethodGet, "/api/properties", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var listing struct {
		Properties []models.Property `json:"properties"`
		Total      int64             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(raw, &listing))
	assert.Equal(t, int64(1), listing.Total)
	require.Len(t, listing.Properties, 1)
	assert.Equal(t, models.ApprovalApproved, listing.Properties[0].ApprovalStatus)
}
