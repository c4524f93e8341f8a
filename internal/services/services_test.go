package services

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rentorahq/rentora-backend/internal/authz"
	"github.com/rentorahq/rentora-backend/internal/models"
	"github.com/rentorahq/rentora-backend/internal/storage"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Property{},
		&models.VerificationRequest{},
		&models.Lease{},
		&models.LeaseDocument{},
		&models.Payment{},
		&models.Deposit{},
		&models.Inquiry{},
		&models.Message{},
		&models.PlatformSetting{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	return storage.New(t.TempDir(), "test-secret", time.Hour, "http://localhost:8080")
}

func createUser(t *testing.T, db *gorm.DB, email, role string, verified bool) models.User {
	t.Helper()
	user := models.User{
		ID:         uuid.New(),
		Email:      email,
		Password:   "not-a-real-hash",
		Role:       role,
		IsVerified: verified,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func actorFor(u models.User) authz.Actor {
	return authz.Actor{ID: u.ID, Email: u.Email, Role: u.Role, IsVerified: u.IsVerified}
}

func createProperty(t *testing.T, db *gorm.DB, landlord models.User, status string, available bool) models.Property {
	t.Helper()
	property := models.Property{
		ID:             uuid.New(),
		LandlordID:     landlord.ID,
		Title:          "Two bed apartment",
		City:           "Springfield",
		MonthlyRent:    decimal.NewFromInt(1500),
		ApprovalStatus: status,
		IsAvailable:    available,
	}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("failed to create property: %v", err)
	}
	return property
}

func createLease(t *testing.T, db *gorm.DB, landlord, tenant models.User, property models.Property, status string, start, end time.Time) models.Lease {
	t.Helper()
	lease := models.Lease{
		ID:            uuid.New(),
		PropertyID:    property.ID,
		TenantID:      tenant.ID,
		LandlordID:    landlord.ID,
		Status:        status,
		StartDate:     start,
		EndDate:       end,
		MonthlyRent:   decimal.NewFromInt(1500),
		DepositAmount: decimal.NewFromInt(3000),
		Clauses:       toJSONList([]string{"No smoking", "Rent due on the 1st"}),
	}
	if err := db.Create(&lease).Error; err != nil {
		t.Fatalf("failed to create lease: %v", err)
	}
	return lease
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// makeFileHeader builds a real multipart.FileHeader by round-tripping a form.
func makeFileHeader(t *testing.T, filename, contentType string, size int) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create multipart part: %v", err)
	}
	if _, err := part.Write(bytes.Repeat([]byte("a"), size)); err != nil {
		t.Fatalf("failed to write part body: %v", err)
	}
	writer.Close()

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("failed to parse multipart form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}
