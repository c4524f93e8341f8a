package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentorahq/rentora-backend/internal/dto"
	"github.com/rentorahq/rentora-backend/internal/models"
)

func TestInquiryCreate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInquiryService(db, NewContentFilter())
	landlord := createUser(t, db, "landlord@example.com", models.RoleLandlord, true)
	tenant := createUser(t, db, "tenant@example.com", models.RoleTenant, false)

	listed := createProperty(t, db, landlord, models.ApprovalApproved, true)
	unlisted := createProperty(t, db, landlord, models.ApprovalApproved, false)

	t.Run("own listing", func(t *testing.T) {
		_, err := svc.Create(actorFor(landlord), &dto.CreateInquiryRequest{
			PropertyID: listed.ID, Message: "Interested",
		})
		assert.ErrorIs(t, err, ErrInquiryOwnListing)
	})

	t.Run("unlisted property", func(t *testing.T) {
		_, err := svc.Create(actorFor(tenant), &dto.CreateInquiryRequest{
			PropertyID: unlisted.ID, Message: "Interested",
		})
		assert.ErrorIs(t, err, ErrPropertyNotListed)
	})

	t.Run("filtered message", func(t *testing.T) {
		_, err := svc.Create(actorFor(tenant), &dto.CreateInquiryRequest{
			PropertyID: listed.ID, Message: "email me at me@example.com",
		})
		assert.ErrorIs(t, err, ErrMessageBlocked)
	})

	t.Run("valid", func(t *testing.T) {
		inquiry, err := svc.Create(actorFor(tenant), &dto.CreateInquiryRequest{
			PropertyID: listed.ID, Message: "Is it available from March?",
		})
		require.NoError(t, err)
		assert.Equal(t, models.InquiryPending, inquiry.Status)
		assert.Equal(t, landlord.ID, inquiry.LandlordID)
	})
}

func TestInquiryMessaging(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInquiryService(db, NewContentFilter())
	landlord := createUser(t, db, "landlord@example.com", models.RoleLandlord, true)
	tenant := createUser(t, db, "tenant@example.com", models.RoleTenant, false)
	outsider := createUser(t, db, "outsider@example.com", models.RoleTenant, false)
	property := createProperty(t, db, landlord, models.ApprovalApproved, true)

	inquiry, err := svc.Create(actorFor(tenant), &dto.CreateInquiryRequest{
		PropertyID: property.ID, Message: "Is it available from March?",
	})
	require.NoError(t, err)

	_, err = svc.SendMessage(actorFor(outsider), inquiry.ID, "Let me in")
	assert.ErrorIs(t, err, ErrInquiryNotFound)

	_, err = svc.SendMessage(actorFor(landlord), inquiry.ID, "call 555-123-4567")
	assert.ErrorIs(t, err, ErrMessageBlocked)

	_, err = svc.SendMessage(actorFor(landlord), inquiry.ID, "Yes, from the 1st of March.")
	require.NoError(t, err)
	_, err = svc.SendMessage(actorFor(tenant), inquiry.ID, "Great, can I view it?")
	require.NoError(t, err)

	count, err := svc.UnreadCount(actorFor(tenant))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// reading the thread marks the other side's messages read
	messages, err := svc.Messages(actorFor(tenant), inquiry.ID)
	require.NoError(t, err)
	assert.Len(t, messages, 2)

	count, err = svc.UnreadCount(actorFor(tenant))
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = svc.UnreadCount(actorFor(landlord))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestInquiryDecide(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInquiryService(db, NewContentFilter())
	landlord := createUser(t, db, "landlord@example.com", models.RoleLandlord, true)
	tenant := createUser(t, db, "tenant@example.com", models.RoleTenant, false)
	property := createProperty(t, db, landlord, models.ApprovalApproved, true)

	inquiry, err := svc.Create(actorFor(tenant), &dto.CreateInquiryRequest{
		PropertyID: property.ID, Message: "Is it available?",
	})
	require.NoError(t, err)

	err = svc.Decide(actorFor(landlord), inquiry.ID, "pondering")
	assert.ErrorIs(t, err, ErrInvalidInquiryStep)

	err = svc.Decide(actorFor(tenant), inquiry.ID, models.InquiryApproved)
	assert.ErrorIs(t, err, ErrInquiryNotFound)

	require.NoError(t, svc.Decide(actorFor(landlord), inquiry.ID, models.InquiryApproved))

	var got models.Inquiry
	require.NoError(t, db.First(&got, "id = ?", inquiry.ID).Error)
	assert.Equal(t, models.InquiryApproved, got.Status)
}
