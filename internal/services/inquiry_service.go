package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentorahq/rentora-backend/internal/authz"
	"github.com/rentorahq/rentora-backend/internal/dto"
	"github.com/rentorahq/rentora-backend/internal/models"
)

var (
	ErrInquiryNotFound    = errors.New("inquiry not found")
	ErrInquiryOwnListing  = errors.New("cannot inquire about your own listing")
	ErrPropertyNotListed  = errors.New("property is not open for inquiries")
	ErrInvalidInquiryStep = errors.New("status must be approved, rejected or completed")
	ErrMessageBlocked     = errors.New("message rejected by content filter")
)

type InquiryService struct {
	db     *gorm.DB
	filter *ContentFilter
}

func NewInquiryService(db *gorm.DB, filter *ContentFilter) *InquiryService {
	return &InquiryService{db: db, filter: filter}
}

// Create opens an inquiry on an approved, listed property.
func (s *InquiryService) Create(actor authz.Actor, req *dto.CreateInquiryRequest) (*models.Inquiry, error) {
	var property models.Property
	if err := s.db.First(&property, "id = ?", req.PropertyID).Error; err != nil {
		return nil, ErrPropertyNotFound
	}
	if property.LandlordID == actor.ID {
		return nil, ErrInquiryOwnListing
	}
	if property.ApprovalStatus != models.ApprovalApproved || !property.IsAvailable {
		return nil, ErrPropertyNotListed
	}

	if ok, reason := s.filter.Check(req.Message); !ok {
		return nil, fmt.Errorf("%w: %s", ErrMessageBlocked, s.filter.RejectionMessage(reason))
	}

	inquiry := models.Inquiry{
		ID:         uuid.New(),
		PropertyID: property.ID,
		TenantID:   actor.ID,
		LandlordID: property.LandlordID,
		Status:     models.InquiryPending,
		Message:    req.Message,
	}
	if err := s.db.Create(&inquiry).Error; err != nil {
		return nil, fmt.Errorf("failed to create inquiry: %w", err)
	}
	return &inquiry, nil
}

// Decide lets the landlord move the inquiry forward.
func (s *InquiryService) Decide(actor authz.Actor, inquiryID uuid.UUID, status string) error {
	valid := map[string]bool{
		models.InquiryApproved:  true,
		models.InquiryRejected:  true,
		models.InquiryCompleted: true,
	}
	if !valid[status] {
		return ErrInvalidInquiryStep
	}

	var inquiry models.Inquiry
	if err := s.db.First(&inquiry, "id = ?", inquiryID).Error; err != nil {
		return ErrInquiryNotFound
	}
	if inquiry.LandlordID != actor.ID {
		return ErrInquiryNotFound
	}

	return s.db.Model(&inquiry).Update("status", status).Error
}

// ListMine returns inquiries on either side of the conversation.
func (s *InquiryService) ListMine(actor authz.Actor) ([]models.Inquiry, error) {
	var inquiries []models.Inquiry
	if err := s.db.
		Where("tenant_id = ? OR landlord_id = ?", actor.ID, actor.ID).
		Order("created_at DESC").Find(&inquiries).Error; err != nil {
		return nil, err
	}
	return inquiries, nil
}

// SendMessage appends to the inquiry thread after content screening.
func (s *InquiryService) SendMessage(actor authz.Actor, inquiryID uuid.UUID, body string) (*models.Message, error) {
	inquiry, err := s.partyInquiry(actor, inquiryID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(body) == "" {
		return nil, errors.New("message body is required")
	}

	if ok, reason := s.filter.Check(body); !ok {
		return nil, fmt.Errorf("%w: %s", ErrMessageBlocked, s.filter.RejectionMessage(reason))
	}

	message := models.Message{
		ID:        uuid.New(),
		InquiryID: inquiry.ID,
		SenderID:  actor.ID,
		Body:      body,
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return &message, nil
}

// Messages returns the thread and stamps unread messages addressed to the
// caller as read.
func (s *InquiryService) Messages(actor authz.Actor, inquiryID uuid.UUID) ([]models.Message, error) {
	inquiry, err := s.partyInquiry(actor, inquiryID)
	if err != nil {
		return nil, err
	}

	var messages []models.Message
	if err := s.db.Where("inquiry_id = ?", inquiry.ID).Order("created_at").Find(&messages).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	s.db.Model(&models.Message{}).
		Where("inquiry_id = ? AND sender_id <> ? AND read_at IS NULL", inquiry.ID, actor.ID).
		Update("read_at", now)

	return messages, nil
}

// UnreadCount counts messages sent to the actor that are still unread.
func (s *InquiryService) UnreadCount(actor authz.Actor) (int64, error) {
	var count int64
	err := s.db.Model(&models.Message{}).
		Joins("JOIN inquiries ON inquiries.id = messages.inquiry_id").
		Where("(inquiries.tenant_id = ? OR inquiries.landlord_id = ?)", actor.ID, actor.ID).
		Where("messages.sender_id <> ? AND messages.read_at IS NULL", actor.ID).
		Count(&count).Error
	return count, err
}

func (s *InquiryService) partyInquiry(actor authz.Actor, inquiryID uuid.UUID) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	if err := s.db.First(&inquiry, "id = ?", inquiryID).Error; err != nil {
		return nil, ErrInquiryNotFound
	}
	if inquiry.TenantID != actor.ID && inquiry.LandlordID != actor.ID {
		return nil, ErrInquiryNotFound
	}
	return &inquiry, nil
}
