package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rentorahq/rentora-backend/internal/authz"
	"github.com/rentorahq/rentora-backend/internal/dto"
	"github.com/rentorahq/rentora-backend/internal/models"
)

var (
	// Ownership mismatches are reported as not-found on purpose, so callers
	// cannot probe for other landlords' listings.
	ErrPropertyNotFound   = errors.New("property not found")
	ErrLandlordOnly       = errors.New("only verified landlords can manage listings")
	ErrAlreadyApproved    = errors.New("Property is already approved")
	ErrAlreadyPending     = errors.New("Property is already pending review")
	ErrNotApproved        = errors.New("property must be approved before it can be listed")
	ErrDecisionNotes      = errors.New("rejection notes are required")
	ErrInvalidDecision    = errors.New("decision must be approved or rejected")
)

type PropertyService struct {
	db *gorm.DB
}

func NewPropertyService(db *gorm.DB) *PropertyService {
	return &PropertyService{db: db}
}

// Create opens a new listing in pending review, unlisted.
func (s *PropertyService) Create(actor authz.Actor, req *dto.CreatePropertyRequest) (*models.Property, error) {
	if !actor.IsLandlord() || !actor.IsVerified {
		return nil, ErrLandlordOnly
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, errors.New("title is required")
	}
	if req.MonthlyRent.Sign() <= 0 {
		return nil, errors.New("monthly rent must be positive")
	}

	property := models.Property{
		ID:             uuid.New(),
		LandlordID:     actor.ID,
		Title:          req.Title,
		Description:    req.Description,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		MonthlyRent:    req.MonthlyRent,
		Bedrooms:       req.Bedrooms,
		Bathrooms:      req.Bathrooms,
		AreaSqFt:       req.AreaSqFt,
		Amenities:      toJSONList(req.Amenities),
		ApprovalStatus: models.ApprovalPending,
		IsAvailable:    false,
	}

	if err := s.db.Create(&property).Error; err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	return &property, nil
}

// Update edits listing fields. Price or description changes do not reset the
// approval decision; structural moderation is the admin's call on re-review.
func (s *PropertyService) Update(actor authz.Actor, propertyID uuid.UUID, req *dto.UpdatePropertyRequest) (*models.Property, error) {
	property, err := s.ownedProperty(actor, propertyID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.State != nil {
		updates["state"] = *req.State
	}
	if req.MonthlyRent != nil {
		if req.MonthlyRent.Sign() <= 0 {
			return nil, errors.New("monthly rent must be positive")
		}
		updates["monthly_rent"] = *req.MonthlyRent
	}
	if req.Bedrooms != nil {
		updates["bedrooms"] = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		updates["bathrooms"] = *req.Bathrooms
	}
	if req.AreaSqFt != nil {
		updates["area_sq_ft"] = *req.AreaSqFt
	}
	if req.Amenities != nil {
		updates["amenities"] = toJSONList(req.Amenities)
	}

	if len(updates) > 0 {
		if err := s.db.Model(property).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update property: %w", err)
		}
	}
	return property, nil
}

// RequestReapproval puts a rejected listing back into pending review and
// clears the prior admin notes. Listings that are approved or already in
// review are rejected with a state-specific error.
func (s *PropertyService) RequestReapproval(actor authz.Actor, propertyID uuid.UUID) error {
	property, err := s.ownedProperty(actor, propertyID)
	if err != nil {
		return err
	}

	switch property.ApprovalStatus {
	case models.ApprovalApproved:
		return ErrAlreadyApproved
	case models.ApprovalPending:
		return ErrAlreadyPending
	}

	return s.db.Model(property).Updates(map[string]interface{}{
		"approval_status": models.ApprovalPending,
		"admin_notes":     "",
		"is_available":    false,
	}).Error
}

// SetAvailability toggles the landlord's listed/unlisted switch. Listing is
// only legal once the admin has approved the property.
func (s *PropertyService) SetAvailability(actor authz.Actor, propertyID uuid.UUID, desired bool) error {
	property, err := s.ownedProperty(actor, propertyID)
	if err != nil {
		return err
	}

	if desired && property.ApprovalStatus != models.ApprovalApproved {
		return ErrNotApproved
	}

	return s.db.Model(property).Update("is_available", desired).Error
}

// AdminDecide records the moderation decision. Rejections must carry notes
// the landlord can act on; they are surfaced back in the listing detail.
func (s *PropertyService) AdminDecide(propertyID uuid.UUID, req *dto.PropertyDecisionRequest) error {
	if req.Decision != models.ApprovalApproved && req.Decision != models.ApprovalRejected {
		return ErrInvalidDecision
	}
	if req.Decision == models.ApprovalRejected && strings.TrimSpace(req.Notes) == "" {
		return ErrDecisionNotes
	}

	var property models.Property
	if err := s.db.First(&property, "id = ?", propertyID).Error; err != nil {
		return ErrPropertyNotFound
	}

	updates := map[string]interface{}{
		"approval_status": req.Decision,
		"admin_notes":     req.Notes,
	}
	// A rejected listing can never stay visible.
	if req.Decision == models.ApprovalRejected {
		updates["is_available"] = false
	}
	return s.db.Model(&property).Updates(updates).Error
}

func (s *PropertyService) Get(propertyID uuid.UUID) (*models.Property, error) {
	var property models.Property
	if err := s.db.First(&property, "id = ?", propertyID).Error; err != nil {
		return nil, ErrPropertyNotFound
	}
	return &property, nil
}

// Browse lists approved properties for public search.
func (s *PropertyService) Browse(filter *dto.PropertyFilter) ([]models.Property, int64, error) {
	query := s.db.Model(&models.Property{}).Where("approval_status = ?", models.ApprovalApproved)
	if filter.OnlyListed {
		query = query.Where("is_available = ?", true)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.MinRent != nil {
		query = query.Where("monthly_rent >= ?", *filter.MinRent)
	}
	if filter.MaxRent != nil {
		query = query.Where("monthly_rent <= ?", *filter.MaxRent)
	}
	if filter.Bedrooms != nil {
		query = query.Where("bedrooms >= ?", *filter.Bedrooms)
	}

	var total int64
	query.Count(&total)

	if filter.Limit <= 0 {
		filter.Limit = settingInt(s.db, SettingListingsPageSize, 20)
	}

	var properties []models.Property
	if err := query.Order("created_at DESC").Limit(filter.Limit).Offset(filter.Offset).Find(&properties).Error; err != nil {
		return nil, 0, err
	}
	return properties, total, nil
}

// ListMine returns all of the landlord's listings, whatever their state.
func (s *PropertyService) ListMine(actor authz.Actor) ([]models.Property, error) {
	var properties []models.Property
	if err := s.db.Where("landlord_id = ?", actor.ID).Order("created_at DESC").Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// ListForReview returns listings by approval status for the admin dashboard.
func (s *PropertyService) ListForReview(status string, limit, offset int) ([]models.Property, int64, error) {
	query := s.db.Model(&models.Property{})
	if status != "" {
		query = query.Where("approval_status = ?", status)
	}

	var total int64
	query.Count(&total)

	var properties []models.Property
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&properties).Error; err != nil {
		return nil, 0, err
	}
	return properties, total, nil
}

// Delete soft-deletes a listing. Owners and admins only.
func (s *PropertyService) Delete(actor authz.Actor, propertyID uuid.UUID) error {
	var property models.Property
	if err := s.db.First(&property, "id = ?", propertyID).Error; err != nil {
		return ErrPropertyNotFound
	}
	if property.LandlordID != actor.ID && !actor.IsAdmin() {
		return ErrPropertyNotFound
	}
	return s.db.Delete(&property).Error
}

// AttachImage appends a stored image key to the listing.
func (s *PropertyService) AttachImage(actor authz.Actor, propertyID uuid.UUID, storageKey string) error {
	property, err := s.ownedProperty(actor, propertyID)
	if err != nil {
		return err
	}

	var images []string
	if len(property.Images) > 0 {
		_ = json.Unmarshal(property.Images, &images)
	}
	images = append(images, storageKey)
	return s.db.Model(property).Update("images", toJSONList(images)).Error
}

func (s *PropertyService) ownedProperty(actor authz.Actor, propertyID uuid.UUID) (*models.Property, error) {
	var property models.Property
	if err := s.db.First(&property, "id = ?", propertyID).Error; err != nil {
		return nil, ErrPropertyNotFound
	}
	if property.LandlordID != actor.ID {
		return nil, ErrPropertyNotFound
	}
	return &property, nil
}

func toJSONList(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return datatypes.JSON(b)
}
