package services

import (
	"errors"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rentorahq/rentora-backend/internal/models"
)

var ErrSettingNotFound = errors.New("setting not found")

// Keys read by services at call time, so admin edits apply without a restart.
const (
	SettingPaymentMonthsAhead   = "payment.months_ahead"
	SettingVerificationMaxDocMB = "verification.max_doc_mb"
	SettingListingsPageSize     = "listings.page_size"
)

// SettingsService exposes admin-managed platform knobs with code defaults
// as fallbacks.
type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

var settingDefaults = []models.PlatformSetting{
	{Key: SettingPaymentMonthsAhead, Value: "12", Description: "Default horizon for recurring rent generation"},
	{Key: SettingVerificationMaxDocMB, Value: "5", Description: "Per-file ceiling for identity documents"},
	{Key: SettingListingsPageSize, Value: "20", Description: "Default browse page size"},
}

// SeedDefaults inserts any missing defaults; existing values are untouched.
func (s *SettingsService) SeedDefaults() error {
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&settingDefaults).Error
}

func (s *SettingsService) All() ([]models.PlatformSetting, error) {
	var settings []models.PlatformSetting
	if err := s.db.Order("key").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *SettingsService) Set(key, value, description string) error {
	setting := models.PlatformSetting{Key: key, Value: value, Description: description}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "description"}),
	}).Create(&setting).Error
}

func (s *SettingsService) Delete(key string) error {
	result := s.db.Delete(&models.PlatformSetting{}, "key = ?", key)
	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}
	return result.Error
}

// IntValue reads an integer setting, falling back when missing or malformed.
func (s *SettingsService) IntValue(key string, fallback int) int {
	return settingInt(s.db, key, fallback)
}

// settingInt is the call-time read used by the services themselves.
func settingInt(db *gorm.DB, key string, fallback int) int {
	var setting models.PlatformSetting
	if err := db.First(&setting, "key = ?", key).Error; err != nil {
		return fallback
	}
	v, err := strconv.Atoi(setting.Value)
	if err != nil {
		return fallback
	}
	return v
}
