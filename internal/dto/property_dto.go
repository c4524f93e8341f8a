package dto

import (
	"github.com/shopspring/decimal"

	"github.com/rentorahq/rentora-backend/internal/models"
)

type CreatePropertyRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	State       string          `json:"state"`
	MonthlyRent decimal.Decimal `json:"monthly_rent"`
	Bedrooms    int             `json:"bedrooms"`
	Bathrooms   int             `json:"bathrooms"`
	AreaSqFt    int             `json:"area_sq_ft"`
	Amenities   []string        `json:"amenities"`
}

type UpdatePropertyRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Address     *string          `json:"address"`
	City        *string          `json:"city"`
	State       *string          `json:"state"`
	MonthlyRent *decimal.Decimal `json:"monthly_rent"`
	Bedrooms    *int             `json:"bedrooms"`
	Bathrooms   *int             `json:"bathrooms"`
	AreaSqFt    *int             `json:"area_sq_ft"`
	Amenities   []string         `json:"amenities"`
}

type SetAvailabilityRequest struct {
	IsAvailable bool `json:"is_available"`
}

type PropertyDecisionRequest struct {
	Decision string `json:"decision"` // approved or rejected
	Notes    string `json:"notes"`
}

type PropertyFilter struct {
	City        string
	MinRent     *decimal.Decimal
	MaxRent     *decimal.Decimal
	Bedrooms    *int
	OnlyListed  bool
	Limit       int
	Offset      int
}

type PropertyListResponse struct {
	Properties []models.Property `json:"properties"`
	Total      int64             `json:"total"`
	Limit      int               `json:"limit"`
	Offset     int               `json:"offset"`
}
