package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rentorahq/rentora-backend/internal/dto"
	"github.com/rentorahq/rentora-backend/internal/models"
	"github.com/rentorahq/rentora-backend/internal/services"
)

// AdminHandler serves the dashboard: platform stats, user listing, the
// on-demand sweeps, and platform settings.
type AdminHandler struct {
	db              *gorm.DB
	paymentService  *services.PaymentService
	leaseService    *services.LeaseService
	settingsService *services.SettingsService
}

func NewAdminHandler(db *gorm.DB, payments *services.PaymentService, leases *services.LeaseService, settings *services.SettingsService) *AdminHandler {
	return &AdminHandler{
		db:              db,
		paymentService:  payments,
		leaseService:    leases,
		settingsService: settings,
	}
}

// Stats returns entity counts by status for the dashboard cards.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats := fiber.Map{}

	var userCount int64
	h.db.Model(&models.User{}).Count(&userCount)
	stats["users"] = userCount

	countByStatus := func(model interface{}, column string) map[string]int64 {
		type row struct {
			Status string
			N      int64
		}
		var rows []row
		h.db.Model(model).Select(column + " AS status, COUNT(*) AS n").Group(column).Scan(&rows)
		out := map[string]int64{}
		for _, r := range rows {
			out[r.Status] = r.N
		}
		return out
	}

	stats["properties"] = countByStatus(&models.Property{}, "approval_status")
	stats["verifications"] = countByStatus(&models.VerificationRequest{}, "status")
	stats["leases"] = countByStatus(&models.Lease{}, "status")
	stats["payments"] = countByStatus(&models.Payment{}, "status")
	stats["deposits"] = countByStatus(&models.Deposit{}, "status")

	return c.JSON(stats)
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	role := c.Query("role", "")
	limit := parseIntQuery(c, "limit", 20)
	offset := parseIntQuery(c, "offset", 0)
	if limit > 100 {
		limit = 100
	}

	query := h.db.Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch users",
		})
	}
	return c.JSON(fiber.Map{"users": users, "total": total, "limit": limit, "offset": offset})
}

// RunOverdueSweep triggers the overdue-payment sweep on demand.
func (h *AdminHandler) RunOverdueSweep(c *fiber.Ctx) error {
	flipped, err := h.paymentService.MarkOverdue(time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Sweep failed",
		})
	}
	return c.JSON(fiber.Map{"marked_overdue": flipped})
}

// RunLeaseExpiry expires approved leases whose end date has passed.
func (h *AdminHandler) RunLeaseExpiry(c *fiber.Ctx) error {
	expired, err := h.leaseService.ExpireEnded(time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Sweep failed",
		})
	}
	return c.JSON(fiber.Map{"expired": expired})
}

func (h *AdminHandler) ListSettings(c *fiber.Ctx) error {
	settings, err := h.settingsService.All()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch settings",
		})
	}
	return c.JSON(fiber.Map{"settings": settings})
}

func (h *AdminHandler) SetSetting(c *fiber.Ctx) error {
	key := c.Params("key", "")
	if key == "" {
		return badRequest(c, "Key parameter is required")
	}

	var payload struct {
		Value       string `json:"value"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if payload.Value == "" {
		return badRequest(c, "Value is required")
	}

	if err := h.settingsService.Set(key, payload.Value, payload.Description); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save setting",
		})
	}
	return c.JSON(dto.MessageResponse{Message: "Setting saved"})
}

func (h *AdminHandler) DeleteSetting(c *fiber.Ctx) error {
	key := c.Params("key", "")
	if key == "" {
		return badRequest(c, "Key parameter is required")
	}

	if err := h.settingsService.Delete(key); err != nil {
		if errors.Is(err, services.ErrSettingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete setting",
		})
	}
	return c.JSON(dto.MessageResponse{Message: "Setting deleted"})
}
