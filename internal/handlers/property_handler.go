package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentorahq/rentora-backend/internal/dto"
	"github.com/rentorahq/rentora-backend/internal/services"
	"github.com/rentorahq/rentora-backend/internal/storage"
)

type PropertyHandler struct {
	propertyService *services.PropertyService
	store           *storage.Store
}

func NewPropertyHandler(propertyService *services.PropertyService, store *storage.Store) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService, store: store}
}

func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	var req dto.CreatePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	property, err := h.propertyService.Create(actor, &req)
	if err != nil {
		if errors.Is(err, services.ErrLandlordOnly) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return badRequest(c, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(property)
}

func (h *PropertyHandler) Update(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	propertyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid property ID")
	}

	var req dto.UpdatePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	property, err := h.propertyService.Update(actor, propertyID, &req)
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return badRequest(c, err.Error())
	}
	return c.JSON(property)
}

func (h *PropertyHandler) RequestReapproval(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	propertyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid property ID")
	}

	if err := h.propertyService.RequestReapproval(actor, propertyID); err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrAlreadyApproved), errors.Is(err, services.ErrAlreadyPending):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to request reapproval",
		})
	}
	return c.JSON(dto.MessageResponse{Message: "Property resubmitted for review"})
}

func (h *PropertyHandler) SetAvailability(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	propertyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid property ID")
	}

	var req dto.SetAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.propertyService.SetAvailability(actor, propertyID, req.IsAvailable); err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrNotApproved):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update availability",
		})
	}
	return c.JSON(dto.MessageResponse{Message: "Availability updated"})
}

// Browse is the public search endpoint; only approved listings are visible.
func (h *PropertyHandler) Browse(c *fiber.Ctx) error {
	filter := dto.PropertyFilter{
		City:       c.Query("city", ""),
		OnlyListed: c.Query("listed", "true") != "false",
		Limit:      parseIntQuery(c, "limit", 0),
		Offset:     parseIntQuery(c, "offset", 0),
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if v := c.Query("min_rent", ""); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			filter.MinRent = &d
		}
	}
	if v := c.Query("max_rent", ""); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			filter.MaxRent = &d
		}
	}
	if v := c.Query("bedrooms", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Bedrooms = &n
		}
	}

	properties, total, err := h.propertyService.Browse(&filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch properties",
		})
	}

	return c.JSON(dto.PropertyListResponse{
		Properties: properties,
		Total:      total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

func (h *PropertyHandler) Get(c *fiber.Ctx) error {
	propertyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid property ID")
	}

	property, err := h.propertyService.Get(propertyID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.JSON(property)
}

func (h *PropertyHandler) ListMine(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	properties, err := h.propertyService.ListMine(actor)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch properties",
		})
	}
	return c.JSON(fiber.Map{"properties": properties})
}

func (h *PropertyHandler) Delete(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	propertyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid property ID")
	}

	if err := h.propertyService.Delete(actor, propertyID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.JSON(dto.MessageResponse{Message: "Property deleted"})
}

// UploadImage accepts a multipart image and attaches its storage key.
func (h *PropertyHandler) UploadImage(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	propertyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid property ID")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "Image file is required")
	}
	if file.Size > 10*1024*1024 {
		return badRequest(c, "Image size must be less than 10MB")
	}
	contentType := file.Header.Get("Content-Type")
	validTypes := map[string]bool{"image/jpeg": true, "image/jpg": true, "image/png": true, "image/webp": true}
	if !validTypes[contentType] {
		return badRequest(c, "Invalid image format. Only JPEG, PNG, and WebP are allowed")
	}

	key, err := h.store.Save("property", file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save image",
		})
	}

	if err := h.propertyService.AttachImage(actor, propertyID, key); err != nil {
		h.store.Remove(key)
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": h.store.SignedURL(key)})
}

// AdminList serves the moderation queue.
func (h *PropertyHandler) AdminList(c *fiber.Ctx) error {
	status := c.Query("status", "")
	limit := parseIntQuery(c, "limit", 20)
	offset := parseIntQuery(c, "offset", 0)
	if limit > 100 {
		limit = 100
	}

	properties, total, err := h.propertyService.ListForReview(status, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch properties",
		})
	}

	return c.JSON(dto.PropertyListResponse{
		Properties: properties,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
	})
}

// AdminDecide records the approval decision.
func (h *PropertyHandler) AdminDecide(c *fiber.Ctx) error {
	propertyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid property ID")
	}

	var req dto.PropertyDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.propertyService.AdminDecide(propertyID, &req); err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return badRequest(c, err.Error())
	}
	return c.JSON(dto.MessageResponse{Message: "Decision recorded"})
}

func parseIntQuery(c *fiber.Ctx, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key, strconv.Itoa(fallback)))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
