package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rentorahq/rentora-backend/internal/dto"
	"github.com/rentorahq/rentora-backend/internal/services"
)

type InquiryHandler struct {
	inquiryService *services.InquiryService
}

func NewInquiryHandler(inquiryService *services.InquiryService) *InquiryHandler {
	return &InquiryHandler{inquiryService: inquiryService}
}

func (h *InquiryHandler) Create(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	var req dto.CreateInquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	inquiry, err := h.inquiryService.Create(actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrInquiryOwnListing), errors.Is(err, services.ErrPropertyNotListed):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrMessageBlocked):
			return badRequest(c, err.Error())
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create inquiry",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(inquiry)
}

func (h *InquiryHandler) Decide(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	inquiryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid inquiry ID")
	}

	var req dto.InquiryDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.inquiryService.Decide(actor, inquiryID, req.Status); err != nil {
		if errors.Is(err, services.ErrInquiryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return badRequest(c, err.Error())
	}
	return c.JSON(dto.MessageResponse{Message: "Inquiry updated"})
}

func (h *InquiryHandler) ListMine(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	inquiries, err := h.inquiryService.ListMine(actor)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch inquiries",
		})
	}
	return c.JSON(fiber.Map{"inquiries": inquiries})
}

func (h *InquiryHandler) SendMessage(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	inquiryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid inquiry ID")
	}

	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	message, err := h.inquiryService.SendMessage(actor, inquiryID, req.Body)
	if err != nil {
		if errors.Is(err, services.ErrInquiryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

func (h *InquiryHandler) Messages(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	inquiryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid inquiry ID")
	}

	messages, err := h.inquiryService.Messages(actor, inquiryID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.JSON(fiber.Map{"messages": messages})
}

func (h *InquiryHandler) UnreadCount(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	count, err := h.inquiryService.UnreadCount(actor)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to count unread messages",
		})
	}
	return c.JSON(fiber.Map{"unread": count})
}
