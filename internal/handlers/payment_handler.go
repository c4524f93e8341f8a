package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rentorahq/rentora-backend/internal/dto"
	"github.com/rentorahq/rentora-backend/internal/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Generate builds the recurring rent schedule for a lease on demand.
func (h *PaymentHandler) Generate(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	leaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid lease ID")
	}

	var req dto.GeneratePaymentsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	created, err := h.paymentService.GenerateRecurring(actor, leaseID, req.MonthsAhead)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLeaseNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrLeaseNotActive):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to generate payments",
		})
	}
	return c.JSON(fiber.Map{"created": created})
}

// Record marks a payment paid (landlord confirmation).
func (h *PaymentHandler) Record(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	paymentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid payment ID")
	}

	var req dto.RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	payment, err := h.paymentService.Record(actor, paymentID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrAlreadyPaid):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return badRequest(c, err.Error())
	}
	return c.JSON(payment)
}

func (h *PaymentHandler) ListForLease(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	leaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid lease ID")
	}

	payments, err := h.paymentService.ListForLease(actor, leaseID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.JSON(fiber.Map{"payments": payments})
}

func (h *PaymentHandler) ListMine(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	payments, err := h.paymentService.ListMine(actor, c.Query("status", ""))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch payments",
		})
	}
	return c.JSON(fiber.Map{"payments": payments})
}
