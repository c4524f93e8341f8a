package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rentorahq/rentora-backend/internal/dto"
	"github.com/rentorahq/rentora-backend/internal/services"
)

type DepositHandler struct {
	depositService *services.DepositService
}

func NewDepositHandler(depositService *services.DepositService) *DepositHandler {
	return &DepositHandler{depositService: depositService}
}

func (h *DepositHandler) GetForLease(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	leaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid lease ID")
	}

	deposit, err := h.depositService.GetForLease(actor, leaseID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.JSON(deposit)
}

func (h *DepositHandler) CreateForLease(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	leaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid lease ID")
	}

	deposit, err := h.depositService.CreateForLease(actor, leaseID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLeaseNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrDepositAlreadyExists):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create deposit",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(deposit)
}

func (h *DepositHandler) ConfirmPayment(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	leaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid lease ID")
	}

	var req dto.ConfirmDepositRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.depositService.ConfirmPayment(actor, leaseID, &req); err != nil {
		return h.writeDepositError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Deposit payment confirmed"})
}

func (h *DepositHandler) Release(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	leaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid lease ID")
	}

	var req dto.ReleaseDepositRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.depositService.Release(actor, leaseID, &req); err != nil {
		return h.writeDepositError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Deposit released"})
}

func (h *DepositHandler) Forfeit(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	leaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid lease ID")
	}

	var req dto.ForfeitDepositRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.depositService.Forfeit(actor, leaseID, req.Reason); err != nil {
		return h.writeDepositError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Deposit forfeited"})
}

func (h *DepositHandler) writeDepositError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrDepositNotFound), errors.Is(err, services.ErrLeaseNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrDepositNotPending), errors.Is(err, services.ErrDepositNotHeld):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrDeductionExceedsAmount),
		errors.Is(err, services.ErrDeductionReason),
		errors.Is(err, services.ErrForfeitReason):
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Deposit operation failed",
	})
}
