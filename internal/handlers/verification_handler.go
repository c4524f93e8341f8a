package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rentorahq/rentora-backend/internal/dto"
	"github.com/rentorahq/rentora-backend/internal/services"
)

type VerificationHandler struct {
	verificationService *services.VerificationService
}

func NewVerificationHandler(verificationService *services.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService}
}

// Submit handles the multipart landlord application: two identity documents
// plus business fields.
func (h *VerificationHandler) Submit(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	idFront, err := c.FormFile("id_front")
	if err != nil {
		return badRequest(c, "id_front document is required")
	}
	idBack, err := c.FormFile("id_back")
	if err != nil {
		return badRequest(c, "id_back document is required")
	}

	request, err := h.verificationService.Submit(actor,
		c.FormValue("business_name", ""),
		c.FormValue("business_reg_number", ""),
		idFront, idBack)
	if err != nil {
		return h.writeSubmitError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

// Resubmit chains a fresh application to a rejected one.
func (h *VerificationHandler) Resubmit(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	previousID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid request ID")
	}

	idFront, err := c.FormFile("id_front")
	if err != nil {
		return badRequest(c, "id_front document is required")
	}
	idBack, err := c.FormFile("id_back")
	if err != nil {
		return badRequest(c, "id_back document is required")
	}

	request, err := h.verificationService.Resubmit(actor, previousID,
		c.FormValue("business_name", ""),
		c.FormValue("business_reg_number", ""),
		idFront, idBack)
	if err != nil {
		return h.writeSubmitError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

func (h *VerificationHandler) writeSubmitError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrDuplicatePending):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrRequestNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrDocumentRequired),
		errors.Is(err, services.ErrDocumentTooLarge),
		errors.Is(err, services.ErrInvalidDocumentType),
		errors.Is(err, services.ErrPreviousNotRejected):
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Failed to submit verification request",
	})
}

func (h *VerificationHandler) MyRequests(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	requests, err := h.verificationService.MyRequests(actor)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch verification requests",
		})
	}
	return c.JSON(fiber.Map{"requests": requests})
}

func (h *VerificationHandler) AdminList(c *fiber.Ctx) error {
	status := c.Query("status", "")
	limit := parseIntQuery(c, "limit", 20)
	offset := parseIntQuery(c, "offset", 0)
	if limit > 100 {
		limit = 100
	}

	requests, total, err := h.verificationService.ListForReview(status, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch verification requests",
		})
	}
	return c.JSON(fiber.Map{
		"requests": requests,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *VerificationHandler) AdminDetail(c *fiber.Ctx) error {
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid request ID")
	}

	detail, err := h.verificationService.Detail(requestID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.JSON(detail)
}

func (h *VerificationHandler) Approve(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid request ID")
	}

	if err := h.verificationService.Approve(actor.ID, requestID); err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrAlreadyReviewed):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to approve verification request",
		})
	}
	return c.JSON(dto.MessageResponse{Message: "Verification approved"})
}

func (h *VerificationHandler) Reject(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid request ID")
	}

	var req dto.VerificationDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.verificationService.Reject(actor.ID, requestID, req.Notes); err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrAlreadyReviewed):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrRejectReasonRequired):
			return badRequest(c, err.Error())
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to reject verification request",
		})
	}
	return c.JSON(dto.MessageResponse{Message: "Verification rejected"})
}
