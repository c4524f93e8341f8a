package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rentorahq/rentora-backend/internal/dto"
	"github.com/rentorahq/rentora-backend/internal/services"
)

type LeaseHandler struct {
	leaseService *services.LeaseService
}

func NewLeaseHandler(leaseService *services.LeaseService) *LeaseHandler {
	return &LeaseHandler{leaseService: leaseService}
}

func (h *LeaseHandler) Create(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	var req dto.CreateLeaseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	lease, err := h.leaseService.Create(actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound), errors.Is(err, services.ErrTenantNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(lease)
}

func (h *LeaseHandler) Update(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	leaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid lease ID")
	}

	var req dto.UpdateLeaseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	lease, err := h.leaseService.Update(actor, leaseID, &req)
	if err != nil {
		return h.writeLeaseError(c, err)
	}
	return c.JSON(lease)
}

func (h *LeaseHandler) SendToTenant(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	leaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid lease ID")
	}

	if err := h.leaseService.SendToTenant(actor, leaseID); err != nil {
		return h.writeLeaseError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Lease sent to tenant"})
}

func (h *LeaseHandler) UploadDocument(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	leaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid lease ID")
	}

	file, err := c.FormFile("document")
	if err != nil {
		return badRequest(c, "Document file is required")
	}
	docType := c.FormValue("doc_type", "")

	doc, err := h.leaseService.UploadDocument(actor, leaseID, docType, file)
	if err != nil {
		return h.writeLeaseError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

func (h *LeaseHandler) SubmitSigned(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	leaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid lease ID")
	}

	var req dto.SignLeaseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.leaseService.SubmitSigned(actor, leaseID, req.Signature); err != nil {
		return h.writeLeaseError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Lease signed"})
}

func (h *LeaseHandler) Approve(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	leaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid lease ID")
	}

	if err := h.leaseService.Approve(actor, leaseID); err != nil {
		return h.writeLeaseError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Lease approved"})
}

func (h *LeaseHandler) RequestRevision(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	leaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid lease ID")
	}

	var req dto.LeaseNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.leaseService.RequestRevision(actor, leaseID, req.Note); err != nil {
		return h.writeLeaseError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Revision requested"})
}

func (h *LeaseHandler) Reject(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	leaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid lease ID")
	}

	var req dto.LeaseReasonRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.leaseService.Reject(actor, leaseID, req.Reason); err != nil {
		return h.writeLeaseError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Lease rejected"})
}

func (h *LeaseHandler) Terminate(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	leaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid lease ID")
	}

	var req dto.LeaseReasonRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.leaseService.Terminate(actor, leaseID, req.Reason); err != nil {
		return h.writeLeaseError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Lease terminated"})
}

func (h *LeaseHandler) Get(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	leaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid lease ID")
	}

	lease, err := h.leaseService.Get(actor, leaseID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.JSON(lease)
}

func (h *LeaseHandler) ListMine(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	leases, err := h.leaseService.ListMine(actor)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch leases",
		})
	}
	return c.JSON(fiber.Map{"leases": leases})
}

func (h *LeaseHandler) Documents(c *fiber.Ctx) error {
	actor, ok := requireActor(c)
	if !ok {
		return nil
	}

	leaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid lease ID")
	}

	docs, err := h.leaseService.Documents(actor, leaseID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.JSON(fiber.Map{"documents": docs})
}

func (h *LeaseHandler) writeLeaseError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrLeaseNotFound), errors.Is(err, services.ErrPropertyNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidLeaseTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrMissingSignature),
		errors.Is(err, services.ErrMissingDocuments),
		errors.Is(err, services.ErrTermsIncomplete),
		errors.Is(err, services.ErrRevisionNoteRequired),
		errors.Is(err, services.ErrLeaseReasonRequired),
		errors.Is(err, services.ErrDocumentRequired),
		errors.Is(err, services.ErrDocumentTooLarge):
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Lease operation failed",
	})
}
