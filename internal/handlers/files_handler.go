package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rentorahq/rentora-backend/internal/dto"
	"github.com/rentorahq/rentora-backend/internal/storage"
)

// FilesHandler serves stored documents and images through signed URLs.
// The signature covers the key and expiry, so the route needs no session.
type FilesHandler struct {
	store *storage.Store
}

func NewFilesHandler(store *storage.Store) *FilesHandler {
	return &FilesHandler{store: store}
}

func (h *FilesHandler) Download(c *fiber.Ctx) error {
	key := c.Params("+")
	if key == "" {
		return badRequest(c, "File key is required")
	}

	if err := h.store.Verify(key, c.Query("exp", ""), c.Query("sig", "")); err != nil {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Link is invalid or expired",
		})
	}

	path, err := h.store.Path(key)
	if err != nil {
		return badRequest(c, "Invalid file key")
	}
	return c.SendFile(path)
}
