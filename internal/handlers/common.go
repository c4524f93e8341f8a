package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rentorahq/rentora-backend/internal/authz"
	"github.com/rentorahq/rentora-backend/internal/dto"
)

// requireActor pulls the authorization context loaded by the middleware,
// writing the 401 itself so handlers can bail with a bare return.
func requireActor(c *fiber.Ctx) (authz.Actor, bool) {
	actor, err := authz.FromCtx(c)
	if err != nil {
		c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
		return authz.Actor{}, false
	}
	return actor, true
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}
