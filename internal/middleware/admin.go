package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/rentorahq/rentora-backend/internal/authz"
	"github.com/rentorahq/rentora-backend/internal/config"
	"github.com/rentorahq/rentora-backend/internal/dto"
)

// AdminRequired gates admin routes. It accepts either the operator token
// header or an actor whose role/email marks them as admin. Must run after
// LoadActor.
func AdminRequired(cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
			return c.Next()
		}

		actor, err := authz.FromCtx(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if actor.IsAdmin() || contains(adminEmails, actor.Email) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
