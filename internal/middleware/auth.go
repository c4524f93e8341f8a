package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rentorahq/rentora-backend/internal/authz"
	"github.com/rentorahq/rentora-backend/internal/config"
	"github.com/rentorahq/rentora-backend/internal/dto"
	"github.com/rentorahq/rentora-backend/internal/models"
)

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// LoadActor resolves the token subject into an authz.Actor backed by the
// users table, so role changes (verification approval, admin demotion) take
// effect without waiting for token expiry.
func LoadActor(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := authz.SubjectFromToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		authz.Store(c, authz.Actor{
			ID:         user.ID,
			Email:      user.Email,
			Role:       user.Role,
			IsVerified: user.IsVerified,
		})
		return c.Next()
	}
}
