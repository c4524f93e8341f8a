package authz

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rentorahq/rentora-backend/internal/models"
)

var ErrNoActor = errors.New("no authenticated actor in context")

// Actor is the authorization context resolved once at the request boundary.
// Services receive it explicitly instead of re-deriving identity themselves;
// Role always reflects the database, not the (possibly stale) token claim.
type Actor struct {
	ID         uuid.UUID
	Email      string
	Role       string
	IsVerified bool
}

func (a Actor) IsAdmin() bool    { return a.Role == models.RoleAdmin }
func (a Actor) IsLandlord() bool { return a.Role == models.RoleLandlord }

const actorKey = "actor"

// Store places the actor in Fiber context locals.
func Store(c *fiber.Ctx, a Actor) {
	c.Locals(actorKey, a)
}

// FromCtx extracts the actor placed by the middleware.
func FromCtx(c *fiber.Ctx) (Actor, error) {
	a, ok := c.Locals(actorKey).(Actor)
	if !ok {
		return Actor{}, ErrNoActor
	}
	return a, nil
}

// SubjectFromToken extracts the user UUID from JWT claims in context.
func SubjectFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}
