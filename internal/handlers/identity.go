package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	RoleStudent   = "student"
	RoleRecruiter = "recruiter"
)

// Principal is the verified identity supplied by the upstream session
// provider. The core trusts it and only performs ownership checks.
type Principal struct {
	ID   uuid.UUID
	Role string
}

const principalKey = "principal"

// RequirePrincipal rejects requests that arrive without a verified identity.
// The core never accepts an unauthenticated mutating call.
func RequirePrincipal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rawID := c.Get("X-Principal-ID")
		role := c.Get("X-Principal-Role")

		if rawID == "" || role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "an authenticated session is required",
			})
		}

		id, err := uuid.Parse(rawID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid principal identifier",
			})
		}
		if role != RoleStudent && role != RoleRecruiter {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unknown principal role",
			})
		}

		c.Locals(principalKey, Principal{ID: id, Role: role})
		return c.Next()
	}
}

// RequireRole narrows an already-verified principal to one role.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := c.Locals(principalKey).(Principal)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "an authenticated session is required",
			})
		}
		if principal.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "this operation requires the " + role + " role",
			})
		}
		return c.Next()
	}
}

func principalFrom(c *fiber.Ctx) Principal {
	principal, _ := c.Locals(principalKey).(Principal)
	return principal
}
