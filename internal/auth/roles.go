package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/ticket-reminder/pkg/util/errorutil"
)

// Role names what a token holder may do on the dashboard.
type Role string

const (
	// RoleAdmin may edit tickets and trigger reminder runs.
	RoleAdmin Role = "admin"
)

// RequireAdmin ensures the authenticated principal holds the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.Role != RoleAdmin {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}
