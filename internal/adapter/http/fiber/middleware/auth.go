package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/cartorio-digital/siged/internal/domain"
	"github.com/cartorio-digital/siged/internal/ports"
)

func AuthRequired(service ports.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization header"})
		}

		user, err := service.ValidateToken(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals("user_id", user.ID)
		c.Locals("user_role", user.Role)
		c.Locals("user", user)

		return c.Next()
	}
}

// RoleRequired gates a route to the given roles. Must run after AuthRequired.
func RoleRequired(roles ...domain.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("user_role").(domain.UserRole)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
		}

		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
	}
}

// StaffRequired allows admins and analysts only. Must run after AuthRequired.
func StaffRequired() fiber.Handler {
	return RoleRequired(domain.UserRoleAdmin, domain.UserRoleAnalyst)
}

// PermissionChecker answers whether a role may perform an action on a resource.
type PermissionChecker interface {
	HasPermission(role domain.UserRole, resource, action string) bool
}

// PermissionRequired gates a route through the RBAC table. Must run after
// AuthRequired.
func PermissionRequired(checker PermissionChecker, resource, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("user_role").(domain.UserRole)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
		}

		if !checker.HasPermission(role, resource, action) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
		}

		return c.Next()
	}
}

// CurrentUser pulls the authenticated user set by AuthRequired.
func CurrentUser(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals("user").(*domain.User)
	return user
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	// Browsers can't set headers on websocket upgrades; accept the token as
	// a query parameter there.
	return c.Query("token")
}
