package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/cartorio-digital/siged/internal/adapter/http/fiber/middleware"
	"github.com/cartorio-digital/siged/internal/domain"
	"github.com/cartorio-digital/siged/internal/ports"
)

type UserHandler struct {
	users ports.UserRepository
	log   *zap.Logger
}

func NewUserHandler(users ports.UserRepository, log *zap.Logger) *UserHandler {
	return &UserHandler{
		users: users,
		log:   log,
	}
}

// ListAnalysts returns the analysts an admin can assign orders to.
func (h *UserHandler) ListAnalysts(c *fiber.Ctx) error {
	analysts, err := h.users.FindByRole(c.Context(), domain.UserRoleAnalyst)
	if err != nil {
		return err
	}
	return c.JSON(analysts)
}

type UpdateProfileRequest struct {
	Name             *string `json:"name"`
	Phone            *string `json:"phone"`
	Address          *string `json:"address"`
	NotifyByEmail    *bool   `json:"notify_by_email"`
	NotifyByWhatsApp *bool   `json:"notify_by_whatsapp"`
}

// UpdateProfile lets the authenticated user change their own contact and
// notification settings. Role and email are not editable here.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.NotifyByEmail != nil {
		user.NotifyByEmail = *req.NotifyByEmail
	}
	if req.NotifyByWhatsApp != nil {
		user.NotifyByWhatsApp = *req.NotifyByWhatsApp
	}
	user.UpdatedAt = time.Now()

	if err := h.users.Save(c.Context(), user); err != nil {
		return err
	}

	user.Password = ""
	return c.JSON(user)
}

// AdminListUsers lists users, optionally filtered by role.
func (h *UserHandler) AdminListUsers(c *fiber.Ctx) error {
	role := domain.UserRole(c.Query("role"))
	if role == "" {
		var all []domain.User
		for _, r := range []domain.UserRole{domain.UserRoleAdmin, domain.UserRoleAnalyst, domain.UserRoleClient} {
			users, err := h.users.FindByRole(c.Context(), r)
			if err != nil {
				return err
			}
			all = append(all, users...)
		}
		return c.JSON(all)
	}

	users, err := h.users.FindByRole(c.Context(), role)
	if err != nil {
		return err
	}
	return c.JSON(users)
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// AdminUpdateRole promotes or demotes a user.
func (h *UserHandler) AdminUpdateRole(c *fiber.Ctx) error {
	var req UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	role := domain.UserRole(req.Role)
	switch role {
	case domain.UserRoleAdmin, domain.UserRoleAnalyst, domain.UserRoleClient:
	default:
		return fmt.Errorf("%w: unknown role: %s", domain.ErrValidation, req.Role)
	}

	user, err := h.users.FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, c.Params("id"))
	}

	user.Role = role
	user.UpdatedAt = time.Now()
	if err := h.users.Save(c.Context(), user); err != nil {
		return err
	}

	h.log.Info("User role updated",
		zap.String("user_id", user.ID),
		zap.String("role", string(role)),
	)

	user.Password = ""
	return c.JSON(user)
}
