package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/cartorio-digital/siged/internal/adapter/http/fiber/middleware"
	"github.com/cartorio-digital/siged/internal/domain"
	"github.com/cartorio-digital/siged/internal/ports"
	"github.com/cartorio-digital/siged/internal/service/auth"
)

type AuthHandler struct {
	service ports.AuthService
	oauth   *auth.OAuth2Service
	log     *zap.Logger
}

func NewAuthHandler(service ports.AuthService, oauth *auth.OAuth2Service, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		oauth:   oauth,
		log:     log,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	CPF      string `json:"cpf"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and password are required"})
	}

	token, refreshToken, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		h.log.Warn("Login failed", zap.String("email", req.Email), zap.Error(err))
		return err
	}

	user, _ := h.service.ValidateToken(c.Context(), token)

	return c.JSON(fiber.Map{
		"tokens": fiber.Map{
			"accessToken":  token,
			"refreshToken": refreshToken,
		},
		"user": user,
	})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user := domain.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		CPF:      req.CPF,
	}
	plainPassword := req.Password

	if err := h.service.Register(c.Context(), &user); err != nil {
		return err
	}

	// Auto-login after registration
	token, refreshToken, err := h.service.Login(c.Context(), req.Email, plainPassword)
	if err != nil {
		user.Password = ""
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
	}

	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": user,
		"tokens": fiber.Map{
			"accessToken":  token,
			"refreshToken": refreshToken,
		},
	})
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	token, err := h.service.RefreshToken(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"accessToken":  token,
		"refreshToken": req.RefreshToken,
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}
	return c.JSON(user)
}

// GoogleAuthURL returns the Google consent screen URL for social sign-in.
func (h *AuthHandler) GoogleAuthURL(c *fiber.Ctx) error {
	if h.oauth == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": "Social sign-in is not configured"})
	}

	state := c.Query("state")
	return c.JSON(fiber.Map{
		"url": h.oauth.AuthURL(state),
	})
}

// GoogleCallback exchanges the OAuth code and issues session tokens.
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	if h.oauth == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": "Social sign-in is not configured"})
	}

	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing authorization code"})
	}

	token, refreshToken, err := h.oauth.HandleCallback(c.Context(), code)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"tokens": fiber.Map{
			"accessToken":  token,
			"refreshToken": refreshToken,
		},
	})
}
