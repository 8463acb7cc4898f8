package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/cartorio-digital/siged/internal/adapter/http/fiber/middleware"
	"github.com/cartorio-digital/siged/internal/domain"
	"github.com/cartorio-digital/siged/internal/ports"
)

type PaymentHandler struct {
	service ports.PaymentService
	orders  ports.OrderService
	log     *zap.Logger
}

func NewPaymentHandler(service ports.PaymentService, orders ports.OrderService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		orders:  orders,
		log:     log,
	}
}

type CheckoutRequest struct {
	Method string `json:"method"` // credit_card, pix, boleto
}

func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.service.CreateIntent(c.Context(), middleware.CurrentUser(c), c.Params("id"), domain.PaymentMethod(req.Method))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *PaymentHandler) ListOrderPayments(c *fiber.Ctx) error {
	// Access check rides on GetOrder: whoever can see the order can see
	// its payment records.
	if _, err := h.orders.GetOrder(c.Context(), middleware.CurrentUser(c), c.Params("id")); err != nil {
		return err
	}

	payments, err := h.service.GetOrderPayments(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(payments)
}

// Webhook receives gateway notifications. It always acknowledges with 200:
// a retry storm from the gateway helps nobody, and failures are logged and
// counted server-side.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	provider := c.Params("provider")
	signature := c.Get("Stripe-Signature")
	if signature == "" {
		signature = c.Get("X-Authenticity-Token")
	}

	if err := h.service.HandleWebhook(c.Context(), provider, c.Body(), signature); err != nil {
		h.log.Warn("Webhook processing failed",
			zap.String("provider", provider),
			zap.Error(err),
		)
	}

	return c.JSON(fiber.Map{"received": true})
}
