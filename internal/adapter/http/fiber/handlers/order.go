package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/cartorio-digital/siged/internal/adapter/http/fiber/middleware"
	"github.com/cartorio-digital/siged/internal/domain"
	"github.com/cartorio-digital/siged/internal/ports"
)

type OrderHandler struct {
	service ports.OrderService
	log     *zap.Logger
}

func NewOrderHandler(service ports.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		log:     log,
	}
}

type FileMetadata struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	MimeType   string `json:"mime_type"`
	StorageKey string `json:"storage_key"`
}

type CreateOrderRequest struct {
	ServiceID    string         `json:"service_id"`
	Description  string         `json:"description"`
	PropertyType string         `json:"property_type"`
	IsUrgent     bool           `json:"is_urgent"`
	Documents    []FileMetadata `json:"documents"`
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	docs := make([]domain.UploadedFile, 0, len(req.Documents))
	for _, d := range req.Documents {
		docs = append(docs, domain.UploadedFile{
			Name:       d.Name,
			Size:       d.Size,
			MimeType:   d.MimeType,
			StorageKey: d.StorageKey,
		})
	}

	order, err := h.service.CreateOrder(c.Context(), middleware.CurrentUser(c), ports.CreateOrderInput{
		ServiceID:    req.ServiceID,
		Description:  req.Description,
		PropertyType: req.PropertyType,
		IsUrgent:     req.IsUrgent,
		Documents:    docs,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.Context(), middleware.CurrentUser(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(order)
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(c.Context(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

type QuoteRequest struct {
	Amount float64 `json:"amount"`
}

func (h *OrderHandler) SubmitQuote(c *fiber.Ctx) error {
	var req QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	order, err := h.service.SubmitQuote(c.Context(), middleware.CurrentUser(c), c.Params("id"), req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(order)
}

type AssignRequest struct {
	AnalystID string `json:"analyst_id"`
}

func (h *OrderHandler) AssignAnalyst(c *fiber.Ctx) error {
	var req AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	order, err := h.service.AssignAnalyst(c.Context(), middleware.CurrentUser(c), c.Params("id"), req.AnalystID)
	if err != nil {
		return err
	}
	return c.JSON(order)
}

func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.service.CancelOrder(c.Context(), middleware.CurrentUser(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(order)
}

type CompleteRequest struct {
	Report FileMetadata `json:"report"`
}

func (h *OrderHandler) Complete(c *fiber.Ctx) error {
	var req CompleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	report := &domain.UploadedFile{
		Name:       req.Report.Name,
		Size:       req.Report.Size,
		MimeType:   req.Report.MimeType,
		StorageKey: req.Report.StorageKey,
	}

	order, err := h.service.CompleteOrder(c.Context(), middleware.CurrentUser(c), c.Params("id"), report)
	if err != nil {
		return err
	}
	return c.JSON(order)
}

type SendMessageRequest struct {
	Content    string        `json:"content"`
	Attachment *FileMetadata `json:"attachment,omitempty"`
}

func (h *OrderHandler) SendMessage(c *fiber.Ctx) error {
	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var attachment *domain.UploadedFile
	if req.Attachment != nil {
		attachment = &domain.UploadedFile{
			Name:       req.Attachment.Name,
			Size:       req.Attachment.Size,
			MimeType:   req.Attachment.MimeType,
			StorageKey: req.Attachment.StorageKey,
		}
	}

	msg, err := h.service.SendMessage(c.Context(), middleware.CurrentUser(c), c.Params("id"), req.Content, attachment)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *OrderHandler) ListMessages(c *fiber.Ctx) error {
	msgs, err := h.service.ListMessages(c.Context(), middleware.CurrentUser(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(msgs)
}
