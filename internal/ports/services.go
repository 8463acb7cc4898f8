package ports

import (
	"context"

	"github.com/cartorio-digital/siged/internal/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, string, error) // access, refresh, err
	Register(ctx context.Context, user *domain.User) error
	RefreshToken(ctx context.Context, token string) (string, error)
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
}

// CreateOrderInput carries the client-supplied fields of a new order.
type CreateOrderInput struct {
	ServiceID    string
	Description  string
	PropertyType string
	IsUrgent     bool
	Documents    []domain.UploadedFile
}

// OrderService owns the order lifecycle: status machine, quoting,
// assignment, messaging and the payment handoff. Every mutating method takes
// the acting user and enforces the access gate before touching state.
type OrderService interface {
	CreateOrder(ctx context.Context, actor *domain.User, in CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, actor *domain.User, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, actor *domain.User) ([]domain.Order, error)

	SubmitQuote(ctx context.Context, actor *domain.User, orderID string, amount float64) (*domain.Order, error)
	AssignAnalyst(ctx context.Context, actor *domain.User, orderID, analystID string) (*domain.Order, error)
	CancelOrder(ctx context.Context, actor *domain.User, orderID string) (*domain.Order, error)
	CompleteOrder(ctx context.Context, actor *domain.User, orderID string, report *domain.UploadedFile) (*domain.Order, error)

	SendMessage(ctx context.Context, actor *domain.User, orderID, content string, attachment *domain.UploadedFile) (*domain.Message, error)
	ListMessages(ctx context.Context, actor *domain.User, orderID string) ([]domain.Message, error)

	// ConfirmPayment is the webhook handoff: idempotent, system-actor, and
	// silent about unknown or already-settled orders.
	ConfirmPayment(ctx context.Context, orderID string) error
}

type CatalogService interface {
	GetService(ctx context.Context, id string) (*domain.Service, error)
	ListServices(ctx context.Context) ([]domain.Service, error)
}

// PaymentService creates charges for pending orders and feeds gateway
// webhooks back into the order lifecycle.
type PaymentService interface {
	CreateIntent(ctx context.Context, actor *domain.User, orderID string, method domain.PaymentMethod) (*CheckoutResult, error)
	GetOrderPayments(ctx context.Context, orderID string) ([]domain.Payment, error)
	// HandleWebhook processes a provider notification. Callers must always
	// acknowledge the gateway regardless of the returned error.
	HandleWebhook(ctx context.Context, provider string, payload []byte, signature string) error
}

// CheckoutResult bundles whichever charge representation the chosen method
// produced.
type CheckoutResult struct {
	Payment *domain.Payment       `json:"payment"`
	Intent  *domain.PaymentIntent `json:"intent,omitempty"`
	Pix     *domain.PixPayment    `json:"pix,omitempty"`
	Boleto  *domain.BoletoPayment `json:"boleto,omitempty"`
}

// StorageService issues upload locations at the external file store. Only
// metadata is kept locally.
type StorageService interface {
	RequestUploadLocation(ctx context.Context, fileName, mimeType string, size int64) (*domain.UploadLocation, error)
}

// EmailService handles email notifications
type EmailService interface {
	Send(ctx context.Context, to, subject, body string) error
	SendTemplate(ctx context.Context, to, templateName string, data map[string]interface{}) error
}

// WhatsAppService handles WhatsApp notifications
type WhatsAppService interface {
	SendMessage(ctx context.Context, to, body string) error
	SendTemplate(ctx context.Context, to, templateName string, data map[string]interface{}) error
}
