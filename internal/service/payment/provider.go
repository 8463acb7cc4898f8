package payment

import (
	"context"
	"time"

	"github.com/cartorio-digital/siged/internal/domain"
)

// Provider abstracts a payment gateway. Each charge returns the provider's
// external id; webhooks report back against that id.
type Provider interface {
	// CreatePaymentIntent creates a card payment intent for client-side
	// confirmation.
	CreatePaymentIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*domain.PaymentIntent, error)

	// CreatePixPayment creates a PIX charge, returning its details and the
	// provider id.
	CreatePixPayment(ctx context.Context, amount float64, description string, expiresIn time.Duration) (*domain.PixPayment, string, error)

	// CreateBoletoPayment creates a Boleto charge, returning its details and
	// the provider id.
	CreateBoletoPayment(ctx context.Context, amount float64, payerEmail string, expiresAt time.Time) (*domain.BoletoPayment, string, error)

	// ValidateWebhook validates the webhook signature.
	ValidateWebhook(payload []byte, signature string) error

	// ParseWebhook parses a webhook payload into a normalized event.
	ParseWebhook(payload []byte) (*WebhookEvent, error)

	// Name returns the provider name.
	Name() string
}

// WebhookEvent is a provider notification normalized across gateways.
type WebhookEvent struct {
	Type       string // payment.completed, payment.failed, ...
	ProviderID string
	Status     domain.PaymentStatus
	Amount     float64
}
