package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/cartorio-digital/siged/internal/domain"
)

// StripeProvider implements the Provider interface for Stripe. It only
// handles card payments; PIX and Boleto go through PagSeguro.
type StripeProvider struct {
	secretKey     string
	webhookSecret string
}

func NewStripeProvider(secretKey, webhookSecret string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
	}
}

// Name returns the provider name
func (p *StripeProvider) Name() string {
	return "stripe"
}

// CreatePaymentIntent creates a Stripe payment intent
func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*domain.PaymentIntent, error) {
	// Stripe expects amount in cents
	amountCents := int64(amount * 100)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	if metadata != nil {
		params.Metadata = make(map[string]string)
		for k, v := range metadata {
			params.Metadata[k] = v
		}
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe error: %w", err)
	}

	return &domain.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       amount,
		Currency:     currency,
		Status:       string(pi.Status),
	}, nil
}

// CreatePixPayment is not supported by Stripe in this integration
func (p *StripeProvider) CreatePixPayment(ctx context.Context, amount float64, description string, expiresIn time.Duration) (*domain.PixPayment, string, error) {
	return nil, "", fmt.Errorf("PIX payments require PagSeguro provider")
}

// CreateBoletoPayment is not supported by Stripe in this integration
func (p *StripeProvider) CreateBoletoPayment(ctx context.Context, amount float64, payerEmail string, expiresAt time.Time) (*domain.BoletoPayment, string, error) {
	return nil, "", fmt.Errorf("Boleto payments require PagSeguro provider")
}

// ValidateWebhook validates Stripe webhook signature
func (p *StripeProvider) ValidateWebhook(payload []byte, signature string) error {
	_, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	return err
}

// ParseWebhook parses Stripe webhook payload
func (p *StripeProvider) ParseWebhook(payload []byte) (*WebhookEvent, error) {
	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook: %w", err)
	}

	webhookEvent := &WebhookEvent{
		Type: string(event.Type),
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, err
		}
		webhookEvent.ProviderID = pi.ID
		webhookEvent.Status = domain.PaymentStatusCompleted
		webhookEvent.Amount = float64(pi.Amount) / 100

	case "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, err
		}
		webhookEvent.ProviderID = pi.ID
		webhookEvent.Status = domain.PaymentStatusFailed
		webhookEvent.Amount = float64(pi.Amount) / 100

	case "payment_intent.canceled":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, err
		}
		webhookEvent.ProviderID = pi.ID
		webhookEvent.Status = domain.PaymentStatusCancelled
		webhookEvent.Amount = float64(pi.Amount) / 100

	default:
		webhookEvent.Status = domain.PaymentStatusPending
	}

	return webhookEvent, nil
}
