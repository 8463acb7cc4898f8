package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cartorio-digital/siged/internal/domain"
	"github.com/cartorio-digital/siged/internal/observability/telemetry"
	"github.com/cartorio-digital/siged/internal/ports"
)

// Config holds payment service configuration
type Config struct {
	DefaultCurrency string
	WebhookURL      string

	// Stripe config
	StripeSecretKey     string
	StripeWebhookSecret string

	// PagSeguro config
	PagSeguroEmail   string
	PagSeguroToken   string
	PagSeguroSandbox bool
}

// Service creates charges for pending orders and turns gateway webhooks into
// order payment confirmations.
type Service struct {
	config    *Config
	providers map[domain.PaymentProvider]Provider
	repo      ports.PaymentRepository
	orders    ports.OrderService
	log       *zap.Logger
}

func NewService(config *Config, repo ports.PaymentRepository, orders ports.OrderService, log *zap.Logger) (*Service, error) {
	s := &Service{
		config:    config,
		providers: make(map[domain.PaymentProvider]Provider),
		repo:      repo,
		orders:    orders,
		log:       log,
	}
	if s.config.DefaultCurrency == "" {
		s.config.DefaultCurrency = "BRL"
	}

	if config.StripeSecretKey != "" {
		s.providers[domain.PaymentProviderStripe] = NewStripeProvider(config.StripeSecretKey, config.StripeWebhookSecret)
		log.Info("Stripe payment provider initialized")
	}
	if config.PagSeguroToken != "" {
		s.providers[domain.PaymentProviderPagSeguro] = NewPagSeguroProvider(config.PagSeguroEmail, config.PagSeguroToken, config.PagSeguroSandbox, log)
		log.Info("PagSeguro payment provider initialized")
	}
	if len(s.providers) == 0 {
		log.Warn("No payment providers configured")
	}

	return s, nil
}

func providerFor(method domain.PaymentMethod) domain.PaymentProvider {
	switch method {
	case domain.PaymentMethodPix, domain.PaymentMethodBoleto:
		return domain.PaymentProviderPagSeguro
	default:
		return domain.PaymentProviderStripe
	}
}

// CreateIntent opens a charge for a pending order. Only the owning client
// can pay; the order must already carry a total.
func (s *Service) CreateIntent(ctx context.Context, actor *domain.User, orderID string, method domain.PaymentMethod) (*ports.CheckoutResult, error) {
	o, err := s.orders.GetOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if actor.ID != o.ClientID {
		return nil, fmt.Errorf("%w: only the order's client can pay", domain.ErrUnauthorized)
	}
	if o.Status != domain.OrderStatusPending {
		return nil, fmt.Errorf("%w: order %s is not awaiting payment", domain.ErrStateConflict, o.ID)
	}
	if o.Total <= 0 {
		return nil, fmt.Errorf("%w: order has no payable total", domain.ErrStateConflict)
	}

	providerType := providerFor(method)
	provider, ok := s.providers[providerType]
	if !ok {
		return nil, fmt.Errorf("%w: payment provider not configured: %s", domain.ErrExternalService, providerType)
	}

	now := time.Now()
	p := &domain.Payment{
		ID:        uuid.New().String(),
		OrderID:   o.ID,
		UserID:    actor.ID,
		Provider:  providerType,
		Method:    method,
		Status:    domain.PaymentStatusPending,
		Amount:    o.Total,
		Currency:  s.config.DefaultCurrency,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result := &ports.CheckoutResult{Payment: p}
	description := fmt.Sprintf("Pedido %s", o.ID)

	switch method {
	case domain.PaymentMethodPix:
		pix, providerID, err := provider.CreatePixPayment(ctx, o.Total, description, 30*time.Minute)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrExternalService, err)
		}
		p.ProviderID = providerID
		result.Pix = pix
	case domain.PaymentMethodBoleto:
		boleto, providerID, err := provider.CreateBoletoPayment(ctx, o.Total, actor.Email, now.Add(3*24*time.Hour))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrExternalService, err)
		}
		p.ProviderID = providerID
		result.Boleto = boleto
	case domain.PaymentMethodCreditCard:
		intent, err := provider.CreatePaymentIntent(ctx, o.Total, s.config.DefaultCurrency, map[string]string{
			"order_id":   o.ID,
			"payment_id": p.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrExternalService, err)
		}
		p.ProviderID = intent.ID
		result.Intent = intent
	default:
		return nil, fmt.Errorf("%w: unknown payment method: %s", domain.ErrValidation, method)
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("payment intent created",
		zap.String("order_id", o.ID),
		zap.String("payment_id", p.ID),
		zap.String("provider", string(providerType)),
		zap.Float64("amount", p.Amount),
	)
	return result, nil
}

func (s *Service) GetOrderPayments(ctx context.Context, orderID string) ([]domain.Payment, error) {
	return s.repo.FindByOrderID(ctx, orderID)
}

// HandleWebhook processes a provider notification. Unknown references and
// repeats are logged and swallowed; the handler acknowledges the gateway no
// matter what comes back from here.
func (s *Service) HandleWebhook(ctx context.Context, providerName string, payload []byte, signature string) error {
	var providerType domain.PaymentProvider
	switch providerName {
	case "stripe":
		providerType = domain.PaymentProviderStripe
	case "pagseguro":
		providerType = domain.PaymentProviderPagSeguro
	default:
		telemetry.WebhooksReceived.WithLabelValues(providerName, "unknown_provider").Inc()
		return fmt.Errorf("unknown provider: %s", providerName)
	}

	provider, ok := s.providers[providerType]
	if !ok {
		telemetry.WebhooksReceived.WithLabelValues(providerName, "not_configured").Inc()
		return fmt.Errorf("payment provider not configured: %s", providerType)
	}

	if err := provider.ValidateWebhook(payload, signature); err != nil {
		telemetry.WebhooksReceived.WithLabelValues(providerName, "bad_signature").Inc()
		s.log.Warn("Invalid webhook signature",
			zap.String("provider", providerName),
			zap.Error(err),
		)
		return fmt.Errorf("invalid webhook signature: %w", err)
	}

	event, err := provider.ParseWebhook(payload)
	if err != nil {
		telemetry.WebhooksReceived.WithLabelValues(providerName, "bad_payload").Inc()
		return fmt.Errorf("failed to parse webhook: %w", err)
	}

	s.log.Info("Webhook received",
		zap.String("provider", providerName),
		zap.String("type", event.Type),
		zap.String("provider_id", event.ProviderID),
	)

	p, err := s.repo.FindByProviderID(ctx, event.ProviderID)
	if err != nil {
		return err
	}
	if p == nil {
		// Possibly a test event or a charge from another environment.
		telemetry.WebhooksReceived.WithLabelValues(providerName, "unknown_reference").Inc()
		s.log.Warn("Payment not found for webhook",
			zap.String("provider_id", event.ProviderID),
		)
		return nil
	}

	if p.Status == event.Status {
		telemetry.WebhooksReceived.WithLabelValues(providerName, "duplicate").Inc()
		return nil
	}

	p.Status = event.Status
	p.UpdatedAt = time.Now()
	if event.Status == domain.PaymentStatusCompleted && p.CompletedAt == nil {
		now := time.Now()
		p.CompletedAt = &now
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return err
	}

	if event.Status == domain.PaymentStatusCompleted {
		if err := s.orders.ConfirmPayment(ctx, p.OrderID); err != nil {
			telemetry.WebhooksReceived.WithLabelValues(providerName, "confirm_failed").Inc()
			return err
		}
	}

	telemetry.WebhooksReceived.WithLabelValues(providerName, "ok").Inc()
	return nil
}
