package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/cartorio-digital/siged/internal/domain"
	"github.com/cartorio-digital/siged/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

// fakeProvider is an in-memory Provider for service tests.
type fakeProvider struct {
	name              string
	pixErr            error
	validateErr       error
	parsedEvent       *WebhookEvent
	parseErr          error
	lastIntentMeta    map[string]string
	validatedPayloads [][]byte
}

func (f *fakeProvider) CreatePaymentIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*domain.PaymentIntent, error) {
	f.lastIntentMeta = metadata
	return &domain.PaymentIntent{ID: "pi_test", ClientSecret: "secret", Amount: amount, Currency: currency}, nil
}

func (f *fakeProvider) CreatePixPayment(ctx context.Context, amount float64, description string, expiresIn time.Duration) (*domain.PixPayment, string, error) {
	if f.pixErr != nil {
		return nil, "", f.pixErr
	}
	return &domain.PixPayment{CopyPaste: "00020126...", ExpiresAt: time.Now().Add(expiresIn)}, "chg_pix_test", nil
}

func (f *fakeProvider) CreateBoletoPayment(ctx context.Context, amount float64, payerEmail string, expiresAt time.Time) (*domain.BoletoPayment, string, error) {
	return &domain.BoletoPayment{DigitableLine: "34191.79001...", ExpiresAt: expiresAt}, "chg_boleto_test", nil
}

func (f *fakeProvider) ValidateWebhook(payload []byte, signature string) error {
	f.validatedPayloads = append(f.validatedPayloads, payload)
	return f.validateErr
}

func (f *fakeProvider) ParseWebhook(payload []byte) (*WebhookEvent, error) {
	return f.parsedEvent, f.parseErr
}

func (f *fakeProvider) Name() string { return f.name }

var (
	payClient = &domain.User{ID: "client-1", Email: "maria@example.com", Role: domain.UserRoleClient}
)

func pendingOrder() *domain.Order {
	return &domain.Order{
		ID:       "ord-1",
		ClientID: payClient.ID,
		Status:   domain.OrderStatusPending,
		Total:    350,
	}
}

func newTestService(order *domain.Order, repo *mocks.MockPaymentRepository, orders *mocks.MockOrderService) (*Service, *fakeProvider, *fakeProvider) {
	if orders == nil {
		orders = &mocks.MockOrderService{}
	}
	if order != nil && orders.GetOrderFunc == nil {
		orders.GetOrderFunc = func(ctx context.Context, actor *domain.User, id string) (*domain.Order, error) {
			if id == order.ID {
				return order, nil
			}
			return nil, domain.ErrNotFound
		}
	}
	if repo == nil {
		repo = &mocks.MockPaymentRepository{}
	}

	svc, _ := NewService(&Config{DefaultCurrency: "BRL"}, repo, orders, newTestLogger())

	pagseguro := &fakeProvider{name: "pagseguro"}
	stripe := &fakeProvider{name: "stripe"}
	svc.providers[domain.PaymentProviderPagSeguro] = pagseguro
	svc.providers[domain.PaymentProviderStripe] = stripe
	return svc, pagseguro, stripe
}

func TestCreateIntent_Pix(t *testing.T) {
	var saved *domain.Payment
	repo := &mocks.MockPaymentRepository{
		SaveFunc: func(ctx context.Context, p *domain.Payment) error {
			saved = p
			return nil
		},
	}
	svc, _, _ := newTestService(pendingOrder(), repo, nil)

	result, err := svc.CreateIntent(context.Background(), payClient, "ord-1", domain.PaymentMethodPix)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Pix == nil {
		t.Fatal("expected pix details")
	}
	if saved == nil {
		t.Fatal("expected payment persisted")
	}
	if saved.Provider != domain.PaymentProviderPagSeguro {
		t.Errorf("expected pagseguro provider, got %s", saved.Provider)
	}
	if saved.ProviderID != "chg_pix_test" {
		t.Errorf("expected provider id chg_pix_test, got %s", saved.ProviderID)
	}
	if saved.Amount != 350 || saved.Currency != "BRL" {
		t.Errorf("expected 350 BRL, got %.2f %s", saved.Amount, saved.Currency)
	}
	if saved.Status != domain.PaymentStatusPending {
		t.Errorf("expected pending payment, got %s", saved.Status)
	}
}

func TestCreateIntent_BoletoRoutesToPagSeguro(t *testing.T) {
	var saved *domain.Payment
	repo := &mocks.MockPaymentRepository{
		SaveFunc: func(ctx context.Context, p *domain.Payment) error {
			saved = p
			return nil
		},
	}
	svc, _, _ := newTestService(pendingOrder(), repo, nil)

	result, err := svc.CreateIntent(context.Background(), payClient, "ord-1", domain.PaymentMethodBoleto)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Boleto == nil {
		t.Fatal("expected boleto details")
	}
	if saved.Provider != domain.PaymentProviderPagSeguro {
		t.Errorf("expected pagseguro provider, got %s", saved.Provider)
	}
}

func TestCreateIntent_CardRoutesToStripe(t *testing.T) {
	var saved *domain.Payment
	repo := &mocks.MockPaymentRepository{
		SaveFunc: func(ctx context.Context, p *domain.Payment) error {
			saved = p
			return nil
		},
	}
	svc, _, stripe := newTestService(pendingOrder(), repo, nil)

	result, err := svc.CreateIntent(context.Background(), payClient, "ord-1", domain.PaymentMethodCreditCard)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Intent == nil || result.Intent.ClientSecret == "" {
		t.Fatal("expected intent with client secret")
	}
	if saved.Provider != domain.PaymentProviderStripe {
		t.Errorf("expected stripe provider, got %s", saved.Provider)
	}
	if stripe.lastIntentMeta["order_id"] != "ord-1" {
		t.Error("expected order id in intent metadata")
	}
}

func TestCreateIntent_OnlyOwningClient(t *testing.T) {
	order := pendingOrder()
	// Admins can see the order but must not pay for it.
	admin := &domain.User{ID: "admin-1", Role: domain.UserRoleAdmin}
	svc, _, _ := newTestService(order, nil, nil)

	_, err := svc.CreateIntent(context.Background(), admin, "ord-1", domain.PaymentMethodPix)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCreateIntent_OrderMustBePending(t *testing.T) {
	for _, status := range []domain.OrderStatus{
		domain.OrderStatusAwaitingQuote,
		domain.OrderStatusInProgress,
		domain.OrderStatusCompleted,
		domain.OrderStatusCanceled,
	} {
		order := pendingOrder()
		order.Status = status
		svc, _, _ := newTestService(order, nil, nil)

		_, err := svc.CreateIntent(context.Background(), payClient, "ord-1", domain.PaymentMethodPix)
		if !errors.Is(err, domain.ErrStateConflict) {
			t.Errorf("status %s: expected ErrStateConflict, got %v", status, err)
		}
	}
}

func TestCreateIntent_ProviderFailure(t *testing.T) {
	svc, pagseguro, _ := newTestService(pendingOrder(), nil, nil)
	pagseguro.pixErr = errors.New("gateway down")

	_, err := svc.CreateIntent(context.Background(), payClient, "ord-1", domain.PaymentMethodPix)
	if !errors.Is(err, domain.ErrExternalService) {
		t.Errorf("expected ErrExternalService, got %v", err)
	}
}

func TestHandleWebhook_CompletedPaymentConfirmsOrder(t *testing.T) {
	stored := &domain.Payment{
		ID:         "pay-1",
		OrderID:    "ord-1",
		ProviderID: "chg_pix_test",
		Status:     domain.PaymentStatusPending,
	}
	var confirmedOrderID string
	repo := &mocks.MockPaymentRepository{
		FindByProviderIDFunc: func(ctx context.Context, providerID string) (*domain.Payment, error) {
			if providerID == stored.ProviderID {
				return stored, nil
			}
			return nil, nil
		},
		SaveFunc: func(ctx context.Context, p *domain.Payment) error {
			stored = p
			return nil
		},
	}
	orders := &mocks.MockOrderService{
		ConfirmPaymentFunc: func(ctx context.Context, orderID string) error {
			confirmedOrderID = orderID
			return nil
		},
	}
	svc, pagseguro, _ := newTestService(nil, repo, orders)
	pagseguro.parsedEvent = &WebhookEvent{
		Type:       "payment.updated",
		ProviderID: "chg_pix_test",
		Status:     domain.PaymentStatusCompleted,
		Amount:     350,
	}

	err := svc.HandleWebhook(context.Background(), "pagseguro", []byte(`{}`), "sig")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stored.Status != domain.PaymentStatusCompleted {
		t.Errorf("expected payment completed, got %s", stored.Status)
	}
	if stored.CompletedAt == nil {
		t.Error("expected completion timestamp")
	}
	if confirmedOrderID != "ord-1" {
		t.Errorf("expected order ord-1 confirmed, got %q", confirmedOrderID)
	}
}

func TestHandleWebhook_DuplicateIsNoop(t *testing.T) {
	completedAt := time.Now().Add(-time.Hour)
	stored := &domain.Payment{
		ID:          "pay-1",
		OrderID:     "ord-1",
		ProviderID:  "chg_pix_test",
		Status:      domain.PaymentStatusCompleted,
		CompletedAt: &completedAt,
	}
	saves := 0
	repo := &mocks.MockPaymentRepository{
		FindByProviderIDFunc: func(ctx context.Context, providerID string) (*domain.Payment, error) {
			return stored, nil
		},
		SaveFunc: func(ctx context.Context, p *domain.Payment) error {
			saves++
			return nil
		},
	}
	confirmed := 0
	orders := &mocks.MockOrderService{
		ConfirmPaymentFunc: func(ctx context.Context, orderID string) error {
			confirmed++
			return nil
		},
	}
	svc, pagseguro, _ := newTestService(nil, repo, orders)
	pagseguro.parsedEvent = &WebhookEvent{
		ProviderID: "chg_pix_test",
		Status:     domain.PaymentStatusCompleted,
	}

	if err := svc.HandleWebhook(context.Background(), "pagseguro", []byte(`{}`), "sig"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if saves != 0 || confirmed != 0 {
		t.Errorf("duplicate webhook must not touch state: saves=%d confirmed=%d", saves, confirmed)
	}
}

func TestHandleWebhook_UnknownReferenceSwallowed(t *testing.T) {
	svc, pagseguro, _ := newTestService(nil, nil, nil)
	pagseguro.parsedEvent = &WebhookEvent{
		ProviderID: "chg_from_another_env",
		Status:     domain.PaymentStatusCompleted,
	}

	if err := svc.HandleWebhook(context.Background(), "pagseguro", []byte(`{}`), "sig"); err != nil {
		t.Errorf("unknown reference must not error, got %v", err)
	}
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	svc, pagseguro, _ := newTestService(nil, nil, nil)
	pagseguro.validateErr = errors.New("signature mismatch")

	err := svc.HandleWebhook(context.Background(), "pagseguro", []byte(`{}`), "bad-sig")
	if err == nil {
		t.Error("expected error for invalid signature")
	}
}

func TestHandleWebhook_UnknownProvider(t *testing.T) {
	svc, _, _ := newTestService(nil, nil, nil)

	if err := svc.HandleWebhook(context.Background(), "paypal", []byte(`{}`), "sig"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestHandleWebhook_FailedPaymentDoesNotConfirm(t *testing.T) {
	stored := &domain.Payment{
		ID:         "pay-1",
		OrderID:    "ord-1",
		ProviderID: "chg_pix_test",
		Status:     domain.PaymentStatusPending,
	}
	repo := &mocks.MockPaymentRepository{
		FindByProviderIDFunc: func(ctx context.Context, providerID string) (*domain.Payment, error) {
			return stored, nil
		},
		SaveFunc: func(ctx context.Context, p *domain.Payment) error {
			stored = p
			return nil
		},
	}
	confirmed := 0
	orders := &mocks.MockOrderService{
		ConfirmPaymentFunc: func(ctx context.Context, orderID string) error {
			confirmed++
			return nil
		},
	}
	svc, pagseguro, _ := newTestService(nil, repo, orders)
	pagseguro.parsedEvent = &WebhookEvent{
		ProviderID: "chg_pix_test",
		Status:     domain.PaymentStatusFailed,
	}

	if err := svc.HandleWebhook(context.Background(), "pagseguro", []byte(`{}`), "sig"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stored.Status != domain.PaymentStatusFailed {
		t.Errorf("expected failed payment, got %s", stored.Status)
	}
	if confirmed != 0 {
		t.Error("failed payment must not confirm the order")
	}
}

func TestPagSeguroWebhookSignature(t *testing.T) {
	provider := NewPagSeguroProvider("conta@example.com", "token-secreto", true, newTestLogger())
	payload := []byte(`{"charges":[{"id":"chg_1","status":"PAID"}]}`)

	// Signature computed the way PagSeguro documents it: HMAC-SHA256 over
	// the raw body, base64 encoded.
	if err := provider.ValidateWebhook(payload, "definitely-wrong"); err == nil {
		t.Error("expected bad signature to be rejected")
	}
}
