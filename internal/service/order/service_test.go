package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/cartorio-digital/siged/internal/domain"
	"github.com/cartorio-digital/siged/internal/mocks"
	"github.com/cartorio-digital/siged/internal/ports"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

var (
	testClient = &domain.User{ID: "client-1", Name: "Maria", Role: domain.UserRoleClient}
	testOther  = &domain.User{ID: "client-2", Name: "Pedro", Role: domain.UserRoleClient}
	testAdmin  = &domain.User{ID: "admin-1", Name: "Chefe", Role: domain.UserRoleAdmin}
	testAnalyst = &domain.User{ID: "analyst-1", Name: "Ana", Role: domain.UserRoleAnalyst}
)

// orderStore is an in-memory OrderRepository for tests that walk an order
// through multiple transitions.
func orderStore(orders map[string]*domain.Order) *mocks.MockOrderRepository {
	return &mocks.MockOrderRepository{
		SaveFunc: func(ctx context.Context, o *domain.Order) error {
			cp := *o
			orders[o.ID] = &cp
			return nil
		},
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Order, error) {
			if o, ok := orders[id]; ok {
				cp := *o
				return &cp, nil
			}
			return nil, nil
		},
	}
}

func newTestService(orders map[string]*domain.Order, svc *domain.Service, analyst *domain.User) (ports.OrderService, *mocks.MockMessageQueue) {
	serviceRepo := &mocks.MockServiceRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Service, error) {
			if svc != nil && svc.ID == id {
				return svc, nil
			}
			return nil, nil
		},
	}
	userRepo := &mocks.MockUserRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
			if analyst != nil && analyst.ID == id {
				return analyst, nil
			}
			return nil, nil
		},
	}
	mq := mocks.NewMockMessageQueue()
	return NewService(orderStore(orders), userRepo, serviceRepo, mq, newTestLogger()), mq
}

func TestCreateOrder_QuoteBasedService(t *testing.T) {
	orders := map[string]*domain.Order{}
	svc := &domain.Service{ID: "svc-busca", Name: "Busca de Matrícula"}
	service, mq := newTestService(orders, svc, nil)

	o, err := service.CreateOrder(context.Background(), testClient, ports.CreateOrderInput{
		ServiceID:   "svc-busca",
		Description: "Busca de matrícula do imóvel X",
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if o.Status != domain.OrderStatusAwaitingQuote {
		t.Errorf("expected status awaiting_quote, got %s", o.Status)
	}
	if o.Total != 0 {
		t.Errorf("expected zero total before quote, got %.2f", o.Total)
	}
	if len(o.Messages) != 1 || !o.Messages[0].System {
		t.Error("expected the description seeded as a system message")
	}
	if len(mq.GetPublishedMessages(domain.EventOrderCreated)) != 1 {
		t.Error("expected order_created event")
	}
}

func TestCreateOrder_FixedPriceServiceSkipsQuote(t *testing.T) {
	orders := map[string]*domain.Order{}
	svc := &domain.Service{ID: "svc-certidao", Name: "Certidão", Price: floatPtr(120.50)}
	service, _ := newTestService(orders, svc, nil)

	o, err := service.CreateOrder(context.Background(), testClient, ports.CreateOrderInput{
		ServiceID: "svc-certidao",
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if o.Status != domain.OrderStatusPending {
		t.Errorf("expected status pending, got %s", o.Status)
	}
	if o.Total != 120.50 {
		t.Errorf("expected total 120.50, got %.2f", o.Total)
	}
}

func TestCreateOrder_OnlyClients(t *testing.T) {
	service, _ := newTestService(map[string]*domain.Order{}, nil, nil)

	for _, actor := range []*domain.User{testAdmin, testAnalyst, nil} {
		_, err := service.CreateOrder(context.Background(), actor, ports.CreateOrderInput{ServiceID: "svc"})
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("actor %v: expected ErrUnauthorized, got %v", actor, err)
		}
	}
}

func TestCreateOrder_UnknownService(t *testing.T) {
	service, _ := newTestService(map[string]*domain.Order{}, nil, nil)

	_, err := service.CreateOrder(context.Background(), testClient, ports.CreateOrderInput{ServiceID: "missing"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitQuote_MovesToPending(t *testing.T) {
	orders := map[string]*domain.Order{
		"ord-1": {ID: "ord-1", ClientID: testClient.ID, Status: domain.OrderStatusAwaitingQuote},
	}
	service, mq := newTestService(orders, nil, nil)

	o, err := service.SubmitQuote(context.Background(), testAnalyst, "ord-1", 350)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if o.Status != domain.OrderStatusPending {
		t.Errorf("expected status pending, got %s", o.Status)
	}
	if o.Total != 350 {
		t.Errorf("expected total 350, got %.2f", o.Total)
	}
	if len(mq.GetPublishedMessages(domain.EventQuoteReady)) != 1 {
		t.Error("expected quote_ready event")
	}
}

func TestSubmitQuote_RejectsClientsAndBadAmounts(t *testing.T) {
	orders := map[string]*domain.Order{
		"ord-1": {ID: "ord-1", ClientID: testClient.ID, Status: domain.OrderStatusAwaitingQuote},
	}
	service, _ := newTestService(orders, nil, nil)

	if _, err := service.SubmitQuote(context.Background(), testClient, "ord-1", 350); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("client quoting: expected ErrUnauthorized, got %v", err)
	}
	if _, err := service.SubmitQuote(context.Background(), testAnalyst, "ord-1", 0); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("zero amount: expected ErrValidation, got %v", err)
	}
	if _, err := service.SubmitQuote(context.Background(), testAnalyst, "ord-1", -10); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("negative amount: expected ErrValidation, got %v", err)
	}
}

func TestSubmitQuote_OnlyWhileAwaitingQuote(t *testing.T) {
	for _, status := range []domain.OrderStatus{
		domain.OrderStatusPending,
		domain.OrderStatusInProgress,
		domain.OrderStatusCompleted,
		domain.OrderStatusCanceled,
	} {
		orders := map[string]*domain.Order{
			"ord-1": {ID: "ord-1", ClientID: testClient.ID, Status: status},
		}
		service, _ := newTestService(orders, nil, nil)

		_, err := service.SubmitQuote(context.Background(), testAnalyst, "ord-1", 350)
		if !errors.Is(err, domain.ErrStateConflict) {
			t.Errorf("status %s: expected ErrStateConflict, got %v", status, err)
		}
	}
}

func TestAssignAnalyst_AdminOnly(t *testing.T) {
	orders := map[string]*domain.Order{
		"ord-1": {ID: "ord-1", ClientID: testClient.ID, Status: domain.OrderStatusAwaitingQuote},
	}
	service, _ := newTestService(orders, nil, testAnalyst)

	if _, err := service.AssignAnalyst(context.Background(), testAnalyst, "ord-1", testAnalyst.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("analyst assigning: expected ErrUnauthorized, got %v", err)
	}

	o, err := service.AssignAnalyst(context.Background(), testAdmin, "ord-1", testAnalyst.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if o.AnalystID == nil || *o.AnalystID != testAnalyst.ID {
		t.Error("expected analyst bound to order")
	}
	if o.Status != domain.OrderStatusAwaitingQuote {
		t.Errorf("assignment must not change status, got %s", o.Status)
	}
}

func TestAssignAnalyst_RejectsNonAnalystTarget(t *testing.T) {
	orders := map[string]*domain.Order{
		"ord-1": {ID: "ord-1", ClientID: testClient.ID, Status: domain.OrderStatusPending},
	}
	// The target user exists but is a client.
	service, _ := newTestService(orders, nil, &domain.User{ID: "user-x", Role: domain.UserRoleClient})

	_, err := service.AssignAnalyst(context.Background(), testAdmin, "ord-1", "user-x")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestAssignAnalyst_NotOnTerminalOrders(t *testing.T) {
	for _, status := range []domain.OrderStatus{domain.OrderStatusCompleted, domain.OrderStatusCanceled} {
		orders := map[string]*domain.Order{
			"ord-1": {ID: "ord-1", ClientID: testClient.ID, Status: status},
		}
		service, _ := newTestService(orders, nil, testAnalyst)

		_, err := service.AssignAnalyst(context.Background(), testAdmin, "ord-1", testAnalyst.ID)
		if !errors.Is(err, domain.ErrStateConflict) {
			t.Errorf("status %s: expected ErrStateConflict, got %v", status, err)
		}
	}
}

func TestCancelOrder_ClientAndAdminOnly(t *testing.T) {
	orders := map[string]*domain.Order{
		"ord-1": {ID: "ord-1", ClientID: testClient.ID, Status: domain.OrderStatusPending},
	}
	service, mq := newTestService(orders, nil, nil)

	if _, err := service.CancelOrder(context.Background(), testOther, "ord-1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("stranger canceling: expected ErrUnauthorized, got %v", err)
	}

	o, err := service.CancelOrder(context.Background(), testClient, "ord-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if o.Status != domain.OrderStatusCanceled {
		t.Errorf("expected status canceled, got %s", o.Status)
	}
	if len(mq.GetPublishedMessages(domain.EventOrderCanceled)) != 1 {
		t.Error("expected order_canceled event")
	}
}

func TestCancelOrder_NotAfterPayment(t *testing.T) {
	for _, status := range []domain.OrderStatus{
		domain.OrderStatusInProgress,
		domain.OrderStatusCompleted,
		domain.OrderStatusCanceled,
	} {
		orders := map[string]*domain.Order{
			"ord-1": {ID: "ord-1", ClientID: testClient.ID, Status: status},
		}
		service, _ := newTestService(orders, nil, nil)

		_, err := service.CancelOrder(context.Background(), testClient, "ord-1")
		if !errors.Is(err, domain.ErrStateConflict) {
			t.Errorf("status %s: expected ErrStateConflict, got %v", status, err)
		}
	}
}

func TestConfirmPayment_MovesToInProgress(t *testing.T) {
	orders := map[string]*domain.Order{
		"ord-1": {ID: "ord-1", ClientID: testClient.ID, Status: domain.OrderStatusPending, Total: 350},
	}
	service, mq := newTestService(orders, nil, nil)

	if err := service.ConfirmPayment(context.Background(), "ord-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	saved := orders["ord-1"]
	if saved.Status != domain.OrderStatusInProgress {
		t.Errorf("expected status in_progress, got %s", saved.Status)
	}
	if saved.PaymentConfirmedAt == nil {
		t.Error("expected payment timestamp recorded")
	}
	if len(mq.GetPublishedMessages(domain.EventPaymentConfirmed)) != 1 {
		t.Error("expected payment_confirmed event")
	}
}

func TestConfirmPayment_Idempotent(t *testing.T) {
	orders := map[string]*domain.Order{
		"ord-1": {ID: "ord-1", ClientID: testClient.ID, Status: domain.OrderStatusPending, Total: 350},
	}
	service, mq := newTestService(orders, nil, nil)

	if err := service.ConfirmPayment(context.Background(), "ord-1"); err != nil {
		t.Fatalf("first confirmation: %v", err)
	}
	firstConfirmedAt := *orders["ord-1"].PaymentConfirmedAt

	time.Sleep(time.Millisecond)
	if err := service.ConfirmPayment(context.Background(), "ord-1"); err != nil {
		t.Fatalf("second confirmation: %v", err)
	}

	saved := orders["ord-1"]
	if saved.Status != domain.OrderStatusInProgress {
		t.Errorf("expected status in_progress, got %s", saved.Status)
	}
	if !saved.PaymentConfirmedAt.Equal(firstConfirmedAt) {
		t.Error("repeated confirmation must not move the payment timestamp")
	}
	if got := len(mq.GetPublishedMessages(domain.EventPaymentConfirmed)); got != 1 {
		t.Errorf("expected exactly one payment_confirmed event, got %d", got)
	}
}

func TestConfirmPayment_IgnoresUnknownAndSettledOrders(t *testing.T) {
	orders := map[string]*domain.Order{
		"ord-done": {ID: "ord-done", ClientID: testClient.ID, Status: domain.OrderStatusCompleted},
	}
	service, _ := newTestService(orders, nil, nil)

	// A late or stray notification never errors: the webhook must be ackable.
	if err := service.ConfirmPayment(context.Background(), "ord-missing"); err != nil {
		t.Errorf("unknown order: expected nil, got %v", err)
	}
	if err := service.ConfirmPayment(context.Background(), "ord-done"); err != nil {
		t.Errorf("completed order: expected nil, got %v", err)
	}
	if orders["ord-done"].Status != domain.OrderStatusCompleted {
		t.Error("completed order must stay completed")
	}
}

func TestCompleteOrder_AssignedAnalyst(t *testing.T) {
	orders := map[string]*domain.Order{
		"ord-1": {
			ID: "ord-1", ClientID: testClient.ID,
			AnalystID: strPtr(testAnalyst.ID),
			Status:    domain.OrderStatusInProgress,
		},
	}
	service, mq := newTestService(orders, nil, nil)

	report := &domain.UploadedFile{Name: "certidao.pdf", MimeType: "application/pdf", Size: 1024}
	o, err := service.CompleteOrder(context.Background(), testAnalyst, "ord-1", report)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if o.Status != domain.OrderStatusCompleted {
		t.Errorf("expected status completed, got %s", o.Status)
	}
	if o.Report() == nil {
		t.Error("expected report attached to order")
	}
	if len(mq.GetPublishedMessages(domain.EventOrderCompleted)) != 1 {
		t.Error("expected order_completed event")
	}
}

func TestCompleteOrder_UnassignedAnalystRejected(t *testing.T) {
	orders := map[string]*domain.Order{
		"ord-1": {
			ID: "ord-1", ClientID: testClient.ID,
			AnalystID: strPtr("someone-else"),
			Status:    domain.OrderStatusInProgress,
		},
	}
	service, _ := newTestService(orders, nil, nil)

	_, err := service.CompleteOrder(context.Background(), testAnalyst, "ord-1", nil)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCompleteOrder_OnlyInProgress(t *testing.T) {
	for _, status := range []domain.OrderStatus{
		domain.OrderStatusAwaitingQuote,
		domain.OrderStatusPending,
		domain.OrderStatusCompleted,
		domain.OrderStatusCanceled,
	} {
		orders := map[string]*domain.Order{
			"ord-1": {ID: "ord-1", ClientID: testClient.ID, Status: status},
		}
		service, _ := newTestService(orders, nil, nil)

		_, err := service.CompleteOrder(context.Background(), testAdmin, "ord-1", nil)
		if !errors.Is(err, domain.ErrStateConflict) {
			t.Errorf("status %s: expected ErrStateConflict, got %v", status, err)
		}
	}
}

func TestSendMessage_ParticipantsOnly(t *testing.T) {
	orders := map[string]*domain.Order{
		"ord-1": {
			ID: "ord-1", ClientID: testClient.ID,
			AnalystID: strPtr(testAnalyst.ID),
			Status:    domain.OrderStatusInProgress,
		},
	}
	service, mq := newTestService(orders, nil, nil)

	msg, err := service.SendMessage(context.Background(), testClient, "ord-1", "Alguma novidade?", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if msg.SenderID != testClient.ID || msg.SenderName != testClient.Name {
		t.Error("expected sender stamped on message")
	}

	if _, err := service.SendMessage(context.Background(), testOther, "ord-1", "oi", nil); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("stranger messaging: expected ErrUnauthorized, got %v", err)
	}
	if _, err := service.SendMessage(context.Background(), testClient, "ord-1", "", nil); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty message: expected ErrValidation, got %v", err)
	}
	if len(mq.GetPublishedMessages(domain.EventMessageSent)) != 1 {
		t.Error("expected one message_sent event")
	}
}

func TestSendMessage_AttachmentJoinsOrderFiles(t *testing.T) {
	orders := map[string]*domain.Order{
		"ord-1": {ID: "ord-1", ClientID: testClient.ID, Status: domain.OrderStatusInProgress},
	}
	service, _ := newTestService(orders, nil, nil)

	attachment := &domain.UploadedFile{Name: "escritura.pdf", MimeType: "application/pdf", Size: 2048}
	msg, err := service.SendMessage(context.Background(), testClient, "ord-1", "", attachment)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if msg.Attachment == nil {
		t.Fatal("expected attachment on message")
	}
	if len(orders["ord-1"].Files) != 1 {
		t.Error("expected attachment in order files")
	}
	if orders["ord-1"].Files[0].Kind != domain.FileKindDocument {
		t.Error("expected attachment stored as document")
	}
}

func TestListMessages_ChronologicalOrder(t *testing.T) {
	base := time.Now()
	orders := map[string]*domain.Order{
		"ord-1": {ID: "ord-1", ClientID: testClient.ID, Status: domain.OrderStatusInProgress},
	}
	repo := orderStore(orders)
	repo.FindMessagesFunc = func(ctx context.Context, orderID string) ([]domain.Message, error) {
		return []domain.Message{
			{ID: "m3", Seq: 3, Content: "terceira", CreatedAt: base.Add(2 * time.Second)},
			{ID: "m1", Seq: 1, Content: "primeira", CreatedAt: base},
			{ID: "m2", Seq: 2, Content: "segunda", CreatedAt: base},
		}, nil
	}
	service := NewService(repo, &mocks.MockUserRepository{}, &mocks.MockServiceRepository{}, mocks.NewMockMessageQueue(), newTestLogger())

	msgs, err := service.ListMessages(context.Background(), testClient, "ord-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	for i, want := range []string{"m1", "m2", "m3"} {
		if msgs[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, msgs[i].ID)
		}
	}
}

// TestOrderLifecycle_HappyPath walks one order from creation to completion.
func TestOrderLifecycle_HappyPath(t *testing.T) {
	ctx := context.Background()
	orders := map[string]*domain.Order{}
	svc := &domain.Service{ID: "svc-busca", Name: "Busca de Matrícula"}
	service, _ := newTestService(orders, svc, testAnalyst)

	o, err := service.CreateOrder(ctx, testClient, ports.CreateOrderInput{
		ServiceID:   "svc-busca",
		Description: "Busca completa",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := service.AssignAnalyst(ctx, testAdmin, o.ID, testAnalyst.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := service.SubmitQuote(ctx, testAnalyst, o.ID, 420); err != nil {
		t.Fatalf("quote: %v", err)
	}
	if err := service.ConfirmPayment(ctx, o.ID); err != nil {
		t.Fatalf("confirm payment: %v", err)
	}
	if _, err := service.CompleteOrder(ctx, testAnalyst, o.ID, nil); err != nil {
		t.Fatalf("complete: %v", err)
	}

	final := orders[o.ID]
	if final.Status != domain.OrderStatusCompleted {
		t.Errorf("expected completed, got %s", final.Status)
	}
	if final.Total != 420 {
		t.Errorf("expected total 420, got %.2f", final.Total)
	}
	if !final.Paid() {
		t.Error("expected order marked paid")
	}
}
