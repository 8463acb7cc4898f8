package order

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cartorio-digital/siged/internal/adapter/queue"
	"github.com/cartorio-digital/siged/internal/domain"
	"github.com/cartorio-digital/siged/internal/observability/telemetry"
	"github.com/cartorio-digital/siged/internal/ports"
)

type Service struct {
	repo        ports.OrderRepository
	userRepo    ports.UserRepository
	serviceRepo ports.ServiceRepository
	mq          queue.MessageQueue
	log         *zap.Logger
}

func NewService(repo ports.OrderRepository, userRepo ports.UserRepository, serviceRepo ports.ServiceRepository, mq queue.MessageQueue, log *zap.Logger) ports.OrderService {
	return &Service{
		repo:        repo,
		userRepo:    userRepo,
		serviceRepo: serviceRepo,
		mq:          mq,
		log:         log,
	}
}

func (s *Service) CreateOrder(ctx context.Context, actor *domain.User, in ports.CreateOrderInput) (*domain.Order, error) {
	if actor == nil || actor.Role != domain.UserRoleClient {
		return nil, fmt.Errorf("%w: only clients can open orders", domain.ErrUnauthorized)
	}
	if in.ServiceID == "" {
		return nil, fmt.Errorf("%w: service_id is required", domain.ErrValidation)
	}

	svc, err := s.serviceRepo.FindByID(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, fmt.Errorf("%w: service %s", domain.ErrNotFound, in.ServiceID)
	}

	now := time.Now()
	o := &domain.Order{
		ID:           uuid.New().String(),
		ClientID:     actor.ID,
		ServiceID:    svc.ID,
		IsUrgent:     in.IsUrgent,
		PropertyType: in.PropertyType,
		Description:  in.Description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Fixed-price services skip the quoting stage entirely.
	if svc.QuoteBased() {
		o.Status = domain.OrderStatusAwaitingQuote
		o.Total = 0
	} else {
		o.Status = domain.OrderStatusPending
		o.Total = *svc.Price
	}

	for _, doc := range in.Documents {
		doc.ID = uuid.New().String()
		doc.OrderID = o.ID
		doc.Kind = domain.FileKindDocument
		doc.CreatedAt = now
		o.Files = append(o.Files, doc)
	}

	// Seed the thread with the problem statement so staff read a single
	// chronological log.
	if in.Description != "" {
		o.Messages = append(o.Messages, s.systemMessage(o.ID, in.Description, now))
	}

	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}

	telemetry.OrdersCreated.Inc()
	s.publish(domain.EventOrderCreated, o, actor.ID)
	s.log.Info("order created",
		zap.String("order_id", o.ID),
		zap.String("client_id", o.ClientID),
		zap.String("status", string(o.Status)),
	)
	return o, nil
}

func (s *Service) GetOrder(ctx context.Context, actor *domain.User, id string) (*domain.Order, error) {
	o, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanAccessOrder(actor, o) {
		return nil, fmt.Errorf("%w: order %s", domain.ErrUnauthorized, id)
	}
	return o, nil
}

func (s *Service) ListOrders(ctx context.Context, actor *domain.User) ([]domain.Order, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.ListByAccess(ctx, actor)
}

func (s *Service) SubmitQuote(ctx context.Context, actor *domain.User, orderID string, amount float64) (*domain.Order, error) {
	if actor == nil || !actor.Role.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can quote", domain.ErrUnauthorized)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: quote amount must be positive", domain.ErrValidation)
	}

	o, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != domain.OrderStatusAwaitingQuote {
		return nil, fmt.Errorf("%w: cannot quote order in status %s", domain.ErrStateConflict, o.Status)
	}

	now := time.Now()
	o.Total = amount
	o.Status = domain.OrderStatusPending
	o.UpdatedAt = now
	o.Messages = append(o.Messages, s.systemMessage(o.ID,
		fmt.Sprintf("Orçamento definido: R$ %.2f. Realize o pagamento para iniciarmos o atendimento.", amount), now))

	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}

	telemetry.QuotesSubmitted.Inc()
	s.publish(domain.EventQuoteReady, o, actor.ID)
	s.log.Info("quote submitted",
		zap.String("order_id", o.ID),
		zap.Float64("amount", amount),
		zap.String("actor_id", actor.ID),
	)
	return o, nil
}

func (s *Service) AssignAnalyst(ctx context.Context, actor *domain.User, orderID, analystID string) (*domain.Order, error) {
	if actor == nil || actor.Role != domain.UserRoleAdmin {
		return nil, fmt.Errorf("%w: only admins can assign analysts", domain.ErrUnauthorized)
	}

	o, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status.Terminal() {
		return nil, fmt.Errorf("%w: cannot assign analyst to %s order", domain.ErrStateConflict, o.Status)
	}

	analyst, err := s.userRepo.FindByID(ctx, analystID)
	if err != nil {
		return nil, err
	}
	if analyst == nil {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, analystID)
	}
	if analyst.Role != domain.UserRoleAnalyst {
		return nil, fmt.Errorf("%w: user %s is not an analyst", domain.ErrValidation, analystID)
	}

	// Assignment is silent in the thread and never changes status; work
	// starts on payment confirmation only.
	o.AnalystID = &analyst.ID
	o.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}

	s.publish(domain.EventAnalystAssigned, o, actor.ID)
	s.log.Info("analyst assigned",
		zap.String("order_id", o.ID),
		zap.String("analyst_id", analyst.ID),
	)
	return o, nil
}

func (s *Service) CancelOrder(ctx context.Context, actor *domain.User, orderID string) (*domain.Order, error) {
	o, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actor == nil || (actor.ID != o.ClientID && actor.Role != domain.UserRoleAdmin) {
		return nil, fmt.Errorf("%w: order %s", domain.ErrUnauthorized, orderID)
	}
	if !o.Status.Cancelable() {
		return nil, fmt.Errorf("%w: cannot cancel order in status %s", domain.ErrStateConflict, o.Status)
	}

	o.Status = domain.OrderStatusCanceled
	o.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}

	s.publish(domain.EventOrderCanceled, o, actor.ID)
	s.log.Info("order canceled", zap.String("order_id", o.ID), zap.String("actor_id", actor.ID))
	return o, nil
}

func (s *Service) CompleteOrder(ctx context.Context, actor *domain.User, orderID string, report *domain.UploadedFile) (*domain.Order, error) {
	o, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canFulfill(actor, o) {
		return nil, fmt.Errorf("%w: order %s", domain.ErrUnauthorized, orderID)
	}
	if o.Status != domain.OrderStatusInProgress {
		return nil, fmt.Errorf("%w: cannot complete order in status %s", domain.ErrStateConflict, o.Status)
	}

	now := time.Now()
	if report != nil {
		report.ID = uuid.New().String()
		report.OrderID = o.ID
		report.Kind = domain.FileKindReport
		report.CreatedAt = now
		o.Files = append(o.Files, *report)
	}
	o.Status = domain.OrderStatusCompleted
	o.UpdatedAt = now

	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}

	telemetry.OrdersCompleted.Inc()
	s.publish(domain.EventOrderCompleted, o, actor.ID)
	s.log.Info("order completed", zap.String("order_id", o.ID), zap.String("actor_id", actor.ID))
	return o, nil
}

// ConfirmPayment is the gateway handoff. It is idempotent: a repeated
// notification for an order already in progress is a no-op, and unknown or
// already-settled orders are logged and ignored so the webhook endpoint can
// always acknowledge.
func (s *Service) ConfirmPayment(ctx context.Context, orderID string) error {
	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o == nil {
		s.log.Warn("payment confirmation for unknown order", zap.String("order_id", orderID))
		return nil
	}

	switch o.Status {
	case domain.OrderStatusPending:
		// proceed
	case domain.OrderStatusInProgress:
		return nil
	default:
		s.log.Warn("payment confirmation ignored",
			zap.String("order_id", o.ID),
			zap.String("status", string(o.Status)),
		)
		return nil
	}

	now := time.Now()
	o.Status = domain.OrderStatusInProgress
	if o.PaymentConfirmedAt == nil {
		o.PaymentConfirmedAt = &now
	}
	o.UpdatedAt = now
	o.Messages = append(o.Messages, s.systemMessage(o.ID,
		"Pagamento confirmado. Seu pedido está em andamento.", now))

	if err := s.repo.Save(ctx, o); err != nil {
		return err
	}

	telemetry.PaymentsConfirmed.Inc()
	s.publish(domain.EventPaymentConfirmed, o, "")
	s.log.Info("payment confirmed", zap.String("order_id", o.ID))
	return nil
}

func (s *Service) SendMessage(ctx context.Context, actor *domain.User, orderID, content string, attachment *domain.UploadedFile) (*domain.Message, error) {
	o, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !CanAccessOrder(actor, o) {
		return nil, fmt.Errorf("%w: order %s", domain.ErrUnauthorized, orderID)
	}
	if content == "" && attachment == nil {
		return nil, fmt.Errorf("%w: message needs content or an attachment", domain.ErrValidation)
	}

	now := time.Now()
	msg := domain.Message{
		ID:         uuid.New().String(),
		OrderID:    o.ID,
		SenderID:   actor.ID,
		SenderName: actor.Name,
		Content:    content,
		CreatedAt:  now,
	}
	if attachment != nil {
		attachment.ID = uuid.New().String()
		attachment.OrderID = o.ID
		attachment.MessageID = &msg.ID
		attachment.Kind = domain.FileKindDocument
		attachment.CreatedAt = now
		msg.Attachment = attachment
		// Attachments also join the order's document list.
		o.Files = append(o.Files, *attachment)
	}

	o.Messages = append(o.Messages, msg)
	o.UpdatedAt = now

	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}

	telemetry.MessagesSent.Inc()
	s.publish(domain.EventMessageSent, o, actor.ID)
	return &msg, nil
}

func (s *Service) ListMessages(ctx context.Context, actor *domain.User, orderID string) ([]domain.Message, error) {
	o, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !CanAccessOrder(actor, o) {
		return nil, fmt.Errorf("%w: order %s", domain.ErrUnauthorized, orderID)
	}

	msgs, err := s.repo.FindMessages(ctx, orderID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].Seq < msgs[j].Seq
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	return msgs, nil
}

func (s *Service) load(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, id)
	}
	return o, nil
}

func (s *Service) systemMessage(orderID, content string, at time.Time) domain.Message {
	return domain.Message{
		ID:        uuid.New().String(),
		OrderID:   orderID,
		System:    true,
		Content:   content,
		CreatedAt: at,
	}
}

func (s *Service) publish(subject string, o *domain.Order, actorID string) {
	if s.mq == nil {
		return
	}
	ev := domain.OrderEvent{
		Subject:    subject,
		OrderID:    o.ID,
		ClientID:   o.ClientID,
		Status:     o.Status,
		Total:      o.Total,
		ActorID:    actorID,
		OccurredAt: time.Now(),
	}
	if o.AnalystID != nil {
		ev.AnalystID = *o.AnalystID
	}
	if err := s.mq.Publish(subject, ev.Encode()); err != nil {
		// Fire and forget: delivery problems never fail the mutation.
		s.log.Error("failed to publish order event",
			zap.String("subject", subject),
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}
}
