package notification

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/cartorio-digital/siged/internal/adapter/queue"
	"github.com/cartorio-digital/siged/internal/domain"
	"github.com/cartorio-digital/siged/internal/observability/telemetry"
	"github.com/cartorio-digital/siged/internal/ports"
)

// EmailNotifier is the slice of the email service the dispatcher needs.
type EmailNotifier interface {
	SendQuoteReady(ctx context.Context, user *domain.User, order *domain.Order) error
	SendPaymentConfirmed(ctx context.Context, user *domain.User, order *domain.Order) error
	SendOrderCompleted(ctx context.Context, user *domain.User, order *domain.Order) error
	SendOrderCanceled(ctx context.Context, user *domain.User, order *domain.Order) error
	SendNewMessage(ctx context.Context, user *domain.User, order *domain.Order, senderName string) error
}

// WhatsAppNotifier mirrors EmailNotifier for the WhatsApp channel.
type WhatsAppNotifier interface {
	SendQuoteReady(ctx context.Context, user *domain.User, order *domain.Order) error
	SendPaymentConfirmed(ctx context.Context, user *domain.User, order *domain.Order) error
	SendOrderCompleted(ctx context.Context, user *domain.User, order *domain.Order) error
	SendOrderCanceled(ctx context.Context, user *domain.User, order *domain.Order) error
	SendNewMessage(ctx context.Context, user *domain.User, order *domain.Order, senderName string) error
}

// Dispatcher consumes order events from the queue and fans them out to the
// channels each recipient opted into. Notification failures are logged and
// never propagate back to order logic.
type Dispatcher struct {
	mq       queue.MessageQueue
	orders   ports.OrderRepository
	users    ports.UserRepository
	email    EmailNotifier
	whatsapp WhatsAppNotifier
	log      *zap.Logger
}

func NewDispatcher(mq queue.MessageQueue, orders ports.OrderRepository, users ports.UserRepository, email EmailNotifier, whatsapp WhatsAppNotifier, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		mq:       mq,
		orders:   orders,
		users:    users,
		email:    email,
		whatsapp: whatsapp,
		log:      log,
	}
}

// Start subscribes to the order subjects. Handlers run on the queue's
// delivery goroutines.
func (d *Dispatcher) Start() error {
	subjects := []string{
		domain.EventQuoteReady,
		domain.EventPaymentConfirmed,
		domain.EventOrderCompleted,
		domain.EventOrderCanceled,
		domain.EventMessageSent,
	}

	for _, subject := range subjects {
		if err := d.mq.Subscribe(subject, d.handle); err != nil {
			return err
		}
	}

	d.log.Info("Notification dispatcher started",
		zap.Int("subjects", len(subjects)),
	)
	return nil
}

func (d *Dispatcher) handle(data []byte) error {
	var event domain.OrderEvent
	if err := json.Unmarshal(data, &event); err != nil {
		d.log.Error("Failed to decode order event", zap.Error(err))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	order, err := d.orders.FindByID(ctx, event.OrderID)
	if err != nil || order == nil {
		d.log.Warn("Order not found for notification",
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
		return nil
	}

	for _, recipient := range d.recipients(ctx, event, order) {
		d.notify(ctx, event, order, recipient)
	}

	return nil
}

// recipients resolves who gets told about the event. Lifecycle events go to
// the client; a chat message goes to the participant who did not send it.
func (d *Dispatcher) recipients(ctx context.Context, event domain.OrderEvent, order *domain.Order) []*domain.User {
	if event.Subject != domain.EventMessageSent {
		client, err := d.users.FindByID(ctx, order.ClientID)
		if err != nil || client == nil {
			return nil
		}
		return []*domain.User{client}
	}

	var out []*domain.User
	if event.ActorID != order.ClientID {
		if client, err := d.users.FindByID(ctx, order.ClientID); err == nil && client != nil {
			out = append(out, client)
		}
	}
	if order.AnalystID != nil && event.ActorID != *order.AnalystID {
		if analyst, err := d.users.FindByID(ctx, *order.AnalystID); err == nil && analyst != nil {
			out = append(out, analyst)
		}
	}
	return out
}

func (d *Dispatcher) notify(ctx context.Context, event domain.OrderEvent, order *domain.Order, user *domain.User) {
	senderName := ""
	if event.Subject == domain.EventMessageSent && event.ActorID != "" {
		if sender, err := d.users.FindByID(ctx, event.ActorID); err == nil && sender != nil {
			senderName = sender.Name
		}
	}

	if user.NotifyByEmail && d.email != nil {
		d.record("email", d.sendEmail(ctx, event, order, user, senderName))
	}
	if user.NotifyByWhatsApp && d.whatsapp != nil && user.Phone != "" {
		d.record("whatsapp", d.sendWhatsApp(ctx, event, order, user, senderName))
	}
}

func (d *Dispatcher) sendEmail(ctx context.Context, event domain.OrderEvent, order *domain.Order, user *domain.User, senderName string) error {
	switch event.Subject {
	case domain.EventQuoteReady:
		return d.email.SendQuoteReady(ctx, user, order)
	case domain.EventPaymentConfirmed:
		return d.email.SendPaymentConfirmed(ctx, user, order)
	case domain.EventOrderCompleted:
		return d.email.SendOrderCompleted(ctx, user, order)
	case domain.EventOrderCanceled:
		return d.email.SendOrderCanceled(ctx, user, order)
	case domain.EventMessageSent:
		return d.email.SendNewMessage(ctx, user, order, senderName)
	}
	return nil
}

func (d *Dispatcher) sendWhatsApp(ctx context.Context, event domain.OrderEvent, order *domain.Order, user *domain.User, senderName string) error {
	switch event.Subject {
	case domain.EventQuoteReady:
		return d.whatsapp.SendQuoteReady(ctx, user, order)
	case domain.EventPaymentConfirmed:
		return d.whatsapp.SendPaymentConfirmed(ctx, user, order)
	case domain.EventOrderCompleted:
		return d.whatsapp.SendOrderCompleted(ctx, user, order)
	case domain.EventOrderCanceled:
		return d.whatsapp.SendOrderCanceled(ctx, user, order)
	case domain.EventMessageSent:
		return d.whatsapp.SendNewMessage(ctx, user, order, senderName)
	}
	return nil
}

func (d *Dispatcher) record(channel string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		d.log.Error("Failed to deliver notification",
			zap.String("channel", channel),
			zap.Error(err),
		)
	}
	telemetry.NotificationsSent.WithLabelValues(channel, status).Inc()
}
