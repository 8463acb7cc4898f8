package domain

import (
	"encoding/json"
	"time"
)

// Queue subjects for the outbound order events. The notification dispatcher
// and the websocket hub subscribe to these; order logic only publishes.
const (
	EventOrderCreated     = "order.created"
	EventQuoteReady       = "order.quote_ready"
	EventAnalystAssigned  = "order.analyst_assigned"
	EventPaymentConfirmed = "order.payment_confirmed"
	EventOrderCompleted   = "order.completed"
	EventOrderCanceled    = "order.canceled"
	EventMessageSent      = "order.message_sent"
)

// OrderEvent is the payload published on every order subject.
type OrderEvent struct {
	Subject    string      `json:"subject"`
	OrderID    string      `json:"order_id"`
	ClientID   string      `json:"client_id"`
	AnalystID  string      `json:"analyst_id,omitempty"`
	Status     OrderStatus `json:"status"`
	Total      float64     `json:"total,omitempty"`
	ActorID    string      `json:"actor_id,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// Encode marshals the event for the message queue.
func (e OrderEvent) Encode() []byte {
	b, _ := json.Marshal(e)
	return b
}
