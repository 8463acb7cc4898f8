package domain

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusAwaitingQuote OrderStatus = "awaiting_quote"
	OrderStatusPending       OrderStatus = "pending"
	OrderStatusInProgress    OrderStatus = "in_progress"
	OrderStatusCompleted     OrderStatus = "completed"
	OrderStatusCanceled      OrderStatus = "canceled"
)

// Terminal reports whether no further transition leaves this status.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCanceled
}

// Cancelable reports whether a client may still abandon the order.
func (s OrderStatus) Cancelable() bool {
	return s == OrderStatusAwaitingQuote || s == OrderStatusPending
}

// Order is the central entity: one client request for one catalog service,
// tracked through the status lifecycle. Client, service and description are
// immutable after creation; "assigned" and "paid" are independent facts and
// only payment confirmation moves the order into InProgress.
type Order struct {
	ID        string   `json:"id" gorm:"primaryKey"`
	ClientID  string   `json:"client_id" gorm:"index"`
	Client    *User    `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	ServiceID string   `json:"service_id" gorm:"index"`
	Service   *Service `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	AnalystID *string  `json:"analyst_id,omitempty" gorm:"index"`
	Analyst   *User    `json:"analyst,omitempty" gorm:"foreignKey:AnalystID"`

	Status       OrderStatus `json:"status" gorm:"index"`
	Total        float64     `json:"total"`
	IsUrgent     bool        `json:"is_urgent"`
	PropertyType string      `json:"property_type,omitempty"`
	Description  string      `json:"description"`

	Files    []UploadedFile `json:"files,omitempty" gorm:"foreignKey:OrderID"`
	Messages []Message      `json:"messages,omitempty" gorm:"foreignKey:OrderID"`

	PaymentConfirmedAt *time.Time `json:"payment_confirmed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Assigned reports whether an analyst is bound to the order.
func (o *Order) Assigned() bool {
	return o.AnalystID != nil && *o.AnalystID != ""
}

// Paid reports whether payment was confirmed.
func (o *Order) Paid() bool {
	return o.PaymentConfirmedAt != nil
}

// Documents returns the order's document list: client uploads plus chat
// attachments, excluding the final report.
func (o *Order) Documents() []UploadedFile {
	var docs []UploadedFile
	for _, f := range o.Files {
		if f.Kind == FileKindDocument {
			docs = append(docs, f)
		}
	}
	return docs
}

// Report returns the final deliverable, or nil while work is unfinished.
func (o *Order) Report() *UploadedFile {
	for i := range o.Files {
		if o.Files[i].Kind == FileKindReport {
			return &o.Files[i]
		}
	}
	return nil
}
