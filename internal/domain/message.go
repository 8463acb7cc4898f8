package domain

import (
	"time"
)

// Message is one entry of an order's chat thread. Immutable once created.
// System messages mark workflow events (quote set, payment confirmed) and
// carry an empty SenderID.
type Message struct {
	ID         string        `json:"id" gorm:"primaryKey"`
	OrderID    string        `json:"order_id" gorm:"index"`
	SenderID   string        `json:"sender_id,omitempty" gorm:"index"`
	SenderName string        `json:"sender_name,omitempty"`
	System     bool          `json:"system"`
	Content    string        `json:"content"`
	Attachment *UploadedFile `json:"attachment,omitempty" gorm:"foreignKey:MessageID"`
	// Seq breaks CreatedAt ties so the thread keeps insertion order.
	Seq       int64     `json:"-" gorm:"autoIncrement"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}
