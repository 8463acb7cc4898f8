package domain

import (
	"time"
)

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// PaymentMethod represents the payment method type
type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodPix        PaymentMethod = "pix"
	PaymentMethodBoleto     PaymentMethod = "boleto"
)

// PaymentProvider represents the payment provider
type PaymentProvider string

const (
	PaymentProviderStripe    PaymentProvider = "stripe"
	PaymentProviderPagSeguro PaymentProvider = "pagseguro"
)

// Payment links an order to a charge at a payment provider. ProviderID is
// the external reference the webhook reports back.
type Payment struct {
	ID            string          `json:"id" gorm:"primaryKey"`
	OrderID       string          `json:"order_id" gorm:"index"`
	UserID        string          `json:"user_id" gorm:"index"`
	Provider      PaymentProvider `json:"provider"`
	ProviderID    string          `json:"provider_id" gorm:"index"`
	Method        PaymentMethod   `json:"method"`
	Status        PaymentStatus   `json:"status"`
	Amount        float64         `json:"amount"`
	Currency      string          `json:"currency"`
	FailureReason string          `json:"failure_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}

// PaymentIntent represents a payment intent for client-side confirmation
type PaymentIntent struct {
	ID           string  `json:"id"`
	ClientSecret string  `json:"client_secret,omitempty"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Status       string  `json:"status"`
}

// PixPayment represents PIX payment details
type PixPayment struct {
	QRCode    string    `json:"qr_code"`
	CopyPaste string    `json:"copy_paste"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BoletoPayment represents Boleto payment details
type BoletoPayment struct {
	Barcode       string    `json:"barcode"`
	BoletoURL     string    `json:"boleto_url"`
	DigitableLine string    `json:"digitable_line"`
	ExpiresAt     time.Time `json:"expires_at"`
}
