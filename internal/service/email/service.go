package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	"github.com/cartorio-digital/siged/internal/domain"
)

// Provider defines the interface for email providers
type Provider interface {
	Send(ctx context.Context, to, subject, body string, isHTML bool) error
}

// Config holds email service configuration
type Config struct {
	// Provider type: "sendgrid" or "smtp"
	Provider string

	// From email address
	FromEmail string
	FromName  string

	// SendGrid configuration
	SendGridAPIKey string

	// SMTP configuration (for Mailhog or other SMTP servers)
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseTLS   bool

	// BaseURL for links in emails
	BaseURL string
}

// DefaultConfig returns a default configuration for development (Mailhog)
func DefaultConfig() *Config {
	return &Config{
		Provider:   "smtp",
		FromEmail:  "nao-responda@siged.com.br",
		FromName:   "SIGED",
		SMTPHost:   "localhost",
		SMTPPort:   1025, // Mailhog default port
		SMTPUseTLS: false,
		BaseURL:    "http://localhost:3000",
	}
}

// Service implements the EmailService interface
type Service struct {
	config    *Config
	provider  Provider
	templates map[string]*template.Template
	log       *zap.Logger
}

// NewService creates a new email service
func NewService(config *Config, log *zap.Logger) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Service{
		config:    config,
		templates: make(map[string]*template.Template),
		log:       log,
	}

	switch config.Provider {
	case "sendgrid":
		if config.SendGridAPIKey == "" {
			return nil, fmt.Errorf("SendGrid API key is required")
		}
		s.provider = NewSendGridProvider(config.SendGridAPIKey, config.FromEmail, config.FromName)
	case "smtp":
		s.provider = NewSMTPProvider(
			config.SMTPHost,
			config.SMTPPort,
			config.SMTPUsername,
			config.SMTPPassword,
			config.FromEmail,
			config.FromName,
			config.SMTPUseTLS,
		)
	default:
		return nil, fmt.Errorf("unknown email provider: %s", config.Provider)
	}

	s.loadTemplates()

	return s, nil
}

// loadTemplates loads all email templates
func (s *Service) loadTemplates() {
	s.templates["welcome"] = template.Must(template.New("welcome").Parse(welcomeTemplate))
	s.templates["quote_ready"] = template.Must(template.New("quote_ready").Parse(quoteReadyTemplate))
	s.templates["payment_confirmed"] = template.Must(template.New("payment_confirmed").Parse(paymentConfirmedTemplate))
	s.templates["order_completed"] = template.Must(template.New("order_completed").Parse(orderCompletedTemplate))
	s.templates["order_canceled"] = template.Must(template.New("order_canceled").Parse(orderCanceledTemplate))
	s.templates["new_message"] = template.Must(template.New("new_message").Parse(newMessageTemplate))
	s.templates["password_reset"] = template.Must(template.New("password_reset").Parse(passwordResetTemplate))
}

// Send sends a generic email
func (s *Service) Send(ctx context.Context, to, subject, body string) error {
	s.log.Info("Sending email",
		zap.String("to", to),
		zap.String("subject", subject),
	)

	if err := s.provider.Send(ctx, to, subject, body, false); err != nil {
		s.log.Error("Failed to send email",
			zap.String("to", to),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// SendHTML sends an HTML email
func (s *Service) SendHTML(ctx context.Context, to, subject, htmlBody string) error {
	s.log.Info("Sending HTML email",
		zap.String("to", to),
		zap.String("subject", subject),
	)

	if err := s.provider.Send(ctx, to, subject, htmlBody, true); err != nil {
		s.log.Error("Failed to send HTML email",
			zap.String("to", to),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send HTML email: %w", err)
	}

	return nil
}

// SendTemplate sends an email using a template
func (s *Service) SendTemplate(ctx context.Context, to, templateName string, data map[string]interface{}) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("template not found: %s", templateName)
	}

	if data == nil {
		data = make(map[string]interface{})
	}
	data["BaseURL"] = s.config.BaseURL

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject, ok := data["Subject"].(string)
	if !ok {
		subject = "Notificação do SIGED"
	}

	return s.SendHTML(ctx, to, subject, buf.String())
}

// SendWelcome sends a welcome email to a new user
func (s *Service) SendWelcome(ctx context.Context, user *domain.User) error {
	data := map[string]interface{}{
		"Subject":  "Bem-vindo ao SIGED!",
		"UserName": user.Name,
		"Email":    user.Email,
	}

	return s.SendTemplate(ctx, user.Email, "welcome", data)
}

// SendQuoteReady notifies the client that their order received a quote
func (s *Service) SendQuoteReady(ctx context.Context, user *domain.User, order *domain.Order) error {
	data := map[string]interface{}{
		"Subject":     "Orçamento disponível para seu pedido",
		"UserName":    user.Name,
		"OrderID":     order.ID,
		"ServiceName": order.Service.Name,
		"Total":       fmt.Sprintf("%.2f", order.Total),
	}

	return s.SendTemplate(ctx, user.Email, "quote_ready", data)
}

// SendPaymentConfirmed notifies the client that payment settled and work began
func (s *Service) SendPaymentConfirmed(ctx context.Context, user *domain.User, order *domain.Order) error {
	data := map[string]interface{}{
		"Subject":     "Pagamento confirmado",
		"UserName":    user.Name,
		"OrderID":     order.ID,
		"ServiceName": order.Service.Name,
		"Total":       fmt.Sprintf("%.2f", order.Total),
	}

	return s.SendTemplate(ctx, user.Email, "payment_confirmed", data)
}

// SendOrderCompleted notifies the client that the final report is available
func (s *Service) SendOrderCompleted(ctx context.Context, user *domain.User, order *domain.Order) error {
	data := map[string]interface{}{
		"Subject":     "Seu pedido foi concluído",
		"UserName":    user.Name,
		"OrderID":     order.ID,
		"ServiceName": order.Service.Name,
	}

	return s.SendTemplate(ctx, user.Email, "order_completed", data)
}

// SendOrderCanceled notifies the client that the order was canceled
func (s *Service) SendOrderCanceled(ctx context.Context, user *domain.User, order *domain.Order) error {
	data := map[string]interface{}{
		"Subject":     "Pedido cancelado",
		"UserName":    user.Name,
		"OrderID":     order.ID,
		"ServiceName": order.Service.Name,
	}

	return s.SendTemplate(ctx, user.Email, "order_canceled", data)
}

// SendNewMessage notifies a participant about a new chat message on an order
func (s *Service) SendNewMessage(ctx context.Context, user *domain.User, order *domain.Order, senderName string) error {
	data := map[string]interface{}{
		"Subject":    "Nova mensagem no seu pedido",
		"UserName":   user.Name,
		"OrderID":    order.ID,
		"SenderName": senderName,
	}

	return s.SendTemplate(ctx, user.Email, "new_message", data)
}

// SendPasswordReset sends a password reset email
func (s *Service) SendPasswordReset(ctx context.Context, user *domain.User, resetToken string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.config.BaseURL, resetToken)

	data := map[string]interface{}{
		"Subject":  "Redefinição de senha",
		"UserName": user.Name,
		"ResetURL": resetURL,
	}

	return s.SendTemplate(ctx, user.Email, "password_reset", data)
}
