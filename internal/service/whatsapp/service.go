package whatsapp

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"go.uber.org/zap"

	"github.com/cartorio-digital/siged/internal/domain"
)

// Service implements WhatsApp messaging
type Service struct {
	provider  Provider
	templates map[string]*template.Template
	log       *zap.Logger
	fromPhone string
}

// Provider defines the WhatsApp provider interface
type Provider interface {
	SendMessage(ctx context.Context, to, body string) error
	SendTemplate(ctx context.Context, to, templateName string, params map[string]string) error
}

// Config holds WhatsApp service configuration
type Config struct {
	Provider   string // twilio
	AccountSID string // Twilio Account SID
	AuthToken  string // Twilio Auth Token
	FromPhone  string // Your WhatsApp number (with country code, e.g., +5511999999999)
}

// NewService creates a new WhatsApp service
func NewService(cfg Config, log *zap.Logger) (*Service, error) {
	var provider Provider
	var err error

	switch cfg.Provider {
	case "twilio":
		provider, err = NewTwilioProvider(cfg.AccountSID, cfg.AuthToken, cfg.FromPhone)
	default:
		return nil, fmt.Errorf("unknown WhatsApp provider: %s", cfg.Provider)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create WhatsApp provider: %w", err)
	}

	s := &Service{
		provider:  provider,
		templates: make(map[string]*template.Template),
		log:       log,
		fromPhone: cfg.FromPhone,
	}

	s.loadTemplates()

	return s, nil
}

// loadTemplates loads message templates
func (s *Service) loadTemplates() {
	templates := map[string]string{
		"welcome": `Olá {{.Name}}! 👋

Bem-vindo ao SIGED! Sua conta foi criada com sucesso.

Agora você pode:
• Solicitar buscas e certidões de registro
• Acompanhar seus pedidos em tempo real
• Conversar com o analista responsável
• Pagar por cartão, PIX ou boleto

Acesse o painel para começar! 📄`,

		"quote_ready": `💰 Orçamento Disponível!

Pedido: {{.OrderID}}
Serviço: {{.ServiceName}}
Valor: R$ {{.Total}}

Efetue o pagamento pelo painel para iniciarmos o trabalho.`,

		"payment_confirmed": `✅ Pagamento Confirmado!

Pedido: {{.OrderID}}
Serviço: {{.ServiceName}}
Valor: R$ {{.Total}}

O trabalho no seu pedido já foi iniciado. Obrigado! 📄`,

		"order_completed": `🎉 Pedido Concluído!

Pedido: {{.OrderID}}
Serviço: {{.ServiceName}}

O laudo final já está disponível para download no painel.

Obrigado por usar o SIGED!`,

		"order_canceled": `❌ Pedido Cancelado

O pedido {{.OrderID}} ({{.ServiceName}}) foi cancelado.

Nenhuma cobrança adicional será feita. Caso não tenha solicitado o cancelamento, entre em contato.`,

		"new_message": `💬 Nova Mensagem

{{.SenderName}} enviou uma mensagem no pedido {{.OrderID}}.

Acesse o painel para responder.`,

		"verification_code": `🔐 Código de Verificação SIGED

Seu código é: {{.Code}}

Válido por {{.ValidMinutes}} minutos.

Não compartilhe este código com ninguém.`,
	}

	for name, content := range templates {
		tmpl, err := template.New(name).Parse(content)
		if err != nil {
			s.log.Error("Failed to parse template",
				zap.String("template", name),
				zap.Error(err),
			)
			continue
		}
		s.templates[name] = tmpl
	}
}

// SendMessage sends a plain text message
func (s *Service) SendMessage(ctx context.Context, to, message string) error {
	if err := s.provider.SendMessage(ctx, to, message); err != nil {
		s.log.Error("Failed to send WhatsApp message",
			zap.String("to", to),
			zap.Error(err),
		)
		return err
	}

	s.log.Info("WhatsApp message sent",
		zap.String("to", to),
	)

	return nil
}

// SendTemplate sends a templated message
func (s *Service) SendTemplate(ctx context.Context, to, templateName string, data map[string]interface{}) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("template not found: %s", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.SendMessage(ctx, to, buf.String())
}

// SendWelcome sends a welcome message to a new user
func (s *Service) SendWelcome(ctx context.Context, user *domain.User) error {
	if user.Phone == "" {
		return nil // Skip if no phone
	}

	return s.SendTemplate(ctx, user.Phone, "welcome", map[string]interface{}{
		"Name": user.Name,
	})
}

// SendQuoteReady notifies the client that their order received a quote
func (s *Service) SendQuoteReady(ctx context.Context, user *domain.User, order *domain.Order) error {
	if user.Phone == "" {
		return nil
	}

	return s.SendTemplate(ctx, user.Phone, "quote_ready", map[string]interface{}{
		"OrderID":     order.ID,
		"ServiceName": order.Service.Name,
		"Total":       fmt.Sprintf("%.2f", order.Total),
	})
}

// SendPaymentConfirmed notifies the client that payment settled
func (s *Service) SendPaymentConfirmed(ctx context.Context, user *domain.User, order *domain.Order) error {
	if user.Phone == "" {
		return nil
	}

	return s.SendTemplate(ctx, user.Phone, "payment_confirmed", map[string]interface{}{
		"OrderID":     order.ID,
		"ServiceName": order.Service.Name,
		"Total":       fmt.Sprintf("%.2f", order.Total),
	})
}

// SendOrderCompleted notifies the client that the final report is available
func (s *Service) SendOrderCompleted(ctx context.Context, user *domain.User, order *domain.Order) error {
	if user.Phone == "" {
		return nil
	}

	return s.SendTemplate(ctx, user.Phone, "order_completed", map[string]interface{}{
		"OrderID":     order.ID,
		"ServiceName": order.Service.Name,
	})
}

// SendOrderCanceled notifies the client that the order was canceled
func (s *Service) SendOrderCanceled(ctx context.Context, user *domain.User, order *domain.Order) error {
	if user.Phone == "" {
		return nil
	}

	return s.SendTemplate(ctx, user.Phone, "order_canceled", map[string]interface{}{
		"OrderID":     order.ID,
		"ServiceName": order.Service.Name,
	})
}

// SendNewMessage notifies a participant about a new chat message on an order
func (s *Service) SendNewMessage(ctx context.Context, user *domain.User, order *domain.Order, senderName string) error {
	if user.Phone == "" {
		return nil
	}

	return s.SendTemplate(ctx, user.Phone, "new_message", map[string]interface{}{
		"OrderID":    order.ID,
		"SenderName": senderName,
	})
}

// SendVerificationCode sends a verification code
func (s *Service) SendVerificationCode(ctx context.Context, phone, code string, validMinutes int) error {
	return s.SendTemplate(ctx, phone, "verification_code", map[string]interface{}{
		"Code":         code,
		"ValidMinutes": validMinutes,
	})
}
