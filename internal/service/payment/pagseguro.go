package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cartorio-digital/siged/internal/domain"
)

const (
	pagSeguroSandboxURL    = "https://sandbox.api.pagseguro.com"
	pagSeguroProductionURL = "https://api.pagseguro.com"
)

// PagSeguroProvider implements the Provider interface for PagSeguro. It
// carries the PIX and Boleto methods that Stripe does not cover in Brazil.
type PagSeguroProvider struct {
	email     string
	token     string
	baseURL   string
	isSandbox bool
	client    *http.Client
	log       *zap.Logger
}

func NewPagSeguroProvider(email, token string, sandbox bool, log *zap.Logger) *PagSeguroProvider {
	baseURL := pagSeguroProductionURL
	if sandbox {
		baseURL = pagSeguroSandboxURL
	}

	return &PagSeguroProvider{
		email:     email,
		token:     token,
		baseURL:   baseURL,
		isSandbox: sandbox,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// Name returns the provider name
func (p *PagSeguroProvider) Name() string {
	return "pagseguro"
}

// CreatePaymentIntent creates a checkout session with a redirect URL
func (p *PagSeguroProvider) CreatePaymentIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*domain.PaymentIntent, error) {
	reqBody := map[string]interface{}{
		"reference_id": metadata["payment_id"],
		"items": []map[string]interface{}{
			{
				"reference_id": metadata["order_id"],
				"name":         "Serviço cartorário",
				"quantity":     1,
				"unit_amount":  int(amount * 100),
			},
		},
	}
	if url := metadata["webhook_url"]; url != "" {
		reqBody["notification_urls"] = []string{url}
	}

	resp, err := p.doRequest(ctx, "POST", "/checkouts", reqBody)
	if err != nil {
		return nil, err
	}

	var result struct {
		ID    string `json:"id"`
		Links []struct {
			Rel  string `json:"rel"`
			Href string `json:"href"`
		} `json:"links"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	var paymentURL string
	for _, link := range result.Links {
		if link.Rel == "PAY" {
			paymentURL = link.Href
			break
		}
	}

	return &domain.PaymentIntent{
		ID:           result.ID,
		ClientSecret: paymentURL, // redirect URL
		Amount:       amount,
		Currency:     currency,
		Status:       "created",
	}, nil
}

// CreatePixPayment creates a PIX charge
func (p *PagSeguroProvider) CreatePixPayment(ctx context.Context, amount float64, description string, expiresIn time.Duration) (*domain.PixPayment, string, error) {
	expirationDate := time.Now().Add(expiresIn).Format(time.RFC3339)

	reqBody := map[string]interface{}{
		"reference_id": fmt.Sprintf("pix_%d", time.Now().UnixNano()),
		"description":  description,
		"amount": map[string]interface{}{
			"value":    int(amount * 100),
			"currency": "BRL",
		},
		"payment_method": map[string]interface{}{
			"type": "PIX",
			"pix": map[string]interface{}{
				"expiration_date": expirationDate,
			},
		},
	}

	resp, err := p.doRequest(ctx, "POST", "/charges", reqBody)
	if err != nil {
		return nil, "", err
	}

	var result struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		PaymentMethod struct {
			Pix struct {
				QRCodes []struct {
					ID        string    `json:"id"`
					Text      string    `json:"text"`
					ExpiresAt time.Time `json:"expiration_date"`
					Links     []struct {
						Rel  string `json:"rel"`
						Href string `json:"href"`
					} `json:"links"`
				} `json:"qr_codes"`
			} `json:"pix"`
		} `json:"payment_method"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, "", fmt.Errorf("failed to parse response: %w", err)
	}

	pixPayment := &domain.PixPayment{
		ExpiresAt: time.Now().Add(expiresIn),
	}
	if len(result.PaymentMethod.Pix.QRCodes) > 0 {
		qrCode := result.PaymentMethod.Pix.QRCodes[0]
		pixPayment.CopyPaste = qrCode.Text
		pixPayment.ExpiresAt = qrCode.ExpiresAt
		for _, link := range qrCode.Links {
			if link.Rel == "QRCODE.PNG" {
				pixPayment.QRCode = link.Href
			}
		}
	}

	return pixPayment, result.ID, nil
}

// CreateBoletoPayment creates a Boleto charge
func (p *PagSeguroProvider) CreateBoletoPayment(ctx context.Context, amount float64, payerEmail string, expiresAt time.Time) (*domain.BoletoPayment, string, error) {
	reqBody := map[string]interface{}{
		"reference_id": fmt.Sprintf("boleto_%d", time.Now().UnixNano()),
		"description":  "Serviço cartorário - SIGED",
		"amount": map[string]interface{}{
			"value":    int(amount * 100),
			"currency": "BRL",
		},
		"payment_method": map[string]interface{}{
			"type": "BOLETO",
			"boleto": map[string]interface{}{
				"due_date": expiresAt.Format("2006-01-02"),
				"instruction_lines": map[string]string{
					"line_1": "Pagamento referente a serviço de registro de imóveis",
					"line_2": "SIGED - Sistema de Gestão de Documentos Cartorários",
				},
				"holder": map[string]interface{}{
					"email": payerEmail,
				},
			},
		},
	}

	resp, err := p.doRequest(ctx, "POST", "/charges", reqBody)
	if err != nil {
		return nil, "", err
	}

	var result struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		PaymentMethod struct {
			Boleto struct {
				ID               string `json:"id"`
				Barcode          string `json:"barcode"`
				FormattedBarcode string `json:"formatted_barcode"`
				DueDate          string `json:"due_date"`
				Links            []struct {
					Rel  string `json:"rel"`
					Href string `json:"href"`
				} `json:"links"`
			} `json:"boleto"`
		} `json:"payment_method"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, "", fmt.Errorf("failed to parse response: %w", err)
	}

	boleto := result.PaymentMethod.Boleto
	boletoPayment := &domain.BoletoPayment{
		Barcode:       boleto.Barcode,
		DigitableLine: boleto.FormattedBarcode,
		ExpiresAt:     expiresAt,
	}
	for _, link := range boleto.Links {
		if link.Rel == "PDF" {
			boletoPayment.BoletoURL = link.Href
		}
	}

	return boletoPayment, result.ID, nil
}

// ValidateWebhook validates PagSeguro webhook signature (HMAC-SHA256)
func (p *PagSeguroProvider) ValidateWebhook(payload []byte, signature string) error {
	mac := hmac.New(sha256.New, []byte(p.token))
	mac.Write(payload)
	expectedSig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expectedSig)) {
		return fmt.Errorf("invalid webhook signature")
	}
	return nil
}

// ParseWebhook parses PagSeguro webhook payload
func (p *PagSeguroProvider) ParseWebhook(payload []byte) (*WebhookEvent, error) {
	var event struct {
		ID        string `json:"id"`
		CreatedAt string `json:"created_at"`
		Charges   []struct {
			ID          string `json:"id"`
			ReferenceID string `json:"reference_id"`
			Status      string `json:"status"`
			Amount      struct {
				Value    int    `json:"value"`
				Currency string `json:"currency"`
			} `json:"amount"`
		} `json:"charges"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook: %w", err)
	}

	webhookEvent := &WebhookEvent{
		Type: "payment.updated",
	}
	if len(event.Charges) > 0 {
		charge := event.Charges[0]
		webhookEvent.ProviderID = charge.ID
		webhookEvent.Status = p.mapStatus(charge.Status)
		webhookEvent.Amount = float64(charge.Amount.Value) / 100
	}

	return webhookEvent, nil
}

// mapStatus maps PagSeguro status to domain status
func (p *PagSeguroProvider) mapStatus(status string) domain.PaymentStatus {
	switch status {
	case "PAID", "AUTHORIZED":
		return domain.PaymentStatusCompleted
	case "DECLINED", "CANCELED":
		return domain.PaymentStatusFailed
	default:
		return domain.PaymentStatusPending
	}
}

// doRequest performs an HTTP request to PagSeguro API
func (p *PagSeguroProvider) doRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("x-api-version", "4.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		p.log.Warn("PagSeguro API error",
			zap.Int("status", resp.StatusCode),
			zap.String("path", path),
		)
		return nil, fmt.Errorf("pagseguro API error (%d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
