package main

import (
	"bufio"
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// SimulatorConfig holds the simulator configuration
type SimulatorConfig struct {
	ServerURL      string
	AdminEmail     string
	AdminPassword  string
	PagSeguroToken string
	PaymentMethod  string
}

// Simulator walks a full order through the API: client signup, staff
// assignment, quote, payment and completion, while streaming the order
// events the server publishes over the websocket.
type Simulator struct {
	config *SimulatorConfig
	client *http.Client
	log    *zap.Logger

	mu           sync.Mutex
	ws           *websocket.Conn
	clientToken  string
	analystToken string
	adminToken   string
	clientID     string
	analystID    string
	orderID      string
	serviceID    string
	providerID   string
	amount       float64
}

// NewSimulator creates a new simulator instance
func NewSimulator(config *SimulatorConfig, log *zap.Logger) *Simulator {
	return &Simulator{
		config: config,
		client: &http.Client{Timeout: 15 * time.Second},
		log:    log,
	}
}

// RunScenario executes the happy path end to end.
func (s *Simulator) RunScenario() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"register client", s.RegisterClient},
		{"register analyst", s.RegisterAnalyst},
		{"login admin", s.LoginAdmin},
		{"promote analyst", s.PromoteAnalyst},
		{"pick catalog service", s.PickService},
		{"create order", s.CreateOrder},
		{"stream events", s.ConnectEventStream},
		{"assign analyst", s.AssignAnalyst},
		{"submit quote", func() error { return s.SubmitQuote(250.00) }},
		{"checkout", s.Checkout},
		{"confirm payment (webhook)", s.SimulateWebhook},
		{"exchange messages", s.ExchangeMessages},
		{"complete order", s.CompleteOrder},
	}

	for _, step := range steps {
		fmt.Printf("==> %s\n", step.name)
		if err := step.fn(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
		// Give the server a beat to publish the event before the next step.
		time.Sleep(300 * time.Millisecond)
	}
	return nil
}

// Stop closes the websocket stream.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ws != nil {
		s.ws.Close()
		s.ws = nil
	}
}

// RegisterClient creates a throwaway client account.
func (s *Simulator) RegisterClient() error {
	suffix := time.Now().UnixNano() % 1_000_000
	email := fmt.Sprintf("cliente-%d@example.com", suffix)

	var resp struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	err := s.do("POST", "/api/v1/auth/register", "", map[string]interface{}{
		"name":     "Cliente Simulado",
		"email":    email,
		"password": "senha-secreta",
		"phone":    "+5511999990000",
	}, &resp)
	if err != nil {
		return err
	}

	s.clientToken = resp.AccessToken
	s.clientID = resp.User.ID
	fmt.Printf("    client %s (%s)\n", s.clientID, email)
	return nil
}

// RegisterAnalyst creates the account that the admin will promote.
func (s *Simulator) RegisterAnalyst() error {
	suffix := time.Now().UnixNano() % 1_000_000
	email := fmt.Sprintf("analista-%d@example.com", suffix)

	var resp struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	err := s.do("POST", "/api/v1/auth/register", "", map[string]interface{}{
		"name":     "Analista Simulado",
		"email":    email,
		"password": "senha-secreta",
	}, &resp)
	if err != nil {
		return err
	}

	s.analystToken = resp.AccessToken
	s.analystID = resp.User.ID
	fmt.Printf("    analyst %s (%s)\n", s.analystID, email)
	return nil
}

// LoginAdmin authenticates with the configured admin credentials.
func (s *Simulator) LoginAdmin() error {
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	err := s.do("POST", "/api/v1/auth/login", "", map[string]interface{}{
		"email":    s.config.AdminEmail,
		"password": s.config.AdminPassword,
	}, &resp)
	if err != nil {
		return err
	}
	s.adminToken = resp.AccessToken
	return nil
}

// PromoteAnalyst flips the second account's role to analyst.
func (s *Simulator) PromoteAnalyst() error {
	path := fmt.Sprintf("/api/v1/admin/users/%s/role", s.analystID)
	return s.do("PATCH", path, s.adminToken, map[string]interface{}{
		"role": "analyst",
	}, nil)
}

// PickService grabs the first active catalog entry.
func (s *Simulator) PickService() error {
	var services []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := s.do("GET", "/api/v1/services", "", nil, &services); err != nil {
		return err
	}
	if len(services) == 0 {
		return fmt.Errorf("catalog is empty")
	}
	s.serviceID = services[0].ID
	fmt.Printf("    service %q\n", services[0].Name)
	return nil
}

// CreateOrder opens the order as the client.
func (s *Simulator) CreateOrder() error {
	var order struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	err := s.do("POST", "/api/v1/orders", s.clientToken, map[string]interface{}{
		"service_id":  s.serviceID,
		"description": "Busca de matrícula do imóvel da Rua das Flores, 123",
	}, &order)
	if err != nil {
		return err
	}
	s.orderID = order.ID
	fmt.Printf("    order %s status=%s\n", order.ID, order.Status)
	return nil
}

// ConnectEventStream opens the websocket as the client and prints every
// order event the server pushes.
func (s *Simulator) ConnectEventStream() error {
	wsURL := strings.Replace(s.config.ServerURL, "http", "ws", 1) + "/ws/updates?token=" + s.clientToken

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.ws = conn
	s.mu.Unlock()

	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var event struct {
				Subject string  `json:"subject"`
				OrderID string  `json:"order_id"`
				Status  string  `json:"status"`
				Total   float64 `json:"total"`
			}
			if err := json.Unmarshal(data, &event); err != nil {
				continue
			}
			fmt.Printf("    [ws] %s order=%s status=%s total=%.2f\n",
				event.Subject, event.OrderID, event.Status, event.Total)
		}
	}()
	return nil
}

// AssignAnalyst has the admin put the analyst on the order.
func (s *Simulator) AssignAnalyst() error {
	path := fmt.Sprintf("/api/v1/orders/%s/assign", s.orderID)
	return s.do("POST", path, s.adminToken, map[string]interface{}{
		"analyst_id": s.analystID,
	}, nil)
}

// SubmitQuote prices the order as the analyst.
func (s *Simulator) SubmitQuote(amount float64) error {
	s.amount = amount
	path := fmt.Sprintf("/api/v1/orders/%s/quote", s.orderID)
	return s.do("POST", path, s.analystToken, map[string]interface{}{
		"amount": amount,
	}, nil)
}

// Checkout creates the charge as the client.
func (s *Simulator) Checkout() error {
	var result struct {
		Payment struct {
			ID         string `json:"id"`
			ProviderID string `json:"provider_id"`
		} `json:"payment"`
		Pix *struct {
			CopyPaste string `json:"copy_paste"`
		} `json:"pix"`
	}
	path := fmt.Sprintf("/api/v1/orders/%s/checkout", s.orderID)
	err := s.do("POST", path, s.clientToken, map[string]interface{}{
		"method": s.config.PaymentMethod,
	}, &result)
	if err != nil {
		return err
	}
	s.providerID = result.Payment.ProviderID
	fmt.Printf("    payment %s provider_id=%s\n", result.Payment.ID, s.providerID)
	return nil
}

// SimulateWebhook plays the gateway: it posts a PagSeguro-shaped charge
// notification signed with the configured token. Card checkouts are
// confirmed by Stripe's own CLI in real setups, so they are skipped here.
func (s *Simulator) SimulateWebhook() error {
	if s.config.PaymentMethod == "credit_card" {
		fmt.Println("    skipping: use `stripe trigger payment_intent.succeeded` for card flows")
		return nil
	}
	if s.config.PagSeguroToken == "" {
		return fmt.Errorf("webhook signing requires -pagseguro-token matching the server config")
	}

	payload, err := json.Marshal(map[string]interface{}{
		"id":         "NOTI-" + s.orderID,
		"created_at": time.Now().Format(time.RFC3339),
		"charges": []map[string]interface{}{
			{
				"id":           s.providerID,
				"reference_id": s.orderID,
				"status":       "PAID",
				"amount": map[string]interface{}{
					"value":    int(s.amount * 100),
					"currency": "BRL",
				},
			},
		},
	})
	if err != nil {
		return err
	}

	mac := hmac.New(sha256.New, []byte(s.config.PagSeguroToken))
	mac.Write(payload)
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	req, err := http.NewRequest("POST", s.config.ServerURL+"/api/v1/payments/webhook/pagseguro", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Authenticity-Token", signature)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}

// ExchangeMessages sends one chat message from each side.
func (s *Simulator) ExchangeMessages() error {
	path := fmt.Sprintf("/api/v1/orders/%s/messages", s.orderID)
	if err := s.do("POST", path, s.analystToken, map[string]interface{}{
		"content": "Pagamento recebido, iniciando a busca no cartório.",
	}, nil); err != nil {
		return err
	}
	return s.do("POST", path, s.clientToken, map[string]interface{}{
		"content": "Obrigado! Fico no aguardo.",
	}, nil)
}

// CompleteOrder closes the order as the analyst.
func (s *Simulator) CompleteOrder() error {
	path := fmt.Sprintf("/api/v1/orders/%s/complete", s.orderID)
	return s.do("POST", path, s.analystToken, map[string]interface{}{
		"report": "Matrícula localizada. Certidão anexada ao pedido.",
	}, nil)
}

// do issues a JSON request and decodes the response into out when non-nil.
func (s *Simulator) do(method, path, token string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.config.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	s.log.Debug("Request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

func runInteractiveMode(sim *Simulator) {
	fmt.Println("\nSIGED simulator - Interactive Mode")
	fmt.Println("==================================")
	fmt.Println("Commands:")
	fmt.Println("  setup            - register accounts and create an order")
	fmt.Println("  quote <amount>   - submit a quote as the analyst")
	fmt.Println("  checkout         - create the charge as the client")
	fmt.Println("  pay              - simulate the gateway webhook")
	fmt.Println("  msg <text>       - send a chat message as the client")
	fmt.Println("  complete         - close the order as the analyst")
	fmt.Println("  quit             - exit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		var err error
		switch parts[0] {
		case "setup":
			for _, fn := range []func() error{
				sim.RegisterClient, sim.RegisterAnalyst, sim.LoginAdmin,
				sim.PromoteAnalyst, sim.PickService, sim.CreateOrder,
				sim.ConnectEventStream, sim.AssignAnalyst,
			} {
				if err = fn(); err != nil {
					break
				}
			}
		case "quote":
			amount := 250.00
			if len(parts) > 1 {
				amount, err = strconv.ParseFloat(parts[1], 64)
				if err != nil {
					fmt.Println("invalid amount")
					continue
				}
			}
			err = sim.SubmitQuote(amount)
		case "checkout":
			err = sim.Checkout()
		case "pay":
			err = sim.SimulateWebhook()
		case "msg":
			if len(parts) < 2 {
				fmt.Println("usage: msg <text>")
				continue
			}
			path := fmt.Sprintf("/api/v1/orders/%s/messages", sim.orderID)
			err = sim.do("POST", path, sim.clientToken, map[string]interface{}{
				"content": strings.Join(parts[1:], " "),
			}, nil)
		case "complete":
			err = sim.CompleteOrder()
		case "quit", "exit":
			sim.Stop()
			return
		default:
			fmt.Println("unknown command")
			continue
		}

		if err != nil {
			fmt.Printf("error: %v\n", err)
		} else {
			fmt.Println("ok")
		}
	}
}
