package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cartorio-digital/siged/internal/adapter/http/fiber/handlers"
	"github.com/cartorio-digital/siged/internal/adapter/http/fiber/middleware"
	"github.com/cartorio-digital/siged/internal/adapter/storage/postgres"
	"github.com/cartorio-digital/siged/internal/domain"
	"github.com/cartorio-digital/siged/internal/mocks"
	"github.com/cartorio-digital/siged/internal/ports"
	"github.com/cartorio-digital/siged/internal/service/auth"
	"github.com/cartorio-digital/siged/internal/service/catalog"
	"github.com/cartorio-digital/siged/internal/service/order"
)

type testAPI struct {
	app      *fiber.App
	orders   ports.OrderService
	userRepo ports.UserRepository
}

// setupTestApp wires the HTTP layer against the containerized database, with
// an in-process queue and no external payment gateways.
func setupTestApp(t *testing.T) *testAPI {
	t.Helper()
	env := SetupTestEnvironment(t)
	ctx := context.Background()

	userRepo := postgres.NewUserRepository(env.DB, env.Logger)
	serviceRepo := postgres.NewServiceRepository(env.DB, env.Logger)
	orderRepo := postgres.NewOrderRepository(env.DB, env.Logger)

	if err := catalog.Seed(ctx, serviceRepo, env.Logger); err != nil {
		t.Fatalf("seed: %v", err)
	}

	jwtService := auth.NewJWTService("integration-secret", 15*time.Minute, 24*time.Hour, env.Cache, env.Logger)
	authService := auth.NewService(userRepo, jwtService, env.Logger)
	catalogService := catalog.NewService(serviceRepo, nil, time.Minute, env.Logger)
	orderService := order.NewService(orderRepo, userRepo, serviceRepo, mocks.NewMockMessageQueue(), env.Logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(env.Logger),
	})
	app.Use(recover.New())

	v1 := app.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(authService, nil, env.Logger)
	v1.Post("/auth/login", authHandler.Login)
	v1.Post("/auth/register", authHandler.Register)
	v1.Post("/auth/refresh", authHandler.RefreshToken)

	catalogHandler := handlers.NewCatalogHandler(catalogService, env.Logger)
	v1.Get("/services", catalogHandler.List)
	v1.Get("/services/:id", catalogHandler.Get)

	protected := v1.Group("", middleware.AuthRequired(authService))
	protected.Get("/auth/me", authHandler.Me)

	orderHandler := handlers.NewOrderHandler(orderService, env.Logger)
	protected.Post("/orders", orderHandler.Create)
	protected.Get("/orders", orderHandler.List)
	protected.Get("/orders/:id", orderHandler.Get)
	protected.Post("/orders/:id/quote", middleware.StaffRequired(), orderHandler.SubmitQuote)
	protected.Post("/orders/:id/assign", middleware.RoleRequired(domain.UserRoleAdmin), orderHandler.AssignAnalyst)
	protected.Post("/orders/:id/cancel", orderHandler.Cancel)
	protected.Post("/orders/:id/complete", middleware.StaffRequired(), orderHandler.Complete)
	protected.Post("/orders/:id/messages", orderHandler.SendMessage)
	protected.Get("/orders/:id/messages", orderHandler.ListMessages)

	return &testAPI{app: app, orders: orderService, userRepo: userRepo}
}

func (a *testAPI) request(t *testing.T, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.app.Test(req, 10000)
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	return resp, data
}

// registerUser creates an account over the API and returns its token and id.
func (a *testAPI) registerUser(t *testing.T, name string) (string, string) {
	t.Helper()
	email := fmt.Sprintf("%s-%s@example.com", name, uuid.New().String()[:8])

	resp, body := a.request(t, "POST", "/api/v1/auth/register", "", map[string]interface{}{
		"name":     name,
		"email":    email,
		"password": "senha-secreta",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register returned %d: %s", resp.StatusCode, body)
	}

	var out struct {
		Tokens struct {
			AccessToken string `json:"accessToken"`
		} `json:"tokens"`
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	return out.Tokens.AccessToken, out.User.ID
}

// provisionStaff writes a staff account straight to the repository, the way
// an operator would, and logs it in over the API.
func (a *testAPI) provisionStaff(t *testing.T, role domain.UserRole) (string, string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("senha-staff"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	id := uuid.New().String()
	user := &domain.User{
		ID:        id,
		Name:      string(role) + " " + id[:8],
		Email:     id[:8] + "@siged.com.br",
		Password:  string(hashed),
		Role:      role,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := a.userRepo.Save(context.Background(), user); err != nil {
		t.Fatal(err)
	}

	resp, body := a.request(t, "POST", "/api/v1/auth/login", "", map[string]interface{}{
		"email":    user.Email,
		"password": "senha-staff",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("staff login returned %d: %s", resp.StatusCode, body)
	}

	var out struct {
		Tokens struct {
			AccessToken string `json:"accessToken"`
		} `json:"tokens"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	return out.Tokens.AccessToken, id
}

func TestAPI_AuthFlow(t *testing.T) {
	api := setupTestApp(t)

	token, _ := api.registerUser(t, "maria")

	resp, body := api.request(t, "GET", "/api/v1/auth/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me returned %d: %s", resp.StatusCode, body)
	}

	var me domain.User
	if err := json.Unmarshal(body, &me); err != nil {
		t.Fatal(err)
	}
	if me.Role != domain.UserRoleClient {
		t.Errorf("expected client role, got %s", me.Role)
	}
	if me.Password != "" {
		t.Error("password hash must never leave the API")
	}

	resp, _ = api.request(t, "GET", "/api/v1/auth/me", "token-invalido", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad token, got %d", resp.StatusCode)
	}

	resp, _ = api.request(t, "GET", "/api/v1/auth/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}
}

func TestAPI_CatalogIsPublic(t *testing.T) {
	api := setupTestApp(t)

	resp, body := api.request(t, "GET", "/api/v1/services", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("services returned %d: %s", resp.StatusCode, body)
	}

	var services []domain.Service
	if err := json.Unmarshal(body, &services); err != nil {
		t.Fatal(err)
	}
	if len(services) == 0 {
		t.Fatal("expected seeded services")
	}

	resp, _ = api.request(t, "GET", "/api/v1/services/"+services[0].ID, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("service detail returned %d", resp.StatusCode)
	}

	resp, _ = api.request(t, "GET", "/api/v1/services/nao-existe", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown service, got %d", resp.StatusCode)
	}
}

func TestAPI_OrderLifecycle(t *testing.T) {
	api := setupTestApp(t)

	clientToken, _ := api.registerUser(t, "cliente")
	adminToken, _ := api.provisionStaff(t, domain.UserRoleAdmin)
	analystToken, analystID := api.provisionStaff(t, domain.UserRoleAnalyst)

	// Pick a quote-based service so the full status machine runs.
	_, body := api.request(t, "GET", "/api/v1/services", "", nil)
	var services []domain.Service
	if err := json.Unmarshal(body, &services); err != nil {
		t.Fatal(err)
	}
	var serviceID string
	for _, svc := range services {
		if svc.QuoteBased() {
			serviceID = svc.ID
			break
		}
	}
	if serviceID == "" {
		t.Fatal("expected a quote-based service in the catalog")
	}

	resp, body := api.request(t, "POST", "/api/v1/orders", clientToken, map[string]interface{}{
		"service_id":  serviceID,
		"description": "Busca de matrícula do imóvel da Rua das Flores, 123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create order returned %d: %s", resp.StatusCode, body)
	}
	var created domain.Order
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatal(err)
	}
	if created.Status != domain.OrderStatusAwaitingQuote {
		t.Fatalf("expected awaiting_quote, got %s", created.Status)
	}

	// Client cannot quote; unassigned analyst can, per the staff gate.
	resp, _ = api.request(t, "POST", "/api/v1/orders/"+created.ID+"/quote", clientToken, map[string]interface{}{"amount": 100})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("client quote: expected 403, got %d", resp.StatusCode)
	}

	// Admin assigns the analyst.
	resp, body = api.request(t, "POST", "/api/v1/orders/"+created.ID+"/assign", adminToken, map[string]interface{}{"analyst_id": analystID})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("assign returned %d: %s", resp.StatusCode, body)
	}

	// Analyst may not assign.
	resp, _ = api.request(t, "POST", "/api/v1/orders/"+created.ID+"/assign", analystToken, map[string]interface{}{"analyst_id": analystID})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("analyst assign: expected 403, got %d", resp.StatusCode)
	}

	// Analyst quotes.
	resp, body = api.request(t, "POST", "/api/v1/orders/"+created.ID+"/quote", analystToken, map[string]interface{}{"amount": 350})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("quote returned %d: %s", resp.StatusCode, body)
	}
	var quoted domain.Order
	if err := json.Unmarshal(body, &quoted); err != nil {
		t.Fatal(err)
	}
	if quoted.Status != domain.OrderStatusPending || quoted.Total != 350 {
		t.Fatalf("expected pending/350, got %s/%.2f", quoted.Status, quoted.Total)
	}

	// Quoting again conflicts.
	resp, _ = api.request(t, "POST", "/api/v1/orders/"+created.ID+"/quote", analystToken, map[string]interface{}{"amount": 400})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("double quote: expected 409, got %d", resp.StatusCode)
	}

	// Completing before payment conflicts.
	resp, _ = api.request(t, "POST", "/api/v1/orders/"+created.ID+"/complete", analystToken, map[string]interface{}{"report": "cedo demais"})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("early complete: expected 409, got %d", resp.StatusCode)
	}

	// The gateway webhook lands as a direct service call here.
	if err := api.orders.ConfirmPayment(context.Background(), created.ID); err != nil {
		t.Fatalf("confirm payment: %v", err)
	}

	// Messaging between the participants.
	resp, _ = api.request(t, "POST", "/api/v1/orders/"+created.ID+"/messages", analystToken, map[string]interface{}{"content": "Iniciando a busca."})
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("analyst message: expected 201, got %d", resp.StatusCode)
	}
	resp, _ = api.request(t, "POST", "/api/v1/orders/"+created.ID+"/messages", clientToken, map[string]interface{}{"content": "Obrigado!"})
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("client message: expected 201, got %d", resp.StatusCode)
	}

	resp, body = api.request(t, "GET", "/api/v1/orders/"+created.ID+"/messages", clientToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list messages returned %d", resp.StatusCode)
	}
	var msgs []domain.Message
	if err := json.Unmarshal(body, &msgs); err != nil {
		t.Fatal(err)
	}
	// System messages from creation, quote and payment plus the two above.
	if len(msgs) < 5 {
		t.Errorf("expected at least 5 messages in the thread, got %d", len(msgs))
	}

	// Analyst completes with the report.
	resp, body = api.request(t, "POST", "/api/v1/orders/"+created.ID+"/complete", analystToken, map[string]interface{}{
		"report": map[string]interface{}{"name": "certidao.pdf", "size": 2048, "mime_type": "application/pdf"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete returned %d: %s", resp.StatusCode, body)
	}
	var done domain.Order
	if err := json.Unmarshal(body, &done); err != nil {
		t.Fatal(err)
	}
	if done.Status != domain.OrderStatusCompleted {
		t.Errorf("expected completed, got %s", done.Status)
	}

	// Canceling a completed order conflicts.
	resp, _ = api.request(t, "POST", "/api/v1/orders/"+created.ID+"/cancel", clientToken, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("cancel after completion: expected 409, got %d", resp.StatusCode)
	}
}

func TestAPI_OrderAccessIsolation(t *testing.T) {
	api := setupTestApp(t)

	ownerToken, _ := api.registerUser(t, "dona")
	strangerToken, _ := api.registerUser(t, "curioso")

	_, body := api.request(t, "GET", "/api/v1/services", "", nil)
	var services []domain.Service
	if err := json.Unmarshal(body, &services); err != nil {
		t.Fatal(err)
	}

	resp, body := api.request(t, "POST", "/api/v1/orders", ownerToken, map[string]interface{}{
		"service_id": services[0].ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create returned %d: %s", resp.StatusCode, body)
	}
	var created domain.Order
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatal(err)
	}

	resp, _ = api.request(t, "GET", "/api/v1/orders/"+created.ID, strangerToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("stranger read: expected 403, got %d", resp.StatusCode)
	}

	resp, _ = api.request(t, "POST", "/api/v1/orders/"+created.ID+"/cancel", strangerToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("stranger cancel: expected 403, got %d", resp.StatusCode)
	}

	resp, body = api.request(t, "GET", "/api/v1/orders", strangerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list returned %d", resp.StatusCode)
	}
	var listed []domain.Order
	if err := json.Unmarshal(body, &listed); err != nil {
		t.Fatal(err)
	}
	for _, o := range listed {
		if o.ID == created.ID {
			t.Error("stranger's listing must not contain the order")
		}
	}
}
