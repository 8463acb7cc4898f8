package mocks

import (
	"context"

	"github.com/cartorio-digital/siged/internal/domain"
	"github.com/cartorio-digital/siged/internal/ports"
)

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	LoginFunc         func(ctx context.Context, email, password string) (string, string, error)
	RegisterFunc      func(ctx context.Context, user *domain.User) error
	RefreshTokenFunc  func(ctx context.Context, token string) (string, error)
	ValidateTokenFunc func(ctx context.Context, token string) (*domain.User, error)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return "", "", nil
}

func (m *MockAuthService) Register(ctx context.Context, user *domain.User) error {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, user)
	}
	return nil
}

func (m *MockAuthService) RefreshToken(ctx context.Context, token string) (string, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, token)
	}
	return "", nil
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*domain.User, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, token)
	}
	return nil, nil
}

// MockOrderService is a mock implementation of OrderService
type MockOrderService struct {
	CreateOrderFunc    func(ctx context.Context, actor *domain.User, in ports.CreateOrderInput) (*domain.Order, error)
	GetOrderFunc       func(ctx context.Context, actor *domain.User, id string) (*domain.Order, error)
	ListOrdersFunc     func(ctx context.Context, actor *domain.User) ([]domain.Order, error)
	SubmitQuoteFunc    func(ctx context.Context, actor *domain.User, orderID string, amount float64) (*domain.Order, error)
	AssignAnalystFunc  func(ctx context.Context, actor *domain.User, orderID, analystID string) (*domain.Order, error)
	CancelOrderFunc    func(ctx context.Context, actor *domain.User, orderID string) (*domain.Order, error)
	CompleteOrderFunc  func(ctx context.Context, actor *domain.User, orderID string, report *domain.UploadedFile) (*domain.Order, error)
	SendMessageFunc    func(ctx context.Context, actor *domain.User, orderID, content string, attachment *domain.UploadedFile) (*domain.Message, error)
	ListMessagesFunc   func(ctx context.Context, actor *domain.User, orderID string) ([]domain.Message, error)
	ConfirmPaymentFunc func(ctx context.Context, orderID string) error
}

func (m *MockOrderService) CreateOrder(ctx context.Context, actor *domain.User, in ports.CreateOrderInput) (*domain.Order, error) {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, actor, in)
	}
	return nil, nil
}

func (m *MockOrderService) GetOrder(ctx context.Context, actor *domain.User, id string) (*domain.Order, error) {
	if m.GetOrderFunc != nil {
		return m.GetOrderFunc(ctx, actor, id)
	}
	return nil, nil
}

func (m *MockOrderService) ListOrders(ctx context.Context, actor *domain.User) ([]domain.Order, error) {
	if m.ListOrdersFunc != nil {
		return m.ListOrdersFunc(ctx, actor)
	}
	return nil, nil
}

func (m *MockOrderService) SubmitQuote(ctx context.Context, actor *domain.User, orderID string, amount float64) (*domain.Order, error) {
	if m.SubmitQuoteFunc != nil {
		return m.SubmitQuoteFunc(ctx, actor, orderID, amount)
	}
	return nil, nil
}

func (m *MockOrderService) AssignAnalyst(ctx context.Context, actor *domain.User, orderID, analystID string) (*domain.Order, error) {
	if m.AssignAnalystFunc != nil {
		return m.AssignAnalystFunc(ctx, actor, orderID, analystID)
	}
	return nil, nil
}

func (m *MockOrderService) CancelOrder(ctx context.Context, actor *domain.User, orderID string) (*domain.Order, error) {
	if m.CancelOrderFunc != nil {
		return m.CancelOrderFunc(ctx, actor, orderID)
	}
	return nil, nil
}

func (m *MockOrderService) CompleteOrder(ctx context.Context, actor *domain.User, orderID string, report *domain.UploadedFile) (*domain.Order, error) {
	if m.CompleteOrderFunc != nil {
		return m.CompleteOrderFunc(ctx, actor, orderID, report)
	}
	return nil, nil
}

func (m *MockOrderService) SendMessage(ctx context.Context, actor *domain.User, orderID, content string, attachment *domain.UploadedFile) (*domain.Message, error) {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, actor, orderID, content, attachment)
	}
	return nil, nil
}

func (m *MockOrderService) ListMessages(ctx context.Context, actor *domain.User, orderID string) ([]domain.Message, error) {
	if m.ListMessagesFunc != nil {
		return m.ListMessagesFunc(ctx, actor, orderID)
	}
	return nil, nil
}

func (m *MockOrderService) ConfirmPayment(ctx context.Context, orderID string) error {
	if m.ConfirmPaymentFunc != nil {
		return m.ConfirmPaymentFunc(ctx, orderID)
	}
	return nil
}

// MockCatalogService is a mock implementation of CatalogService
type MockCatalogService struct {
	GetServiceFunc   func(ctx context.Context, id string) (*domain.Service, error)
	ListServicesFunc func(ctx context.Context) ([]domain.Service, error)
}

func (m *MockCatalogService) GetService(ctx context.Context, id string) (*domain.Service, error) {
	if m.GetServiceFunc != nil {
		return m.GetServiceFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCatalogService) ListServices(ctx context.Context) ([]domain.Service, error) {
	if m.ListServicesFunc != nil {
		return m.ListServicesFunc(ctx)
	}
	return nil, nil
}

// MockPaymentService is a mock implementation of PaymentService
type MockPaymentService struct {
	CreateIntentFunc     func(ctx context.Context, actor *domain.User, orderID string, method domain.PaymentMethod) (*ports.CheckoutResult, error)
	GetOrderPaymentsFunc func(ctx context.Context, orderID string) ([]domain.Payment, error)
	HandleWebhookFunc    func(ctx context.Context, provider string, payload []byte, signature string) error
}

func (m *MockPaymentService) CreateIntent(ctx context.Context, actor *domain.User, orderID string, method domain.PaymentMethod) (*ports.CheckoutResult, error) {
	if m.CreateIntentFunc != nil {
		return m.CreateIntentFunc(ctx, actor, orderID, method)
	}
	return nil, nil
}

func (m *MockPaymentService) GetOrderPayments(ctx context.Context, orderID string) ([]domain.Payment, error) {
	if m.GetOrderPaymentsFunc != nil {
		return m.GetOrderPaymentsFunc(ctx, orderID)
	}
	return nil, nil
}

func (m *MockPaymentService) HandleWebhook(ctx context.Context, provider string, payload []byte, signature string) error {
	if m.HandleWebhookFunc != nil {
		return m.HandleWebhookFunc(ctx, provider, payload, signature)
	}
	return nil
}

// MockStorageService is a mock implementation of StorageService
type MockStorageService struct {
	RequestUploadLocationFunc func(ctx context.Context, fileName, mimeType string, size int64) (*domain.UploadLocation, error)
}

func (m *MockStorageService) RequestUploadLocation(ctx context.Context, fileName, mimeType string, size int64) (*domain.UploadLocation, error) {
	if m.RequestUploadLocationFunc != nil {
		return m.RequestUploadLocationFunc(ctx, fileName, mimeType, size)
	}
	return nil, nil
}
