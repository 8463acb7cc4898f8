package mocks

import (
	"context"

	"github.com/cartorio-digital/siged/internal/domain"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	SaveFunc        func(ctx context.Context, user *domain.User) error
	FindByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	FindByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	FindByRoleFunc  func(ctx context.Context, role domain.UserRole) ([]domain.User, error)
}

func (m *MockUserRepository) Save(ctx context.Context, user *domain.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	if m.FindByRoleFunc != nil {
		return m.FindByRoleFunc(ctx, role)
	}
	return nil, nil
}

// MockServiceRepository is a mock implementation of ServiceRepository
type MockServiceRepository struct {
	SaveFunc     func(ctx context.Context, svc *domain.Service) error
	FindByIDFunc func(ctx context.Context, id string) (*domain.Service, error)
	FindAllFunc  func(ctx context.Context) ([]domain.Service, error)
}

func (m *MockServiceRepository) Save(ctx context.Context, svc *domain.Service) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, svc)
	}
	return nil
}

func (m *MockServiceRepository) FindByID(ctx context.Context, id string) (*domain.Service, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockServiceRepository) FindAll(ctx context.Context) ([]domain.Service, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, nil
}

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	SaveFunc         func(ctx context.Context, order *domain.Order) error
	FindByIDFunc     func(ctx context.Context, id string) (*domain.Order, error)
	ListByAccessFunc func(ctx context.Context, user *domain.User) ([]domain.Order, error)
	FindMessagesFunc func(ctx context.Context, orderID string) ([]domain.Message, error)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, order)
	}
	return nil
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockOrderRepository) ListByAccess(ctx context.Context, user *domain.User) ([]domain.Order, error) {
	if m.ListByAccessFunc != nil {
		return m.ListByAccessFunc(ctx, user)
	}
	return nil, nil
}

func (m *MockOrderRepository) FindMessages(ctx context.Context, orderID string) ([]domain.Message, error) {
	if m.FindMessagesFunc != nil {
		return m.FindMessagesFunc(ctx, orderID)
	}
	return nil, nil
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	SaveFunc             func(ctx context.Context, payment *domain.Payment) error
	FindByIDFunc         func(ctx context.Context, id string) (*domain.Payment, error)
	FindByProviderIDFunc func(ctx context.Context, providerID string) (*domain.Payment, error)
	FindByOrderIDFunc    func(ctx context.Context, orderID string) ([]domain.Payment, error)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *domain.Payment) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, payment)
	}
	return nil
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockPaymentRepository) FindByProviderID(ctx context.Context, providerID string) (*domain.Payment, error) {
	if m.FindByProviderIDFunc != nil {
		return m.FindByProviderIDFunc(ctx, providerID)
	}
	return nil, nil
}

func (m *MockPaymentRepository) FindByOrderID(ctx context.Context, orderID string) ([]domain.Payment, error) {
	if m.FindByOrderIDFunc != nil {
		return m.FindByOrderIDFunc(ctx, orderID)
	}
	return nil, nil
}
