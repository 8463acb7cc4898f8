package ports

import (
	"context"

	"github.com/cartorio-digital/siged/internal/domain"
)

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
}

type ServiceRepository interface {
	Save(ctx context.Context, svc *domain.Service) error
	FindByID(ctx context.Context, id string) (*domain.Service, error)
	FindAll(ctx context.Context) ([]domain.Service, error)
}

// OrderRepository persists orders together with their message thread and
// file metadata. Save is atomic: order fields, new messages and new files
// land in one transaction or not at all.
type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// ListByAccess returns the orders the user may see: all of them for an
	// admin, assigned ones for an analyst, own ones for a client.
	ListByAccess(ctx context.Context, user *domain.User) ([]domain.Order, error)
	FindMessages(ctx context.Context, orderID string) ([]domain.Message, error)
}

// PaymentRepository handles payment persistence
type PaymentRepository interface {
	Save(ctx context.Context, payment *domain.Payment) error
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	FindByProviderID(ctx context.Context, providerID string) (*domain.Payment, error)
	FindByOrderID(ctx context.Context, orderID string) ([]domain.Payment, error)
}
