package postgres

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cartorio-digital/siged/internal/domain"
	"github.com/cartorio-digital/siged/internal/observability/telemetry"
	"github.com/cartorio-digital/siged/internal/ports"
)

type OrderRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewOrderRepository(db *gorm.DB, log *zap.Logger) ports.OrderRepository {
	return &OrderRepository{
		db:  db,
		log: log,
	}
}

// Save writes the order row plus any new messages and files in a single
// transaction. Messages and files are immutable, so existing rows are left
// untouched.
func (r *OrderRepository) Save(ctx context.Context, o *domain.Order) error {
	start := time.Now()
	defer func() {
		telemetry.DatabaseLatency.Observe(time.Since(start).Seconds())
	}()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(o).Error; err != nil {
			return err
		}
		for i := range o.Messages {
			msg := &o.Messages[i]
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Omit(clause.Associations).Create(msg).Error; err != nil {
				return err
			}
		}
		for i := range o.Files {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&o.Files[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Analyst").
		Preload("Service").
		Preload("Files").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc, seq asc")
		}).
		Preload("Messages.Attachment").
		First(&o, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListByAccess(ctx context.Context, user *domain.User) ([]domain.Order, error) {
	q := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Analyst").
		Preload("Service").
		Order("created_at desc")

	switch user.Role {
	case domain.UserRoleAdmin:
		// admins see everything
	case domain.UserRoleAnalyst:
		q = q.Where("analyst_id = ?", user.ID)
	default:
		q = q.Where("client_id = ?", user.ID)
	}

	var orders []domain.Order
	err := q.Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) FindMessages(ctx context.Context, orderID string) ([]domain.Message, error) {
	var msgs []domain.Message
	err := r.db.WithContext(ctx).
		Preload("Attachment").
		Where("order_id = ?", orderID).
		Order("created_at asc, seq asc").
		Find(&msgs).Error
	return msgs, err
}
