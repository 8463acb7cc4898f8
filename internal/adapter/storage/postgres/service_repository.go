package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cartorio-digital/siged/internal/domain"
	"github.com/cartorio-digital/siged/internal/ports"
)

type ServiceRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewServiceRepository(db *gorm.DB, log *zap.Logger) ports.ServiceRepository {
	return &ServiceRepository{
		db:  db,
		log: log,
	}
}

func (r *ServiceRepository) Save(ctx context.Context, svc *domain.Service) error {
	return r.db.WithContext(ctx).Save(svc).Error
}

func (r *ServiceRepository) FindByID(ctx context.Context, id string) (*domain.Service, error) {
	var svc domain.Service
	err := r.db.WithContext(ctx).First(&svc, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &svc, nil
}

func (r *ServiceRepository) FindAll(ctx context.Context) ([]domain.Service, error) {
	var svcs []domain.Service
	err := r.db.WithContext(ctx).Order("name asc").Find(&svcs).Error
	return svcs, err
}
