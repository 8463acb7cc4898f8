package catalog

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/cartorio-digital/siged/internal/domain"
	"github.com/cartorio-digital/siged/internal/ports"
)

const listCacheKey = "catalog:services"

// Service serves the immutable catalog of registry services. The full list
// is small and read on every order form, so it is cached.
type Service struct {
	repo     ports.ServiceRepository
	cache    ports.Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewService(repo ports.ServiceRepository, cache ports.Cache, cacheTTL time.Duration, log *zap.Logger) ports.CatalogService {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func (s *Service) GetService(ctx context.Context, id string) (*domain.Service, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) ListServices(ctx context.Context) ([]domain.Service, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, listCacheKey); err == nil && raw != "" {
			var svcs []domain.Service
			if err := json.Unmarshal([]byte(raw), &svcs); err == nil {
				return svcs, nil
			}
		}
	}

	svcs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(svcs); err == nil {
			if err := s.cache.Set(ctx, listCacheKey, string(raw), s.cacheTTL); err != nil {
				s.log.Warn("failed to cache catalog", zap.Error(err))
			}
		}
	}
	return svcs, nil
}
