package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/puredent/clinic-api/internal/model"
	"github.com/puredent/clinic-api/internal/repository"
	"github.com/puredent/clinic-api/internal/repository/postgres"
)

var (
	ErrDuplicateCode = errors.New("service code already exists")
	ErrInUse         = errors.New("service is referenced by appointments or transactions")
)

const (
	cacheKeyAll    = "services:all"
	cacheKeyActive = "services:active"
)

// Service manages the procedure catalog. The booking screen lists it on
// every visit, so list reads go through a short-TTL in-memory cache that
// every write invalidates.
type Service struct {
	repo  repository.ServiceRepository
	cache *gocache.Cache
}

func NewService(repo repository.ServiceRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(30*time.Second, time.Minute),
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateServiceRequest) (*model.Service, error) {
	svc := &model.Service{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		if errors.Is(err, postgres.ErrDuplicateCode) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	s.invalidate()
	return svc, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	svc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return svc, nil
}

// List returns the catalog, optionally narrowed to active services or a
// name/code search. Only the unfiltered variants are cached; searches go
// straight to the database.
func (s *Service) List(ctx context.Context, activeOnly bool, search string) ([]*model.Service, error) {
	if search != "" {
		services, err := s.repo.List(ctx, activeOnly, search)
		if err != nil {
			return nil, fmt.Errorf("failed to search services: %w", err)
		}
		return services, nil
	}

	key := cacheKeyAll
	if activeOnly {
		key = cacheKeyActive
	}
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*model.Service), nil
	}

	services, err := s.repo.List(ctx, activeOnly, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	s.cache.Set(key, services, gocache.DefaultExpiration)
	return services, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateServiceRequest) (*model.Service, error) {
	svc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	s.invalidate()
	return svc, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return fmt.Errorf("failed to delete service: %w", err)
	}
	s.invalidate()
	return nil
}

func (s *Service) invalidate() {
	s.cache.Delete(cacheKeyAll)
	s.cache.Delete(cacheKeyActive)
}
