package staff

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/puredent/clinic-api/internal/model"
	"github.com/puredent/clinic-api/internal/repository"
	"github.com/puredent/clinic-api/internal/repository/postgres"
	"github.com/puredent/clinic-api/pkg/security"
)

var ErrDuplicateEmail = errors.New("email already registered")

type Service struct {
	repo   repository.StaffRepository
	hasher security.PasswordHasher
}

func NewService(repo repository.StaffRepository, hasher security.PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

func (s *Service) Create(ctx context.Context, req *model.CreateStaffRequest) (*model.Staff, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	staff := &model.Staff{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Phone:        req.Phone,
	}
	if err := s.repo.Create(ctx, staff); err != nil {
		if errors.Is(err, postgres.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create staff: %w", err)
	}
	return staff, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	staff, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return staff, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Staff, error) {
	staff, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateStaffRequest) (*model.Staff, error) {
	staff, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}

	if req.Name != nil {
		staff.Name = *req.Name
	}
	if req.Email != nil {
		staff.Email = *req.Email
	}
	if req.Role != nil {
		staff.Role = *req.Role
	}
	if req.Phone != nil {
		staff.Phone = *req.Phone
	}

	if err := s.repo.Update(ctx, staff); err != nil {
		if errors.Is(err, postgres.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update staff: %w", err)
	}
	return staff, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete staff: %w", err)
	}
	return nil
}
