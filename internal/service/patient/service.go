package patient

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

var (
	ErrDuplicateEmail = errors.New("email already registered")
	ErrInvalidSex     = errors.New("sex must be Male, Female or Other")
	ErrHasRecords     = errors.New("patient has appointments or transactions; remove them first")
)

type Service struct {
	repo   repository.PatientRepository
	hasher security.PasswordHasher
}

func NewService(repo repository.PatientRepository, hasher security.PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// Register creates a patient account. Self-registration from the portal
// and staff-side creation both land here.
func (s *Service) Register(ctx context.Context, req *model.RegisterPatientRequest) (*model.Patient, error) {
	if !req.Sex.Valid() {
		return nil, ErrInvalidSex
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var age int
	if req.Age != nil {
		age = *req.Age
	}

	patient := &model.Patient{
		Name:         req.Name,
		Age:          age,
		Sex:          req.Sex,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		if errors.Is(err, postgres.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to register patient: %w", err)
	}
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return patient, nil
}

func (s *Service) List(ctx context.Context, search string) ([]*model.Patient, error) {
	patients, err := s.repo.List(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.Age != nil {
		patient.Age = *req.Age
	}
	if req.Sex != nil {
		if !req.Sex.Valid() {
			return nil, ErrInvalidSex
		}
		patient.Sex = *req.Sex
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		if errors.Is(err, postgres.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return patient, nil
}

// Delete removes the patient row. A patient still referenced by
// appointments or transactions cannot be deleted; the foreign keys
// guarantee it and the error is mapped for the caller.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return ErrHasRecords
		}
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}
