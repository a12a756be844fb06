package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/puredent/clinic-api/internal/model"
	"github.com/puredent/clinic-api/internal/repository"
	"github.com/puredent/clinic-api/pkg/auth"
	"github.com/puredent/clinic-api/pkg/security"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	staffRepo   repository.StaffRepository
	patientRepo repository.PatientRepository
	hasher      security.PasswordHasher
	jwtSvc      auth.JWTService
}

func NewService(
	staffRepo repository.StaffRepository,
	patientRepo repository.PatientRepository,
	hasher security.PasswordHasher,
	jwtSvc auth.JWTService,
) *Service {
	return &Service{
		staffRepo:   staffRepo,
		patientRepo: patientRepo,
		hasher:      hasher,
		jwtSvc:      jwtSvc,
	}
}

// LoginStaff authenticates against the staff table. Lookup misses and
// password mismatches both come back as ErrInvalidCredentials so the
// response never reveals which half failed.
func (s *Service) LoginStaff(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	staff, err := s.staffRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, staff.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issueToken(staff.ID, model.PrincipalStaff, staff.Email)
}

// LoginPatient authenticates against the patients table.
func (s *Service) LoginPatient(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	patient, err := s.patientRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, patient.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issueToken(patient.ID, model.PrincipalPatient, patient.Email)
}

func (s *Service) ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}

func (s *Service) issueToken(id uuid.UUID, principal model.PrincipalType, email string) (*model.TokenResponse, error) {
	token, err := s.jwtSvc.GenerateToken(id, principal, email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtSvc.Expiry().Seconds()),
		Principal:   principal,
	}, nil
}
