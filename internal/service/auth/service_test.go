package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puredent/clinic-api/internal/model"
	jwtpkg "github.com/puredent/clinic-api/pkg/auth"
	"github.com/puredent/clinic-api/pkg/security"
)

func newFixture(t *testing.T) (*Service, *mockStaffRepo, *mockPatientRepo) {
	t.Helper()

	hasher := security.NewBcryptHasher(4)
	staffRepo := &mockStaffRepo{byEmail: map[string]*model.Staff{}}
	patientRepo := &mockPatientRepo{byEmail: map[string]*model.Patient{}}
	jwtSvc := jwtpkg.NewJWTService("test-secret", time.Hour)

	svc := NewService(staffRepo, patientRepo, hasher, jwtSvc)
	return svc, staffRepo, patientRepo
}

func addStaff(t *testing.T, repo *mockStaffRepo, email, password string) *model.Staff {
	t.Helper()

	hasher := security.NewBcryptHasher(4)
	hash, err := hasher.Hash(password)
	require.NoError(t, err)

	staff := &model.Staff{ID: uuid.New(), Name: "Ana Cruz", Email: email, PasswordHash: hash}
	repo.byEmail[email] = staff
	return staff
}

func addPatient(t *testing.T, repo *mockPatientRepo, email, password string) *model.Patient {
	t.Helper()

	hasher := security.NewBcryptHasher(4)
	hash, err := hasher.Hash(password)
	require.NoError(t, err)

	patient := &model.Patient{ID: uuid.New(), Name: "Juan Dela Cruz", Email: email, PasswordHash: hash}
	repo.byEmail[email] = patient
	return patient
}

func TestStaffLoginIssuesStaffToken(t *testing.T) {
	svc, staffRepo, _ := newFixture(t)
	staff := addStaff(t, staffRepo, "ana@clinic.local", "staff123")

	token, err := svc.LoginStaff(context.Background(), "ana@clinic.local", "staff123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, model.PrincipalStaff, token.Principal)
	assert.NotEmpty(t, token.AccessToken)
	assert.Greater(t, token.ExpiresIn, int64(0))

	claims, err := svc.ValidateToken(context.Background(), token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, staff.ID, claims.PrincipalID)
	assert.Equal(t, model.PrincipalStaff, claims.PrincipalType)
	assert.Equal(t, staff.Email, claims.Email)
}

func TestPatientLoginIssuesPatientToken(t *testing.T) {
	svc, _, patientRepo := newFixture(t)
	patient := addPatient(t, patientRepo, "patient1@clinic.local", "patient123")

	token, err := svc.LoginPatient(context.Background(), "patient1@clinic.local", "patient123")
	require.NoError(t, err)
	assert.Equal(t, model.PrincipalPatient, token.Principal)

	claims, err := svc.ValidateToken(context.Background(), token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, patient.ID, claims.PrincipalID)
	assert.Equal(t, model.PrincipalPatient, claims.PrincipalType)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, staffRepo, patientRepo := newFixture(t)
	addStaff(t, staffRepo, "ana@clinic.local", "staff123")
	addPatient(t, patientRepo, "patient1@clinic.local", "patient123")

	_, err := svc.LoginStaff(context.Background(), "ana@clinic.local", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.LoginPatient(context.Background(), "patient1@clinic.local", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsUnknownEmailWithSameError(t *testing.T) {
	svc, _, _ := newFixture(t)

	// A miss must be indistinguishable from a bad password.
	_, err := svc.LoginStaff(context.Background(), "nobody@clinic.local", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.LoginPatient(context.Background(), "nobody@clinic.local", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestStaffCredentialsDoNotWorkOnPatientLogin(t *testing.T) {
	svc, staffRepo, _ := newFixture(t)
	addStaff(t, staffRepo, "ana@clinic.local", "staff123")

	_, err := svc.LoginPatient(context.Background(), "ana@clinic.local", "staff123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _, _ := newFixture(t)

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	assert.Error(t, err)
}

type mockStaffRepo struct {
	byEmail map[string]*model.Staff
}

func (m *mockStaffRepo) Create(ctx context.Context, staff *model.Staff) error { return nil }
func (m *mockStaffRepo) Get(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	return nil, sql.ErrNoRows
}
func (m *mockStaffRepo) GetByEmail(ctx context.Context, email string) (*model.Staff, error) {
	if s, ok := m.byEmail[email]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}
func (m *mockStaffRepo) List(ctx context.Context) ([]*model.Staff, error)   { return nil, nil }
func (m *mockStaffRepo) Update(ctx context.Context, s *model.Staff) error   { return nil }
func (m *mockStaffRepo) Delete(ctx context.Context, id uuid.UUID) error     { return nil }
func (m *mockStaffRepo) Count(ctx context.Context) (int, error)             { return len(m.byEmail), nil }

type mockPatientRepo struct {
	byEmail map[string]*model.Patient
}

func (m *mockPatientRepo) Create(ctx context.Context, p *model.Patient) error { return nil }
func (m *mockPatientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return nil, sql.ErrNoRows
}
func (m *mockPatientRepo) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	if p, ok := m.byEmail[email]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}
func (m *mockPatientRepo) List(ctx context.Context, search string) ([]*model.Patient, error) {
	return nil, nil
}
func (m *mockPatientRepo) Update(ctx context.Context, p *model.Patient) error { return nil }
func (m *mockPatientRepo) Delete(ctx context.Context, id uuid.UUID) error     { return nil }
func (m *mockPatientRepo) Count(ctx context.Context) (int, error)             { return len(m.byEmail), nil }
