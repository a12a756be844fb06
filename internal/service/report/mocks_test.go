package report

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/puredent/clinic-api/internal/model"
)

var errDown = errors.New("table unavailable")

type mockReportRepo struct {
	completed []model.ServiceCount
	revenue   []model.ServiceRevenue
	statuses  []model.StatusCount

	next      *model.UpcomingAppointment
	confirmed int
	recent    []*model.AppointmentDetail

	nextErr      error
	confirmedErr error
	revenueErr   error
}

func (m *mockReportRepo) CompletedCountsByService(ctx context.Context) ([]model.ServiceCount, error) {
	return m.completed, nil
}

func (m *mockReportRepo) RevenueByService(ctx context.Context) ([]model.ServiceRevenue, error) {
	if m.revenueErr != nil {
		return nil, m.revenueErr
	}
	return m.revenue, nil
}

func (m *mockReportRepo) StatusCounts(ctx context.Context) ([]model.StatusCount, error) {
	return m.statuses, nil
}

func (m *mockReportRepo) NextAppointment(ctx context.Context, patientID uuid.UUID) (*model.UpcomingAppointment, error) {
	if m.nextErr != nil {
		return nil, m.nextErr
	}
	return m.next, nil
}

func (m *mockReportRepo) ConfirmedCount(ctx context.Context, patientID uuid.UUID) (int, error) {
	if m.confirmedErr != nil {
		return 0, m.confirmedErr
	}
	return m.confirmed, nil
}

func (m *mockReportRepo) RecentCompleted(ctx context.Context, patientID uuid.UUID, limit int) ([]*model.AppointmentDetail, error) {
	if limit < len(m.recent) {
		return m.recent[:limit], nil
	}
	return m.recent, nil
}

// countRepo satisfies the Count method shared by the entity repositories;
// every other method is an unused stub.
type countRepo struct {
	n   int
	err error
}

func (c *countRepo) Count(ctx context.Context) (int, error) { return c.n, c.err }

type mockStaffRepo struct{ countRepo }

func (m *mockStaffRepo) Create(ctx context.Context, s *model.Staff) error { return nil }
func (m *mockStaffRepo) Get(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	return nil, sql.ErrNoRows
}
func (m *mockStaffRepo) GetByEmail(ctx context.Context, email string) (*model.Staff, error) {
	return nil, sql.ErrNoRows
}
func (m *mockStaffRepo) List(ctx context.Context) ([]*model.Staff, error) { return nil, nil }
func (m *mockStaffRepo) Update(ctx context.Context, s *model.Staff) error { return nil }
func (m *mockStaffRepo) Delete(ctx context.Context, id uuid.UUID) error   { return nil }

type mockPatientRepo struct{ countRepo }

func (m *mockPatientRepo) Create(ctx context.Context, p *model.Patient) error { return nil }
func (m *mockPatientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return nil, sql.ErrNoRows
}
func (m *mockPatientRepo) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	return nil, sql.ErrNoRows
}
func (m *mockPatientRepo) List(ctx context.Context, search string) ([]*model.Patient, error) {
	return nil, nil
}
func (m *mockPatientRepo) Update(ctx context.Context, p *model.Patient) error { return nil }
func (m *mockPatientRepo) Delete(ctx context.Context, id uuid.UUID) error     { return nil }

type mockServiceRepo struct{ countRepo }

func (m *mockServiceRepo) Create(ctx context.Context, s *model.Service) error { return nil }
func (m *mockServiceRepo) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	return nil, sql.ErrNoRows
}
func (m *mockServiceRepo) GetByCode(ctx context.Context, code string) (*model.Service, error) {
	return nil, sql.ErrNoRows
}
func (m *mockServiceRepo) List(ctx context.Context, activeOnly bool, search string) ([]*model.Service, error) {
	return nil, nil
}
func (m *mockServiceRepo) Update(ctx context.Context, s *model.Service) error { return nil }
func (m *mockServiceRepo) Delete(ctx context.Context, id uuid.UUID) error     { return nil }

type mockAppointmentRepo struct{ countRepo }

func (m *mockAppointmentRepo) Create(ctx context.Context, apt *model.Appointment) error { return nil }
func (m *mockAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return nil, sql.ErrNoRows
}
func (m *mockAppointmentRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentDetail, error) {
	return nil, nil
}
func (m *mockAppointmentRepo) SetStatus(ctx context.Context, apt *model.Appointment, eventType string) error {
	return nil
}
func (m *mockAppointmentRepo) CompleteAndBill(ctx context.Context, apt *model.Appointment) (*model.Transaction, error) {
	return nil, nil
}
func (m *mockAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type mockTransactionRepo struct{ countRepo }

func (m *mockTransactionRepo) Get(ctx context.Context, id uuid.UUID) (*model.TransactionDetail, error) {
	return nil, sql.ErrNoRows
}
func (m *mockTransactionRepo) List(ctx context.Context) ([]*model.TransactionDetail, error) {
	return nil, nil
}
func (m *mockTransactionRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.TransactionDetail, error) {
	return nil, nil
}
func (m *mockTransactionRepo) ExistsForAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	return false, nil
}
