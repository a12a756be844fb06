package appointment

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/puredent/clinic-api/internal/model"
	"github.com/puredent/clinic-api/internal/repository"
)

var _ repository.AppointmentRepository = (*mockAppointmentRepo)(nil)

// mockAppointmentRepo backs the service tests with an in-memory store
// that mirrors the repository's transactional billing behaviour.
type mockAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
	transactions map[uuid.UUID]*model.Transaction // keyed by appointment id
	prices       map[uuid.UUID]decimal.Decimal    // service id -> price
	events       []string
	createErr    error
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{
		appointments: make(map[uuid.UUID]*model.Appointment),
		transactions: make(map[uuid.UUID]*model.Transaction),
		prices:       make(map[uuid.UUID]decimal.Decimal),
	}
}

func (m *mockAppointmentRepo) Create(ctx context.Context, apt *model.Appointment) error {
	if m.createErr != nil {
		return m.createErr
	}
	apt.ID = uuid.New()
	apt.Status = model.AppointmentStatusPending
	apt.CreatedAt = time.Now()
	cp := *apt
	m.appointments[apt.ID] = &cp
	m.events = append(m.events, model.EventAppointmentCreated)
	return nil
}

func (m *mockAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := m.appointments[id]
	if !ok {
		return nil, errors.New("appointment not found")
	}
	cp := *apt
	return &cp, nil
}

func (m *mockAppointmentRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentDetail, error) {
	var out []*model.AppointmentDetail
	for _, apt := range m.appointments {
		if filters != nil && filters.Status != nil && apt.Status != *filters.Status {
			continue
		}
		out = append(out, &model.AppointmentDetail{Appointment: *apt})
	}
	return out, nil
}

func (m *mockAppointmentRepo) SetStatus(ctx context.Context, apt *model.Appointment, eventType string) error {
	stored, ok := m.appointments[apt.ID]
	if !ok {
		return errors.New("appointment not found")
	}
	stored.Status = apt.Status
	stored.Notes = apt.Notes
	m.events = append(m.events, eventType)
	return nil
}

func (m *mockAppointmentRepo) CompleteAndBill(ctx context.Context, apt *model.Appointment) (*model.Transaction, error) {
	stored, ok := m.appointments[apt.ID]
	if !ok {
		return nil, errors.New("appointment not found")
	}
	stored.Status = model.AppointmentStatusCompleted
	stored.Notes = apt.Notes
	apt.Status = model.AppointmentStatusCompleted
	m.events = append(m.events, model.EventAppointmentCompleted)

	if _, billed := m.transactions[apt.ID]; billed {
		return nil, nil
	}
	price, ok := m.prices[apt.ServiceID]
	if !ok {
		return nil, errors.New("service not found")
	}
	txn := &model.Transaction{
		ID:            uuid.New(),
		AppointmentID: apt.ID,
		PatientID:     apt.PatientID,
		ServiceID:     apt.ServiceID,
		Amount:        price,
		PaidAt:        time.Now(),
	}
	m.transactions[apt.ID] = txn
	return txn, nil
}

func (m *mockAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.appointments[id]; !ok {
		return errors.New("appointment not found")
	}
	delete(m.appointments, id)
	return nil
}

func (m *mockAppointmentRepo) Count(ctx context.Context) (int, error) {
	return len(m.appointments), nil
}

var _ repository.PatientRepository = (*mockPatientRepo)(nil)

type mockPatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[uuid.UUID]*model.Patient)}
}

func (m *mockPatientRepo) Create(ctx context.Context, p *model.Patient) error {
	p.ID = uuid.New()
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, errors.New("patient not found")
	}
	return p, nil
}

func (m *mockPatientRepo) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	for _, p := range m.patients {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockPatientRepo) List(ctx context.Context, search string) ([]*model.Patient, error) {
	var out []*model.Patient
	for _, p := range m.patients {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPatientRepo) Update(ctx context.Context, p *model.Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return errors.New("patient not found")
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.patients, id)
	return nil
}

func (m *mockPatientRepo) Count(ctx context.Context) (int, error) {
	return len(m.patients), nil
}

var _ repository.ServiceRepository = (*mockServiceRepo)(nil)

type mockServiceRepo struct {
	services map[uuid.UUID]*model.Service
}

func newMockServiceRepo() *mockServiceRepo {
	return &mockServiceRepo{services: make(map[uuid.UUID]*model.Service)}
}

func (m *mockServiceRepo) Create(ctx context.Context, s *model.Service) error {
	s.ID = uuid.New()
	m.services[s.ID] = s
	return nil
}

func (m *mockServiceRepo) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	s, ok := m.services[id]
	if !ok {
		return nil, errors.New("service not found")
	}
	return s, nil
}

func (m *mockServiceRepo) GetByCode(ctx context.Context, code string) (*model.Service, error) {
	for _, s := range m.services {
		if s.Code == code {
			return s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockServiceRepo) List(ctx context.Context, activeOnly bool, search string) ([]*model.Service, error) {
	var out []*model.Service
	for _, s := range m.services {
		if activeOnly && !s.Active {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *mockServiceRepo) Update(ctx context.Context, s *model.Service) error {
	if _, ok := m.services[s.ID]; !ok {
		return errors.New("service not found")
	}
	m.services[s.ID] = s
	return nil
}

func (m *mockServiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.services, id)
	return nil
}

func (m *mockServiceRepo) Count(ctx context.Context) (int, error) {
	return len(m.services), nil
}

type mockEmail struct {
	confirmations []string // recipient addresses
	receipts      []string
	err           error
}

func (m *mockEmail) SendBookingConfirmed(ctx context.Context, to, patientName, serviceName, date, timeOfDay string) error {
	if m.err != nil {
		return m.err
	}
	m.confirmations = append(m.confirmations, to)
	return nil
}

func (m *mockEmail) SendReceipt(ctx context.Context, to, subject, htmlBody string) error {
	if m.err != nil {
		return m.err
	}
	m.receipts = append(m.receipts, to)
	return nil
}
