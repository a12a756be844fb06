package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/puredent/clinic-api/internal/model"
)

type StaffRepository interface {
	Create(ctx context.Context, staff *model.Staff) error
	Get(ctx context.Context, id uuid.UUID) (*model.Staff, error)
	GetByEmail(ctx context.Context, email string) (*model.Staff, error)
	List(ctx context.Context) ([]*model.Staff, error)
	Update(ctx context.Context, staff *model.Staff) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	GetByEmail(ctx context.Context, email string) (*model.Patient, error)
	List(ctx context.Context, search string) ([]*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

type ServiceRepository interface {
	Create(ctx context.Context, service *model.Service) error
	Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
	GetByCode(ctx context.Context, code string) (*model.Service, error)
	List(ctx context.Context, activeOnly bool, search string) ([]*model.Service, error)
	Update(ctx context.Context, service *model.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

// AppointmentRepository persists the lifecycle. Writes that must be
// atomic with their side effects (billing row, outbox event) run inside
// a single database transaction.
type AppointmentRepository interface {
	// Create inserts the appointment and its created event atomically.
	Create(ctx context.Context, apt *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentDetail, error)
	// SetStatus updates status/notes and stages the matching lifecycle
	// event in the same transaction.
	SetStatus(ctx context.Context, apt *model.Appointment, eventType string) error
	// CompleteAndBill flips the appointment to Completed and, if no
	// billing row exists for it yet, inserts one at the service's
	// current price. Status update, existence check, insert and event
	// all share one transaction. Returns the transaction created, or
	// nil if the appointment was already billed.
	CompleteAndBill(ctx context.Context, apt *model.Appointment) (*model.Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

type TransactionRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.TransactionDetail, error)
	List(ctx context.Context) ([]*model.TransactionDetail, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.TransactionDetail, error)
	ExistsForAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error)
	Count(ctx context.Context) (int, error)
}

type OutboxRepository interface {
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkPublished(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
}

// ReportRepository runs the grouped aggregates behind the staff console
// and patient dashboard.
type ReportRepository interface {
	CompletedCountsByService(ctx context.Context) ([]model.ServiceCount, error)
	RevenueByService(ctx context.Context) ([]model.ServiceRevenue, error)
	StatusCounts(ctx context.Context) ([]model.StatusCount, error)
	NextAppointment(ctx context.Context, patientID uuid.UUID) (*model.UpcomingAppointment, error)
	ConfirmedCount(ctx context.Context, patientID uuid.UUID) (int, error)
	RecentCompleted(ctx context.Context, patientID uuid.UUID, limit int) ([]*model.AppointmentDetail, error)
}
