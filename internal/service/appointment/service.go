package appointment

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/puredent/clinic-api/internal/email"
	"github.com/puredent/clinic-api/internal/model"
	"github.com/puredent/clinic-api/internal/repository"
	"github.com/puredent/clinic-api/pkg/logger"
)

var (
	ErrInvalidTime       = errors.New("time must be HH:MM in 24-hour format")
	ErrInvalidDate       = errors.New("date must be YYYY-MM-DD")
	ErrUnknownStatus     = errors.New("unknown appointment status")
	ErrInvalidTransition = errors.New("illegal status transition")
)

// timePattern accepts exactly 00:00 through 23:59.
var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

const dateLayout = "2006-01-02"

type Service struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
	serviceRepo repository.ServiceRepository
	emailSvc    email.Service
	logger      *logger.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	serviceRepo repository.ServiceRepository,
	emailSvc email.Service,
	logger *logger.Logger,
) *Service {
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		serviceRepo: serviceRepo,
		emailSvc:    emailSvc,
		logger:      logger,
	}
}

// Book validates the request and inserts a Pending appointment. Nothing
// is written when validation fails.
func (s *Service) Book(ctx context.Context, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	if !timePattern.MatchString(req.Time) {
		return nil, ErrInvalidTime
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	if _, err := s.patientRepo.Get(ctx, req.PatientID); err != nil {
		return nil, fmt.Errorf("failed to resolve patient: %w", err)
	}
	if _, err := s.serviceRepo.Get(ctx, req.ServiceID); err != nil {
		return nil, fmt.Errorf("failed to resolve service: %w", err)
	}

	apt := &model.Appointment{
		PatientID: req.PatientID,
		ServiceID: req.ServiceID,
		Date:      date,
		Time:      req.Time,
		Notes:     req.Notes,
	}
	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to book appointment: %w", err)
	}
	return apt, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return apt, nil
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentDetail, error) {
	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// SetStatus applies one lifecycle step. Completed triggers billing:
// exactly one transaction row per appointment, written atomically with
// the status change. Confirmed sends the patient a best-effort email.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, newStatus model.AppointmentStatus, notes *string) (*model.Appointment, error) {
	if !newStatus.Valid() {
		return nil, ErrUnknownStatus
	}

	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if !apt.Status.CanTransition(newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, apt.Status, newStatus)
	}

	if notes != nil {
		apt.Notes = *notes
	}

	switch newStatus {
	case model.AppointmentStatusCompleted:
		txn, err := s.repo.CompleteAndBill(ctx, apt)
		if err != nil {
			return nil, fmt.Errorf("failed to complete appointment: %w", err)
		}
		if txn != nil {
			s.notifyBilled(ctx, apt, txn)
		}
	case model.AppointmentStatusConfirmed:
		apt.Status = newStatus
		if err := s.repo.SetStatus(ctx, apt, model.EventAppointmentConfirmed); err != nil {
			return nil, fmt.Errorf("failed to update appointment: %w", err)
		}
		s.notifyConfirmed(ctx, apt)
	case model.AppointmentStatusCancelled:
		apt.Status = newStatus
		if err := s.repo.SetStatus(ctx, apt, model.EventAppointmentCancelled); err != nil {
			return nil, fmt.Errorf("failed to update appointment: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, apt.Status, newStatus)
	}

	return apt, nil
}

// Cancel sets status to Cancelled. No side effects, no refund logic.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.SetStatus(ctx, id, model.AppointmentStatusCancelled, nil)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

func (s *Service) notifyConfirmed(ctx context.Context, apt *model.Appointment) {
	if s.emailSvc == nil {
		return
	}

	patient, err := s.patientRepo.Get(ctx, apt.PatientID)
	if err != nil {
		s.logger.Error(err, "skipping confirmation mail: patient lookup failed")
		return
	}
	svc, err := s.serviceRepo.Get(ctx, apt.ServiceID)
	if err != nil {
		s.logger.Error(err, "skipping confirmation mail: service lookup failed")
		return
	}

	err = s.emailSvc.SendBookingConfirmed(ctx, patient.Email, patient.Name, svc.Name,
		apt.Date.Format(dateLayout), apt.Time)
	if err != nil {
		s.logger.Error(err, "failed to send confirmation mail")
	}
}

func (s *Service) notifyBilled(ctx context.Context, apt *model.Appointment, txn *model.Transaction) {
	if s.emailSvc == nil {
		return
	}

	patient, err := s.patientRepo.Get(ctx, apt.PatientID)
	if err != nil {
		s.logger.Error(err, "skipping billing mail: patient lookup failed")
		return
	}
	svc, err := s.serviceRepo.Get(ctx, apt.ServiceID)
	if err != nil {
		s.logger.Error(err, "skipping billing mail: service lookup failed")
		return
	}

	body := fmt.Sprintf("<p>Hi %s,</p><p>Your visit for %s on %s is complete. Amount billed: &#8369;%s.</p>",
		patient.Name, svc.Name, apt.Date.Format(dateLayout), txn.Amount.StringFixed(2))
	if err := s.emailSvc.SendReceipt(ctx, patient.Email, "Your visit receipt", body); err != nil {
		s.logger.Error(err, "failed to send billing mail")
	}
}
