package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/puredent/clinic-api/internal/model"
	"github.com/puredent/clinic-api/internal/repository"
	"github.com/puredent/clinic-api/pkg/logger"
)

type Service struct {
	repo            repository.ReportRepository
	staffRepo       repository.StaffRepository
	patientRepo     repository.PatientRepository
	serviceRepo     repository.ServiceRepository
	appointmentRepo repository.AppointmentRepository
	transactionRepo repository.TransactionRepository
	logger          *logger.Logger
}

func NewService(
	repo repository.ReportRepository,
	staffRepo repository.StaffRepository,
	patientRepo repository.PatientRepository,
	serviceRepo repository.ServiceRepository,
	appointmentRepo repository.AppointmentRepository,
	transactionRepo repository.TransactionRepository,
	logger *logger.Logger,
) *Service {
	return &Service{
		repo:            repo,
		staffRepo:       staffRepo,
		patientRepo:     patientRepo,
		serviceRepo:     serviceRepo,
		appointmentRepo: appointmentRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// Revenue builds the staff console report: completed counts and revenue
// per service plus the status breakdown.
func (s *Service) Revenue(ctx context.Context) (*model.RevenueReport, error) {
	completed, err := s.repo.CompletedCountsByService(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}
	revenue, err := s.repo.RevenueByService(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}
	statuses, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}

	total := decimal.Zero
	for _, row := range revenue {
		total = total.Add(row.Revenue)
	}

	return &model.RevenueReport{
		GeneratedAt:      time.Now(),
		CompletedCounts:  completed,
		RevenueByService: revenue,
		StatusCounts:     statuses,
		TotalRevenue:     total,
	}, nil
}

// DashboardCounts backs the staff console home cards. Each count is a
// best-effort lookup: a failing table degrades to zero rather than
// taking the dashboard down.
func (s *Service) DashboardCounts(ctx context.Context) *model.DashboardCounts {
	counts := &model.DashboardCounts{}

	if n, err := s.patientRepo.Count(ctx); err != nil {
		s.logger.Error(err, "dashboard: patient count failed")
	} else {
		counts.Patients = n
	}
	if n, err := s.appointmentRepo.Count(ctx); err != nil {
		s.logger.Error(err, "dashboard: appointment count failed")
	} else {
		counts.Appointments = n
	}
	if n, err := s.serviceRepo.Count(ctx); err != nil {
		s.logger.Error(err, "dashboard: service count failed")
	} else {
		counts.Services = n
	}
	if n, err := s.transactionRepo.Count(ctx); err != nil {
		s.logger.Error(err, "dashboard: transaction count failed")
	} else {
		counts.Transactions = n
	}

	return counts
}

// PatientSummary is the patient dashboard: next visit, confirmed count,
// recent completed visits. Lookups degrade to empty values on failure.
type PatientSummary struct {
	Next            *model.UpcomingAppointment `json:"next_appointment,omitempty"`
	ConfirmedCount  int                        `json:"confirmed_count"`
	RecentCompleted []*model.AppointmentDetail `json:"recent_completed"`
}

func (s *Service) PatientSummary(ctx context.Context, patientID uuid.UUID) *PatientSummary {
	summary := &PatientSummary{}

	next, err := s.repo.NextAppointment(ctx, patientID)
	if err != nil {
		s.logger.Error(err, "patient summary: next appointment lookup failed")
	} else {
		summary.Next = next
	}

	if n, err := s.repo.ConfirmedCount(ctx, patientID); err != nil {
		s.logger.Error(err, "patient summary: confirmed count failed")
	} else {
		summary.ConfirmedCount = n
	}

	recent, err := s.repo.RecentCompleted(ctx, patientID, 6)
	if err != nil {
		s.logger.Error(err, "patient summary: recent visits lookup failed")
	} else {
		summary.RecentCompleted = recent
	}

	return summary
}

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><title>PureDent Clinic Report</title></head>
<body>
  <h1>PureDent Clinic Report</h1>
  <p>Generated: {{.GeneratedAt.Format "2006-01-02 15:04"}}</p>

  <h2>Completed Appointments per Service</h2>
  <table border="1">
    <tr><th>Service</th><th>Completed</th></tr>
    {{range .CompletedCounts}}<tr><td>{{.ServiceName}}</td><td>{{.Count}}</td></tr>
    {{end}}
  </table>

  <h2>Revenue per Service</h2>
  <table border="1">
    <tr><th>Service</th><th>Revenue</th></tr>
    {{range .RevenueByService}}<tr><td>{{.ServiceName}}</td><td>&#8369;{{.Revenue.StringFixed 2}}</td></tr>
    {{end}}
  </table>

  <h2>Appointment Statuses</h2>
  <table border="1">
    <tr><th>Status</th><th>Count</th></tr>
    {{range .StatusCounts}}<tr><td>{{.Status}}</td><td>{{.Count}}</td></tr>
    {{end}}
  </table>

  <p><b>Total revenue: &#8369;{{.TotalRevenue.StringFixed 2}}</b></p>
</body>
</html>
`))

// RenderHTML produces the printable report document.
func (s *Service) RenderHTML(ctx context.Context) (string, error) {
	report, err := s.Revenue(ctx)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, report); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}
