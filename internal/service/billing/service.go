package billing

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
)

const clinicName = "PureDent Clinic"

// Receipt is the fixed-layout billing document a patient can print:
// clinic name, transaction id, service, date paid, amount, patient.
type Receipt struct {
	ClinicName    string          `json:"clinic_name"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	ServiceName   string          `json:"service_name"`
	PaidAt        time.Time       `json:"paid_at"`
	Amount        decimal.Decimal `json:"amount"`
	PatientID     uuid.UUID       `json:"patient_id"`
	PatientName   string          `json:"patient_name"`
	HTML          string          `json:"html"`
}

var receiptTmpl = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.ClinicName}} Receipt</title></head>
<body>
  <h1>{{.ClinicName}} Receipt</h1>
  <p>Transaction ID: {{.TransactionID}}</p>
  <p>Service: {{.ServiceName}}</p>
  <p>Date Paid: {{.PaidAt.Format "2006-01-02 15:04"}}</p>
  <p>Amount: &#8369;{{.Amount.StringFixed 2}}</p>
  <p>Patient: {{.PatientName}}</p>
</body>
</html>
`))

type Service struct {
	repo repository.TransactionRepository
}

func NewService(repo repository.TransactionRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]*model.TransactionDetail, error) {
	txns, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.TransactionDetail, error) {
	txns, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patient transactions: %w", err)
	}
	return txns, nil
}

// Receipt assembles the printable document for one transaction.
func (s *Service) Receipt(ctx context.Context, transactionID uuid.UUID) (*Receipt, error) {
	txn, err := s.repo.Get(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	receipt := &Receipt{
		ClinicName:    clinicName,
		TransactionID: txn.ID,
		ServiceName:   txn.ServiceName,
		PaidAt:        txn.PaidAt,
		Amount:        txn.Amount,
		PatientID:     txn.PatientID,
		PatientName:   txn.PatientName,
	}

	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, receipt); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	receipt.HTML = buf.String()

	return receipt, nil
}
