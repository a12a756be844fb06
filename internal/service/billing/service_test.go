package billing

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puredent/clinic-api/internal/model"
)

type mockTransactionRepo struct {
	byID map[uuid.UUID]*model.TransactionDetail
}

func newMockTransactionRepo() *mockTransactionRepo {
	return &mockTransactionRepo{byID: map[uuid.UUID]*model.TransactionDetail{}}
}

func (m *mockTransactionRepo) Get(ctx context.Context, id uuid.UUID) (*model.TransactionDetail, error) {
	if txn, ok := m.byID[id]; ok {
		return txn, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTransactionRepo) List(ctx context.Context) ([]*model.TransactionDetail, error) {
	var out []*model.TransactionDetail
	for _, txn := range m.byID {
		out = append(out, txn)
	}
	return out, nil
}

func (m *mockTransactionRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.TransactionDetail, error) {
	var out []*model.TransactionDetail
	for _, txn := range m.byID {
		if txn.PatientID == patientID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (m *mockTransactionRepo) ExistsForAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	for _, txn := range m.byID {
		if txn.AppointmentID == appointmentID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTransactionRepo) Count(ctx context.Context) (int, error) { return len(m.byID), nil }

func (m *mockTransactionRepo) add(patientID uuid.UUID, amount string) *model.TransactionDetail {
	txn := &model.TransactionDetail{
		Transaction: model.Transaction{
			ID:            uuid.New(),
			AppointmentID: uuid.New(),
			PatientID:     patientID,
			ServiceID:     uuid.New(),
			Amount:        decimal.RequireFromString(amount),
			PaidAt:        time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC),
		},
		PatientName: "Juan Dela Cruz",
		ServiceName: "Oral Prophylaxis",
	}
	m.byID[txn.ID] = txn
	return txn
}

func TestReceiptContainsEveryRequiredField(t *testing.T) {
	repo := newMockTransactionRepo()
	txn := repo.add(uuid.New(), "1200.00")
	svc := NewService(repo)

	receipt, err := svc.Receipt(context.Background(), txn.ID)
	require.NoError(t, err)

	assert.Equal(t, "PureDent Clinic", receipt.ClinicName)
	assert.Equal(t, txn.ID, receipt.TransactionID)
	assert.Equal(t, "Oral Prophylaxis", receipt.ServiceName)
	assert.Equal(t, txn.PatientID, receipt.PatientID)
	assert.Equal(t, "Juan Dela Cruz", receipt.PatientName)
	assert.True(t, receipt.Amount.Equal(decimal.RequireFromString("1200.00")))

	assert.True(t, strings.Contains(receipt.HTML, "PureDent Clinic Receipt"))
	assert.True(t, strings.Contains(receipt.HTML, txn.ID.String()))
	assert.True(t, strings.Contains(receipt.HTML, "Oral Prophylaxis"))
	assert.True(t, strings.Contains(receipt.HTML, "1200.00"))
	assert.True(t, strings.Contains(receipt.HTML, "2025-06-02 14:30"))
	assert.True(t, strings.Contains(receipt.HTML, "Juan Dela Cruz"))
}

func TestReceiptAmountKeepsTwoDecimals(t *testing.T) {
	repo := newMockTransactionRepo()
	txn := repo.add(uuid.New(), "8000")
	svc := NewService(repo)

	receipt, err := svc.Receipt(context.Background(), txn.ID)
	require.NoError(t, err)
	assert.True(t, strings.Contains(receipt.HTML, "8000.00"))
}

func TestReceiptUnknownTransaction(t *testing.T) {
	svc := NewService(newMockTransactionRepo())

	_, err := svc.Receipt(context.Background(), uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListForPatientFiltersByPatient(t *testing.T) {
	repo := newMockTransactionRepo()
	patientID := uuid.New()
	repo.add(patientID, "1200.00")
	repo.add(patientID, "500.00")
	repo.add(uuid.New(), "8000.00")
	svc := NewService(repo)

	mine, err := svc.ListForPatient(context.Background(), patientID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
