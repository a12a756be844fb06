package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/puredent/clinic-api/internal/model"
)

const transactionDetailQuery = `
	SELECT t.id, t.appointment_id, t.patient_id, t.service_id, t.amount, t.paid_at,
	       p.name AS patient_name, s.name AS service_name
	FROM transactions t
	JOIN patients p ON t.patient_id = p.id
	JOIN services s ON t.service_id = s.id
`

func (r *transactionRepository) Get(ctx context.Context, id uuid.UUID) (*model.TransactionDetail, error) {
	var txn model.TransactionDetail
	err := r.db.GetContext(ctx, &txn, transactionDetailQuery+` WHERE t.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &txn, nil
}

func (r *transactionRepository) List(ctx context.Context) ([]*model.TransactionDetail, error) {
	var txns []*model.TransactionDetail
	err := r.db.SelectContext(ctx, &txns, transactionDetailQuery+` ORDER BY t.paid_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

func (r *transactionRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.TransactionDetail, error) {
	var txns []*model.TransactionDetail
	err := r.db.SelectContext(ctx, &txns,
		transactionDetailQuery+` WHERE t.patient_id = $1 ORDER BY t.paid_at DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patient transactions: %w", err)
	}
	return txns, nil
}

func (r *transactionRepository) ExistsForAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM transactions WHERE appointment_id = $1)`, appointmentID)
	if err != nil {
		return false, fmt.Errorf("failed to check transaction existence: %w", err)
	}
	return exists, nil
}

func (r *transactionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM transactions`); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}
