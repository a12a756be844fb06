package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/puredent/clinic-api/internal/model"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

// stageEvent writes a lifecycle event into the outbox inside the caller's
// transaction, so the event exists if and only if the state change does.
func stageEvent(ctx context.Context, tx *sqlx.Tx, eventType string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO outbox_events (id, event_type, payload, status, created_at) VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), eventType, body, model.OutboxStatusPending, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to stage %s event: %w", eventType, err)
	}
	return nil
}

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	apt.ID = uuid.New()
	apt.Status = model.AppointmentStatusPending
	apt.CreatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO appointments (id, patient_id, service_id, scheduled_date, scheduled_time, notes, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err := tx.ExecContext(ctx, query,
			apt.ID,
			apt.PatientID,
			apt.ServiceID,
			apt.Date,
			apt.Time,
			apt.Notes,
			apt.Status,
			apt.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create appointment: %w", err)
		}
		return stageEvent(ctx, tx, model.EventAppointmentCreated, apt)
	})
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, patient_id, service_id, scheduled_date, scheduled_time, notes, status, created_at
		FROM appointments
		WHERE id = $1
	`
	var apt model.Appointment
	if err := r.GetDB().GetContext(ctx, &apt, query, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentDetail, error) {
	query := `
		SELECT a.id, a.patient_id, a.service_id, a.scheduled_date, a.scheduled_time,
		       a.notes, a.status, a.created_at,
		       p.name AS patient_name, s.name AS service_name
		FROM appointments a
		JOIN patients p ON a.patient_id = p.id
		JOIN services s ON a.service_id = s.id
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.PatientID != nil {
			query += fmt.Sprintf(" AND a.patient_id = $%d", argCount)
			args = append(args, *filters.PatientID)
			argCount++
		}
		if filters.Status != nil {
			query += fmt.Sprintf(" AND a.status = $%d", argCount)
			args = append(args, *filters.Status)
			argCount++
		}
		if filters.From != nil {
			query += fmt.Sprintf(" AND a.scheduled_date >= $%d", argCount)
			args = append(args, *filters.From)
			argCount++
		}
		if filters.To != nil {
			query += fmt.Sprintf(" AND a.scheduled_date <= $%d", argCount)
			args = append(args, *filters.To)
			argCount++
		}
	}

	query += " ORDER BY a.scheduled_date ASC, a.scheduled_time ASC"

	var appointments []*model.AppointmentDetail
	if err := r.GetDB().SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) SetStatus(ctx context.Context, apt *model.Appointment, eventType string) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE appointments SET status = $1, notes = $2 WHERE id = $3`,
			apt.Status, apt.Notes, apt.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update appointment status: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return ErrAppointmentNotFound
		}
		return stageEvent(ctx, tx, eventType, apt)
	})
}

// CompleteAndBill marks the appointment Completed and bills it. The
// status update, the already-billed check, the price lookup and the
// transaction insert all run in one database transaction; the unique
// constraint on transactions.appointment_id backstops the check when two
// sessions complete the same appointment concurrently.
func (r *appointmentRepository) CompleteAndBill(ctx context.Context, apt *model.Appointment) (*model.Transaction, error) {
	var billed *model.Transaction

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE appointments SET status = $1, notes = $2 WHERE id = $3`,
			model.AppointmentStatusCompleted, apt.Notes, apt.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update appointment status: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return ErrAppointmentNotFound
		}
		apt.Status = model.AppointmentStatusCompleted

		var exists bool
		err = tx.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM transactions WHERE appointment_id = $1)`, apt.ID)
		if err != nil {
			return fmt.Errorf("failed to check existing transaction: %w", err)
		}

		if !exists {
			var price decimal.Decimal
			err = tx.GetContext(ctx, &price,
				`SELECT price FROM services WHERE id = $1`, apt.ServiceID)
			if err != nil {
				return fmt.Errorf("failed to read service price: %w", err)
			}

			txn := &model.Transaction{
				ID:            uuid.New(),
				AppointmentID: apt.ID,
				PatientID:     apt.PatientID,
				ServiceID:     apt.ServiceID,
				Amount:        price,
				PaidAt:        time.Now(),
			}
			// ON CONFLICT DO NOTHING instead of a bare insert: losing a
			// race with a concurrent completion must not abort the
			// transaction, the other session's billing row stands.
			result, err := tx.ExecContext(ctx,
				`INSERT INTO transactions (id, appointment_id, patient_id, service_id, amount, paid_at)
				 VALUES ($1, $2, $3, $4, $5, $6)
				 ON CONFLICT (appointment_id) DO NOTHING`,
				txn.ID, txn.AppointmentID, txn.PatientID, txn.ServiceID, txn.Amount, txn.PaidAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert transaction: %w", err)
			}
			if rows, err := result.RowsAffected(); err == nil && rows > 0 {
				billed = txn
			}
		}

		return stageEvent(ctx, tx, model.EventAppointmentCompleted, apt)
	})
	if err != nil {
		return nil, err
	}
	return billed, nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.GetDB().ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return err
		}
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *appointmentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.GetDB().GetContext(ctx, &count, `SELECT COUNT(*) FROM appointments`); err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}
