package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/puredent/clinic-api/internal/model"
)

func (r *reportRepository) CompletedCountsByService(ctx context.Context) ([]model.ServiceCount, error) {
	query := `
		SELECT s.name AS service_name, COUNT(*) AS count
		FROM appointments a
		JOIN services s ON a.service_id = s.id
		WHERE a.status = 'Completed'
		GROUP BY s.name
		ORDER BY count DESC
	`
	var counts []model.ServiceCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("failed to aggregate completed counts: %w", err)
	}
	return counts, nil
}

func (r *reportRepository) RevenueByService(ctx context.Context) ([]model.ServiceRevenue, error) {
	query := `
		SELECT s.name AS service_name, SUM(t.amount) AS revenue
		FROM transactions t
		JOIN services s ON t.service_id = s.id
		GROUP BY s.name
		ORDER BY revenue DESC
	`
	var rows []model.ServiceRevenue
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	return rows, nil
}

func (r *reportRepository) StatusCounts(ctx context.Context) ([]model.StatusCount, error) {
	query := `
		SELECT status, COUNT(*) AS count
		FROM appointments
		GROUP BY status
	`
	var counts []model.StatusCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("failed to aggregate status counts: %w", err)
	}
	return counts, nil
}

func (r *reportRepository) NextAppointment(ctx context.Context, patientID uuid.UUID) (*model.UpcomingAppointment, error) {
	query := `
		SELECT a.scheduled_date, a.scheduled_time, s.name AS service_name
		FROM appointments a
		JOIN services s ON a.service_id = s.id
		WHERE a.patient_id = $1
		AND a.scheduled_date >= CURRENT_DATE
		AND a.status NOT IN ('Cancelled', 'Completed')
		ORDER BY a.scheduled_date ASC, a.scheduled_time ASC
		LIMIT 1
	`
	var next model.UpcomingAppointment
	err := r.db.GetContext(ctx, &next, query, patientID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next appointment: %w", err)
	}
	return &next, nil
}

func (r *reportRepository) ConfirmedCount(ctx context.Context, patientID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM appointments WHERE patient_id = $1 AND status = 'Confirmed'`, patientID)
	if err != nil {
		return 0, fmt.Errorf("failed to count confirmed appointments: %w", err)
	}
	return count, nil
}

func (r *reportRepository) RecentCompleted(ctx context.Context, patientID uuid.UUID, limit int) ([]*model.AppointmentDetail, error) {
	query := `
		SELECT a.id, a.patient_id, a.service_id, a.scheduled_date, a.scheduled_time,
		       a.notes, a.status, a.created_at,
		       p.name AS patient_name, s.name AS service_name
		FROM appointments a
		JOIN patients p ON a.patient_id = p.id
		JOIN services s ON a.service_id = s.id
		WHERE a.patient_id = $1
		AND a.status = 'Completed'
		ORDER BY a.scheduled_date DESC, a.scheduled_time DESC
		LIMIT $2
	`
	var appointments []*model.AppointmentDetail
	if err := r.db.SelectContext(ctx, &appointments, query, patientID, limit); err != nil {
		return nil, fmt.Errorf("failed to get recent completed visits: %w", err)
	}
	return appointments, nil
}
