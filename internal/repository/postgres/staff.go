package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/puredent/clinic-api/internal/model"
)

var ErrDuplicateEmail = errors.New("email already registered")

func (r *staffRepository) Create(ctx context.Context, staff *model.Staff) error {
	query := `
		INSERT INTO staff (id, name, email, password_hash, role, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	staff.ID = uuid.New()
	staff.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		staff.ID,
		staff.Name,
		staff.Email,
		staff.PasswordHash,
		staff.Role,
		staff.Phone,
		staff.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create staff: %w", err)
	}
	return nil
}

func (r *staffRepository) Get(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	query := `
		SELECT id, name, email, password_hash, role, phone, created_at
		FROM staff
		WHERE id = $1
	`
	var staff model.Staff
	if err := r.db.GetContext(ctx, &staff, query, id); err != nil {
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return &staff, nil
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*model.Staff, error) {
	query := `
		SELECT id, name, email, password_hash, role, phone, created_at
		FROM staff
		WHERE email = $1
	`
	var staff model.Staff
	err := r.db.GetContext(ctx, &staff, query, email)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff by email: %w", err)
	}
	return &staff, nil
}

func (r *staffRepository) List(ctx context.Context) ([]*model.Staff, error) {
	query := `
		SELECT id, name, email, password_hash, role, phone, created_at
		FROM staff
		ORDER BY name ASC
	`
	var staff []*model.Staff
	if err := r.db.SelectContext(ctx, &staff, query); err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

func (r *staffRepository) Update(ctx context.Context, staff *model.Staff) error {
	query := `
		UPDATE staff
		SET name = $1, email = $2, role = $3, phone = $4
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query,
		staff.Name,
		staff.Email,
		staff.Role,
		staff.Phone,
		staff.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update staff: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("staff not found")
	}
	return nil
}

func (r *staffRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete staff: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("staff not found")
	}
	return nil
}

func (r *staffRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM staff`); err != nil {
		return 0, fmt.Errorf("failed to count staff: %w", err)
	}
	return count, nil
}
