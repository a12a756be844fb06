package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/puredent/clinic-api/internal/model"
)

var ErrDuplicateCode = errors.New("service code already exists")

func (r *serviceRepository) Create(ctx context.Context, service *model.Service) error {
	query := `
		INSERT INTO services (id, code, name, description, price, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	service.ID = uuid.New()
	service.Active = true
	service.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		service.ID,
		service.Code,
		service.Name,
		service.Description,
		service.Price,
		service.Active,
		service.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *serviceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	query := `
		SELECT id, code, name, description, price, active, created_at
		FROM services
		WHERE id = $1
	`
	var service model.Service
	if err := r.db.GetContext(ctx, &service, query, id); err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &service, nil
}

func (r *serviceRepository) GetByCode(ctx context.Context, code string) (*model.Service, error) {
	query := `
		SELECT id, code, name, description, price, active, created_at
		FROM services
		WHERE code = $1
	`
	var service model.Service
	err := r.db.GetContext(ctx, &service, query, code)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service by code: %w", err)
	}
	return &service, nil
}

func (r *serviceRepository) List(ctx context.Context, activeOnly bool, search string) ([]*model.Service, error) {
	query := `
		SELECT id, code, name, description, price, active, created_at
		FROM services
	`
	var conds []string
	args := []interface{}{}
	if activeOnly {
		conds = append(conds, "active")
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		conds = append(conds, "(name ILIKE $1 OR code ILIKE $1)")
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY name ASC`

	var services []*model.Service
	if err := r.db.SelectContext(ctx, &services, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (r *serviceRepository) Update(ctx context.Context, service *model.Service) error {
	query := `
		UPDATE services
		SET name = $1, description = $2, price = $3, active = $4
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query,
		service.Name,
		service.Description,
		service.Price,
		service.Active,
		service.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("service not found")
	}
	return nil
}

func (r *serviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return err
		}
		return fmt.Errorf("failed to delete service: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("service not found")
	}
	return nil
}

func (r *serviceRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM services`); err != nil {
		return 0, fmt.Errorf("failed to count services: %w", err)
	}
	return count, nil
}
