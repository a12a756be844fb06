package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schemaStatements create the five clinic tables plus the outbox. All
// DDL is idempotent so provisioning runs on every startup.
//
// transactions.appointment_id is UNIQUE: completing an appointment may
// bill it at most once, and the constraint holds even if two staff
// sessions race the application-level existence check.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS staff (
		id UUID PRIMARY KEY,
		name VARCHAR(150) NOT NULL,
		email VARCHAR(200) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(50) NOT NULL,
		phone VARCHAR(30) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS patients (
		id UUID PRIMARY KEY,
		name VARCHAR(150) NOT NULL,
		age INT NOT NULL,
		sex VARCHAR(10) NOT NULL CHECK (sex IN ('Male', 'Female', 'Other')),
		email VARCHAR(200) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS services (
		id UUID PRIMARY KEY,
		code VARCHAR(64) NOT NULL UNIQUE,
		name VARCHAR(150) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(10,2) NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id UUID PRIMARY KEY,
		patient_id UUID NOT NULL REFERENCES patients(id),
		service_id UUID NOT NULL REFERENCES services(id),
		scheduled_date DATE NOT NULL,
		scheduled_time CHAR(5) NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		status VARCHAR(10) NOT NULL DEFAULT 'Pending'
			CHECK (status IN ('Pending', 'Confirmed', 'Completed', 'Cancelled')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id UUID PRIMARY KEY,
		appointment_id UUID NOT NULL UNIQUE REFERENCES appointments(id),
		patient_id UUID NOT NULL REFERENCES patients(id),
		service_id UUID NOT NULL REFERENCES services(id),
		amount NUMERIC(10,2) NOT NULL,
		paid_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS outbox_events (
		id UUID PRIMARY KEY,
		event_type VARCHAR(100) NOT NULL,
		payload JSONB NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		error_message TEXT,
		retry_count INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		published_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_patient ON appointments (patient_id)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_status ON appointments (status)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_patient ON transactions (patient_id)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_pending ON outbox_events (status, created_at)`,
}

// ProvisionSchema creates all tables and indexes if they are missing.
func ProvisionSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to provision schema: %w", err)
		}
	}
	return nil
}
