package postgres

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// lib/pq error codes
const (
	pqInvalidCatalog  = "3D000"
	pqUniqueViolation = "23505"
	pqFKViolation     = "23503"
)

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (c Config) dsn(dbname string) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, dbname, c.SSLMode,
	)
}

// NewDB connects to the configured database. When the database does not
// exist yet it is created through the maintenance database and the
// connection is retried once, so a fresh install needs no manual setup.
func NewDB(cfg Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.dsn(cfg.Name))
	if err == nil {
		return db, nil
	}

	if !isInvalidCatalog(err) {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createDatabase(cfg); err != nil {
		return nil, err
	}

	db, err = sqlx.Connect("postgres", cfg.dsn(cfg.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to created database: %w", err)
	}
	return db, nil
}

func createDatabase(cfg Config) error {
	admin, err := sqlx.Connect("postgres", cfg.dsn("postgres"))
	if err != nil {
		return fmt.Errorf("failed to connect to maintenance database: %w", err)
	}
	defer admin.Close()

	// CREATE DATABASE takes no bind parameters; the name is quoted as
	// an identifier instead.
	_, err = admin.Exec(fmt.Sprintf("CREATE DATABASE %s ENCODING 'UTF8'", pq.QuoteIdentifier(cfg.Name)))
	if err != nil && !isUniqueViolation(err) {
		var pqErr *pq.Error
		// 42P04: database already exists, lost a race with another boot
		if errors.As(err, &pqErr) && pqErr.Code == "42P04" {
			return nil
		}
		return fmt.Errorf("failed to create database %s: %w", cfg.Name, err)
	}
	return nil
}

func isInvalidCatalog(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqInvalidCatalog
}

// IsUniqueViolation reports whether err is a unique-constraint failure.
func IsUniqueViolation(err error) bool {
	return isUniqueViolation(err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// IsForeignKeyViolation reports whether err is a foreign-key failure,
// e.g. deleting a patient that still has appointments.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqFKViolation
}
