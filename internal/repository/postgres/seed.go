package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/puredent/clinic-api/pkg/security"
)

type seedStaff struct {
	name, role, email, password, phone string
}

type seedService struct {
	code, name, description string
	price                   decimal.Decimal
}

var defaultStaff = []seedStaff{
	{"Dr. Maria Santos", "Dentist", "maria.santos@clinic.local", "staff123", "09171234567"},
	{"Dr. John Reyes", "Dentist", "john.reyes@clinic.local", "staff123", "09181234567"},
	{"Ana Cruz", "Assistant", "ana.cruz@clinic.local", "staff123", "09281234567"},
	{"Carla Dizon", "Receptionist", "carla.dizon@clinic.local", "staff123", "09391234567"},
}

var defaultServices = []seedService{
	{"CM-OPH", "Oral Prophylaxis", "Cleaning & polishing", decimal.NewFromFloat(1200.00)},
	{"CM-FILL", "Dental Filling", "Composite filling for cavities", decimal.NewFromFloat(2500.00)},
	{"CM-EXT", "Tooth Extraction", "Simple extraction", decimal.NewFromFloat(1800.00)},
	{"CM-RCT", "Root Canal", "Therapy for infected tooth", decimal.NewFromFloat(4500.00)},
	{"CM-WHT", "Teeth Whitening", "In-office bleaching", decimal.NewFromFloat(3500.00)},
	{"CM-IMP", "Dental Implant", "Implant placement", decimal.NewFromFloat(20000.00)},
	{"CM-BRAC", "Orthodontic Braces", "Braces installation", decimal.NewFromFloat(25000.00)},
	{"CM-RTN", "Retainer Adjustment", "Adjustment or fitting", decimal.NewFromFloat(2000.00)},
	{"CM-WIS", "Wisdom Tooth Removal", "Surgical extraction", decimal.NewFromFloat(6500.00)},
	{"CM-GUM", "Gum Treatment", "Scaling & root planing", decimal.NewFromFloat(3200.00)},
	{"CM-XRAY", "Dental X-Ray", "Panoramic imaging", decimal.NewFromFloat(800.00)},
	{"CM-PED", "Pediatric Check-Up", "Child dental exam", decimal.NewFromFloat(1000.00)},
	{"CM-DEN", "Dentures Fitting", "Removable dentures", decimal.NewFromFloat(12000.00)},
	{"CM-EMR", "Emergency Visit", "Urgent dental care", decimal.NewFromFloat(900.00)},
	{"CM-VEN", "Veneers", "Porcelain veneer restoration", decimal.NewFromFloat(8000.00)},
}

// Seed inserts the default staff accounts, one sample patient and the
// 15-row service catalog. Each block runs only when its table is empty,
// so seeding on every startup never duplicates rows.
func Seed(ctx context.Context, db *sqlx.DB, hasher security.PasswordHasher) error {
	var staffCount int
	if err := db.GetContext(ctx, &staffCount, `SELECT COUNT(*) FROM staff`); err != nil {
		return fmt.Errorf("failed to count staff: %w", err)
	}
	if staffCount == 0 {
		for _, s := range defaultStaff {
			hash, err := hasher.Hash(s.password)
			if err != nil {
				return fmt.Errorf("failed to hash seed password: %w", err)
			}
			_, err = db.ExecContext(ctx,
				`INSERT INTO staff (id, name, role, email, password_hash, phone) VALUES ($1, $2, $3, $4, $5, $6)`,
				uuid.New(), s.name, s.role, s.email, hash, s.phone,
			)
			if err != nil {
				return fmt.Errorf("failed to seed staff %s: %w", s.email, err)
			}
		}
	}

	var patientCount int
	if err := db.GetContext(ctx, &patientCount, `SELECT COUNT(*) FROM patients`); err != nil {
		return fmt.Errorf("failed to count patients: %w", err)
	}
	if patientCount == 0 {
		hash, err := hasher.Hash("patient123")
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}
		_, err = db.ExecContext(ctx,
			`INSERT INTO patients (id, name, age, sex, email, password_hash) VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), "Juan Dela Cruz", 35, "Male", "patient1@clinic.local", hash,
		)
		if err != nil {
			return fmt.Errorf("failed to seed sample patient: %w", err)
		}
	}

	var serviceCount int
	if err := db.GetContext(ctx, &serviceCount, `SELECT COUNT(*) FROM services`); err != nil {
		return fmt.Errorf("failed to count services: %w", err)
	}
	if serviceCount == 0 {
		for _, s := range defaultServices {
			_, err := db.ExecContext(ctx,
				`INSERT INTO services (id, code, name, description, price) VALUES ($1, $2, $3, $4, $5)`,
				uuid.New(), s.code, s.name, s.description, s.price,
			)
			if err != nil {
				return fmt.Errorf("failed to seed service %s: %w", s.code, err)
			}
		}
	}

	return nil
}
