package model

import (
	"time"

	"github.com/google/uuid"
)

// Staff is a clinic employee. Role is a free-text label (Dentist,
// Assistant, Receptionist) rather than an enum.
type Staff struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	Phone        string    `db:"phone" json:"phone"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type CreateStaffRequest struct {
	Name     string `json:"name" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,max=50"`
	Phone    string `json:"phone" binding:"max=30"`
}

type UpdateStaffRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
	Role  *string `json:"role"`
	Phone *string `json:"phone"`
}
