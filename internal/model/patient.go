package model

import (
	"time"

	"github.com/google/uuid"
)

type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
	SexOther  Sex = "Other"
)

func (s Sex) Valid() bool {
	switch s {
	case SexMale, SexFemale, SexOther:
		return true
	}
	return false
}

type Patient struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Age          int       `db:"age" json:"age"`
	Sex          Sex       `db:"sex" json:"sex"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type RegisterPatientRequest struct {
	Name string `json:"name" binding:"required,max=150"`
	// Age is a pointer so that a newborn's 0 survives the required check.
	Age      *int   `json:"age" binding:"required,gte=0,lte=150"`
	Sex      Sex    `json:"sex" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type UpdatePatientRequest struct {
	Name  *string `json:"name"`
	Age   *int    `json:"age" binding:"omitempty,gte=0,lte=150"`
	Sex   *Sex    `json:"sex"`
	Email *string `json:"email" binding:"omitempty,email"`
}
