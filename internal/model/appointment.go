package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "Pending"
	AppointmentStatusConfirmed AppointmentStatus = "Confirmed"
	AppointmentStatusCompleted AppointmentStatus = "Completed"
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"
)

// allowedTransitions is the full lifecycle: Pending can be confirmed or
// cancelled, Confirmed can be completed or cancelled, and the two end
// states accept nothing further.
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted, AppointmentStatusCancelled},
	AppointmentStatusCompleted: {},
	AppointmentStatusCancelled: {},
}

// Valid reports whether s is one of the four known statuses.
func (s AppointmentStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// Terminal reports whether no further transition is allowed from s.
func (s AppointmentStatus) Terminal() bool {
	next, ok := allowedTransitions[s]
	return ok && len(next) == 0
}

// CanTransition reports whether s -> to is a legal lifecycle step.
func (s AppointmentStatus) CanTransition(to AppointmentStatus) bool {
	for _, next := range allowedTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID        uuid.UUID         `db:"id" json:"id"`
	PatientID uuid.UUID         `db:"patient_id" json:"patient_id"`
	ServiceID uuid.UUID         `db:"service_id" json:"service_id"`
	Date      time.Time         `db:"scheduled_date" json:"date"`
	Time      string            `db:"scheduled_time" json:"time"`
	Notes     string            `db:"notes" json:"notes,omitempty"`
	Status    AppointmentStatus `db:"status" json:"status"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}

type BookAppointmentRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	ServiceID uuid.UUID `json:"service_id" binding:"required"`
	Date      string    `json:"date" binding:"required"`
	Time      string    `json:"time" binding:"required,hhmm"`
	Notes     string    `json:"notes" binding:"max=1000"`
}

type SetAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required"`
	Notes  *string           `json:"notes"`
}

type AppointmentFilters struct {
	PatientID *uuid.UUID
	Status    *AppointmentStatus
	From      *time.Time
	To        *time.Time
}

// AppointmentDetail is an appointment joined with its patient and
// service names, the shape the portal lists render.
type AppointmentDetail struct {
	Appointment
	PatientName string `db:"patient_name" json:"patient_name"`
	ServiceName string `db:"service_name" json:"service_name"`
}
