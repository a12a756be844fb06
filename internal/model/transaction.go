package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is an immutable billing record. It is created exactly once
// when its appointment reaches Completed; appointment_id carries a unique
// constraint so a second insert for the same visit cannot slip through.
type Transaction struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	AppointmentID uuid.UUID       `db:"appointment_id" json:"appointment_id"`
	PatientID     uuid.UUID       `db:"patient_id" json:"patient_id"`
	ServiceID     uuid.UUID       `db:"service_id" json:"service_id"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	PaidAt        time.Time       `db:"paid_at" json:"paid_at"`
}

// TransactionDetail joins in the names the transaction list and receipt
// render.
type TransactionDetail struct {
	Transaction
	PatientName string `db:"patient_name" json:"patient_name"`
	ServiceName string `db:"service_name" json:"service_name"`
}
