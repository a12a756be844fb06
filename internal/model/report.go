package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceCount is one row of the completed-appointments-per-service
// aggregate.
type ServiceCount struct {
	ServiceName string `db:"service_name" json:"service_name"`
	Count       int    `db:"count" json:"count"`
}

// ServiceRevenue is one row of the summed-transactions-per-service
// aggregate.
type ServiceRevenue struct {
	ServiceName string          `db:"service_name" json:"service_name"`
	Revenue     decimal.Decimal `db:"revenue" json:"revenue"`
}

type StatusCount struct {
	Status AppointmentStatus `db:"status" json:"status"`
	Count  int               `db:"count" json:"count"`
}

// DashboardCounts backs the staff console home cards.
type DashboardCounts struct {
	Patients     int `json:"patients"`
	Appointments int `json:"appointments"`
	Services     int `json:"services"`
	Transactions int `json:"transactions"`
}

// UpcomingAppointment is the patient dashboard's "next visit" card.
type UpcomingAppointment struct {
	Date        time.Time `db:"scheduled_date" json:"date"`
	Time        string    `db:"scheduled_time" json:"time"`
	ServiceName string    `db:"service_name" json:"service_name"`
}

// RevenueReport is the printable report document's data.
type RevenueReport struct {
	GeneratedAt      time.Time        `json:"generated_at"`
	CompletedCounts  []ServiceCount   `json:"completed_counts"`
	RevenueByService []ServiceRevenue `json:"revenue_by_service"`
	StatusCounts     []StatusCount    `json:"status_counts"`
	TotalRevenue     decimal.Decimal  `json:"total_revenue"`
}
