package dto

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/domain/dashboard"
)

type AppointmentListDTO struct {
	ID        uint   `json:"id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Duration  int    `json:"duration"`
	Status    string `json:"status"`
	Type      string `json:"type"`
	Priority  string `json:"priority"`

	PatientID   uint   `json:"patient_id"`
	PatientName string `json:"patient_name"`
	DoctorID    uint   `json:"doctor_id"`
	DoctorName  string `json:"doctor_name"`

	IsUpcoming bool `json:"is_upcoming"`
	IsOverdue  bool `json:"is_overdue"`
}

// AppointmentStatsDTO summarises visits over a period.
type AppointmentStatsDTO struct {
	Period   string                    `json:"period"`
	Since    string                    `json:"since"`
	Total    int64                     `json:"total"`
	Upcoming int64                     `json:"upcoming"`
	Revenue  decimal.Decimal           `json:"revenue"`
	ByStatus []appointment.StatusCount `json:"by_status"`
}

// DashboardDTO is the landing page for staff.
type DashboardDTO struct {
	Overview           dashboard.Overview   `json:"overview"`
	Revenue            RevenueDTO           `json:"revenue"`
	Alerts             dashboard.Alerts     `json:"alerts"`
	RecentAppointments []AppointmentListDTO `json:"recent_appointments"`
}

type RevenueDTO struct {
	Total decimal.Decimal `json:"total"`
}
