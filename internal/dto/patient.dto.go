package dto

import (
	"github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

// PatientDTO is a patient with their age in completed years.
type PatientDTO struct {
	models.User

	Age *int `json:"age"`
}

// PatientSummaryDTO is the patient chart header: visit counts, the next and
// last visit, and the latest records.
type PatientSummaryDTO struct {
	Patient PatientDTO `json:"patient"`

	TotalAppointments    int64                     `json:"total_appointments"`
	AppointmentsByStatus []appointment.StatusCount `json:"appointments_by_status"`
	NextAppointment      *AppointmentListDTO       `json:"next_appointment"`
	LastVisit            *AppointmentListDTO       `json:"last_visit"`

	TotalRecords  int64              `json:"total_records"`
	RecentRecords []MedicalRecordDTO `json:"recent_records"`
}
