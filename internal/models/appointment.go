package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PatientID uint `gorm:"index" json:"patient_id"`
	Patient   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"patient"`

	DoctorID uint `gorm:"index:idx_appointments_doctor_date" json:"doctor_id"`
	Doctor   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"doctor"`

	DepartmentID *uint      `json:"department_id"`
	Department   *Department `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"department,omitempty"`

	// Calendar date plus HH:MM start; StartAt/EndAt hold the same interval as
	// absolute instants so the database can enforce non-overlap.
	AppointmentDate time.Time `gorm:"type:date;index:idx_appointments_doctor_date" json:"appointment_date"`
	AppointmentTime string    `gorm:"size:5;not null" json:"appointment_time"`
	Duration        int       `gorm:"not null;default:30" json:"duration"`
	StartAt         time.Time `gorm:"not null" json:"start_at"`
	EndAt           time.Time `gorm:"not null" json:"end_at"`

	Type     string `gorm:"size:20;default:'consultation'" json:"type"`
	Priority string `gorm:"size:10;default:'medium'" json:"priority"`
	Status   string `gorm:"size:20;index;default:'scheduled'" json:"status"`

	Symptoms  string `gorm:"type:text" json:"symptoms"`
	Notes     string `gorm:"type:text" json:"notes"`
	Diagnosis string `gorm:"type:text" json:"diagnosis"`

	ConsultationFee decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"consultation_fee"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedByID uint `json:"created_by_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
