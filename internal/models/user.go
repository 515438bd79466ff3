package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleAdmin        = "admin"
	RoleDoctor       = "doctor"
	RoleNurse        = "nurse"
	RoleReceptionist = "receptionist"
	RoleAccountant   = "accountant"
	RolePharmacist   = "pharmacist"
	RolePatient      = "patient"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDoctor, RoleNurse, RoleReceptionist,
		RoleAccountant, RolePharmacist, RolePatient:
		return true
	}
	return false
}

// User covers staff and patients; Role decides which fields matter.
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DepartmentID *uint      `json:"department_id"`
	Department   *Department `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"department,omitempty"`

	FirstName    string `gorm:"size:100;not null" json:"first_name"`
	LastName     string `gorm:"size:100;not null" json:"last_name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;index;not null" json:"role"`
	Active       bool   `gorm:"default:true" json:"active"`

	// Doctors only.
	Specialization  string          `gorm:"size:100" json:"specialization,omitempty"`
	ConsultationFee decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"consultation_fee"`

	// Patients only.
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender      string     `gorm:"size:10" json:"gender,omitempty"`
	BloodGroup  string     `gorm:"size:5" json:"blood_group,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
