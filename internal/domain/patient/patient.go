package patient

import (
	"context"
	"time"

	"github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

var (
	ErrPatientNotFound   = httperr.ErrBusiness("patient_not_found")
	ErrInvalidGender     = httperr.ErrBusiness("invalid_gender")
	ErrInvalidBloodGroup = httperr.ErrBusiness("invalid_blood_group")
	ErrInvalidBirthDate  = httperr.ErrBusiness("invalid_date")
)

var genders = map[string]bool{"male": true, "female": true, "other": true}

var bloodGroups = map[string]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true,
}

// Age is the number of completed years at now, or nil without a birth date.
func Age(dob *time.Time, now time.Time) *int {
	if dob == nil {
		return nil
	}
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return &years
}

// ValidateDemographics accepts empty values for fields not yet collected.
func ValidateDemographics(gender, bloodGroup string, dob *time.Time, now time.Time) error {
	if gender != "" && !genders[gender] {
		return ErrInvalidGender
	}
	if bloodGroup != "" && !bloodGroups[bloodGroup] {
		return ErrInvalidBloodGroup
	}
	if dob != nil && dob.After(now) {
		return ErrInvalidBirthDate
	}
	return nil
}

type Repository interface {
	GetPatient(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	UpdatePatient(
		ctx context.Context,
		u *models.User,
	) error

	CountAppointmentsByStatus(
		ctx context.Context,
		patientID uint,
	) ([]appointment.StatusCount, error)

	// NextAppointment is the earliest scheduled or confirmed visit after now.
	NextAppointment(
		ctx context.Context,
		patientID uint,
		now time.Time,
	) (*models.Appointment, error)

	// LastVisit is the most recent completed visit.
	LastVisit(
		ctx context.Context,
		patientID uint,
	) (*models.Appointment, error)
}
