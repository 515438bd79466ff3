package medicalrecord

import (
	"context"

	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

type ListFilter struct {
	PatientID     uint
	DoctorID      uint
	AppointmentID uint

	// HideConfidential drops confidential records unless written by
	// TreatingDoctorID.
	HideConfidential bool
	TreatingDoctorID uint

	Page  int
	Limit int
}

// CanView reports whether v may read rec. Confidential records stay with
// the patient, the doctor who wrote them and admins.
func CanView(rec models.MedicalRecord, v domain.Viewer) bool {
	switch v.Role {
	case models.RoleAdmin:
		return true
	case models.RolePatient:
		return rec.PatientID == v.ID
	case models.RoleDoctor:
		return !rec.IsConfidential || rec.DoctorID == v.ID
	case models.RoleNurse:
		return !rec.IsConfidential
	}
	return false
}

// Scope applies the same rules to a list query. Patients only see their own
// records; doctors default to the ones they wrote.
func Scope(f ListFilter, v domain.Viewer) ListFilter {
	switch v.Role {
	case models.RolePatient:
		f.PatientID = v.ID
	case models.RoleDoctor:
		if f.PatientID == 0 && f.DoctorID == 0 {
			f.DoctorID = v.ID
		}
		f.HideConfidential = true
		f.TreatingDoctorID = v.ID
	case models.RoleAdmin:
	default:
		f.HideConfidential = true
		f.TreatingDoctorID = 0
	}
	return f
}

type Repository interface {
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	CreateRecord(
		ctx context.Context,
		rec *models.MedicalRecord,
	) error

	GetRecord(
		ctx context.Context,
		id uint,
	) (*models.MedicalRecord, error)

	ListRecords(
		ctx context.Context,
		f ListFilter,
	) ([]models.MedicalRecord, int64, error)
}
