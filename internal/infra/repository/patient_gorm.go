package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apptDomain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/patient"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

type PatientGormRepository struct {
	db *gorm.DB
}

func NewPatientGormRepository(db *gorm.DB) *PatientGormRepository {
	return &PatientGormRepository{db: db}
}

func (r *PatientGormRepository) GetPatient(
	ctx context.Context,
	id uint,
) (*models.User, error) {
	return getUser(ctx, r.db, id)
}

func (r *PatientGormRepository) UpdatePatient(
	ctx context.Context,
	u *models.User,
) error {
	return r.db.WithContext(ctx).
		Model(u).
		Select("first_name", "last_name", "phone", "date_of_birth", "gender", "blood_group").
		Updates(u).Error
}

func (r *PatientGormRepository) CountAppointmentsByStatus(
	ctx context.Context,
	patientID uint,
) ([]apptDomain.StatusCount, error) {

	var rows []apptDomain.StatusCount
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(consultation_fee), 0) AS fees").
		Where("patient_id = ?", patientID).
		Group("status").
		Order("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PatientGormRepository) NextAppointment(
	ctx context.Context,
	patientID uint,
	now time.Time,
) (*models.Appointment, error) {
	return r.firstAppointment(ctx, "start_at ASC",
		"patient_id = ? AND start_at > ? AND status IN ?",
		patientID, now, []string{string(apptDomain.StatusScheduled), string(apptDomain.StatusConfirmed)},
	)
}

func (r *PatientGormRepository) LastVisit(
	ctx context.Context,
	patientID uint,
) (*models.Appointment, error) {
	return r.firstAppointment(ctx, "start_at DESC",
		"patient_id = ? AND status = ?",
		patientID, string(apptDomain.StatusCompleted),
	)
}

// firstAppointment returns nil, nil when nothing matches.
func (r *PatientGormRepository) firstAppointment(
	ctx context.Context,
	order string,
	where string,
	args ...any,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Where(where, args...).
		Order(order).
		First(&ap).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

// Compile-time check
var _ domain.Repository = (*PatientGormRepository)(nil)
