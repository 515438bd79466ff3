package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/medicalrecord"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

type MedicalRecordGormRepository struct {
	db *gorm.DB
}

func NewMedicalRecordGormRepository(db *gorm.DB) *MedicalRecordGormRepository {
	return &MedicalRecordGormRepository{db: db}
}

func (r *MedicalRecordGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *MedicalRecordGormRepository) CreateRecord(
	ctx context.Context,
	rec *models.MedicalRecord,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error
}

func (r *MedicalRecordGormRepository) GetRecord(
	ctx context.Context,
	id uint,
) (*models.MedicalRecord, error) {

	var rec models.MedicalRecord
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		First(&rec, id).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *MedicalRecordGormRepository) ListRecords(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.MedicalRecord, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.MedicalRecord{})
	if f.PatientID != 0 {
		q = q.Where("patient_id = ?", f.PatientID)
	}
	if f.DoctorID != 0 {
		q = q.Where("doctor_id = ?", f.DoctorID)
	}
	if f.AppointmentID != 0 {
		q = q.Where("appointment_id = ?", f.AppointmentID)
	}
	if f.HideConfidential {
		q = q.Where("(is_confidential = ? OR doctor_id = ?)", false, f.TreatingDoctorID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recs []models.MedicalRecord
	err := q.
		Preload("Patient").
		Preload("Doctor").
		Order("visit_date DESC").
		Scopes(paginate(f.Page, f.Limit)).
		Find(&recs).Error
	if err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

// Compile-time check
var _ domain.Repository = (*MedicalRecordGormRepository)(nil)
