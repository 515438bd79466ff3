package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// People
// --------------------------------------------------

func (r *AppointmentGormRepository) GetUser(
	ctx context.Context,
	id uint,
) (*models.User, error) {
	return getUser(ctx, r.db, id)
}

// --------------------------------------------------
// Schedule
// --------------------------------------------------

// GetWorkingHours returns nil, nil when the doctor has no entry for weekday.
func (r *AppointmentGormRepository) GetWorkingHours(
	ctx context.Context,
	doctorID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND weekday = ?", doctorID, weekday).
		First(&wh).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

func (r *AppointmentGormRepository) ListBlockingForDay(
	ctx context.Context,
	doctorID uint,
	day time.Time,
) ([]models.Appointment, error) {
	return listBlocking(r.db.WithContext(ctx), doctorID, day, false)
}

func (r *AppointmentGormRepository) ListForDay(
	ctx context.Context,
	doctorID uint,
	day time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Where("doctor_id = ? AND appointment_date = ?", doctorID, dateOnly(day)).
		Order("start_at ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Preload("Department").
		First(&ap, id).Error
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
	guard domain.ConflictGuard,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDoctorDay(tx, ap.DoctorID, ap.AppointmentDate); err != nil {
			return err
		}

		existing, err := listBlocking(tx, ap.DoctorID, ap.AppointmentDate, true)
		if err != nil {
			return err
		}
		if err := guard(existing); err != nil {
			return err
		}

		return tx.Omit(clause.Associations).Create(ap).Error
	})
}

func (r *AppointmentGormRepository) RescheduleAppointment(
	ctx context.Context,
	ap *models.Appointment,
	guard domain.ConflictGuard,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDoctorDay(tx, ap.DoctorID, ap.AppointmentDate); err != nil {
			return err
		}

		existing, err := listBlocking(tx, ap.DoctorID, ap.AppointmentDate, true)
		if err != nil {
			return err
		}
		if err := guard(existing); err != nil {
			return err
		}

		return tx.Omit(clause.Associations).Save(ap).Error
	})
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error
}

// --------------------------------------------------
// Queries
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Appointment{})
	if f.PatientID != 0 {
		q = q.Where("patient_id = ?", f.PatientID)
	}
	if f.DoctorID != 0 {
		q = q.Where("doctor_id = ?", f.DoctorID)
	}
	if f.DepartmentID != 0 {
		q = q.Where("department_id = ?", f.DepartmentID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.Day != nil {
		q = q.Where("appointment_date = ?", dateOnly(*f.Day))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []models.Appointment
	err := q.
		Preload("Patient").
		Preload("Doctor").
		Order("start_at DESC").
		Scopes(paginate(f.Page, f.Limit)).
		Find(&apps).Error
	if err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

func (r *AppointmentGormRepository) CountByStatus(
	ctx context.Context,
	since time.Time,
	doctorID uint,
) ([]domain.StatusCount, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(consultation_fee), 0) AS fees").
		Where("start_at >= ?", since)
	if doctorID != 0 {
		q = q.Where("doctor_id = ?", doctorID)
	}

	var rows []domain.StatusCount
	if err := q.Group("status").Order("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentGormRepository) CountUpcoming(
	ctx context.Context,
	now time.Time,
	doctorID uint,
) (int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("start_at > ? AND status IN ?", now, []string{
			string(domain.StatusScheduled), string(domain.StatusConfirmed),
		})
	if doctorID != 0 {
		q = q.Where("doctor_id = ?", doctorID)
	}

	var n int64
	err := q.Count(&n).Error
	return n, err
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

func listBlocking(
	db *gorm.DB,
	doctorID uint,
	day time.Time,
	forUpdate bool,
) ([]models.Appointment, error) {

	q := db.
		Where(
			"doctor_id = ? AND appointment_date = ? AND status IN ?",
			doctorID, dateOnly(day), domain.BlockingStatusStrings(),
		).
		Order("start_at ASC")

	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var apps []models.Appointment
	if err := q.Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// lockDoctorDay serialises writers on one doctor's calendar day. Row locks
// alone do not stop two inserts into an empty day.
func lockDoctorDay(tx *gorm.DB, doctorID uint, day time.Time) error {
	y, m, d := day.Date()
	dayKey := y*10000 + int(m)*100 + d
	return tx.Exec("SELECT pg_advisory_xact_lock(?, ?)", int32(doctorID), int32(dayKey)).Error
}

func dateOnly(t time.Time) string {
	return t.Format("2006-01-02")
}

func getUser(ctx context.Context, db *gorm.DB, id uint) (*models.User, error) {
	var u models.User
	if err := db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
