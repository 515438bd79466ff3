package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

// ConflictGuard runs inside the write transaction against the doctor's
// blocking appointments for the day, already row-locked.
type ConflictGuard func(existing []models.Appointment) error

type Repository interface {
	// -------- People --------
	GetUser(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	// -------- Schedule --------
	GetWorkingHours(
		ctx context.Context,
		doctorID uint,
		weekday int,
	) (*models.WorkingHours, error)

	ListBlockingForDay(
		ctx context.Context,
		doctorID uint,
		day time.Time,
	) ([]models.Appointment, error)

	ListForDay(
		ctx context.Context,
		doctorID uint,
		day time.Time,
	) ([]models.Appointment, error)

	// -------- Appointment --------
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
		guard ConflictGuard,
	) error

	// RescheduleAppointment saves ap after running guard for its new day.
	RescheduleAppointment(
		ctx context.Context,
		ap *models.Appointment,
		guard ConflictGuard,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Queries --------
	ListAppointments(
		ctx context.Context,
		f ListFilter,
	) ([]models.Appointment, int64, error)

	// CountByStatus groups visits starting at or after since. doctorID 0
	// means every doctor.
	CountByStatus(
		ctx context.Context,
		since time.Time,
		doctorID uint,
	) ([]StatusCount, error)

	// CountUpcoming counts scheduled or confirmed visits starting after now.
	CountUpcoming(
		ctx context.Context,
		now time.Time,
		doctorID uint,
	) (int64, error)
}

// SlotCache stores enumerated slots per doctor and date. Every invalidation
// bumps the doctor's version; Set only stores slots computed under the
// version read before the computation started.
type SlotCache interface {
	Get(ctx context.Context, doctorID uint, date string) ([]TimeSlot, bool)
	Version(ctx context.Context, doctorID uint) int64
	Set(ctx context.Context, doctorID uint, date string, version int64, slots []TimeSlot)
	Invalidate(ctx context.Context, doctorID uint, date string)
}
