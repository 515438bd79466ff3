package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

func loadUserWithRole(
	ctx context.Context,
	repo domain.Repository,
	id uint,
	role string,
	notFound error,
) (*models.User, error) {
	u, err := repo.GetUser(ctx, id)
	if err != nil || u == nil || u.Role != role || !u.Active {
		return nil, notFound
	}
	return u, nil
}

// scheduleFor resolves the doctor's window for date's weekday.
func scheduleFor(
	ctx context.Context,
	repo domain.Repository,
	settings Settings,
	doctorID uint,
	date time.Time,
) (domain.Schedule, error) {
	wh, err := repo.GetWorkingHours(ctx, doctorID, int(date.Weekday()))
	if err != nil {
		return domain.Schedule{}, err
	}
	return domain.ScheduleFor(wh, settings.Window), nil
}

// conflictGuard rejects candidate when it overlaps a blocking appointment
// other than the one being moved.
func conflictGuard(candidate domain.Interval, selfID uint) domain.ConflictGuard {
	return func(existing []models.Appointment) error {
		others := make([]models.Appointment, 0, len(existing))
		for _, ap := range existing {
			if selfID != 0 && ap.ID == selfID {
				continue
			}
			others = append(others, ap)
		}

		if !domain.IsAvailable(candidate, domain.BookingsFromModels(others)) {
			return domain.ErrSlotUnavailable
		}
		return nil
	}
}

// mapWriteError turns a Postgres exclusion violation into the slot error.
func mapWriteError(err error) error {
	if httperr.IsExclusionConflict(err) {
		return domain.ErrSlotUnavailable
	}
	return err
}
