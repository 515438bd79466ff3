package appointment

import (
	"context"

	"github.com/BruksfildServices01/hospital-manager/internal/audit"
	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

type RescheduleInput struct {
	AppointmentID uint
	Date          string
	Time          string
	Duration      int
	ActorID       uint
}

type Reschedule struct {
	repo     domain.Repository
	cache    domain.SlotCache
	audit    audit.Sink
	settings Settings
}

func NewReschedule(
	repo domain.Repository,
	cache domain.SlotCache,
	audit audit.Sink,
	settings Settings,
) *Reschedule {
	return &Reschedule{
		repo:     repo,
		cache:    cache,
		audit:    audit,
		settings: settings,
	}
}

func (uc *Reschedule) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil || ap == nil {
		return nil, errAppointmentNotFound
	}

	s := domain.Status(ap.Status)
	if s != domain.StatusScheduled && s != domain.StatusConfirmed {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	date, err := uc.settings.parseDate(in.Date)
	if err != nil {
		return nil, err
	}

	duration := in.Duration
	if duration == 0 {
		duration = ap.Duration
	}

	iv, err := domain.NewInterval(ap.DoctorID, date, in.Time, duration)
	if err != nil {
		return nil, err
	}
	if iv.StartAt().Before(uc.settings.now()) {
		return nil, errInPast
	}

	schedule, err := scheduleFor(ctx, uc.repo, uc.settings, ap.DoctorID, date)
	if err != nil {
		return nil, err
	}
	if !schedule.Fits(iv) {
		return nil, errOutsideWorkingHours
	}

	oldDay := dateKey(ap.AppointmentDate)
	oldTime := ap.AppointmentTime
	domain.Apply(ap, iv)

	if err := uc.repo.RescheduleAppointment(ctx, ap, conflictGuard(iv, ap.ID)); err != nil {
		return nil, mapWriteError(err)
	}

	uc.cache.Invalidate(ctx, ap.DoctorID, oldDay)
	if newDay := dateKey(date); newDay != oldDay {
		uc.cache.Invalidate(ctx, ap.DoctorID, newDay)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.ActorID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]string{
			"from": oldDay + " " + oldTime,
			"to":   dateKey(date) + " " + ap.AppointmentTime,
		},
	})

	return ap, nil
}
