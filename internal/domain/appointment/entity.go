package appointment

import (
	"time"

	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

// BookingFromModel reads the stored date, clock time and duration back into a Booking.
func BookingFromModel(ap models.Appointment) (Booking, error) {
	iv, err := NewInterval(ap.DoctorID, ap.AppointmentDate, ap.AppointmentTime, ap.Duration)
	if err != nil {
		return Booking{}, err
	}
	return Booking{
		AppointmentID: ap.ID,
		Interval:      iv,
		Status:        Status(ap.Status),
	}, nil
}

// BookingsFromModels skips rows that no longer parse; they cannot block anything.
func BookingsFromModels(aps []models.Appointment) []Booking {
	out := make([]Booking, 0, len(aps))
	for _, ap := range aps {
		b, err := BookingFromModel(ap)
		if err != nil {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Apply writes iv onto the appointment, keeping both representations in sync.
func Apply(ap *models.Appointment, iv Interval) {
	ap.DoctorID = iv.DoctorID
	ap.AppointmentDate = iv.Date
	ap.AppointmentTime = iv.StartClock()
	ap.Duration = iv.Duration
	ap.StartAt = iv.StartAt()
	ap.EndAt = iv.EndAt()
}

// Transition moves ap to the given status and stamps completion or cancellation.
func Transition(ap *models.Appointment, to Status, now time.Time) error {
	if err := CanTransition(Status(ap.Status), to); err != nil {
		return err
	}

	ap.Status = string(to)
	switch to {
	case StatusCancelled:
		ap.CancelledAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	}
	return nil
}

func Cancel(ap *models.Appointment, now time.Time) error {
	return Transition(ap, StatusCancelled, now)
}

func Complete(ap *models.Appointment, now time.Time) error {
	return Transition(ap, StatusCompleted, now)
}

// IsUpcoming and IsOverdue are read-side flags for scheduled/confirmed visits.
func IsUpcoming(ap models.Appointment, now time.Time) bool {
	s := Status(ap.Status)
	return (s == StatusScheduled || s == StatusConfirmed) && ap.StartAt.After(now)
}

func IsOverdue(ap models.Appointment, now time.Time) bool {
	s := Status(ap.Status)
	return (s == StatusScheduled || s == StatusConfirmed) && ap.StartAt.Before(now)
}
