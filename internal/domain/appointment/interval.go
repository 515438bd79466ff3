package appointment

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/timezone"
)

const minutesPerDay = 24 * 60

var (
	ErrInvalidInterval = httperr.ErrBusiness("invalid_interval")
	ErrSlotUnavailable = httperr.ErrBusiness("time_conflict")
)

// Interval is a doctor's half-open [Start, Start+Duration) block on one
// calendar day, with Start counted in minutes from midnight.
type Interval struct {
	DoctorID uint
	Date     time.Time
	Start    int
	Duration int
}

// NewInterval builds an interval from a calendar date and an HH:MM clock time.
func NewInterval(doctorID uint, date time.Time, clock string, duration int) (Interval, error) {
	start, err := ParseClock(clock)
	if err != nil {
		return Interval{}, err
	}

	iv := Interval{
		DoctorID: doctorID,
		Date:     timezone.StartOfDay(date),
		Start:    start,
		Duration: duration,
	}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

func (i Interval) Validate() error {
	if i.Duration <= 0 {
		return ErrInvalidInterval
	}
	if i.Start < 0 || i.End() > minutesPerDay {
		return ErrInvalidInterval
	}
	return nil
}

func (i Interval) End() int {
	return i.Start + i.Duration
}

func (i Interval) SameDoctorDay(o Interval) bool {
	if i.DoctorID != o.DoctorID {
		return false
	}
	y1, m1, d1 := i.Date.Date()
	y2, m2, d2 := o.Date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Overlaps uses the half-open rule, so touching endpoints do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.SameDoctorDay(o) && i.Start < o.End() && o.Start < i.End()
}

func (i Interval) StartClock() string { return FormatClock(i.Start) }
func (i Interval) EndClock() string   { return FormatClock(i.End()) }

// StartAt and EndAt place the interval on the timeline in the date's location.
func (i Interval) StartAt() time.Time {
	return i.at(i.Start)
}

func (i Interval) EndAt() time.Time {
	return i.at(i.End())
}

// at uses wall-clock minutes so DST shifts do not move the appointment.
func (i Interval) at(minute int) time.Time {
	y, m, d := i.Date.Date()
	return time.Date(y, m, d, 0, minute, 0, 0, i.Date.Location())
}

// Booking is an interval already on the calendar together with its status.
type Booking struct {
	AppointmentID uint
	Interval      Interval
	Status        Status
}

// FindConflict returns the first blocking booking that overlaps candidate.
func FindConflict(candidate Interval, existing []Booking) (Booking, bool) {
	for _, b := range existing {
		if !b.Status.IsBlocking() {
			continue
		}
		if candidate.Overlaps(b.Interval) {
			return b, true
		}
	}
	return Booking{}, false
}

func IsAvailable(candidate Interval, existing []Booking) bool {
	_, conflict := FindConflict(candidate, existing)
	return !conflict
}

// ParseClock converts HH:MM (hour may be a single digit) into minutes from midnight.
func ParseClock(clock string) (int, error) {
	t, err := time.Parse(timezone.ClockLayout, clock)
	if err != nil {
		return 0, ErrInvalidInterval
	}
	return t.Hour()*60 + t.Minute(), nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
