package appointment

import (
	"time"

	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/timezone"
)

const defaultDuration = 30

// Settings carries the hospital-wide scheduling defaults.
type Settings struct {
	Timezone    string
	Window      domain.Window
	SlotMinutes int

	// Now is overridable in tests.
	Now func() time.Time
}

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now().In(timezone.Location(s.Timezone))
	}
	return timezone.NowIn(s.Timezone)
}

func (s Settings) slotWidth() int {
	if s.SlotMinutes <= 0 {
		return defaultDuration
	}
	return s.SlotMinutes
}

func (s Settings) parseDate(date string) (time.Time, error) {
	d, err := timezone.ParseDate(date, s.Timezone)
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	return d, nil
}

func dateKey(t time.Time) string {
	return t.Format(timezone.DateLayout)
}
