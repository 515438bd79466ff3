package appointment

import (
	"time"

	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

type AvailabilityInput struct {
	DoctorID uint
	Date     time.Time
}

// Window is a [Start, End) range of minutes within a day.
type Window struct {
	Start int
	End   int
}

func ParseWindow(start, end string) (Window, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Window{}, err
	}
	if s >= e {
		return Window{}, ErrInvalidInterval
	}
	return Window{Start: s, End: e}, nil
}

func (w Window) overlaps(start, end int) bool {
	return start < w.End && w.Start < end
}

// Schedule is the working window for one doctor on one day.
type Schedule struct {
	Open   bool
	Window Window
	Breaks []Window
}

// ScheduleFor resolves a doctor's window: their own working hours for that
// weekday when configured, otherwise the hospital default.
func ScheduleFor(wh *models.WorkingHours, fallback Window) Schedule {
	if wh == nil {
		return Schedule{Open: true, Window: fallback}
	}
	if !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return Schedule{Open: false}
	}

	w, err := ParseWindow(wh.StartTime, wh.EndTime)
	if err != nil {
		return Schedule{Open: false}
	}

	s := Schedule{Open: true, Window: w}
	if wh.BreakStart != "" && wh.BreakEnd != "" {
		if b, err := ParseWindow(wh.BreakStart, wh.BreakEnd); err == nil {
			s.Breaks = append(s.Breaks, b)
		}
	}
	return s
}

// Fits reports whether iv lies inside the window and clear of every break.
func (s Schedule) Fits(iv Interval) bool {
	if !s.Open {
		return false
	}
	if iv.Start < s.Window.Start || iv.End() > s.Window.End {
		return false
	}
	for _, b := range s.Breaks {
		if b.overlaps(iv.Start, iv.End()) {
			return false
		}
	}
	return true
}

type TimeSlot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

// EnumerateSlots cuts the schedule into fixed-width slots and tags each one
// with the overlap checker. Slots that cross a break are unavailable.
func EnumerateSlots(doctorID uint, date time.Time, s Schedule, width int, existing []Booking) []TimeSlot {
	slots := []TimeSlot{}
	if !s.Open || width <= 0 {
		return slots
	}

	for cur := s.Window.Start; cur+width <= s.Window.End; cur += width {
		candidate := Interval{
			DoctorID: doctorID,
			Date:     date,
			Start:    cur,
			Duration: width,
		}

		available := s.Fits(candidate) && IsAvailable(candidate, existing)

		slots = append(slots, TimeSlot{
			Start:     candidate.StartClock(),
			End:       candidate.EndClock(),
			Available: available,
		})
	}

	return slots
}
