package appointment

import "github.com/BruksfildServices01/hospital-manager/internal/models"

// ValidateWorkingHours checks one weekday entry before it is stored.
func ValidateWorkingHours(wh models.WorkingHours) error {
	if wh.Weekday < 0 || wh.Weekday > 6 {
		return ErrInvalidInterval
	}
	if !wh.Active {
		return nil
	}

	w, err := ParseWindow(wh.StartTime, wh.EndTime)
	if err != nil {
		return err
	}

	if wh.BreakStart == "" && wh.BreakEnd == "" {
		return nil
	}
	b, err := ParseWindow(wh.BreakStart, wh.BreakEnd)
	if err != nil {
		return err
	}
	if b.Start < w.Start || b.End > w.End {
		return ErrInvalidInterval
	}
	return nil
}
