package appointment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

var ErrInvalidPeriod = httperr.ErrBusiness("invalid_period")

// ListFilter narrows the appointment list. Zero values mean "any".
type ListFilter struct {
	PatientID    uint
	DoctorID     uint
	DepartmentID uint
	Status       Status
	Type         string
	Priority     string
	Day          *time.Time

	Page  int
	Limit int
}

// Viewer is the authenticated user a read is made for.
type Viewer struct {
	ID           uint
	Role         string
	DepartmentID *uint
}

// Scope restricts f to what v may list. Patients only ever see their own
// appointments. Doctors default to their own calendar and nurses and
// receptionists to their department, unless they name a doctor or patient.
func Scope(f ListFilter, v Viewer) ListFilter {
	switch v.Role {
	case models.RolePatient:
		f.PatientID = v.ID
	case models.RoleDoctor:
		if f.DoctorID == 0 && f.PatientID == 0 {
			f.DoctorID = v.ID
		}
	case models.RoleNurse, models.RoleReceptionist:
		if v.DepartmentID != nil && f.DoctorID == 0 && f.PatientID == 0 && f.DepartmentID == 0 {
			f.DepartmentID = *v.DepartmentID
		}
	}
	return f
}

// CanView reports whether v may read ap. Patients and doctors see only the
// visits they take part in.
func CanView(ap models.Appointment, v Viewer) bool {
	switch v.Role {
	case models.RolePatient:
		return ap.PatientID == v.ID
	case models.RoleDoctor:
		return ap.DoctorID == v.ID
	}
	return true
}

// StatusCount is one row of the per-status breakdown.
type StatusCount struct {
	Status string          `json:"status"`
	Count  int64           `json:"count"`
	Fees   decimal.Decimal `json:"total_fees"`
}

// Revenue sums the consultation fees of visits that were not cancelled or
// missed.
func Revenue(counts []StatusCount) decimal.Decimal {
	total := decimal.Zero
	for _, c := range counts {
		switch Status(c.Status) {
		case StatusCancelled, StatusNoShow:
			continue
		}
		total = total.Add(c.Fees)
	}
	return total
}

// PeriodStart returns the beginning of a week, month or year window ending
// at now. An empty period means month.
func PeriodStart(period string, now time.Time) (time.Time, error) {
	switch period {
	case "week":
		return now.AddDate(0, 0, -7), nil
	case "", "month":
		return now.AddDate(0, -1, 0), nil
	case "year":
		return now.AddDate(-1, 0, 0), nil
	}
	return time.Time{}, ErrInvalidPeriod
}
