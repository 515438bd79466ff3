package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/dto"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

type ListAppointmentsByDate struct {
	repo     domain.Repository
	settings Settings
}

func NewListAppointmentsByDate(
	repo domain.Repository,
	settings Settings,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo:     repo,
		settings: settings,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	doctorID uint,
	date string,
) ([]dto.AppointmentListDTO, error) {

	day, err := uc.settings.parseDate(date)
	if err != nil {
		return nil, err
	}

	appointments, err := uc.repo.ListForDay(ctx, doctorID, day)
	if err != nil {
		return nil, err
	}

	now := uc.settings.now()
	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, View(ap, now))
	}

	return out, nil
}

// View is the list row for ap with its upcoming and overdue flags at now.
func View(ap models.Appointment, now time.Time) dto.AppointmentListDTO {
	return dto.AppointmentListDTO{
		ID:          ap.ID,
		Date:        dateKey(ap.AppointmentDate),
		StartTime:   ap.AppointmentTime,
		EndTime:     domain.FormatClock(mustClock(ap.AppointmentTime) + ap.Duration),
		Duration:    ap.Duration,
		Status:      ap.Status,
		Type:        ap.Type,
		Priority:    ap.Priority,
		PatientID:   ap.PatientID,
		PatientName: ap.Patient.FullName(),
		DoctorID:    ap.DoctorID,
		DoctorName:  ap.Doctor.FullName(),
		IsUpcoming:  domain.IsUpcoming(ap, now),
		IsOverdue:   domain.IsOverdue(ap, now),
	}
}

func mustClock(clock string) int {
	m, _ := domain.ParseClock(clock)
	return m
}
