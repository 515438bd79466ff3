package appointment

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/hospital-manager/internal/audit"
	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	PatientID    uint
	DoctorID     uint
	DepartmentID *uint

	Date     string
	Time     string
	Duration int

	Type     string
	Priority string
	Symptoms string
	Notes    string

	CreatedByID uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     domain.Repository
	cache    domain.SlotCache
	audit    audit.Sink
	settings Settings
}

func NewCreateAppointment(
	repo domain.Repository,
	cache domain.SlotCache,
	audit audit.Sink,
	settings Settings,
) *CreateAppointment {
	return &CreateAppointment{
		repo:     repo,
		cache:    cache,
		audit:    audit,
		settings: settings,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// Date in the hospital timezone
	// --------------------------------------------------
	date, err := uc.settings.parseDate(in.Date)
	if err != nil {
		return nil, err
	}

	typ, priority, err := domain.NormalizeKind(strings.TrimSpace(in.Type), strings.TrimSpace(in.Priority))
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Participants
	// --------------------------------------------------
	if _, err := loadUserWithRole(ctx, uc.repo, in.PatientID, models.RolePatient, errPatientNotFound); err != nil {
		return nil, err
	}

	doctor, err := loadUserWithRole(ctx, uc.repo, in.DoctorID, models.RoleDoctor, errDoctorNotFound)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Interval + working hours
	// --------------------------------------------------
	duration := in.Duration
	if duration == 0 {
		duration = defaultDuration
	}

	iv, err := domain.NewInterval(doctor.ID, date, in.Time, duration)
	if err != nil {
		return nil, err
	}

	if iv.StartAt().Before(uc.settings.now()) {
		return nil, errInPast
	}

	schedule, err := scheduleFor(ctx, uc.repo, uc.settings, doctor.ID, date)
	if err != nil {
		return nil, err
	}
	if !schedule.Fits(iv) {
		return nil, errOutsideWorkingHours
	}

	// --------------------------------------------------
	// Insert under the doctor's day lock
	// --------------------------------------------------
	ap := &models.Appointment{
		PatientID:       in.PatientID,
		DepartmentID:    in.DepartmentID,
		Type:            typ,
		Priority:        priority,
		Status:          string(domain.InitialStatus()),
		Symptoms:        strings.TrimSpace(in.Symptoms),
		Notes:           strings.TrimSpace(in.Notes),
		ConsultationFee: doctor.ConsultationFee,
		CreatedByID:     in.CreatedByID,
	}
	if ap.DepartmentID == nil {
		ap.DepartmentID = doctor.DepartmentID
	}
	domain.Apply(ap, iv)

	if err := uc.repo.CreateAppointment(ctx, ap, conflictGuard(iv, 0)); err != nil {
		return nil, mapWriteError(err)
	}

	uc.cache.Invalidate(ctx, doctor.ID, dateKey(date))

	// --------------------------------------------------
	// Audit
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.CreatedByID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"doctor_id": doctor.ID,
			"date":      dateKey(date),
			"time":      ap.AppointmentTime,
			"duration":  ap.Duration,
		},
	})

	return ap, nil
}
