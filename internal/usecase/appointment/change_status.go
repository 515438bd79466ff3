package appointment

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/hospital-manager/internal/audit"
	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

type ChangeStatusInput struct {
	AppointmentID uint
	To            domain.Status
	ActorID       uint

	// Notes is appended to the appointment notes; Diagnosis is stored on completion.
	Notes     string
	Diagnosis string
}

// ChangeStatus drives confirm, start, complete, cancel and no-show.
type ChangeStatus struct {
	repo     domain.Repository
	cache    domain.SlotCache
	audit    audit.Sink
	settings Settings
}

func NewChangeStatus(
	repo domain.Repository,
	cache domain.SlotCache,
	audit audit.Sink,
	settings Settings,
) *ChangeStatus {
	return &ChangeStatus{
		repo:     repo,
		cache:    cache,
		audit:    audit,
		settings: settings,
	}
}

var statusActions = map[domain.Status]string{
	domain.StatusConfirmed:  "appointment_confirmed",
	domain.StatusInProgress: "appointment_started",
	domain.StatusCompleted:  "appointment_completed",
	domain.StatusCancelled:  "appointment_cancelled",
	domain.StatusNoShow:     "appointment_no_show",
}

func (uc *ChangeStatus) Execute(
	ctx context.Context,
	in ChangeStatusInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil || ap == nil {
		return nil, errAppointmentNotFound
	}

	from := domain.Status(ap.Status)
	if err := domain.Transition(ap, in.To, uc.settings.now()); err != nil {
		return nil, err
	}

	if n := strings.TrimSpace(in.Notes); n != "" {
		if ap.Notes != "" {
			ap.Notes += "\n"
		}
		ap.Notes += n
	}
	if in.To == domain.StatusCompleted && strings.TrimSpace(in.Diagnosis) != "" {
		ap.Diagnosis = strings.TrimSpace(in.Diagnosis)
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// Leaving a blocking status frees the slot.
	if from.IsBlocking() != in.To.IsBlocking() {
		uc.cache.Invalidate(ctx, ap.DoctorID, dateKey(ap.AppointmentDate))
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.ActorID,
		Action:   statusActions[in.To],
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]string{"from": string(from), "to": string(in.To)},
	})

	return ap, nil
}
