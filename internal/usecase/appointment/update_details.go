package appointment

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/hospital-manager/internal/audit"
	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

// UpdateDetailsInput holds the clinical fields staff may edit. Nil leaves a
// field untouched.
type UpdateDetailsInput struct {
	AppointmentID uint
	ActorID       uint

	Type     *string
	Priority *string
	Symptoms *string
	Notes    *string
}

// UpdateDetails edits type, priority, symptoms and notes. Time changes go
// through reschedule and status changes through ChangeStatus.
type UpdateDetails struct {
	repo  domain.Repository
	audit audit.Sink
}

func NewUpdateDetails(repo domain.Repository, audit audit.Sink) *UpdateDetails {
	return &UpdateDetails{repo: repo, audit: audit}
}

func (uc *UpdateDetails) Execute(
	ctx context.Context,
	in UpdateDetailsInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil || ap == nil {
		return nil, errAppointmentNotFound
	}
	if domain.Status(ap.Status).IsTerminal() {
		return nil, domain.ErrInvalidState
	}

	typ, priority := ap.Type, ap.Priority
	if in.Type != nil {
		typ = strings.TrimSpace(*in.Type)
	}
	if in.Priority != nil {
		priority = strings.TrimSpace(*in.Priority)
	}
	if typ, priority, err = domain.NormalizeKind(typ, priority); err != nil {
		return nil, err
	}
	ap.Type, ap.Priority = typ, priority

	if in.Symptoms != nil {
		ap.Symptoms = strings.TrimSpace(*in.Symptoms)
	}
	if in.Notes != nil {
		ap.Notes = strings.TrimSpace(*in.Notes)
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.ActorID,
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"type":     ap.Type,
			"priority": ap.Priority,
		},
	})

	return ap, nil
}
