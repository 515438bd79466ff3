package medicalrecord

import (
	"context"
	"time"

	"github.com/BruksfildServices01/hospital-manager/internal/audit"
	apptDomain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/medicalrecord"
	"github.com/BruksfildServices01/hospital-manager/internal/dto"
	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
	"github.com/BruksfildServices01/hospital-manager/internal/timezone"
)

var (
	errAppointmentNotFound = httperr.ErrBusiness("appointment_not_found")
	errAppointmentClosed   = httperr.ErrBusiness("appointment_closed")
	errRecordNotFound      = httperr.ErrBusiness("record_not_found")
)

type Settings struct {
	Timezone string
	Now      func() time.Time
}

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now().In(timezone.Location(s.Timezone))
	}
	return timezone.NowIn(s.Timezone)
}

// View attaches the BMI category.
func View(rec models.MedicalRecord) dto.MedicalRecordDTO {
	return dto.MedicalRecordDTO{
		MedicalRecord: rec,
		BMICategory:   domain.BMICategory(rec.Vitals.BMI),
	}
}

// ======================================================
// CREATE
// ======================================================

type CreateRecord struct {
	repo     domain.Repository
	audit    audit.Sink
	settings Settings
}

func NewCreateRecord(repo domain.Repository, audit audit.Sink, settings Settings) *CreateRecord {
	return &CreateRecord{repo: repo, audit: audit, settings: settings}
}

// Execute files rec against appointmentID on behalf of doctorID. Only the
// appointment's own doctor may write, and the patient is taken from the
// appointment.
func (uc *CreateRecord) Execute(
	ctx context.Context,
	appointmentID uint,
	doctorID uint,
	rec models.MedicalRecord,
) (*dto.MedicalRecordDTO, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil || ap == nil || ap.DoctorID != doctorID {
		return nil, errAppointmentNotFound
	}
	switch apptDomain.Status(ap.Status) {
	case apptDomain.StatusCancelled, apptDomain.StatusNoShow:
		return nil, errAppointmentClosed
	}

	if err := domain.Prepare(&rec); err != nil {
		return nil, err
	}

	rec.ID = 0
	rec.AppointmentID = ap.ID
	rec.PatientID = ap.PatientID
	rec.DoctorID = doctorID
	if rec.VisitDate.IsZero() {
		rec.VisitDate = uc.settings.now()
	}

	if err := uc.repo.CreateRecord(ctx, &rec); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &doctorID,
		Action:   "medical_record_created",
		Entity:   "medical_record",
		EntityID: &rec.ID,
		Metadata: map[string]any{
			"appointment_id": ap.ID,
			"patient_id":     ap.PatientID,
			"confidential":   rec.IsConfidential,
		},
	})

	v := View(rec)
	return &v, nil
}

// ======================================================
// READ
// ======================================================

type GetRecord struct {
	repo domain.Repository
}

func NewGetRecord(repo domain.Repository) *GetRecord {
	return &GetRecord{repo: repo}
}

// Execute reports record_not_found for records the viewer may not read.
func (uc *GetRecord) Execute(
	ctx context.Context,
	id uint,
	viewer apptDomain.Viewer,
) (*dto.MedicalRecordDTO, error) {

	rec, err := uc.repo.GetRecord(ctx, id)
	if err != nil || rec == nil || !domain.CanView(*rec, viewer) {
		return nil, errRecordNotFound
	}
	v := View(*rec)
	return &v, nil
}

type ListRecords struct {
	repo domain.Repository
}

func NewListRecords(repo domain.Repository) *ListRecords {
	return &ListRecords{repo: repo}
}

func (uc *ListRecords) Execute(
	ctx context.Context,
	f domain.ListFilter,
	viewer apptDomain.Viewer,
) ([]dto.MedicalRecordDTO, int64, error) {

	recs, total, err := uc.repo.ListRecords(ctx, domain.Scope(f, viewer))
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.MedicalRecordDTO, 0, len(recs))
	for _, r := range recs {
		out = append(out, View(r))
	}
	return out, total, nil
}
