package patient

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/hospital-manager/internal/audit"
	apptDomain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	recordDomain "github.com/BruksfildServices01/hospital-manager/internal/domain/medicalrecord"
	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/patient"
	"github.com/BruksfildServices01/hospital-manager/internal/dto"
	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
	"github.com/BruksfildServices01/hospital-manager/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/hospital-manager/internal/usecase/appointment"
	ucRecord "github.com/BruksfildServices01/hospital-manager/internal/usecase/medicalrecord"
)

const recentRecords = 5

var errNameRequired = httperr.ErrBusiness("name_required")

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

// View attaches the age at now.
func View(u models.User, now time.Time) dto.PatientDTO {
	return dto.PatientDTO{User: u, Age: domain.Age(u.DateOfBirth, now)}
}

func load(ctx context.Context, repo domain.Repository, id uint) (*models.User, error) {
	u, err := repo.GetPatient(ctx, id)
	if err != nil || u == nil || u.Role != models.RolePatient {
		return nil, domain.ErrPatientNotFound
	}
	return u, nil
}

// ======================================================
// GET
// ======================================================

type GetPatient struct {
	repo     domain.Repository
	settings Settings
}

func NewGetPatient(repo domain.Repository, settings Settings) *GetPatient {
	return &GetPatient{repo: repo, settings: settings}
}

func (uc *GetPatient) Execute(ctx context.Context, id uint) (*dto.PatientDTO, error) {
	u, err := load(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}
	v := View(*u, uc.settings.now())
	return &v, nil
}

// ======================================================
// SUMMARY
// ======================================================

type Summary struct {
	repo     domain.Repository
	records  recordDomain.Repository
	settings Settings
}

func NewSummary(repo domain.Repository, records recordDomain.Repository, settings Settings) *Summary {
	return &Summary{repo: repo, records: records, settings: settings}
}

// Execute builds the chart header. Recent records follow the viewer's
// confidentiality rules.
func (uc *Summary) Execute(
	ctx context.Context,
	id uint,
	viewer apptDomain.Viewer,
) (*dto.PatientSummaryDTO, error) {

	u, err := load(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}
	now := uc.settings.now()

	counts, err := uc.repo.CountAppointmentsByStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := uc.repo.NextAppointment(ctx, id, now)
	if err != nil {
		return nil, err
	}
	last, err := uc.repo.LastVisit(ctx, id)
	if err != nil {
		return nil, err
	}

	recs, totalRecs, err := uc.records.ListRecords(ctx, recordDomain.Scope(recordDomain.ListFilter{
		PatientID: id,
		Page:      1,
		Limit:     recentRecords,
	}, viewer))
	if err != nil {
		return nil, err
	}

	out := &dto.PatientSummaryDTO{
		Patient:              View(*u, now),
		AppointmentsByStatus: counts,
		TotalRecords:         totalRecs,
		RecentRecords:        make([]dto.MedicalRecordDTO, 0, len(recs)),
	}
	if out.AppointmentsByStatus == nil {
		out.AppointmentsByStatus = []apptDomain.StatusCount{}
	}
	for _, c := range counts {
		out.TotalAppointments += c.Count
	}
	if next != nil {
		v := ucAppointment.View(*next, now)
		out.NextAppointment = &v
	}
	if last != nil {
		v := ucAppointment.View(*last, now)
		out.LastVisit = &v
	}
	for _, r := range recs {
		out.RecentRecords = append(out.RecentRecords, ucRecord.View(r))
	}
	return out, nil
}

// ======================================================
// UPDATE
// ======================================================

// UpdatePatientInput leaves nil fields untouched.
type UpdatePatientInput struct {
	FirstName   *string
	LastName    *string
	Phone       *string
	DateOfBirth *time.Time
	Gender      *string
	BloodGroup  *string
}

type UpdatePatient struct {
	repo     domain.Repository
	audit    audit.Sink
	settings Settings
}

func NewUpdatePatient(repo domain.Repository, audit audit.Sink, settings Settings) *UpdatePatient {
	return &UpdatePatient{repo: repo, audit: audit, settings: settings}
}

func (uc *UpdatePatient) Execute(
	ctx context.Context,
	id uint,
	actorID uint,
	in UpdatePatientInput,
) (*dto.PatientDTO, error) {

	u, err := load(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&u.FirstName, in.FirstName)
	set(&u.LastName, in.LastName)
	set(&u.Phone, in.Phone)
	set(&u.Gender, in.Gender)
	set(&u.BloodGroup, in.BloodGroup)
	u.Gender = strings.ToLower(u.Gender)
	u.BloodGroup = strings.ToUpper(u.BloodGroup)
	if in.DateOfBirth != nil {
		u.DateOfBirth = in.DateOfBirth
	}

	now := uc.settings.now()
	if u.FirstName == "" || u.LastName == "" {
		return nil, errNameRequired
	}
	if err := domain.ValidateDemographics(u.Gender, u.BloodGroup, u.DateOfBirth, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdatePatient(ctx, u); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   "patient_updated",
		Entity:   "user",
		EntityID: &u.ID,
	})

	v := View(*u, now)
	return &v, nil
}
