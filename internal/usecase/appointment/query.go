package appointment

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/dto"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

// ======================================================
// GET
// ======================================================

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

// Execute hides appointments the viewer takes no part in behind
// appointment_not_found.
func (uc *GetAppointment) Execute(
	ctx context.Context,
	id uint,
	viewer domain.Viewer,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, id)
	if err != nil || ap == nil {
		return nil, errAppointmentNotFound
	}
	if !domain.CanView(*ap, viewer) {
		return nil, errAppointmentNotFound
	}
	return ap, nil
}

// ======================================================
// LIST
// ======================================================

type ListAppointmentsQuery struct {
	PatientID    uint
	DoctorID     uint
	DepartmentID uint
	Status       string
	Type         string
	Priority     string
	Date         string

	Page  int
	Limit int
}

type ListAppointments struct {
	repo     domain.Repository
	settings Settings
}

func NewListAppointments(repo domain.Repository, settings Settings) *ListAppointments {
	return &ListAppointments{repo: repo, settings: settings}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	q ListAppointmentsQuery,
	viewer domain.Viewer,
) ([]dto.AppointmentListDTO, int64, error) {

	f := domain.ListFilter{
		PatientID:    q.PatientID,
		DoctorID:     q.DoctorID,
		DepartmentID: q.DepartmentID,
		Status:       domain.Status(strings.TrimSpace(q.Status)),
		Type:         strings.TrimSpace(q.Type),
		Priority:     strings.TrimSpace(q.Priority),
		Page:         q.Page,
		Limit:        q.Limit,
	}

	if f.Status != "" && !f.Status.IsValid() {
		return nil, 0, errInvalidStatus
	}
	if f.Type != "" && !domain.IsValidType(f.Type) {
		return nil, 0, domain.ErrInvalidType
	}
	if f.Priority != "" && !domain.IsValidPriority(f.Priority) {
		return nil, 0, domain.ErrInvalidPriority
	}
	if q.Date != "" {
		day, err := uc.settings.parseDate(q.Date)
		if err != nil {
			return nil, 0, err
		}
		f.Day = &day
	}

	if viewer.DepartmentID == nil && (viewer.Role == models.RoleNurse || viewer.Role == models.RoleReceptionist) {
		if u, err := uc.repo.GetUser(ctx, viewer.ID); err == nil && u != nil {
			viewer.DepartmentID = u.DepartmentID
		}
	}

	apps, total, err := uc.repo.ListAppointments(ctx, domain.Scope(f, viewer))
	if err != nil {
		return nil, 0, err
	}

	now := uc.settings.now()
	out := make([]dto.AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, View(ap, now))
	}
	return out, total, nil
}

// ======================================================
// STATS
// ======================================================

type AppointmentStats struct {
	repo     domain.Repository
	settings Settings
}

func NewAppointmentStats(repo domain.Repository, settings Settings) *AppointmentStats {
	return &AppointmentStats{repo: repo, settings: settings}
}

// Execute counts visits per status over period. Doctors only ever see
// their own figures.
func (uc *AppointmentStats) Execute(
	ctx context.Context,
	period string,
	viewer domain.Viewer,
) (*dto.AppointmentStatsDTO, error) {

	now := uc.settings.now()
	since, err := domain.PeriodStart(period, now)
	if err != nil {
		return nil, err
	}
	if period == "" {
		period = "month"
	}

	var doctorID uint
	if viewer.Role == models.RoleDoctor {
		doctorID = viewer.ID
	}

	counts, err := uc.repo.CountByStatus(ctx, since, doctorID)
	if err != nil {
		return nil, err
	}
	upcoming, err := uc.repo.CountUpcoming(ctx, now, doctorID)
	if err != nil {
		return nil, err
	}

	out := &dto.AppointmentStatsDTO{
		Period:   period,
		Since:    dateKey(since),
		Upcoming: upcoming,
		Revenue:  domain.Revenue(counts),
		ByStatus: counts,
	}
	if out.ByStatus == nil {
		out.ByStatus = []domain.StatusCount{}
	}
	for _, c := range counts {
		out.Total += c.Count
	}
	return out, nil
}
