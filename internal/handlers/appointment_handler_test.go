package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/dto"
	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
	ucAppointment "github.com/BruksfildServices01/hospital-manager/internal/usecase/appointment"
)

type stubCreate struct {
	got ucAppointment.CreateAppointmentInput
	err error
}

func (s *stubCreate) Execute(_ context.Context, in ucAppointment.CreateAppointmentInput) (*models.Appointment, error) {
	s.got = in
	if s.err != nil {
		return nil, s.err
	}
	return &models.Appointment{ID: 1, PatientID: in.PatientID, DoctorID: in.DoctorID, Status: "scheduled"}, nil
}

type stubChangeStatus struct {
	got ucAppointment.ChangeStatusInput
	err error
}

func (s *stubChangeStatus) Execute(_ context.Context, in ucAppointment.ChangeStatusInput) (*models.Appointment, error) {
	s.got = in
	if s.err != nil {
		return nil, s.err
	}
	return &models.Appointment{ID: in.AppointmentID, Status: string(in.To)}, nil
}

type stubReschedule struct {
	got ucAppointment.RescheduleInput
}

func (s *stubReschedule) Execute(_ context.Context, in ucAppointment.RescheduleInput) (*models.Appointment, error) {
	s.got = in
	return &models.Appointment{ID: in.AppointmentID, AppointmentTime: in.Time}, nil
}

type stubList struct {
	doctorID uint
	date     string
}

func (s *stubList) Execute(_ context.Context, doctorID uint, date string) ([]dto.AppointmentListDTO, error) {
	s.doctorID, s.date = doctorID, date
	return []dto.AppointmentListDTO{{ID: 1, DoctorID: doctorID, Date: date}}, nil
}

type stubAvailability struct {
	err error
}

func (s *stubAvailability) Execute(_ context.Context, _ uint, _ string) ([]domain.TimeSlot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []domain.TimeSlot{
		{Start: "09:00", End: "09:30", Available: false},
		{Start: "09:30", End: "10:00", Available: true},
	}, nil
}

type stubGetAppointment struct {
	viewer domain.Viewer
}

func (s *stubGetAppointment) Execute(_ context.Context, id uint, viewer domain.Viewer) (*models.Appointment, error) {
	s.viewer = viewer
	if viewer.Role == models.RolePatient && viewer.ID != 4 {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	return &models.Appointment{ID: id, PatientID: 4}, nil
}

type stubQuery struct {
	got    ucAppointment.ListAppointmentsQuery
	viewer domain.Viewer
}

func (s *stubQuery) Execute(_ context.Context, q ucAppointment.ListAppointmentsQuery, viewer domain.Viewer) ([]dto.AppointmentListDTO, int64, error) {
	s.got, s.viewer = q, viewer
	return []dto.AppointmentListDTO{{ID: 1}, {ID: 2}}, 12, nil
}

type stubStats struct {
	period string
	viewer domain.Viewer
}

func (s *stubStats) Execute(_ context.Context, period string, viewer domain.Viewer) (*dto.AppointmentStatsDTO, error) {
	s.period, s.viewer = period, viewer
	if period == "decade" {
		return nil, domain.ErrInvalidPeriod
	}
	return &dto.AppointmentStatsDTO{Period: period, Total: 3}, nil
}

type stubUpdateDetails struct {
	got ucAppointment.UpdateDetailsInput
}

func (s *stubUpdateDetails) Execute(_ context.Context, in ucAppointment.UpdateDetailsInput) (*models.Appointment, error) {
	s.got = in
	return &models.Appointment{ID: in.AppointmentID}, nil
}

type appointmentStubs struct {
	create       *stubCreate
	changeStatus *stubChangeStatus
	reschedule   *stubReschedule
	list         *stubList
	availability *stubAvailability
	get          *stubGetAppointment
	query        *stubQuery
	stats        *stubStats
	update       *stubUpdateDetails
}

func appointmentRouter(userID uint, role string) (*gin.Engine, *appointmentStubs) {
	s := &appointmentStubs{
		create:       &stubCreate{},
		changeStatus: &stubChangeStatus{},
		reschedule:   &stubReschedule{},
		list:         &stubList{},
		availability: &stubAvailability{},
		get:          &stubGetAppointment{},
		query:        &stubQuery{},
		stats:        &stubStats{},
		update:       &stubUpdateDetails{},
	}
	h := NewAppointmentHandler(AppointmentUseCases{
		Create:        s.create,
		ChangeStatus:  s.changeStatus,
		Reschedule:    s.reschedule,
		ListByDate:    s.list,
		Availability:  s.availability,
		Get:           s.get,
		List:          s.query,
		Stats:         s.stats,
		UpdateDetails: s.update,
	})

	r := gin.New()
	r.Use(asUser(userID, role))
	r.POST("/appointments", h.Create)
	r.GET("/appointments", h.List)
	r.GET("/appointments/day", h.ListByDate)
	r.GET("/appointments/stats", h.Stats)
	r.GET("/appointments/:id", h.Get)
	r.PATCH("/appointments/:id", h.Update)
	r.GET("/patients/:id/appointments", h.ListForPatient)
	r.GET("/doctors/:id/availability", h.Availability)
	r.PATCH("/appointments/:id/confirm", h.Confirm)
	r.PATCH("/appointments/:id/start", h.Start)
	r.PATCH("/appointments/:id/complete", h.Complete)
	r.PATCH("/appointments/:id/cancel", h.Cancel)
	r.PATCH("/appointments/:id/no-show", h.NoShow)
	r.PATCH("/appointments/:id/reschedule", h.Reschedule)
	return r, s
}

func TestAppointmentHandler_Create(t *testing.T) {
	r, s := appointmentRouter(9, models.RoleReceptionist)

	w := doJSON(r, http.MethodPost, "/appointments", map[string]any{
		"patient_id": 4,
		"doctor_id":  2,
		"date":       "2024-01-20",
		"time":       "10:00",
		"duration":   30,
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint(4), s.create.got.PatientID)
	assert.Equal(t, uint(2), s.create.got.DoctorID)
	assert.Equal(t, uint(9), s.create.got.CreatedByID)
	assert.Equal(t, "10:00", s.create.got.Time)
}

func TestAppointmentHandler_CreatePatientBooksForSelf(t *testing.T) {
	r, s := appointmentRouter(4, models.RolePatient)

	w := doJSON(r, http.MethodPost, "/appointments", map[string]any{
		"patient_id": 99,
		"doctor_id":  2,
		"date":       "2024-01-20",
		"time":       "10:00",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint(4), s.create.got.PatientID)
}

func TestAppointmentHandler_CreateRequiresPatientForStaff(t *testing.T) {
	r, _ := appointmentRouter(9, models.RoleReceptionist)

	w := doJSON(r, http.MethodPost, "/appointments", map[string]any{
		"doctor_id": 2,
		"date":      "2024-01-20",
		"time":      "10:00",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAppointmentHandler_CreateConflict(t *testing.T) {
	r, s := appointmentRouter(9, models.RoleReceptionist)
	s.create.err = domain.ErrSlotUnavailable

	w := doJSON(r, http.MethodPost, "/appointments", map[string]any{
		"patient_id": 4,
		"doctor_id":  2,
		"date":       "2024-01-20",
		"time":       "10:15",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "time_conflict", errorCode(t, w))
}

func TestAppointmentHandler_CreateInvalidInterval(t *testing.T) {
	r, s := appointmentRouter(9, models.RoleReceptionist)
	s.create.err = domain.ErrInvalidInterval

	w := doJSON(r, http.MethodPost, "/appointments", map[string]any{
		"patient_id": 4,
		"doctor_id":  2,
		"date":       "2024-01-20",
		"time":       "23:45",
		"duration":   30,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_interval", errorCode(t, w))
}

func TestAppointmentHandler_ListByDate(t *testing.T) {
	t.Run("missing date", func(t *testing.T) {
		r, _ := appointmentRouter(2, models.RoleDoctor)
		w := doJSON(r, http.MethodGet, "/appointments/day", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "missing_date", errorCode(t, w))
	})

	t.Run("doctor defaults to own calendar", func(t *testing.T) {
		r, s := appointmentRouter(2, models.RoleDoctor)
		w := doJSON(r, http.MethodGet, "/appointments/day?date=2024-01-20", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint(2), s.list.doctorID)
		assert.Equal(t, "2024-01-20", s.list.date)
	})

	t.Run("staff must name the doctor", func(t *testing.T) {
		r, _ := appointmentRouter(9, models.RoleReceptionist)
		w := doJSON(r, http.MethodGet, "/appointments/day?date=2024-01-20", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "missing_doctor_id", errorCode(t, w))
	})

	t.Run("explicit doctor", func(t *testing.T) {
		r, s := appointmentRouter(9, models.RoleReceptionist)
		w := doJSON(r, http.MethodGet, "/appointments/day?date=2024-01-20&doctor_id=5", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint(5), s.list.doctorID)
		assert.Contains(t, w.Body.String(), `"total":1`)
	})
}

func TestAppointmentHandler_Availability(t *testing.T) {
	r, s := appointmentRouter(4, models.RolePatient)

	w := doJSON(r, http.MethodGet, "/doctors/2/availability?date=2024-01-20", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `{"start":"09:30","end":"10:00","available":true}`)

	w = doJSON(r, http.MethodGet, "/doctors/2/availability", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.availability.err = httperr.ErrBusiness("doctor_not_found")
	w = doJSON(r, http.MethodGet, "/doctors/2/availability?date=2024-01-20", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAppointmentHandler_Transitions(t *testing.T) {
	cases := map[string]domain.Status{
		"confirm":  domain.StatusConfirmed,
		"start":    domain.StatusInProgress,
		"complete": domain.StatusCompleted,
		"cancel":   domain.StatusCancelled,
		"no-show":  domain.StatusNoShow,
	}

	for action, want := range cases {
		t.Run(action, func(t *testing.T) {
			r, s := appointmentRouter(2, models.RoleDoctor)

			w := doJSON(r, http.MethodPatch, "/appointments/7/"+action, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, want, s.changeStatus.got.To)
			assert.Equal(t, uint(7), s.changeStatus.got.AppointmentID)
			assert.Equal(t, uint(2), s.changeStatus.got.ActorID)
		})
	}
}

func TestAppointmentHandler_CompleteWithDiagnosis(t *testing.T) {
	r, s := appointmentRouter(2, models.RoleDoctor)

	w := doJSON(r, http.MethodPatch, "/appointments/7/complete", map[string]string{"diagnosis": "Common cold"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Common cold", s.changeStatus.got.Diagnosis)
}

func TestAppointmentHandler_InvalidTransition(t *testing.T) {
	r, s := appointmentRouter(2, models.RoleDoctor)
	s.changeStatus.err = domain.CanTransition(domain.StatusCompleted, domain.StatusCancelled)

	w := doJSON(r, http.MethodPatch, "/appointments/7/cancel", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_state", errorCode(t, w))
}

func TestAppointmentHandler_Reschedule(t *testing.T) {
	r, s := appointmentRouter(9, models.RoleReceptionist)

	w := doJSON(r, http.MethodPatch, "/appointments/7/reschedule", map[string]any{
		"date": "2024-01-21",
		"time": "11:00",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-01-21", s.reschedule.got.Date)
	assert.Equal(t, "11:00", s.reschedule.got.Time)

	w = doJSON(r, http.MethodPatch, "/appointments/7/reschedule", `{"date":"2024-01-21"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", errorCode(t, w))
}

func TestAppointmentHandler_Get(t *testing.T) {
	r, s := appointmentRouter(4, models.RolePatient)

	w := doJSON(r, http.MethodGet, "/appointments/7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.Viewer{ID: 4, Role: models.RolePatient}, s.get.viewer)

	r, _ = appointmentRouter(5, models.RolePatient)
	w = doJSON(r, http.MethodGet, "/appointments/7", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "appointment_not_found", errorCode(t, w))

	w = doJSON(r, http.MethodGet, "/appointments/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAppointmentHandler_List(t *testing.T) {
	r, s := appointmentRouter(4, models.RolePatient)

	w := doJSON(r, http.MethodGet, "/appointments?status=scheduled&type=checkup&doctor_id=2&date=2024-01-20&page=2&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "scheduled", s.query.got.Status)
	assert.Equal(t, "checkup", s.query.got.Type)
	assert.Equal(t, uint(2), s.query.got.DoctorID)
	assert.Equal(t, "2024-01-20", s.query.got.Date)
	assert.Equal(t, 2, s.query.got.Page)
	assert.Equal(t, 5, s.query.got.Limit)
	assert.Equal(t, uint(4), s.query.viewer.ID)
	assert.Contains(t, w.Body.String(), `"total":12`)

	w = doJSON(r, http.MethodGet, "/appointments?patient_id=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_patient_id", errorCode(t, w))
}

func TestAppointmentHandler_Stats(t *testing.T) {
	r, s := appointmentRouter(2, models.RoleDoctor)

	w := doJSON(r, http.MethodGet, "/appointments/stats?period=week", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "week", s.stats.period)
	assert.Equal(t, models.RoleDoctor, s.stats.viewer.Role)

	w = doJSON(r, http.MethodGet, "/appointments/stats?period=decade", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_period", errorCode(t, w))
}

func TestAppointmentHandler_Update(t *testing.T) {
	r, s := appointmentRouter(9, models.RoleNurse)

	w := doJSON(r, http.MethodPatch, "/appointments/7", map[string]any{"priority": "urgent"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, s.update.got.Priority)
	assert.Equal(t, "urgent", *s.update.got.Priority)
	assert.Nil(t, s.update.got.Type)
	assert.Equal(t, uint(9), s.update.got.ActorID)
}

func TestAppointmentHandler_ListForPatient(t *testing.T) {
	r, s := appointmentRouter(2, models.RoleDoctor)

	w := doJSON(r, http.MethodGet, "/patients/4/appointments?patient_id=9&status=completed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(4), s.query.got.PatientID, "path wins over query")
	assert.Equal(t, "completed", s.query.got.Status)

	r, _ = appointmentRouter(4, models.RolePatient)
	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/patients/4/appointments", nil).Code)
	assert.Equal(t, http.StatusForbidden, doJSON(r, http.MethodGet, "/patients/5/appointments", nil).Code)
}
