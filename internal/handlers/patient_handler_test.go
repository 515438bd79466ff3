package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apptDomain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/dto"
	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
	ucPatient "github.com/BruksfildServices01/hospital-manager/internal/usecase/patient"
)

type stubPatientGet struct{}

func (stubPatientGet) Execute(_ context.Context, id uint) (*dto.PatientDTO, error) {
	if id == 404 {
		return nil, httperr.ErrBusiness("patient_not_found")
	}
	age := 33
	return &dto.PatientDTO{User: models.User{ID: id, Role: models.RolePatient}, Age: &age}, nil
}

type stubPatientSummary struct {
	viewer apptDomain.Viewer
}

func (s *stubPatientSummary) Execute(_ context.Context, id uint, viewer apptDomain.Viewer) (*dto.PatientSummaryDTO, error) {
	s.viewer = viewer
	return &dto.PatientSummaryDTO{TotalAppointments: 5}, nil
}

type stubPatientUpdate struct {
	id, actorID uint
	in          ucPatient.UpdatePatientInput
}

func (s *stubPatientUpdate) Execute(_ context.Context, id, actorID uint, in ucPatient.UpdatePatientInput) (*dto.PatientDTO, error) {
	s.id, s.actorID, s.in = id, actorID, in
	return &dto.PatientDTO{User: models.User{ID: id}}, nil
}

func patientRouter(userID uint, role string) (*gin.Engine, *stubPatientSummary, *stubPatientUpdate) {
	summary, update := &stubPatientSummary{}, &stubPatientUpdate{}
	h := NewPatientHandler(nil, PatientUseCases{
		Get:     stubPatientGet{},
		Summary: summary,
		Update:  update,
	}, "UTC")

	r := gin.New()
	r.Use(asUser(userID, role))
	r.GET("/patients/:id", h.Get)
	r.GET("/patients/:id/summary", h.Summary)
	r.PATCH("/patients/:id", h.Update)
	return r, summary, update
}

func TestPatientHandler_Get(t *testing.T) {
	r, _, _ := patientRouter(9, models.RoleReceptionist)

	w := doJSON(r, http.MethodGet, "/patients/4", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"age":33`)

	w = doJSON(r, http.MethodGet, "/patients/404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "patient_not_found", errorCode(t, w))
}

func TestPatientHandler_PatientsSeeOnlyThemselves(t *testing.T) {
	r, _, _ := patientRouter(4, models.RolePatient)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/patients/4", nil).Code)

	for _, path := range []string{"/patients/5", "/patients/5/summary"} {
		w := doJSON(r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, path)
	}
	assert.Equal(t, http.StatusForbidden, doJSON(r, http.MethodPatch, "/patients/5", map[string]string{}).Code)
}

func TestPatientHandler_Summary(t *testing.T) {
	r, s, _ := patientRouter(10, models.RoleDoctor)

	w := doJSON(r, http.MethodGet, "/patients/4/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_appointments":5`)
	assert.Equal(t, apptDomain.Viewer{ID: 10, Role: models.RoleDoctor}, s.viewer)
}

func TestPatientHandler_Update(t *testing.T) {
	r, _, u := patientRouter(4, models.RolePatient)

	w := doJSON(r, http.MethodPatch, "/patients/4", map[string]string{
		"phone":         "555-0100",
		"date_of_birth": "1990-07-01",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(4), u.id)
	assert.Equal(t, uint(4), u.actorID)
	require.NotNil(t, u.in.Phone)
	assert.Equal(t, "555-0100", *u.in.Phone)
	require.NotNil(t, u.in.DateOfBirth)
	assert.Equal(t, 1990, u.in.DateOfBirth.Year())
	assert.Nil(t, u.in.FirstName)

	w = doJSON(r, http.MethodPatch, "/patients/4", map[string]string{"date_of_birth": "01/07/1990"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_date", errorCode(t, w))
}
