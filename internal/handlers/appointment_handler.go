package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/dto"
	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/httpresp"
	"github.com/BruksfildServices01/hospital-manager/internal/middleware"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
	ucAppointment "github.com/BruksfildServices01/hospital-manager/internal/usecase/appointment"
)

// ======================================================
// USE CASE PORTS
// ======================================================

type appointmentCreator interface {
	Execute(ctx context.Context, in ucAppointment.CreateAppointmentInput) (*models.Appointment, error)
}

type appointmentStatusChanger interface {
	Execute(ctx context.Context, in ucAppointment.ChangeStatusInput) (*models.Appointment, error)
}

type appointmentRescheduler interface {
	Execute(ctx context.Context, in ucAppointment.RescheduleInput) (*models.Appointment, error)
}

type appointmentLister interface {
	Execute(ctx context.Context, doctorID uint, date string) ([]dto.AppointmentListDTO, error)
}

type availabilityGetter interface {
	Execute(ctx context.Context, doctorID uint, date string) ([]domain.TimeSlot, error)
}

type appointmentGetter interface {
	Execute(ctx context.Context, id uint, viewer domain.Viewer) (*models.Appointment, error)
}

type appointmentQuerier interface {
	Execute(ctx context.Context, q ucAppointment.ListAppointmentsQuery, viewer domain.Viewer) ([]dto.AppointmentListDTO, int64, error)
}

type appointmentStatsGetter interface {
	Execute(ctx context.Context, period string, viewer domain.Viewer) (*dto.AppointmentStatsDTO, error)
}

type appointmentDetailsUpdater interface {
	Execute(ctx context.Context, in ucAppointment.UpdateDetailsInput) (*models.Appointment, error)
}

// AppointmentUseCases groups the scheduling use cases the handler drives.
type AppointmentUseCases struct {
	Create        appointmentCreator
	ChangeStatus  appointmentStatusChanger
	Reschedule    appointmentRescheduler
	ListByDate    appointmentLister
	Availability  availabilityGetter
	Get           appointmentGetter
	List          appointmentQuerier
	Stats         appointmentStatsGetter
	UpdateDetails appointmentDetailsUpdater
}

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	uc AppointmentUseCases
}

func NewAppointmentHandler(uc AppointmentUseCases) *AppointmentHandler {
	return &AppointmentHandler{uc: uc}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	PatientID    uint   `json:"patient_id"`
	DoctorID     uint   `json:"doctor_id" binding:"required"`
	DepartmentID *uint  `json:"department_id"`
	Date         string `json:"date" binding:"required"`
	Time         string `json:"time" binding:"required"`
	Duration     int    `json:"duration" binding:"omitempty,min=1"`
	Type         string `json:"type"`
	Priority     string `json:"priority"`
	Symptoms     string `json:"symptoms"`
	Notes        string `json:"notes"`
}

type ChangeStatusRequest struct {
	Notes     string `json:"notes"`
	Diagnosis string `json:"diagnosis"`
}

type UpdateAppointmentRequest struct {
	Type     *string `json:"type"`
	Priority *string `json:"priority"`
	Symptoms *string `json:"symptoms"`
	Notes    *string `json:"notes"`
}

type RescheduleRequest struct {
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Duration int    `json:"duration" binding:"omitempty,min=1"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	actorID := middleware.UserID(c)

	// Patients book for themselves only.
	patientID := req.PatientID
	if c.GetString(middleware.ContextUserRole) == models.RolePatient {
		patientID = actorID
	}
	if patientID == 0 {
		httperr.BadRequest(c, "invalid_request", "patient_id is required.")
		return
	}

	ap, err := h.uc.Create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		PatientID:    patientID,
		DoctorID:     req.DoctorID,
		DepartmentID: req.DepartmentID,
		Date:         req.Date,
		Time:         req.Time,
		Duration:     req.Duration,
		Type:         req.Type,
		Priority:     req.Priority,
		Symptoms:     req.Symptoms,
		Notes:        req.Notes,
		CreatedByID:  actorID,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.uc.Get.Execute(c.Request.Context(), id, viewerOf(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// List pages through appointments visible to the caller.
func (h *AppointmentHandler) List(c *gin.Context) {
	q, ok := appointmentQuery(c)
	if !ok {
		return
	}

	list, total, err := h.uc.List.Execute(c.Request.Context(), q, viewerOf(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Page(c, list, total, q.Page, q.Limit)
}

// ListForPatient serves /patients/:id/appointments.
func (h *AppointmentHandler) ListForPatient(c *gin.Context) {
	patientID, ok := idParam(c, "id")
	if !ok || !ownPatientOrStaff(c, patientID) {
		return
	}

	q, ok := appointmentQuery(c)
	if !ok {
		return
	}
	q.PatientID = patientID

	list, total, err := h.uc.List.Execute(c.Request.Context(), q, viewerOf(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Page(c, list, total, q.Page, q.Limit)
}

func (h *AppointmentHandler) Stats(c *gin.Context) {
	stats, err := h.uc.Stats.Execute(c.Request.Context(), c.Query("period"), viewerOf(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, stats)
}

func appointmentQuery(c *gin.Context) (ucAppointment.ListAppointmentsQuery, bool) {
	var q ucAppointment.ListAppointmentsQuery
	var ok bool

	if q.PatientID, ok = optionalUintQuery(c, "patient_id"); !ok {
		return q, false
	}
	if q.DoctorID, ok = optionalUintQuery(c, "doctor_id"); !ok {
		return q, false
	}
	if q.DepartmentID, ok = optionalUintQuery(c, "department_id"); !ok {
		return q, false
	}

	q.Status = c.Query("status")
	q.Type = c.Query("type")
	q.Priority = c.Query("priority")
	q.Date = c.Query("date")
	q.Page, q.Limit = pageParams(c)
	return q, true
}

// ======================================================
// DAY VIEW
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Query parameter date is required.")
		return
	}

	doctorID, ok := optionalUintQuery(c, "doctor_id")
	if !ok {
		return
	}
	if doctorID == 0 {
		// Doctors default to their own calendar.
		if c.GetString(middleware.ContextUserRole) != models.RoleDoctor {
			httperr.BadRequest(c, "missing_doctor_id", "Query parameter doctor_id is required.")
			return
		}
		doctorID = middleware.UserID(c)
	}

	list, err := h.uc.ListByDate.Execute(c.Request.Context(), doctorID, dateStr)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, list)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	doctorID, ok := idParam(c, "id")
	if !ok {
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Query parameter date is required.")
		return
	}

	slots, err := h.uc.Availability.Execute(c.Request.Context(), doctorID, dateStr)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"doctor_id": doctorID,
		"date":      dateStr,
		"slots":     slots,
	})
}

// ======================================================
// STATUS TRANSITIONS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context)  { h.transition(c, domain.StatusConfirmed) }
func (h *AppointmentHandler) Start(c *gin.Context)    { h.transition(c, domain.StatusInProgress) }
func (h *AppointmentHandler) Complete(c *gin.Context) { h.transition(c, domain.StatusCompleted) }
func (h *AppointmentHandler) Cancel(c *gin.Context)   { h.transition(c, domain.StatusCancelled) }
func (h *AppointmentHandler) NoShow(c *gin.Context)   { h.transition(c, domain.StatusNoShow) }

func (h *AppointmentHandler) transition(c *gin.Context, to domain.Status) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	// Body is optional.
	var req ChangeStatusRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	ap, err := h.uc.ChangeStatus.Execute(c.Request.Context(), ucAppointment.ChangeStatusInput{
		AppointmentID: id,
		To:            to,
		ActorID:       middleware.UserID(c),
		Notes:         req.Notes,
		Diagnosis:     req.Diagnosis,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// DETAILS
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.uc.UpdateDetails.Execute(c.Request.Context(), ucAppointment.UpdateDetailsInput{
		AppointmentID: id,
		ActorID:       middleware.UserID(c),
		Type:          req.Type,
		Priority:      req.Priority,
		Symptoms:      req.Symptoms,
		Notes:         req.Notes,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req RescheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.uc.Reschedule.Execute(c.Request.Context(), ucAppointment.RescheduleInput{
		AppointmentID: id,
		Date:          req.Date,
		Time:          req.Time,
		Duration:      req.Duration,
		ActorID:       middleware.UserID(c),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, ap)
}
