package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	apptDomain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/medicalrecord"
	"github.com/BruksfildServices01/hospital-manager/internal/dto"
	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/httpresp"
	"github.com/BruksfildServices01/hospital-manager/internal/middleware"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
	"github.com/BruksfildServices01/hospital-manager/internal/timezone"
)

type recordCreator interface {
	Execute(ctx context.Context, appointmentID, doctorID uint, rec models.MedicalRecord) (*dto.MedicalRecordDTO, error)
}

type recordGetter interface {
	Execute(ctx context.Context, id uint, viewer apptDomain.Viewer) (*dto.MedicalRecordDTO, error)
}

type recordLister interface {
	Execute(ctx context.Context, f domain.ListFilter, viewer apptDomain.Viewer) ([]dto.MedicalRecordDTO, int64, error)
}

type MedicalRecordHandler struct {
	create recordCreator
	get    recordGetter
	list   recordLister
	tz     string
}

func NewMedicalRecordHandler(
	create recordCreator,
	get recordGetter,
	list recordLister,
	tz string,
) *MedicalRecordHandler {
	return &MedicalRecordHandler{create: create, get: get, list: list, tz: tz}
}

// --------- Requests ---------

type CreateMedicalRecordRequest struct {
	AppointmentID  uint   `json:"appointment_id" binding:"required"`
	VisitDate      string `json:"visit_date"`
	ChiefComplaint string `json:"chief_complaint" binding:"required"`
	PresentIllness string `json:"present_illness" binding:"required"`

	History     models.MedicalHistory `json:"history"`
	Vitals      models.Vitals         `json:"vitals"`
	Diagnosis   models.Diagnosis      `json:"diagnosis"`
	Medications []models.Prescription `json:"medications"`
	Procedures  []models.Procedure    `json:"procedures"`
	Referrals   []models.Referral     `json:"referrals"`
	LabResults  []models.LabResult    `json:"lab_results"`

	FollowUp       string `json:"follow_up_instructions"`
	Notes          string `json:"notes"`
	IsConfidential bool   `json:"is_confidential"`
}

// --------- Handlers ---------

func (h *MedicalRecordHandler) Create(c *gin.Context) {
	var req CreateMedicalRecordRequest
	if !bindJSON(c, &req) {
		return
	}

	rec := models.MedicalRecord{
		ChiefComplaint: req.ChiefComplaint,
		PresentIllness: req.PresentIllness,
		History:        req.History,
		Vitals:         req.Vitals,
		Diagnosis:      req.Diagnosis,
		Medications:    req.Medications,
		Procedures:     req.Procedures,
		Referrals:      req.Referrals,
		LabResults:     req.LabResults,
		FollowUp:       req.FollowUp,
		Notes:          req.Notes,
		IsConfidential: req.IsConfidential,
	}

	if req.VisitDate != "" {
		d, err := timezone.ParseDate(req.VisitDate, h.tz)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Date is invalid.")
			return
		}
		rec.VisitDate = d
	}

	out, err := h.create.Execute(c.Request.Context(), req.AppointmentID, middleware.UserID(c), rec)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, out)
}

func (h *MedicalRecordHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	rec, err := h.get.Execute(c.Request.Context(), id, viewerOf(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, rec)
}

func (h *MedicalRecordHandler) List(c *gin.Context) {
	patientID, ok := optionalUintQuery(c, "patient_id")
	if !ok {
		return
	}
	doctorID, ok := optionalUintQuery(c, "doctor_id")
	if !ok {
		return
	}
	appointmentID, ok := optionalUintQuery(c, "appointment_id")
	if !ok {
		return
	}

	h.respondList(c, domain.ListFilter{
		PatientID:     patientID,
		DoctorID:      doctorID,
		AppointmentID: appointmentID,
	})
}

// ListForPatient serves /patients/:id/medical-records.
func (h *MedicalRecordHandler) ListForPatient(c *gin.Context) {
	patientID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if !ownPatientOrStaff(c, patientID) {
		return
	}

	h.respondList(c, domain.ListFilter{PatientID: patientID})
}

func (h *MedicalRecordHandler) respondList(c *gin.Context, f domain.ListFilter) {
	f.Page, f.Limit = pageParams(c)

	recs, total, err := h.list.Execute(c.Request.Context(), f, viewerOf(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Page(c, recs, total, f.Page, f.Limit)
}
