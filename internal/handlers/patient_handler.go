package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	apptDomain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/dto"
	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/httpresp"
	"github.com/BruksfildServices01/hospital-manager/internal/middleware"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
	"github.com/BruksfildServices01/hospital-manager/internal/timezone"
	ucPatient "github.com/BruksfildServices01/hospital-manager/internal/usecase/patient"
)

type patientGetter interface {
	Execute(ctx context.Context, id uint) (*dto.PatientDTO, error)
}

type patientSummarizer interface {
	Execute(ctx context.Context, id uint, viewer apptDomain.Viewer) (*dto.PatientSummaryDTO, error)
}

type patientUpdater interface {
	Execute(ctx context.Context, id, actorID uint, in ucPatient.UpdatePatientInput) (*dto.PatientDTO, error)
}

// PatientUseCases groups the chart use cases; the directory search reads
// the database directly.
type PatientUseCases struct {
	Get     patientGetter
	Summary patientSummarizer
	Update  patientUpdater
}

type PatientHandler struct {
	db *gorm.DB
	uc PatientUseCases
	tz string
}

func NewPatientHandler(db *gorm.DB, uc PatientUseCases, tz string) *PatientHandler {
	return &PatientHandler{db: db, uc: uc, tz: tz}
}

type UpdatePatientRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"date_of_birth"`
	Gender      *string `json:"gender"`
	BloodGroup  *string `json:"blood_group"`
}

func (h *PatientHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))
	page, limit := pageParams(c)

	q := h.db.Model(&models.User{}).Where("role = ?", models.RolePatient)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	var patients []models.User
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&patients).Error; err != nil {

		httperr.FromError(c, err)
		return
	}

	now := timezone.NowIn(h.tz)
	out := make([]dto.PatientDTO, 0, len(patients))
	for _, p := range patients {
		out = append(out, ucPatient.View(p, now))
	}

	httpresp.Page(c, out, total, page, limit)
}

func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok || !ownPatientOrStaff(c, id) {
		return
	}

	p, err := h.uc.Get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, p)
}

func (h *PatientHandler) Summary(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok || !ownPatientOrStaff(c, id) {
		return
	}

	s, err := h.uc.Summary.Execute(c.Request.Context(), id, viewerOf(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, s)
}

// Update lets staff, or the patient themself, correct contact and
// demographic fields.
func (h *PatientHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok || !ownPatientOrStaff(c, id) {
		return
	}

	var req UpdatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	in := ucPatient.UpdatePatientInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Gender:     req.Gender,
		BloodGroup: req.BloodGroup,
	}
	if req.DateOfBirth != nil {
		d, err := timezone.ParseDate(*req.DateOfBirth, h.tz)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Date is invalid.")
			return
		}
		in.DateOfBirth = &d
	}

	p, err := h.uc.Update.Execute(c.Request.Context(), id, middleware.UserID(c), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, p)
}
