package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/httpresp"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

type DoctorHandler struct {
	db *gorm.DB
}

func NewDoctorHandler(db *gorm.DB) *DoctorHandler {
	return &DoctorHandler{db: db}
}

type UpdateDoctorRequest struct {
	DepartmentID    *uint            `json:"department_id,omitempty"`
	Specialization  *string          `json:"specialization,omitempty"`
	ConsultationFee *decimal.Decimal `json:"consultation_fee,omitempty"`
	Active          *bool            `json:"active,omitempty"`
}

func (h *DoctorHandler) List(c *gin.Context) {
	departmentID, ok := optionalUintQuery(c, "department_id")
	if !ok {
		return
	}
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.
		Preload("Department").
		Where("role = ? AND active = ?", models.RoleDoctor, true)

	if departmentID != 0 {
		q = q.Where("department_id = ?", departmentID)
	}
	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(specialization) LIKE ?",
			like, like, like,
		)
	}

	var doctors []models.User
	if err := q.Order("last_name ASC, first_name ASC").Find(&doctors).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, doctors)
}

func (h *DoctorHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var doctor models.User
	if err := h.db.
		Preload("Department").
		Where("id = ? AND role = ?", id, models.RoleDoctor).
		First(&doctor).Error; err != nil {

		httperr.NotFound(c, "doctor_not_found", "Doctor not found.")
		return
	}

	c.JSON(http.StatusOK, doctor)
}

func (h *DoctorHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.ConsultationFee != nil && req.ConsultationFee.IsNegative() {
		httperr.BadRequest(c, "invalid_fee", "Consultation fee cannot be negative.")
		return
	}

	var doctor models.User
	if err := h.db.Where("id = ? AND role = ?", id, models.RoleDoctor).First(&doctor).Error; err != nil {
		httperr.NotFound(c, "doctor_not_found", "Doctor not found.")
		return
	}

	if req.DepartmentID != nil {
		var dep models.Department
		if err := h.db.First(&dep, *req.DepartmentID).Error; err != nil {
			httperr.NotFound(c, "department_not_found", "Department not found.")
			return
		}
		doctor.DepartmentID = req.DepartmentID
	}
	if req.Specialization != nil {
		doctor.Specialization = strings.TrimSpace(*req.Specialization)
	}
	if req.ConsultationFee != nil {
		doctor.ConsultationFee = req.ConsultationFee.Round(2)
	}
	if req.Active != nil {
		doctor.Active = *req.Active
	}

	if err := h.db.Omit("Department").Save(&doctor).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, doctor)
}
