package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/httpresp"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

type DepartmentHandler struct {
	db *gorm.DB
}

func NewDepartmentHandler(db *gorm.DB) *DepartmentHandler {
	return &DepartmentHandler{db: db}
}

// --------- Requests ---------

type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Phone       string `json:"phone"`
	Email       string `json:"email" binding:"omitempty,email"`
	BedCapacity int    `json:"bed_capacity" binding:"min=0"`
}

type UpdateDepartmentRequest struct {
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	BedCapacity *int    `json:"bed_capacity,omitempty" binding:"omitempty,min=0"`
	Active      *bool   `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *DepartmentHandler) List(c *gin.Context) {
	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Model(&models.Department{})

	switch activeStr {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var deps []models.Department
	if err := q.Order("name ASC").Find(&deps).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, deps)
}

func (h *DepartmentHandler) Create(c *gin.Context) {
	var req CreateDepartmentRequest
	if !bindJSON(c, &req) {
		return
	}

	dep := models.Department{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Location:    req.Location,
		Phone:       req.Phone,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		BedCapacity: req.BedCapacity,
		Active:      true,
	}

	if err := h.db.Create(&dep).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "department_exists", "A department with this name already exists.")
			return
		}
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dep)
}

func (h *DepartmentHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateDepartmentRequest
	if !bindJSON(c, &req) {
		return
	}

	var dep models.Department
	if err := h.db.First(&dep, id).Error; err != nil {
		httperr.NotFound(c, "department_not_found", "Department not found.")
		return
	}

	if req.Description != nil {
		dep.Description = *req.Description
	}
	if req.Location != nil {
		dep.Location = *req.Location
	}
	if req.Phone != nil {
		dep.Phone = *req.Phone
	}
	if req.BedCapacity != nil {
		dep.BedCapacity = *req.BedCapacity
	}
	if req.Active != nil {
		dep.Active = *req.Active
	}

	if err := h.db.Save(&dep).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, dep)
}
