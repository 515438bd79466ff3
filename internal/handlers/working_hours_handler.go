package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/middleware"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

// DoctorCacheInvalidator drops every cached availability day of a doctor.
type DoctorCacheInvalidator interface {
	InvalidateDoctor(ctx context.Context, doctorID uint)
}

type WorkingHoursHandler struct {
	db    *gorm.DB
	cache DoctorCacheInvalidator
}

func NewWorkingHoursHandler(db *gorm.DB, cache DoctorCacheInvalidator) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, cache: cache}
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	BreakStart string `json:"break_start"`
	BreakEnd   string `json:"break_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	doctorID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var hours []models.WorkingHours
	if err := h.db.
		Where("doctor_id = ?", doctorID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, hours)
}

// Update replaces the doctor's weekly schedule. Doctors may only edit their
// own; admins may edit anyone's.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	doctorID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if c.GetString(middleware.ContextUserRole) == models.RoleDoctor && middleware.UserID(c) != doctorID {
		httperr.Forbidden(c, "forbidden", "Doctors can only edit their own working hours.")
		return
	}

	var req WorkingHoursUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	toCreate, err := buildWorkingHours(doctorID, req.Days)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	var doctor models.User
	if err := h.db.Where("id = ? AND role = ?", doctorID, models.RoleDoctor).First(&doctor).Error; err != nil {
		httperr.NotFound(c, "doctor_not_found", "Doctor not found.")
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doctor_id = ?", doctorID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(toCreate) > 0 {
			return tx.Create(&toCreate).Error
		}
		return nil
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.cache.InvalidateDoctor(c.Request.Context(), doctorID)

	c.JSON(http.StatusOK, toCreate)
}

// buildWorkingHours validates each day and rejects duplicate weekdays.
func buildWorkingHours(doctorID uint, days []WorkingDayConfig) ([]models.WorkingHours, error) {
	seen := make(map[int]bool, len(days))
	out := make([]models.WorkingHours, 0, len(days))

	for _, d := range days {
		if seen[d.Weekday] {
			return nil, httperr.ErrBusiness("duplicate_weekday")
		}
		seen[d.Weekday] = true

		wh := models.WorkingHours{
			DoctorID:   doctorID,
			Weekday:    d.Weekday,
			Active:     d.Active,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			BreakStart: d.BreakStart,
			BreakEnd:   d.BreakEnd,
		}
		if err := domain.ValidateWorkingHours(wh); err != nil {
			return nil, err
		}
		out = append(out, wh)
	}
	return out, nil
}
