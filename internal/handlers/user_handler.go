package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/hospital-manager/internal/audit"
	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/httpresp"
	"github.com/BruksfildServices01/hospital-manager/internal/middleware"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

// UserHandler is the admin staff directory.
type UserHandler struct {
	db    *gorm.DB
	audit audit.Sink
}

func NewUserHandler(db *gorm.DB, audit audit.Sink) *UserHandler {
	return &UserHandler{db: db, audit: audit}
}

type SetUserStatusRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *UserHandler) List(c *gin.Context) {
	role := strings.ToLower(strings.TrimSpace(c.Query("role")))
	if role != "" && !models.IsValidRole(role) {
		httperr.BadRequest(c, "invalid_role", "Role is invalid.")
		return
	}
	departmentID, ok := optionalUintQuery(c, "department_id")
	if !ok {
		return
	}
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))
	page, limit := pageParams(c)

	q := h.db.Model(&models.User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if departmentID != 0 {
		q = q.Where("department_id = ?", departmentID)
	}
	if active := c.Query("active"); active != "" {
		q = q.Where("active = ?", active == "true")
	}
	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	var users []models.User
	if err := q.
		Preload("Department").
		Order("last_name ASC, first_name ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&users).Error; err != nil {

		httperr.FromError(c, err)
		return
	}

	httpresp.Page(c, users, total, page, limit)
}

// SetStatus activates or deactivates an account. Admins cannot lock
// themselves out.
func (h *UserHandler) SetStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req SetUserStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	actorID := middleware.UserID(c)
	if id == actorID && !*req.Active {
		httperr.BadRequest(c, "cannot_deactivate_self", "You cannot deactivate your own account.")
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	if err := h.db.Model(&user).Update("active", *req.Active).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	action := "user_deactivated"
	if *req.Active {
		action = "user_activated"
	}
	h.audit.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   action,
		Entity:   "user",
		EntityID: &user.ID,
	})

	httpresp.OK(c, userPayload(&user))
}
