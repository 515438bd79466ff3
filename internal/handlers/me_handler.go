package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/middleware"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == 0 {
		httperr.Unauthorized(c, "user_not_in_context", "Not authenticated.")
		return
	}

	var user models.User
	if err := h.db.Preload("Department").First(&user, userID).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":       userPayload(&user),
		"department": user.Department,
	})
}

type UpdateMeRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// UpdateMe edits the caller's own contact fields. Role, email and
// department go through an admin.
func (h *MeHandler) UpdateMe(c *gin.Context) {
	var req UpdateMeRequest
	if !bindJSON(c, &req) {
		return
	}

	updates := map[string]any{}
	for col, v := range map[string]*string{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"phone":      req.Phone,
	} {
		if v == nil {
			continue
		}
		trimmed := strings.TrimSpace(*v)
		if trimmed == "" && col != "phone" {
			httperr.BadRequest(c, "name_required", "First and last name are required.")
			return
		}
		updates[col] = trimmed
	}

	var user models.User
	if err := h.db.First(&user, middleware.UserID(c)).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	if len(updates) > 0 {
		if err := h.db.Model(&user).Updates(updates).Error; err != nil {
			httperr.FromError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"user": userPayload(&user)})
}

func (h *MeHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.CurrentPassword == req.NewPassword {
		httperr.BadRequest(c, "password_unchanged", "New password must differ from the current one.")
		return
	}

	var user models.User
	if err := h.db.First(&user, middleware.UserID(c)).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		httperr.FromError(c, httperr.ErrBusiness("wrong_password"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	if err := h.db.Model(&user).Update("password_hash", string(hashed)).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
