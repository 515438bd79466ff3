package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/hospital-manager/internal/config"
	"github.com/BruksfildServices01/hospital-manager/internal/domain/patient"
	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
	"github.com/BruksfildServices01/hospital-manager/internal/validators"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config

	// emailOK rejects addresses whose domain does not resolve.
	emailOK func(email string) bool
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		db:      db,
		config:  cfg,
		emailOK: validators.IsEmailDomainValid,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Phone     string `json:"phone"`

	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
	BloodGroup  string `json:"blood_group"`
}

// CreateUserRequest is the admin-only variant that can create staff.
type CreateUserRequest struct {
	RegisterRequest

	Role            string           `json:"role" binding:"required"`
	DepartmentID    *uint            `json:"department_id"`
	Specialization  string           `json:"specialization"`
	ConsultationFee *decimal.Decimal `json:"consultation_fee"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// Register is the public sign-up; it always creates a patient.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.createUser(CreateUserRequest{RegisterRequest: req, Role: models.RolePatient})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	token, err := GenerateToken(h.config.JWTSecret, user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not issue token.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  userPayload(user),
		"token": token,
	})
}

func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.createUser(req)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userPayload(user))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Email or password is incorrect.")
			return
		}
		httperr.Internal(c, "internal_error", "Unexpected error.")
		return
	}

	if !user.Active {
		httperr.Forbidden(c, "user_inactive", "Account is disabled.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	token, err := GenerateToken(h.config.JWTSecret, &user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not issue token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userPayload(&user),
		"token": token,
	})
}

// --------- Helpers ---------

func (h *AuthHandler) createUser(req CreateUserRequest) (*models.User, error) {
	if !models.IsValidRole(req.Role) {
		return nil, httperr.ErrBusiness("invalid_role")
	}

	var dob *time.Time
	if req.DateOfBirth != "" {
		d, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		dob = &d
	}

	gender := strings.ToLower(strings.TrimSpace(req.Gender))
	bloodGroup := strings.ToUpper(strings.TrimSpace(req.BloodGroup))
	if err := patient.ValidateDemographics(gender, bloodGroup, dob, time.Now()); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if h.emailOK != nil && !h.emailOK(email) {
		return nil, httperr.ErrBusiness("invalid_email_domain")
	}

	var count int64
	if err := h.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, httperr.ErrBusiness("email_taken")
	}

	if req.DepartmentID != nil {
		var dep models.Department
		if err := h.db.First(&dep, *req.DepartmentID).Error; err != nil {
			return nil, httperr.ErrBusiness("department_not_found")
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		DepartmentID:    req.DepartmentID,
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Email:           email,
		PasswordHash:    string(hashed),
		Phone:           req.Phone,
		Role:            req.Role,
		Active:          true,
		Specialization:  req.Specialization,
		ConsultationFee: decimalOrZero(req.ConsultationFee),
		DateOfBirth:     dob,
		Gender:          gender,
		BloodGroup:      bloodGroup,
	}

	if err := h.db.Create(&user).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, httperr.ErrBusiness("email_taken")
		}
		return nil, err
	}
	return &user, nil
}

func userPayload(u *models.User) gin.H {
	return gin.H{
		"id":            u.ID,
		"first_name":    u.FirstName,
		"last_name":     u.LastName,
		"email":         u.Email,
		"phone":         u.Phone,
		"role":          u.Role,
		"department_id": u.DepartmentID,
	}
}

// --------- JWT ---------

// GenerateToken signs an HS256 token carrying the user id (sub) and role.
func GenerateToken(secret string, user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  now.Add(tokenTTL).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
