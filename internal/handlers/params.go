package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/middleware"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// idParam reads a positive numeric path parameter, writing 400 otherwise.
func idParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_id", "Identifier is invalid.")
		return 0, false
	}
	return uint(v), true
}

// optionalUintQuery returns 0 when the query key is absent.
func optionalUintQuery(c *gin.Context, key string) (uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+key, "Query parameter "+key+" is invalid.")
		return 0, false
	}
	return uint(v), true
}

func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	return page, limit
}

// bindJSON writes invalid_request and returns false when the body does not bind.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return false
	}
	return true
}

// decimalOrZero keeps optional money fields out of the binding tags.
func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// viewerOf is the authenticated caller as the read-side scoping rules see it.
func viewerOf(c *gin.Context) domain.Viewer {
	return domain.Viewer{
		ID:   middleware.UserID(c),
		Role: c.GetString(middleware.ContextUserRole),
	}
}

// ownPatientOrStaff writes 403 when a patient asks for another patient's data.
func ownPatientOrStaff(c *gin.Context, patientID uint) bool {
	if c.GetString(middleware.ContextUserRole) == models.RolePatient && middleware.UserID(c) != patientID {
		httperr.Forbidden(c, "forbidden", "Patients may only access their own data.")
		return false
	}
	return true
}
