package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

type mapping struct {
	status  int
	message string
}

var businessMappings = map[string]mapping{
	"time_conflict":         {http.StatusConflict, "Doctor is not available at this time."},
	"invalid_interval":      {http.StatusBadRequest, "Appointment duration or time is invalid."},
	"outside_working_hours": {http.StatusBadRequest, "Requested time is outside the doctor's working hours."},
	"invalid_state":         {http.StatusConflict, "Operation not allowed in the current status."},
	"invalid_line_item":     {http.StatusBadRequest, "Bill line item is invalid."},
	"invalid_payment":       {http.StatusBadRequest, "Payment is invalid."},
	"bill_not_finalized":    {http.StatusConflict, "Bill must be finalized before accepting payments."},
	"bill_locked":           {http.StatusConflict, "Bill no longer accepts line items."},
	"reason_required":       {http.StatusBadRequest, "A reason is required."},
	"invalid_refund":        {http.StatusBadRequest, "Refund amount is invalid."},
	"invalid_movement":      {http.StatusBadRequest, "Stock movement is invalid."},
	"invalid_item":          {http.StatusBadRequest, "Inventory item is invalid."},
	"item_inactive":         {http.StatusConflict, "Inventory item is not active."},
	"invalid_role":          {http.StatusBadRequest, "Role is invalid."},
	"email_taken":           {http.StatusConflict, "Email already registered."},
	"invalid_email_domain":  {http.StatusBadRequest, "Email domain does not appear to be valid."},
	"department_not_found":  {http.StatusNotFound, "Department not found."},
	"duplicate_code":        {http.StatusConflict, "An item with this code already exists."},
	"invalid_date":          {http.StatusBadRequest, "Date is invalid."},
	"invalid_status":        {http.StatusBadRequest, "Status filter is invalid."},
	"appointment_in_past":   {http.StatusBadRequest, "Appointment cannot start in the past."},
	"patient_not_found":     {http.StatusNotFound, "Patient not found."},
	"doctor_not_found":      {http.StatusNotFound, "Doctor not found."},
	"appointment_not_found": {http.StatusNotFound, "Appointment not found."},
	"bill_not_found":        {http.StatusNotFound, "Bill not found."},
	"item_not_found":        {http.StatusNotFound, "Inventory item not found."},
	"invalid_appointment_type": {http.StatusBadRequest, "Appointment type is invalid."},
	"invalid_priority":         {http.StatusBadRequest, "Appointment priority is invalid."},
	"invalid_period":           {http.StatusBadRequest, "Period must be week, month or year."},
	"invalid_vitals":           {http.StatusBadRequest, "Vital signs are out of range."},
	"complaint_required":       {http.StatusBadRequest, "Chief complaint and present illness are required."},
	"appointment_closed":       {http.StatusConflict, "Appointment was cancelled or missed."},
	"invalid_record":           {http.StatusBadRequest, "Medical record entry is invalid."},
	"record_not_found":         {http.StatusNotFound, "Medical record not found."},
	"user_not_found":           {http.StatusNotFound, "User not found."},
	"invalid_gender":           {http.StatusBadRequest, "Gender is invalid."},
	"invalid_blood_group":      {http.StatusBadRequest, "Blood group is invalid."},
	"name_required":            {http.StatusBadRequest, "First and last name are required."},
	"wrong_password":           {http.StatusBadRequest, "Current password is incorrect."},
}

// FromError writes the JSON response that matches err. Business errors keep
// their code; anything unknown is a 500.
func FromError(c *gin.Context, err error) {
	if IsExclusionConflict(err) {
		Conflict(c, "time_conflict", businessMappings["time_conflict"].message)
		return
	}

	if code, ok := BusinessCode(err); ok {
		if m, known := businessMappings[code]; known {
			Write(c, m.status, code, m.message)
			return
		}
		BadRequest(c, code, code)
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "not_found", "Resource not found.")
		return
	}

	_ = c.Error(err)
	Internal(c, "internal_error", "Unexpected error.")
}
