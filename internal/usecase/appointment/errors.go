package appointment

import "github.com/BruksfildServices01/hospital-manager/internal/httperr"

var (
	errInvalidDate         = httperr.ErrBusiness("invalid_date")
	errPatientNotFound     = httperr.ErrBusiness("patient_not_found")
	errDoctorNotFound      = httperr.ErrBusiness("doctor_not_found")
	errAppointmentNotFound = httperr.ErrBusiness("appointment_not_found")
	errOutsideWorkingHours = httperr.ErrBusiness("outside_working_hours")
	errInPast              = httperr.ErrBusiness("appointment_in_past")
)

var errInvalidStatus = httperr.ErrBusiness("invalid_status")
