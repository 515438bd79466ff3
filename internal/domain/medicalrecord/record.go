package medicalrecord

import (
	"strings"

	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

var (
	ErrComplaintRequired = httperr.ErrBusiness("complaint_required")
	ErrInvalidVitals     = httperr.ErrBusiness("invalid_vitals")
	ErrInvalidRecord     = httperr.ErrBusiness("invalid_record")
)

type bound struct{ min, max float64 }

var (
	temperatureRange = bound{25, 45}
	systolicRange    = bound{40, 300}
	diastolicRange   = bound{20, 200}
	heartRateRange   = bound{20, 300}
	respiratoryRange = bound{4, 80}
	saturationRange  = bound{0, 100}
	weightRange      = bound{0.2, 500}
	heightRange      = bound{20, 280}
)

func (b bound) holds(v float64) bool { return v >= b.min && v <= b.max }

func inRange[T int | float64](v *T, b bound) bool {
	return v == nil || b.holds(float64(*v))
}

// ValidateVitals rejects readings outside physiological limits and a
// diastolic pressure at or above the systolic one.
func ValidateVitals(v models.Vitals) error {
	ok := inRange(v.TemperatureC, temperatureRange) &&
		inRange(v.Systolic, systolicRange) &&
		inRange(v.Diastolic, diastolicRange) &&
		inRange(v.HeartRate, heartRateRange) &&
		inRange(v.RespiratoryRate, respiratoryRange) &&
		inRange(v.OxygenSaturation, saturationRange) &&
		inRange(v.WeightKg, weightRange) &&
		inRange(v.HeightCm, heightRange)
	if !ok {
		return ErrInvalidVitals
	}
	if v.Systolic != nil && v.Diastolic != nil && *v.Diastolic >= *v.Systolic {
		return ErrInvalidVitals
	}
	return nil
}

var referralUrgencies = map[string]bool{"routine": true, "urgent": true, "emergent": true}
var labStatuses = map[string]bool{"pending": true, "completed": true, "cancelled": true}

// Prepare trims the free text, fills defaults, checks the nested entries
// and derives the BMI. It mutates rec.
func Prepare(rec *models.MedicalRecord) error {
	rec.ChiefComplaint = strings.TrimSpace(rec.ChiefComplaint)
	rec.PresentIllness = strings.TrimSpace(rec.PresentIllness)
	if rec.ChiefComplaint == "" || rec.PresentIllness == "" {
		return ErrComplaintRequired
	}

	if err := ValidateVitals(rec.Vitals); err != nil {
		return err
	}
	rec.Vitals.BMI = BMI(rec.Vitals.WeightKg, rec.Vitals.HeightCm)

	for i := range rec.Medications {
		if strings.TrimSpace(rec.Medications[i].Name) == "" {
			return ErrInvalidRecord
		}
	}
	for i := range rec.Procedures {
		if strings.TrimSpace(rec.Procedures[i].Name) == "" {
			return ErrInvalidRecord
		}
	}
	for i := range rec.Referrals {
		r := &rec.Referrals[i]
		if r.Urgency == "" {
			r.Urgency = "routine"
		}
		if strings.TrimSpace(r.Specialist) == "" || !referralUrgencies[r.Urgency] {
			return ErrInvalidRecord
		}
	}
	for i := range rec.LabResults {
		l := &rec.LabResults[i]
		if l.Status == "" {
			l.Status = "pending"
		}
		if strings.TrimSpace(l.TestName) == "" || !labStatuses[l.Status] {
			return ErrInvalidRecord
		}
	}
	return nil
}
