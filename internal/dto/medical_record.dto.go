package dto

import "github.com/BruksfildServices01/hospital-manager/internal/models"

// MedicalRecordDTO is a record with its derived BMI category.
type MedicalRecordDTO struct {
	models.MedicalRecord

	BMICategory string `json:"bmi_category,omitempty"`
}
