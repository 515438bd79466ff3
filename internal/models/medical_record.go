package models

import "time"

// Vitals are the measurements taken at the visit. Nil means not taken.
type Vitals struct {
	TemperatureC     *float64 `json:"temperature_c,omitempty"`
	Systolic         *int     `json:"bp_systolic,omitempty"`
	Diastolic        *int     `json:"bp_diastolic,omitempty"`
	HeartRate        *int     `json:"heart_rate,omitempty"`
	RespiratoryRate  *int     `json:"respiratory_rate,omitempty"`
	OxygenSaturation *int     `json:"oxygen_saturation,omitempty"`
	WeightKg         *float64 `json:"weight_kg,omitempty"`
	HeightCm         *float64 `json:"height_cm,omitempty"`

	// BMI is derived from weight and height on save.
	BMI *float64 `json:"bmi,omitempty"`
}

type MedicalHistory struct {
	Allergies         []string `json:"allergies,omitempty"`
	Medications       []string `json:"medications,omitempty"`
	Surgeries         []string `json:"surgeries,omitempty"`
	ChronicConditions []string `json:"chronic_conditions,omitempty"`
	FamilyHistory     []string `json:"family_history,omitempty"`
}

type Diagnosis struct {
	Primary      string   `json:"primary"`
	Secondary    []string `json:"secondary,omitempty"`
	Differential []string `json:"differential,omitempty"`
}

type Prescription struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions,omitempty"`
}

type Procedure struct {
	Name  string     `json:"name"`
	Date  *time.Time `json:"date,omitempty"`
	Notes string     `json:"notes,omitempty"`
}

type Referral struct {
	Specialist string `json:"specialist"`
	Department string `json:"department,omitempty"`
	Reason     string `json:"reason"`
	Urgency    string `json:"urgency"`
}

type LabResult struct {
	TestName       string     `json:"test_name"`
	OrderDate      *time.Time `json:"order_date,omitempty"`
	ResultDate     *time.Time `json:"result_date,omitempty"`
	Results        string     `json:"results,omitempty"`
	NormalRange    string     `json:"normal_range,omitempty"`
	Interpretation string     `json:"interpretation,omitempty"`
	Status         string     `json:"status"`
}

// MedicalRecord is the clinical note written for one appointment. Records
// are append-only.
type MedicalRecord struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PatientID uint `gorm:"index:idx_records_patient_visit;not null" json:"patient_id"`
	Patient   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"patient"`

	DoctorID uint `gorm:"index:idx_records_doctor_visit;not null" json:"doctor_id"`
	Doctor   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"doctor"`

	AppointmentID uint `gorm:"index;not null" json:"appointment_id"`

	VisitDate time.Time `gorm:"index:idx_records_patient_visit,sort:desc;index:idx_records_doctor_visit,sort:desc;not null" json:"visit_date"`

	ChiefComplaint string `gorm:"type:text;not null" json:"chief_complaint"`
	PresentIllness string `gorm:"type:text;not null" json:"present_illness"`

	History     MedicalHistory `gorm:"type:jsonb;serializer:json" json:"history"`
	Vitals      Vitals         `gorm:"type:jsonb;serializer:json" json:"vitals"`
	Diagnosis   Diagnosis      `gorm:"type:jsonb;serializer:json" json:"diagnosis"`
	Medications []Prescription `gorm:"type:jsonb;serializer:json" json:"medications"`
	Procedures  []Procedure    `gorm:"type:jsonb;serializer:json" json:"procedures"`
	Referrals   []Referral     `gorm:"type:jsonb;serializer:json" json:"referrals"`
	LabResults  []LabResult    `gorm:"type:jsonb;serializer:json" json:"lab_results"`

	FollowUp       string `gorm:"type:text" json:"follow_up_instructions"`
	Notes          string `gorm:"type:text" json:"notes"`
	IsConfidential bool   `gorm:"default:false" json:"is_confidential"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
