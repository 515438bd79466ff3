package medicalrecord

import "math"

const (
	CategoryUnderweight = "underweight"
	CategoryNormal      = "normal-weight"
	CategoryOverweight  = "overweight"
	CategoryObese       = "obese"
)

// BMI is weight / height² with height in metres, rounded to one decimal.
// It returns nil unless both measurements are present and positive.
func BMI(weightKg, heightCm *float64) *float64 {
	if weightKg == nil || heightCm == nil || *weightKg <= 0 || *heightCm <= 0 {
		return nil
	}
	m := *heightCm / 100
	v := math.Round(*weightKg/(m*m)*10) / 10
	return &v
}

// BMICategory buckets a BMI using the WHO adult cut-offs. Empty for nil.
func BMICategory(bmi *float64) string {
	if bmi == nil {
		return ""
	}
	switch v := *bmi; {
	case v < 18.5:
		return CategoryUnderweight
	case v < 25:
		return CategoryNormal
	case v < 30:
		return CategoryOverweight
	}
	return CategoryObese
}
