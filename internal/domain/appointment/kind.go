package appointment

import "github.com/BruksfildServices01/hospital-manager/internal/httperr"

var (
	ErrInvalidType     = httperr.ErrBusiness("invalid_appointment_type")
	ErrInvalidPriority = httperr.ErrBusiness("invalid_priority")
)

const (
	DefaultType     = "consultation"
	DefaultPriority = "medium"
)

var validTypes = map[string]bool{
	"consultation": true,
	"follow-up":    true,
	"emergency":    true,
	"surgery":      true,
	"checkup":      true,
}

var validPriorities = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
	"urgent": true,
}

func IsValidType(t string) bool     { return validTypes[t] }
func IsValidPriority(p string) bool { return validPriorities[p] }

// NormalizeKind applies the defaults and validates type and priority.
func NormalizeKind(typ, priority string) (string, string, error) {
	if typ == "" {
		typ = DefaultType
	}
	if priority == "" {
		priority = DefaultPriority
	}
	if !IsValidType(typ) {
		return "", "", ErrInvalidType
	}
	if !IsValidPriority(priority) {
		return "", "", ErrInvalidPriority
	}
	return typ, priority, nil
}
