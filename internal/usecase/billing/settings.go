package billing

import (
	"time"

	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/billing"
	"github.com/BruksfildServices01/hospital-manager/internal/dto"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
	"github.com/BruksfildServices01/hospital-manager/internal/timezone"
)

const defaultDueDays = 30

type Settings struct {
	Timezone string
	DueDays  int

	Now func() time.Time
}

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now().In(timezone.Location(s.Timezone))
	}
	return timezone.NowIn(s.Timezone)
}

func (s Settings) dueDays() int {
	if s.DueDays <= 0 {
		return defaultDueDays
	}
	return s.DueDays
}

// View attaches the derived read-side figures to b.
func View(b *models.Bill, now time.Time) dto.BillDTO {
	return dto.BillDTO{
		Bill:              *b,
		PaymentPercentage: domain.PaymentPercentage(*b),
		OverdueDays:       domain.OverdueDays(*b, now),
		Overpaid:          domain.Overpaid(*b),
		Credit:            domain.Credit(*b),
	}
}
