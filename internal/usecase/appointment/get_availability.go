package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

type GetAvailability struct {
	repo     domain.Repository
	cache    domain.SlotCache
	settings Settings
}

func NewGetAvailability(
	repo domain.Repository,
	cache domain.SlotCache,
	settings Settings,
) *GetAvailability {
	return &GetAvailability{
		repo:     repo,
		cache:    cache,
		settings: settings,
	}
}

// Execute lists the doctor's slots for the day, serving from cache when possible.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	doctorID uint,
	date string,
) ([]domain.TimeSlot, error) {

	day, err := uc.settings.parseDate(date)
	if err != nil {
		return nil, err
	}

	if _, err := loadUserWithRole(ctx, uc.repo, doctorID, models.RoleDoctor, errDoctorNotFound); err != nil {
		return nil, err
	}

	key := dateKey(day)
	if slots, ok := uc.cache.Get(ctx, doctorID, key); ok {
		return slots, nil
	}

	// Read before loading so a booking committed meanwhile blocks the Set.
	version := uc.cache.Version(ctx, doctorID)

	schedule, err := scheduleFor(ctx, uc.repo, uc.settings, doctorID, day)
	if err != nil {
		return nil, err
	}

	existing, err := uc.repo.ListBlockingForDay(ctx, doctorID, day)
	if err != nil {
		return nil, err
	}

	slots := domain.EnumerateSlots(
		doctorID,
		day,
		schedule,
		uc.settings.slotWidth(),
		domain.BookingsFromModels(existing),
	)

	uc.cache.Set(ctx, doctorID, key, version, slots)
	return slots, nil
}
