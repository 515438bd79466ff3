package dashboard

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/dashboard"
	"github.com/BruksfildServices01/hospital-manager/internal/domain/inventory"
	"github.com/BruksfildServices01/hospital-manager/internal/dto"
	"github.com/BruksfildServices01/hospital-manager/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/hospital-manager/internal/usecase/appointment"
)

const (
	recentDays  = 7
	recentLimit = 10
)

type Settings struct {
	Timezone string
	Now      func() time.Time
}

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now().In(timezone.Location(s.Timezone))
	}
	return timezone.NowIn(s.Timezone)
}

type Stats struct {
	repo     domain.Repository
	settings Settings
}

func NewStats(repo domain.Repository, settings Settings) *Stats {
	return &Stats{repo: repo, settings: settings}
}

// Execute reads "today" in the hospital timezone.
func (uc *Stats) Execute(ctx context.Context) (*dto.DashboardDTO, error) {
	now := uc.settings.now()
	today := timezone.StartOfDay(now)

	overview, err := uc.repo.Overview(ctx, today, now)
	if err != nil {
		return nil, err
	}
	revenue, err := uc.repo.CollectedRevenue(ctx)
	if err != nil {
		return nil, err
	}
	alerts, err := uc.repo.InventoryAlerts(ctx, today.AddDate(0, 0, inventory.ExpiringSoonDays))
	if err != nil {
		return nil, err
	}
	recent, err := uc.repo.RecentAppointments(ctx, today.AddDate(0, 0, -recentDays), recentLimit)
	if err != nil {
		return nil, err
	}

	out := &dto.DashboardDTO{
		Overview:           overview,
		Revenue:            dto.RevenueDTO{Total: revenue},
		Alerts:             alerts,
		RecentAppointments: make([]dto.AppointmentListDTO, 0, len(recent)),
	}
	for _, ap := range recent {
		out.RecentAppointments = append(out.RecentAppointments, ucAppointment.View(ap, now))
	}
	return out, nil
}
