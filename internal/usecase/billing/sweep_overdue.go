package billing

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/hospital-manager/internal/audit"
	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/billing"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

// SweepOverdue re-derives every open bill past its due date so stored
// statuses catch up with the calendar.
type SweepOverdue struct {
	repo     domain.Repository
	audit    audit.Sink
	settings Settings
	log      zerolog.Logger
}

func NewSweepOverdue(
	repo domain.Repository,
	audit audit.Sink,
	settings Settings,
	log zerolog.Logger,
) *SweepOverdue {
	return &SweepOverdue{
		repo:     repo,
		audit:    audit,
		settings: settings,
		log:      log,
	}
}

// Execute returns how many bills changed to overdue. A failing bill is
// logged and skipped.
func (uc *SweepOverdue) Execute(ctx context.Context) (int, error) {
	now := uc.settings.now()

	candidates, err := uc.repo.ListOverdueCandidates(ctx, now)
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return marked, err
		}

		var before string
		b, err := uc.repo.UpdateBill(ctx, c.ID, func(b *models.Bill) error {
			before = b.Status
			domain.Recompute(b, now)
			return nil
		})
		if err != nil {
			uc.log.Error().Err(err).Uint("bill_id", c.ID).Msg("overdue sweep failed for bill")
			continue
		}

		if b.Status == string(domain.StatusOverdue) && before != b.Status {
			marked++
			uc.audit.Dispatch(audit.Event{
				Action:   "bill_overdue",
				Entity:   "bill",
				EntityID: &b.ID,
				Metadata: map[string]any{"overdue_days": domain.OverdueDays(*b, now)},
			})
		}
	}

	uc.log.Info().Int("candidates", len(candidates)).Int("marked", marked).Msg("overdue sweep finished")
	return marked, nil
}
