package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Sweeper is satisfied by the overdue bill sweep use case.
type Sweeper interface {
	Execute(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	timeout time.Duration
	log     zerolog.Logger
}

// NewScheduler registers the overdue sweep at spec (standard five-field cron)
// evaluated in loc.
func NewScheduler(spec string, loc *time.Location, sweeper Sweeper, log zerolog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		sweeper: sweeper,
		timeout: 10 * time.Minute,
		log:     log,
	}

	if _, err := s.cron.AddFunc(spec, s.RunOverdueSweep); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.log.Info().Msg("job scheduler started")
	s.cron.Start()
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("job scheduler stop timed out")
	}
}

func (s *Scheduler) RunOverdueSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	started := time.Now()
	marked, err := s.sweeper.Execute(ctx)
	if err != nil {
		s.log.Error().Err(err).Int("marked", marked).Msg("overdue sweep failed")
		return
	}

	s.log.Info().
		Int("marked", marked).
		Dur("took", time.Since(started)).
		Msg("overdue sweep finished")
}
