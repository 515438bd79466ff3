package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/hospital-manager/internal/audit"
	"github.com/BruksfildServices01/hospital-manager/internal/config"
	dbpkg "github.com/BruksfildServices01/hospital-manager/internal/db"
	"github.com/BruksfildServices01/hospital-manager/internal/domain/billing"
	"github.com/BruksfildServices01/hospital-manager/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/hospital-manager/internal/infra/repository"
	"github.com/BruksfildServices01/hospital-manager/internal/infra/storage"
	"github.com/BruksfildServices01/hospital-manager/internal/logger"
	"github.com/BruksfildServices01/hospital-manager/internal/routes"
	ucBilling "github.com/BruksfildServices01/hospital-manager/internal/usecase/billing"
)

// app holds what every command needs: validated config, a logger and the
// database handle.
type app struct {
	cfg *config.Config
	log zerolog.Logger
	db  *gorm.DB
}

func bootstrap() (*app, error) {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.Env)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("connected to database")

	return &app{cfg: cfg, log: log, db: db}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// slotCache connects to redis when REDIS_URL is set. A failed connection
// degrades to no caching.
func (a *app) slotCache(ctx context.Context) (routes.SlotCache, *redis.Client) {
	if !a.cfg.CacheEnabled() {
		return cache.Noop{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := cache.Connect(ctx, a.cfg.RedisURL)
	if err != nil {
		a.log.Warn().Err(err).Msg("availability cache disabled")
		return cache.Noop{}, nil
	}

	a.log.Info().Dur("ttl", a.cfg.AvailabilityCache).Msg("availability cache enabled")
	return cache.NewSlotCache(client, a.cfg.AvailabilityCache, a.log), client
}

func (a *app) receiptStore() billing.ReceiptStore {
	if !a.cfg.ReceiptsEnabled() {
		return storage.Noop{}
	}

	a.log.Info().Str("bucket", a.cfg.S3Bucket).Msg("receipt archive enabled")
	return storage.NewS3ReceiptStore(storage.S3Config{
		Bucket:    a.cfg.S3Bucket,
		Region:    a.cfg.S3Region,
		Endpoint:  a.cfg.S3Endpoint,
		AccessKey: a.cfg.S3AccessKey,
		SecretKey: a.cfg.S3SecretKey,
	})
}

func (a *app) auditDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(audit.New(a.db), a.log)
}

func (a *app) overdueSweep(sink audit.Sink) *ucBilling.SweepOverdue {
	return ucBilling.NewSweepOverdue(
		infraRepo.NewBillGormRepository(a.db),
		sink,
		ucBilling.Settings{Timezone: a.cfg.Timezone, DueDays: a.cfg.BillDueDays},
		a.log,
	)
}
