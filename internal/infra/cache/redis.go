package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
)

// SlotCache keeps enumerated availability in redis. Cache errors never fail a
// request; they are logged and treated as a miss.
type SlotCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewSlotCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *SlotCache {
	return &SlotCache{client: client, ttl: ttl, log: log}
}

// Connect parses a redis:// URL and checks the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func Key(doctorID uint, date string) string {
	return fmt.Sprintf("availability:%d:%s", doctorID, date)
}

// VersionKey does not match the per-doctor scan pattern of Key.
func VersionKey(doctorID uint) string {
	return fmt.Sprintf("availability:version:%d", doctorID)
}

var errStale = errors.New("slot cache version changed")

func (c *SlotCache) Get(ctx context.Context, doctorID uint, date string) ([]domain.TimeSlot, bool) {
	raw, err := c.client.Get(ctx, Key(doctorID, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn().Err(err).Uint("doctor_id", doctorID).Str("date", date).Msg("slot cache read failed")
		return nil, false
	}

	var slots []domain.TimeSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		c.log.Warn().Err(err).Str("key", Key(doctorID, date)).Msg("slot cache entry corrupt")
		return nil, false
	}
	return slots, true
}

// Version returns the doctor's invalidation counter, 0 when unset. A read
// error returns -1, which never matches and so disables the following Set.
func (c *SlotCache) Version(ctx context.Context, doctorID uint) int64 {
	v, err := c.client.Get(ctx, VersionKey(doctorID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0
	}
	if err != nil {
		c.log.Warn().Err(err).Uint("doctor_id", doctorID).Msg("slot cache version read failed")
		return -1
	}
	return v
}

// Set stores slots only if no invalidation happened since version was read.
// The version key is watched so an invalidation racing the write aborts it.
func (c *SlotCache) Set(ctx context.Context, doctorID uint, date string, version int64, slots []domain.TimeSlot) {
	if version < 0 {
		return
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}

	verKey := VersionKey(doctorID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, verKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStale
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, Key(doctorID, date), raw, c.ttl)
			return nil
		})
		return err
	}, verKey)

	switch {
	case err == nil:
	case errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
		c.log.Debug().Uint("doctor_id", doctorID).Str("date", date).Msg("slot cache write skipped, stale")
	default:
		c.log.Warn().Err(err).Uint("doctor_id", doctorID).Str("date", date).Msg("slot cache write failed")
	}
}

func (c *SlotCache) Invalidate(ctx context.Context, doctorID uint, date string) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, VersionKey(doctorID))
		pipe.Del(ctx, Key(doctorID, date))
		return nil
	})
	if err != nil {
		c.log.Warn().Err(err).Uint("doctor_id", doctorID).Str("date", date).Msg("slot cache invalidate failed")
	}
}

// InvalidateDoctor drops every cached day for doctorID, used when the
// doctor's working hours change.
func (c *SlotCache) InvalidateDoctor(ctx context.Context, doctorID uint) {
	if err := c.client.Incr(ctx, VersionKey(doctorID)).Err(); err != nil {
		c.log.Warn().Err(err).Uint("doctor_id", doctorID).Msg("slot cache invalidate failed")
		return
	}

	pattern := fmt.Sprintf("availability:%d:*", doctorID)

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			c.log.Warn().Err(err).Uint("doctor_id", doctorID).Msg("slot cache scan failed")
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.log.Warn().Err(err).Uint("doctor_id", doctorID).Msg("slot cache invalidate failed")
				return
			}
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}

// Noop is used when REDIS_URL is empty.
type Noop struct{}

func (Noop) Get(context.Context, uint, string) ([]domain.TimeSlot, bool) { return nil, false }
func (Noop) Version(context.Context, uint) int64                         { return 0 }
func (Noop) Set(context.Context, uint, string, int64, []domain.TimeSlot) {}
func (Noop) Invalidate(context.Context, uint, string)                    {}
func (Noop) InvalidateDoctor(context.Context, uint)                      {}

var (
	_ domain.SlotCache = (*SlotCache)(nil)
	_ domain.SlotCache = Noop{}
)
