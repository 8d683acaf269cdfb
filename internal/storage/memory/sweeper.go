package memory

import (
	"context"
	"time"

	"github.com/yndnr/emberkv/internal/telemetry/logger"
)

// Default sweeper settings.
const (
	DefaultSweepInterval = 100 * time.Millisecond
	DefaultSweepBatch    = 256
)

// SweeperConfig configures active expiration.
type SweeperConfig struct {
	// Interval between sweep passes.
	Interval time.Duration
	// Batch is the maximum number of deadlines examined per shard visit.
	Batch int
}

// Sweeper periodically removes expired entries so that keys which are never
// read again do not accumulate.
type Sweeper struct {
	store    *Store
	interval time.Duration
	batch    int
	logger   logger.Logger
}

// NewSweeper creates a sweeper for store.
func NewSweeper(store *Store, cfg SweeperConfig, log logger.Logger) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSweepInterval
	}
	if cfg.Batch <= 0 {
		cfg.Batch = DefaultSweepBatch
	}
	if log == nil {
		log = logger.Default()
	}
	return &Sweeper{
		store:    store,
		interval: cfg.Interval,
		batch:    cfg.Batch,
		logger:   log.With("component", "sweeper"),
	}
}

// Run sweeps every interval until ctx is cancelled.
func (w *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Debug("expiry sweeper started", "interval", w.interval, "batch", w.batch)
	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("expiry sweeper stopped")
			return nil
		case <-ticker.C:
			if n := w.SweepOnce(ctx); n > 0 {
				w.logger.Debug("expired keys swept", "count", n)
			}
		}
	}
}

// SweepOnce visits every shard and removes its due entries, one batch at a
// time, until the shard has no deadline left that is due.
func (w *Sweeper) SweepOnce(ctx context.Context) int {
	total := 0
	for i := 0; i < w.store.ShardCount(); i++ {
		for {
			if ctx.Err() != nil {
				return total
			}
			removed, examined := w.store.SweepShard(i, w.batch)
			total += removed
			if examined < w.batch {
				break
			}
		}
	}
	return total
}
