package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Retention periodically drops hour buckets that fell out of the retention
// window, logging a summary of each one.
type Retention struct {
	aggregator *Aggregator

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	sweepInterval   time.Duration
	retentionPeriod time.Duration
}

// RetentionConfig configures the retention loop.
type RetentionConfig struct {
	SweepInterval   time.Duration // How often to sweep old buckets (default: 1 hour)
	RetentionPeriod time.Duration // How long to keep buckets in memory (default: 24 hours)
}

// DefaultRetentionConfig returns default retention configuration.
func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		SweepInterval:   time.Hour,
		RetentionPeriod: 24 * time.Hour,
	}
}

// NewRetention creates a new retention loop over agg.
func NewRetention(agg *Aggregator, cfg RetentionConfig) *Retention {
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = time.Hour
	}
	if cfg.RetentionPeriod == 0 {
		cfg.RetentionPeriod = 24 * time.Hour
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Retention{
		aggregator:      agg,
		ctx:             ctx,
		cancel:          cancel,
		sweepInterval:   cfg.SweepInterval,
		retentionPeriod: cfg.RetentionPeriod,
	}
}

// Start begins the background sweep.
func (r *Retention) Start() {
	r.wg.Add(1)
	go r.sweepLoop()
}

// Close stops the loop and waits for it to finish.
func (r *Retention) Close() {
	r.cancel()
	r.wg.Wait()
}

// Sweep drops every bucket older than the retention period and returns them.
func (r *Retention) Sweep() []*TaskSnapshot {
	cutoff := truncateToHour(r.aggregator.now().Add(-r.retentionPeriod))

	snapshots := r.aggregator.FlushTaskMetrics(cutoff)
	for _, s := range snapshots {
		slog.Info("task metrics hour closed",
			"task", s.Task,
			"hour", s.HourBucket,
			"requests", s.RequestCount,
			"successes", s.SuccessCount,
			"fallbacks", s.FallbackCount,
			"latency_p50_ms", s.LatencyP50Ms,
			"latency_p95_ms", s.LatencyP95Ms,
		)
	}
	return snapshots
}

func (r *Retention) sweepLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
