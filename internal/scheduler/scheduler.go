// Package scheduler drives the Ingestion Engine on a fixed interval.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/surflamp/lampd/internal/ingest"
)

// Scheduler runs ingestion cycles on a fixed interval, non-overlapping:
// a cycle's full duration (including any provider retries) always
// completes before the next tick is allowed to start a new one.
type Scheduler struct {
	engine   *ingest.Engine
	interval time.Duration
	logger   *zap.SugaredLogger
	stopChan chan struct{}
	ticker   *time.Ticker
}

// New creates a Scheduler that runs engine.RunCycle every interval.
func New(engine *ingest.Engine, interval time.Duration, logger *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		engine:   engine,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start runs the scheduler loop until ctx is cancelled or Stop is
// called. It runs one cycle immediately, then one per tick; wg.Done is
// called on return so callers can wait on it from an app-level
// WaitGroup.
func (s *Scheduler) Start(ctx context.Context, wg *sync.WaitGroup) {
	if wg != nil {
		defer wg.Done()
	}

	s.logger.Infow("scheduler starting", "interval", s.interval)
	s.runCycleSafely(ctx)

	s.ticker = time.NewTicker(s.interval)
	defer s.ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping (context cancelled)")
			return
		case <-s.stopChan:
			s.logger.Info("scheduler stopping (stop requested)")
			return
		case <-s.ticker.C:
			s.runCycleSafely(ctx)
		}
	}
}

// Stop requests the scheduler loop to exit. Must be called at most
// once; a second call panics on closing an already-closed channel.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler...")
	close(s.stopChan)
}

// runCycleSafely runs one ingestion cycle, installing a recover()
// guard so a panic inside the engine can never take the scheduler
// goroutine down.
func (s *Scheduler) runCycleSafely(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorw("recovered from panic in ingestion cycle", "panic", r)
		}
	}()

	summary, err := s.engine.RunCycle(ctx)
	if err != nil {
		s.logger.Errorw("ingestion cycle failed", "error", err, "cycle_id", summary.CorrelationID)
		return
	}
}
