// Package jobs runs background maintenance on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Compacter renumbers stored sort keys.
type Compacter interface {
	Compact(ctx context.Context) (map[string]int64, error)
}

// Scheduler runs sort compaction. Schedules use the six-field format with
// seconds, e.g. "0 0 3 * * *" for 03:00 every day.
type Scheduler struct {
	cron      *cron.Cron
	compacter Compacter
	timeout   time.Duration
	log       *zap.Logger
}

func NewScheduler(compacter Compacter, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		compacter: compacter,
		timeout:   time.Minute,
		log:       log,
	}
}

// Start registers the compaction job and starts the scheduler. An empty
// schedule leaves it disabled.
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" {
		s.log.Info("sort compaction disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(schedule, s.runCompaction); err != nil {
		return fmt.Errorf("schedule sort compaction %q: %w", schedule, err)
	}

	s.log.Info("cron scheduler started", zap.String("schedule", schedule))
	s.cron.Start()
	return nil
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("cron scheduler stop timed out")
	}
}

func (s *Scheduler) runCompaction() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.RunOnce(ctx)
}

// RunOnce compacts every resource and logs the outcome.
func (s *Scheduler) RunOnce(ctx context.Context) map[string]int64 {
	start := time.Now()
	changed, err := s.compacter.Compact(ctx)
	if err != nil {
		s.log.Error("sort compaction failed", zap.Error(err), zap.Any("changed", changed))
		return changed
	}
	s.log.Info("sort compaction completed",
		zap.Any("changed", changed), zap.Duration("took", time.Since(start)))
	return changed
}
