// Package scheduler runs the periodic full resubmission of site URLs on a
// cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jonesrussell/gosignal/internal/logger"
)

const resubmitTimeout = 30 * time.Minute

// Resubmitter triggers a full site resubmission. *content.Service satisfies it.
type Resubmitter interface {
	ResubmitAll(ctx context.Context) (int, error)
}

// Scheduler owns the cron instance and the single resubmit entry.
type Scheduler struct {
	cron      *cron.Cron
	resubmit  Resubmitter
	logger    logger.Logger
	schedule  string
	entryID   cron.EntryID
	scheduled bool
}

// New creates a scheduler for the given cron spec. An empty spec produces a
// scheduler that does nothing, so callers need no conditional wiring.
func New(schedule string, resubmit Resubmitter, log logger.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		resubmit: resubmit,
		logger:   log,
		schedule: schedule,
	}

	if schedule == "" {
		return s, nil
	}

	entryID, err := s.cron.AddFunc(schedule, s.run)
	if err != nil {
		return nil, fmt.Errorf("failed to parse resubmit cron expression %q: %w", schedule, err)
	}
	s.entryID = entryID
	s.scheduled = true

	return s, nil
}

// Start begins cron execution. No-op when no schedule is configured.
func (s *Scheduler) Start() {
	if !s.scheduled {
		s.logger.Info("Scheduled resubmission disabled")
		return
	}

	s.cron.Start()
	s.logger.Info("Scheduled resubmission enabled",
		logger.String("schedule", s.schedule),
		logger.Time("next_run", s.cron.Entry(s.entryID).Next),
	)
}

// Stop halts the cron instance and waits for a running job to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), resubmitTimeout)
	defer cancel()

	start := time.Now()
	total, err := s.resubmit.ResubmitAll(ctx)
	if err != nil {
		s.logger.Error("Scheduled resubmission failed",
			logger.Error(err),
			logger.Duration("duration", time.Since(start)),
		)
		return
	}

	s.logger.Info("Scheduled resubmission completed",
		logger.Int("total_urls", total),
		logger.Duration("duration", time.Since(start)),
	)
}
