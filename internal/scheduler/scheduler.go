// Package scheduler runs the in-process hourly dispatch trigger.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bibletext/dailyverse/internal/dispatcher"
	"github.com/bibletext/dailyverse/internal/logger"
	"github.com/bibletext/dailyverse/internal/models"
)

// Dispatcher runs a dispatch cycle.
type Dispatcher interface {
	Run(ctx context.Context, frequency models.Frequency, now time.Time) (*dispatcher.RunSummary, error)
}

// Scheduler fires a dispatch cycle at the top of every hour. Subscriber
// due-checks run at hour granularity, so a finer trigger buys nothing.
type Scheduler struct {
	cron       *cron.Cron
	dispatcher Dispatcher
	log        *logger.Logger
}

// New creates a scheduler around the dispatcher.
func New(dispatcher Dispatcher, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		dispatcher: dispatcher,
		log:        log,
	}
}

// Start registers the hourly trigger and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc("0 * * * *", func() {
		now := time.Now().UTC()
		s.log.Info().Time("trigger", now).Msg("hourly dispatch trigger fired")

		summary, err := s.dispatcher.Run(ctx, "", now)
		if err != nil {
			s.log.Error().Err(err).Msg("scheduled dispatch failed")
			return
		}

		s.log.Info().
			Int("processed", summary.Processed).
			Int("sent", summary.Sent).
			Int("failed", summary.Failed).
			Msg("scheduled dispatch complete")
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop stops the cron loop and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
