package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-bot/internal/chat"
	"github.com/spec-kit/ticket-bot/internal/clock"
	"github.com/spec-kit/ticket-bot/internal/config"
	"github.com/spec-kit/ticket-bot/internal/domain"
	"github.com/spec-kit/ticket-bot/internal/observability"
)

// ticketCloser is the slice of the coordinator the sweeper drives.
type ticketCloser interface {
	AutoClose(ctx context.Context, channel chat.ChannelHandle) error
}

// idleScanner is the slice of the activity registry the sweeper reads.
type idleScanner interface {
	IdleSince(now time.Time, threshold time.Duration) []string
}

// Sweeper periodically scans for idle tickets and drives them to closed.
// One failing channel never aborts the rest of the sweep.
type Sweeper struct {
	cfg      config.TicketConfig
	closer   ticketCloser
	activity idleScanner
	clock    clock.Clock
	logger   *zap.Logger
	metrics  *observability.Metrics
	cron     *cron.Cron
}

// NewSweeper constructs a sweeper; Start schedules it.
func NewSweeper(cfg config.TicketConfig, closer ticketCloser, activity idleScanner, clk clock.Clock, logger *zap.Logger, metrics *observability.Metrics) *Sweeper {
	return &Sweeper{
		cfg:      cfg,
		closer:   closer,
		activity: activity,
		clock:    clk,
		logger:   logger,
		metrics:  metrics,
	}
}

// Start schedules the sweep on the configured period. The ctx bounds every
// sweep run and in-flight close workflow.
func (s *Sweeper) Start(ctx context.Context) error {
	s.cron = cron.New()
	spec := fmt.Sprintf("@every %s", s.cfg.SweepPeriod())
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}
	s.cron.Start()
	s.logger.Info("auto-close sweeper started",
		zap.Duration("period", s.cfg.SweepPeriod()),
		zap.Duration("inactivity_threshold", s.cfg.InactivityThreshold()))
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// RunOnce executes a single sweep: snapshot the idle channels, then close
// each, pausing between deletions to avoid bursting the platform client.
func (s *Sweeper) RunOnce(ctx context.Context) {
	now := s.clock.Now()
	idle := s.activity.IdleSince(now, s.cfg.InactivityThreshold())

	var failures int
	for i, channelID := range idle {
		if ctx.Err() != nil {
			break
		}
		if i > 0 {
			s.pause(ctx)
		}

		err := s.closer.AutoClose(ctx, chat.ChannelHandle(channelID))
		switch {
		case err == nil:
			s.logger.Info("idle ticket closed", zap.String("channel", channelID))
		case errors.Is(err, domain.ErrAlreadyClosing), errors.Is(err, domain.ErrNotFound):
			// Lost the race to a manual close or a purge; nothing to do.
		default:
			failures++
			s.logger.Error("idle ticket close failed",
				zap.String("channel", channelID), zap.Error(err))
		}
	}

	s.metrics.RecordSweep(failures)
	if len(idle) > 0 {
		s.logger.Info("sweep finished",
			zap.Int("idle", len(idle)), zap.Int("failures", failures))
	}
}

func (s *Sweeper) pause(ctx context.Context) {
	timer := time.NewTimer(s.cfg.DeletionPause())
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
