// Package scheduler runs periodic harvests on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/maauso/hh-vacancies/internal/job"
)

// Static errors for scheduler construction.
var (
	// ErrInvalidSchedule is returned when the cron expression cannot be parsed.
	ErrInvalidSchedule = errors.New("scheduler: invalid schedule")
	// ErrKeywordRequired is returned when no keyword is configured.
	ErrKeywordRequired = errors.New("scheduler: keyword is required")
)

// Harvester runs one harvest for a keyword.
type Harvester interface {
	Harvest(ctx context.Context, keyword string) (job.HarvestResult, error)
}

// Scheduler triggers a harvest of one keyword on a standard five-field
// cron expression (descriptors such as @hourly are accepted too).
type Scheduler struct {
	cron      *cron.Cron
	entry     cron.EntryID
	schedule  string
	keyword   string
	harvester Harvester
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	started bool
}

// New validates schedule and registers the harvest. Nothing runs until Start.
func New(schedule, keyword string, harvester Harvester, logger *slog.Logger) (*Scheduler, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, ErrKeywordRequired
	}
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSchedule, schedule, err)
	}

	cl := cronLogger{logger: logger.With(slog.String("component", "scheduler"))}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:      c,
		schedule:  schedule,
		keyword:   keyword,
		harvester: harvester,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}

	entry, err := c.AddFunc(schedule, func() { s.RunOnce(s.ctx) })
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSchedule, schedule, err)
	}
	s.entry = entry

	return s, nil
}

// Start begins triggering harvests in the background. Calling it twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.cron.Start()

	s.logger.Info("scheduler started",
		slog.String("schedule", s.schedule),
		slog.String("keyword", s.keyword),
		slog.Time("next_run", s.Next()),
	)
}

// Stop prevents new runs and waits for a running harvest to finish or for
// ctx to expire, whichever comes first. A harvest still running when ctx
// expires is cancelled.
func (s *Scheduler) Stop(ctx context.Context) error {
	defer s.cancel()

	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler: stop: %w", ctx.Err())
	}
}

// Next returns the next activation time, or the zero time before Start.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entry).Next
}

// RunOnce performs a single scheduled harvest. Failures are logged, never returned.
func (s *Scheduler) RunOnce(ctx context.Context) {
	result, err := s.harvester.Harvest(ctx, s.keyword)
	if err != nil {
		s.logger.Error("scheduled harvest failed",
			slog.String("keyword", s.keyword),
			slog.String("error", err.Error()),
		)
		return
	}

	s.logger.Info("scheduled harvest completed",
		slog.String("keyword", result.Keyword),
		slog.Int("records", result.Records),
		slog.Duration("duration", result.Duration),
	)
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{slog.String("error", err.Error())}, keysAndValues...)...)
}
