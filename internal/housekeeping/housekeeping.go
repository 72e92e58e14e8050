// Package housekeeping prunes old session history and LLM request events
// on a schedule.
package housekeeping

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/abhisek/acedrill/internal/store"
)

// Options configures the pruning jobs.
type Options struct {
	// Interval between runs. Defaults to one hour.
	Interval time.Duration

	// KeepHistory is how many finished sessions to keep. Zero keeps all.
	KeepHistory int

	// KeepLLMEvents is how long LLM request events are kept. Zero keeps all.
	KeepLLMEvents time.Duration
}

// Scheduler runs the pruning jobs in the background.
type Scheduler struct {
	scheduler *gocron.Scheduler
	history   store.HistoryRepo
	events    store.EventRepo
	opts      Options
	logger    *zap.Logger
	now       func() time.Time
}

func New(history store.HistoryRepo, events store.EventRepo, opts Options, logger *zap.Logger) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		history:   history,
		events:    events,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// Start schedules the prune job, running it once immediately.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(s.opts.Interval).SingletonMode().Do(s.run); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates the scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.Warn("housekeeping failed", zap.Error(err))
	}
}

// Result reports what one run removed.
type Result struct {
	EventsPruned int64
}

// RunOnce prunes history and events now.
func (s *Scheduler) RunOnce(ctx context.Context) (Result, error) {
	var res Result
	if s.history != nil && s.opts.KeepHistory > 0 {
		if err := s.history.Prune(ctx, s.opts.KeepHistory); err != nil {
			return res, err
		}
	}
	if s.events != nil && s.opts.KeepLLMEvents > 0 {
		n, err := s.events.PruneLLMEvents(ctx, s.now().Add(-s.opts.KeepLLMEvents))
		if err != nil {
			return res, err
		}
		res.EventsPruned = n
	}
	s.logger.Debug("housekeeping done", zap.Int64("events_pruned", res.EventsPruned))
	return res, nil
}
