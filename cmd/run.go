package cmd

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/acedrill/internal/app"
	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/contentgen"
	"github.com/abhisek/acedrill/internal/housekeeping"
	"github.com/abhisek/acedrill/internal/lessons"
	"github.com/abhisek/acedrill/internal/llm"
	"github.com/abhisek/acedrill/internal/metrics"
	"github.com/abhisek/acedrill/internal/progress"
	"github.com/abhisek/acedrill/internal/screens/grammar"
	"github.com/abhisek/acedrill/internal/screens/home"
	"github.com/abhisek/acedrill/internal/session"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	cfg, logger := e.cfg, e.logger

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Addr, logger); err != nil {
				logger.Warn("metrics endpoint stopped", zap.Error(err))
			}
		}()
	}

	prog := progress.Open(ctx, e.store.ProgressRepo(), progress.WithLogger(logger), progress.WithMetrics(m))

	pool, err := contentgen.LoadPool(ctx, e.store.WordRepo())
	if err != nil {
		return fmt.Errorf("load word pool: %w", err)
	}
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	trainer := session.NewTrainer(prog, pool, session.TrainerOptions{
		BatchSize: cfg.Game.BatchSize,
		Rand:      rng,
		Logger:    logger,
	})

	sources := []contentgen.Source{}
	var tutor grammar.Generator
	provider, err := llm.NewProvider(ctx, cfg.LLMConfig(), llm.Deps{
		Events:  e.store.EventRepo(),
		Logger:  logger,
		Metrics: m,
	})
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		logger.Info("no LLM provider configured, using offline questions")
	case err != nil:
		fmt.Fprintln(os.Stderr, "LLM provider unavailable:", err)
		fmt.Fprintln(os.Stderr, "Only vocabulary and spelling tests are available offline.")
		logger.Warn("create LLM provider failed", zap.Error(err))
	default:
		gen := contentgen.New(provider, contentgen.DefaultConfig(), logger).
			WithAvoid(func(c catalog.Category) []string {
				var prompts []string
				for _, it := range prog.Snapshot().Registry().ByCategory(c) {
					prompts = append(prompts, it.Prompt)
				}
				return prompts
			})
		sources = append(sources, gen)
		tutor = lessons.NewService(provider, lessons.DefaultConfig(), logger)
	}
	sources = append(sources, contentgen.NewWordSource(trainer.Pool, rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))))

	hk := housekeeping.New(e.store.HistoryRepo(), e.store.EventRepo(), housekeeping.Options{
		Interval:      cfg.Housekeeping.Interval,
		KeepHistory:   cfg.Housekeeping.KeepHistory,
		KeepLLMEvents: cfg.Housekeeping.KeepLLMEvents,
	}, logger)
	if err := hk.Start(); err != nil {
		logger.Warn("start housekeeping failed", zap.Error(err))
	} else {
		defer hk.Stop()
	}

	return app.Run(ctx, home.Deps{
		Progress: prog,
		Trainer:  trainer,
		Sink:     session.Fanout(session.NewRewards(prog, logger), eventLog(logger)),
		Source:   contentgen.NewChain(logger, sources...),
		History:  e.store.HistoryRepo(),
		Lessons:  tutor,
		Game: home.GameOptions{
			RaceSeconds:     cfg.Game.RaceSeconds,
			FeedbackDelay:   cfg.Game.FeedbackDelay,
			MatchErrorDelay: cfg.Game.MatchErrorDelay,
			QuestionTimeout: cfg.LLM.Timeout,
		},
		LLMEnabled: provider != nil,
		Logger:     logger,
	})
}

// eventLog writes every game event to the debug log.
func eventLog(logger *zap.Logger) session.Sink {
	return session.SinkFunc(func(ev session.Event) {
		logger.Debug("game event", zap.String("type", fmt.Sprintf("%T", ev)), zap.Any("event", ev))
	})
}
