package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/progress"
)

// ErrEmptyPool is returned when a batch is requested from an empty word pool.
var ErrEmptyPool = errors.New("no study items available")

// BatchStore persists the active batch.
type BatchStore interface {
	Snapshot() progress.Record
	SetActiveSession(ctx context.Context, items []catalog.Item) progress.Record
}

// TrainerOptions configures a Trainer.
type TrainerOptions struct {
	// BatchSize defaults to DefaultBatchSize.
	BatchSize int

	// Rand is the only randomness source for batch draws.
	Rand *rand.Rand

	Logger *zap.Logger
}

// Trainer owns the study pool and the current batch. Every new batch bumps
// the generation so screens know to rebuild their engines.
type Trainer struct {
	mu         sync.Mutex
	store      BatchStore
	rng        *rand.Rand
	size       int
	pool       []catalog.Item
	batch      []catalog.Item
	generation uint64
	logger     *zap.Logger
}

// NewTrainer creates a trainer over pool. The persisted active batch, if any,
// is restored as the current batch.
func NewTrainer(store BatchStore, pool []catalog.Item, opts TrainerOptions) *Trainer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	clean, dropped := catalog.FilterItems(pool)
	if dropped > 0 {
		opts.Logger.Warn("dropped malformed study items", zap.Int("count", dropped))
	}

	return &Trainer{
		store:  store,
		rng:    opts.Rand,
		size:   opts.BatchSize,
		pool:   clean,
		batch:  store.Snapshot().ActiveSession,
		logger: opts.Logger,
	}
}

// Pool returns a copy of the study pool.
func (t *Trainer) Pool() []catalog.Item {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]catalog.Item(nil), t.pool...)
}

// SetPool replaces the study pool. The current batch is kept.
func (t *Trainer) SetPool(items []catalog.Item) {
	clean, dropped := catalog.FilterItems(items)
	if dropped > 0 {
		t.logger.Warn("dropped malformed study items", zap.Int("count", dropped))
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pool = clean
}

// Batch returns a copy of the current batch.
func (t *Trainer) Batch() []catalog.Item {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]catalog.Item(nil), t.batch...)
}

// Generation identifies the current batch.
func (t *Trainer) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.generation
}

// NewBatch draws a fresh batch, persists it as the active session and bumps
// the generation.
func (t *Trainer) NewBatch(ctx context.Context) ([]catalog.Item, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.drawLocked(ctx)
}

// EnsureBatch returns the current batch, drawing one first if there is none.
func (t *Trainer) EnsureBatch(ctx context.Context) ([]catalog.Item, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.batch) > 0 {
		return append([]catalog.Item(nil), t.batch...), nil
	}
	return t.drawLocked(ctx)
}

// Rand returns a source derived from the trainer's generator, for engines
// that need their own shuffles.
func (t *Trainer) Rand() *rand.Rand {
	t.mu.Lock()
	defer t.mu.Unlock()
	return rand.New(rand.NewPCG(t.rng.Uint64(), t.rng.Uint64()))
}

func (t *Trainer) drawLocked(ctx context.Context) ([]catalog.Item, error) {
	if len(t.pool) == 0 {
		return nil, ErrEmptyPool
	}
	t.batch = PickBatch(t.rng, t.pool, t.size)
	t.generation++
	t.store.SetActiveSession(ctx, t.batch)
	t.logger.Debug("drew session batch", zap.Int("size", len(t.batch)), zap.Uint64("generation", t.generation))
	return append([]catalog.Item(nil), t.batch...), nil
}
