package progress

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/metrics"
)

// Persister is the key-value boundary the store reads once and writes on
// every mutation.
type Persister interface {
	// Load returns the persisted bytes, or nil when nothing was saved yet.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the persisted bytes.
	Save(ctx context.Context, data []byte) error
}

// Store is the single owner of the progress record. Every operation runs
// under one mutex: it reads the current record, applies a pure reducer,
// persists the result and returns a snapshot.
type Store struct {
	mu        sync.Mutex
	rec       Record
	revision  uint64
	persister Persister
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// Open loads the persisted record. Missing or undecodable data yields the
// default record; load failures are logged, not returned.
func Open(ctx context.Context, p Persister, opts ...Option) *Store {
	s := &Store{persister: p, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	data, err := p.Load(ctx)
	if err != nil {
		s.logger.Warn("load progress failed, starting fresh", zap.Error(err))
		s.rec = Default()
		return s
	}
	rec, err := Decode(data)
	if err != nil {
		s.logger.Warn("progress data partly unreadable", zap.Error(err))
	}
	s.rec = rec
	return s
}

// Snapshot returns a deep copy of the current record.
func (s *Store) Snapshot() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Clone()
}

// Revision increases on every applied mutation.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// AwardXP adds amount to XP. Non-positive amounts leave the record unchanged.
func (s *Store) AwardXP(ctx context.Context, amount int) Record {
	return s.apply(ctx, "award_xp", func(r Record) (Record, bool) {
		next, changed := awardXP(r, amount)
		if changed {
			s.metrics.AddXP(amount)
		}
		return next, changed
	})
}

// RecordAnswer counts one answer.
func (s *Store) RecordAnswer(ctx context.Context, correct bool) Record {
	return s.apply(ctx, "record_answer", func(r Record) (Record, bool) {
		s.metrics.ObserveAnswer(correct)
		return recordAnswer(r, correct), true
	})
}

// UpdateMastery moves the mastery of key by delta, clamped to [0, 100].
func (s *Store) UpdateMastery(ctx context.Context, key string, delta int) Record {
	return s.apply(ctx, "update_mastery", func(r Record) (Record, bool) {
		return updateMastery(r, key, delta)
	})
}

// LogMistake adds item to the registry unless its id is already logged.
func (s *Store) LogMistake(ctx context.Context, item catalog.MissedItem) Record {
	return s.apply(ctx, "log_mistake", func(r Record) (Record, bool) {
		next, changed := logMistake(r, item)
		if changed {
			s.metrics.MistakeLogged()
		}
		return next, changed
	})
}

// ResolveMistake removes the registry entry with id, if present.
func (s *Store) ResolveMistake(ctx context.Context, id string) Record {
	return s.apply(ctx, "resolve_mistake", func(r Record) (Record, bool) {
		return resolveMistake(r, id)
	})
}

// RedeemMistake removes the registry entry with id and awards xp, as one
// operation. It reports false, awarding nothing, when the entry was already
// gone.
func (s *Store) RedeemMistake(ctx context.Context, id string, xp int) (Record, bool) {
	var redeemed bool
	rec := s.apply(ctx, "redeem_mistake", func(r Record) (Record, bool) {
		next, ok := resolveMistake(r, id)
		if !ok {
			return r, false
		}
		redeemed = true
		if withXP, ok := awardXP(next, xp); ok {
			next = withXP
		}
		return next, true
	})
	return rec, redeemed
}

// SetActiveSession replaces the persisted batch.
func (s *Store) SetActiveSession(ctx context.Context, items []catalog.Item) Record {
	return s.apply(ctx, "set_active_session", func(r Record) (Record, bool) {
		return setActiveSession(r, items), true
	})
}

// Reset restores the default record.
func (s *Store) Reset(ctx context.Context) Record {
	return s.apply(ctx, "reset", func(Record) (Record, bool) {
		return Default(), true
	})
}

// FinishSession scores a completed practice session. It returns
// ErrInvalidSessionResult, leaving the record unchanged, when total is not
// positive, score is outside [0, total] or the category is unknown.
func (s *Store) FinishSession(ctx context.Context, score, total int, category catalog.Category) (Record, SessionResult, error) {
	var (
		result SessionResult
		ferr   error
	)
	rec := s.apply(ctx, "finish_session", func(r Record) (Record, bool) {
		next, res, err := finishSession(r, score, total, category)
		if err != nil {
			ferr = err
			return r, false
		}
		result = res
		s.metrics.SessionCompleted(string(category))
		s.metrics.AddXP(res.XPAwarded)
		return next, true
	})
	return rec, result, ferr
}

// apply runs fn against the current record and persists the result inside
// the same critical section.
func (s *Store) apply(ctx context.Context, op string, fn func(Record) (Record, bool)) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := fn(s.rec)
	if !changed {
		return s.rec.Clone()
	}
	s.rec = next
	s.revision++
	s.persist(ctx, op)
	return s.rec.Clone()
}

// persist writes the whole record. Failures are reported and swallowed: the
// in-memory record stays authoritative.
func (s *Store) persist(ctx context.Context, op string) {
	data, err := Encode(s.rec)
	if err == nil {
		err = s.persister.Save(ctx, data)
	}
	if err != nil {
		s.metrics.PersistFailed()
		s.logger.Warn("persist progress failed", zap.String("op", op), zap.Error(err))
	}
}
