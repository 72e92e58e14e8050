package session

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/mastery"
	"github.com/abhisek/acedrill/internal/progress"
)

// Reward amounts.
const (
	MatchXP        = 10
	BatchClearedXP = 250
	RaceBaseXP     = 20
	FlashcardXP    = 10
)

// ProgressWriter is the subset of progress.Store the rewards sink uses.
type ProgressWriter interface {
	AwardXP(ctx context.Context, amount int) progress.Record
	RecordAnswer(ctx context.Context, correct bool) progress.Record
	UpdateMastery(ctx context.Context, key string, delta int) progress.Record
	LogMistake(ctx context.Context, item catalog.MissedItem) progress.Record
}

// Rewards turns engine events into progress operations.
type Rewards struct {
	progress ProgressWriter
	logger   *zap.Logger
}

// NewRewards returns a sink writing to p.
func NewRewards(p ProgressWriter, logger *zap.Logger) *Rewards {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rewards{progress: p, logger: logger}
}

func (r *Rewards) Emit(e Event) {
	ctx := context.Background()
	switch e := e.(type) {
	case Matched:
		r.progress.AwardXP(ctx, MatchXP)
		r.progress.RecordAnswer(ctx, true)
	case Mismatched:
		r.progress.RecordAnswer(ctx, false)
		r.progress.LogMistake(ctx, catalog.VocabularyMiss(e.Armed))
	case BatchCleared:
		r.progress.AwardXP(ctx, BatchClearedXP)
		r.logger.Info("matching batch cleared", zap.Int("size", e.Size))
	case RaceAnswered:
		r.progress.RecordAnswer(ctx, e.Correct)
		if e.Correct {
			r.progress.AwardXP(ctx, RaceXP(e.Bonus))
			r.progress.UpdateMastery(ctx, e.Item.Key, mastery.RaceIncrement)
		} else {
			r.progress.LogMistake(ctx, catalog.VocabularyMiss(e.Item))
		}
	case RaceFinished:
		r.logger.Info("race finished", zap.Int("correct", e.Correct), zap.Int("total", e.Total))
	case CardVerified:
		r.progress.AwardXP(ctx, FlashcardXP)
		if e.Library {
			r.progress.UpdateMastery(ctx, e.Item.Key, mastery.FlashcardIncrement)
		}
	default:
		r.logger.Debug("unhandled session event", zap.Any("event", e))
	}
}

// RaceXP is the experience awarded for a correct race answer.
func RaceXP(bonus float64) int {
	return int(math.Round(RaceBaseXP * bonus))
}
