package quiz

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/progress"
)

// ReviewXP is awarded for correcting a logged mistake.
const ReviewXP = 75

var ErrUnknownMistake = errors.New("unknown mistake")

// ReviewStore is the subset of progress.Store the review uses.
type ReviewStore interface {
	Snapshot() progress.Record
	RedeemMistake(ctx context.Context, id string, xp int) (progress.Record, bool)
}

// Review re-evaluates entries in the mistake registry.
type Review struct {
	store  ReviewStore
	logger *zap.Logger
}

func NewReview(s ReviewStore, logger *zap.Logger) *Review {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Review{store: s, logger: logger}
}

// Pending returns the registry entries, most recent first.
func (r *Review) Pending() []catalog.MissedItem {
	return r.store.Snapshot().Mistakes
}

// Attempt answers the mistake with id. A correct answer removes the entry
// and awards ReviewXP; a wrong one leaves it in place. An entry resolved
// elsewhere since the snapshot reports ErrUnknownMistake and pays nothing.
func (r *Review) Attempt(ctx context.Context, id string, option int) (bool, error) {
	reg := r.store.Snapshot().Registry()
	item, ok := reg.Get(id)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownMistake, id)
	}
	if option < 0 || option >= len(item.Options) {
		return false, fmt.Errorf("%w: %d", ErrOptionRange, option)
	}
	if option != item.CorrectIndex {
		r.logger.Debug("mistake review missed", zap.String("id", id))
		return false, nil
	}
	if _, ok := r.store.RedeemMistake(ctx, id, ReviewXP); !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownMistake, id)
	}
	return true, nil
}
