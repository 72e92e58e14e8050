package lessons

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/progress"
)

// QuickCheckXP is awarded for answering a quick check, right or wrong.
const QuickCheckXP = 25

var ErrOptionRange = errors.New("option out of range")

// Store is the subset of progress.Store a quick check writes to.
type Store interface {
	RecordAnswer(ctx context.Context, correct bool) progress.Record
	AwardXP(ctx context.Context, amount int) progress.Record
	LogMistake(ctx context.Context, item catalog.MissedItem) progress.Record
}

// Grade submits option as the answer to the lesson's quick check. It counts
// the answer, awards QuickCheckXP and logs a wrong answer as a mistake.
func Grade(ctx context.Context, st Store, l *Lesson, option int) (bool, error) {
	q := l.QuickCheck
	if option < 0 || option >= len(q.Options) {
		return false, fmt.Errorf("%w: %d", ErrOptionRange, option)
	}
	correct := option == q.CorrectIndex
	st.RecordAnswer(ctx, correct)
	st.AwardXP(ctx, QuickCheckXP)
	if !correct {
		st.LogMistake(ctx, q.Missed())
	}
	return correct, nil
}
