package progress

import (
	"errors"
	"fmt"
	"math"

	"github.com/abhisek/acedrill/internal/catalog"
)

// ErrInvalidSessionResult is returned when a finished session cannot be scored.
var ErrInvalidSessionResult = errors.New("invalid session result")

// Session completion bonus: xp = accuracy*AccuracyXPFactor + CompletionXP.
const (
	AccuracyXPFactor = 3
	CompletionXP     = 50
)

// SessionResult describes the effect of a finished session.
type SessionResult struct {
	Category      catalog.Category
	Score         int
	Total         int
	Accuracy      int
	CategoryScore int
	XPAwarded     int
}

// The reducers below are pure: they take the current record and return the
// next one without touching their input.

func awardXP(r Record, amount int) (Record, bool) {
	if amount <= 0 {
		return r, false
	}
	next := r.Clone()
	next.XP = addSaturating(r.XP, amount)
	return next, true
}

func recordAnswer(r Record, correct bool) Record {
	next := r.Clone()
	next.QuestionsAnswered = addSaturating(r.QuestionsAnswered, 1)
	if correct {
		next.TotalCorrect = addSaturating(r.TotalCorrect, 1)
	}
	return next
}

func updateMastery(r Record, key string, delta int) (Record, bool) {
	if key == "" {
		return r, false
	}
	next := r.Clone()
	next.Mastery = r.Ledger().Apply(key, delta).Scores()
	return next, true
}

func logMistake(r Record, item catalog.MissedItem) (Record, bool) {
	if !item.Valid() {
		return r, false
	}
	reg, changed := r.Registry().Log(item)
	if !changed {
		return r, false
	}
	next := r.Clone()
	next.Mistakes = reg.Items()
	return next, true
}

func resolveMistake(r Record, id string) (Record, bool) {
	reg, changed := r.Registry().Resolve(id)
	if !changed {
		return r, false
	}
	next := r.Clone()
	next.Mistakes = reg.Items()
	return next, true
}

func setActiveSession(r Record, items []catalog.Item) Record {
	next := r.Clone()
	next.ActiveSession, _ = catalog.FilterItems(items)
	return next
}

func finishSession(r Record, score, total int, category catalog.Category) (Record, SessionResult, error) {
	if total <= 0 {
		return r, SessionResult{}, fmt.Errorf("%w: total must be positive, got %d", ErrInvalidSessionResult, total)
	}
	if score < 0 || score > total {
		return r, SessionResult{}, fmt.Errorf("%w: score %d outside [0, %d]", ErrInvalidSessionResult, score, total)
	}
	if !category.Valid() {
		return r, SessionResult{}, fmt.Errorf("%w: unknown category %q", ErrInvalidSessionResult, category)
	}

	accuracy := roundDiv(100*score, total)

	next := r.Clone()
	prev := r.CategoryScores[category]
	if prev == 0 {
		next.CategoryScores[category] = accuracy
	} else {
		next.CategoryScores[category] = roundDiv(prev+accuracy, 2)
	}
	next.AverageScore = averageOfAttempted(next.CategoryScores)

	xp := accuracy*AccuracyXPFactor + CompletionXP
	next.CompletedSessions = addSaturating(r.CompletedSessions, 1)
	next.QuestionsAnswered = addSaturating(r.QuestionsAnswered, total)
	next.TotalCorrect = addSaturating(r.TotalCorrect, score)
	next.XP = addSaturating(r.XP, xp)

	return next, SessionResult{
		Category:      category,
		Score:         score,
		Total:         total,
		Accuracy:      accuracy,
		CategoryScore: next.CategoryScores[category],
		XPAwarded:     xp,
	}, nil
}

// averageOfAttempted is the rounded mean of the nonzero scores, or 0 when none are.
func averageOfAttempted(scores map[catalog.Category]int) int {
	sum, n := 0, 0
	for _, c := range catalog.AllCategories() {
		if v := scores[c]; v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return roundDiv(sum, n)
}

func addSaturating(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}
