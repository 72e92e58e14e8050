// Package progress owns the learner's durable progress record.
package progress

import (
	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/mastery"
	"github.com/abhisek/acedrill/internal/mistakes"
)

// Record is the single durable progress aggregate.
type Record struct {
	CompletedSessions int                      `json:"completed_sessions"`
	AverageScore      int                      `json:"average_score"`
	CategoryScores    map[catalog.Category]int `json:"category_scores"`
	QuestionsAnswered int                      `json:"questions_answered"`
	TotalCorrect      int                      `json:"total_correct"`
	XP                int                      `json:"xp"`
	Mastery           map[string]int           `json:"mastery"`
	ActiveSession     []catalog.Item           `json:"active_session"`
	Mistakes          []catalog.MissedItem     `json:"mistakes"`
}

// Default returns the record of a learner with no history.
func Default() Record {
	scores := make(map[catalog.Category]int, len(catalog.AllCategories()))
	for _, c := range catalog.AllCategories() {
		scores[c] = 0
	}
	return Record{
		CategoryScores: scores,
		Mastery:        map[string]int{},
		ActiveSession:  []catalog.Item{},
		Mistakes:       []catalog.MissedItem{},
	}
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := r
	out.CategoryScores = make(map[catalog.Category]int, len(r.CategoryScores))
	for k, v := range r.CategoryScores {
		out.CategoryScores[k] = v
	}
	out.Mastery = make(map[string]int, len(r.Mastery))
	for k, v := range r.Mastery {
		out.Mastery[k] = v
	}
	out.ActiveSession = append([]catalog.Item{}, r.ActiveSession...)
	out.Mistakes = make([]catalog.MissedItem, len(r.Mistakes))
	for i, m := range r.Mistakes {
		m.Options = append([]string(nil), m.Options...)
		out.Mistakes[i] = m
	}
	return out
}

// Accuracy returns the lifetime percentage of correct answers, rounded.
func (r Record) Accuracy() int {
	if r.QuestionsAnswered <= 0 {
		return 0
	}
	return roundDiv(100*r.TotalCorrect, r.QuestionsAnswered)
}

// Ledger returns the mastery scores as a ledger.
func (r Record) Ledger() mastery.Ledger {
	return mastery.NewLedger(r.Mastery)
}

// Registry returns the mistake log as a registry.
func (r Record) Registry() mistakes.Registry {
	return mistakes.NewRegistry(r.Mistakes)
}

// normalize enforces every bound on a record of unknown provenance.
func normalize(r Record) Record {
	scores := make(map[catalog.Category]int, len(catalog.AllCategories()))
	for _, c := range catalog.AllCategories() {
		scores[c] = clampPercent(r.CategoryScores[c])
	}
	r.CategoryScores = scores

	r.CompletedSessions = max(r.CompletedSessions, 0)
	r.AverageScore = averageOfAttempted(r.CategoryScores)
	r.QuestionsAnswered = max(r.QuestionsAnswered, 0)
	r.TotalCorrect = min(max(r.TotalCorrect, 0), r.QuestionsAnswered)
	r.XP = max(r.XP, 0)

	r.Mastery = mastery.NewLedger(r.Mastery).Scores()
	r.ActiveSession, _ = catalog.FilterItems(r.ActiveSession)
	r.Mistakes = mistakes.NewRegistry(r.Mistakes).Items()
	return r
}

func clampPercent(v int) int {
	return min(max(v, 0), 100)
}

// roundDiv returns num/den rounded half up. Both must be non-negative and den > 0.
func roundDiv(num, den int) int {
	return (2*num + den) / (2 * den)
}
