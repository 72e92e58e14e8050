package mastery

import "sort"

// Score bounds for a single item.
const (
	MinScore = 0
	MaxScore = 100
)

// Ledger holds per-item mastery scores. It is a value type: Apply returns a
// new ledger and never mutates the receiver, so snapshots handed to readers
// stay stable.
type Ledger struct {
	scores map[string]int
}

// NewLedger builds a ledger from persisted scores, clamping every value and
// dropping empty keys.
func NewLedger(scores map[string]int) Ledger {
	l := Ledger{scores: make(map[string]int, len(scores))}
	for k, v := range scores {
		if k == "" {
			continue
		}
		l.scores[k] = Clamp(v)
	}
	return l
}

// Clamp bounds v to [MinScore, MaxScore].
func Clamp(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

// Score returns the mastery of key. Unknown keys score 0.
func (l Ledger) Score(key string) int {
	return l.scores[key]
}

// Apply returns a ledger with key moved by delta and clamped.
func (l Ledger) Apply(key string, delta int) Ledger {
	next := l.clone()
	next.scores[key] = addClamped(l.scores[key], delta)
	return next
}

// addClamped adds delta to current without overflowing before the clamp.
func addClamped(current, delta int) int {
	if delta > MaxScore-current {
		return MaxScore
	}
	if delta < MinScore-current {
		return MinScore
	}
	return Clamp(current + delta)
}

// Scores returns a copy of all tracked scores.
func (l Ledger) Scores() map[string]int {
	out := make(map[string]int, len(l.scores))
	for k, v := range l.scores {
		out[k] = v
	}
	return out
}

// Len returns the number of tracked items.
func (l Ledger) Len() int {
	return len(l.scores)
}

// MasteredKeys returns the keys at or above the mastered threshold, sorted.
func (l Ledger) MasteredKeys() []string {
	var keys []string
	for k, v := range l.scores {
		if LevelFor(v) == LevelMastered {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func (l Ledger) clone() Ledger {
	return Ledger{scores: l.Scores()}
}
