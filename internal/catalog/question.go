package catalog

import (
	"fmt"
	"strings"
)

// Question is a multiple-choice quiz item supplied by the content source.
type Question struct {
	ID           string   `json:"id"`
	Category     Category `json:"category"`
	Passage      string   `json:"passage,omitempty"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

// Valid reports whether the question can be shown and scored.
func (q Question) Valid() bool {
	if strings.TrimSpace(q.ID) == "" || strings.TrimSpace(q.Prompt) == "" {
		return false
	}
	if !q.Category.Valid() || len(q.Options) < 2 {
		return false
	}
	return q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Options)
}

// CorrectOption returns the text of the correct option.
func (q Question) CorrectOption() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// Missed converts the question into a mistake registry entry.
func (q Question) Missed() MissedItem {
	return MissedItem{
		ID:           q.ID,
		Category:     q.Category,
		Prompt:       q.Prompt,
		Options:      append([]string(nil), q.Options...),
		CorrectIndex: q.CorrectIndex,
		Explanation:  q.Explanation,
	}
}

// FilterQuestions drops malformed questions and duplicate ids.
// It returns the surviving questions and the number dropped.
func FilterQuestions(qs []Question) ([]Question, int) {
	out := make([]Question, 0, len(qs))
	seen := make(map[string]bool, len(qs))
	for _, q := range qs {
		if !q.Valid() || seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		out = append(out, q)
	}
	return out, len(qs) - len(out)
}

// MissedItem is a question the learner got wrong, kept for re-practice.
// Entries are immutable once logged; they only leave the registry by removal.
type MissedItem struct {
	ID           string   `json:"id"`
	Category     Category `json:"category"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

// Valid reports whether the entry is well-formed.
func (m MissedItem) Valid() bool {
	return m.ID != "" && len(m.Options) >= 2 &&
		m.CorrectIndex >= 0 && m.CorrectIndex < len(m.Options)
}

// fallbackDefinitions fill the wrong options of a vocabulary miss when the
// batch does not provide enough distinct definitions.
var fallbackDefinitions = []string{
	"To act with haste without consideration",
	"A state of complete tranquility",
	"None of the above",
}

// VocabularyMiss builds the registry entry logged when a vocabulary item is missed
// in a game. The id is derived from the key so repeated misses collapse into one entry.
func VocabularyMiss(it Item) MissedItem {
	explanation := fmt.Sprintf("Full definition: %s.", it.Prompt)
	if it.Aux != "" {
		explanation += fmt.Sprintf(" Context usage: %q", it.Aux)
	}
	options := append([]string{it.Prompt}, fallbackDefinitions...)
	return MissedItem{
		ID:           "vocab:" + it.Key,
		Category:     CategoryVocabulary,
		Prompt:       fmt.Sprintf("Identify the primary definition for the word: %s", it.Answer),
		Options:      options,
		CorrectIndex: 0,
		Explanation:  explanation,
	}
}
