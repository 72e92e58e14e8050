package catalog

import "strings"

// Item is a study word (or similar card) drawn into training batches.
// Engines treat it as opaque apart from the uniqueness of Key.
type Item struct {
	// Key uniquely identifies the item. It is also the mastery key.
	Key string `json:"key"`

	// Prompt is the clue shown to the learner (for vocabulary, the definition).
	Prompt string `json:"prompt"`

	// Answer is the text the learner has to recall (for vocabulary, the word).
	Answer string `json:"answer"`

	// Aux carries optional supporting text such as an example sentence.
	Aux string `json:"aux,omitempty"`
}

// Valid reports whether the item carries every required field.
func (it Item) Valid() bool {
	return strings.TrimSpace(it.Key) != "" &&
		strings.TrimSpace(it.Prompt) != "" &&
		strings.TrimSpace(it.Answer) != ""
}

// WordItem builds a vocabulary item keyed by the word itself.
func WordItem(word, definition, example string) Item {
	word = strings.TrimSpace(word)
	return Item{
		Key:    word,
		Prompt: strings.TrimSpace(definition),
		Answer: word,
		Aux:    strings.TrimSpace(example),
	}
}

// FilterItems drops malformed items and duplicate keys, keeping first occurrences.
// It returns the surviving items and the number dropped.
func FilterItems(items []Item) ([]Item, int) {
	out := make([]Item, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if !it.Valid() || seen[it.Key] {
			continue
		}
		seen[it.Key] = true
		out = append(out, it)
	}
	return out, len(items) - len(out)
}
