package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

//go:embed words.json
var builtinWordsJSON []byte

// wordRecord is the on-disk shape of a vocabulary entry.
type wordRecord struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
	Example    string `json:"example,omitempty"`
}

// BuiltinWords returns the embedded vocabulary list as items, sorted alphabetically.
func BuiltinWords() ([]Item, error) {
	var records []wordRecord
	if err := json.Unmarshal(builtinWordsJSON, &records); err != nil {
		return nil, fmt.Errorf("decode builtin words: %w", err)
	}
	items := make([]Item, 0, len(records))
	for _, r := range records {
		items = append(items, WordItem(r.Word, r.Definition, r.Example))
	}
	items, _ = FilterItems(items)
	SortItems(items)
	return items, nil
}

// SortItems orders items alphabetically by answer, case-insensitively.
func SortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Answer) < strings.ToLower(items[j].Answer)
	})
}

// MergeItems appends extra items to base, skipping keys base already has.
// The result is sorted.
func MergeItems(base, extra []Item) []Item {
	out := make([]Item, 0, len(base)+len(extra))
	out = append(out, base...)
	out = append(out, extra...)
	out, _ = FilterItems(out)
	SortItems(out)
	return out
}

// SearchItems returns items whose answer or prompt contains query, case-insensitively.
// An empty query returns all items.
func SearchItems(items []Item, query string) []Item {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	var out []Item
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Answer), q) ||
			strings.Contains(strings.ToLower(it.Prompt), q) {
			out = append(out, it)
		}
	}
	return out
}
