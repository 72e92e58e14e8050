// Package mistakes keeps the bounded log of missed questions used for re-practice.
package mistakes

import "github.com/abhisek/acedrill/internal/catalog"

// Capacity is the maximum number of entries retained.
const Capacity = 100

// Registry is a most-recent-first list of missed items, unique by id.
// Like mastery.Ledger it is a value type: mutators return a new registry.
type Registry struct {
	items []catalog.MissedItem
}

// NewRegistry hydrates a registry from persisted entries. Malformed entries
// and later duplicates are dropped and the result is truncated to Capacity.
func NewRegistry(items []catalog.MissedItem) Registry {
	out := make([]catalog.MissedItem, 0, min(len(items), Capacity))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if !it.Valid() || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		out = append(out, cloneItem(it))
		if len(out) == Capacity {
			break
		}
	}
	return Registry{items: out}
}

// Len returns the number of entries.
func (r Registry) Len() int {
	return len(r.items)
}

// Contains reports whether an entry with id is present.
func (r Registry) Contains(id string) bool {
	return r.index(id) >= 0
}

// Get returns the entry with id.
func (r Registry) Get(id string) (catalog.MissedItem, bool) {
	i := r.index(id)
	if i < 0 {
		return catalog.MissedItem{}, false
	}
	return cloneItem(r.items[i]), true
}

// Log prepends item unless its id is already present, then truncates to
// Capacity by dropping the oldest entries. The second result reports
// whether the registry changed.
func (r Registry) Log(item catalog.MissedItem) (Registry, bool) {
	if r.Contains(item.ID) {
		return r, false
	}
	n := min(len(r.items)+1, Capacity)
	next := make([]catalog.MissedItem, 0, n)
	next = append(next, cloneItem(item))
	next = append(next, r.items[:n-1]...)
	return Registry{items: next}, true
}

// Resolve removes the entry with id. The second result reports whether an
// entry was removed.
func (r Registry) Resolve(id string) (Registry, bool) {
	i := r.index(id)
	if i < 0 {
		return r, false
	}
	next := make([]catalog.MissedItem, 0, len(r.items)-1)
	next = append(next, r.items[:i]...)
	next = append(next, r.items[i+1:]...)
	return Registry{items: next}, true
}

// Items returns a copy of the entries, most recent first.
func (r Registry) Items() []catalog.MissedItem {
	out := make([]catalog.MissedItem, len(r.items))
	for i, it := range r.items {
		out[i] = cloneItem(it)
	}
	return out
}

// ByCategory returns entries of the given category, most recent first.
func (r Registry) ByCategory(c catalog.Category) []catalog.MissedItem {
	var out []catalog.MissedItem
	for _, it := range r.items {
		if it.Category == c {
			out = append(out, cloneItem(it))
		}
	}
	return out
}

func (r Registry) index(id string) int {
	for i, it := range r.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func cloneItem(it catalog.MissedItem) catalog.MissedItem {
	it.Options = append([]string(nil), it.Options...)
	return it
}
