// Package cursor provides circular navigation over an ordered list, with a
// revealed flag for flip cards.
package cursor

// Navigator tracks a position in items. It is not safe for concurrent use;
// screens own one each.
type Navigator[T any] struct {
	items    []T
	index    int
	revealed bool
}

// New returns a navigator positioned at the first item.
func New[T any](items []T) *Navigator[T] {
	n := &Navigator[T]{}
	n.Bind(items)
	return n
}

// Bind switches to a new list and resets the position and revealed flag.
func (n *Navigator[T]) Bind(items []T) {
	n.items = append([]T(nil), items...)
	n.index = 0
	n.revealed = false
}

// Next moves forward, wrapping to the start. No-op on an empty list.
func (n *Navigator[T]) Next() {
	if len(n.items) == 0 {
		return
	}
	n.index = (n.index + 1) % len(n.items)
	n.revealed = false
}

// Prev moves back, wrapping to the end. No-op on an empty list.
func (n *Navigator[T]) Prev() {
	if len(n.items) == 0 {
		return
	}
	n.index = (n.index - 1 + len(n.items)) % len(n.items)
	n.revealed = false
}

// Flip toggles the revealed flag.
func (n *Navigator[T]) Flip() {
	if len(n.items) == 0 {
		return
	}
	n.revealed = !n.revealed
}

// Current returns the item under the cursor.
func (n *Navigator[T]) Current() (T, bool) {
	if len(n.items) == 0 {
		var zero T
		return zero, false
	}
	return n.items[n.index], true
}

// Index returns the cursor position.
func (n *Navigator[T]) Index() int { return n.index }

// Len returns the list length.
func (n *Navigator[T]) Len() int { return len(n.items) }

// Revealed reports whether the current card is flipped.
func (n *Navigator[T]) Revealed() bool { return n.revealed }
