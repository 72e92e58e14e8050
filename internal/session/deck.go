package session

import (
	"math/rand/v2"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/cursor"
)

// Deck is a flashcard stack. A session deck holds the current batch; a
// library deck holds the whole word list and its verifications also raise
// mastery.
type Deck struct {
	nav     *cursor.Navigator[catalog.Item]
	sink    Sink
	library bool
}

// NewDeck returns a session deck positioned at the first card.
func NewDeck(items []catalog.Item, sink Sink) *Deck {
	if sink == nil {
		sink = Discard
	}
	return &Deck{nav: cursor.New(items), sink: sink}
}

// Bind replaces the cards with a session batch and resets the cursor.
func (d *Deck) Bind(items []catalog.Item) {
	d.library = false
	d.nav.Bind(items)
}

// BindLibrary replaces the cards with the full word list, in the given order.
func (d *Deck) BindLibrary(items []catalog.Item) {
	d.library = true
	d.nav.Bind(items)
}

// ShuffleLibrary reorders a library deck and returns to its first card.
// It does nothing to a session deck.
func (d *Deck) ShuffleLibrary(rng *rand.Rand, items []catalog.Item) bool {
	if !d.library {
		return false
	}
	d.nav.Bind(Shuffle(rng, items))
	return true
}

func (d *Deck) Library() bool { return d.library }

func (d *Deck) Next() { d.nav.Next() }
func (d *Deck) Prev() { d.nav.Prev() }
func (d *Deck) Flip() { d.nav.Flip() }

func (d *Deck) Current() (catalog.Item, bool) { return d.nav.Current() }
func (d *Deck) Index() int                    { return d.nav.Index() }
func (d *Deck) Len() int                      { return d.nav.Len() }
func (d *Deck) Revealed() bool                { return d.nav.Revealed() }

// Verify marks the current card as known and moves to the next one.
// It reports false on an empty deck.
func (d *Deck) Verify() bool {
	it, ok := d.nav.Current()
	if !ok {
		return false
	}
	d.sink.Emit(CardVerified{Item: it, Library: d.library})
	d.nav.Next()
	return true
}
