// Package matching implements the two-column pairing game.
package matching

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/session"
)

// DefaultErrorDelay is how long a mismatch stays highlighted.
const DefaultErrorDelay = 500 * time.Millisecond

// Side is the column a card sits in.
type Side int

const (
	SidePrompt Side = iota
	SideAnswer
)

func (s Side) String() string {
	if s == SidePrompt {
		return "prompt"
	}
	return "answer"
}

// Opposite returns the other column.
func (s Side) Opposite() Side {
	if s == SidePrompt {
		return SideAnswer
	}
	return SidePrompt
}

// Outcome is the effect of one Select call.
type Outcome int

const (
	Ignored Outcome = iota
	Armed
	Rearmed
	Matched
	Mismatched
)

func (o Outcome) String() string {
	switch o {
	case Armed:
		return "armed"
	case Rearmed:
		return "rearmed"
	case Matched:
		return "matched"
	case Mismatched:
		return "mismatched"
	default:
		return "ignored"
	}
}

// Selection is an armed card.
type Selection struct {
	Key  string
	Side Side
}

// Card is one rendered cell of a column.
type Card struct {
	Key      string
	Text     string
	Revealed bool
	Selected bool
	Error    bool
}

// State is a read-only copy of the board.
type State struct {
	Prompts   []Card
	Answers   []Card
	Selection *Selection
	ErrorOn   bool
	Matched   int
	Total     int
	Complete  bool
}

// Options configures an Engine.
type Options struct {
	ErrorDelay time.Duration
	Scheduler  session.Scheduler
	Sink       session.Sink
	Rand       *rand.Rand
}

// Engine is the matching state machine for one batch.
type Engine struct {
	mu        sync.Mutex
	items     map[string]catalog.Item
	prompts   []catalog.Item
	answers   []catalog.Item
	revealed  map[string]bool
	selection *Selection
	errPair   *[2]Selection
	errTimer  session.Timer
	gen       uint64
	cleared   bool

	errorDelay time.Duration
	scheduler  session.Scheduler
	sink       session.Sink
	notifier   *session.Notifier
}

// New builds a board for items. Prompt and answer columns are shuffled
// independently so position never gives the pairing away.
func New(items []catalog.Item, opts Options) *Engine {
	if opts.ErrorDelay <= 0 {
		opts.ErrorDelay = DefaultErrorDelay
	}
	if opts.Scheduler == nil {
		opts.Scheduler = session.NewRealScheduler()
	}
	if opts.Sink == nil {
		opts.Sink = session.Discard
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	clean, _ := catalog.FilterItems(items)
	byKey := make(map[string]catalog.Item, len(clean))
	for _, it := range clean {
		byKey[it.Key] = it
	}

	return &Engine{
		items:      byKey,
		prompts:    session.Shuffle(opts.Rand, clean),
		answers:    session.Shuffle(opts.Rand, clean),
		revealed:   make(map[string]bool, len(clean)),
		errorDelay: opts.ErrorDelay,
		scheduler:  opts.Scheduler,
		sink:       opts.Sink,
		notifier:   session.NewNotifier(),
	}
}

// Changes signals whenever the board changes, including when the error
// highlight clears on its own.
func (e *Engine) Changes() <-chan struct{} {
	return e.notifier.C()
}

// Select picks the card with key in column side.
func (e *Engine) Select(key string, side Side) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, ok := e.items[key]
	if !ok || e.revealed[key] || e.errPair != nil {
		return Ignored
	}

	cur := e.selection
	switch {
	case cur == nil:
		e.selection = &Selection{Key: key, Side: side}
		e.notifier.Notify()
		return Armed

	case cur.Side == side:
		if cur.Key == key {
			return Ignored
		}
		e.selection = &Selection{Key: key, Side: side}
		e.notifier.Notify()
		return Rearmed

	case cur.Key == key:
		e.revealed[key] = true
		e.selection = nil
		e.sink.Emit(session.Matched{Item: item})
		if len(e.revealed) == len(e.items) && !e.cleared {
			e.cleared = true
			e.sink.Emit(session.BatchCleared{Size: len(e.items)})
		}
		e.notifier.Notify()
		return Matched

	default:
		armed := e.items[cur.Key]
		e.errPair = &[2]Selection{*cur, {Key: key, Side: side}}
		e.sink.Emit(session.Mismatched{Armed: armed, Picked: item})
		e.gen++
		gen := e.gen
		e.errTimer = e.scheduler.AfterFunc(e.errorDelay, func() { e.clearError(gen) })
		e.notifier.Notify()
		return Mismatched
	}
}

func (e *Engine) clearError(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || e.errPair == nil {
		return
	}
	e.errPair = nil
	e.selection = nil
	e.errTimer = nil
	e.notifier.Notify()
}

// Stop cancels the pending error timer and clears any highlight.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.errTimer != nil {
		e.errTimer.Stop()
		e.errTimer = nil
	}
	e.gen++
	e.errPair = nil
	e.selection = nil
}

// Complete reports whether every pair is revealed.
func (e *Engine) Complete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.items) > 0 && len(e.revealed) == len(e.items)
}

// State returns a copy of the board.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := State{
		Prompts:  e.cards(e.prompts, SidePrompt, func(it catalog.Item) string { return it.Prompt }),
		Answers:  e.cards(e.answers, SideAnswer, func(it catalog.Item) string { return it.Answer }),
		ErrorOn:  e.errPair != nil,
		Matched:  len(e.revealed),
		Total:    len(e.items),
		Complete: len(e.items) > 0 && len(e.revealed) == len(e.items),
	}
	if e.selection != nil {
		sel := *e.selection
		st.Selection = &sel
	}
	return st
}

func (e *Engine) cards(order []catalog.Item, side Side, text func(catalog.Item) string) []Card {
	out := make([]Card, len(order))
	for i, it := range order {
		c := Card{Key: it.Key, Text: text(it), Revealed: e.revealed[it.Key]}
		if e.selection != nil && e.selection.Key == it.Key && e.selection.Side == side {
			c.Selected = true
		}
		if e.errPair != nil {
			for _, s := range e.errPair {
				if s.Key == it.Key && s.Side == side {
					c.Error = true
				}
			}
		}
		out[i] = c
	}
	return out
}
