package session

import (
	"sync"

	"github.com/abhisek/acedrill/internal/catalog"
)

// Event is an outcome produced by a training engine.
type Event interface {
	event()
}

// Matched is emitted when a prompt and its answer are paired.
type Matched struct {
	Item catalog.Item
}

// Mismatched is emitted when the armed selection is paired with the wrong item.
type Mismatched struct {
	Armed  catalog.Item
	Picked catalog.Item
}

// BatchCleared is emitted once when every pair of a matching batch is revealed.
type BatchCleared struct {
	Size int
}

// RaceAnswered is emitted for every race question, answered or timed out.
type RaceAnswered struct {
	Item      catalog.Item
	Choice    string
	Correct   bool
	TimedOut  bool
	Remaining int
	Bonus     float64
}

// RaceFinished is emitted when the last race question's feedback ends.
type RaceFinished struct {
	Correct int
	Total   int
}

// CardVerified is emitted when the learner marks a flashcard as known.
// Library is set for cards from the full word list rather than the batch.
type CardVerified struct {
	Item    catalog.Item
	Library bool
}

func (Matched) event()      {}
func (Mismatched) event()   {}
func (BatchCleared) event() {}
func (RaceAnswered) event() {}
func (RaceFinished) event() {}
func (CardVerified) event() {}

// Sink consumes engine events. Engines call Emit while holding their own
// lock, so a sink must not call back into the engine.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Fanout forwards each event to every sink in order.
func Fanout(sinks ...Sink) Sink {
	return SinkFunc(func(e Event) {
		for _, s := range sinks {
			if s != nil {
				s.Emit(e)
			}
		}
	})
}

// Recorder keeps every event it receives.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Reset forgets recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
