// Package race implements the timed speed-race quiz.
package race

import (
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/session"
)

// Defaults.
const (
	DefaultQuestionSeconds = 15
	DefaultTick            = time.Second
	DefaultFeedbackDelay   = time.Second
	DefaultDistractors     = 3
)

// ErrRunning is returned by Start while a race is in progress.
var ErrRunning = errors.New("race already running")

// Phase is the race lifecycle stage.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseFeedback
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseFeedback:
		return "feedback"
	case PhaseFinished:
		return "finished"
	default:
		return "idle"
	}
}

// Feedback describes the last resolved question.
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackCorrect
	FeedbackWrong
	FeedbackTimeout
)

// SpeedBonus maps the seconds left on the clock to a score multiplier.
func SpeedBonus(remaining int) float64 {
	switch {
	case remaining > 10:
		return 1.8
	case remaining > 5:
		return 1.3
	default:
		return 1.0
	}
}

// Question is the prompt currently on screen.
type Question struct {
	Prompt  string
	Options []string
}

// State is a read-only copy of the race.
type State struct {
	Phase      Phase
	Index      int
	Total      int
	Progress   float64
	Remaining  int
	Question   Question
	Feedback   Feedback
	LastChoice string
	Answer     string
	Correct    int
}

// Options configures an Engine.
type Options struct {
	QuestionSeconds int
	Tick            time.Duration
	FeedbackDelay   time.Duration
	Distractors     int
	Scheduler       session.Scheduler
	Sink            session.Sink
	Rand            *rand.Rand
}

// Engine runs one race over a batch. Exactly one timer (countdown tick or
// feedback delay) is outstanding at a time; every transition stops it and
// bumps gen so a callback that already started becomes a no-op.
type Engine struct {
	mu       sync.Mutex
	items    []catalog.Item
	phase    Phase
	index    int
	progress float64
	remain   int
	question Question
	feedback Feedback
	choice   string
	correct  int
	timer    session.Timer
	gen      uint64

	opts     Options
	notifier *session.Notifier
}

// New creates an idle race over items.
func New(items []catalog.Item, opts Options) *Engine {
	if opts.QuestionSeconds <= 0 {
		opts.QuestionSeconds = DefaultQuestionSeconds
	}
	if opts.Tick <= 0 {
		opts.Tick = DefaultTick
	}
	if opts.FeedbackDelay <= 0 {
		opts.FeedbackDelay = DefaultFeedbackDelay
	}
	if opts.Distractors <= 0 {
		opts.Distractors = DefaultDistractors
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
	return &Engine{
		items:    clean,
		remain:   opts.QuestionSeconds,
		opts:     opts,
		notifier: session.NewNotifier(),
	}
}

// Changes signals whenever the race state changes, including on timer ticks.
func (e *Engine) Changes() <-chan struct{} {
	return e.notifier.C()
}

// Start begins the race from the first item. It may be called when idle or
// finished.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.items) == 0 {
		return session.ErrEmptyPool
	}
	if e.phase == PhaseRunning || e.phase == PhaseFeedback {
		return ErrRunning
	}
	e.cancelLocked()
	e.index = 0
	e.progress = 0
	e.correct = 0
	e.beginQuestionLocked()
	e.notifier.Notify()
	return nil
}

// Answer submits choice for the current question. It reports whether the
// answer was accepted; answers outside the running phase are ignored.
func (e *Engine) Answer(choice string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resolveLocked(choice, false)
}

// Stop cancels any pending timer and returns to idle.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelLocked()
	e.phase = PhaseIdle
	e.index = 0
	e.progress = 0
	e.correct = 0
	e.remain = e.opts.QuestionSeconds
	e.question = Question{}
	e.feedback = FeedbackNone
	e.choice = ""
	e.notifier.Notify()
}

// State returns a copy of the race.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := State{
		Phase:      e.phase,
		Index:      e.index,
		Total:      len(e.items),
		Progress:   e.progress,
		Remaining:  e.remain,
		Question:   Question{Prompt: e.question.Prompt, Options: append([]string(nil), e.question.Options...)},
		Feedback:   e.feedback,
		LastChoice: e.choice,
		Correct:    e.correct,
	}
	if e.phase == PhaseFeedback || e.phase == PhaseFinished {
		st.Answer = e.items[e.index].Answer
	}
	return st
}

// beginQuestionLocked shows the question at e.index and starts its countdown.
func (e *Engine) beginQuestionLocked() {
	current := e.items[e.index]
	options := []string{current.Answer}
	seen := map[string]bool{current.Answer: true}
	for _, it := range session.Shuffle(e.opts.Rand, e.items) {
		if len(options) > e.opts.Distractors {
			break
		}
		// Items sharing an answer text would render as duplicate options.
		if seen[it.Answer] {
			continue
		}
		seen[it.Answer] = true
		options = append(options, it.Answer)
	}

	e.question = Question{Prompt: current.Prompt, Options: session.Shuffle(e.opts.Rand, options)}
	e.remain = e.opts.QuestionSeconds
	e.feedback = FeedbackNone
	e.choice = ""
	e.phase = PhaseRunning
	e.scheduleLocked(e.opts.Tick, e.tick)
}

// resolveLocked is the single exit from the running phase, shared by manual
// answers and timeouts.
func (e *Engine) resolveLocked(choice string, timedOut bool) bool {
	if e.phase != PhaseRunning {
		return false
	}
	e.cancelLocked()

	item := e.items[e.index]
	correct := !timedOut && choice == item.Answer
	ev := session.RaceAnswered{
		Item:      item,
		Choice:    choice,
		Correct:   correct,
		TimedOut:  timedOut,
		Remaining: e.remain,
	}

	e.phase = PhaseFeedback
	e.choice = choice
	switch {
	case correct:
		bonus := SpeedBonus(e.remain)
		ev.Bonus = bonus
		e.progress = math.Min(100, e.progress+(100/float64(len(e.items)))*bonus)
		e.correct++
		e.feedback = FeedbackCorrect
	case timedOut:
		e.feedback = FeedbackTimeout
	default:
		e.feedback = FeedbackWrong
	}

	e.opts.Sink.Emit(ev)
	e.scheduleLocked(e.opts.FeedbackDelay, e.advance)
	e.notifier.Notify()
	return true
}

func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || e.phase != PhaseRunning {
		return
	}
	e.remain--
	if e.remain <= 0 {
		e.remain = 0
		e.resolveLocked("", true)
		return
	}
	e.scheduleLocked(e.opts.Tick, e.tick)
	e.notifier.Notify()
}

func (e *Engine) advance(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || e.phase != PhaseFeedback {
		return
	}
	e.timer = nil
	if e.index+1 < len(e.items) {
		e.index++
		e.beginQuestionLocked()
	} else {
		e.phase = PhaseFinished
		e.opts.Sink.Emit(session.RaceFinished{Correct: e.correct, Total: len(e.items)})
	}
	e.notifier.Notify()
}

// scheduleLocked replaces the outstanding timer with one running f after d.
func (e *Engine) scheduleLocked(d time.Duration, f func(uint64)) {
	e.cancelLocked()
	gen := e.gen
	e.timer = e.opts.Scheduler.AfterFunc(d, func() { f(gen) })
}

// cancelLocked stops the outstanding timer and invalidates its callback.
func (e *Engine) cancelLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
}
