// Package quiz runs multiple-choice practice tests and the mistake review.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/progress"
	"github.com/abhisek/acedrill/internal/store"
)

var (
	ErrNoQuestions     = errors.New("no questions available")
	ErrIncomplete      = errors.New("not every question is answered")
	ErrSubmitted       = errors.New("exam already submitted")
	ErrNotSubmitted    = errors.New("exam not submitted yet")
	ErrFinished        = errors.New("exam already finished")
	ErrUnknownQuestion = errors.New("unknown question")
	ErrOptionRange     = errors.New("option out of range")
)

// ExamStore is the subset of progress.Store an exam writes to.
type ExamStore interface {
	LogMistake(ctx context.Context, item catalog.MissedItem) progress.Record
	FinishSession(ctx context.Context, score, total int, category catalog.Category) (progress.Record, progress.SessionResult, error)
}

// ExamOptions configures an Exam.
type ExamOptions struct {
	// History receives a row when the exam finishes. Optional.
	History store.HistoryRepo
	Logger  *zap.Logger
	Now     func() time.Time
}

// Result is the outcome of a submitted exam.
type Result struct {
	Score  int
	Total  int
	Missed []catalog.Question
}

// Exam is one practice test. Answers can change until Submit; Finish folds
// the result into progress exactly once.
type Exam struct {
	mu        sync.Mutex
	category  catalog.Category
	questions []catalog.Question
	index     map[string]int
	answers   map[string]int
	result    *Result
	finished  bool
	started   time.Time

	store   ExamStore
	history store.HistoryRepo
	logger  *zap.Logger
	now     func() time.Time
}

// NewExam builds an exam over questions. Malformed questions are dropped; if
// none remain ErrNoQuestions is returned.
func NewExam(s ExamStore, category catalog.Category, questions []catalog.Question, opts ExamOptions) (*Exam, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("exam category %q: %w", category, catalog.ErrUnknownCategory)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	clean, dropped := catalog.FilterQuestions(questions)
	if dropped > 0 {
		opts.Logger.Warn("dropped malformed questions", zap.Int("count", dropped),
			zap.String("category", string(category)))
	}

	if len(clean) == 0 {
		return nil, ErrNoQuestions
	}
	index := make(map[string]int, len(clean))
	for i, q := range clean {
		index[q.ID] = i
	}

	return &Exam{
		category:  category,
		questions: clean,
		index:     index,
		answers:   make(map[string]int, len(clean)),
		started:   opts.Now(),
		store:     s,
		history:   opts.History,
		logger:    opts.Logger,
		now:       opts.Now,
	}, nil
}

func (e *Exam) Category() catalog.Category { return e.category }

// Questions returns a copy of the exam questions in display order.
func (e *Exam) Questions() []catalog.Question {
	return append([]catalog.Question(nil), e.questions...)
}

// Choose records option as the answer to question id.
func (e *Exam) Choose(id string, option int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.result != nil {
		return ErrSubmitted
	}
	i, ok := e.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
	}
	if option < 0 || option >= len(e.questions[i].Options) {
		return fmt.Errorf("%w: %d", ErrOptionRange, option)
	}
	e.answers[id] = option
	return nil
}

// Answer returns the chosen option for id.
func (e *Exam) Answer(id string) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.answers[id]
	return v, ok
}

// Answered is the number of questions with a chosen option.
func (e *Exam) Answered() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.answers)
}

// Submit scores the exam and logs every missed question to the mistake
// registry. Every question must be answered first.
func (e *Exam) Submit(ctx context.Context) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.result != nil {
		return Result{}, ErrSubmitted
	}
	if len(e.answers) < len(e.questions) {
		return Result{}, fmt.Errorf("%w: %d of %d", ErrIncomplete, len(e.answers), len(e.questions))
	}

	res := Result{Total: len(e.questions)}
	for _, q := range e.questions {
		if e.answers[q.ID] == q.CorrectIndex {
			res.Score++
			continue
		}
		res.Missed = append(res.Missed, q)
		e.store.LogMistake(ctx, q.Missed())
	}
	e.result = &res
	e.logger.Debug("exam submitted", zap.String("category", string(e.category)),
		zap.Int("score", res.Score), zap.Int("total", res.Total))
	return copyResult(res), nil
}

// Result returns the submitted result.
func (e *Exam) Result() (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.result == nil {
		return Result{}, false
	}
	return copyResult(*e.result), true
}

// Finish folds the submitted result into progress and appends a history
// row. A history failure is logged, not returned.
func (e *Exam) Finish(ctx context.Context) (progress.SessionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.result == nil {
		return progress.SessionResult{}, ErrNotSubmitted
	}
	if e.finished {
		return progress.SessionResult{}, ErrFinished
	}

	_, sr, err := e.store.FinishSession(ctx, e.result.Score, e.result.Total, e.category)
	if err != nil {
		return progress.SessionResult{}, fmt.Errorf("finish exam: %w", err)
	}
	e.finished = true

	if e.history != nil {
		finished := e.now()
		entry := store.HistoryEntry{
			Category:     string(e.category),
			Score:        sr.Score,
			Total:        sr.Total,
			Accuracy:     sr.Accuracy,
			XPAwarded:    sr.XPAwarded,
			DurationSecs: int(finished.Sub(e.started).Seconds()),
			FinishedAt:   finished,
		}
		if err := e.history.Append(ctx, entry); err != nil {
			e.logger.Warn("append session history failed", zap.Error(err))
		}
	}
	return sr, nil
}

func copyResult(r Result) Result {
	r.Missed = append([]catalog.Question(nil), r.Missed...)
	return r
}
