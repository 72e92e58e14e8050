package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match, LLM events only
}

// HistoryEntry is one finished practice session.
type HistoryEntry struct {
	ID           string
	Sequence     int64
	Category     string
	Score        int
	Total        int
	Accuracy     int
	XPAwarded    int
	DurationSecs int
	FinishedAt   time.Time
}

// HistoryRepo records finished practice sessions.
type HistoryRepo interface {
	// Append stores a finished session. Sequence is assigned by the repo.
	Append(ctx context.Context, e HistoryEntry) error

	// Recent returns sessions newest first.
	Recent(ctx context.Context, opts QueryOpts) ([]HistoryEntry, error)

	// Prune deletes all but the N most recent sessions.
	Prune(ctx context.Context, keep int) error
}

// WordRecord is a vocabulary word imported by the learner.
type WordRecord struct {
	Key       string
	Prompt    string
	Answer    string
	Aux       string
	Source    string
	CreatedAt time.Time
}

// WordRepo stores imported vocabulary.
type WordRepo interface {
	// Upsert inserts words, replacing existing rows with the same key.
	// It returns the number of rows written.
	Upsert(ctx context.Context, words []WordRecord) (int, error)

	// All returns every imported word ordered by key.
	All(ctx context.Context) ([]WordRecord, error)

	// Delete removes the word with key. It reports whether a row existed.
	Delete(ctx context.Context, key string) (bool, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// PruneLLMEvents deletes events older than before and returns how many were removed.
	PruneLLMEvents(ctx context.Context, before time.Time) (int64, error)
}
