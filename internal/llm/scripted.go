package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// Reply is one scripted outcome of a Generate call.
type Reply struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// Scripted is a Provider that plays back replies in order and records every
// request. Content is returned as is, without schema checks. Once the script
// runs out it reports the provider as unavailable. It backs the "mock"
// provider and tests.
type Scripted struct {
	mu       sync.Mutex
	script   []Reply
	requests []Request
}

func NewScripted(replies ...Reply) *Scripted {
	return &Scripted{script: replies}
}

func (s *Scripted) Generate(_ context.Context, req Request) (*Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if len(s.script) == 0 {
		return nil, &ErrProviderUnavailable{}
	}
	next := s.script[0]
	s.script = s.script[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: "mock", StopReason: StopEnd}, nil
}

func (s *Scripted) ModelID() string { return "mock" }

// Push appends replies to the script.
func (s *Scripted) Push(replies ...Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = append(s.script, replies...)
}

// Requests returns a copy of the requests seen so far.
func (s *Scripted) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}
