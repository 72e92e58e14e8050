// Package sessiontest provides a hand-driven scheduler for engine tests.
package sessiontest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"

	"github.com/abhisek/acedrill/internal/session"
)

// Scheduler fires callbacks only when Advance moves its mock clock. Advance
// returns after every callback it fired has finished.
type Scheduler struct {
	clock *quartz.Mock
	start time.Time

	mu   sync.Mutex
	live map[*int]struct{}
}

func NewScheduler(tb testing.TB) *Scheduler {
	clock := quartz.NewMock(tb)
	return &Scheduler{clock: clock, start: clock.Now(), live: map[*int]struct{}{}}
}

func (s *Scheduler) AfterFunc(d time.Duration, f func()) session.Timer {
	id := new(int)
	s.mu.Lock()
	s.live[id] = struct{}{}
	s.mu.Unlock()

	t := s.clock.AfterFunc(d, func() {
		s.retire(id)
		f()
	})
	return timer{s: s, id: id, t: t}
}

func (s *Scheduler) retire(id *int) {
	s.mu.Lock()
	delete(s.live, id)
	s.mu.Unlock()
}

type timer struct {
	s  *Scheduler
	id *int
	t  *quartz.Timer
}

func (t timer) Stop() bool {
	if !t.t.Stop() {
		return false
	}
	t.s.retire(t.id)
	return true
}

// Advance moves the clock forward by d one event at a time, so timers that
// a callback schedules inside the window fire too.
func (s *Scheduler) Advance(d time.Duration) {
	ctx := context.Background()
	for {
		next, ok := s.clock.Peek()
		if !ok || next > d {
			break
		}
		s.clock.Advance(next).MustWait(ctx)
		d -= next
	}
	if d > 0 {
		s.clock.Advance(d).MustWait(ctx)
	}
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Now returns how far the clock has been advanced.
func (s *Scheduler) Now() time.Duration {
	return s.clock.Now().Sub(s.start)
}
