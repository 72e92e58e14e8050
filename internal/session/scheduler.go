package session

import (
	"time"

	"github.com/coder/quartz"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the call
	// stopped the timer before it fired.
	Stop() bool
}

// Scheduler runs callbacks after a delay. Engines take one so tests can
// drive time by hand.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// ClockScheduler schedules callbacks on a quartz clock.
type ClockScheduler struct {
	Clock quartz.Clock
}

// NewRealScheduler schedules on the wall clock.
func NewRealScheduler() ClockScheduler {
	return ClockScheduler{Clock: quartz.NewReal()}
}

func (s ClockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return clockTimer{s.Clock.AfterFunc(d, f)}
}

type clockTimer struct{ t *quartz.Timer }

func (c clockTimer) Stop() bool { return c.t.Stop() }
