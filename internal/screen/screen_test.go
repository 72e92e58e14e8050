package screen

import "testing"

type changed struct{}

func TestWatchDeliversSignal(t *testing.T) {
	ch := make(chan struct{}, 1)
	done := make(chan struct{})
	ch <- struct{}{}

	if got := Watch(ch, done, changed{})(); got != (changed{}) {
		t.Errorf("expected changed msg, got %#v", got)
	}
}

func TestWatchReturnsNilWhenDone(t *testing.T) {
	ch := make(chan struct{})
	done := make(chan struct{})
	close(done)

	if got := Watch(ch, done, changed{})(); got != nil {
		t.Errorf("expected nil after done, got %#v", got)
	}
}
