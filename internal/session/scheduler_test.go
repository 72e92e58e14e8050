package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealScheduler(t *testing.T) {
	done := make(chan struct{})
	NewRealScheduler().AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("real timer did not fire")
	}
}

func TestRealScheduler_Stop(t *testing.T) {
	fired := make(chan struct{}, 1)
	tm := NewRealScheduler().AfterFunc(time.Hour, func() { fired <- struct{}{} })
	assert.True(t, tm.Stop())
	assert.False(t, tm.Stop())
}
