package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// retrying returns a RetryProvider that records waits instead of sleeping.
func retrying(inner Provider, attempts int) (*RetryProvider, *[]time.Duration) {
	var waits []time.Duration
	p := WithRetry(inner, RetryConfig{
		MaxAttempts: attempts,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     300 * time.Millisecond,
		Multiplier:  2,
	}).(*RetryProvider)
	p.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return p, &waits
}

func down() error { return &ErrProviderUnavailable{Err: errors.New("503")} }

func TestRetry_RecoversFromOutage(t *testing.T) {
	mock := NewScripted(Reply{Err: down()}, Reply{Err: down()}, Reply{Content: raw(questionJSON)})
	p, waits := retrying(mock, 3)

	resp, err := p.Generate(context.Background(), ask())
	require.NoError(t, err)
	assert.JSONEq(t, questionJSON, string(resp.Content))
	assert.Len(t, mock.Requests(), 3)
	require.Len(t, *waits, 2)
	assert.InDelta(t, float64(100*time.Millisecond), float64((*waits)[0]), float64(20*time.Millisecond))
	assert.InDelta(t, float64(200*time.Millisecond), float64((*waits)[1]), float64(40*time.Millisecond))
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	mock := NewScripted(Reply{Err: down()}, Reply{Err: down()}, Reply{Err: down()}, Reply{Content: raw(`{}`)})
	p, waits := retrying(mock, 3)

	_, err := p.Generate(context.Background(), ask())
	var unavail *ErrProviderUnavailable
	require.ErrorAs(t, err, &unavail)
	assert.Len(t, mock.Requests(), 3)
	assert.Len(t, *waits, 2)
}

func TestRetry_NeverRetried(t *testing.T) {
	for name, err := range map[string]error{
		"truncated": &ErrMaxTokensExceeded{Content: raw(`{"questions":[`)},
		"rejected":  &ErrRequestRejected{Status: 401, Err: errors.New("bad key")},
		"cancelled": context.Canceled,
	} {
		t.Run(name, func(t *testing.T) {
			mock := NewScripted(Reply{Err: err}, Reply{Content: raw(`{}`)})
			p, _ := retrying(mock, 3)
			_, got := p.Generate(context.Background(), ask())
			assert.ErrorIs(t, got, err)
			assert.Len(t, mock.Requests(), 1)
		})
	}
}

func TestRetry_InvalidResponseGetsOneMoreTry(t *testing.T) {
	invalid := func() error { return &ErrInvalidResponse{Content: raw(`nope`), Err: errors.New("not JSON")} }
	mock := NewScripted(Reply{Err: invalid()}, Reply{Err: invalid()}, Reply{Content: raw(questionJSON)})
	p, _ := retrying(mock, 5)

	_, err := p.Generate(context.Background(), ask())
	var inv *ErrInvalidResponse
	require.ErrorAs(t, err, &inv)
	assert.Len(t, mock.Requests(), 2)
}

func TestRetry_RateLimitWaitsRetryAfter(t *testing.T) {
	mock := NewScripted(
		Reply{Err: &ErrRateLimit{RetryAfter: 7 * time.Second, Err: errors.New("429")}},
		Reply{Content: raw(questionJSON)},
	)
	p, waits := retrying(mock, 3)

	_, err := p.Generate(context.Background(), ask())
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{7 * time.Second}, *waits)
}

func TestRetry_WaitIsCapped(t *testing.T) {
	p, _ := retrying(NewScripted(), 10)
	for attempt := 1; attempt <= 6; attempt++ {
		assert.LessOrEqual(t, p.wait(attempt, down()), 360*time.Millisecond)
	}
}

func TestRetry_OnRetryHook(t *testing.T) {
	var attempts []int
	mock := NewScripted(Reply{Err: down()}, Reply{Content: raw(`{}`)})
	p := WithRetry(mock, RetryConfig{
		MaxAttempts: 2,
		OnRetry:     func(attempt int, _ error, _ time.Duration) { attempts = append(attempts, attempt) },
	})

	_, err := p.Generate(context.Background(), ask())
	require.NoError(t, err)
	assert.Equal(t, []int{1}, attempts)
}

func TestRetry_StopsWhenContextEnds(t *testing.T) {
	mock := NewScripted(Reply{Err: down()}, Reply{Content: raw(`{}`)})
	p := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, Multiplier: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Generate(ctx, ask())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, mock.Requests(), 1)
	assert.Equal(t, "mock", p.ModelID())
}
