package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// retryClass says how an error affects the retry loop.
type retryClass int

const (
	retryNever retryClass = iota
	retryOnce             // schema failures: the model may get it right once more
	retryBackoff
)

func classify(err error) retryClass {
	var (
		maxTok   *ErrMaxTokensExceeded
		rejected *ErrRequestRejected
		invalid  *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return retryNever
	case errors.As(err, &maxTok), errors.As(err, &rejected):
		return retryNever
	case errors.As(err, &invalid):
		return retryOnce
	default:
		return retryBackoff
	}
}

// RetryProvider retries transient failures with capped exponential backoff
// and ±20% jitter. A rate limit with RetryAfter waits exactly that long.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	sleep  func(ctx context.Context, d time.Duration) error
}

func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryProvider{inner: p, config: cfg, sleep: sleepCtx}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	invalidSeen := false
	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		switch classify(err) {
		case retryNever:
			return nil, err
		case retryOnce:
			if invalidSeen {
				return nil, err
			}
			invalidSeen = true
		}
		if attempt >= r.config.MaxAttempts {
			return nil, err
		}

		wait := r.wait(attempt, err)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, wait)
		}
		if serr := r.sleep(ctx, wait); serr != nil {
			return nil, serr
		}
	}
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

// wait is the pause after the given 1-based attempt failed with err.
func (r *RetryProvider) wait(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	d := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt-1))
	if ceiling := float64(r.config.MaxWait); ceiling > 0 && d > ceiling {
		d = ceiling
	}
	d += d * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(max(d, 0))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
