package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/acedrill/internal/metrics"
	"github.com/abhisek/acedrill/internal/store"
)

// Deps are the optional collaborators of the provider middleware.
type Deps struct {
	Events  store.EventRepo
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// NewProvider creates the configured provider wrapped as
// caller → timeout → retry → logging → base.
func NewProvider(ctx context.Context, cfg Config, deps Deps) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewScripted()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	retry := cfg.Retry
	if retry.OnRetry == nil {
		retry.OnRetry = func(attempt int, err error, wait time.Duration) {
			logger.Info("retrying llm request", zap.String("provider", cfg.Provider),
				zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(err))
		}
	}

	logged := WithLogging(base, cfg.Provider, deps.Events, logger, deps.Metrics)
	retried := WithRetry(logged, retry)
	return WithTimeout(retried, cfg.Timeout), nil
}

// TimeoutProvider bounds each Generate call.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps p so each call runs under timeout. A non-positive
// timeout returns p unchanged.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: timeout}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) ModelID() string { return t.inner.ModelID() }
