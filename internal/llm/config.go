package llm

import (
	"fmt"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use. Empty means content
	// generation is disabled.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for OpenAI-compatible servers
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64

	// OnRetry, when set, is called before each wait.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultConfig returns a Config with model and retry defaults and no
// provider selected.
func DefaultConfig() Config {
	return Config{
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// Discover fills in a provider from the standard API key variables when
// none is selected. Keys are checked in order Gemini, OpenAI, Anthropic, OpenRouter.
// It reports whether a provider is selected afterwards.
func (c *Config) Discover(getenv func(string) string) bool {
	if c.Provider != "" {
		return true
	}
	switch {
	case getenv("GEMINI_API_KEY") != "":
		c.Provider = ProviderGemini
		c.Gemini.APIKey = getenv("GEMINI_API_KEY")
	case getenv("OPENAI_API_KEY") != "":
		c.Provider = ProviderOpenAI
		c.OpenAI.APIKey = getenv("OPENAI_API_KEY")
	case getenv("ANTHROPIC_API_KEY") != "":
		c.Provider = ProviderAnthropic
		c.Anthropic.APIKey = getenv("ANTHROPIC_API_KEY")
	case getenv("OPENROUTER_API_KEY") != "":
		c.Provider = ProviderOpenRouter
		c.OpenRouter.APIKey = getenv("OPENROUTER_API_KEY")
	default:
		return false
	}
	return true
}

// Validate checks that the selected provider has its API key set.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case ProviderAnthropic:
		key = c.Anthropic.APIKey
	case ProviderOpenAI:
		key = c.OpenAI.APIKey
	case ProviderGemini:
		key = c.Gemini.APIKey
	case ProviderOpenRouter:
		key = c.OpenRouter.APIKey
	case ProviderMock:
		return nil
	case "":
		return ErrNotConfigured
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("llm.%s.api_key is required for the %s provider", c.Provider, c.Provider)
	}
	return nil
}
