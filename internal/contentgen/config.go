package contentgen

// Config controls the LLM generator.
type Config struct {
	// MaxTokens is the response budget for one batch of questions.
	MaxTokens int

	Temperature float64

	// MaxAvoid caps how many earlier prompts are listed as "do not repeat".
	MaxAvoid int
}

func DefaultConfig() Config {
	return Config{
		MaxTokens:   8192,
		Temperature: 0.8,
		MaxAvoid:    10,
	}
}
