package lessons

// Config controls lesson generation.
type Config struct {
	MaxTokens   int
	Temperature float64
}

func DefaultConfig() Config {
	return Config{
		MaxTokens:   1536,
		Temperature: 0.5,
	}
}
