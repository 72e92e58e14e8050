// Package config loads settings from config.yaml, .env and ACEDRILL_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/acedrill/internal/llm"
	"github.com/abhisek/acedrill/internal/logging"
	"github.com/abhisek/acedrill/internal/store"
)

// EnvPrefix prefixes every environment override, e.g. ACEDRILL_GAME_BATCH_SIZE.
const EnvPrefix = "ACEDRILL"

type Config struct {
	// DB is the SQLite path. Empty means the default under the data dir.
	DB string `mapstructure:"db"`

	Log          LogConfig          `mapstructure:"log"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	Game         GameConfig         `mapstructure:"game"`
	LLM          LLMConfig          `mapstructure:"llm"`
	Housekeeping HousekeepingConfig `mapstructure:"housekeeping"`

	// DataDir is where the config file, database and logs live. Not read
	// from the config file.
	DataDir string `mapstructure:"-"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type MetricsConfig struct {
	// Addr enables the /metrics endpoint when set, e.g. "127.0.0.1:9464".
	Addr string `mapstructure:"addr"`
}

type GameConfig struct {
	BatchSize       int           `mapstructure:"batch_size"`
	RaceSeconds     int           `mapstructure:"race_seconds"`
	FeedbackDelay   time.Duration `mapstructure:"feedback_delay"`
	MatchErrorDelay time.Duration `mapstructure:"match_error_delay"`
}

type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type LLMConfig struct {
	Provider   string         `mapstructure:"provider"`
	Timeout    time.Duration  `mapstructure:"timeout"`
	Anthropic  ProviderConfig `mapstructure:"anthropic"`
	OpenAI     ProviderConfig `mapstructure:"openai"`
	Gemini     ProviderConfig `mapstructure:"gemini"`
	OpenRouter ProviderConfig `mapstructure:"openrouter"`
}

type HousekeepingConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	KeepHistory   int           `mapstructure:"keep_history"`
	KeepLLMEvents time.Duration `mapstructure:"keep_llm_events"`
}

// Options controls where Load looks.
type Options struct {
	// DataDir overrides the default data directory.
	DataDir string

	// File is an explicit config file. When empty, config.yaml in the data
	// dir is used if present.
	File string
}

// Load reads .env files, the config file and the environment, in
// increasing precedence.
func Load(opts Options) (*Config, error) {
	dataDir := opts.DataDir
	if dataDir == "" {
		d, err := store.DataDir()
		if err != nil {
			return nil, err
		}
		dataDir = d
	}

	// Existing environment variables win over .env entries.
	for _, f := range []string{".env", filepath.Join(dataDir, ".env")} {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dataDir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.DataDir = dataDir
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(dataDir, "acedrill.log")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it during
// Unmarshal.
func setDefaults(v *viper.Viper) {
	def := llm.DefaultConfig()

	v.SetDefault("db", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("metrics.addr", "")

	v.SetDefault("game.batch_size", 15)
	v.SetDefault("game.race_seconds", 15)
	v.SetDefault("game.feedback_delay", "1s")
	v.SetDefault("game.match_error_delay", "500ms")

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", def.Timeout.String())
	for name, model := range map[string]string{
		"anthropic":  def.Anthropic.Model,
		"openai":     def.OpenAI.Model,
		"gemini":     def.Gemini.Model,
		"openrouter": def.OpenRouter.Model,
	} {
		v.SetDefault("llm."+name+".api_key", "")
		v.SetDefault("llm."+name+".model", model)
		v.SetDefault("llm."+name+".base_url", "")
	}

	v.SetDefault("housekeeping.interval", "1h")
	v.SetDefault("housekeeping.keep_history", 500)
	v.SetDefault("housekeeping.keep_llm_events", "720h")
}

// Validate rejects values the engines cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Game.BatchSize <= 0:
		return fmt.Errorf("game.batch_size must be positive, got %d", c.Game.BatchSize)
	case c.Game.RaceSeconds <= 0:
		return fmt.Errorf("game.race_seconds must be positive, got %d", c.Game.RaceSeconds)
	case c.Game.FeedbackDelay < 0 || c.Game.MatchErrorDelay < 0:
		return errors.New("game delays must not be negative")
	case c.Housekeeping.KeepHistory < 0:
		return fmt.Errorf("housekeeping.keep_history must not be negative, got %d", c.Housekeeping.KeepHistory)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// LogOptions returns the logger settings.
func (c *Config) LogOptions() logging.Options {
	return logging.Options{
		File:       c.Log.File,
		Level:      c.Log.Level,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
	}
}

// LLMConfig converts the llm section, falling back to the standard
// provider API key variables when no provider is set.
func (c *Config) LLMConfig() llm.Config {
	out := llm.DefaultConfig()
	out.Provider = c.LLM.Provider
	if c.LLM.Timeout > 0 {
		out.Timeout = c.LLM.Timeout
	}
	out.Anthropic = llm.AnthropicConfig{APIKey: c.LLM.Anthropic.APIKey, Model: orString(c.LLM.Anthropic.Model, out.Anthropic.Model), BaseURL: c.LLM.Anthropic.BaseURL}
	out.OpenAI = llm.OpenAIConfig{APIKey: c.LLM.OpenAI.APIKey, Model: orString(c.LLM.OpenAI.Model, out.OpenAI.Model), BaseURL: c.LLM.OpenAI.BaseURL}
	out.Gemini = llm.GeminiConfig{APIKey: c.LLM.Gemini.APIKey, Model: orString(c.LLM.Gemini.Model, out.Gemini.Model)}
	out.OpenRouter = llm.OpenRouterConfig{APIKey: c.LLM.OpenRouter.APIKey, Model: orString(c.LLM.OpenRouter.Model, out.OpenRouter.Model), BaseURL: c.LLM.OpenRouter.BaseURL}
	out.Discover(os.Getenv)
	return out
}

// DBPath returns the database path, creating its directory.
func (c *Config) DBPath() (string, error) {
	p := c.DB
	if p == "" {
		p = filepath.Join(c.DataDir, "acedrill.db")
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return p, nil
}

func orString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
