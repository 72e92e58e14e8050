package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/acedrill/internal/llm"
)

// clearProviderKeys keeps discovery independent of the developer's shell.
func clearProviderKeys(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearProviderKeys(t)
	dir := t.TempDir()

	cfg, err := Load(Options{DataDir: dir})
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Game.BatchSize)
	assert.Equal(t, 15, cfg.Game.RaceSeconds)
	assert.Equal(t, time.Second, cfg.Game.FeedbackDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.Game.MatchErrorDelay)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, filepath.Join(dir, "acedrill.log"), cfg.Log.File)
	assert.Equal(t, time.Hour, cfg.Housekeeping.Interval)
	assert.Equal(t, 500, cfg.Housekeeping.KeepHistory)

	p, err := cfg.DBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "acedrill.db"), p)

	assert.Empty(t, cfg.LLMConfig().Provider)
}

func TestLoad_FileAndEnv(t *testing.T) {
	clearProviderKeys(t)
	dir := t.TempDir()
	yaml := []byte(`
game:
  batch_size: 8
  race_seconds: 20
log:
  level: debug
llm:
  provider: openai
  openai:
    api_key: from-file
    base_url: http://localhost:1234/v1
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))
	t.Setenv("ACEDRILL_GAME_BATCH_SIZE", "12")
	t.Setenv("ACEDRILL_LLM_OPENAI_MODEL", "gpt-4.1-mini")

	cfg, err := Load(Options{DataDir: dir})
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Game.BatchSize, "env wins over file")
	assert.Equal(t, 20, cfg.Game.RaceSeconds)
	assert.Equal(t, "debug", cfg.LogOptions().Level)

	lc := cfg.LLMConfig()
	assert.Equal(t, llm.ProviderOpenAI, lc.Provider)
	assert.Equal(t, "from-file", lc.OpenAI.APIKey)
	assert.Equal(t, "gpt-4.1-mini", lc.OpenAI.Model)
	assert.Equal(t, "http://localhost:1234/v1", lc.OpenAI.BaseURL)
	assert.NoError(t, lc.Validate())
}

func TestLoad_DiscoversProviderKey(t *testing.T) {
	clearProviderKeys(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg, err := Load(Options{DataDir: t.TempDir()})
	require.NoError(t, err)
	lc := cfg.LLMConfig()
	assert.Equal(t, llm.ProviderAnthropic, lc.Provider)
	assert.Equal(t, "sk-ant", lc.Anthropic.APIKey)
}

func TestLoad_DotEnv(t *testing.T) {
	clearProviderKeys(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ACEDRILL_METRICS_ADDR=127.0.0.1:9464\n"), 0o644))
	t.Setenv("ACEDRILL_METRICS_ADDR", "")
	os.Unsetenv("ACEDRILL_METRICS_ADDR")

	cfg, err := Load(Options{DataDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9464", cfg.Metrics.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	clearProviderKeys(t)
	t.Setenv("ACEDRILL_GAME_BATCH_SIZE", "0")
	_, err := Load(Options{DataDir: t.TempDir()})
	assert.Error(t, err)

	t.Setenv("ACEDRILL_GAME_BATCH_SIZE", "15")
	t.Setenv("ACEDRILL_LOG_LEVEL", "chatty")
	_, err = Load(Options{DataDir: t.TempDir()})
	assert.Error(t, err)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(Options{DataDir: t.TempDir(), File: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}
