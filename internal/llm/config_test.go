package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.RetryDelay())
	assert.Equal(t, 30*time.Second, cfg.TaskTimeout(TaskNarrative))
	assert.False(t, cfg.Enabled(), "gemini without a key stays disabled")
	assert.Equal(t, "gemini-2.0-flash", cfg.ModelName())
	assert.Empty(t, cfg.EndpointURL())
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("TALLY_LLM_PROVIDER", " Ollama ")
	t.Setenv("TALLY_LLM_ENDPOINT", "http://gpu-box:11434/")
	t.Setenv("TALLY_LLM_MODEL", "qwen2.5")
	t.Setenv("TALLY_LLM_TIMEOUT_MS", "9000")
	t.Setenv("TALLY_LLM_MAX_RETRIES", "0")
	t.Setenv("TALLY_LLM_RETRY_DELAY_MS", "250")
	t.Setenv("TALLY_LLM_LOG_CALLS", "true")

	cfg := LoadConfig()

	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.True(t, cfg.Enabled())
	assert.Equal(t, "http://gpu-box:11434", cfg.EndpointURL())
	assert.Equal(t, "qwen2.5", cfg.ModelName())
	assert.Equal(t, 9*time.Second, cfg.TaskTimeout(TaskNarrative))
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay())
	assert.True(t, cfg.LogCalls)
}

func TestLoadConfig_APIKeyPrecedence(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "generic")
	cfg := LoadConfig()
	assert.Equal(t, "generic", cfg.APIKey)
	assert.True(t, cfg.Enabled())

	t.Setenv("TALLY_GEMINI_API_KEY", "specific")
	cfg = LoadConfig()
	assert.Equal(t, "specific", cfg.APIKey)
}

func TestLoadConfig_TaskTimeoutOverride(t *testing.T) {
	t.Setenv("TALLY_LLM_TIMEOUT_MS", "9000")
	t.Setenv("TALLY_LLM_NARRATIVE_TIMEOUT_MS", "15000")

	cfg := LoadConfig()

	assert.Equal(t, 9000, cfg.TimeoutMs)
	assert.Equal(t, 15*time.Second, cfg.TaskTimeout(TaskNarrative))
}

func TestLoadConfig_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("TALLY_LLM_NARRATIVE_TIMEOUT_MS", "not-a-number")
	t.Setenv("TALLY_LLM_MAX_RETRIES", "-3")
	t.Setenv("TALLY_LLM_TIMEOUT_MS", "0")

	cfg := LoadConfig()

	assert.Equal(t, 30*time.Second, cfg.TaskTimeout(TaskNarrative))
	assert.Equal(t, 2, cfg.MaxRetries)
}

func TestEnabled_UnknownProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "claude"
	cfg.APIKey = "k"
	assert.False(t, cfg.Enabled())
}
