package llm

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskNarrative TaskType = "narrative"
)

// Provider names a model backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOllama Provider = "ollama"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Provider     Provider
	APIKey       string
	LogCalls     bool
	Endpoint     string // empty uses the provider default
	Model        string // empty uses the provider default
	TimeoutMs    int
	MaxRetries   int
	RetryDelayMs int
	Tasks        map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults. Gemini is the
// default provider and stays disabled until an API key is supplied.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:     ProviderGemini,
		TimeoutMs:    30000,
		MaxRetries:   2,
		RetryDelayMs: 5000,
		Tasks: map[TaskType]TaskConfig{
			TaskNarrative: {Temperature: 0.3, MaxTokens: 2048},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// ApplyEnv overlays TALLY_* environment variables onto cfg.
func ApplyEnv(cfg *LLMConfig) {
	if v := os.Getenv("TALLY_LLM_PROVIDER"); v != "" {
		cfg.Provider = Provider(strings.ToLower(strings.TrimSpace(v)))
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("TALLY_GEMINI_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("TALLY_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TALLY_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("TALLY_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("TALLY_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("TALLY_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("TALLY_LLM_RETRY_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RetryDelayMs = n
		}
	}
	applyTaskTimeoutEnv(cfg, TaskNarrative, "TALLY_LLM_NARRATIVE_TIMEOUT_MS")
}

// Enabled reports whether narrative calls should be attempted. Gemini needs an
// API key; Ollama runs locally and counts as opted in once selected.
func (c LLMConfig) Enabled() bool {
	switch c.Provider {
	case ProviderGemini:
		return c.APIKey != ""
	case ProviderOllama:
		return true
	default:
		return false
	}
}

// ModelName returns the configured model or the provider default.
func (c LLMConfig) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	switch c.Provider {
	case ProviderOllama:
		return "llama3.2"
	default:
		return "gemini-2.0-flash"
	}
}

// EndpointURL returns the configured endpoint or the provider default.
// An empty result means the SDK default.
func (c LLMConfig) EndpointURL() string {
	if c.Endpoint != "" {
		return strings.TrimRight(c.Endpoint, "/")
	}
	if c.Provider == ProviderOllama {
		return "http://localhost:11434"
	}
	return ""
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) time.Duration {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return time.Duration(tc.TimeoutMs) * time.Millisecond
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// RetryDelay is the pause between attempts after a transient failure.
func (c LLMConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	if cfg.Tasks == nil {
		cfg.Tasks = make(map[TaskType]TaskConfig)
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
