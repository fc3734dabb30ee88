package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/tally/internal/llm"
)

// Server configures the web dashboard.
type Server struct {
	Bind        string `yaml:"bind"`
	Port        int    `yaml:"port"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

// LLM is the file form of llm.LLMConfig.
type LLM struct {
	Provider     string `yaml:"provider"`
	Model        string `yaml:"model,omitempty"`
	Endpoint     string `yaml:"endpoint,omitempty"`
	APIKey       string `yaml:"api_key,omitempty"`
	TimeoutMs    int    `yaml:"timeout_ms"`
	MaxRetries   int    `yaml:"max_retries"`
	RetryDelayMs int    `yaml:"retry_delay_ms"`
	LogCalls     bool   `yaml:"log_calls"`
}

// Cache configures the narrative cache. An empty Path keeps it in memory.
type Cache struct {
	Path       string `yaml:"path,omitempty"`
	MaxEntries int    `yaml:"max_entries"`
}

// Log configures the zap logger.
type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Config holds all configuration options.
type Config struct {
	Server Server `yaml:"server"`
	LLM    LLM    `yaml:"llm"`
	Cache  Cache  `yaml:"cache"`
	Log    Log    `yaml:"log"`

	// Source is the file the config was read from, empty when none was found.
	Source string `yaml:"-"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	d := llm.DefaultConfig()
	return &Config{
		Server: Server{Bind: "127.0.0.1", Port: 8501, MaxUploadMB: 10},
		LLM: LLM{
			Provider:     string(d.Provider),
			TimeoutMs:    d.TimeoutMs,
			MaxRetries:   d.MaxRetries,
			RetryDelayMs: d.RetryDelayMs,
		},
		Cache: Cache{MaxEntries: 500},
		Log:   Log{Level: "info"},
	}
}

// Path returns the config file location: TALLY_CONFIG when set, otherwise
// tally/config.yaml under the XDG config directory.
func Path() string {
	if p := os.Getenv("TALLY_CONFIG"); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tally", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tally", "config.yaml")
}

// Load layers defaults, the config file and TALLY_* environment variables,
// in that order. A missing file at the default location is not an error; a
// missing file named by TALLY_CONFIG is.
func Load() (*Config, error) {
	cfg := DefaultConfig()
	path := Path()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		cfg.Source = path
	case errors.Is(err, fs.ErrNotExist) && os.Getenv("TALLY_CONFIG") == "":
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TALLY_BIND"); v != "" {
		c.Server.Bind = v
	}
	if err := envInt("TALLY_PORT", &c.Server.Port); err != nil {
		return err
	}
	if err := envInt("TALLY_MAX_UPLOAD_MB", &c.Server.MaxUploadMB); err != nil {
		return err
	}
	if v := os.Getenv("TALLY_CACHE_DB"); v != "" {
		c.Cache.Path = v
	}
	if v := os.Getenv("TALLY_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s: %q is not a number", name, v)
	}
	*dst = n
	return nil
}

// Validate rejects settings the server or LLM client cannot run with.
func (c *Config) Validate() error {
	var problems []string
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.MaxUploadMB <= 0 {
		problems = append(problems, "server.max_upload_mb must be positive")
	}
	switch p := c.LLMConfig().Provider; p {
	case llm.ProviderGemini, llm.ProviderOllama:
	default:
		problems = append(problems, fmt.Sprintf("llm.provider %q is not gemini or ollama", p))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("log.level %q is not a zap level", c.Log.Level))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Addr is the listen address for the web server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Bind, strconv.Itoa(c.Server.Port))
}

// MaxUploadBytes is the request body limit for uploads.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

// LLMConfig resolves the LLM settings: file values over llm defaults, then
// the llm package's own environment overrides.
func (c *Config) LLMConfig() llm.LLMConfig {
	out := llm.DefaultConfig()
	if c.LLM.Provider != "" {
		out.Provider = llm.Provider(strings.ToLower(c.LLM.Provider))
	}
	out.Model = c.LLM.Model
	out.Endpoint = c.LLM.Endpoint
	out.APIKey = c.LLM.APIKey
	if c.LLM.TimeoutMs > 0 {
		out.TimeoutMs = c.LLM.TimeoutMs
	}
	if c.LLM.MaxRetries >= 0 {
		out.MaxRetries = c.LLM.MaxRetries
	}
	if c.LLM.RetryDelayMs >= 0 {
		out.RetryDelayMs = c.LLM.RetryDelayMs
	}
	out.LogCalls = c.LLM.LogCalls
	llm.ApplyEnv(&out)
	return out
}

// NarrativeTimeout is the outer bound the report pipeline puts on the
// narrative step: the task timeout plus headroom for cache access.
func (c *Config) NarrativeTimeout() time.Duration {
	return c.LLMConfig().TaskTimeout(llm.TaskNarrative) + 2*time.Second
}
