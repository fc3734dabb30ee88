package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/tally/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every lookup at an empty temp dir and clears variables a
// developer machine may have set.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, name := range []string{
		"TALLY_CONFIG", "TALLY_BIND", "TALLY_PORT", "TALLY_MAX_UPLOAD_MB", "TALLY_CACHE_DB",
		"TALLY_LOG_LEVEL", "TALLY_LLM_PROVIDER", "TALLY_LLM_MODEL", "TALLY_LLM_ENDPOINT",
		"TALLY_GEMINI_API_KEY", "GEMINI_API_KEY", "TALLY_LLM_TIMEOUT_MS",
		"TALLY_LLM_MAX_RETRIES", "TALLY_LLM_RETRY_DELAY_MS", "TALLY_LLM_NARRATIVE_TIMEOUT_MS",
	} {
		t.Setenv(name, "")
	}
	return dir
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "tally", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8501", cfg.Addr())
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes())
	assert.Empty(t, cfg.Cache.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Source)

	lc := cfg.LLMConfig()
	assert.Equal(t, llm.ProviderGemini, lc.Provider)
	assert.False(t, lc.Enabled())
	assert.Equal(t, 2, lc.MaxRetries)
	assert.Equal(t, 32*time.Second, cfg.NarrativeTimeout())
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, `
server:
  port: 9000
llm:
  provider: ollama
  model: qwen2.5
  max_retries: 0
cache:
  path: /tmp/tally-cache.db
log:
  level: debug
  json: true
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Source)
	assert.Equal(t, "127.0.0.1", cfg.Server.Bind, "unset keys keep defaults")
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/tmp/tally-cache.db", cfg.Cache.Path)
	assert.True(t, cfg.Log.JSON)

	lc := cfg.LLMConfig()
	assert.Equal(t, llm.ProviderOllama, lc.Provider)
	assert.True(t, lc.Enabled())
	assert.Equal(t, "qwen2.5", lc.ModelName())
	assert.Equal(t, 0, lc.MaxRetries)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "server:\n  port: 9000\nllm:\n  model: from-file\n")
	t.Setenv("TALLY_PORT", "9100")
	t.Setenv("TALLY_BIND", "0.0.0.0")
	t.Setenv("TALLY_LLM_MODEL", "from-env")
	t.Setenv("TALLY_GEMINI_API_KEY", "secret")
	t.Setenv("TALLY_CACHE_DB", "/var/lib/tally/cache.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9100", cfg.Addr())
	assert.Equal(t, "/var/lib/tally/cache.db", cfg.Cache.Path)
	lc := cfg.LLMConfig()
	assert.Equal(t, "from-env", lc.ModelName())
	assert.True(t, lc.Enabled())
}

func TestLoad_ExplicitPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  max_upload_mb: 2\n"), 0o644))
	t.Setenv("TALLY_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(2<<20), cfg.MaxUploadBytes())

	t.Setenv("TALLY_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = Load()
	assert.Error(t, err, "an explicitly named file must exist")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
		msg  string
	}{
		{name: "bad yaml", file: "server: [", msg: "parsing"},
		{name: "port range", env: map[string]string{"TALLY_PORT": "70000"}, msg: "server.port"},
		{name: "port not a number", env: map[string]string{"TALLY_PORT": "http"}, msg: "TALLY_PORT"},
		{name: "provider", file: "llm:\n  provider: openai\n", msg: "llm.provider"},
		{name: "log level", env: map[string]string{"TALLY_LOG_LEVEL": "chatty"}, msg: "log.level"},
		{name: "upload size", file: "server:\n  max_upload_mb: 0\n", msg: "max_upload_mb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			if tt.file != "" {
				writeConfig(t, dir, tt.file)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
