package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kiranshivaraju/mediaguard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"MEDIAGUARD_CONFIG", "MEDIAGUARD_PORT", "MEDIAGUARD_ENV", "MEDIAGUARD_READ_TIMEOUT",
	"MEDIAGUARD_WRITE_TIMEOUT", "MEDIAGUARD_ALLOWED_ORIGINS", "UPLOAD_DIR", "UPLOAD_MAX_BYTES",
	"REDIS_URL", "JOB_STATUS_TTL", "AI_PROVIDER", "AI_REQUEST_TIMEOUT_SECS",
	"GOOGLE_API_KEY", "GEMINI_MODEL", "OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
	"ANALYSIS_POLL_INTERVAL", "ANALYSIS_POLL_TIMEOUT", "ANALYSIS_DELETE_REMOTE_FILES",
}

// setEnv clears every known key, then sets env for the duration of the test.
func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

// validEnv returns the minimum set of valid environment variables.
func validEnv() map[string]string {
	return map[string]string{
		"GOOGLE_API_KEY": "test-key",
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, validEnv())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, 10*time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "uploads", cfg.Upload.Dir)
	assert.Equal(t, int64(512<<20), cfg.Upload.MaxBytes)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, 30*time.Minute, cfg.Redis.JobTTL)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "test-key", cfg.AI.Gemini.APIKey)
	assert.Equal(t, "gemini-1.5-flash", cfg.AI.Gemini.Model)
	assert.Equal(t, 120*time.Second, cfg.AI.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.Analysis.PollInterval)
	assert.Equal(t, 5*time.Minute, cfg.Analysis.PollTimeout)
	assert.True(t, cfg.Analysis.DeleteRemoteFiles)
}

func TestLoad_EnvOverrides(t *testing.T) {
	env := validEnv()
	env["MEDIAGUARD_PORT"] = "9090"
	env["MEDIAGUARD_ALLOWED_ORIGINS"] = "https://a.example, https://b.example"
	env["REDIS_URL"] = "redis://localhost:6379/1"
	env["AI_REQUEST_TIMEOUT_SECS"] = "30"
	env["ANALYSIS_POLL_INTERVAL"] = "2s"
	env["ANALYSIS_POLL_TIMEOUT"] = "1m"
	env["ANALYSIS_DELETE_REMOTE_FILES"] = "false"
	setEnv(t, env)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Redis.URL)
	assert.Equal(t, 30*time.Second, cfg.AI.RequestTimeout)
	assert.Equal(t, 2*time.Second, cfg.Analysis.PollInterval)
	assert.Equal(t, time.Minute, cfg.Analysis.PollTimeout)
	assert.False(t, cfg.Analysis.DeleteRemoteFiles)
}

func TestLoad_InvalidNumbersFallBackToDefault(t *testing.T) {
	env := validEnv()
	env["MEDIAGUARD_PORT"] = "not-a-number"
	env["ANALYSIS_POLL_INTERVAL"] = "soon"
	setEnv(t, env)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Analysis.PollInterval)
}

func TestLoad_MissingGoogleAPIKey(t *testing.T) {
	setEnv(t, nil)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_API_KEY")
}

func TestLoad_OpenAIRequiresKey(t *testing.T) {
	setEnv(t, map[string]string{"AI_PROVIDER": "openai"})

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoad_OpenAIValid(t *testing.T) {
	setEnv(t, map[string]string{
		"AI_PROVIDER":     "openai",
		"OPENAI_API_KEY":  "sk-test",
		"OPENAI_BASE_URL": "http://localhost:1234/v1",
	})

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.OpenAI.Model)
	assert.Equal(t, "http://localhost:1234/v1", cfg.AI.OpenAI.BaseURL)
}

func TestLoad_UnknownProvider(t *testing.T) {
	env := validEnv()
	env["AI_PROVIDER"] = "ollama"
	setEnv(t, env)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AI_PROVIDER")
}

func TestLoad_InvalidRedisURL(t *testing.T) {
	env := validEnv()
	env["REDIS_URL"] = "localhost:6379"
	setEnv(t, env)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_URL")
}

func TestLoad_PollTimeoutShorterThanInterval(t *testing.T) {
	env := validEnv()
	env["ANALYSIS_POLL_INTERVAL"] = "30s"
	env["ANALYSIS_POLL_TIMEOUT"] = "10s"
	setEnv(t, env)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANALYSIS_POLL_TIMEOUT")
}

func TestLoad_WriteTimeoutMustExceedPollTimeout(t *testing.T) {
	env := validEnv()
	env["MEDIAGUARD_WRITE_TIMEOUT"] = "1m"
	env["ANALYSIS_POLL_TIMEOUT"] = "5m"
	setEnv(t, env)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MEDIAGUARD_WRITE_TIMEOUT")
}

func TestLoad_WriteTimeoutMustCoverRemoteCalls(t *testing.T) {
	env := validEnv()
	env["MEDIAGUARD_WRITE_TIMEOUT"] = "5m1s"
	env["ANALYSIS_POLL_TIMEOUT"] = "5m"
	env["AI_REQUEST_TIMEOUT_SECS"] = "120"
	setEnv(t, env)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MEDIAGUARD_WRITE_TIMEOUT")
	assert.Contains(t, err.Error(), "9m0s")
}

func TestLoad_WriteTimeoutJustAboveLongestAnalysis(t *testing.T) {
	env := validEnv()
	env["MEDIAGUARD_WRITE_TIMEOUT"] = "9m1s"
	env["ANALYSIS_POLL_TIMEOUT"] = "5m"
	env["AI_REQUEST_TIMEOUT_SECS"] = "120"
	setEnv(t, env)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 9*time.Minute, cfg.MaxAnalysisDuration())
}

func TestLoad_NonPositiveMaxBytes(t *testing.T) {
	env := validEnv()
	env["UPLOAD_MAX_BYTES"] = "0"
	setEnv(t, env)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UPLOAD_MAX_BYTES")
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mediaguard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7070
  allowed_origins: ["https://shop.example"]
upload:
  dir: /tmp/mg
ai:
  provider: openai
  openai:
    api_key: sk-from-file
    model: gpt-4o
analysis:
  poll_interval: 5s
  poll_timeout: 2m
  delete_remote_files: false
`), 0o600))

	setEnv(t, map[string]string{
		"MEDIAGUARD_CONFIG": path,
		"OPENAI_MODEL":      "gpt-4.1-mini",
	})

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, []string{"https://shop.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "/tmp/mg", cfg.Upload.Dir)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "sk-from-file", cfg.AI.OpenAI.APIKey)
	assert.Equal(t, "gpt-4.1-mini", cfg.AI.OpenAI.Model)
	assert.Equal(t, 5*time.Second, cfg.Analysis.PollInterval)
	assert.Equal(t, 2*time.Minute, cfg.Analysis.PollTimeout)
	assert.False(t, cfg.Analysis.DeleteRemoteFiles)
	// untouched by file or env
	assert.Equal(t, 30*time.Minute, cfg.Redis.JobTTL)
}

func TestLoad_MissingYAMLFile(t *testing.T) {
	env := validEnv()
	env["MEDIAGUARD_CONFIG"] = filepath.Join(t.TempDir(), "missing.yaml")
	setEnv(t, env)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_InvalidYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))
	env := validEnv()
	env["MEDIAGUARD_CONFIG"] = path
	setEnv(t, env)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}
