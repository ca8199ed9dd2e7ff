package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the MediaGuard server.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upload   UploadConfig   `yaml:"upload"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

type ServerConfig struct {
	Port           int           `yaml:"port"`
	Env            string        `yaml:"env"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

type UploadConfig struct {
	Dir      string `yaml:"dir"`
	MaxBytes int64  `yaml:"max_bytes"`
}

// RedisConfig configures the job-status tracker. An empty URL selects the
// in-memory tracker.
type RedisConfig struct {
	URL    string        `yaml:"url"`
	JobTTL time.Duration `yaml:"job_ttl"`
}

type AIConfig struct {
	Provider       string        `yaml:"provider"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Gemini         GeminiConfig  `yaml:"gemini"`
	OpenAI         OpenAIConfig  `yaml:"openai"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// AnalysisConfig controls the video completion wait.
type AnalysisConfig struct {
	PollInterval      time.Duration `yaml:"poll_interval"`
	PollTimeout       time.Duration `yaml:"poll_timeout"`
	DeleteRemoteFiles bool          `yaml:"delete_remote_files"`
}

var validProviders = map[string]bool{
	"gemini": true,
	"openai": true,
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			Env:            "development",
			ReadTimeout:    60 * time.Second,
			WriteTimeout:   10 * time.Minute,
			AllowedOrigins: []string{"*"},
		},
		Upload: UploadConfig{
			Dir:      "uploads",
			MaxBytes: 512 << 20,
		},
		Redis: RedisConfig{
			JobTTL: 30 * time.Minute,
		},
		AI: AIConfig{
			Provider:       "gemini",
			RequestTimeout: 120 * time.Second,
			Gemini: GeminiConfig{
				Model: "gemini-1.5-flash",
			},
			OpenAI: OpenAIConfig{
				Model: "gpt-4o-mini",
			},
		},
		Analysis: AnalysisConfig{
			PollInterval:      10 * time.Second,
			PollTimeout:       5 * time.Minute,
			DeleteRemoteFiles: true,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file named by
// MEDIAGUARD_CONFIG, and environment variables, in increasing precedence.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("MEDIAGUARD_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Server.Port = envInt("MEDIAGUARD_PORT", cfg.Server.Port)
	cfg.Server.Env = envString("MEDIAGUARD_ENV", cfg.Server.Env)
	cfg.Server.ReadTimeout = envDuration("MEDIAGUARD_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = envDuration("MEDIAGUARD_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.AllowedOrigins = envList("MEDIAGUARD_ALLOWED_ORIGINS", cfg.Server.AllowedOrigins)

	cfg.Upload.Dir = envString("UPLOAD_DIR", cfg.Upload.Dir)
	cfg.Upload.MaxBytes = envInt64("UPLOAD_MAX_BYTES", cfg.Upload.MaxBytes)

	cfg.Redis.URL = envString("REDIS_URL", cfg.Redis.URL)
	cfg.Redis.JobTTL = envDuration("JOB_STATUS_TTL", cfg.Redis.JobTTL)

	cfg.AI.Provider = envString("AI_PROVIDER", cfg.AI.Provider)
	cfg.AI.RequestTimeout = envDurationSecs("AI_REQUEST_TIMEOUT_SECS", cfg.AI.RequestTimeout)
	cfg.AI.Gemini.APIKey = envString("GOOGLE_API_KEY", cfg.AI.Gemini.APIKey)
	cfg.AI.Gemini.Model = envString("GEMINI_MODEL", cfg.AI.Gemini.Model)
	cfg.AI.OpenAI.APIKey = envString("OPENAI_API_KEY", cfg.AI.OpenAI.APIKey)
	cfg.AI.OpenAI.Model = envString("OPENAI_MODEL", cfg.AI.OpenAI.Model)
	cfg.AI.OpenAI.BaseURL = envString("OPENAI_BASE_URL", cfg.AI.OpenAI.BaseURL)

	cfg.Analysis.PollInterval = envDuration("ANALYSIS_POLL_INTERVAL", cfg.Analysis.PollInterval)
	cfg.Analysis.PollTimeout = envDuration("ANALYSIS_POLL_TIMEOUT", cfg.Analysis.PollTimeout)
	cfg.Analysis.DeleteRemoteFiles = envBool("ANALYSIS_DELETE_REMOTE_FILES", cfg.Analysis.DeleteRemoteFiles)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// MaxAnalysisDuration is the longest a successful analysis can take: the upload
// call, the video polling window and the generate call.
func (c *Config) MaxAnalysisDuration() time.Duration {
	return c.Analysis.PollTimeout + 2*c.AI.RequestTimeout
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("MEDIAGUARD_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Upload.Dir == "" {
		return fmt.Errorf("UPLOAD_DIR is required")
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", c.Upload.MaxBytes)
	}

	if c.Redis.URL != "" && !strings.HasPrefix(c.Redis.URL, "redis://") && !strings.HasPrefix(c.Redis.URL, "rediss://") {
		return fmt.Errorf("REDIS_URL must start with redis:// or rediss://, got %q", c.Redis.URL)
	}

	if !validProviders[c.AI.Provider] {
		return fmt.Errorf("AI_PROVIDER must be one of gemini, openai; got %q", c.AI.Provider)
	}
	if c.AI.Provider == "gemini" && c.AI.Gemini.APIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY is required when AI_PROVIDER is gemini")
	}
	if c.AI.Provider == "openai" && c.AI.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when AI_PROVIDER is openai")
	}
	if c.AI.RequestTimeout <= 0 {
		return fmt.Errorf("AI_REQUEST_TIMEOUT_SECS must be positive")
	}

	if c.Analysis.PollInterval <= 0 {
		return fmt.Errorf("ANALYSIS_POLL_INTERVAL must be positive, got %s", c.Analysis.PollInterval)
	}
	if c.Analysis.PollTimeout < c.Analysis.PollInterval {
		return fmt.Errorf("ANALYSIS_POLL_TIMEOUT (%s) must be at least ANALYSIS_POLL_INTERVAL (%s)",
			c.Analysis.PollTimeout, c.Analysis.PollInterval)
	}
	if longest := c.MaxAnalysisDuration(); c.Server.WriteTimeout <= longest {
		return fmt.Errorf("MEDIAGUARD_WRITE_TIMEOUT (%s) must exceed ANALYSIS_POLL_TIMEOUT plus two AI_REQUEST_TIMEOUT_SECS (%s)",
			c.Server.WriteTimeout, longest)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func envBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func envList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
