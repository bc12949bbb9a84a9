package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

const (
	defaultInputDir       = "sample_dataset/pdfs"
	defaultOutputDir      = "sample_dataset/outputs"
	defaultWorkerCount    = 8
	defaultMaxQueueSize   = 100
	defaultMaxUploadBytes = 52428800 // 50MB
	defaultJobTTL         = 1 * time.Hour
)

type Config struct {
	// Batch locations
	InputDir   string
	OutputDir  string
	SchemaPath string // empty selects the built-in schema
	Extensions []string

	// Classification
	Boilerplate []string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Serve mode
	Port           string
	APIKey         string
	MaxUploadBytes int64
	JobTTL         time.Duration

	LogLevel string
}

// fileConfig mirrors Config in the YAML file. Zero values leave defaults alone.
type fileConfig struct {
	InputDir       string   `yaml:"input_dir"`
	OutputDir      string   `yaml:"output_dir"`
	SchemaPath     string   `yaml:"schema_path"`
	Extensions     []string `yaml:"extensions"`
	Boilerplate    []string `yaml:"boilerplate"`
	WorkerCount    int      `yaml:"worker_count"`
	MaxQueueSize   int      `yaml:"max_queue_size"`
	Port           string   `yaml:"port"`
	APIKey         string   `yaml:"api_key"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
	JobTTL         string   `yaml:"job_ttl"`
	LogLevel       string   `yaml:"log_level"`
}

func defaults() Config {
	return Config{
		InputDir:       defaultInputDir,
		OutputDir:      defaultOutputDir,
		Extensions:     []string{".pdf"},
		WorkerCount:    defaultWorkerCount,
		MaxQueueSize:   defaultMaxQueueSize,
		Port:           "8090",
		MaxUploadBytes: defaultMaxUploadBytes,
		JobTTL:         defaultJobTTL,
		LogLevel:       "info",
	}
}

// Load reads the optional file named by DOCOUTLINE_CONFIG, then the
// environment.
func Load() (Config, error) {
	return LoadFile(os.Getenv("DOCOUTLINE_CONFIG"))
}

// LoadFile is Load with an explicit config file path; an empty path skips
// the file. Environment variables override file values.
func LoadFile(path string) (Config, error) {
	cfg := defaults()
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv()
	cfg.clamp()
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&c.InputDir, fc.InputDir)
	setString(&c.OutputDir, fc.OutputDir)
	setString(&c.SchemaPath, fc.SchemaPath)
	setString(&c.Port, fc.Port)
	setString(&c.APIKey, fc.APIKey)
	setString(&c.LogLevel, fc.LogLevel)
	if len(fc.Extensions) > 0 {
		c.Extensions = fc.Extensions
	}
	if len(fc.Boilerplate) > 0 {
		c.Boilerplate = fc.Boilerplate
	}
	if fc.WorkerCount != 0 {
		c.WorkerCount = fc.WorkerCount
	}
	if fc.MaxQueueSize != 0 {
		c.MaxQueueSize = fc.MaxQueueSize
	}
	if fc.MaxUploadBytes != 0 {
		c.MaxUploadBytes = fc.MaxUploadBytes
	}
	if fc.JobTTL != "" {
		d, err := time.ParseDuration(fc.JobTTL)
		if err != nil {
			return fmt.Errorf("parse config %s: job_ttl: %w", path, err)
		}
		c.JobTTL = d
	}
	return nil
}

func (c *Config) applyEnv() {
	c.InputDir = envOr("INPUT_DIR", c.InputDir)
	c.OutputDir = envOr("OUTPUT_DIR", c.OutputDir)
	c.SchemaPath = envOr("SCHEMA_PATH", c.SchemaPath)
	c.Extensions = envList("EXTENSIONS", c.Extensions)
	c.Boilerplate = envList("BOILERPLATE", c.Boilerplate)

	c.WorkerCount = envInt("WORKER_COUNT", c.WorkerCount)
	c.MaxQueueSize = envInt("MAX_QUEUE_SIZE", c.MaxQueueSize)

	c.Port = envOr("PORT", c.Port)
	c.APIKey = envOr("DOCOUTLINE_API_KEY", c.APIKey)
	c.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", c.MaxUploadBytes)
	c.JobTTL = envDuration("JOB_TTL", c.JobTTL)

	c.LogLevel = envOr("LOG_LEVEL", c.LogLevel)
}

func (c *Config) clamp() {
	if c.WorkerCount <= 0 {
		c.WorkerCount = defaultWorkerCount
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = defaultMaxQueueSize
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = defaultMaxUploadBytes
	}
	if c.JobTTL <= 0 {
		c.JobTTL = defaultJobTTL
	}
}

// Validate checks the settings every mode needs.
func (c Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("INPUT_DIR is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("EXTENSIONS must name at least one extension")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ValidateServe additionally checks the settings of the HTTP surface.
func (c Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("DOCOUTLINE_API_KEY is required")
	}
	return nil
}

// SlogLevel returns the configured log level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", s)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
