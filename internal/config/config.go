package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/potent-zedlee/templar-archives/pkg/util"
	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Analyzer  AnalyzerConfig  `yaml:"analyzer"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

type ServerConfig struct {
	Addr              string        `yaml:"addr" env:"HAE_ADDR"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	CORSOrigins       []string      `yaml:"cors_origins"`
}

type GeminiConfig struct {
	APIKey   string        `yaml:"api_key" env:"GOOGLE_API_KEY"`
	Model    string        `yaml:"model" env:"HAE_MODEL"`
	Backend  string        `yaml:"backend"`
	Project  string        `yaml:"project"`
	Location string        `yaml:"location"`
	Timeout  time.Duration `yaml:"timeout"`
}

type AnalyzerConfig struct {
	MaxSegmentSeconds int           `yaml:"max_segment_seconds"`
	MaxAttempts       int           `yaml:"max_attempts"`
	BaseDelay         time.Duration `yaml:"base_delay"`
	ChunkConcurrency  int           `yaml:"chunk_concurrency"`
	MaxElapsed        time.Duration `yaml:"max_elapsed"`
}

type PipelineConfig struct {
	Concurrency int `yaml:"concurrency"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	RedisAddr string        `yaml:"redis_addr" env:"HAE_REDIS_ADDR"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	TTL       time.Duration `yaml:"ttl"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"HAE_LOG_LEVEL"`
	Format string `yaml:"format"`
}

type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Exporter    string  `yaml:"exporter"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// Load reads configuration from file or returns defaults, then applies
// environment overrides
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	if err := util.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Validate rejects settings the analyzer cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Analyzer.MaxSegmentSeconds <= 0 {
		errs = append(errs, errors.New("analyzer.max_segment_seconds must be positive"))
	}
	if c.Analyzer.MaxAttempts <= 0 {
		errs = append(errs, errors.New("analyzer.max_attempts must be positive"))
	}
	if c.Analyzer.BaseDelay <= 0 {
		errs = append(errs, errors.New("analyzer.base_delay must be positive"))
	}
	if c.Analyzer.ChunkConcurrency <= 0 {
		errs = append(errs, errors.New("analyzer.chunk_concurrency must be positive"))
	}
	if c.Analyzer.MaxElapsed < 0 {
		errs = append(errs, errors.New("analyzer.max_elapsed must not be negative"))
	}
	if c.Pipeline.Concurrency <= 0 {
		errs = append(errs, errors.New("pipeline.concurrency must be positive"))
	}
	if c.Cache.Enabled && c.Cache.RedisAddr == "" {
		errs = append(errs, errors.New("cache.redis_addr is required when the cache is enabled"))
	}
	switch c.Tracing.Exporter {
	case "", "stdout", "otlp":
	default:
		errs = append(errs, fmt.Errorf("tracing.exporter %q is not one of stdout, otlp", c.Tracing.Exporter))
	}
	return errors.Join(errs...)
}

// Redacted returns a copy safe to print
func (c *Config) Redacted() *Config {
	out := *c
	if out.Gemini.APIKey != "" {
		out.Gemini.APIKey = "***"
	}
	if out.Cache.Password != "" {
		out.Cache.Password = "***"
	}
	return &out
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 10 * time.Second,
			CORSOrigins:       []string{"http://localhost:3000"},
		},
		Gemini: GeminiConfig{
			Model:   "gemini-2.5-flash",
			Backend: "gemini",
			Timeout: 10 * time.Minute,
		},
		Analyzer: AnalyzerConfig{
			MaxSegmentSeconds: 3600,
			MaxAttempts:       3,
			BaseDelay:         2 * time.Second,
			ChunkConcurrency:  1,
		},
		Pipeline: PipelineConfig{
			Concurrency: 1,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 0,
			Burst:             1,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "hae",
			Exporter:    "stdout",
			SampleRatio: 1,
		},
	}
}

func applyEnv(cfg *Config) {
	setString(&cfg.Gemini.APIKey, "GOOGLE_API_KEY")
	setString(&cfg.Gemini.Model, "HAE_MODEL")
	setString(&cfg.Server.Addr, "HAE_ADDR")
	setString(&cfg.Logging.Level, "HAE_LOG_LEVEL")
	if v := strings.TrimSpace(os.Getenv("HAE_REDIS_ADDR")); v != "" {
		cfg.Cache.RedisAddr = v
		cfg.Cache.Enabled = true
	}
	if v := strings.TrimSpace(os.Getenv("HAE_CONCURRENCY")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pipeline.Concurrency = n
		}
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func findConfigFile() string {
	candidates := []string{
		"./hae.yaml",
		"./hae.yml",
		filepath.Join(os.Getenv("HOME"), ".hae", "config.yaml"),
	}

	for _, path := range candidates {
		if util.FileExists(path) {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
