// ABOUTME: Centralized configuration for the embedding pipeline
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Distance metrics supported by the vector store
const (
	MetricL2           = "l2"
	MetricInnerProduct = "ip"
)

// Batch size bounds enforced at startup
const (
	MinBatchSize = 16
	MaxBatchSize = 1024
)

// Config holds all configuration for the embedding pipeline
type Config struct {
	// Vector settings
	Dimension int
	Metric    string

	// Batch settings
	BatchSize        int
	ConcurrencyLimit int

	// Retry settings
	MaxRetries int
	RetryDelay time.Duration
	BackoffCap time.Duration

	// Quality gate settings. A zero CoherenceThreshold disables the
	// coherence rule.
	NormMin            float64
	NormMax            float64
	CoherenceThreshold float64

	// Backend settings
	OpenAIKey      string
	EmbeddingModel string
	CallTimeout    time.Duration

	// Storage settings
	DBPath string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		Dimension:          getEnvInt("VECTORPIPE_DIMENSION", 512),
		Metric:             getEnv("VECTORPIPE_METRIC", MetricL2),
		BatchSize:          getEnvInt("VECTORPIPE_BATCH_SIZE", 64),
		ConcurrencyLimit:   getEnvInt("VECTORPIPE_CONCURRENCY", 4),
		MaxRetries:         getEnvInt("VECTORPIPE_MAX_RETRIES", 3),
		RetryDelay:         getEnvDuration("VECTORPIPE_RETRY_DELAY", 2*time.Second),
		BackoffCap:         getEnvDuration("VECTORPIPE_BACKOFF_CAP", 30*time.Second),
		NormMin:            getEnvFloat("VECTORPIPE_NORM_MIN", 0.1),
		NormMax:            getEnvFloat("VECTORPIPE_NORM_MAX", 10.0),
		CoherenceThreshold: getEnvFloat("VECTORPIPE_COHERENCE_THRESHOLD", 0.95),
		OpenAIKey:          os.Getenv("OPENAI_API_KEY"),
		EmbeddingModel:     getEnv("VECTORPIPE_EMBEDDING_MODEL", "text-embedding-3-small"),
		CallTimeout:        getEnvDuration("VECTORPIPE_CALL_TIMEOUT", 30*time.Second),
		DBPath:             getEnv("VECTORPIPE_DB", DefaultDBPath()),
	}

	return cfg, cfg.Validate()
}

// Validate rejects invalid configuration before any jobs run
func (c *Config) Validate() error {
	if c.Dimension <= 0 {
		return fmt.Errorf("VECTORPIPE_DIMENSION must be positive, got %d", c.Dimension)
	}
	if c.Metric != MetricL2 && c.Metric != MetricInnerProduct {
		return fmt.Errorf("VECTORPIPE_METRIC must be %q or %q, got %q", MetricL2, MetricInnerProduct, c.Metric)
	}
	if c.BatchSize < MinBatchSize || c.BatchSize > MaxBatchSize {
		return fmt.Errorf("VECTORPIPE_BATCH_SIZE must be %d-%d, got %d", MinBatchSize, MaxBatchSize, c.BatchSize)
	}
	if c.ConcurrencyLimit < 1 {
		return fmt.Errorf("VECTORPIPE_CONCURRENCY must be at least 1, got %d", c.ConcurrencyLimit)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("VECTORPIPE_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.RetryDelay <= 0 {
		return fmt.Errorf("VECTORPIPE_RETRY_DELAY must be positive, got %v", c.RetryDelay)
	}
	if c.BackoffCap < c.RetryDelay {
		return fmt.Errorf("VECTORPIPE_BACKOFF_CAP must be at least the retry delay, got %v", c.BackoffCap)
	}
	if c.NormMin < 0 || c.NormMin >= c.NormMax {
		return fmt.Errorf("norm bounds must satisfy 0 <= min < max, got [%f, %f]", c.NormMin, c.NormMax)
	}
	if c.CoherenceThreshold < 0 || c.CoherenceThreshold > 1 {
		return fmt.Errorf("VECTORPIPE_COHERENCE_THRESHOLD must be 0-1, got %f", c.CoherenceThreshold)
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("VECTORPIPE_CALL_TIMEOUT must be positive, got %v", c.CallTimeout)
	}
	return nil
}

// DefaultDataDir returns the default data directory following XDG spec
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".local/share/vectorpipe"
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataHome, "vectorpipe")
}

// DefaultDBPath returns the default database file path
func DefaultDBPath() string {
	return filepath.Join(DefaultDataDir(), "vectorpipe.db")
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
