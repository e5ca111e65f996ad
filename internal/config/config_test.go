// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing and validation
package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear environment to test defaults
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify defaults
	if cfg.Dimension != 512 {
		t.Errorf("Dimension = %d, want 512", cfg.Dimension)
	}
	if cfg.Metric != MetricL2 {
		t.Errorf("Metric = %s, want %s", cfg.Metric, MetricL2)
	}
	if cfg.BatchSize != 64 {
		t.Errorf("BatchSize = %d, want 64", cfg.BatchSize)
	}
	if cfg.ConcurrencyLimit != 4 {
		t.Errorf("ConcurrencyLimit = %d, want 4", cfg.ConcurrencyLimit)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 2*time.Second {
		t.Errorf("RetryDelay = %v, want 2s", cfg.RetryDelay)
	}
	if cfg.BackoffCap != 30*time.Second {
		t.Errorf("BackoffCap = %v, want 30s", cfg.BackoffCap)
	}
	if cfg.NormMin != 0.1 || cfg.NormMax != 10.0 {
		t.Errorf("norm bounds = [%f, %f], want [0.1, 10.0]", cfg.NormMin, cfg.NormMax)
	}
	if cfg.CoherenceThreshold != 0.95 {
		t.Errorf("CoherenceThreshold = %f, want 0.95", cfg.CoherenceThreshold)
	}
	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %s, want text-embedding-3-small", cfg.EmbeddingModel)
	}
	if cfg.CallTimeout != 30*time.Second {
		t.Errorf("CallTimeout = %v, want 30s", cfg.CallTimeout)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	os.Setenv("VECTORPIPE_DIMENSION", "4")
	os.Setenv("VECTORPIPE_METRIC", "ip")
	os.Setenv("VECTORPIPE_BATCH_SIZE", "128")
	os.Setenv("VECTORPIPE_MAX_RETRIES", "5")
	os.Setenv("VECTORPIPE_NORM_MIN", "0.5")
	os.Setenv("VECTORPIPE_NORM_MAX", "2.0")
	os.Setenv("VECTORPIPE_COHERENCE_THRESHOLD", "0.8")
	os.Setenv("VECTORPIPE_CALL_TIMEOUT", "10s")
	os.Setenv("VECTORPIPE_DB", "/tmp/test.db")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Dimension != 4 {
		t.Errorf("Dimension = %d, want 4", cfg.Dimension)
	}
	if cfg.Metric != MetricInnerProduct {
		t.Errorf("Metric = %s, want ip", cfg.Metric)
	}
	if cfg.BatchSize != 128 {
		t.Errorf("BatchSize = %d, want 128", cfg.BatchSize)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if cfg.NormMin != 0.5 || cfg.NormMax != 2.0 {
		t.Errorf("norm bounds = [%f, %f], want [0.5, 2.0]", cfg.NormMin, cfg.NormMax)
	}
	if cfg.CoherenceThreshold != 0.8 {
		t.Errorf("CoherenceThreshold = %f, want 0.8", cfg.CoherenceThreshold)
	}
	if cfg.CallTimeout != 10*time.Second {
		t.Errorf("CallTimeout = %v, want 10s", cfg.CallTimeout)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %s, want /tmp/test.db", cfg.DBPath)
	}
}

func TestValidate_Rejections(t *testing.T) {
	base := func() *Config {
		return &Config{
			Dimension:          512,
			Metric:             MetricL2,
			BatchSize:          64,
			ConcurrencyLimit:   4,
			MaxRetries:         3,
			RetryDelay:         2 * time.Second,
			BackoffCap:         30 * time.Second,
			NormMin:            0.1,
			NormMax:            10.0,
			CoherenceThreshold: 0.95,
			CallTimeout:        30 * time.Second,
		}
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dimension", func(c *Config) { c.Dimension = 0 }},
		{"negative dimension", func(c *Config) { c.Dimension = -5 }},
		{"unknown metric", func(c *Config) { c.Metric = "cosine" }},
		{"batch size below min", func(c *Config) { c.BatchSize = 8 }},
		{"batch size above max", func(c *Config) { c.BatchSize = 2048 }},
		{"zero concurrency", func(c *Config) { c.ConcurrencyLimit = 0 }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"excessive retries", func(c *Config) { c.MaxRetries = 11 }},
		{"zero retry delay", func(c *Config) { c.RetryDelay = 0 }},
		{"cap below base delay", func(c *Config) { c.BackoffCap = time.Second }},
		{"inverted norm bounds", func(c *Config) { c.NormMin = 5.0; c.NormMax = 1.0 }},
		{"negative norm min", func(c *Config) { c.NormMin = -0.1 }},
		{"coherence above 1", func(c *Config) { c.CoherenceThreshold = 1.5 }},
		{"coherence below 0", func(c *Config) { c.CoherenceThreshold = -0.1 }},
		{"zero call timeout", func(c *Config) { c.CallTimeout = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate() accepted invalid config (%s)", tc.name)
			}
		})
	}
}

func TestValidate_AcceptsBounds(t *testing.T) {
	cfg := &Config{
		Dimension:          1,
		Metric:             MetricInnerProduct,
		BatchSize:          MinBatchSize,
		ConcurrencyLimit:   1,
		MaxRetries:         0,
		RetryDelay:         time.Millisecond,
		BackoffCap:         time.Millisecond,
		NormMin:            0,
		NormMax:            0.001,
		CoherenceThreshold: 0,
		CallTimeout:        time.Millisecond,
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() rejected boundary config: %v", err)
	}

	cfg.BatchSize = MaxBatchSize
	cfg.CoherenceThreshold = 1
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() rejected upper-boundary config: %v", err)
	}
}
