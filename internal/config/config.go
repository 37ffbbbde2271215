// Package config defines the crawler's run configuration: the CLI flags of
// spec.md §6, an optional YAML overlay, and the validation of the
// fatal-startup invariants.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of an `ecnspider run` invocation.
type Config struct {
	InputPath      string `yaml:"input"`
	RetryPath      string `yaml:"retry_output"`
	OutputPath     string `yaml:"output"`
	LogPath        string `yaml:"logfile"`

	Workers      int           `yaml:"workers"`
	Timeout      time.Duration `yaml:"timeout"`
	QueueSize    int           `yaml:"queue_size"`
	Verbosity    string        `yaml:"verbosity"`
	SaveHeaders  bool          `yaml:"save_headers"`
	NoIPv6       bool          `yaml:"no_ipv6"`
	DebugCount   int           `yaml:"debug_count"`
	FastFail     bool          `yaml:"fast_fail"`
	NoTcpdumpCheck bool        `yaml:"no_tcpdump_check"`
	MetricsAddr  string        `yaml:"metrics_addr"`
}

// Default returns a Config populated with the same defaults the original
// tool's argparse setup used (spec.md §6: 5 workers, 10s timeout).
func Default() Config {
	return Config{
		Workers:     5,
		Timeout:     10 * time.Second,
		QueueSize:   100,
		Verbosity:   "INFO",
		SaveHeaders: false,
		NoIPv6:      false,
		DebugCount:  0,
		FastFail:    false,
	}
}

// LoadYAMLOverlay reads path as a YAML file and merges its fields into cfg,
// but only for fields the caller hasn't already set from the command line —
// flags always beat file, matching the precedence the original tool's CLI
// documented for its optional config support.
func LoadYAMLOverlay(cfg *Config, path string, flagsSet map[string]bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading overlay %s: %w", path, err)
	}
	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("config: parsing overlay %s: %w", path, err)
	}

	if !flagsSet["workers"] && overlay.Workers != 0 {
		cfg.Workers = overlay.Workers
	}
	if !flagsSet["timeout"] && overlay.Timeout != 0 {
		cfg.Timeout = overlay.Timeout
	}
	if !flagsSet["queue-size"] && overlay.QueueSize != 0 {
		cfg.QueueSize = overlay.QueueSize
	}
	if !flagsSet["verbosity"] && overlay.Verbosity != "" {
		cfg.Verbosity = overlay.Verbosity
	}
	if !flagsSet["save-headers"] && overlay.SaveHeaders {
		cfg.SaveHeaders = overlay.SaveHeaders
	}
	if !flagsSet["no-ipv6"] && overlay.NoIPv6 {
		cfg.NoIPv6 = overlay.NoIPv6
	}
	if !flagsSet["debug-count"] && overlay.DebugCount != 0 {
		cfg.DebugCount = overlay.DebugCount
	}
	if !flagsSet["fast-fail"] && overlay.FastFail {
		cfg.FastFail = overlay.FastFail
	}
	if !flagsSet["no-tcpdump-check"] && overlay.NoTcpdumpCheck {
		cfg.NoTcpdumpCheck = overlay.NoTcpdumpCheck
	}
	if !flagsSet["metrics-addr"] && overlay.MetricsAddr != "" {
		cfg.MetricsAddr = overlay.MetricsAddr
	}
	return nil
}

// Validate checks the invariants that must hold before a run starts.
func (c Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("config: workers must be positive, got %d", c.Workers)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %s", c.Timeout)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("config: queue-size must be positive, got %d", c.QueueSize)
	}
	if c.DebugCount < 0 {
		return fmt.Errorf("config: debug-count must not be negative, got %d", c.DebugCount)
	}
	if c.InputPath == "" {
		return fmt.Errorf("config: input path is required")
	}
	if c.RetryPath == "" {
		return fmt.Errorf("config: retry output path is required")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("config: output path is required")
	}
	if c.LogPath == "" {
		return fmt.Errorf("config: logfile path is required")
	}
	return nil
}
