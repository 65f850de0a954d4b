package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v2"
)

// Config holds all configuration for the SRE test service
type Config struct {
	// Server configuration
	Host     string `env:"SRETEST_HTTP_HOST"`
	Port     int    `env:"SRETEST_HTTP_PORT"`
	LogLevel string `env:"LOG_LEVEL"`

	// Runtime monitor
	MonitorInterval time.Duration `env:"SRETEST_MONITOR_INTERVAL"`

	// Metrics listener configuration
	Metrics MetricsConfig

	// Fault injection
	Fault FaultConfig

	// Timeouts
	Timeouts TimeoutConfig
}

// MetricsConfig holds the operational metrics listener configuration
type MetricsConfig struct {
	Enabled bool `env:"SRETEST_METRICS_ENABLED"`
	Port    int  `env:"SRETEST_METRICS_PORT"`
}

// FaultConfig holds artificial latency injection settings. Both values
// default to zero, which disables injection entirely.
type FaultConfig struct {
	Delay  time.Duration `env:"FAULT_DELAY"`
	Jitter time.Duration `env:"FAULT_JITTER"`
}

// Enabled reports whether any latency injection is configured.
func (f FaultConfig) Enabled() bool {
	return f.Delay > 0 || f.Jitter > 0
}

// TimeoutConfig holds various timeout configurations
type TimeoutConfig struct {
	ReadTimeout     time.Duration `env:"TIMEOUT_READ"`
	WriteTimeout    time.Duration `env:"TIMEOUT_WRITE"`
	IdleTimeout     time.Duration `env:"TIMEOUT_IDLE"`
	ShutdownTimeout time.Duration `env:"TIMEOUT_SHUTDOWN"`
}

// Default returns the built-in configuration. Load overlays the config
// file and then the environment on top of these values; the env tags
// carry no envDefault.
func Default() *Config {
	return &Config{
		Host:            "0.0.0.0",
		Port:            8080,
		LogLevel:        "info",
		MonitorInterval: 30 * time.Second,
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
		},
		Timeouts: TimeoutConfig{
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
	}
}

// fileConfig mirrors the subset of Config settable from a YAML file.
// Durations are integer milliseconds; the pointer field distinguishes
// "absent" from an explicit false.
type fileConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	Metrics  struct {
		Enabled *bool `yaml:"enabled"`
		Port    int   `yaml:"port"`
	} `yaml:"metrics"`
	Fault struct {
		DelayMillis  int `yaml:"delay_ms"`
		JitterMillis int `yaml:"jitter_ms"`
	} `yaml:"fault"`
}

// Load reads configuration from the optional YAML file named by
// SRETEST_CONFIG_FILE and from environment variables.
// Precedence is defaults < file < environment.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("SRETEST_CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFile overlays settings from a YAML file onto the receiver.
func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return err
	}

	if fc.Host != "" {
		c.Host = fc.Host
	}
	if fc.Port != 0 {
		c.Port = fc.Port
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.Metrics.Enabled != nil {
		c.Metrics.Enabled = *fc.Metrics.Enabled
	}
	if fc.Metrics.Port != 0 {
		c.Metrics.Port = fc.Metrics.Port
	}
	if fc.Fault.DelayMillis != 0 {
		c.Fault.Delay = time.Duration(fc.Fault.DelayMillis) * time.Millisecond
	}
	if fc.Fault.JitterMillis != 0 {
		c.Fault.Jitter = time.Duration(fc.Fault.JitterMillis) * time.Millisecond
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server address
	if c.Host == "" {
		return fmt.Errorf("http host is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Port)
	}

	// Validate metrics listener
	if c.Metrics.Enabled {
		if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
			return fmt.Errorf("invalid metrics port: %d", c.Metrics.Port)
		}
		if c.Metrics.Port == c.Port {
			return fmt.Errorf("metrics port %d collides with HTTP port", c.Metrics.Port)
		}
	}

	// Validate monitor config
	if c.MonitorInterval <= 0 {
		return fmt.Errorf("monitor interval must be positive")
	}

	// Validate fault injection
	if c.Fault.Delay < 0 {
		return fmt.Errorf("fault delay must not be negative")
	}
	if c.Fault.Jitter < 0 {
		return fmt.Errorf("fault jitter must not be negative")
	}
	// A delay at or past the write timeout would kill every delayed response.
	if worst := c.Fault.Delay + c.Fault.Jitter; c.Timeouts.WriteTimeout > 0 && worst >= c.Timeouts.WriteTimeout {
		return fmt.Errorf("fault delay %s reaches the write timeout %s", worst, c.Timeouts.WriteTimeout)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// GetHTTPAddr returns the HTTP server listen address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetMetricsAddr returns the metrics listener address
func (c *Config) GetMetricsAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Metrics.Port)
}
