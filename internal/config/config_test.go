package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// configEnvVars lists every variable Load consults, so tests can start
// from a clean environment regardless of what the host has exported.
var configEnvVars = []string{
	"SRETEST_HTTP_HOST",
	"SRETEST_HTTP_PORT",
	"LOG_LEVEL",
	"SRETEST_MONITOR_INTERVAL",
	"SRETEST_METRICS_ENABLED",
	"SRETEST_METRICS_PORT",
	"FAULT_DELAY",
	"FAULT_JITTER",
	"TIMEOUT_READ",
	"TIMEOUT_WRITE",
	"TIMEOUT_IDLE",
	"TIMEOUT_SHUTDOWN",
	"SRETEST_CONFIG_FILE",
}

// clearEnv unsets every config variable for the duration of the test.
// t.Setenv registers the restore; Unsetenv removes the value.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sretest.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want %q", cfg.Host, "0.0.0.0")
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
	if cfg.Metrics.Port != 9090 {
		t.Errorf("Metrics.Port = %d, want 9090", cfg.Metrics.Port)
	}
	if cfg.MonitorInterval != 30*time.Second {
		t.Errorf("MonitorInterval = %s, want 30s", cfg.MonitorInterval)
	}
	if cfg.Fault.Enabled() {
		t.Errorf("Fault.Enabled() = true, want false (delay=%s jitter=%s)", cfg.Fault.Delay, cfg.Fault.Jitter)
	}
	if cfg.Timeouts.ShutdownTimeout != 15*time.Second {
		t.Errorf("ShutdownTimeout = %s, want 15s", cfg.Timeouts.ShutdownTimeout)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SRETEST_HTTP_HOST", "127.0.0.1")
	t.Setenv("SRETEST_HTTP_PORT", "9999")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SRETEST_METRICS_ENABLED", "false")
	t.Setenv("SRETEST_MONITOR_INTERVAL", "5s")
	t.Setenv("FAULT_DELAY", "250ms")
	t.Setenv("FAULT_JITTER", "50ms")
	t.Setenv("TIMEOUT_SHUTDOWN", "1s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want %q", cfg.Host, "127.0.0.1")
	}
	if cfg.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want false")
	}
	if cfg.MonitorInterval != 5*time.Second {
		t.Errorf("MonitorInterval = %s, want 5s", cfg.MonitorInterval)
	}
	if cfg.Fault.Delay != 250*time.Millisecond {
		t.Errorf("Fault.Delay = %s, want 250ms", cfg.Fault.Delay)
	}
	if cfg.Fault.Jitter != 50*time.Millisecond {
		t.Errorf("Fault.Jitter = %s, want 50ms", cfg.Fault.Jitter)
	}
	if !cfg.Fault.Enabled() {
		t.Error("Fault.Enabled() = false, want true")
	}
	if cfg.Timeouts.ShutdownTimeout != time.Second {
		t.Errorf("ShutdownTimeout = %s, want 1s", cfg.Timeouts.ShutdownTimeout)
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
host: 192.168.1.10
port: 8081
log_level: warn
metrics:
  enabled: false
fault:
  delay_ms: 100
  jitter_ms: 20
`)
	t.Setenv("SRETEST_CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Host != "192.168.1.10" {
		t.Errorf("Host = %q, want %q", cfg.Host, "192.168.1.10")
	}
	if cfg.Port != 8081 {
		t.Errorf("Port = %d, want 8081", cfg.Port)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "warn")
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want false")
	}
	if cfg.Fault.Delay != 100*time.Millisecond {
		t.Errorf("Fault.Delay = %s, want 100ms", cfg.Fault.Delay)
	}
	if cfg.Fault.Jitter != 20*time.Millisecond {
		t.Errorf("Fault.Jitter = %s, want 20ms", cfg.Fault.Jitter)
	}
	// Values the file does not mention keep their defaults.
	if cfg.Metrics.Port != 9090 {
		t.Errorf("Metrics.Port = %d, want 9090", cfg.Metrics.Port)
	}
}

func TestLoadEnvBeatsFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, "port: 9001\nlog_level: error\n")
	t.Setenv("SRETEST_CONFIG_FILE", path)
	t.Setenv("SRETEST_HTTP_PORT", "9002")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 9002 {
		t.Errorf("Port = %d, want env value 9002 over file value 9001", cfg.Port)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want file value %q", cfg.LogLevel, "error")
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("SRETEST_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want error for missing config file")
	}
}

func TestLoadMalformedConfigFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, "{{{ not yaml")
	t.Setenv("SRETEST_CONFIG_FILE", path)

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want error for malformed config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty host",
			mutate:  func(c *Config) { c.Host = "" },
			wantErr: true,
		},
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Port = 0 },
			wantErr: true,
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "metrics port collides with http port",
			mutate:  func(c *Config) { c.Metrics.Port = c.Port },
			wantErr: true,
		},
		{
			name: "metrics port ignored when disabled",
			mutate: func(c *Config) {
				c.Metrics.Enabled = false
				c.Metrics.Port = 0
			},
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
		},
		{
			name:    "monitor interval zero",
			mutate:  func(c *Config) { c.MonitorInterval = 0 },
			wantErr: true,
		},
		{
			name:    "negative fault delay",
			mutate:  func(c *Config) { c.Fault.Delay = -time.Second },
			wantErr: true,
		},
		{
			name:    "negative fault jitter",
			mutate:  func(c *Config) { c.Fault.Jitter = -time.Second },
			wantErr: true,
		},
		{
			name: "fault delay reaches write timeout",
			mutate: func(c *Config) {
				c.Fault.Delay = 20 * time.Second
				c.Fault.Jitter = 10 * time.Second
			},
			wantErr: true,
		},
		{
			name: "fault delay under write timeout",
			mutate: func(c *Config) {
				c.Fault.Delay = time.Second
				c.Fault.Jitter = 500 * time.Millisecond
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetAddrs(t *testing.T) {
	cfg := Default()
	cfg.Host = "127.0.0.1"
	cfg.Port = 8080
	cfg.Metrics.Port = 9090

	if got := cfg.GetHTTPAddr(); got != "127.0.0.1:8080" {
		t.Errorf("GetHTTPAddr() = %q, want %q", got, "127.0.0.1:8080")
	}
	if got := cfg.GetMetricsAddr(); got != "127.0.0.1:9090" {
		t.Errorf("GetMetricsAddr() = %q, want %q", got, "127.0.0.1:9090")
	}
}
