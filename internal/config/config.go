package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
// They match the behaviour of running pingline with no config at all:
// ping google.com once a second and keep the last minute of results.
const (
	DefaultTarget     = "google.com"
	DefaultMethod     = "icmp"
	DefaultTCPPort    = 443
	DefaultInterval   = 1 * time.Second
	DefaultTimeout    = 2 * time.Second
	DefaultHistory    = 60
	DefaultBaseline   = 10 * time.Millisecond
	DefaultScaleMin   = 0
	DefaultScaleMax   = 100 * time.Millisecond
	DefaultTiers      = 8
	DefaultListenAddr = "127.0.0.1:9143"
)

// Config is the top-level pingline configuration.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	Probe   ProbeConfig   `yaml:"probe"`
	History HistoryConfig `yaml:"history"`
	Render  RenderConfig  `yaml:"render"`
	Server  ServerConfig  `yaml:"server"`
}

// ProbeConfig controls what is probed and how often.
type ProbeConfig struct {
	// Target is the hostname or IP address to probe.
	Target string `yaml:"target"`

	// Method selects the probe implementation: icmp | tcp.
	Method string `yaml:"method"`

	// Port is the TCP port dialled when Method is "tcp". Ignored for ICMP.
	Port int `yaml:"port"`

	// Interval is the time between probes. One probe is in flight at a time.
	Interval time.Duration `yaml:"interval"`

	// Timeout bounds a single probe. A probe that exceeds it is recorded
	// as a failed sample, never as a program error.
	Timeout time.Duration `yaml:"timeout"`

	// Privileged selects raw ICMP sockets instead of unprivileged UDP
	// datagram sockets. Raw sockets require root (or CAP_NET_RAW on Linux).
	Privileged bool `yaml:"privileged"`
}

// HistoryConfig controls the rolling sample window.
type HistoryConfig struct {
	// Size is the number of recent samples kept. Older samples are evicted.
	Size int `yaml:"size"`

	// Prefill seeds the window with Baseline-valued samples at startup so
	// the rendered sparkline has a constant width from the first tick.
	Prefill bool `yaml:"prefill"`

	// Baseline is the round-trip time used for prefill samples.
	Baseline time.Duration `yaml:"baseline"`
}

// RenderConfig controls how latency values are quantised for display.
type RenderConfig struct {
	// ScaleMin and ScaleMax bound the latency-to-tier mapping. Values at or
	// below ScaleMin map to the lowest tier; values at or above ScaleMax —
	// and failed probes — map to the highest.
	ScaleMin time.Duration `yaml:"scale_min"`
	ScaleMax time.Duration `yaml:"scale_max"`

	// Tiers is the number of discrete display levels. The glyph sparkline
	// always uses 8; Tiers applies to the level mapping exposed over the API.
	Tiers int `yaml:"tiers"`
}

// ServerConfig controls the local HTTP/WebSocket endpoint.
type ServerConfig struct {
	// Enabled starts the HTTP server when true.
	Enabled bool `yaml:"enabled"`

	// Addr is the listen address, host:port.
	Addr string `yaml:"addr"`
}

// Load reads and parses the YAML config file at path.
// An empty path returns the built-in defaults, so the binary runs usefully
// with no config file at all. Missing optional fields are filled with defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Default returns a Config pre-populated with default values.
func Default() *Config {
	return &Config{
		Probe: ProbeConfig{
			Target:   DefaultTarget,
			Method:   DefaultMethod,
			Port:     DefaultTCPPort,
			Interval: DefaultInterval,
			Timeout:  DefaultTimeout,
		},
		History: HistoryConfig{
			Size:     DefaultHistory,
			Prefill:  true,
			Baseline: DefaultBaseline,
		},
		Render: RenderConfig{
			ScaleMin: DefaultScaleMin,
			ScaleMax: DefaultScaleMax,
			Tiers:    DefaultTiers,
		},
		Server: ServerConfig{
			Enabled: true,
			Addr:    DefaultListenAddr,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Probe.Target == "" {
		return fmt.Errorf("probe.target is required")
	}
	switch cfg.Probe.Method {
	case "icmp", "tcp":
	default:
		return fmt.Errorf("probe.method: unknown method %q", cfg.Probe.Method)
	}
	if cfg.Probe.Method == "tcp" && (cfg.Probe.Port <= 0 || cfg.Probe.Port > 65535) {
		return fmt.Errorf("probe.port must be in 1..65535, got %d", cfg.Probe.Port)
	}
	if cfg.Probe.Interval <= 0 {
		return fmt.Errorf("probe.interval must be positive")
	}
	if cfg.Probe.Timeout <= 0 {
		return fmt.Errorf("probe.timeout must be positive")
	}
	if cfg.History.Size <= 0 {
		return fmt.Errorf("history.size must be positive")
	}
	if cfg.History.Baseline < 0 {
		return fmt.Errorf("history.baseline must not be negative")
	}
	if cfg.Render.ScaleMin < 0 {
		return fmt.Errorf("render.scale_min must not be negative")
	}
	if cfg.Render.ScaleMax <= cfg.Render.ScaleMin {
		return fmt.Errorf("render.scale_max must be greater than scale_min")
	}
	if cfg.Render.Tiers < 2 {
		return fmt.Errorf("render.tiers must be at least 2")
	}
	if cfg.Server.Enabled && cfg.Server.Addr == "" {
		return fmt.Errorf("server.addr is required when server.enabled")
	}
	return nil
}
