// Package config loads the monitoring engine's TOML configuration: an
// embedded default baked in via go:embed, overridable by an XDG config
// file or an explicit path.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed default_panemonitor.toml
var defaultConfigData []byte

// Config holds the engine's tunables: scan cadence, the long-cycle
// interval, the cycle cap, the sequential name list, capture history
// depth, marker keyword tables, and the handler communication delay.
type Config struct {
	ScanIntervalSeconds      float64  `toml:"scan_interval_seconds"`
	LongCycleIntervalSeconds float64  `toml:"long_cycle_interval_seconds"`
	MaxCycles                int      `toml:"max_cycles"`
	CommunicationDelayMillis int      `toml:"communication_delay_millis"`
	CaptureHistoryDepth      int      `toml:"capture_history_depth"`
	NameList                 []string `toml:"name_list"`

	CompletionMarkers []string `toml:"completion_markers"`
	ErrorMarkers      []string `toml:"error_markers"`
	BlockingMarkers   []string `toml:"blocking_markers"`
}

// ScanInterval is ScanIntervalSeconds as a time.Duration.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.ScanIntervalSeconds * float64(time.Second))
}

// LongCycleInterval is LongCycleIntervalSeconds as a time.Duration.
func (c *Config) LongCycleInterval() time.Duration {
	return time.Duration(c.LongCycleIntervalSeconds * float64(time.Second))
}

// CommunicationDelay is CommunicationDelayMillis as a time.Duration.
func (c *Config) CommunicationDelay() time.Duration {
	return time.Duration(c.CommunicationDelayMillis) * time.Millisecond
}

// Default returns the built-in configuration baked in at build time via
// go:embed, used whenever no user config file is found.
func Default() (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(string(defaultConfigData), &cfg); err != nil {
		return nil, fmt.Errorf("decoding embedded config: %w", err)
	}
	return &cfg, nil
}

// ResolveConfigPath walks the XDG fallback chain:
// $XDG_CONFIG_HOME/panemonitor/panemonitor.toml, then
// ~/.config/panemonitor/panemonitor.toml. Returns "" if neither exists.
func ResolveConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		path := filepath.Join(xdg, "panemonitor", "panemonitor.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "panemonitor", "panemonitor.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load resolves configuration: an explicit path wins; otherwise the XDG
// fallback chain; otherwise the embedded default.
func Load(explicitPath string) (*Config, error) {
	path := explicitPath
	if path == "" {
		path = ResolveConfigPath()
		if path == "" {
			return Default()
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicitPath != "" {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}
