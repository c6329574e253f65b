package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration wraps time.Duration for TOML string parsing ("2s", "1m").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	return nil
}

// DockerConfig controls the daemon connection and which containers appear.
type DockerConfig struct {
	Socket  string   `toml:"socket"`  // unix socket path, empty = environment default
	Include []string `toml:"include"` // glob patterns, empty = all
	Exclude []string `toml:"exclude"`
	Refresh Duration `toml:"refresh"` // refresh tick interval
}

// GridConfig is presentation policy for the workload grid.
type GridConfig struct {
	RowsPerColumn int `toml:"rows_per_column"`
	ColumnWidth   int `toml:"column_width"`
}

// HistoryConfig controls the restart audit log.
type HistoryConfig struct {
	Path          string `toml:"path"` // empty = XDG state dir, "off" disables
	RetentionDays int    `toml:"retention_days"`
}

// ThemeConfig holds optional color overrides. Empty strings use ANSI defaults.
// Values can be ANSI numbers ("1"), 256-palette numbers ("196"), or hex ("#ff0000").
type ThemeConfig struct {
	Fg       string `toml:"fg"`
	Muted    string `toml:"muted"`
	Accent   string `toml:"accent"`
	Healthy  string `toml:"healthy"`
	Warning  string `toml:"warning"`
	Critical string `toml:"critical"`
}

// Config is the dashboard configuration.
type Config struct {
	Docker  DockerConfig  `toml:"docker"`
	Grid    GridConfig    `toml:"grid"`
	History HistoryConfig `toml:"history"`
	Theme   ThemeConfig   `toml:"theme"`
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/stevedore/config.toml,
// falling back to ~/.config/stevedore/config.toml if unset.
func DefaultConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "stevedore", "config.toml")
}

// DefaultHistoryPath returns $XDG_STATE_HOME/stevedore/actions.db,
// falling back to ~/.local/state/stevedore/actions.db if unset.
func DefaultHistoryPath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".local", "state")
	}
	return filepath.Join(dir, "stevedore", "actions.db")
}

const defaultConfigContent = `# Stevedore configuration.
# All values are optional; the defaults below are what an empty file gives you.
#
# [docker]
# socket = ""              # unix socket path, empty follows DOCKER_HOST
# include = []             # glob patterns of container names to show
# exclude = []             # glob patterns of container names to hide
# refresh = "2s"           # inventory refresh interval
#
# [grid]
# rows_per_column = 8      # rows before the grid wraps to a new column
# column_width = 24        # display cells per column
#
# [history]
# path = ""                # restart audit database, "off" disables
# retention_days = 30
#
# [theme]
# Colors default to ANSI (0-15) so the TUI inherits your terminal theme.
# Override with ANSI numbers, 256-palette numbers, or hex values.
# fg = "7"
# muted = "8"
# accent = "14"
# healthy = "10"
# warning = "11"
# critical = "9"
`

// EnsureDefaultConfig creates the default config file if it does not exist.
// Returns the path to the config file.
func EnsureDefaultConfig(path string) (string, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o644); err != nil {
		return "", fmt.Errorf("write default config: %w", err)
	}
	return path, nil
}

// LoadConfig reads and parses a TOML config file, filling in defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyDefaults(&cfg)
	if cfg.Grid.RowsPerColumn < 1 {
		return nil, fmt.Errorf("load config: rows_per_column must be positive")
	}
	if cfg.Grid.ColumnWidth < 4 {
		return nil, fmt.Errorf("load config: column_width must be at least 4")
	}
	return &cfg, nil
}

// DefaultConfig returns the configuration an empty file yields.
func DefaultConfig() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Docker.Refresh.Duration == 0 {
		cfg.Docker.Refresh.Duration = 2 * time.Second
	}
	if cfg.Grid.RowsPerColumn == 0 {
		cfg.Grid.RowsPerColumn = 8
	}
	if cfg.Grid.ColumnWidth == 0 {
		cfg.Grid.ColumnWidth = 24
	}
	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath()
	}
	if cfg.History.RetentionDays == 0 {
		cfg.History.RetentionDays = 30
	}
}
