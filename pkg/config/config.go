// Package config handles loading and saving tgraph configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/tgraph/config.yaml
//   - State:   ~/.local/state/tgraph/ (debug log, last rendered chart)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/tablegraph/pkg/chart"
)

const appName = "tgraph"

// Source is a named data file, so `-data sales` can stand in for a path.
type Source struct {
	Name  string `yaml:"name"`
	Path  string `yaml:"path"`
	Table string `yaml:"table,omitempty"` // SQLite only
}

// ChartConfig holds canvas and colour settings.
type ChartConfig struct {
	Width        int     `yaml:"width,omitempty"`
	Height       int     `yaml:"height,omitempty"`
	BarThreshold float64 `yaml:"bar_threshold,omitempty"`
	ScatterHigh  float64 `yaml:"scatter_high,omitempty"`
	ScatterMid   float64 `yaml:"scatter_mid,omitempty"`
	Format       string  `yaml:"format,omitempty"` // svg or png; empty infers from Output
	Output       string  `yaml:"output,omitempty"` // default output path
}

// ServeConfig holds web host settings.
type ServeConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// WatchConfig controls live reload of the data file.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce,omitempty"`
}

// Config is the top-level configuration for tgraph.
type Config struct {
	Sources []Source    `yaml:"sources,omitempty"`
	Chart   ChartConfig `yaml:"chart,omitempty"`
	Serve   ServeConfig `yaml:"serve,omitempty"`
	Watch   WatchConfig `yaml:"watch"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	opts := chart.DefaultOptions()
	return Config{
		Chart: ChartConfig{
			Width:        opts.Width,
			Height:       opts.Height,
			BarThreshold: opts.BarThreshold,
			ScatterHigh:  opts.ScatterHigh,
			ScatterMid:   opts.ScatterMid,
			Output:       "chart.svg",
		},
		Serve: ServeConfig{Addr: "127.0.0.1:8080"},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: 200 * time.Millisecond,
		},
	}
}

// ConfigDir returns the XDG config directory for tgraph.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// StateDir returns the XDG state directory for tgraph.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path. Keys missing from the file
// keep their defaults. Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	for i := range cfg.Sources {
		cfg.Sources[i].Path = expandHome(cfg.Sources[i].Path)
	}
	cfg.Chart.Output = expandHome(cfg.Chart.Output)

	return cfg, nil
}

// Validate rejects settings no renderer can honour.
func (c Config) Validate() error {
	if c.Chart.Width < 0 || c.Chart.Height < 0 {
		return fmt.Errorf("invalid chart size %dx%d", c.Chart.Width, c.Chart.Height)
	}
	switch strings.ToLower(c.Chart.Format) {
	case "", "svg", "png":
	default:
		return fmt.Errorf("invalid chart format %q (want svg or png)", c.Chart.Format)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("invalid watch debounce %v", c.Watch.Debounce)
	}
	return nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ChartOptions converts the chart section into renderer options.
func (c Config) ChartOptions() chart.Options {
	return chart.Options{
		Width:        c.Chart.Width,
		Height:       c.Chart.Height,
		BarThreshold: c.Chart.BarThreshold,
		ScatterHigh:  c.Chart.ScatterHigh,
		ScatterMid:   c.Chart.ScatterMid,
	}
}

// FindSource returns the source with the given name, or nil.
func (c Config) FindSource(name string) *Source {
	for i := range c.Sources {
		if strings.EqualFold(c.Sources[i].Name, name) {
			return &c.Sources[i]
		}
	}
	return nil
}

// ResolveData maps a -data argument to a path and table. Names of configured
// sources win over paths; anything else is returned as given.
func (c Config) ResolveData(arg, table string) (string, string) {
	if s := c.FindSource(arg); s != nil {
		if table == "" {
			table = s.Table
		}
		return s.ResolvedPath(), table
	}
	return expandHome(arg), table
}

// ResolvedPath returns the source path with ~ expanded.
func (s Source) ResolvedPath() string {
	return expandHome(s.Path)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
