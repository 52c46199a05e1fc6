package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the default configuration file name.
const FileName = "gmpe.yaml"

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverDir    = "dir"
	DriverMemory = "memory"
)

// Report styles besides the glamour built-ins. "auto" follows the theme
// stored with the book; "plain" prints raw markdown.
const (
	StyleAuto  = "auto"
	StylePlain = "plain"
)

var (
	drivers = []string{DriverSQLite, DriverDir, DriverMemory}
	styles  = []string{StyleAuto, StylePlain, "dark", "light", "notty", "ascii", "dracula", "pink", "tokyo-night"}
	formats = []string{"text", "json"}
)

// Config represents gmpe.yaml.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
	Report ReportConfig `yaml:"report"`
}

// StoreConfig selects the key-value backend holding the book.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path,omitempty"` // database file for sqlite, directory for dir
}

// LogConfig controls diagnostic output on stderr.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ReportConfig controls terminal rendering of reports.
type ReportConfig struct {
	Style string `yaml:"style"`
}

// Load reads a gmpe.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault reads path, falling back to defaults when it does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new book.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Driver: DriverSQLite,
			Path:   "data/gmpe.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Report: ReportConfig{
			Style: StyleAuto,
		},
	}
}

// ApplyEnv overlays GMPE_* environment variables. envFile, when it exists,
// is loaded first; variables already set in the process win over it.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	overrides := map[string]*string{
		"GMPE_STORE_DRIVER": &c.Store.Driver,
		"GMPE_STORE_PATH":   &c.Store.Path,
		"GMPE_LOG_LEVEL":    &c.Log.Level,
		"GMPE_LOG_FORMAT":   &c.Log.Format,
		"GMPE_REPORT_STYLE": &c.Report.Style,
	}
	for env, field := range overrides {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			*field = v
		}
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if !slices.Contains(drivers, c.Store.Driver) {
		problems = append(problems, fmt.Sprintf("invalid store driver %q: must be one of %v", c.Store.Driver, drivers))
	}
	if c.Store.Driver != DriverMemory && strings.TrimSpace(c.Store.Path) == "" {
		problems = append(problems, fmt.Sprintf("store path cannot be empty for driver %q", c.Store.Driver))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		problems = append(problems, err.Error())
	}
	if !slices.Contains(formats, c.Log.Format) {
		problems = append(problems, fmt.Sprintf("invalid log format %q: must be one of %v", c.Log.Format, formats))
	}
	if !slices.Contains(styles, c.Report.Style) {
		problems = append(problems, fmt.Sprintf("invalid report style %q: must be one of %v", c.Report.Style, styles))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

// SlogLevel parses the configured level name.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", l.Level)
	}
	return level, nil
}
