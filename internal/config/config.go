// Package config loads, validates and persists the ecoquest configuration
// file (~/.ecoquest/config.yaml by default).
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DirName           = ".ecoquest"
	FileName          = "config.yaml"
	DatabaseFileName  = "ecoquest.db"
	DefaultAddr       = "127.0.0.1:8080"
	DefaultTargetKg   = 10.0
	DefaultFormat     = "table"
	DefaultPrecision  = 2
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
	defaultReadLimit  = 10 * time.Second
	defaultWriteLimit = 10 * time.Second
	maxPrecision      = 6
)

// Sentinel errors.
var (
	ErrUnknownKey   = errors.New("unknown config key")
	ErrInvalidValue = errors.New("invalid config value")
)

// Config is the complete ecoquest configuration.
type Config struct {
	Profile ProfileConfig `yaml:"profile"`
	Store   StoreConfig   `yaml:"store"`
	Server  ServerConfig  `yaml:"server"`
	Scoring ScoringConfig `yaml:"scoring"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`

	path string
}

// ProfileConfig identifies the local user the CLI acts as.
type ProfileConfig struct {
	UserID   string `yaml:"user_id"`
	Username string `yaml:"username,omitempty"`
	Email    string `yaml:"email,omitempty"`
	// Admin lets the local user manage categories and read store-wide stats.
	Admin bool `yaml:"admin,omitempty"`
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig configures `ecoquest serve`.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// ScoringConfig holds user-facing scoring defaults.
type ScoringConfig struct {
	DailyTargetKg float64 `yaml:"daily_target_kg"`
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Precision     int    `yaml:"precision"`
}

// New returns a Config populated with defaults. It reads nothing from disk.
func New() *Config {
	dir := DefaultDir()
	return &Config{
		Store:   StoreConfig{Path: filepath.Join(dir, DatabaseFileName)},
		Server:  ServerConfig{Addr: DefaultAddr, ReadTimeout: defaultReadLimit, WriteTimeout: defaultWriteLimit},
		Scoring: ScoringConfig{DailyTargetKg: DefaultTargetKg},
		Output:  OutputConfig{DefaultFormat: DefaultFormat, Precision: DefaultPrecision},
		Logging: LoggingConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		path:    filepath.Join(dir, FileName),
	}
}

// DefaultDir returns ~/.ecoquest, or ./.ecoquest when the home directory is
// unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DirName
	}
	return filepath.Join(home, DirName)
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), FileName)
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error. An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := New()
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err = cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file this config is read from and saved to.
func (c *Config) Path() string {
	return c.path
}

// SetPath changes the file Save writes to.
func (c *Config) SetPath(path string) {
	c.path = path
}

// EnsureProfile assigns a random user ID when none is configured and reports
// whether it did.
func (c *Config) EnsureProfile() bool {
	if c.Profile.UserID != "" {
		return false
	}
	c.Profile.UserID = uuid.NewString()
	return true
}

// validTarget reports whether kg can serve as a daily target.
func validTarget(kg float64) bool {
	return kg > 0 && !math.IsInf(kg, 0) && !math.IsNaN(kg)
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Store.Path) == "" {
		errs = append(errs, fmt.Errorf("%w: store.path must not be empty", ErrInvalidValue))
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, fmt.Errorf("%w: server.addr must not be empty", ErrInvalidValue))
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: server timeouts must not be negative", ErrInvalidValue))
	}
	if !validTarget(c.Scoring.DailyTargetKg) {
		errs = append(errs, fmt.Errorf("%w: scoring.daily_target_kg must be a positive finite number", ErrInvalidValue))
	}
	if !validFormat(c.Output.DefaultFormat) {
		errs = append(errs, fmt.Errorf("%w: output.default_format %q (want table, json or ndjson)",
			ErrInvalidValue, c.Output.DefaultFormat))
	}
	if c.Output.Precision < 0 || c.Output.Precision > maxPrecision {
		errs = append(errs, fmt.Errorf("%w: output.precision must be between 0 and %d", ErrInvalidValue, maxPrecision))
	}
	if err := c.Logging.validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Profile.UserID != strings.TrimSpace(c.Profile.UserID) {
		errs = append(errs, fmt.Errorf("%w: profile.user_id has surrounding whitespace", ErrInvalidValue))
	}

	return errors.Join(errs...)
}

// Save writes the config atomically to Path.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp config: %w", err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing temp config: %w", err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp config: %w", err)
	}
	if err = os.Rename(tmpName, c.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing config: %w", err)
	}
	return nil
}

func validFormat(f string) bool {
	switch f {
	case "table", "json", "ndjson":
		return true
	default:
		return false
	}
}
