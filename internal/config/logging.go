package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rshade/ecoquest/internal/logging"
)

// LoggingConfig is the logging section of the config file.
type LoggingConfig struct {
	Level  string      `yaml:"level"`
	Format string      `yaml:"format"`
	File   string      `yaml:"file,omitempty"`
	Audit  AuditConfig `yaml:"audit"`
}

// AuditConfig controls the audit trail of state-changing commands.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file,omitempty"`
}

// ToLoggingConfig converts the section into logging.Config.
func (l LoggingConfig) ToLoggingConfig() logging.Config {
	return logging.Config{
		Level:  l.Level,
		Format: l.Format,
		File:   l.File,
	}
}

// DefaultLogFile returns ~/.ecoquest/logs/ecoquest.log.
func DefaultLogFile() string {
	return filepath.Join(DefaultDir(), "logs", "ecoquest.log")
}

func (l LoggingConfig) validate() error {
	if _, err := zerolog.ParseLevel(strings.ToLower(l.Level)); err != nil || l.Level == "" {
		return fmt.Errorf("%w: logging.level %q", ErrInvalidValue, l.Level)
	}
	switch strings.ToLower(l.Format) {
	case logging.FormatJSON, logging.FormatConsole, logging.FormatText:
		return nil
	default:
		return fmt.Errorf("%w: logging.format %q (want json or console)", ErrInvalidValue, l.Format)
	}
}
