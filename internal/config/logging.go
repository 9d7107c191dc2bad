package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rshade/countries/internal/logging"
)

// LoggingConfig controls log level, format and destination.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File, when set, sends log lines to this path instead of stderr.
	File string `yaml:"file,omitempty"`
}

// Validate checks the level and format.
func (lc LoggingConfig) Validate() error {
	if _, err := zerolog.ParseLevel(strings.ToLower(lc.Level)); err != nil || lc.Level == "" {
		return fmt.Errorf("%w: logging.level %q is not a known level", ErrInvalidConfig, lc.Level)
	}
	if lc.Format != logging.FormatJSON && lc.Format != logging.FormatConsole {
		return fmt.Errorf("%w: logging.format must be %q or %q, got %q",
			ErrInvalidConfig, logging.FormatJSON, logging.FormatConsole, lc.Format)
	}
	return nil
}

// ToLoggingConfig converts LoggingConfig to logging.Config. When File is set the
// output becomes "file", otherwise "stderr".
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// DefaultLogPath returns ~/.countries/logs/countries.log, used when the TUI needs
// to keep log lines off the terminal. Returns "" when the home directory is unknown.
func DefaultLogPath() string {
	base := BaseDir()
	if base == "" {
		return ""
	}
	return filepath.Join(base, "logs", "countries.log")
}
