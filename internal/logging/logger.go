// Package logging builds the zerolog loggers used across countries.
//
// Loggers are configured once per command invocation from config.LoggingConfig
// and carried through context.Context. Each package derives a component logger
// so every line carries a "component" field, and every command invocation gets
// a ULID trace ID.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Output formats and destinations.
const (
	FormatJSON    = "json"
	FormatConsole = "console"

	OutputStderr = "stderr"
	OutputFile   = "file"
)

// Config describes how a logger should be built.
type Config struct {
	// Level is a zerolog level name ("debug", "info", ...). Unknown values fall back to info.
	Level string
	// Format is "json" or "console".
	Format string
	// Output is "stderr" or "file".
	Output string
	// File is the log file path, used when Output is "file".
	File string
}

// LogPathResult is the outcome of NewLoggerWithPath.
type LogPathResult struct {
	Logger zerolog.Logger

	// UsingFile is true when log lines go to FilePath.
	UsingFile bool
	FilePath  string

	// FallbackUsed is true when a file was requested but could not be opened.
	FallbackUsed   bool
	FallbackReason string

	file *os.File
}

// Close closes the underlying log file, if any.
func (r *LogPathResult) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// NewLogger builds a logger writing to stderr according to cfg. File output is ignored.
func NewLogger(cfg Config) zerolog.Logger {
	return build(os.Stderr, cfg)
}

// NewLoggerWithPath builds a logger honoring cfg.Output. When the log file cannot be
// opened it falls back to stderr and reports why.
func NewLoggerWithPath(cfg Config) LogPathResult {
	if cfg.Output != OutputFile || cfg.File == "" {
		return LogPathResult{Logger: build(os.Stderr, cfg)}
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o750); err != nil {
		return LogPathResult{
			Logger:         build(os.Stderr, cfg),
			FallbackUsed:   true,
			FallbackReason: fmt.Sprintf("creating log directory: %v", err),
		}
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return LogPathResult{
			Logger:         build(os.Stderr, cfg),
			FallbackUsed:   true,
			FallbackReason: fmt.Sprintf("opening log file: %v", err),
		}
	}

	// Console formatting in a file is unreadable; files always get JSON lines.
	fileCfg := cfg
	fileCfg.Format = FormatJSON

	return LogPathResult{
		Logger:    build(f, fileCfg),
		UsingFile: true,
		FilePath:  cfg.File,
		file:      f,
	}
}

func build(w io.Writer, cfg Config) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	out := w
	if cfg.Format == FormatConsole {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// ComponentLogger returns a child logger tagged with the given component name.
func ComponentLogger(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}

// PrintLogPathMessage tells the user where log lines are going.
func PrintLogPathMessage(w io.Writer, path string) {
	_, _ = fmt.Fprintf(w, "Logging to %s\n", path)
}

// PrintFallbackWarning tells the user that file logging could not be enabled.
func PrintFallbackWarning(w io.Writer, reason string) {
	_, _ = fmt.Fprintf(w, "Warning: file logging unavailable (%s), logging to stderr\n", reason)
}
