// Package logging configures the process-wide charmbracelet logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log formats accepted in Options.Format.
const (
	FormatAuto   = "auto"
	FormatText   = "text"
	FormatLogfmt = "logfmt"
	FormatJSON   = "json"
)

// Options controls logger setup. Fields are read from the environment.
type Options struct {
	Debug  bool   `env:"GHOSTSAY_DEBUG" envDefault:"false"`
	Format string `env:"GHOSTSAY_LOG_FORMAT" envDefault:"auto"`
	File   string `env:"GHOSTSAY_LOG_FILE"`

	// Rotation settings for File, in megabytes, backups and days.
	MaxSizeMB  int `env:"GHOSTSAY_LOG_MAX_SIZE" envDefault:"10"`
	MaxBackups int `env:"GHOSTSAY_LOG_MAX_BACKUPS" envDefault:"3"`
	MaxAgeDays int `env:"GHOSTSAY_LOG_MAX_AGE" envDefault:"28"`
}

// Formatter picks the log formatter for format. "auto" selects the
// colorized text formatter on a terminal and logfmt elsewhere.
func Formatter(format string, isTerminal bool) (log.Formatter, error) {
	switch strings.ToLower(format) {
	case "", FormatAuto:
		if isTerminal {
			return log.TextFormatter, nil
		}
		return log.LogfmtFormatter, nil
	case FormatText:
		return log.TextFormatter, nil
	case FormatLogfmt:
		return log.LogfmtFormatter, nil
	case FormatJSON:
		return log.JSONFormatter, nil
	default:
		return log.TextFormatter, fmt.Errorf("unknown log format %q: use auto, text, logfmt or json", format)
	}
}

// Setup installs the default logger writing to stderr and, when opts.File is
// set, to a rotated log file. The returned closer flushes the file.
func Setup(opts Options) (func() error, error) {
	var w io.Writer = os.Stderr
	isTerminal := term.IsTerminal(int(os.Stderr.Fd())) //nolint:gosec

	closer := func() error { return nil }
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil { //nolint:gosec
			return closer, fmt.Errorf("unable to create log directory: %w", err)
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		w = io.MultiWriter(os.Stderr, rotator)
		closer = rotator.Close
		// Colors would end up in the file.
		isTerminal = false
	}

	formatter, err := Formatter(opts.Format, isTerminal)
	if err != nil {
		return closer, err
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           Level(opts.Debug),
		Formatter:       formatter,
	})
	log.SetDefault(logger)

	log.Debug("Logging initialized", "format", opts.Format, "file", opts.File)
	return closer, nil
}

// Level maps the debug switch to a log level.
func Level(debug bool) log.Level {
	if debug {
		return log.DebugLevel
	}
	return log.InfoLevel
}

// SetDebug changes the default logger level at runtime.
func SetDebug(debug bool) {
	log.SetLevel(Level(debug))
}
