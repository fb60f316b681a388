// Package logger provides the diagnostic slog logger of hostping.
//
// The diagnostic log never goes to stdout or stderr, those belong to the
// probe output. It is discarded unless a log file is configured, in which
// case JSON records are written through a size-rotated file.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type logger struct{}

// Config describes where and how verbosely to write the diagnostic log.
type Config struct {
	// File is the log file path. Logging is disabled when empty.
	File string
	// Level is one of DEBUG, INFO, WARN or ERROR. Defaults to INFO.
	Level string
	// MaxMB is the size in megabytes after which the file is rotated.
	MaxMB int
	// MaxFiles is the number of rotated files to keep.
	MaxFiles int
}

const (
	defaultMaxMB    = 10
	defaultMaxFiles = 3
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns the logger described by cfg and a closer that releases the
// underlying file. The closer is never nil.
func New(cfg Config) (*slog.Logger, io.Closer, error) {
	if strings.TrimSpace(cfg.File) == "" {
		return NewLogger(), nopCloser{}, nil
	}

	if dir := filepath.Dir(cfg.File); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
	}

	maxMB := cfg.MaxMB
	if maxMB <= 0 {
		maxMB = defaultMaxMB
	}
	maxFiles := cfg.MaxFiles
	if maxFiles <= 0 {
		maxFiles = defaultMaxFiles
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    maxMB,
		MaxBackups: maxFiles,
		Compress:   false,
	}

	handler := slog.NewJSONHandler(lj, &slog.HandlerOptions{
		AddSource: getLevel(cfg.Level) == slog.LevelDebug,
		Level:     getLevel(cfg.Level),
	})

	return NewLogger(handler), lj, nil
}

// NewLogger returns a logger using the first given handler, or a logger
// that discards everything when none is given.
func NewLogger(h ...slog.Handler) *slog.Logger {
	if len(h) > 0 {
		return slog.New(h[0])
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// IntoContext returns a copy of ctx carrying log.
func IntoContext(ctx context.Context, log *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, logger{}, log)
}

// FromContext returns the logger stored in ctx, or a discarding logger.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(logger{}).(*slog.Logger); ok {
			return log
		}
	}
	return NewLogger()
}

// ValidLevel reports whether level names a known log level.
func ValidLevel(level string) error {
	switch strings.ToUpper(level) {
	case "", "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
		return nil
	}
	return errors.New("log level must be one of DEBUG, INFO, WARN, ERROR")
}

func getLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
