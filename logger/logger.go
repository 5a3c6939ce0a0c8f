// Package logger wires the process-wide slog default: a text handler on
// stderr, plus a file handler when logging.file is configured.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"pgconvert/config"
)

// Setup installs the default slog logger. verbose forces the console level
// down to debug regardless of the configured level.
func Setup(cfg config.LoggingConfig, verbose bool) error {
	level := parseLevel(cfg.Level)
	if verbose {
		level = slog.LevelDebug
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	}

	if cfg.File != "" {
		if dir := filepath.Dir(cfg.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		logFile, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		handlers = append(handlers, slog.NewTextHandler(logFile, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		}))
	}

	slog.SetDefault(slog.New(NewMultiHandler(handlers...)))
	return nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
