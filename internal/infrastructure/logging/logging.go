package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/encodeous/tint"
	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/andrescamacho/neutron-assistant-go/internal/infrastructure/config"
)

// ParseLevel maps a config level name to a slog level
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds the process logger: a tint console handler plus an
// optional file handler, fanned out. The returned closer releases the file.
func NewLogger(cfg config.LoggingConfig, console io.Writer) (*slog.Logger, io.Closer, error) {
	level := ParseLevel(cfg.Level)
	handlers := make([]slog.Handler, 0, 2)
	var closer io.Closer = nopCloser{}

	if cfg.Output != "file" {
		if console == nil {
			console = os.Stderr
			if cfg.Output == "stdout" {
				console = os.Stdout
			}
		}
		handlers = append(handlers, tint.NewHandler(console, &tint.Options{
			Level:      level,
			AddSource:  cfg.IncludeCaller,
			TimeFormat: time.TimeOnly,
			NoColor:    cfg.NoColor,
		}))
	}

	if cfg.FilePath != "" {
		w, c, err := openLogFile(cfg)
		if err != nil {
			return nil, nil, err
		}
		closer = c
		opts := &slog.HandlerOptions{Level: level, AddSource: cfg.IncludeCaller}
		if cfg.Format == "json" {
			handlers = append(handlers, slog.NewJSONHandler(w, opts))
		} else {
			handlers = append(handlers, slog.NewTextHandler(w, opts))
		}
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

func openLogFile(cfg config.LoggingConfig) (io.Writer, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	if cfg.Rotation.Enabled {
		lj := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.Rotation.MaxSize,
			MaxBackups: cfg.Rotation.MaxBackups,
			MaxAge:     cfg.Rotation.MaxAge,
			Compress:   cfg.Rotation.Compress,
		}
		return lj, lj, nil
	}

	f, err := os.OpenFile(cfg.FilePath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, f, nil
}
