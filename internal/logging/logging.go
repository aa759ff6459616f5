// Package logging builds the CLI's slog logger. Records go to stderr, or to a
// rotating file when one is configured, with credential-bearing attributes
// masked on the way out.
package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config is the logging section of the CLI configuration.
type Config struct {
	Level          string `yaml:"level"`
	Format         string `yaml:"format"`
	File           string `yaml:"file"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
	FileMaxFiles   int    `yaml:"file_max_files"`
	FileMaxAgeDays int    `yaml:"file_max_age_days"`
}

// DefaultConfig logs warnings and errors as text.
func DefaultConfig() Config {
	return Config{
		Level:          "warn",
		Format:         "text",
		FileMaxSizeMB:  10,
		FileMaxFiles:   3,
		FileMaxAgeDays: 30,
	}
}

// Redacted replaces the value of any attribute whose key looks secret.
const Redacted = "REDACTED"

var secretKeys = []string{"token", "secret", "passphrase", "password", "verifier", "authorization"}

// Options adjust a Manager beyond what the config file says.
type Options struct {
	// Verbose forces debug level. With a log file configured, debug records
	// are mirrored to the console as well.
	Verbose bool
}

// Manager owns the logger and the log file, if any.
type Manager struct {
	mu   sync.Mutex
	file io.Closer
}

// NewManager returns a Manager and its logger.
func NewManager(cfg Config, console io.Writer, opts Options) (*Manager, *slog.Logger) {
	level := ParseLevel(cfg.Level)
	if opts.Verbose {
		level = slog.LevelDebug
	}

	m := &Manager{}
	if cfg.File == "" {
		return m, slog.New(newHandler(console, level, cfg.Format))
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    positiveOr(cfg.FileMaxSizeMB, 10),
		MaxBackups: positiveOr(cfg.FileMaxFiles, 3),
		MaxAge:     positiveOr(cfg.FileMaxAgeDays, 30),
	}
	m.file = lj

	h := newHandler(lj, level, cfg.Format)
	if opts.Verbose {
		h = teeHandler{h, newHandler(console, slog.LevelDebug, "text")}
	}
	return m, slog.New(h)
}

// Close closes the log file. It is safe to call more than once.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.file == nil {
		return nil
	}
	err := m.file.Close()
	m.file = nil
	return err
}

// ParseLevel converts a level name to slog.Level, defaulting to Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// ValidLevel reports whether s is a recognized log level.
func ValidLevel(s string) bool {
	switch strings.ToLower(s) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// ValidFormat reports whether s is a recognized log format.
func ValidFormat(s string) bool {
	return s == "text" || s == "json"
}

func newHandler(w io.Writer, level slog.Level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: maskSecrets}
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func maskSecrets(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		return a
	}
	key := strings.ToLower(a.Key)
	for _, s := range secretKeys {
		if strings.Contains(key, s) {
			return slog.String(a.Key, Redacted)
		}
	}
	return a
}

// teeHandler sends each record to both handlers that accept its level.
type teeHandler [2]slog.Handler

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return t[0].Enabled(ctx, level) || t[1].Enabled(ctx, level)
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return teeHandler{t[0].WithAttrs(attrs), t[1].WithAttrs(attrs)}
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	return teeHandler{t[0].WithGroup(name), t[1].WithGroup(name)}
}

func positiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
