package config

import (
	"fmt"
	"log/slog"

	"github.com/randalmurphal/observer/pkg/observer"
	"github.com/randalmurphal/observer/pkg/observer/journal"
)

// Journal drivers.
const (
	DriverNone   = ""
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config holds registry settings.
type Config struct {
	StopOnError bool          `yaml:"stop_on_error" json:"stop_on_error"`
	Metrics     bool          `yaml:"metrics" json:"metrics"`
	Tracing     bool          `yaml:"tracing" json:"tracing"`
	LogLevel    string        `yaml:"log_level" json:"log_level"`
	Journal     JournalConfig `yaml:"journal" json:"journal"`
}

// JournalConfig selects the announcement journal.
type JournalConfig struct {
	Driver string `yaml:"driver" json:"driver"`
	Path   string `yaml:"path" json:"path"`
}

// Validate checks field values.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.Journal.Driver {
	case DriverNone, DriverMemory:
	case DriverSQLite:
		if c.Journal.Path == "" {
			return fmt.Errorf("journal: sqlite driver requires a path")
		}
	default:
		return fmt.Errorf("journal: unknown driver %q", c.Journal.Driver)
	}
	return nil
}

// Level parses LogLevel. Empty means info.
func (c Config) Level() (slog.Level, error) {
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// Options converts the settings into registry options. The logger is
// attached as-is; a nil logger disables logging.
func (c Config) Options(logger *slog.Logger) []observer.Option {
	opts := []observer.Option{
		observer.WithLogger(logger),
		observer.WithMetrics(c.Metrics),
		observer.WithTracing(c.Tracing),
	}
	if c.StopOnError {
		opts = append(opts, observer.WithStopOnError())
	}
	return opts
}

// OpenJournal opens the configured journal store. Returns nil, nil when no
// journal is configured. The caller closes the store.
func (c Config) OpenJournal() (journal.Store, error) {
	switch c.Journal.Driver {
	case DriverNone:
		return nil, nil
	case DriverMemory:
		return journal.NewMemoryStore(), nil
	case DriverSQLite:
		store, err := journal.NewSQLiteStore(c.Journal.Path)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("journal: unknown driver %q", c.Journal.Driver)
	}
}
