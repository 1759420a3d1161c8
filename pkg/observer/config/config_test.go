package config_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/observer/pkg/observer"
	"github.com/randalmurphal/observer/pkg/observer/config"
	"github.com/randalmurphal/observer/pkg/observer/journal"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFromFile_YAML(t *testing.T) {
	path := writeFile(t, "observer.yaml", `
stop_on_error: true
metrics: true
tracing: false
log_level: debug
journal:
  driver: memory
`)

	cfg, err := config.FromFile(path)
	require.NoError(t, err)

	assert.True(t, cfg.StopOnError)
	assert.True(t, cfg.Metrics)
	assert.False(t, cfg.Tracing)
	assert.Equal(t, config.DriverMemory, cfg.Journal.Driver)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestFromFile_JSON(t *testing.T) {
	path := writeFile(t, "observer.json", `{"tracing": true, "journal": {"driver": "sqlite", "path": "j.db"}}`)

	cfg, err := config.FromFile(path)
	require.NoError(t, err)
	assert.True(t, cfg.Tracing)
	assert.Equal(t, "j.db", cfg.Journal.Path)
}

func TestFromFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := config.FromFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := config.FromFile(writeFile(t, "observer.toml", "metrics = true"))
		assert.ErrorContains(t, err, "unsupported config file extension")
	})

	t.Run("unknown yaml field", func(t *testing.T) {
		_, err := config.FromYAML([]byte("metricz: true"))
		assert.ErrorContains(t, err, "parse yaml")
	})

	t.Run("unknown json field", func(t *testing.T) {
		_, err := config.FromJSON([]byte(`{"metricz": true}`))
		assert.ErrorContains(t, err, "parse json")
	})

	t.Run("sqlite without path", func(t *testing.T) {
		_, err := config.FromYAML([]byte("journal:\n  driver: sqlite\n"))
		assert.ErrorContains(t, err, "requires a path")
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := config.FromYAML([]byte("journal:\n  driver: postgres\n"))
		assert.ErrorContains(t, err, "unknown driver")
	})

	t.Run("bad log level", func(t *testing.T) {
		_, err := config.FromYAML([]byte("log_level: loud\n"))
		assert.ErrorContains(t, err, "log_level")
	})
}

func TestFromYAML_Empty(t *testing.T) {
	cfg, err := config.FromYAML(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Config{}, cfg)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestOpenJournal(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		store, err := config.Config{}.OpenJournal()
		require.NoError(t, err)
		assert.Nil(t, store)
	})

	t.Run("memory", func(t *testing.T) {
		store, err := config.Config{Journal: config.JournalConfig{Driver: config.DriverMemory}}.OpenJournal()
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &journal.MemoryStore{}, store)
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "journal.db")
		store, err := config.Config{Journal: config.JournalConfig{Driver: config.DriverSQLite, Path: path}}.OpenJournal()
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &journal.SQLiteStore{}, store)
	})
}

func TestOptions(t *testing.T) {
	cfg := config.Config{StopOnError: true}
	opts := cfg.Options(nil)
	assert.Len(t, opts, 4)

	// stop_on_error is honored by the registry built from the options
	reg := observer.NewRegistry(opts...)
	a, b, n := observer.NewEntity(), observer.NewEntity(), observer.NewEntity()

	calls := 0
	require.NoError(t, reg.Listen(&a, "test", observer.Func(func(_ context.Context, _ observer.Notification) error {
		return assert.AnError
	})))
	require.NoError(t, reg.Listen(&b, "test", observer.Receive(func(any) { calls++ })))

	err := reg.Notify(context.Background(), &n, "test", nil)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, calls)
}
