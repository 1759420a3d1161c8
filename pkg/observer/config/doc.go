/*
Package config loads registry settings from YAML or JSON files.

# File Format

	stop_on_error: false
	metrics: true
	tracing: true
	log_level: debug
	journal:
	  driver: sqlite      # "", "memory", or "sqlite"
	  path: ./journal.db  # required for sqlite

# Usage

	cfg, err := config.FromFile("observer.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	store, err := cfg.OpenJournal()
	if err != nil {
	    log.Fatal(err)
	}
	defer store.Close()

	opts := cfg.Options(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	reg := observer.NewRegistry(append(opts, observer.WithJournal(store))...)

Missing fields keep their zero values: no metrics, no tracing, no journal,
info-level logging, and failures isolated per subscriber.
*/
package config
