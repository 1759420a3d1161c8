package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/observer/pkg/observer/journal"
)

type rootOptions struct {
	dbPath string
}

// newRootCmd builds the command tree writing to out.
func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "obsjournal",
		Short:         "Inspect an observer announcement journal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "journal.db", "Path to the SQLite journal")

	root.AddCommand(newListCmd(opts), newStatsCmd(opts))
	return root
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var event string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List recorded announcements, oldest first",
		Example: "  obsjournal list --db ./journal.db --event order.created --limit 20",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}
			return withStore(opts.dbPath, func(store journal.Store) error {
				entries, err := store.List(journal.Query{Event: event, Limit: limit})
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(entries)
				}
				return printEntries(cmd.OutOrStdout(), entries)
			})
		},
	}
	cmd.Flags().StringVar(&event, "event", "", "Only show this event")
	cmd.Flags().IntVar(&limit, "limit", 50, "Show at most this many of the newest entries (0 = all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print entries as JSON")
	return cmd
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-event announcement totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts.dbPath, func(store journal.Store) error {
				stats, err := store.Stats()
				if err != nil {
					return err
				}
				return printStats(cmd.OutOrStdout(), stats)
			})
		},
	}
}

// withStore opens an existing journal for the duration of fn. It refuses
// paths that do not exist so a mistyped --db is not silently created.
func withStore(path string, fn func(journal.Store) error) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("open journal: %s is a directory", path)
	}
	store, err := journal.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func printEntries(out io.Writer, entries []journal.Entry) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEQ\tTIME\tEVENT\tNOTIFIER\tDELIVERED\tFAILED\tPAYLOAD")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%s\n",
			e.Sequence, e.Timestamp.Format(time.RFC3339), e.Event, e.NotifierID,
			e.Delivered, e.Failed, string(e.Payload))
	}
	return w.Flush()
}

func printStats(out io.Writer, stats []journal.Stats) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EVENT\tANNOUNCEMENTS\tDELIVERED\tFAILED")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", s.Event, s.Announcements, s.Delivered, s.Failed)
	}
	return w.Flush()
}
