// Command obsjournal inspects an announcement journal written by an
// observer registry configured with a SQLite journal.
//
//	obsjournal list --db ./journal.db --event order.created --limit 20
//	obsjournal stats --db ./journal.db
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "obsjournal:", err)
		os.Exit(1)
	}
}
