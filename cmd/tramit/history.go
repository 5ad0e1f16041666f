package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/tramit"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	if deps.Snapshots == nil {
		return fmt.Errorf("no database configured. Set --db or TRAMIT_DB")
	}

	snaps, err := deps.Snapshots.FindSnapshots(deps.Ctx, tramit.SnapshotFilter{
		URL:   &c.URL,
		Limit: c.Limit,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tramit.ErrorMessage(err))
		return err
	}

	if len(snaps) == 0 {
		fmt.Fprintf(deps.Stdout, "No snapshots for %s. Use 'tramit --db <path> extract' to record one.\n", c.URL)
		return nil
	}

	for _, s := range snaps {
		result := fmt.Sprintf("ok %d", s.StatusCode)
		hash := s.ContentHash
		if !s.Success {
			result, hash = "failed", s.Error
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n", s.FetchedAt.Format(time.RFC3339), s.ID, result, hash)
	}

	return nil
}
