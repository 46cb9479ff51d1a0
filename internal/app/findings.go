package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/blackwell-systems/dirwatcher/internal/output"
	"github.com/blackwell-systems/dirwatcher/internal/store"
	"github.com/spf13/cobra"
)

var (
	findingsPath   string
	findingsLimit  int
	findingsSince  time.Duration
	findingsEvents bool

	findingsCmd = &cobra.Command{
		Use:   "findings",
		Short: "Show findings recorded in the SQLite journal",
		Long: `Print the findings a watcher started with --db has recorded.

Findings are listed oldest first. With --limit only the newest N are shown.
With --events the watch list history (files added and removed) is printed
instead.`,
		Example: `  # Everything in the journal
  dirwatcher findings --db ~/.dirwatcher/findings.db

  # The last 20 findings for one file
  dirwatcher findings --db findings.db --path /srv/inbox/report.txt --limit 20

  # Findings from the last hour
  dirwatcher findings --db findings.db --since 1h

  # Watch list history
  dirwatcher findings --db findings.db --events`,
		Args: cobra.NoArgs,
		RunE: runFindings,
	}
)

func init() {
	findingsCmd.Flags().StringVar(&findingsPath, "path", "", "only show findings for this file path (file name with --events)")
	findingsCmd.Flags().IntVar(&findingsLimit, "limit", 0, "only show the newest N findings (0 = all)")
	findingsCmd.Flags().DurationVar(&findingsSince, "since", 0, "only show findings newer than this (e.g. 30m, 24h)")
	findingsCmd.Flags().BoolVar(&findingsEvents, "events", false, "show watch list changes instead of findings")
}

func runFindings(cmd *cobra.Command, args []string) error {
	if globals.dbPath == "" {
		return errors.New("--db is required")
	}
	if findingsLimit < 0 {
		return fmt.Errorf("--limit must not be negative, got %d", findingsLimit)
	}
	if _, err := os.Stat(globals.dbPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no findings journal at %s", globals.dbPath)
		}
		return fmt.Errorf("failed to access database: %w", err)
	}

	st, err := store.New(globals.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	out := cmd.OutOrStdout()

	if findingsEvents {
		events, err := st.ListWatchEvents(findingsPath)
		if err != nil {
			return err
		}
		fmt.Fprint(out, output.RenderWatchEventsTable(events))
		return nil
	}

	filter := store.FindingFilter{
		Path:  findingsPath,
		Limit: findingsLimit,
	}
	if findingsSince > 0 {
		filter.Since = time.Now().Add(-findingsSince)
	}

	findings, err := st.ListFindings(filter)
	if err != nil {
		return err
	}
	fmt.Fprint(out, output.RenderFindingsTable(findings))
	return nil
}
