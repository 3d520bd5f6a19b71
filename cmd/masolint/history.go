package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"maso-hq/masolint/pkg/cli"
	"maso-hq/masolint/pkg/config"
	"maso-hq/masolint/pkg/history"
)

var historyFlags struct {
	uri       string
	since     string
	limit     int
	format    string
	olderThan string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and prune recorded validation runs",
	Long: `Inspect and prune the validation runs recorded in the history database.

History must be enabled in the configuration (history.enabled: true).`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded validation runs",
	Long: `List recorded validation runs, newest first.

Examples:
  # Last 20 runs
  masolint history list --limit 20

  # Runs of one document during the last day, as JSON
  masolint history list --uri workloads/batch.maso --since 24h --format json`,
	RunE: listHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old validation runs",
	Long: `Delete validation runs older than the retention period.

Examples:
  # Apply history.retention_days from the config
  masolint history prune

  # Delete runs older than a week
  masolint history prune --older-than 7d`,
	RunE: pruneHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyPruneCmd)

	historyListCmd.Flags().StringVar(&historyFlags.uri, "uri", "", "only runs of this document")
	historyListCmd.Flags().StringVar(&historyFlags.since, "since", "", "only runs newer than this age (e.g. 24h, 7d)")
	historyListCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", history.DefaultListLimit, "maximum number of runs")
	historyListCmd.Flags().StringVarP(&historyFlags.format, "format", "f", "text", "output format (text, json)")

	historyPruneCmd.Flags().StringVar(&historyFlags.olderThan, "older-than", "", "override the retention period (e.g. 7d)")
}

func listHistory(cmd *cobra.Command, args []string) error {
	age, err := optionalDuration(historyFlags.since)
	if err != nil {
		return cli.NewCommandError("history list", err)
	}
	format, err := cli.ParseOutputFormat(historyFlags.format)
	if err != nil || format == cli.FormatCSV {
		return cli.NewCommandError("history list", fmt.Errorf("unsupported format %q (valid: text, json)", historyFlags.format))
	}

	a, err := newApp(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer a.close()

	store, err := a.requireHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	q := history.Query{URI: historyFlags.uri, Limit: historyFlags.limit}
	if age > 0 {
		q.Since = time.Now().Add(-age)
	}
	runs, err := store.List(cmd.Context(), q)
	if err != nil {
		return cli.NewCommandError("history list", err)
	}

	out := cmd.OutOrStdout()
	if format == cli.FormatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tURI\tTRIGGER\tMODE\tERRORS\tWARNINGS\tID")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			r.CreatedAt.Local().Format(time.DateTime), r.URI, r.Trigger, r.Mode, r.ErrorCount, r.WarningCount, r.ID)
	}
	return tw.Flush()
}

func pruneHistory(cmd *cobra.Command, args []string) error {
	olderThan, err := optionalDuration(historyFlags.olderThan)
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}

	a, err := newApp(cmd.Context(), func(cfg *config.Config) {
		if olderThan > 0 {
			cfg.History.RetentionDays = max(int(olderThan/(24*time.Hour)), 1)
		}
	})
	if err != nil {
		return err
	}
	defer a.close()

	store, err := a.requireHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	pruner := history.NewPruner(store, a.cfg.History, a.metrics, a.logger)
	deleted, err := pruner.Prune(cmd.Context())
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d run(s) older than %s\n", deleted, pruner.Cutoff().Local().Format(time.DateTime))
	return nil
}
