package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"maso-hq/masolint/pkg/cli"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "masolint",
	Short: "Masolint - validator for MASO workload documents",
	Long: `Masolint validates MASO workload documents: JSON files describing the
processes of a scheduling simulation in regular or burst mode.

It can be used as:
  - a one-shot linter for files, directories and Git repositories
  - a watcher that revalidates documents as they change
  - an HTTP service holding the diagnostics of open documents`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, cli.ErrValidationFailed) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return cli.ExitCode(err)
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "masolint.yaml", "config file path (missing file means defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
