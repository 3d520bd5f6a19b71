package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"maso-hq/masolint/pkg/cli"
	"maso-hq/masolint/pkg/config"
	"maso-hq/masolint/pkg/gitsource"
	"maso-hq/masolint/pkg/history"
	"maso-hq/masolint/pkg/maso/diagnostic"
	"maso-hq/masolint/pkg/workspace"
)

var validateFlags struct {
	dir      string
	repo     string
	branch   string
	format   string
	locator  string
	strict   bool
	progress bool
	jobs     int
}

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate MASO documents",
	Long: `Validate MASO documents and report their diagnostics.

Files may be named directly, collected from a directory (--dir) or taken
from the HEAD of a Git repository (--repo). The command exits with status 1
when any document has errors, or warnings with --strict.

Examples:
  # Validate a single file
  masolint validate workload.maso

  # Validate a directory tree as JSON
  masolint validate --dir workloads --format json

  # Use the structural locator and fail on warnings
  masolint validate --dir workloads --locator structural --strict

  # Validate a branch of a Git repository
  masolint validate --repo https://github.com/company/workloads.git --branch staging`,
	RunE: validateDocuments,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.dir, "dir", "d", "", "validate every document under a directory")
	validateCmd.Flags().StringVar(&validateFlags.repo, "repo", "", "validate the documents of a Git repository")
	validateCmd.Flags().StringVar(&validateFlags.branch, "branch", "", "branch to check out with --repo")
	validateCmd.Flags().StringVarP(&validateFlags.format, "format", "f", "text", "output format (text, json, csv)")
	validateCmd.Flags().StringVar(&validateFlags.locator, "locator", "", "diagnostic locator (text, structural)")
	validateCmd.Flags().BoolVar(&validateFlags.strict, "strict", false, "treat warnings as failures")
	validateCmd.Flags().BoolVar(&validateFlags.progress, "progress", false, "show progress on stderr")
	validateCmd.Flags().IntVarP(&validateFlags.jobs, "jobs", "j", runtime.NumCPU(), "number of files validated in parallel")
}

func validateDocuments(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	format, err := cli.ParseOutputFormat(validateFlags.format)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}
	if len(args) == 0 && validateFlags.dir == "" && validateFlags.repo == "" {
		return cli.NewCommandError("validate", errors.New("no documents given: pass files, --dir or --repo"))
	}

	a, err := newApp(ctx, func(cfg *config.Config) {
		if validateFlags.locator != "" {
			cfg.Validation.Locator = validateFlags.locator
		}
		if validateFlags.repo != "" {
			cfg.Source.Repository = validateFlags.repo
			cfg.Source.LocalPath = ""
		}
		if validateFlags.branch != "" {
			cfg.Source.Branch = validateFlags.branch
		}
	})
	if err != nil {
		return err
	}
	defer a.close()

	files, root, cleanup, err := collectFiles(ctx, a, args)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}
	defer cleanup()
	if len(files) == 0 {
		return cli.NewCommandError("validate", errors.New("no MASO documents found"))
	}

	store, err := a.openHistory()
	if err != nil {
		return cli.NewCommandError("validate", err)
	}
	if store != nil {
		defer store.Close()
	}

	progress := cli.ProgressReporter(cli.NopProgress{})
	if validateFlags.progress {
		progress = cli.NewProgressReporter(os.Stderr)
	}
	progress.Start(int64(len(files)))

	reports := make([]cli.FileReport, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(validateFlags.jobs, 1))
	for i, file := range files {
		g.Go(func() error {
			reports[i] = validateFile(gctx, a, store, file, displayName(root, file))
			progress.Increment()
			return nil
		})
	}
	_ = g.Wait()
	progress.Finish()

	report := cli.NewReport(reports)
	if err := cli.NewFormatter(format).FormatTo(out, report); err != nil {
		return cli.NewCommandError("validate", fmt.Errorf("failed to write report: %w", err))
	}

	if n := report.Summary.Failures; n > 0 {
		return cli.NewCommandError("validate", fmt.Errorf("%d file(s) could not be read", n))
	}
	if report.Failed(validateFlags.strict || a.cfg.Validation.Strict) {
		return cli.NewCommandError("validate", cli.ErrValidationFailed)
	}
	return nil
}

// collectFiles returns the files to validate and the root they are
// reported relative to. cleanup removes a temporary clone.
func collectFiles(ctx context.Context, a *app, args []string) (files []string, root string, cleanup func(), err error) {
	cleanup = func() {}

	if validateFlags.repo != "" {
		repo, err := gitsource.NewRepository(a.cfg.Source, a.cfg.Files, a.logger)
		if err != nil {
			return nil, "", cleanup, err
		}
		cleanup = func() { _ = repo.Close() }
		if err := repo.Clone(ctx); err != nil {
			return nil, "", cleanup, err
		}
		found, err := repo.Files()
		return found, repo.LocalPath(), cleanup, err
	}

	files = append(files, args...)
	if validateFlags.dir != "" {
		found, err := workspace.FindFiles(validateFlags.dir, a.cfg.Files, a.cfg.Watch.SkipHidden)
		if err != nil {
			return nil, "", cleanup, err
		}
		files = append(files, found...)
	}
	return files, "", cleanup, nil
}

// validateFile reads and validates one file. A read failure becomes part
// of the report instead of aborting the command.
func validateFile(ctx context.Context, a *app, store *history.Store, path, name string) cli.FileReport {
	data, err := os.ReadFile(path)
	if err != nil {
		a.logger.Debug("failed to read document", "path", path, "error", err)
		return cli.ReadErrorReport(name, err)
	}
	text := string(data)

	start := time.Now()
	result := a.validator.Run(text)
	duration := time.Since(start)

	summary := diagnostic.Summarize(result.Diagnostics)
	a.metrics.RecordValidation(string(history.TriggerCLI), string(result.Mode), summary.Errors, summary.Warnings, duration)

	if store != nil {
		run := history.NewRun(name, history.TriggerCLI, text, result)
		run.Duration = duration
		err := store.Record(ctx, run)
		a.metrics.RecordHistoryWrite(err)
		if err != nil {
			a.logger.Warn("failed to record validation run", "path", path, "error", err)
		}
	}

	return cli.NewFileReport(name, text, result.Diagnostics)
}

func displayName(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
