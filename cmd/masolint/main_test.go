package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"maso-hq/masolint/pkg/cli"
	"maso-hq/masolint/pkg/history"
)

// runCommand executes the root command with fresh flag values and returns
// its output.
func runCommand(t *testing.T, cfg string, args ...string) (string, error) {
	t.Helper()

	verbose = false
	validateFlags = struct {
		dir      string
		repo     string
		branch   string
		format   string
		locator  string
		strict   bool
		progress bool
		jobs     int
	}{format: "text", jobs: 2}
	historyFlags = struct {
		uri       string
		since     string
		limit     int
		format    string
		olderThan string
	}{limit: history.DefaultListLimit, format: "text"}
	serveFlags = struct {
		listenAddress string
		watchPath     string
		repo          string
		branch        string
		dryRun        bool
	}{}

	if cfg == "" {
		cfg = filepath.Join(t.TempDir(), "missing.yaml")
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

// writeConfig writes a config file enabling history in a temporary
// directory, plus any extra YAML.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	body := "history:\n  enabled: true\n  path: " + filepath.ToSlash(filepath.Join(dir, "history.db")) + "\n" + extra
	path := filepath.Join(dir, "masolint.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateValidFile(t *testing.T) {
	out, err := runCommand(t, "", "validate", "testdata/valid.maso")
	if err != nil {
		t.Fatalf("validate valid.maso returned error: %v", err)
	}
	if !strings.Contains(out, "✓ Valid") {
		t.Errorf("output missing success mark:\n%s", out)
	}
}

func TestValidateInvalidFile(t *testing.T) {
	out, err := runCommand(t, "", "validate", "testdata/invalid.maso")
	if !errors.Is(err, cli.ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed", err)
	}
	if got := cli.ExitCode(err); got != cli.ExitValidation {
		t.Errorf("ExitCode() = %d, want %d", got, cli.ExitValidation)
	}
	if !strings.Contains(out, "invalid_mode") {
		t.Errorf("output missing invalid_mode diagnostic:\n%s", out)
	}
}

func TestValidateUnreadableFile(t *testing.T) {
	_, err := runCommand(t, "", "validate", "testdata/nonexistent.maso")
	if err == nil {
		t.Fatal("validate of a missing file should fail")
	}
	if got := cli.ExitCode(err); got != cli.ExitFailure {
		t.Errorf("ExitCode() = %d, want %d", got, cli.ExitFailure)
	}
}

func TestValidateUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no documents", []string{"validate"}},
		{"unknown format", []string{"validate", "--format", "xml", "testdata/valid.maso"}},
		{"unknown locator", []string{"validate", "--locator", "fuzzy", "testdata/valid.maso"}},
		{"empty directory", []string{"validate", "--dir", "testdata/empty"}},
	}

	if err := os.MkdirAll("testdata/empty", 0o755); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Remove("testdata/empty") })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, "", tt.args...)
			if got := cli.ExitCode(err); got != cli.ExitFailure {
				t.Errorf("ExitCode(%v) = %d, want %d", err, got, cli.ExitFailure)
			}
		})
	}
}

func TestValidateDirectoryJSON(t *testing.T) {
	out, err := runCommand(t, "", "validate", "--dir", "testdata", "--format", "json")
	if !errors.Is(err, cli.ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed", err)
	}

	var report cli.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not a JSON report: %v\n%s", err, out)
	}
	if report.Summary.Files != 3 {
		t.Errorf("Summary.Files = %d, want 3", report.Summary.Files)
	}
	if report.Summary.Invalid != 2 {
		t.Errorf("Summary.Invalid = %d, want 2", report.Summary.Invalid)
	}
}

func TestValidateStrict(t *testing.T) {
	cfg := writeConfig(t, "validation:\n  severity:\n    duplicate_id: warning\n")

	if _, err := runCommand(t, cfg, "validate", "testdata/duplicate.maso"); err != nil {
		t.Errorf("warnings alone should pass without --strict, got %v", err)
	}

	_, err := runCommand(t, cfg, "validate", "--strict", "testdata/duplicate.maso")
	if !errors.Is(err, cli.ErrValidationFailed) {
		t.Errorf("err = %v, want ErrValidationFailed with --strict", err)
	}
}

func TestValidateRepository(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile("testdata/invalid.maso")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "workloads"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "workloads", "batch.maso"), data, 0o644); err != nil {
		t.Fatal(err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatal(err)
	}
	if _, err := wt.Commit("add workload", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	}); err != nil {
		t.Fatal(err)
	}
	head, err := repo.Head()
	if err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "", "validate", "--repo", dir, "--branch", head.Name().Short(), "--format", "csv")
	if !errors.Is(err, cli.ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed\n%s", err, out)
	}
	if !strings.Contains(out, "workloads/batch.maso") {
		t.Errorf("output should name the repository-relative path:\n%s", out)
	}
}

func TestHistoryRecordsAndLists(t *testing.T) {
	cfg := writeConfig(t, "")

	if _, err := runCommand(t, cfg, "validate", "testdata/valid.maso", "testdata/invalid.maso"); !errors.Is(err, cli.ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed", err)
	}

	out, err := runCommand(t, cfg, "history", "list", "--format", "json")
	if err != nil {
		t.Fatalf("history list returned error: %v", err)
	}
	var runs []history.Run
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	for _, r := range runs {
		if r.Trigger != history.TriggerCLI {
			t.Errorf("run %s trigger = %q, want %q", r.URI, r.Trigger, history.TriggerCLI)
		}
	}

	out, err = runCommand(t, cfg, "history", "list", "--uri", "testdata/invalid.maso")
	if err != nil {
		t.Fatalf("history list --uri returned error: %v", err)
	}
	if !strings.Contains(out, "testdata/invalid.maso") || strings.Contains(out, "testdata/valid.maso") {
		t.Errorf("filtered listing is wrong:\n%s", out)
	}

	out, err = runCommand(t, cfg, "history", "prune", "--older-than", "1d")
	if err != nil {
		t.Fatalf("history prune returned error: %v", err)
	}
	if !strings.Contains(out, "Deleted 0 run(s)") {
		t.Errorf("recent runs should survive pruning:\n%s", out)
	}
}

func TestHistoryDisabled(t *testing.T) {
	_, err := runCommand(t, "", "history", "list")
	var cfgErr *cli.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("err = %v, want ConfigError", err)
	}
	if got := cli.ExitCode(err); got != cli.ExitFailure {
		t.Errorf("ExitCode() = %d, want %d", got, cli.ExitFailure)
	}
}

func TestServeDryRun(t *testing.T) {
	out, err := runCommand(t, "", "serve", "--dry-run", "--listen", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("serve --dry-run returned error: %v", err)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Errorf("output = %q", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "", "version")
	if err != nil {
		t.Fatalf("version returned error: %v", err)
	}
	if !strings.Contains(out, "masolint "+Version) {
		t.Errorf("output missing version:\n%s", out)
	}
}

func TestParseDurationFlag(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "90s", want: 90 * time.Second},
		{in: "2h", want: 2 * time.Hour},
		{in: "7d", want: 7 * 24 * time.Hour},
		{in: "d", wantErr: true},
		{in: "xd", wantErr: true},
		{in: "-1h", wantErr: true},
		{in: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDurationFlag(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDurationFlag(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseDurationFlag(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
