package gitsource

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"maso-hq/masolint/pkg/history"
	"maso-hq/masolint/pkg/telemetry/logging"
	"maso-hq/masolint/pkg/workspace"
)

func newWorkspace() *workspace.Workspace {
	return workspace.New(workspace.WithLogger(logging.Discard()))
}

func TestPoller_SyncAll(t *testing.T) {
	o := newOrigin(t)
	o.write("a.maso", validDoc)
	o.write("b.maso", invalidDoc)
	sha := o.commit("add documents")

	repo := cloneOrigin(t, o, "")
	ws := newWorkspace()
	poller := NewPoller(repo, ws, time.Hour, logging.Discard())

	files, err := poller.SyncAll(context.Background())
	if err != nil {
		t.Fatalf("SyncAll() error = %v", err)
	}
	if len(files) != 2 || ws.Len() != 2 {
		t.Fatalf("SyncAll() synced %d files, workspace has %d", len(files), ws.Len())
	}

	entry, ok := ws.Get(filepath.Join(repo.LocalPath(), "b.maso"))
	if !ok {
		t.Fatal("b.maso not in workspace")
	}
	if entry.Trigger != history.TriggerGit {
		t.Errorf("Trigger = %q, want %q", entry.Trigger, history.TriggerGit)
	}
	if len(entry.Diagnostics) == 0 {
		t.Error("b.maso should have diagnostics")
	}
	if poller.LastCommitSHA() != sha {
		t.Errorf("LastCommitSHA() = %s, want %s", poller.LastCommitSHA(), sha)
	}
}

func TestPoller_PollAppliesChanges(t *testing.T) {
	o := newOrigin(t)
	o.write("a.maso", validDoc)
	o.write("b.maso", validDoc)
	o.commit("add documents")

	repo := cloneOrigin(t, o, "")
	ws := newWorkspace()
	poller := NewPoller(repo, ws, time.Hour, logging.Discard())
	if _, err := poller.SyncAll(context.Background()); err != nil {
		t.Fatalf("SyncAll() error = %v", err)
	}

	n, err := poller.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Poll() without new commits applied %d documents", n)
	}

	o.write("a.maso", invalidDoc)
	o.remove("b.maso")
	o.write("README.md", "changed")
	sha := o.commit("break a, drop b")

	n, err = poller.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Poll() applied %d documents, want 2", n)
	}

	a := filepath.Join(repo.LocalPath(), "a.maso")
	if diags := ws.Diagnostics(a); len(diags) == 0 {
		t.Error("a.maso should have diagnostics after the pull")
	}
	if _, ok := ws.Get(filepath.Join(repo.LocalPath(), "b.maso")); ok {
		t.Error("b.maso should be closed after deletion")
	}
	if poller.LastCommitSHA() != sha {
		t.Errorf("LastCommitSHA() = %s, want %s", poller.LastCommitSHA(), sha)
	}
	if poller.PollCount() != 2 {
		t.Errorf("PollCount() = %d, want 2", poller.PollCount())
	}
}

func TestPoller_StartStop(t *testing.T) {
	o := newOrigin(t)
	o.write("a.maso", validDoc)
	o.commit("add a")

	repo := cloneOrigin(t, o, "")
	ws := newWorkspace()
	poller := NewPoller(repo, ws, 20*time.Millisecond, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := poller.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !poller.Running() {
		t.Error("Running() = false after Start()")
	}
	if err := poller.Start(ctx); err == nil {
		t.Error("second Start() should fail")
	}

	o.write("a.maso", invalidDoc)
	o.commit("break a")

	a := filepath.Join(repo.LocalPath(), "a.maso")
	deadline := time.Now().Add(5 * time.Second)
	for len(ws.Diagnostics(a)) == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if len(ws.Diagnostics(a)) == 0 {
		t.Error("background poll did not pick up the change")
	}

	poller.Stop()
	if poller.Running() {
		t.Error("Running() = true after Stop()")
	}
}
