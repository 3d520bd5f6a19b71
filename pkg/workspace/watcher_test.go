package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maso-hq/masolint/pkg/config"
	"maso-hq/masolint/pkg/history"
	"maso-hq/masolint/pkg/telemetry/logging"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.maso"), validDoc)
	writeFile(t, filepath.Join(dir, "sub", "B.MASO"), validDoc)
	writeFile(t, filepath.Join(dir, "notes.txt"), "x")
	writeFile(t, filepath.Join(dir, ".hidden", "c.maso"), validDoc)
	writeFile(t, filepath.Join(dir, ".d.maso"), validDoc)

	files := config.FilesConfig{Extensions: []string{".maso"}}

	found, err := FindFiles(dir, files, true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.maso"),
		filepath.Join(dir, "sub", "B.MASO"),
	}, found)

	found, err = FindFiles(dir, files, false)
	require.NoError(t, err)
	assert.Len(t, found, 4)

	found, err = FindFiles(filepath.Join(dir, "a.maso"), files, true)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.maso")}, found)

	found, err = FindFiles(filepath.Join(dir, "notes.txt"), files, true)
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = FindFiles(filepath.Join(dir, "missing"), files, true)
	assert.Error(t, err)
}

func startWatcher(t *testing.T, ws *Workspace, path string) *FileWatcher {
	t.Helper()
	fw, err := NewFileWatcher(ws, config.WatchConfig{
		Path:       path,
		Debounce:   20 * time.Millisecond,
		SkipHidden: true,
	}, logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fw.Watch(ctx) }()

	require.Eventually(t, fw.Running, time.Second, 5*time.Millisecond)
	t.Cleanup(func() {
		cancel()
		<-done
		fw.Stop()
	})
	return fw
}

func TestFileWatcher_Scan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.maso"), invalidDoc)
	writeFile(t, filepath.Join(dir, "b.maso"), validDoc)

	ws := newTestWorkspace()
	fw, err := NewFileWatcher(ws, config.WatchConfig{Path: dir, SkipHidden: true}, logging.Discard())
	require.NoError(t, err)
	defer fw.Stop()

	paths, err := fw.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, paths, 2)
	assert.Equal(t, 2, ws.Len())

	entry, ok := ws.Get(filepath.Join(dir, "a.maso"))
	require.True(t, ok)
	assert.Equal(t, history.TriggerOpen, entry.Trigger)
	assert.NotEmpty(t, entry.Diagnostics)
}

func TestFileWatcher_WriteRevalidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.maso")
	writeFile(t, path, validDoc)

	ws := newTestWorkspace()
	startWatcher(t, ws, dir)

	writeFile(t, path, invalidDoc)

	require.Eventually(t, func() bool {
		entry, ok := ws.Get(path)
		return ok && entry.Trigger == history.TriggerWatch && len(entry.Diagnostics) > 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFileWatcher_NewSubdirectory(t *testing.T) {
	dir := t.TempDir()
	ws := newTestWorkspace()
	startWatcher(t, ws, dir)

	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	// Give the watcher time to add the new directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(sub, "x.maso")
	writeFile(t, path, invalidDoc)

	require.Eventually(t, func() bool {
		_, ok := ws.Get(path)
		return ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFileWatcher_RemoveCloses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.maso")
	writeFile(t, path, invalidDoc)

	ws := newTestWorkspace()
	require.NoError(t, ws.Open(context.Background(), path, invalidDoc))
	startWatcher(t, ws, dir)

	require.NoError(t, os.Remove(path))

	require.Eventually(t, func() bool {
		_, ok := ws.Get(path)
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	ws := newTestWorkspace()
	startWatcher(t, ws, dir)

	writeFile(t, filepath.Join(dir, "notes.txt"), invalidDoc)
	writeFile(t, filepath.Join(dir, ".hidden.maso"), invalidDoc)

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 0, ws.Len())
}

func TestFileWatcher_SingleFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a.maso")
	other := filepath.Join(dir, "b.maso")
	writeFile(t, target, validDoc)

	ws := newTestWorkspace()
	startWatcher(t, ws, target)

	writeFile(t, other, invalidDoc)
	writeFile(t, target, invalidDoc)

	require.Eventually(t, func() bool {
		_, ok := ws.Get(target)
		return ok
	}, 2*time.Second, 10*time.Millisecond)
	_, ok := ws.Get(other)
	assert.False(t, ok)
}

func TestFileWatcher_AlreadyRunning(t *testing.T) {
	dir := t.TempDir()
	ws := newTestWorkspace()
	fw := startWatcher(t, ws, dir)

	err := fw.Watch(context.Background())
	assert.Error(t, err)
}
