package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"maso-hq/masolint/pkg/config"
	"maso-hq/masolint/pkg/history"
)

// FileWatcher keeps a Workspace in sync with MASO files on disk. Writes
// and creates revalidate the file after a per-file quiet period; removes
// and renames close it.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	workspace *Workspace
	config    config.WatchConfig
	files     config.FilesConfig
	debounce  *Debouncer
	logger    *slog.Logger

	// only is set when a single file is watched.
	only string

	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewFileWatcher creates a watcher feeding ws. Extension matching uses
// the workspace's extensions.
func NewFileWatcher(ws *Workspace, cfg config.WatchConfig, logger *slog.Logger) (*FileWatcher, error) {
	if cfg.Path == "" {
		cfg.Path = config.DefaultWatchPath
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = config.DefaultWatchDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		watcher:   watcher,
		workspace: ws,
		config:    cfg,
		files:     ws.extensions,
		debounce:  NewDebouncer(cfg.Debounce),
		logger:    logger.With("component", "workspace.watcher"),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}, nil
}

// Scan validates every matching file under the watch path once, with the
// open trigger. It returns the files it validated.
func (fw *FileWatcher) Scan(ctx context.Context) ([]string, error) {
	paths, err := FindFiles(fw.config.Path, fw.files, fw.config.SkipHidden)
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			fw.logger.Warn("failed to read file", "path", path, "error", err)
			continue
		}
		if err := fw.workspace.Open(ctx, path, string(data)); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// Watch processes file events until ctx is cancelled or Stop is called.
func (fw *FileWatcher) Watch(ctx context.Context) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return errors.New("watcher already running")
	}
	fw.running = true
	fw.mu.Unlock()

	defer func() {
		fw.mu.Lock()
		fw.running = false
		fw.mu.Unlock()
		close(fw.doneCh)
	}()

	if err := fw.addPath(fw.config.Path); err != nil {
		return fmt.Errorf("failed to watch path: %w", err)
	}

	fw.logger.Info("file watcher started",
		"path", fw.config.Path,
		"debounce_ms", fw.config.Debounce.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("file watcher stopped (context cancelled)")
			return nil

		case <-fw.stopCh:
			fw.logger.Info("file watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			fw.handleEvent(ctx, event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

// Running reports whether Watch is processing events.
func (fw *FileWatcher) Running() bool {
	fw.mu.RLock()
	defer fw.mu.RUnlock()
	return fw.running
}

// Stop stops the watcher and cancels pending revalidations.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	running := fw.running
	fw.mu.Unlock()

	if running {
		close(fw.stopCh)
		<-fw.doneCh
	}

	fw.debounce.Stop()
	if err := fw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

func (fw *FileWatcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !(fw.config.SkipHidden && isHidden(path)) {
				if err := fw.addDirectory(path); err != nil {
					fw.logger.Warn("failed to watch new directory", "path", path, "error", err)
				}
			}
			return
		}
	}

	if !fw.shouldProcessEvent(path, event) {
		return
	}

	fw.logger.Debug("file event detected", "path", path, "op", event.Op.String())

	fw.debounce.Trigger(path, func() {
		fw.sync(ctx, path)
	})
}

// sync revalidates path, or closes it if it no longer exists.
func (fw *FileWatcher) sync(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		fw.workspace.Close(path)
		return
	}
	if err != nil {
		fw.logger.Warn("failed to read file", "path", path, "error", err)
		return
	}
	if err := fw.workspace.Sync(ctx, path, string(data), history.TriggerWatch); err != nil {
		fw.logger.Debug("revalidation skipped", "path", path, "error", err)
	}
}

func (fw *FileWatcher) shouldProcessEvent(path string, event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if fw.only != "" && path != fw.only {
		return false
	}
	if !fw.files.Matches(path) {
		return false
	}
	if fw.config.SkipHidden && isHidden(path) {
		return false
	}
	return true
}

func (fw *FileWatcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fw.addDirectory(path)
	}
	// Editors often replace files by rename, which drops a watch on the
	// file itself, so watch its directory instead.
	fw.only = filepath.Clean(path)
	return fw.watcher.Add(filepath.Dir(path))
}

func (fw *FileWatcher) addDirectory(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if fw.config.SkipHidden && isHidden(path) && path != dir {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		fw.logger.Debug("watching directory", "path", path)
		return nil
	})
}
