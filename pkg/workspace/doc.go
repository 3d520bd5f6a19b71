// Package workspace hosts the validator for a set of open documents.
//
// A Workspace stores the latest diagnostics per document URI and
// revalidates a document whenever it is opened, changed, focused or
// validated by hand. Each run is a full re-check of the current text. When
// runs for the same URI overlap, only the newest one's result is kept.
//
// Results are cached by content hash, committed runs can be recorded to
// history, and every run is traced and counted in metrics.
//
// FileWatcher drives a Workspace from the file system:
//
//	ws := workspace.New(workspace.WithLogger(logger))
//	fw, err := workspace.NewFileWatcher(ws, cfg.Watch, logger)
//	if err != nil {
//	    return err
//	}
//	defer fw.Stop()
//	if _, err := fw.Scan(ctx); err != nil {
//	    return err
//	}
//	return fw.Watch(ctx)
package workspace
