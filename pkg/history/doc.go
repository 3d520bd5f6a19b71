// Package history records validation runs in SQLite.
//
// Every committed validation (from the workspace, the CLI or the HTTP API)
// can be stored as a Run: the document URI, what triggered it, a hash of the
// validated text, the dispatched mode and the resulting diagnostics. Runs
// are kept for a configurable number of days; a Pruner deletes older runs
// on a cron schedule.
//
// Two database/sql drivers are supported:
//
//   - "sqlite" (modernc.org/sqlite), pure Go, the default
//   - "sqlite3" (github.com/mattn/go-sqlite3), requires cgo
//
// Basic usage:
//
//	store, err := history.Open(cfg.History, logger)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	run := history.NewRun(uri, history.TriggerCLI, text, result)
//	if err := store.Record(ctx, run); err != nil {
//	    return err
//	}
package history
