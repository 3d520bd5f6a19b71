package workspace

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"maso-hq/masolint/pkg/config"
	"maso-hq/masolint/pkg/history"
	"maso-hq/masolint/pkg/maso/ast"
	"maso-hq/masolint/pkg/maso/diagnostic"
	"maso-hq/masolint/pkg/maso/validator"
	"maso-hq/masolint/pkg/telemetry/logging"
	"maso-hq/masolint/pkg/telemetry/metrics"
	"maso-hq/masolint/pkg/telemetry/tracing"
)

// ErrNotMasoFile is returned by ValidateCommand for documents that are not
// MASO files. Its text is shown to the user as a warning.
var ErrNotMasoFile = errors.New("Please open a .maso file to validate.")

// MessageValidationCompleted is the notice shown after a manual validation.
const MessageValidationCompleted = "MASO file validation completed!"

// Notice is an informational message for the user.
type Notice struct {
	Message string `json:"message"`
}

// Entry is the committed validation state of one document.
type Entry struct {
	URI         string                  `json:"uri"`
	Diagnostics []diagnostic.Diagnostic `json:"diagnostics"`
	Mode        ast.Mode                `json:"mode,omitempty"`
	Trigger     history.Trigger         `json:"trigger"`
	ContentHash string                  `json:"content_hash"`
	Generation  uint64                  `json:"generation"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// Summary counts the entry's diagnostics by severity.
func (e Entry) Summary() diagnostic.Summary {
	return diagnostic.Summarize(e.Diagnostics)
}

// Workspace holds the latest diagnostics for each open document and
// revalidates documents on open, change, focus and manual triggers. It
// is safe for concurrent use.
//
// Every run takes a generation number when it starts. A finished run is
// committed only if no newer run for the same URI has started since, and
// the URI has not been closed in the meantime.
type Workspace struct {
	validator  *validator.Validator
	extensions config.FilesConfig
	cache      *ResultCache
	recorder   history.Recorder
	metrics    *metrics.Collector
	tracer     *tracing.Tracer
	logger     *slog.Logger
	onCommit   []func(Entry)

	mu         sync.Mutex
	generation uint64
	latest     map[string]uint64
	entries    map[string]Entry
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithValidator sets the validator. The default uses text location and
// reports every violation as an error.
func WithValidator(v *validator.Validator) Option {
	return func(w *Workspace) { w.validator = v }
}

// WithExtensions sets the file extensions treated as MASO documents.
func WithExtensions(extensions []string) Option {
	return func(w *Workspace) { w.extensions = config.FilesConfig{Extensions: extensions} }
}

// WithCache enables the result cache.
func WithCache(c *ResultCache) Option {
	return func(w *Workspace) { w.cache = c }
}

// WithRecorder records every committed run.
func WithRecorder(r history.Recorder) Option {
	return func(w *Workspace) { w.recorder = r }
}

// WithMetrics sets the metrics collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(w *Workspace) { w.metrics = c }
}

// WithTracer sets the tracer.
func WithTracer(t *tracing.Tracer) Option {
	return func(w *Workspace) { w.tracer = t }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Workspace) { w.logger = l }
}

// WithCommitHook registers fn to be called after each committed run. Hooks
// run synchronously on the validating goroutine.
func WithCommitHook(fn func(Entry)) Option {
	return func(w *Workspace) { w.onCommit = append(w.onCommit, fn) }
}

// New creates an empty workspace.
func New(opts ...Option) *Workspace {
	w := &Workspace{
		extensions: config.FilesConfig{Extensions: config.DefaultExtensions()},
		latest:     make(map[string]uint64),
		entries:    make(map[string]Entry),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.validator == nil {
		w.validator = validator.NewValidator()
	}
	if w.metrics == nil {
		w.metrics = metrics.Disabled()
	}
	if w.tracer == nil {
		w.tracer = tracing.Disabled()
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	w.logger = w.logger.With("component", "workspace")
	return w
}

// IsMasoFile reports whether uri has one of the workspace's extensions.
func (w *Workspace) IsMasoFile(uri string) bool {
	return w.extensions.Matches(uri)
}

// Open validates a newly opened document.
func (w *Workspace) Open(ctx context.Context, uri, text string) error {
	return w.trigger(ctx, uri, text, history.TriggerOpen)
}

// Change validates a document whose text changed.
func (w *Workspace) Change(ctx context.Context, uri, text string) error {
	return w.trigger(ctx, uri, text, history.TriggerChange)
}

// Focus validates a document that became the active one.
func (w *Workspace) Focus(ctx context.Context, uri, text string) error {
	return w.trigger(ctx, uri, text, history.TriggerFocus)
}

// Sync validates uri with an arbitrary trigger, e.g. watch or git.
func (w *Workspace) Sync(ctx context.Context, uri, text string, trigger history.Trigger) error {
	return w.trigger(ctx, uri, text, trigger)
}

func (w *Workspace) trigger(ctx context.Context, uri, text string, trigger history.Trigger) error {
	if !w.IsMasoFile(uri) {
		return nil
	}
	_, _, err := w.Validate(ctx, uri, text, trigger)
	return err
}

// ValidateCommand is the manual validation trigger. Documents that are not
// MASO files yield ErrNotMasoFile.
func (w *Workspace) ValidateCommand(ctx context.Context, uri, text string) (Notice, error) {
	if !w.IsMasoFile(uri) {
		return Notice{}, ErrNotMasoFile
	}
	if _, _, err := w.Validate(ctx, uri, text, history.TriggerCommand); err != nil {
		return Notice{}, err
	}
	return Notice{Message: MessageValidationCompleted}, nil
}

// Validate runs the validator on text and commits the result for uri.
// It returns the entry and whether it was committed; a run superseded by
// a newer one, or whose document was closed, is discarded. Extension
// matching is left to the caller.
func (w *Workspace) Validate(ctx context.Context, uri, text string, trigger history.Trigger) (Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, false, err
	}

	gen := w.begin(uri)

	ctx = logging.WithDocument(ctx, uri)
	ctx, span := w.tracer.Start(ctx, "workspace.validate")
	defer span.End()
	tracing.SetDocumentAttributes(span, uri, string(trigger))

	start := time.Now()
	result, hit := w.cache.Get(text)
	if !hit {
		result = w.validator.Run(text)
		w.cache.Add(text, result)
	}
	duration := time.Since(start)

	summary := diagnostic.Summarize(result.Diagnostics)
	tracing.SetResultAttributes(span, string(result.Mode), summary.Errors, summary.Warnings, hit)

	entry := Entry{
		URI:         uri,
		Diagnostics: result.Diagnostics,
		Mode:        result.Mode,
		Trigger:     trigger,
		ContentHash: history.HashContent(text),
		Generation:  gen,
		UpdatedAt:   time.Now().UTC(),
	}

	open, committed := w.commit(entry)
	if !committed {
		w.metrics.RecordStaleRun()
		w.logger.DebugContext(ctx, "discarded stale validation run",
			"trigger", trigger,
			"generation", gen,
		)
		return entry, false, nil
	}

	w.metrics.SetOpenDocuments(open)
	w.metrics.RecordValidation(string(trigger), string(result.Mode), summary.Errors, summary.Warnings, duration)
	for _, d := range result.Diagnostics {
		w.metrics.RecordDiagnostic(string(d.Severity), string(d.Kind))
	}

	w.logger.DebugContext(ctx, "validated document",
		"trigger", trigger,
		"mode", result.Mode,
		"errors", summary.Errors,
		"warnings", summary.Warnings,
		"cache_hit", hit,
		"duration_ms", duration.Milliseconds(),
	)

	if w.recorder != nil {
		run := history.NewRun(uri, trigger, text, result)
		run.Duration = duration
		err := w.recorder.Record(ctx, run)
		w.metrics.RecordHistoryWrite(err)
		if err != nil {
			w.logger.WarnContext(ctx, "failed to record validation run", "error", err)
		}
	}

	for _, fn := range w.onCommit {
		fn(entry)
	}

	return entry, true, nil
}

func (w *Workspace) begin(uri string) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.generation++
	w.latest[uri] = w.generation
	return w.generation
}

// commit stores entry if its generation is still the latest begun for its
// URI. It returns the number of open documents and whether it committed.
func (w *Workspace) commit(entry Entry) (int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if latest, ok := w.latest[entry.URI]; !ok || latest != entry.Generation {
		return len(w.entries), false
	}
	w.entries[entry.URI] = entry
	return len(w.entries), true
}

// Close forgets uri. Runs still in flight for it are discarded when they
// finish.
func (w *Workspace) Close(uri string) {
	w.mu.Lock()
	_, existed := w.entries[uri]
	delete(w.entries, uri)
	delete(w.latest, uri)
	open := len(w.entries)
	w.mu.Unlock()

	w.metrics.SetOpenDocuments(open)
	if existed {
		w.logger.Debug("closed document", "document", uri)
	}
}

// Get returns the committed entry for uri.
func (w *Workspace) Get(uri string) (Entry, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	entry, ok := w.entries[uri]
	if ok {
		entry.Diagnostics = diagnostic.Clone(entry.Diagnostics)
	}
	return entry, ok
}

// Diagnostics returns the latest diagnostics for uri, or nil if it has
// none.
func (w *Workspace) Diagnostics(uri string) []diagnostic.Diagnostic {
	entry, ok := w.Get(uri)
	if !ok {
		return nil
	}
	return entry.Diagnostics
}

// URIs returns the documents with committed results, sorted.
func (w *Workspace) URIs() []string {
	w.mu.Lock()
	uris := make([]string, 0, len(w.entries))
	for uri := range w.entries {
		uris = append(uris, uri)
	}
	w.mu.Unlock()
	sort.Strings(uris)
	return uris
}

// Len returns the number of documents with committed results.
func (w *Workspace) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}
