package history

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"

	"maso-hq/masolint/pkg/maso/diagnostic"
	"maso-hq/masolint/pkg/maso/validator"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

// Trigger identifies what caused a validation run.
type Trigger string

const (
	TriggerOpen    Trigger = "open"
	TriggerChange  Trigger = "change"
	TriggerFocus   Trigger = "focus"
	TriggerCommand Trigger = "command"
	TriggerWatch   Trigger = "watch"
	TriggerCLI     Trigger = "cli"
	TriggerAPI     Trigger = "api"
	TriggerGit     Trigger = "git"
)

// Run is one recorded validation.
type Run struct {
	ID           string                  `json:"id"`
	URI          string                  `json:"uri"`
	Trigger      Trigger                 `json:"trigger"`
	ContentHash  string                  `json:"content_hash"`
	Mode         string                  `json:"mode,omitempty"`
	Valid        bool                    `json:"valid"`
	ErrorCount   int                     `json:"error_count"`
	WarningCount int                     `json:"warning_count"`
	Diagnostics  []diagnostic.Diagnostic `json:"diagnostics"`
	Duration     time.Duration           `json:"duration_ns"`
	CreatedAt    time.Time               `json:"created_at"`
}

// NewRun builds a run for a validation result. The ID and creation time
// are assigned here.
func NewRun(uri string, trigger Trigger, text string, result validator.Result) *Run {
	summary := diagnostic.Summarize(result.Diagnostics)
	return &Run{
		ID:           uuid.NewString(),
		URI:          uri,
		Trigger:      trigger,
		ContentHash:  HashContent(text),
		Mode:         string(result.Mode),
		Valid:        summary.Errors == 0,
		ErrorCount:   summary.Errors,
		WarningCount: summary.Warnings,
		Diagnostics:  diagnostic.Clone(result.Diagnostics),
		CreatedAt:    time.Now().UTC(),
	}
}

// HashContent returns the hex SHA-256 of text.
func HashContent(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Query filters List results. Zero values mean no filter.
type Query struct {
	URI string

	// Since only returns runs created at or after this time.
	Since time.Time

	// Limit caps the number of runs returned. Zero uses DefaultListLimit.
	Limit int
}

// DefaultListLimit is the number of runs List returns when no limit is set.
const DefaultListLimit = 100

// Recorder stores validation runs.
type Recorder interface {
	Record(ctx context.Context, run *Run) error
}
