package diagnostic

import (
	"fmt"

	"maso-hq/masolint/pkg/maso/ast"
)

// Source identifies diagnostics produced by this package.
const Source = "maso"

// MessageInvalidJSON is reported when a document cannot be parsed.
const MessageInvalidJSON = "Invalid JSON format in MASO file"

// Violation is a finding that has not been anchored to the text yet.
type Violation struct {
	Kind    Kind
	Message string

	// Key is the field name searched for in the text.
	Key string

	// Path is the full path of the offending value.
	Path ast.Path

	Suggestion string
}

// Diagnostic is a located, severity-tagged finding.
type Diagnostic struct {
	Range      ast.Range `json:"range"`
	Severity   Severity  `json:"severity"`
	Message    string    `json:"message"`
	Kind       Kind      `json:"kind"`
	Path       string    `json:"path,omitempty"`
	Source     string    `json:"source"`
	Suggestion string    `json:"suggestion,omitempty"`
}

// String returns "line:col: severity: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Range.Start, d.Severity, d.Message)
}

// Summary counts diagnostics by severity.
type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// Summarize counts diagnostics by severity.
func Summarize(diags []Diagnostic) Summary {
	var s Summary
	for _, d := range diags {
		switch d.Severity {
		case SeverityError:
			s.Errors++
		case SeverityWarning:
			s.Warnings++
		}
	}
	return s
}

// HasErrors returns true if any diagnostic is an error.
func HasErrors(diags []Diagnostic) bool {
	return Summarize(diags).Errors > 0
}

// ByKind returns the diagnostics of the given kind.
func ByKind(diags []Diagnostic, kind Kind) []Diagnostic {
	var result []Diagnostic
	for _, d := range diags {
		if d.Kind == kind {
			result = append(result, d)
		}
	}
	return result
}

// Clone returns a copy of diags that shares no backing array.
func Clone(diags []Diagnostic) []Diagnostic {
	out := make([]Diagnostic, len(diags))
	copy(out, diags)
	return out
}
