package cli

import (
	"maso-hq/masolint/pkg/maso/diagnostic"
	"maso-hq/masolint/pkg/maso/document"
)

// FileReport is the validation outcome for one file.
type FileReport struct {
	File        string                  `json:"file"`
	Valid       bool                    `json:"valid"`
	Summary     diagnostic.Summary      `json:"summary"`
	Diagnostics []diagnostic.Diagnostic `json:"diagnostics"`

	// Error is set when the file could not be read.
	Error string `json:"error,omitempty"`

	lines document.Lines
}

// NewFileReport builds the report for a validated file. text is kept so
// text output can show the offending lines.
func NewFileReport(file, text string, diags []diagnostic.Diagnostic) FileReport {
	if diags == nil {
		diags = []diagnostic.Diagnostic{}
	}
	summary := diagnostic.Summarize(diags)
	return FileReport{
		File:        file,
		Valid:       summary.Errors == 0,
		Summary:     summary,
		Diagnostics: diags,
		lines:       document.SplitLines(text),
	}
}

// ReadErrorReport builds the report for a file that could not be read.
func ReadErrorReport(file string, err error) FileReport {
	return FileReport{
		File:        file,
		Diagnostics: []diagnostic.Diagnostic{},
		Error:       err.Error(),
	}
}

// Report aggregates the reports of a validation command.
type Report struct {
	Files   []FileReport `json:"files"`
	Summary Totals       `json:"summary"`
}

// Totals counts files and diagnostics across a report.
type Totals struct {
	Files    int `json:"files"`
	Invalid  int `json:"invalid"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Failures int `json:"failures"`
}

// NewReport aggregates file reports, keeping their order.
func NewReport(files []FileReport) Report {
	r := Report{Files: files}
	for _, f := range files {
		r.Summary.Files++
		r.Summary.Errors += f.Summary.Errors
		r.Summary.Warnings += f.Summary.Warnings
		if f.Error != "" {
			r.Summary.Failures++
		} else if !f.Valid {
			r.Summary.Invalid++
		}
	}
	return r
}

// Failed reports whether the command should exit non-zero. In strict mode
// warnings fail the run too.
func (r Report) Failed(strict bool) bool {
	if r.Summary.Errors > 0 || r.Summary.Failures > 0 {
		return true
	}
	return strict && r.Summary.Warnings > 0
}
