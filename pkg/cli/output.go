package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"maso-hq/masolint/pkg/maso/diagnostic"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is human-readable output with source context (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
	// FormatCSV is one CSV row per diagnostic.
	FormatCSV OutputFormat = "csv"
)

// ParseOutputFormat parses a --format flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: text, json, csv)", s)
	}
}

// Formatter writes a validation report.
type Formatter interface {
	FormatTo(w io.Writer, report Report) error
}

// NewFormatter creates a new formatter for the specified format.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatCSV:
		return &CSVFormatter{}
	default:
		return &TextFormatter{ContextLines: 1}
	}
}

// TextFormatter formats output for terminals.
type TextFormatter struct {
	// ContextLines is the number of lines shown around each diagnostic.
	// Negative disables source context.
	ContextLines int
}

// FormatTo writes data to writer in text format.
func (f *TextFormatter) FormatTo(w io.Writer, report Report) error {
	ew := &errWriter{w: w}

	for _, file := range report.Files {
		ew.printf("Validating %s...\n", file.File)

		switch {
		case file.Error != "":
			ew.printf("✗ Error: %s\n", file.Error)
		case len(file.Diagnostics) == 0:
			ew.printf("✓ Valid\n")
		}

		for _, d := range file.Diagnostics {
			mark := "✗"
			if d.Severity == diagnostic.SeverityWarning {
				mark = "⚠ "
			}
			ew.printf("%s %s:%s: %s: %s [%s]\n", mark, file.File, d.Range.Start, d.Severity, d.Message, d.Kind)

			if f.ContextLines >= 0 {
				if ctx := diagnostic.ExtractContext(file.lines, d, f.ContextLines); ctx != "" {
					ew.printf("%s", ctx)
				}
			}
			if d.Suggestion != "" {
				ew.printf("  Suggestion: %s\n", d.Suggestion)
			}
		}

		ew.printf("\n")
	}

	ew.printf("Summary:\n")
	ew.printf("  %d file(s), %d invalid, %d error(s), %d warning(s)\n",
		report.Summary.Files, report.Summary.Invalid, report.Summary.Errors, report.Summary.Warnings)
	if report.Summary.Failures > 0 {
		ew.printf("  %d file(s) could not be read\n", report.Summary.Failures)
	}

	return ew.err
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatTo writes data to writer in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, report Report) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(report)
}

// CSVFormatter writes one row per diagnostic. Lines and columns are
// one-based. Files that could not be read produce a single row with kind
// "read_error".
type CSVFormatter struct{}

// CSVHeaders is the header row written by CSVFormatter.
var CSVHeaders = []string{"file", "line", "column", "severity", "kind", "path", "message"}

// FormatTo writes data to writer in CSV format.
func (f *CSVFormatter) FormatTo(w io.Writer, report Report) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(CSVHeaders); err != nil {
		return err
	}

	for _, file := range report.Files {
		if file.Error != "" {
			if err := csvWriter.Write([]string{file.File, "", "", string(diagnostic.SeverityError), "read_error", "", file.Error}); err != nil {
				return err
			}
			continue
		}
		for _, d := range file.Diagnostics {
			row := []string{
				file.File,
				strconv.Itoa(d.Range.Start.Line + 1),
				strconv.Itoa(d.Range.Start.Character + 1),
				string(d.Severity),
				string(d.Kind),
				d.Path,
				d.Message,
			}
			if err := csvWriter.Write(row); err != nil {
				return err
			}
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// errWriter remembers the first write error so formatting code can stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
