package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"maso-hq/masolint/pkg/maso/ast"
	"maso-hq/masolint/pkg/maso/diagnostic"
)

const sampleText = `{
  "processes": {
    "mode": "typo",
    "elements": []
  }
}`

func sampleReport() Report {
	diags := []diagnostic.Diagnostic{
		{
			Range: ast.Range{
				Start: ast.Position{Line: 2, Character: 4},
				End:   ast.Position{Line: 2, Character: 19},
			},
			Severity:   diagnostic.SeverityError,
			Message:    "Invalid mode: typo. Must be one of: regular, burst",
			Kind:       diagnostic.KindInvalidMode,
			Path:       "processes.mode",
			Source:     diagnostic.Source,
			Suggestion: "Did you mean 'regular'?",
		},
		{
			Range:    ast.Range{End: ast.Position{Character: 1}},
			Severity: diagnostic.SeverityWarning,
			Message:  "Missing required field: metadata",
			Kind:     diagnostic.KindMissingField,
			Path:     "metadata",
			Source:   diagnostic.Source,
		},
	}
	return NewReport([]FileReport{
		NewFileReport("a.maso", sampleText, diags),
		NewFileReport("b.maso", "{}", nil),
		ReadErrorReport("c.maso", errors.New("permission denied")),
	})
}

func TestNewReport_Totals(t *testing.T) {
	r := sampleReport()
	want := Totals{Files: 3, Invalid: 1, Errors: 1, Warnings: 1, Failures: 1}
	if r.Summary != want {
		t.Errorf("Summary = %+v, want %+v", r.Summary, want)
	}
	if r.Files[1].Diagnostics == nil {
		t.Error("valid file should have an empty, non-nil diagnostics slice")
	}
}

func TestReport_Failed(t *testing.T) {
	warnOnly := NewReport([]FileReport{NewFileReport("w.maso", "{}", []diagnostic.Diagnostic{
		{Severity: diagnostic.SeverityWarning, Kind: diagnostic.KindDuplicateID},
	})})

	tests := []struct {
		name   string
		report Report
		strict bool
		want   bool
	}{
		{"errors", sampleReport(), false, true},
		{"warnings lenient", warnOnly, false, false},
		{"warnings strict", warnOnly, true, true},
		{"clean", NewReport([]FileReport{NewFileReport("ok.maso", "{}", nil)}), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.report.Failed(tt.strict); got != tt.want {
				t.Errorf("Failed(%v) = %v, want %v", tt.strict, got, tt.want)
			}
		})
	}
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatText).FormatTo(&buf, sampleReport()); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Validating a.maso...",
		"✗ a.maso:3:5: error: Invalid mode: typo. Must be one of: regular, burst [invalid_mode]",
		`-> 3 |     "mode": "typo",`,
		"  Suggestion: Did you mean 'regular'?",
		"⚠  a.maso:1:1: warning: Missing required field: metadata [missing_field]",
		"Validating b.maso...\n✓ Valid",
		"✗ Error: permission denied",
		"3 file(s), 1 invalid, 1 error(s), 1 warning(s)",
		"1 file(s) could not be read",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTextFormatter_NoContext(t *testing.T) {
	var buf bytes.Buffer
	f := &TextFormatter{ContextLines: -1}
	if err := f.FormatTo(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "->") {
		t.Errorf("context should be disabled:\n%s", buf.String())
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatJSON).FormatTo(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Files []struct {
			File        string `json:"file"`
			Valid       bool   `json:"valid"`
			Error       string `json:"error"`
			Diagnostics []struct {
				Kind  string `json:"kind"`
				Range struct {
					Start struct {
						Line int `json:"line"`
					} `json:"start"`
				} `json:"range"`
			} `json:"diagnostics"`
		} `json:"files"`
		Summary Totals `json:"summary"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}

	if len(decoded.Files) != 3 || decoded.Files[0].Valid {
		t.Fatalf("unexpected files: %+v", decoded.Files)
	}
	if decoded.Files[0].Diagnostics[0].Kind != "invalid_mode" || decoded.Files[0].Diagnostics[0].Range.Start.Line != 2 {
		t.Errorf("unexpected first diagnostic: %+v", decoded.Files[0].Diagnostics[0])
	}
	if decoded.Files[2].Error != "permission denied" {
		t.Errorf("read error = %q", decoded.Files[2].Error)
	}
	if decoded.Summary.Files != 3 {
		t.Errorf("summary = %+v", decoded.Summary)
	}
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatCSV).FormatTo(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4 (header + 2 diagnostics + 1 read error)", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(CSVHeaders, ",") {
		t.Errorf("header = %v", rows[0])
	}
	want := []string{"a.maso", "3", "5", "error", "invalid_mode", "processes.mode", "Invalid mode: typo. Must be one of: regular, burst"}
	if strings.Join(rows[1], "|") != strings.Join(want, "|") {
		t.Errorf("row = %v, want %v", rows[1], want)
	}
	if rows[3][4] != "read_error" {
		t.Errorf("read error row = %v", rows[3])
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"", FormatText, false},
		{"junit", "", true},
	}

	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}
