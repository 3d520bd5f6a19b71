package validator

import (
	"fmt"

	"maso-hq/masolint/pkg/maso/ast"
	"maso-hq/masolint/pkg/maso/diagnostic"
)

// report accumulates violations for a single validation run.
type report struct {
	violations []diagnostic.Violation
}

func (r *report) add(kind diagnostic.Kind, path ast.Path, message string) {
	r.violations = append(r.violations, diagnostic.Violation{
		Kind:    kind,
		Message: message,
		Key:     path.Last(),
		Path:    path,
	})
}

func (r *report) addWithSuggestion(kind diagnostic.Kind, path ast.Path, message, suggestion string) {
	r.add(kind, path, message)
	r.violations[len(r.violations)-1].Suggestion = suggestion
}

func (r *report) missing(path ast.Path) {
	r.add(diagnostic.KindMissingField, path, "Missing required field: "+label(path))
}

func (r *report) notArray(path ast.Path) {
	r.add(diagnostic.KindMissingField, path,
		fmt.Sprintf("Missing or invalid field: %s (must be an array)", label(path)))
}

// require reports a missing field. Absent and null are missing.
func (r *report) require(f ast.Field, path ast.Path) {
	if !f.Present {
		r.missing(path)
	}
}

// requireID reports a missing identifier. An empty string is also missing.
func (r *report) requireID(f ast.Field, path ast.Path) {
	if f.IsBlank() {
		r.missing(path)
	}
}

// requireArray reports a field that is missing or not an array.
func (r *report) requireArray(f ast.Field, path ast.Path) bool {
	if _, ok := ast.AsArray(f.Value); !ok {
		r.notArray(path)
		return false
	}
	return true
}

// expectString checks the type of a non-blank field.
func (r *report) expectString(f ast.Field, path ast.Path) (string, bool) {
	if f.IsBlank() {
		return "", false
	}
	s, ok := ast.AsString(f.Value)
	if !ok {
		r.add(diagnostic.KindInvalidType, path, label(path)+" must be a string")
	}
	return s, ok
}

// expectInteger checks that a present field is a whole number.
func (r *report) expectInteger(f ast.Field, path ast.Path) (float64, bool) {
	if !f.Present {
		return 0, false
	}
	n, ok := ast.AsInteger(f.Value)
	if !ok {
		r.add(diagnostic.KindInvalidType, path, label(path)+" must be an integer")
	}
	return n, ok
}

// expectBool checks that a present field is a boolean.
func (r *report) expectBool(f ast.Field, path ast.Path) {
	if !f.Present {
		return
	}
	if _, ok := ast.AsBool(f.Value); !ok {
		r.add(diagnostic.KindInvalidType, path, label(path)+" must be a boolean")
	}
}

func (r *report) nonNegative(n float64, path ast.Path) {
	if n < 0 {
		r.add(diagnostic.KindInvalidValue, path, label(path)+" must be non-negative")
	}
}

// idSet tracks identifiers within one uniqueness scope.
type idSet map[string]bool

// seen records id and returns true if it was already present. Only
// non-empty strings participate.
func (s idSet) seen(f ast.Field) (string, bool) {
	id, ok := ast.AsString(f.Value)
	if !ok || id == "" {
		return "", false
	}
	dup := s[id]
	s[id] = true
	return id, dup
}

// label renders a path for messages. Element paths are shown relative to
// the processes block.
func label(path ast.Path) string {
	if len(path) > 2 && path[0] == "processes" && path[1] == "elements" {
		return path.Rel(1).String()
	}
	return path.String()
}
