package diagnostic

import "maso-hq/masolint/pkg/maso/ast"

// View is the line-indexed text a diagnostic is anchored to.
type View interface {
	Line(n int) string
	LineCount() int
	LineLength(n int) int
	FindFirstOccurrence(key string) (ast.Position, bool)
	End() ast.Position
}

// Locator resolves a violation to its start position.
type Locator interface {
	Locate(key string, path ast.Path) ast.Position
}

// LocatorFunc adapts a function to the Locator interface.
type LocatorFunc func(key string, path ast.Path) ast.Position

// Locate calls f.
func (f LocatorFunc) Locate(key string, path ast.Path) ast.Position {
	return f(key, path)
}

// Build anchors message at the first occurrence of the quoted searchKey.
// The range runs from the match to the end of its line; when the key does
// not occur the range starts at line 0, character 0.
func Build(view View, message, searchKey string, severity Severity) Diagnostic {
	pos, _ := view.FindFirstOccurrence(searchKey)
	return BuildAt(view, pos, message, severity)
}

// BuildAt anchors message at pos, extending the range to the end of the line.
func BuildAt(view View, pos ast.Position, message string, severity Severity) Diagnostic {
	return Diagnostic{
		Range: ast.Range{
			Start: pos,
			End:   ast.Position{Line: pos.Line, Character: view.LineLength(pos.Line)},
		},
		Severity: severity,
		Message:  message,
		Source:   Source,
	}
}

// WholeDocument returns the single diagnostic reported for unparseable
// text. Its range covers everything from line 0 to the end of the last line.
func WholeDocument(view View) Diagnostic {
	return Diagnostic{
		Range:    ast.Range{Start: ast.Position{}, End: view.End()},
		Severity: SeverityError,
		Message:  MessageInvalidJSON,
		Kind:     KindSyntax,
		Source:   Source,
	}
}

// Builder converts violations into diagnostics for one document.
type Builder struct {
	view    View
	locator Locator
	policy  Policy
}

// NewBuilder creates a builder. A nil locator uses the view's text search;
// a nil policy reports everything as an error.
func NewBuilder(view View, locator Locator, policy Policy) *Builder {
	if locator == nil {
		locator = LocatorFunc(func(key string, _ ast.Path) ast.Position {
			pos, _ := view.FindFirstOccurrence(key)
			return pos
		})
	}
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Builder{view: view, locator: locator, policy: policy}
}

// Resolve converts a single violation.
func (b *Builder) Resolve(v Violation) Diagnostic {
	d := BuildAt(b.view, b.locator.Locate(v.Key, v.Path), v.Message, b.policy.SeverityOf(v.Kind))
	d.Kind = v.Kind
	d.Path = v.Path.String()
	d.Suggestion = v.Suggestion
	return d
}

// ResolveAll converts violations in order. The result is never nil.
func (b *Builder) ResolveAll(violations []Violation) []Diagnostic {
	out := make([]Diagnostic, 0, len(violations))
	for _, v := range violations {
		out = append(out, b.Resolve(v))
	}
	return out
}
