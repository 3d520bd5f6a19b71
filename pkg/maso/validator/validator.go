package validator

import (
	"maso-hq/masolint/pkg/maso/ast"
	"maso-hq/masolint/pkg/maso/diagnostic"
	"maso-hq/masolint/pkg/maso/document"
)

// Options configures a Validator.
type Options struct {
	// Locator selects how violations are anchored in the text.
	Locator document.LocatorMode

	// Policy maps violation kinds to severities. Nil reports every kind as
	// an error.
	Policy diagnostic.Policy
}

// DefaultOptions returns the text locator and the all-error policy.
func DefaultOptions() Options {
	return Options{
		Locator: document.LocateText,
		Policy:  diagnostic.DefaultPolicy(),
	}
}

// Result is the outcome of validating one text.
type Result struct {
	// Diagnostics in the order they were found. Never nil.
	Diagnostics []diagnostic.Diagnostic

	// Mode is the dispatched process mode, empty if none was selected.
	Mode ast.Mode

	// ParseErr is set when the text is not a JSON document.
	ParseErr error
}

// Validator orchestrates the structural pass and the mode-specific element
// pass. It holds no per-run state and is safe for concurrent use.
type Validator struct {
	opts       Options
	structural *StructuralValidator
}

// NewValidator creates a validator with default options.
func NewValidator() *Validator {
	return New(DefaultOptions())
}

// New creates a validator with the given options.
func New(opts Options) *Validator {
	if !opts.Locator.IsValid() {
		opts.Locator = document.LocateText
	}
	if opts.Policy == nil {
		opts.Policy = diagnostic.DefaultPolicy()
	}
	return &Validator{
		opts:       opts,
		structural: NewStructuralValidator(),
	}
}

// Options returns the validator's effective options.
func (v *Validator) Options() Options {
	return v.opts
}

// Validate returns the diagnostics for text.
func (v *Validator) Validate(text string) []diagnostic.Diagnostic {
	return v.Run(text).Diagnostics
}

// Run validates text. Unparseable text yields exactly one diagnostic
// spanning the whole document.
func (v *Validator) Run(text string) Result {
	doc, err := document.Parse(text)
	if err != nil {
		return Result{
			Diagnostics: []diagnostic.Diagnostic{diagnostic.WholeDocument(document.SplitLines(text))},
			ParseErr:    err,
		}
	}

	violations, mode := v.Check(doc)
	locator := diagnostic.LocatorFunc(func(key string, path ast.Path) ast.Position {
		return doc.Locate(v.opts.Locator, key, path)
	})
	builder := diagnostic.NewBuilder(doc, locator, v.opts.Policy)

	return Result{
		Diagnostics: builder.ResolveAll(violations),
		Mode:        mode,
	}
}

// Check returns the unlocated violations of a parsed document and the
// process mode that was dispatched. Elements are only checked when the
// mode is present and elements is an array.
func (v *Validator) Check(doc *document.Document) ([]diagnostic.Violation, ast.Mode) {
	violations := v.structural.CheckTopLevel(doc)

	processes, _ := ast.AsObject(ast.Lookup(doc.Object(), "processes").Value)
	mode := ast.Lookup(processes, "mode")
	elements, ok := ast.AsArray(ast.Lookup(processes, "elements").Value)
	if !mode.Present || !ok {
		return violations, ""
	}

	set, modeViolations := Dispatch(mode.Value, elements)
	if set == nil {
		return append(violations, modeViolations...), ""
	}
	return append(violations, set.Validate()...), set.Mode()
}
