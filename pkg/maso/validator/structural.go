package validator

import (
	"maso-hq/masolint/pkg/maso/ast"
	"maso-hq/masolint/pkg/maso/diagnostic"
	"maso-hq/masolint/pkg/maso/document"
)

var metadataFields = []struct {
	name    string
	example string
}{
	{"name", `"my-workload"`},
	{"version", `"1.0.0"`},
	{"description", `"Describe the workload"`},
}

// StructuralValidator checks the top-level shape of a document: the
// metadata block and the presence of the processes block's mode and
// elements.
type StructuralValidator struct{}

// NewStructuralValidator creates a new structural validator.
func NewStructuralValidator() *StructuralValidator {
	return &StructuralValidator{}
}

// CheckTopLevel returns the structural violations of doc.
func (v *StructuralValidator) CheckTopLevel(doc *document.Document) []diagnostic.Violation {
	r := &report{}
	root := doc.Object()

	v.checkMetadata(r, ast.Lookup(root, "metadata"))
	v.checkProcesses(r, ast.Lookup(root, "processes"))

	return r.violations
}

func (v *StructuralValidator) checkMetadata(r *report, metadata ast.Field) {
	base := ast.Path{"metadata"}
	if !metadata.Present {
		r.missing(base)
		return
	}

	obj, _ := ast.AsObject(metadata.Value)
	fields := make([]ast.Field, len(metadataFields))
	for i, mf := range metadataFields {
		fields[i] = ast.Lookup(obj, mf.name)
		if fields[i].IsBlank() {
			path := base.Key(mf.name)
			r.addWithSuggestion(diagnostic.KindMissingField, path,
				"Missing required field: "+label(path),
				diagnostic.SuggestMissingField(mf.name, mf.example))
		}
	}
	for i, mf := range metadataFields {
		r.expectString(fields[i], base.Key(mf.name))
	}
}

func (v *StructuralValidator) checkProcesses(r *report, processes ast.Field) {
	base := ast.Path{"processes"}
	if !processes.Present {
		r.missing(base)
		return
	}

	obj, _ := ast.AsObject(processes.Value)
	if !ast.Lookup(obj, "mode").Present {
		path := base.Key("mode")
		r.addWithSuggestion(diagnostic.KindMissingField, path,
			"Missing required field: "+label(path),
			diagnostic.SuggestMissingField("mode", `"regular"`))
	}
	r.requireArray(ast.Lookup(obj, "elements"), base.Key("elements"))
}
