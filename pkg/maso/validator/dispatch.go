package validator

import (
	"fmt"
	"strings"

	"maso-hq/masolint/pkg/maso/ast"
	"maso-hq/masolint/pkg/maso/diagnostic"
)

var elementsPath = ast.Path{"processes", "elements"}

// ProcessSet is a process block whose element schema has been decided by
// its mode. The concrete types are RegularSet and BurstSet.
type ProcessSet interface {
	Mode() ast.Mode
	Len() int

	// Validate checks every element and returns violations in element order.
	Validate() []diagnostic.Violation
}

// Dispatch selects the process set variant named by mode. For an
// unrecognized mode it returns exactly one violation and no set; the
// elements are not inspected.
func Dispatch(mode any, elements []any) (ProcessSet, []diagnostic.Violation) {
	m, ok := ast.ParseMode(mode)
	if !ok {
		return nil, []diagnostic.Violation{invalidMode(mode)}
	}

	switch m {
	case ast.ModeBurst:
		return &BurstSet{Elements: ast.BurstElements(elements, elementsPath)}, nil
	default:
		return &RegularSet{Elements: ast.RegularElements(elements, elementsPath)}, nil
	}
}

func invalidMode(mode any) diagnostic.Violation {
	names := make([]string, len(ast.Modes))
	for i, m := range ast.Modes {
		names[i] = string(m)
	}

	value := ast.Render(mode)
	v := diagnostic.Violation{
		Kind:    diagnostic.KindInvalidMode,
		Message: fmt.Sprintf("Invalid mode: %s. Must be one of: %s", value, strings.Join(names, ", ")),
		Key:     "mode",
		Path:    ast.Path{"processes", "mode"},
	}
	if s, ok := mode.(string); ok {
		v.Suggestion = diagnostic.SuggestValue(s, names)
	}
	return v
}
