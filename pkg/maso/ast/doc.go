// Package ast defines the value model shared by the MASO parser, validator
// and diagnostic builder.
//
// A parsed MASO document is kept as the generic JSON tree produced by the
// decoder (map[string]any, []any, string, json.Number, bool, nil). The
// validator needs to see values of the wrong type in order to report them,
// so the tree is never forced into Go structs up front. Instead this package
// provides:
//
//   - Position and Range: zero-based line/character locations in the source text
//   - Kind and KindOf: classification of raw JSON values
//   - Field and Lookup: presence-aware access to object members
//   - Path: the location of a value inside the tree (processes.elements[0].id)
//   - Mode and the per-mode element views (RegularElement, BurstElement,
//     Thread, Burst) used once the process mode has been decided
//
// # Element Views
//
// The element schema depends on the sibling "mode" field. Once the mode is
// known, elements are viewed through the matching type:
//
//	elements := ast.RegularElements(raw)
//	for _, el := range elements {
//	    if !el.ServiceTime.Present {
//	        // report missing service_time
//	    }
//	}
//
// Each view holds Fields rather than decoded values, so presence and type
// checks are left to the validator.
package ast
