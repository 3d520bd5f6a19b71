// Package document parses MASO text and answers location queries against it.
//
// A Document keeps three views of the same input:
//
//   - the raw text, unchanged
//   - the decoded JSON tree (see package ast for the value model)
//   - the text split into lines, used to anchor diagnostics
//
// # Parsing
//
//	doc, err := document.Parse(text)
//	if err != nil {
//	    var perr *document.ParseError
//	    if errors.As(err, &perr) {
//	        // the whole document is reported as invalid
//	    }
//	}
//
// Parsing is strict JSON. Trailing data after the top-level value and a
// top-level null are parse failures.
//
// # Locating Fields
//
// FindFirstOccurrence scans lines top-down for the quoted key and returns
// the first match. It is a textual heuristic: every "id" field in a file
// resolves to the first line containing "id".
//
// Locate with LocateStructural walks a position-carrying node tree instead
// and resolves each path to its own key. The node tree comes from a second
// pass with yaml.v3 (JSON is a subset of YAML flow syntax); when that pass
// fails the text heuristic is used.
package document
