// Package diagnostic turns validation findings into located diagnostics.
//
// Validators report Violations: a kind, a message, the field name to search
// for and the path of the offending value. The Builder resolves each
// violation to a Range in the source text and attaches a Severity taken from
// a per-kind Policy.
//
// # Ranges
//
// A diagnostic starts where its key is found and runs to the end of that
// line:
//
//	  3 |     "mode": "typo",
//	    |     ^^^^^^^^^^^^^^^
//
// A document that fails to parse gets one diagnostic covering the entire
// text (see WholeDocument).
//
// # Severity
//
// Every kind defaults to SeverityError. A Policy can lower a kind to
// SeverityWarning; the decision is made per kind, never per occurrence.
//
//	policy := diagnostic.DefaultPolicy().With(diagnostic.KindDuplicateID, diagnostic.SeverityWarning)
//
// # Suggestions
//
// Invalid enumeration values carry a suggestion computed by edit distance:
//
//	diagnostic.SuggestValue("brust", []string{"regular", "burst"})
//	// Returns: "Did you mean 'burst'?"
package diagnostic
