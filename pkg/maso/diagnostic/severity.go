package diagnostic

import (
	"fmt"
	"strings"
)

// Severity is how serious a diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ParseSeverity parses "error" or "warning" (case-insensitive).
func ParseSeverity(s string) (Severity, error) {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityError:
		return SeverityError, nil
	case SeverityWarning:
		return SeverityWarning, nil
	default:
		return "", fmt.Errorf("invalid severity %q (must be error or warning)", s)
	}
}

// Kind categorizes a violation.
type Kind string

const (
	KindSyntax            Kind = "syntax"              // text is not a parseable document
	KindMissingField      Kind = "missing_field"       // required field absent, null or wrong shape
	KindInvalidType       Kind = "invalid_type"        // field present with the wrong JSON type
	KindInvalidValue      Kind = "invalid_value"       // well-typed value out of range
	KindInvalidMode       Kind = "invalid_mode"        // processes.mode is not a recognized mode
	KindInvalidBurstType  Kind = "invalid_burst_type"  // burst type other than cpu or io
	KindDuplicateID       Kind = "duplicate_id"        // element id repeated within the process set
	KindDuplicateThreadID Kind = "duplicate_thread_id" // thread id repeated within its element
)

// Kinds lists every violation kind.
var Kinds = []Kind{
	KindSyntax,
	KindMissingField,
	KindInvalidType,
	KindInvalidValue,
	KindInvalidMode,
	KindInvalidBurstType,
	KindDuplicateID,
	KindDuplicateThreadID,
}

// IsValid returns true if k is a known kind.
func (k Kind) IsValid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Policy maps violation kinds to severities. Kinds without an entry are
// errors.
type Policy map[Kind]Severity

// DefaultPolicy reports every kind as an error.
func DefaultPolicy() Policy {
	return Policy{}
}

// With returns a copy of the policy with kind set to severity.
func (p Policy) With(kind Kind, severity Severity) Policy {
	next := make(Policy, len(p)+1)
	for k, s := range p {
		next[k] = s
	}
	next[kind] = severity
	return next
}

// SeverityOf returns the severity for kind.
func (p Policy) SeverityOf(kind Kind) Severity {
	if s, ok := p[kind]; ok {
		return s
	}
	return SeverityError
}

// ParsePolicy builds a policy from kind→severity strings as found in
// configuration files.
func ParsePolicy(raw map[string]string) (Policy, error) {
	p := DefaultPolicy()
	for k, s := range raw {
		kind := Kind(k)
		if !kind.IsValid() {
			return nil, fmt.Errorf("unknown diagnostic kind %q", k)
		}
		sev, err := ParseSeverity(s)
		if err != nil {
			return nil, fmt.Errorf("kind %q: %w", k, err)
		}
		p[kind] = sev
	}
	return p, nil
}
