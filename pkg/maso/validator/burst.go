package validator

import (
	"fmt"

	"maso-hq/masolint/pkg/maso/ast"
	"maso-hq/masolint/pkg/maso/diagnostic"
)

// BurstSet is a process set in burst mode.
type BurstSet struct {
	Elements []ast.BurstElement
}

// Mode returns ast.ModeBurst.
func (s *BurstSet) Mode() ast.Mode { return ast.ModeBurst }

// Len returns the number of elements.
func (s *BurstSet) Len() int { return len(s.Elements) }

// Validate checks each element and its threads. An element whose threads
// field is missing or not an array gets no thread checks, but its id is
// still checked and counted for uniqueness.
func (s *BurstSet) Validate() []diagnostic.Violation {
	r := &report{}
	ids := idSet{}
	for _, el := range s.Elements {
		checkBurstElement(r, ids, el)
	}
	return r.violations
}

func checkBurstElement(r *report, ids idSet, el ast.BurstElement) {
	idPath := el.Path.Key("id")
	arrivalPath := el.Path.Key("arrival_time")
	enabledPath := el.Path.Key("enabled")

	r.requireID(el.ID, idPath)
	r.require(el.ArrivalTime, arrivalPath)
	r.require(el.Enabled, enabledPath)
	hasThreads := r.requireArray(el.Threads, el.Path.Key("threads"))

	r.expectString(el.ID, idPath)
	arrival, arrivalOK := r.expectInteger(el.ArrivalTime, arrivalPath)
	r.expectBool(el.Enabled, enabledPath)

	if arrivalOK {
		r.nonNegative(arrival, arrivalPath)
	}

	checkProcessID(r, ids, el.ID, idPath)

	if !hasThreads {
		return
	}
	threads, _ := el.ThreadList()
	threadIDs := idSet{}
	for _, t := range threads {
		checkThread(r, threadIDs, el.Index, t)
	}
}

func checkThread(r *report, ids idSet, element int, t ast.Thread) {
	idPath := t.Path.Key("id")
	enabledPath := t.Path.Key("enabled")

	r.requireID(t.ID, idPath)
	r.require(t.Enabled, enabledPath)
	hasBursts := r.requireArray(t.Bursts, t.Path.Key("bursts"))

	r.expectString(t.ID, idPath)
	r.expectBool(t.Enabled, enabledPath)

	if id, dup := ids.seen(t.ID); dup {
		r.add(diagnostic.KindDuplicateThreadID, idPath,
			fmt.Sprintf("Duplicate thread ID in elements[%d]: %s", element, id))
	}

	if !hasBursts {
		return
	}
	bursts, _ := t.BurstList()
	for _, b := range bursts {
		checkBurst(r, b)
	}
}

func checkBurst(r *report, b ast.Burst) {
	typePath := b.Path.Key("type")
	durationPath := b.Path.Key("duration")

	switch {
	case b.Type.IsBlank():
		r.missing(typePath)
	default:
		if s, ok := r.expectString(b.Type, typePath); ok && !ast.IsValidBurstType(s) {
			r.addWithSuggestion(diagnostic.KindInvalidBurstType, typePath,
				fmt.Sprintf("Invalid burst type: %s. Must be 'cpu' or 'io'", s),
				diagnostic.SuggestValue(s, burstTypeNames()))
		}
	}

	r.require(b.Duration, durationPath)
	if d, ok := r.expectInteger(b.Duration, durationPath); ok {
		r.nonNegative(d, durationPath)
	}
}

func burstTypeNames() []string {
	names := make([]string, len(ast.BurstTypes))
	for i, t := range ast.BurstTypes {
		names[i] = string(t)
	}
	return names
}
