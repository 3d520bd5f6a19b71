package validator

import (
	"fmt"

	"maso-hq/masolint/pkg/maso/ast"
	"maso-hq/masolint/pkg/maso/diagnostic"
)

// RegularSet is a process set in regular mode.
type RegularSet struct {
	Elements []ast.RegularElement
}

// Mode returns ast.ModeRegular.
func (s *RegularSet) Mode() ast.Mode { return ast.ModeRegular }

// Len returns the number of elements.
func (s *RegularSet) Len() int { return len(s.Elements) }

// Validate checks each element for presence, types, values and id
// uniqueness, in that order.
func (s *RegularSet) Validate() []diagnostic.Violation {
	r := &report{}
	ids := idSet{}
	for _, el := range s.Elements {
		checkRegularElement(r, ids, el)
	}
	return r.violations
}

func checkRegularElement(r *report, ids idSet, el ast.RegularElement) {
	idPath := el.Path.Key("id")
	arrivalPath := el.Path.Key("arrival_time")
	servicePath := el.Path.Key("service_time")
	enabledPath := el.Path.Key("enabled")

	r.requireID(el.ID, idPath)
	r.require(el.ArrivalTime, arrivalPath)
	r.require(el.ServiceTime, servicePath)
	r.require(el.Enabled, enabledPath)

	r.expectString(el.ID, idPath)
	arrival, arrivalOK := r.expectInteger(el.ArrivalTime, arrivalPath)
	service, serviceOK := r.expectInteger(el.ServiceTime, servicePath)
	r.expectBool(el.Enabled, enabledPath)

	if arrivalOK {
		r.nonNegative(arrival, arrivalPath)
	}
	if serviceOK {
		r.nonNegative(service, servicePath)
	}

	checkProcessID(r, ids, el.ID, idPath)
}

// checkProcessID reports a repeated process id. Each repetition after the
// first is reported once.
func checkProcessID(r *report, ids idSet, id ast.Field, path ast.Path) {
	if value, dup := ids.seen(id); dup {
		r.add(diagnostic.KindDuplicateID, path, fmt.Sprintf("Duplicate process ID: %s", value))
	}
}
