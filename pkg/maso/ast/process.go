package ast

// Mode selects the element schema of a process set.
type Mode string

const (
	// ModeRegular elements carry arrival and service times.
	ModeRegular Mode = "regular"
	// ModeBurst elements carry threads of CPU and I/O bursts.
	ModeBurst Mode = "burst"
)

// Modes lists the recognized modes in the order they are reported.
var Modes = []Mode{ModeRegular, ModeBurst}

// ParseMode returns the mode named by v. Matching is exact: "Burst", "" and
// non-string values are not modes.
func ParseMode(v any) (Mode, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	for _, m := range Modes {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// BurstType is the kind of work a burst represents.
type BurstType string

const (
	BurstTypeCPU BurstType = "cpu"
	BurstTypeIO  BurstType = "io"
)

// BurstTypes lists the valid burst types.
var BurstTypes = []BurstType{BurstTypeCPU, BurstTypeIO}

// IsValidBurstType returns true if s names a burst type.
func IsValidBurstType(s string) bool {
	for _, t := range BurstTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

// RegularElement is the view of an element in regular mode.
type RegularElement struct {
	Index       int
	Path        Path
	ID          Field
	ArrivalTime Field
	ServiceTime Field
	Enabled     Field
}

// BurstElement is the view of an element in burst mode.
type BurstElement struct {
	Index       int
	Path        Path
	ID          Field
	ArrivalTime Field
	Enabled     Field
	Threads     Field
}

// Thread is an ordered sequence of bursts owned by a burst-mode element.
type Thread struct {
	Index   int
	Path    Path
	ID      Field
	Enabled Field
	Bursts  Field
}

// Burst is a single CPU or I/O phase of a thread.
type Burst struct {
	Index    int
	Path     Path
	Type     Field
	Duration Field
}

// RegularElements views raw elements with the regular schema. Entries that
// are not objects produce views with every field absent.
func RegularElements(raw []any, base Path) []RegularElement {
	out := make([]RegularElement, len(raw))
	for i, v := range raw {
		obj, _ := AsObject(v)
		out[i] = RegularElement{
			Index:       i,
			Path:        base.Index(i),
			ID:          Lookup(obj, "id"),
			ArrivalTime: Lookup(obj, "arrival_time"),
			ServiceTime: Lookup(obj, "service_time"),
			Enabled:     Lookup(obj, "enabled"),
		}
	}
	return out
}

// BurstElements views raw elements with the burst schema.
func BurstElements(raw []any, base Path) []BurstElement {
	out := make([]BurstElement, len(raw))
	for i, v := range raw {
		obj, _ := AsObject(v)
		out[i] = BurstElement{
			Index:       i,
			Path:        base.Index(i),
			ID:          Lookup(obj, "id"),
			ArrivalTime: Lookup(obj, "arrival_time"),
			Enabled:     Lookup(obj, "enabled"),
			Threads:     Lookup(obj, "threads"),
		}
	}
	return out
}

// ThreadList returns the element's threads. ok is false when threads is
// missing or not an array.
func (e BurstElement) ThreadList() (threads []Thread, ok bool) {
	raw, ok := AsArray(e.Threads.Value)
	if !ok {
		return nil, false
	}
	base := e.Path.Key("threads")
	threads = make([]Thread, len(raw))
	for i, v := range raw {
		obj, _ := AsObject(v)
		threads[i] = Thread{
			Index:   i,
			Path:    base.Index(i),
			ID:      Lookup(obj, "id"),
			Enabled: Lookup(obj, "enabled"),
			Bursts:  Lookup(obj, "bursts"),
		}
	}
	return threads, true
}

// BurstList returns the thread's bursts. ok is false when bursts is missing
// or not an array.
func (t Thread) BurstList() (bursts []Burst, ok bool) {
	raw, ok := AsArray(t.Bursts.Value)
	if !ok {
		return nil, false
	}
	base := t.Path.Key("bursts")
	bursts = make([]Burst, len(raw))
	for i, v := range raw {
		obj, _ := AsObject(v)
		bursts[i] = Burst{
			Index:    i,
			Path:     base.Index(i),
			Type:     Lookup(obj, "type"),
			Duration: Lookup(obj, "duration"),
		}
	}
	return bursts, true
}
