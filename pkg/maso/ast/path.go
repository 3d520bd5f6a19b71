package ast

import (
	"strconv"
	"strings"
)

// Path addresses a value inside the document tree. Each segment is either an
// object key (string) or an array index (int).
type Path []any

// Key returns a new path with an object key appended.
func (p Path) Key(name string) Path {
	return p.append(name)
}

// Index returns a new path with an array index appended.
func (p Path) Index(i int) Path {
	return p.append(i)
}

func (p Path) append(seg any) Path {
	next := make(Path, len(p), len(p)+1)
	copy(next, p)
	return append(next, seg)
}

// Last returns the final key of the path, or "" if the path is empty or ends
// in an index.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	s, _ := p[len(p)-1].(string)
	return s
}

// String renders the path in dotted form, e.g. processes.elements[0].id.
func (p Path) String() string {
	var sb strings.Builder
	for _, seg := range p {
		switch s := seg.(type) {
		case int:
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(s))
			sb.WriteByte(']')
		case string:
			if sb.Len() > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(s)
		}
	}
	return sb.String()
}

// Rel returns the path with its first n segments removed. Element paths are
// reported relative to the processes block (elements[0].id rather than
// processes.elements[0].id).
func (p Path) Rel(n int) Path {
	if n >= len(p) {
		return Path{}
	}
	return p[n:]
}
