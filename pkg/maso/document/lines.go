package document

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"maso-hq/masolint/pkg/maso/ast"
)

// Lines is the line-indexed view of a document's text. Lines are split on
// "\n" only, so a "\r" before the break stays part of its line.
type Lines []string

// SplitLines splits text into Lines. An empty text has one empty line.
func SplitLines(text string) Lines {
	return Lines(strings.Split(text, "\n"))
}

// LineCount returns the number of lines.
func (l Lines) LineCount() int {
	return len(l)
}

// Line returns line n, or "" if n is out of range.
func (l Lines) Line(n int) string {
	if n < 0 || n >= len(l) {
		return ""
	}
	return l[n]
}

// LineLength returns the length of line n in UTF-16 code units.
func (l Lines) LineLength(n int) int {
	return UTF16Len(l.Line(n))
}

// FindFirstOccurrence returns the position of the first occurrence of key
// rendered as a quoted string token ("key"). ok is false if no line
// contains it.
func (l Lines) FindFirstOccurrence(key string) (pos ast.Position, ok bool) {
	needle := `"` + key + `"`
	for i, line := range l {
		if idx := strings.Index(line, needle); idx >= 0 {
			return ast.Position{Line: i, Character: UTF16Len(line[:idx])}, true
		}
	}
	return ast.Position{}, false
}

// End returns the position just past the last character of the text.
func (l Lines) End() ast.Position {
	if len(l) == 0 {
		return ast.Position{}
	}
	last := len(l) - 1
	return ast.Position{Line: last, Character: l.LineLength(last)}
}

// UTF16Len returns the length of s in UTF-16 code units.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// runeColumnToUTF16 converts a zero-based rune column within line to UTF-16
// code units. Columns past the end of the line clamp to its length.
func runeColumnToUTF16(line string, col int) int {
	n := 0
	for i := 0; i < col && len(line) > 0; i++ {
		r, size := utf8.DecodeRuneInString(line)
		n += utf16.RuneLen(r)
		line = line[size:]
	}
	return n
}
