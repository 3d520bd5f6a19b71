package diagnostic

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// ExtractContext renders the lines surrounding d with line numbers, marking
// the diagnostic's line with "->" and underlining its range.
//
//	   2 |   "processes": {
//	-> 3 |     "mode": "typo",
//	     |     ^^^^^^^^^^^^^^^
//	   4 |     "elements": []
func ExtractContext(view View, d Diagnostic, contextLines int) string {
	if view.LineCount() == 0 {
		return ""
	}

	errorLine := d.Range.Start.Line
	if errorLine >= view.LineCount() {
		return ""
	}

	startLine := errorLine - contextLines
	endLine := errorLine + contextLines
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= view.LineCount() {
		endLine = view.LineCount() - 1
	}

	var sb strings.Builder
	width := len(fmt.Sprintf("%d", endLine+1))

	for i := startLine; i <= endLine; i++ {
		prefix := "  "
		if i == errorLine {
			prefix = "->"
		}
		line := strings.TrimRight(view.Line(i), "\r")
		sb.WriteString(fmt.Sprintf("%s %*d | %s\n", prefix, width, i+1, line))

		if i == errorLine {
			pad := visualWidth(line, d.Range.Start.Character)
			span := d.Range.End.Character - d.Range.Start.Character
			if d.Range.End.Line != d.Range.Start.Line || span < 1 {
				span = 1
			}
			sb.WriteString(fmt.Sprintf("   %s | %s%s\n",
				strings.Repeat(" ", width), strings.Repeat(" ", pad), strings.Repeat("^", span)))
		}
	}

	return sb.String()
}

// visualWidth returns the number of runes covering the first units UTF-16
// code units of line, so carets line up with the printed text.
func visualWidth(line string, units int) int {
	n, seen := 0, 0
	for _, r := range line {
		if seen >= units {
			break
		}
		seen += utf16.RuneLen(r)
		n++
	}
	return n
}
