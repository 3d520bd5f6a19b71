package diagnostic

import (
	"fmt"
	"strings"
)

// SuggestValue suggests the closest valid value for an unrecognized one.
// It returns "" if no candidate is within a reasonable edit distance.
func SuggestValue(unknown string, valid []string) string {
	if len(valid) == 0 || unknown == "" {
		return ""
	}

	lower := strings.ToLower(unknown)
	minDistance := 1000
	var bestMatch string

	for _, candidate := range valid {
		dist := levenshteinDistance(lower, candidate)
		if dist < minDistance {
			minDistance = dist
			bestMatch = candidate
		}
	}

	// Only suggest if the distance is small relative to the word
	if minDistance <= maxSuggestDistance(bestMatch) {
		return fmt.Sprintf("Did you mean '%s'?", bestMatch)
	}
	return ""
}

// SuggestMissingField suggests how to add a missing field.
func SuggestMissingField(fieldName, example string) string {
	return fmt.Sprintf(`Add "%s": %s`, fieldName, example)
}

func maxSuggestDistance(word string) int {
	if len(word) <= 3 {
		return 1
	}
	return 2
}

// levenshteinDistance calculates the Levenshtein distance between two strings.
// This is the minimum number of single-character edits (insertions, deletions,
// or substitutions) required to change one string into the other.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}

	return matrix[len(s1)][len(s2)]
}
