// Package match provides approximate string matching for listing search and
// school name resolution: Levenshtein edit distance, normalized similarity,
// and weighted text relevance over listing fields.
package match

import "strings"

// Levenshtein computes the edit distance between two strings: the minimum
// number of single-character insertions, deletions, or substitutions required
// to transform one into the other. Unit cost for every operation.
//
// Uses the full (len(b)+1) x (len(a)+1) dynamic-programming matrix.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	rows := len(b) + 1
	cols := len(a) + 1

	matrix := make([][]int, rows)
	for i := range matrix {
		matrix[i] = make([]int, cols)
		matrix[i][0] = i
	}
	for j := 0; j < cols; j++ {
		matrix[0][j] = j
	}

	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			cost := 1
			if b[i-1] == a[j-1] {
				cost = 0
			}
			matrix[i][j] = min3(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[rows-1][cols-1]
}

// Similarity computes a case-insensitive normalized similarity in [0, 1].
// 1.0 means the lowercased strings are identical (including both empty);
// 0.0 occurs when one string is empty and the other is not.
//
// Formula: (maxLen - Levenshtein(lower(a), lower(b))) / maxLen.
func Similarity(a, b string) float64 {
	la := strings.ToLower(a)
	lb := strings.ToLower(b)

	maxLen := len(la)
	if len(lb) > maxLen {
		maxLen = len(lb)
	}
	if maxLen == 0 {
		return 1.0
	}

	distance := Levenshtein(la, lb)
	return float64(maxLen-distance) / float64(maxLen)
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
