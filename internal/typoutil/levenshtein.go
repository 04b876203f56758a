package typoutil

import "sort"

// LevenshteinDistance computes the Levenshtein distance between two strings:
// the minimum number of single-rune insertions, deletions or substitutions
// required to change one into the other.
func LevenshteinDistance(a, b string) int {
	runesA := []rune(a)
	runesB := []rune(b)

	lenA := len(runesA)
	lenB := len(runesB)

	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	// Two rows are enough: prevRow is i-1, currRow is i.
	prevRow := make([]int, lenB+1)
	currRow := make([]int, lenB+1)
	for j := 0; j <= lenB; j++ {
		prevRow[j] = j
	}

	for i := 1; i <= lenA; i++ {
		currRow[0] = i
		for j := 1; j <= lenB; j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}
			deletion := prevRow[j] + 1
			insertion := currRow[j-1] + 1
			substitution := prevRow[j-1] + cost
			currRow[j] = min3(deletion, insertion, substitution)
		}
		prevRow, currRow = currRow, prevRow
	}

	return prevRow[lenB]
}

// min3 is a helper function to find the minimum of three integers
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

// RankBySimilarity returns the candidates ordered by ascending Levenshtein distance
// to target. Candidates at the same distance keep their input order.
func RankBySimilarity(candidates []string, target string) []string {
	type scored struct {
		value    string
		distance int
	}
	items := make([]scored, len(candidates))
	for i, c := range candidates {
		items[i] = scored{value: c, distance: LevenshteinDistance(c, target)}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].distance < items[j].distance
	})
	ranked := make([]string, len(items))
	for i, it := range items {
		ranked[i] = it.value
	}
	return ranked
}
