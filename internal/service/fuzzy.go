package service

import "strings"

// fuzzyMatch reports whether the query matches the candidate text,
// either as a case-insensitive substring or within a small edit
// distance of one of its words. One edit is allowed for short queries,
// two for queries longer than five runes.
func fuzzyMatch(text, query string) bool {
	text = strings.ToLower(text)
	if strings.Contains(text, query) {
		return true
	}

	limit := 1
	if len([]rune(query)) > 5 {
		limit = 2
	}

	for _, word := range strings.Fields(text) {
		if editDistance(word, query) <= limit {
			return true
		}
	}
	return false
}

// editDistance computes the Levenshtein distance between two strings.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}
