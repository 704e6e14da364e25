// Package fuzzy scores filenames and note content against a query string
// for headless ranking: no interactive picker UI, just a numeric score
// per candidate so callers can sort and truncate.
//
// There is no batch-scoring API in the corpus's interactive fuzzy-finder
// dependency (it owns its own terminal loop), so this is a hand-written
// subsequence scorer. It follows the same shape the corpus's own matcher
// exposes conceptually: smart case (a query with no uppercase letters
// matches case-insensitively; any uppercase letter makes the match
// case-sensitive) and a bonus for contiguous runs and boundary starts.
package fuzzy

import "strings"

// Match is one candidate that scored against a query, paired with its score.
type Match struct {
	Index int
	Score int
}

// Score reports whether query matches candidate as a case-aware ordered
// subsequence, and if so, a higher-is-better score rewarding contiguous
// runs and matches that begin at a word boundary.
func Score(query, candidate string) (int, bool) {
	if query == "" {
		return 0, false
	}
	smartCase := hasUpper(query)

	q := query
	c := candidate
	if !smartCase {
		q = strings.ToLower(q)
		c = strings.ToLower(c)
	}

	qr := []rune(q)
	cr := []rune(c)

	score := 0
	ci := 0
	qi := 0
	runLen := 0
	for qi < len(qr) {
		found := false
		for ; ci < len(cr); ci++ {
			if cr[ci] == qr[qi] {
				found = true
				bonus := 1
				if ci == 0 || isBoundary(cr[ci-1]) {
					bonus += 8
				}
				if runLen > 0 {
					bonus += 8 + runLen
				}
				score += bonus
				runLen++
				ci++
				qi++
				break
			}
			runLen = 0
		}
		if !found {
			return 0, false
		}
	}

	if len(cr) > 0 {
		score += max(0, 20-(len(cr)-len(qr)))
	}

	return score, true
}

func isBoundary(r rune) bool {
	return r == '/' || r == '-' || r == '_' || r == ' ' || r == '.'
}

func hasUpper(s string) bool {
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			return true
		}
	}
	return false
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
