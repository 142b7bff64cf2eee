package checker

// maxSuggestDistance is the edit distance cutoff beyond which a name
// is not considered a plausible typo.
const maxSuggestDistance = 3

// closestName returns the candidate with the smallest Levenshtein
// distance to name, or "" when nothing is within the cutoff.
// Candidates must be sorted so ties resolve deterministically.
func closestName(name string, candidates []string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, cand := range candidates {
		if cand == name {
			continue
		}
		d := levenshtein(name, cand)
		if d < bestDist {
			best = cand
			bestDist = d
		}
	}
	return best
}

// levenshtein computes the edit distance between two strings using
// two rolling rows.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
