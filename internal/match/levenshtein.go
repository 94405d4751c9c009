package match

import "slices"

// Levenshtein returns the edit distance between a and b, counted in bytes.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	if len(a) > len(b) {
		a, b = b, a
	}

	if len(a) == 0 {
		return len(b)
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// Similarity is 1 - distance/maxLen over normalized keys; 1.0 means equal.
func Similarity(a, b string) float64 {
	na, nb := NormalizeKey(a), NormalizeKey(b)
	if na == "" && nb == "" {
		return 1
	}

	return 1 - float64(Levenshtein(na, nb))/float64(max(len(na), len(nb)))
}

// DefaultThreshold is the minimum Similarity for a suggestion.
const DefaultThreshold = 0.6

// Suggest returns the candidates resembling name, best first. Ties keep the
// candidates' order.
func Suggest(name string, candidates []string, threshold float64) []string {
	type scored struct {
		name  string
		score float64
	}

	var hits []scored

	for _, c := range candidates {
		if s := Similarity(name, c); s >= threshold {
			hits = append(hits, scored{c, s})
		}
	}

	slices.SortStableFunc(hits, func(x, y scored) int {
		switch {
		case x.score > y.score:
			return -1
		case x.score < y.score:
			return 1
		default:
			return 0
		}
	})

	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.name)
	}

	return out
}
