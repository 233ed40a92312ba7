package search

import "math"

// epsilon stands in for a perfect score so it still weighs in products.
const epsilon = 2.220446049250313e-16

// matcher scores approximate occurrences of a pattern inside a text. A match
// costs errors/len(pattern) plus how far from location it starts, scaled by
// distance; anything above threshold is not a match.
type matcher struct {
	pattern   []rune
	threshold float64
	location  int
	distance  int
}

// score returns the best score of pattern within text.
func (m matcher) score(text []rune) (float64, bool) {
	plen := len(m.pattern)
	if plen == 0 || len(text) == 0 {
		return 0, false
	}

	// cost[i] is the edit distance between pattern[:i] and the best substring
	// of text ending at the current column; start[i] is where that substring
	// begins.
	prevCost := make([]int, plen+1)
	prevStart := make([]int, plen+1)
	cost := make([]int, plen+1)
	start := make([]int, plen+1)
	for i := 0; i <= plen; i++ {
		prevCost[i] = i
	}

	best := math.Inf(1)
	for j := 1; j <= len(text); j++ {
		cost[0] = 0
		start[0] = j
		for i := 1; i <= plen; i++ {
			c, s := prevCost[i-1], prevStart[i-1]
			if m.pattern[i-1] != text[j-1] {
				c++
			}

			if skip := cost[i-1] + 1; skip < c {
				c, s = skip, start[i-1]
			}
			if extra := prevCost[i] + 1; extra < c {
				c, s = extra, prevStart[i]
			}
			cost[i], start[i] = c, s
		}

		accuracy := float64(cost[plen]) / float64(plen)
		if accuracy <= m.threshold {
			if sc := m.compute(accuracy, start[plen]); sc < best {
				best = sc
			}
		}
		prevCost, cost = cost, prevCost
		prevStart, start = start, prevStart
	}

	if best > m.threshold {
		return best, false
	}
	return best, true
}

func (m matcher) compute(accuracy float64, at int) float64 {
	proximity := at - m.location
	if proximity < 0 {
		proximity = -proximity
	}
	if m.distance <= 0 {
		if proximity == 0 {
			return accuracy
		}
		return 1
	}
	return accuracy + float64(proximity)/float64(m.distance)
}
