// Package match implements the compatibility scoring between two users'
// lifestyle attribute bags. It is the fine-grained half of the two-phase
// match design: the store narrows candidates by indexed fields (gender,
// location) and this package ranks whatever survives, so new attribute keys
// never need a schema change.
package match

import (
	"math"
	"strings"
)

// Score computes the percentage overlap between the caller's attributes and
// a candidate's. For every key in mine, the candidate matches when it has the
// same value under the same key, compared case-insensitively. Keys missing
// from theirs simply never match; they are not wildcards.
//
// The result is round(matches/len(mine)*100) using math.Round, i.e. halves
// round away from zero (1/8 of the keys -> 13, not 12). An empty mine scores
// 0 rather than dividing by zero. Pure and deterministic.
func Score(mine, theirs map[string]string) int {
	if len(mine) == 0 {
		return 0
	}
	matches := 0
	for k, v := range mine {
		if other, ok := theirs[k]; ok && strings.EqualFold(v, other) {
			matches++
		}
	}
	return int(math.Round(float64(matches) / float64(len(mine)) * 100))
}
