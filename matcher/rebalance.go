package matcher

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"
)

const epsilon = 0x1p-52

// Rebalance re-orders ranked results so that, among results whose scores are within
// bubbleCutoff of each other, those closest in duration to the reference come first.
// Results further apart than the cutoff keep their relative order.
//
// Scores are rounded to two decimal places and DurationDiff is filled in. A result
// with no duration counts as 0 seconds long, except the top result which counts as
// one second longer than the reference: only a result with a near-identical duration
// can displace it. The records themselves are not modified.
func Rebalance(results []ScoredMatch, referenceDuration string, bubbleCutoff float64) []ScoredMatch {
	reference := parseDuration(referenceDuration)

	balanced := make([]ScoredMatch, len(results))
	for i, result := range results {
		duration := 0
		if i == 0 {
			duration = reference + 1
		}
		if value := result.Record.Duration(); value != "" {
			duration = parseDuration(value)
		}

		result.DurationDiff = abs(duration - reference)
		result.Score = roundScore(result.Score)
		balanced[i] = result
	}

	// Not a strict weak ordering when scores cluster, so this must stay a stable sort
	slices.SortStableFunc(balanced, func(a, b ScoredMatch) int {
		if math.Abs(a.Score-b.Score) < bubbleCutoff {
			return cmp.Compare(a.DurationDiff, b.DurationDiff)
		}
		return 0
	})

	return balanced
}

func roundScore(score float64) float64 {
	if score == 0 || math.IsNaN(score) {
		return 0
	}
	return math.Round((score+epsilon)*100) / 100
}

// parseDuration reads the leading integer from a duration, returning 0 if there is none
func parseDuration(s string) int {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
