package matcher

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
)

// distanceFunc returns how different two strings are, from 0 (identical) to 1
type distanceFunc func(a, b string) float64

var metrics = map[string]distanceFunc{
	MetricLevenshtein:   levenshteinDistance,
	MetricWagnerFischer: wagnerFischerDistance,
}

// levenshteinDistance is the edit distance divided by the length of the longer string
func levenshteinDistance(a, b string) float64 {
	if a == b {
		return 0
	}

	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}

// wagnerFischerDistance weights a substitution as an insertion plus a deletion, so
// the worst case is the combined length of both strings
func wagnerFischerDistance(a, b string) float64 {
	if a == b {
		return 0
	}

	return float64(smetrics.WagnerFischer(a, b, 1, 1, 2)) / float64(len(a)+len(b))
}
