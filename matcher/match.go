package matcher

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/csmith/recordnise/model"
	"golang.org/x/text/unicode/norm"
)

var punctuation = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

// ScoredMatch is a record found by a search, along with how well it matched.
type ScoredMatch struct {
	Record model.Record
	// Index is the position of the record in the slice that was searched
	Index int
	// Score is a distance: 0 is a perfect match, 1 is no match at all
	Score float64
	// DurationDiff is the absolute difference from the reference duration, set by Rebalance
	DurationDiff int
}

// Search scores every record against the query and returns those within the
// configured threshold, best first.
//
// Matching is case-insensitive, ignores accents and punctuation, and works on
// whitespace-separated tokens. Each configured field present on a record is compared
// with the query both as a whole and token by token (whichever is closer); the
// weighted mean of those field distances is averaged with how closely each query
// token is found among the record's fields. Fields missing from a record play no part
// in its score, and a record with none of the configured fields scores 1.
//
// An empty query matches everything: all records are returned in their original
// order with a score of zero.
func Search(records []model.Record, query string, cfg Config) []ScoredMatch {
	if query == "" {
		matches := make([]ScoredMatch, len(records))
		for i := range records {
			matches[i] = ScoredMatch{Record: records[i], Index: i}
		}
		return matches
	}

	dist := cfg.distance()
	normalized := normalizeForMatching(query)
	tokens := strings.Fields(normalized)

	var matches []ScoredMatch
	for i, record := range records {
		score := scoreRecord(dist, normalized, tokens, record, cfg.Keys)
		if score > cfg.Threshold {
			continue
		}
		matches = append(matches, ScoredMatch{Record: record, Index: i, Score: score})
	}

	slices.SortStableFunc(matches, func(a, b ScoredMatch) int {
		return cmp.Compare(a.Score, b.Score)
	})

	return matches
}

// scoreRecord averages the weighted field distance with the distance from each query
// token to its closest record token
func scoreRecord(dist distanceFunc, query string, tokens []string, record model.Record, keys []FieldWeight) float64 {
	var total, weights float64
	var recordTokens []string

	for _, key := range keys {
		if key.Weight <= 0 {
			continue
		}

		value := normalizeForMatching(record[key.Name])
		if value == "" {
			continue
		}

		total += key.Weight * fieldDistance(dist, query, tokens, value)
		weights += key.Weight
		recordTokens = append(recordTokens, strings.Fields(value)...)
	}

	if weights == 0 {
		return 1
	}

	if len(tokens) == 0 {
		return total / weights
	}

	return (total/weights + coverage(dist, tokens, recordTokens)) / 2
}

// coverage is the mean distance from each query token to its closest record token
func coverage(dist distanceFunc, queryTokens []string, recordTokens []string) float64 {
	var total float64
	for _, queryToken := range queryTokens {
		total += closest(dist, queryToken, recordTokens)
	}
	return total / float64(len(queryTokens))
}

func closest(dist distanceFunc, token string, candidates []string) float64 {
	best := 1.0
	for _, candidate := range candidates {
		best = min(best, dist(token, candidate))
		if best == 0 {
			break
		}
	}
	return best
}

// fieldDistance compares a query with a single field value. Each token of the value
// is paired with its closest query token, so a query naming several fields can still
// match each of them exactly.
func fieldDistance(dist distanceFunc, query string, queryTokens []string, value string) float64 {
	whole := dist(query, value)
	if whole == 0 || len(queryTokens) == 0 {
		return whole
	}

	valueTokens := strings.Fields(value)
	var total float64
	for _, valueToken := range valueTokens {
		total += closest(dist, valueToken, queryTokens)
	}

	return min(whole, total/float64(len(valueTokens)))
}

func normalizeForMatching(s string) string {
	if s == "" {
		return ""
	}

	// Strip accents
	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		if !unicode.IsMark(r) {
			b.WriteRune(r)
		}
	}

	s = strings.ToLower(b.String())
	s = punctuation.ReplaceAllString(s, " ")

	// Clean up whitespace
	return strings.Join(strings.Fields(s), " ")
}
