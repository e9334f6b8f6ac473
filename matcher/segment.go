package matcher

import (
	"cmp"
	"slices"

	"github.com/csmith/recordnise/model"
)

// Pair is an input record and the database record it was matched with
type Pair struct {
	Input    model.Record
	Database model.Record
	Score    float64
}

type SegmentResult struct {
	Matched   []Pair
	Unmatched []model.Record
	Unused    []model.Record
}

type matchCandidate struct {
	inputIndex    int
	databaseIndex int
	score         float64
	durationDiff  int
}

// Segment matches input records against database records, pairing each database
// record with at most one input
func Segment(inputs []model.Record, database []model.Record, cfg Config) SegmentResult {
	result := SegmentResult{
		Matched:   make([]Pair, 0),
		Unmatched: make([]model.Record, 0),
		Unused:    make([]model.Record, 0),
	}

	// Find all possible matches
	var candidates []matchCandidate
	for i, input := range inputs {
		if input.IsEmpty() {
			continue
		}
		for _, match := range Rank(database, input, cfg) {
			candidates = append(candidates, matchCandidate{
				inputIndex:    i,
				databaseIndex: match.Index,
				score:         match.Score,
				durationDiff:  match.DurationDiff,
			})
		}
	}

	// Best scores first, closest durations breaking ties
	slices.SortStableFunc(candidates, func(a, b matchCandidate) int {
		return cmp.Or(
			cmp.Compare(a.score, b.score),
			cmp.Compare(a.durationDiff, b.durationDiff),
		)
	})

	// Greedy matching: pick best scores first
	matchedInput := make(map[int]int)
	matchedDatabase := make(map[int]bool)
	scores := make(map[int]float64)

	for _, candidate := range candidates {
		if _, ok := matchedInput[candidate.inputIndex]; ok || matchedDatabase[candidate.databaseIndex] {
			continue
		}
		matchedInput[candidate.inputIndex] = candidate.databaseIndex
		matchedDatabase[candidate.databaseIndex] = true
		scores[candidate.inputIndex] = candidate.score
	}

	// Populate results
	for i, input := range inputs {
		if j, ok := matchedInput[i]; ok {
			result.Matched = append(result.Matched, Pair{
				Input:    input,
				Database: database[j],
				Score:    scores[i],
			})
		} else {
			result.Unmatched = append(result.Unmatched, input)
		}
	}

	for j, record := range database {
		if !matchedDatabase[j] {
			result.Unused = append(result.Unused, record)
		}
	}

	return result
}
