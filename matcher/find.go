package matcher

import (
	"slices"

	"github.com/csmith/recordnise/model"
)

// Rank searches records for the best matches to a reference record.
// The reference is serialised using the configured keys, heaviest first. Unless
// duration is itself one of the keys, near-equal results are then re-ordered by how
// close their duration is to the reference's.
func Rank(records []model.Record, reference model.Record, cfg Config) []ScoredMatch {
	keys := cfg.SearchKeys()
	matches := Search(records, Serialize(reference, keys...), cfg)

	if reference.IsEmpty() || slices.Contains(keys, model.FieldDuration) {
		return matches
	}

	return Rebalance(matches, reference.Duration(), cfg.BubbleCutoff)
}

// Find returns the index of the record that best matches the reference,
// or -1 if none is within the threshold
func Find(records []model.Record, reference model.Record, cfg Config) int {
	if reference.IsEmpty() {
		return -1
	}

	matches := Rank(records, reference, cfg)
	if len(matches) == 0 {
		return -1
	}
	return matches[0].Index
}
