package matcher

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/csmith/recordnise/model"
)

// ErrInvalidConfig is returned when a Config fails validation
var ErrInvalidConfig = errors.New("invalid matcher config")

// Names of the supported string distance metrics
const (
	MetricLevenshtein   = "levenshtein"
	MetricWagnerFischer = "wagner-fischer"
)

// FieldWeight pairs a record field with its influence on the match score (0-1)
type FieldWeight struct {
	Name   string  `koanf:"name"`
	Weight float64 `koanf:"weight"`
}

// Config controls how records are scored and ranked
type Config struct {
	// Keys are the fields matched against, with their weights
	Keys []FieldWeight
	// Threshold is the largest distance (0-1) a result may have
	Threshold float64
	// BubbleCutoff is the score difference below which results are re-ordered by duration
	BubbleCutoff float64
	// Metric names the string distance used for each field
	Metric string
}

// DefaultConfig returns the configuration used when nothing else is specified
func DefaultConfig() Config {
	return Config{
		Keys: []FieldWeight{
			{Name: model.FieldTitle, Weight: 0.9},
			{Name: model.FieldArtist, Weight: 0.8},
			{Name: model.FieldISRC, Weight: 1},
		},
		Threshold:    0.7,
		BubbleCutoff: 0.16,
		Metric:       MetricLevenshtein,
	}
}

// SearchKeys returns the names of the configured keys, heaviest first.
// Keys with equal weights keep their configured order.
func (c Config) SearchKeys() []string {
	keys := slices.Clone(c.Keys)
	slices.SortStableFunc(keys, func(a, b FieldWeight) int {
		return cmp.Compare(b.Weight, a.Weight)
	})

	names := make([]string, len(keys))
	for i := range keys {
		names[i] = keys[i].Name
	}
	return names
}

// KeyList describes the search keys as a human-readable list, e.g. "isrc, title and artist".
// The last two names are joined with lastConjunction (which should include any spacing);
// if it is empty every name is separated by a comma. Names in upper are upper-cased.
func (c Config) KeyList(lastConjunction string, upper ...string) string {
	names := c.SearchKeys()
	for i := range names {
		if slices.Contains(upper, names[i]) {
			names[i] = strings.ToUpper(names[i])
		}
	}

	if lastConjunction == "" || len(names) < 2 {
		return strings.Join(names, ", ")
	}

	last := len(names) - 1
	return strings.Join(names[:last], ", ") + lastConjunction + names[last]
}

// Validate checks that the configuration can be used for matching
func (c Config) Validate() error {
	if len(c.Keys) == 0 {
		return fmt.Errorf("%w: no keys configured", ErrInvalidConfig)
	}

	for _, key := range c.Keys {
		if key.Name == "" {
			return fmt.Errorf("%w: key with no name", ErrInvalidConfig)
		}
		if key.Weight < 0 || key.Weight > 1 {
			return fmt.Errorf("%w: weight for %s must be between 0 and 1, got %v", ErrInvalidConfig, key.Name, key.Weight)
		}
	}

	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("%w: threshold must be between 0 and 1, got %v", ErrInvalidConfig, c.Threshold)
	}

	if c.BubbleCutoff < 0 {
		return fmt.Errorf("%w: bubble cutoff must not be negative, got %v", ErrInvalidConfig, c.BubbleCutoff)
	}

	if _, ok := metrics[c.Metric]; !ok {
		return fmt.Errorf("%w: unknown metric %q", ErrInvalidConfig, c.Metric)
	}

	return nil
}

func (c Config) distance() distanceFunc {
	if fn, ok := metrics[c.Metric]; ok {
		return fn
	}
	return levenshteinDistance
}
