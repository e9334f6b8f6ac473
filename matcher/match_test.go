package matcher

import (
	"testing"

	"github.com/csmith/recordnise/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var database = []model.Record{
	{
		"title":    "Yesterday",
		"artist":   "The Beatles",
		"isrc":     "GBAYE6500524",
		"duration": "125",
	},
	{
		"title":    "Hey Jude",
		"artist":   "The Beatles",
		"isrc":     "GBAYE6800011",
		"duration": "431",
	},
	{
		"title":    "Bohemian Rhapsody",
		"artist":   "Queen",
		"isrc":     "GBUM71029604",
		"duration": "355",
		"label":    "EMI",
	},
}

func TestNormalizeForMatching(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercase conversion",
			input:    "Artist Name",
			expected: "artist name",
		},
		{
			name:     "strip accents",
			input:    "Beyoncé",
			expected: "beyonce",
		},
		{
			name:     "punctuation becomes space",
			input:    "AC/DC",
			expected: "ac dc",
		},
		{
			name:     "parentheses kept as words",
			input:    "Song (Live)",
			expected: "song live",
		},
		{
			name:     "normalize whitespace",
			input:    "  Song   With    Spaces ",
			expected: "song with spaces",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeForMatching(tt.input))
		})
	}
}

func TestDistanceMetrics(t *testing.T) {
	tests := []struct {
		name     string
		fn       distanceFunc
		a, b     string
		expected float64
	}{
		{name: "levenshtein identical", fn: levenshteinDistance, a: "yesterday", b: "yesterday", expected: 0},
		{name: "levenshtein both empty", fn: levenshteinDistance, a: "", b: "", expected: 0},
		{name: "levenshtein disjoint", fn: levenshteinDistance, a: "abc", b: "xyz", expected: 1},
		{name: "levenshtein one empty", fn: levenshteinDistance, a: "", b: "abc", expected: 1},
		{name: "levenshtein kitten", fn: levenshteinDistance, a: "kitten", b: "sitting", expected: 3.0 / 7.0},
		{name: "levenshtein counts runes", fn: levenshteinDistance, a: "café", b: "cafe", expected: 0.25},
		{name: "wagner-fischer identical", fn: wagnerFischerDistance, a: "yesterday", b: "yesterday", expected: 0},
		{name: "wagner-fischer disjoint", fn: wagnerFischerDistance, a: "abc", b: "xyz", expected: 1},
		{name: "wagner-fischer one substitution", fn: wagnerFischerDistance, a: "abcd", b: "abxd", expected: 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.fn(tt.a, tt.b), 1e-9)
		})
	}
}

func TestDistanceMetrics_monotonic(t *testing.T) {
	for name, fn := range metrics {
		t.Run(name, func(t *testing.T) {
			original := "yesterday"
			edits := []string{"yesterday", "yesterdax", "yesterdxx", "yestxrdxx", "yxstxrdxx"}
			previous := -1.0
			for _, edited := range edits {
				d := fn(original, edited)
				assert.GreaterOrEqual(t, d, previous, "distance to %q", edited)
				assert.LessOrEqual(t, d, 1.0)
				previous = d
			}
		})
	}
}

func TestSearch_emptyQueryReturnsEverything(t *testing.T) {
	matches := Search(database, "", DefaultConfig())

	require.Len(t, matches, len(database))
	for i := range matches {
		assert.Equal(t, database[i], matches[i].Record)
		assert.Equal(t, i, matches[i].Index)
		assert.Zero(t, matches[i].Score)
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name          string
		records       []model.Record
		query         string
		cfg           func(*Config)
		expectedFirst model.Record
		expectedCount *int
	}{
		{
			name:          "title match ranks first",
			records:       database,
			query:         "yesterday",
			expectedFirst: database[0],
		},
		{
			name:          "case insensitive",
			records:       []model.Record{{"title": "yesterday"}},
			query:         "YESTERDAY",
			expectedFirst: model.Record{"title": "yesterday"},
		},
		{
			name:          "nothing similar",
			records:       database,
			query:         "zzzzzzzz",
			expectedCount: intPtr(0),
		},
		{
			name:          "record without any keyed field is dropped",
			records:       []model.Record{{"label": "EMI"}},
			query:         "EMI",
			expectedCount: intPtr(0),
		},
		{
			name:          "record without any keyed field kept at maximum threshold",
			records:       []model.Record{{"label": "EMI"}},
			query:         "EMI",
			cfg:           func(c *Config) { c.Threshold = 1 },
			expectedFirst: model.Record{"label": "EMI"},
			expectedCount: intPtr(1),
		},
		{
			name:          "all records kept at maximum threshold",
			records:       database,
			query:         "yesterday",
			cfg:           func(c *Config) { c.Threshold = 1 },
			expectedFirst: database[0],
			expectedCount: intPtr(3),
		},
		{
			name:          "wagner-fischer metric",
			records:       database,
			query:         "Bohemian Rhapsody Queen",
			cfg:           func(c *Config) { c.Metric = MetricWagnerFischer },
			expectedFirst: database[2],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}

			matches := Search(tt.records, tt.query, cfg)

			if tt.expectedCount != nil {
				assert.Len(t, matches, *tt.expectedCount)
			}
			if tt.expectedFirst != nil {
				require.NotEmpty(t, matches)
				assert.Equal(t, tt.expectedFirst, matches[0].Record)
			}
		})
	}
}

func TestSearch_missingFieldsGiveNoSignal(t *testing.T) {
	records := []model.Record{
		{"title": "Yesterday"},
		{"title": "Yesterday", "artist": "The Beatles"},
	}

	matches := Search(records, "yesterday", DefaultConfig())

	require.Len(t, matches, 2)
	assert.Equal(t, 0, matches[0].Index)
	assert.Zero(t, matches[0].Score)
	assert.Greater(t, matches[1].Score, 0.0)
}

func TestSearch_resultsWithinThresholdAndSorted(t *testing.T) {
	queries := []string{"yesterday", "beatles", "queen rhapsody", "hey jude", "GBAYE", "the", "jude beatles 431"}
	thresholds := []float64{0, 0.3, 0.5, 0.7, 1}

	for _, query := range queries {
		for _, threshold := range thresholds {
			cfg := DefaultConfig()
			cfg.Threshold = threshold

			matches := Search(database, query, cfg)

			previous := 0.0
			seen := make(map[int]bool)
			for _, match := range matches {
				assert.LessOrEqual(t, match.Score, threshold, "query %q", query)
				assert.GreaterOrEqual(t, match.Score, previous, "query %q", query)
				assert.Equal(t, database[match.Index], match.Record, "query %q", query)
				assert.False(t, seen[match.Index], "query %q returned a record twice", query)
				seen[match.Index] = true
				previous = match.Score
			}
		}
	}
}

func intPtr(i int) *int {
	return &i
}
