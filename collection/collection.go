// Package collection holds the canonical set of registered recordings.
package collection

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/csmith/recordnise/matcher"
	"github.com/csmith/recordnise/model"
)

// ErrInvalidState is returned when a collection is used before any records were loaded
var ErrInvalidState = errors.New("collection has not been loaded")

// Direction is the order a field is sorted in
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// DefaultSort lists the fields that define a collection's resting order
var DefaultSort = []string{model.FieldTitle, model.FieldArtist}

// Collection is an ordered store of records. The zero value is an unloaded
// collection; use New or Load to create a usable one.
//
// Every method hands out copies, so callers can never modify the stored records.
// A Collection is not safe for concurrent use: callers that share one must
// serialise access themselves.
type Collection struct {
	records []model.Record
	loaded  bool
}

// New creates a loaded collection holding copies of the given records, in canonical order
func New(records []model.Record) *Collection {
	c := &Collection{
		records: make([]model.Record, 0, len(records)),
		loaded:  true,
	}
	for _, record := range records {
		c.records = append(c.records, record.Clone())
	}
	sortRecords(c.records, DefaultSort, nil)
	return c
}

// Load creates a collection from the recordings provided by a source
func Load(source model.Source) (*Collection, error) {
	records, err := source.Recordings()
	if err != nil {
		return nil, fmt.Errorf("failed to load recordings: %w", err)
	}

	slog.Debug("Loaded collection", "count", len(records))
	return New(records), nil
}

// Loaded reports whether the collection has been initialised
func (c *Collection) Loaded() bool {
	return c.loaded
}

// Len returns the number of records in the collection
func (c *Collection) Len() int {
	return len(c.records)
}

// Records returns a copy of every record, in the collection's current order
func (c *Collection) Records() []model.Record {
	return cloneAll(c.records)
}

// Add inserts a record and restores the canonical order. Adding an empty record
// leaves the collection as it was.
func (c *Collection) Add(record model.Record) ([]model.Record, error) {
	if !c.loaded {
		return nil, fmt.Errorf("can't add to collection: %w", ErrInvalidState)
	}

	if record.IsEmpty() {
		return c.Records(), nil
	}

	c.records = append(c.records, record.Clone())
	sortRecords(c.records, DefaultSort, nil)

	slog.Debug("Added record", "title", record.Title(), "artist", record.Artist(), "count", len(c.records))
	return c.Records(), nil
}

// Remove deletes every record with the same content as the given one, compared by
// serialising all of their fields. Removing an empty record leaves the collection as it was.
func (c *Collection) Remove(record model.Record) ([]model.Record, error) {
	if !c.loaded {
		return nil, fmt.Errorf("can't remove from collection: %w", ErrInvalidState)
	}

	if record.IsEmpty() {
		return c.Records(), nil
	}

	target := matcher.Serialize(record)
	before := len(c.records)
	c.records = slices.DeleteFunc(c.records, func(item model.Record) bool {
		return matcher.Serialize(item) == target
	})

	slog.Debug("Removed records", "removed", before-len(c.records), "count", len(c.records))
	return c.Records(), nil
}

// Sort re-orders the collection by the given fields. Directions pair up with fields;
// any field without one is sorted ascending. Records that compare equal keep their
// relative order.
func (c *Collection) Sort(fields []string, directions []Direction) ([]model.Record, error) {
	if !c.loaded {
		return nil, fmt.Errorf("can't sort collection: %w", ErrInvalidState)
	}

	sortRecords(c.records, fields, directions)
	return c.Records(), nil
}

// HasDuplicateKey reports whether another record already uses the given record's ISRC.
// Records without an ISRC never clash.
func (c *Collection) HasDuplicateKey(record model.Record) bool {
	if !c.loaded || record.IsEmpty() || record.ISRC() == "" {
		return false
	}

	return slices.ContainsFunc(c.records, func(item model.Record) bool {
		return item.ISRC() == record.ISRC()
	})
}

// Search returns the records matching a free-text query, best first.
// An empty query returns the whole collection.
func (c *Collection) Search(query string, cfg matcher.Config) []model.Record {
	return plain(c.SearchScored(query, cfg))
}

// SearchScored is Search, keeping the scores
func (c *Collection) SearchScored(query string, cfg matcher.Config) []matcher.ScoredMatch {
	if !c.loaded {
		return nil
	}
	return cloneMatches(matcher.Search(c.records, query, cfg))
}

// Match returns the records matching a reference record, best first, with
// near-ties broken by duration
func (c *Collection) Match(reference model.Record, cfg matcher.Config) []model.Record {
	return plain(c.MatchScored(reference, cfg))
}

// MatchScored is Match, keeping the scores and duration differences
func (c *Collection) MatchScored(reference model.Record, cfg matcher.Config) []matcher.ScoredMatch {
	if !c.loaded {
		return nil
	}
	return cloneMatches(matcher.Rank(c.records, reference, cfg))
}

func sortRecords(records []model.Record, fields []string, directions []Direction) {
	slices.SortStableFunc(records, func(a, b model.Record) int {
		for i, field := range fields {
			res := strings.Compare(a[field], b[field])
			if i < len(directions) && directions[i] == Descending {
				res = -res
			}
			if res != 0 {
				return res
			}
		}
		return 0
	})
}

func cloneAll(records []model.Record) []model.Record {
	res := make([]model.Record, len(records))
	for i := range records {
		res[i] = records[i].Clone()
	}
	return res
}

func cloneMatches(matches []matcher.ScoredMatch) []matcher.ScoredMatch {
	for i := range matches {
		matches[i].Record = matches[i].Record.Clone()
	}
	return matches
}

func plain(matches []matcher.ScoredMatch) []model.Record {
	res := make([]model.Record, len(matches))
	for i := range matches {
		res[i] = matches[i].Record
	}
	return res
}
