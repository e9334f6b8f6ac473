package model

import (
	"maps"
	"regexp"
	"slices"
)

// Field names with a meaning to the matcher
const (
	FieldTitle    = "title"
	FieldArtist   = "artist"
	FieldDuration = "duration"
	FieldISRC     = "isrc"
)

var isrcPattern = regexp.MustCompile(`^[A-Z0-9]{12}$`)

// Record represents a recording as a set of named string fields.
// Fields other than title, artist, duration and isrc are carried along untouched.
type Record map[string]string

// Title returns the recording's title
func (r Record) Title() string {
	return r[FieldTitle]
}

// Artist returns the recording's artist
func (r Record) Artist() string {
	return r[FieldArtist]
}

// Duration returns the recording's duration in seconds, as stored
func (r Record) Duration() string {
	return r[FieldDuration]
}

// ISRC returns the recording's ISRC
func (r Record) ISRC() string {
	return r[FieldISRC]
}

// IsEmpty reports whether the record has no fields at all. A record whose
// fields are all blank is not empty.
func (r Record) IsEmpty() bool {
	return len(r) == 0
}

// HasValidISRC reports whether the ISRC looks like a standard 12 character code
func (r Record) HasValidISRC() bool {
	return isrcPattern.MatchString(r.ISRC())
}

// Fields returns the names of all fields on the record, sorted
func (r Record) Fields() []string {
	return slices.Sorted(maps.Keys(r))
}

// Clone returns a copy of the record that shares no state with the original
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}
