package matcher

import (
	"strings"

	"github.com/csmith/recordnise/model"
)

// Serialize turns a record into a single space-separated string of field values.
// Only the named fields are included, in the order given; if no fields are named,
// every field on the record is used in sorted name order. Missing and empty values
// are skipped.
func Serialize(record model.Record, fields ...string) string {
	if record.IsEmpty() {
		return ""
	}

	if len(fields) == 0 {
		fields = record.Fields()
	}

	values := make([]string, 0, len(fields))
	for _, field := range fields {
		if value := record[field]; value != "" {
			values = append(values, value)
		}
	}

	return strings.Join(values, " ")
}
