package sources

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/csmith/recordnise/model"
)

// Delimiters tried, in order of preference, when none is specified
var candidateDelimiters = []rune{',', ';', '\t', '|'}

// Fields written first, in this order, when exporting records
var leadingFields = []string{model.FieldTitle, model.FieldArtist, model.FieldISRC, model.FieldDuration}

// CSV is a source that reads recordings from a delimited text file with a header row
type CSV struct {
	Path string
	// Delimiter separates fields; if zero it is detected from the header row
	Delimiter rune
}

// Recordings reads every recording from the file
func (c *CSV) Recordings() ([]model.Record, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	slog.Debug("Reading recordings", "source", "csv", "path", c.Path)

	records, err := ReadCSV(f, c.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.Path, err)
	}

	slog.Debug("Read recordings", "count", len(records), "source", "csv", "path", c.Path)
	return records, nil
}

// ReadCSV parses delimited text into records, naming fields after the header row.
// Blank lines are skipped, as are rows where every value is blank.
func ReadCSV(r io.Reader, delimiter rune) ([]model.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	if delimiter == 0 {
		delimiter = detectDelimiter(data)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []model.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if isBlank(row) {
			continue
		}

		record := make(model.Record, len(header))
		for i, name := range header {
			if name != "" && i < len(row) {
				record[name] = row[i]
			}
		}
		records = append(records, record)
	}

	return records, nil
}

// WriteCSV writes records as comma-separated text with a header row. The title,
// artist, isrc and duration columns come first, followed by any other fields in
// name order.
func WriteCSV(w io.Writer, records []model.Record) error {
	seen := make(map[string]bool)
	for _, record := range records {
		for name := range record {
			seen[name] = true
		}
	}

	var header []string
	for _, name := range leadingFields {
		if seen[name] {
			header = append(header, name)
			delete(seen, name)
		}
	}
	extra := make([]string, 0, len(seen))
	for name := range seen {
		extra = append(extra, name)
	}
	slices.Sort(extra)
	header = append(header, extra...)

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for _, record := range records {
		for i, name := range header {
			row[i] = record[name]
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// detectDelimiter picks the candidate that occurs most often in the first non-empty line
func detectDelimiter(data []byte) rune {
	var line string
	for l := range strings.Lines(string(data)) {
		if strings.TrimSpace(l) != "" {
			line = l
			break
		}
	}

	best, bestCount := candidateDelimiters[0], 0
	for _, delimiter := range candidateDelimiters {
		if count := strings.Count(line, string(delimiter)); count > bestCount {
			best, bestCount = delimiter, count
		}
	}
	return best
}

func isBlank(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

var _ model.Source = &CSV{}
