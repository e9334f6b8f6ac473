package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/csmith/envflag/v2"
	"github.com/csmith/recordnise/collection"
	"github.com/csmith/recordnise/config"
	"github.com/csmith/recordnise/matcher"
	"github.com/csmith/recordnise/model"
	"github.com/csmith/recordnise/sources"
	"github.com/csmith/slogflags"
)

var (
	databasePath = flag.String("database", "", "Path to the CSV file of registered recordings")
	inputsPath   = flag.String("inputs", "", "Path to the CSV file of recordings to match")
	configPath   = flag.String("config", "", "Path to a TOML file with matching options")
	outputPath   = flag.String("output", "", "Path to write the resulting database to as CSV")

	query     = flag.String("query", "", "Search the database for this text instead of matching inputs")
	limit     = flag.Int("limit", 3, "Maximum number of candidates to show for each search or unmatched input")
	sortOrder = flag.String("sort", "", "Comma-separated fields to sort the output by; prefix a field with - to sort descending")

	register           = flag.Bool("register", false, "Add inputs without a match to the database")
	allowDuplicateISRC = flag.Bool("allow-duplicate-isrc", false, "Register inputs even if their ISRC is already in the database")
	dryRun             = flag.Bool("dry-run", false, "Don't actually change anything, just print what would happen")
)

func main() {
	envflag.Parse()
	_ = slogflags.Logger(slogflags.WithSetDefault(true))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	if *databasePath == "" {
		slog.Error("Database must be specified")
		os.Exit(1)
	}

	db, err := collection.Load(&sources.CSV{Path: *databasePath})
	if err != nil {
		slog.Error("Failed to load database", "path", *databasePath, "error", err)
		os.Exit(1)
	}

	if *query != "" {
		search(db, cfg)
		return
	}

	if err := run(db, cfg); err != nil {
		slog.Error("Failed to match inputs", "error", err)
		os.Exit(1)
	}

	if err := output(db); err != nil {
		slog.Error("Failed to write database", "path", *outputPath, "error", err)
		os.Exit(1)
	}
}

func search(db *collection.Collection, cfg matcher.Config) {
	results := db.SearchScored(*query, cfg)

	slog.Info(
		"Searched database",
		"query", *query,
		"keys", cfg.KeyList(" and ", model.FieldISRC),
		"results", len(results),
		"database_count", db.Len(),
	)

	for _, result := range results[:min(max(*limit, 0), len(results))] {
		slog.Info("Found", "title", result.Record.Title(), "artist", result.Record.Artist(), "isrc", result.Record.ISRC(), "score", result.Score)
	}
}

func run(db *collection.Collection, cfg matcher.Config) error {
	if *inputsPath == "" {
		return fmt.Errorf("inputs must be specified")
	}

	src := &sources.CSV{Path: *inputsPath}
	inputs, err := src.Recordings()
	if err != nil {
		return fmt.Errorf("failed to load inputs: %w", err)
	}

	segment := matcher.Segment(inputs, db.Records(), cfg)

	slog.Info(
		"Calculated matches",
		"input_count", len(inputs),
		"database_count", db.Len(),
		"matched", len(segment.Matched),
		"unmatched", len(segment.Unmatched),
	)

	for _, pair := range segment.Matched {
		slog.Info(
			"Matched",
			"title", pair.Input.Title(),
			"artist", pair.Input.Artist(),
			"database_title", pair.Database.Title(),
			"database_artist", pair.Database.Artist(),
			"database_isrc", pair.Database.ISRC(),
			"score", pair.Score,
		)
	}

	for _, input := range segment.Unmatched {
		slog.Info("No match", "title", input.Title(), "artist", input.Artist(), "isrc", input.ISRC())
		candidates := db.MatchScored(input, cfg)
		for _, candidate := range candidates[:min(max(*limit, 0), len(candidates))] {
			slog.Debug("Candidate already matched", "title", candidate.Record.Title(), "artist", candidate.Record.Artist(), "score", candidate.Score, "duration_diff", candidate.DurationDiff)
		}
	}

	if !*register {
		return nil
	}

	for _, input := range segment.Unmatched {
		if err := registerRecording(db, input); err != nil {
			return err
		}
	}

	return nil
}

func registerRecording(db *collection.Collection, record model.Record) error {
	if record.ISRC() != "" && !record.HasValidISRC() {
		slog.Warn("ISRC doesn't look like a standard code", "isrc", record.ISRC(), "title", record.Title())
	}

	if db.HasDuplicateKey(record) && !*allowDuplicateISRC {
		slog.Warn("Skipping registration, ISRC is already registered", "isrc", record.ISRC(), "title", record.Title(), "artist", record.Artist())
		return nil
	}

	if *dryRun {
		slog.Info("Would register", "title", record.Title(), "artist", record.Artist(), "isrc", record.ISRC())
		return nil
	}

	if _, err := db.Add(record); err != nil {
		return fmt.Errorf("failed to register %q: %w", record.Title(), err)
	}

	slog.Info("Registered", "title", record.Title(), "artist", record.Artist(), "isrc", record.ISRC(), "database_count", db.Len())
	return nil
}

func output(db *collection.Collection) error {
	if *sortOrder != "" {
		fields, directions := parseSortOrder(*sortOrder)
		if _, err := db.Sort(fields, directions); err != nil {
			return err
		}
	}

	if *outputPath == "" || *dryRun {
		return nil
	}

	f, err := os.Create(*outputPath)
	if err != nil {
		return err
	}

	if err := sources.WriteCSV(f, db.Records()); err != nil {
		_ = f.Close()
		return err
	}

	slog.Info("Wrote database", "path", *outputPath, "count", db.Len())
	return f.Close()
}

func parseSortOrder(order string) ([]string, []collection.Direction) {
	var fields []string
	var directions []collection.Direction

	for _, field := range strings.Split(order, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		direction := collection.Ascending
		if strings.HasPrefix(field, "-") {
			direction = collection.Descending
			field = field[1:]
		}

		fields = append(fields, field)
		directions = append(directions, direction)
	}

	return fields, directions
}
