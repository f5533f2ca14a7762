package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	errs "github.com/matzehuels/ghostleg/pkg/errors"
	"github.com/matzehuels/ghostleg/pkg/game"
)

// bom is the UTF-8 byte order mark written ahead of CSV results.
const bom = "\uFEFF"

// WriteJSON encodes a round as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(r *game.Round, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a round to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(r *game.Round, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteJSON(r, w) })
}

// WriteResultsCSV writes the round's standings to w as rank,id,name lines,
// rank ascending, preceded by a UTF-8 byte order mark.
func WriteResultsCSV(r *game.Round, w io.Writer) error {
	if r == nil {
		return errs.New(errs.ErrCodeInvalidInput, "no round to export")
	}
	if _, err := io.WriteString(w, bom); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}
	cw := csv.NewWriter(w)
	for _, p := range r.Placements {
		if err := cw.Write([]string{strconv.Itoa(p.Rank), p.Participant.ID, p.Participant.Name}); err != nil {
			return fmt.Errorf("write rank %d: %w", p.Rank, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportResultsCSV writes the round's standings to a CSV file at path.
func ExportResultsCSV(r *game.Round, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteResultsCSV(r, w) })
}

// ResultsFilename returns the default results file name for t, e.g.
// ladder_results_2024-03-01T09-30-00.csv. Colons are replaced so the name
// is valid on every filesystem.
func ResultsFilename(t time.Time) string {
	return "ladder_results_" + t.UTC().Format("2006-01-02T15-04-05") + ".csv"
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
