package roster

import (
	"bufio"
	"io"
	"strings"

	errs "github.com/matzehuels/ghostleg/pkg/errors"
)

const bom = "\uFEFF"

// ImportResult summarizes a roster import.
type ImportResult struct {
	// Participants holds the parsed entries in file order, duplicates removed.
	Participants []Participant `json:"participants"`

	// Added counts participants appended to the roster.
	Added int `json:"added"`

	// Duplicates counts lines whose ID was already present.
	Duplicates int `json:"duplicates"`

	// Skipped counts non-blank lines that were not usable (fewer than two
	// fields, or an invalid ID or name).
	Skipped int `json:"skipped"`
}

// ParseCSV reads id,name lines from rd into a fresh roster.
// See [Roster.Import] for the accepted format.
func ParseCSV(rd io.Reader) (*Roster, ImportResult, error) {
	r := &Roster{}
	res, err := r.Import(rd)
	if err != nil {
		return nil, ImportResult{}, err
	}
	return r, res, nil
}

// Import appends participants read from rd.
//
// Each non-blank line holds "id,name"; fields are trimmed and anything after
// the second field is ignored. Lines with fewer than two fields or with an
// invalid ID or name are skipped. A line whose ID is already registered is
// counted as a duplicate and skipped. A leading UTF-8 byte-order mark is
// ignored so spreadsheet exports load directly.
//
// Import only fails on read errors; the roster keeps every participant added
// before the failure.
func (r *Roster) Import(rd io.Reader) (ImportResult, error) {
	var res ImportResult
	sc := bufio.NewScanner(rd)
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			line = strings.TrimPrefix(line, bom)
			first = false
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			res.Skipped++
			continue
		}
		p := Participant{ID: strings.TrimSpace(parts[0]), Name: strings.TrimSpace(parts[1])}
		if err := p.Validate(); err != nil {
			res.Skipped++
			continue
		}
		if r.Contains(p.ID) {
			res.Duplicates++
			continue
		}
		r.participants = append(r.participants, p)
		res.Participants = append(res.Participants, p)
		res.Added++
	}
	if err := sc.Err(); err != nil {
		return res, errs.Wrap(errs.ErrCodeInvalidInput, err, "read roster")
	}
	return res, nil
}
