package ladder

import (
	errs "github.com/matzehuels/ghostleg/pkg/errors"
)

// MinParticipants is the smallest ladder that can be generated or resolved.
const MinParticipants = 2

// MaxRows bounds the number of rows in a generated ladder.
const MaxRows = 10000

// Options configures ladder generation for [Generate].
type Options struct {
	// MinRows is the floor on the number of rows. Default: 8.
	MinRows int `json:"min_rows,omitempty" toml:"min_rows"`

	// RowsPerParticipant scales the row count with N. The matrix has
	// max(MinRows, RowsPerParticipant*N) rows. Default: 2.
	RowsPerParticipant int `json:"rows_per_participant,omitempty" toml:"rows_per_participant"`

	// Probability is the chance that a free slot receives a rung. Nil means
	// the default of 0.5; an explicit 0 yields a ladder without rungs.
	Probability *float64 `json:"probability,omitempty" toml:"probability"`
}

// DefaultProbability is the rung probability used when none is set.
const DefaultProbability = 0.5

// DefaultOptions returns the generation defaults.
func DefaultOptions() Options {
	return Options{
		MinRows:            8,
		RowsPerParticipant: 2,
		Probability:        Prob(DefaultProbability),
	}
}

// Prob returns a pointer to p for use in [Options.Probability].
func Prob(p float64) *float64 {
	return &p
}

// RungProbability returns the effective rung probability.
func (o Options) RungProbability() float64 {
	if o.Probability == nil {
		return DefaultProbability
	}
	return *o.Probability
}

// withDefaults fills zero fields with defaults.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinRows == 0 {
		o.MinRows = d.MinRows
	}
	if o.RowsPerParticipant == 0 {
		o.RowsPerParticipant = d.RowsPerParticipant
	}
	if o.Probability == nil {
		o.Probability = d.Probability
	}
	return o
}

// Validate checks the option ranges after defaults are applied.
func (o Options) Validate() error {
	o = o.withDefaults()
	if o.MinRows < 1 {
		return errs.New(errs.ErrCodeInvalidInput, "min_rows must be at least 1, got %d", o.MinRows)
	}
	if o.MinRows > MaxRows {
		return errs.New(errs.ErrCodeInvalidInput, "min_rows must be at most %d, got %d", MaxRows, o.MinRows)
	}
	if o.RowsPerParticipant < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "rows_per_participant must not be negative, got %d", o.RowsPerParticipant)
	}
	if o.RowsPerParticipant > MaxRows {
		return errs.New(errs.ErrCodeInvalidInput, "rows_per_participant must be at most %d, got %d", MaxRows, o.RowsPerParticipant)
	}
	if p := o.RungProbability(); p < 0 || p > 1 {
		return errs.New(errs.ErrCodeInvalidInput, "probability must be within [0, 1], got %g", p)
	}
	return nil
}

// ValidateFor checks the options and that the ladder for n participants
// stays within [MaxRows].
func (o Options) ValidateFor(n int) error {
	if err := o.Validate(); err != nil {
		return err
	}
	o = o.withDefaults()
	if n > 0 && o.RowsPerParticipant > MaxRows/n {
		return errs.New(errs.ErrCodeInvalidInput, "%d rows per participant for %d participants exceeds %d rows", o.RowsPerParticipant, n, MaxRows)
	}
	return nil
}

// RowCount returns the number of rows generated for n participants. The
// result is capped at [MaxRows].
func (o Options) RowCount(n int) int {
	o = o.withDefaults()
	if n > 0 && o.RowsPerParticipant > MaxRows/n {
		return MaxRows
	}
	return min(max(o.MinRows, o.RowsPerParticipant*n), MaxRows)
}

// Generate builds a random ladder for n participants.
//
// Rows are filled left to right. A slot whose left neighbour already holds a
// rung is skipped without consuming a draw; every other slot draws once from
// src and receives a rung when the draw exceeds 1-Probability. After a row is
// filled, a rung in the portal slot is dropped if slot 0 is also set, since
// column 0 would otherwise touch two rungs.
//
// Pass nil for opts to use [DefaultOptions]. Generate returns an
// INVALID_PARTICIPANT_COUNT error for n < 2, an INVALID_INPUT error when the
// ladder would exceed [MaxRows], and never a partial matrix.
func Generate(n int, src Source, opts *Options) (Matrix, error) {
	if n < MinParticipants {
		return Matrix{}, errs.New(errs.ErrCodeInvalidParticipantCount, "need at least %d participants, got %d", MinParticipants, n)
	}
	if src == nil {
		return Matrix{}, errs.New(errs.ErrCodeInvalidInput, "random source is required")
	}
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	if err := o.ValidateFor(n); err != nil {
		return Matrix{}, err
	}
	o = o.withDefaults()

	threshold := 1 - o.RungProbability()
	rows := make([][]bool, o.RowCount(n))
	for r := range rows {
		rows[r] = generateRow(n, src, threshold)
	}
	return Matrix{Columns: n, Rows: rows}, nil
}

func generateRow(n int, src Source, threshold float64) []bool {
	row := make([]bool, n)
	for col := range row {
		if col > 0 && row[col-1] {
			continue
		}
		row[col] = src.Float64() > threshold
	}
	if row[0] && row[n-1] {
		row[n-1] = false
	}
	return row
}
