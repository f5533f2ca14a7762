package ladder

import (
	errs "github.com/matzehuels/ghostleg/pkg/errors"
)

// Matrix is a row-major rung layout.
//
// Rows[r][c] reports whether a rung joins column c and column (c+1) mod
// Columns at row r. Slot Columns-1 is the portal rung joining the last
// column to the first.
type Matrix struct {
	Columns int      `json:"columns"`
	Rows    [][]bool `json:"rows"`
}

// RowCount returns the number of rows in the matrix.
func (m Matrix) RowCount() int { return len(m.Rows) }

// Rung reports whether a rung starts at column col in row row.
// Out-of-range coordinates report false.
func (m Matrix) Rung(row, col int) bool {
	if row < 0 || row >= len(m.Rows) || col < 0 || col >= len(m.Rows[row]) {
		return false
	}
	return m.Rows[row][col]
}

// RungCount returns the total number of rungs, portal rungs included.
func (m Matrix) RungCount() int {
	n := 0
	for _, row := range m.Rows {
		for _, ok := range row {
			if ok {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy of the matrix.
func (m Matrix) Clone() Matrix {
	rows := make([][]bool, len(m.Rows))
	for i, row := range m.Rows {
		rows[i] = append([]bool(nil), row...)
	}
	return Matrix{Columns: m.Columns, Rows: rows}
}

// checkShape verifies the column count and that every row is Columns wide.
func (m Matrix) checkShape() error {
	if m.Columns < MinParticipants {
		return errs.New(errs.ErrCodeColumnOutOfRange, "matrix has %d columns, need at least %d", m.Columns, MinParticipants)
	}
	for r, row := range m.Rows {
		if len(row) != m.Columns {
			return errs.New(errs.ErrCodeColumnOutOfRange, "row %d has width %d, want %d", r, len(row), m.Columns)
		}
	}
	return nil
}

// Check verifies that m is a well-formed ladder: every row is Columns wide,
// no column is the right end of one rung and the left end of another in the
// same row, and the first and last slots are never both set.
//
// [Generate] always produces matrices that pass Check. It exists for matrices
// that arrive from outside (files, HTTP requests).
func (m Matrix) Check() error {
	if err := m.checkShape(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidMatrix, err, "malformed matrix")
	}
	for r, row := range m.Rows {
		for c := 1; c < m.Columns; c++ {
			if row[c-1] && row[c] {
				return errs.New(errs.ErrCodeInvalidMatrix, "row %d: adjacent rungs at columns %d and %d", r, c-1, c)
			}
		}
		if row[0] && row[m.Columns-1] {
			return errs.New(errs.ErrCodeInvalidMatrix, "row %d: portal rung collides with rung at column 0", r)
		}
	}
	return nil
}
