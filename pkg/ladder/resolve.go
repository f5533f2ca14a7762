package ladder

import (
	"context"

	"golang.org/x/sync/errgroup"

	errs "github.com/matzehuels/ghostleg/pkg/errors"
)

// Resolve walks start down the ladder and returns its terminal column.
// The participant's rank is the terminal column plus one.
//
// At every row the walker first looks at the rung on its left (slot
// (col-1+N) mod N) and then at the rung on its right (slot col). The left
// rung wins when both are set; [Generate] never produces such rows, but
// hand-built matrices may.
//
// Resolve returns a COLUMN_OUT_OF_RANGE error when start is outside [0, N)
// or when a row's width disagrees with m.Columns.
func Resolve(m Matrix, start int) (int, error) {
	if err := checkStart(m, start); err != nil {
		return 0, err
	}
	cur := start
	for _, row := range m.Rows {
		cur, _ = step(row, m.Columns, cur)
	}
	return cur, nil
}

// step applies one row to column cur. It returns the new column and the
// slot of the rung that was crossed, or -1 when the walker stays.
func step(row []bool, n, cur int) (int, int) {
	left := (cur - 1 + n) % n
	switch {
	case row[left]:
		return left, left
	case row[cur]:
		return (cur + 1) % n, cur
	default:
		return cur, -1
	}
}

func checkStart(m Matrix, start int) error {
	if err := m.checkShape(); err != nil {
		return err
	}
	if start < 0 || start >= m.Columns {
		return errs.New(errs.ErrCodeColumnOutOfRange, "start column %d outside [0, %d)", start, m.Columns)
	}
	return nil
}

// ResolveAll resolves every start column of m concurrently.
// The result is indexed by start column: ends[i] is the terminal column of
// the participant starting at column i.
func ResolveAll(ctx context.Context, m Matrix) ([]int, error) {
	if err := m.checkShape(); err != nil {
		return nil, err
	}

	ends := make([]int, m.Columns)
	g, ctx := errgroup.WithContext(ctx)
	for col := range ends {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			end, err := Resolve(m, col)
			if err != nil {
				return err
			}
			ends[col] = end
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ends, nil
}

// IsPermutation reports whether ends holds every value in [0, len(ends)) exactly once.
func IsPermutation(ends []int) bool {
	seen := make([]bool, len(ends))
	for _, e := range ends {
		if e < 0 || e >= len(ends) || seen[e] {
			return false
		}
		seen[e] = true
	}
	return true
}
