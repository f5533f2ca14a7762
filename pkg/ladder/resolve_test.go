package ladder

import (
	"context"
	"errors"
	"testing"

	errs "github.com/matzehuels/ghostleg/pkg/errors"
)

func repeatRow(row []bool, times int) [][]bool {
	rows := make([][]bool, times)
	for i := range rows {
		rows[i] = append([]bool(nil), row...)
	}
	return rows
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		want []int // terminal column per start column
	}{
		{
			name: "two columns alternating",
			m:    Matrix{Columns: 2, Rows: repeatRow([]bool{true, false}, 8)},
			want: []int{0, 1},
		},
		{
			name: "two columns odd rows",
			m:    Matrix{Columns: 2, Rows: repeatRow([]bool{true, false}, 3)},
			want: []int{1, 0},
		},
		{
			name: "single rung",
			m:    Matrix{Columns: 3, Rows: [][]bool{{true, false, false}}},
			want: []int{1, 0, 2},
		},
		{
			name: "portal rung",
			m:    Matrix{Columns: 3, Rows: [][]bool{{false, false, true}}},
			want: []int{2, 1, 0},
		},
		{
			name: "no rungs",
			m:    Matrix{Columns: 4, Rows: repeatRow([]bool{false, false, false, false}, 8)},
			want: []int{0, 1, 2, 3},
		},
		{
			name: "empty ladder",
			m:    Matrix{Columns: 3},
			want: []int{0, 1, 2},
		},
		{
			name: "two rows",
			m: Matrix{Columns: 4, Rows: [][]bool{
				{true, false, true, false},
				{false, true, false, true},
			}},
			// 0->1->2, 1->0->3, 2->3->0, 3->2->1
			want: []int{2, 3, 0, 1},
		},
		{
			name: "left rung wins on malformed row",
			m:    Matrix{Columns: 3, Rows: [][]bool{{true, true, false}}},
			want: []int{1, 0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for start, want := range tt.want {
				got, err := Resolve(tt.m, start)
				if err != nil {
					t.Fatalf("Resolve(%d) error: %v", start, err)
				}
				if got != want {
					t.Errorf("Resolve(%d) = %d, want %d", start, got, want)
				}
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	valid := Matrix{Columns: 3, Rows: [][]bool{{true, false, false}}}
	tests := []struct {
		name  string
		m     Matrix
		start int
	}{
		{"negative start", valid, -1},
		{"start equals width", valid, 3},
		{"start beyond width", valid, 10},
		{"row too narrow", Matrix{Columns: 3, Rows: [][]bool{{true, false}}}, 0},
		{"row too wide", Matrix{Columns: 2, Rows: [][]bool{{true, false, false}}}, 0},
		{"single column", Matrix{Columns: 1, Rows: [][]bool{{false}}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.m, tt.start)
			if !errs.Is(err, errs.ErrCodeColumnOutOfRange) {
				t.Errorf("Resolve() error = %v, want %s", err, errs.ErrCodeColumnOutOfRange)
			}
			if _, err := Trace(tt.m, tt.start); !errs.Is(err, errs.ErrCodeColumnOutOfRange) {
				t.Errorf("Trace() error = %v, want %s", err, errs.ErrCodeColumnOutOfRange)
			}
		})
	}
}

func TestResolveBijection(t *testing.T) {
	ctx := context.Background()
	for n := 2; n <= 20; n++ {
		for seed := uint64(1); seed <= 25; seed++ {
			m, err := Generate(n, NewSource(seed), nil)
			if err != nil {
				t.Fatal(err)
			}
			ends, err := ResolveAll(ctx, m)
			if err != nil {
				t.Fatalf("ResolveAll(n=%d, seed=%d) error: %v", n, seed, err)
			}
			if !IsPermutation(ends) {
				t.Fatalf("ResolveAll(n=%d, seed=%d) = %v, not a permutation", n, seed, ends)
			}
		}
	}
}

func TestResolveIdempotent(t *testing.T) {
	m, err := Generate(9, NewSource(7), nil)
	if err != nil {
		t.Fatal(err)
	}
	snapshot := m.Clone()
	for start := range m.Columns {
		a, _ := Resolve(m, start)
		b, _ := Resolve(m, start)
		if a != b {
			t.Errorf("Resolve(%d) not stable: %d then %d", start, a, b)
		}
	}
	for r := range m.Rows {
		for c := range m.Rows[r] {
			if m.Rows[r][c] != snapshot.Rows[r][c] {
				t.Fatal("Resolve must not modify the matrix")
			}
		}
	}
}

func TestResolveAllMatchesResolve(t *testing.T) {
	m, err := Generate(11, NewSource(3), nil)
	if err != nil {
		t.Fatal(err)
	}
	ends, err := ResolveAll(context.Background(), m)
	if err != nil {
		t.Fatal(err)
	}
	for start, end := range ends {
		want, _ := Resolve(m, start)
		if end != want {
			t.Errorf("ResolveAll[%d] = %d, Resolve = %d", start, end, want)
		}
	}
}

func TestResolveAllErrors(t *testing.T) {
	_, err := ResolveAll(context.Background(), Matrix{Columns: 3, Rows: [][]bool{{true}}})
	if !errs.Is(err, errs.ErrCodeColumnOutOfRange) {
		t.Errorf("ResolveAll() error = %v, want %s", err, errs.ErrCodeColumnOutOfRange)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m, _ := Generate(4, NewSource(1), nil)
	if _, err := ResolveAll(ctx, m); !errors.Is(err, context.Canceled) {
		t.Errorf("ResolveAll() with cancelled context error = %v, want context.Canceled", err)
	}
}

func TestTrace(t *testing.T) {
	m := Matrix{Columns: 3, Rows: [][]bool{
		{true, false, false},
		{false, false, false},
		{false, false, true},
	}}

	p, err := Trace(m, 0)
	if err != nil {
		t.Fatal(err)
	}
	// 0 -> 1 at row 0, stays at row 1, stays at row 2 (slot 2 joins 2 and 0)
	if p.End != 1 || len(p.Steps) != 1 {
		t.Fatalf("Trace(0) = %+v", p)
	}
	if p.Rank() != 2 {
		t.Errorf("Rank() = %d, want 2", p.Rank())
	}

	p, err = Trace(m, 1)
	if err != nil {
		t.Fatal(err)
	}
	// 1 -> 0 at row 0, 0 -> 2 through the portal at row 2
	want := []Step{
		{Row: 0, From: 1, To: 0},
		{Row: 2, From: 0, To: 2, Portal: true},
	}
	if len(p.Steps) != len(want) {
		t.Fatalf("Trace(1) steps = %+v, want %+v", p.Steps, want)
	}
	for i := range want {
		if p.Steps[i] != want[i] {
			t.Errorf("step %d = %+v, want %+v", i, p.Steps[i], want[i])
		}
	}
	if p.End != 2 {
		t.Errorf("End = %d, want 2", p.End)
	}

	tests := []struct {
		row  int
		want int
	}{
		{-1, 1},
		{0, 0},
		{1, 0},
		{2, 2},
	}
	for _, tt := range tests {
		if got := p.ColumnAt(tt.row); got != tt.want {
			t.Errorf("ColumnAt(%d) = %d, want %d", tt.row, got, tt.want)
		}
	}
}

func TestTracePortalTwoColumns(t *testing.T) {
	m := Matrix{Columns: 2, Rows: [][]bool{{true, false}, {false, true}}}
	p, err := Trace(m, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Steps) != 2 {
		t.Fatalf("steps = %+v", p.Steps)
	}
	if p.Steps[0].Portal {
		t.Error("slot 0 crossing should not be a portal")
	}
	if !p.Steps[1].Portal {
		t.Error("slot 1 crossing should be a portal")
	}
}

func TestTraceMatchesResolve(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		m, _ := Generate(8, NewSource(seed), nil)
		for start := range m.Columns {
			p, err := Trace(m, start)
			if err != nil {
				t.Fatal(err)
			}
			end, _ := Resolve(m, start)
			if p.End != end {
				t.Fatalf("seed %d start %d: Trace end %d, Resolve %d", seed, start, p.End, end)
			}
			if p.ColumnAt(m.RowCount()) != end {
				t.Fatalf("seed %d start %d: ColumnAt(last) != end", seed, start)
			}
		}
	}
}

func TestIsPermutation(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		want bool
	}{
		{"identity", []int{0, 1, 2}, true},
		{"shuffled", []int{2, 0, 1}, true},
		{"empty", nil, true},
		{"duplicate", []int{0, 0, 2}, false},
		{"out of range", []int{0, 3, 1}, false},
		{"negative", []int{-1, 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPermutation(tt.in); got != tt.want {
				t.Errorf("IsPermutation(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
