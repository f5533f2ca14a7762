package ladder

// Step is one rung crossing during a descent.
type Step struct {
	Row  int `json:"row"`
	From int `json:"from"`
	To   int `json:"to"`

	// Portal marks a crossing of the wrap-around rung between the last
	// and first columns. It behaves like any other rung; renderers draw
	// it differently.
	Portal bool `json:"portal,omitempty"`
}

// Path is the full descent of one participant.
type Path struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Steps []Step `json:"steps,omitempty"`
}

// Rank returns the 1-based rank for the terminal column.
func (p Path) Rank() int { return p.End + 1 }

// ColumnAt returns the column the walker occupies after row has been applied.
// A negative row returns the start column.
func (p Path) ColumnAt(row int) int {
	col := p.Start
	for _, s := range p.Steps {
		if s.Row > row {
			break
		}
		col = s.To
	}
	return col
}

// Trace walks start down the ladder like [Resolve] and records each crossing.
// Rows where the walker stays put produce no step.
func Trace(m Matrix, start int) (Path, error) {
	if err := checkStart(m, start); err != nil {
		return Path{}, err
	}
	n := m.Columns
	p := Path{Start: start}
	cur := start
	for r, row := range m.Rows {
		next, slot := step(row, n, cur)
		if slot < 0 {
			continue
		}
		p.Steps = append(p.Steps, Step{
			Row:    r,
			From:   cur,
			To:     next,
			Portal: slot == n-1,
		})
		cur = next
	}
	p.End = cur
	return p, nil
}
