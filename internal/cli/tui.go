package cli

import (
	"context"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/ghostleg/pkg/game"
	"github.com/matzehuels/ghostleg/pkg/ladder"
)

const (
	// cellWidth is the terminal width of one column including its rail.
	cellWidth = 7

	defaultTick = 120 * time.Millisecond
	minTick     = 15 * time.Millisecond
	maxTick     = time.Second
)

var (
	styleRail   = lipgloss.NewStyle().Foreground(colorDim)
	styleRung   = lipgloss.NewStyle().Foreground(colorGray)
	stylePortal = lipgloss.NewStyle().Foreground(colorYellow)
	styleLabel  = lipgloss.NewStyle().Foreground(colorWhite).Width(cellWidth)
	styleRank   = lipgloss.NewStyle().Foreground(colorCyan).Width(cellWidth)
	styleHelp   = lipgloss.NewStyle().Foreground(colorDim)
)

type tickMsg time.Time

// =============================================================================
// descentModel - Animated descent of every participant
// =============================================================================

// descentModel is the bubbletea model for "play --watch". Every participant
// descends one row per tick; trails take the participant's color.
type descentModel struct {
	round *game.Round

	// occupant[r][c] is the start column of the walker at column c after row r.
	occupant [][]int

	row     int // rows applied so far
	tick    time.Duration
	done    bool
	aborted bool
}

func newDescentModel(round *game.Round, paths []ladder.Path) descentModel {
	rows := round.Matrix.RowCount()
	occ := make([][]int, rows)
	for r := range occ {
		occ[r] = make([]int, round.Matrix.Columns)
	}
	for _, p := range paths {
		for r := range rows {
			occ[r][p.ColumnAt(r)] = p.Start
		}
	}
	return descentModel{round: round, occupant: occ, tick: defaultTick}
}

func (m descentModel) Init() tea.Cmd {
	return m.nextTick()
}

func (m descentModel) nextTick() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m descentModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case " ", "enter":
			if m.done {
				return m, tea.Quit
			}
			m.row = m.round.Matrix.RowCount()
			m.done = true
		case "+", "=":
			m.tick = max(m.tick/2, minTick)
		case "-":
			m.tick = min(m.tick*2, maxTick)
		}
	case tickMsg:
		if m.done {
			return m, nil
		}
		m.row++
		if m.row >= m.round.Matrix.RowCount() {
			m.row = m.round.Matrix.RowCount()
			m.done = true
			return m, nil
		}
		return m, m.nextTick()
	}
	return m, nil
}

func (m descentModel) View() string {
	var b strings.Builder
	n := m.round.Matrix.Columns

	b.WriteString(StyleTitle.Render("Ladder") + " " + StyleDim.Render(m.round.ID))
	b.WriteString("\n\n  ")
	for _, p := range m.round.Participants {
		b.WriteString(styleLabel.Render(truncate(p.ID, cellWidth-1)))
	}
	b.WriteString("\n")

	for r, row := range m.round.Matrix.Rows {
		b.WriteString(m.portal(row[n-1]))
		for c := range n {
			b.WriteString(m.rail(r, c))
			if c < n-1 {
				b.WriteString(m.rung(r, c, row[c]))
			}
		}
		b.WriteString(m.portal(row[n-1]))
		b.WriteString("\n")
	}

	b.WriteString("  ")
	for c := range n {
		b.WriteString(styleRank.Render(strconv.Itoa(c + 1)))
	}
	b.WriteString("\n")

	if m.done {
		b.WriteString("  ")
		byColumn := make([]string, n)
		for _, p := range m.round.Placements {
			byColumn[p.Column] = p.Participant.ID
		}
		for _, id := range byColumn {
			b.WriteString(styleLabel.Render(truncate(id, cellWidth-1)))
		}
		b.WriteString("\n\n")
		b.WriteString(styleHelp.Render("⏎ continue  q quit"))
	} else {
		b.WriteString("\n")
		b.WriteString(styleHelp.Render("⏎ skip  +/- speed  q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

// rail draws column c at row r, colored by its walker once the row is applied.
func (m descentModel) rail(r, c int) string {
	if r >= m.row {
		return styleRail.Render("│")
	}
	start := m.occupant[r][c]
	return lipgloss.NewStyle().Foreground(lipgloss.Color(game.Color(start))).Render("┃")
}

func (m descentModel) rung(r, c int, present bool) string {
	if !present {
		return strings.Repeat(" ", cellWidth-1)
	}
	style := styleRung
	if r < m.row {
		style = StyleValue
	}
	return style.Render(strings.Repeat("─", cellWidth-1))
}

// portal marks a wrap-around rung at both ladder edges.
func (m descentModel) portal(present bool) string {
	if !present {
		return "  "
	}
	return stylePortal.Render("◆ ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// watchRound animates round in the terminal until the user dismisses it.
func watchRound(ctx context.Context, round *game.Round) error {
	paths, err := round.Paths()
	if err != nil {
		return err
	}
	p := tea.NewProgram(newDescentModel(round, paths), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(descentModel); ok && m.aborted {
		printWarning("Animation skipped")
	}
	return nil
}
