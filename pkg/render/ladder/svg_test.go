package ladder

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/ghostleg/pkg/game"
	lad "github.com/matzehuels/ghostleg/pkg/ladder"
	"github.com/matzehuels/ghostleg/pkg/roster"
)

// portalRound has three columns and two rows: a regular rung between
// columns 0 and 1, then the wrap rung between columns 2 and 0.
func portalRound() *game.Round {
	participants := []roster.Participant{
		{ID: "S01", Name: "Alice"},
		{ID: "S02", Name: "Bob & Co"},
		{ID: "S03", Name: "Carol"},
	}
	m := lad.Matrix{Columns: 3, Rows: [][]bool{
		{true, false, false},
		{false, false, true},
	}}
	round := &game.Round{ID: "r", CreatedAt: time.Now(), Participants: participants, Matrix: m}
	for start, p := range participants {
		end, _ := lad.Resolve(m, start)
		round.Placements = append(round.Placements, game.Placement{
			Rank: end + 1, Start: start, Column: end, Participant: p, Color: game.Color(start),
		})
	}
	return round
}

func TestRenderSVGWellFormed(t *testing.T) {
	svg := RenderSVG(portalRound(), WithPaths(), WithResults())
	dec := xml.NewDecoder(strings.NewReader(string(svg)))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("invalid XML: %v", err)
		}
	}
}

func TestRenderSVGContent(t *testing.T) {
	svg := string(RenderSVG(portalRound(), WithPaths()))

	if !strings.HasPrefix(svg, "<svg") {
		t.Error("output should start with <svg")
	}
	if got := strings.Count(svg, `stroke-width="3"`); got != 3 {
		t.Errorf("got %d column lines, want 3", got)
	}
	if got := strings.Count(svg, `class="portal"`); got != 1 {
		t.Errorf("got %d portal rungs, want 1", got)
	}
	if got := strings.Count(svg, "<circle"); got != 4 {
		t.Errorf("got %d portal circles, want 4 (two rings per side)", got)
	}
	if !strings.Contains(svg, "Bob &amp; Co") {
		t.Error("names should be XML escaped")
	}
	if got := strings.Count(svg, "data-start="); got != 3 {
		t.Errorf("got %d paths, want 3", got)
	}
}

func TestRenderSVGWithoutPaths(t *testing.T) {
	svg := string(RenderSVG(portalRound()))
	if strings.Contains(svg, "data-start=") {
		t.Error("paths should be off by default")
	}
}

func TestRenderSVGSelectedPaths(t *testing.T) {
	svg := string(RenderSVG(portalRound(), WithPaths(2)))
	if got := strings.Count(svg, "data-start="); got != 1 {
		t.Errorf("got %d paths, want 1", got)
	}
	if !strings.Contains(svg, `data-start="2"`) {
		t.Error("expected the path of start column 2")
	}
}

func TestComputeLayout(t *testing.T) {
	tests := []struct {
		name           string
		columns, rows  int
		width          float64
		wantSpacing    float64
		wantWidth      float64
		wantHeight     float64
		wantPortalRad  float64
		wantPortalOffs float64
	}{
		{"default width", 5, 10, 0, 150, 760, 560, 18, 42},
		{"clamped low", 20, 40, 800, 80, 1680, 1760, 18, 42},
		{"exact", 4, 8, 560, 133.33333333333334, 560, 480, 18, 42},
		{"two columns", 2, 8, 200, 80, 240, 480, 18, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ComputeLayout(tt.columns, tt.rows, tt.width)
			if !near(l.ColumnSpacing, tt.wantSpacing) {
				t.Errorf("ColumnSpacing = %v, want %v", l.ColumnSpacing, tt.wantSpacing)
			}
			if !near(l.Width, tt.wantWidth) || !near(l.Height, tt.wantHeight) {
				t.Errorf("size = %vx%v, want %vx%v", l.Width, l.Height, tt.wantWidth, tt.wantHeight)
			}
			if !near(l.PortalRadius, tt.wantPortalRad) || !near(l.PortalOffset, tt.wantPortalOffs) {
				t.Errorf("portal = %v/%v, want %v/%v", l.PortalRadius, l.PortalOffset, tt.wantPortalRad, tt.wantPortalOffs)
			}
		})
	}
}

func TestPathDataPortal(t *testing.T) {
	l := ComputeLayout(3, 2, 0)
	// Start 2 stays on row 0, then crosses the wrap rung to column 0.
	p := lad.Path{Start: 2, End: 0, Steps: []lad.Step{{Row: 1, From: 2, To: 0, Portal: true}}}
	d := pathData(l, p)
	if strings.Count(d, "M ") != 2 {
		t.Errorf("portal crossing should restart the path once: %s", d)
	}
	right := num(l.RightPortal() - l.PortalRadius)
	left := num(l.LeftPortal() + l.PortalRadius)
	if strings.Index(d, right) > strings.Index(d, left) {
		t.Errorf("walker should leave through the right portal first: %s", d)
	}
}

func TestTruncateLabel(t *testing.T) {
	if got := truncateLabel("Alice", 150); got != "Alice" {
		t.Errorf("short label changed: %q", got)
	}
	long := strings.Repeat("가", 40)
	got := truncateLabel(long, 80)
	if !strings.HasSuffix(got, "..") || len([]rune(got)) >= 40 {
		t.Errorf("long label not truncated: %q", got)
	}
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
