package ladder

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/ghostleg/pkg/game"
	lad "github.com/matzehuels/ghostleg/pkg/ladder"
)

const (
	lineColor   = "#333"
	rungColor   = "#667eea"
	portalEdge  = "#4c51bf"
	portalLink  = "rgba(102, 126, 234, 0.35)"
	labelColor  = "#333"
	pathWidth   = 4.0
	fontFamily  = "Arial, Helvetica, sans-serif"
	portalGradC = "portal-fill"
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width  float64
	paths  bool
	only   map[int]bool
	reveal bool
}

// WithWidth sets the target drawing width used to size column spacing.
func WithWidth(w float64) SVGOption { return func(r *svgRenderer) { r.width = w } }

// WithPaths overlays participant descents. With no arguments every
// participant is drawn; otherwise only the given start columns.
func WithPaths(starts ...int) SVGOption {
	return func(r *svgRenderer) {
		r.paths = true
		if len(starts) == 0 {
			r.only = nil
			return
		}
		r.only = make(map[int]bool, len(starts))
		for _, s := range starts {
			r.only[s] = true
		}
	}
}

// WithResults labels each bottom rank with the participant who reached it.
func WithResults() SVGOption { return func(r *svgRenderer) { r.reveal = true } }

// RenderSVG draws round as an SVG document.
func RenderSVG(round *game.Round, opts ...SVGOption) []byte {
	r := svgRenderer{width: DefaultWidth}
	for _, opt := range opts {
		opt(&r)
	}

	m := round.Matrix
	l := ComputeLayout(m.Columns, m.RowCount(), r.width)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	renderDefs(&buf)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="white"/>`+"\n")

	renderColumns(&buf, l)
	renderRungs(&buf, l, m)
	if r.paths {
		renderPaths(&buf, l, round, r.only)
	}
	renderLabels(&buf, l, round)
	renderRanks(&buf, l, round, r.reveal)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <defs>
    <radialGradient id="%s">
      <stop offset="20%%" stop-color="#f8fafc"/>
      <stop offset="50%%" stop-color="#c7d2fe"/>
      <stop offset="100%%" stop-color="#7886ff"/>
    </radialGradient>
  </defs>
`, portalGradC)
}

func renderColumns(buf *bytes.Buffer, l Layout) {
	buf.WriteString(`  <g class="columns">` + "\n")
	for c := range l.Columns {
		x := l.X(c)
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="3"/>`+"\n",
			x, l.Top(), x, l.Bottom(), lineColor)
	}
	buf.WriteString("  </g>\n")
}

func renderRungs(buf *bytes.Buffer, l Layout, m lad.Matrix) {
	n := m.Columns
	buf.WriteString(`  <g class="rungs">` + "\n")
	for row := range m.RowCount() {
		y := l.RowY(row)
		for col := range n {
			if !m.Rung(row, col) {
				continue
			}
			if col == n-1 {
				renderPortalRung(buf, l, row, y)
				continue
			}
			fmt.Fprintf(buf, `    <line data-row="%d" data-col="%d" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>`+"\n",
				row, col, l.X(col), y, l.X(col+1), y, rungColor)
		}
	}
	buf.WriteString("  </g>\n")
}

// renderPortalRung draws the wrap-around rung: stubs from the outer columns
// to a portal circle on either side, joined by a dashed curve.
func renderPortalRung(buf *bytes.Buffer, l Layout, row int, y float64) {
	left, right := l.LeftPortal(), l.RightPortal()
	rad := l.PortalRadius
	mid := (left + right) / 2

	fmt.Fprintf(buf, `    <g class="portal" data-row="%d">`+"\n", row)
	fmt.Fprintf(buf, `      <path d="M %.1f %.1f L %.1f %.1f M %.1f %.1f L %.1f %.1f" stroke="%s" stroke-width="2" fill="none"/>`+"\n",
		l.X(0), y, left+rad, y, right-rad, y, l.X(l.Columns-1), y, rungColor)
	fmt.Fprintf(buf, `      <path d="M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f" stroke="%s" stroke-width="1.5" stroke-dasharray="6 5" fill="none"/>`+"\n",
		left, y, mid, y-rad*1.5, mid, y+rad*1.5, right, y, portalLink)
	for _, cx := range []float64{left, right} {
		fmt.Fprintf(buf, `      <circle cx="%.1f" cy="%.1f" r="%.1f" fill="url(#%s)" stroke="%s" stroke-width="2"/>`+"\n",
			cx, y, rad, portalGradC, portalEdge)
		fmt.Fprintf(buf, `      <circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="white" stroke-opacity="0.8" stroke-dasharray="3 3"/>`+"\n",
			cx, y, rad*0.55)
	}
	buf.WriteString("    </g>\n")
}

func renderPaths(buf *bytes.Buffer, l Layout, round *game.Round, only map[int]bool) {
	buf.WriteString(`  <g class="paths" fill="none" stroke-linecap="round" stroke-linejoin="round" opacity="0.85">` + "\n")
	for start := range round.Participants {
		if only != nil && !only[start] {
			continue
		}
		p, err := round.Path(start)
		if err != nil {
			continue
		}
		fmt.Fprintf(buf, `    <path data-start="%d" d="%s" stroke="%s" stroke-width="%.0f"/>`+"\n",
			start, pathData(l, p), game.Color(start), pathWidth)
	}
	buf.WriteString("  </g>\n")
}

// pathData builds the SVG path commands for one descent. Portal crossings
// run to the near portal circle and resume from the far one.
func pathData(l Layout, p lad.Path) string {
	var d strings.Builder
	x := l.X(p.Start)
	fmt.Fprintf(&d, "M %s %s", num(x), num(l.Top()))
	for _, s := range p.Steps {
		y := l.RowY(s.Row)
		fmt.Fprintf(&d, " L %s %s", num(x), num(y))
		to := l.X(s.To)
		if s.Portal {
			rad := l.PortalRadius
			entry, exit := l.LeftPortal()+rad, l.RightPortal()-rad
			if s.From == l.Columns-1 && s.To == 0 {
				entry, exit = exit, entry
			}
			fmt.Fprintf(&d, " L %s %s M %s %s", num(entry), num(y), num(exit), num(y))
		}
		fmt.Fprintf(&d, " L %s %s", num(to), num(y))
		x = to
	}
	fmt.Fprintf(&d, " L %s %s", num(x), num(l.Bottom()))
	return d.String()
}

func renderLabels(buf *bytes.Buffer, l Layout, round *game.Round) {
	buf.WriteString(`  <g class="participants">` + "\n")
	for i, p := range round.Participants {
		x := l.X(i)
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="%.0f" font-weight="bold" fill="%s">%s</text>`+"\n",
			x, l.Top()-40, fontFamily, labelFontSize, labelColor, escapeXML(truncateLabel(p.ID, l.ColumnSpacing)))
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="%.0f" font-weight="bold" fill="%s">%s</text>`+"\n",
			x, l.Top()-20, fontFamily, labelFontSize, labelColor, escapeXML(truncateLabel(p.Name, l.ColumnSpacing)))
	}
	buf.WriteString("  </g>\n")
}

func renderRanks(buf *bytes.Buffer, l Layout, round *game.Round, reveal bool) {
	byColumn := make(map[int]game.Placement, len(round.Placements))
	for _, p := range round.Placements {
		byColumn[p.Column] = p
	}

	buf.WriteString(`  <g class="ranks">` + "\n")
	for c := range l.Columns {
		x := l.X(c)
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="%.0f" font-weight="bold" fill="%s">%d</text>`+"\n",
			x, l.Bottom()+30, fontFamily, rankFontSize, rungColor, c+1)
		if p, ok := byColumn[c]; ok && reveal {
			fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="%.0f" fill="%s">%s</text>`+"\n",
				x, l.Bottom()+50, fontFamily, labelFontSize*0.85, p.Color, escapeXML(truncateLabel(p.Participant.Name, l.ColumnSpacing)))
		}
	}
	buf.WriteString("  </g>\n")
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', 1, 64) }
