package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/ghostleg/pkg/game"
	"github.com/matzehuels/ghostleg/pkg/render"
)

// Options configures mapping diagram rendering.
type Options struct {
	// Detailed adds the start column and the visited columns to each
	// participant label. When false, only ID and name are shown.
	Detailed bool
}

// ToDOT converts a round to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(round *game.Round, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=1.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	buf.WriteString("  subgraph participants {\n    rank=same;\n")
	for start, p := range round.Participants {
		label := p.ID + "\n" + p.Name
		if opts.Detailed {
			label += "\n" + detail(round, start)
		}
		fmt.Fprintf(&buf, "    %q [label=%q, color=%q, penwidth=2];\n", participantNode(start), label, game.Color(start))
	}
	buf.WriteString("  }\n")

	buf.WriteString("  subgraph ranks {\n    rank=same;\n")
	for c := range round.Matrix.Columns {
		fmt.Fprintf(&buf, "    %q [label=%q, shape=circle, fontcolor=\"#667eea\"];\n", rankNode(c+1), strconv.Itoa(c+1))
	}
	buf.WriteString("  }\n")

	// Invisible chains keep both columns in start and rank order.
	writeChain(&buf, len(round.Participants), participantNode)
	writeChain(&buf, round.Matrix.Columns, func(i int) string { return rankNode(i + 1) })

	buf.WriteString("\n")
	for _, p := range round.Placements {
		fmt.Fprintf(&buf, "  %q -> %q [color=%q, penwidth=2];\n", participantNode(p.Start), rankNode(p.Rank), p.Color)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func participantNode(start int) string { return fmt.Sprintf("p%d", start) }
func rankNode(rank int) string         { return fmt.Sprintf("r%d", rank) }

func writeChain(buf *bytes.Buffer, n int, name func(int) string) {
	if n < 2 {
		return
	}
	ids := make([]string, n)
	for i := range ids {
		ids[i] = strconv.Quote(name(i))
	}
	fmt.Fprintf(buf, "  %s [style=invis];\n", strings.Join(ids, " -> "))
}

func detail(round *game.Round, start int) string {
	p, err := round.Path(start)
	if err != nil {
		return fmt.Sprintf("start: %d", start+1)
	}
	cols := []string{strconv.Itoa(p.Start + 1)}
	for _, s := range p.Steps {
		cols = append(cols, strconv.Itoa(s.To+1))
	}
	return fmt.Sprintf("start: %d\nvia: %s", start+1, strings.Join(cols, " > "))
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
