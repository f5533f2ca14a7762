// Package render provides visual output for played ladder rounds.
//
// # Overview
//
// This package contains the renderers that turn a [game.Round] into images:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Ladder drawings (in [ladder] subpackage)
//   - Start-to-rank mapping diagrams (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both subpackages use them.
//
//	svg := ladder.RenderSVG(round, ladder.WithPaths())
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Ladder Drawings
//
// The [ladder] subpackage draws the rungs the way players see them on paper:
// one vertical line per participant, horizontal rungs, and portal circles
// where a rung wraps from the last column back to the first.
//
// # Mapping Diagrams
//
// The [nodelink] subpackage renders the result as a Graphviz diagram, with
// one arrow from each participant to the rank they reached.
//
//	dot := nodelink.ToDOT(round, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [game.Round]: github.com/matzehuels/ghostleg/pkg/game.Round
// [ladder]: github.com/matzehuels/ghostleg/pkg/render/ladder
// [nodelink]: github.com/matzehuels/ghostleg/pkg/render/nodelink
package render
