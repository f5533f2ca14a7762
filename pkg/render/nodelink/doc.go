// Package nodelink renders round results as Graphviz mapping diagrams.
//
// # Overview
//
// The ladder drawing shows how every participant got where they did; this
// package shows only where they ended up. The diagram has two aligned
// columns of nodes, participants on the left in start order and ranks on
// the right, with one arrow per participant drawn in their trace color.
//
// # Usage
//
// Convert a round to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(round, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, participant labels include the start column and
//     every column visited on the way down.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
