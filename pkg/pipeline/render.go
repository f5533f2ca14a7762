package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	errs "github.com/matzehuels/ghostleg/pkg/errors"
	"github.com/matzehuels/ghostleg/pkg/game"
	gio "github.com/matzehuels/ghostleg/pkg/io"
	"github.com/matzehuels/ghostleg/pkg/observability"
	"github.com/matzehuels/ghostleg/pkg/render"
	drawing "github.com/matzehuels/ghostleg/pkg/render/ladder"
	"github.com/matzehuels/ghostleg/pkg/render/nodelink"
)

// Render generates output artifacts for round in the requested formats.
// It does not touch the cache; see [Runner.Render] for the cached variant.
func Render(ctx context.Context, round *game.Round, opts RenderOptions) (map[string][]byte, error) {
	if round == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no round to render")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var svg []byte // shared by svg, pdf and png
	ladderSVG := func() []byte {
		if svg == nil {
			svg = drawing.RenderSVG(round, svgOptions(opts)...)
		}
		return svg
	}

	for _, format := range opts.Formats {
		start := time.Now()
		data, err := renderFormat(ctx, round, format, opts, ladderSVG)
		observability.Round().OnRender(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, round *game.Round, format string, opts RenderOptions, ladderSVG func() []byte) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatCSV:
		if err := gio.WriteResultsCSV(round, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON:
		if err := gio.WriteJSON(round, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatSVG:
		return ladderSVG(), nil
	case FormatPDF:
		return render.ToPDF(ctx, ladderSVG())
	case FormatPNG:
		return render.ToPNG(ctx, ladderSVG(), opts.Scale)
	case FormatDOT:
		return []byte(nodelink.ToDOT(round, nodelink.Options{Detailed: opts.Detailed})), nil
	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "unsupported format: %s", format)
	}
}

func svgOptions(opts RenderOptions) []drawing.SVGOption {
	out := []drawing.SVGOption{drawing.WithWidth(opts.Width), drawing.WithResults()}
	if opts.Paths {
		out = append(out, drawing.WithPaths())
	}
	return out
}

// RenderMapping renders the Graphviz start-to-rank diagram as SVG.
func RenderMapping(ctx context.Context, round *game.Round, detailed bool) ([]byte, error) {
	return nodelink.RenderSVG(ctx, nodelink.ToDOT(round, nodelink.Options{Detailed: detailed}))
}
