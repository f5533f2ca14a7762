package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ghostleg/pkg/game"
	"github.com/matzehuels/ghostleg/pkg/pipeline"
	"github.com/matzehuels/ghostleg/pkg/render/nodelink"
)

// mappingFormats are the formats Graphviz can produce for the mapping diagram.
var mappingFormats = map[string]bool{
	pipeline.FormatSVG: true,
	pipeline.FormatPDF: true,
	pipeline.FormatPNG: true,
	pipeline.FormatDOT: true,
}

// renderCommand draws the start-to-rank mapping of a stored round with Graphviz.
func (c *CLI) renderCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "render [round-id]",
		Short: "Render the start-to-rank mapping diagram with Graphviz",
		Long: `Render a stored round (default: the latest) as a node-link diagram
connecting each participant's starting column to their rank.

Unlike export, which draws the ladder itself, render lays out the mapping
with Graphviz. PDF and PNG output require rsvg-convert.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatStr := opts.formats
			if formatStr == "" {
				formatStr = pipeline.FormatSVG
			}
			formats, err := pipeline.ParseFormats(formatStr)
			if err != nil {
				return err
			}
			for _, f := range formats {
				if !mappingFormats[f] {
					return fmt.Errorf("render supports svg, pdf, png and dot, not %s", f)
				}
			}

			runner, err := c.newRunner(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer runner.Close()

			round, err := runner.Load(cmd.Context(), roundArg(args))
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			artifacts, err := renderMapping(cmd.Context(), round, formats, opts)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Rendered mapping for %d participants", len(round.Participants)))
			return writeArtifacts(round, artifacts, formats, opts.output)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "format(s): svg (default), pdf, png, dot")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label participants with start and visited columns")
	return cmd
}

func renderMapping(ctx context.Context, round *game.Round, formats []string, opts exportOpts) (map[string][]byte, error) {
	dot := nodelink.ToDOT(round, nodelink.Options{Detailed: opts.detailed})
	out := make(map[string][]byte, len(formats))
	for _, f := range formats {
		var (
			data []byte
			err  error
		)
		switch f {
		case pipeline.FormatDOT:
			data = []byte(dot)
		case pipeline.FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case pipeline.FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case pipeline.FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.scale)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f, err)
		}
		out[f] = data
	}
	return out, nil
}
