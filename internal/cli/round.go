package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ghostleg/pkg/game"
	"github.com/matzehuels/ghostleg/pkg/pipeline"
)

// showCommand prints a stored round.
func (c *CLI) showCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "show [round-id]",
		Short: "Print a stored round (default: the latest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer runner.Close()

			round, err := runner.Load(cmd.Context(), roundArg(args))
			if err != nil {
				return err
			}
			if watch {
				if err := watchRound(cmd.Context(), round); err != nil {
					return err
				}
			}
			printRound(round)
			printKeyValue("Seed", fmt.Sprint(round.Seed))
			printKeyValue("Played", round.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			printKeyValue("Ladder", fmt.Sprintf("%d rows, %d rungs", round.Matrix.RowCount(), round.Matrix.RungCount()))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "animate every descent in the terminal")
	return cmd
}

// replayCommand plays a stored round again.
func (c *CLI) replayCommand() *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "replay [round-id]",
		Short: "Play a stored round again with a new ladder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer runner.Close()

			round, err := runner.Replay(cmd.Context(), roundArg(args), seed)
			if err != nil {
				return err
			}
			printSuccess("Replayed round")
			printRound(round)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "ladder seed (default random)")
	return cmd
}

// exportOpts holds flags shared by export and render.
type exportOpts struct {
	output   string
	formats  string
	paths    bool
	width    float64
	scale    float64
	detailed bool
}

// exportCommand writes artifacts for a stored round.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export [round-id]",
		Short: "Write a stored round to files",
		Long: `Write a stored round (default: the latest) in one or more formats.

Formats:
  csv   standings as rank,id,name lines with a UTF-8 byte order mark
  json  the complete round, importable again
  svg   ladder drawing
  pdf   ladder drawing (requires rsvg-convert)
  png   ladder drawing (requires rsvg-convert)
  dot   Graphviz source of the start-to-rank mapping`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatStr := opts.formats
			if formatStr == "" {
				formatStr = pipeline.FormatCSV
			}
			formats, err := pipeline.ParseFormats(formatStr)
			if err != nil {
				return err
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

			render := c.renderOptions()
			render.Formats = formats
			render.Paths = render.Paths || opts.paths
			render.Detailed = opts.detailed
			if opts.width > 0 {
				render.Width = opts.width
			}
			if opts.scale > 0 {
				render.Scale = opts.scale
			}

			prog := newProgress(c.Logger)
			artifacts, hit, err := runner.RenderWithCacheInfo(cmd.Context(), round, render)
			if err != nil {
				return err
			}
			if hit {
				prog.done("Loaded artifacts from cache")
			} else {
				prog.done(fmt.Sprintf("Rendered %d artifacts", len(artifacts)))
			}
			return writeArtifacts(round, artifacts, formats, opts.output)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "format(s): "+formatList()+" (default csv)")
	cmd.Flags().BoolVar(&opts.paths, "paths", false, "draw every participant's path on ladder drawings")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "target drawing width in pixels")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include start columns and visited columns in dot output")
	return cmd
}

func roundArg(args []string) string {
	if len(args) == 0 {
		return pipeline.LatestID
	}
	return args[0]
}

// writeArtifacts writes each artifact to disk in formats order.
// With a single format, output names the file. With several, output is a
// base path that receives the format extension. Without output, files are
// named by [pipeline.ArtifactFilename] in the working directory.
func writeArtifacts(round *game.Round, artifacts map[string][]byte, formats []string, output string) error {
	if len(formats) == 0 {
		return nil
	}
	printNewline()
	for _, format := range formats {
		path := artifactPath(round, format, output, len(formats) == 1)
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
		printFile(path)
	}
	return nil
}

func artifactPath(round *game.Round, format, output string, single bool) string {
	switch {
	case output == "":
		return pipeline.ArtifactFilename(round, format)
	case single:
		return output
	default:
		return basePath(output) + "." + format
	}
}

// basePath strips a known format extension from output.
func basePath(output string) string {
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
