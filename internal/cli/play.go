package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ghostleg/pkg/game"
	"github.com/matzehuels/ghostleg/pkg/pipeline"
	"github.com/matzehuels/ghostleg/pkg/roster"
)

// playOpts holds the command-line flags for the play command.
type playOpts struct {
	rosterPath string  // CSV roster file ("-" for stdin)
	seed       uint64  // fixed ladder seed; 0 picks one
	watch      bool    // animate the descent before printing results
	output     string  // output file or base path for artifacts
	formats    string  // comma-separated artifact formats
	paths      bool    // draw descents on ladder drawings
	width      float64 // drawing width
	noSave     bool    // do not store the round
}

func (c *CLI) playCommand() *cobra.Command {
	var opts playOpts

	cmd := &cobra.Command{
		Use:   "play [id=name | name]...",
		Short: "Play a round and print the standings",
		Long: `Play a round for the given participants.

Participants come from arguments, a CSV roster (--roster), or both. An
argument of the form id=name sets both fields; a bare name is also its id.
Starting columns follow the order participants are given in.`,
		Example: `  ghostleg play alice bob carol
  ghostleg play --roster team.csv --watch
  ghostleg play --roster team.csv -f csv,svg --paths -o draw`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlay(cmd, args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.rosterPath, "roster", "r", "", "CSV roster with id,name lines (- for stdin)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "ladder seed for a reproducible round (default random)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "animate every descent in the terminal")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "artifact format(s): "+formatList()+" (comma-separated)")
	cmd.Flags().BoolVar(&opts.paths, "paths", false, "draw every participant's path on ladder drawings")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "target drawing width in pixels")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "do not store the round")

	return cmd
}

func (c *CLI) runPlay(cmd *cobra.Command, args []string, opts *playOpts) error {
	ctx := cmd.Context()

	r, err := loadRoster(cmd.InOrStdin(), opts.rosterPath, args)
	if err != nil {
		return err
	}
	if !r.Ready() {
		return fmt.Errorf("need at least 2 participants, got %d", r.Len())
	}

	formats, err := pipeline.ParseFormats(opts.formats)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noSave)
	if err != nil {
		return err
	}
	defer runner.Close()

	cfg, _ := c.loadConfig()
	seed := opts.seed
	if seed == 0 {
		seed = cfg.Seed
	}

	render := c.renderOptions()
	render.Formats = formats
	if opts.width > 0 {
		render.Width = opts.width
	}
	render.Paths = render.Paths || opts.paths

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		Participants:  r.Participants(),
		Seed:          seed,
		Ladder:        cfg.Ladder,
		RenderOptions: render,
		NoSave:        opts.noSave,
		TTL:           cfg.Store.TTL,
		Logger:        c.Logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Played round with %d participants", result.Stats.Participants))

	if opts.watch {
		if err := watchRound(ctx, result.Round); err != nil {
			return err
		}
	}

	printRound(result.Round)
	printStats(result.Stats.Rows, result.Stats.Rungs, result.CacheInfo.Saved)

	if err := writeArtifacts(result.Round, result.Artifacts, formats, opts.output); err != nil {
		return err
	}
	if result.CacheInfo.Saved {
		printNewline()
		printNextStep("Play again with a new ladder", appName+" replay "+result.Round.ID)
	}
	return nil
}

// loadRoster builds a roster from a CSV file and id=name arguments.
func loadRoster(stdin io.Reader, path string, args []string) (*roster.Roster, error) {
	r := &roster.Roster{}
	if path != "" {
		in := stdin
		if path != "-" {
			f, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("open roster: %w", err)
			}
			defer f.Close()
			in = f
		}
		res, err := r.Import(in)
		if err != nil {
			return nil, err
		}
		if res.Duplicates > 0 || res.Skipped > 0 {
			printWarning("Roster: %d added, %d duplicates, %d skipped", res.Added, res.Duplicates, res.Skipped)
		}
	}

	for _, arg := range args {
		id, name, ok := strings.Cut(arg, "=")
		if !ok {
			name = id
		}
		if err := r.Add(id, name); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// printRound prints the standings table for round.
func printRound(round *game.Round) {
	printNewline()
	fmt.Println(StyleTitle.Render("Results") + " " + StyleDim.Render(round.ID))
	fmt.Println(resultsTable(round))
}
