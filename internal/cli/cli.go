// Package cli implements the ghostleg command-line interface.
//
// # Commands
//
//   - play: Play a round for a roster and print the standings
//   - show: Print a stored round
//   - replay: Play a stored round again with a new ladder
//   - export: Write a stored round as csv, json, svg, pdf, png, or dot
//   - render: Draw the start-to-rank mapping with Graphviz
//   - serve: Run the HTTP API
//   - store: Inspect and clear the round store
//   - completion: Generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ghostleg/internal/config"
	"github.com/matzehuels/ghostleg/pkg/buildinfo"
	"github.com/matzehuels/ghostleg/pkg/cache"
	"github.com/matzehuels/ghostleg/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "ghostleg"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is set by the --config flag.
	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Ghostleg draws lots with a ladder lottery",
		Long:         `Ghostleg assigns a random, collision-free ranking to a roster by sending every participant down a randomly generated ladder.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/ghostleg/config.toml)")

	root.AddCommand(c.playCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig loads configuration once per invocation.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "backend", cfg.Store.Backend, "path", c.configPath)
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured store.
// noSave replaces the store with a NullCache.
func (c *CLI) newRunner(ctx context.Context, noSave bool) (*pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	store := cfg.Store
	if noSave {
		store.Backend = config.BackendNone
	}
	ch, err := newCache(ctx, store)
	if err != nil {
		return nil, err
	}

	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if store.Prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, store.Prefix)
	}
	runner := pipeline.NewRunner(ch, keyer, c.Logger)
	runner.TTL = store.TTL
	return runner, nil
}

// renderOptions returns render defaults from the config.
func (c *CLI) renderOptions() pipeline.RenderOptions {
	if c.cfg == nil {
		return pipeline.RenderOptions{}
	}
	return pipeline.RenderOptions{Width: c.cfg.Render.Width, Paths: c.cfg.Render.Paths}
}

func formatList() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s",
		pipeline.FormatCSV, pipeline.FormatJSON, pipeline.FormatSVG,
		pipeline.FormatPDF, pipeline.FormatPNG, pipeline.FormatDOT)
}
