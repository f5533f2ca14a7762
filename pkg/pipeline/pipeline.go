// Package pipeline plays, stores, and renders ladder rounds.
//
// This package implements the play → save → render flow shared by the CLI
// and the HTTP API. By centralizing it, both entry points apply the same
// defaults, store rounds under the same keys, and produce identical
// artifacts.
//
// # Architecture
//
// A run has three stages:
//
//  1. Play: Generate a ladder for the participants and resolve every rank
//  2. Save: Store the round in the configured [cache.Cache] and mark it latest
//  3. Render: Produce the requested formats (CSV, JSON, SVG, PDF, PNG, DOT)
//
// Each stage can be run independently.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(store, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Participants: roster.Participants(),
//	    RenderOptions: pipeline.RenderOptions{
//	        Formats: []string{"csv", "svg"},
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	csv := result.Artifacts["csv"]
//
// Run individual stages:
//
//	round, err := runner.Load(ctx, "latest")
//	next, err := runner.Replay(ctx, round.ID, 0)
//	artifacts, err := runner.Render(ctx, next, pipeline.RenderOptions{Formats: []string{"png"}})
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ghostleg/pkg/cache"
	errs "github.com/matzehuels/ghostleg/pkg/errors"
	"github.com/matzehuels/ghostleg/pkg/game"
	gio "github.com/matzehuels/ghostleg/pkg/io"
	"github.com/matzehuels/ghostleg/pkg/ladder"
	"github.com/matzehuels/ghostleg/pkg/roster"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default target drawing width in pixels.
	DefaultWidth = 800.0

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 2.0

	// LatestID selects the most recently saved round in [Runner.Load].
	LatestID = "latest"
)

// Format constants for output formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatCSV:  true,
	FormatJSON: true,
	FormatSVG:  true,
	FormatPDF:  true,
	FormatPNG:  true,
	FormatDOT:  true,
}

// formatNames lists formats in display order for error messages.
var formatNames = []string{FormatCSV, FormatJSON, FormatSVG, FormatPDF, FormatPNG, FormatDOT}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// RenderOptions selects and configures output artifacts.
type RenderOptions struct {
	Formats []string `json:"formats,omitempty"`

	// Width is the target drawing width for svg, pdf and png.
	Width float64 `json:"width,omitempty"`

	// Paths overlays every participant's descent on ladder drawings.
	Paths bool `json:"paths,omitempty"`

	// Scale is the PNG resolution multiplier.
	Scale float64 `json:"scale,omitempty"`

	// Detailed adds visited columns to DOT labels.
	Detailed bool `json:"detailed,omitempty"`
}

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Participants []roster.Participant `json:"participants"`

	// Seed fixes the ladder. Zero picks a random seed.
	Seed uint64 `json:"seed,omitempty"`

	// Ladder overrides generation parameters. Zero fields use defaults.
	Ladder ladder.Options `json:"ladder"`

	RenderOptions

	// NoSave skips storing the round.
	NoSave bool `json:"no_save,omitempty"`

	// Runtime options (not serialized)
	TTL    time.Duration `json:"-"`
	Logger *log.Logger   `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Round is the played round.
	Round *game.Round

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Participants int
	Rows         int
	Rungs        int
	PlayTime     time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks storage activity for a run.
type CacheInfo struct {
	Saved     bool // Whether the round was written to the store
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(formatNames, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, trimming and
// de-duplicating entries.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		out = append(out, f)
	}
	return out, ValidateFormats(out)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Participants) < ladder.MinParticipants {
		return errs.New(errs.ErrCodeInvalidParticipantCount, "need at least %d participants, got %d", ladder.MinParticipants, len(o.Participants))
	}
	if err := o.Ladder.ValidateFor(len(o.Participants)); err != nil {
		return err
	}
	if o.Seed == 0 {
		o.Seed = ladder.RandomSeed()
	}
	if o.TTL == 0 {
		o.TTL = cache.TTLRound
	}
	if err := o.RenderOptions.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ValidateAndSetDefaults validates formats and fills render defaults.
func (o *RenderOptions) ValidateAndSetDefaults() error {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Width < 0 || o.Scale < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "width and scale must be positive")
	}
	return ValidateFormats(o.Formats)
}

// ArtifactKeyOpts returns cache key options for rendering format.
func (o *RenderOptions) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPDF:
		k.Width, k.Paths = o.Width, o.Paths
	case FormatPNG:
		k.Width, k.Paths, k.Scale = o.Width, o.Paths, o.Scale
	case FormatDOT:
		k.Detailed = o.Detailed
	}
	return k
}

// ArtifactFilename returns the download name for a rendered format.
// CSV results use [gio.ResultsFilename]; other formats are named after the round.
func ArtifactFilename(r *game.Round, format string) string {
	if format == FormatCSV {
		return gio.ResultsFilename(r.CreatedAt)
	}
	id := r.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("ladder_%s.%s", id, format)
}
