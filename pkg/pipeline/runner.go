package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ghostleg/pkg/cache"
	errs "github.com/matzehuels/ghostleg/pkg/errors"
	"github.com/matzehuels/ghostleg/pkg/game"
	gio "github.com/matzehuels/ghostleg/pkg/io"
	"github.com/matzehuels/ghostleg/pkg/ladder"
	"github.com/matzehuels/ghostleg/pkg/observability"
)

// Runner encapsulates pipeline execution with storage.
// Both CLI and API use it so rounds are saved and loaded the same way.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long replayed rounds are kept. Zero uses [cache.TTLRound].
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (rounds are not persisted).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete play → save → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Play
	playStart := time.Now()
	round, err := game.Play(ctx, opts.Participants, opts.Seed, &opts.Ladder)
	if err != nil {
		return nil, err
	}
	result.Round = round
	result.Stats.PlayTime = time.Since(playStart)
	result.Stats.Participants = len(round.Participants)
	result.Stats.Rows = round.Matrix.RowCount()
	result.Stats.Rungs = round.Matrix.RungCount()

	r.Logger.Info("played round",
		"id", round.ID,
		"participants", result.Stats.Participants,
		"rows", result.Stats.Rows,
		"seed", round.Seed,
		"duration", result.Stats.PlayTime)

	// Stage 2: Save
	if !opts.NoSave {
		if err := r.Save(ctx, round, opts.TTL); err != nil {
			return nil, fmt.Errorf("save: %w", err)
		}
		result.CacheInfo.Saved = true
	}

	// Stage 3: Render
	if len(opts.Formats) > 0 {
		renderStart := time.Now()
		artifacts, hit, err := r.RenderWithCacheInfo(ctx, round, opts.RenderOptions)
		if err != nil {
			return nil, err
		}
		result.Artifacts = artifacts
		result.Stats.RenderTime = time.Since(renderStart)
		result.CacheInfo.RenderHit = hit

		r.Logger.Info("rendered outputs",
			"formats", opts.Formats,
			"duration", result.Stats.RenderTime)
	}

	return result, nil
}

// Save stores round and marks it as the latest round.
func (r *Runner) Save(ctx context.Context, round *game.Round, ttl time.Duration) error {
	var buf bytes.Buffer
	if err := gio.WriteJSON(round, &buf); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode round %s", round.ID)
	}
	if err := r.Cache.Set(ctx, r.Keyer.RoundKey(round.ID), buf.Bytes(), ttl); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "store round %s", round.ID)
	}
	observability.Cache().OnCacheSet(ctx, "round", buf.Len())

	if err := r.Cache.Set(ctx, r.Keyer.LatestKey(), []byte(round.ID), ttl); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "mark round %s latest", round.ID)
	}
	r.Logger.Debug("saved round", "id", round.ID, "bytes", buf.Len())
	return nil
}

// Load returns the stored round with id. The id [LatestID] (or an empty id)
// resolves to the most recently saved round. A missing round yields
// ROUND_NOT_FOUND.
func (r *Runner) Load(ctx context.Context, id string) (*game.Round, error) {
	if id == "" || id == LatestID {
		latest, err := r.latestID(ctx)
		if err != nil {
			return nil, err
		}
		id = latest
	}

	data, ok, err := r.Cache.Get(ctx, r.Keyer.RoundKey(id))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "load round %s", id)
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, "round")
		return nil, errs.New(errs.ErrCodeRoundNotFound, "round %s not found", id)
	}
	observability.Cache().OnCacheHit(ctx, "round")

	round, err := gio.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, errs.Wrap(errs.GetCode(err), err, "stored round %s", id)
	}
	return round, nil
}

func (r *Runner) latestID(ctx context.Context) (string, error) {
	data, ok, err := r.Cache.Get(ctx, r.Keyer.LatestKey())
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInternal, err, "load latest round")
	}
	if !ok || len(data) == 0 {
		observability.Cache().OnCacheMiss(ctx, "latest")
		return "", errs.New(errs.ErrCodeRoundNotFound, "no round has been played yet")
	}
	observability.Cache().OnCacheHit(ctx, "latest")
	return string(data), nil
}

// Replay loads round id, plays it again with a new ladder, and saves the
// result as the latest round. A zero seed picks a random one.
func (r *Runner) Replay(ctx context.Context, id string, seed uint64) (*game.Round, error) {
	prev, err := r.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = ladder.RandomSeed()
	}
	next, err := game.Replay(ctx, prev, seed)
	if err != nil {
		return nil, err
	}
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLRound
	}
	if err := r.Save(ctx, next, ttl); err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}
	r.Logger.Info("replayed round", "previous", prev.ID, "id", next.ID, "seed", seed)
	return next, nil
}

// Delete removes round id from the store. Deleting the latest round also
// clears the latest marker.
func (r *Runner) Delete(ctx context.Context, id string) error {
	if err := r.Cache.Delete(ctx, r.Keyer.RoundKey(id)); err != nil {
		return err
	}
	latest, ok, err := r.Cache.Get(ctx, r.Keyer.LatestKey())
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "load latest round")
	}
	if ok && string(latest) == id {
		return r.Cache.Delete(ctx, r.Keyer.LatestKey())
	}
	return nil
}

// RenderWithCacheInfo renders artifacts with caching and reports whether
// every format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, round *game.Round, opts RenderOptions) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(round.ID, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, err := Render(ctx, round, sub)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(round.ID, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache artifact", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, round *game.Round, opts RenderOptions) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, round, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
