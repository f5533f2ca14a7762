// Package game plays ladder lottery rounds.
//
// A [Round] binds a roster to one generated ladder and the resulting
// placements. Rounds are immutable once played: replaying builds a new round
// with a fresh ladder, and resetting simply discards the round.
//
//	round, err := game.Play(ctx, participants, ladder.RandomSeed(), nil)
//	if err != nil {
//	    return err
//	}
//	for _, p := range round.Placements {
//	    fmt.Println(p.Rank, p.Participant.Name)
//	}
package game

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	errs "github.com/matzehuels/ghostleg/pkg/errors"
	"github.com/matzehuels/ghostleg/pkg/ladder"
	"github.com/matzehuels/ghostleg/pkg/observability"
	"github.com/matzehuels/ghostleg/pkg/roster"
)

// Round is one played ladder.
type Round struct {
	ID           string               `json:"id"`
	CreatedAt    time.Time            `json:"created_at"`
	Seed         uint64               `json:"seed"`
	Options      ladder.Options       `json:"options"`
	Participants []roster.Participant `json:"participants"`
	Matrix       ladder.Matrix        `json:"matrix"`

	// Placements is sorted by rank, ascending.
	Placements []Placement `json:"placements"`
}

// Placement is one participant's result.
type Placement struct {
	Rank        int                `json:"rank"`
	Start       int                `json:"start"`
	Column      int                `json:"column"`
	Participant roster.Participant `json:"participant"`
	Color       string             `json:"color"`
}

// Play generates a ladder for participants from seed and resolves every
// participant's rank. Participants keep their slice order as start columns.
//
// Pass nil for opts to use [ladder.DefaultOptions].
func Play(ctx context.Context, participants []roster.Participant, seed uint64, opts *ladder.Options) (*Round, error) {
	hooks := observability.Round()
	start := time.Now()
	hooks.OnGenerateStart(ctx, len(participants))

	round, err := play(ctx, participants, seed, opts)

	rows := 0
	if round != nil {
		rows = round.Matrix.RowCount()
	}
	hooks.OnGenerateComplete(ctx, len(participants), rows, time.Since(start), err)
	return round, err
}

func play(ctx context.Context, participants []roster.Participant, seed uint64, opts *ladder.Options) (*Round, error) {
	if _, err := roster.New(participants...); err != nil {
		return nil, err
	}

	o := ladder.DefaultOptions()
	if opts != nil {
		o = *opts
	}
	m, err := ladder.Generate(len(participants), ladder.NewSource(seed), &o)
	if err != nil {
		return nil, err
	}

	ends, err := ladder.ResolveAll(ctx, m)
	if err != nil {
		return nil, err
	}

	return &Round{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		Seed:         seed,
		Options:      o,
		Participants: slices.Clone(participants),
		Matrix:       m,
		Placements:   place(participants, ends),
	}, nil
}

// Replay plays a new round with the same participants and options but a new seed.
func Replay(ctx context.Context, prev *Round, seed uint64) (*Round, error) {
	if prev == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no round to replay")
	}
	opts := prev.Options
	return Play(ctx, prev.Participants, seed, &opts)
}

func place(participants []roster.Participant, ends []int) []Placement {
	out := make([]Placement, len(participants))
	for start, p := range participants {
		out[start] = Placement{
			Rank:        ends[start] + 1,
			Start:       start,
			Column:      ends[start],
			Participant: p,
			Color:       Color(start),
		}
	}
	slices.SortFunc(out, func(a, b Placement) int { return a.Rank - b.Rank })
	return out
}

// PlacementFor returns the placement of the participant with id.
func (r *Round) PlacementFor(id string) (Placement, bool) {
	for _, p := range r.Placements {
		if p.Participant.ID == id {
			return p, true
		}
	}
	return Placement{}, false
}

// Path traces the descent of the participant at start column.
func (r *Round) Path(start int) (ladder.Path, error) {
	return ladder.Trace(r.Matrix, start)
}

// Paths traces every participant, indexed by start column.
func (r *Round) Paths() ([]ladder.Path, error) {
	paths := make([]ladder.Path, len(r.Participants))
	for i := range paths {
		p, err := r.Path(i)
		if err != nil {
			return nil, err
		}
		paths[i] = p
	}
	return paths, nil
}

// Check verifies a round loaded from outside: the matrix must be well formed,
// sized for the participants, and every placement must match a fresh
// resolution of the matrix.
func (r *Round) Check() error {
	if len(r.Participants) < ladder.MinParticipants {
		return errs.New(errs.ErrCodeInvalidParticipantCount, "round has %d participants", len(r.Participants))
	}
	if _, err := roster.New(r.Participants...); err != nil {
		return err
	}
	if r.Matrix.Columns != len(r.Participants) {
		return errs.New(errs.ErrCodeInvalidMatrix, "matrix has %d columns for %d participants", r.Matrix.Columns, len(r.Participants))
	}
	if err := r.Matrix.Check(); err != nil {
		return err
	}
	if len(r.Placements) != len(r.Participants) {
		return errs.New(errs.ErrCodeInvalidInput, "round has %d placements for %d participants", len(r.Placements), len(r.Participants))
	}

	seen := make(map[int]bool, len(r.Placements))
	for _, p := range r.Placements {
		if p.Start < 0 || p.Start >= len(r.Participants) || seen[p.Start] {
			return errs.New(errs.ErrCodeInvalidInput, "placement for %q has bad start column %d", p.Participant.ID, p.Start)
		}
		seen[p.Start] = true
		if r.Participants[p.Start] != p.Participant {
			return errs.New(errs.ErrCodeInvalidInput, "placement at start %d names %q, roster has %q", p.Start, p.Participant.ID, r.Participants[p.Start].ID)
		}
		end, err := ladder.Resolve(r.Matrix, p.Start)
		if err != nil {
			return err
		}
		if end != p.Column || p.Rank != end+1 {
			return errs.New(errs.ErrCodeInvalidInput, "placement for %q says rank %d, ladder gives %d", p.Participant.ID, p.Rank, end+1)
		}
	}
	return nil
}
