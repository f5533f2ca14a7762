// Package pkg provides the core libraries for ghostleg ladder lotteries.
//
// # Overview
//
// Ghostleg assigns a random ranking to a roster by sending every participant
// down a ladder: vertical columns joined by randomly placed horizontal rungs.
// A walker crosses every rung it meets, so distinct starting columns always
// end in distinct columns. The pkg directory is organized into:
//
//  1. [ladder] - Ladder generation and path resolution
//  2. [roster], [game] - Participants and played rounds
//  3. [io], [render] - CSV, JSON, SVG, PDF, PNG and Graphviz output
//  4. [cache] - Round storage (file, memory, redis, mongo)
//  5. [pipeline] - Orchestration (play → save → render)
//
// # Architecture
//
//	Roster (CLI args, CSV, HTTP)
//	         ↓
//	  [game.Play] ─ [ladder.Generate] + [ladder.ResolveAll]
//	         ↓
//	  [game.Round] ─ stored through [cache.Cache]
//	         ↓
//	  [pipeline.Render] ─ csv, json, svg, pdf, png, dot
//
// # Quick Start
//
//	participants := []roster.Participant{{ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob"}}
//	round, err := game.Play(ctx, participants, ladder.RandomSeed(), nil)
//	if err != nil {
//	    return err
//	}
//	svg := drawing.RenderSVG(round, drawing.WithPaths())
//
// # Ladder Topology
//
// The ladder wraps around: the last rung slot of every row joins the last
// column to the first. Renderers draw such rungs as portals. A rung never
// shares a column with a neighbouring rung in the same row, which keeps
// every descent unambiguous and the result a permutation.
package pkg
