// Package ladder implements the ghost-leg (ladder lottery) engine.
//
// # Overview
//
// A ladder is N vertical columns crossed by horizontal rungs. Every
// participant starts at the top of its own column and walks down; whenever a
// rung touches the current column the walker crosses it. The columns are
// circular: a rung in the last slot joins column N-1 back to column 0 (a
// "portal" rung). Because every row is a set of disjoint swaps, the walk is a
// bijection from start columns to terminal columns.
//
// The package has two operations:
//
//   - [Generate] builds a random [Matrix] for N participants.
//   - [Resolve] walks one start column to its terminal column.
//
// [Trace] performs the same walk and records every crossing for renderers
// and animations, and [ResolveAll] resolves all columns concurrently.
//
// # Randomness
//
// Generation draws from an injected [Source]. Use [NewSource] with a fixed
// seed to reproduce a ladder exactly:
//
//	m, err := ladder.Generate(5, ladder.NewSource(42), nil)
//	if err != nil {
//	    return err
//	}
//	end, err := ladder.Resolve(m, 0)
//	fmt.Println("rank", end+1)
//
// # Concurrency
//
// A [Matrix] is never mutated after [Generate] returns. [Resolve] and [Trace]
// only read it and are safe to call from any number of goroutines.
package ladder
