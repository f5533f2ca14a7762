// Package io reads and writes played ladder rounds.
//
// # Results CSV
//
// [WriteResultsCSV] emits the final standings in the format spreadsheet users
// expect: a UTF-8 byte order mark followed by one line per participant,
// ordered by rank, with no header row:
//
//	1,S03,Charlie
//	2,S01,Alice
//	3,S02,Bob
//
// The byte order mark makes spreadsheet applications detect UTF-8, so names
// in non-Latin scripts survive the round trip. [ResultsFilename] builds the
// default download name from a timestamp.
//
// # Round JSON
//
// [WriteJSON] and [ReadJSON] serialize a complete [game.Round]: participants,
// seed, ladder options, the rung matrix, and placements. A round written with
// WriteJSON can be re-rendered or re-checked later without the random seed
// producing it again.
//
// ReadJSON validates what it decodes with [game.Round.Check], so a file with a
// malformed matrix or placements that disagree with the ladder is rejected
// rather than rendered.
//
//	round, err := io.ImportJSON("round.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = io.ExportResultsCSV(round, io.ResultsFilename(time.Now()))
package io
