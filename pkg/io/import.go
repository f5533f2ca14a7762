package io

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"

	errs "github.com/matzehuels/ghostleg/pkg/errors"
	"github.com/matzehuels/ghostleg/pkg/game"
)

// ReadJSON decodes a round from r and verifies it with [game.Round.Check].
//
// ReadJSON returns an INVALID_FORMAT error if the JSON is malformed, and the
// Check error if the decoded round is inconsistent. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*game.Round, error) {
	var round game.Round
	if err := json.NewDecoder(r).Decode(&round); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode round")
	}
	if err := round.Check(); err != nil {
		return nil, err
	}
	return &round, nil
}

// ImportJSON reads a JSON file at path and returns the decoded round.
//
// A missing file yields FILE_NOT_FOUND. Other errors are those of [ReadJSON],
// wrapped with the file path.
func ImportJSON(path string) (*game.Round, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "round file %s not found", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()

	round, err := ReadJSON(f)
	if err != nil {
		return nil, errs.Wrap(errs.GetCode(err), err, "import %s", path)
	}
	return round, nil
}
