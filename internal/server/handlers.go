package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/ghostleg/pkg/buildinfo"
	errs "github.com/matzehuels/ghostleg/pkg/errors"
	"github.com/matzehuels/ghostleg/pkg/game"
	gio "github.com/matzehuels/ghostleg/pkg/io"
	"github.com/matzehuels/ghostleg/pkg/ladder"
	"github.com/matzehuels/ghostleg/pkg/pipeline"
	"github.com/matzehuels/ghostleg/pkg/roster"
)

type playRequest struct {
	Participants []roster.Participant `json:"participants"`
	Seed         uint64               `json:"seed,omitempty"`
	Ladder       *ladder.Options      `json:"ladder,omitempty"`
}

type replayRequest struct {
	Seed uint64 `json:"seed,omitempty"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Participants) > s.opts.MaxParticipants {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidParticipantCount,
			"at most %d participants per round, got %d", s.opts.MaxParticipants, len(req.Participants)))
		return
	}

	opts := pipeline.Options{
		Participants: req.Participants,
		Seed:         req.Seed,
		Ladder:       s.opts.Ladder,
	}
	if req.Ladder != nil {
		opts.Ladder = *req.Ladder
	}
	if opts.Seed == 0 {
		opts.Seed = s.opts.Seed
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/rounds/"+res.Round.ID)
	writeJSON(w, http.StatusCreated, res.Round)
}

func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	round, ok := s.loadRound(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, round)
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	var req replayRequest
	if r.ContentLength != 0 {
		if err := s.decode(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	seed := req.Seed
	if seed == 0 {
		seed = s.opts.Seed
	}
	round, err := s.runner.Replay(r.Context(), chi.URLParam(r, "id"), seed)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/rounds/"+round.ID)
	writeJSON(w, http.StatusCreated, round)
}

func (s *Server) handlePaths(w http.ResponseWriter, r *http.Request) {
	round, ok := s.loadRound(w, r)
	if !ok {
		return
	}
	paths, err := round.Paths()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paths)
}

func (s *Server) handleResultsCSV(w http.ResponseWriter, r *http.Request) {
	round, ok := s.loadRound(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := gio.WriteResultsCSV(round, &buf); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeAttachment(w, "text/csv; charset=utf-8", pipeline.ArtifactFilename(round, pipeline.FormatCSV), buf.Bytes())
}

func (s *Server) handleLadderSVG(w http.ResponseWriter, r *http.Request) {
	round, ok := s.loadRound(w, r)
	if !ok {
		return
	}

	opts := s.opts.Render
	opts.Formats = []string{pipeline.FormatSVG}
	q := r.URL.Query()
	if v := q.Get("paths"); v != "" {
		paths, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "paths: %q is not a boolean", v))
			return
		}
		opts.Paths = paths
	}
	if v := q.Get("width"); v != "" {
		width, err := strconv.ParseFloat(v, 64)
		if err != nil || width <= 0 {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "width: %q is not a positive number", v))
			return
		}
		opts.Width = width
	}

	artifacts, err := s.runner.Render(r.Context(), round, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeBody(w, "image/svg+xml", artifacts[pipeline.FormatSVG])
}

func (s *Server) handleMappingSVG(w http.ResponseWriter, r *http.Request) {
	round, ok := s.loadRound(w, r)
	if !ok {
		return
	}
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))
	svg, err := pipeline.RenderMapping(r.Context(), round, detailed)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeBody(w, "image/svg+xml", svg)
}

func (s *Server) handleParseRoster(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	_, res, err := roster.ParseCSV(r.Body)
	if err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "read roster"))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) loadRound(w http.ResponseWriter, r *http.Request) (*game.Round, bool) {
	round, err := s.runner.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return round, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch {
	case errs.IsInvalid(err):
		return http.StatusBadRequest
	case errs.IsNotFound(err):
		return http.StatusNotFound
	case errs.Is(err, errs.ErrCodeUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(errs.GetCode(err))
	if code == "" {
		code = string(errs.ErrCodeInternal)
	}
	msg := errs.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeBody(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	writeBody(w, contentType, data)
}
