package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/ghostleg/pkg/cache"
	"github.com/matzehuels/ghostleg/pkg/game"
	"github.com/matzehuels/ghostleg/pkg/ladder"
	"github.com/matzehuels/ghostleg/pkg/observability"
	"github.com/matzehuels/ghostleg/pkg/pipeline"
	"github.com/matzehuels/ghostleg/pkg/roster"
)

const playBody = `{"participants":[{"id":"a","name":"Alice"},{"id":"b","name":"Bob"},{"id":"c","name":"Carol"}],"seed":7}`

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, nil)
	srv := httptest.NewServer(New(runner, nil, opts).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, contentType, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func play(t *testing.T, srv *httptest.Server) *game.Round {
	t.Helper()
	resp := do(t, http.MethodPost, srv.URL+"/api/rounds", "application/json", playBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("play status = %d, want 201", resp.StatusCode)
	}
	return decodeBody[*game.Round](t, resp)
}

func TestPlayAndGet(t *testing.T) {
	srv := newTestServer(t, Options{})
	round := play(t, srv)

	if len(round.Placements) != 3 {
		t.Fatalf("placements = %d, want 3", len(round.Placements))
	}
	if round.Seed != 7 {
		t.Errorf("seed = %d, want 7", round.Seed)
	}
	if err := round.Check(); err != nil {
		t.Errorf("returned round fails check: %v", err)
	}

	for _, id := range []string{round.ID, "latest"} {
		resp := do(t, http.MethodGet, srv.URL+"/api/rounds/"+id, "", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status = %d", id, resp.StatusCode)
		}
		got := decodeBody[*game.Round](t, resp)
		if got.ID != round.ID {
			t.Errorf("GET %s id = %s, want %s", id, got.ID, round.ID)
		}
	}
}

func TestPlayZeroProbability(t *testing.T) {
	srv := newTestServer(t, Options{})
	body := `{"participants":[{"id":"a","name":"A"},{"id":"b","name":"B"},{"id":"c","name":"C"}],"seed":5,"ladder":{"probability":0}}`
	resp := do(t, http.MethodPost, srv.URL+"/api/rounds", "application/json", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	round := decodeBody[*game.Round](t, resp)
	if got := round.Matrix.RungCount(); got != 0 {
		t.Errorf("rungs = %d, want 0", got)
	}
	for _, p := range round.Placements {
		if p.Column != p.Start {
			t.Errorf("%s moved from %d to %d without rungs", p.Participant.ID, p.Start, p.Column)
		}
	}
}

func TestPlayUsesServerDefaults(t *testing.T) {
	srv := newTestServer(t, Options{Ladder: ladder.Options{MinRows: 30}})
	round := play(t, srv)
	if got := round.Matrix.RowCount(); got != 30 {
		t.Errorf("rows = %d, want 30", got)
	}
}

func TestErrors(t *testing.T) {
	srv := newTestServer(t, Options{MaxParticipants: 3})

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"one participant", http.MethodPost, "/api/rounds", `{"participants":[{"id":"a","name":"A"}]}`, 400, "INVALID_PARTICIPANT_COUNT"},
		{"duplicate", http.MethodPost, "/api/rounds", `{"participants":[{"id":"a","name":"A"},{"id":"a","name":"B"}]}`, 400, "DUPLICATE_PARTICIPANT"},
		{"too many", http.MethodPost, "/api/rounds", `{"participants":[{"id":"a","name":"A"},{"id":"b","name":"B"},{"id":"c","name":"C"},{"id":"d","name":"D"}]}`, 400, "INVALID_PARTICIPANT_COUNT"},
		{"bad json", http.MethodPost, "/api/rounds", `{`, 400, "INVALID_INPUT"},
		{"unknown field", http.MethodPost, "/api/rounds", `{"players":[]}`, 400, "INVALID_INPUT"},
		{"bad probability", http.MethodPost, "/api/rounds", `{"participants":[{"id":"a","name":"A"},{"id":"b","name":"B"}],"ladder":{"probability":2}}`, 400, "INVALID_INPUT"},
		{"too many rows", http.MethodPost, "/api/rounds", `{"participants":[{"id":"a","name":"A"},{"id":"b","name":"B"}],"ladder":{"min_rows":1099511627776}}`, 400, "INVALID_INPUT"},
		{"rows per participant overflow", http.MethodPost, "/api/rounds", `{"participants":[{"id":"a","name":"A"},{"id":"b","name":"B"},{"id":"c","name":"C"}],"ladder":{"rows_per_participant":4611686018427387904}}`, 400, "INVALID_INPUT"},
		{"row product above cap", http.MethodPost, "/api/rounds", `{"participants":[{"id":"a","name":"A"},{"id":"b","name":"B"},{"id":"c","name":"C"}],"ladder":{"rows_per_participant":5000}}`, 400, "INVALID_INPUT"},
		{"missing round", http.MethodGet, "/api/rounds/nope", "", 404, "ROUND_NOT_FOUND"},
		{"no latest", http.MethodGet, "/api/rounds/latest", "", 404, "ROUND_NOT_FOUND"},
		{"replay missing", http.MethodPost, "/api/rounds/nope/replay", "", 404, "ROUND_NOT_FOUND"},
		{"no route", http.MethodGet, "/api/nothing", "", 404, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, srv.URL+tt.path, "application/json", tt.body)
			if resp.StatusCode != tt.wantCode {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantCode)
			}
			got := decodeBody[errorBody](t, resp)
			if got.Code != tt.wantErr {
				t.Errorf("code = %q, want %q (message %q)", got.Code, tt.wantErr, got.Message)
			}
		})
	}
}

func TestReplay(t *testing.T) {
	srv := newTestServer(t, Options{})
	first := play(t, srv)

	resp := do(t, http.MethodPost, srv.URL+"/api/rounds/"+first.ID+"/replay", "application/json", `{"seed":99}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	next := decodeBody[*game.Round](t, resp)
	if next.ID == first.ID {
		t.Error("replay reused the round id")
	}
	if next.Seed != 99 {
		t.Errorf("seed = %d, want 99", next.Seed)
	}
	if len(next.Participants) != len(first.Participants) {
		t.Errorf("participants = %d, want %d", len(next.Participants), len(first.Participants))
	}

	latest := decodeBody[*game.Round](t, do(t, http.MethodGet, srv.URL+"/api/rounds/latest", "", ""))
	if latest.ID != next.ID {
		t.Errorf("latest = %s, want replayed round %s", latest.ID, next.ID)
	}
}

func TestResultsCSV(t *testing.T) {
	srv := newTestServer(t, Options{})
	round := play(t, srv)

	resp := do(t, http.MethodGet, srv.URL+"/api/rounds/"+round.ID+"/results.csv", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q", ct)
	}
	cd := resp.Header.Get("Content-Disposition")
	if !strings.Contains(cd, "ladder_results_") || !strings.Contains(cd, ".csv") {
		t.Errorf("content disposition = %q", cd)
	}

	data, _ := io.ReadAll(resp.Body)
	body := string(data)
	if !strings.HasPrefix(body, "\uFEFF") {
		t.Error("missing byte order mark")
	}
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(body, "\uFEFF")), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3: %q", len(lines), body)
	}
	for i, line := range lines {
		p := round.Placements[i]
		want := strings.Join([]string{strconv.Itoa(p.Rank), p.Participant.ID, p.Participant.Name}, ",")
		if line != want {
			t.Errorf("line %d = %q, want %q", i, line, want)
		}
	}
}

func TestLadderSVG(t *testing.T) {
	srv := newTestServer(t, Options{})
	round := play(t, srv)
	base := srv.URL + "/api/rounds/" + round.ID + "/ladder.svg"

	resp := do(t, http.MethodGet, base, "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	plain, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(plain), "<svg") {
		t.Fatal("body is not SVG")
	}
	if strings.Contains(string(plain), "data-start=") {
		t.Error("paths drawn without paths=true")
	}

	withPaths, _ := io.ReadAll(do(t, http.MethodGet, base+"?paths=true&width=600", "", "").Body)
	if got := strings.Count(string(withPaths), "data-start="); got != 3 {
		t.Errorf("paths = %d, want 3", got)
	}

	for _, q := range []string{"?paths=maybe", "?width=-3", "?width=wide"} {
		if resp := do(t, http.MethodGet, base+q, "", ""); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, resp.StatusCode)
		}
	}
}

func TestPaths(t *testing.T) {
	srv := newTestServer(t, Options{})
	round := play(t, srv)

	resp := do(t, http.MethodGet, srv.URL+"/api/rounds/"+round.ID+"/paths", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	paths := decodeBody[[]ladder.Path](t, resp)
	if len(paths) != 3 {
		t.Fatalf("paths = %d, want 3", len(paths))
	}
	for _, p := range round.Placements {
		if paths[p.Start].End != p.Column {
			t.Errorf("start %d: path ends at %d, placement says %d", p.Start, paths[p.Start].End, p.Column)
		}
	}
}

func TestMappingSVG(t *testing.T) {
	srv := newTestServer(t, Options{})
	round := play(t, srv)

	resp := do(t, http.MethodGet, srv.URL+"/api/rounds/"+round.ID+"/mapping.svg", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), "<svg") {
		t.Error("body is not SVG")
	}
}

func TestParseRoster(t *testing.T) {
	srv := newTestServer(t, Options{})
	body := "\uFEFFa,Alice\n\nb, Bob ,extra\nonlyone\na,Again\n"

	resp := do(t, http.MethodPost, srv.URL+"/api/rosters", "text/csv", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	got := decodeBody[roster.ImportResult](t, resp)
	if got.Added != 2 || got.Duplicates != 1 {
		t.Errorf("added=%d duplicates=%d, want 2 and 1", got.Added, got.Duplicates)
	}
	if len(got.Participants) != 2 || got.Participants[1] != (roster.Participant{ID: "b", Name: "Bob"}) {
		t.Errorf("participants = %+v", got.Participants)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp := do(t, http.MethodGet, srv.URL+"/healthz", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	got := decodeBody[healthResponse](t, resp)
	if got.Status != "ok" || got.Build.Version == "" {
		t.Errorf("health = %+v", got)
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	statuses []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	h := New(pipeline.NewRunner(cache.NewMemoryCache(), nil, nil), nil, Options{}).Handler()
	for _, path := range []string{"/healthz", "/api/rounds/missing"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if len(hooks.statuses) != 2 || hooks.statuses[0] != 200 || hooks.statuses[1] != 404 {
		t.Errorf("statuses = %v, want [200 404]", hooks.statuses)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, nil)
	s := New(runner, nil, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0", time.Second) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
