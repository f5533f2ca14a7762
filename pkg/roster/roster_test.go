package roster

import (
	"errors"
	"strings"
	"testing"

	errs "github.com/matzehuels/ghostleg/pkg/errors"
)

func TestRosterAdd(t *testing.T) {
	var r Roster
	if err := r.Add(" 1001 ", "  Kim  "); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if err := r.Add("1002", "Lee"); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	got := r.Participants()
	if len(got) != 2 {
		t.Fatalf("Len = %d, want 2", len(got))
	}
	if got[0] != (Participant{ID: "1001", Name: "Kim"}) {
		t.Errorf("first participant = %+v, fields should be trimmed", got[0])
	}
	if !r.Ready() {
		t.Error("two participants should be ready")
	}

	err := r.Add("1001", "Park")
	if !errs.Is(err, errs.ErrCodeDuplicateParticipant) {
		t.Errorf("duplicate Add error = %v, want %s", err, errs.ErrCodeDuplicateParticipant)
	}
	if r.Len() != 2 {
		t.Errorf("duplicate should not be added, Len = %d", r.Len())
	}
}

func TestRosterAddInvalid(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		person string
	}{
		{"empty id", "", "Kim"},
		{"blank id", "   ", "Kim"},
		{"empty name", "1001", ""},
		{"comma in id", "10,01", "Kim"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Roster
			if err := r.Add(tt.id, tt.person); !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Errorf("Add(%q, %q) error = %v, want %s", tt.id, tt.person, err, errs.ErrCodeInvalidInput)
			}
		})
	}
}

func TestRosterRemove(t *testing.T) {
	r, err := New(
		Participant{ID: "a", Name: "A"},
		Participant{ID: "b", Name: "B"},
		Participant{ID: "c", Name: "C"},
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Remove(1); err != nil {
		t.Fatal(err)
	}
	if r.Index("c") != 1 {
		t.Errorf("Index(c) = %d, want 1 after removal", r.Index("c"))
	}
	if r.Contains("b") {
		t.Error("b should be removed")
	}
	if !r.Ready() {
		t.Error("roster with two participants should be ready")
	}
	if err := r.Remove(5); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Remove(5) error = %v", err)
	}
	r.Clear()
	if r.Len() != 0 || r.Ready() {
		t.Error("Clear should empty the roster")
	}
}

func TestRosterParticipantsCopy(t *testing.T) {
	r, _ := New(Participant{ID: "a", Name: "A"}, Participant{ID: "b", Name: "B"})
	ps := r.Participants()
	ps[0].Name = "changed"
	if r.Participants()[0].Name != "A" {
		t.Error("Participants should return a copy")
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New(Participant{ID: "a", Name: "A"}, Participant{ID: "a", Name: "B"})
	if !errs.Is(err, errs.ErrCodeDuplicateParticipant) {
		t.Errorf("New error = %v, want %s", err, errs.ErrCodeDuplicateParticipant)
	}
}

func TestImport(t *testing.T) {
	input := "\uFEFF1001,Kim\n" +
		"\n" +
		"1002 , Lee , extra\r\n" +
		"just-one-field\n" +
		"1001,Kim again\n" +
		"  1003,Park  \n" +
		",Nameless\n"

	r, res, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}

	want := []Participant{
		{ID: "1001", Name: "Kim"},
		{ID: "1002", Name: "Lee"},
		{ID: "1003", Name: "Park"},
	}
	got := r.Participants()
	if len(got) != len(want) {
		t.Fatalf("participants = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("participant %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if res.Added != 3 {
		t.Errorf("Added = %d, want 3", res.Added)
	}
	if res.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", res.Duplicates)
	}
	if res.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", res.Skipped)
	}
}

func TestImportAppends(t *testing.T) {
	r, _ := New(Participant{ID: "1001", Name: "Kim"})
	res, err := r.Import(strings.NewReader("1001,Kim\n1002,Lee\n"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Added != 1 || res.Duplicates != 1 {
		t.Errorf("Added=%d Duplicates=%d, want 1/1", res.Added, res.Duplicates)
	}
	if r.Index("1002") != 1 {
		t.Errorf("imported participant should follow existing ones")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestImportReadError(t *testing.T) {
	_, _, err := ParseCSV(failingReader{})
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("ParseCSV error = %v, want %s", err, errs.ErrCodeInvalidInput)
	}
}
