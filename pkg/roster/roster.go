// Package roster manages the ordered list of ladder participants.
//
// A participant's position in the roster is its starting column: the first
// participant starts at column 0, the second at column 1, and so on. IDs are
// unique within a roster.
package roster

import (
	"slices"
	"strings"

	errs "github.com/matzehuels/ghostleg/pkg/errors"
	"github.com/matzehuels/ghostleg/pkg/ladder"
)

// Participant is one entrant in a ladder round.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Validate checks the participant's ID and name.
func (p Participant) Validate() error {
	if err := errs.ValidateParticipantID(p.ID); err != nil {
		return err
	}
	return errs.ValidateParticipantName(p.Name)
}

// Roster is an ordered, duplicate-free participant list.
// The zero value is an empty roster ready for use.
type Roster struct {
	participants []Participant
}

// New creates a roster from participants, rejecting invalid or duplicate entries.
func New(participants ...Participant) (*Roster, error) {
	r := &Roster{}
	for _, p := range participants {
		if err := r.Add(p.ID, p.Name); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add appends a participant after trimming its ID and name.
// It returns DUPLICATE_PARTICIPANT if the ID is already present.
func (r *Roster) Add(id, name string) error {
	p := Participant{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name)}
	if err := p.Validate(); err != nil {
		return err
	}
	if r.Contains(p.ID) {
		return errs.New(errs.ErrCodeDuplicateParticipant, "participant %q is already registered", p.ID)
	}
	r.participants = append(r.participants, p)
	return nil
}

// Remove deletes the participant at index, shifting later participants left.
func (r *Roster) Remove(index int) error {
	if index < 0 || index >= len(r.participants) {
		return errs.New(errs.ErrCodeInvalidInput, "no participant at index %d", index)
	}
	r.participants = slices.Delete(r.participants, index, index+1)
	return nil
}

// Contains reports whether a participant with id is registered.
func (r *Roster) Contains(id string) bool {
	return r.Index(id) >= 0
}

// Index returns the position of the participant with id, or -1.
func (r *Roster) Index(id string) int {
	return slices.IndexFunc(r.participants, func(p Participant) bool { return p.ID == id })
}

// Len returns the number of registered participants.
func (r *Roster) Len() int { return len(r.participants) }

// Ready reports whether the roster has enough participants to play.
func (r *Roster) Ready() bool { return len(r.participants) >= ladder.MinParticipants }

// Participants returns a copy of the participants in starting-column order.
func (r *Roster) Participants() []Participant {
	return slices.Clone(r.participants)
}

// Clear removes every participant.
func (r *Roster) Clear() { r.participants = nil }
