package story

import (
	"time"

	"github.com/mcoot/onewordstory/internal/model"
)

// UserRef is the public identity of a user as shown on a story
type UserRef struct {
	ID       string
	Username string
}

// Summary is a story as listed for one caller. The turn fields are derived
// from live counts on every read and never stored.
type Summary struct {
	ID        string
	Title     *string
	IsEnded   bool
	EndedAt   *time.Time
	CreatedAt time.Time
	CreatedBy UserRef

	WordCount             int
	ParticipantCount      int
	CurrentTurn           *int
	IsYourTurn            bool
	NeedsMoreParticipants bool
}

// Detail is the full read-model of one story for one caller
type Detail struct {
	Summary
	EndedBy      *UserRef
	Words        []WordView
	Participants []ParticipantView
}

// WordView is a word with its author
type WordView struct {
	ID        string
	Text      string
	Position  int
	CreatedAt time.Time
	AddedBy   UserRef
}

// ParticipantView is a seat in the rotation with its holder
type ParticipantView struct {
	UserID    string
	Username  string
	TurnOrder int
	JoinedAt  time.Time
}

// summarize derives the caller-specific flags from a turn state
func summarize(s *model.Story, createdBy UserRef, state model.TurnState, callerTurnOrder int) Summary {
	sum := Summary{
		ID:                    s.ID,
		Title:                 s.Title,
		IsEnded:               s.IsEnded,
		EndedAt:               s.EndedAt,
		CreatedAt:             s.CreatedAt,
		CreatedBy:             createdBy,
		WordCount:             state.WordCount,
		ParticipantCount:      state.ParticipantCount,
		IsYourTurn:            state.IsTurnOf(callerTurnOrder),
		NeedsMoreParticipants: state.NeedsMoreParticipants(),
	}
	if slot, ok := state.CurrentTurn(); ok {
		sum.CurrentTurn = &slot
	}
	return sum
}
