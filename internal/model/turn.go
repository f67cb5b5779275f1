package model

// MinParticipants is the number of participants a story needs before play begins
const MinParticipants = 2

// StoryState is derived from counts and the ended flag, never stored
type StoryState string

const (
	StoryStateForming StoryState = "forming" // Fewer than MinParticipants
	StoryStateActive  StoryState = "active"
	StoryStateEnded   StoryState = "ended"
)

// TurnState is a snapshot of the counts that decide whose turn it is
type TurnState struct {
	WordCount        int
	ParticipantCount int
	Ended            bool
}

// State returns the story's position in the forming/active/ended machine
func (t TurnState) State() StoryState {
	switch {
	case t.Ended:
		return StoryStateEnded
	case t.ParticipantCount < MinParticipants:
		return StoryStateForming
	default:
		return StoryStateActive
	}
}

// CurrentTurn returns the turn slot that may act next.
// ok is false when the story is forming or ended.
func (t TurnState) CurrentTurn() (slot int, ok bool) {
	if t.State() != StoryStateActive {
		return 0, false
	}
	return t.WordCount % t.ParticipantCount, true
}

// IsTurnOf reports whether the participant holding turnOrder may act now
func (t TurnState) IsTurnOf(turnOrder int) bool {
	slot, ok := t.CurrentTurn()
	return ok && slot == turnOrder
}

// NeedsMoreParticipants is true once words exist but nobody else has joined
func (t TurnState) NeedsMoreParticipants() bool {
	return t.ParticipantCount < MinParticipants && t.WordCount > 0
}
