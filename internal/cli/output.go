package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(MessageResult{Message: msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case AuthResult:
		o.printAuthResult(v)
	case UserResult:
		o.printUserResult(v)
	case StoriesResult:
		o.printStories(v)
	case StoryResult:
		o.printSummary(v.Story)
	case StoryDetailResult:
		o.printDetail(v.Story)
	case WordResult:
		o.printf("Added %q at position %d\n", v.Word.Word, v.Word.Position)
	case EndResult:
		o.printf("%s by %s\n", v.Message, v.EndedBy.Username)
	case MessageResult:
		o.printf("%s\n", v.Message)
	case InvitationsResult:
		o.printInvitations(v)
	case AcceptResult:
		o.printf("%s: %s (%s)\n", v.Message, titleOf(v.Story.Title), v.Story.ID)
	case ParticipantsResult:
		o.printParticipants(v)
	case PendingResult:
		o.printPending(v)
	case UsersResult:
		o.printUsers(v)
	case DeleteUserResult:
		o.printf("%s: %s <%s>\n", v.Message, v.User.Username, v.User.Email)
	case ResendResult:
		o.printf("%s to %s\n", v.Message, v.Email)
	case HealthResult:
		o.printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printf(format string, args ...any) {
	fmt.Fprintf(o.w, format, args...)
}

// User response type (matches API)
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	EmailVerified bool   `json:"emailVerified"`
}

// AuthResult carries a session token and its user
type AuthResult struct {
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// UserResult is returned by me and verify
type UserResult struct {
	Message string `json:"message,omitempty"`
	User    User   `json:"user"`
}

// MessageResult is a bare confirmation
type MessageResult struct {
	Message string `json:"message"`
}

// UserRef names a user
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// StorySummary response type
type StorySummary struct {
	ID                    string     `json:"id"`
	Title                 *string    `json:"title"`
	IsEnded               bool       `json:"isEnded"`
	EndedAt               *time.Time `json:"endedAt"`
	CreatedAt             time.Time  `json:"createdAt"`
	CreatedBy             UserRef    `json:"createdBy"`
	WordCount             int        `json:"wordCount"`
	ParticipantCount      int        `json:"participantCount"`
	CurrentTurn           *int       `json:"currentTurn"`
	IsYourTurn            bool       `json:"isYourTurn"`
	NeedsMoreParticipants bool       `json:"needsMoreParticipants"`
}

// Word response type
type Word struct {
	ID        string    `json:"id"`
	Word      string    `json:"word"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	AddedBy   UserRef   `json:"addedBy"`
}

// StoryParticipant is a seat in the turn rotation
type StoryParticipant struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	TurnOrder int       `json:"turnOrder"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// StoryDetail response type
type StoryDetail struct {
	StorySummary
	EndedBy      *UserRef           `json:"endedBy"`
	Words        []Word             `json:"words"`
	Participants []StoryParticipant `json:"participants"`
}

// StoriesResult response type
type StoriesResult struct {
	Stories []StorySummary `json:"stories"`
}

// StoryResult response type
type StoryResult struct {
	Story StorySummary `json:"story"`
}

// StoryDetailResult response type
type StoryDetailResult struct {
	Story StoryDetail `json:"story"`
}

// WordResult response type
type WordResult struct {
	Word Word `json:"word"`
}

// EndResult response type
type EndResult struct {
	Message string  `json:"message"`
	EndedBy UserRef `json:"endedBy"`
}

// Invitation is a sent invitation
type Invitation struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// InvitationError is a per-address failure
type InvitationError struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// InvitationsResult response type
type InvitationsResult struct {
	Message     string            `json:"message"`
	Invitations []Invitation      `json:"invitations"`
	Errors      []InvitationError `json:"errors,omitempty"`
}

// AcceptResult response type
type AcceptResult struct {
	Message string `json:"message"`
	Story   struct {
		ID    string  `json:"id"`
		Title *string `json:"title"`
	} `json:"story"`
}

// Participant is a participant with contact details
type Participant struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	TurnOrder int       `json:"turnOrder"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// ParticipantsResult response type
type ParticipantsResult struct {
	Participants []Participant `json:"participants"`
}

// PendingInvitation response type
type PendingInvitation struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	InvitedBy string    `json:"invitedBy"`
}

// PendingResult response type
type PendingResult struct {
	Invitations []PendingInvitation `json:"invitations"`
}

// AdminUser response type
type AdminUser struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// UsersResult response type
type UsersResult struct {
	Users []AdminUser `json:"users"`
}

// DeleteUserResult response type
type DeleteUserResult struct {
	Message string `json:"message"`
	User    struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
}

// ResendResult response type
type ResendResult struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

// HealthResult response type
type HealthResult struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func titleOf(title *string) string {
	if title == nil || *title == "" {
		return "(untitled)"
	}
	return *title
}

func (o *Output) printUser(u User) {
	verified := "no"
	if u.EmailVerified {
		verified = "yes"
	}
	o.printf("User: %s <%s> (%s)\n", u.Username, u.Email, u.ID)
	o.printf("Verified: %s\n", verified)
}

func (o *Output) printAuthResult(a AuthResult) {
	if a.Message != "" {
		o.printf("%s\n", a.Message)
	}
	o.printUser(a.User)
	o.printf("Token: %s\n", a.Token)
}

func (o *Output) printUserResult(u UserResult) {
	if u.Message != "" {
		o.printf("%s\n", u.Message)
	}
	o.printUser(u.User)
}

// status is the one-word state shown in story listings
func status(s StorySummary) string {
	switch {
	case s.IsEnded:
		return "ended"
	case s.IsYourTurn:
		return "your turn"
	case s.CurrentTurn == nil:
		return "waiting for players"
	default:
		return fmt.Sprintf("turn %d", *s.CurrentTurn)
	}
}

func (o *Output) printStories(r StoriesResult) {
	if len(r.Stories) == 0 {
		o.printf("No stories\n")
		return
	}
	for _, s := range r.Stories {
		o.printf("%s  %-30s  %3d words  %d players  %s\n",
			s.ID, titleOf(s.Title), s.WordCount, s.ParticipantCount, status(s))
	}
}

func (o *Output) printSummary(s StorySummary) {
	o.printf("Story: %s (%s)\n", titleOf(s.Title), s.ID)
	o.printf("Created by: %s\n", s.CreatedBy.Username)
	o.printf("Words: %d\n", s.WordCount)
	o.printf("Participants: %d\n", s.ParticipantCount)
	o.printf("Status: %s\n", status(s))
	if s.NeedsMoreParticipants {
		o.printf("Invite at least one other participant to continue\n")
	}
}

func (o *Output) printDetail(d StoryDetail) {
	o.printSummary(d.StorySummary)
	if d.EndedBy != nil {
		o.printf("Ended by: %s\n", d.EndedBy.Username)
	}

	o.printf("Participants:\n")
	for _, p := range d.Participants {
		marker := ""
		if d.CurrentTurn != nil && *d.CurrentTurn == p.TurnOrder {
			marker = " <- next"
		}
		o.printf("  %d. %s%s\n", p.TurnOrder+1, p.Username, marker)
	}

	words := make([]string, len(d.Words))
	for i, w := range d.Words {
		words[i] = w.Word
	}
	o.printf("\n%s\n", strings.Join(words, " "))
}

func (o *Output) printInvitations(r InvitationsResult) {
	o.printf("%s\n", r.Message)
	for _, inv := range r.Invitations {
		o.printf("  sent: %s (expires %s)\n", inv.Email, inv.ExpiresAt.Format(time.RFC3339))
	}
	for _, e := range r.Errors {
		o.printf("  failed: %s: %s\n", e.Email, e.Reason)
	}
}

func (o *Output) printParticipants(r ParticipantsResult) {
	for _, p := range r.Participants {
		o.printf("%d. %s <%s> joined %s\n", p.TurnOrder+1, p.Username, p.Email, p.JoinedAt.Format(time.RFC3339))
	}
}

func (o *Output) printPending(r PendingResult) {
	if len(r.Invitations) == 0 {
		o.printf("No pending invitations\n")
		return
	}
	for _, inv := range r.Invitations {
		o.printf("%s invited by %s, expires %s\n", inv.Email, inv.InvitedBy, inv.ExpiresAt.Format(time.RFC3339))
	}
}

func (o *Output) printUsers(r UsersResult) {
	for _, u := range r.Users {
		verified := ""
		if !u.EmailVerified {
			verified = " [unverified]"
		}
		o.printf("%s  %-20s  %-30s  %s%s\n", u.ID, u.Username, u.Email, u.Role, verified)
	}
}
