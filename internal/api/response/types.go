package response

import (
	"strconv"
	"time"

	"github.com/mcoot/onewordstory/internal/model"
	"github.com/mcoot/onewordstory/internal/services/auth"
	"github.com/mcoot/onewordstory/internal/services/invitation"
	"github.com/mcoot/onewordstory/internal/services/story"
)

// User represents an account in API responses
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	EmailVerified bool   `json:"emailVerified"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		EmailVerified: u.EmailVerified,
	}
}

// AuthResponse is the response for register and login
type AuthResponse struct {
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session, message string) AuthResponse {
	return AuthResponse{
		Message: message,
		Token:   s.Token,
		User:    UserFromModel(s.User),
	}
}

// UserResponse wraps a single user
type UserResponse struct {
	Message string `json:"message,omitempty"`
	User    User   `json:"user"`
}

// MessageResponse carries only a message
type MessageResponse struct {
	Message string `json:"message"`
}

// UserRef is the public identity of a user
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func userRef(r story.UserRef) UserRef {
	return UserRef{ID: r.ID, Username: r.Username}
}

// StorySummary is a story with the caller's derived turn flags
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

// StorySummaryFromService converts a story.Summary
func StorySummaryFromService(s *story.Summary) StorySummary {
	return StorySummary{
		ID:                    s.ID,
		Title:                 s.Title,
		IsEnded:               s.IsEnded,
		EndedAt:               s.EndedAt,
		CreatedAt:             s.CreatedAt,
		CreatedBy:             userRef(s.CreatedBy),
		WordCount:             s.WordCount,
		ParticipantCount:      s.ParticipantCount,
		CurrentTurn:           s.CurrentTurn,
		IsYourTurn:            s.IsYourTurn,
		NeedsMoreParticipants: s.NeedsMoreParticipants,
	}
}

// Word is a submitted word
type Word struct {
	ID        string    `json:"id"`
	Word      string    `json:"word"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	AddedBy   UserRef   `json:"addedBy"`
}

// WordFromService converts a story.WordView
func WordFromService(w *story.WordView) Word {
	return Word{
		ID:        w.ID,
		Word:      w.Text,
		Position:  w.Position,
		CreatedAt: w.CreatedAt,
		AddedBy:   userRef(w.AddedBy),
	}
}

// StoryParticipant is a seat in a story's rotation
type StoryParticipant struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	TurnOrder int       `json:"turnOrder"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// StoryDetail is the full view of a story
type StoryDetail struct {
	StorySummary
	EndedBy      *UserRef           `json:"endedBy"`
	Words        []Word             `json:"words"`
	Participants []StoryParticipant `json:"participants"`
}

// StoryDetailFromService converts a story.Detail
func StoryDetailFromService(d *story.Detail) StoryDetail {
	out := StoryDetail{
		StorySummary: StorySummaryFromService(&d.Summary),
		Words:        make([]Word, len(d.Words)),
		Participants: make([]StoryParticipant, len(d.Participants)),
	}
	if d.EndedBy != nil {
		ref := userRef(*d.EndedBy)
		out.EndedBy = &ref
	}
	for i := range d.Words {
		out.Words[i] = WordFromService(&d.Words[i])
	}
	for i, p := range d.Participants {
		out.Participants[i] = StoryParticipant{
			ID:        p.UserID,
			Username:  p.Username,
			TurnOrder: p.TurnOrder,
			JoinedAt:  p.JoinedAt,
		}
	}
	return out
}

// StoryResponse wraps a created story
type StoryResponse struct {
	Story StorySummary `json:"story"`
}

// StoryDetailResponse wraps a story detail
type StoryDetailResponse struct {
	Story StoryDetail `json:"story"`
}

// StoriesResponse lists the caller's stories
type StoriesResponse struct {
	Stories []StorySummary `json:"stories"`
}

// WordResponse wraps an added word
type WordResponse struct {
	Word Word `json:"word"`
}

// EndStoryResponse is returned when a story is ended
type EndStoryResponse struct {
	Message string  `json:"message"`
	EndedBy UserRef `json:"endedBy"`
}

// EndStoryResponseFromService creates an EndStoryResponse
func EndStoryResponseFromService(by *story.UserRef) EndStoryResponse {
	return EndStoryResponse{
		Message: "Story ended successfully",
		EndedBy: userRef(*by),
	}
}

// Invitation is a stored invitation as returned to its sender
type Invitation struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// InvitationError explains why one address was not invited
type InvitationError struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// CreateInvitationsResponse reports a batch invite
type CreateInvitationsResponse struct {
	Message     string            `json:"message"`
	Invitations []Invitation      `json:"invitations"`
	Errors      []InvitationError `json:"errors,omitempty"`
}

// CreateInvitationsResponseFromService converts an invitation.Result
func CreateInvitationsResponseFromService(res *invitation.Result) CreateInvitationsResponse {
	out := CreateInvitationsResponse{
		Invitations: make([]Invitation, len(res.Invitations)),
	}
	for i, inv := range res.Invitations {
		out.Invitations[i] = Invitation{
			ID:        inv.ID,
			Email:     inv.Email,
			CreatedAt: inv.CreatedAt,
			ExpiresAt: inv.ExpiresAt,
		}
	}
	for _, f := range res.Errors {
		out.Errors = append(out.Errors, InvitationError{Email: f.Email, Reason: f.Reason})
	}
	out.Message = invitationsSentMessage(len(out.Invitations))
	return out
}

func invitationsSentMessage(n int) string {
	return strconv.Itoa(n) + " invitation(s) sent successfully"
}

// JoinedStory identifies the story an invitation led into
type JoinedStory struct {
	ID    string  `json:"id"`
	Title *string `json:"title"`
}

// AcceptInvitationResponse is returned after redeeming a token
type AcceptInvitationResponse struct {
	Message string      `json:"message"`
	Story   JoinedStory `json:"story"`
}

// Participant is a story participant as listed by the invitation endpoints
type Participant struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	TurnOrder int       `json:"turnOrder"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// ParticipantsResponse lists a story's participants
type ParticipantsResponse struct {
	Participants []Participant `json:"participants"`
}

// ParticipantsResponseFromService converts invitation participant rows
func ParticipantsResponseFromService(ps []invitation.ParticipantInfo) ParticipantsResponse {
	out := ParticipantsResponse{Participants: make([]Participant, len(ps))}
	for i, p := range ps {
		out.Participants[i] = Participant{
			ID:        p.UserID,
			Username:  p.Username,
			Email:     p.Email,
			TurnOrder: p.TurnOrder,
			JoinedAt:  p.JoinedAt,
		}
	}
	return out
}

// PendingInvitation is an open invitation
type PendingInvitation struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	InvitedBy string    `json:"invitedBy"`
}

// PendingInvitationsResponse lists a story's open invitations
type PendingInvitationsResponse struct {
	Invitations []PendingInvitation `json:"invitations"`
}

// PendingInvitationsResponseFromService converts pending invitation rows
func PendingInvitationsResponseFromService(ps []invitation.Pending) PendingInvitationsResponse {
	out := PendingInvitationsResponse{Invitations: make([]PendingInvitation, len(ps))}
	for i, p := range ps {
		out.Invitations[i] = PendingInvitation(p)
	}
	return out
}

// AdminUser is an account as shown to administrators
type AdminUser struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// UsersResponse lists accounts for administrators
type UsersResponse struct {
	Users []AdminUser `json:"users"`
}

// UsersResponseFromModel converts model users
func UsersResponseFromModel(users []model.User) UsersResponse {
	out := UsersResponse{Users: make([]AdminUser, len(users))}
	for i, u := range users {
		out.Users[i] = AdminUser{
			ID:            u.ID,
			Username:      u.Username,
			Email:         u.Email,
			EmailVerified: u.EmailVerified,
			Role:          string(u.Role),
			CreatedAt:     u.CreatedAt,
			UpdatedAt:     u.UpdatedAt,
		}
	}
	return out
}

// DeletedUser identifies a removed account
type DeletedUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// DeleteUserResponse is returned after an admin deletes an account
type DeleteUserResponse struct {
	Message string      `json:"message"`
	User    DeletedUser `json:"user"`
}

// ResendVerificationResponse is returned after a verification email is resent
type ResendVerificationResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

// HealthResponse reports service health
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
