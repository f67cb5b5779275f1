// Package validation checks request input shape before it reaches the services.
// Each validator returns nil when the input is acceptable, or an *Errors
// listing every failed rule.
package validation

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	MsgEmail          = "Valid email is required"
	MsgUsername       = "Username must be 3-50 characters and contain only letters, numbers, hyphens, and underscores"
	MsgPassword       = "Password must be at least 6 characters"
	MsgPasswordNeeded = "Password is required"
	MsgTitle          = "Title must be 200 characters or less"
	MsgInitialWord    = "Initial word must be 1-50 letters (hyphens and apostrophes allowed)"
	MsgWord           = "Word must be 1-50 letters (hyphens and apostrophes allowed)"
	MsgEmailsRequired = "At least one email is required"
	MsgEmailsInvalid  = "All emails must be valid"
	MsgStoryID        = "Valid story ID is required"
	MsgID             = "Invalid ID format"
)

const (
	MaxWordLength     = 50
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 6
	MaxTitleLength    = 200
)

var (
	wordPattern     = regexp.MustCompile(`^[a-zA-Z'-]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)
)

// Errors is the set of messages for rules a request failed
type Errors struct {
	Messages []string
}

// Error joins the messages the way they are reported to clients
func (e *Errors) Error() string {
	return strings.Join(e.Messages, ", ")
}

func (e *Errors) add(msg string) {
	for _, m := range e.Messages {
		if m == msg {
			return
		}
	}
	e.Messages = append(e.Messages, msg)
}

func (e *Errors) result() *Errors {
	if len(e.Messages) == 0 {
		return nil
	}
	return e
}

// NormalizeEmail trims and lowercases an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsEmail reports whether s looks like a deliverable address
func IsEmail(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) <= 254 && emailPattern.MatchString(s)
}

// IsWord reports whether s, once trimmed, is a single acceptable story word
func IsWord(s string) bool {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) < 1 || len(trimmed) > MaxWordLength {
		return false
	}
	return wordPattern.MatchString(trimmed)
}

// Register validates a registration request
func Register(email, username, password string) *Errors {
	errs := &Errors{}
	if !IsEmail(email) {
		errs.add(MsgEmail)
	}
	u := strings.TrimSpace(username)
	if len(u) < MinUsernameLength || len(u) > MaxUsernameLength || !usernamePattern.MatchString(u) {
		errs.add(MsgUsername)
	}
	if len(password) < MinPasswordLength {
		errs.add(MsgPassword)
	}
	return errs.result()
}

// Login validates a login request
func Login(email, password string) *Errors {
	errs := &Errors{}
	if !IsEmail(email) {
		errs.add(MsgEmail)
	}
	if password == "" {
		errs.add(MsgPasswordNeeded)
	}
	return errs.result()
}

// CreateStory validates the optional title and initial word of a new story
func CreateStory(title, initialWord *string) *Errors {
	errs := &Errors{}
	if title != nil && len([]rune(strings.TrimSpace(*title))) > MaxTitleLength {
		errs.add(MsgTitle)
	}
	if initialWord != nil && *initialWord != "" && !IsWord(*initialWord) {
		errs.add(MsgInitialWord)
	}
	return errs.result()
}

// Word validates a word submission
func Word(word string) *Errors {
	errs := &Errors{}
	if !IsWord(word) {
		errs.add(MsgWord)
	}
	return errs.result()
}

// Invite validates an invitation request
func Invite(storyID string, emails []string) *Errors {
	errs := &Errors{}
	if _, err := uuid.Parse(storyID); err != nil {
		errs.add(MsgStoryID)
	}
	if len(emails) == 0 {
		errs.add(MsgEmailsRequired)
	}
	for _, e := range emails {
		if !IsEmail(e) {
			errs.add(MsgEmailsInvalid)
			break
		}
	}
	return errs.result()
}

// ID validates a path identifier
func ID(id string) *Errors {
	errs := &Errors{}
	if _, err := uuid.Parse(id); err != nil {
		errs.add(MsgID)
	}
	return errs.result()
}
