package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// RegisterRequest is the request body for registering a user
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateStoryRequest is the request body for creating a story
type CreateStoryRequest struct {
	Title       *string `json:"title,omitempty"`
	InitialWord *string `json:"initialWord,omitempty"`
}

// AddWordRequest is the request body for adding a word
type AddWordRequest struct {
	Word string `json:"word"`
}

// CreateInvitationsRequest is the request body for inviting people to a story
type CreateInvitationsRequest struct {
	StoryID string   `json:"storyId"`
	Emails  []string `json:"emails"`
}

// Decode reads a JSON body into v. An empty body leaves v at its zero value.
func Decode(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
