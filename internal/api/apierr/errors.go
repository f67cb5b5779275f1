package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/onewordstory/internal/model"
	"github.com/mcoot/onewordstory/internal/services/auth"
	"github.com/mcoot/onewordstory/internal/validation"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeTokenExpired          = "TOKEN_EXPIRED"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeEmailExists           = "EMAIL_EXISTS"
	CodeInvalidVerification   = "INVALID_VERIFICATION_TOKEN"
	CodeEmailNotVerified      = "EMAIL_NOT_VERIFIED"
	CodeUserNotFound          = "USER_NOT_FOUND"
	CodeStoryNotFound         = "STORY_NOT_FOUND"
	CodeStoryEnded            = "STORY_ENDED"
	CodeNotParticipant        = "NOT_PARTICIPANT"
	CodeNeedsMoreParticipants = "NEEDS_MORE_PARTICIPANTS"
	CodeNotYourTurn           = "NOT_YOUR_TURN"
	CodeNotCreator            = "NOT_CREATOR"
	CodeInvitationNotFound    = "INVITATION_NOT_FOUND"
	CodeInvitationAccepted    = "INVITATION_ACCEPTED"
	CodeInvitationExpired     = "INVITATION_EXPIRED"
	CodeEmailMismatch         = "EMAIL_MISMATCH"
	CodeAlreadyParticipant    = "ALREADY_PARTICIPANT"
	CodeAdminRequired         = "ADMIN_REQUIRED"
	CodeCannotDeleteSelf      = "CANNOT_DELETE_SELF"
	CodeAlreadyVerified       = "ALREADY_VERIFIED"
	CodeRateLimited           = "RATE_LIMITED"
	CodeInternalError         = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status WriteError would use for err
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var verr *validation.Errors
	if errors.As(err, &verr) {
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, verr.Error()}}
	}

	switch {
	// Story errors
	case errors.Is(err, model.ErrStoryNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeStoryNotFound, "Story not found"}}
	case errors.Is(err, model.ErrStoryEnded):
		return &httpError{http.StatusBadRequest, APIError{CodeStoryEnded, "This story has ended"}}
	case errors.Is(err, model.ErrStoryAlreadyEnded):
		return &httpError{http.StatusBadRequest, APIError{CodeStoryEnded, "This story has already ended"}}
	case errors.Is(err, model.ErrNotParticipant):
		return &httpError{http.StatusForbidden, APIError{CodeNotParticipant, "You are not a participant in this story"}}
	case errors.Is(err, model.ErrNeedsMoreParticipants):
		return &httpError{http.StatusBadRequest, APIError{CodeNeedsMoreParticipants, "Invite at least one other participant before continuing the story"}}
	case errors.Is(err, model.ErrNotYourTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "It is not your turn"}}
	case errors.Is(err, model.ErrNotYourTurnToEnd):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "You can only end the story on your turn"}}
	case errors.Is(err, model.ErrNotCreator):
		return &httpError{http.StatusForbidden, APIError{CodeNotCreator, "Story not found or you are not the creator"}}

	// Invitation errors
	case errors.Is(err, model.ErrInviterNotParticipant):
		return &httpError{http.StatusForbidden, APIError{CodeNotParticipant, "Story not found or you are not a participant"}}
	case errors.Is(err, model.ErrInviteToEndedStory):
		return &httpError{http.StatusBadRequest, APIError{CodeStoryEnded, "Cannot invite to an ended story"}}
	case errors.Is(err, model.ErrInvitationNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeInvitationNotFound, "Invalid invitation token"}}
	case errors.Is(err, model.ErrInvitationAccepted):
		return &httpError{http.StatusBadRequest, APIError{CodeInvitationAccepted, "Invitation already accepted"}}
	case errors.Is(err, model.ErrInvitationExpired):
		return &httpError{http.StatusBadRequest, APIError{CodeInvitationExpired, "Invitation has expired"}}
	case errors.Is(err, model.ErrInvitationEmailMismatch):
		return &httpError{http.StatusForbidden, APIError{CodeEmailMismatch, "This invitation was sent to a different email address"}}
	case errors.Is(err, model.ErrAlreadyParticipant):
		return &httpError{http.StatusBadRequest, APIError{CodeAlreadyParticipant, "You are already a participant in this story"}}

	// Admin errors
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrAdminRequired):
		return &httpError{http.StatusForbidden, APIError{CodeAdminRequired, "Admin access required"}}
	case errors.Is(err, model.ErrCannotDeleteSelf):
		return &httpError{http.StatusBadRequest, APIError{CodeCannotDeleteSelf, "Cannot delete your own account"}}
	case errors.Is(err, model.ErrAlreadyVerified):
		return &httpError{http.StatusBadRequest, APIError{CodeAlreadyVerified, "User email is already verified"}}

	// Auth errors
	case errors.Is(err, auth.ErrEmailExists):
		return &httpError{http.StatusConflict, APIError{CodeEmailExists, "Email already registered"}}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid credentials"}}
	case errors.Is(err, auth.ErrMissingToken):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "No token provided"}}
	case errors.Is(err, auth.ErrTokenExpired):
		return &httpError{http.StatusUnauthorized, APIError{CodeTokenExpired, "Token expired"}}
	case errors.Is(err, auth.ErrInvalidToken):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid token"}}
	case errors.Is(err, auth.ErrUnknownUser):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "User not found"}}
	case errors.Is(err, auth.ErrInvalidVerificationToken):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidVerification, "Invalid or expired verification token"}}
	case errors.Is(err, auth.ErrEmailNotVerified):
		return &httpError{http.StatusForbidden, APIError{CodeEmailNotVerified, "Email verification required"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewRateLimitedError creates a too-many-requests error
func NewRateLimitedError() error {
	return &httpError{http.StatusTooManyRequests, APIError{CodeRateLimited, "Too many requests, please try again later."}}
}

// NewNotFoundError creates a not found error for unmatched routes
func NewNotFoundError() error {
	return &httpError{http.StatusNotFound, APIError{"NOT_FOUND", "Route not found"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
