package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Story errors
	ErrStoryNotFound         = errors.New("story not found")
	ErrStoryEnded            = errors.New("story has ended")
	ErrStoryAlreadyEnded     = errors.New("story has already ended")
	ErrNotParticipant        = errors.New("user is not a participant in this story")
	ErrNeedsMoreParticipants = errors.New("story needs at least two participants")
	ErrNotYourTurn           = errors.New("not this user's turn")
	ErrNotYourTurnToEnd      = errors.New("story can only be ended on the user's turn")
	ErrNotCreator            = errors.New("story not found or user is not the creator")

	// Invitation errors
	ErrInviterNotParticipant   = errors.New("story not found or inviter is not a participant")
	ErrInviteToEndedStory      = errors.New("cannot invite to an ended story")
	ErrInvitationNotFound      = errors.New("invitation not found")
	ErrInvitationAccepted      = errors.New("invitation already accepted")
	ErrInvitationExpired       = errors.New("invitation has expired")
	ErrInvitationEmailMismatch = errors.New("invitation was sent to a different email address")
	ErrAlreadyParticipant      = errors.New("user is already a participant in this story")

	// Admin errors
	ErrAdminRequired    = errors.New("admin access required")
	ErrCannotDeleteSelf = errors.New("cannot delete own account")
	ErrAlreadyVerified  = errors.New("email is already verified")
)
