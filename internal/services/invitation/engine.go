// Package invitation issues and redeems email-bound story invitations.
package invitation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mcoot/onewordstory/internal/dependencies/clock"
	"github.com/mcoot/onewordstory/internal/dependencies/random"
	"github.com/mcoot/onewordstory/internal/metrics"
	"github.com/mcoot/onewordstory/internal/model"
	"github.com/mcoot/onewordstory/internal/services/story"
	"github.com/mcoot/onewordstory/internal/validation"
)

// TokenBytes is the entropy of invitation tokens
const TokenBytes = 32

// Per-email failure reasons
const (
	ReasonAlreadyParticipant = "Already a participant"
	ReasonAlreadyInvited     = "Invitation already sent"
	ReasonDeliveryFailed     = "Failed to send email"
)

// Mailer sends the invitation email
type Mailer interface {
	SendInvitation(ctx context.Context, email, inviterName, storyTitle, token string) error
}

// Created is an invitation that was stored and delivered
type Created struct {
	ID        string
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Failure explains why one address was not invited
type Failure struct {
	Email  string
	Reason string
}

// Result is the outcome of a batch invite. Failures never fail the batch.
type Result struct {
	Invitations []Created
	Errors      []Failure
}

// StoryRef identifies the story an invitation led into
type StoryRef struct {
	ID    string
	Title *string
}

// ParticipantInfo is a participant as listed to other participants
type ParticipantInfo struct {
	UserID    string
	Username  string
	Email     string
	TurnOrder int
	JoinedAt  time.Time
}

// Pending is an unaccepted, unexpired invitation
type Pending struct {
	ID        string
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
	InvitedBy string
}

// Engine manages the invitation lifecycle
type Engine struct {
	db      *gorm.DB
	mailer  Mailer
	metrics *metrics.Metrics
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewEngine creates a new invitation Engine
func NewEngine(db *gorm.DB, mailer Mailer, m *metrics.Metrics, clock clock.Clock, random random.Random, logger *slog.Logger) *Engine {
	return &Engine{
		db:      db,
		mailer:  mailer,
		metrics: m,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

type pendingDelivery struct {
	invitation *model.Invitation
}

// CreateInvitations invites each address to a story. The inviter must be a
// participant of a story that has not ended. Rows are committed before any
// email is sent; a failed delivery keeps the row and is reported per address.
func (e *Engine) CreateInvitations(ctx context.Context, storyID, inviterID string, emails []string) (*Result, error) {
	result := &Result{
		Invitations: []Created{},
		Errors:      []Failure{},
	}
	var toDeliver []pendingDelivery
	var inviterName, storyTitle string

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st, err := story.LockStory(tx, storyID)
		if err != nil {
			if errors.Is(err, model.ErrStoryNotFound) {
				return model.ErrInviterNotParticipant
			}
			return err
		}
		if _, err := story.FindParticipant(tx, storyID, inviterID); err != nil {
			if errors.Is(err, model.ErrNotParticipant) {
				return model.ErrInviterNotParticipant
			}
			return err
		}
		if st.IsEnded {
			return model.ErrInviteToEndedStory
		}
		if st.Title != nil {
			storyTitle = *st.Title
		}

		var inviter model.User
		if err := tx.Select("id", "username").Where("id = ?", inviterID).First(&inviter).Error; err != nil {
			return err
		}
		inviterName = inviter.Username

		var participantEmails []string
		err = tx.Model(&model.User{}).
			Joins("JOIN story_participants sp ON sp.user_id = users.id").
			Where("sp.story_id = ?", storyID).
			Pluck("users.email", &participantEmails).Error
		if err != nil {
			return err
		}
		participants := toSet(participantEmails)

		now := e.clock.Now()
		var unaccepted []model.Invitation
		err = tx.Select("email", "accepted", "expires_at").
			Where("story_id = ? AND accepted = ?", storyID, false).
			Find(&unaccepted).Error
		if err != nil {
			return err
		}
		pending := make(map[string]struct{}, len(unaccepted))
		for i := range unaccepted {
			if unaccepted[i].IsPending(now) {
				pending[unaccepted[i].Email] = struct{}{}
			}
		}

		for _, raw := range emails {
			email := validation.NormalizeEmail(raw)
			if _, ok := participants[email]; ok {
				result.Errors = append(result.Errors, Failure{Email: email, Reason: ReasonAlreadyParticipant})
				continue
			}
			if _, ok := pending[email]; ok {
				result.Errors = append(result.Errors, Failure{Email: email, Reason: ReasonAlreadyInvited})
				continue
			}

			inv := &model.Invitation{
				ID:        uuid.NewString(),
				StoryID:   storyID,
				Email:     email,
				InvitedBy: inviterID,
				Token:     e.random.Token(TokenBytes),
				ExpiresAt: now.Add(model.InvitationTTL),
				CreatedAt: now,
			}
			if err := tx.Create(inv).Error; err != nil {
				return err
			}
			pending[email] = struct{}{}
			toDeliver = append(toDeliver, pendingDelivery{invitation: inv})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.metrics.InvitationsCreated(len(toDeliver))

	for _, d := range toDeliver {
		inv := d.invitation
		if err := e.mailer.SendInvitation(ctx, inv.Email, inviterName, storyTitle, inv.Token); err != nil {
			e.logger.Warn("invitation email not sent",
				slog.String("invitation_id", inv.ID),
				slog.String("story_id", storyID),
				slog.Any("error", err),
			)
			result.Errors = append(result.Errors, Failure{Email: inv.Email, Reason: ReasonDeliveryFailed})
			continue
		}
		result.Invitations = append(result.Invitations, Created{
			ID:        inv.ID,
			Email:     inv.Email,
			CreatedAt: inv.CreatedAt,
			ExpiresAt: inv.ExpiresAt,
		})
	}

	e.logger.Info("invitations created",
		slog.String("story_id", storyID),
		slog.String("user_id", inviterID),
		slog.Int("created", len(toDeliver)),
		slog.Int("delivered", len(result.Invitations)),
		slog.Int("rejected", len(result.Errors)),
	)

	return result, nil
}

// AcceptInvitation redeems a token for user, seating them in the next turn slot.
// The story row is locked so concurrent acceptances get distinct turn orders.
func (e *Engine) AcceptInvitation(ctx context.Context, token string, user *model.User) (*StoryRef, error) {
	var ref StoryRef
	var turnOrder int

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// only the story is read before the lock; everything else is read after it
		var storyIDs []string
		if err := tx.Model(&model.Invitation{}).Where("token = ?", token).Limit(1).Pluck("story_id", &storyIDs).Error; err != nil {
			return err
		}
		if len(storyIDs) == 0 {
			return model.ErrInvitationNotFound
		}

		st, err := story.LockStory(tx, storyIDs[0])
		if err != nil {
			if errors.Is(err, model.ErrStoryNotFound) {
				return model.ErrInvitationNotFound
			}
			return err
		}

		var inv model.Invitation
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token = ?", token).
			First(&inv).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.ErrInvitationNotFound
			}
			return err
		}

		now := e.clock.Now()
		switch {
		case inv.Accepted:
			return model.ErrInvitationAccepted
		case inv.IsExpired(now):
			return model.ErrInvitationExpired
		case st.IsEnded:
			return model.ErrStoryEnded
		case inv.Email != validation.NormalizeEmail(user.Email):
			return model.ErrInvitationEmailMismatch
		}

		if _, err := story.FindParticipant(tx, st.ID, user.ID); err == nil {
			return model.ErrAlreadyParticipant
		} else if !errors.Is(err, model.ErrNotParticipant) {
			return err
		}

		turnOrder, err = story.NextTurnOrder(tx, st.ID)
		if err != nil {
			return err
		}

		participant := &model.Participant{
			ID:        uuid.NewString(),
			StoryID:   st.ID,
			UserID:    user.ID,
			TurnOrder: turnOrder,
			JoinedAt:  now,
		}
		if err := tx.Create(participant).Error; err != nil {
			return err
		}

		res := tx.Model(&model.Invitation{}).
			Where("id = ? AND accepted = ?", inv.ID, false).
			Update("accepted", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return model.ErrInvitationAccepted
		}

		ref = StoryRef{ID: st.ID, Title: st.Title}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.metrics.InvitationAccepted()
	e.logger.Info("invitation accepted",
		slog.String("story_id", ref.ID),
		slog.String("user_id", user.ID),
		slog.Int("turn_order", turnOrder),
	)

	return &ref, nil
}

// GetParticipants lists a story's participants in turn order. The caller must participate.
func (e *Engine) GetParticipants(ctx context.Context, storyID, userID string) ([]ParticipantInfo, error) {
	db := e.db.WithContext(ctx)
	if _, err := story.FindParticipant(db, storyID, userID); err != nil {
		return nil, err
	}

	out := []ParticipantInfo{}
	err := db.Model(&model.Participant{}).
		Select("users.id AS user_id, users.username, users.email, story_participants.turn_order, story_participants.joined_at").
		Joins("JOIN users ON users.id = story_participants.user_id").
		Where("story_participants.story_id = ?", storyID).
		Order("story_participants.turn_order ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetPendingInvitations lists a story's open invitations, newest first. The caller must participate.
func (e *Engine) GetPendingInvitations(ctx context.Context, storyID, userID string) ([]Pending, error) {
	db := e.db.WithContext(ctx)
	if _, err := story.FindParticipant(db, storyID, userID); err != nil {
		return nil, err
	}

	out := []Pending{}
	err := db.Model(&model.Invitation{}).
		Select("invitations.id, invitations.email, invitations.created_at, invitations.expires_at, users.username AS invited_by").
		Joins("LEFT JOIN users ON users.id = invitations.invited_by").
		Where("invitations.story_id = ? AND invitations.accepted = ? AND invitations.expires_at > ?", storyID, false, e.clock.Now()).
		Order("invitations.created_at DESC").
		Order("invitations.id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[validation.NormalizeEmail(v)] = struct{}{}
	}
	return set
}
