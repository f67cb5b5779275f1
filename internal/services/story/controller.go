// Package story coordinates turns and assembles story read-models.
//
// Every turn-sensitive write locks the story row, recounts words and
// participants inside the lock, and decides from those live counts.
package story

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mcoot/onewordstory/internal/dependencies/clock"
	"github.com/mcoot/onewordstory/internal/metrics"
	"github.com/mcoot/onewordstory/internal/model"
)

// Controller manages the story state machine and turn flow
type Controller struct {
	db      *gorm.DB
	metrics *metrics.Metrics
	clock   clock.Clock
	logger  *slog.Logger
}

// NewController creates a new story Controller
func NewController(db *gorm.DB, m *metrics.Metrics, clock clock.Clock, logger *slog.Logger) *Controller {
	return &Controller{
		db:      db,
		metrics: m,
		clock:   clock,
		logger:  logger,
	}
}

// CreateStory creates a story with the creator in turn slot 0 and, if given,
// the initial word at position 0
func (c *Controller) CreateStory(ctx context.Context, userID string, title, initialWord *string) (*Summary, error) {
	now := c.clock.Now()
	story := &model.Story{
		ID:        uuid.NewString(),
		Title:     cleanTitle(title),
		CreatedBy: userID,
		CreatedAt: now,
	}
	state := model.TurnState{ParticipantCount: 1}
	var creator UserRef

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		refs, err := loadUserRefs(tx, []string{userID})
		if err != nil {
			return err
		}
		ref, ok := refs[userID]
		if !ok {
			return model.ErrUserNotFound
		}
		creator = ref

		if err := tx.Create(story).Error; err != nil {
			return err
		}

		participant := &model.Participant{
			ID:        uuid.NewString(),
			StoryID:   story.ID,
			UserID:    userID,
			TurnOrder: 0,
			JoinedAt:  now,
		}
		if err := tx.Create(participant).Error; err != nil {
			return err
		}

		if initialWord != nil {
			if text := strings.TrimSpace(*initialWord); text != "" {
				word := &model.Word{
					ID:        uuid.NewString(),
					StoryID:   story.ID,
					UserID:    userID,
					Text:      text,
					Position:  0,
					CreatedAt: now,
				}
				if err := tx.Create(word).Error; err != nil {
					return err
				}
				state.WordCount = 1
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.metrics.StoryCreated()
	if state.WordCount > 0 {
		c.metrics.WordAdded()
	}
	c.logger.Info("story created",
		slog.String("story_id", story.ID),
		slog.String("user_id", userID),
		slog.Bool("initial_word", state.WordCount > 0),
	)

	sum := summarize(story, creator, state, 0)
	return &sum, nil
}

// AddWord appends a word at position wordCount if it is the caller's turn
func (c *Controller) AddWord(ctx context.Context, storyID, userID, text string) (*WordView, error) {
	var word *model.Word
	var author UserRef

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		story, err := LockStory(tx, storyID)
		if err != nil {
			return err
		}
		if story.IsEnded {
			return model.ErrStoryEnded
		}

		participant, err := FindParticipant(tx, storyID, userID)
		if err != nil {
			return err
		}

		state, err := CountTurnState(tx, story)
		if err != nil {
			return err
		}
		if state.ParticipantCount < model.MinParticipants {
			return model.ErrNeedsMoreParticipants
		}
		if !state.IsTurnOf(participant.TurnOrder) {
			return model.ErrNotYourTurn
		}

		word = &model.Word{
			ID:        uuid.NewString(),
			StoryID:   storyID,
			UserID:    userID,
			Text:      strings.TrimSpace(text),
			Position:  state.WordCount,
			CreatedAt: c.clock.Now(),
		}
		if err := tx.Create(word).Error; err != nil {
			return err
		}

		refs, err := loadUserRefs(tx, []string{userID})
		if err != nil {
			return err
		}
		author = refFor(refs, userID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.metrics.WordAdded()
	c.logger.Info("word added",
		slog.String("story_id", storyID),
		slog.String("user_id", userID),
		slog.Int("position", word.Position),
	)

	return &WordView{
		ID:        word.ID,
		Text:      word.Text,
		Position:  word.Position,
		CreatedAt: word.CreatedAt,
		AddedBy:   author,
	}, nil
}

// EndStory ends the story if it is the caller's turn. Ended is terminal.
func (c *Controller) EndStory(ctx context.Context, storyID, userID string) (*UserRef, error) {
	var ender UserRef

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		story, err := LockStory(tx, storyID)
		if err != nil {
			return err
		}
		if story.IsEnded {
			return model.ErrStoryAlreadyEnded
		}

		participant, err := FindParticipant(tx, storyID, userID)
		if err != nil {
			return err
		}

		state, err := CountTurnState(tx, story)
		if err != nil {
			return err
		}
		if state.ParticipantCount < model.MinParticipants {
			return model.ErrNeedsMoreParticipants
		}
		if !state.IsTurnOf(participant.TurnOrder) {
			return model.ErrNotYourTurnToEnd
		}

		now := c.clock.Now()
		err = tx.Model(story).Updates(map[string]any{
			"is_ended": true,
			"ended_by": userID,
			"ended_at": now,
		}).Error
		if err != nil {
			return err
		}

		refs, err := loadUserRefs(tx, []string{userID})
		if err != nil {
			return err
		}
		ender = refFor(refs, userID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.metrics.StoryEnded()
	c.logger.Info("story ended",
		slog.String("story_id", storyID),
		slog.String("user_id", userID),
	)

	return &ender, nil
}

// DeleteStory removes a story and its words, participants and invitations.
// Only the creator may delete, regardless of turn or ended state.
func (c *Controller) DeleteStory(ctx context.Context, storyID, userID string) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		story, err := LockStory(tx, storyID)
		if err != nil {
			if errors.Is(err, model.ErrStoryNotFound) {
				return model.ErrNotCreator
			}
			return err
		}
		if story.CreatedBy != userID {
			return model.ErrNotCreator
		}
		return DeleteStoryRows(tx, storyID)
	})
	if err != nil {
		return err
	}

	c.logger.Info("story deleted",
		slog.String("story_id", storyID),
		slog.String("user_id", userID),
	)
	return nil
}

// cleanTitle trims the title; blank titles are stored as NULL
func cleanTitle(title *string) *string {
	if title == nil {
		return nil
	}
	t := strings.TrimSpace(*title)
	if t == "" {
		return nil
	}
	return &t
}
