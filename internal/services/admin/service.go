package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"gorm.io/gorm"

	"github.com/mcoot/onewordstory/internal/dependencies/clock"
	"github.com/mcoot/onewordstory/internal/dependencies/random"
	"github.com/mcoot/onewordstory/internal/model"
	"github.com/mcoot/onewordstory/internal/services/auth"
	"github.com/mcoot/onewordstory/internal/services/story"
)

// Service performs user administration
type Service struct {
	db     *gorm.DB
	mailer auth.VerificationMailer
	clock  clock.Clock
	random random.Random
	logger *slog.Logger
}

// New creates a new admin Service
func New(db *gorm.DB, mailer auth.VerificationMailer, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		db:     db,
		mailer: mailer,
		clock:  clock,
		random: random,
		logger: logger,
	}
}

// ListUsers returns every account, newest first
func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteUser removes targetID and everything they own in one transaction.
// Stories the user only took part in survive, with their turn orders and
// word positions closed up so both stay dense.
func (s *Service) DeleteUser(ctx context.Context, actorID, targetID string) (*model.User, error) {
	if actorID == targetID {
		return nil, model.ErrCannotDeleteSelf
	}

	var target model.User
	var touched []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", targetID).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.ErrUserNotFound
			}
			return err
		}

		var owned []string
		if err := tx.Model(&model.Story{}).Where("created_by = ?", targetID).Pluck("id", &owned).Error; err != nil {
			return err
		}

		var joined, wroteIn []string
		if err := tx.Model(&model.Participant{}).Where("user_id = ?", targetID).Pluck("story_id", &joined).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Word{}).Where("user_id = ?", targetID).Pluck("story_id", &wroteIn).Error; err != nil {
			return err
		}
		touched = survivors(append(joined, wroteIn...), owned)

		// lock owned and surviving stories in one sorted pass so concurrent
		// writers and deletes queue behind us without deadlocking
		for _, id := range lockOrder(owned, touched) {
			if _, err := story.LockStory(tx, id); err != nil && !errors.Is(err, model.ErrStoryNotFound) {
				return err
			}
		}

		if err := story.DeleteStoryRows(tx, owned...); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", targetID).Delete(&model.Word{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", targetID).Delete(&model.Participant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("invited_by = ?", targetID).Delete(&model.Invitation{}).Error; err != nil {
			return err
		}

		for _, id := range touched {
			if err := resequence(tx, id); err != nil {
				return fmt.Errorf("resequence story %s: %w", id, err)
			}
		}

		return tx.Delete(&model.User{}, "id = ?", targetID).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user deleted",
		slog.String("user_id", targetID),
		slog.String("actor_id", actorID),
		slog.Int("stories_resequenced", len(touched)),
	)
	return &target, nil
}

// ResendVerification issues a fresh verification token and emails it.
// Unlike registration, a delivery failure is returned to the caller.
func (s *Service) ResendVerification(ctx context.Context, targetID string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("id = ?", targetID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	if user.EmailVerified {
		return nil, model.ErrAlreadyVerified
	}

	token := s.random.Token(auth.VerificationTokenBytes)
	user.VerificationToken = &token
	user.UpdatedAt = s.clock.Now()
	err := s.db.WithContext(ctx).Model(&user).
		Select("verification_token", "updated_at").
		Updates(&user).Error
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendVerification(ctx, user.Email, user.Username, token); err != nil {
		return nil, fmt.Errorf("failed to send verification email: %w", err)
	}

	s.logger.Info("verification email resent", slog.String("user_id", user.ID))
	return &user, nil
}

// resequence renumbers a story's turn orders and word positions to 0..n-1,
// keeping their relative order. Rows only ever move down, so the unique
// indexes hold after every single update.
func resequence(tx *gorm.DB, storyID string) error {
	var participants []model.Participant
	if err := tx.Where("story_id = ?", storyID).Order("turn_order ASC").Find(&participants).Error; err != nil {
		return err
	}
	for i, p := range participants {
		if p.TurnOrder == i {
			continue
		}
		if err := tx.Model(&model.Participant{}).Where("id = ?", p.ID).Update("turn_order", i).Error; err != nil {
			return err
		}
	}

	var words []model.Word
	if err := tx.Where("story_id = ?", storyID).Order("word_position ASC").Find(&words).Error; err != nil {
		return err
	}
	for i, w := range words {
		if w.Position == i {
			continue
		}
		if err := tx.Model(&model.Word{}).Where("id = ?", w.ID).Update("word_position", i).Error; err != nil {
			return err
		}
	}
	return nil
}

// lockOrder is every story the delete writes to, distinct and sorted
func lockOrder(owned, touched []string) []string {
	all := make([]string, 0, len(owned)+len(touched))
	all = append(all, owned...)
	all = append(all, touched...)
	return survivors(all, nil)
}

// survivors returns the distinct IDs in touched that are not in removed, sorted
func survivors(touched, removed []string) []string {
	gone := make(map[string]struct{}, len(removed))
	for _, id := range removed {
		gone[id] = struct{}{}
	}
	seen := make(map[string]struct{}, len(touched))
	out := []string{}
	for _, id := range touched {
		if _, ok := gone[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
