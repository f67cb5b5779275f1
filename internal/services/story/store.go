package story

import (
	"database/sql"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mcoot/onewordstory/internal/model"
)

// LockStory loads a story holding an exclusive row lock until tx ends.
// Dialects without row locks (SQLite) ignore the clause; there the single
// writer connection provides the same serialization.
func LockStory(tx *gorm.DB, storyID string) (*model.Story, error) {
	var story model.Story
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", storyID).
		First(&story).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrStoryNotFound
		}
		return nil, err
	}
	return &story, nil
}

// FindParticipant returns the user's seat in a story, or ErrNotParticipant
func FindParticipant(tx *gorm.DB, storyID, userID string) (*model.Participant, error) {
	var p model.Participant
	err := tx.Where("story_id = ? AND user_id = ?", storyID, userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotParticipant
		}
		return nil, err
	}
	return &p, nil
}

// CountTurnState reads the live word and participant counts for a story
func CountTurnState(tx *gorm.DB, story *model.Story) (model.TurnState, error) {
	var words, participants int64
	if err := tx.Model(&model.Word{}).Where("story_id = ?", story.ID).Count(&words).Error; err != nil {
		return model.TurnState{}, err
	}
	if err := tx.Model(&model.Participant{}).Where("story_id = ?", story.ID).Count(&participants).Error; err != nil {
		return model.TurnState{}, err
	}
	return model.TurnState{
		WordCount:        int(words),
		ParticipantCount: int(participants),
		Ended:            story.IsEnded,
	}, nil
}

// NextTurnOrder returns max(turn_order)+1 for the story, or 0 when it has no participants
func NextTurnOrder(tx *gorm.DB, storyID string) (int, error) {
	var maxOrder sql.NullInt64
	err := tx.Model(&model.Participant{}).
		Where("story_id = ?", storyID).
		Select("MAX(turn_order)").
		Scan(&maxOrder).Error
	if err != nil {
		return 0, err
	}
	if !maxOrder.Valid {
		return 0, nil
	}
	return int(maxOrder.Int64) + 1, nil
}

// DeleteStoryRows removes a story and everything that hangs off it
func DeleteStoryRows(tx *gorm.DB, storyIDs ...string) error {
	if len(storyIDs) == 0 {
		return nil
	}
	for _, m := range []any{&model.Word{}, &model.Participant{}, &model.Invitation{}} {
		if err := tx.Where("story_id IN ?", storyIDs).Delete(m).Error; err != nil {
			return err
		}
	}
	return tx.Where("id IN ?", storyIDs).Delete(&model.Story{}).Error
}

// loadUserRefs maps user IDs to their public identity.
// IDs whose user no longer exists are absent from the map.
func loadUserRefs(tx *gorm.DB, ids []string) (map[string]UserRef, error) {
	refs := make(map[string]UserRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	var users []model.User
	if err := tx.Select("id", "username").Where("id IN ?", uniq(ids)).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		refs[u.ID] = UserRef{ID: u.ID, Username: u.Username}
	}
	return refs, nil
}

// refFor returns the ref for id, falling back to an ID-only ref
func refFor(refs map[string]UserRef, id string) UserRef {
	if ref, ok := refs[id]; ok {
		return ref
	}
	return UserRef{ID: id}
}

func uniq(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
