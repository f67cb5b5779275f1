package story

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mcoot/onewordstory/internal/model"
)

type storyCount struct {
	StoryID string
	N       int
}

// ListStories returns every story the user participates in, newest first
func (c *Controller) ListStories(ctx context.Context, userID string) ([]Summary, error) {
	var out []Summary

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seats []model.Participant
		if err := tx.Where("user_id = ?", userID).Find(&seats).Error; err != nil {
			return err
		}
		if len(seats) == 0 {
			return nil
		}

		turnOrders := make(map[string]int, len(seats))
		ids := make([]string, 0, len(seats))
		for _, p := range seats {
			turnOrders[p.StoryID] = p.TurnOrder
			ids = append(ids, p.StoryID)
		}

		var stories []model.Story
		if err := tx.Where("id IN ?", ids).Order("created_at DESC").Order("id DESC").Find(&stories).Error; err != nil {
			return err
		}

		wordCounts, err := countByStory(tx, &model.Word{}, ids)
		if err != nil {
			return err
		}
		participantCounts, err := countByStory(tx, &model.Participant{}, ids)
		if err != nil {
			return err
		}

		creatorIDs := make([]string, 0, len(stories))
		for _, s := range stories {
			creatorIDs = append(creatorIDs, s.CreatedBy)
		}
		refs, err := loadUserRefs(tx, creatorIDs)
		if err != nil {
			return err
		}

		out = make([]Summary, 0, len(stories))
		for i := range stories {
			s := &stories[i]
			state := model.TurnState{
				WordCount:        wordCounts[s.ID],
				ParticipantCount: participantCounts[s.ID],
				Ended:            s.IsEnded,
			}
			out = append(out, summarize(s, refFor(refs, s.CreatedBy), state, turnOrders[s.ID]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Summary{}
	}
	return out, nil
}

// GetStory returns the full read-model of a story. The caller must be a participant.
func (c *Controller) GetStory(ctx context.Context, storyID, userID string) (*Detail, error) {
	var detail *Detail

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seat, err := FindParticipant(tx, storyID, userID)
		if err != nil {
			return err
		}

		var story model.Story
		if err := tx.Where("id = ?", storyID).First(&story).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.ErrStoryNotFound
			}
			return err
		}

		var words []model.Word
		if err := tx.Where("story_id = ?", storyID).Order("word_position ASC").Find(&words).Error; err != nil {
			return err
		}
		var participants []model.Participant
		if err := tx.Where("story_id = ?", storyID).Order("turn_order ASC").Find(&participants).Error; err != nil {
			return err
		}

		userIDs := []string{story.CreatedBy}
		if story.EndedBy != nil {
			userIDs = append(userIDs, *story.EndedBy)
		}
		for _, w := range words {
			userIDs = append(userIDs, w.UserID)
		}
		for _, p := range participants {
			userIDs = append(userIDs, p.UserID)
		}
		refs, err := loadUserRefs(tx, userIDs)
		if err != nil {
			return err
		}

		state := model.TurnState{
			WordCount:        len(words),
			ParticipantCount: len(participants),
			Ended:            story.IsEnded,
		}
		detail = &Detail{
			Summary:      summarize(&story, refFor(refs, story.CreatedBy), state, seat.TurnOrder),
			Words:        make([]WordView, 0, len(words)),
			Participants: make([]ParticipantView, 0, len(participants)),
		}
		if story.EndedBy != nil {
			ref := refFor(refs, *story.EndedBy)
			detail.EndedBy = &ref
		}
		for _, w := range words {
			detail.Words = append(detail.Words, WordView{
				ID:        w.ID,
				Text:      w.Text,
				Position:  w.Position,
				CreatedAt: w.CreatedAt,
				AddedBy:   refFor(refs, w.UserID),
			})
		}
		for _, p := range participants {
			detail.Participants = append(detail.Participants, ParticipantView{
				UserID:    p.UserID,
				Username:  refFor(refs, p.UserID).Username,
				TurnOrder: p.TurnOrder,
				JoinedAt:  p.JoinedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// countByStory counts rows of m per story_id
func countByStory(tx *gorm.DB, m any, storyIDs []string) (map[string]int, error) {
	var rows []storyCount
	err := tx.Model(m).
		Select("story_id, COUNT(*) AS n").
		Where("story_id IN ?", storyIDs).
		Group("story_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.StoryID] = r.N
	}
	return counts, nil
}
