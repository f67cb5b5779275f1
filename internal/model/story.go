package model

import "time"

// Story is a collaborative text built one word at a time
type Story struct {
	ID        string  `gorm:"type:varchar(36);primaryKey"`
	Title     *string `gorm:"size:200"`
	CreatedBy string  `gorm:"type:varchar(36);not null;index"`
	IsEnded   bool    `gorm:"not null"`
	EndedBy   *string `gorm:"type:varchar(36)"`
	EndedAt   *time.Time
	CreatedAt time.Time `gorm:"index"`
}

// TableName overrides the gorm default
func (Story) TableName() string {
	return "stories"
}

// Participant is a user's seat in a story's turn rotation.
// TurnOrder is assigned at join time and never changes.
type Participant struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	StoryID   string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_participant_story_user;uniqueIndex:idx_participant_story_turn"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_participant_story_user;index"`
	TurnOrder int       `gorm:"not null;uniqueIndex:idx_participant_story_turn"`
	JoinedAt  time.Time `gorm:"not null"`
}

// TableName overrides the gorm default
func (Participant) TableName() string {
	return "story_participants"
}

// Word is a single submitted word. Position is the story's word count at insert time.
type Word struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	StoryID   string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_word_story_position"`
	UserID    string    `gorm:"type:varchar(36);not null;index"`
	Text      string    `gorm:"column:word;size:50;not null"`
	Position  int       `gorm:"column:word_position;not null;uniqueIndex:idx_word_story_position"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName overrides the gorm default
func (Word) TableName() string {
	return "story_words"
}
