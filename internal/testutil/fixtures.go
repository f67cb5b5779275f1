package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mcoot/onewordstory/internal/model"
)

// CreateUser inserts a verified user with email <username>@example.com
func CreateUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	user := &model.User{
		ID:            uuid.NewString(),
		Email:         username + "@example.com",
		Username:      username,
		PasswordHash:  "not-a-real-hash",
		EmailVerified: true,
		Role:          model.RoleUser,
		CreatedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// AddParticipant seats a user in the next free turn slot of a story,
// bypassing the invitation flow
func AddParticipant(t *testing.T, db *gorm.DB, storyID, userID string) *model.Participant {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&model.Participant{}).Where("story_id = ?", storyID).Count(&count).Error)

	p := &model.Participant{
		ID:        uuid.NewString(),
		StoryID:   storyID,
		UserID:    userID,
		TurnOrder: int(count),
		JoinedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// AssertDenseSequences checks that a story's turn orders are exactly
// 0..N-1 and its word positions exactly 0..M-1
func AssertDenseSequences(t *testing.T, db *gorm.DB, storyID string) {
	t.Helper()

	var turnOrders []int
	require.NoError(t, db.Model(&model.Participant{}).
		Where("story_id = ?", storyID).Order("turn_order ASC").
		Pluck("turn_order", &turnOrders).Error)
	for i, order := range turnOrders {
		require.Equal(t, i, order, "turn orders must be dense")
	}

	var positions []int
	require.NoError(t, db.Model(&model.Word{}).
		Where("story_id = ?", storyID).Order("word_position ASC").
		Pluck("word_position", &positions).Error)
	for i, pos := range positions {
		require.Equal(t, i, pos, "word positions must be dense")
	}
}
