package story

import (
	"time"

	"github.com/mcoot/onewordstory/internal/model"
	"github.com/mcoot/onewordstory/internal/testutil"
)

// ListStories tests

func (s *ControllerSuite) TestListStoriesEmpty() {
	stories, err := s.controller.ListStories(s.ctx, s.alice.ID)
	s.Require().NoError(err)
	s.NotNil(stories)
	s.Empty(stories)
}

func (s *ControllerSuite) TestListStoriesNewestFirstWithFlags() {
	first := s.createStory("Once")
	s.clock.Advance(time.Minute)
	second := s.createStory("")
	testutil.AddParticipant(s.T(), s.db, second.ID, s.bob.ID)
	s.clock.Advance(time.Minute)

	// bob's own story, alice is not in it
	_, err := s.controller.CreateStory(s.ctx, s.bob.ID, nil, nil)
	s.Require().NoError(err)

	stories, err := s.controller.ListStories(s.ctx, s.alice.ID)
	s.Require().NoError(err)
	s.Require().Len(stories, 2)

	s.Equal(second.ID, stories[0].ID)
	s.Equal(2, stories[0].ParticipantCount)
	s.Equal(0, stories[0].WordCount)
	s.Require().NotNil(stories[0].CurrentTurn)
	s.Equal(0, *stories[0].CurrentTurn)
	s.True(stories[0].IsYourTurn)
	s.False(stories[0].NeedsMoreParticipants)

	s.Equal(first.ID, stories[1].ID)
	s.Equal(1, stories[1].WordCount)
	s.Nil(stories[1].CurrentTurn)
	s.False(stories[1].IsYourTurn)
	s.True(stories[1].NeedsMoreParticipants)
	s.Equal("alice", stories[1].CreatedBy.Username)
}

func (s *ControllerSuite) TestListStoriesIsYourTurnPerCaller() {
	sum := s.createStory("Once")
	testutil.AddParticipant(s.T(), s.db, sum.ID, s.bob.ID)

	aliceView, err := s.controller.ListStories(s.ctx, s.alice.ID)
	s.Require().NoError(err)
	bobView, err := s.controller.ListStories(s.ctx, s.bob.ID)
	s.Require().NoError(err)

	s.False(aliceView[0].IsYourTurn)
	s.True(bobView[0].IsYourTurn)
	s.Equal(1, *bobView[0].CurrentTurn)
}

func (s *ControllerSuite) TestListStoriesEndedHasNoTurn() {
	sum := s.createStory("")
	testutil.AddParticipant(s.T(), s.db, sum.ID, s.bob.ID)
	_, err := s.controller.EndStory(s.ctx, sum.ID, s.alice.ID)
	s.Require().NoError(err)

	stories, err := s.controller.ListStories(s.ctx, s.alice.ID)
	s.Require().NoError(err)
	s.True(stories[0].IsEnded)
	s.NotNil(stories[0].EndedAt)
	s.Nil(stories[0].CurrentTurn)
	s.False(stories[0].IsYourTurn)
}

// GetStory tests

func (s *ControllerSuite) TestGetStoryDetail() {
	sum := s.createStory("Once")
	testutil.AddParticipant(s.T(), s.db, sum.ID, s.bob.ID)
	s.addWord(sum.ID, s.bob, "upon")

	detail, err := s.controller.GetStory(s.ctx, sum.ID, s.alice.ID)
	s.Require().NoError(err)

	s.Equal(sum.ID, detail.ID)
	s.Equal(2, detail.WordCount)
	s.Equal(2, detail.ParticipantCount)
	s.Require().NotNil(detail.CurrentTurn)
	s.Equal(0, *detail.CurrentTurn)
	s.True(detail.IsYourTurn)
	s.Nil(detail.EndedBy)

	s.Require().Len(detail.Words, 2)
	s.Equal("Once", detail.Words[0].Text)
	s.Equal("alice", detail.Words[0].AddedBy.Username)
	s.Equal("upon", detail.Words[1].Text)
	s.Equal(1, detail.Words[1].Position)
	s.Equal("bob", detail.Words[1].AddedBy.Username)

	s.Require().Len(detail.Participants, 2)
	s.Equal("alice", detail.Participants[0].Username)
	s.Equal(0, detail.Participants[0].TurnOrder)
	s.Equal("bob", detail.Participants[1].Username)
	s.Equal(1, detail.Participants[1].TurnOrder)
}

func (s *ControllerSuite) TestGetStoryEndedShowsEnder() {
	sum := s.createStory("Once")
	testutil.AddParticipant(s.T(), s.db, sum.ID, s.bob.ID)
	_, err := s.controller.EndStory(s.ctx, sum.ID, s.bob.ID)
	s.Require().NoError(err)

	detail, err := s.controller.GetStory(s.ctx, sum.ID, s.alice.ID)
	s.Require().NoError(err)
	s.Require().NotNil(detail.EndedBy)
	s.Equal("bob", detail.EndedBy.Username)
	s.Nil(detail.CurrentTurn)
}

func (s *ControllerSuite) TestGetStoryNotParticipant() {
	sum := s.createStory("Once")

	_, err := s.controller.GetStory(s.ctx, sum.ID, s.carol.ID)
	s.ErrorIs(err, model.ErrNotParticipant)
}

func (s *ControllerSuite) TestGetStoryMissingStoryReportsNotParticipant() {
	_, err := s.controller.GetStory(s.ctx, "00000000-0000-0000-0000-000000000000", s.alice.ID)
	s.ErrorIs(err, model.ErrNotParticipant)
}
