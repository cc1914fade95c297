package challenge_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jspires/wordduel/internal/dependencies/mocks"
	"github.com/jspires/wordduel/internal/model"
	"github.com/jspires/wordduel/internal/services/challenge"
	"github.com/jspires/wordduel/internal/storage/memory"
	"github.com/jspires/wordduel/internal/testutil"
)

// fakeSessionCreator builds minimal sessions without drawing real words
type fakeSessionCreator struct {
	err     error
	created []*model.Session
}

func (f *fakeSessionCreator) CreateSession(ctx context.Context, id model.SessionID, players []model.PlayerID, difficulty model.Difficulty) (*model.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	session := &model.Session{
		ID:         id,
		Players:    players,
		Difficulty: difficulty,
		WordLength: difficulty.WordLength(),
	}
	f.created = append(f.created, session)
	return session, nil
}

type ChallengeTestSuite struct {
	suite.Suite

	storage    *memory.Storage
	sessions   *fakeSessionCreator
	notifier   *testutil.RecordingNotifier
	clock      *mocks.MockClock
	controller *challenge.Controller
	ctx        context.Context
}

func TestChallengeTestSuite(t *testing.T) {
	suite.Run(t, new(ChallengeTestSuite))
}

func (s *ChallengeTestSuite) SetupTest() {
	s.storage = memory.New()
	s.sessions = &fakeSessionCreator{}
	s.notifier = testutil.NewRecordingNotifier()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.controller = challenge.NewController(s.storage, s.sessions, s.notifier, s.clock, testutil.NopLogger(), 0)
	s.ctx = context.Background()
}

func (s *ChallengeTestSuite) TestCreateDeliversToOnlineTarget() {
	created, err := s.controller.Create(s.ctx, "alice", "bob", model.DifficultyMedium, "abc123")
	s.Require().NoError(err)
	s.Equal(model.ChallengeCode("abc123"), created.Code)

	events := s.notifier.EventsFor("bob")
	s.Require().Len(events, 1)
	s.Equal(model.EventChallengeReceived, events[0].Type)

	payload, ok := events[0].Payload.(model.ChallengeReceivedPayload)
	s.Require().True(ok)
	s.Equal(model.PlayerID("alice"), payload.From)
	s.Equal(5, payload.WordLength)
}

func (s *ChallengeTestSuite) TestCreateHeldForOfflineTarget() {
	s.notifier.SetOffline("bob", true)

	_, err := s.controller.Create(s.ctx, "alice", "bob", model.DifficultyEasy, "abc123")
	s.Require().NoError(err)

	// Challenge persists even though delivery was dropped
	stored, err := s.storage.GetChallenge(s.ctx, "abc123")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("bob"), stored.To)
}

func (s *ChallengeTestSuite) TestCreateInvalidDifficulty() {
	_, err := s.controller.Create(s.ctx, "alice", "bob", model.Difficulty("brutal"), "abc123")
	s.ErrorIs(err, model.ErrInvalidDifficulty)
}

func (s *ChallengeTestSuite) TestCreateSelfChallenge() {
	_, err := s.controller.Create(s.ctx, "alice", "alice", model.DifficultyMedium, "abc123")
	s.ErrorIs(err, model.ErrSelfChallenge)
}

func (s *ChallengeTestSuite) TestCreateDuplicateWithinWindow() {
	_, err := s.controller.Create(s.ctx, "alice", "bob", model.DifficultyMedium, "abc123")
	s.Require().NoError(err)

	s.clock.Advance(10 * time.Second)
	_, err = s.controller.Create(s.ctx, "alice", "bob", model.DifficultyMedium, "abc123")
	s.ErrorIs(err, model.ErrDuplicateChallenge)

	// Only the original delivery happened
	s.Equal(1, s.notifier.CountFor("bob", model.EventChallengeReceived))
}

func (s *ChallengeTestSuite) TestCreateSameCodeAfterWindow() {
	_, err := s.controller.Create(s.ctx, "alice", "bob", model.DifficultyMedium, "abc123")
	s.Require().NoError(err)

	s.clock.Advance(challenge.DefaultFreshnessWindow)
	_, err = s.controller.Create(s.ctx, "alice", "bob", model.DifficultyMedium, "abc123")
	s.NoError(err)
}

func (s *ChallengeTestSuite) TestCreateDistinctCodesNotDeduped() {
	_, err := s.controller.Create(s.ctx, "alice", "bob", model.DifficultyMedium, "abc123")
	s.Require().NoError(err)

	_, err = s.controller.Create(s.ctx, "alice", "bob", model.DifficultyMedium, "def456")
	s.NoError(err)
}

func (s *ChallengeTestSuite) TestFlushPendingRedelivers() {
	s.notifier.SetOffline("bob", true)
	_, err := s.controller.Create(s.ctx, "alice", "bob", model.DifficultyMedium, "abc123")
	s.Require().NoError(err)
	_, err = s.controller.Create(s.ctx, "carol", "bob", model.DifficultyHard, "def456")
	s.Require().NoError(err)

	s.notifier.SetOffline("bob", false)
	s.Require().NoError(s.controller.FlushPending(s.ctx, "bob"))

	s.Equal(2, s.notifier.CountFor("bob", model.EventChallengeReceived))
}

func (s *ChallengeTestSuite) TestFlushPendingDropsExpired() {
	s.notifier.SetOffline("bob", true)
	_, err := s.controller.Create(s.ctx, "alice", "bob", model.DifficultyMedium, "abc123")
	s.Require().NoError(err)

	s.clock.Advance(challenge.DefaultFreshnessWindow + time.Second)
	s.notifier.SetOffline("bob", false)
	s.Require().NoError(s.controller.FlushPending(s.ctx, "bob"))

	s.Equal(0, s.notifier.CountFor("bob", model.EventChallengeReceived))

	// Expired challenge was garbage-collected, not just skipped
	_, err = s.storage.GetChallenge(s.ctx, "abc123")
	s.ErrorIs(err, model.ErrChallengeNotFound)
}

func (s *ChallengeTestSuite) TestRespondAccept() {
	_, err := s.controller.Create(s.ctx, "alice", "bob", model.DifficultyMedium, "abc123")
	s.Require().NoError(err)

	session, err := s.controller.Respond(s.ctx, "abc123", true, "bob")
	s.Require().NoError(err)
	s.Require().NotNil(session)
	s.Equal(model.SessionID("abc123"), session.ID)
	s.Equal([]model.PlayerID{"alice", "bob"}, session.Players)

	// Both players get a game_start announcement
	s.Equal(1, s.notifier.CountFor("alice", model.EventGameStart))
	s.Equal(1, s.notifier.CountFor("bob", model.EventGameStart))

	// The challenge is consumed
	_, err = s.storage.GetChallenge(s.ctx, "abc123")
	s.ErrorIs(err, model.ErrChallengeNotFound)
}

func (s *ChallengeTestSuite) TestRespondDecline() {
	_, err := s.controller.Create(s.ctx, "alice", "bob", model.DifficultyMedium, "abc123")
	s.Require().NoError(err)

	session, err := s.controller.Respond(s.ctx, "abc123", false, "bob")
	s.Require().NoError(err)
	s.Nil(session)

	s.Equal(1, s.notifier.CountFor("alice", model.EventChallengeDeclined))
	s.Empty(s.sessions.created)

	_, err = s.storage.GetChallenge(s.ctx, "abc123")
	s.ErrorIs(err, model.ErrChallengeNotFound)
}

func (s *ChallengeTestSuite) TestRespondUnknownCode() {
	_, err := s.controller.Respond(s.ctx, "missing", true, "bob")
	s.ErrorIs(err, model.ErrChallengeNotFound)
}

func (s *ChallengeTestSuite) TestRespondTwice() {
	_, err := s.controller.Create(s.ctx, "alice", "bob", model.DifficultyMedium, "abc123")
	s.Require().NoError(err)

	_, err = s.controller.Respond(s.ctx, "abc123", true, "bob")
	s.Require().NoError(err)

	_, err = s.controller.Respond(s.ctx, "abc123", true, "bob")
	s.ErrorIs(err, model.ErrChallengeNotFound)
}

func (s *ChallengeTestSuite) TestRespondExpired() {
	_, err := s.controller.Create(s.ctx, "alice", "bob", model.DifficultyMedium, "abc123")
	s.Require().NoError(err)

	s.clock.Advance(challenge.DefaultFreshnessWindow + time.Second)
	_, err = s.controller.Respond(s.ctx, "abc123", true, "bob")
	s.ErrorIs(err, model.ErrChallengeNotFound)
	s.Empty(s.sessions.created)
}

func (s *ChallengeTestSuite) TestRespondByNonTarget() {
	_, err := s.controller.Create(s.ctx, "alice", "bob", model.DifficultyMedium, "abc123")
	s.Require().NoError(err)

	_, err = s.controller.Respond(s.ctx, "abc123", true, "mallory")
	s.ErrorIs(err, model.ErrNotChallengeTarget)

	// Even the challenger may not accept on the target's behalf
	_, err = s.controller.Respond(s.ctx, "abc123", true, "alice")
	s.ErrorIs(err, model.ErrNotChallengeTarget)
}

func (s *ChallengeTestSuite) TestRespondExpiredByNonTarget() {
	_, err := s.controller.Create(s.ctx, "alice", "bob", model.DifficultyMedium, "abc123")
	s.Require().NoError(err)

	s.clock.Advance(challenge.DefaultFreshnessWindow + time.Second)
	_, err = s.controller.Respond(s.ctx, "abc123", true, "mallory")
	s.ErrorIs(err, model.ErrNotChallengeTarget)

	// A non-target must not trigger expiry cleanup; the code is still
	// resident for the target's own (rejected) response to collect
	stored, err := s.storage.GetChallenge(s.ctx, "abc123")
	s.Require().NoError(err)
	s.Equal(model.ChallengeCode("abc123"), stored.Code)

	_, err = s.controller.Respond(s.ctx, "abc123", true, "bob")
	s.ErrorIs(err, model.ErrChallengeNotFound)
}

func (s *ChallengeTestSuite) TestRespondAcceptKeepsChallengeOnSessionFailure() {
	_, err := s.controller.Create(s.ctx, "alice", "bob", model.DifficultyMedium, "abc123")
	s.Require().NoError(err)

	s.sessions.err = errors.New("no words available")
	_, err = s.controller.Respond(s.ctx, "abc123", true, "bob")
	s.Require().Error(err)

	// The responder can retry once the failure clears
	s.sessions.err = nil
	session, err := s.controller.Respond(s.ctx, "abc123", true, "bob")
	s.Require().NoError(err)
	s.NotNil(session)
}
