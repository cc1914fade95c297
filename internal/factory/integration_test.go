package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jspires/wordduel/internal/model"
	"github.com/jspires/wordduel/internal/testutil"
)

// IntegrationTestSuite drives full flows through the wired application:
// registry, challenge broker, session orchestrator, and stats, backed by
// in-memory storage.
type IntegrationTestSuite struct {
	suite.Suite

	app   *TestApp
	alice *testutil.FakeSender
	bob   *testutil.FakeSender
	ctx   context.Context
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) SetupTest() {
	s.app = NewTestApp()
	s.Require().NoError(s.app.LoadTestDictionary())

	s.alice = testutil.NewFakeSender("conn-alice")
	s.bob = testutil.NewFakeSender("conn-bob")
	s.app.Registry.Register("alice", s.alice)
	s.app.Registry.Register("bob", s.bob)

	s.ctx = context.Background()
}

func (s *IntegrationTestSuite) eventsOfType(sender *testutil.FakeSender, eventType model.EventType) []model.Event {
	var out []model.Event
	for _, ev := range sender.Events() {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

// guess submits on behalf of a player, spacing submissions out so none fall
// into the duplicate-suppression window
func (s *IntegrationTestSuite) guess(sessionID model.SessionID, player model.PlayerID, word string) error {
	s.app.MockClock.Advance(5 * time.Second)
	return s.app.SessionController.SubmitGuess(s.ctx, sessionID, player, word)
}

// startDuel runs challenge creation and acceptance, returning the session
func (s *IntegrationTestSuite) startDuel(difficulty model.Difficulty) *model.Session {
	_, err := s.app.ChallengeController.Create(s.ctx, "alice", "bob", difficulty, "duel-1")
	s.Require().NoError(err)

	session, err := s.app.ChallengeController.Respond(s.ctx, "duel-1", true, "bob")
	s.Require().NoError(err)
	s.Require().NotNil(session)
	return session
}

// Full duel: challenge, accept, both play to a finish, stats recorded.
func (s *IntegrationTestSuite) TestFullDuel() {
	session := s.startDuel(model.DifficultyMedium)

	// MockRandom picks the first 5-letter word in the test dictionary
	s.Equal("CRANE", session.TargetWord)
	s.Len(s.eventsOfType(s.alice, model.EventGameStart), 1)
	s.Len(s.eventsOfType(s.bob, model.EventGameStart), 1)

	// Alice solves on her second attempt
	s.Require().NoError(s.guess(session.ID, "alice", "slate"))
	s.Require().NoError(s.guess(session.ID, "alice", "crane"))

	// Bob is still playing; no game over yet
	s.Empty(s.eventsOfType(s.alice, model.EventGameOver))

	// Bob solves on his third attempt
	s.Require().NoError(s.guess(session.ID, "bob", "robot"))
	s.Require().NoError(s.guess(session.ID, "bob", "slate"))
	s.Require().NoError(s.guess(session.ID, "bob", "crane"))

	// Both finished: exactly one game_over each
	aliceOver := s.eventsOfType(s.alice, model.EventGameOver)
	s.Require().Len(aliceOver, 1)
	s.Require().Len(s.eventsOfType(s.bob, model.EventGameOver), 1)

	payload, ok := aliceOver[0].Payload.(model.GameOverPayload)
	s.Require().True(ok)
	s.True(payload.Won)
	s.Equal(2, payload.Tries)
	s.Equal(3, payload.OpponentTries)
	s.Equal("CRANE", payload.TargetWord)

	// Stats landed for both players
	aliceStats, err := s.app.StatsService.Stats(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, aliceStats.Wins)
	s.Equal(14, aliceStats.Points) // 10 base + 4 unused attempts

	bobStats, err := s.app.StatsService.Stats(s.ctx, "bob")
	s.Require().NoError(err)
	s.Equal(1, bobStats.Wins)
	s.Equal(13, bobStats.Points)
}

// Feedback accuracy through the full stack, including repeated letters.
func (s *IntegrationTestSuite) TestGuessFeedback() {
	session := s.startDuel(model.DifficultyMedium)
	s.Require().Equal("CRANE", session.TargetWord)

	// ERROR against CRANE: only one R is creditable
	s.Require().NoError(s.guess(session.ID, "alice", "error"))

	results := s.eventsOfType(s.alice, model.EventGuessResult)
	s.Require().Len(results, 1)
	payload, ok := results[0].Payload.(model.GuessResultPayload)
	s.Require().True(ok)
	s.Equal([]model.LetterStatus{
		model.LetterPresent, // E occurs later in the target
		model.LetterCorrect, // R in place
		model.LetterAbsent,  // second R exceeds the target's count
		model.LetterAbsent,
		model.LetterAbsent,
	}, payload.Result)
	s.False(payload.Winner)

	// The opponent sees the same feedback without the target being revealed
	opponentView := s.eventsOfType(s.bob, model.EventOpponentGuess)
	s.Require().Len(opponentView, 1)
	opponentPayload, ok := opponentView[0].Payload.(model.OpponentGuessPayload)
	s.Require().True(ok)
	s.Equal(payload.Result, opponentPayload.Result)
	s.Empty(opponentPayload.RevealedWord)
}

// Both players exhaust their attempts: the session finalizes with two losses.
func (s *IntegrationTestSuite) TestBothExhaustAttempts() {
	session := s.startDuel(model.DifficultyMedium)

	misses := []string{"slate", "robot", "audio", "house", "guess", "error"}
	for _, word := range misses {
		s.Require().NoError(s.guess(session.ID, "alice", word))
	}
	for _, word := range misses {
		s.Require().NoError(s.guess(session.ID, "bob", word))
	}

	stored, err := s.app.SessionController.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.True(stored.Finished)

	s.Require().Len(s.eventsOfType(s.alice, model.EventGameOver), 1)
	s.Require().Len(s.eventsOfType(s.bob, model.EventGameOver), 1)

	for _, player := range []model.PlayerID{"alice", "bob"} {
		st, err := s.app.StatsService.Stats(s.ctx, player)
		s.Require().NoError(err)
		s.Equal(1, st.Losses)
		s.Equal(0, st.Wins)
		s.Equal(1, st.Points)
	}
}

// A challenge sent to an offline player is held and delivered on register.
func (s *IntegrationTestSuite) TestOfflineChallengeDelivery() {
	// Carol has never connected
	_, err := s.app.ChallengeController.Create(s.ctx, "alice", "carol", model.DifficultyHard, "duel-2")
	s.Require().NoError(err)

	// Carol comes online within the freshness window
	s.app.MockClock.Advance(30 * time.Second)
	carol := testutil.NewFakeSender("conn-carol")
	s.app.Registry.Register("carol", carol)
	s.Require().NoError(s.app.ChallengeController.FlushPending(s.ctx, "carol"))

	received := s.eventsOfType(carol, model.EventChallengeReceived)
	s.Require().Len(received, 1)
	payload, ok := received[0].Payload.(model.ChallengeReceivedPayload)
	s.Require().True(ok)
	s.Equal(model.ChallengeCode("duel-2"), payload.Code)
	s.Equal(model.PlayerID("alice"), payload.From)
	s.Equal(6, payload.WordLength)

	// Carol can accept and the duel starts
	session, err := s.app.ChallengeController.Respond(s.ctx, "duel-2", true, "carol")
	s.Require().NoError(err)
	s.Equal("ROBOTS", session.TargetWord)
}

// A stale challenge is not delivered on register.
func (s *IntegrationTestSuite) TestStaleChallengeNotDelivered() {
	_, err := s.app.ChallengeController.Create(s.ctx, "alice", "carol", model.DifficultyHard, "duel-2")
	s.Require().NoError(err)

	s.app.MockClock.Advance(2 * time.Minute)
	carol := testutil.NewFakeSender("conn-carol")
	s.app.Registry.Register("carol", carol)
	s.Require().NoError(s.app.ChallengeController.FlushPending(s.ctx, "carol"))

	s.Empty(s.eventsOfType(carol, model.EventChallengeReceived))
}

// Declining notifies the challenger and no session is created.
func (s *IntegrationTestSuite) TestDecline() {
	_, err := s.app.ChallengeController.Create(s.ctx, "alice", "bob", model.DifficultyMedium, "duel-1")
	s.Require().NoError(err)

	session, err := s.app.ChallengeController.Respond(s.ctx, "duel-1", false, "bob")
	s.Require().NoError(err)
	s.Nil(session)

	s.Require().Len(s.eventsOfType(s.alice, model.EventChallengeDeclined), 1)
	s.Empty(s.eventsOfType(s.alice, model.EventGameStart))

	_, err = s.app.SessionController.GetSession(s.ctx, "duel-1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Leaving mid-game forfeits for the leaver only.
func (s *IntegrationTestSuite) TestLeaveForfeits() {
	session := s.startDuel(model.DifficultyMedium)
	s.Require().NoError(s.guess(session.ID, "alice", "slate"))

	s.Require().NoError(s.app.SessionController.Leave(s.ctx, session.ID, "alice"))

	s.Require().Len(s.eventsOfType(s.bob, model.EventOpponentLeft), 1)

	aliceStats, err := s.app.StatsService.Stats(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, aliceStats.Losses)

	// The abandoned player carries no recorded result
	_, err = s.app.StatsService.Stats(s.ctx, "bob")
	s.ErrorIs(err, model.ErrStatsNotFound)

	results, err := s.app.StatsService.Results(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.True(results[0].Forfeited)
}

// A reconnect during a live session reroutes events to the new connection.
func (s *IntegrationTestSuite) TestReconnectDuringSession() {
	session := s.startDuel(model.DifficultyMedium)

	reconnected := testutil.NewFakeSender("conn-bob-2")
	s.app.Registry.Register("bob", reconnected)

	s.Require().NoError(s.guess(session.ID, "alice", "slate"))

	s.Empty(s.eventsOfType(s.bob, model.EventOpponentGuess))
	s.Require().Len(s.eventsOfType(reconnected, model.EventOpponentGuess), 1)
}
