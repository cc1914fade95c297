package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jspires/wordduel/internal/dependencies/clock"
	"github.com/jspires/wordduel/internal/model"
	"github.com/jspires/wordduel/internal/services/guess"
	"github.com/jspires/wordduel/internal/storage"
)

// DefaultDedupWindow is how long a re-submission of an identical guess by
// the same participant is treated as a client retry rather than a new
// attempt.
const DefaultDedupWindow = 3 * time.Second

// Notifier delivers events to whichever connection currently represents an
// identity. Delivery is best-effort; false means the event was dropped.
type Notifier interface {
	Notify(identity model.PlayerID, event model.Event) bool
}

// WordSource validates guesses and draws target words
type WordSource interface {
	IsValid(word string) bool
	PickWord(ctx context.Context, difficulty model.Difficulty) (string, error)
}

// ResultRecorder persists finalized per-participant outcomes
type ResultRecorder interface {
	Record(ctx context.Context, result *model.GameResult) error
}

// Config tunes orchestrator behavior
type Config struct {
	// AcceptAllWords skips dictionary validation of guesses. Escape hatch
	// for offline dictionaries and tests.
	AcceptAllWords bool
	// DedupWindow bounds duplicate-guess suppression; zero uses the default.
	DedupWindow time.Duration
}

// Controller is the session state machine: it creates sessions, evaluates
// guesses, drives participants to their individual finishes, and fans out
// exactly-once notifications when the session finalizes.
type Controller struct {
	storage  storage.Storage
	words    WordSource
	recorder ResultRecorder
	notifier Notifier
	clock    clock.Clock
	logger   *slog.Logger
	cfg      Config

	// Serializes read-modify-write cycles on session state so each inbound
	// guess or leave is processed run-to-completion.
	mu sync.Mutex
}

// NewController creates a new session Controller
func NewController(
	storage storage.Storage,
	words WordSource,
	recorder ResultRecorder,
	notifier Notifier,
	clock clock.Clock,
	logger *slog.Logger,
	cfg Config,
) *Controller {
	if cfg.DedupWindow <= 0 {
		cfg.DedupWindow = DefaultDedupWindow
	}
	return &Controller{
		storage:  storage,
		words:    words,
		recorder: recorder,
		notifier: notifier,
		clock:    clock,
		logger:   logger.With(slog.String("component", "session")),
		cfg:      cfg,
	}
}

// CreateSession starts a new session for exactly two players. The target
// word is drawn here, at acceptance time, and never leaves the server until
// the session concludes.
func (c *Controller) CreateSession(ctx context.Context, id model.SessionID, players []model.PlayerID, difficulty model.Difficulty) (*model.Session, error) {
	if !difficulty.Valid() {
		return nil, model.ErrInvalidDifficulty
	}

	target, err := c.words.PickWord(ctx, difficulty)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	session := &model.Session{
		ID:           id,
		Players:      players,
		Difficulty:   difficulty,
		TargetWord:   strings.ToUpper(target),
		WordLength:   difficulty.WordLength(),
		Participants: make(map[model.PlayerID]*model.Participant, len(players)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, player := range players {
		session.Participants[player] = &model.Participant{
			RemainingAttempts: model.MaxAttempts,
		}
	}

	if err := c.storage.SaveSession(ctx, session); err != nil {
		c.logger.Error("failed to save session",
			slog.String("session_id", string(id)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("session created",
		slog.String("session_id", string(id)),
		slog.String("difficulty", string(difficulty)),
		slog.Int("word_length", session.WordLength),
	)

	return session, nil
}

// GetSession retrieves a session by ID
func (c *Controller) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.storage.GetSession(ctx, id)
}

// SubmitGuess validates and evaluates one guess. On success the submitter
// receives a guess_result event and the opponent an opponent_guess event;
// if this guess finishes the last unfinished participant, the session
// finalizes and each participant receives exactly one game_over event.
//
// A rejected guess never consumes an attempt. An identical guess re-sent
// within the dedup window is treated as a client retry: the recorded result
// is re-emitted to the submitter and nothing else happens.
func (c *Controller) SubmitGuess(ctx context.Context, sessionID model.SessionID, identity model.PlayerID, word string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Finished {
		return model.ErrSessionFinished
	}

	participant := session.Participant(identity)
	if participant == nil {
		return model.ErrNotAParticipant
	}
	if participant.Finished {
		return model.ErrPlayerFinished
	}

	guessWord := strings.ToUpper(strings.TrimSpace(word))
	if len(guessWord) != session.WordLength {
		return model.ErrInvalidGuessLength
	}
	if !c.cfg.AcceptAllWords && !c.words.IsValid(guessWord) {
		return model.ErrUnknownWord
	}

	now := c.clock.Now()

	// Duplicate-guess idempotence: at most one attempt decrement per
	// logically distinct guess event
	if n := len(participant.Guesses); n > 0 {
		last := participant.Guesses[n-1]
		if last.Word == guessWord && now.Sub(last.SubmittedAt) < c.cfg.DedupWindow {
			c.logger.Debug("duplicate guess ignored",
				slog.String("session_id", string(sessionID)),
				slog.String("player", string(identity)),
			)
			c.notifier.Notify(identity, model.Event{
				Type: model.EventGuessResult,
				Payload: model.GuessResultPayload{
					SessionID:         sessionID,
					Guess:             guessWord,
					Result:            last.Result,
					Winner:            guess.IsWinning(last.Result),
					RemainingAttempts: participant.RemainingAttempts,
				},
			})
			return nil
		}
	}

	result := guess.Evaluate(session.TargetWord, guessWord)
	winner := guess.IsWinning(result)

	participant.Guesses = append(participant.Guesses, model.Guess{
		Word:        guessWord,
		Result:      result,
		SubmittedAt: now,
	})
	participant.RemainingAttempts--

	if winner {
		participant.Finished = true
		participant.Won = true
	} else if participant.RemainingAttempts <= 0 {
		participant.Finished = true
	}

	finalized := participant.Finished && session.AllFinished()
	if finalized {
		session.Finished = true
	}
	session.UpdatedAt = now

	if err := c.storage.SaveSession(ctx, session); err != nil {
		c.logger.Error("failed to save session",
			slog.String("session_id", string(sessionID)),
			slog.String("error", err.Error()),
		)
		return err
	}

	opponent := session.Opponent(identity)

	c.notifier.Notify(identity, model.Event{
		Type: model.EventGuessResult,
		Payload: model.GuessResultPayload{
			SessionID:         sessionID,
			Guess:             guessWord,
			Result:            result,
			Winner:            winner,
			RemainingAttempts: participant.RemainingAttempts,
		},
	})

	opponentPayload := model.OpponentGuessPayload{
		SessionID: sessionID,
		Guess:     guessWord,
		Result:    result,
		Winner:    winner,
	}
	if winner {
		// The answer is only disclosed once someone has actually solved it
		opponentPayload.RevealedWord = session.TargetWord
	}
	c.notifier.Notify(opponent, model.Event{
		Type:    model.EventOpponentGuess,
		Payload: opponentPayload,
	})

	if finalized {
		c.finalize(ctx, session)
	}

	return nil
}

// finalize emits one game_over event per participant and records one
// finalized result per participant. Called exactly once per session, under
// the controller mutex, when the last unfinished participant finishes.
func (c *Controller) finalize(ctx context.Context, session *model.Session) {
	now := c.clock.Now()

	for _, player := range session.Players {
		sub := session.Participant(player)
		opponentSub := session.Participant(session.Opponent(player))

		c.notifier.Notify(player, model.Event{
			Type: model.EventGameOver,
			Payload: model.GameOverPayload{
				SessionID:     session.ID,
				Won:           sub.Won,
				Tries:         sub.Tries(),
				OpponentTries: opponentSub.Tries(),
				TargetWord:    session.TargetWord,
			},
		})

		result := &model.GameResult{
			SessionID:   session.ID,
			Player:      player,
			Won:         sub.Won,
			Tries:       sub.Tries(),
			CompletedAt: now,
		}
		if err := c.recorder.Record(ctx, result); err != nil {
			c.logger.Error("failed to record result",
				slog.String("session_id", string(session.ID)),
				slog.String("player", string(player)),
				slog.String("error", err.Error()),
			)
		}
	}

	c.logger.Info("session finished",
		slog.String("session_id", string(session.ID)),
		slog.String("target_word", session.TargetWord),
	)
}

// Leave ends a session early on behalf of one participant. The remaining
// participant is notified with opponent_left; the target word is not
// revealed, in case the leaver reconnects to a rematch. Leaving an already
// finished session is a no-op.
func (c *Controller) Leave(ctx context.Context, sessionID model.SessionID, identity model.PlayerID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Finished {
		return nil
	}

	participant := session.Participant(identity)
	if participant == nil {
		return model.ErrNotAParticipant
	}

	now := c.clock.Now()
	participant.Finished = true
	session.Finished = true
	session.UpdatedAt = now

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return err
	}

	opponent := session.Opponent(identity)
	c.notifier.Notify(opponent, model.Event{
		Type:    model.EventOpponentLeft,
		Payload: model.OpponentLeftPayload{SessionID: sessionID},
	})

	// Only the forfeiting player gets a recorded loss; the opponent's game
	// was cut short through no fault of theirs
	result := &model.GameResult{
		SessionID:   sessionID,
		Player:      identity,
		Won:         false,
		Tries:       participant.Tries(),
		Forfeited:   true,
		CompletedAt: now,
	}
	if err := c.recorder.Record(ctx, result); err != nil {
		c.logger.Error("failed to record forfeit",
			slog.String("session_id", string(sessionID)),
			slog.String("player", string(identity)),
			slog.String("error", err.Error()),
		)
	}

	c.logger.Info("session left",
		slog.String("session_id", string(sessionID)),
		slog.String("player", string(identity)),
	)

	return nil
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateSession(ctx context.Context, id model.SessionID, players []model.PlayerID, difficulty model.Difficulty) (*model.Session, error)
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	SubmitGuess(ctx context.Context, sessionID model.SessionID, identity model.PlayerID, word string) error
	Leave(ctx context.Context, sessionID model.SessionID, identity model.PlayerID) error
}

var _ ControllerInterface = (*Controller)(nil)
