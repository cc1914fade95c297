package challenge

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jspires/wordduel/internal/dependencies/clock"
	"github.com/jspires/wordduel/internal/model"
	"github.com/jspires/wordduel/internal/storage"
)

// DefaultFreshnessWindow is how long a challenge stays deliverable and how
// long an equivalent re-send is suppressed as a duplicate.
const DefaultFreshnessWindow = 60 * time.Second

// Notifier delivers events to whichever connection currently represents an
// identity. Delivery is best-effort; false means the event was dropped.
type Notifier interface {
	Notify(identity model.PlayerID, event model.Event) bool
}

// SessionCreator starts a game session when a challenge is accepted
type SessionCreator interface {
	CreateSession(ctx context.Context, id model.SessionID, players []model.PlayerID, difficulty model.Difficulty) (*model.Session, error)
}

// Controller owns pending challenge invitations: creation, deduplication,
// offline holding, reconnect flushing, and resolution into sessions.
type Controller struct {
	storage  storage.Storage
	sessions SessionCreator
	notifier Notifier
	clock    clock.Clock
	logger   *slog.Logger
	window   time.Duration

	// Serializes lookups and mutations on a given code, and guards the
	// duplicate-suppression index.
	mu     sync.Mutex
	recent map[dedupKey]time.Time
}

type dedupKey struct {
	from model.PlayerID
	to   model.PlayerID
	code model.ChallengeCode
}

// NewController creates a new challenge Controller. A non-positive window
// falls back to DefaultFreshnessWindow.
func NewController(
	storage storage.Storage,
	sessions SessionCreator,
	notifier Notifier,
	clock clock.Clock,
	logger *slog.Logger,
	window time.Duration,
) *Controller {
	if window <= 0 {
		window = DefaultFreshnessWindow
	}
	return &Controller{
		storage:  storage,
		sessions: sessions,
		notifier: notifier,
		clock:    clock,
		logger:   logger.With(slog.String("component", "challenge")),
		window:   window,
		recent:   make(map[dedupKey]time.Time),
	}
}

// Create constructs a challenge and delivers it to the target if they are
// online; otherwise it is held pending until the target registers.
// An equivalent (from, to, code) triple created within the freshness window
// is rejected with ErrDuplicateChallenge to absorb client retries.
func (c *Controller) Create(ctx context.Context, from, to model.PlayerID, difficulty model.Difficulty, code model.ChallengeCode) (*model.Challenge, error) {
	if !difficulty.Valid() {
		return nil, model.ErrInvalidDifficulty
	}
	if from == to {
		return nil, model.ErrSelfChallenge
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	key := dedupKey{from: from, to: to, code: code}
	if created, ok := c.recent[key]; ok && now.Sub(created) < c.window {
		return nil, model.ErrDuplicateChallenge
	}
	c.pruneRecentLocked(now)

	challenge := &model.Challenge{
		Code:       code,
		From:       from,
		To:         to,
		Difficulty: difficulty,
		CreatedAt:  now,
	}

	if err := c.storage.SaveChallenge(ctx, challenge); err != nil {
		c.logger.Error("failed to save challenge",
			slog.String("code", string(code)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	c.recent[key] = now

	delivered := c.notifier.Notify(to, model.Event{
		Type:    model.EventChallengeReceived,
		Payload: receivedPayload(challenge),
	})

	c.logger.Info("challenge created",
		slog.String("code", string(code)),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
		slog.String("difficulty", string(difficulty)),
		slog.Bool("delivered", delivered),
	)

	return challenge, nil
}

// FlushPending re-delivers all unresponded, unexpired challenges addressed
// to an identity. Called whenever that identity (re)registers a connection.
// Expired challenges are garbage-collected instead of delivered.
func (c *Controller) FlushPending(ctx context.Context, identity model.PlayerID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	pending, err := c.storage.ListChallengesForTarget(ctx, identity)
	if err != nil {
		return err
	}

	now := c.clock.Now()
	for _, challenge := range pending {
		if now.After(challenge.ExpiresAt(c.window)) {
			if err := c.storage.DeleteChallenge(ctx, challenge.Code); err != nil {
				c.logger.Warn("failed to delete expired challenge",
					slog.String("code", string(challenge.Code)),
					slog.String("error", err.Error()),
				)
			}
			continue
		}
		c.notifier.Notify(identity, model.Event{
			Type:    model.EventChallengeReceived,
			Payload: receivedPayload(challenge),
		})
	}
	return nil
}

// Respond resolves a challenge by code. Accepting draws the target word and
// creates the session atomically with respect to other operations on the
// same code; declining notifies the challenger only. A code that is unknown,
// already resolved, or expired yields ErrChallengeNotFound.
func (c *Controller) Respond(ctx context.Context, code model.ChallengeCode, accepted bool, responder model.PlayerID) (*model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	challenge, err := c.storage.GetChallenge(ctx, code)
	if err != nil {
		return nil, err
	}

	// Authorization first: a responder who was never the target learns
	// nothing about the code's state and cannot trigger its cleanup
	if challenge.To != responder {
		return nil, model.ErrNotChallengeTarget
	}

	if c.clock.Now().After(challenge.ExpiresAt(c.window)) {
		// Stale challenges are not resurfaced; acceptance loses the race
		if err := c.storage.DeleteChallenge(ctx, code); err != nil {
			c.logger.Warn("failed to delete expired challenge",
				slog.String("code", string(code)),
				slog.String("error", err.Error()),
			)
		}
		return nil, model.ErrChallengeNotFound
	}

	if !accepted {
		if err := c.storage.DeleteChallenge(ctx, code); err != nil {
			return nil, err
		}
		c.notifier.Notify(challenge.From, model.Event{
			Type:    model.EventChallengeDeclined,
			Payload: model.ChallengeDeclinedPayload{Code: code},
		})
		c.logger.Info("challenge declined",
			slog.String("code", string(code)),
			slog.String("by", string(responder)),
		)
		return nil, nil
	}

	session, err := c.sessions.CreateSession(ctx,
		model.SessionID(code),
		[]model.PlayerID{challenge.From, challenge.To},
		challenge.Difficulty,
	)
	if err != nil {
		// Challenge stays resident so the responder can retry
		return nil, err
	}

	if err := c.storage.DeleteChallenge(ctx, code); err != nil {
		return nil, err
	}

	for _, player := range session.Players {
		c.notifier.Notify(player, model.Event{
			Type: model.EventGameStart,
			Payload: model.GameStartPayload{
				SessionID:  session.ID,
				Opponent:   session.Opponent(player),
				Difficulty: session.Difficulty,
				WordLength: session.WordLength,
			},
		})
	}

	c.logger.Info("challenge accepted",
		slog.String("code", string(code)),
		slog.String("by", string(responder)),
	)

	return session, nil
}

// pruneRecentLocked drops dedup entries older than the freshness window.
// Caller must hold c.mu.
func (c *Controller) pruneRecentLocked(now time.Time) {
	for key, created := range c.recent {
		if now.Sub(created) >= c.window {
			delete(c.recent, key)
		}
	}
}

func receivedPayload(challenge *model.Challenge) model.ChallengeReceivedPayload {
	return model.ChallengeReceivedPayload{
		Code:       challenge.Code,
		From:       challenge.From,
		Difficulty: challenge.Difficulty,
		WordLength: challenge.Difficulty.WordLength(),
	}
}

// Interface for dependency injection
type ControllerInterface interface {
	Create(ctx context.Context, from, to model.PlayerID, difficulty model.Difficulty, code model.ChallengeCode) (*model.Challenge, error)
	FlushPending(ctx context.Context, identity model.PlayerID) error
	Respond(ctx context.Context, code model.ChallengeCode, accepted bool, responder model.PlayerID) (*model.Session, error)
}

var _ ControllerInterface = (*Controller)(nil)
