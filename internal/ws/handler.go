package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jspires/wordduel/internal/model"
	"github.com/jspires/wordduel/internal/services/challenge"
	"github.com/jspires/wordduel/internal/services/registry"
	"github.com/jspires/wordduel/internal/services/session"
)

// dispatchTimeout bounds how long one inbound message may spend in storage
const dispatchTimeout = 10 * time.Second

// Handler upgrades HTTP connections to websockets and routes inbound
// messages to the game controllers. Each connection's messages are
// dispatched sequentially from its read pump, so one client's events are
// processed in submission order.
type Handler struct {
	registry   *registry.Registry
	challenges challenge.ControllerInterface
	sessions   session.ControllerInterface
	logger     *slog.Logger
	upgrader   websocket.Upgrader
}

// NewHandler creates a new websocket Handler
func NewHandler(
	reg *registry.Registry,
	challenges challenge.ControllerInterface,
	sessions session.ControllerInterface,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		registry:   reg,
		challenges: challenges,
		sessions:   sessions,
		logger:     logger.With(slog.String("component", "ws")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Identity is delegated to the external identity service;
				// the game protocol carries no credentials worth hijacking
				return true
			},
		},
	}
}

// ServeHTTP implements the websocket upgrade endpoint
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := newClient(model.ConnectionID(uuid.NewString()), conn, h.logger)
	h.logger.Info("connection opened", slog.String("conn", string(client.id)))

	go client.writePump()
	client.readPump(h)
}

// disconnect tears down a closing connection
func (h *Handler) disconnect(c *Client) {
	h.registry.Unregister(c.id)
	c.close()
	h.logger.Info("connection closed",
		slog.String("conn", string(c.id)),
		slog.Duration("connection_duration", time.Since(c.connectedAt)),
	)
}

// dispatch routes one inbound message. A malformed or failing message yields
// an error event on this connection only; it never takes down the process.
func (h *Handler) dispatch(c *Client, data []byte) {
	defer func() {
		if err := recover(); err != nil {
			h.logger.Error("panic in dispatch",
				slog.Any("error", err),
				slog.String("stack", string(debug.Stack())),
				slog.String("conn", string(c.id)),
			)
			c.SendEvent(model.Event{
				Type:    model.EventError,
				Payload: model.ErrorPayload{Code: CodeInternalError, Message: "Internal server error"},
			})
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		h.sendError(c, CodeInvalidRequest, "Malformed message")
		return
	}

	if envelope.Type == MsgRegister {
		h.handleRegister(ctx, c, envelope.Data)
		return
	}

	// Everything else requires a bound identity
	if c.identity == "" {
		h.sendError(c, CodeNotRegistered, "Register an identity first")
		return
	}

	switch envelope.Type {
	case MsgSendChallenge:
		h.handleSendChallenge(ctx, c, envelope.Data)
	case MsgRespondChallenge:
		h.handleRespondChallenge(ctx, c, envelope.Data)
	case MsgSubmitGuess:
		h.handleSubmitGuess(ctx, c, envelope.Data)
	case MsgLeaveGame:
		h.handleLeaveGame(ctx, c, envelope.Data)
	default:
		h.sendError(c, CodeInvalidRequest, "Unknown message type")
	}
}

func (h *Handler) handleRegister(ctx context.Context, c *Client, data json.RawMessage) {
	var req RegisterRequest
	if err := json.Unmarshal(data, &req); err != nil || req.Identity == "" {
		h.sendError(c, CodeInvalidRequest, "Register requires an identity")
		return
	}

	identity := model.PlayerID(req.Identity)
	c.identity = identity
	h.registry.Register(identity, c)

	c.SendEvent(model.Event{
		Type:    model.EventRegistered,
		Payload: model.RegisteredPayload{Identity: identity},
	})

	// Deliver any challenges that arrived while this player was offline
	if err := h.challenges.FlushPending(ctx, identity); err != nil {
		h.logger.Warn("pending challenge flush failed",
			slog.String("identity", string(identity)),
			slog.String("error", err.Error()),
		)
	}
}

func (h *Handler) handleSendChallenge(ctx context.Context, c *Client, data json.RawMessage) {
	var req SendChallengeRequest
	if err := json.Unmarshal(data, &req); err != nil || req.To == "" {
		h.sendError(c, CodeInvalidRequest, "Challenge requires a target player")
		return
	}

	code := model.ChallengeCode(req.Code)
	if code == "" {
		code = model.ChallengeCode(uuid.NewString()[:8])
	}

	_, err := h.challenges.Create(ctx, c.identity, model.PlayerID(req.To), model.Difficulty(req.Difficulty), code)
	if err != nil {
		// Duplicate re-sends are suppressed silently; the original
		// challenge is already in flight
		if errors.Is(err, model.ErrDuplicateChallenge) {
			return
		}
		h.sendDomainError(c, err)
	}
}

func (h *Handler) handleRespondChallenge(ctx context.Context, c *Client, data json.RawMessage) {
	var req RespondChallengeRequest
	if err := json.Unmarshal(data, &req); err != nil || req.Code == "" {
		h.sendError(c, CodeInvalidRequest, "Response requires a challenge code")
		return
	}

	if _, err := h.challenges.Respond(ctx, model.ChallengeCode(req.Code), req.Accept, c.identity); err != nil {
		h.sendDomainError(c, err)
	}
}

func (h *Handler) handleSubmitGuess(ctx context.Context, c *Client, data json.RawMessage) {
	var req SubmitGuessRequest
	if err := json.Unmarshal(data, &req); err != nil || req.SessionID == "" || req.Guess == "" {
		h.sendError(c, CodeInvalidRequest, "Guess requires a session id and a word")
		return
	}

	if err := h.sessions.SubmitGuess(ctx, model.SessionID(req.SessionID), c.identity, req.Guess); err != nil {
		h.sendDomainError(c, err)
	}
}

func (h *Handler) handleLeaveGame(ctx context.Context, c *Client, data json.RawMessage) {
	var req LeaveGameRequest
	if err := json.Unmarshal(data, &req); err != nil || req.SessionID == "" {
		h.sendError(c, CodeInvalidRequest, "Leave requires a session id")
		return
	}

	if err := h.sessions.Leave(ctx, model.SessionID(req.SessionID), c.identity); err != nil {
		h.sendDomainError(c, err)
	}
}

func (h *Handler) sendError(c *Client, code, message string) {
	c.SendEvent(model.Event{
		Type:    model.EventError,
		Payload: model.ErrorPayload{Code: code, Message: message},
	})
}

func (h *Handler) sendDomainError(c *Client, err error) {
	payload := toErrorPayload(err)
	if payload.Code == CodeInternalError {
		h.logger.Error("request failed",
			slog.String("conn", string(c.id)),
			slog.String("error", err.Error()),
		)
	}
	c.SendEvent(model.Event{
		Type:    model.EventError,
		Payload: payload,
	})
}
