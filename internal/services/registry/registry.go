package registry

import (
	"log/slog"
	"sync"

	"github.com/jspires/wordduel/internal/model"
)

// Sender is the transport half of a registered connection. SendEvent must be
// non-blocking; it returns false when the event could not be queued.
type Sender interface {
	ConnectionID() model.ConnectionID
	SendEvent(event model.Event) bool
}

// Registry maps a stable player identity to its current live connection.
// Registration is last-wins: a reconnecting player silently supersedes any
// stale mapping left by a previous connection.
type Registry struct {
	mu         sync.RWMutex
	byIdentity map[model.PlayerID]Sender
	byConn     map[model.ConnectionID]model.PlayerID
	logger     *slog.Logger
}

// New creates a new connection Registry
func New(logger *slog.Logger) *Registry {
	return &Registry{
		byIdentity: make(map[model.PlayerID]Sender),
		byConn:     make(map[model.ConnectionID]model.PlayerID),
		logger:     logger.With(slog.String("component", "registry")),
	}
}

// Register records the mapping for an identity, superseding any previous
// connection. It is idempotent and cannot fail.
func (r *Registry) Register(identity model.PlayerID, sender Sender) {
	r.mu.Lock()
	if old, ok := r.byIdentity[identity]; ok && old.ConnectionID() != sender.ConnectionID() {
		// Reconnect: drop the stale reverse mapping so a later disconnect of
		// the old transport cannot clear the fresh one
		delete(r.byConn, old.ConnectionID())
		r.logger.Info("connection superseded",
			slog.String("identity", string(identity)),
			slog.String("old_conn", string(old.ConnectionID())),
			slog.String("new_conn", string(sender.ConnectionID())),
		)
	}
	if oldIdentity, ok := r.byConn[sender.ConnectionID()]; ok && oldIdentity != identity {
		// Rebind: this connection previously represented another identity;
		// that identity must not keep resolving to a connection it no longer
		// owns, or its events would reach the wrong player
		if current, ok := r.byIdentity[oldIdentity]; ok && current.ConnectionID() == sender.ConnectionID() {
			delete(r.byIdentity, oldIdentity)
		}
		r.logger.Info("identity rebound",
			slog.String("old_identity", string(oldIdentity)),
			slog.String("new_identity", string(identity)),
			slog.String("conn", string(sender.ConnectionID())),
		)
	}
	r.byIdentity[identity] = sender
	r.byConn[sender.ConnectionID()] = identity
	r.mu.Unlock()

	r.logger.Info("identity registered",
		slog.String("identity", string(identity)),
		slog.String("conn", string(sender.ConnectionID())),
	)
}

// Resolve returns the current connection for an identity. A miss is not an
// error; it means the player is offline.
func (r *Registry) Resolve(identity model.PlayerID) (model.ConnectionID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sender, ok := r.byIdentity[identity]
	if !ok {
		return "", false
	}
	return sender.ConnectionID(), true
}

// Unregister clears the mapping for a disconnecting connection. The forward
// mapping is removed only if this connection is still the identity's current
// one, so a reconnect that already superseded it is unaffected.
func (r *Registry) Unregister(connID model.ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.byConn[connID]
	if !ok {
		return
	}
	delete(r.byConn, connID)

	if current, ok := r.byIdentity[identity]; ok && current.ConnectionID() == connID {
		delete(r.byIdentity, identity)
		r.logger.Info("identity unregistered",
			slog.String("identity", string(identity)),
			slog.String("conn", string(connID)),
		)
	}
}

// Identity returns the identity registered for a connection, if any
func (r *Registry) Identity(connID model.ConnectionID) (model.PlayerID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	identity, ok := r.byConn[connID]
	return identity, ok
}

// Notify delivers an event to whatever connection is currently registered
// for the identity. Delivery is fire-and-forget: an offline recipient or a
// full send buffer drops the event and returns false, never an error. The
// client is expected to resync via pending-challenge flush on reconnect.
func (r *Registry) Notify(identity model.PlayerID, event model.Event) bool {
	r.mu.RLock()
	sender, ok := r.byIdentity[identity]
	r.mu.RUnlock()

	if !ok {
		r.logger.Debug("notify dropped, identity offline",
			slog.String("identity", string(identity)),
			slog.String("event", string(event.Type)),
		)
		return false
	}

	if !sender.SendEvent(event) {
		r.logger.Warn("notify dropped, send buffer full",
			slog.String("identity", string(identity)),
			slog.String("event", string(event.Type)),
		)
		return false
	}
	return true
}

// ConnectionCount returns the number of registered identities
func (r *Registry) ConnectionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byIdentity)
}
