package testutil

import (
	"sync"

	"github.com/jspires/wordduel/internal/model"
)

// RecordedEvent is one delivery captured by a RecordingNotifier
type RecordedEvent struct {
	Identity model.PlayerID
	Event    model.Event
}

// RecordingNotifier captures notifications for assertions. Identities marked
// offline drop their events, mirroring real delivery semantics.
type RecordingNotifier struct {
	mu      sync.Mutex
	events  []RecordedEvent
	offline map[model.PlayerID]bool
}

// NewRecordingNotifier creates a new RecordingNotifier
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{
		offline: make(map[model.PlayerID]bool),
	}
}

// Notify records the event unless the identity is marked offline
func (n *RecordingNotifier) Notify(identity model.PlayerID, event model.Event) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.offline[identity] {
		return false
	}
	n.events = append(n.events, RecordedEvent{Identity: identity, Event: event})
	return true
}

// SetOffline marks an identity as undeliverable
func (n *RecordingNotifier) SetOffline(identity model.PlayerID, offline bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.offline[identity] = offline
}

// Events returns all recorded deliveries
func (n *RecordingNotifier) Events() []RecordedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]RecordedEvent, len(n.events))
	copy(out, n.events)
	return out
}

// EventsFor returns the events delivered to one identity
func (n *RecordingNotifier) EventsFor(identity model.PlayerID) []model.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []model.Event
	for _, rec := range n.events {
		if rec.Identity == identity {
			out = append(out, rec.Event)
		}
	}
	return out
}

// CountFor returns how many events of a type were delivered to an identity
func (n *RecordingNotifier) CountFor(identity model.PlayerID, eventType model.EventType) int {
	count := 0
	for _, ev := range n.EventsFor(identity) {
		if ev.Type == eventType {
			count++
		}
	}
	return count
}

// Clear drops all recorded events
func (n *RecordingNotifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = nil
}

// FakeSender is a registry.Sender that records events in memory
type FakeSender struct {
	ID model.ConnectionID

	mu     sync.Mutex
	events []model.Event
	full   bool
}

// NewFakeSender creates a FakeSender with the given connection id
func NewFakeSender(id model.ConnectionID) *FakeSender {
	return &FakeSender{ID: id}
}

// ConnectionID returns the fake connection id
func (s *FakeSender) ConnectionID() model.ConnectionID {
	return s.ID
}

// SendEvent records the event, or drops it when the sender is marked full
func (s *FakeSender) SendEvent(event model.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.full {
		return false
	}
	s.events = append(s.events, event)
	return true
}

// SetFull makes subsequent sends fail, simulating a saturated buffer
func (s *FakeSender) SetFull(full bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.full = full
}

// Events returns all recorded events
func (s *FakeSender) Events() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Event, len(s.events))
	copy(out, s.events)
	return out
}
