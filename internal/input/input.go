package input

import (
	"sync"
)

// EventKind identifies the payload of an Event.
type EventKind int

const (
	EventKey EventKind = iota
	EventCursor
	EventScroll
)

// Event is one window callback, translated to logical actions. For EventKey
// Actions holds the bound actions of Key; X/Y carry the cursor position or the
// scroll offsets.
type Event struct {
	Kind    EventKind
	Key     Key
	Action  KeyAction
	Actions []Action
	X, Y    float64
}

// Manager queues window events between polls and maps physical keys to
// logical actions. Callbacks append, the frame loop drains with Poll.
type Manager struct {
	mu sync.Mutex

	// Key to action mapping (one key can map to multiple actions)
	bindings Bindings

	pending []Event
}

// NewManager creates a Manager with the default key bindings
func NewManager() *Manager {
	return NewManagerWithBindings(DefaultBindings())
}

// NewManagerWithBindings copies b. Actions outside the known range are dropped.
func NewManagerWithBindings(b Bindings) *Manager {
	m := &Manager{bindings: make(Bindings, len(b))}
	for k, actions := range b {
		for _, a := range actions {
			if a >= 0 && a < ActionCount {
				m.bindings[k] = append(m.bindings[k], a)
			}
		}
	}
	return m
}

// ActionsFor returns the actions bound to key.
func (m *Manager) ActionsFor(key Key) []Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Action(nil), m.bindings[key]...)
}

// HandleKeyEvent queues a key transition. Unbound keys are dropped.
func (m *Manager) HandleKeyEvent(key Key, action KeyAction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	actions, ok := m.bindings[key]
	if !ok {
		return
	}
	m.pending = append(m.pending, Event{
		Kind:    EventKey,
		Key:     key,
		Action:  action,
		Actions: append([]Action(nil), actions...),
	})
}

// HandleCursor queues an absolute cursor position in window coordinates.
func (m *Manager) HandleCursor(x, y float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, Event{Kind: EventCursor, X: x, Y: y})
}

// HandleScroll queues a scroll offset.
func (m *Manager) HandleScroll(dx, dy float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, Event{Kind: EventScroll, X: dx, Y: dy})
}

// Poll returns the events received since the previous call, oldest first.
func (m *Manager) Poll() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := m.pending
	m.pending = nil
	return events
}
