// Package session keeps one form state per browser session in memory.
package session

import (
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/talkincode/productform/internal/form"
)

// TopicFormChanged is published after every successful Update.
const TopicFormChanged = "form:changed"

// ChangeEvent describes a completed form transition.
type ChangeEvent struct {
	SessionID string
	Action    string
	Days      int
}

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("form session not found")

type entry struct {
	state    *form.State
	lastSeen time.Time
}

// Store maps session IDs to form states. Each state is only touched while the
// store lock is held, so a session sees one transition at a time.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	node    *snowflake.Node
	bus     EventBus.Bus
	ttl     time.Duration
	now     func() time.Time
}

// NewStore creates a store whose IDs come from the given snowflake node.
func NewStore(nodeID int64, ttl time.Duration, bus EventBus.Bus) (*Store, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, errors.Wrap(err, "create snowflake node")
	}
	if bus == nil {
		bus = EventBus.New()
	}
	return &Store{
		entries: make(map[string]*entry),
		node:    node,
		bus:     bus,
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

// Bus returns the event bus change events are published on.
func (s *Store) Bus() EventBus.Bus {
	return s.bus
}

// Create starts a new session holding the empty record.
func (s *Store) Create() string {
	id := s.node.Generate().String()
	s.mu.Lock()
	s.entries[id] = &entry{state: form.NewState(), lastSeen: s.now()}
	s.mu.Unlock()
	zap.L().Debug("form session created", zap.String("session_id", id))
	return id
}

// Exists reports whether id names a live session.
func (s *Store) Exists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[id]
	return ok
}

// View calls fn with the session's state for reading.
func (s *Store) View(id string, fn func(*form.State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return ErrNotFound
	}
	e.lastSeen = s.now()
	fn(e.state)
	return nil
}

// Update applies fn to the session's state and publishes a change event
// tagged with action.
func (s *Store) Update(id, action string, fn func(*form.State)) error {
	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	e.lastSeen = s.now()
	fn(e.state)
	evt := ChangeEvent{SessionID: id, Action: action, Days: e.state.Record().DayCount()}
	s.mu.Unlock()

	s.bus.Publish(TopicFormChanged, evt)
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}
