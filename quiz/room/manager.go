package room

import (
	"encoding/json"
	"sync"
)

// Manager tracks membership, connection bindings, the question cache, and
// answer state for every room.
type Manager struct {
	mu       sync.RWMutex
	rooms    map[string]*state
	bindings map[string]binding // connID -> (room, studentID)
}

// binding remembers where a connection joined so teardown is O(1).
type binding struct {
	room      string
	studentID string
}

// state is everything one room owns. Its mutex serializes all operations on
// the room; different rooms never block each other.
type state struct {
	mu       sync.Mutex
	members  map[string]struct{}
	question json.RawMessage
	answered map[string]struct{}
	expected int
	closed   bool // the current question already emitted its end signal
}

// NewManager creates an empty room manager.
func NewManager() *Manager {
	return &Manager{
		rooms:    make(map[string]*state),
		bindings: make(map[string]binding),
	}
}

// Join adds studentID to the room's participant set and records the
// connection binding. Re-joining with the same studentID collapses; the new
// distinct participant count is returned.
func (m *Manager) Join(room, studentID, connID string) int {
	r := m.getOrCreate(room)

	m.mu.Lock()
	m.bindings[connID] = binding{room: room, studentID: studentID}
	m.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[studentID] = struct{}{}
	return len(r.members)
}

// Leave removes the participant a connection registered, if any. A
// connection that never joined is a no-op, not an error. The room entry may
// already be gone; that is tolerated too.
func (m *Manager) Leave(connID string) (room string, count int, ok bool) {
	m.mu.Lock()
	b, ok := m.bindings[connID]
	if !ok {
		m.mu.Unlock()
		return "", 0, false
	}
	delete(m.bindings, connID)
	r := m.rooms[b.room]
	m.mu.Unlock()

	if r == nil {
		return b.room, 0, true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, b.studentID)
	return b.room, len(r.members), true
}

// Count returns the room's distinct participant count, 0 for unknown rooms.
func (m *Manager) Count(room string) int {
	m.mu.RLock()
	r := m.rooms[room]
	m.mu.RUnlock()

	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

// SetQuestion caches the question snapshot for the room and resets answer
// state: empty answered set, expected count snapshotted from the membership
// at this instant. Participants joining afterwards do not raise the expected
// count for the in-flight question.
func (m *Manager) SetQuestion(room string, question json.RawMessage) (expected int) {
	r := m.getOrCreate(room)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.question = question
	r.answered = make(map[string]struct{})
	r.expected = len(r.members)
	r.closed = false
	return r.expected
}

// Question returns the room's cached snapshot, if any.
func (m *Manager) Question(room string) (json.RawMessage, bool) {
	m.mu.RLock()
	r := m.rooms[room]
	m.mu.RUnlock()

	if r == nil {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.question == nil {
		return nil, false
	}
	return r.question, true
}

// ClearQuestion drops the cached snapshot and answer state, used when a
// session ends so a retired room cannot serve a stale question.
func (m *Manager) ClearQuestion(room string) {
	m.mu.RLock()
	r := m.rooms[room]
	m.mu.RUnlock()

	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.question = nil
	r.answered = make(map[string]struct{})
	r.expected = 0
	r.closed = false
}

// SubmitAnswer records a student's answer for the current question. counted
// is false for duplicate submissions. ended is true exactly once per
// question: on the submission whose insertion makes the answered set reach
// the expected count. The insert-then-compare sequence runs under the room
// lock so two near-simultaneous submissions can never both observe the
// threshold.
func (m *Manager) SubmitAnswer(room, studentID string) (counted, ended bool) {
	r := m.getOrCreate(room)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.answered == nil {
		r.answered = make(map[string]struct{})
	}
	if _, dup := r.answered[studentID]; dup {
		return false, false
	}
	r.answered[studentID] = struct{}{}

	// A zero expected count means nobody was present when the question went
	// out; such a question only ends when the host closes it.
	if r.closed || r.expected == 0 {
		return true, false
	}
	if len(r.answered) >= r.expected {
		r.closed = true
		return true, true
	}
	return true, false
}

// Answered returns how many distinct participants answered the current
// question.
func (m *Manager) Answered(room string) int {
	m.mu.RLock()
	r := m.rooms[room]
	m.mu.RUnlock()

	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.answered)
}

// ReapEmpty removes rooms with no members, no cached question, and no
// binding pointing at them, and returns how many were reclaimed.
func (m *Manager) ReapEmpty() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	referenced := make(map[string]struct{}, len(m.bindings))
	for _, b := range m.bindings {
		referenced[b.room] = struct{}{}
	}

	removed := 0
	for name, r := range m.rooms {
		if _, ok := referenced[name]; ok {
			continue
		}
		r.mu.Lock()
		idle := len(r.members) == 0 && r.question == nil
		r.mu.Unlock()
		if idle {
			delete(m.rooms, name)
			removed++
		}
	}
	return removed
}

// Rooms returns the number of rooms currently materialized.
func (m *Manager) Rooms() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// getOrCreate materializes the room entry on first touch.
func (m *Manager) getOrCreate(room string) *state {
	m.mu.RLock()
	r := m.rooms[room]
	m.mu.RUnlock()
	if r != nil {
		return r
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Double-check after acquiring the write lock.
	if r := m.rooms[room]; r != nil {
		return r
	}
	r = &state{
		members:  make(map[string]struct{}),
		answered: make(map[string]struct{}),
	}
	m.rooms[room] = r
	return r
}
