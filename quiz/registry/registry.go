package registry

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"sync"
	"time"
)

// pinSpace is the number of possible join codes; codes are offset by
// pinOffset so they are always 6 digits.
const (
	pinSpace  = 900000
	pinOffset = 100000
)

// Session describes one live quiz session.
type Session struct {
	QuizID    string    `json:"quiz_id"`
	Pin       string    `json:"pin"`
	StartedAt time.Time `json:"started_at"`
}

// Registry maintains the quizID <-> PIN bijection for all live sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session // keyed by quizID
	pins     map[string]string   // pin -> quizID
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		pins:     make(map[string]string),
	}
}

// StartLive marks a quiz as live and returns its PIN. If the quiz is already
// live the existing PIN is returned unchanged; a second PIN is never
// allocated before EndQuiz.
func (r *Registry) StartLive(quizID string) (pin string, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[quizID]; ok {
		return s.Pin, false
	}

	pin = r.generatePin()
	r.sessions[quizID] = &Session{
		QuizID:    quizID,
		Pin:       pin,
		StartedAt: time.Now(),
	}
	r.pins[pin] = quizID
	return pin, true
}

// Resolve looks up the quiz a PIN belongs to.
func (r *Registry) Resolve(pin string) (quizID string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	quizID, ok = r.pins[pin]
	return quizID, ok
}

// Pin returns the PIN currently assigned to a live quiz.
func (r *Registry) Pin(quizID string) (pin string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[quizID]
	if !ok {
		return "", false
	}
	return s.Pin, true
}

// IsLive reports whether the quiz currently has a live session.
func (r *Registry) IsLive(quizID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[quizID]
	return ok
}

// EndQuiz retires the quiz's PIN and removes it from the live set. It
// returns whether the quiz was live; ending an already-ended quiz is a no-op.
func (r *Registry) EndQuiz(quizID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[quizID]
	if !ok {
		return false
	}
	delete(r.pins, s.Pin)
	delete(r.sessions, quizID)
	return true
}

// List returns a snapshot of all live sessions.
func (r *Registry) List() []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		result = append(result, *s)
	}
	return result
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// generatePin draws 6-digit codes until one is free. Caller must hold r.mu.
func (r *Registry) generatePin() string {
	for {
		n, _ := rand.Int(rand.Reader, big.NewInt(pinSpace))
		pin := strconv.FormatInt(n.Int64()+pinOffset, 10)
		if _, taken := r.pins[pin]; !taken {
			return pin
		}
	}
}
