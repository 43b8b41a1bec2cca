package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrPinInvalid  = errors.New("pin is not registered")
	ErrQuizNotLive = errors.New("quiz is not live")
)

// Conn is a direct line to one connected client.
type Conn interface {
	ID() string
	Send(event string, data interface{})
}

// Publisher fans events out to every connection subscribed to a room.
type Publisher interface {
	Subscribe(c Conn, room string)
	Publish(room string, event string, data interface{})
}

// LiveService defines all live-session operations.
type LiveService interface {
	// Session lifecycle
	StartLive(ctx context.Context, quizID string, conn Conn) (pin string, err error)
	QuizStarted(ctx context.Context, quizID string) error
	EndQuiz(ctx context.Context, quizID string, ack func()) error

	// Participants
	JoinByPin(ctx context.Context, pin, studentID string, conn Conn) (*JoinResult, error)
	JoinQuiz(ctx context.Context, quizID string, conn Conn)
	StudentCount(ctx context.Context, quizID string) int
	Disconnect(conn Conn)

	// Questions
	NewQuestion(ctx context.Context, quizID string, question json.RawMessage) error
	CurrentQuestion(ctx context.Context, quizID string) (json.RawMessage, bool)
	SubmitAnswer(ctx context.Context, quizID, studentID string, answer json.RawMessage) error

	// Introspection for the REST/MCP surface
	ListSessions(ctx context.Context) []*SessionInfo
	GetSession(ctx context.Context, quizID string) (*SessionInfo, error)
}

// JoinResult is what a successful JoinByPin hands back to the caller so a
// just-joined client is never left in an inconsistent state.
type JoinResult struct {
	QuizID   string          `json:"quiz_id"`
	Count    int             `json:"count"`
	Question json.RawMessage `json:"question,omitempty"`
}

// SessionInfo describes one live session for listings.
type SessionInfo struct {
	QuizID         string    `json:"quiz_id"`
	Pin            string    `json:"pin"`
	Participants   int       `json:"participants"`
	QuestionActive bool      `json:"question_active"`
	StartedAt      time.Time `json:"started_at"`
}

// RoomName derives the broadcast group for a quiz.
func RoomName(quizID string) string {
	return "quiz_" + quizID
}

// QuizIDFromRoom is the inverse of RoomName.
func QuizIDFromRoom(room string) string {
	return strings.TrimPrefix(room, "quiz_")
}
