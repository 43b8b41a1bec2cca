package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/classpulse/live-quiz-server/quiz/registry"
	"github.com/classpulse/live-quiz-server/quiz/room"
)

// liveServiceImpl implements LiveService on top of the registry, the room
// manager, and a transport-provided publisher.
type liveServiceImpl struct {
	registry *registry.Registry
	rooms    *room.Manager
	pub      Publisher
}

// NewLiveService creates a new live service instance.
func NewLiveService(reg *registry.Registry, rooms *room.Manager, pub Publisher) LiveService {
	return &liveServiceImpl{
		registry: reg,
		rooms:    rooms,
		pub:      pub,
	}
}

// StartLive marks the quiz live and returns its PIN, allocating one only on
// the first call. When a connection is supplied (the websocket path) it is
// subscribed to the session's room and receives the PIN directly; REST and
// MCP callers pass nil and just get the return value.
func (s *liveServiceImpl) StartLive(ctx context.Context, quizID string, conn Conn) (string, error) {
	if quizID == "" {
		return "", fmt.Errorf("quiz id is required")
	}

	pin, created := s.registry.StartLive(quizID)
	if created {
		log.Printf("Quiz %s went live with pin %s", quizID, pin)
	}

	if conn != nil {
		s.pub.Subscribe(conn, RoomName(quizID))
		conn.Send(EventQuizPin, PinPayload{QuizID: quizID, Pin: pin})
	}
	return pin, nil
}

// QuizStarted relays the host's start signal to the room.
func (s *liveServiceImpl) QuizStarted(ctx context.Context, quizID string) error {
	if !s.registry.IsLive(quizID) {
		return ErrQuizNotLive
	}
	s.pub.Publish(RoomName(quizID), EventQuizStarted, QuizPayload{QuizID: quizID})
	return nil
}

// EndQuiz broadcasts the terminal event, retires the PIN, and drops the
// room's cached question. A second call is a no-op apart from the ack, which
// always fires once the (possibly empty) work has been queued.
func (s *liveServiceImpl) EndQuiz(ctx context.Context, quizID string, ack func()) error {
	if s.registry.EndQuiz(quizID) {
		roomName := RoomName(quizID)
		s.pub.Publish(roomName, EventQuizEnded, QuizPayload{QuizID: quizID})
		s.rooms.ClearQuestion(roomName)
		log.Printf("Quiz %s ended", quizID)
	}
	if ack != nil {
		ack()
	}
	return nil
}

// JoinByPin resolves a PIN, subscribes the connection, registers the
// participant, and returns the cached question and current count so the
// joiner starts consistent. An unknown PIN is an explicit failure, not a
// crash; membership is never touched in that case.
func (s *liveServiceImpl) JoinByPin(ctx context.Context, pin, studentID string, conn Conn) (*JoinResult, error) {
	quizID, ok := s.registry.Resolve(pin)
	if !ok {
		return nil, ErrPinInvalid
	}

	roomName := RoomName(quizID)
	s.pub.Subscribe(conn, roomName)
	count := s.rooms.Join(roomName, studentID, conn.ID())

	result := &JoinResult{QuizID: quizID, Count: count}
	if q, ok := s.rooms.Question(roomName); ok {
		result.Question = q
		conn.Send(EventNewQuestion, q)
	}

	s.pub.Publish(roomName, EventStudentCount, CountPayload{QuizID: quizID, Count: count})
	conn.Send(EventPinValid, PinPayload{QuizID: quizID})
	return result, nil
}

// JoinQuiz subscribes a connection straight to a quiz room, bypassing the
// PIN. Used by the host and by reconnecting observers; it re-sends the
// cached question but does not register a participant.
func (s *liveServiceImpl) JoinQuiz(ctx context.Context, quizID string, conn Conn) {
	roomName := RoomName(quizID)
	s.pub.Subscribe(conn, roomName)
	if q, ok := s.rooms.Question(roomName); ok {
		conn.Send(EventNewQuestion, q)
	}
}

// StudentCount returns the room's current distinct participant count.
func (s *liveServiceImpl) StudentCount(ctx context.Context, quizID string) int {
	return s.rooms.Count(RoomName(quizID))
}

// Disconnect handles connection teardown. If the connection had registered a
// participant, the updated count is broadcast to the remaining subscribers;
// a connection that never joined is silently ignored.
func (s *liveServiceImpl) Disconnect(conn Conn) {
	roomName, count, ok := s.rooms.Leave(conn.ID())
	if !ok {
		return
	}
	s.pub.Publish(roomName, EventStudentCount, CountPayload{
		QuizID: QuizIDFromRoom(roomName),
		Count:  count,
	})
}

// NewQuestion caches the payload as the room's snapshot, resets answer state
// with the expected count snapshotted from the current membership, and fans
// the question out.
func (s *liveServiceImpl) NewQuestion(ctx context.Context, quizID string, question json.RawMessage) error {
	if !s.registry.IsLive(quizID) {
		return ErrQuizNotLive
	}

	roomName := RoomName(quizID)
	expected := s.rooms.SetQuestion(roomName, question)
	s.pub.Publish(roomName, EventNewQuestion, question)
	log.Printf("Quiz %s: new question broadcast, expecting %d answers", quizID, expected)
	return nil
}

// CurrentQuestion returns the cached snapshot, used by clients that missed
// the broadcast.
func (s *liveServiceImpl) CurrentQuestion(ctx context.Context, quizID string) (json.RawMessage, bool) {
	return s.rooms.Question(RoomName(quizID))
}

// SubmitAnswer records the answer and broadcasts its arrival. Duplicate
// submissions are re-broadcast for the live feed but never re-counted. When
// the insertion reaches the expected count the end-of-question signal fires,
// exactly once per question.
func (s *liveServiceImpl) SubmitAnswer(ctx context.Context, quizID, studentID string, answer json.RawMessage) error {
	roomName := RoomName(quizID)
	_, ended := s.rooms.SubmitAnswer(roomName, studentID)

	s.pub.Publish(roomName, EventAnswerReceived, AnswerPayload{
		QuizID:    quizID,
		StudentID: studentID,
		Answer:    answer,
	})
	if ended {
		s.pub.Publish(roomName, EventQuestionEnded, QuizPayload{QuizID: quizID})
		log.Printf("Quiz %s: all expected answers in, question ended", quizID)
	}
	return nil
}

// ListSessions returns every live session with its room stats.
func (s *liveServiceImpl) ListSessions(ctx context.Context) []*SessionInfo {
	sessions := s.registry.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result
}

// GetSession returns one live session or ErrQuizNotLive.
func (s *liveServiceImpl) GetSession(ctx context.Context, quizID string) (*SessionInfo, error) {
	for _, sess := range s.registry.List() {
		if sess.QuizID == quizID {
			return s.sessionInfo(sess), nil
		}
	}
	return nil, ErrQuizNotLive
}

func (s *liveServiceImpl) sessionInfo(sess registry.Session) *SessionInfo {
	roomName := RoomName(sess.QuizID)
	_, active := s.rooms.Question(roomName)
	return &SessionInfo{
		QuizID:         sess.QuizID,
		Pin:            sess.Pin,
		Participants:   s.rooms.Count(roomName),
		QuestionActive: active,
		StartedAt:      sess.StartedAt,
	}
}
