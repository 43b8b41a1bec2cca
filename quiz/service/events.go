package service

import "encoding/json"

// Outbound event names. These are the wire-level names clients listen for.
const (
	EventQuizPin        = "quiz_pin"
	EventQuizStarted    = "quiz_started"
	EventPinValid       = "pin_valid"
	EventPinInvalid     = "pin_invalid"
	EventNewQuestion    = "new_question"
	EventStudentCount   = "student_count"
	EventAnswerReceived = "answer_received"
	EventQuestionEnded  = "question_ended"
	EventQuizEnded      = "quiz_ended"
	EventQuizEndAck     = "quiz_end_ack"
)

// PinPayload accompanies quiz_pin and pin_valid.
type PinPayload struct {
	QuizID string `json:"quiz_id"`
	Pin    string `json:"pin,omitempty"`
}

// CountPayload accompanies student_count broadcasts.
type CountPayload struct {
	QuizID string `json:"quiz_id"`
	Count  int    `json:"count"`
}

// AnswerPayload accompanies answer_received broadcasts. The answer body is
// passed through unexamined.
type AnswerPayload struct {
	QuizID    string          `json:"quiz_id"`
	StudentID string          `json:"student_id"`
	Answer    json.RawMessage `json:"answer,omitempty"`
}

// QuizPayload accompanies quiz_started, question_ended, and quiz_ended.
type QuizPayload struct {
	QuizID string `json:"quiz_id"`
}
