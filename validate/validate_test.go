package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempQuiz(t *testing.T, body string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "test_quiz_*.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })

	if _, err := tmpfile.Write([]byte(body)); err != nil {
		t.Fatalf("Failed to write quiz: %v", err)
	}
	tmpfile.Close()
	return tmpfile.Name()
}

func hasError(result ValidationResult, fragment string) bool {
	for _, err := range result.Errors {
		if strings.Contains(err, fragment) {
			return true
		}
	}
	return false
}

func TestValidateQuizFile_ValidQuiz(t *testing.T) {
	validQuiz := `{
		"id": "science-basics",
		"title": "Science Basics",
		"description": "Intro science questions",
		"questions": [
			{
				"id": "q1",
				"type": "mcq",
				"prompt": "What planet is known as the Red Planet?",
				"timer_sec": 20,
				"options": [
					{"id": "a", "text": "Venus"},
					{"id": "b", "text": "Mars", "correct": true},
					{"id": "c", "text": "Jupiter"}
				]
			},
			{
				"id": "q2",
				"type": "true_false",
				"prompt": "Water boils at 100C at sea level.",
				"options": [
					{"id": "t", "text": "True", "correct": true},
					{"id": "f", "text": "False"}
				]
			},
			{
				"id": "q3",
				"type": "type_answer",
				"prompt": "What gas do plants absorb?"
			}
		]
	}`

	path := writeTempQuiz(t, validQuiz)
	result := validateQuizFile(path)
	if !result.Valid {
		t.Errorf("Expected valid quiz, but got errors: %v", result.Errors)
	}

	if result.File != filepath.Base(path) {
		t.Errorf("Expected file name %s, got %s", filepath.Base(path), result.File)
	}
}

func TestValidateQuizFile_InvalidJSON(t *testing.T) {
	path := writeTempQuiz(t, `{"id": "test", invalid json}`)

	result := validateQuizFile(path)
	if result.Valid {
		t.Error("Expected invalid quiz due to bad JSON")
	}
	if !hasError(result, "Invalid JSON") {
		t.Error("Expected 'Invalid JSON' error")
	}
}

func TestValidateQuizFile_MissingFile(t *testing.T) {
	result := validateQuizFile("/non/existent/file.json")
	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}
	if !hasError(result, "Failed to read file") {
		t.Error("Expected read failure error")
	}
}

func TestValidateQuizFile_MissingFields(t *testing.T) {
	path := writeTempQuiz(t, `{"description": "no id, no title, no questions"}`)

	result := validateQuizFile(path)
	if result.Valid {
		t.Error("Expected invalid quiz")
	}
	for _, want := range []string{"id is required", "title is required", "at least 1 question"} {
		if !hasError(result, want) {
			t.Errorf("Expected error containing %q, got %v", want, result.Errors)
		}
	}
}

func TestValidateQuizFile_QuestionErrors(t *testing.T) {
	cases := []struct {
		name     string
		question string
		fragment string
	}{
		{
			"unknown type",
			`{"id": "q1", "type": "essay", "prompt": "Discuss.", "options": []}`,
			"unknown type",
		},
		{
			"too few options",
			`{"id": "q1", "type": "mcq", "prompt": "Pick.", "options": [{"id": "a", "text": "Only", "correct": true}]}`,
			"expected 2-6 options",
		},
		{
			"no correct option",
			`{"id": "q1", "type": "mcq", "prompt": "Pick.", "options": [{"id": "a", "text": "A"}, {"id": "b", "text": "B"}]}`,
			"no option marked correct",
		},
		{
			"two correct options on mcq",
			`{"id": "q1", "type": "mcq", "prompt": "Pick.", "options": [{"id": "a", "text": "A", "correct": true}, {"id": "b", "text": "B", "correct": true}]}`,
			"exactly 1 correct option",
		},
		{
			"duplicate option ids",
			`{"id": "q1", "type": "mcq", "prompt": "Pick.", "options": [{"id": "a", "text": "A", "correct": true}, {"id": "a", "text": "B"}]}`,
			"duplicate option id",
		},
		{
			"negative timer",
			`{"id": "q1", "type": "true_false", "timer_sec": -3, "prompt": "Really?", "options": [{"id": "t", "text": "True", "correct": true}, {"id": "f", "text": "False"}]}`,
			"timer_sec must not be negative",
		},
		{
			"type_answer with options",
			`{"id": "q1", "type": "type_answer", "prompt": "Name it.", "options": [{"id": "a", "text": "A"}, {"id": "b", "text": "B"}]}`,
			"take no options",
		},
		{
			"missing prompt",
			`{"id": "q1", "type": "true_false", "options": [{"id": "t", "text": "True", "correct": true}, {"id": "f", "text": "False"}]}`,
			"prompt is required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempQuiz(t, `{"id": "quiz", "title": "Quiz", "questions": [`+tc.question+`]}`)
			result := validateQuizFile(path)
			if result.Valid {
				t.Fatal("Expected invalid quiz")
			}
			if !hasError(result, tc.fragment) {
				t.Errorf("Expected error containing %q, got %v", tc.fragment, result.Errors)
			}
		})
	}
}

func TestValidateQuizFile_DuplicateQuestionIDs(t *testing.T) {
	quiz := `{
		"id": "dup",
		"title": "Dup",
		"questions": [
			{"id": "q1", "type": "true_false", "prompt": "First?", "options": [{"id": "t", "text": "True", "correct": true}, {"id": "f", "text": "False"}]},
			{"id": "q1", "type": "true_false", "prompt": "Second?", "options": [{"id": "t", "text": "True", "correct": true}, {"id": "f", "text": "False"}]}
		]
	}`

	result := validateQuizFile(writeTempQuiz(t, quiz))
	if result.Valid {
		t.Error("Expected invalid quiz")
	}
	if !hasError(result, "duplicate question id") {
		t.Errorf("Expected duplicate question id error, got %v", result.Errors)
	}
}

func TestValidateQuizFile_MultiselectAllowsSeveralCorrect(t *testing.T) {
	quiz := `{
		"id": "multi",
		"title": "Multi",
		"questions": [
			{"id": "q1", "type": "multiselect", "prompt": "Pick primes.", "options": [
				{"id": "a", "text": "2", "correct": true},
				{"id": "b", "text": "3", "correct": true},
				{"id": "c", "text": "4"}
			]}
		]
	}`

	result := validateQuizFile(writeTempQuiz(t, quiz))
	if !result.Valid {
		t.Errorf("Expected valid quiz, got errors: %v", result.Errors)
	}
}
