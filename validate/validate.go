// Command validate provides a small CLI that validates quiz content JSON
// files in the ../quizzes directory. It checks:
//   - JSON structure and required fields
//   - Allowed question types (mcq, true_false, multiselect, type_answer)
//   - Option counts per question type and unique question/option IDs
//   - Timer values (non-negative)
//   - Answerability: every choice question marks at least one correct option,
//     and single-answer types mark exactly one
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Quiz mirrors the JSON schema for a quiz content file.
type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

// Question is one entry in a quiz.
type Question struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Prompt   string   `json:"prompt"`
	TimerSec int      `json:"timer_sec"`
	ImageURL string   `json:"image_url"`
	Points   int      `json:"points"`
	Options  []Option `json:"options"`
}

// Option is one answer choice.
type Option struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

var validTypes = map[string]bool{
	"mcq":         true,
	"true_false":  true,
	"multiselect": true,
	"type_answer": true,
}

// singleAnswerTypes are the types where exactly one option must be correct.
var singleAnswerTypes = map[string]bool{
	"mcq":        true,
	"true_false": true,
}

// validateQuizFile loads and validates a single quiz JSON file. It performs
// structural checks, per-question type validation, and answerability checks.
func validateQuizFile(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var quiz Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if quiz.ID == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Quiz id is required")
	}
	if quiz.Title == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Quiz title is required")
	}
	if len(quiz.Questions) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Quiz must have at least 1 question")
	}

	questionIDs := map[string]bool{}
	totalOptions := 0

	for i, q := range quiz.Questions {
		label := fmt.Sprintf("question %d", i+1)
		if q.ID != "" {
			label = fmt.Sprintf("question %q", q.ID)
		}

		if q.ID == "" {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("%s: id is required", label))
		} else if questionIDs[q.ID] {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("%s: duplicate question id", label))
		}
		questionIDs[q.ID] = true

		if q.Prompt == "" {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("%s: prompt is required", label))
		}
		if !validTypes[q.Type] {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("%s: unknown type %q", label, q.Type))
			continue
		}
		if q.TimerSec < 0 {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("%s: timer_sec must not be negative, got %d", label, q.TimerSec))
		}

		totalOptions += len(q.Options)

		if q.Type == "type_answer" {
			if len(q.Options) != 0 {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("%s: type_answer questions take no options", label))
			}
			continue
		}

		if len(q.Options) < 2 || len(q.Options) > 6 {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("%s: expected 2-6 options, got %d", label, len(q.Options)))
		}

		optionIDs := map[string]bool{}
		correct := 0
		for _, opt := range q.Options {
			if opt.ID == "" {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("%s: option id is required", label))
			} else if optionIDs[opt.ID] {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("%s: duplicate option id %q", label, opt.ID))
			}
			optionIDs[opt.ID] = true
			if opt.Correct {
				correct++
			}
		}

		if correct == 0 {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("%s: no option marked correct", label))
		} else if singleAnswerTypes[q.Type] && correct != 1 {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s questions need exactly 1 correct option, got %d", label, q.Type, correct))
		}
	}

	// Add informational data
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ ID: %s", quiz.ID))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Title: %s", quiz.Title))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Questions: %d", len(quiz.Questions)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Options: %d", totalOptions))
	}

	return result
}

// main scans ../quizzes for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	quizDir := "../quizzes"
	files, err := filepath.Glob(filepath.Join(quizDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding quiz files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	seenIDs := map[string]string{}

	for _, file := range files {
		result := validateQuizFile(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}

		// Quiz ids must be unique across the whole directory
		var quiz Quiz
		if data, err := os.ReadFile(file); err == nil && json.Unmarshal(data, &quiz) == nil && quiz.ID != "" {
			if other, dup := seenIDs[quiz.ID]; dup {
				fmt.Printf("  ❌ Quiz id %q already used by %s\n", quiz.ID, other)
				allValid = false
			}
			seenIDs[quiz.ID] = result.File
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All quizzes are valid!")
	} else {
		fmt.Println("❌ Some quizzes have errors")
		os.Exit(1)
	}
}
