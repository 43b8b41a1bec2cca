// Command analyze prints quick, human-readable heuristics about quiz content
// files in the project's quizzes directory. It summarizes question counts,
// type distribution, timer totals, and highlights suspicious authoring
// patterns such as missing timers or the correct answer always sitting in the
// same option slot.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// AnalysisQuiz is a light struct for reading quiz files used by analysis.
type AnalysisQuiz struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Questions   []AnalysisQuestion `json:"questions"`
}

// AnalysisQuestion is one question entry used by analysis.
type AnalysisQuestion struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Prompt   string           `json:"prompt"`
	TimerSec int              `json:"timer_sec"`
	Points   int              `json:"points"`
	Options  []AnalysisOption `json:"options"`
}

// AnalysisOption is one answer choice used by analysis.
type AnalysisOption struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

func main() {
	files, err := filepath.Glob(filepath.Join("quizzes", "*.json"))
	if err != nil || len(files) == 0 {
		fmt.Println("No quiz files found under quizzes/")
		return
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		analyzeQuiz(file)
	}
}

func analyzeQuiz(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		return
	}

	var quiz AnalysisQuiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		fmt.Printf("Error parsing JSON: %v\n", err)
		return
	}

	fmt.Printf("Title: %s (%s)\n", quiz.Title, quiz.ID)
	fmt.Printf("Questions: %d\n", len(quiz.Questions))

	typeCounts := map[string]int{}
	totalTimer := 0
	untimed := 0
	totalPoints := 0
	// correctSlots tracks which option position holds the correct answer,
	// to spot quizzes where it is always the same slot.
	correctSlots := map[int]int{}
	choiceQuestions := 0

	for _, q := range quiz.Questions {
		typeCounts[q.Type]++
		totalTimer += q.TimerSec
		if q.TimerSec == 0 {
			untimed++
		}
		totalPoints += q.Points

		if len(q.Options) > 0 {
			choiceQuestions++
			for i, opt := range q.Options {
				if opt.Correct {
					correctSlots[i]++
					break
				}
			}
		}
	}

	fmt.Printf("Type breakdown:")
	for typ, count := range typeCounts {
		fmt.Printf(" %s=%d", typ, count)
	}
	fmt.Println()

	if totalTimer > 0 {
		fmt.Printf("Timed run length: %dm%02ds\n", totalTimer/60, totalTimer%60)
	}
	if totalPoints > 0 {
		fmt.Printf("Total points: %d\n", totalPoints)
	}

	if untimed > 0 {
		fmt.Printf("⚠️  %d question(s) have no timer; the session host must advance them manually\n", untimed)
	}

	// A correct answer that always lands in the same slot is easy to game.
	if choiceQuestions >= 3 {
		for slot, count := range correctSlots {
			if count == choiceQuestions {
				fmt.Printf("⚠️  Correct answer is always option %d; consider shuffling\n", slot+1)
			}
		}
	}

	for _, q := range quiz.Questions {
		if len(q.Prompt) > 120 {
			fmt.Printf("⚠️  Question %s has a long prompt (%d chars); it may wrap badly on student screens\n", q.ID, len(q.Prompt))
		}
	}
}
