// Package content loads quiz definitions for the live quiz server.
//
// The content package handles:
//   - Loading quiz definitions from JSON files
//   - Structural validation on load
//   - Caching and discovery/listing
//
// Quiz Format:
//
// Quizzes are stored as JSON files in the quizzes directory, one file per
// quiz. Each definition carries an ordered question list; a question has a
// prompt, a type (mcq, true_false, multiselect, type_answer), an advisory
// timer, and its options with optional media URLs.
//
// The live subsystem treats question payloads as opaque; this package exists
// so hosts can fetch the ordered question list to drive a session. Authoring
// and persistence of quiz content live elsewhere.
//
// Usage:
//
//	manager, err := content.NewManager("quizzes")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	quiz, err := manager.LoadQuiz("general-knowledge")
//	infos, err := manager.ListQuizzes()
package content
