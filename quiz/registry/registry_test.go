package registry

import (
	"sync"
	"testing"
)

func TestStartLive(t *testing.T) {
	r := New()

	pin, created := r.StartLive("quiz-7")
	if !created {
		t.Error("Expected first StartLive to create a session")
	}
	if len(pin) != 6 {
		t.Errorf("Expected 6-digit pin, got %q", pin)
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			t.Errorf("Expected numeric pin, got %q", pin)
		}
	}
	if pin[0] == '0' {
		t.Errorf("Pin should not have a leading zero, got %q", pin)
	}

	t.Run("idempotent before end", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			again, created := r.StartLive("quiz-7")
			if created {
				t.Error("Expected repeated StartLive not to create a new session")
			}
			if again != pin {
				t.Errorf("Expected same pin %q, got %q", pin, again)
			}
		}
	})

	t.Run("distinct quizzes get distinct pins", func(t *testing.T) {
		other, _ := r.StartLive("quiz-8")
		if other == pin {
			t.Errorf("Expected distinct pins for distinct quizzes, both got %q", pin)
		}
	})
}

func TestResolve(t *testing.T) {
	r := New()
	pin, _ := r.StartLive("quiz-1")

	quizID, ok := r.Resolve(pin)
	if !ok {
		t.Fatal("Expected pin to resolve")
	}
	if quizID != "quiz-1" {
		t.Errorf("Expected quiz-1, got %s", quizID)
	}

	if _, ok := r.Resolve("000000"); ok {
		t.Error("Expected unknown pin not to resolve")
	}
}

func TestPin(t *testing.T) {
	r := New()
	pin, _ := r.StartLive("quiz-1")

	got, ok := r.Pin("quiz-1")
	if !ok || got != pin {
		t.Errorf("Expected pin %q, got %q (ok=%v)", pin, got, ok)
	}

	if _, ok := r.Pin("quiz-2"); ok {
		t.Error("Expected no pin for a quiz that never went live")
	}
}

func TestEndQuiz(t *testing.T) {
	r := New()
	pin, _ := r.StartLive("quiz-1")

	if !r.EndQuiz("quiz-1") {
		t.Error("Expected EndQuiz to report the quiz was live")
	}
	if r.EndQuiz("quiz-1") {
		t.Error("Expected second EndQuiz to be a no-op")
	}
	if r.IsLive("quiz-1") {
		t.Error("Expected quiz not to be live after EndQuiz")
	}
	if _, ok := r.Resolve(pin); ok {
		t.Error("Expected pin to be retired after EndQuiz")
	}

	t.Run("restart allocates a fresh session", func(t *testing.T) {
		again, created := r.StartLive("quiz-1")
		if !created {
			t.Error("Expected StartLive after EndQuiz to create a new session")
		}
		if _, ok := r.Resolve(again); !ok {
			t.Error("Expected new pin to resolve")
		}
	})
}

func TestList(t *testing.T) {
	r := New()
	r.StartLive("a")
	r.StartLive("b")
	r.StartLive("c")
	r.EndQuiz("b")

	sessions := r.List()
	if len(sessions) != 2 {
		t.Fatalf("Expected 2 live sessions, got %d", len(sessions))
	}
	if r.Count() != 2 {
		t.Errorf("Expected Count 2, got %d", r.Count())
	}
	for _, s := range sessions {
		if s.QuizID == "b" {
			t.Error("Ended quiz should not be listed")
		}
		if s.StartedAt.IsZero() {
			t.Error("Expected StartedAt to be set")
		}
	}
}

func TestConcurrentStartLive(t *testing.T) {
	r := New()

	const workers = 50
	pins := make([]string, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pins[i], _ = r.StartLive("quiz-shared")
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if pins[i] != pins[0] {
			t.Fatalf("Expected a single pin for concurrent StartLive, got %q and %q", pins[0], pins[i])
		}
	}
	if r.Count() != 1 {
		t.Errorf("Expected exactly one live session, got %d", r.Count())
	}
}
