package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gorillaws "github.com/gorilla/websocket"

	"github.com/classpulse/live-quiz-server/quiz/content"
	"github.com/classpulse/live-quiz-server/quiz/registry"
	"github.com/classpulse/live-quiz-server/quiz/room"
	"github.com/classpulse/live-quiz-server/quiz/service"
	"github.com/classpulse/live-quiz-server/transport/websocket"
)

const fixtureQuiz = `{
	"id": "capitals",
	"title": "World Capitals",
	"questions": [
		{
			"id": "q1",
			"type": "mcq",
			"prompt": "Capital of France?",
			"options": [
				{"id": "a", "text": "Lyon"},
				{"id": "b", "text": "Paris", "correct": true}
			]
		}
	]
}`

// Test helpers

func setupTestServer(t *testing.T) *Server {
	t.Helper()

	quizDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(quizDir, "capitals.json"), []byte(fixtureQuiz), 0644); err != nil {
		t.Fatalf("Failed to write fixture quiz: %v", err)
	}
	contentManager, err := content.NewManager(quizDir)
	if err != nil {
		t.Fatalf("Failed to create content manager: %v", err)
	}

	hub := websocket.NewHub()
	go hub.Run()

	live := service.NewLiveService(registry.New(), room.NewManager(), hub)
	return NewServer(live, contentManager, hub)
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

func startLive(t *testing.T, server *Server, quizID string) string {
	t.Helper()
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/quizzes/"+quizID+"/live", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201 starting %s, got %d", quizID, w.Code)
	}
	var resp map[string]string
	parseResponse(t, w, &resp)
	return resp["pin"]
}

// Health

func TestHealthCheck(t *testing.T) {
	server := setupTestServer(t)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	var resp map[string]string
	parseResponse(t, w, &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %s", resp["status"])
	}
}

// Session lifecycle

func TestStartLiveEndpoint(t *testing.T) {
	server := setupTestServer(t)

	pin := startLive(t, server, "capitals")
	if len(pin) != 6 {
		t.Errorf("Expected 6-digit pin, got %q", pin)
	}

	t.Run("repeated start returns the same pin", func(t *testing.T) {
		if again := startLive(t, server, "capitals"); again != pin {
			t.Errorf("Expected pin %s on repeat, got %s", pin, again)
		}
	})

	t.Run("empty quiz id rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("POST", "/api/quizzes//live", nil))
		if w.Code == http.StatusCreated {
			t.Error("Expected failure without a quiz id")
		}
	})
}

func TestListSessions(t *testing.T) {
	server := setupTestServer(t)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	parseResponse(t, w, &resp)
	if resp.Count != 0 {
		t.Errorf("Expected no sessions, got %d", resp.Count)
	}

	pin := startLive(t, server, "capitals")

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions", nil))
	parseResponse(t, w, &resp)
	if resp.Count != 1 {
		t.Fatalf("Expected 1 session, got %d", resp.Count)
	}
	if resp.Sessions[0].QuizID != "capitals" || resp.Sessions[0].Pin != pin {
		t.Errorf("Unexpected session: %+v", resp.Sessions[0])
	}
}

func TestGetSession(t *testing.T) {
	server := setupTestServer(t)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/capitals", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 before going live, got %d", w.Code)
	}

	startLive(t, server, "capitals")

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/capitals", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var session service.SessionInfo
	parseResponse(t, w, &session)
	if session.QuizID != "capitals" {
		t.Errorf("Expected quiz_id 'capitals', got %s", session.QuizID)
	}
	if session.Participants != 0 {
		t.Errorf("Expected 0 participants, got %d", session.Participants)
	}
}

func TestEndSession(t *testing.T) {
	server := setupTestServer(t)
	startLive(t, server, "capitals")

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("DELETE", "/api/sessions/capitals", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/capitals", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after ending, got %d", w.Code)
	}

	t.Run("ending twice is harmless", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("DELETE", "/api/sessions/capitals", nil))
		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200 on repeat delete, got %d", w.Code)
		}
	})
}

func TestGetCount(t *testing.T) {
	server := setupTestServer(t)
	startLive(t, server, "capitals")

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/capitals/count", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var count service.CountPayload
	parseResponse(t, w, &count)
	if count.Count != 0 {
		t.Errorf("Expected count 0, got %d", count.Count)
	}
}

// Question endpoints

func TestQuestionEndpoints(t *testing.T) {
	server := setupTestServer(t)
	startLive(t, server, "capitals")

	t.Run("no active question", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/sessions/capitals/question", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})

	t.Run("push then read back", func(t *testing.T) {
		body := map[string]interface{}{
			"question": map[string]interface{}{"id": "q1", "prompt": "Capital of France?"},
		}
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("POST", "/api/sessions/capitals/question", body))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		w = httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/sessions/capitals/question", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		var resp struct {
			Question struct {
				ID string `json:"id"`
			} `json:"question"`
		}
		parseResponse(t, w, &resp)
		if resp.Question.ID != "q1" {
			t.Errorf("Expected question q1, got %q", resp.Question.ID)
		}
	})

	t.Run("push to quiz that is not live", func(t *testing.T) {
		body := map[string]interface{}{"question": map[string]string{"id": "q9"}}
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("POST", "/api/sessions/ghost/question", body))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})

	t.Run("missing question body", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("POST", "/api/sessions/capitals/question", map[string]string{}))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

// Content endpoints

func TestListQuizzes(t *testing.T) {
	server := setupTestServer(t)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/quizzes", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Count   int                `json:"count"`
		Quizzes []content.QuizInfo `json:"quizzes"`
	}
	parseResponse(t, w, &resp)
	if resp.Count != 1 {
		t.Fatalf("Expected 1 quiz, got %d", resp.Count)
	}
	if resp.Quizzes[0].ID != "capitals" {
		t.Errorf("Expected quiz 'capitals', got %s", resp.Quizzes[0].ID)
	}
}

func TestGetQuiz(t *testing.T) {
	server := setupTestServer(t)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/quizzes/capitals", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var quiz content.Quiz
	parseResponse(t, w, &quiz)
	if quiz.Title != "World Capitals" {
		t.Errorf("Expected title 'World Capitals', got %s", quiz.Title)
	}

	t.Run("unknown quiz", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/quizzes/missing", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})
}

// WebSocket endpoint wired through the router

func TestLiveEndpointUpgrade(t *testing.T) {
	server := setupTestServer(t)
	ts := httptest.NewServer(server)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live"
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to /live: %v", err)
	}
	defer conn.Close()

	msg := map[string]interface{}{
		"event": "start_live",
		"data":  map[string]string{"quiz_id": "capitals"},
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("Failed to send start_live: %v", err)
	}

	var reply struct {
		Event string `json:"event"`
		Data  struct {
			Pin string `json:"pin"`
		} `json:"data"`
	}
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("Failed to read reply: %v", err)
	}
	if reply.Event != service.EventQuizPin {
		t.Errorf("Expected quiz_pin event, got %s", reply.Event)
	}
	if len(reply.Data.Pin) != 6 {
		t.Errorf("Expected 6-digit pin, got %q", reply.Data.Pin)
	}
}
