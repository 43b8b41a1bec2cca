package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/classpulse/live-quiz-server/quiz/content"
	"github.com/classpulse/live-quiz-server/quiz/service"
	"github.com/classpulse/live-quiz-server/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	live    service.LiveService
	content *content.Manager
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(live service.LiveService, contentManager *content.Manager, hub *websocket.Hub) *Server {
	s := &Server{
		live:    live,
		content: contentManager,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Live sessions
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{quizId}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{quizId}", s.handleEndSession).Methods("DELETE")
	api.HandleFunc("/sessions/{quizId}/count", s.handleGetCount).Methods("GET")
	api.HandleFunc("/sessions/{quizId}/question", s.handleGetQuestion).Methods("GET")
	api.HandleFunc("/sessions/{quizId}/question", s.handlePostQuestion).Methods("POST")

	// Quiz content
	api.HandleFunc("/quizzes", s.handleListQuizzes).Methods("GET")
	api.HandleFunc("/quizzes/{id}", s.handleGetQuiz).Methods("GET")
	api.HandleFunc("/quizzes/{id}/live", s.handleStartLive).Methods("POST")

	// Health check
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/live", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Session Handlers

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.live.ListSessions(r.Context())

	// Newest sessions first
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"sessions": sessions,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	quizID := mux.Vars(r)["quizId"]

	session, err := s.live.GetSession(r.Context(), quizID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleStartLive(w http.ResponseWriter, r *http.Request) {
	quizID := mux.Vars(r)["id"]

	// A quiz id with no stored definition may still go live: hosts can
	// drive ad-hoc sessions over the socket with inline questions.
	pin, err := s.live.StartLive(r.Context(), quizID, nil)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"quiz_id": quizID,
		"pin":     pin,
	})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	quizID := mux.Vars(r)["quizId"]

	if err := s.live.EndQuiz(r.Context(), quizID, nil); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Quiz %s ended", quizID),
	})
}

func (s *Server) handleGetCount(w http.ResponseWriter, r *http.Request) {
	quizID := mux.Vars(r)["quizId"]

	respondJSON(w, http.StatusOK, service.CountPayload{
		QuizID: quizID,
		Count:  s.live.StudentCount(r.Context(), quizID),
	})
}

// Question Handlers

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	quizID := mux.Vars(r)["quizId"]

	question, ok := s.live.CurrentQuestion(r.Context(), quizID)
	if !ok {
		respondError(w, http.StatusNotFound, "No active question")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"quiz_id":  quizID,
		"question": question,
	})
}

func (s *Server) handlePostQuestion(w http.ResponseWriter, r *http.Request) {
	quizID := mux.Vars(r)["quizId"]

	var req struct {
		Question json.RawMessage `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Question) == 0 {
		respondError(w, http.StatusBadRequest, "Question is required")
		return
	}

	if err := s.live.NewQuestion(r.Context(), quizID, req.Question); err != nil {
		if errors.Is(err, service.ErrQuizNotLive) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Question broadcast to quiz %s", quizID),
	})
}

// Content Handlers

func (s *Server) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := s.content.ListQuizzes()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(quizzes),
		"quizzes": quizzes,
	})
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	quizID := mux.Vars(r)["id"]

	quiz, err := s.content.LoadQuiz(quizID)
	if err != nil {
		if errors.Is(err, content.ErrQuizNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, quiz)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r, s.live)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
