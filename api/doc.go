// Package api provides the HTTP REST surface for the live quiz server.
//
// The api package implements:
//   - Live session listing and admin operations
//   - Question push and read-back for a running session
//   - Read-only quiz content endpoints
//   - WebSocket upgrade handling
//   - Health check
//
// Endpoints:
//
// Live Sessions:
//   - GET    /api/sessions - List live sessions (newest first)
//   - GET    /api/sessions/{quizId} - Get one live session
//   - DELETE /api/sessions/{quizId} - End a session
//   - GET    /api/sessions/{quizId}/count - Participant count
//   - GET    /api/sessions/{quizId}/question - Current question snapshot
//   - POST   /api/sessions/{quizId}/question - Broadcast a new question
//
// Quiz Content:
//   - GET  /api/quizzes - List available quiz definitions
//   - GET  /api/quizzes/{id} - Get one quiz definition
//   - POST /api/quizzes/{id}/live - Start a live session, returns the PIN
//
// Other:
//   - GET /health - Health check
//   - GET /live - WebSocket upgrade for hosts and students
//
// Request/Response Format:
//
// All endpoints accept and return JSON. A question push sends:
//
//	{
//	  "question": { ... opaque question payload, broadcast verbatim ... }
//	}
//
// Usage:
//
//	server := api.NewServer(liveService, contentManager, hub)
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
package api
