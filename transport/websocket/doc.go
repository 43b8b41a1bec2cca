// Package websocket provides the WebSocket transport for live quiz sessions.
//
// The websocket package implements:
//   - Real-time bidirectional communication for hosts and students
//   - Room-aware fan-out of session events
//   - Connection lifecycle management with ping/pong keepalive
//   - Event routing into the quiz service layer
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections grouped by quiz room. Each connection is handled by
// a pair of goroutines pumping reads and writes. The Hub implements
// service.Publisher, so the service layer broadcasts without knowing about
// sockets; each Client implements service.Conn for direct replies.
//
// Message Protocol:
//
// Messages are JSON envelopes in both directions:
//   - Incoming: {"event": "join_by_pin", "data": {"pin": "123456", "student_id": "s1"}}
//   - Outgoing: {"event": "student_count", "data": {"quiz_id": "quiz-1", "count": 3}}
//
// Inbound events: start_live, quiz_started, join_by_pin, join_quiz,
// get_student_count, new_question, get_current_question, submit_answer,
// end_quiz. Outbound events are defined in the service package.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	svc := service.NewLiveService(reg, rooms, hub)
//	http.HandleFunc("/live", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, svc)
//	})
//
// Connection Lifecycle:
//
// 1. Client connects and is registered with the hub
// 2. Client starts a session or joins one by PIN, entering that quiz's room
// 3. Events flow: questions out, answers in, counts on every change
// 4. Disconnection removes the participant and updates the room's count
//
// Concurrency:
//
// All room membership changes are serialized through the hub's Run loop.
// Broadcasts never block: a client that cannot keep up is dropped.
package websocket
