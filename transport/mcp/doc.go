// Package mcp provides the Model Context Protocol surface for the live quiz server.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for live session and content operations
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - list_sessions: List all live quiz sessions
//   - get_session: Get one session's pin, participants, and question status
//   - start_live: Take a quiz live and get its join PIN
//   - end_quiz: End a live session
//   - student_count: Current participant count for a session
//   - current_question: The question currently in flight, if any
//   - new_question: Broadcast a question to a session
//   - list_quizzes: List available quiz definitions
//   - get_quiz: Get a full quiz definition
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: HTTP endpoint for remote MCP integration
//
// Architecture:
//
// The MCP client is a thin proxy over the REST API. Every tool call turns
// into an HTTP request against the running server, so both surfaces always
// observe the same session state.
//
// Usage:
//
//	// Stdio mode
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode
//	httpServer := server.NewStreamableHTTPServer(client.GetMCPServer())
//	http.Handle("/mcp", httpServer)
//
// AI Integration:
//
// The MCP interface enables AI agents to host quiz sessions end to end:
// take a quiz live, hand the PIN to students, push questions, watch the
// participant count, and end the session.
package mcp
