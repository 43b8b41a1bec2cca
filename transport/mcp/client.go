package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/classpulse/live-quiz-server/quiz/content"
	"github.com/classpulse/live-quiz-server/quiz/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Live Quiz Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Live Quiz Server - MCP Interface

This is a thin client that proxies all requests to the REST API server.

A quiz goes live with a 6-digit PIN that students use to join. The host
pushes questions to the room; students answer over WebSocket; the question
ends when every participant present at broadcast time has answered.

AVAILABLE TOOLS:
- list_sessions: List all live quiz sessions
- get_session: Get one session (pin, participants, question status)
- start_live: Take a quiz live and get its PIN
- end_quiz: End a live session
- student_count: Current participant count for a session
- current_question: The question currently in flight, if any
- new_question: Broadcast a question to a session
- list_quizzes: List available quiz definitions
- get_quiz: Get a full quiz definition with its questions`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Live sessions
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all live quiz sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of one live session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"quiz_id": map[string]interface{}{
					"type":        "string",
					"description": "Quiz ID of the session",
				},
			},
			Required: []string{"quiz_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_live",
		Description: "Take a quiz live. Returns the join PIN; calling it again for the same quiz returns the same PIN.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"quiz_id": map[string]interface{}{
					"type":        "string",
					"description": "Quiz ID to take live",
				},
			},
			Required: []string{"quiz_id"},
		},
	}, c.handleStartLive)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "end_quiz",
		Description: "End a live session. Notifies every participant and retires the PIN.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"quiz_id": map[string]interface{}{
					"type":        "string",
					"description": "Quiz ID of the session to end",
				},
			},
			Required: []string{"quiz_id"},
		},
	}, c.handleEndQuiz)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "student_count",
		Description: "Get the current participant count of a live session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"quiz_id": map[string]interface{}{
					"type":        "string",
					"description": "Quiz ID of the session",
				},
			},
			Required: []string{"quiz_id"},
		},
	}, c.handleStudentCount)

	// Questions
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "current_question",
		Description: "Get the question currently in flight for a session, if any",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"quiz_id": map[string]interface{}{
					"type":        "string",
					"description": "Quiz ID of the session",
				},
			},
			Required: []string{"quiz_id"},
		},
	}, c.handleCurrentQuestion)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "new_question",
		Description: "Broadcast a question to every participant of a live session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"quiz_id": map[string]interface{}{
					"type":        "string",
					"description": "Quiz ID of the session",
				},
				"question": map[string]interface{}{
					"type":        "object",
					"description": "Question payload, broadcast verbatim to participants",
				},
			},
			Required: []string{"quiz_id", "question"},
		},
	}, c.handleNewQuestion)

	// Quiz content
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_quizzes",
		Description: "List available quiz definitions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListQuizzes)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_quiz",
		Description: "Get a full quiz definition including its questions",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"quiz_id": map[string]interface{}{
					"type":        "string",
					"description": "Quiz ID to fetch",
				},
			},
			Required: []string{"quiz_id"},
		},
	}, c.handleGetQuiz)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Live Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += formatSessionLine(&s)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	quizID, _ := args["quiz_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", quizID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleStartLive(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	quizID, _ := args["quiz_id"].(string)

	var response struct {
		QuizID string `json:"quiz_id"`
		Pin    string `json:"pin"`
	}
	err := c.apiCall("POST", fmt.Sprintf("/api/quizzes/%s/live", quizID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Quiz %s is live\nJoin PIN: %s\n", response.QuizID, response.Pin)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleEndQuiz(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	quizID, _ := args["quiz_id"].(string)

	var response struct {
		Message string `json:"message"`
	}
	err := c.apiCall("DELETE", fmt.Sprintf("/api/sessions/%s", quizID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message), nil
}

func (c *Client) handleStudentCount(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	quizID, _ := args["quiz_id"].(string)

	var count service.CountPayload
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/count", quizID), nil, &count)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Quiz %s has %d participant(s)", count.QuizID, count.Count)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleCurrentQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	quizID, _ := args["quiz_id"].(string)

	var response struct {
		QuizID   string          `json:"quiz_id"`
		Question json.RawMessage `json:"question"`
	}
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/question", quizID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Current question for quiz %s:\n%s", response.QuizID, string(response.Question))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleNewQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	quizID, _ := args["quiz_id"].(string)
	question := args["question"]

	body := map[string]interface{}{"question": question}

	var response struct {
		Message string `json:"message"`
	}
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/question", quizID), body, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message), nil
}

func (c *Client) handleListQuizzes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count   int                `json:"count"`
		Quizzes []content.QuizInfo `json:"quizzes"`
	}
	err := c.apiCall("GET", "/api/quizzes", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Available Quizzes (%d):\n\n", response.Count)
	for _, q := range response.Quizzes {
		result += fmt.Sprintf("• %s: %s (%d questions)\n", q.ID, q.Title, q.QuestionCount)
		if q.Description != "" {
			result += fmt.Sprintf("  %s\n", q.Description)
		}
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetQuiz(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	quizID, _ := args["quiz_id"].(string)

	var quiz content.Quiz
	err := c.apiCall("GET", fmt.Sprintf("/api/quizzes/%s", quizID), nil, &quiz)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatQuiz(&quiz)), nil
}

// Formatting helpers

func formatSessionLine(s *service.SessionInfo) string {
	question := "no question in flight"
	if s.QuestionActive {
		question = "question in flight"
	}
	return fmt.Sprintf("- %s (PIN: %s, %d participant(s), %s, started %s)\n",
		s.QuizID, s.Pin, s.Participants, question, s.StartedAt.Format("15:04:05"))
}

func formatSessionInfo(s *service.SessionInfo) string {
	question := "none"
	if s.QuestionActive {
		question = "in flight"
	}
	return fmt.Sprintf("Quiz: %s\nPIN: %s\nParticipants: %d\nQuestion: %s\nStarted: %s\n",
		s.QuizID, s.Pin, s.Participants, question,
		s.StartedAt.Format("2006-01-02 15:04:05"))
}

func formatQuiz(q *content.Quiz) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Quiz: %s (%s)\n", q.Title, q.ID))
	if q.Description != "" {
		b.WriteString(q.Description + "\n")
	}
	b.WriteString(fmt.Sprintf("Questions: %d\n\n", len(q.Questions)))

	for i, question := range q.Questions {
		b.WriteString(fmt.Sprintf("%d. [%s] %s", i+1, question.Type, question.Prompt))
		if question.TimerSec > 0 {
			b.WriteString(fmt.Sprintf(" (%ds)", question.TimerSec))
		}
		b.WriteString("\n")
		for _, opt := range question.Options {
			marker := " "
			if opt.Correct {
				marker = "*"
			}
			b.WriteString(fmt.Sprintf("   %s %s) %s\n", marker, opt.ID, opt.Text))
		}
	}
	return b.String()
}
