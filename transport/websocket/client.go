package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/classpulse/live-quiz-server/quiz/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Question payloads can carry
	// image URLs and long option lists, so this is generous.
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// Client represents one WebSocket connection. It implements service.Conn so
// the service layer can address it directly.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	svc  service.LiveService
	send chan []byte

	// room is owned by the hub's Run loop
	room string

	mu     sync.Mutex
	closed bool
}

func newClient(h *Hub, conn *websocket.Conn, svc service.LiveService) *Client {
	return &Client{
		id:   uuid.New().String(),
		hub:  h,
		conn: conn,
		svc:  svc,
		send: make(chan []byte, 256),
	}
}

// ID returns the connection's unique identifier.
func (c *Client) ID() string {
	return c.id
}

// Send queues an event for delivery to this client. Events are dropped when
// the client cannot keep up or has already disconnected.
func (c *Client) Send(event string, data interface{}) {
	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}
	if !c.trySend(payload) {
		log.Printf("Client %s send buffer full, dropping %s event", c.id, event)
	}
}

// trySend queues raw bytes without blocking. It reports false when the
// buffer is full; a closed client swallows the message and reports true so
// the hub does not try to unregister it again.
func (c *Client) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// closeSend shuts the send channel exactly once. Called from the hub's Run
// loop during unregister.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// clientMessage is the inbound payload shape. Each event reads the fields
// it needs and ignores the rest.
type clientMessage struct {
	QuizID    string          `json:"quiz_id"`
	Pin       string          `json:"pin"`
	StudentID string          `json:"student_id"`
	Question  json.RawMessage `json:"question"`
	Answer    json.RawMessage `json:"answer"`
}

// readPump pumps messages from the WebSocket connection to the service.
func (c *Client) readPump() {
	defer func() {
		c.svc.Disconnect(c)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var env struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Printf("Client %s sent malformed message: %v", c.id, err)
			continue
		}

		var msg clientMessage
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &msg); err != nil {
				log.Printf("Client %s sent malformed %s payload: %v", c.id, env.Event, err)
				continue
			}
		}

		c.handleEvent(env.Event, &msg)
	}
}

// handleEvent dispatches one inbound event to the service layer. Unknown
// events are logged and skipped so a misbehaving client cannot take the
// connection down.
func (c *Client) handleEvent(event string, msg *clientMessage) {
	ctx := context.Background()

	switch event {
	case "start_live":
		if _, err := c.svc.StartLive(ctx, msg.QuizID, c); err != nil {
			log.Printf("Client %s start_live failed: %v", c.id, err)
		}

	case "quiz_started":
		if err := c.svc.QuizStarted(ctx, msg.QuizID); err != nil {
			log.Printf("Client %s quiz_started failed: %v", c.id, err)
		}

	case "join_by_pin":
		if _, err := c.svc.JoinByPin(ctx, msg.Pin, msg.StudentID, c); err != nil {
			c.Send(service.EventPinInvalid, service.PinPayload{})
		}

	case "join_quiz":
		c.svc.JoinQuiz(ctx, msg.QuizID, c)

	case "get_student_count":
		count := c.svc.StudentCount(ctx, msg.QuizID)
		c.Send(service.EventStudentCount, service.CountPayload{QuizID: msg.QuizID, Count: count})

	case "new_question":
		if err := c.svc.NewQuestion(ctx, msg.QuizID, msg.Question); err != nil {
			log.Printf("Client %s new_question failed: %v", c.id, err)
		}

	case "get_current_question":
		if q, ok := c.svc.CurrentQuestion(ctx, msg.QuizID); ok {
			c.Send(service.EventNewQuestion, q)
		}

	case "submit_answer":
		if err := c.svc.SubmitAnswer(ctx, msg.QuizID, msg.StudentID, msg.Answer); err != nil {
			log.Printf("Client %s submit_answer failed: %v", c.id, err)
		}

	case "end_quiz":
		c.svc.EndQuiz(ctx, msg.QuizID, func() {
			c.Send(service.EventQuizEndAck, service.QuizPayload{QuizID: msg.QuizID})
		})

	default:
		log.Printf("Client %s sent unknown event %q", c.id, event)
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
