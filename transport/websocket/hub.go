package websocket

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/classpulse/live-quiz-server/quiz/service"
)

// Envelope is the wire format for every message in both directions.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Hub maintains the set of active clients grouped by room and fans events
// out to them. It implements service.Publisher. All room membership changes
// go through the Run loop, so the maps need no locking.
//
// A connection belongs to at most one room at a time: subscribing to a new
// room leaves the previous one. A host driving several quizzes at once needs
// one connection per quiz.
type Hub struct {
	// All connected clients, whether or not they joined a room yet
	clients map[*Client]bool

	// Registered clients by room name
	rooms map[string]map[*Client]bool

	// Outbound events from the service layer
	broadcast chan *roomMessage

	// Register requests from new connections
	register chan *Client

	// Subscribe requests moving a client into a room
	subscribe chan *subscription

	// Unregister requests from closing connections
	unregister chan *Client
}

type roomMessage struct {
	room string
	data []byte
}

type subscription struct {
	client *Client
	room   string
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan *roomMessage),
		register:   make(chan *Client),
		subscribe:  make(chan *subscription),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case sub := <-h.subscribe:
			h.subscribeClient(sub.client, sub.room)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// Subscribe moves a connection into a room. Connections from other
// transports are ignored; only websocket clients can receive fan-out.
func (h *Hub) Subscribe(c service.Conn, room string) {
	client, ok := c.(*Client)
	if !ok {
		return
	}
	h.subscribe <- &subscription{client: client, room: room}
}

// Publish sends an event to every client subscribed to a room. Unknown
// rooms are a no-op.
func (h *Hub) Publish(room string, event string, data interface{}) {
	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}
	h.broadcast <- &roomMessage{room: room, data: payload}
}

// registerClient tracks a new connection before it has joined any room.
func (h *Hub) registerClient(client *Client) {
	h.clients[client] = true
	log.Printf("Client %s connected (total clients: %d)", client.ID(), len(h.clients))
}

// subscribeClient adds a client to a room, removing it from its previous
// room first so a connection only ever receives one room's fan-out.
func (h *Hub) subscribeClient(client *Client, room string) {
	if !h.clients[client] {
		return
	}
	if client.room == room {
		return
	}
	h.removeFromRoom(client)

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
	client.room = room

	log.Printf("Client %s subscribed to room %s (room size: %d)",
		client.ID(), room, len(h.rooms[room]))
}

// unregisterClient removes a client from its room and closes its send
// channel.
func (h *Hub) unregisterClient(client *Client) {
	if !h.clients[client] {
		return
	}
	h.removeFromRoom(client)
	delete(h.clients, client)
	client.closeSend()

	log.Printf("Client %s disconnected (total clients: %d)", client.ID(), len(h.clients))
}

func (h *Hub) removeFromRoom(client *Client) {
	if client.room == "" {
		return
	}
	if clients, ok := h.rooms[client.room]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, client.room)
		}
	}
	client.room = ""
}

// broadcastMessage fans a pre-marshaled message out to one room.
func (h *Hub) broadcastMessage(message *roomMessage) {
	clients, ok := h.rooms[message.room]
	if !ok {
		return
	}
	for client := range clients {
		if !client.trySend(message.data) {
			// Client's send buffer is full, drop the connection
			h.unregisterClient(client)
		}
	}
}

// ServeWS upgrades an HTTP request to a WebSocket connection and starts the
// client's pumps. The service handles every parsed event.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, svc service.LiveService) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := newClient(h, conn, svc)
	h.register <- client

	go client.writePump()
	go client.readPump()
}
