package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/racetrack-game/game/engine"
)

const (
	// Deadline for a single write to a watcher.
	writeWait = 10 * time.Second

	// A watcher that has not answered a ping within pongWait is dead.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Watchers are read-only; anything bigger than a close frame is
	// suspect.
	maxInboundSize = 512
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

// Message is the wire format pushed to watchers. Race updates carry a
// RaceState; other events put their payload in Data.
type Message struct {
	SessionID string            `json:"session_id"`
	Event     string            `json:"event,omitempty"`
	RaceState *engine.RaceState `json:"race_state,omitempty"`
	Data      interface{}       `json:"data,omitempty"`
}

// Client is one connected watcher of a single session.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// Hub fans race updates out to the watchers of each session. All state
// lives behind the Run loop; handlers and broadcasters only touch the
// channels, so the hub needs no locks.
type Hub struct {
	sessions   map[string]map[*Client]bool
	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
}

// NewHub returns a hub with no watchers. Call Run before broadcasting.
func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run owns the watcher registry. It blocks, so start it in its own
// goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// ServeWS upgrades the request and attaches the connection as a
// watcher of sessionID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// BroadcastToSession pushes a race state update to every watcher of a
// session. The hub must be running.
func (h *Hub) BroadcastToSession(sessionID string, state *engine.RaceState) {
	h.broadcast <- &Message{
		SessionID: sessionID,
		Event:     "race_update",
		RaceState: state,
	}
}

// BroadcastEvent pushes an arbitrary event to every watcher of a
// session.
func (h *Hub) BroadcastEvent(sessionID string, event string, data interface{}) {
	h.broadcast <- &Message{
		SessionID: sessionID,
		Event:     event,
		Data:      data,
	}
}

func (h *Hub) registerClient(client *Client) {
	watchers := h.sessions[client.sessionID]
	if watchers == nil {
		watchers = make(map[*Client]bool)
		h.sessions[client.sessionID] = watchers
	}
	watchers[client] = true
	log.Printf("Watcher joined session %s (%d watching)", client.sessionID, len(watchers))
}

func (h *Hub) unregisterClient(client *Client) {
	watchers, ok := h.sessions[client.sessionID]
	if !ok || !watchers[client] {
		return
	}
	delete(watchers, client)
	close(client.send)
	if len(watchers) == 0 {
		delete(h.sessions, client.sessionID)
	}
	log.Printf("Watcher left session %s (%d watching)", client.sessionID, len(watchers))
}

// broadcastMessage marshals once and fans out. A watcher whose send
// buffer is full is dropped rather than allowed to stall the race.
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal broadcast message: %v", err)
		return
	}

	for client := range h.sessions[message.SessionID] {
		select {
		case client.send <- data:
		default:
			h.unregisterClient(client)
		}
	}
}

// readPump drains the connection until it dies. Watchers are
// read-only, so inbound payloads are discarded; the read keeps pong
// handling alive and notices closes.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxInboundSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
	}
}

// writePump feeds queued updates to the connection and pings it on a
// timer. It exits when the hub closes the send channel or a write
// fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
