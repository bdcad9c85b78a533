package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/wricardo/mcp-training/lifegame/game/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Pending broadcasts before new ones are dropped.
	broadcastBuffer = 256
)

// Events sent to subscribers
const (
	EventBoardSnapshot = "board_snapshot"
	EventBoardUpdate   = "board_update"
)

// Message represents a WebSocket message
type Message struct {
	BoardID string             `json:"board_id"`
	Event   string             `json:"event"`
	Board   *service.BoardInfo `json:"board,omitempty"`
}

// Client represents a WebSocket client subscribed to one board
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	boardID string

	// newest generation queued to this client, -1 before the first one.
	// Owned by the Run goroutine once registered.
	generation int
}

// Hub maintains the set of active clients and broadcasts board updates.
// The client map is only touched by the Run goroutine.
type Hub struct {
	// Registered clients by board ID
	boards map[string]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	// closed when Run returns
	done chan struct{}

	upgrader websocket.Upgrader
}

// NewHub creates a new WebSocket hub. allowedOrigins restricts the Origin
// header of upgrade requests; empty or "*" allows every origin.
func NewHub(allowedOrigins ...string) *Hub {
	h := &Hub{
		boards:     make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
	}
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		for _, a := range allowed {
			if strings.EqualFold(a, origin) || strings.EqualFold(a, u.Host) {
				return true
			}
		}
		return false
	}
}

// Run starts the hub's event loop. It returns when ctx is cancelled, after
// closing every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-ctx.Done():
			close(h.done)
			for _, clients := range h.boards {
				for client := range clients {
					h.unregisterClient(client)
				}
			}
			return
		}
	}
}

// ServeWS upgrades the request and subscribes the connection to boardID.
// initial, when set, is the first message the client receives.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, boardID string, initial *service.BoardInfo) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("board_id", boardID).Msg("websocket upgrade failed")
		return
	}

	client := newClient(h, conn, boardID)

	if initial != nil {
		if data, err := json.Marshal(&Message{BoardID: boardID, Event: EventBoardSnapshot, Board: initial}); err == nil {
			client.send <- data
			client.generation = initial.Generation
		}
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

func newClient(h *Hub, conn *websocket.Conn, boardID string) *Client {
	return &Client{
		hub:        h,
		conn:       conn,
		send:       make(chan []byte, 256),
		boardID:    boardID,
		generation: -1,
	}
}

// BroadcastBoard queues a board update for every client subscribed to it.
// The update is dropped when the queue is full.
func (h *Hub) BroadcastBoard(board *service.BoardInfo) {
	if board == nil {
		return
	}

	message := &Message{
		BoardID: board.ID,
		Event:   EventBoardUpdate,
		Board:   board,
	}

	select {
	case h.broadcast <- message:
	default:
		log.Warn().Str("board_id", board.ID).Msg("websocket broadcast queue full, dropping update")
	}
}

// registerClient adds a client to a board
func (h *Hub) registerClient(client *Client) {
	if h.boards[client.boardID] == nil {
		h.boards[client.boardID] = make(map[*Client]bool)
	}
	h.boards[client.boardID][client] = true

	log.Debug().
		Str("board_id", client.boardID).
		Int("clients", len(h.boards[client.boardID])).
		Msg("websocket client registered")
}

// unregisterClient removes a client from a board
func (h *Hub) unregisterClient(client *Client) {
	if clients, ok := h.boards[client.boardID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)

			if len(clients) == 0 {
				delete(h.boards, client.boardID)
			}

			log.Debug().
				Str("board_id", client.boardID).
				Int("clients", len(clients)).
				Msg("websocket client unregistered")
		}
	}
}

// broadcastMessage sends a message to all clients of a board. Advances
// finish in any order, so a client never receives a board update whose
// generation is not newer than the last one it was sent.
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal websocket message")
		return
	}

	if clients, ok := h.boards[message.BoardID]; ok {
		for client := range clients {
			if message.Board != nil && message.Board.Generation <= client.generation {
				log.Debug().
					Str("board_id", message.BoardID).
					Int("generation", message.Board.Generation).
					Int("last_sent", client.generation).
					Msg("dropping stale board update")
				continue
			}
			select {
			case client.send <- data:
				if message.Board != nil {
					client.generation = message.Board.Generation
				}
			default:
				h.unregisterClient(client)
			}
		}
	}
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Incoming messages are ignored; reading keeps the connection alive
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("board_id", c.boardID).Msg("websocket read error")
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
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

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
