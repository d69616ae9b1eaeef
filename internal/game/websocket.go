package game

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/scythe504/mafia-backend/internal"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

type HubConfig struct {
	AllowedOrigins []string
	// MessageRate and MessageBurst bound inbound intents per connection.
	MessageRate  float64
	MessageBurst int
}

// Client is one websocket connection bound to a room and a player name.
type Client struct {
	Id      string
	RoomId  string
	Name    string
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
	closed  bool
}

// Hub tracks the live connection of every (room, name) pair and implements
// Notifier on top of it.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]map[string]*Client
	upgrader websocket.Upgrader
	cfg      HubConfig
}

func NewHub(cfg HubConfig) *Hub {
	h := &Hub{
		clients: make(map[string]map[string]*Client),
		cfg:     cfg,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	return slices.Contains(h.cfg.AllowedOrigins, "*") || slices.Contains(h.cfg.AllowedOrigins, origin)
}

// =============================================================================
// CONNECTION REGISTRY
// =============================================================================

// register binds c to its room and name, replacing an older connection
// that used the same name.
func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.clients[c.RoomId]
	if !ok {
		room = make(map[string]*Client)
		h.clients[c.RoomId] = room
	}
	if old, exists := room[c.Name]; exists {
		log.Info().Str("room", c.RoomId).Str("player", c.Name).Str("old", old.Id).
			Msg("[register] Replacing existing connection")
		old.close()
	}
	room[c.Name] = c
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := h.clients[c.RoomId]
	if room[c.Name] == c {
		delete(room, c.Name)
		if len(room) == 0 {
			delete(h.clients, c.RoomId)
		}
	}
	c.close()
}

// CloseRoom drops every connection of roomId.
func (h *Hub) CloseRoom(roomId string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.clients[roomId] {
		c.close()
	}
	delete(h.clients, roomId)
}

// ConnectionCount returns the number of live connections in roomId.
func (h *Hub) ConnectionCount(roomId string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[roomId])
}

// close must run with h.mu held for writing so no Send races the channel close.
func (c *Client) close() {
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// =============================================================================
// BROADCASTING & MESSAGING
// =============================================================================

// Send queues msg for the connection of name in roomId. It never blocks;
// a full buffer drops the message.
func (h *Hub) Send(roomId, name string, msg any) {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("room", roomId).Str("player", name).Msg("[Send] Failed to encode message")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[roomId][name]
	if !ok || client.closed {
		return
	}

	select {
	case client.send <- payload:
	default:
		log.Warn().Str("room", roomId).Str("player", name).Msg("[Send] Buffer full, dropping message")
	}
}

// =============================================================================
// WEBSOCKET CONNECTION HANDLING
// =============================================================================

// HandleWebSocket upgrades /ws/{roomId}?name= and joins the player to the room.
func HandleWebSocket(hub *Hub, coord *Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomId := strings.TrimSpace(mux.Vars(r)["roomId"])
		name := strings.TrimSpace(r.URL.Query().Get("name"))
		if roomId == "" || name == "" {
			http.Error(w, "room id and name are required", http.StatusBadRequest)
			return
		}

		conn, err := hub.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Str("room", roomId).Msg("[HandleWebSocket] Upgrade failed")
			return
		}

		client := &Client{
			Id:      uuid.NewString(),
			RoomId:  roomId,
			Name:    name,
			conn:    conn,
			send:    make(chan []byte, sendBufferSize),
			limiter: rate.NewLimiter(rate.Limit(hub.cfg.MessageRate), hub.cfg.MessageBurst),
		}
		hub.register(client)
		go hub.writePump(client)

		if err := coord.Join(roomId, name); err != nil {
			log.Warn().Err(err).Str("room", roomId).Str("player", name).Msg("[HandleWebSocket] Join rejected")
			hub.Send(roomId, name, ErrorMessage(err))
			hub.unregister(client)
			return
		}

		hub.readPump(client, coord)
	}
}

// readPump processes incoming messages until the connection drops.
func (h *Hub) readPump(c *Client, coord *Coordinator) {
	defer h.unregister(c)
	log.Debug().Str("room", c.RoomId).Str("player", c.Name).Str("conn", c.Id).Msg("[readPump] Started")

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("room", c.RoomId).Str("player", c.Name).Msg("[readPump] Read error")
			}
			return
		}

		if !c.limiter.Allow() {
			h.Send(c.RoomId, c.Name, ErrorMessage(ErrRateLimited))
			continue
		}

		var msg internal.Message[json.RawMessage]
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.Send(c.RoomId, c.Name, ErrorMessage(ErrInvalidPayload))
			continue
		}

		log.Debug().Str("room", c.RoomId).Str("player", c.Name).Str("type", msg.Type).Msg("[readPump] Received message")

		if err := coord.Dispatch(c.RoomId, c.Name, msg); err != nil {
			// Stale clients addressing a vanished room are ignored.
			if errors.Is(err, ErrRoomNotFound) {
				continue
			}
			h.Send(c.RoomId, c.Name, ErrorMessage(err))
		}
	}
}

// writePump is the only writer of c.conn.
func (h *Hub) writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Warn().Err(err).Str("room", c.RoomId).Str("player", c.Name).Msg("[writePump] Write failed")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
