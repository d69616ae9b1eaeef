package game

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/scythe504/mafia-backend/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func newWSServer(t *testing.T, cfg HubConfig) (*httptest.Server, *Hub, *Coordinator) {
	t.Helper()

	hub := NewHub(cfg)
	coord := NewCoordinator(NewRegistry(), hub, Options{Shuffle: identityShuffle})

	r := mux.NewRouter()
	r.HandleFunc("/ws/{roomId}", HandleWebSocket(hub, coord))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, hub, coord
}

func dial(t *testing.T, srv *httptest.Server, roomId, name string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + roomId + "?name=" + name
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) wsEnvelope {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env wsEnvelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

// readUntil skips messages until one of msgType arrives.
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) wsEnvelope {
	t.Helper()
	for {
		env := readEnvelope(t, conn)
		if env.Type == msgType {
			return env
		}
	}
}

func TestWebSocketJoinBroadcastsRoster(t *testing.T) {
	t.Parallel()

	srv, hub, coord := newWSServer(t, HubConfig{AllowedOrigins: []string{"*"}, MessageRate: 100, MessageBurst: 100})

	alice := dial(t, srv, "1234", "Alice")
	first := readEnvelope(t, alice)
	assert.Equal(t, internal.MsgRoomPlayers, first.Type)

	_ = dial(t, srv, "1234", "Bob")

	env := readUntil(t, alice, internal.MsgRoomPlayers)
	var roster internal.RoomPlayersData
	require.NoError(t, json.Unmarshal(env.Data, &roster))
	assert.Equal(t, "Alice", roster.Host)
	assert.Len(t, roster.Players, 2)

	assert.True(t, coord.RoomExists("1234"))
	assert.Eventually(t, func() bool { return hub.ConnectionCount("1234") == 2 }, time.Second, 10*time.Millisecond)
}

func TestWebSocketRejectsBadMessages(t *testing.T) {
	t.Parallel()

	srv, _, _ := newWSServer(t, HubConfig{AllowedOrigins: []string{"*"}, MessageRate: 100, MessageBurst: 100})

	alice := dial(t, srv, "1234", "Alice")
	readEnvelope(t, alice)

	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte("not json")))
	env := readUntil(t, alice, internal.MsgError)
	var errData internal.ErrorData
	require.NoError(t, json.Unmarshal(env.Data, &errData))
	assert.Equal(t, "invalid_payload", errData.Code)

	require.NoError(t, alice.WriteJSON(map[string]any{"type": "dance"}))
	env = readUntil(t, alice, internal.MsgError)
	require.NoError(t, json.Unmarshal(env.Data, &errData))
	assert.Equal(t, "unknown_message", errData.Code)

	require.NoError(t, alice.WriteJSON(map[string]any{"type": internal.MsgBeginRound}))
	env = readUntil(t, alice, internal.MsgError)
	require.NoError(t, json.Unmarshal(env.Data, &errData))
	assert.Equal(t, "invalid_transition", errData.Code)
}

func TestWebSocketRateLimit(t *testing.T) {
	t.Parallel()

	srv, _, _ := newWSServer(t, HubConfig{AllowedOrigins: []string{"*"}, MessageRate: 0.01, MessageBurst: 1})

	alice := dial(t, srv, "1234", "Alice")
	readEnvelope(t, alice)

	require.NoError(t, alice.WriteJSON(map[string]any{"type": "dance"}))
	require.NoError(t, alice.WriteJSON(map[string]any{"type": "dance"}))

	codes := make([]string, 0, 2)
	for range 2 {
		env := readUntil(t, alice, internal.MsgError)
		var errData internal.ErrorData
		require.NoError(t, json.Unmarshal(env.Data, &errData))
		codes = append(codes, errData.Code)
	}
	assert.Equal(t, []string{"unknown_message", "rate_limited"}, codes)
}

func TestWebSocketRequiresName(t *testing.T) {
	t.Parallel()

	srv, _, coord := newWSServer(t, HubConfig{AllowedOrigins: []string{"*"}, MessageRate: 1, MessageBurst: 1})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/1234"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 400, resp.StatusCode)
	assert.False(t, coord.RoomExists("1234"))
}

func TestWebSocketBannedPlayerIsRefused(t *testing.T) {
	t.Parallel()

	hub := NewHub(HubConfig{AllowedOrigins: []string{"*"}, MessageRate: 100, MessageBurst: 100})
	coord := NewCoordinator(NewRegistry(), hub, Options{BanOnKick: true})
	r := mux.NewRouter()
	r.HandleFunc("/ws/{roomId}", HandleWebSocket(hub, coord))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	alice := dial(t, srv, "1234", "Alice")
	readEnvelope(t, alice)
	require.NoError(t, coord.Join("1234", "Bob"))
	require.NoError(t, coord.Kick("1234", "Alice", "Bob"))

	bob := dial(t, srv, "1234", "Bob")
	env := readUntil(t, bob, internal.MsgError)
	var errData internal.ErrorData
	require.NoError(t, json.Unmarshal(env.Data, &errData))
	assert.Equal(t, "player_banned", errData.Code)
}

func TestHubCheckOrigin(t *testing.T) {
	t.Parallel()

	hub := NewHub(HubConfig{AllowedOrigins: []string{"https://mafia.example"}})

	req := httptest.NewRequest("GET", "/ws/1234", nil)
	assert.True(t, hub.checkOrigin(req))

	req.Header.Set("Origin", "https://mafia.example")
	assert.True(t, hub.checkOrigin(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, hub.checkOrigin(req))
}

func TestHubSendToUnknownClientIsDropped(t *testing.T) {
	t.Parallel()

	hub := NewHub(HubConfig{})
	assert.NotPanics(t, func() {
		hub.Send("1234", "Nobody", internal.Message[internal.PlayerKickedData]{Type: internal.MsgPlayerKicked})
		hub.CloseRoom("1234")
	})
	assert.Zero(t, hub.ConnectionCount("1234"))
}
