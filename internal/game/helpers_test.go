package game

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/scythe504/mafia-backend/internal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fivePlayers = []string{"Alice", "Bob", "Carol", "Dave", "Eve"}

// identityShuffle keeps the join order so deals are predictable.
func identityShuffle([]string) {}

func newTestRoom(names ...string) *internal.Room {
	room := internal.NewRoom("1234")
	for _, name := range names {
		room.Players = append(room.Players, internal.NewPlayer(name))
	}
	return room
}

type sentMessage struct {
	room string
	to   string
	msg  any
}

// recordingNotifier keeps every message the coordinator sends.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (n *recordingNotifier) Send(roomId, name string, msg any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{room: roomId, to: name, msg: msg})
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = nil
}

// to returns the messages for name in delivery order.
func (n *recordingNotifier) to(name string) []any {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]any, 0)
	for _, s := range n.sent {
		if s.to == name {
			out = append(out, s.msg)
		}
	}
	return out
}

// ofType returns the messages with the given envelope type sent to name.
func (n *recordingNotifier) ofType(name, msgType string) []any {
	out := make([]any, 0)
	for _, msg := range n.to(name) {
		if envelopeType(msg) == msgType {
			out = append(out, msg)
		}
	}
	return out
}

func envelopeType(msg any) string {
	switch m := msg.(type) {
	case internal.Message[internal.RoomPlayersData]:
		return m.Type
	case internal.Message[internal.AssignRoleData]:
		return m.Type
	case internal.Message[internal.PlayerKickedData]:
		return m.Type
	case internal.Message[internal.PhaseData]:
		return m.Type
	case internal.Message[internal.InvestigateResultData]:
		return m.Type
	case internal.Message[internal.ErrorData]:
		return m.Type
	}
	return ""
}

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(event internal.GameEvent) {
	m.Called(event)
}

func newTestCoordinator(t *testing.T, opts Options) (*Coordinator, *recordingNotifier) {
	t.Helper()
	if opts.Shuffle == nil {
		opts.Shuffle = identityShuffle
	}
	notifier := &recordingNotifier{}
	return NewCoordinator(NewRegistry(), notifier, opts), notifier
}

func joinAll(t *testing.T, c *Coordinator, roomId string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, c.Join(roomId, name))
	}
}

func envelope(t *testing.T, msgType string, data any) internal.Message[json.RawMessage] {
	t.Helper()
	msg := internal.Message[json.RawMessage]{Type: msgType}
	if data != nil {
		raw, err := json.Marshal(data)
		require.NoError(t, err)
		msg.Data = raw
	}
	return msg
}
