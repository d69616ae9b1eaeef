package game

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/mafia-backend/internal"
)

// =============================================================================
// ROOM REGISTRY
// =============================================================================

// Registry owns every live room for the lifetime of the process.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*internal.Room
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*internal.Room),
	}
}

// Get returns the room without creating it.
func (reg *Registry) Get(roomId string) (*internal.Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, exists := reg.rooms[roomId]
	return room, exists
}

// Exists never creates a room as a side effect.
func (reg *Registry) Exists(roomId string) bool {
	_, exists := reg.Get(roomId)
	return exists
}

func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// getOrCreate retrieves existing room or creates new one, reporting whether
// the room was created by this call.
func (reg *Registry) getOrCreate(roomId string) (*internal.Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if room, exists := reg.rooms[roomId]; exists {
		return room, false
	}

	room := internal.NewRoom(roomId)
	reg.rooms[roomId] = room

	log.Info().Str("room", roomId).Msg("[getOrCreate] Created new room")
	return room, true
}

// Sweep drops rooms whose last activity is older than idle and returns their ids.
func (reg *Registry) Sweep(idle time.Duration, now time.Time) []string {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	removed := make([]string, 0)
	for id, room := range reg.rooms {
		room.Mu.Lock()
		stale := now.Sub(room.LastActivity) > idle
		room.Mu.Unlock()

		if stale {
			delete(reg.rooms, id)
			removed = append(removed, id)
		}
	}

	if len(removed) > 0 {
		log.Info().Strs("rooms", removed).Int("remaining", len(reg.rooms)).
			Msg("[Sweep] Evicted idle rooms")
	}
	return removed
}
