package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/mafia-backend/internal"
)

// SweepIdle removes rooms untouched for longer than idle and journals each eviction.
func (c *Coordinator) SweepIdle(idle time.Duration) []string {
	now := time.Now()
	removed := c.rooms.Sweep(idle, now)
	for _, id := range removed {
		c.opts.Recorder.Record(internal.GameEvent{
			RoomID: id,
			Type:   internal.EventRoomEvicted,
			Payload: map[string]any{
				"idle_seconds": idle.Seconds(),
			},
			At: now,
		})
	}
	return removed
}

// RunSweeper calls SweepIdle every interval until ctx is done. onEvict runs
// for each removed room, typically to drop its connections.
func (c *Coordinator) RunSweeper(ctx context.Context, interval, idle time.Duration, onEvict func(roomId string)) {
	if interval <= 0 || idle <= 0 {
		log.Info().Msg("[RunSweeper] Idle room eviction disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, id := range c.SweepIdle(idle) {
				if onEvict != nil {
					onEvict(id)
				}
			}
		}
	}
}
