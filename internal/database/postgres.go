package database

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/scythe504/mafia-backend/internal"
)

var ErrJournalUnavailable = errors.New("journal database unavailable")

const flushTimeout = 5 * time.Second

// Journal writes game events to Postgres from a single background worker.
// Record never blocks the caller; events beyond the buffer are dropped.
type Journal struct {
	pool    *pgxpool.Pool
	events  chan internal.GameEvent
	done    chan struct{}
	dropped atomic.Int64
}

func NewJournal(ctx context.Context, connString string, buffer int) (*Journal, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJournalUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", ErrJournalUnavailable, err)
	}
	if buffer <= 0 {
		buffer = 1024
	}
	return &Journal{
		pool:   pool,
		events: make(chan internal.GameEvent, buffer),
		done:   make(chan struct{}),
	}, nil
}

// Record queues event for the worker.
func (j *Journal) Record(event internal.GameEvent) {
	select {
	case j.events <- event:
	default:
		n := j.dropped.Add(1)
		log.Warn().Str("room", event.RoomID).Str("type", string(event.Type)).Int64("dropped", n).
			Msg("[Journal] Buffer full, dropping event")
	}
}

// Dropped returns how many events were discarded because the buffer was full.
func (j *Journal) Dropped() int64 {
	return j.dropped.Load()
}

// Run drains the queue until ctx is done, then flushes what is left.
func (j *Journal) Run(ctx context.Context) {
	defer close(j.done)

	for {
		select {
		case event := <-j.events:
			j.write(ctx, event)
		case <-ctx.Done():
			j.flush()
			return
		}
	}
}

// Wait blocks until Run has returned.
func (j *Journal) Wait() {
	<-j.done
}

func (j *Journal) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	for {
		select {
		case event := <-j.events:
			j.write(ctx, event)
		default:
			return
		}
	}
}

func (j *Journal) write(ctx context.Context, event internal.GameEvent) {
	if err := j.Insert(ctx, event); err != nil {
		log.Error().Err(err).Str("room", event.RoomID).Str("type", string(event.Type)).
			Msg("[Journal] Failed to write event")
	}
}

// Insert stores one event synchronously.
func (j *Journal) Insert(ctx context.Context, event internal.GameEvent) error {
	payload := event.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}

	_, err := j.pool.Exec(ctx,
		`INSERT INTO game_events(id, room_id, event_type, actor, round, payload, occurred_at)
		 VALUES($1, $2, $3, $4, $5, $6, $7)`,
		uuid.NewString(), event.RoomID, string(event.Type), event.Actor, event.Round, payload, event.At)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrJournalUnavailable, err)
	}
	return nil
}

// EventsForRoom returns the journal of roomId oldest first.
func (j *Journal) EventsForRoom(ctx context.Context, roomId string) ([]internal.GameEvent, error) {
	rows, err := j.pool.Query(ctx,
		`SELECT room_id, event_type, actor, round, payload, occurred_at
		 FROM game_events WHERE room_id = $1 ORDER BY occurred_at, id`, roomId)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJournalUnavailable, err)
	}
	defer rows.Close()

	events := make([]internal.GameEvent, 0)
	for rows.Next() {
		var (
			event     internal.GameEvent
			eventType string
		)
		if err := rows.Scan(&event.RoomID, &eventType, &event.Actor, &event.Round, &event.Payload, &event.At); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrJournalUnavailable, err)
		}
		event.Type = internal.GameEventType(eventType)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJournalUnavailable, err)
	}
	return events, nil
}

func (j *Journal) Close() {
	j.pool.Close()
}
