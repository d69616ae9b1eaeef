package game

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/scythe504/mafia-backend/internal"
)

// Notifier delivers a message to the member name of roomId. Send must not
// block: the coordinator calls it with the room lock held so every member
// observes updates in mutation order. Unknown recipients are dropped.
type Notifier interface {
	Send(roomId, name string, msg any)
}

// Recorder receives journal events. Implementations must not block.
type Recorder interface {
	Record(event internal.GameEvent)
}

type nopRecorder struct{}

func (nopRecorder) Record(internal.GameEvent) {}

type Options struct {
	// BanOnKick keeps kicked names out of the room for its whole lifetime.
	BanOnKick bool
	Shuffle   Shuffler
	Recorder  Recorder
}

// Coordinator handles every room-addressed intent. Each call locks exactly
// one room, runs to completion against it and queues the per-recipient
// messages before releasing the lock.
type Coordinator struct {
	rooms    *Registry
	notifier Notifier
	opts     Options
}

type outbound struct {
	to  string
	msg any
}

func NewCoordinator(rooms *Registry, notifier Notifier, opts Options) *Coordinator {
	if opts.Shuffle == nil {
		opts.Shuffle = UniformShuffle
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	return &Coordinator{rooms: rooms, notifier: notifier, opts: opts}
}

func (c *Coordinator) Registry() *Registry {
	return c.rooms
}

// RoomExists is the pre-navigation room code check.
func (c *Coordinator) RoomExists(roomId string) bool {
	return c.rooms.Exists(roomId)
}

// =============================================================================
// MEMBERSHIP
// =============================================================================

// Join adds name to roomId, creating the room on first join. Joining twice
// with the same name keeps a single seat.
func (c *Coordinator) Join(roomId, name string) error {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(roomId) == "" {
		return ErrInvalidName
	}

	room, created := c.rooms.getOrCreate(roomId)
	if created {
		c.opts.Recorder.Record(internal.GameEvent{
			RoomID: roomId,
			Type:   internal.EventRoomCreated,
			Actor:  name,
			At:     time.Now(),
		})
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Banned[name] {
		log.Warn().Str("room", roomId).Str("player", name).Msg("[Join] Rejected banned player")
		return fmt.Errorf("%w: %s", ErrPlayerBanned, name)
	}

	rejoined := room.HasPlayer(name)
	if !rejoined {
		room.Players = append(room.Players, internal.NewPlayer(name))
	}
	room.Touch()

	log.Info().Str("room", roomId).Str("player", name).Bool("rejoined", rejoined).
		Int("players", room.GetPlayerCount()).Msg("[Join] Player joined")

	c.opts.Recorder.Record(newEvent(room, internal.EventPlayerJoined, name, map[string]any{"rejoined": rejoined}))

	// Late joiners and reconnecting players get the dealt state first.
	if room.IsDealt() {
		c.notifier.Send(roomId, name, internal.Message[internal.AssignRoleData]{
			Type: internal.MsgAssignRole,
			Data: RoleViewFor(room, name),
		})
	}
	c.deliver(roomId, rosterUpdates(room))
	return nil
}

// Kick evicts name from roomId on behalf of the host.
func (c *Coordinator) Kick(roomId, actor, name string) error {
	room, exists := c.rooms.Get(roomId)
	if !exists {
		return ErrRoomNotFound
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Host() != actor {
		return ErrNotHost
	}
	if !room.RemovePlayer(name) {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
	}
	if c.opts.BanOnKick {
		room.Banned[name] = true
	}
	room.Touch()

	log.Info().Str("room", roomId).Str("player", name).Str("by", actor).
		Bool("banned", c.opts.BanOnKick).Msg("[Kick] Player evicted")

	c.opts.Recorder.Record(newEvent(room, internal.EventPlayerKicked, actor, map[string]any{
		"name":   name,
		"banned": c.opts.BanOnKick,
	}))

	kicked := internal.Message[internal.PlayerKickedData]{
		Type: internal.MsgPlayerKicked,
		Data: internal.PlayerKickedData{Name: name},
	}
	c.notifier.Send(roomId, name, kicked)
	c.deliver(roomId, toAll(room, kicked))
	c.deliver(roomId, rosterUpdates(room))
	return nil
}

// =============================================================================
// GAME FLOW
// =============================================================================

// StartGame deals roles with settings and starts a fresh game.
func (c *Coordinator) StartGame(roomId, actor string, settings internal.Settings) error {
	room, exists := c.rooms.Get(roomId)
	if !exists {
		return ErrRoomNotFound
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Host() != actor {
		return ErrNotHost
	}

	result, err := StartGame(room, settings, c.opts.Shuffle)
	if err != nil {
		log.Warn().Err(err).Str("room", roomId).Msg("[StartGame] Rejected")
		return err
	}
	room.Touch()

	level := zerolog.InfoLevel
	if result.Clamped {
		level = zerolog.WarnLevel
	}
	log.WithLevel(level).Str("room", roomId).Int("dealt", len(result.Roles)).Str("judge", result.Judge).
		Bool("clamped", result.Clamped).Msg("[StartGame] Roles dealt")

	c.opts.Recorder.Record(newEvent(room, internal.EventGameDealt, actor, map[string]any{
		"settings": room.Settings,
		"roles":    maps.Clone(result.Roles),
		"judge":    result.Judge,
		"clamped":  result.Clamped,
	}))

	for _, p := range room.Players {
		c.notifier.Send(roomId, p.Name, internal.Message[internal.AssignRoleData]{
			Type: internal.MsgAssignRole,
			Data: RoleViewFor(room, p.Name),
		})
	}
	c.deliver(roomId, rosterUpdates(room))
	return nil
}

// BeginRound starts the round once the police choice is resolved.
func (c *Coordinator) BeginRound(roomId, actor string) error {
	return c.transition(roomId, actor, internal.MsgRoundStarted, internal.EventRoundStarted, BeginRound)
}

// EndRound closes the running round and opens the next preparation.
func (c *Coordinator) EndRound(roomId, actor string) error {
	return c.transition(roomId, actor, internal.MsgRoundEnded, internal.EventRoundEnded, EndRound)
}

func (c *Coordinator) transition(roomId, actor, msgType string, eventType internal.GameEventType, step func(*internal.Room) error) error {
	room, exists := c.rooms.Get(roomId)
	if !exists {
		return ErrRoomNotFound
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Host() != actor {
		return ErrNotHost
	}
	if err := step(room); err != nil {
		return err
	}
	room.Touch()

	log.Info().Str("room", roomId).Str("phase", string(room.Phase)).
		Int("round", room.CurrentRound).Msg("[transition] Phase changed")

	c.opts.Recorder.Record(newEvent(room, eventType, actor, nil))
	c.deliver(roomId, toAll(room, phaseMessage(room, msgType)))
	return nil
}

// =============================================================================
// POLICE QUESTIONS
// =============================================================================

// Investigate answers actor's police question. The answer goes to actor only;
// the rest of the room just learns that the round is no longer blocked.
func (c *Coordinator) Investigate(roomId, actor, target string) (InvestigateResult, error) {
	room, exists := c.rooms.Get(roomId)
	if !exists {
		return InvestigateResult{}, ErrRoomNotFound
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	result, err := UseAbility(room, actor, target)
	if err != nil {
		log.Debug().Err(err).Str("room", roomId).Str("player", actor).Msg("[Investigate] Rejected")
		return InvestigateResult{}, err
	}
	room.Touch()

	log.Debug().Str("room", roomId).Str("player", actor).Int("remaining", result.Remaining).
		Msg("[Investigate] Question answered")

	c.opts.Recorder.Record(newEvent(room, internal.EventAbilityUsed, actor, map[string]any{
		"target":   target,
		"is_mafia": result.IsMafia,
	}))

	c.notifier.Send(roomId, actor, internal.Message[internal.InvestigateResultData]{
		Type: internal.MsgPoliceCheckResult,
		Data: internal.InvestigateResultData{
			TargetName: result.TargetName,
			IsMafia:    result.IsMafia,
			Remaining:  result.Remaining,
		},
	})
	c.deliver(roomId, toAll(room, phaseMessage(room, internal.MsgPhaseUpdate)))
	return result, nil
}

// DeferAbility lets the police skip this round's question.
func (c *Coordinator) DeferAbility(roomId, actor string) error {
	room, exists := c.rooms.Get(roomId)
	if !exists {
		return ErrRoomNotFound
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if err := DeferAbility(room, actor); err != nil {
		return err
	}
	room.Touch()

	c.deliver(roomId, toAll(room, phaseMessage(room, internal.MsgPhaseUpdate)))
	return nil
}

// =============================================================================
// BROADCASTING & MESSAGING
// =============================================================================
// Helpers below expect room.Mu to be held.

// rosterUpdates builds one filtered room_players message per member.
func rosterUpdates(room *internal.Room) []outbound {
	out := make([]outbound, 0, len(room.Players))
	for _, p := range room.Players {
		out = append(out, outbound{to: p.Name, msg: internal.Message[internal.RoomPlayersData]{
			Type: internal.MsgRoomPlayers,
			Data: RosterFor(room, p.Name),
		}})
	}
	return out
}

// toAll is for payloads that carry no role data.
func toAll(room *internal.Room, msg any) []outbound {
	out := make([]outbound, 0, len(room.Players))
	for _, p := range room.Players {
		out = append(out, outbound{to: p.Name, msg: msg})
	}
	return out
}

func phaseMessage(room *internal.Room, msgType string) internal.Message[internal.PhaseData] {
	return internal.Message[internal.PhaseData]{
		Type: msgType,
		Data: internal.PhaseData{
			Phase:          room.Phase,
			CurrentRound:   room.CurrentRound,
			PendingChoices: len(room.PendingChoices),
		},
	}
}

func (c *Coordinator) deliver(roomId string, out []outbound) {
	for _, o := range out {
		c.notifier.Send(roomId, o.to, o.msg)
	}
}

func newEvent(room *internal.Room, kind internal.GameEventType, actor string, payload map[string]any) internal.GameEvent {
	return internal.GameEvent{
		RoomID:  room.Id,
		Type:    kind,
		Actor:   actor,
		Round:   room.CurrentRound,
		Payload: payload,
		At:      time.Now(),
	}
}
