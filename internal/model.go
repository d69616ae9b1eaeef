package internal

import (
	"sync"
	"time"
)

const (
	MinPlayersToStart      = 5
	DefaultMafiaCount      = 3
	DefaultPoliceQuestions = 2
)

type GamePhase string

const (
	PhaseLobby       GamePhase = "lobby"
	PhaseDealt       GamePhase = "dealt"
	PhasePreparation GamePhase = "preparation"
	PhaseRound       GamePhase = "round"
)

// CanTransitionTo reports whether the state machine allows moving from p to
// target. Dealing is allowed from every phase since a fresh deal restarts the game.
func (p GamePhase) CanTransitionTo(target GamePhase) bool {
	if target == PhaseDealt {
		return true
	}

	switch p {
	case PhaseDealt, PhasePreparation:
		return target == PhaseRound
	case PhaseRound:
		return target == PhasePreparation
	default:
		return false
	}
}

type Role string

const (
	RoleNone        Role = ""
	RoleMafiaLeader Role = "mafia-leader"
	RoleMafiaPolice Role = "mafia-police"
	RoleMafia       Role = "mafia"
	RolePolice      Role = "police"
	RoleSniper      Role = "sniper"
	RoleDoctor      Role = "doctor"
	RoleCitizen     Role = "citizen"
	RoleJudge       Role = "judge"
)

// IsMafia reports whether the role belongs to the mafia faction.
func (r Role) IsMafia() bool {
	switch r {
	case RoleMafiaLeader, RoleMafiaPolice, RoleMafia:
		return true
	}
	return false
}

// Settings is the host-supplied game configuration. Only MafiaCount,
// PoliceQuestions and HostIsJudge drive server logic; the rest is echoed back
// to clients.
type Settings struct {
	MafiaCount         int  `json:"mafiaCount"`
	PoliceQuestions    int  `json:"policeQuestions"`
	HostIsJudge        bool `json:"isHostJudge"`
	MafiaKills         int  `json:"mafiaKills,omitempty"`
	MafiaSilence       int  `json:"mafiaSilence,omitempty"`
	MafiaTargetSilence int  `json:"mafiaTargetSilence,omitempty"`
	DoctorSaves        int  `json:"doctorSaves,omitempty"`
}

type Response struct {
	StatusCode    int   `json:"status_code"`
	RespStartTime int64 `json:"resp_time_start_ms"`
	RespEndTime   int64 `json:"resp_time_end_ms"`
	NetRespTime   int64 `json:"net_resp_time_ms"`
	Data          any   `json:"data"`
}

type Room struct {
	Id      string
	Players []*Player

	// Game State
	Settings  Settings
	Phase     GamePhase
	Roles     map[string]Role
	JudgeName string

	// Round Management
	CurrentRound     int
	AbilityUsage     map[string]int
	LastAbilityRound map[string]int
	PendingChoices   map[string]bool

	// Membership policy
	Banned map[string]bool

	CreatedAt    time.Time
	LastActivity time.Time

	// Concurrency control
	Mu sync.Mutex
}

type GameEventType string

const (
	EventRoomCreated  GameEventType = "room_created"
	EventPlayerJoined GameEventType = "player_joined"
	EventPlayerKicked GameEventType = "player_kicked"
	EventGameDealt    GameEventType = "game_dealt"
	EventRoundStarted GameEventType = "round_started"
	EventRoundEnded   GameEventType = "round_ended"
	EventAbilityUsed  GameEventType = "ability_used"
	EventRoomEvicted  GameEventType = "room_evicted"
)

// GameEvent is one entry of the game journal.
type GameEvent struct {
	RoomID  string         `json:"room_id"`
	Type    GameEventType  `json:"type"`
	Actor   string         `json:"actor,omitempty"`
	Round   int            `json:"round"`
	Payload map[string]any `json:"payload,omitempty"`
	At      time.Time      `json:"at"`
}
