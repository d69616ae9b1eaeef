package internal

type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// Outbound message types
const (
	MsgRoomPlayers       = "room_players"
	MsgAssignRole        = "assign_role"
	MsgPlayerKicked      = "player_kicked"
	MsgRoundStarted      = "round_started"
	MsgRoundEnded        = "round_ended"
	MsgPhaseUpdate       = "phase_update"
	MsgPoliceCheckResult = "police_check_result"
	MsgError             = "error"
)

// Inbound message types
const (
	MsgJoinRoom     = "join_room"
	MsgStartGame    = "start_game"
	MsgKickPlayer   = "kick_player"
	MsgBeginRound   = "begin_round"
	MsgEndRound     = "end_round"
	MsgInvestigate  = "investigate"
	MsgDeferAbility = "defer_ability"
)

type RoomPlayersData struct {
	RoomID       string        `json:"room_id"`
	Phase        GamePhase     `json:"phase"`
	CurrentRound int           `json:"current_round"`
	Host         string        `json:"host"`
	Players      []RosterEntry `json:"players"`
}

type AssignRoleData struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
	// Roles carries the full mapping and is only filled for the judge.
	Roles                  map[string]Role `json:"roles,omitempty"`
	MafiaNames             []string        `json:"mafia_names"`
	IsJudge                bool            `json:"is_judge"`
	PoliceQuestionsUsed    int             `json:"police_questions_used"`
	AllowedPoliceQuestions int             `json:"allowed_police_questions"`
	Settings               Settings        `json:"settings"`
}

type PlayerKickedData struct {
	Name string `json:"name"`
}

type PhaseData struct {
	Phase          GamePhase `json:"phase"`
	CurrentRound   int       `json:"current_round"`
	PendingChoices int       `json:"pending_choices"`
}

type InvestigateResultData struct {
	TargetName string `json:"target_name"`
	IsMafia    bool   `json:"is_mafia"`
	Remaining  int    `json:"remaining"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StartGameData struct {
	Settings Settings `json:"settings"`
}

type KickPlayerData struct {
	Name string `json:"name"`
}

type InvestigateData struct {
	TargetName string `json:"target_name"`
}
