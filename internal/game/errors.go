package game

import "errors"

var (
	ErrRoomNotFound         = errors.New("room not found")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrPlayerBanned         = errors.New("player was kicked from this room")
	ErrInvalidName          = errors.New("player name is required")
	ErrNotHost              = errors.New("only the host can do that")
	ErrNotEnoughPlayers     = errors.New("not enough players to start the game")
	ErrInvalidConfiguration = errors.New("invalid game configuration")
	ErrInvalidTransition    = errors.New("invalid phase transition")
	ErrWrongPhase           = errors.New("action not allowed in the current phase")
	ErrNotInvestigator      = errors.New("only the police can investigate")
	ErrQuotaExceeded        = errors.New("no police questions left")
	ErrAlreadyUsedThisRound = errors.New("already asked a question this round")
	ErrRoundStepPending     = errors.New("waiting for the police to ask or defer")
	ErrUnknownMessage       = errors.New("unknown message type")
	ErrInvalidPayload       = errors.New("invalid message payload")
	ErrRateLimited          = errors.New("too many messages, slow down")
)

// ErrorCode maps a coordinator error to the short code sent to clients.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, ErrPlayerNotFound):
		return "player_not_found"
	case errors.Is(err, ErrPlayerBanned):
		return "player_banned"
	case errors.Is(err, ErrInvalidName):
		return "invalid_name"
	case errors.Is(err, ErrNotHost):
		return "not_host"
	case errors.Is(err, ErrNotEnoughPlayers):
		return "not_enough_players"
	case errors.Is(err, ErrInvalidConfiguration):
		return "invalid_configuration"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrWrongPhase):
		return "wrong_phase"
	case errors.Is(err, ErrNotInvestigator):
		return "not_investigator"
	case errors.Is(err, ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, ErrAlreadyUsedThisRound):
		return "already_used_this_round"
	case errors.Is(err, ErrRoundStepPending):
		return "round_step_pending"
	case errors.Is(err, ErrUnknownMessage):
		return "unknown_message"
	case errors.Is(err, ErrInvalidPayload):
		return "invalid_payload"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	default:
		return "internal"
	}
}
