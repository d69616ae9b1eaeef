package game

import (
	"encoding/json"
	"fmt"

	"github.com/scythe504/mafia-backend/internal"
)

// Dispatch routes one inbound envelope from actor to the matching intent.
func (c *Coordinator) Dispatch(roomId, actor string, msg internal.Message[json.RawMessage]) error {
	switch msg.Type {
	case internal.MsgJoinRoom:
		return c.Join(roomId, actor)

	case internal.MsgStartGame:
		var data internal.StartGameData
		if err := decode(msg.Data, &data); err != nil {
			return err
		}
		return c.StartGame(roomId, actor, data.Settings)

	case internal.MsgKickPlayer:
		var data internal.KickPlayerData
		if err := decode(msg.Data, &data); err != nil {
			return err
		}
		return c.Kick(roomId, actor, data.Name)

	case internal.MsgBeginRound:
		return c.BeginRound(roomId, actor)

	case internal.MsgEndRound:
		return c.EndRound(roomId, actor)

	case internal.MsgInvestigate:
		var data internal.InvestigateData
		if err := decode(msg.Data, &data); err != nil {
			return err
		}
		_, err := c.Investigate(roomId, actor, data.TargetName)
		return err

	case internal.MsgDeferAbility:
		return c.DeferAbility(roomId, actor)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing data", ErrInvalidPayload)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return nil
}

// ErrorMessage is the unicast reply for a rejected intent.
func ErrorMessage(err error) internal.Message[internal.ErrorData] {
	return internal.Message[internal.ErrorData]{
		Type: internal.MsgError,
		Data: internal.ErrorData{
			Code:    ErrorCode(err),
			Message: err.Error(),
		},
	}
}
