package game

import (
	"fmt"

	"github.com/scythe504/mafia-backend/internal"
)

// =============================================================================
// GAME FLOW - PHASE TRANSITIONS
// =============================================================================
// Every function here expects the caller to hold room.Mu.

// StartGame deals a fresh game. Counters are reset in the same step so a
// re-deal never inherits questions from the previous game.
func StartGame(room *internal.Room, settings internal.Settings, shuffle Shuffler) (DealResult, error) {
	if !room.CanStartGame() {
		return DealResult{}, fmt.Errorf("%w: %d/%d",
			ErrNotEnoughPlayers, room.GetPlayerCount(), internal.MinPlayersToStart)
	}

	settings, err := NormalizeSettings(settings)
	if err != nil {
		return DealResult{}, err
	}

	result := Deal(room.PlayerNames(), settings, shuffle)

	room.Settings = settings
	room.Roles = result.Roles
	room.JudgeName = result.Judge
	room.Phase = internal.PhaseDealt
	room.CurrentRound = 0
	room.AbilityUsage = make(map[string]int)
	room.LastAbilityRound = make(map[string]int)
	refreshPendingChoices(room)

	return result, nil
}

// BeginRound moves dealt/preparation into the round. Pending police choices
// block the transition.
func BeginRound(room *internal.Room) error {
	if !room.Phase.CanTransitionTo(internal.PhaseRound) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, room.Phase, internal.PhaseRound)
	}
	if len(room.PendingChoices) > 0 {
		return fmt.Errorf("%w: %d pending", ErrRoundStepPending, len(room.PendingChoices))
	}

	room.Phase = internal.PhaseRound
	return nil
}

// EndRound closes round N and opens preparation N+1.
func EndRound(room *internal.Room) error {
	if !room.Phase.CanTransitionTo(internal.PhasePreparation) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, room.Phase, internal.PhasePreparation)
	}

	room.CurrentRound++
	room.Phase = internal.PhasePreparation
	refreshPendingChoices(room)
	return nil
}
