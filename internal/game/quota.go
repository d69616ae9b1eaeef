package game

import (
	"fmt"

	"github.com/scythe504/mafia-backend/internal"
)

// =============================================================================
// POLICE QUESTIONS
// =============================================================================

type InvestigateResult struct {
	TargetName string
	IsMafia    bool
	Remaining  int
}

// UseAbility spends one police question of player on target. The caller holds room.Mu.
func UseAbility(room *internal.Room, player, target string) (InvestigateResult, error) {
	if room.Phase != internal.PhaseDealt && room.Phase != internal.PhasePreparation {
		return InvestigateResult{}, fmt.Errorf("%w: phase=%s", ErrWrongPhase, room.Phase)
	}
	if room.Roles[player] != internal.RolePolice {
		return InvestigateResult{}, ErrNotInvestigator
	}
	if _, dealt := room.Roles[target]; !dealt {
		return InvestigateResult{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, target)
	}

	used := room.AbilityUsage[player]
	if used >= room.Settings.PoliceQuestions {
		return InvestigateResult{}, ErrQuotaExceeded
	}
	if last, asked := room.LastAbilityRound[player]; asked && last == room.CurrentRound {
		return InvestigateResult{}, ErrAlreadyUsedThisRound
	}

	room.AbilityUsage[player] = used + 1
	room.LastAbilityRound[player] = room.CurrentRound
	delete(room.PendingChoices, player)

	return InvestigateResult{
		TargetName: target,
		IsMafia:    room.Roles[target].IsMafia(),
		Remaining:  room.Settings.PoliceQuestions - used - 1,
	}, nil
}

// DeferAbility resolves the pending choice of player without spending a question.
func DeferAbility(room *internal.Room, player string) error {
	if room.Phase != internal.PhaseDealt && room.Phase != internal.PhasePreparation {
		return fmt.Errorf("%w: phase=%s", ErrWrongPhase, room.Phase)
	}
	if room.Roles[player] != internal.RolePolice {
		return ErrNotInvestigator
	}
	delete(room.PendingChoices, player)
	return nil
}

// refreshPendingChoices marks every police player who can still ask this round.
func refreshPendingChoices(room *internal.Room) {
	clear(room.PendingChoices)
	for _, p := range room.Players {
		if p.Eliminated || room.Roles[p.Name] != internal.RolePolice {
			continue
		}
		if room.AbilityUsage[p.Name] >= room.Settings.PoliceQuestions {
			continue
		}
		if last, asked := room.LastAbilityRound[p.Name]; asked && last == room.CurrentRound {
			continue
		}
		room.PendingChoices[p.Name] = true
	}
}
