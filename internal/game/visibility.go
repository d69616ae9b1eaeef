package game

import (
	"maps"

	"github.com/scythe504/mafia-backend/internal"
)

// =============================================================================
// ROLE VISIBILITY
// =============================================================================

// VisibleRole returns the role of target as recipient is allowed to see it.
// First match wins: self, fellow mafia, judge. Anything else is hidden.
func VisibleRole(room *internal.Room, recipient, target string) internal.Role {
	role := room.RoleOf(target)

	switch {
	case recipient == target:
		return role
	case room.RoleOf(recipient).IsMafia() && role.IsMafia():
		return role
	case room.IsJudge(recipient):
		return role
	default:
		return internal.RoleNone
	}
}

// RosterFor builds the player list as recipient may see it.
func RosterFor(room *internal.Room, recipient string) internal.RoomPlayersData {
	entries := make([]internal.RosterEntry, 0, len(room.Players))
	for _, p := range room.Players {
		entries = append(entries, p.ToRosterEntry(VisibleRole(room, recipient, p.Name)))
	}

	return internal.RoomPlayersData{
		RoomID:       room.Id,
		Phase:        room.Phase,
		CurrentRound: room.CurrentRound,
		Host:         room.Host(),
		Players:      entries,
	}
}

// RoleViewFor is the private assign_role payload for name.
func RoleViewFor(room *internal.Room, name string) internal.AssignRoleData {
	view := internal.AssignRoleData{
		Name:                   name,
		Role:                   room.RoleOf(name),
		MafiaNames:             mafiaAllies(room, name),
		IsJudge:                room.IsJudge(name),
		PoliceQuestionsUsed:    room.AbilityUsage[name],
		AllowedPoliceQuestions: room.Settings.PoliceQuestions,
		Settings:               room.Settings,
	}
	if view.IsJudge {
		view.Roles = maps.Clone(room.Roles)
	}
	return view
}

// mafiaAllies lists the other mafia members in join order, or nothing when
// name is not mafia itself.
func mafiaAllies(room *internal.Room, name string) []string {
	allies := make([]string, 0)
	if !room.RoleOf(name).IsMafia() {
		return allies
	}

	for _, p := range room.Players {
		if p.Name != name && room.RoleOf(p.Name).IsMafia() {
			allies = append(allies, p.Name)
		}
	}
	return allies
}
