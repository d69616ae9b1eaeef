package internal

import (
	"slices"
	"time"
)

func NewRoom(id string) *Room {
	now := time.Now()
	return &Room{
		Id:               id,
		Players:          make([]*Player, 0),
		Phase:            PhaseLobby,
		Roles:            make(map[string]Role),
		AbilityUsage:     make(map[string]int),
		LastAbilityRound: make(map[string]int),
		PendingChoices:   make(map[string]bool),
		Banned:           make(map[string]bool),
		CreatedAt:        now,
		LastActivity:     now,
	}
}

// Methods (Room Struct). Callers hold r.Mu.

func (r *Room) IndexOf(name string) int {
	return slices.IndexFunc(r.Players, func(p *Player) bool {
		return p.Name == name
	})
}

func (r *Room) HasPlayer(name string) bool {
	return r.IndexOf(name) >= 0
}

func (r *Room) GetPlayer(name string) *Player {
	if i := r.IndexOf(name); i >= 0 {
		return r.Players[i]
	}
	return nil
}

// Host is the first player in join order, or "" for an empty room.
func (r *Room) Host() string {
	if len(r.Players) == 0 {
		return ""
	}
	return r.Players[0].Name
}

func (r *Room) PlayerNames() []string {
	names := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		names = append(names, p.Name)
	}
	return names
}

func (r *Room) GetPlayerCount() int {
	return len(r.Players)
}

func (r *Room) CanStartGame() bool {
	return r.GetPlayerCount() >= MinPlayersToStart
}

// IsDealt reports whether roles have been handed out for the current game.
func (r *Room) IsDealt() bool {
	return r.Phase != PhaseLobby
}

// RoleOf returns the true role of name, tagging the judge separately from
// the dealt roles.
func (r *Room) RoleOf(name string) Role {
	if r.JudgeName != "" && r.JudgeName == name {
		return RoleJudge
	}
	return r.Roles[name]
}

func (r *Room) IsJudge(name string) bool {
	return r.JudgeName != "" && r.JudgeName == name
}

// RemovePlayer drops name from every per-player structure and reports
// whether the player was present.
func (r *Room) RemovePlayer(name string) bool {
	i := r.IndexOf(name)
	if i < 0 {
		return false
	}

	r.Players = slices.Delete(r.Players, i, i+1)
	delete(r.Roles, name)
	delete(r.PendingChoices, name)
	if r.JudgeName == name {
		r.JudgeName = ""
	}
	return true
}

func (r *Room) Touch() {
	r.LastActivity = time.Now()
}
