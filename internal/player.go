package internal

import "time"

type Player struct {
	Name string `json:"name"`
	// Eliminated is reserved for kill mechanics; nothing sets it yet.
	Eliminated bool      `json:"eliminated"`
	JoinedAt   time.Time `json:"joined_at"`
}

type RosterEntry struct {
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	Eliminated bool   `json:"eliminated"`
}

func NewPlayer(name string) *Player {
	return &Player{
		Name:     name,
		JoinedAt: time.Now(),
	}
}

// ToRosterEntry pairs the player with an already filtered role.
func (p *Player) ToRosterEntry(role Role) RosterEntry {
	return RosterEntry{
		Name:       p.Name,
		Role:       role,
		Eliminated: p.Eliminated,
	}
}
