package game

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/scythe504/mafia-backend/internal"
)

// =============================================================================
// ROLE DEALING
// =============================================================================

// Shuffler permutes names in place.
type Shuffler func(names []string)

// UniformShuffle is a Fisher-Yates permutation backed by the runtime-seeded
// generator, so consecutive deals do not repeat.
func UniformShuffle(names []string) {
	rand.Shuffle(len(names), func(i, j int) {
		names[i], names[j] = names[j], names[i]
	})
}

// SeededShuffle returns a reproducible Shuffler. The returned func is not
// safe for concurrent use.
func SeededShuffle(seed uint64) Shuffler {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func(names []string) {
		rng.Shuffle(len(names), func(i, j int) {
			names[i], names[j] = names[j], names[i]
		})
	}
}

type DealResult struct {
	Roles map[string]internal.Role
	Judge string
	// Clamped is set when MafiaCount exceeded the dealing pool.
	Clamped bool
}

var specialRoles = []internal.Role{internal.RolePolice, internal.RoleSniper, internal.RoleDoctor}

// NormalizeSettings fills the defaults for unset counts and rejects negative ones.
func NormalizeSettings(s internal.Settings) (internal.Settings, error) {
	if s.MafiaCount < 0 || s.PoliceQuestions < 0 {
		return s, fmt.Errorf("%w: mafiaCount=%d policeQuestions=%d",
			ErrInvalidConfiguration, s.MafiaCount, s.PoliceQuestions)
	}
	if s.MafiaCount == 0 {
		s.MafiaCount = internal.DefaultMafiaCount
	}
	if s.PoliceQuestions == 0 {
		s.PoliceQuestions = internal.DefaultPoliceQuestions
	}
	return s, nil
}

// Deal partitions names into role slots. names is the roster in join order
// and is not modified; settings must already be normalized.
func Deal(names []string, settings internal.Settings, shuffle Shuffler) DealResult {
	result := DealResult{Roles: make(map[string]internal.Role, len(names))}

	pool := slices.Clone(names)
	if settings.HostIsJudge && len(pool) > 0 {
		result.Judge = pool[0]
		pool = pool[1:]
	}

	if shuffle == nil {
		shuffle = UniformShuffle
	}
	shuffle(pool)

	mafia := settings.MafiaCount
	if mafia > len(pool) {
		mafia = len(pool)
		result.Clamped = true
	}

	deck := make([]internal.Role, 0, len(pool))
	for i := range mafia {
		switch i {
		case 0:
			deck = append(deck, internal.RoleMafiaLeader)
		case 1:
			deck = append(deck, internal.RoleMafiaPolice)
		default:
			deck = append(deck, internal.RoleMafia)
		}
	}
	if !result.Clamped {
		for _, role := range specialRoles {
			if len(deck) == len(pool) {
				break
			}
			deck = append(deck, role)
		}
	}
	for len(deck) < len(pool) {
		deck = append(deck, internal.RoleCitizen)
	}

	for i, name := range pool {
		result.Roles[name] = deck[i]
	}
	return result
}
