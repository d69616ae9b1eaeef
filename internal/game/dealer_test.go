package game

import (
	"fmt"
	"slices"
	"testing"

	"github.com/scythe504/mafia-backend/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roster(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("p%02d", i)
	}
	return names
}

func countRoles(roles map[string]internal.Role) map[internal.Role]int {
	counts := make(map[internal.Role]int)
	for _, role := range roles {
		counts[role]++
	}
	return counts
}

func TestNormalizeSettings(t *testing.T) {
	t.Parallel()

	s, err := NormalizeSettings(internal.Settings{})
	require.NoError(t, err)
	assert.Equal(t, internal.DefaultMafiaCount, s.MafiaCount)
	assert.Equal(t, internal.DefaultPoliceQuestions, s.PoliceQuestions)

	s, err = NormalizeSettings(internal.Settings{MafiaCount: 1, PoliceQuestions: 5, HostIsJudge: true, DoctorSaves: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, s.MafiaCount)
	assert.Equal(t, 5, s.PoliceQuestions)
	assert.True(t, s.HostIsJudge)
	assert.Equal(t, 2, s.DoctorSaves)

	_, err = NormalizeSettings(internal.Settings{MafiaCount: -1})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NormalizeSettings(internal.Settings{PoliceQuestions: -3})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestDealFivePlayersTwoMafia(t *testing.T) {
	t.Parallel()

	result := Deal(fivePlayers, internal.Settings{MafiaCount: 2, PoliceQuestions: 2}, UniformShuffle)

	require.Len(t, result.Roles, 5)
	assert.Empty(t, result.Judge)
	assert.False(t, result.Clamped)

	dealt := make([]internal.Role, 0, len(result.Roles))
	for _, role := range result.Roles {
		dealt = append(dealt, role)
	}
	assert.ElementsMatch(t, []internal.Role{
		internal.RoleMafiaLeader,
		internal.RoleMafiaPolice,
		internal.RolePolice,
		internal.RoleSniper,
		internal.RoleDoctor,
	}, dealt)
}

func TestDealSlotOrder(t *testing.T) {
	t.Parallel()

	names := roster(8)
	result := Deal(names, internal.Settings{MafiaCount: 3}, identityShuffle)

	expected := []internal.Role{
		internal.RoleMafiaLeader,
		internal.RoleMafiaPolice,
		internal.RoleMafia,
		internal.RolePolice,
		internal.RoleSniper,
		internal.RoleDoctor,
		internal.RoleCitizen,
		internal.RoleCitizen,
	}
	for i, name := range names {
		assert.Equal(t, expected[i], result.Roles[name], name)
	}
}

func TestDealSingleMafiaHasNoMafiaPolice(t *testing.T) {
	t.Parallel()

	result := Deal(roster(6), internal.Settings{MafiaCount: 1}, identityShuffle)
	counts := countRoles(result.Roles)

	assert.Equal(t, 1, counts[internal.RoleMafiaLeader])
	assert.Zero(t, counts[internal.RoleMafiaPolice])
	assert.Zero(t, counts[internal.RoleMafia])
	assert.Equal(t, 1, counts[internal.RolePolice])
	assert.Equal(t, 1, counts[internal.RoleSniper])
	assert.Equal(t, 1, counts[internal.RoleDoctor])
	assert.Equal(t, 2, counts[internal.RoleCitizen])
}

func TestDealEveryNameExactlyOnce(t *testing.T) {
	t.Parallel()

	for n := internal.MinPlayersToStart; n <= 12; n++ {
		for mafia := 1; mafia <= n; mafia++ {
			for _, judge := range []bool{false, true} {
				names := roster(n)
				settings := internal.Settings{MafiaCount: mafia, HostIsJudge: judge}
				result := Deal(names, settings, SeededShuffle(uint64(n*100+mafia)))

				want := n
				if judge {
					want = n - 1
				}
				require.Len(t, result.Roles, want, "n=%d mafia=%d judge=%v", n, mafia, judge)

				for i, name := range names {
					role, dealt := result.Roles[name]
					if judge && i == 0 {
						assert.False(t, dealt)
						continue
					}
					assert.True(t, dealt, name)
					assert.NotEqual(t, internal.RoleNone, role)
				}

				counts := countRoles(result.Roles)
				assert.LessOrEqual(t, counts[internal.RoleMafiaLeader], 1)
				assert.LessOrEqual(t, counts[internal.RoleMafiaPolice], 1)
				assert.LessOrEqual(t, counts[internal.RolePolice], 1)
				assert.LessOrEqual(t, counts[internal.RoleSniper], 1)
				assert.LessOrEqual(t, counts[internal.RoleDoctor], 1)
				assert.Zero(t, counts[internal.RoleJudge])
			}
		}
	}
}

func TestDealHostIsJudge(t *testing.T) {
	t.Parallel()

	var shuffled []string
	spy := func(names []string) {
		shuffled = slices.Clone(names)
	}

	result := Deal(fivePlayers, internal.Settings{MafiaCount: 1, HostIsJudge: true}, spy)

	assert.Equal(t, "Alice", result.Judge)
	assert.NotContains(t, result.Roles, "Alice")
	assert.NotContains(t, shuffled, "Alice")
	assert.Len(t, shuffled, 4)
	assert.Len(t, result.Roles, 4)
}

func TestDealClampsOversizedMafia(t *testing.T) {
	t.Parallel()

	result := Deal(fivePlayers, internal.Settings{MafiaCount: 9}, identityShuffle)

	assert.True(t, result.Clamped)
	require.Len(t, result.Roles, 5)
	counts := countRoles(result.Roles)
	assert.Equal(t, 1, counts[internal.RoleMafiaLeader])
	assert.Equal(t, 1, counts[internal.RoleMafiaPolice])
	assert.Equal(t, 3, counts[internal.RoleMafia])
	assert.Zero(t, counts[internal.RolePolice])
	assert.Zero(t, counts[internal.RoleSniper])
	assert.Zero(t, counts[internal.RoleDoctor])
	assert.Zero(t, counts[internal.RoleCitizen])
}

func TestDealSkipsSpecialsWithoutPlayers(t *testing.T) {
	t.Parallel()

	// Four mafia in a pool of five leaves a single special slot.
	result := Deal(fivePlayers, internal.Settings{MafiaCount: 4}, identityShuffle)

	assert.False(t, result.Clamped)
	assert.Equal(t, internal.RolePolice, result.Roles["Eve"])
	counts := countRoles(result.Roles)
	assert.Zero(t, counts[internal.RoleSniper])
	assert.Zero(t, counts[internal.RoleDoctor])
}

func TestDealDoesNotModifyInput(t *testing.T) {
	t.Parallel()

	names := slices.Clone(fivePlayers)
	Deal(names, internal.Settings{MafiaCount: 2, HostIsJudge: true}, UniformShuffle)

	assert.Equal(t, fivePlayers, names)
}

func TestSeededShuffleIsReproducible(t *testing.T) {
	t.Parallel()

	settings := internal.Settings{MafiaCount: 3}
	first := Deal(roster(10), settings, SeededShuffle(42))
	second := Deal(roster(10), settings, SeededShuffle(42))

	assert.Equal(t, first.Roles, second.Roles)
}
