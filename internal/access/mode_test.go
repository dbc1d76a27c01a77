package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMode_FlagAgreesWithLeagueList(t *testing.T) {
	now := time.Now()

	store := newFakeStore()
	store.leagueLists[1] = []LeagueMembership{
		{LeagueID: 10, LeagueName: "North Conference", Role: RoleLeagueAdmin, JoinedAt: now},
	}
	store.teamLists[1] = []TeamMembership{
		{TeamID: 100, TeamName: "Hawks", LeagueID: uintPtr(10), Role: TeamRoleMember, JoinedAt: now},
	}
	store.teamLists[2] = []TeamMembership{
		{TeamID: 200, TeamName: "Rovers", Role: TeamRoleAdmin, JoinedAt: now},
	}

	e := NewEvaluator(store)

	mode, err := e.UserMode(1)
	require.NoError(t, err)
	assert.True(t, mode.IsLeagueMode)
	assert.Equal(t, mode.IsLeagueMode, len(mode.Leagues) > 0)
	assert.Len(t, mode.Teams, 1)

	// Zero leagues, one active team: single-team mode.
	mode, err = e.UserMode(2)
	require.NoError(t, err)
	assert.False(t, mode.IsLeagueMode)
	assert.Empty(t, mode.Leagues)
	assert.Len(t, mode.Teams, 1)

	// No memberships at all: both lists present and empty.
	mode, err = e.UserMode(3)
	require.NoError(t, err)
	assert.False(t, mode.IsLeagueMode)
	assert.NotNil(t, mode.Leagues)
	assert.NotNil(t, mode.Teams)
}

func TestUserPrimaryContext_LeagueModeTakesNewestLeague(t *testing.T) {
	older := time.Now().Add(-48 * time.Hour)
	newer := time.Now()

	store := newFakeStore()
	// Lists arrive most recently joined first.
	store.leagueLists[1] = []LeagueMembership{
		{LeagueID: 11, LeagueName: "Spring League", JoinedAt: newer},
		{LeagueID: 10, LeagueName: "Winter League", JoinedAt: older},
	}
	store.teamLists[1] = []TeamMembership{
		{TeamID: 100, TeamName: "Hawks", JoinedAt: newer},
	}

	e := NewEvaluator(store)

	ctx, err := e.UserPrimaryContext(1)
	require.NoError(t, err)
	assert.Equal(t, ContextLeague, ctx.Kind)
	assert.Equal(t, uint(11), ctx.ID)
	assert.Equal(t, "Spring League", ctx.Name)
}

func TestUserPrimaryContext_PrefersStandaloneTeam(t *testing.T) {
	older := time.Now().Add(-48 * time.Hour)
	newer := time.Now()

	store := newFakeStore()
	store.teamLists[1] = []TeamMembership{
		{TeamID: 101, TeamName: "League Hawks", LeagueID: uintPtr(10), JoinedAt: newer},
		{TeamID: 200, TeamName: "Pickup Rovers", JoinedAt: older},
	}

	e := NewEvaluator(store)

	// The standalone team wins even though the league-bound one is newer.
	ctx, err := e.UserPrimaryContext(1)
	require.NoError(t, err)
	assert.Equal(t, ContextTeam, ctx.Kind)
	assert.Equal(t, uint(200), ctx.ID)
}

func TestUserPrimaryContext_FallsBackToAnyTeam(t *testing.T) {
	store := newFakeStore()
	store.teamLists[1] = []TeamMembership{
		{TeamID: 101, TeamName: "League Hawks", LeagueID: uintPtr(10), JoinedAt: time.Now()},
	}

	e := NewEvaluator(store)

	ctx, err := e.UserPrimaryContext(1)
	require.NoError(t, err)
	assert.Equal(t, ContextTeam, ctx.Kind)
	assert.Equal(t, uint(101), ctx.ID)
}

func TestUserPrimaryContext_None(t *testing.T) {
	e := NewEvaluator(newFakeStore())

	ctx, err := e.UserPrimaryContext(1)
	require.NoError(t, err)
	assert.Equal(t, ContextNone, ctx.Kind)
	assert.Zero(t, ctx.ID)
}
