package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory membership store. Mutating it between calls
// models membership edges changing underneath the evaluator.
type fakeStore struct {
	teams        map[uint]TeamRef
	leagueAdmins map[uint]map[uint]bool   // userID -> set of leagueIDs
	teamRoles    map[uint]map[uint]string // userID -> teamID -> role
	leagueLists  map[uint][]LeagueMembership
	teamLists    map[uint][]TeamMembership
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		teams:        make(map[uint]TeamRef),
		leagueAdmins: make(map[uint]map[uint]bool),
		teamRoles:    make(map[uint]map[uint]string),
		leagueLists:  make(map[uint][]LeagueMembership),
		teamLists:    make(map[uint][]TeamMembership),
	}
}

func (f *fakeStore) addTeam(id uint, leagueID *uint, active bool) {
	f.teams[id] = TeamRef{ID: id, LeagueID: leagueID, Active: active}
}

func (f *fakeStore) setLeagueAdmin(userID, leagueID uint) {
	if f.leagueAdmins[userID] == nil {
		f.leagueAdmins[userID] = make(map[uint]bool)
	}
	f.leagueAdmins[userID][leagueID] = true
}

func (f *fakeStore) revokeLeagueAdmin(userID, leagueID uint) {
	delete(f.leagueAdmins[userID], leagueID)
}

func (f *fakeStore) setTeamRole(userID, teamID uint, role string) {
	if f.teamRoles[userID] == nil {
		f.teamRoles[userID] = make(map[uint]string)
	}
	f.teamRoles[userID][teamID] = role
}

func (f *fakeStore) GetTeam(teamID uint) (*TeamRef, error) {
	t, ok := f.teams[teamID]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (f *fakeStore) IsLeagueAdmin(userID, leagueID uint) (bool, error) {
	return f.leagueAdmins[userID][leagueID], nil
}

func (f *fakeStore) TeamRole(userID, teamID uint) (string, error) {
	return f.teamRoles[userID][teamID], nil
}

func (f *fakeStore) AdminOfAnyLeague(userID uint) (bool, error) {
	return len(f.leagueAdmins[userID]) > 0, nil
}

func (f *fakeStore) ActiveLeagueMemberships(userID uint) ([]LeagueMembership, error) {
	return f.leagueLists[userID], nil
}

func (f *fakeStore) ActiveTeamMemberships(userID uint) ([]TeamMembership, error) {
	return f.teamLists[userID], nil
}

func uintPtr(v uint) *uint { return &v }

func TestIsLeagueAdmin_ExactPairOnly(t *testing.T) {
	store := newFakeStore()
	store.setLeagueAdmin(1, 10)

	e := NewEvaluator(store)

	ok, err := e.IsLeagueAdmin(1, 10)
	require.NoError(t, err)
	assert.True(t, ok)

	// Same user, different league.
	ok, err = e.IsLeagueAdmin(1, 11)
	require.NoError(t, err)
	assert.False(t, ok)

	// Different user, same league.
	ok, err = e.IsLeagueAdmin(2, 10)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasTeamAccess_LeagueAdminInheritance(t *testing.T) {
	store := newFakeStore()
	store.addTeam(100, uintPtr(10), true)
	store.setLeagueAdmin(1, 10)
	// No team_members row for user 1 on team 100.

	e := NewEvaluator(store)

	ok, err := e.HasTeamAccess(1, 100)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.HasTeamAdminAccess(1, 100)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasTeamAccess_AdminOfOtherLeagueDoesNotInherit(t *testing.T) {
	store := newFakeStore()
	store.addTeam(100, uintPtr(10), true)
	store.setLeagueAdmin(1, 99)

	e := NewEvaluator(store)

	ok, err := e.HasTeamAccess(1, 100)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasTeamAccess_StandaloneTeamNoMembership(t *testing.T) {
	store := newFakeStore()
	store.addTeam(200, nil, true)
	store.setLeagueAdmin(1, 10) // League role is irrelevant to a standalone team.

	e := NewEvaluator(store)

	ok, err := e.HasTeamAccess(1, 200)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTeamMemberRoles(t *testing.T) {
	store := newFakeStore()
	store.addTeam(200, nil, true)
	store.setTeamRole(2, 200, TeamRoleMember)
	store.setTeamRole(3, 200, TeamRoleAdmin)

	e := NewEvaluator(store)

	tests := []struct {
		name        string
		userID      uint
		wantMember  bool
		wantAdmin   bool
		wantAccess  bool
		wantManages bool
	}{
		{"plain member", 2, true, false, true, false},
		{"team admin", 3, true, true, true, true},
		{"outsider", 4, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			member, err := e.IsTeamMember(tt.userID, 200)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMember, member)

			admin, err := e.IsTeamAdmin(tt.userID, 200)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAdmin, admin)

			access, err := e.HasTeamAccess(tt.userID, 200)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAccess, access)

			manages, err := e.HasTeamAdminAccess(tt.userID, 200)
			require.NoError(t, err)
			assert.Equal(t, tt.wantManages, manages)
		})
	}
}

func TestHasTeamAccess_MissingOrInactiveTeam(t *testing.T) {
	store := newFakeStore()
	store.addTeam(300, nil, false)
	store.setTeamRole(1, 300, TeamRoleAdmin)

	e := NewEvaluator(store)

	// Inactive team is indistinguishable from a missing one.
	_, err := e.HasTeamAccess(1, 300)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.HasTeamAdminAccess(1, 300)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.HasTeamAccess(1, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRevocationIsImmediate(t *testing.T) {
	store := newFakeStore()
	store.addTeam(100, uintPtr(10), true)
	store.setLeagueAdmin(1, 10)

	e := NewEvaluator(store)

	ok, err := e.HasTeamAdminAccess(1, 100)
	require.NoError(t, err)
	require.True(t, ok)

	store.revokeLeagueAdmin(1, 10)

	ok, err = e.HasTeamAdminAccess(1, 100)
	require.NoError(t, err)
	assert.False(t, ok, "capability must not survive the membership row")

	ok, err = e.IsLeagueAdmin(1, 10)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsSystemAdmin(t *testing.T) {
	store := newFakeStore()
	store.setLeagueAdmin(1, 10)

	e := NewEvaluator(store)

	ok, err := e.IsSystemAdmin(1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.IsSystemAdmin(2)
	require.NoError(t, err)
	assert.False(t, ok)

	store.revokeLeagueAdmin(1, 10)
	ok, err = e.IsSystemAdmin(1)
	require.NoError(t, err)
	assert.False(t, ok)
}
