package league

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddleup/huddle/config"
	"github.com/huddleup/huddle/internal/access"
	"github.com/huddleup/huddle/internal/middleware"
)

type pairKey struct{ leagueID, userID uint }

// memoryLeagues implements LeagueRepository over maps. Membership follows
// the database contract: one live row per (user, league), and removal frees
// the pair for a later rejoin.
type memoryLeagues struct {
	nextID    uint
	leagues   map[uint]*League
	divisions map[uint]*Division
	members   map[pairKey]*LeagueUser
}

func newMemoryLeagues() *memoryLeagues {
	return &memoryLeagues{
		nextID:    1,
		leagues:   make(map[uint]*League),
		divisions: make(map[uint]*Division),
		members:   make(map[pairKey]*LeagueUser),
	}
}

func (m *memoryLeagues) CreateLeague(league *League) error {
	league.ID = m.nextID
	m.nextID++
	copied := *league
	m.leagues[league.ID] = &copied
	return nil
}

func (m *memoryLeagues) GetLeagueByID(id uint) (*League, error) {
	l, ok := m.leagues[id]
	if !ok {
		return nil, nil
	}
	copied := *l
	return &copied, nil
}

func (m *memoryLeagues) GetAllLeagues(page, limit int, activeOnly bool) ([]League, int64, error) {
	var out []League
	for _, l := range m.leagues {
		if activeOnly && !l.Active {
			continue
		}
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

func (m *memoryLeagues) UpdateLeague(league *League) error {
	copied := *league
	m.leagues[league.ID] = &copied
	return nil
}

func (m *memoryLeagues) DeactivateLeague(id uint) error {
	if l, ok := m.leagues[id]; ok {
		l.Active = false
	}
	return nil
}

func (m *memoryLeagues) CreateDivision(division *Division) error {
	division.ID = m.nextID
	m.nextID++
	copied := *division
	m.divisions[division.ID] = &copied
	return nil
}

func (m *memoryLeagues) GetDivisionByID(id uint) (*Division, error) {
	d, ok := m.divisions[id]
	if !ok {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}

func (m *memoryLeagues) GetDivisionsByLeagueID(leagueID uint) ([]Division, error) {
	var out []Division
	for _, d := range m.divisions {
		if d.LeagueID == leagueID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *memoryLeagues) UpdateDivision(division *Division) error {
	copied := *division
	m.divisions[division.ID] = &copied
	return nil
}

func (m *memoryLeagues) DeleteDivision(id uint) error {
	delete(m.divisions, id)
	return nil
}

func (m *memoryLeagues) AddLeagueMember(member *LeagueUser) error {
	key := pairKey{member.LeagueID, member.UserID}
	if _, exists := m.members[key]; exists {
		return ErrAlreadyMember
	}
	copied := *member
	m.members[key] = &copied
	return nil
}

func (m *memoryLeagues) GetLeagueMember(leagueID, userID uint) (*LeagueUser, error) {
	mem, ok := m.members[pairKey{leagueID, userID}]
	if !ok {
		return nil, nil
	}
	copied := *mem
	return &copied, nil
}

func (m *memoryLeagues) GetLeagueMembers(leagueID uint, page, limit int) ([]LeagueUser, int64, error) {
	var out []LeagueUser
	for key, mem := range m.members {
		if key.leagueID == leagueID {
			out = append(out, *mem)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memoryLeagues) UpdateLeagueMemberRole(leagueID, userID uint, role string) error {
	if mem, ok := m.members[pairKey{leagueID, userID}]; ok {
		mem.Role = role
	}
	return nil
}

func (m *memoryLeagues) RemoveLeagueMember(leagueID, userID uint) error {
	delete(m.members, pairKey{leagueID, userID})
	return nil
}

func (m *memoryLeagues) WithTransaction(txFunc func(LeagueRepository) error) error {
	return txFunc(m)
}

// leagueView adapts memoryLeagues into an access.Store so the membership
// rows drive the capability checks in the handlers under test.
type leagueView struct {
	repo *memoryLeagues
}

func (v *leagueView) GetTeam(teamID uint) (*access.TeamRef, error) {
	return nil, nil
}

func (v *leagueView) IsLeagueAdmin(userID, leagueID uint) (bool, error) {
	mem, ok := v.repo.members[pairKey{leagueID, userID}]
	return ok && mem.Role == access.RoleLeagueAdmin, nil
}

func (v *leagueView) TeamRole(userID, teamID uint) (string, error) {
	return "", nil
}

func (v *leagueView) AdminOfAnyLeague(userID uint) (bool, error) {
	for key, mem := range v.repo.members {
		l := v.repo.leagues[key.leagueID]
		if key.userID == userID && mem.Role == access.RoleLeagueAdmin && l != nil && l.Active {
			return true, nil
		}
	}
	return false, nil
}

func (v *leagueView) ActiveLeagueMemberships(userID uint) ([]access.LeagueMembership, error) {
	return nil, nil
}

func (v *leagueView) ActiveTeamMemberships(userID uint) ([]access.TeamMembership, error) {
	return nil, nil
}

func newTestController() (*LeagueController, *memoryLeagues) {
	repo := newMemoryLeagues()
	evaluator := access.NewEvaluator(&leagueView{repo: repo})
	return NewLeagueController(repo, evaluator, &config.Config{}), repo
}

func perform(t *testing.T, userID uint, method string, body interface{}, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	c.Request = httptest.NewRequest(method, "/", &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	if userID != 0 {
		c.Set(middleware.AuthUserIDKey, userID)
	}
	return c, w
}

func seedLeague(t *testing.T, repo *memoryLeagues, adminID uint) uint {
	t.Helper()
	league := &League{Name: "Metro League", Sport: "soccer", Active: true}
	require.NoError(t, repo.CreateLeague(league))
	require.NoError(t, repo.AddLeagueMember(&LeagueUser{
		UserID:   adminID,
		LeagueID: league.ID,
		Role:     access.RoleLeagueAdmin,
		JoinedAt: time.Now(),
	}))
	return league.ID
}

func TestAddLeagueMember_DuplicateIsConflict(t *testing.T) {
	controller, repo := newTestController()
	leagueID := seedLeague(t, repo, 1)

	params := []gin.Param{{Key: "league_id", Value: "1"}}
	body := AddLeagueMemberRequest{UserID: 2}

	c, w := perform(t, 1, http.MethodPost, body, params...)
	controller.AddLeagueMember(c)
	require.Equal(t, http.StatusCreated, w.Code)

	c, w = perform(t, 1, http.MethodPost, body, params...)
	controller.AddLeagueMember(c)
	assert.Equal(t, http.StatusConflict, w.Code)

	members, _, err := repo.GetLeagueMembers(leagueID, 1, 50)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestRemoveLeagueMember_FreesThePairForRejoining(t *testing.T) {
	controller, repo := newTestController()
	seedLeague(t, repo, 1)

	addParams := []gin.Param{{Key: "league_id", Value: "1"}}
	body := AddLeagueMemberRequest{UserID: 2}

	c, w := perform(t, 1, http.MethodPost, body, addParams...)
	controller.AddLeagueMember(c)
	require.Equal(t, http.StatusCreated, w.Code)

	c, w = perform(t, 1, http.MethodDelete, nil,
		gin.Param{Key: "league_id", Value: "1"},
		gin.Param{Key: "user_id", Value: "2"},
	)
	controller.RemoveLeagueMember(c)
	require.Equal(t, http.StatusOK, w.Code)

	// A removed member must be able to come back; the old row may not
	// keep occupying the unique (user, league) pair.
	c, w = perform(t, 1, http.MethodPost, body, addParams...)
	controller.AddLeagueMember(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	mem, err := repo.GetLeagueMember(1, 2)
	require.NoError(t, err)
	require.NotNil(t, mem)
}

func TestCreateDivision_RequiresLiveLeague(t *testing.T) {
	controller, repo := newTestController()
	seedLeague(t, repo, 1)

	params := []gin.Param{{Key: "league_id", Value: "1"}}
	body := CreateDivisionRequest{Name: "U12"}

	c, w := perform(t, 1, http.MethodPost, body, params...)
	controller.CreateDivision(c)
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, repo.DeactivateLeague(1))

	c, w = perform(t, 1, http.MethodPost, body, params...)
	controller.CreateDivision(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	divisions, err := repo.GetDivisionsByLeagueID(1)
	require.NoError(t, err)
	assert.Len(t, divisions, 1)
}
