package event

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddleup/huddle/internal/access"
	"github.com/huddleup/huddle/internal/middleware"
)

// memoryEvents implements EventRepository over maps, honoring the
// one-row-per-(event, user) RSVP contract.
type memoryEvents struct {
	nextID uint
	events map[uint]*Event
	rsvps  map[uint]map[uint]*RSVP
}

func newMemoryEvents() *memoryEvents {
	return &memoryEvents{
		nextID: 1,
		events: make(map[uint]*Event),
		rsvps:  make(map[uint]map[uint]*RSVP),
	}
}

func (m *memoryEvents) CreateEvent(event *Event) error {
	event.ID = m.nextID
	m.nextID++
	m.events[event.ID] = event
	return nil
}

func (m *memoryEvents) GetEventByID(id uint) (*Event, error) {
	ev, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	copied := *ev
	return &copied, nil
}

func (m *memoryEvents) GetEventsByTeamID(teamID uint, from *time.Time, page, limit int) ([]Event, int64, error) {
	var out []Event
	for _, ev := range m.events {
		if ev.TeamID != teamID {
			continue
		}
		if from != nil && ev.StartsAt.Before(*from) {
			continue
		}
		out = append(out, *ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, int64(len(out)), nil
}

func (m *memoryEvents) UpdateEvent(event *Event) error {
	copied := *event
	m.events[event.ID] = &copied
	return nil
}

func (m *memoryEvents) DeleteEvent(id uint) error {
	delete(m.events, id)
	return nil
}

func (m *memoryEvents) SetRSVP(rsvp *RSVP) error {
	byUser, ok := m.rsvps[rsvp.EventID]
	if !ok {
		byUser = make(map[uint]*RSVP)
		m.rsvps[rsvp.EventID] = byUser
	}
	if existing, ok := byUser[rsvp.UserID]; ok {
		existing.Status = rsvp.Status
		*rsvp = *existing
		return nil
	}
	copied := *rsvp
	byUser[rsvp.UserID] = &copied
	return nil
}

func (m *memoryEvents) GetEventRSVPs(eventID uint) ([]RSVP, error) {
	var out []RSVP
	for _, r := range m.rsvps[eventID] {
		out = append(out, *r)
	}
	return out, nil
}

func (m *memoryEvents) GetUserRSVP(eventID, userID uint) (*RSVP, error) {
	r, ok := m.rsvps[eventID][userID]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

// teamStore is a minimal access.Store for a single team setup.
type teamStore struct {
	teams     map[uint]*access.TeamRef
	teamRoles map[uint]map[uint]string
}

func newTeamStore() *teamStore {
	return &teamStore{
		teams:     make(map[uint]*access.TeamRef),
		teamRoles: make(map[uint]map[uint]string),
	}
}

func (s *teamStore) addTeam(teamID uint, active bool) {
	s.teams[teamID] = &access.TeamRef{ID: teamID, Active: active}
}

func (s *teamStore) setRole(userID, teamID uint, role string) {
	if s.teamRoles[userID] == nil {
		s.teamRoles[userID] = make(map[uint]string)
	}
	s.teamRoles[userID][teamID] = role
}

func (s *teamStore) GetTeam(teamID uint) (*access.TeamRef, error) {
	return s.teams[teamID], nil
}

func (s *teamStore) IsLeagueAdmin(userID, leagueID uint) (bool, error) {
	return false, nil
}

func (s *teamStore) TeamRole(userID, teamID uint) (string, error) {
	return s.teamRoles[userID][teamID], nil
}

func (s *teamStore) AdminOfAnyLeague(userID uint) (bool, error) {
	return false, nil
}

func (s *teamStore) ActiveLeagueMemberships(userID uint) ([]access.LeagueMembership, error) {
	return nil, nil
}

func (s *teamStore) ActiveTeamMemberships(userID uint) ([]access.TeamMembership, error) {
	return nil, nil
}

func newTestController(store access.Store) (*EventController, *memoryEvents) {
	repo := newMemoryEvents()
	return NewEventController(repo, access.NewEvaluator(store)), repo
}

func request(t *testing.T, userID uint, method string, body interface{}, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
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

func TestCreateEvent_AdminOnly(t *testing.T) {
	store := newTeamStore()
	store.addTeam(7, true)
	store.setRole(1, 7, access.TeamRoleAdmin)
	store.setRole(2, 7, access.TeamRoleMember)

	controller, repo := newTestController(store)
	body := CreateEventRequest{
		Title:    "Season opener",
		Kind:     "game",
		StartsAt: time.Now().Add(48 * time.Hour),
	}

	t.Run("admin creates", func(t *testing.T) {
		c, w := request(t, 1, http.MethodPost, body, gin.Param{Key: "team_id", Value: "7"})
		controller.CreateEvent(c)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Len(t, repo.events, 1)
	})

	t.Run("member is refused", func(t *testing.T) {
		c, w := request(t, 2, http.MethodPost, body, gin.Param{Key: "team_id", Value: "7"})
		controller.CreateEvent(c)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("outsider sees nothing", func(t *testing.T) {
		c, w := request(t, 3, http.MethodPost, body, gin.Param{Key: "team_id", Value: "7"})
		controller.CreateEvent(c)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetTeamEvents_MemberVisibility(t *testing.T) {
	store := newTeamStore()
	store.addTeam(7, true)
	store.setRole(2, 7, access.TeamRoleMember)

	controller, repo := newTestController(store)
	require.NoError(t, repo.CreateEvent(&Event{
		TeamID:   7,
		Title:    "Practice",
		Kind:     KindPractice,
		StartsAt: time.Now().Add(24 * time.Hour),
	}))

	c, w := request(t, 2, http.MethodGet, nil, gin.Param{Key: "team_id", Value: "7"})
	controller.GetTeamEvents(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = request(t, 9, http.MethodGet, nil, gin.Param{Key: "team_id", Value: "7"})
	controller.GetTeamEvents(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetRSVP_OverwritesPreviousAnswer(t *testing.T) {
	store := newTeamStore()
	store.addTeam(7, true)
	store.setRole(2, 7, access.TeamRoleMember)

	controller, repo := newTestController(store)
	require.NoError(t, repo.CreateEvent(&Event{
		TeamID:   7,
		Title:    "Game",
		Kind:     KindGame,
		StartsAt: time.Now().Add(24 * time.Hour),
	}))

	params := []gin.Param{
		{Key: "team_id", Value: "7"},
		{Key: "event_id", Value: "1"},
	}

	c, w := request(t, 2, http.MethodPut, RSVPRequest{Status: "going"}, params...)
	controller.SetRSVP(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = request(t, 2, http.MethodPut, RSVPRequest{Status: "declined"}, params...)
	controller.SetRSVP(c)
	require.Equal(t, http.StatusOK, w.Code)

	rsvps, err := repo.GetEventRSVPs(1)
	require.NoError(t, err)
	require.Len(t, rsvps, 1)
	assert.Equal(t, RSVPDeclined, rsvps[0].Status)
}

func TestEvent_WrongTeamPathReadsAsMissing(t *testing.T) {
	store := newTeamStore()
	store.addTeam(7, true)
	store.addTeam(8, true)
	store.setRole(1, 7, access.TeamRoleAdmin)
	store.setRole(1, 8, access.TeamRoleAdmin)

	controller, repo := newTestController(store)
	require.NoError(t, repo.CreateEvent(&Event{
		TeamID:   7,
		Title:    "Game",
		Kind:     KindGame,
		StartsAt: time.Now().Add(24 * time.Hour),
	}))

	c, w := request(t, 1, http.MethodDelete, nil,
		gin.Param{Key: "team_id", Value: "8"},
		gin.Param{Key: "event_id", Value: "1"},
	)
	controller.DeleteEvent(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Len(t, repo.events, 1)
}
