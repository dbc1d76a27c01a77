package access

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddleup/huddle/internal/middleware"
)

func authedContext(t *testing.T, userID uint) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if userID != 0 {
		c.Set(middleware.AuthUserIDKey, userID)
	}
	return c, w
}

func TestRequireTeamMember(t *testing.T) {
	store := newFakeStore()
	store.addTeam(100, uintPtr(10), true)
	store.setTeamRole(2, 100, TeamRoleMember)

	e := NewEvaluator(store)

	t.Run("member passes", func(t *testing.T) {
		c, _ := authedContext(t, 2)
		userID, err := e.RequireTeamMember(c, 100)
		require.NoError(t, err)
		assert.Equal(t, uint(2), userID)
	})

	t.Run("outsider is told nothing exists", func(t *testing.T) {
		c, _ := authedContext(t, 3)
		_, err := e.RequireTeamMember(c, 100)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("no session", func(t *testing.T) {
		c, _ := authedContext(t, 0)
		_, err := e.RequireTeamMember(c, 100)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestRequireTeamAdmin(t *testing.T) {
	store := newFakeStore()
	store.addTeam(100, uintPtr(10), true)
	store.setTeamRole(2, 100, TeamRoleMember)
	store.setTeamRole(3, 100, TeamRoleAdmin)
	store.setLeagueAdmin(4, 10)

	e := NewEvaluator(store)

	t.Run("team admin passes", func(t *testing.T) {
		c, _ := authedContext(t, 3)
		userID, err := e.RequireTeamAdmin(c, 100)
		require.NoError(t, err)
		assert.Equal(t, uint(3), userID)
	})

	t.Run("league admin passes without a membership row", func(t *testing.T) {
		c, _ := authedContext(t, 4)
		userID, err := e.RequireTeamAdmin(c, 100)
		require.NoError(t, err)
		assert.Equal(t, uint(4), userID)
	})

	t.Run("plain member is refused, not hidden", func(t *testing.T) {
		c, _ := authedContext(t, 2)
		_, err := e.RequireTeamAdmin(c, 100)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("outsider is told nothing exists", func(t *testing.T) {
		c, _ := authedContext(t, 5)
		_, err := e.RequireTeamAdmin(c, 100)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRequireSystemAdmin(t *testing.T) {
	store := newFakeStore()
	store.setLeagueAdmin(1, 10)

	e := NewEvaluator(store)

	c, _ := authedContext(t, 1)
	userID, err := e.RequireSystemAdmin(c)
	require.NoError(t, err)
	assert.Equal(t, uint(1), userID)

	c, _ = authedContext(t, 2)
	_, err = e.RequireSystemAdmin(c)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRespond_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized},
		{"unauthorized", ErrUnauthorized, http.StatusForbidden},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := authedContext(t, 1)
			Respond(c, tt.err)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
