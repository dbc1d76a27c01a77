package access

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huddleup/huddle/internal/middleware"
	"github.com/huddleup/huddle/pkg/responses"
)

// CurrentUser resolves the authenticated user id from the gin context, as
// placed there by the auth middleware. Returns ErrUnauthenticated when no
// valid session was established.
func CurrentUser(c *gin.Context) (uint, error) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return 0, ErrUnauthenticated
	}
	return userID, nil
}

// RequireTeamMember resolves identity and asserts read access to the team.
// Denials surface as ErrNotFound so that non-members cannot learn whether
// the team exists.
func (e *Evaluator) RequireTeamMember(c *gin.Context, teamID uint) (uint, error) {
	userID, err := CurrentUser(c)
	if err != nil {
		return 0, err
	}
	ok, err := e.HasTeamAccess(userID, teamID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrNotFound
	}
	return userID, nil
}

// RequireTeamAdmin resolves identity and asserts administrative access to
// the team. A plain member gets ErrUnauthorized (they already know the team
// exists); a complete outsider gets ErrNotFound.
func (e *Evaluator) RequireTeamAdmin(c *gin.Context, teamID uint) (uint, error) {
	userID, err := CurrentUser(c)
	if err != nil {
		return 0, err
	}
	ok, err := e.HasTeamAdminAccess(userID, teamID)
	if err != nil {
		return 0, err
	}
	if ok {
		return userID, nil
	}
	member, err := e.IsTeamMember(userID, teamID)
	if err != nil {
		return 0, err
	}
	if member {
		return 0, ErrUnauthorized
	}
	return 0, ErrNotFound
}

// RequireLeagueAdmin resolves identity and asserts the league_admin role on
// the given league.
func (e *Evaluator) RequireLeagueAdmin(c *gin.Context, leagueID uint) (uint, error) {
	userID, err := CurrentUser(c)
	if err != nil {
		return 0, err
	}
	ok, err := e.IsLeagueAdmin(userID, leagueID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrUnauthorized
	}
	return userID, nil
}

// RequireSystemAdmin resolves identity and asserts league_admin in at least
// one active league.
func (e *Evaluator) RequireSystemAdmin(c *gin.Context) (uint, error) {
	userID, err := CurrentUser(c)
	if err != nil {
		return 0, err
	}
	ok, err := e.IsSystemAdmin(userID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrUnauthorized
	}
	return userID, nil
}

// Respond maps an access error to the standard error response. Unknown
// errors are treated as server failures.
func Respond(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		responses.Unauthorized(c, "Authentication required")
	case errors.Is(err, ErrUnauthorized):
		responses.Forbidden(c, "")
	case errors.Is(err, ErrNotFound):
		responses.SendError(c, http.StatusNotFound, "Resource not found", nil)
	default:
		responses.InternalServerError(c, "")
	}
}
