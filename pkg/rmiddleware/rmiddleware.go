package rmiddleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/huddleup/huddle/internal/access"
	"github.com/huddleup/huddle/pkg/responses"
)

// SystemAdminMiddleware gates a route group to system admins, that is users
// who hold the league_admin role in at least one active league. Must run
// after the auth middleware.
func SystemAdminMiddleware(evaluator *access.Evaluator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := access.CurrentUser(c)
		if err != nil {
			access.Respond(c, err)
			c.Abort()
			return
		}

		ok, err := evaluator.IsSystemAdmin(userID)
		if err != nil {
			responses.InternalServerError(c, "Failed to check permissions")
			c.Abort()
			return
		}
		if !ok {
			responses.Forbidden(c, "System admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// LeagueAdminMiddleware gates a route group to admins of the league named by
// the given path parameter. Must run after the auth middleware.
func LeagueAdminMiddleware(evaluator *access.Evaluator, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		leagueID, err := strconv.ParseUint(c.Param(param), 10, 32)
		if err != nil || leagueID == 0 {
			responses.BadRequest(c, "Invalid "+param)
			c.Abort()
			return
		}

		if _, err := evaluator.RequireLeagueAdmin(c, uint(leagueID)); err != nil {
			access.Respond(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}
