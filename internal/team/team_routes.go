package team

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/huddleup/huddle/config"
	"github.com/huddleup/huddle/internal/access"
	mw "github.com/huddleup/huddle/internal/middleware"
)

// RegisterTeamRoutes sets up all team-related routes
func RegisterTeamRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, jwtSecret string) {
	teamRepo := NewTeamRepository(db)
	evaluator := access.NewEvaluator(access.NewStore(db))
	teamController := NewTeamController(teamRepo, evaluator, appConfig)

	// Public: league rosters are browsable, individual teams are not.
	router.GET("/leagues/:league_id/teams", teamController.GetLeagueTeams)

	authRoutes := router.Group("/")
	authRoutes.Use(mw.AuthMiddleware(jwtSecret, db))
	{
		authRoutes.POST("/teams", teamController.CreateTeam)
		authRoutes.GET("/teams/:team_id", teamController.GetTeamByID)
		authRoutes.PUT("/teams/:team_id", teamController.UpdateTeam)
		authRoutes.DELETE("/teams/:team_id", teamController.DeactivateTeam)
		authRoutes.PUT("/teams/:team_id/division", teamController.AssignDivision)
		authRoutes.PUT("/teams/:team_id/league", teamController.AttachToLeague)

		authRoutes.GET("/users/me/teams", teamController.GetMyTeams)

		authRoutes.GET("/teams/:team_id/members", teamController.GetTeamMembers)
		authRoutes.POST("/teams/:team_id/members", teamController.AddTeamMember)
		authRoutes.PUT("/teams/:team_id/members/:user_id/role", teamController.UpdateTeamMemberRole)
		authRoutes.DELETE("/teams/:team_id/members/:user_id", teamController.RemoveTeamMember)
		authRoutes.POST("/teams/:team_id/leave", teamController.LeaveTeam)
	}
}
