package league

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/huddleup/huddle/config"
	"github.com/huddleup/huddle/internal/access"
	mw "github.com/huddleup/huddle/internal/middleware"
	"github.com/huddleup/huddle/pkg/rmiddleware"
)

// RegisterLeagueRoutes sets up all league-related routes
func RegisterLeagueRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, jwtSecret string) {
	leagueRepo := NewLeagueRepository(db)
	evaluator := access.NewEvaluator(access.NewStore(db))
	leagueController := NewLeagueController(leagueRepo, evaluator, appConfig)

	// Public league routes
	router.GET("/leagues", leagueController.GetAllLeagues)
	router.GET("/leagues/:league_id", leagueController.GetLeagueByID)
	router.GET("/leagues/:league_id/divisions", leagueController.GetDivisions)

	// Authenticated routes; finer-grained authorization happens in handlers.
	authRoutes := router.Group("/")
	authRoutes.Use(mw.AuthMiddleware(jwtSecret, db))
	{
		authRoutes.POST("/leagues", leagueController.CreateLeague)
		authRoutes.PUT("/leagues/:league_id", leagueController.UpdateLeague)
		authRoutes.DELETE("/leagues/:league_id", leagueController.DeactivateLeague)

		authRoutes.GET("/users/me/leagues", leagueController.GetMyLeagues)

		// Division mutations are gated at the route level.
		divisions := authRoutes.Group("/leagues/:league_id/divisions")
		divisions.Use(rmiddleware.LeagueAdminMiddleware(evaluator, "league_id"))
		{
			divisions.POST("", leagueController.CreateDivision)
			divisions.PUT("/:division_id", leagueController.UpdateDivision)
			divisions.DELETE("/:division_id", leagueController.DeleteDivision)
		}

		authRoutes.GET("/leagues/:league_id/members", leagueController.GetLeagueMembers)
		authRoutes.POST("/leagues/:league_id/members", leagueController.AddLeagueMember)
		authRoutes.PUT("/leagues/:league_id/members/:user_id/role", leagueController.UpdateLeagueMemberRole)
		authRoutes.DELETE("/leagues/:league_id/members/:user_id", leagueController.RemoveLeagueMember)
	}
}
