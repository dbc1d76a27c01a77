package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/huddleup/huddle/config"
	"github.com/huddleup/huddle/internal/auth"
	"github.com/huddleup/huddle/internal/event"
	"github.com/huddleup/huddle/internal/invitation"
	"github.com/huddleup/huddle/internal/league"
	"github.com/huddleup/huddle/internal/team"
	"github.com/huddleup/huddle/internal/user"
)

func SetupRoutes(db *gorm.DB, appConfig *config.Config) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default()) // allows all origins, GET/POST/PUT

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	jwtSecret := appConfig.JWT.AccessTokenSecret

	// API routes
	api := r.Group("/api")
	auth.RegisterAuthRoutes(api, db, appConfig)
	user.RegisterUserRoutes(api, db, appConfig, jwtSecret)
	league.RegisterLeagueRoutes(api, db, appConfig, jwtSecret)
	team.RegisterTeamRoutes(api, db, appConfig, jwtSecret)
	invitation.RegisterInvitationRoutes(api, db, appConfig, jwtSecret)
	event.RegisterEventRoutes(api, db, appConfig, jwtSecret)

	return r
}
