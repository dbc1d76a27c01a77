package event

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/huddleup/huddle/config"
	"github.com/huddleup/huddle/internal/access"
	"github.com/huddleup/huddle/internal/middleware"
)

// RegisterEventRoutes wires team event and RSVP endpoints. Everything is
// behind authentication; per-team authorization happens in the handlers.
func RegisterEventRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, jwtSecret string) {
	repo := NewEventRepository(db)
	evaluator := access.NewEvaluator(access.NewStore(db))
	controller := NewEventController(repo, evaluator)

	events := router.Group("/teams/:team_id/events")
	events.Use(middleware.AuthMiddleware(jwtSecret, db))
	{
		events.POST("", controller.CreateEvent)
		events.GET("", controller.GetTeamEvents)
		events.PUT("/:event_id", controller.UpdateEvent)
		events.DELETE("/:event_id", controller.DeleteEvent)
		events.PUT("/:event_id/rsvp", controller.SetRSVP)
		events.GET("/:event_id/rsvps", controller.GetEventRSVPs)
	}
}
