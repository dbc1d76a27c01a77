package invitation

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/huddleup/huddle/config"
	"github.com/huddleup/huddle/internal/access"
	mw "github.com/huddleup/huddle/internal/middleware"
)

// RegisterInvitationRoutes sets up all invitation-related routes
func RegisterInvitationRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, jwtSecret string) {
	invitationRepo := NewInvitationRepository(db)
	evaluator := access.NewEvaluator(access.NewStore(db))
	invitationController := NewInvitationController(invitationRepo, db, evaluator, appConfig)

	// Public: redeeming a token is how invited users get their account.
	router.POST("/invitations/accept", invitationController.AcceptInvitation)

	authRoutes := router.Group("/")
	authRoutes.Use(mw.AuthMiddleware(jwtSecret, db))
	{
		authRoutes.POST("/teams/:team_id/invitations", invitationController.CreateInvitation)
		authRoutes.GET("/teams/:team_id/invitations", invitationController.GetTeamInvitations)
		authRoutes.DELETE("/teams/:team_id/invitations/:invitation_id", invitationController.CancelInvitation)
	}
}
