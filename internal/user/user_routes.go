package user

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/huddleup/huddle/config"
	"github.com/huddleup/huddle/internal/access"
	"github.com/huddleup/huddle/internal/middleware"
	"github.com/huddleup/huddle/pkg/rmiddleware"
)

// RegisterUserRoutes wires mode resolution and account approval endpoints.
func RegisterUserRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, jwtSecret string) {
	repo := NewUserRepository(db)
	evaluator := access.NewEvaluator(access.NewStore(db))
	controller := NewUserController(repo, evaluator)

	me := router.Group("/users/me")
	me.Use(middleware.AuthMiddleware(jwtSecret, db))
	{
		me.GET("/mode", controller.GetMyMode)
		me.GET("/context", controller.GetMyPrimaryContext)
	}

	admin := router.Group("/admin/users")
	admin.Use(middleware.AuthMiddleware(jwtSecret, db))
	admin.Use(rmiddleware.SystemAdminMiddleware(evaluator))
	{
		admin.GET("/pending", controller.GetPendingUsers)
		admin.POST("/:user_id/approve", controller.ApproveUser)
	}
}
