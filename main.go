package main

import (
	"log"

	"github.com/huddleup/huddle/config"
	_ "github.com/huddleup/huddle/docs"
	"github.com/huddleup/huddle/internal/event"
	"github.com/huddleup/huddle/internal/invitation"
	"github.com/huddleup/huddle/internal/league"
	"github.com/huddleup/huddle/internal/team"
	"github.com/huddleup/huddle/internal/user"
	"github.com/huddleup/huddle/routes"
)

// @title HuddleUp REST API
// @version 1.0
// @description Team and league management server for community sports.
// @host localhost:8088
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()

	err := config.DB.AutoMigrate(
		&user.User{}, &user.RefreshToken{},
		&league.League{}, &league.Division{}, &league.LeagueUser{},
		&team.Team{}, &team.TeamMember{},
		&invitation.Invitation{},
		&event.Event{}, &event.RSVP{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("AutoMigrate successful")

	r := routes.SetupRoutes(config.DB, cfg)

	// Use port from loaded configuration
	log.Printf("Starting server on port %s in %s mode\n", cfg.App.Port, cfg.App.Env)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
