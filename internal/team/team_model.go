package team

import (
	"time"

	"gorm.io/gorm"
)

// Team is a roster-bearing unit. LeagueID is optional: a team with no
// league is "standalone" and is reachable only through its own member rows.
// DivisionID, when set, must reference a division of the team's league.
type Team struct {
	gorm.Model
	Name        string `json:"name" gorm:"not null"`
	Sport       string `json:"sport" gorm:"index"`
	Season      string `json:"season"`
	Active      bool   `json:"active" gorm:"default:true;index"`
	LeagueID    *uint  `json:"league_id" gorm:"index"`
	DivisionID  *uint  `json:"division_id" gorm:"index"`
	CreatedByID uint   `json:"created_by_id" gorm:"index"`
}

// TeamMember is a user's membership in a team. One row per (user, team)
// pair, enforced by the composite unique index.
type TeamMember struct {
	gorm.Model
	UserID   uint      `json:"user_id" gorm:"uniqueIndex:idx_team_members_pair;not null"`
	TeamID   uint      `json:"team_id" gorm:"uniqueIndex:idx_team_members_pair;not null"`
	Role     string    `json:"role" gorm:"default:'member';not null"`
	JoinedAt time.Time `json:"joined_at"`
}
