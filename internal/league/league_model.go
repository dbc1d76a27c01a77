package league

import (
	"time"

	"gorm.io/gorm"
)

// League is a top-level organization owning divisions and teams.
type League struct {
	gorm.Model
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	Sport       string `json:"sport" gorm:"index"`
	Active      bool   `json:"active" gorm:"default:true;index"`
	CreatedByID uint   `json:"created_by_id" gorm:"index"`
}

// Division groups teams within a league, typically by age or skill bracket.
type Division struct {
	gorm.Model
	LeagueID   uint   `json:"league_id" gorm:"index;not null"`
	Name       string `json:"name" gorm:"not null"`
	AgeGroup   string `json:"age_group"`
	SkillLevel string `json:"skill_level"`
}

// LeagueUser is a user's membership in a league. The composite unique index
// guarantees at most one row per (user, league) pair; a concurrent duplicate
// insert fails at the database, never silently merges.
type LeagueUser struct {
	gorm.Model
	UserID   uint      `json:"user_id" gorm:"uniqueIndex:idx_league_users_pair;not null"`
	LeagueID uint      `json:"league_id" gorm:"uniqueIndex:idx_league_users_pair;not null"`
	Role     string    `json:"role" gorm:"default:'member';not null"`
	JoinedAt time.Time `json:"joined_at"`
}
