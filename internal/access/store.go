package access

import (
	"errors"

	"gorm.io/gorm"
)

// gormStore queries the membership tables directly by name rather than
// importing the feature packages that own the models, so that those
// packages can in turn depend on the evaluator.
type gormStore struct {
	db *gorm.DB
}

// NewStore creates the database-backed membership store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) GetTeam(teamID uint) (*TeamRef, error) {
	var row struct {
		ID       uint
		LeagueID *uint
		Active   bool
	}
	err := s.db.Table("teams").
		Select("id", "league_id", "active").
		Where("id = ? AND deleted_at IS NULL", teamID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &TeamRef{ID: row.ID, LeagueID: row.LeagueID, Active: row.Active}, nil
}

func (s *gormStore) IsLeagueAdmin(userID, leagueID uint) (bool, error) {
	var count int64
	err := s.db.Table("league_users").
		Where("user_id = ? AND league_id = ? AND role = ? AND deleted_at IS NULL", userID, leagueID, RoleLeagueAdmin).
		Count(&count).Error
	return count > 0, err
}

func (s *gormStore) TeamRole(userID, teamID uint) (string, error) {
	var row struct{ Role string }
	err := s.db.Table("team_members").
		Select("role").
		Where("user_id = ? AND team_id = ? AND deleted_at IS NULL", userID, teamID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return row.Role, nil
}

func (s *gormStore) AdminOfAnyLeague(userID uint) (bool, error) {
	var count int64
	err := s.db.Table("league_users").
		Joins("JOIN leagues ON leagues.id = league_users.league_id").
		Where("league_users.user_id = ? AND league_users.role = ?", userID, RoleLeagueAdmin).
		Where("leagues.active = ? AND leagues.deleted_at IS NULL AND league_users.deleted_at IS NULL", true).
		Count(&count).Error
	return count > 0, err
}

func (s *gormStore) ActiveLeagueMemberships(userID uint) ([]LeagueMembership, error) {
	var memberships []LeagueMembership
	err := s.db.Table("league_users").
		Select("league_users.league_id", "leagues.name AS league_name", "league_users.role", "league_users.joined_at").
		Joins("JOIN leagues ON leagues.id = league_users.league_id").
		Where("league_users.user_id = ? AND leagues.active = ?", userID, true).
		Where("league_users.deleted_at IS NULL AND leagues.deleted_at IS NULL").
		Order("league_users.joined_at DESC").
		Scan(&memberships).Error
	return memberships, err
}

func (s *gormStore) ActiveTeamMemberships(userID uint) ([]TeamMembership, error) {
	var memberships []TeamMembership
	err := s.db.Table("team_members").
		Select("team_members.team_id", "teams.name AS team_name", "teams.league_id", "team_members.role", "team_members.joined_at").
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("team_members.user_id = ? AND teams.active = ?", userID, true).
		Where("team_members.deleted_at IS NULL AND teams.deleted_at IS NULL").
		Order("team_members.joined_at DESC").
		Scan(&memberships).Error
	return memberships, err
}
