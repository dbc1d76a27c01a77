package team

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrAlreadyMember is returned when a (user, team) membership row
	// already exists; the unique constraint decides under concurrency.
	ErrAlreadyMember = errors.New("user is already a member of this team")
	// ErrDivisionLeagueMismatch is returned when a division assignment
	// would cross league boundaries.
	ErrDivisionLeagueMismatch = errors.New("division does not belong to the team's league")
)

// TeamRepository defines the interface for team data operations
type TeamRepository interface {
	// Team operations
	CreateTeam(team *Team) error
	GetTeamByID(id uint) (*Team, error)
	GetTeamsByLeagueID(leagueID uint, page, limit int) ([]Team, int64, error)
	UpdateTeam(team *Team) error
	DeactivateTeam(id uint) error
	AssignDivision(teamID uint, divisionID *uint) error
	AttachToLeague(teamID, leagueID uint) error

	// TeamMember operations
	AddTeamMember(member *TeamMember) error
	GetTeamMember(teamID, userID uint) (*TeamMember, error)
	GetTeamMembers(teamID uint, page, limit int) ([]TeamMember, int64, error)
	UpdateTeamMemberRole(teamID, userID uint, role string) error
	RemoveTeamMember(teamID, userID uint) error
	CountTeamAdmins(teamID uint) (int64, error)

	// DivisionLeague resolves the league a division belongs to.
	DivisionLeague(divisionID uint) (*uint, error)

	WithTransaction(txFunc func(TeamRepository) error) error
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new instance of TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

// --- Team Operations ---

func (r *teamRepository) CreateTeam(team *Team) error {
	return r.db.Create(team).Error
}

func (r *teamRepository) GetTeamByID(id uint) (*Team, error) {
	var team Team
	if err := r.db.First(&team, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) GetTeamsByLeagueID(leagueID uint, page, limit int) ([]Team, int64, error) {
	var teams []Team
	var total int64

	query := r.db.Model(&Team{}).Where("league_id = ? AND active = ?", leagueID, true)
	query.Count(&total)

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("name asc").Find(&teams).Error; err != nil {
		return nil, 0, err
	}
	return teams, total, nil
}

func (r *teamRepository) UpdateTeam(team *Team) error {
	return r.db.Save(team).Error
}

func (r *teamRepository) DeactivateTeam(id uint) error {
	return r.db.Model(&Team{}).Where("id = ?", id).Update("active", false).Error
}

// AssignDivision sets or clears a team's division. A non-nil division must
// belong to the team's league; a standalone team cannot hold a division.
func (r *teamRepository) AssignDivision(teamID uint, divisionID *uint) error {
	if divisionID == nil {
		return r.db.Model(&Team{}).Where("id = ?", teamID).Update("division_id", nil).Error
	}

	team, err := r.GetTeamByID(teamID)
	if err != nil {
		return err
	}
	if team == nil {
		return gorm.ErrRecordNotFound
	}

	divisionLeague, err := r.DivisionLeague(*divisionID)
	if err != nil {
		return err
	}
	if divisionLeague == nil || team.LeagueID == nil || *divisionLeague != *team.LeagueID {
		return ErrDivisionLeagueMismatch
	}

	return r.db.Model(&Team{}).Where("id = ?", teamID).Update("division_id", *divisionID).Error
}

// AttachToLeague places a standalone team under a league. Any existing
// division assignment is cleared since it cannot belong to the new league.
func (r *teamRepository) AttachToLeague(teamID, leagueID uint) error {
	return r.db.Model(&Team{}).Where("id = ?", teamID).
		Updates(map[string]interface{}{"league_id": leagueID, "division_id": nil}).Error
}

func (r *teamRepository) DivisionLeague(divisionID uint) (*uint, error) {
	var row struct{ LeagueID uint }
	err := r.db.Table("divisions").
		Select("league_id").
		Where("id = ? AND deleted_at IS NULL", divisionID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row.LeagueID, nil
}

// --- TeamMember Operations ---

func (r *teamRepository) AddTeamMember(member *TeamMember) error {
	err := r.db.Create(member).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyMember
	}
	return err
}

func (r *teamRepository) GetTeamMember(teamID, userID uint) (*TeamMember, error) {
	var member TeamMember
	if err := r.db.Where("team_id = ? AND user_id = ?", teamID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (r *teamRepository) GetTeamMembers(teamID uint, page, limit int) ([]TeamMember, int64, error) {
	var members []TeamMember
	var total int64

	query := r.db.Model(&TeamMember{}).Where("team_id = ?", teamID)
	query.Count(&total)

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("joined_at asc").Find(&members).Error; err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (r *teamRepository) UpdateTeamMemberRole(teamID, userID uint, role string) error {
	return r.db.Model(&TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Update("role", role).Error
}

// RemoveTeamMember hard-deletes the row so that the derived capability is
// gone on the very next access check.
func (r *teamRepository) RemoveTeamMember(teamID, userID uint) error {
	return r.db.Unscoped().Where("team_id = ? AND user_id = ?", teamID, userID).Delete(&TeamMember{}).Error
}

func (r *teamRepository) CountTeamAdmins(teamID uint) (int64, error) {
	var count int64
	err := r.db.Model(&TeamMember{}).Where("team_id = ? AND role = ?", teamID, "admin").Count(&count).Error
	return count, err
}

func (r *teamRepository) WithTransaction(txFunc func(TeamRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &teamRepository{db: tx}
		return txFunc(txRepo)
	})
}
