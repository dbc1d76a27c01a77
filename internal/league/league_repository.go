package league

import (
	"errors"

	"gorm.io/gorm"
)

// ErrAlreadyMember is returned when a (user, league) membership row already
// exists; the unique constraint is the arbiter under concurrent inserts.
var ErrAlreadyMember = errors.New("user is already a member of this league")

// LeagueRepository defines the interface for league data operations
type LeagueRepository interface {
	// League operations
	CreateLeague(league *League) error
	GetLeagueByID(id uint) (*League, error)
	GetAllLeagues(page, limit int, activeOnly bool) ([]League, int64, error)
	UpdateLeague(league *League) error
	DeactivateLeague(id uint) error

	// Division operations
	CreateDivision(division *Division) error
	GetDivisionByID(id uint) (*Division, error)
	GetDivisionsByLeagueID(leagueID uint) ([]Division, error)
	UpdateDivision(division *Division) error
	DeleteDivision(id uint) error

	// Membership operations
	AddLeagueMember(member *LeagueUser) error
	GetLeagueMember(leagueID, userID uint) (*LeagueUser, error)
	GetLeagueMembers(leagueID uint, page, limit int) ([]LeagueUser, int64, error)
	UpdateLeagueMemberRole(leagueID, userID uint, role string) error
	RemoveLeagueMember(leagueID, userID uint) error

	WithTransaction(txFunc func(LeagueRepository) error) error
}

type leagueRepository struct {
	db *gorm.DB
}

// NewLeagueRepository creates a new instance of LeagueRepository
func NewLeagueRepository(db *gorm.DB) LeagueRepository {
	return &leagueRepository{db: db}
}

// --- League Operations ---

func (r *leagueRepository) CreateLeague(league *League) error {
	return r.db.Create(league).Error
}

func (r *leagueRepository) GetLeagueByID(id uint) (*League, error) {
	var league League
	if err := r.db.First(&league, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &league, nil
}

func (r *leagueRepository) GetAllLeagues(page, limit int, activeOnly bool) ([]League, int64, error) {
	var leagues []League
	var total int64

	query := r.db.Model(&League{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	query.Count(&total)

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&leagues).Error; err != nil {
		return nil, 0, err
	}
	return leagues, total, nil
}

func (r *leagueRepository) UpdateLeague(league *League) error {
	return r.db.Save(league).Error
}

func (r *leagueRepository) DeactivateLeague(id uint) error {
	return r.db.Model(&League{}).Where("id = ?", id).Update("active", false).Error
}

// --- Division Operations ---

func (r *leagueRepository) CreateDivision(division *Division) error {
	return r.db.Create(division).Error
}

func (r *leagueRepository) GetDivisionByID(id uint) (*Division, error) {
	var division Division
	if err := r.db.First(&division, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &division, nil
}

func (r *leagueRepository) GetDivisionsByLeagueID(leagueID uint) ([]Division, error) {
	var divisions []Division
	err := r.db.Where("league_id = ?", leagueID).Order("name asc").Find(&divisions).Error
	return divisions, err
}

func (r *leagueRepository) UpdateDivision(division *Division) error {
	return r.db.Save(division).Error
}

func (r *leagueRepository) DeleteDivision(id uint) error {
	// Teams keep running; they just lose their bracket assignment.
	if err := r.db.Table("teams").Where("division_id = ?", id).Update("division_id", nil).Error; err != nil {
		return err
	}
	return r.db.Delete(&Division{}, id).Error
}

// --- Membership Operations ---

func (r *leagueRepository) AddLeagueMember(member *LeagueUser) error {
	err := r.db.Create(member).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyMember
	}
	return err
}

func (r *leagueRepository) GetLeagueMember(leagueID, userID uint) (*LeagueUser, error) {
	var member LeagueUser
	err := r.db.Where("league_id = ? AND user_id = ?", leagueID, userID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (r *leagueRepository) GetLeagueMembers(leagueID uint, page, limit int) ([]LeagueUser, int64, error) {
	var members []LeagueUser
	var total int64

	query := r.db.Model(&LeagueUser{}).Where("league_id = ?", leagueID)
	query.Count(&total)

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("joined_at asc").Find(&members).Error; err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (r *leagueRepository) UpdateLeagueMemberRole(leagueID, userID uint, role string) error {
	return r.db.Model(&LeagueUser{}).
		Where("league_id = ? AND user_id = ?", leagueID, userID).
		Update("role", role).Error
}

// RemoveLeagueMember hard-deletes the row. A soft delete would keep the
// (user, league) pair occupying the unique index and block rejoining.
func (r *leagueRepository) RemoveLeagueMember(leagueID, userID uint) error {
	return r.db.Unscoped().Where("league_id = ? AND user_id = ?", leagueID, userID).Delete(&LeagueUser{}).Error
}

func (r *leagueRepository) WithTransaction(txFunc func(LeagueRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &leagueRepository{db: tx}
		return txFunc(txRepo)
	})
}
