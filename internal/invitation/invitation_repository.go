package invitation

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// InvitationRepository defines the interface for invitation data operations
type InvitationRepository interface {
	CreateInvitation(inv *Invitation) error
	GetInvitationByID(id uint) (*Invitation, error)
	GetInvitationByToken(token string) (*Invitation, error)
	GetInvitationsByTeamID(teamID uint, status string, page, limit int) ([]Invitation, int64, error)
	CancelInvitation(id uint) error
	Consume(token string, now time.Time) (*Invitation, error)
}

type invitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new instance of InvitationRepository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) CreateInvitation(inv *Invitation) error {
	return r.db.Create(inv).Error
}

func (r *invitationRepository) GetInvitationByID(id uint) (*Invitation, error) {
	var inv Invitation
	if err := r.db.First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *invitationRepository) GetInvitationByToken(token string) (*Invitation, error) {
	var inv Invitation
	if err := r.db.Where("token = ?", token).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *invitationRepository) GetInvitationsByTeamID(teamID uint, status string, page, limit int) ([]Invitation, int64, error) {
	var invitations []Invitation
	var total int64

	query := r.db.Model(&Invitation{}).Where("team_id = ?", teamID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query.Count(&total)

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&invitations).Error; err != nil {
		return nil, 0, err
	}
	return invitations, total, nil
}

func (r *invitationRepository) CancelInvitation(id uint) error {
	return r.db.Model(&Invitation{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Update("status", StatusCancelled).Error
}

// Consume redeems the token with at-most-once semantics. The transition to
// consumed is a conditional update on the pending status, not a
// read-then-write, so of N concurrent attempts exactly one sees
// RowsAffected == 1; the rest observe ErrAlreadyConsumed.
func (r *invitationRepository) Consume(token string, now time.Time) (*Invitation, error) {
	inv, err := r.GetInvitationByToken(token)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrNotFound
	}
	if err := inv.Redeemable(now); err != nil {
		return nil, err
	}

	res := r.db.Model(&Invitation{}).
		Where("token = ? AND status = ?", token, StatusPending).
		Updates(map[string]interface{}{"status": StatusConsumed, "consumed_at": now})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race: another request transitioned it first.
		return nil, ErrAlreadyConsumed
	}

	inv.Status = StatusConsumed
	inv.ConsumedAt = &now
	return inv, nil
}
