package user

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	GetUserByID(id uint) (*User, error)
	GetUserByEmail(email string) (*User, error)
	GetPendingUsers(page, limit int) ([]User, int64, error)
	ApproveUser(id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetUserByID(id uint) (*User, error) {
	var u User
	if err := r.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetUserByEmail(email string) (*User, error) {
	var u User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetPendingUsers(page, limit int) ([]User, int64, error) {
	var users []User
	var total int64

	query := r.db.Model(&User{}).Where("approved = ?", false)
	query.Count(&total)

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at asc").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// ApproveUser flips the approval flag. The flag only ever moves false -> true
// in normal flow, so a repeated approval is a no-op.
func (r *userRepository) ApproveUser(id uint) error {
	now := time.Now()
	res := r.db.Model(&User{}).Where("id = ? AND approved = ?", id, false).
		Updates(map[string]interface{}{"approved": true, "approved_at": &now})
	if res.Error != nil {
		return res.Error
	}
	return nil
}
