package user

import (
	"time"

	"gorm.io/gorm"
)

// User is an account holder. Approved gates authentication: an unapproved
// user can register but cannot establish a session until a system admin
// flips the flag (invited users are created pre-approved).
type User struct {
	gorm.Model
	Email      string     `gorm:"uniqueIndex;not null" json:"email"`
	Name       string     `json:"name"`
	Password   string     `json:"-"`
	Approved   bool       `gorm:"default:false;index" json:"approved"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
}

// RefreshToken is a persisted refresh credential. Invalidated on logout or
// rotation; expired rows are ignored at lookup time.
type RefreshToken struct {
	gorm.Model
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
}

// PublicUser is the serializable view of a User for API responses.
type PublicUser struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the API-safe view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Approved:  u.Approved,
		CreatedAt: u.CreatedAt,
	}
}
