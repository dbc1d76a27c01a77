package invitation

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusConsumed  = "consumed"
	StatusCancelled = "cancelled"
)

var (
	// ErrNotFound covers unknown and cancelled tokens.
	ErrNotFound = errors.New("invitation not found")
	// ErrExpired marks a token past its expiry; terminal, never retryable.
	ErrExpired = errors.New("invitation has expired")
	// ErrAlreadyConsumed marks a token that has already been redeemed.
	ErrAlreadyConsumed = errors.New("invitation has already been used")
)

// Invitation is a single-use, expiring grant of team membership to an email
// address. The token is a high-entropy secret matched only exactly.
type Invitation struct {
	gorm.Model
	Token      string     `json:"-" gorm:"uniqueIndex;not null"`
	Email      string     `json:"email" gorm:"index;not null"`
	TeamID     uint       `json:"team_id" gorm:"index;not null"`
	Role       string     `json:"role" gorm:"default:'member';not null"`
	InvitedBy  uint       `json:"invited_by"`
	ExpiresAt  time.Time  `json:"expires_at" gorm:"not null"`
	Status     string     `json:"status" gorm:"default:'pending';index"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
}

// Redeemable classifies the invitation's state at the given instant. A nil
// result means a consumption attempt may proceed to the conditional update;
// it does not by itself guarantee winning a concurrent race.
func (i *Invitation) Redeemable(now time.Time) error {
	switch i.Status {
	case StatusConsumed:
		return ErrAlreadyConsumed
	case StatusCancelled:
		return ErrNotFound
	}
	if now.After(i.ExpiresAt) {
		return ErrExpired
	}
	return nil
}
