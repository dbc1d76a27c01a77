package event

import (
	"time"

	"gorm.io/gorm"
)

type EventKind string

const (
	KindGame     EventKind = "game"
	KindPractice EventKind = "practice"
	KindOther    EventKind = "other"
)

type RSVPStatus string

const (
	RSVPGoing    RSVPStatus = "going"
	RSVPMaybe    RSVPStatus = "maybe"
	RSVPDeclined RSVPStatus = "declined"
)

// Event is a scheduled team activity. Only team admins (or admins of the
// owning league) manage events; any team member can view and RSVP.
type Event struct {
	gorm.Model
	TeamID      uint       `json:"team_id" gorm:"not null;index"`
	Title       string     `json:"title" gorm:"not null"`
	Kind        EventKind  `json:"kind" gorm:"not null;default:'other'"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"starts_at" gorm:"not null;index"`
	EndsAt      *time.Time `json:"ends_at"`
	CreatedByID uint       `json:"created_by_id" gorm:"not null"`
}

// RSVP records a member's attendance answer. One row per (event, user);
// answering again overwrites the previous answer.
type RSVP struct {
	gorm.Model
	EventID uint       `json:"event_id" gorm:"not null;uniqueIndex:idx_rsvps_pair"`
	UserID  uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_rsvps_pair"`
	Status  RSVPStatus `json:"status" gorm:"not null"`
}
