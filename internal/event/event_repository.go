package event

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepository interface {
	CreateEvent(event *Event) error
	GetEventByID(id uint) (*Event, error)
	GetEventsByTeamID(teamID uint, from *time.Time, page, limit int) ([]Event, int64, error)
	UpdateEvent(event *Event) error
	DeleteEvent(id uint) error

	SetRSVP(rsvp *RSVP) error
	GetEventRSVPs(eventID uint) ([]RSVP, error)
	GetUserRSVP(eventID, userID uint) (*RSVP, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) CreateEvent(event *Event) error {
	return r.db.Create(event).Error
}

func (r *eventRepository) GetEventByID(id uint) (*Event, error) {
	var event Event
	err := r.db.First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) GetEventsByTeamID(teamID uint, from *time.Time, page, limit int) ([]Event, int64, error) {
	var events []Event
	var total int64

	query := r.db.Model(&Event{}).Where("team_id = ?", teamID)
	if from != nil {
		query = query.Where("starts_at >= ?", *from)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("starts_at ASC").Offset(offset).Limit(limit).Find(&events).Error
	return events, total, err
}

func (r *eventRepository) UpdateEvent(event *Event) error {
	return r.db.Save(event).Error
}

func (r *eventRepository) DeleteEvent(id uint) error {
	return r.db.Delete(&Event{}, id).Error
}

func (r *eventRepository) SetRSVP(rsvp *RSVP) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(rsvp).Error
}

func (r *eventRepository) GetEventRSVPs(eventID uint) ([]RSVP, error) {
	var rsvps []RSVP
	err := r.db.Where("event_id = ?", eventID).Order("updated_at DESC").Find(&rsvps).Error
	return rsvps, err
}

func (r *eventRepository) GetUserRSVP(eventID, userID uint) (*RSVP, error) {
	var rsvp RSVP
	err := r.db.Where("event_id = ? AND user_id = ?", eventID, userID).First(&rsvp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rsvp, nil
}
