package event

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/huddleup/huddle/internal/access"
	"github.com/huddleup/huddle/pkg/responses"
	"github.com/huddleup/huddle/pkg/validator"
)

type EventController struct {
	repo      EventRepository
	evaluator *access.Evaluator
}

func NewEventController(repo EventRepository, evaluator *access.Evaluator) *EventController {
	return &EventController{
		repo:      repo,
		evaluator: evaluator,
	}
}

type CreateEventRequest struct {
	Title       string     `json:"title" binding:"required,min=2,max=120"`
	Kind        string     `json:"kind" binding:"omitempty,oneof=game practice other"`
	Description string     `json:"description" binding:"omitempty,max=2000"`
	Location    string     `json:"location" binding:"omitempty,max=255"`
	StartsAt    time.Time  `json:"starts_at" binding:"required"`
	EndsAt      *time.Time `json:"ends_at"`
}

type UpdateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=2,max=120"`
	Kind        *string    `json:"kind" binding:"omitempty,oneof=game practice other"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	Location    *string    `json:"location" binding:"omitempty,max=255"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

type RSVPRequest struct {
	Status string `json:"status" binding:"required,oneof=going maybe declined"`
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		responses.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// CreateEvent godoc
// @Summary Create a team event
// @Tags Events
// @Accept json
// @Produce json
// @Param team_id path int true "Team ID"
// @Param request body CreateEventRequest true "Event details"
// @Success 201 {object} responses.SuccessResponse{data=Event}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{team_id}/events [post]
func (ec *EventController) CreateEvent(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}

	userID, err := ec.evaluator.RequireTeamAdmin(c, teamID)
	if err != nil {
		access.Respond(c, err)
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}
	if req.EndsAt != nil && !req.EndsAt.After(req.StartsAt) {
		responses.BadRequest(c, "ends_at must be after starts_at")
		return
	}

	kind := EventKind(req.Kind)
	if kind == "" {
		kind = KindOther
	}

	event := &Event{
		TeamID:      teamID,
		Title:       req.Title,
		Kind:        kind,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		CreatedByID: userID,
	}
	if err := ec.repo.CreateEvent(event); err != nil {
		responses.InternalServerError(c, "Failed to create event")
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Event created", event)
}

// GetTeamEvents godoc
// @Summary List a team's events
// @Description Upcoming events by default; pass all=true for the full history.
// @Tags Events
// @Produce json
// @Param team_id path int true "Team ID"
// @Param all query bool false "Include past events"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} responses.PaginatedResponse{data=[]Event}
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{team_id}/events [get]
func (ec *EventController) GetTeamEvents(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}

	if _, err := ec.evaluator.RequireTeamMember(c, teamID); err != nil {
		access.Respond(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var from *time.Time
	if c.Query("all") != "true" {
		now := time.Now()
		from = &now
	}

	events, total, err := ec.repo.GetEventsByTeamID(teamID, from, page, limit)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch events")
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", events, total, page, limit)
}

// UpdateEvent godoc
// @Summary Update a team event
// @Tags Events
// @Accept json
// @Produce json
// @Param team_id path int true "Team ID"
// @Param event_id path int true "Event ID"
// @Param request body UpdateEventRequest true "Fields to update"
// @Success 200 {object} responses.SuccessResponse{data=Event}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{team_id}/events/{event_id} [put]
func (ec *EventController) UpdateEvent(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "event_id")
	if !ok {
		return
	}

	if _, err := ec.evaluator.RequireTeamAdmin(c, teamID); err != nil {
		access.Respond(c, err)
		return
	}

	event, err := ec.fetchTeamEvent(c, teamID, eventID)
	if event == nil || err != nil {
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request body")
		return
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Kind != nil {
		event.Kind = EventKind(*req.Kind)
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.StartsAt != nil {
		event.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		event.EndsAt = req.EndsAt
	}
	if event.EndsAt != nil && !event.EndsAt.After(event.StartsAt) {
		responses.BadRequest(c, "ends_at must be after starts_at")
		return
	}

	if err := ec.repo.UpdateEvent(event); err != nil {
		responses.InternalServerError(c, "Failed to update event")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Event updated", event)
}

// DeleteEvent godoc
// @Summary Delete a team event
// @Tags Events
// @Produce json
// @Param team_id path int true "Team ID"
// @Param event_id path int true "Event ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{team_id}/events/{event_id} [delete]
func (ec *EventController) DeleteEvent(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "event_id")
	if !ok {
		return
	}

	if _, err := ec.evaluator.RequireTeamAdmin(c, teamID); err != nil {
		access.Respond(c, err)
		return
	}

	event, err := ec.fetchTeamEvent(c, teamID, eventID)
	if event == nil || err != nil {
		return
	}

	if err := ec.repo.DeleteEvent(eventID); err != nil {
		responses.InternalServerError(c, "Failed to delete event")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Event deleted", nil)
}

// SetRSVP godoc
// @Summary RSVP to a team event
// @Description Upserts the caller's answer; answering again overwrites it.
// @Tags Events
// @Accept json
// @Produce json
// @Param team_id path int true "Team ID"
// @Param event_id path int true "Event ID"
// @Param request body RSVPRequest true "Attendance answer"
// @Success 200 {object} responses.SuccessResponse{data=RSVP}
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{team_id}/events/{event_id}/rsvp [put]
func (ec *EventController) SetRSVP(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "event_id")
	if !ok {
		return
	}

	userID, err := ec.evaluator.RequireTeamMember(c, teamID)
	if err != nil {
		access.Respond(c, err)
		return
	}

	event, err := ec.fetchTeamEvent(c, teamID, eventID)
	if event == nil || err != nil {
		return
	}

	var req RSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	rsvp := &RSVP{
		EventID: eventID,
		UserID:  userID,
		Status:  RSVPStatus(req.Status),
	}
	if err := ec.repo.SetRSVP(rsvp); err != nil {
		responses.InternalServerError(c, "Failed to save RSVP")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "RSVP saved", rsvp)
}

// GetEventRSVPs godoc
// @Summary List RSVPs for a team event
// @Tags Events
// @Produce json
// @Param team_id path int true "Team ID"
// @Param event_id path int true "Event ID"
// @Success 200 {object} responses.SuccessResponse{data=[]RSVP}
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{team_id}/events/{event_id}/rsvps [get]
func (ec *EventController) GetEventRSVPs(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "event_id")
	if !ok {
		return
	}

	if _, err := ec.evaluator.RequireTeamMember(c, teamID); err != nil {
		access.Respond(c, err)
		return
	}

	event, err := ec.fetchTeamEvent(c, teamID, eventID)
	if event == nil || err != nil {
		return
	}

	rsvps, err := ec.repo.GetEventRSVPs(eventID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch RSVPs")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", rsvps)
}

// fetchTeamEvent loads the event and verifies it belongs to the team from
// the path. An event reached through the wrong team reads as missing.
// Writes the error response itself; callers return on nil event.
func (ec *EventController) fetchTeamEvent(c *gin.Context, teamID, eventID uint) (*Event, error) {
	event, err := ec.repo.GetEventByID(eventID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch event")
		return nil, err
	}
	if event == nil || event.TeamID != teamID {
		responses.NotFound(c, "Event")
		return nil, nil
	}
	return event, nil
}
