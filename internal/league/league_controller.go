package league

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/huddleup/huddle/config"
	"github.com/huddleup/huddle/internal/access"
	"github.com/huddleup/huddle/pkg/responses"
	"github.com/huddleup/huddle/pkg/validator"
)

// LeagueController handles league-related HTTP requests
type LeagueController struct {
	repo      LeagueRepository
	evaluator *access.Evaluator
	appConfig *config.Config
}

// NewLeagueController creates a new league controller
func NewLeagueController(repo LeagueRepository, evaluator *access.Evaluator, appConfig *config.Config) *LeagueController {
	return &LeagueController{
		repo:      repo,
		evaluator: evaluator,
		appConfig: appConfig,
	}
}

// --- DTOs for requests ---

type CreateLeagueRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=100"`
	Description string `json:"description" binding:"max=1000"`
	Sport       string `json:"sport" binding:"required,max=50"`
}

type UpdateLeagueRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=3,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Sport       *string `json:"sport" binding:"omitempty,max=50"`
}

type CreateDivisionRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100"`
	AgeGroup   string `json:"age_group" binding:"omitempty,max=50"`
	SkillLevel string `json:"skill_level" binding:"omitempty,max=50"`
}

type UpdateDivisionRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=2,max=100"`
	AgeGroup   *string `json:"age_group" binding:"omitempty,max=50"`
	SkillLevel *string `json:"skill_level" binding:"omitempty,max=50"`
}

type AddLeagueMemberRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"omitempty,oneof=league_admin manager scorekeeper member"`
}

type UpdateLeagueMemberRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=league_admin manager scorekeeper member"`
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		responses.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// --- League Handlers ---

// CreateLeague godoc
// @Summary Create a new league
// @Description Creates a league; the creator becomes its league admin.
// @Tags Leagues
// @Accept json
// @Produce json
// @Param league body CreateLeagueRequest true "League Creation Data"
// @Success 201 {object} responses.SuccessResponse{data=League}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /leagues [post]
func (lc *LeagueController) CreateLeague(c *gin.Context) {
	userID, err := access.CurrentUser(c)
	if err != nil {
		access.Respond(c, err)
		return
	}

	var req CreateLeagueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	league := League{
		Name:        req.Name,
		Description: req.Description,
		Sport:       req.Sport,
		Active:      true,
		CreatedByID: userID,
	}

	// Create the league and the creator's admin membership together; a
	// league without an admin would be unmanageable.
	err = lc.repo.WithTransaction(func(repo LeagueRepository) error {
		if err := repo.CreateLeague(&league); err != nil {
			return err
		}
		return repo.AddLeagueMember(&LeagueUser{
			UserID:   userID,
			LeagueID: league.ID,
			Role:     access.RoleLeagueAdmin,
			JoinedAt: time.Now(),
		})
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to create league")
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "League created successfully", league)
}

// GetAllLeagues godoc
// @Summary List leagues
// @Tags Leagues
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} responses.PaginatedResponse{data=[]League}
// @Router /leagues [get]
func (lc *LeagueController) GetAllLeagues(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	leagues, total, err := lc.repo.GetAllLeagues(page, limit, true)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch leagues")
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", leagues, total, page, limit)
}

// GetLeagueByID godoc
// @Summary Get a league
// @Tags Leagues
// @Produce json
// @Param league_id path int true "League ID"
// @Success 200 {object} responses.SuccessResponse{data=League}
// @Failure 404 {object} responses.ErrorResponse
// @Router /leagues/{league_id} [get]
func (lc *LeagueController) GetLeagueByID(c *gin.Context) {
	leagueID, ok := parseIDParam(c, "league_id")
	if !ok {
		return
	}

	league, err := lc.repo.GetLeagueByID(leagueID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch league")
		return
	}
	if league == nil || !league.Active {
		responses.NotFound(c, "League")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", league)
}

// UpdateLeague godoc
// @Summary Update a league
// @Description League admin only.
// @Tags Leagues
// @Accept json
// @Produce json
// @Param league_id path int true "League ID"
// @Param league body UpdateLeagueRequest true "Fields to update"
// @Success 200 {object} responses.SuccessResponse{data=League}
// @Failure 403 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /leagues/{league_id} [put]
func (lc *LeagueController) UpdateLeague(c *gin.Context) {
	leagueID, ok := parseIDParam(c, "league_id")
	if !ok {
		return
	}
	if _, err := lc.evaluator.RequireLeagueAdmin(c, leagueID); err != nil {
		access.Respond(c, err)
		return
	}

	var req UpdateLeagueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	league, err := lc.repo.GetLeagueByID(leagueID)
	if err != nil || league == nil {
		responses.NotFound(c, "League")
		return
	}

	if req.Name != nil {
		league.Name = *req.Name
	}
	if req.Description != nil {
		league.Description = *req.Description
	}
	if req.Sport != nil {
		league.Sport = *req.Sport
	}

	if err := lc.repo.UpdateLeague(league); err != nil {
		responses.InternalServerError(c, "Failed to update league")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "League updated successfully", league)
}

// DeactivateLeague godoc
// @Summary Deactivate a league
// @Description League admin only. Members keep their rows; mode resolution ignores inactive leagues.
// @Tags Leagues
// @Produce json
// @Param league_id path int true "League ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /leagues/{league_id} [delete]
func (lc *LeagueController) DeactivateLeague(c *gin.Context) {
	leagueID, ok := parseIDParam(c, "league_id")
	if !ok {
		return
	}
	if _, err := lc.evaluator.RequireLeagueAdmin(c, leagueID); err != nil {
		access.Respond(c, err)
		return
	}

	if err := lc.repo.DeactivateLeague(leagueID); err != nil {
		responses.InternalServerError(c, "Failed to deactivate league")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "League deactivated", nil)
}

// GetMyLeagues godoc
// @Summary List leagues the current user belongs to
// @Tags Leagues
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]access.LeagueMembership}
// @Security BearerAuth
// @Router /users/me/leagues [get]
func (lc *LeagueController) GetMyLeagues(c *gin.Context) {
	userID, err := access.CurrentUser(c)
	if err != nil {
		access.Respond(c, err)
		return
	}

	mode, err := lc.evaluator.UserMode(userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch leagues")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", mode.Leagues)
}

// --- Division Handlers ---

// CreateDivision godoc
// @Summary Create a division within a league
// @Description League admin only. The division is bound to the league in the path.
// @Tags Divisions
// @Accept json
// @Produce json
// @Param league_id path int true "League ID"
// @Param division body CreateDivisionRequest true "Division Data"
// @Success 201 {object} responses.SuccessResponse{data=Division}
// @Failure 403 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /leagues/{league_id}/divisions [post]
func (lc *LeagueController) CreateDivision(c *gin.Context) {
	leagueID, ok := parseIDParam(c, "league_id")
	if !ok {
		return
	}

	league, err := lc.repo.GetLeagueByID(leagueID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch league")
		return
	}
	if league == nil || !league.Active {
		responses.NotFound(c, "League")
		return
	}

	var req CreateDivisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	division := Division{
		LeagueID:   leagueID,
		Name:       req.Name,
		AgeGroup:   req.AgeGroup,
		SkillLevel: req.SkillLevel,
	}
	if err := lc.repo.CreateDivision(&division); err != nil {
		responses.InternalServerError(c, "Failed to create division")
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Division created successfully", division)
}

// GetDivisions godoc
// @Summary List divisions of a league
// @Tags Divisions
// @Produce json
// @Param league_id path int true "League ID"
// @Success 200 {object} responses.SuccessResponse{data=[]Division}
// @Router /leagues/{league_id}/divisions [get]
func (lc *LeagueController) GetDivisions(c *gin.Context) {
	leagueID, ok := parseIDParam(c, "league_id")
	if !ok {
		return
	}

	league, err := lc.repo.GetLeagueByID(leagueID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch league")
		return
	}
	if league == nil || !league.Active {
		responses.NotFound(c, "League")
		return
	}

	divisions, err := lc.repo.GetDivisionsByLeagueID(leagueID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch divisions")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", divisions)
}

// UpdateDivision godoc
// @Summary Update a division
// @Description League admin only. A division never moves between leagues.
// @Tags Divisions
// @Accept json
// @Produce json
// @Param league_id path int true "League ID"
// @Param division_id path int true "Division ID"
// @Param division body UpdateDivisionRequest true "Fields to update"
// @Success 200 {object} responses.SuccessResponse{data=Division}
// @Security BearerAuth
// @Router /leagues/{league_id}/divisions/{division_id} [put]
func (lc *LeagueController) UpdateDivision(c *gin.Context) {
	leagueID, ok := parseIDParam(c, "league_id")
	if !ok {
		return
	}
	divisionID, ok := parseIDParam(c, "division_id")
	if !ok {
		return
	}

	division, err := lc.repo.GetDivisionByID(divisionID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch division")
		return
	}
	if division == nil || division.LeagueID != leagueID {
		responses.NotFound(c, "Division")
		return
	}

	var req UpdateDivisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	if req.Name != nil {
		division.Name = *req.Name
	}
	if req.AgeGroup != nil {
		division.AgeGroup = *req.AgeGroup
	}
	if req.SkillLevel != nil {
		division.SkillLevel = *req.SkillLevel
	}

	if err := lc.repo.UpdateDivision(division); err != nil {
		responses.InternalServerError(c, "Failed to update division")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Division updated successfully", division)
}

// DeleteDivision godoc
// @Summary Delete a division
// @Description League admin only. Teams in the division become unassigned.
// @Tags Divisions
// @Produce json
// @Param league_id path int true "League ID"
// @Param division_id path int true "Division ID"
// @Success 200 {object} responses.SuccessResponse
// @Security BearerAuth
// @Router /leagues/{league_id}/divisions/{division_id} [delete]
func (lc *LeagueController) DeleteDivision(c *gin.Context) {
	leagueID, ok := parseIDParam(c, "league_id")
	if !ok {
		return
	}
	divisionID, ok := parseIDParam(c, "division_id")
	if !ok {
		return
	}

	division, err := lc.repo.GetDivisionByID(divisionID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch division")
		return
	}
	if division == nil || division.LeagueID != leagueID {
		responses.NotFound(c, "Division")
		return
	}

	if err := lc.repo.DeleteDivision(divisionID); err != nil {
		responses.InternalServerError(c, "Failed to delete division")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Division deleted", nil)
}

// --- Membership Handlers ---

// AddLeagueMember godoc
// @Summary Add a member to a league
// @Description League admin only. Duplicate membership is rejected, not merged.
// @Tags Leagues
// @Accept json
// @Produce json
// @Param league_id path int true "League ID"
// @Param member body AddLeagueMemberRequest true "Member Data"
// @Success 201 {object} responses.SuccessResponse{data=LeagueUser}
// @Failure 409 {object} responses.ErrorResponse "Already a member"
// @Security BearerAuth
// @Router /leagues/{league_id}/members [post]
func (lc *LeagueController) AddLeagueMember(c *gin.Context) {
	leagueID, ok := parseIDParam(c, "league_id")
	if !ok {
		return
	}
	if _, err := lc.evaluator.RequireLeagueAdmin(c, leagueID); err != nil {
		access.Respond(c, err)
		return
	}

	var req AddLeagueMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	role := req.Role
	if role == "" {
		role = access.RoleMember
	}

	member := LeagueUser{
		UserID:   req.UserID,
		LeagueID: leagueID,
		Role:     role,
		JoinedAt: time.Now(),
	}
	if err := lc.repo.AddLeagueMember(&member); err != nil {
		if err == ErrAlreadyMember {
			responses.SendError(c, http.StatusConflict, "User is already a member of this league", nil)
			return
		}
		responses.InternalServerError(c, "Failed to add member")
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Member added successfully", member)
}

// GetLeagueMembers godoc
// @Summary List members of a league
// @Tags Leagues
// @Produce json
// @Param league_id path int true "League ID"
// @Success 200 {object} responses.PaginatedResponse{data=[]LeagueUser}
// @Security BearerAuth
// @Router /leagues/{league_id}/members [get]
func (lc *LeagueController) GetLeagueMembers(c *gin.Context) {
	leagueID, ok := parseIDParam(c, "league_id")
	if !ok {
		return
	}

	userID, err := access.CurrentUser(c)
	if err != nil {
		access.Respond(c, err)
		return
	}

	// Any member of the league may see the roster.
	member, err := lc.repo.GetLeagueMember(leagueID, userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to verify membership")
		return
	}
	if member == nil {
		access.Respond(c, access.ErrNotFound)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	members, total, err := lc.repo.GetLeagueMembers(leagueID, page, limit)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch members")
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", members, total, page, limit)
}

// UpdateLeagueMemberRole godoc
// @Summary Change a league member's role
// @Description League admin only.
// @Tags Leagues
// @Accept json
// @Produce json
// @Param league_id path int true "League ID"
// @Param user_id path int true "User ID"
// @Param role body UpdateLeagueMemberRoleRequest true "New role"
// @Success 200 {object} responses.SuccessResponse
// @Security BearerAuth
// @Router /leagues/{league_id}/members/{user_id}/role [put]
func (lc *LeagueController) UpdateLeagueMemberRole(c *gin.Context) {
	leagueID, ok := parseIDParam(c, "league_id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	if _, err := lc.evaluator.RequireLeagueAdmin(c, leagueID); err != nil {
		access.Respond(c, err)
		return
	}

	var req UpdateLeagueMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	member, err := lc.repo.GetLeagueMember(leagueID, targetID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch member")
		return
	}
	if member == nil {
		responses.NotFound(c, "Member")
		return
	}

	if err := lc.repo.UpdateLeagueMemberRole(leagueID, targetID, req.Role); err != nil {
		responses.InternalServerError(c, "Failed to update role")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Role updated successfully", nil)
}

// RemoveLeagueMember godoc
// @Summary Remove a member from a league
// @Description League admin only. Removing the row revokes every capability derived from it.
// @Tags Leagues
// @Produce json
// @Param league_id path int true "League ID"
// @Param user_id path int true "User ID"
// @Success 200 {object} responses.SuccessResponse
// @Security BearerAuth
// @Router /leagues/{league_id}/members/{user_id} [delete]
func (lc *LeagueController) RemoveLeagueMember(c *gin.Context) {
	leagueID, ok := parseIDParam(c, "league_id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	if _, err := lc.evaluator.RequireLeagueAdmin(c, leagueID); err != nil {
		access.Respond(c, err)
		return
	}

	member, err := lc.repo.GetLeagueMember(leagueID, targetID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch member")
		return
	}
	if member == nil {
		responses.NotFound(c, "Member")
		return
	}

	if err := lc.repo.RemoveLeagueMember(leagueID, targetID); err != nil {
		responses.InternalServerError(c, "Failed to remove member")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Member removed", nil)
}
