package team

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/huddleup/huddle/config"
	"github.com/huddleup/huddle/internal/access"
	"github.com/huddleup/huddle/pkg/responses"
	"github.com/huddleup/huddle/pkg/validator"
)

// TeamController handles team-related HTTP requests
type TeamController struct {
	repo      TeamRepository
	evaluator *access.Evaluator
	appConfig *config.Config
}

// NewTeamController creates a new team controller
func NewTeamController(repo TeamRepository, evaluator *access.Evaluator, appConfig *config.Config) *TeamController {
	return &TeamController{
		repo:      repo,
		evaluator: evaluator,
		appConfig: appConfig,
	}
}

// --- DTOs for requests ---

type CreateTeamRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=100"`
	Sport    string `json:"sport" binding:"required,max=50"`
	Season   string `json:"season" binding:"omitempty,max=50"`
	LeagueID *uint  `json:"league_id"`
}

type UpdateTeamRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=3,max=100"`
	Sport  *string `json:"sport" binding:"omitempty,max=50"`
	Season *string `json:"season" binding:"omitempty,max=50"`
}

type AddTeamMemberRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"omitempty,oneof=admin member"`
}

type UpdateTeamMemberRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin member"`
}

type AssignDivisionRequest struct {
	DivisionID *uint `json:"division_id"` // null clears the assignment
}

type AttachLeagueRequest struct {
	LeagueID uint `json:"league_id" binding:"required"`
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		responses.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return page, limit
}

// --- Team Handlers ---

// CreateTeam godoc
// @Summary Create a new team
// @Description Creates a team; the creator receives an admin membership row in the same transaction, otherwise the team would be reachable by nobody.
// @Tags Teams
// @Accept json
// @Produce json
// @Param team body CreateTeamRequest true "Team Creation Data"
// @Success 201 {object} responses.SuccessResponse{data=Team}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams [post]
func (tc *TeamController) CreateTeam(c *gin.Context) {
	userID, err := access.CurrentUser(c)
	if err != nil {
		access.Respond(c, err)
		return
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	// Placing a team under a league is a league-admin action.
	if req.LeagueID != nil {
		if _, err := tc.evaluator.RequireLeagueAdmin(c, *req.LeagueID); err != nil {
			access.Respond(c, err)
			return
		}
	}

	team := Team{
		Name:        req.Name,
		Sport:       req.Sport,
		Season:      req.Season,
		Active:      true,
		LeagueID:    req.LeagueID,
		CreatedByID: userID,
	}

	err = tc.repo.WithTransaction(func(repo TeamRepository) error {
		if err := repo.CreateTeam(&team); err != nil {
			return err
		}
		return repo.AddTeamMember(&TeamMember{
			UserID:   userID,
			TeamID:   team.ID,
			Role:     access.TeamRoleAdmin,
			JoinedAt: time.Now(),
		})
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to create team")
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Team created successfully", team)
}

// GetTeamByID godoc
// @Summary Get a team
// @Description Visible to team members and the league's admins only; others get 404.
// @Tags Teams
// @Produce json
// @Param team_id path int true "Team ID"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{team_id} [get]
func (tc *TeamController) GetTeamByID(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}
	if _, err := tc.evaluator.RequireTeamMember(c, teamID); err != nil {
		access.Respond(c, err)
		return
	}

	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil || team == nil {
		responses.NotFound(c, "Team")
		return
	}

	// Integrity check on read: a division pointing outside the team's
	// league means corrupted data; hide the row rather than serve it.
	if team.DivisionID != nil {
		divisionLeague, err := tc.repo.DivisionLeague(*team.DivisionID)
		if err == nil && (divisionLeague == nil || team.LeagueID == nil || *divisionLeague != *team.LeagueID) {
			log.Printf("integrity: team %d division %d is outside its league", team.ID, *team.DivisionID)
			responses.NotFound(c, "Team")
			return
		}
	}

	responses.SendSuccess(c, http.StatusOK, "", team)
}

// GetLeagueTeams godoc
// @Summary List teams of a league
// @Tags Teams
// @Produce json
// @Param league_id path int true "League ID"
// @Success 200 {object} responses.PaginatedResponse{data=[]Team}
// @Router /leagues/{league_id}/teams [get]
func (tc *TeamController) GetLeagueTeams(c *gin.Context) {
	leagueID, ok := parseIDParam(c, "league_id")
	if !ok {
		return
	}
	page, limit := parsePagination(c)

	teams, total, err := tc.repo.GetTeamsByLeagueID(leagueID, page, limit)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch teams")
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", teams, total, page, limit)
}

// GetMyTeams godoc
// @Summary List teams the current user belongs to
// @Tags Teams
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]access.TeamMembership}
// @Security BearerAuth
// @Router /users/me/teams [get]
func (tc *TeamController) GetMyTeams(c *gin.Context) {
	userID, err := access.CurrentUser(c)
	if err != nil {
		access.Respond(c, err)
		return
	}

	mode, err := tc.evaluator.UserMode(userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch teams")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", mode.Teams)
}

// UpdateTeam godoc
// @Summary Update a team
// @Description Team admin or league admin of the team's league.
// @Tags Teams
// @Accept json
// @Produce json
// @Param team_id path int true "Team ID"
// @Param team body UpdateTeamRequest true "Fields to update"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 403 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{team_id} [put]
func (tc *TeamController) UpdateTeam(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}
	if _, err := tc.evaluator.RequireTeamAdmin(c, teamID); err != nil {
		access.Respond(c, err)
		return
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil || team == nil {
		responses.NotFound(c, "Team")
		return
	}

	if req.Name != nil {
		team.Name = *req.Name
	}
	if req.Sport != nil {
		team.Sport = *req.Sport
	}
	if req.Season != nil {
		team.Season = *req.Season
	}

	if err := tc.repo.UpdateTeam(team); err != nil {
		responses.InternalServerError(c, "Failed to update team")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team updated successfully", team)
}

// DeactivateTeam godoc
// @Summary Deactivate a team
// @Description Team admin or league admin of the team's league.
// @Tags Teams
// @Produce json
// @Param team_id path int true "Team ID"
// @Success 200 {object} responses.SuccessResponse
// @Security BearerAuth
// @Router /teams/{team_id} [delete]
func (tc *TeamController) DeactivateTeam(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}
	if _, err := tc.evaluator.RequireTeamAdmin(c, teamID); err != nil {
		access.Respond(c, err)
		return
	}

	if err := tc.repo.DeactivateTeam(teamID); err != nil {
		responses.InternalServerError(c, "Failed to deactivate team")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team deactivated", nil)
}

// AssignDivision godoc
// @Summary Assign a team to a division (or clear it)
// @Description League admin of the team's league only. The division must belong to the same league.
// @Tags Teams
// @Accept json
// @Produce json
// @Param team_id path int true "Team ID"
// @Param assignment body AssignDivisionRequest true "Division assignment"
// @Success 200 {object} responses.SuccessResponse
// @Failure 422 {object} responses.ErrorResponse "Division belongs to another league"
// @Security BearerAuth
// @Router /teams/{team_id}/division [put]
func (tc *TeamController) AssignDivision(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}

	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch team")
		return
	}
	if team == nil || !team.Active || team.LeagueID == nil {
		access.Respond(c, access.ErrNotFound)
		return
	}
	if _, err := tc.evaluator.RequireLeagueAdmin(c, *team.LeagueID); err != nil {
		access.Respond(c, err)
		return
	}

	var req AssignDivisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	if err := tc.repo.AssignDivision(teamID, req.DivisionID); err != nil {
		if errors.Is(err, ErrDivisionLeagueMismatch) {
			responses.SendError(c, http.StatusUnprocessableEntity, "Division does not belong to the team's league", nil)
			return
		}
		responses.InternalServerError(c, "Failed to assign division")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Division assignment updated", nil)
}

// AttachToLeague godoc
// @Summary Place a standalone team under a league
// @Description Requires team admin on the team and league admin on the target league.
// @Tags Teams
// @Accept json
// @Produce json
// @Param team_id path int true "Team ID"
// @Param league body AttachLeagueRequest true "Target league"
// @Success 200 {object} responses.SuccessResponse
// @Security BearerAuth
// @Router /teams/{team_id}/league [put]
func (tc *TeamController) AttachToLeague(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}
	if _, err := tc.evaluator.RequireTeamAdmin(c, teamID); err != nil {
		access.Respond(c, err)
		return
	}

	var req AttachLeagueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	if _, err := tc.evaluator.RequireLeagueAdmin(c, req.LeagueID); err != nil {
		access.Respond(c, err)
		return
	}

	if err := tc.repo.AttachToLeague(teamID, req.LeagueID); err != nil {
		responses.InternalServerError(c, "Failed to attach team to league")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team attached to league", nil)
}

// --- TeamMember Handlers ---

// GetTeamMembers godoc
// @Summary List members of a team
// @Description Team members and league admins only.
// @Tags Teams
// @Produce json
// @Param team_id path int true "Team ID"
// @Success 200 {object} responses.PaginatedResponse{data=[]TeamMember}
// @Security BearerAuth
// @Router /teams/{team_id}/members [get]
func (tc *TeamController) GetTeamMembers(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}
	if _, err := tc.evaluator.RequireTeamMember(c, teamID); err != nil {
		access.Respond(c, err)
		return
	}

	page, limit := parsePagination(c)
	members, total, err := tc.repo.GetTeamMembers(teamID, page, limit)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch members")
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", members, total, page, limit)
}

// AddTeamMember godoc
// @Summary Add a member to a team
// @Description Team admin or league admin. Duplicate membership is rejected with 409.
// @Tags Teams
// @Accept json
// @Produce json
// @Param team_id path int true "Team ID"
// @Param member body AddTeamMemberRequest true "Member Data"
// @Success 201 {object} responses.SuccessResponse{data=TeamMember}
// @Failure 409 {object} responses.ErrorResponse "Already a member"
// @Security BearerAuth
// @Router /teams/{team_id}/members [post]
func (tc *TeamController) AddTeamMember(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}
	if _, err := tc.evaluator.RequireTeamAdmin(c, teamID); err != nil {
		access.Respond(c, err)
		return
	}

	var req AddTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	role := req.Role
	if role == "" {
		role = access.TeamRoleMember
	}

	member := TeamMember{
		UserID:   req.UserID,
		TeamID:   teamID,
		Role:     role,
		JoinedAt: time.Now(),
	}
	if err := tc.repo.AddTeamMember(&member); err != nil {
		if errors.Is(err, ErrAlreadyMember) {
			responses.SendError(c, http.StatusConflict, "User is already a member of this team", nil)
			return
		}
		responses.InternalServerError(c, "Failed to add member")
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Member added successfully", member)
}

// UpdateTeamMemberRole godoc
// @Summary Change a team member's role
// @Description Team admin or league admin.
// @Tags Teams
// @Accept json
// @Produce json
// @Param team_id path int true "Team ID"
// @Param user_id path int true "User ID"
// @Param role body UpdateTeamMemberRoleRequest true "New role"
// @Success 200 {object} responses.SuccessResponse
// @Security BearerAuth
// @Router /teams/{team_id}/members/{user_id}/role [put]
func (tc *TeamController) UpdateTeamMemberRole(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	if _, err := tc.evaluator.RequireTeamAdmin(c, teamID); err != nil {
		access.Respond(c, err)
		return
	}

	var req UpdateTeamMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	member, err := tc.repo.GetTeamMember(teamID, targetID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch member")
		return
	}
	if member == nil {
		responses.NotFound(c, "Member")
		return
	}

	// Demoting the last admin would strand a standalone team.
	if member.Role == access.TeamRoleAdmin && req.Role != access.TeamRoleAdmin {
		admins, err := tc.repo.CountTeamAdmins(teamID)
		if err != nil {
			responses.InternalServerError(c, "Failed to verify admins")
			return
		}
		if admins <= 1 {
			responses.SendError(c, http.StatusConflict, "Cannot demote the team's only admin", nil)
			return
		}
	}

	if err := tc.repo.UpdateTeamMemberRole(teamID, targetID, req.Role); err != nil {
		responses.InternalServerError(c, "Failed to update role")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Role updated successfully", nil)
}

// RemoveTeamMember godoc
// @Summary Remove a member from a team
// @Description Team admin or league admin. Removal is immediate; the next access check sees no row.
// @Tags Teams
// @Produce json
// @Param team_id path int true "Team ID"
// @Param user_id path int true "User ID"
// @Success 200 {object} responses.SuccessResponse
// @Security BearerAuth
// @Router /teams/{team_id}/members/{user_id} [delete]
func (tc *TeamController) RemoveTeamMember(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	if _, err := tc.evaluator.RequireTeamAdmin(c, teamID); err != nil {
		access.Respond(c, err)
		return
	}

	member, err := tc.repo.GetTeamMember(teamID, targetID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch member")
		return
	}
	if member == nil {
		responses.NotFound(c, "Member")
		return
	}

	// Removing the last admin would strand a standalone team, same as
	// demotion or leaving.
	if member.Role == access.TeamRoleAdmin {
		admins, err := tc.repo.CountTeamAdmins(teamID)
		if err != nil {
			responses.InternalServerError(c, "Failed to verify admins")
			return
		}
		if admins <= 1 {
			responses.SendError(c, http.StatusConflict, "Cannot remove the team's only admin", nil)
			return
		}
	}

	if err := tc.repo.RemoveTeamMember(teamID, targetID); err != nil {
		responses.InternalServerError(c, "Failed to remove member")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Member removed", nil)
}

// LeaveTeam godoc
// @Summary Leave a team
// @Tags Teams
// @Produce json
// @Param team_id path int true "Team ID"
// @Success 200 {object} responses.SuccessResponse
// @Security BearerAuth
// @Router /teams/{team_id}/leave [post]
func (tc *TeamController) LeaveTeam(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}
	userID, err := tc.evaluator.RequireTeamMember(c, teamID)
	if err != nil {
		access.Respond(c, err)
		return
	}

	member, err := tc.repo.GetTeamMember(teamID, userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch membership")
		return
	}
	if member == nil {
		// League admins have team access without a membership row.
		responses.BadRequest(c, "You are not a direct member of this team")
		return
	}

	if member.Role == access.TeamRoleAdmin {
		admins, err := tc.repo.CountTeamAdmins(teamID)
		if err != nil {
			responses.InternalServerError(c, "Failed to verify admins")
			return
		}
		if admins <= 1 {
			responses.SendError(c, http.StatusConflict, "The team's only admin cannot leave", nil)
			return
		}
	}

	if err := tc.repo.RemoveTeamMember(teamID, userID); err != nil {
		responses.InternalServerError(c, "Failed to leave team")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Left team", nil)
}
