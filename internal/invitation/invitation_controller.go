package invitation

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/huddleup/huddle/config"
	"github.com/huddleup/huddle/internal/access"
	"github.com/huddleup/huddle/internal/team"
	"github.com/huddleup/huddle/internal/user"
	"github.com/huddleup/huddle/pkg/responses"
	"github.com/huddleup/huddle/pkg/validator"
	"github.com/huddleup/huddle/utils"
)

const invitationTokenBytes = 32

// InvitationController handles invitation-related HTTP requests. Accepting
// an invitation crosses into user and team rows, so the controller keeps a
// db handle for that one transactional flow.
type InvitationController struct {
	repo      InvitationRepository
	db        *gorm.DB
	evaluator *access.Evaluator
	appConfig *config.Config
}

// NewInvitationController creates a new invitation controller
func NewInvitationController(repo InvitationRepository, db *gorm.DB, evaluator *access.Evaluator, appConfig *config.Config) *InvitationController {
	return &InvitationController{
		repo:      repo,
		db:        db,
		evaluator: evaluator,
		appConfig: appConfig,
	}
}

// sendInvitationEmail simulates delivery. Replace with the real dispatcher.
func (ic *InvitationController) sendInvitationEmail(email, token string) error {
	link := fmt.Sprintf("%s/invitations/accept?token=%s", ic.appConfig.App.FrontendURL, token)
	fmt.Printf("SIMULATING: Sending invitation email\nTo: %s\nLink: %s\n", email, link)
	return nil
}

// --- DTOs for requests ---

type CreateInvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"omitempty,oneof=admin member"`
}

type AcceptInvitationRequest struct {
	Token string `json:"token" binding:"required"`
	// Name and Password are required only when the invited email has no
	// account yet.
	Name     string `json:"name" binding:"omitempty,max=100"`
	Password string `json:"password" binding:"omitempty,min=8,max=72"`
}

type AcceptInvitationResponse struct {
	TeamID uint            `json:"team_id"`
	User   user.PublicUser `json:"user"`
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		responses.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// --- Handlers ---

// CreateInvitation godoc
// @Summary Invite an email address to a team
// @Description Team admin or league admin. Generates a single-use expiring token and dispatches it by email.
// @Tags Invitations
// @Accept json
// @Produce json
// @Param team_id path int true "Team ID"
// @Param invitation body CreateInvitationRequest true "Invitation Data"
// @Success 201 {object} responses.SuccessResponse{data=Invitation}
// @Failure 403 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{team_id}/invitations [post]
func (ic *InvitationController) CreateInvitation(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}
	inviterID, err := ic.evaluator.RequireTeamAdmin(c, teamID)
	if err != nil {
		access.Respond(c, err)
		return
	}

	var req CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	role := req.Role
	if role == "" {
		role = access.TeamRoleMember
	}

	inv := Invitation{
		Token:     utils.GenerateRandomToken(invitationTokenBytes),
		Email:     req.Email,
		TeamID:    teamID,
		Role:      role,
		InvitedBy: inviterID,
		ExpiresAt: time.Now().AddDate(0, 0, ic.appConfig.Invitation.ExpiryDays),
		Status:    StatusPending,
	}
	if inv.Token == "" {
		responses.InternalServerError(c, "Failed to generate invitation token")
		return
	}

	if err := ic.repo.CreateInvitation(&inv); err != nil {
		responses.InternalServerError(c, "Failed to create invitation")
		return
	}

	if err := ic.sendInvitationEmail(inv.Email, inv.Token); err != nil {
		// The invitation stands; the admin can re-send the link.
		fmt.Printf("WARNING: failed to send invitation email to %s: %v\n", inv.Email, err)
	}

	responses.SendSuccess(c, http.StatusCreated, "Invitation created successfully", inv)
}

// GetTeamInvitations godoc
// @Summary List invitations of a team
// @Description Team admin or league admin.
// @Tags Invitations
// @Produce json
// @Param team_id path int true "Team ID"
// @Param status query string false "Filter by status"
// @Success 200 {object} responses.PaginatedResponse{data=[]Invitation}
// @Security BearerAuth
// @Router /teams/{team_id}/invitations [get]
func (ic *InvitationController) GetTeamInvitations(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}
	if _, err := ic.evaluator.RequireTeamAdmin(c, teamID); err != nil {
		access.Respond(c, err)
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

	invitations, total, err := ic.repo.GetInvitationsByTeamID(teamID, c.Query("status"), page, limit)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch invitations")
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", invitations, total, page, limit)
}

// CancelInvitation godoc
// @Summary Cancel a pending invitation
// @Description Team admin or league admin. Only pending invitations can be cancelled.
// @Tags Invitations
// @Produce json
// @Param team_id path int true "Team ID"
// @Param invitation_id path int true "Invitation ID"
// @Success 200 {object} responses.SuccessResponse
// @Security BearerAuth
// @Router /teams/{team_id}/invitations/{invitation_id} [delete]
func (ic *InvitationController) CancelInvitation(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}
	invitationID, ok := parseIDParam(c, "invitation_id")
	if !ok {
		return
	}
	if _, err := ic.evaluator.RequireTeamAdmin(c, teamID); err != nil {
		access.Respond(c, err)
		return
	}

	inv, err := ic.repo.GetInvitationByID(invitationID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch invitation")
		return
	}
	if inv == nil || inv.TeamID != teamID {
		responses.NotFound(c, "Invitation")
		return
	}
	if inv.Status != StatusPending {
		responses.SendError(c, http.StatusConflict, "Only pending invitations can be cancelled", nil)
		return
	}

	if err := ic.repo.CancelInvitation(invitationID); err != nil {
		responses.InternalServerError(c, "Failed to cancel invitation")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Invitation cancelled", nil)
}

// AcceptInvitation godoc
// @Summary Redeem an invitation token
// @Description Consumes the token and grants team membership. Creates the account when the invited email has none; invited accounts are pre-approved. Consumption, account creation and the membership row commit in one transaction.
// @Tags Invitations
// @Accept json
// @Produce json
// @Param acceptance body AcceptInvitationRequest true "Token plus account details for new users"
// @Success 200 {object} responses.SuccessResponse{data=AcceptInvitationResponse}
// @Failure 404 {object} responses.ErrorResponse "Unknown or cancelled token"
// @Failure 409 {object} responses.ErrorResponse "Token already used, or already a member"
// @Failure 410 {object} responses.ErrorResponse "Token expired"
// @Router /invitations/accept [post]
func (ic *InvitationController) AcceptInvitation(c *gin.Context) {
	var req AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	now := time.Now()
	var result AcceptInvitationResponse

	err := ic.db.Transaction(func(tx *gorm.DB) error {
		txRepo := NewInvitationRepository(tx)
		inv, err := txRepo.Consume(req.Token, now)
		if err != nil {
			return err
		}

		var u user.User
		err = tx.Where("email = ?", inv.Email).First(&u).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if req.Password == "" {
				return errAccountDetailsRequired
			}
			hashed, hashErr := utils.HashPassword(req.Password)
			if hashErr != nil {
				return hashErr
			}
			u = user.User{
				Email:      inv.Email,
				Name:       req.Name,
				Password:   hashed,
				Approved:   true, // invited users skip the approval queue
				ApprovedAt: &now,
			}
			if err := tx.Create(&u).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		member := team.TeamMember{
			UserID:   u.ID,
			TeamID:   inv.TeamID,
			Role:     inv.Role,
			JoinedAt: now,
		}
		if err := tx.Create(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return team.ErrAlreadyMember
			}
			return err
		}

		result = AcceptInvitationResponse{TeamID: inv.TeamID, User: u.Public()}
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			responses.NotFound(c, "Invitation")
		case errors.Is(err, ErrExpired):
			responses.SendError(c, http.StatusGone, "Invitation has expired", nil)
		case errors.Is(err, ErrAlreadyConsumed):
			responses.SendError(c, http.StatusConflict, "Invitation has already been used", nil)
		case errors.Is(err, team.ErrAlreadyMember):
			responses.SendError(c, http.StatusConflict, "You are already a member of this team", nil)
		case errors.Is(err, errAccountDetailsRequired):
			responses.BadRequest(c, "No account exists for the invited email; name and password are required")
		default:
			responses.InternalServerError(c, "Failed to accept invitation")
		}
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Invitation accepted", result)
}

var errAccountDetailsRequired = errors.New("account details required")
