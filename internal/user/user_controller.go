package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/huddleup/huddle/internal/access"
	"github.com/huddleup/huddle/pkg/responses"
)

// UserController handles user administration and mode resolution requests
type UserController struct {
	repo      UserRepository
	evaluator *access.Evaluator
}

// NewUserController creates a new user controller
func NewUserController(repo UserRepository, evaluator *access.Evaluator) *UserController {
	return &UserController{
		repo:      repo,
		evaluator: evaluator,
	}
}

// GetPendingUsers godoc
// @Summary List accounts awaiting approval
// @Description System admin only (league admin of any active league).
// @Tags Users
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} responses.PaginatedResponse{data=[]PublicUser}
// @Failure 403 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/pending [get]
func (uc *UserController) GetPendingUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	users, total, err := uc.repo.GetPendingUsers(page, limit)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch pending users")
		return
	}

	public := make([]PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	responses.SendPaginated(c, http.StatusOK, "", public, total, page, limit)
}

// ApproveUser godoc
// @Summary Approve an account
// @Description System admin only. Approval flips once; approving an already-approved account is a no-op.
// @Tags Users
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} responses.SuccessResponse{data=PublicUser}
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{user_id}/approve [post]
func (uc *UserController) ApproveUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil || id == 0 {
		responses.BadRequest(c, "Invalid user_id")
		return
	}

	u, err := uc.repo.GetUserByID(uint(id))
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch user")
		return
	}
	if u == nil {
		responses.NotFound(c, "User")
		return
	}

	if err := uc.repo.ApproveUser(uint(id)); err != nil {
		responses.InternalServerError(c, "Failed to approve user")
		return
	}

	u, err = uc.repo.GetUserByID(uint(id))
	if err != nil || u == nil {
		responses.InternalServerError(c, "Failed to fetch user")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "User approved", u.Public())
}

// GetMyMode godoc
// @Summary Resolve the current user's mode
// @Description Returns both membership lists; is_league_mode is true exactly when the league list is non-empty.
// @Tags Users
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=access.Mode}
// @Security BearerAuth
// @Router /users/me/mode [get]
func (uc *UserController) GetMyMode(c *gin.Context) {
	userID, err := access.CurrentUser(c)
	if err != nil {
		access.Respond(c, err)
		return
	}

	mode, err := uc.evaluator.UserMode(userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to resolve mode")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", mode)
}

// GetMyPrimaryContext godoc
// @Summary Resolve the current user's primary context
// @Description The default league or team the user lands on, by most recent join.
// @Tags Users
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=access.PrimaryContext}
// @Security BearerAuth
// @Router /users/me/context [get]
func (uc *UserController) GetMyPrimaryContext(c *gin.Context) {
	userID, err := access.CurrentUser(c)
	if err != nil {
		access.Respond(c, err)
		return
	}

	ctx, err := uc.evaluator.UserPrimaryContext(userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to resolve context")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", ctx)
}
