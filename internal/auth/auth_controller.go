package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/huddleup/huddle/config"
	"github.com/huddleup/huddle/internal/middleware"
	"github.com/huddleup/huddle/internal/user"
	"github.com/huddleup/huddle/pkg/responses"
	"github.com/huddleup/huddle/pkg/token"
	"github.com/huddleup/huddle/pkg/validator"
	"github.com/huddleup/huddle/utils"
)

type AuthController struct {
	repo   AuthRepository
	config *config.Config
}

func NewAuthController(repo AuthRepository, cfg *config.Config) *AuthController {
	return &AuthController{
		repo:   repo,
		config: cfg,
	}
}

func (ac *AuthController) generateAndSaveTokens(userID uint) (string, string, error) {
	accessToken, err := token.GenerateJWT(userID, ac.config.JWT.AccessTokenSecret, ac.config.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		return "", "", fmt.Errorf("access token generation failed: %w", err)
	}

	refreshTokenString, err := token.GenerateRefreshToken(userID, ac.config.JWT.RefreshTokenSecret, ac.config.JWT.RefreshTokenExpiryDays)
	if err != nil {
		return "", "", fmt.Errorf("refresh token generation failed: %w", err)
	}

	refreshToken := &user.RefreshToken{
		UserID:    userID,
		Token:     refreshTokenString,
		ExpiresAt: time.Now().AddDate(0, 0, ac.config.JWT.RefreshTokenExpiryDays),
	}

	if err := ac.repo.SaveRefreshToken(refreshToken); err != nil {
		return "", "", fmt.Errorf("failed to save refresh token: %w", err)
	}
	return accessToken, refreshTokenString, nil
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates an account pending approval. Registration does not establish a session; a system admin must approve the account before login succeeds.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        user  body  RegisterRequest  true  "User registration details"
// @Success      201   {object} responses.SuccessResponse{data=user.PublicUser}
// @Failure      400   {object} responses.ErrorResponse
// @Failure      409   {object} responses.ErrorResponse "Email already registered"
// @Router       /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	email := strings.ToLower(req.Email)
	if _, err := ac.repo.GetUserByEmail(email); err == nil {
		responses.SendError(c, http.StatusConflict, "User with this email already exists", nil)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		responses.InternalServerError(c, "Failed to check existing accounts")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		responses.InternalServerError(c, "Error hashing password")
		return
	}

	newUser := &user.User{
		Name:     req.Name,
		Email:    email,
		Password: hashedPassword,
		Approved: false,
	}
	if err := ac.repo.CreateUser(newUser); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			responses.SendError(c, http.StatusConflict, "User with this email already exists", nil)
			return
		}
		responses.InternalServerError(c, "Failed to create account")
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Account created; awaiting approval", newUser.Public())
}

// Login godoc
// @Summary      Log in with email and password
// @Description  Unapproved accounts are rejected; approval is checked on every request, not only here.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials  body  LoginRequest  true  "Login credentials"
// @Success      200  {object} responses.SuccessResponse{data=AuthResponse}
// @Failure      401  {object} responses.ErrorResponse "Invalid credentials"
// @Failure      403  {object} responses.ErrorResponse "Account pending approval"
// @Router       /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	u, err := ac.repo.GetUserByEmail(strings.ToLower(req.Email))
	if err != nil {
		// Same response for unknown email and wrong password.
		responses.Unauthorized(c, "Invalid email or password")
		return
	}

	if !utils.CheckPassword(u.Password, req.Password) {
		responses.Unauthorized(c, "Invalid email or password")
		return
	}

	if !u.Approved {
		responses.Forbidden(c, "Account pending approval")
		return
	}

	accessToken, refreshToken, err := ac.generateAndSaveTokens(u.ID)
	if err != nil {
		responses.InternalServerError(c, "Failed to create session")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Logged in successfully", AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         u.Public(),
	})
}

// RefreshToken godoc
// @Summary      Exchange a refresh token for a new token pair
// @Description  The presented refresh token is rotated: it is invalidated and a new pair is issued.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        refresh  body  RefreshTokenRequest  true  "Refresh token"
// @Success      200  {object} responses.SuccessResponse{data=AuthResponse}
// @Failure      401  {object} responses.ErrorResponse
// @Router       /auth/refresh-token [post]
func (ac *AuthController) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	claims, err := token.ValidateJWT(req.RefreshToken, ac.config.JWT.RefreshTokenSecret)
	if err != nil {
		responses.Unauthorized(c, "Invalid refresh token")
		return
	}

	stored, err := ac.repo.GetRefreshToken(req.RefreshToken)
	if err != nil || stored.UserID != claims.UserID {
		responses.Unauthorized(c, "Refresh token not recognized")
		return
	}

	u, err := ac.repo.GetUserByID(claims.UserID)
	if err != nil {
		responses.Unauthorized(c, "User not found")
		return
	}
	if !u.Approved {
		responses.Forbidden(c, "Account pending approval")
		return
	}

	if err := ac.repo.InvalidateRefreshToken(req.RefreshToken); err != nil {
		responses.InternalServerError(c, "Failed to rotate refresh token")
		return
	}

	accessToken, refreshToken, err := ac.generateAndSaveTokens(u.ID)
	if err != nil {
		responses.InternalServerError(c, "Failed to create session")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Token refreshed", AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         u.Public(),
	})
}

// Logout godoc
// @Summary      Log out
// @Description  Invalidates the presented refresh token, or every session for the user.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        logout  body  LogoutRequest  false  "Logout options"
// @Success      200  {object} responses.SuccessResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	var req LogoutRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	if req.InvalidateAllSessions {
		if err := ac.repo.InvalidateAllRefreshTokensForUser(userID); err != nil {
			responses.InternalServerError(c, "Failed to log out")
			return
		}
	} else if req.RefreshToken != "" {
		if err := ac.repo.InvalidateRefreshToken(req.RefreshToken); err != nil {
			responses.InternalServerError(c, "Failed to log out")
			return
		}
	}

	responses.SendSuccess(c, http.StatusOK, "Logged out", nil)
}

// GetProfile godoc
// @Summary      Get the current user's profile
// @Tags         Auth
// @Produce      json
// @Success      200  {object} responses.SuccessResponse{data=user.PublicUser}
// @Failure      401  {object} responses.ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (ac *AuthController) GetProfile(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	u, err := ac.repo.GetUserByID(userID)
	if err != nil {
		responses.NotFound(c, "User")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", u.Public())
}
