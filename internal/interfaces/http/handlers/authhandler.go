package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campus/internal/application/auth/usecases"
	"campus/internal/domain/user"
	"campus/internal/shared/constants"
	apperrors "campus/internal/shared/errors"
	"campus/internal/shared/logger"
	"campus/internal/shared/utils"
)

type AuthHandler struct {
	loginUseCase        *usecases.LoginUseCase
	refreshTokenUseCase *usecases.RefreshTokenUseCase
	currentUserUseCase  *usecases.GetCurrentUserUseCase
	logger              logger.Interface
}

func NewAuthHandler(
	loginUC *usecases.LoginUseCase,
	refreshTokenUC *usecases.RefreshTokenUseCase,
	currentUserUC *usecases.GetCurrentUserUseCase,
	log logger.Interface,
) *AuthHandler {
	return &AuthHandler{
		loginUseCase:        loginUC,
		refreshTokenUseCase: refreshTokenUC,
		currentUserUseCase:  currentUserUC,
		logger:              log,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required,min=2,max=64"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UserResponse struct {
	SID           string     `json:"sid"`
	Username      string     `json:"username"`
	Role          string     `json:"role"`
	UniversitySID string     `json:"university_sid,omitempty"`
	Active        bool       `json:"active"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		SID:           u.SID,
		Username:      u.Username,
		Role:          u.Role,
		UniversitySID: u.UniversitySID,
		Active:        u.Active,
		LastLoginAt:   u.LastLoginAt,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	cmd := usecases.LoginCommand{
		Username:  req.Username,
		Password:  req.Password,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		if apperrors.IsAppError(err) {
			utils.ErrorResponseWithError(c, err)
			return
		}
		h.logger.Errorw("login failed", "error", err, "client_ip", c.ClientIP())
		utils.ErrorResponse(c, http.StatusInternalServerError, "login failed")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "login successful", gin.H{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"expires_in":    result.ExpiresIn,
		"user":          toUserResponse(result.User),
	})
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.refreshTokenUseCase.Execute(c.Request.Context(), usecases.RefreshTokenCommand{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			utils.ErrorResponseWithError(c, err)
			return
		}
		h.logger.Errorw("token refresh failed", "error", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "token refresh failed")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "token refreshed", gin.H{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"expires_in":    result.ExpiresIn,
	})
}

// Logout is stateless: tokens are not stored server side, so logout only
// acknowledges and the client discards its pair.
func (h *AuthHandler) Logout(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "logged out", nil)
}

func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userSID := c.GetString(constants.ContextKeyUserID)
	if userSID == "" {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	currentUser, err := h.currentUserUseCase.Execute(c.Request.Context(), userSID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toUserResponse(currentUser))
}
