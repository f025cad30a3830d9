package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus/internal/domain/user"
	"campus/internal/infrastructure/auth"
	apperrors "campus/internal/shared/errors"
	"campus/internal/shared/id"
	"campus/internal/shared/logger"
	"campus/internal/shared/utils"
)

// UserHandler serves operator account administration. Like the university
// routes it is cross-tenant and sits behind the permission middleware.
type UserHandler struct {
	repo   user.Repository
	hasher auth.PasswordHasher
	logger logger.Interface
}

func NewUserHandler(repo user.Repository, hasher auth.PasswordHasher, log logger.Interface) *UserHandler {
	return &UserHandler{
		repo:   repo,
		hasher: hasher,
		logger: log,
	}
}

type CreateUserRequest struct {
	Username      string `json:"username" binding:"required,min=2,max=64"`
	Password      string `json:"password" binding:"required,min=8"`
	Role          string `json:"role" binding:"required,oneof=admin system staff"`
	UniversitySID string `json:"university_sid" binding:"omitempty,sid"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	// Staff accounts must be bound to a university; cross-tenant roles must
	// not be.
	if req.Role == "staff" && req.UniversitySID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "staff accounts require a university_sid")
		return
	}
	if req.Role != "staff" && req.UniversitySID != "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "cross-tenant roles must not carry a university_sid")
		return
	}

	existing, err := h.repo.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if existing != nil {
		utils.ErrorResponseWithError(c, apperrors.NewConflictError("username already taken"))
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.logger.Errorw("failed to hash password", "error", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	account := &user.User{
		SID:           id.MustGenerateWithPrefix(id.PrefixUser, id.DefaultLength),
		Username:      req.Username,
		PasswordHash:  hash,
		Role:          req.Role,
		UniversitySID: req.UniversitySID,
		Active:        true,
	}
	if err := h.repo.Create(c.Request.Context(), account); err != nil {
		if apperrors.IsDuplicateError(err) {
			utils.ErrorResponseWithError(c, apperrors.NewConflictError("username already taken"))
			return
		}
		h.logger.Errorw("failed to create user", "error", err, "username", req.Username)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toUserResponse(account), "user created")
}
