package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus/internal/domain/tenant"
	apperrors "campus/internal/shared/errors"
	"campus/internal/shared/id"
	"campus/internal/shared/logger"
	"campus/internal/shared/query"
	"campus/internal/shared/utils"
)

// UniversityHandler serves the cross-tenant administration surface. All of
// its routes sit behind the admin permission middleware.
type UniversityHandler struct {
	repo   tenant.Repository
	logger logger.Interface
}

func NewUniversityHandler(repo tenant.Repository, log logger.Interface) *UniversityHandler {
	return &UniversityHandler{
		repo:   repo,
		logger: log,
	}
}

type CreateUniversityRequest struct {
	Name string `json:"name" binding:"required,min=2,max=255"`
	Code string `json:"code" binding:"required,min=2,max=32,alphanum"`
}

type UpdateUniversityRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=2,max=255"`
	Active *bool   `json:"active"`
}

type UniversityResponse struct {
	SID    string `json:"sid"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Active bool   `json:"active"`
}

func toUniversityResponse(u *tenant.University) UniversityResponse {
	return UniversityResponse{
		SID:    u.SID,
		Name:   u.Name,
		Code:   u.Code,
		Active: u.Active,
	}
}

func (h *UniversityHandler) List(c *gin.Context) {
	var filter query.PageFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	universities, total, err := h.repo.List(c.Request.Context(), filter.Offset(), filter.Limit())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]UniversityResponse, 0, len(universities))
	for _, u := range universities {
		items = append(items, toUniversityResponse(u))
	}
	utils.ListSuccessResponse(c, items, total, filter.Page, filter.PageSize)
}

func (h *UniversityHandler) Get(c *gin.Context) {
	university, err := h.repo.GetBySID(c.Request.Context(), c.Param("tenantID"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if university == nil {
		utils.ErrorResponseWithError(c, apperrors.NewNotFoundError("university not found"))
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", toUniversityResponse(university))
}

func (h *UniversityHandler) Create(c *gin.Context) {
	var req CreateUniversityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	university := &tenant.University{
		SID:    id.MustGenerateWithPrefix(id.PrefixUniversity, id.DefaultLength),
		Name:   req.Name,
		Code:   req.Code,
		Active: true,
	}
	if err := h.repo.Create(c.Request.Context(), university); err != nil {
		h.logger.Errorw("failed to create university", "error", err, "code", req.Code)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toUniversityResponse(university), "university created")
}

func (h *UniversityHandler) Update(c *gin.Context) {
	var req UpdateUniversityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	university, err := h.repo.GetBySID(c.Request.Context(), c.Param("tenantID"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if university == nil {
		utils.ErrorResponseWithError(c, apperrors.NewNotFoundError("university not found"))
		return
	}

	if req.Name != nil {
		university.Name = *req.Name
	}
	if req.Active != nil {
		university.Active = *req.Active
	}

	if err := h.repo.Update(c.Request.Context(), university); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "university updated", toUniversityResponse(university))
}
