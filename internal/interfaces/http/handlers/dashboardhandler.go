package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus/internal/application/report"
	"campus/internal/shared/logger"
	"campus/internal/shared/utils"
)

type DashboardHandler struct {
	dashboardUseCase *report.DashboardUseCase
	logger           logger.Interface
}

func NewDashboardHandler(dashboardUC *report.DashboardUseCase, log logger.Interface) *DashboardHandler {
	return &DashboardHandler{
		dashboardUseCase: dashboardUC,
		logger:           log,
	}
}

func (h *DashboardHandler) Get(c *gin.Context) {
	snapshot, err := h.dashboardUseCase.Execute(c.Request.Context(), c.Param("tenantID"))
	if err != nil {
		h.logger.Errorw("failed to build dashboard", "error", err, "tenant_id", c.Param("tenantID"))
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", snapshot)
}
