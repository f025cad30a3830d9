package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appstudent "campus/internal/application/student"
	"campus/internal/domain/student"
	"campus/internal/shared/logger"
	"campus/internal/shared/query"
	"campus/internal/shared/utils"
)

type StudentHandler struct {
	service *appstudent.Service
	logger  logger.Interface
}

func NewStudentHandler(service *appstudent.Service, log logger.Interface) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  log,
	}
}

type CreateStudentRequest struct {
	FirstName      string `json:"first_name" binding:"required,min=1,max=128"`
	LastName       string `json:"last_name" binding:"required,min=1,max=128"`
	Email          string `json:"email" binding:"omitempty,email"`
	EnrollmentYear int    `json:"enrollment_year" binding:"required,min=1900,max=2100"`
}

type UpdateStudentRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=1,max=128"`
	LastName  *string `json:"last_name" binding:"omitempty,min=1,max=128"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Status    *string `json:"status" binding:"omitempty,oneof=enrolled suspended graduated withdrawn"`
}

type ListStudentsQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status" binding:"omitempty,oneof=enrolled suspended graduated withdrawn"`
}

type StudentResponse struct {
	SID            string    `json:"sid"`
	UniversitySID  string    `json:"university_sid"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email,omitempty"`
	EnrollmentYear int       `json:"enrollment_year"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toStudentResponse(s *student.Student) StudentResponse {
	return StudentResponse{
		SID:            s.SID,
		UniversitySID:  s.UniversitySID,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		Email:          s.Email,
		EnrollmentYear: s.EnrollmentYear,
		Status:         s.Status,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func (h *StudentHandler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("tenantID"), c.Param("sid"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", toStudentResponse(record))
}

func (h *StudentHandler) List(c *gin.Context) {
	var q ListStudentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	filter := student.ListFilter{
		PageFilter: query.PageFilter{Page: q.Page, PageSize: q.PageSize},
		Status:     q.Status,
	}

	students, total, err := h.service.List(c.Request.Context(), c.Param("tenantID"), filter)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		items = append(items, toStudentResponse(s))
	}
	utils.ListSuccessResponse(c, items, total, filter.Page, filter.PageSize)
}

func (h *StudentHandler) Create(c *gin.Context) {
	var req CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.service.Create(c.Request.Context(), c.Param("tenantID"), appstudent.CreateCommand{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		EnrollmentYear: req.EnrollmentYear,
	})
	if err != nil {
		h.logger.Errorw("failed to create student", "error", err, "tenant_id", c.Param("tenantID"))
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toStudentResponse(record), "student created")
}

func (h *StudentHandler) Update(c *gin.Context) {
	var req UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.service.Update(c.Request.Context(), c.Param("tenantID"), c.Param("sid"), appstudent.UpdateCommand{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Status:    req.Status,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "student updated", toStudentResponse(record))
}

func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("tenantID"), c.Param("sid")); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}
