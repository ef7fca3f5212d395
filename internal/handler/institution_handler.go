package handler

import (
	"net/http"
	"strconv"

	"github.com/brightclass/brightclass-backend/internal/middleware"
	"github.com/brightclass/brightclass-backend/internal/model"
	"github.com/brightclass/brightclass-backend/internal/response"
	"github.com/brightclass/brightclass-backend/internal/service"
	"github.com/brightclass/brightclass-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// InstitutionHandler handles institution administration. Every route resolves
// the target institution from the caller's admin binding, never from the
// payload, so an admin can only ever act on their own institution.
type InstitutionHandler struct {
	institutionService *service.InstitutionService
	accountService     *service.AccountService
}

// NewInstitutionHandler creates a new InstitutionHandler.
func NewInstitutionHandler(institutionService *service.InstitutionService, accountService *service.AccountService) *InstitutionHandler {
	return &InstitutionHandler{
		institutionService: institutionService,
		accountService:     accountService,
	}
}

// GetMyInstitution godoc
// GET /api/v1/institution
func (h *InstitutionHandler) GetMyInstitution(c *gin.Context) {
	institution, err := h.adminInstitution(c)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, institution)
}

// GetCapacity godoc
// GET /api/v1/institution/capacity
// Reports current counts against license limits.
func (h *InstitutionHandler) GetCapacity(c *gin.Context) {
	institution, err := h.adminInstitution(c)
	if err != nil {
		response.FailDomain(c, err)
		return
	}

	capacity, err := h.institutionService.GetCapacity(c.Request.Context(), institution.ID)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, capacity)
}

// UpgradeLicense godoc
// PUT /api/v1/institution/license
func (h *InstitutionHandler) UpgradeLicense(c *gin.Context) {
	institution, err := h.adminInstitution(c)
	if err != nil {
		response.FailDomain(c, err)
		return
	}

	var req model.UpgradeLicenseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	upgraded, err := h.institutionService.UpgradeLicense(c.Request.Context(), institution.ID, req)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, upgraded)
}

// ListTeachers godoc
// GET /api/v1/institution/teachers
func (h *InstitutionHandler) ListTeachers(c *gin.Context) {
	institution, err := h.adminInstitution(c)
	if err != nil {
		response.FailDomain(c, err)
		return
	}

	page, perPage := pageParams(c)
	teachers, total, err := h.institutionService.ListTeachers(c.Request.Context(), institution.ID, perPage, (page-1)*perPage)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, teachers, pagination(page, perPage, total))
}

// ListStudents godoc
// GET /api/v1/institution/students
func (h *InstitutionHandler) ListStudents(c *gin.Context) {
	institution, err := h.adminInstitution(c)
	if err != nil {
		response.FailDomain(c, err)
		return
	}

	page, perPage := pageParams(c)
	students, total, err := h.institutionService.ListStudents(c.Request.Context(), institution.ID, perPage, (page-1)*perPage)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, students, pagination(page, perPage, total))
}

// CreateTeacherRequest is the payload for admin-created teacher accounts.
type CreateTeacherRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
	Name  string `json:"name" binding:"required,min=2,max=255"`
}

// CreateTeacher godoc
// POST /api/v1/institution/teachers
// Provisions an affiliated teacher account with a temporary password.
// Fails when the subscription lapsed or teacher capacity is full.
func (h *InstitutionHandler) CreateTeacher(c *gin.Context) {
	institution, err := h.adminInstitution(c)
	if err != nil {
		response.FailDomain(c, err)
		return
	}

	var req CreateTeacherRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	account, err := h.accountService.CreateAffiliatedTeacher(c.Request.Context(), institution.ID, req.Email, req.Name)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusCreated, account)
}

// CreateStudentRequest is the payload for admin-created student accounts.
type CreateStudentRequest struct {
	Email      string `json:"email" binding:"required,email,max=255"`
	Name       string `json:"name" binding:"required,min=2,max=255"`
	GradeLevel int    `json:"grade_level" binding:"required,min=1,max=12"`
}

// CreateStudent godoc
// POST /api/v1/institution/students
func (h *InstitutionHandler) CreateStudent(c *gin.Context) {
	institution, err := h.adminInstitution(c)
	if err != nil {
		response.FailDomain(c, err)
		return
	}

	var req CreateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	account, err := h.accountService.CreateAffiliatedStudent(c.Request.Context(), institution.ID, req.Email, req.Name, req.GradeLevel)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusCreated, account)
}

// RemoveTeacher godoc
// DELETE /api/v1/institution/teachers/:id
// Detaches the teacher profile; the teacher becomes independent.
func (h *InstitutionHandler) RemoveTeacher(c *gin.Context) {
	institution, err := h.adminInstitution(c)
	if err != nil {
		response.FailDomain(c, err)
		return
	}

	if err := h.institutionService.RemoveTeacher(c.Request.Context(), institution.ID, c.Param("id")); err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// RemoveStudent godoc
// DELETE /api/v1/institution/students/:id
func (h *InstitutionHandler) RemoveStudent(c *gin.Context) {
	institution, err := h.adminInstitution(c)
	if err != nil {
		response.FailDomain(c, err)
		return
	}

	if err := h.institutionService.RemoveStudent(c.Request.Context(), institution.ID, c.Param("id")); err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

func (h *InstitutionHandler) adminInstitution(c *gin.Context) (*model.Institution, error) {
	claims := middleware.GetClaims(c)
	return h.institutionService.GetAdminInstitution(c.Request.Context(), claims.Subject)
}

const (
	defaultPerPage = 25
	maxPerPage     = 100
)

// pageParams reads ?page= and ?per_page=, clamping unusable values to the
// defaults instead of failing the request.
func pageParams(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if perPage < 1 || perPage > maxPerPage {
		perPage = defaultPerPage
	}
	return page, perPage
}

func pagination(page, perPage, total int) *response.Pagination {
	totalPages := (total + perPage - 1) / perPage
	return &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
