package handler

import (
	"net/http"

	"github.com/brightclass/brightclass-backend/internal/apperr"
	"github.com/brightclass/brightclass-backend/internal/middleware"
	"github.com/brightclass/brightclass-backend/internal/model"
	"github.com/brightclass/brightclass-backend/internal/response"
	"github.com/brightclass/brightclass-backend/internal/service"
	"github.com/brightclass/brightclass-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// RelationshipHandler handles teacher-student assignments, profile
// management, and academic goals.
type RelationshipHandler struct {
	relationshipService *service.RelationshipService
}

// NewRelationshipHandler creates a new RelationshipHandler.
func NewRelationshipHandler(relationshipService *service.RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{relationshipService: relationshipService}
}

// ─── Teacher side ───────────────────────────────────────────────────────────

// CreateAssignmentRequest is the payload for pairing with a student.
type CreateAssignmentRequest struct {
	StudentProfileID string `json:"student_profile_id" binding:"required"`
	Subject          string `json:"subject" binding:"required,min=2,max=100"`
}

// CreateAssignment godoc
// POST /api/v1/teacher/assignments
// Creating an assignment that already exists returns the existing one.
func (h *RelationshipHandler) CreateAssignment(c *gin.Context) {
	claims := middleware.GetClaims(c)

	teacher, err := h.relationshipService.GetTeacherByUserID(c.Request.Context(), claims.Subject)
	if err != nil {
		response.FailDomain(c, err)
		return
	}

	var req CreateAssignmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	assignment, err := h.relationshipService.CreateAssignment(c.Request.Context(), teacher.ID, req.StudentProfileID, req.Subject)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusCreated, assignment)
}

// ListTeacherAssignments godoc
// GET /api/v1/teacher/assignments?active=true
func (h *RelationshipHandler) ListTeacherAssignments(c *gin.Context) {
	claims := middleware.GetClaims(c)

	teacher, err := h.relationshipService.GetTeacherByUserID(c.Request.Context(), claims.Subject)
	if err != nil {
		response.FailDomain(c, err)
		return
	}

	assignments, err := h.relationshipService.ListAssignmentsByTeacher(c.Request.Context(), teacher.ID, c.Query("active") == "true")
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, assignments)
}

// EndAssignment godoc
// POST /api/v1/teacher/assignments/:id/end
// The assignment row survives for history.
func (h *RelationshipHandler) EndAssignment(c *gin.Context) {
	assignment, err := h.ownedAssignment(c)
	if err != nil {
		response.FailDomain(c, err)
		return
	}

	ended, err := h.relationshipService.EndAssignment(c.Request.Context(), assignment.ID)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, ended)
}

// ReactivateAssignment godoc
// POST /api/v1/teacher/assignments/:id/reactivate
func (h *RelationshipHandler) ReactivateAssignment(c *gin.Context) {
	assignment, err := h.ownedAssignment(c)
	if err != nil {
		response.FailDomain(c, err)
		return
	}

	reactivated, err := h.relationshipService.ReactivateAssignment(c.Request.Context(), assignment.ID)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, reactivated)
}

// EndStudentLink godoc
// DELETE /api/v1/teacher/students/:studentProfileId
// Ends every active assignment the caller has with the student.
func (h *RelationshipHandler) EndStudentLink(c *gin.Context) {
	claims := middleware.GetClaims(c)

	teacher, err := h.relationshipService.GetTeacherByUserID(c.Request.Context(), claims.Subject)
	if err != nil {
		response.FailDomain(c, err)
		return
	}

	if err := h.relationshipService.EndTeacherStudentLink(c.Request.Context(), teacher.ID, c.Param("studentProfileId")); err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// ─── Student side ───────────────────────────────────────────────────────────

// ListStudentAssignments godoc
// GET /api/v1/student/assignments?active=true
func (h *RelationshipHandler) ListStudentAssignments(c *gin.Context) {
	claims := middleware.GetClaims(c)

	student, err := h.relationshipService.GetStudentByUserID(c.Request.Context(), claims.Subject)
	if err != nil {
		response.FailDomain(c, err)
		return
	}

	assignments, err := h.relationshipService.ListAssignmentsByStudent(c.Request.Context(), student.ID, c.Query("active") == "true")
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, assignments)
}

// UpdateEducationInfoRequest is the payload for education info updates.
type UpdateEducationInfoRequest struct {
	GradeLevel int    `json:"grade_level" binding:"required,min=1,max=12"`
	SchoolName string `json:"school_name" binding:"omitempty,max=255"`
}

// GetParentProfile godoc
// GET /api/v1/parent/profile
func (h *RelationshipHandler) GetParentProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)

	profile, err := h.relationshipService.GetParentByUserID(c.Request.Context(), claims.Subject)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// UpdateEducationInfo godoc
// PUT /api/v1/student/profile
func (h *RelationshipHandler) UpdateEducationInfo(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req UpdateEducationInfoRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	profile, err := h.relationshipService.UpdateEducationInfo(c.Request.Context(), claims.Subject, req.GradeLevel, req.SchoolName)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// LeaveInstitution godoc
// DELETE /api/v1/users/me/institution
// Detaches the caller's profile from its institution.
func (h *RelationshipHandler) LeaveInstitution(c *gin.Context) {
	claims := middleware.GetClaims(c)

	if err := h.relationshipService.LeaveInstitution(c.Request.Context(), claims.Subject); err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// ─── Academic goals ─────────────────────────────────────────────────────────

// CreateGoal godoc
// POST /api/v1/student/goals
func (h *RelationshipHandler) CreateGoal(c *gin.Context) {
	claims := middleware.GetClaims(c)

	student, err := h.relationshipService.GetStudentByUserID(c.Request.Context(), claims.Subject)
	if err != nil {
		response.FailDomain(c, err)
		return
	}

	var req model.CreateGoalRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	goal, err := h.relationshipService.CreateGoal(c.Request.Context(), student.ID, req)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusCreated, goal)
}

// ListGoals godoc
// GET /api/v1/student/goals
func (h *RelationshipHandler) ListGoals(c *gin.Context) {
	claims := middleware.GetClaims(c)

	student, err := h.relationshipService.GetStudentByUserID(c.Request.Context(), claims.Subject)
	if err != nil {
		response.FailDomain(c, err)
		return
	}

	goals, err := h.relationshipService.ListGoals(c.Request.Context(), student.ID)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, goals)
}

// UpdateGoalProgress godoc
// PUT /api/v1/student/goals/:id/progress
// Hitting 100 marks the goal completed; dropping below reopens it.
func (h *RelationshipHandler) UpdateGoalProgress(c *gin.Context) {
	claims := middleware.GetClaims(c)

	student, err := h.relationshipService.GetStudentByUserID(c.Request.Context(), claims.Subject)
	if err != nil {
		response.FailDomain(c, err)
		return
	}

	var req model.UpdateGoalProgressRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	goal, err := h.relationshipService.GetGoal(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	if goal.StudentProfileID != student.ID {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	updated, err := h.relationshipService.UpdateGoalProgress(c.Request.Context(), goal.ID, *req.Progress)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

func (h *RelationshipHandler) ownedAssignment(c *gin.Context) (*model.TeacherStudentAssignment, error) {
	claims := middleware.GetClaims(c)

	teacher, err := h.relationshipService.GetTeacherByUserID(c.Request.Context(), claims.Subject)
	if err != nil {
		return nil, err
	}
	assignment, err := h.relationshipService.GetAssignment(c.Request.Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	if assignment.TeacherID != teacher.ID {
		return nil, apperr.Forbidden("assignment belongs to another teacher")
	}
	return assignment, nil
}
