package handler

import (
	"net/http"

	"github.com/brightclass/brightclass-backend/internal/middleware"
	"github.com/brightclass/brightclass-backend/internal/model"
	"github.com/brightclass/brightclass-backend/internal/response"
	"github.com/brightclass/brightclass-backend/internal/service"
	"github.com/brightclass/brightclass-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// InvitationHandler handles the invitation workflow.
type InvitationHandler struct {
	invitationService  *service.InvitationService
	institutionService *service.InstitutionService
}

// NewInvitationHandler creates a new InvitationHandler.
func NewInvitationHandler(invitationService *service.InvitationService, institutionService *service.InstitutionService) *InvitationHandler {
	return &InvitationHandler{
		invitationService:  invitationService,
		institutionService: institutionService,
	}
}

// InviteToInstitution godoc
// POST /api/v1/institution/invitations/:role
// Invites an email address to join the caller's institution as a teacher or
// student. Only one pending invitation per address and context may exist.
func (h *InvitationHandler) InviteToInstitution(c *gin.Context) {
	claims := middleware.GetClaims(c)

	role := model.InviteeRole(c.Param("role"))
	if role != model.InviteeRoleTeacher && role != model.InviteeRoleStudent {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	institution, err := h.institutionService.GetAdminInstitution(c.Request.Context(), claims.Subject)
	if err != nil {
		response.FailDomain(c, err)
		return
	}

	var req model.CreateInvitationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	invitation, err := h.invitationService.CreateInstitutionInvitation(c.Request.Context(), claims.Subject, institution.ID, role, req)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusCreated, invitation)
}

// InviteStudent godoc
// POST /api/v1/teacher/invitations
// Invites a student to work with the calling teacher on a subject.
func (h *InvitationHandler) InviteStudent(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreateInvitationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	invitation, err := h.invitationService.CreateTeacherInvitation(c.Request.Context(), claims.Subject, req)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusCreated, invitation)
}

// ListMyInvitations godoc
// GET /api/v1/invitations
// Returns invitations addressed to the caller's email; stale pending rows
// come back expired.
func (h *InvitationHandler) ListMyInvitations(c *gin.Context) {
	claims := middleware.GetClaims(c)

	invitations, err := h.invitationService.ListForEmail(c.Request.Context(), claims.Email)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, invitations)
}

// Accept godoc
// POST /api/v1/invitations/:id/accept
// Accepting creates the relationship the invitation describes in the same
// transaction as the status flip.
func (h *InvitationHandler) Accept(c *gin.Context) {
	claims := middleware.GetClaims(c)

	invitation, err := h.invitationService.Accept(c.Request.Context(), c.Param("id"), claims.Subject)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, invitation)
}

// Reject godoc
// POST /api/v1/invitations/:id/reject
func (h *InvitationHandler) Reject(c *gin.Context) {
	claims := middleware.GetClaims(c)

	invitation, err := h.invitationService.Reject(c.Request.Context(), c.Param("id"), claims.Subject)
	if err != nil {
		response.FailDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, invitation)
}
