package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/talentgate/assess-backend/internal/model"
	"github.com/talentgate/assess-backend/internal/response"
	"github.com/talentgate/assess-backend/internal/service"
)

// CandidateAdminHandler exposes candidate assessments to recruiters.
type CandidateAdminHandler struct {
	candidateService *service.CandidateService
	sessionService   *service.SessionService
}

// NewCandidateAdminHandler creates a new CandidateAdminHandler.
func NewCandidateAdminHandler(candidateService *service.CandidateService, sessionService *service.SessionService) *CandidateAdminHandler {
	return &CandidateAdminHandler{
		candidateService: candidateService,
		sessionService:   sessionService,
	}
}

// ListCandidates godoc
// GET /api/v1/admin/jobs/:job_id/candidates?status=&page=&per_page=
func (h *CandidateAdminHandler) ListCandidates(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var status *model.AssessmentStatus
	if raw := c.Query("status"); raw != "" {
		s := model.AssessmentStatus(raw)
		if !s.IsValid() {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		status = &s
	}

	candidates, total, err := h.candidateService.ListByJob(c.Request.Context(), jobID, status, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"candidates": candidates}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

// GetCandidate godoc
// GET /api/v1/admin/candidates/:assessment_id
// Returns the assessment with its session, when one exists.
func (h *CandidateAdminHandler) GetCandidate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("assessment_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	candidate, err := h.candidateService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	data := gin.H{"assessment": candidate}
	if session, err := h.sessionService.GetByAssessment(c.Request.Context(), id); err == nil {
		data["session"] = session
	}

	response.Success(c, http.StatusOK, data)
}

// GetCommunicationLog godoc
// GET /api/v1/admin/candidates/:assessment_id/communications
func (h *CandidateAdminHandler) GetCommunicationLog(c *gin.Context) {
	id, err := uuid.Parse(c.Param("assessment_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	entries, err := h.candidateService.CommunicationLog(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"entries": entries})
}

// GetViolations godoc
// GET /api/v1/admin/candidates/:assessment_id/violations
// Returns the proctoring audit trail for the candidate's session.
func (h *CandidateAdminHandler) GetViolations(c *gin.Context) {
	id, err := uuid.Parse(c.Param("assessment_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	events, err := h.candidateService.ViolationTrail(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"violations": events})
}
