package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/talentgate/assess-backend/internal/middleware"
	"github.com/talentgate/assess-backend/internal/model"
	"github.com/talentgate/assess-backend/internal/repository"
	"github.com/talentgate/assess-backend/internal/response"
	"github.com/talentgate/assess-backend/internal/service"
	"github.com/talentgate/assess-backend/internal/validator"
)

// EvaluationHandler handles evaluation triggering, results, and the
// final admin decision.
type EvaluationHandler struct {
	evalService      *service.EvaluationService
	candidateService *service.CandidateService
}

// NewEvaluationHandler creates a new EvaluationHandler.
func NewEvaluationHandler(evalService *service.EvaluationService, candidateService *service.CandidateService) *EvaluationHandler {
	return &EvaluationHandler{
		evalService:      evalService,
		candidateService: candidateService,
	}
}

// TriggerEvaluation godoc
// POST /api/v1/admin/candidates/:assessment_id/evaluate
// Queues a fresh evaluation. Valid from SUBMITTED (first run) or
// EVALUATED (re-evaluation); a marker key dedupes concurrent triggers.
func (h *EvaluationHandler) TriggerEvaluation(c *gin.Context) {
	candidate := h.loadCandidate(c)
	if candidate == nil {
		return
	}

	if err := h.evalService.Trigger(c.Request.Context(), candidate); err != nil {
		switch {
		case errors.Is(err, service.ErrEvaluationNotReady):
			response.Fail(c, http.StatusConflict, response.ErrEvaluationNotReady)
		case errors.Is(err, service.ErrEvaluationPending):
			response.Fail(c, http.StatusConflict, response.ErrEvaluationPending)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{"status": candidate.Status})
}

// GetEvaluation godoc
// GET /api/v1/admin/candidates/:assessment_id/evaluation
func (h *EvaluationHandler) GetEvaluation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("assessment_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	eval, err := h.evalService.GetResult(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEvaluationNotReady) {
			response.Fail(c, http.StatusNotFound, response.ErrEvaluationNotReady)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"evaluation": eval})
}

// RecordDecision godoc
// POST /api/v1/admin/candidates/:assessment_id/decision
// Records the human verdict and closes the lifecycle.
func (h *EvaluationHandler) RecordDecision(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	candidate := h.loadCandidate(c)
	if candidate == nil {
		return
	}

	var req model.RecordDecisionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	eval, err := h.evalService.RecordDecision(c.Request.Context(), candidate, claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDecisionNotReady):
			response.Fail(c, http.StatusConflict, response.ErrEvaluationNotReady)
		case errors.Is(err, repository.ErrDecisionAlreadyRecorded):
			response.Fail(c, http.StatusConflict, response.ErrDecisionRecorded)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"evaluation": eval})
}

func (h *EvaluationHandler) loadCandidate(c *gin.Context) *model.CandidateAssessment {
	id, err := uuid.Parse(c.Param("assessment_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return nil
	}

	candidate, err := h.candidateService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return nil
	}
	return candidate
}
