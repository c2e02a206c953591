package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/talentgate/assess-backend/internal/middleware"
	"github.com/talentgate/assess-backend/internal/model"
	"github.com/talentgate/assess-backend/internal/response"
	"github.com/talentgate/assess-backend/internal/service"
	"github.com/talentgate/assess-backend/internal/validator"
)

// SessionHandler handles the timed assessment run.
type SessionHandler struct {
	sessionService   *service.SessionService
	candidateService *service.CandidateService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *service.SessionService, candidateService *service.CandidateService) *SessionHandler {
	return &SessionHandler{
		sessionService:   sessionService,
		candidateService: candidateService,
	}
}

// Start godoc
// POST /api/v1/candidate/assessments/:assessment_id/session/start
// Assigns a random active set and issues the session token. Idempotent:
// a second call resumes the existing session with the same token.
func (h *SessionHandler) Start(c *gin.Context) {
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

	result, err := h.sessionService.Start(c.Request.Context(), candidate)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotReady):
			response.Fail(c, http.StatusConflict, response.ErrOnboardingIncomplete)
		case errors.Is(err, service.ErrNoActiveSet):
			response.Fail(c, http.StatusConflict, response.ErrNoActiveSet)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetState godoc
// GET /api/v1/candidate/session
// Returns the current session state for resumption after a refresh or
// reconnect.
func (h *SessionHandler) GetState(c *gin.Context) {
	candidate := middleware.GetCandidate(c)
	if candidate == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionTokenInvalid)
		return
	}

	state, err := h.sessionService.GetState(c.Request.Context(), candidate)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotStarted) {
			response.Fail(c, http.StatusConflict, response.ErrSessionCompleted)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"state": state})
}

// Heartbeat godoc
// POST /api/v1/candidate/session/heartbeat
func (h *SessionHandler) Heartbeat(c *gin.Context) {
	candidate := middleware.GetCandidate(c)
	if candidate == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionTokenInvalid)
		return
	}

	if err := h.sessionService.Heartbeat(c.Request.Context(), candidate); err != nil {
		switch {
		case errors.Is(err, service.ErrSessionTerminated):
			response.Fail(c, http.StatusConflict, response.ErrSessionTerminated)
		case errors.Is(err, service.ErrSessionCompleted):
			response.Fail(c, http.StatusConflict, response.ErrSessionCompleted)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// ReportViolation godoc
// POST /api/v1/candidate/session/violations
// Records one proctoring strike. The response carries the updated
// strike count; the third strike terminates the session.
func (h *SessionHandler) ReportViolation(c *gin.Context) {
	candidate := middleware.GetCandidate(c)
	if candidate == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionTokenInvalid)
		return
	}

	var req model.ReportViolationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.sessionService.ReportViolation(c.Request.Context(), candidate, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionTerminated):
			// The strike was recorded; the session is now dead.
			if session != nil {
				response.Success(c, http.StatusOK, gin.H{
					"violation_count": session.ViolationCount,
					"terminated":      true,
				})
				return
			}
			response.Fail(c, http.StatusConflict, response.ErrSessionTerminated)
		case errors.Is(err, service.ErrSessionCompleted):
			response.Fail(c, http.StatusConflict, response.ErrSessionCompleted)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"violation_count": session.ViolationCount,
		"terminated":      false,
	})
}
