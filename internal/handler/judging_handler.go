package handler

import (
	"context"
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

// JudgingHandler handles code execution, answer saving, and completion.
type JudgingHandler struct {
	judgingService *service.JudgingService
}

// NewJudgingHandler creates a new JudgingHandler.
func NewJudgingHandler(judgingService *service.JudgingService) *JudgingHandler {
	return &JudgingHandler{judgingService: judgingService}
}

type executeFunc func(ctx context.Context, c *model.CandidateAssessment, questionID uuid.UUID, req *model.SubmitCodeRequest) (*model.AttemptResponse, error)

// RunCode godoc
// POST /api/v1/candidate/session/questions/:question_id/run
// Executes code against visible cases only.
func (h *JudgingHandler) RunCode(c *gin.Context) {
	h.execute(c, h.judgingService.Run)
}

// SubmitCode godoc
// POST /api/v1/candidate/session/questions/:question_id/submit
// Executes code against the full battery and stores it as the
// question's answer. Hidden and edge case details stay server-side;
// only pass counts come back.
func (h *JudgingHandler) SubmitCode(c *gin.Context) {
	h.execute(c, h.judgingService.Submit)
}

func (h *JudgingHandler) execute(c *gin.Context, run executeFunc) {
	candidate := middleware.GetCandidate(c)
	if candidate == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionTokenInvalid)
		return
	}

	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitCodeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	attempt, err := run(c.Request.Context(), candidate, questionID, &req)
	if err != nil {
		h.failJudging(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": attempt})
}

// SaveAnswer godoc
// PUT /api/v1/candidate/session/questions/:question_id/answer
// Saves an objective or subjective answer. Last write wins.
func (h *JudgingHandler) SaveAnswer(c *gin.Context) {
	candidate := middleware.GetCandidate(c)
	if candidate == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionTokenInvalid)
		return
	}

	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.AnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	answer, err := h.judgingService.SaveAnswer(c.Request.Context(), candidate, questionID, &req)
	if err != nil {
		h.failJudging(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"answer": answer})
}

// Complete godoc
// POST /api/v1/candidate/session/complete
// Finishes the session: final scoring of objective answers, a full
// re-run of the latest programming submissions, and handoff to the
// evaluation pipeline.
func (h *JudgingHandler) Complete(c *gin.Context) {
	candidate := middleware.GetCandidate(c)
	if candidate == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionTokenInvalid)
		return
	}

	result, err := h.judgingService.Complete(c.Request.Context(), candidate)
	if err != nil {
		h.failJudging(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

func (h *JudgingHandler) failJudging(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotStarted):
		response.Fail(c, http.StatusConflict, response.ErrSessionNotStarted)
	case errors.Is(err, service.ErrSessionTerminated):
		response.Fail(c, http.StatusConflict, response.ErrSessionTerminated)
	case errors.Is(err, service.ErrSessionCompleted):
		response.Fail(c, http.StatusConflict, response.ErrSessionCompleted)
	case errors.Is(err, service.ErrQuestionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotProgramming):
		response.Fail(c, http.StatusBadRequest, response.ErrNotProgramming)
	case errors.Is(err, service.ErrUnsupportedLanguage):
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedLanguage)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
