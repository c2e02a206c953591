package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/talentgate/assess-backend/internal/model"
	"github.com/talentgate/assess-backend/internal/response"
	"github.com/talentgate/assess-backend/internal/service"
	"github.com/talentgate/assess-backend/internal/validator"
)

// SetHandler handles admin assessment set management.
type SetHandler struct {
	setService *service.SetService
}

// NewSetHandler creates a new SetHandler.
func NewSetHandler(setService *service.SetService) *SetHandler {
	return &SetHandler{setService: setService}
}

// CreateSet godoc
// POST /api/v1/admin/sets
// Creates an immutable assessment set with its full question pool.
func (h *SetHandler) CreateSet(c *gin.Context) {
	var req model.CreateSetRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	set, err := h.setService.Create(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrObjectiveNeedsKey),
			errors.Is(err, service.ErrProgrammingNeedsCases),
			errors.Is(err, service.ErrCorrectIndexOutOfRange):
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"questions": err.Error()})
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"set": set})
}

// GetSet godoc
// GET /api/v1/admin/sets/:set_id
func (h *SetHandler) GetSet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("set_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	set, err := h.setService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"set": set})
}

// ListSetsByJob godoc
// GET /api/v1/admin/jobs/:job_id/sets
func (h *SetHandler) ListSetsByJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	sets, err := h.setService.ListByJob(c.Request.Context(), jobID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sets": sets})
}

// SetActiveRequest toggles set eligibility for assignment.
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetActive godoc
// PATCH /api/v1/admin/sets/:set_id/active
func (h *SetHandler) SetActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("set_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req SetActiveRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.setService.SetActive(c.Request.Context(), id, *req.IsActive); err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
