package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/talentgate/assess-backend/internal/model"
	"github.com/talentgate/assess-backend/internal/repository"
	"github.com/talentgate/assess-backend/internal/response"
	"github.com/talentgate/assess-backend/internal/service"
	"github.com/talentgate/assess-backend/internal/validator"
)

// OnboardingHandler handles the candidate pre-assessment gate:
// registration, email OTP, photo capture, consent, and resume upload.
// Endpoints under /assessments/:assessment_id are capability URLs: the
// random UUID issued at registration is the credential until the
// session token takes over.
type OnboardingHandler struct {
	onboardingService *service.OnboardingService
	candidateService  *service.CandidateService
}

// NewOnboardingHandler creates a new OnboardingHandler.
func NewOnboardingHandler(onboardingService *service.OnboardingService, candidateService *service.CandidateService) *OnboardingHandler {
	return &OnboardingHandler{
		onboardingService: onboardingService,
		candidateService:  candidateService,
	}
}

// Register godoc
// POST /api/v1/candidate/register
// Creates a candidate assessment from an invitation link and sends the
// first email OTP.
func (h *OnboardingHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	candidate, err := h.onboardingService.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInviteLinkInvalid):
			response.Fail(c, http.StatusNotFound, response.ErrInviteLinkInvalid)
		case errors.Is(err, repository.ErrDuplicateCandidate):
			response.Fail(c, http.StatusConflict, response.ErrConflict)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"assessment": candidate})
}

// GetAssessment godoc
// GET /api/v1/candidate/assessments/:assessment_id
// Returns the candidate's own assessment with onboarding progress.
func (h *OnboardingHandler) GetAssessment(c *gin.Context) {
	candidate := h.loadAssessment(c)
	if candidate == nil {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"assessment": candidate})
}

// ResendOTP godoc
// POST /api/v1/candidate/assessments/:assessment_id/otp
func (h *OnboardingHandler) ResendOTP(c *gin.Context) {
	candidate := h.loadAssessment(c)
	if candidate == nil {
		return
	}

	if err := h.onboardingService.SendOTP(c.Request.Context(), candidate); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// VerifyEmail godoc
// POST /api/v1/candidate/assessments/:assessment_id/verify-email
func (h *OnboardingHandler) VerifyEmail(c *gin.Context) {
	candidate := h.loadAssessment(c)
	if candidate == nil {
		return
	}

	var req model.VerifyEmailRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.onboardingService.VerifyEmail(c.Request.Context(), candidate, req.OTP); err != nil {
		if errors.Is(err, service.ErrInvalidOTP) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidOTP)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"onboarding": candidate.Onboarding})
}

// CapturePhoto godoc
// POST /api/v1/candidate/assessments/:assessment_id/photo
// Records the captured profile photo reference (see MediaHandler for
// the actual file upload).
func (h *OnboardingHandler) CapturePhoto(c *gin.Context) {
	candidate := h.loadAssessment(c)
	if candidate == nil {
		return
	}

	var req model.CapturePhotoRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.onboardingService.CapturePhoto(c.Request.Context(), candidate, req.PhotoRef); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"onboarding": candidate.Onboarding})
}

// AcceptConsent godoc
// POST /api/v1/candidate/assessments/:assessment_id/consent
func (h *OnboardingHandler) AcceptConsent(c *gin.Context) {
	candidate := h.loadAssessment(c)
	if candidate == nil {
		return
	}

	if err := h.onboardingService.AcceptConsent(c.Request.Context(), candidate); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"onboarding": candidate.Onboarding})
}

// UploadResume godoc
// POST /api/v1/candidate/assessments/:assessment_id/resume
// Stores the resume text and queues it for analysis. Requires the
// three verification steps to be complete.
func (h *OnboardingHandler) UploadResume(c *gin.Context) {
	candidate := h.loadAssessment(c)
	if candidate == nil {
		return
	}

	var req model.UploadResumeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.onboardingService.UploadResume(c.Request.Context(), candidate, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrOnboardingIncomplete):
			response.Fail(c, http.StatusConflict, response.ErrOnboardingIncomplete)
		case errors.Is(err, service.ErrResumeAlreadyUploaded):
			response.Fail(c, http.StatusConflict, response.ErrResumeAlreadyUploaded)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"status": candidate.Status})
}

func (h *OnboardingHandler) loadAssessment(c *gin.Context) *model.CandidateAssessment {
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
