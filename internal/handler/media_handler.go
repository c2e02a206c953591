package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talentgate/assess-backend/internal/response"
	"github.com/talentgate/assess-backend/internal/service"
)

// MediaHandler handles candidate file uploads. The returned URL is the
// file_ref the onboarding endpoints expect.
type MediaHandler struct {
	mediaService *service.MediaService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// UploadPhoto godoc
// POST /api/v1/candidate/uploads/photo
func (h *MediaHandler) UploadPhoto(c *gin.Context) {
	h.upload(c, h.mediaService.SavePhoto)
}

// UploadResumeFile godoc
// POST /api/v1/candidate/uploads/resume
func (h *MediaHandler) UploadResumeFile(c *gin.Context) {
	h.upload(c, h.mediaService.SaveResume)
}

func (h *MediaHandler) upload(c *gin.Context, save func(multipart.File, *multipart.FileHeader) (string, error)) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	url, err := save(file, header)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFileType):
			response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		case errors.Is(err, service.ErrFileTooLarge):
			response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"url": url})
}
