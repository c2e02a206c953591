package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/talentgate/assess-backend/internal/config"
)

// Sentinel errors for media uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// Profile photos come from the onboarding camera capture.
var photoMIMETypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Resume uploads. Text extraction happens before analysis, so only
// formats the extractor understands are accepted.
var resumeMIMETypes = map[string]string{
	"application/pdf": ".pdf",
	"text/plain":      ".txt",
}

// MediaService stores candidate uploads on local disk.
type MediaService struct {
	cfg *config.Config
}

// NewMediaService creates a new MediaService.
func NewMediaService(cfg *config.Config) *MediaService {
	return &MediaService{cfg: cfg}
}

// SavePhoto stores a captured profile photo and returns its URL path.
func (s *MediaService) SavePhoto(file multipart.File, header *multipart.FileHeader) (string, error) {
	return s.save(file, header, photoMIMETypes)
}

// SaveResume stores an uploaded resume file and returns its URL path.
func (s *MediaService) SaveResume(file multipart.File, header *multipart.FileHeader) (string, error) {
	return s.save(file, header, resumeMIMETypes)
}

func (s *MediaService) save(file multipart.File, header *multipart.FileHeader, allowed map[string]string) (string, error) {
	contentType := header.Header.Get("Content-Type")
	ext, ok := allowed[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s (allowed: %s)",
			ErrUnsupportedFileType, contentType, strings.Join(allowedTypes(allowed), ", "))
	}

	if header.Size > s.cfg.MaxUploadBytes {
		return "", fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.New().String() + ext
	destPath := filepath.Join(s.cfg.UploadDir, filename)

	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return "/uploads/" + filename, nil
}

func allowedTypes(allowed map[string]string) []string {
	types := make([]string, 0, len(allowed))
	for t := range allowed {
		types = append(types, t)
	}
	return types
}
