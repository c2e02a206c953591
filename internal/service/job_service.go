package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"github.com/talentgate/assess-backend/internal/config"
	"github.com/talentgate/assess-backend/internal/model"
	"github.com/talentgate/assess-backend/internal/repository"
)

// JobService handles job configuration business logic.
type JobService struct {
	jobRepo *repository.JobRepository
	cfg     *config.Config
}

// NewJobService creates a new JobService.
func NewJobService(jobRepo *repository.JobRepository, cfg *config.Config) *JobService {
	return &JobService{jobRepo: jobRepo, cfg: cfg}
}

// Create builds a job from the request, filling unset thresholds from
// the configured defaults and generating the invitation link.
func (s *JobService) Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error) {
	link, err := generateInviteLink()
	if err != nil {
		return nil, err
	}

	job := &model.Job{
		Title:          req.Title,
		Requirements:   req.Requirements,
		InviteLink:     link,
		MatchThreshold: s.cfg.ResumeMatchThreshold,
		CutoffScore:    s.cfg.EvaluationCutoff,
		HoldMargin:     10,
		Weights:        model.DefaultWeights,
		IsOpen:         true,
	}
	if req.MatchThreshold != nil {
		job.MatchThreshold = *req.MatchThreshold
	}
	if req.CutoffScore != nil {
		job.CutoffScore = *req.CutoffScore
	}
	if req.HoldMargin != nil {
		job.HoldMargin = *req.HoldMargin
	}
	if req.Weights != nil {
		job.Weights = *req.Weights
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// GetByID retrieves a job.
func (s *JobService) GetByID(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	return s.jobRepo.GetByID(ctx, id)
}

// List retrieves jobs with pagination.
func (s *JobService) List(ctx context.Context, page, perPage int) ([]model.Job, int, error) {
	offset := (page - 1) * perPage
	return s.jobRepo.ListPaginated(ctx, perPage, offset)
}

// SetOpen opens or closes a job for new registrations. Candidates
// already in flight are unaffected.
func (s *JobService) SetOpen(ctx context.Context, id uuid.UUID, open bool) (*model.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	job.IsOpen = open
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func generateInviteLink() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate invite link: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
