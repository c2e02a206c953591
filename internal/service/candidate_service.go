package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/talentgate/assess-backend/internal/model"
	"github.com/talentgate/assess-backend/internal/repository"
)

// CandidateService exposes candidate assessments to the admin surface.
type CandidateService struct {
	candidateRepo *repository.CandidateRepository
	commRepo      *repository.CommunicationRepository
	violationRepo *repository.ViolationRepository
	sessionRepo   *repository.SessionRepository
}

// NewCandidateService creates a new CandidateService.
func NewCandidateService(
	candidateRepo *repository.CandidateRepository,
	commRepo *repository.CommunicationRepository,
	violationRepo *repository.ViolationRepository,
	sessionRepo *repository.SessionRepository,
) *CandidateService {
	return &CandidateService{
		candidateRepo: candidateRepo,
		commRepo:      commRepo,
		violationRepo: violationRepo,
		sessionRepo:   sessionRepo,
	}
}

// GetByID retrieves a candidate assessment.
func (s *CandidateService) GetByID(ctx context.Context, id uuid.UUID) (*model.CandidateAssessment, error) {
	return s.candidateRepo.GetByID(ctx, id)
}

// GetBySessionToken retrieves a candidate assessment by session token.
func (s *CandidateService) GetBySessionToken(ctx context.Context, token string) (*model.CandidateAssessment, error) {
	return s.candidateRepo.GetBySessionToken(ctx, token)
}

// ListByJob lists a job's candidates with optional status filter.
func (s *CandidateService) ListByJob(ctx context.Context, jobID uuid.UUID, status *model.AssessmentStatus, page, perPage int) ([]model.CandidateAssessment, int, error) {
	offset := (page - 1) * perPage
	return s.candidateRepo.ListByJob(ctx, jobID, status, perPage, offset)
}

// CommunicationLog retrieves a candidate's communication trail.
func (s *CandidateService) CommunicationLog(ctx context.Context, assessmentID uuid.UUID) ([]model.CommunicationEntry, error) {
	return s.commRepo.ListByAssessment(ctx, assessmentID)
}

// ViolationTrail retrieves the proctoring audit trail for a
// candidate's session.
func (s *CandidateService) ViolationTrail(ctx context.Context, assessmentID uuid.UUID) ([]model.ViolationEvent, error) {
	session, err := s.sessionRepo.GetByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	return s.violationRepo.ListBySession(ctx, session.ID)
}
