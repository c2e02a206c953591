package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/talentgate/assess-backend/internal/model"
	"github.com/talentgate/assess-backend/internal/repository"
)

// Set validation errors.
var (
	ErrObjectiveNeedsKey      = errors.New("objective question requires options and a correct index")
	ErrProgrammingNeedsCases  = errors.New("programming question requires at least one test case")
	ErrCorrectIndexOutOfRange = errors.New("correct index out of range")
)

// SetService handles assessment set business logic. Sets are immutable
// after creation; only the active flag changes.
type SetService struct {
	setRepo *repository.SetRepository
}

// NewSetService creates a new SetService.
func NewSetService(setRepo *repository.SetRepository) *SetService {
	return &SetService{setRepo: setRepo}
}

// Create validates and persists a set with its questions.
func (s *SetService) Create(ctx context.Context, req *model.CreateSetRequest) (*model.AssessmentSet, error) {
	set := &model.AssessmentSet{
		JobID:            req.JobID,
		Title:            req.Title,
		TotalTimeMinutes: req.TotalTimeMinutes,
	}

	for i, qr := range req.Questions {
		q := model.SetQuestion{
			Type:         model.QuestionType(qr.Type),
			Skill:        qr.Skill,
			Points:       qr.Points,
			Text:         qr.Text,
			Options:      qr.Options,
			CorrectIndex: qr.CorrectIndex,
			KeyPoints:    qr.KeyPoints,
			Rubric:       qr.Rubric,
			OrderNum:     qr.OrderNum,
		}
		if q.OrderNum == 0 {
			q.OrderNum = i + 1
		}

		switch q.Type {
		case model.QuestionTypeObjective:
			if len(q.Options) < 2 || q.CorrectIndex == nil {
				return nil, ErrObjectiveNeedsKey
			}
			if *q.CorrectIndex >= len(q.Options) {
				return nil, ErrCorrectIndexOutOfRange
			}
		case model.QuestionTypeProgramming:
			if len(qr.TestCases) == 0 {
				return nil, ErrProgrammingNeedsCases
			}
			q.TestCases = buildTestCases(qr.TestCases)
		}

		set.Questions = append(set.Questions, q)
	}

	if err := s.setRepo.Create(ctx, set); err != nil {
		return nil, err
	}
	return set, nil
}

// buildTestCases assigns per-partition ordinals in request order.
func buildTestCases(reqs []model.CreateTestCaseReq) []model.TestCase {
	ordinals := map[model.CaseType]int{}
	cases := make([]model.TestCase, 0, len(reqs))
	for _, tc := range reqs {
		t := model.CaseType(tc.CaseType)
		ordinals[t]++
		cases = append(cases, model.TestCase{
			CaseType:       t,
			Ordinal:        ordinals[t],
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
		})
	}
	return cases
}

// GetByID retrieves a set with questions.
func (s *SetService) GetByID(ctx context.Context, id uuid.UUID) (*model.AssessmentSet, error) {
	return s.setRepo.GetByID(ctx, id)
}

// ListByJob retrieves a job's sets.
func (s *SetService) ListByJob(ctx context.Context, jobID uuid.UUID) ([]model.AssessmentSet, error) {
	return s.setRepo.ListByJob(ctx, jobID)
}

// SetActive toggles whether a set participates in random assignment.
func (s *SetService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.setRepo.SetActive(ctx, id, active)
}
