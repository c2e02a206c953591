package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/talentgate/assess-backend/internal/config"
	"github.com/talentgate/assess-backend/internal/judge"
	"github.com/talentgate/assess-backend/internal/model"
	"github.com/talentgate/assess-backend/internal/repository"
	"github.com/talentgate/assess-backend/internal/scoring"
)

// Judging errors.
var (
	ErrQuestionNotFound    = errors.New("question not found in assigned set")
	ErrNotProgramming      = errors.New("question is not a programming question")
	ErrUnsupportedLanguage = errors.New("unsupported programming language")
)

// CompleteResult is returned from Complete: the synchronous re-score.
type CompleteResult struct {
	OverallScore    float64 `json:"overall_score"`
	NormalizedScore float64 `json:"normalized_score"`
}

// scoreJob is the score persistence queue payload.
type scoreJob struct {
	SessionID  string  `json:"session_id"`
	Overall    float64 `json:"overall"`
	Normalized float64 `json:"normalized"`
}

// evaluateJob is the evaluation queue payload.
type evaluateJob struct {
	AssessmentID string `json:"assessment_id"`
}

// JudgingService orchestrates code execution against test batteries:
// candidate-facing runs (visible cases), submissions (full battery),
// and the completion re-score.
type JudgingService struct {
	candidateRepo *repository.CandidateRepository
	sessionRepo   *repository.SessionRepository
	setRepo       *repository.SetRepository
	attemptRepo   *repository.AttemptRepository
	answerRepo    *repository.AnswerRepository
	executor      judge.Executor
	rdb           *redis.Client
	log           zerolog.Logger
}

// NewJudgingService creates a new JudgingService.
func NewJudgingService(
	candidateRepo *repository.CandidateRepository,
	sessionRepo *repository.SessionRepository,
	setRepo *repository.SetRepository,
	attemptRepo *repository.AttemptRepository,
	answerRepo *repository.AnswerRepository,
	executor judge.Executor,
	rdb *redis.Client,
	log zerolog.Logger,
) *JudgingService {
	return &JudgingService{
		candidateRepo: candidateRepo,
		sessionRepo:   sessionRepo,
		setRepo:       setRepo,
		attemptRepo:   attemptRepo,
		answerRepo:    answerRepo,
		executor:      executor,
		rdb:           rdb,
		log:           log.With().Str("component", "judging_service").Logger(),
	}
}

// Run executes the candidate's code against visible cases only and
// records a non-final attempt.
func (s *JudgingService) Run(ctx context.Context, c *model.CandidateAssessment, questionID uuid.UUID, req *model.SubmitCodeRequest) (*model.AttemptResponse, error) {
	return s.execute(ctx, c, questionID, req, false)
}

// Submit executes the full battery, records a final attempt, and
// snapshots the code as the question's answer. Hidden and edge outputs
// are never returned, only their pass counts.
func (s *JudgingService) Submit(ctx context.Context, c *model.CandidateAssessment, questionID uuid.UUID, req *model.SubmitCodeRequest) (*model.AttemptResponse, error) {
	return s.execute(ctx, c, questionID, req, true)
}

func (s *JudgingService) execute(ctx context.Context, c *model.CandidateAssessment, questionID uuid.UUID, req *model.SubmitCodeRequest, full bool) (*model.AttemptResponse, error) {
	session, question, err := s.activeSessionAndQuestion(ctx, c, questionID)
	if err != nil {
		return nil, err
	}
	if question.Type != model.QuestionTypeProgramming {
		return nil, ErrNotProgramming
	}

	languageID, ok := judge.LanguageID(req.Language)
	if !ok {
		return nil, ErrUnsupportedLanguage
	}

	battery := judge.BuildBattery(question, full)
	results, counts := judge.RunBattery(ctx, s.executor, req.Code, languageID, battery)

	attempt := &model.Attempt{
		SessionID:         session.ID,
		QuestionID:        question.ID,
		Code:              req.Code,
		Language:          req.Language,
		IsFinalSubmission: full,
		Results:           results,
		PassCounts:        counts,
	}
	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		return nil, err
	}

	if full {
		answer := &model.AssessmentAnswer{
			AssessmentID: c.ID,
			QuestionID:   question.ID,
			QuestionType: model.QuestionTypeProgramming,
			Code:         req.Code,
			Language:     req.Language,
			TestsPassed:  counts.Passed(),
			TestsTotal:   counts.Total(),
		}
		if err := s.answerRepo.Upsert(ctx, answer); err != nil {
			return nil, err
		}
	}

	return attemptResponse(attempt), nil
}

// SaveAnswer records an objective or subjective answer. Programming
// answers go through Submit instead.
func (s *JudgingService) SaveAnswer(ctx context.Context, c *model.CandidateAssessment, questionID uuid.UUID, req *model.AnswerRequest) (*model.AssessmentAnswer, error) {
	_, question, err := s.activeSessionAndQuestion(ctx, c, questionID)
	if err != nil {
		return nil, err
	}
	if question.Type == model.QuestionTypeProgramming {
		return nil, ErrNotProgramming
	}

	answer := &model.AssessmentAnswer{
		AssessmentID:  c.ID,
		QuestionID:    question.ID,
		QuestionType:  question.Type,
		SelectedIndex: req.SelectedIndex,
		Text:          req.Text,
	}
	if err := s.answerRepo.Upsert(ctx, answer); err != nil {
		return nil, err
	}
	return answer, nil
}

// Complete finalizes the session: every programming question's latest
// code is re-run against its full battery so no score rests on a
// visible-only run, then the deterministic sections are scored and the
// candidate moves to SUBMITTED. Evaluation is queued for the AI-graded
// remainder.
func (s *JudgingService) Complete(ctx context.Context, c *model.CandidateAssessment) (*CompleteResult, error) {
	session, err := s.sessionRepo.GetByAssessment(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if session.IsTerminated {
		return nil, ErrSessionTerminated
	}
	if session.Status != model.SessionStatusInProgress {
		return nil, ErrSessionCompleted
	}

	set, err := s.setRepo.GetByID(ctx, session.SetID)
	if err != nil {
		return nil, err
	}
	answers, err := s.answerRepo.ListByAssessment(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	answerByQuestion := make(map[uuid.UUID]*model.AssessmentAnswer, len(answers))
	for i := range answers {
		answerByQuestion[answers[i].QuestionID] = &answers[i]
	}

	var earned, max float64
	for i := range set.Questions {
		q := &set.Questions[i]
		switch q.Type {
		case model.QuestionTypeObjective:
			max += q.Points
			if a, ok := answerByQuestion[q.ID]; ok && a.SelectedIndex != nil &&
				q.CorrectIndex != nil && *a.SelectedIndex == *q.CorrectIndex {
				earned += q.Points
			}
		case model.QuestionTypeProgramming:
			max += q.Points
			score, err := s.rescoreProgramming(ctx, c, session, q)
			if err != nil {
				return nil, err
			}
			earned += score
		}
		// Subjective questions are graded by the evaluation worker.
	}

	var normalized float64
	if max > 0 {
		normalized = earned / max * 100
	}

	if err := s.sessionRepo.Complete(ctx, session.ID); err != nil {
		return nil, err
	}
	if err := c.TransitionTo(model.StatusSubmitted); err != nil {
		return nil, err
	}
	if err := s.candidateRepo.UpdateStatus(ctx, c.ID, c.Status); err != nil {
		return nil, err
	}

	score, _ := json.Marshal(scoreJob{
		SessionID:  session.ID.String(),
		Overall:    earned,
		Normalized: normalized,
	})
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistScoresQueue, score).Err(); err != nil {
		s.log.Error().Err(err).Msg("failed to enqueue score persistence")
	}

	eval, _ := json.Marshal(evaluateJob{AssessmentID: c.ID.String()})
	if err := s.rdb.RPush(ctx, config.WorkerKey.EvaluateQueue, eval).Err(); err != nil {
		s.log.Error().Err(err).Msg("failed to enqueue evaluation")
	}

	s.log.Info().
		Str("assessment_id", c.ID.String()).
		Float64("overall", earned).
		Msg("session completed")

	return &CompleteResult{OverallScore: earned, NormalizedScore: normalized}, nil
}

// rescoreProgramming re-runs the latest attempt's code against the full
// battery and overwrites its results. Questions never attempted score
// zero.
func (s *JudgingService) rescoreProgramming(ctx context.Context, c *model.CandidateAssessment, session *model.Session, q *model.SetQuestion) (float64, error) {
	latest, err := s.attemptRepo.GetLatest(ctx, session.ID, q.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	languageID, ok := judge.LanguageID(latest.Language)
	if !ok {
		return 0, fmt.Errorf("stored attempt has unsupported language %q", latest.Language)
	}

	battery := judge.BuildBattery(q, true)
	results, counts := judge.RunBattery(ctx, s.executor, latest.Code, languageID, battery)
	if err := s.attemptRepo.OverwriteResults(ctx, latest.ID, results, counts); err != nil {
		return 0, err
	}

	answer := &model.AssessmentAnswer{
		AssessmentID: c.ID,
		QuestionID:   q.ID,
		QuestionType: model.QuestionTypeProgramming,
		Code:         latest.Code,
		Language:     latest.Language,
		TestsPassed:  counts.Passed(),
		TestsTotal:   counts.Total(),
	}
	if err := s.answerRepo.Upsert(ctx, answer); err != nil {
		return 0, err
	}

	return scoring.ProgrammingScore(counts.Passed(), counts.Total(), q.Points), nil
}

func (s *JudgingService) activeSessionAndQuestion(ctx context.Context, c *model.CandidateAssessment, questionID uuid.UUID) (*model.Session, *model.SetQuestion, error) {
	if c.AssignedSetID == nil {
		return nil, nil, ErrSessionNotStarted
	}
	session, err := s.sessionRepo.GetByAssessment(ctx, c.ID)
	if err != nil {
		return nil, nil, err
	}
	if session.IsTerminated {
		return nil, nil, ErrSessionTerminated
	}
	if session.Status != model.SessionStatusInProgress {
		return nil, nil, ErrSessionCompleted
	}

	question, err := s.setRepo.GetQuestion(ctx, *c.AssignedSetID, questionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return session, question, nil
}

func attemptResponse(a *model.Attempt) *model.AttemptResponse {
	resp := &model.AttemptResponse{
		AttemptID:     a.ID,
		AttemptNumber: a.AttemptNumber,
		PassCounts:    a.PassCounts,
	}
	for _, r := range a.Results {
		if r.CaseType == model.CaseVisible {
			resp.VisibleResults = append(resp.VisibleResults, r)
		}
	}
	return resp
}
