package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/talentgate/assess-backend/internal/ai"
	"github.com/talentgate/assess-backend/internal/config"
	"github.com/talentgate/assess-backend/internal/model"
	"github.com/talentgate/assess-backend/internal/repository"
	"github.com/talentgate/assess-backend/internal/scoring"
)

// Evaluation errors.
var (
	ErrEvaluationNotReady = errors.New("assessment is not ready for evaluation")
	ErrEvaluationPending  = errors.New("evaluation already in progress")
	ErrDecisionNotReady   = errors.New("no evaluation to decide on")
)

const evaluationMarkerTTL = 15 * time.Minute

// EvaluationService aggregates answers into the final evaluation and
// records the human decision.
type EvaluationService struct {
	candidateRepo *repository.CandidateRepository
	jobRepo       *repository.JobRepository
	setRepo       *repository.SetRepository
	answerRepo    *repository.AnswerRepository
	evalRepo      *repository.EvaluationRepository
	commRepo      *repository.CommunicationRepository
	scorer        ai.Scorer
	rdb           *redis.Client
	log           zerolog.Logger
}

// NewEvaluationService creates a new EvaluationService.
func NewEvaluationService(
	candidateRepo *repository.CandidateRepository,
	jobRepo *repository.JobRepository,
	setRepo *repository.SetRepository,
	answerRepo *repository.AnswerRepository,
	evalRepo *repository.EvaluationRepository,
	commRepo *repository.CommunicationRepository,
	scorer ai.Scorer,
	rdb *redis.Client,
	log zerolog.Logger,
) *EvaluationService {
	return &EvaluationService{
		candidateRepo: candidateRepo,
		jobRepo:       jobRepo,
		setRepo:       setRepo,
		answerRepo:    answerRepo,
		evalRepo:      evalRepo,
		commRepo:      commRepo,
		scorer:        scorer,
		rdb:           rdb,
		log:           log.With().Str("component", "evaluation_service").Logger(),
	}
}

// Trigger queues an evaluation run. Valid from SUBMITTED (first run),
// EVALUATED (re-evaluation), and EVALUATING once the dispatch marker is
// gone — the recovery path after a worker run died mid-flight. A live
// marker means a run is genuinely in progress.
func (s *EvaluationService) Trigger(ctx context.Context, c *model.CandidateAssessment) error {
	needsTransition, err := triggerState(c.Status)
	if err != nil {
		return err
	}

	marker := config.CacheKey.EvaluationMarkerKey(c.ID.String())
	ok, err := s.rdb.SetNX(ctx, marker, time.Now().Unix(), evaluationMarkerTTL).Result()
	if err != nil {
		return fmt.Errorf("set evaluation marker: %w", err)
	}
	if !ok {
		return ErrEvaluationPending
	}

	if needsTransition {
		if err := c.TransitionTo(model.StatusEvaluating); err != nil {
			s.rdb.Del(ctx, marker)
			return err
		}
		if err := s.candidateRepo.UpdateStatus(ctx, c.ID, c.Status); err != nil {
			s.rdb.Del(ctx, marker)
			return err
		}
	}

	payload, _ := json.Marshal(evaluateJob{AssessmentID: c.ID.String()})
	if err := s.rdb.RPush(ctx, config.WorkerKey.EvaluateQueue, payload).Err(); err != nil {
		return fmt.Errorf("enqueue evaluation: %w", err)
	}

	s.log.Info().Str("assessment_id", c.ID.String()).Msg("evaluation queued")
	return nil
}

// triggerState validates the entry status for queueing an evaluation
// and reports whether the EVALUATING transition is still needed.
func triggerState(status model.AssessmentStatus) (needsTransition bool, err error) {
	switch status {
	case model.StatusSubmitted, model.StatusEvaluated:
		return true, nil
	case model.StatusEvaluating:
		return false, nil
	default:
		return false, ErrEvaluationNotReady
	}
}

// MarkFailed records a permanently failed evaluation run: the dispatch
// marker is cleared so the run can be re-triggered, and the failure
// lands in the communication log for manual review. The candidate stays
// in EVALUATING; with the marker gone, Trigger is the way out.
func (s *EvaluationService) MarkFailed(ctx context.Context, assessmentID uuid.UUID, cause error) {
	s.rdb.Del(ctx, config.CacheKey.EvaluationMarkerKey(assessmentID.String()))

	entry := &model.CommunicationEntry{
		AssessmentID: assessmentID,
		Kind:         "evaluation_failed",
		Message:      fmt.Sprintf("Evaluasi gagal dan perlu ditinjau manual: %v", cause),
	}
	if err := s.commRepo.Append(ctx, entry); err != nil {
		s.log.Warn().Err(err).Msg("failed to append communication log entry")
	}

	s.log.Error().
		Err(cause).
		Str("assessment_id", assessmentID.String()).
		Msg("evaluation abandoned after retries, manual re-trigger required")
}

// Evaluate runs the full aggregation for one assessment and persists
// the evaluation. Called from the evaluation worker. It accepts both
// SUBMITTED (queued straight from completion) and EVALUATING
// (admin-triggered) as entry states.
func (s *EvaluationService) Evaluate(ctx context.Context, assessmentID uuid.UUID) (*model.Evaluation, error) {
	c, err := s.candidateRepo.GetByID(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if c.Status == model.StatusSubmitted {
		if err := c.TransitionTo(model.StatusEvaluating); err != nil {
			return nil, err
		}
		if err := s.candidateRepo.UpdateStatus(ctx, c.ID, c.Status); err != nil {
			return nil, err
		}
	}
	if c.Status != model.StatusEvaluating {
		return nil, ErrEvaluationNotReady
	}
	if c.AssignedSetID == nil {
		return nil, ErrEvaluationNotReady
	}

	job, err := s.jobRepo.GetByID(ctx, c.JobID)
	if err != nil {
		return nil, err
	}
	set, err := s.setRepo.GetByID(ctx, *c.AssignedSetID)
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

	scores := make([]scoring.QuestionScore, 0, len(set.Questions))
	for i := range set.Questions {
		q := &set.Questions[i]
		scores = append(scores, s.scoreQuestion(ctx, q, answerByQuestion[q.ID]))
	}

	result := scoring.Aggregate(scores, job)
	eval := &model.Evaluation{
		AssessmentID:       c.ID,
		Objective:          result.Objective,
		Subjective:         result.Subjective,
		Programming:        result.Programming,
		TotalScore:         result.TotalScore,
		MaxTotalScore:      result.MaxTotalScore,
		Percentage:         result.Percentage,
		WeightedPercentage: result.WeightedPercentage,
		SkillScores:        result.SkillScores,
		Recommendation:     result.Recommendation,
		NeedsReview:        result.NeedsReview,
	}
	if err := s.evalRepo.Upsert(ctx, eval); err != nil {
		return nil, err
	}

	if err := c.TransitionTo(model.StatusEvaluated); err != nil {
		return nil, err
	}
	if err := s.candidateRepo.UpdateStatus(ctx, c.ID, c.Status); err != nil {
		return nil, err
	}

	s.rdb.Del(ctx, config.CacheKey.EvaluationMarkerKey(c.ID.String()))

	s.log.Info().
		Str("assessment_id", c.ID.String()).
		Float64("weighted", eval.WeightedPercentage).
		Str("recommendation", string(eval.Recommendation)).
		Msg("evaluation completed")
	return eval, nil
}

// scoreQuestion grades one question. Objective and programming grading
// is deterministic; subjective answers go to the AI scorer, with a
// manual-review flag when the scorer fails.
func (s *EvaluationService) scoreQuestion(ctx context.Context, q *model.SetQuestion, a *model.AssessmentAnswer) scoring.QuestionScore {
	qs := scoring.QuestionScore{
		QuestionID: q.ID,
		Type:       q.Type,
		Skill:      q.Skill,
		MaxScore:   q.Points,
		Attempted:  a != nil,
	}
	if a == nil {
		return qs
	}

	switch q.Type {
	case model.QuestionTypeObjective:
		if a.SelectedIndex != nil && q.CorrectIndex != nil && *a.SelectedIndex == *q.CorrectIndex {
			qs.Score = q.Points
		}
	case model.QuestionTypeProgramming:
		qs.Score = scoring.ProgrammingScore(a.TestsPassed, a.TestsTotal, q.Points)
	case model.QuestionTypeSubjective:
		if a.Text == "" {
			qs.Attempted = false
			return qs
		}
		grade, err := s.scorer.GradeAnswer(ctx, q.Text, q.Rubric, q.KeyPoints, a.Text)
		if err != nil {
			s.log.Error().Err(err).Str("question_id", q.ID.String()).Msg("subjective grading failed")
			// Neutral score: a scorer outage must not decide the
			// candidate's outcome before a human has looked.
			qs.Score = q.Points / 2
			qs.NeedsReview = true
			return qs
		}
		qs.Score = grade.Score / 100 * q.Points
		qs.Feedback = grade.Feedback
	}
	return qs
}

// GetResult retrieves the evaluation for an assessment.
func (s *EvaluationService) GetResult(ctx context.Context, assessmentID uuid.UUID) (*model.Evaluation, error) {
	eval, err := s.evalRepo.GetByAssessment(ctx, assessmentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEvaluationNotReady
	}
	return eval, err
}

// RecordDecision records the human verdict exactly once and moves the
// candidate to DECIDED.
func (s *EvaluationService) RecordDecision(ctx context.Context, c *model.CandidateAssessment, adminID int, req *model.RecordDecisionRequest) (*model.Evaluation, error) {
	if c.Status != model.StatusEvaluated {
		return nil, ErrDecisionNotReady
	}

	decision := model.AdminDecision{
		Value: model.Decision(req.Decision),
		By:    adminID,
		Notes: req.Notes,
	}
	if err := s.evalRepo.RecordDecision(ctx, c.ID, decision); err != nil {
		return nil, err
	}

	if err := c.TransitionTo(model.StatusDecided); err != nil {
		return nil, err
	}
	if err := s.candidateRepo.UpdateStatus(ctx, c.ID, c.Status); err != nil {
		return nil, err
	}

	entry := &model.CommunicationEntry{
		AssessmentID: c.ID,
		Kind:         "decision_recorded",
		Message:      fmt.Sprintf("Keputusan akhir: %s", req.Decision),
	}
	if err := s.commRepo.Append(ctx, entry); err != nil {
		s.log.Warn().Err(err).Msg("failed to append communication log entry")
	}

	s.log.Info().
		Str("assessment_id", c.ID.String()).
		Str("decision", req.Decision).
		Int("by", adminID).
		Msg("decision recorded")
	return s.evalRepo.GetByAssessment(ctx, c.ID)
}
