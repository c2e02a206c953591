package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/talentgate/assess-backend/internal/ai"
	"github.com/talentgate/assess-backend/internal/model"
)

type fakeScorer struct {
	grade *ai.AnswerGrade
	err   error
}

func (f *fakeScorer) MatchResume(ctx context.Context, resumeText, jobTitle, jobRequirements string) (*ai.ResumeAnalysis, error) {
	return nil, f.err
}

func (f *fakeScorer) GradeAnswer(ctx context.Context, question, rubric string, keyPoints []string, answer string) (*ai.AnswerGrade, error) {
	return f.grade, f.err
}

func subjectiveQuestion(points float64) *model.SetQuestion {
	return &model.SetQuestion{
		ID:     uuid.New(),
		Type:   model.QuestionTypeSubjective,
		Skill:  "communication",
		Points: points,
		Text:   "Explain your approach to code review.",
	}
}

func TestScoreQuestionSubjectiveScales(t *testing.T) {
	s := &EvaluationService{
		scorer: &fakeScorer{grade: &ai.AnswerGrade{Score: 80, Feedback: "solid"}},
		log:    zerolog.Nop(),
	}

	qs := s.scoreQuestion(context.Background(), subjectiveQuestion(20), &model.AssessmentAnswer{Text: "I review in small batches."})

	assert.InDelta(t, 16.0, qs.Score, 0.001)
	assert.Equal(t, "solid", qs.Feedback)
	assert.False(t, qs.NeedsReview)
	assert.True(t, qs.Attempted)
}

func TestScoreQuestionScorerDownGivesNeutralScore(t *testing.T) {
	s := &EvaluationService{
		scorer: &fakeScorer{err: errors.New("provider unavailable")},
		log:    zerolog.Nop(),
	}
	q := subjectiveQuestion(20)

	qs := s.scoreQuestion(context.Background(), q, &model.AssessmentAnswer{Text: "answered in good faith"})

	// Half points, never zero: an outage must not sink the candidate.
	assert.InDelta(t, q.Points/2, qs.Score, 0.001)
	assert.True(t, qs.NeedsReview)
	assert.True(t, qs.Attempted)
	assert.Equal(t, q.Points, qs.MaxScore)
}

func TestScoreQuestionSubjectiveEmptyAnswerNotAttempted(t *testing.T) {
	s := &EvaluationService{scorer: &fakeScorer{}, log: zerolog.Nop()}

	qs := s.scoreQuestion(context.Background(), subjectiveQuestion(20), &model.AssessmentAnswer{Text: ""})

	assert.Zero(t, qs.Score)
	assert.False(t, qs.Attempted)
	assert.False(t, qs.NeedsReview)
}

func TestTriggerState(t *testing.T) {
	tests := []struct {
		status         model.AssessmentStatus
		wantTransition bool
		wantErr        error
	}{
		{model.StatusSubmitted, true, nil},
		{model.StatusEvaluated, true, nil},
		{model.StatusEvaluating, false, nil},
		{model.StatusReady, false, ErrEvaluationNotReady},
		{model.StatusInProgress, false, ErrEvaluationNotReady},
		{model.StatusDecided, false, ErrEvaluationNotReady},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			needsTransition, err := triggerState(tt.status)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantTransition, needsTransition)
		})
	}
}
