package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talentgate/assess-backend/internal/model"
)

// AnswerRepository handles assessment answer data access. Answers are
// upserted per (assessment, question): the latest write wins.
type AnswerRepository struct {
	pool *pgxpool.Pool
}

// NewAnswerRepository creates a new AnswerRepository.
func NewAnswerRepository(pool *pgxpool.Pool) *AnswerRepository {
	return &AnswerRepository{pool: pool}
}

// Upsert inserts or replaces the answer for one question.
func (r *AnswerRepository) Upsert(ctx context.Context, a *model.AssessmentAnswer) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO assessment_answers (assessment_id, question_id, question_type, selected_index, text, code, language, tests_passed, tests_total)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (assessment_id, question_id) DO UPDATE SET
		   selected_index = EXCLUDED.selected_index,
		   text = EXCLUDED.text,
		   code = EXCLUDED.code,
		   language = EXCLUDED.language,
		   tests_passed = EXCLUDED.tests_passed,
		   tests_total = EXCLUDED.tests_total,
		   answered_at = CURRENT_TIMESTAMP
		 RETURNING id, answered_at`,
		a.AssessmentID, a.QuestionID, a.QuestionType, a.SelectedIndex, a.Text,
		a.Code, a.Language, a.TestsPassed, a.TestsTotal,
	).Scan(&a.ID, &a.AnsweredAt)
}

// ListByAssessment retrieves all answers for an assessment.
func (r *AnswerRepository) ListByAssessment(ctx context.Context, assessmentID uuid.UUID) ([]model.AssessmentAnswer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, assessment_id, question_id, question_type, selected_index, text, code, language, tests_passed, tests_total, answered_at
		 FROM assessment_answers WHERE assessment_id = $1`, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.AssessmentAnswer
	for rows.Next() {
		var a model.AssessmentAnswer
		if err := rows.Scan(&a.ID, &a.AssessmentID, &a.QuestionID, &a.QuestionType,
			&a.SelectedIndex, &a.Text, &a.Code, &a.Language, &a.TestsPassed, &a.TestsTotal, &a.AnsweredAt); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
