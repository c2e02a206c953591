package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talentgate/assess-backend/internal/model"
)

var ErrDecisionAlreadyRecorded = errors.New("decision already recorded for this evaluation")

// EvaluationRepository handles evaluation data access. Evaluations are
// one-per-assessment; re-evaluation replaces the row in place.
type EvaluationRepository struct {
	pool *pgxpool.Pool
}

// NewEvaluationRepository creates a new EvaluationRepository.
func NewEvaluationRepository(pool *pgxpool.Pool) *EvaluationRepository {
	return &EvaluationRepository{pool: pool}
}

// Upsert writes an evaluation, replacing any previous one for the same
// assessment and clearing a stale admin decision.
func (r *EvaluationRepository) Upsert(ctx context.Context, e *model.Evaluation) error {
	objective, err := json.Marshal(e.Objective)
	if err != nil {
		return err
	}
	subjective, err := json.Marshal(e.Subjective)
	if err != nil {
		return err
	}
	programming, err := json.Marshal(e.Programming)
	if err != nil {
		return err
	}
	skillScores, err := json.Marshal(e.SkillScores)
	if err != nil {
		return err
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO evaluations (assessment_id, objective, subjective, programming,
		   total_score, max_total_score, percentage, weighted_percentage,
		   skill_scores, recommendation, needs_review)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (assessment_id) DO UPDATE SET
		   objective = EXCLUDED.objective,
		   subjective = EXCLUDED.subjective,
		   programming = EXCLUDED.programming,
		   total_score = EXCLUDED.total_score,
		   max_total_score = EXCLUDED.max_total_score,
		   percentage = EXCLUDED.percentage,
		   weighted_percentage = EXCLUDED.weighted_percentage,
		   skill_scores = EXCLUDED.skill_scores,
		   recommendation = EXCLUDED.recommendation,
		   needs_review = EXCLUDED.needs_review,
		   decision = NULL, decided_by = NULL, decision_notes = NULL, decided_at = NULL,
		   evaluated_at = CURRENT_TIMESTAMP
		 RETURNING id, evaluated_at`,
		e.AssessmentID, objective, subjective, programming,
		e.TotalScore, e.MaxTotalScore, e.Percentage, e.WeightedPercentage,
		skillScores, e.Recommendation, e.NeedsReview,
	).Scan(&e.ID, &e.EvaluatedAt)
}

// GetByAssessment retrieves the evaluation for an assessment.
func (r *EvaluationRepository) GetByAssessment(ctx context.Context, assessmentID uuid.UUID) (*model.Evaluation, error) {
	e := &model.Evaluation{}
	var objective, subjective, programming, skillScores []byte
	var decision *model.Decision
	var decidedBy *int
	var decisionNotes *string
	var decidedAt *time.Time

	row := r.pool.QueryRow(ctx,
		`SELECT id, assessment_id, objective, subjective, programming,
		   total_score, max_total_score, percentage, weighted_percentage,
		   skill_scores, recommendation, needs_review,
		   decision, decided_by, decision_notes, decided_at, evaluated_at
		 FROM evaluations WHERE assessment_id = $1`, assessmentID)

	err := row.Scan(&e.ID, &e.AssessmentID, &objective, &subjective, &programming,
		&e.TotalScore, &e.MaxTotalScore, &e.Percentage, &e.WeightedPercentage,
		&skillScores, &e.Recommendation, &e.NeedsReview,
		&decision, &decidedBy, &decisionNotes, &decidedAt, &e.EvaluatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(objective, &e.Objective); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(subjective, &e.Subjective); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(programming, &e.Programming); err != nil {
		return nil, err
	}
	if len(skillScores) > 0 {
		if err := json.Unmarshal(skillScores, &e.SkillScores); err != nil {
			return nil, err
		}
	}

	if decision != nil {
		e.AdminDecision = &model.AdminDecision{Value: *decision}
		if decidedBy != nil {
			e.AdminDecision.By = *decidedBy
		}
		if decisionNotes != nil {
			e.AdminDecision.Notes = *decisionNotes
		}
		if decidedAt != nil {
			e.AdminDecision.DecidedAt = *decidedAt
		}
	}
	return e, nil
}

// RecordDecision sets the admin decision exactly once per evaluation
// cycle. A second call returns ErrDecisionAlreadyRecorded.
func (r *EvaluationRepository) RecordDecision(ctx context.Context, assessmentID uuid.UUID, d model.AdminDecision) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE evaluations
		 SET decision = $1, decided_by = $2, decision_notes = $3, decided_at = CURRENT_TIMESTAMP
		 WHERE assessment_id = $4 AND decision IS NULL`,
		d.Value, d.By, d.Notes, assessmentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDecisionAlreadyRecorded
	}
	return nil
}
