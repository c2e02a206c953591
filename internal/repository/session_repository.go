package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talentgate/assess-backend/internal/model"
)

// SessionRepository handles assessment session data access.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

const sessionColumns = `id, assessment_id, set_id, status, violation_count, is_terminated, overall_score, normalized_score, started_at, finished_at`

func scanSession(row interface{ Scan(dest ...any) error }) (*model.Session, error) {
	s := &model.Session{}
	err := row.Scan(&s.ID, &s.AssessmentID, &s.SetID, &s.Status, &s.ViolationCount,
		&s.IsTerminated, &s.OverallScore, &s.NormalizedScore, &s.StartedAt, &s.FinishedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a session for an assessment. One session per
// assessment: a conflicting insert returns the existing row instead.
func (r *SessionRepository) Create(ctx context.Context, s *model.Session) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO sessions (assessment_id, set_id, status)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (assessment_id) DO NOTHING
		 RETURNING id, started_at`,
		s.AssessmentID, s.SetID, model.SessionStatusInProgress,
	).Scan(&s.ID, &s.StartedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		existing, gerr := r.GetByAssessment(ctx, s.AssessmentID)
		if gerr != nil {
			return gerr
		}
		*s = *existing
		return nil
	}
	if err != nil {
		return err
	}
	s.Status = model.SessionStatusInProgress
	return nil
}

// GetByID retrieves a session by ID.
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	return scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id))
}

// GetByAssessment retrieves the session belonging to an assessment.
func (r *SessionRepository) GetByAssessment(ctx context.Context, assessmentID uuid.UUID) (*model.Session, error) {
	return scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE assessment_id = $1`, assessmentID))
}

// IncrementViolation atomically bumps the violation counter and returns
// the new count. The caller compares it against the strike limit.
func (r *SessionRepository) IncrementViolation(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`UPDATE sessions SET violation_count = violation_count + 1 WHERE id = $1
		 RETURNING violation_count`, id,
	).Scan(&count)
	return count, err
}

// Terminate marks a session abandoned due to proctoring violations.
func (r *SessionRepository) Terminate(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	_, err := r.pool.Exec(ctx,
		`UPDATE sessions SET status = $1, is_terminated = TRUE, finished_at = $2 WHERE id = $3`,
		model.SessionStatusAbandoned, now, id)
	return err
}

// Complete marks a session completed. The computed scores arrive
// asynchronously through the score persistence worker.
func (r *SessionRepository) Complete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	_, err := r.pool.Exec(ctx,
		`UPDATE sessions SET status = $1, finished_at = $2 WHERE id = $3`,
		model.SessionStatusCompleted, now, id)
	return err
}

// UpdateScores overwrites a session's final scores. Used by the score
// persistence worker after asynchronous re-grading.
func (r *SessionRepository) UpdateScores(ctx context.Context, id uuid.UUID, overall, normalized float64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE sessions SET overall_score = $1, normalized_score = $2 WHERE id = $3`,
		overall, normalized, id)
	return err
}
