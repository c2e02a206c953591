package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talentgate/assess-backend/internal/model"
)

// AttemptRepository handles code attempt data access. Attempts form an
// append-only chain per (session, question); the only mutation is the
// final-submission result overwrite on session completion.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// Create inserts an attempt with the next attempt number for its
// (session, question) pair. Numbering is assigned inside the insert and
// backed by a unique constraint on (session_id, question_id,
// attempt_number), so concurrent submissions never share a number.
func (r *AttemptRepository) Create(ctx context.Context, a *model.Attempt) error {
	results, err := json.Marshal(a.Results)
	if err != nil {
		return err
	}
	passCounts, err := json.Marshal(a.PassCounts)
	if err != nil {
		return err
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO attempts (session_id, question_id, attempt_number, code, language, is_final, results, pass_counts)
		 SELECT $1, $2, COALESCE(MAX(attempt_number), 0) + 1, $3, $4, $5, $6, $7
		 FROM attempts WHERE session_id = $1 AND question_id = $2
		 RETURNING id, attempt_number, created_at`,
		a.SessionID, a.QuestionID, a.Code, a.Language, a.IsFinalSubmission, results, passCounts,
	).Scan(&a.ID, &a.AttemptNumber, &a.CreatedAt)
}

const attemptColumns = `id, session_id, question_id, attempt_number, code, language, is_final, results, pass_counts, created_at`

func scanAttempt(row interface{ Scan(dest ...any) error }) (*model.Attempt, error) {
	a := &model.Attempt{}
	var results, passCounts []byte
	err := row.Scan(&a.ID, &a.SessionID, &a.QuestionID, &a.AttemptNumber,
		&a.Code, &a.Language, &a.IsFinalSubmission, &results, &passCounts, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		if err := json.Unmarshal(results, &a.Results); err != nil {
			return nil, err
		}
	}
	if len(passCounts) > 0 {
		if err := json.Unmarshal(passCounts, &a.PassCounts); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// GetLatest retrieves the highest-numbered attempt for a question.
func (r *AttemptRepository) GetLatest(ctx context.Context, sessionID, questionID uuid.UUID) (*model.Attempt, error) {
	return scanAttempt(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM attempts
		 WHERE session_id = $1 AND question_id = $2
		 ORDER BY attempt_number DESC LIMIT 1`, sessionID, questionID))
}

// ListLatestBySession retrieves the latest attempt per question for one
// session.
func (r *AttemptRepository) ListLatestBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT ON (question_id) `+attemptColumns+`
		 FROM attempts WHERE session_id = $1
		 ORDER BY question_id, attempt_number DESC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, *a)
	}
	return attempts, rows.Err()
}

// CountByQuestion returns attempt counts per question for a session.
func (r *AttemptRepository) CountByQuestion(ctx context.Context, sessionID uuid.UUID) (map[uuid.UUID]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT question_id, COUNT(*) FROM attempts WHERE session_id = $1 GROUP BY question_id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var qid uuid.UUID
		var n int
		if err := rows.Scan(&qid, &n); err != nil {
			return nil, err
		}
		counts[qid] = n
	}
	return counts, rows.Err()
}

// OverwriteResults replaces an attempt's results after the
// full-battery re-run at completion and marks it final.
func (r *AttemptRepository) OverwriteResults(ctx context.Context, id uuid.UUID, results []model.CaseResult, counts model.PassCounts) error {
	rawResults, err := json.Marshal(results)
	if err != nil {
		return err
	}
	rawCounts, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`UPDATE attempts SET results = $1, pass_counts = $2, is_final = TRUE WHERE id = $3`,
		rawResults, rawCounts, id)
	return err
}
