package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talentgate/assess-backend/internal/model"
)

// SetRepository handles assessment set and question data access. Sets
// are immutable after creation: there are no question update paths.
type SetRepository struct {
	pool *pgxpool.Pool
}

// NewSetRepository creates a new SetRepository.
func NewSetRepository(pool *pgxpool.Pool) *SetRepository {
	return &SetRepository{pool: pool}
}

// Create inserts a set with all of its questions in one transaction.
func (r *SetRepository) Create(ctx context.Context, set *model.AssessmentSet) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO assessment_sets (job_id, title, is_active, total_time_minutes)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		set.JobID, set.Title, set.IsActive, set.TotalTimeMinutes,
	).Scan(&set.ID, &set.CreatedAt)
	if err != nil {
		return err
	}

	for i := range set.Questions {
		q := &set.Questions[i]
		q.SetID = set.ID

		options, err := json.Marshal(q.Options)
		if err != nil {
			return err
		}
		keyPoints, err := json.Marshal(q.KeyPoints)
		if err != nil {
			return err
		}
		testCases, err := json.Marshal(q.TestCases)
		if err != nil {
			return err
		}

		err = tx.QueryRow(ctx,
			`INSERT INTO set_questions (set_id, type, skill, points, text, options, correct_index, key_points, rubric, test_cases, order_num)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			 RETURNING id`,
			q.SetID, q.Type, q.Skill, q.Points, q.Text, options, q.CorrectIndex, keyPoints, q.Rubric, testCases, q.OrderNum,
		).Scan(&q.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

const setColumns = `id, job_id, title, is_active, total_time_minutes, created_at`

// GetByID retrieves a set with its questions, ordered by order_num.
func (r *SetRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AssessmentSet, error) {
	set := &model.AssessmentSet{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+setColumns+` FROM assessment_sets WHERE id = $1`, id,
	).Scan(&set.ID, &set.JobID, &set.Title, &set.IsActive, &set.TotalTimeMinutes, &set.CreatedAt)
	if err != nil {
		return nil, err
	}

	questions, err := r.listQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	set.Questions = questions
	return set, nil
}

// GetQuestion retrieves one question by ID within a set.
func (r *SetRepository) GetQuestion(ctx context.Context, setID, questionID uuid.UUID) (*model.SetQuestion, error) {
	return scanQuestion(r.pool.QueryRow(ctx,
		`SELECT id, set_id, type, skill, points, text, options, correct_index, key_points, rubric, test_cases, order_num
		 FROM set_questions WHERE set_id = $1 AND id = $2`, setID, questionID))
}

func (r *SetRepository) listQuestions(ctx context.Context, setID uuid.UUID) ([]model.SetQuestion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, set_id, type, skill, points, text, options, correct_index, key_points, rubric, test_cases, order_num
		 FROM set_questions WHERE set_id = $1 ORDER BY order_num, id`, setID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.SetQuestion
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

func scanQuestion(row interface{ Scan(dest ...any) error }) (*model.SetQuestion, error) {
	q := &model.SetQuestion{}
	var options, keyPoints, testCases []byte
	err := row.Scan(&q.ID, &q.SetID, &q.Type, &q.Skill, &q.Points, &q.Text,
		&options, &q.CorrectIndex, &keyPoints, &q.Rubric, &testCases, &q.OrderNum)
	if err != nil {
		return nil, err
	}
	if len(options) > 0 {
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, err
		}
	}
	if len(keyPoints) > 0 {
		if err := json.Unmarshal(keyPoints, &q.KeyPoints); err != nil {
			return nil, err
		}
	}
	if len(testCases) > 0 {
		if err := json.Unmarshal(testCases, &q.TestCases); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// ListActiveByJob retrieves the active sets eligible for assignment.
func (r *SetRepository) ListActiveByJob(ctx context.Context, jobID uuid.UUID) ([]model.AssessmentSet, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+setColumns+` FROM assessment_sets
		 WHERE job_id = $1 AND is_active = TRUE
		 ORDER BY created_at`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []model.AssessmentSet
	for rows.Next() {
		var s model.AssessmentSet
		if err := rows.Scan(&s.ID, &s.JobID, &s.Title, &s.IsActive, &s.TotalTimeMinutes, &s.CreatedAt); err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

// ListByJob retrieves all sets for a job without questions.
func (r *SetRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]model.AssessmentSet, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+setColumns+` FROM assessment_sets WHERE job_id = $1 ORDER BY created_at DESC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []model.AssessmentSet
	for rows.Next() {
		var s model.AssessmentSet
		if err := rows.Scan(&s.ID, &s.JobID, &s.Title, &s.IsActive, &s.TotalTimeMinutes, &s.CreatedAt); err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

// SetActive toggles a set's eligibility for assignment. Existing
// assignments are unaffected.
func (r *SetRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE assessment_sets SET is_active = $1 WHERE id = $2`, active, id)
	return err
}
