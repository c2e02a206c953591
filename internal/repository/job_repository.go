package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talentgate/assess-backend/internal/model"
)

var ErrDuplicateInviteLink = errors.New("job with this invite link already exists")

// JobRepository handles job data access.
type JobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

const jobColumns = `id, title, requirements, invite_link, match_threshold, cutoff_score, hold_margin, weights, is_open, created_at, updated_at`

func scanJob(row interface{ Scan(dest ...any) error }) (*model.Job, error) {
	j := &model.Job{}
	var weights []byte
	err := row.Scan(&j.ID, &j.Title, &j.Requirements, &j.InviteLink, &j.MatchThreshold,
		&j.CutoffScore, &j.HoldMargin, &weights, &j.IsOpen, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(weights) > 0 {
		if err := json.Unmarshal(weights, &j.Weights); err != nil {
			return nil, err
		}
	}
	return j, nil
}

// GetByID retrieves a job by ID.
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	return scanJob(r.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
}

// GetByInviteLink retrieves a job by its unique invitation link.
func (r *JobRepository) GetByInviteLink(ctx context.Context, link string) (*model.Job, error) {
	return scanJob(r.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE invite_link = $1`, link))
}

// Create inserts a new job.
func (r *JobRepository) Create(ctx context.Context, j *model.Job) error {
	weights, err := json.Marshal(j.Weights)
	if err != nil {
		return err
	}
	err = r.pool.QueryRow(ctx,
		`INSERT INTO jobs (title, requirements, invite_link, match_threshold, cutoff_score, hold_margin, weights, is_open)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		j.Title, j.Requirements, j.InviteLink, j.MatchThreshold, j.CutoffScore, j.HoldMargin, weights, j.IsOpen,
	).Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateInviteLink
		}
		return err
	}
	return nil
}

// Update modifies a job's configuration.
func (r *JobRepository) Update(ctx context.Context, j *model.Job) error {
	weights, err := json.Marshal(j.Weights)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`UPDATE jobs
		 SET title = $1, requirements = $2, match_threshold = $3, cutoff_score = $4,
		     hold_margin = $5, weights = $6, is_open = $7, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $8`,
		j.Title, j.Requirements, j.MatchThreshold, j.CutoffScore, j.HoldMargin, weights, j.IsOpen, j.ID)
	return err
}

// ListPaginated retrieves jobs ordered by creation time.
func (r *JobRepository) ListPaginated(ctx context.Context, limit, offset int) ([]model.Job, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, total, rows.Err()
}
