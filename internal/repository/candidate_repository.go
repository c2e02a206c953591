package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talentgate/assess-backend/internal/model"
)

var (
	ErrDuplicateCandidate = errors.New("candidate already registered for this job")
	ErrSetAlreadyAssigned = errors.New("assessment set already assigned")
)

// CandidateRepository handles candidate assessment data access.
type CandidateRepository struct {
	pool *pgxpool.Pool
}

// NewCandidateRepository creates a new CandidateRepository.
func NewCandidateRepository(pool *pgxpool.Pool) *CandidateRepository {
	return &CandidateRepository{pool: pool}
}

const candidateColumns = `id, job_id, email, name, status,
	email_verified, photo_captured, consent_accepted, onboarding_completed_at,
	resume_file_ref, resume_text, resume_match_score, resume_is_fake,
	resume_passed, resume_needs_review, resume_analyzed_at,
	assigned_set_id, session_token, started_at, last_heartbeat, created_at, updated_at`

func scanCandidate(row interface{ Scan(dest ...any) error }) (*model.CandidateAssessment, error) {
	c := &model.CandidateAssessment{}
	err := row.Scan(
		&c.ID, &c.JobID, &c.Email, &c.Name, &c.Status,
		&c.Onboarding.EmailVerified, &c.Onboarding.ProfilePhotoCaptured, &c.Onboarding.ConsentAccepted, &c.Onboarding.CompletedAt,
		&c.Resume.FileRef, &c.Resume.ParsedText, &c.Resume.MatchScore, &c.Resume.IsFake,
		&c.Resume.PassedThreshold, &c.Resume.NeedsReview, &c.Resume.AnalyzedAt,
		&c.AssignedSetID, &c.SessionToken, &c.StartedAt, &c.LastHeartbeat, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID retrieves a candidate assessment by ID.
func (r *CandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CandidateAssessment, error) {
	return scanCandidate(r.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidate_assessments WHERE id = $1`, id))
}

// GetBySessionToken retrieves a candidate assessment by its session token.
func (r *CandidateRepository) GetBySessionToken(ctx context.Context, token string) (*model.CandidateAssessment, error) {
	return scanCandidate(r.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidate_assessments WHERE session_token = $1`, token))
}

// GetByJobAndEmail retrieves a candidate's assessment for one job.
func (r *CandidateRepository) GetByJobAndEmail(ctx context.Context, jobID uuid.UUID, email string) (*model.CandidateAssessment, error) {
	return scanCandidate(r.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidate_assessments WHERE job_id = $1 AND email = $2`, jobID, email))
}

// Create inserts a new candidate assessment in ONBOARDING state.
func (r *CandidateRepository) Create(ctx context.Context, c *model.CandidateAssessment) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO candidate_assessments (job_id, email, name, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		c.JobID, c.Email, c.Name, c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateCandidate
		}
		return err
	}
	return nil
}

// UpdateStatus transitions the lifecycle status. The validity of the
// transition is the service's responsibility.
func (r *CandidateRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AssessmentStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE candidate_assessments SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		status, id)
	return err
}

// UpdateOnboarding persists the onboarding step flags.
func (r *CandidateRepository) UpdateOnboarding(ctx context.Context, id uuid.UUID, o model.Onboarding) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE candidate_assessments
		 SET email_verified = $1, photo_captured = $2, consent_accepted = $3,
		     onboarding_completed_at = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5`,
		o.EmailVerified, o.ProfilePhotoCaptured, o.ConsentAccepted, o.CompletedAt, id)
	return err
}

// UpdateResume persists the resume record, including the analysis
// outcome once the worker has run.
func (r *CandidateRepository) UpdateResume(ctx context.Context, id uuid.UUID, res model.Resume) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE candidate_assessments
		 SET resume_file_ref = $1, resume_text = $2, resume_match_score = $3, resume_is_fake = $4,
		     resume_passed = $5, resume_needs_review = $6, resume_analyzed_at = $7, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $8`,
		res.FileRef, res.ParsedText, res.MatchScore, res.IsFake,
		res.PassedThreshold, res.NeedsReview, res.AnalyzedAt, id)
	return err
}

// AssignSet records the set assignment and session token exactly once.
// A second call for the same candidate returns ErrSetAlreadyAssigned.
func (r *CandidateRepository) AssignSet(ctx context.Context, id, setID uuid.UUID, sessionToken string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE candidate_assessments
		 SET assigned_set_id = $1, session_token = $2, started_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3 AND assigned_set_id IS NULL`,
		setID, sessionToken, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSetAlreadyAssigned
	}
	return nil
}

// TouchHeartbeat records session liveness.
func (r *CandidateRepository) TouchHeartbeat(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE candidate_assessments SET last_heartbeat = CURRENT_TIMESTAMP WHERE id = $1`, id)
	return err
}

// ListByJob retrieves candidate assessments for a job with optional
// status filter and pagination.
func (r *CandidateRepository) ListByJob(ctx context.Context, jobID uuid.UUID, status *model.AssessmentStatus, limit, offset int) ([]model.CandidateAssessment, int, error) {
	countQuery := `SELECT COUNT(*) FROM candidate_assessments WHERE job_id = $1`
	countArgs := []any{jobID}
	if status != nil {
		countQuery += ` AND status = $2`
		countArgs = append(countArgs, *status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + candidateColumns + ` FROM candidate_assessments WHERE job_id = $1`
	args := []any{jobID}
	if status != nil {
		query += ` AND status = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
		args = append(args, *status, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var candidates []model.CandidateAssessment
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, 0, err
		}
		candidates = append(candidates, *c)
	}
	return candidates, total, rows.Err()
}
