package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talentgate/assess-backend/internal/model"
)

// CommunicationRepository handles the append-only per-candidate
// communication log (OTP sends, rejection notices, decision notices).
type CommunicationRepository struct {
	pool *pgxpool.Pool
}

// NewCommunicationRepository creates a new CommunicationRepository.
func NewCommunicationRepository(pool *pgxpool.Pool) *CommunicationRepository {
	return &CommunicationRepository{pool: pool}
}

// Append records one communication entry.
func (r *CommunicationRepository) Append(ctx context.Context, e *model.CommunicationEntry) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO communication_log (assessment_id, kind, message)
		 VALUES ($1, $2, $3) RETURNING id, created_at`,
		e.AssessmentID, e.Kind, e.Message,
	).Scan(&e.ID, &e.CreatedAt)
}

// ListByAssessment retrieves the log for one candidate assessment.
func (r *CommunicationRepository) ListByAssessment(ctx context.Context, assessmentID uuid.UUID) ([]model.CommunicationEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, assessment_id, kind, message, created_at
		 FROM communication_log WHERE assessment_id = $1 ORDER BY created_at`, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.CommunicationEntry
	for rows.Next() {
		var e model.CommunicationEntry
		if err := rows.Scan(&e.ID, &e.AssessmentID, &e.Kind, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
