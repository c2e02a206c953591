package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talentgate/assess-backend/internal/model"
)

// ViolationRepository handles the append-only proctoring audit trail.
type ViolationRepository struct {
	pool *pgxpool.Pool
}

// NewViolationRepository creates a new ViolationRepository.
func NewViolationRepository(pool *pgxpool.Pool) *ViolationRepository {
	return &ViolationRepository{pool: pool}
}

// BulkInsert writes a batch of violation events using CopyFrom.
func (r *ViolationRepository) BulkInsert(ctx context.Context, events []model.ViolationEvent) error {
	if len(events) == 0 {
		return nil
	}
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"violation_events"},
		[]string{"session_id", "kind", "detail", "recorded_at"},
		pgx.CopyFromSlice(len(events), func(i int) ([]any, error) {
			e := events[i]
			return []any{e.SessionID, e.Kind, e.Detail, e.RecordedAt}, nil
		}),
	)
	return err
}

// Insert writes a single violation event. Fallback path when a batch
// copy fails and rows are retried one by one.
func (r *ViolationRepository) Insert(ctx context.Context, e *model.ViolationEvent) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO violation_events (session_id, kind, detail, recorded_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		e.SessionID, e.Kind, e.Detail, e.RecordedAt,
	).Scan(&e.ID)
}

// ListBySession retrieves the audit trail for one session.
func (r *ViolationRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.ViolationEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, session_id, kind, detail, recorded_at
		 FROM violation_events WHERE session_id = $1 ORDER BY recorded_at`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.ViolationEvent
	for rows.Next() {
		var e model.ViolationEvent
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Kind, &e.Detail, &e.RecordedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
