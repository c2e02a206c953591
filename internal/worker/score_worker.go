package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/talentgate/assess-backend/internal/config"
)

const (
	ScoreBatchSize    = 50
	ScoreBatchTimeout = 2 * time.Second
	ScorePollTimeout  = 1 * time.Second
)

// ScoreWorker persists session final scores computed at completion.
// Scores arrive through the queue so completion latency stays bounded
// by code execution, not by score writes.
type ScoreWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewScoreWorker creates a new ScoreWorker.
func NewScoreWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *ScoreWorker {
	return &ScoreWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "score_worker").Logger(),
	}
}

type scorePayload struct {
	SessionID  string  `json:"session_id"`
	Overall    float64 `json:"overall"`
	Normalized float64 `json:"normalized"`
}

// Start runs the worker loop until ctx is cancelled.
func (w *ScoreWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ScoreWorker started")

	batch := make([]*scorePayload, 0, ScoreBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= ScoreBatchSize || time.Since(lastFlush) >= ScoreBatchTimeout) {
			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, ScorePollTimeout, config.WorkerKey.PersistScoresQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}
			if len(item) < 2 {
				continue
			}

			var p scorePayload
			if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}
			batch = append(batch, &p)
		}
	}
}

func (w *ScoreWorker) flushSafe(ctx context.Context, batch []*scorePayload) {
	if len(batch) == 0 {
		return
	}

	if err := w.bulkUpdateScores(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("bulk score update failed, using fallback")

		for _, p := range batch {
			if err := w.persistSingle(ctx, p); err != nil {
				w.log.Error().Err(err).Msg("persistSingle failed, requeueing")
				raw, _ := json.Marshal(p)
				w.rdb.RPush(ctx, config.WorkerKey.PersistScoresQueue, raw)
			}
		}
		return
	}

	w.bulkClearHeartbeats(ctx, batch)
}

// bulkUpdateScores writes the whole batch with one UNNEST update.
func (w *ScoreWorker) bulkUpdateScores(ctx context.Context, batch []*scorePayload) error {
	n := len(batch)

	sessionIDs := make([]uuid.UUID, 0, n)
	overalls := make([]float64, 0, n)
	normalizeds := make([]float64, 0, n)

	for _, p := range batch {
		sID, err := uuid.Parse(p.SessionID)
		if err != nil {
			return err
		}
		sessionIDs = append(sessionIDs, sID)
		overalls = append(overalls, p.Overall)
		normalizeds = append(normalizeds, p.Normalized)
	}

	query := `
		UPDATE sessions AS s
		SET overall_score = t.overall,
		    normalized_score = t.normalized
		FROM (
			SELECT u.session_id, u.overall, u.normalized
			FROM UNNEST(
				$1::uuid[],
				$2::float8[],
				$3::float8[]
			) AS u (session_id, overall, normalized)
		) AS t
		WHERE s.id = t.session_id
	`

	_, err := w.pool.Exec(ctx, query, sessionIDs, overalls, normalizeds)
	return err
}

// bulkClearHeartbeats drops the liveness keys of completed sessions.
func (w *ScoreWorker) bulkClearHeartbeats(ctx context.Context, batch []*scorePayload) {
	pipe := w.rdb.Pipeline()
	for _, p := range batch {
		pipe.Del(ctx, config.CacheKey.SessionHeartbeatKey(p.SessionID))
	}
	_, _ = pipe.Exec(ctx)
}

func (w *ScoreWorker) persistSingle(ctx context.Context, p *scorePayload) error {
	sID, err := uuid.Parse(p.SessionID)
	if err != nil {
		return err
	}
	_, err = w.pool.Exec(ctx,
		`UPDATE sessions SET overall_score = $1, normalized_score = $2 WHERE id = $3`,
		p.Overall, p.Normalized, sID)
	return err
}
