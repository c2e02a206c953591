package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/talentgate/assess-backend/internal/config"
	"github.com/talentgate/assess-backend/internal/service"
)

const (
	EvalPollTimeout = 1 * time.Second
	evalJobTimeout  = 5 * time.Minute

	// evalMaxAttempts bounds how often a failing evaluation is requeued
	// before it is handed back to a human.
	evalMaxAttempts = 3
)

// EvaluationWorker drains the evaluation queue and runs the aggregation
// pipeline one assessment at a time. Subjective grading dominates the
// runtime, so there is nothing to batch.
type EvaluationWorker struct {
	evalService *service.EvaluationService
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewEvaluationWorker creates a new EvaluationWorker.
func NewEvaluationWorker(evalService *service.EvaluationService, rdb *redis.Client, log zerolog.Logger) *EvaluationWorker {
	return &EvaluationWorker{
		evalService: evalService,
		rdb:         rdb,
		log:         log.With().Str("component", "evaluation_worker").Logger(),
	}
}

type evaluatePayload struct {
	AssessmentID string `json:"assessment_id"`
	Attempts     int    `json:"attempts,omitempty"`
}

// retry returns the payload for the next attempt, or false when the
// retry budget is spent.
func (p evaluatePayload) retry() (evaluatePayload, bool) {
	if p.Attempts+1 >= evalMaxAttempts {
		return p, false
	}
	p.Attempts++
	return p, true
}

// Start runs the worker loop until ctx is cancelled.
func (w *EvaluationWorker) Start(ctx context.Context) {
	w.log.Info().Msg("EvaluationWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping")
			return
		default:
		}

		result, err := w.rdb.BLPop(ctx, EvalPollTimeout, config.WorkerKey.EvaluateQueue).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			w.log.Error().Err(err).Msg("Redis connection error, sleeping 3s")
			time.Sleep(3 * time.Second)
			continue
		}
		if len(result) < 2 {
			continue
		}

		var payload evaluatePayload
		if err := json.Unmarshal([]byte(result[1]), &payload); err != nil {
			w.log.Error().Err(err).Str("data", result[1]).Msg("Discarding malformed JSON")
			continue
		}

		id, err := uuid.Parse(payload.AssessmentID)
		if err != nil {
			w.log.Error().Str("assessment_id", payload.AssessmentID).Msg("Discarding job with invalid UUID")
			continue
		}

		jobCtx, cancel := context.WithTimeout(ctx, evalJobTimeout)
		_, err = w.evalService.Evaluate(jobCtx, id)
		cancel()
		if err != nil {
			w.log.Error().
				Err(err).
				Str("assessment_id", payload.AssessmentID).
				Int("attempt", payload.Attempts+1).
				Msg("evaluation failed")

			next, ok := payload.retry()
			if !ok {
				w.evalService.MarkFailed(ctx, id, err)
				continue
			}
			raw, _ := json.Marshal(next)
			if perr := w.rdb.RPush(ctx, config.WorkerKey.EvaluateQueue, raw).Err(); perr != nil {
				w.log.Error().Err(perr).Msg("failed to requeue evaluation")
				w.evalService.MarkFailed(ctx, id, err)
			}
		}
	}
}
