package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/talentgate/assess-backend/internal/ai"
	"github.com/talentgate/assess-backend/internal/config"
	"github.com/talentgate/assess-backend/internal/model"
	"github.com/talentgate/assess-backend/internal/repository"
)

const (
	ResumePollTimeout = 1 * time.Second
	analysisTimeout   = 90 * time.Second
)

// ResumeWorker analyzes uploaded resumes against job requirements and
// moves candidates past (or out of) the resume gate. Analysis fails
// closed: a scorer failure rejects the resume and flags it for manual
// review rather than waving an unchecked candidate through.
type ResumeWorker struct {
	candidateRepo *repository.CandidateRepository
	jobRepo       *repository.JobRepository
	commRepo      *repository.CommunicationRepository
	scorer        ai.Scorer
	rdb           *redis.Client
	log           zerolog.Logger
}

// NewResumeWorker creates a new ResumeWorker.
func NewResumeWorker(
	candidateRepo *repository.CandidateRepository,
	jobRepo *repository.JobRepository,
	commRepo *repository.CommunicationRepository,
	scorer ai.Scorer,
	rdb *redis.Client,
	log zerolog.Logger,
) *ResumeWorker {
	return &ResumeWorker{
		candidateRepo: candidateRepo,
		jobRepo:       jobRepo,
		commRepo:      commRepo,
		scorer:        scorer,
		rdb:           rdb,
		log:           log.With().Str("component", "resume_worker").Logger(),
	}
}

type resumePayload struct {
	AssessmentID string `json:"assessment_id"`
}

// Start runs the worker loop until ctx is cancelled. Resume analysis is
// processed one at a time: each job is an LLM round trip, so batching
// buys nothing.
func (w *ResumeWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ResumeWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping")
			return
		default:
		}

		result, err := w.rdb.BLPop(ctx, ResumePollTimeout, config.WorkerKey.AnalyzeResumeQueue).Result()
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

		var payload resumePayload
		if err := json.Unmarshal([]byte(result[1]), &payload); err != nil {
			w.log.Error().Err(err).Str("data", result[1]).Msg("Discarding malformed JSON")
			continue
		}

		if err := w.process(ctx, payload.AssessmentID); err != nil {
			w.log.Error().Err(err).Str("assessment_id", payload.AssessmentID).Msg("resume analysis failed")
		}
	}
}

// applyAnalysis maps a scorer result onto the resume gate fields. A
// scorer failure fails closed: score zeroed, threshold not passed,
// flagged for manual review.
func applyAnalysis(r *model.Resume, analysis *ai.ResumeAnalysis, aerr error, threshold float64) {
	now := time.Now()
	r.AnalyzedAt = &now

	if aerr != nil {
		r.MatchScore = 0
		r.PassedThreshold = false
		r.NeedsReview = true
		return
	}
	r.MatchScore = analysis.MatchScore
	r.IsFake = analysis.IsFake
	r.PassedThreshold = !analysis.IsFake && analysis.MatchScore >= threshold
	r.NeedsReview = false
}

func (w *ResumeWorker) process(ctx context.Context, rawID string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid assessment id: %w", err)
	}

	c, err := w.candidateRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.Status != model.StatusResumeReview {
		// Stale or duplicate job; the candidate already moved on.
		w.log.Warn().Str("assessment_id", rawID).Str("status", string(c.Status)).Msg("skipping, not in review")
		return nil
	}

	job, err := w.jobRepo.GetByID(ctx, c.JobID)
	if err != nil {
		return err
	}

	analysisCtx, cancel := context.WithTimeout(ctx, analysisTimeout)
	defer cancel()

	analysis, aerr := w.scorer.MatchResume(analysisCtx, c.Resume.ParsedText, job.Title, job.Requirements)
	if aerr != nil {
		w.log.Error().Err(aerr).Str("assessment_id", rawID).Msg("scorer unavailable, failing closed")
	}
	applyAnalysis(&c.Resume, analysis, aerr, job.MatchThreshold)

	if err := w.candidateRepo.UpdateResume(ctx, c.ID, c.Resume); err != nil {
		return err
	}

	next := model.StatusResumeRejected
	if c.Resume.PassedThreshold {
		next = model.StatusReady
	}
	if err := c.TransitionTo(next); err != nil {
		return err
	}
	if err := w.candidateRepo.UpdateStatus(ctx, c.ID, c.Status); err != nil {
		return err
	}

	if next == model.StatusResumeRejected {
		entry := &model.CommunicationEntry{
			AssessmentID: c.ID,
			Kind:         "resume_rejected",
			Message:      fmt.Sprintf("Skor kecocokan resume %.0f di bawah ambang %.0f", c.Resume.MatchScore, job.MatchThreshold),
		}
		if err := w.commRepo.Append(ctx, entry); err != nil {
			w.log.Warn().Err(err).Msg("failed to append communication log entry")
		}
	}

	w.log.Info().
		Str("assessment_id", rawID).
		Float64("match_score", c.Resume.MatchScore).
		Bool("passed", c.Resume.PassedThreshold).
		Msg("resume analyzed")
	return nil
}
