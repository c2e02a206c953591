package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/talentgate/assess-backend/internal/config"
	"github.com/talentgate/assess-backend/internal/model"
	"github.com/talentgate/assess-backend/internal/repository"
)

// Session errors.
var (
	ErrNotReady          = errors.New("candidate has not completed the onboarding gate")
	ErrNoActiveSet       = errors.New("no active assessment set for this job")
	ErrSessionTerminated = errors.New("session terminated due to violations")
	ErrSessionCompleted  = errors.New("session already completed")
	ErrSessionNotStarted = errors.New("session has not been started")
)

// StartResult is returned from Start: the session token plus the
// initial session state.
type StartResult struct {
	SessionToken string              `json:"session_token"`
	State        *model.SessionState `json:"state"`
}

// ProctorEvent is published on the job's proctor channel for live
// monitoring dashboards.
type ProctorEvent struct {
	AssessmentID   string `json:"assessment_id"`
	SessionID      string `json:"session_id"`
	CandidateName  string `json:"candidate_name"`
	Kind           string `json:"kind"`
	Detail         string `json:"detail,omitempty"`
	ViolationCount int    `json:"violation_count"`
	Terminated     bool   `json:"terminated"`
	Timestamp      int64  `json:"timestamp"`
}

// violationJob is the persist queue payload.
type violationJob struct {
	SessionID string `json:"session_id"`
	Kind      string `json:"kind"`
	Detail    string `json:"detail,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// SessionService manages the timed assessment run: set assignment,
// state resumption, heartbeats, and the proctoring strike counter.
type SessionService struct {
	candidateRepo *repository.CandidateRepository
	sessionRepo   *repository.SessionRepository
	setRepo       *repository.SetRepository
	attemptRepo   *repository.AttemptRepository
	authService   *AuthService
	rdb           *redis.Client
	log           zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSessionService creates a new SessionService. rng drives random set
// selection; pass a seeded source in tests for determinism.
func NewSessionService(
	candidateRepo *repository.CandidateRepository,
	sessionRepo *repository.SessionRepository,
	setRepo *repository.SetRepository,
	attemptRepo *repository.AttemptRepository,
	authService *AuthService,
	rdb *redis.Client,
	log zerolog.Logger,
	rng *rand.Rand,
) *SessionService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SessionService{
		candidateRepo: candidateRepo,
		sessionRepo:   sessionRepo,
		setRepo:       setRepo,
		attemptRepo:   attemptRepo,
		authService:   authService,
		rdb:           rdb,
		log:           log.With().Str("component", "session_service").Logger(),
		rng:           rng,
	}
}

// Start assigns a random active set, issues the session token, and
// moves the candidate to IN_PROGRESS. Calling Start on an assessment
// that already has a session returns the existing state with the same
// token: refreshing the page never burns the assignment.
func (s *SessionService) Start(ctx context.Context, c *model.CandidateAssessment) (*StartResult, error) {
	if c.Status == model.StatusInProgress && c.AssignedSetID != nil && c.SessionToken != nil {
		state, err := s.GetState(ctx, c)
		if err != nil {
			return nil, err
		}
		return &StartResult{SessionToken: *c.SessionToken, State: state}, nil
	}
	if c.Status != model.StatusReady {
		return nil, ErrNotReady
	}
	if !c.IsOnboardingComplete() {
		return nil, ErrNotReady
	}

	sets, err := s.setRepo.ListActiveByJob(ctx, c.JobID)
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, ErrNoActiveSet
	}

	s.mu.Lock()
	chosen := sets[s.rng.Intn(len(sets))]
	s.mu.Unlock()

	ttl := time.Duration(chosen.TotalTimeMinutes)*time.Minute + 24*time.Hour
	token, err := s.authService.GenerateSessionToken(ctx, c.ID, ttl)
	if err != nil {
		return nil, err
	}

	if err := s.candidateRepo.AssignSet(ctx, c.ID, chosen.ID, token); err != nil {
		if errors.Is(err, repository.ErrSetAlreadyAssigned) {
			// Lost the race to a concurrent Start. Reload and resume.
			fresh, gerr := s.candidateRepo.GetByID(ctx, c.ID)
			if gerr != nil {
				return nil, gerr
			}
			*c = *fresh
			state, serr := s.GetState(ctx, c)
			if serr != nil {
				return nil, serr
			}
			return &StartResult{SessionToken: *c.SessionToken, State: state}, nil
		}
		return nil, err
	}
	c.AssignedSetID = &chosen.ID
	c.SessionToken = &token

	session := &model.Session{AssessmentID: c.ID, SetID: chosen.ID}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	if err := c.TransitionTo(model.StatusInProgress); err != nil {
		return nil, err
	}
	if err := s.candidateRepo.UpdateStatus(ctx, c.ID, c.Status); err != nil {
		return nil, err
	}

	deadline := session.StartedAt.Add(time.Duration(chosen.TotalTimeMinutes) * time.Minute)
	s.rdb.Set(ctx, config.CacheKey.SessionDeadlineKey(session.ID.String()),
		strconv.FormatInt(deadline.Unix(), 10), ttl)

	s.log.Info().
		Str("assessment_id", c.ID.String()).
		Str("set_id", chosen.ID.String()).
		Msg("session started")

	state, err := s.GetState(ctx, c)
	if err != nil {
		return nil, err
	}
	return &StartResult{SessionToken: token, State: state}, nil
}

// GetState rebuilds the candidate-facing session state: stripped
// questions, attempt pointers, and the remaining time.
func (s *SessionService) GetState(ctx context.Context, c *model.CandidateAssessment) (*model.SessionState, error) {
	if c.AssignedSetID == nil {
		return nil, ErrSessionNotStarted
	}
	session, err := s.sessionRepo.GetByAssessment(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	set, err := s.setRepo.GetByID(ctx, *c.AssignedSetID)
	if err != nil {
		return nil, err
	}

	state := &model.SessionState{
		SessionID:      session.ID,
		Status:         session.Status,
		ViolationCount: session.ViolationCount,
	}
	for i := range set.Questions {
		state.Questions = append(state.Questions, set.Questions[i].ForTaker())
	}

	counts, err := s.attemptRepo.CountByQuestion(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	for qid, n := range counts {
		state.AttemptPointers = append(state.AttemptPointers, model.SessionQuestion{
			SessionID:    session.ID,
			QuestionID:   qid,
			AttemptCount: n,
		})
	}

	state.Deadline = session.StartedAt.Add(time.Duration(set.TotalTimeMinutes) * time.Minute)
	if remaining := time.Until(state.Deadline).Seconds(); remaining > 0 {
		state.RemainingSeconds = remaining
	}
	return state, nil
}

// Heartbeat records session liveness in the cache and, lazily, on the
// assessment row.
func (s *SessionService) Heartbeat(ctx context.Context, c *model.CandidateAssessment) error {
	session, err := s.sessionRepo.GetByAssessment(ctx, c.ID)
	if err != nil {
		return err
	}
	if session.IsTerminated {
		return ErrSessionTerminated
	}
	if session.Status == model.SessionStatusCompleted {
		return ErrSessionCompleted
	}

	key := config.CacheKey.SessionHeartbeatKey(session.ID.String())
	s.rdb.Set(ctx, key, time.Now().Unix(), 5*time.Minute)
	return s.candidateRepo.TouchHeartbeat(ctx, c.ID)
}

// ReportViolation records one proctoring strike. The audit event goes
// to the persist queue, the live event to the job's proctor channel.
// The third strike terminates the session and abandons the assessment.
func (s *SessionService) ReportViolation(ctx context.Context, c *model.CandidateAssessment, req *model.ReportViolationRequest) (*model.Session, error) {
	session, err := s.sessionRepo.GetByAssessment(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if session.IsTerminated {
		return nil, ErrSessionTerminated
	}
	if session.Status != model.SessionStatusInProgress {
		return nil, ErrSessionCompleted
	}

	count, err := s.sessionRepo.IncrementViolation(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	session.ViolationCount = count

	now := time.Now()
	job, _ := json.Marshal(violationJob{
		SessionID: session.ID.String(),
		Kind:      req.Kind,
		Detail:    req.Detail,
		Timestamp: now.Unix(),
	})
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistViolationQueue, job).Err(); err != nil {
		s.log.Error().Err(err).Msg("failed to enqueue violation event")
	}

	terminated := count >= model.MaxViolations
	if terminated {
		if err := s.sessionRepo.Terminate(ctx, session.ID); err != nil {
			return nil, err
		}
		session.IsTerminated = true
		session.Status = model.SessionStatusAbandoned

		if err := c.TransitionTo(model.StatusAbandoned); err == nil {
			if uerr := s.candidateRepo.UpdateStatus(ctx, c.ID, c.Status); uerr != nil {
				s.log.Error().Err(uerr).Msg("failed to persist abandoned status")
			}
		}
		s.log.Warn().
			Str("session_id", session.ID.String()).
			Int("violations", count).
			Msg("session terminated after strike limit")
	}

	event, _ := json.Marshal(ProctorEvent{
		AssessmentID:   c.ID.String(),
		SessionID:      session.ID.String(),
		CandidateName:  c.Name,
		Kind:           req.Kind,
		Detail:         req.Detail,
		ViolationCount: count,
		Terminated:     terminated,
		Timestamp:      now.Unix(),
	})
	s.rdb.Publish(ctx, config.CacheKey.ProctorChannel(c.JobID.String()), event)

	if terminated {
		return session, ErrSessionTerminated
	}
	return session, nil
}

// GetByAssessment exposes the session row for other services.
func (s *SessionService) GetByAssessment(ctx context.Context, assessmentID uuid.UUID) (*model.Session, error) {
	return s.sessionRepo.GetByAssessment(ctx, assessmentID)
}

// Deadline returns the cached session deadline, falling back to
// recomputation from the set's time budget.
func (s *SessionService) Deadline(ctx context.Context, session *model.Session) (time.Time, error) {
	val, err := s.rdb.Get(ctx, config.CacheKey.SessionDeadlineKey(session.ID.String())).Result()
	if err == nil {
		if unix, perr := strconv.ParseInt(val, 10, 64); perr == nil {
			return time.Unix(unix, 0), nil
		}
	}
	set, err := s.setRepo.GetByID(ctx, session.SetID)
	if err != nil {
		return time.Time{}, fmt.Errorf("load set for deadline: %w", err)
	}
	return session.StartedAt.Add(time.Duration(set.TotalTimeMinutes) * time.Minute), nil
}
