package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/talentgate/assess-backend/internal/config"
	"github.com/talentgate/assess-backend/internal/model"
	"github.com/talentgate/assess-backend/internal/repository"
)

// Onboarding errors.
var (
	ErrInviteLinkInvalid     = errors.New("invitation link is invalid or the job is closed")
	ErrInvalidOTP            = errors.New("otp is wrong or expired")
	ErrResumeAlreadyUploaded = errors.New("resume already uploaded")
	ErrOnboardingIncomplete  = errors.New("onboarding steps incomplete")
)

const otpTTL = 10 * time.Minute

// OnboardingService runs the pre-assessment gate: registration, email
// verification, photo capture, consent, and the resume upload that
// hands the candidate to the analysis worker.
type OnboardingService struct {
	candidateRepo *repository.CandidateRepository
	jobRepo       *repository.JobRepository
	commRepo      *repository.CommunicationRepository
	rdb           *redis.Client
	log           zerolog.Logger
}

// NewOnboardingService creates a new OnboardingService.
func NewOnboardingService(
	candidateRepo *repository.CandidateRepository,
	jobRepo *repository.JobRepository,
	commRepo *repository.CommunicationRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *OnboardingService {
	return &OnboardingService{
		candidateRepo: candidateRepo,
		jobRepo:       jobRepo,
		commRepo:      commRepo,
		rdb:           rdb,
		log:           log.With().Str("component", "onboarding_service").Logger(),
	}
}

// Register creates a candidate assessment from an invitation link and
// sends the first email OTP.
func (s *OnboardingService) Register(ctx context.Context, req *model.RegisterRequest) (*model.CandidateAssessment, error) {
	job, err := s.jobRepo.GetByInviteLink(ctx, req.InviteLink)
	if err != nil {
		return nil, ErrInviteLinkInvalid
	}
	if !job.IsOpen {
		return nil, ErrInviteLinkInvalid
	}

	candidate := &model.CandidateAssessment{
		JobID:  job.ID,
		Email:  req.Email,
		Name:   req.Name,
		Status: model.StatusOnboarding,
	}
	if err := s.candidateRepo.Create(ctx, candidate); err != nil {
		return nil, err
	}

	if err := s.SendOTP(ctx, candidate); err != nil {
		// Registration stands; the candidate can request a new OTP.
		s.log.Error().Err(err).Str("assessment_id", candidate.ID.String()).Msg("failed to send initial OTP")
	}
	return candidate, nil
}

// SendOTP generates a fresh 6-digit OTP, stores it with a TTL, and
// records the send in the communication log.
func (s *OnboardingService) SendOTP(ctx context.Context, c *model.CandidateAssessment) error {
	otp, err := generateOTP()
	if err != nil {
		return err
	}

	key := config.CacheKey.EmailOTPKey(c.ID.String())
	if err := s.rdb.Set(ctx, key, otp, otpTTL).Err(); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	entry := &model.CommunicationEntry{
		AssessmentID: c.ID,
		Kind:         "otp_sent",
		Message:      fmt.Sprintf("Kode verifikasi dikirim ke %s", c.Email),
	}
	if err := s.commRepo.Append(ctx, entry); err != nil {
		s.log.Warn().Err(err).Msg("failed to append communication log entry")
	}

	s.log.Info().Str("assessment_id", c.ID.String()).Msg("OTP issued")
	return nil
}

// VerifyEmail checks the OTP and marks the email step complete. The
// step is idempotent: verifying an already verified email succeeds.
func (s *OnboardingService) VerifyEmail(ctx context.Context, c *model.CandidateAssessment, otp string) error {
	if c.Onboarding.EmailVerified {
		return nil
	}

	key := config.CacheKey.EmailOTPKey(c.ID.String())
	stored, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrInvalidOTP
	}
	if err != nil {
		return fmt.Errorf("read otp: %w", err)
	}
	if stored != otp {
		return ErrInvalidOTP
	}
	s.rdb.Del(ctx, key)

	c.Onboarding.EmailVerified = true
	s.touchCompletedAt(c)
	return s.candidateRepo.UpdateOnboarding(ctx, c.ID, c.Onboarding)
}

// CapturePhoto marks the profile photo step complete. Idempotent.
func (s *OnboardingService) CapturePhoto(ctx context.Context, c *model.CandidateAssessment, photoRef string) error {
	if c.Onboarding.ProfilePhotoCaptured {
		return nil
	}
	c.Onboarding.ProfilePhotoCaptured = true
	s.touchCompletedAt(c)
	if err := s.candidateRepo.UpdateOnboarding(ctx, c.ID, c.Onboarding); err != nil {
		return err
	}

	entry := &model.CommunicationEntry{
		AssessmentID: c.ID,
		Kind:         "photo_captured",
		Message:      photoRef,
	}
	if err := s.commRepo.Append(ctx, entry); err != nil {
		s.log.Warn().Err(err).Msg("failed to append communication log entry")
	}
	return nil
}

// AcceptConsent marks the consent step complete. Idempotent.
func (s *OnboardingService) AcceptConsent(ctx context.Context, c *model.CandidateAssessment) error {
	if c.Onboarding.ConsentAccepted {
		return nil
	}
	c.Onboarding.ConsentAccepted = true
	s.touchCompletedAt(c)
	return s.candidateRepo.UpdateOnboarding(ctx, c.ID, c.Onboarding)
}

// UploadResume stores the resume, moves the candidate to RESUME_REVIEW,
// and enqueues the analysis job. The three verification steps must be
// done first; a second upload is rejected while the first is in review.
func (s *OnboardingService) UploadResume(ctx context.Context, c *model.CandidateAssessment, req *model.UploadResumeRequest) error {
	if !c.Onboarding.EmailVerified || !c.Onboarding.ProfilePhotoCaptured || !c.Onboarding.ConsentAccepted {
		return ErrOnboardingIncomplete
	}
	if c.Status != model.StatusOnboarding {
		return ErrResumeAlreadyUploaded
	}

	c.Resume.FileRef = req.FileRef
	c.Resume.ParsedText = req.Text
	if err := s.candidateRepo.UpdateResume(ctx, c.ID, c.Resume); err != nil {
		return err
	}

	if err := c.TransitionTo(model.StatusResumeReview); err != nil {
		return err
	}
	if err := s.candidateRepo.UpdateStatus(ctx, c.ID, c.Status); err != nil {
		return err
	}

	payload, err := json.Marshal(resumeJob{AssessmentID: c.ID.String()})
	if err != nil {
		return err
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.AnalyzeResumeQueue, payload).Err(); err != nil {
		return fmt.Errorf("enqueue resume analysis: %w", err)
	}

	s.log.Info().Str("assessment_id", c.ID.String()).Msg("resume queued for analysis")
	return nil
}

// resumeJob is the analyze queue payload.
type resumeJob struct {
	AssessmentID string `json:"assessment_id"`
}

// touchCompletedAt stamps CompletedAt once all three verification steps
// are done. The resume gate is tracked separately.
func (s *OnboardingService) touchCompletedAt(c *model.CandidateAssessment) {
	if c.Onboarding.CompletedAt != nil {
		return
	}
	if c.Onboarding.EmailVerified && c.Onboarding.ProfilePhotoCaptured && c.Onboarding.ConsentAccepted {
		now := time.Now()
		c.Onboarding.CompletedAt = &now
	}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
