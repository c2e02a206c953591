package model

import (
	"time"

	"github.com/google/uuid"
)

// CandidateAssessment is one candidate's attempt at one job's assessment.
// It carries the authoritative lifecycle status and owns its embedded
// onboarding and resume sub-records.
type CandidateAssessment struct {
	ID            uuid.UUID        `json:"id"`
	JobID         uuid.UUID        `json:"job_id"`
	Email         string           `json:"email"`
	Name          string           `json:"name"`
	Status        AssessmentStatus `json:"status"`
	Onboarding    Onboarding       `json:"onboarding"`
	Resume        Resume           `json:"resume"`
	AssignedSetID *uuid.UUID       `json:"assigned_set_id,omitempty"` // write-once
	SessionToken  *string          `json:"-"`                         // write-once, unique
	StartedAt     *time.Time       `json:"started_at,omitempty"`
	LastHeartbeat *time.Time       `json:"last_heartbeat,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Onboarding tracks the independent, idempotent pre-assessment gates.
// The three steps are unordered among themselves.
type Onboarding struct {
	EmailVerified        bool       `json:"email_verified"`
	ProfilePhotoCaptured bool       `json:"profile_photo_captured"`
	ConsentAccepted      bool       `json:"consent_accepted"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}

// Resume holds the uploaded resume and the AI match outcome.
type Resume struct {
	FileRef         string     `json:"file_ref,omitempty"`
	ParsedText      string     `json:"-"`
	MatchScore      float64    `json:"match_score"`
	IsFake          bool       `json:"is_fake"`
	PassedThreshold bool       `json:"passed_threshold"`
	NeedsReview     bool       `json:"needs_manual_review"`
	AnalyzedAt      *time.Time `json:"analyzed_at,omitempty"`
}

// CommunicationEntry is one record in the append-only communication log.
type CommunicationEntry struct {
	ID           int64     `json:"id"`
	AssessmentID uuid.UUID `json:"assessment_id"`
	Kind         string    `json:"kind"` // e.g. otp_sent, resume_rejected, invited
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest is the payload for a candidate registering via an
// invitation link.
type RegisterRequest struct {
	InviteLink string `json:"invite_link" binding:"required,min=8,max=128"`
	Email      string `json:"email" binding:"required,email,max=255"`
	Name       string `json:"name" binding:"required,min=2,max=100"`
}

// VerifyEmailRequest carries the OTP sent to the candidate's email.
type VerifyEmailRequest struct {
	OTP string `json:"otp" binding:"required,len=6,numeric"`
}

// CapturePhotoRequest carries a reference to the captured profile photo.
type CapturePhotoRequest struct {
	PhotoRef string `json:"photo_ref" binding:"required,max=512"`
}

// UploadResumeRequest carries either a stored file reference or the
// already-extracted resume text. File parsing happens upstream.
type UploadResumeRequest struct {
	FileRef string `json:"file_ref" binding:"omitempty,max=512"`
	Text    string `json:"text" binding:"required_without=FileRef,max=100000"`
}
