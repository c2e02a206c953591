package model

import (
	"time"

	"github.com/google/uuid"
)

// Job is an open position candidates are assessed for. It carries the
// per-job scoring configuration consumed by the resume gate and the
// evaluation aggregator.
type Job struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Requirements   string    `json:"requirements"`
	InviteLink     string    `json:"invite_link"`
	MatchThreshold float64   `json:"match_threshold"` // resume gate, default 90
	CutoffScore    float64   `json:"cutoff_score"`    // recommendation cutoff
	HoldMargin     float64   `json:"hold_margin"`     // band below cutoff mapped to HOLD
	Weights        Weights   `json:"weights"`
	IsOpen         bool      `json:"is_open"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Weights are the per-section evaluation weights. Sections with a zero
// max score are excluded and the remainder renormalized at aggregation
// time, so the stored weights only need to be positive.
type Weights struct {
	Objective   float64 `json:"objective"`
	Subjective  float64 `json:"subjective"`
	Programming float64 `json:"programming"`
}

// DefaultWeights is used when a job does not configure its own.
var DefaultWeights = Weights{Objective: 0.3, Subjective: 0.3, Programming: 0.4}

// CreateJobRequest is the admin payload for creating a job.
type CreateJobRequest struct {
	Title          string   `json:"title" binding:"required,min=3,max=255"`
	Requirements   string   `json:"requirements" binding:"required,min=10,max=50000"`
	MatchThreshold *float64 `json:"match_threshold" binding:"omitempty,min=0,max=100"`
	CutoffScore    *float64 `json:"cutoff_score" binding:"omitempty,min=0,max=100"`
	HoldMargin     *float64 `json:"hold_margin" binding:"omitempty,min=0,max=50"`
	Weights        *Weights `json:"weights" binding:"omitempty"`
}
