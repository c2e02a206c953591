package model

import (
	"time"

	"github.com/google/uuid"
)

// Attempt is an immutable record of one code submission. After creation
// it is never mutated, with one exception: session completion overwrites
// the latest attempt's results with a full-battery re-run so the final
// score is never based on a visible-only battery.
type Attempt struct {
	ID                uuid.UUID    `json:"id"`
	SessionID         uuid.UUID    `json:"session_id"`
	QuestionID        uuid.UUID    `json:"question_id"`
	AttemptNumber     int          `json:"attempt_number"` // monotonic per (session, question), starts at 1
	Code              string       `json:"code"`
	Language          string       `json:"language"`
	IsFinalSubmission bool         `json:"is_final_submission"`
	Results           []CaseResult `json:"results"`
	PassCounts        PassCounts   `json:"pass_counts"`
	CreatedAt         time.Time    `json:"created_at"`
}

// CaseResult is the outcome of one battery case execution.
type CaseResult struct {
	CaseType CaseType `json:"case_type"`
	Ordinal  int      `json:"ordinal"`
	Passed   bool     `json:"passed"`
	Stdout   string   `json:"stdout,omitempty"`
	Stderr   string   `json:"stderr,omitempty"`
	Status   string   `json:"status,omitempty"`
	TimeMs   float64  `json:"time_ms,omitempty"`
	MemoryKB int      `json:"memory_kb,omitempty"`
	ExecErr  string   `json:"exec_error,omitempty"`
}

// PassCounts aggregates case results by battery partition.
type PassCounts struct {
	Visible      int `json:"visible"`
	VisibleTotal int `json:"visible_total"`
	Hidden       int `json:"hidden"`
	HiddenTotal  int `json:"hidden_total"`
	Edge         int `json:"edge"`
	EdgeTotal    int `json:"edge_total"`
}

// Passed returns the total passing cases across all partitions.
func (p PassCounts) Passed() int {
	return p.Visible + p.Hidden + p.Edge
}

// Total returns the total executed cases across all partitions.
func (p PassCounts) Total() int {
	return p.VisibleTotal + p.HiddenTotal + p.EdgeTotal
}

// SubmitCodeRequest is the payload for run and submit operations.
type SubmitCodeRequest struct {
	Code     string `json:"code" binding:"required,max=200000"`
	Language string `json:"language" binding:"required,min=1,max=40"`
}

// AttemptResponse is returned from run/submit: visible results always,
// hidden/edge pass counts only (never their outputs).
type AttemptResponse struct {
	AttemptID      uuid.UUID    `json:"attempt_id"`
	AttemptNumber  int          `json:"attempt_number"`
	VisibleResults []CaseResult `json:"visible_results"`
	PassCounts     PassCounts   `json:"pass_counts"`
}
