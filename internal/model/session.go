package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus enumerates assessment session states.
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "IN_PROGRESS"
	SessionStatusCompleted  SessionStatus = "COMPLETED"
	SessionStatusAbandoned  SessionStatus = "ABANDONED"
)

// MaxViolations is the proctoring strike limit. Reaching it terminates
// the session irreversibly.
const MaxViolations = 3

// Session is a candidate's timed run through an assigned set. It owns a
// fixed ordered list of questions and, by reference, the append-only
// chain of attempts.
type Session struct {
	ID              uuid.UUID         `json:"id"`
	AssessmentID    uuid.UUID         `json:"assessment_id"`
	SetID           uuid.UUID         `json:"set_id"`
	Status          SessionStatus     `json:"status"`
	ViolationCount  int               `json:"violation_count"`
	IsTerminated    bool              `json:"is_terminated"`
	OverallScore    *float64          `json:"overall_score,omitempty"`
	NormalizedScore *float64          `json:"normalized_score,omitempty"`
	StartedAt       time.Time         `json:"started_at"`
	FinishedAt      *time.Time        `json:"finished_at,omitempty"`
	Questions       []SessionQuestion `json:"questions,omitempty"`
}

// SessionQuestion tracks per-question attempt state inside a session.
// LatestAttemptID is a last-write-wins pointer under concurrent calls.
type SessionQuestion struct {
	SessionID       uuid.UUID  `json:"session_id"`
	QuestionID      uuid.UUID  `json:"question_id"`
	AttemptCount    int        `json:"attempt_count"`
	LatestAttemptID *uuid.UUID `json:"latest_attempt_id,omitempty"`
	Score           *float64   `json:"score,omitempty"`
}

// SessionState is returned to the candidate client on resume: the paper
// (without hidden cases or answer keys) plus timing information.
type SessionState struct {
	SessionID        uuid.UUID          `json:"session_id"`
	Status           SessionStatus      `json:"status"`
	Questions        []QuestionForTaker `json:"questions"`
	AttemptPointers  []SessionQuestion  `json:"attempt_pointers"`
	Deadline         time.Time          `json:"deadline"`
	RemainingSeconds float64            `json:"remaining_seconds"`
	ViolationCount   int                `json:"violation_count"`
}

// QuestionForTaker is a set question stripped for delivery: no correct
// index, no key points or rubric, visible test cases only.
type QuestionForTaker struct {
	ID           uuid.UUID    `json:"id"`
	Type         QuestionType `json:"type"`
	Skill        string       `json:"skill"`
	Points       float64      `json:"points"`
	Text         string       `json:"text"`
	Options      []string     `json:"options,omitempty"`
	VisibleCases []TestCase   `json:"visible_cases,omitempty"`
	OrderNum     int          `json:"order_num"`
}

// ForTaker strips grading material from a set question.
func (q *SetQuestion) ForTaker() QuestionForTaker {
	out := QuestionForTaker{
		ID:       q.ID,
		Type:     q.Type,
		Skill:    q.Skill,
		Points:   q.Points,
		Text:     q.Text,
		Options:  q.Options,
		OrderNum: q.OrderNum,
	}
	for _, tc := range q.TestCases {
		if tc.CaseType == CaseVisible {
			out.VisibleCases = append(out.VisibleCases, tc)
		}
	}
	return out
}

// ViolationEvent is one recorded proctoring infraction, batch-persisted
// as an audit trail separate from the session's violation counter.
type ViolationEvent struct {
	ID         int64     `json:"id"`
	SessionID  uuid.UUID `json:"session_id"`
	Kind       string    `json:"kind"`
	Detail     string    `json:"detail,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ReportViolationRequest is the payload for a proctoring strike.
type ReportViolationRequest struct {
	Kind   string `json:"kind" binding:"required,oneof=tab_switch fullscreen_exit face_missing multiple_faces devtools_open"`
	Detail string `json:"detail" binding:"omitempty,max=2000"`
}
