package model

import (
	"time"

	"github.com/google/uuid"
)

// QuestionType distinguishes the three scored sections.
type QuestionType string

const (
	QuestionTypeObjective   QuestionType = "OBJECTIVE"
	QuestionTypeSubjective  QuestionType = "SUBJECTIVE"
	QuestionTypeProgramming QuestionType = "PROGRAMMING"
)

// CaseType partitions a programming question's test battery.
type CaseType string

const (
	CaseVisible CaseType = "VISIBLE"
	CaseHidden  CaseType = "HIDDEN"
	CaseEdge    CaseType = "EDGE"
)

// AssessmentSet is an immutable pool of questions eligible for a job.
// Once active it is assigned to candidates and never mutated.
type AssessmentSet struct {
	ID               uuid.UUID     `json:"id"`
	JobID            uuid.UUID     `json:"job_id"`
	Title            string        `json:"title"`
	IsActive         bool          `json:"is_active"`
	TotalTimeMinutes int           `json:"total_time_minutes"`
	Questions        []SetQuestion `json:"questions,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

// SetQuestion is one question within an assessment set.
type SetQuestion struct {
	ID           uuid.UUID    `json:"id"`
	SetID        uuid.UUID    `json:"set_id"`
	Type         QuestionType `json:"type"`
	Skill        string       `json:"skill"`
	Points       float64      `json:"points"`
	Text         string       `json:"text"`
	Options      []string     `json:"options,omitempty"`       // objective
	CorrectIndex *int         `json:"correct_index,omitempty"` // objective
	KeyPoints    []string     `json:"key_points,omitempty"`    // subjective
	Rubric       string       `json:"rubric,omitempty"`        // subjective
	TestCases    []TestCase   `json:"test_cases,omitempty"`    // programming
	OrderNum     int          `json:"order_num"`
}

// TestCase is an explicit ordered battery entry. Cases are stored as a
// typed list, never as a keyed map, so battery order is deterministic.
type TestCase struct {
	CaseType       CaseType `json:"case_type"`
	Ordinal        int      `json:"ordinal"`
	Input          string   `json:"input"`
	ExpectedOutput string   `json:"expected_output"`
}

// CreateSetRequest is the admin payload for creating an assessment set.
type CreateSetRequest struct {
	JobID            uuid.UUID               `json:"job_id" binding:"required"`
	Title            string                  `json:"title" binding:"required,min=3,max=255"`
	TotalTimeMinutes int                     `json:"total_time_minutes" binding:"required,min=10,max=480"`
	Questions        []CreateQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// CreateQuestionRequest is one question in a set creation payload.
type CreateQuestionRequest struct {
	Type         string              `json:"type" binding:"required,oneof=OBJECTIVE SUBJECTIVE PROGRAMMING"`
	Skill        string              `json:"skill" binding:"required,min=1,max=100"`
	Points       float64             `json:"points" binding:"required,gt=0"`
	Text         string              `json:"text" binding:"required,min=1,max=10000"`
	Options      []string            `json:"options" binding:"omitempty,max=10"`
	CorrectIndex *int                `json:"correct_index" binding:"omitempty,min=0"`
	KeyPoints    []string            `json:"key_points" binding:"omitempty,max=20"`
	Rubric       string              `json:"rubric" binding:"omitempty,max=5000"`
	TestCases    []CreateTestCaseReq `json:"test_cases" binding:"omitempty,dive"`
	OrderNum     int                 `json:"order_num" binding:"min=0"`
}

// CreateTestCaseReq is one battery entry in a set creation payload.
type CreateTestCaseReq struct {
	CaseType       string `json:"case_type" binding:"required,oneof=VISIBLE HIDDEN EDGE"`
	Input          string `json:"input" binding:"max=100000"`
	ExpectedOutput string `json:"expected_output" binding:"required,max=100000"`
}
