package model

import (
	"time"

	"github.com/google/uuid"
)

// AssessmentAnswer is a per-question answer record tied to a candidate
// assessment. Objective answers carry the selected option, subjective
// answers the free text, programming answers the latest code snapshot
// and its test-pass counts.
type AssessmentAnswer struct {
	ID            uuid.UUID    `json:"id"`
	AssessmentID  uuid.UUID    `json:"assessment_id"`
	QuestionID    uuid.UUID    `json:"question_id"`
	QuestionType  QuestionType `json:"question_type"`
	SelectedIndex *int         `json:"selected_index,omitempty"`
	Text          string       `json:"text,omitempty"`
	Code          string       `json:"code,omitempty"`
	Language      string       `json:"language,omitempty"`
	TestsPassed   int          `json:"tests_passed"`
	TestsTotal    int          `json:"tests_total"`
	AnsweredAt    time.Time    `json:"answered_at"`
}

// AnswerRequest is the payload for objective/subjective answers.
type AnswerRequest struct {
	SelectedIndex *int   `json:"selected_index" binding:"omitempty,min=0"`
	Text          string `json:"text" binding:"omitempty,max=50000"`
}
