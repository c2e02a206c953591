package model

import (
	"time"

	"github.com/google/uuid"
)

// Recommendation is the machine verdict derived from the weighted
// percentage. The human decision is recorded separately.
type Recommendation string

const (
	RecommendationPass Recommendation = "PASS_RECOMMENDED"
	RecommendationHold Recommendation = "HOLD"
	RecommendationFail Recommendation = "FAILED"
)

// Decision is the human verdict that moves the lifecycle to DECIDED.
type Decision string

const (
	DecisionPass Decision = "PASS"
	DecisionFail Decision = "FAIL"
	DecisionHold Decision = "HOLD"
)

// CompetencyLevel is the categorical label derived from a skill-bucketed
// objective percentage.
type CompetencyLevel string

const (
	CompetencyExpert       CompetencyLevel = "expert"
	CompetencyProficient   CompetencyLevel = "proficient"
	CompetencyIntermediate CompetencyLevel = "intermediate"
	CompetencyBeginner     CompetencyLevel = "beginner"
)

// Evaluation is the one-per-assessment scoring record.
type Evaluation struct {
	ID                 uuid.UUID      `json:"id"`
	AssessmentID       uuid.UUID      `json:"assessment_id"` // unique
	Objective          Section        `json:"objective"`
	Subjective         Section        `json:"subjective"`
	Programming        Section        `json:"programming"`
	TotalScore         float64        `json:"total_score"`
	MaxTotalScore      float64        `json:"max_total_score"`
	Percentage         float64        `json:"percentage"`
	WeightedPercentage float64        `json:"weighted_percentage"`
	SkillScores        []SkillScore   `json:"skill_scores"`
	Recommendation     Recommendation `json:"recommendation"`
	NeedsReview        bool           `json:"needs_manual_review"`
	AdminDecision      *AdminDecision `json:"admin_decision,omitempty"`
	EvaluatedAt        time.Time      `json:"evaluated_at"`
}

// Section is one scored section of an evaluation.
type Section struct {
	Score      float64         `json:"score"`
	MaxScore   float64         `json:"max_score"`
	Percentage float64         `json:"percentage"`
	Details    []SectionDetail `json:"details,omitempty"`
}

// SectionDetail is a per-question line item inside a section.
type SectionDetail struct {
	QuestionID  uuid.UUID `json:"question_id"`
	Score       float64   `json:"score"`
	MaxScore    float64   `json:"max_score"`
	Attempted   bool      `json:"attempted"`
	Feedback    string    `json:"feedback,omitempty"`
	NeedsReview bool      `json:"needs_manual_review,omitempty"`
}

// SkillScore maps a skill tag to its objective-section percentage and
// derived competency label.
type SkillScore struct {
	Skill      string          `json:"skill"`
	Percentage float64         `json:"percentage"`
	Competency CompetencyLevel `json:"competency_level"`
}

// AdminDecision is the human verdict, set at most once per evaluation
// cycle. Re-evaluation resets it.
type AdminDecision struct {
	Value     Decision  `json:"value"`
	By        int       `json:"by"`
	Notes     string    `json:"notes,omitempty"`
	DecidedAt time.Time `json:"decided_at"`
}

// RecordDecisionRequest is the admin payload for the final verdict.
type RecordDecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=PASS FAIL HOLD"`
	Notes    string `json:"notes" binding:"omitempty,max=5000"`
}
