package ai

import "context"

// ResumeAnalysis is the structured outcome of matching a resume against
// a job's requirements. MatchScore is 0-100.
type ResumeAnalysis struct {
	MatchScore         float64  `json:"match_score"`
	SkillMatches       []string `json:"skill_matches"`
	ExperienceMatch    string   `json:"experience_match"`
	QualificationMatch string   `json:"qualification_match"`
	IsFake             bool     `json:"is_fake"`
	FakeReasons        []string `json:"fake_reasons,omitempty"`
	OverallAnalysis    string   `json:"overall_analysis"`
}

// AnswerGrade is the structured outcome of grading one subjective
// answer. Score is 0-100 and is later scaled to the question's points.
type AnswerGrade struct {
	Score            float64  `json:"score"`
	Feedback         string   `json:"feedback"`
	KeyPointsCovered []string `json:"key_points_covered,omitempty"`
	Improvements     []string `json:"improvements,omitempty"`
	RubricFeedback   string   `json:"rubric_feedback,omitempty"`
}

// Scorer abstracts the LLM provider behind the two grading operations
// the platform needs. Implementations must be safe for concurrent use.
type Scorer interface {
	MatchResume(ctx context.Context, resumeText, jobTitle, jobRequirements string) (*ResumeAnalysis, error)
	GradeAnswer(ctx context.Context, question, rubric string, keyPoints []string, answer string) (*AnswerGrade, error)
}
