package model

import "errors"

// AssessmentStatus enumerates the lifecycle states of a candidate assessment.
type AssessmentStatus string

const (
	StatusOnboarding     AssessmentStatus = "ONBOARDING"
	StatusResumeReview   AssessmentStatus = "RESUME_REVIEW"
	StatusResumeRejected AssessmentStatus = "RESUME_REJECTED"
	StatusReady          AssessmentStatus = "READY"
	StatusInProgress     AssessmentStatus = "IN_PROGRESS"
	StatusSubmitted      AssessmentStatus = "SUBMITTED"
	StatusEvaluating     AssessmentStatus = "EVALUATING"
	StatusEvaluated      AssessmentStatus = "EVALUATED"
	StatusDecided        AssessmentStatus = "DECIDED"
	StatusAbandoned      AssessmentStatus = "ABANDONED"
)

// ErrInvalidTransition is returned when a status change is not in the
// lifecycle table. All transitions are forward-only; there is no path
// back to an earlier state.
var ErrInvalidTransition = errors.New("invalid lifecycle transition")

// lifecycleTransitions is the single source of truth for allowed status
// changes. Every transition in the system goes through TransitionTo, so
// guards live in one place instead of scattered string comparisons.
var lifecycleTransitions = map[AssessmentStatus][]AssessmentStatus{
	StatusOnboarding:   {StatusResumeReview},
	StatusResumeReview: {StatusResumeRejected, StatusReady},
	StatusReady:        {StatusInProgress},
	StatusInProgress:   {StatusSubmitted, StatusAbandoned},
	StatusSubmitted:    {StatusEvaluating},
	StatusEvaluating:   {StatusEvaluated},
	StatusEvaluated:    {StatusDecided, StatusEvaluating}, // re-evaluation re-enters EVALUATING
	// StatusResumeRejected, StatusDecided, StatusAbandoned are terminal.
}

// IsValid reports whether s is a known lifecycle state.
func (s AssessmentStatus) IsValid() bool {
	switch s {
	case StatusOnboarding, StatusResumeReview, StatusResumeRejected,
		StatusReady, StatusInProgress, StatusSubmitted,
		StatusEvaluating, StatusEvaluated, StatusDecided, StatusAbandoned:
		return true
	}
	return false
}

// CanTransition reports whether from → to is an allowed lifecycle edge.
func CanTransition(from, to AssessmentStatus) bool {
	for _, next := range lifecycleTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func IsTerminal(s AssessmentStatus) bool {
	return len(lifecycleTransitions[s]) == 0
}

// TransitionTo validates and applies a status change on the assessment.
func (a *CandidateAssessment) TransitionTo(to AssessmentStatus) error {
	if !CanTransition(a.Status, to) {
		return ErrInvalidTransition
	}
	a.Status = to
	return nil
}

// IsOnboardingComplete reports whether every gate required before a
// session may start is satisfied: email verified, profile photo captured,
// consent accepted, and the resume passed the match threshold.
func (a *CandidateAssessment) IsOnboardingComplete() bool {
	return a.Onboarding.EmailVerified &&
		a.Onboarding.ProfilePhotoCaptured &&
		a.Onboarding.ConsentAccepted &&
		a.Resume.PassedThreshold
}
