package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []AssessmentStatus{
	StatusOnboarding, StatusResumeReview, StatusResumeRejected, StatusReady,
	StatusInProgress, StatusSubmitted, StatusEvaluating, StatusEvaluated,
	StatusDecided, StatusAbandoned,
}

// forwardRank orders the lifecycle; every allowed edge except the
// explicit re-evaluation loop must move strictly forward.
var forwardRank = map[AssessmentStatus]int{
	StatusOnboarding:     0,
	StatusResumeReview:   1,
	StatusResumeRejected: 2,
	StatusReady:          2,
	StatusInProgress:     3,
	StatusAbandoned:      4,
	StatusSubmitted:      4,
	StatusEvaluating:     5,
	StatusEvaluated:      6,
	StatusDecided:        7,
}

func TestLifecycleHappyPath(t *testing.T) {
	a := &CandidateAssessment{Status: StatusOnboarding}

	path := []AssessmentStatus{
		StatusResumeReview, StatusReady, StatusInProgress,
		StatusSubmitted, StatusEvaluating, StatusEvaluated, StatusDecided,
	}
	for _, next := range path {
		require.NoError(t, a.TransitionTo(next), "transition to %s", next)
	}
	assert.Equal(t, StatusDecided, a.Status)
}

func TestLifecycleIsForwardOnly(t *testing.T) {
	for from, nexts := range lifecycleTransitions {
		for _, to := range nexts {
			if from == StatusEvaluated && to == StatusEvaluating {
				continue // explicit re-evaluation edge
			}
			assert.Greater(t, forwardRank[to], forwardRank[from],
				"edge %s -> %s must move forward", from, to)
		}
	}
}

func TestLifecycleTerminalStates(t *testing.T) {
	for _, s := range []AssessmentStatus{StatusResumeRejected, StatusDecided, StatusAbandoned} {
		assert.True(t, IsTerminal(s), "%s must be terminal", s)
		for _, to := range allStatuses {
			assert.False(t, CanTransition(s, to), "%s -> %s must be rejected", s, to)
		}
	}
}

func TestLifecycleRejectsSkips(t *testing.T) {
	cases := []struct{ from, to AssessmentStatus }{
		{StatusOnboarding, StatusReady},       // skips resume review
		{StatusOnboarding, StatusInProgress},  // skips everything
		{StatusResumeReview, StatusSubmitted}, // skips the session
		{StatusReady, StatusEvaluated},
		{StatusSubmitted, StatusEvaluated}, // skips evaluating
		{StatusInProgress, StatusReady},    // backward
		{StatusEvaluated, StatusSubmitted}, // backward
	}
	for _, tc := range cases {
		a := &CandidateAssessment{Status: tc.from}
		err := a.TransitionTo(tc.to)
		assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", tc.from, tc.to)
		assert.Equal(t, tc.from, a.Status, "status must not change on rejection")
	}
}

func TestAbandonedOnlyFromInProgress(t *testing.T) {
	for _, from := range allStatuses {
		got := CanTransition(from, StatusAbandoned)
		assert.Equal(t, from == StatusInProgress, got, "from=%s", from)
	}
}

// All 16 boolean combinations of the onboarding gates.
func TestIsOnboardingComplete(t *testing.T) {
	for i := 0; i < 16; i++ {
		email := i&1 != 0
		photo := i&2 != 0
		consent := i&4 != 0
		resume := i&8 != 0

		a := &CandidateAssessment{
			Onboarding: Onboarding{
				EmailVerified:        email,
				ProfilePhotoCaptured: photo,
				ConsentAccepted:      consent,
			},
			Resume: Resume{PassedThreshold: resume},
		}

		want := email && photo && consent && resume
		assert.Equal(t, want, a.IsOnboardingComplete(),
			"email=%v photo=%v consent=%v resume=%v", email, photo, consent, resume)
	}
}
