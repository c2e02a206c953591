package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluatePayloadRetryBudget(t *testing.T) {
	p := evaluatePayload{AssessmentID: "a"}

	next, ok := p.retry()
	assert.True(t, ok)
	assert.Equal(t, 1, next.Attempts)

	next, ok = next.retry()
	assert.True(t, ok)
	assert.Equal(t, 2, next.Attempts)

	// Third failure exhausts the budget.
	_, ok = next.retry()
	assert.False(t, ok)
}
