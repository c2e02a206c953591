package worker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentgate/assess-backend/internal/ai"
	"github.com/talentgate/assess-backend/internal/model"
)

func TestApplyAnalysisGateMatrix(t *testing.T) {
	const threshold = 90.0

	tests := []struct {
		name       string
		score      float64
		isFake     bool
		wantPassed bool
	}{
		{"above threshold", 95, false, true},
		{"exactly at threshold", 90, false, true},
		{"below threshold", 89.9, false, false},
		{"above threshold but fake", 95, true, false},
		{"below threshold and fake", 40, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r model.Resume
			applyAnalysis(&r, &ai.ResumeAnalysis{
				MatchScore: tt.score,
				IsFake:     tt.isFake,
			}, nil, threshold)

			assert.Equal(t, tt.wantPassed, r.PassedThreshold)
			assert.Equal(t, tt.score, r.MatchScore)
			assert.Equal(t, tt.isFake, r.IsFake)
			assert.False(t, r.NeedsReview)
			require.NotNil(t, r.AnalyzedAt)
		})
	}
}

func TestApplyAnalysisFailsClosed(t *testing.T) {
	r := model.Resume{MatchScore: 77}
	applyAnalysis(&r, nil, errors.New("scorer down"), 90)

	assert.Zero(t, r.MatchScore)
	assert.False(t, r.PassedThreshold)
	assert.True(t, r.NeedsReview)
	require.NotNil(t, r.AnalyzedAt)
}
