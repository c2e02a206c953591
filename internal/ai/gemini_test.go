package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONBlock(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n{\"a\":1}\n  ", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, cleanJSONBlock(tc.in))
		})
	}
}

func TestResumeAnalysisParsing(t *testing.T) {
	raw := cleanJSONBlock("```json\n" + `{
		"match_score": 87.5,
		"skill_matches": ["Go", "PostgreSQL"],
		"experience_match": "5 tahun backend",
		"qualification_match": "S1 Informatika",
		"is_fake": false,
		"overall_analysis": "Kandidat kuat."
	}` + "\n```")

	var analysis ResumeAnalysis
	require.NoError(t, json.Unmarshal([]byte(raw), &analysis))
	assert.InDelta(t, 87.5, analysis.MatchScore, 0.001)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, analysis.SkillMatches)
	assert.False(t, analysis.IsFake)
}

func TestAnswerGradeParsing(t *testing.T) {
	raw := `{
		"score": 72,
		"feedback": "Cukup lengkap.",
		"key_points_covered": ["indexing"],
		"improvements": ["bahas locking"],
		"rubric_feedback": "Memenuhi sebagian rubrik."
	}`

	var grade AnswerGrade
	require.NoError(t, json.Unmarshal([]byte(raw), &grade))
	assert.InDelta(t, 72, grade.Score, 0.001)
	assert.Equal(t, []string{"indexing"}, grade.KeyPointsCovered)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0.0, clampScore(-5))
	assert.Equal(t, 100.0, clampScore(130))
	assert.Equal(t, 55.5, clampScore(55.5))
}
