package scoring

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentgate/assess-backend/internal/model"
)

func testJob() *model.Job {
	return &model.Job{
		CutoffScore: 60,
		HoldMargin:  10,
		Weights:     model.DefaultWeights,
	}
}

func q(t model.QuestionType, skill string, score, max float64) QuestionScore {
	return QuestionScore{
		QuestionID: uuid.New(),
		Type:       t,
		Skill:      skill,
		Score:      score,
		MaxScore:   max,
		Attempted:  true,
	}
}

func TestAggregateSectionTotals(t *testing.T) {
	res := Aggregate([]QuestionScore{
		q(model.QuestionTypeObjective, "go", 10, 10),
		q(model.QuestionTypeObjective, "sql", 0, 10),
		q(model.QuestionTypeSubjective, "", 15, 20),
		q(model.QuestionTypeProgramming, "", 30, 40),
	}, testJob())

	assert.InDelta(t, 10, res.Objective.Score, 0.001)
	assert.InDelta(t, 20, res.Objective.MaxScore, 0.001)
	assert.InDelta(t, 50, res.Objective.Percentage, 0.001)
	assert.InDelta(t, 75, res.Subjective.Percentage, 0.001)
	assert.InDelta(t, 75, res.Programming.Percentage, 0.001)
	assert.InDelta(t, 55, res.TotalScore, 0.001)
	assert.InDelta(t, 80, res.MaxTotalScore, 0.001)
}

func TestAggregateOneOfTwoObjective(t *testing.T) {
	// One correct out of two equal-weight objective questions is 50%.
	res := Aggregate([]QuestionScore{
		q(model.QuestionTypeObjective, "go", 5, 5),
		q(model.QuestionTypeObjective, "go", 0, 5),
	}, testJob())

	assert.InDelta(t, 50, res.Objective.Percentage, 0.001)
	assert.InDelta(t, 50, res.WeightedPercentage, 0.001)
}

func TestWeightedPercentageRenormalizesMissingSection(t *testing.T) {
	// No programming section: its 0.4 weight must not drag the score.
	res := Aggregate([]QuestionScore{
		q(model.QuestionTypeObjective, "go", 10, 10),
		q(model.QuestionTypeSubjective, "", 20, 20),
	}, testJob())

	assert.InDelta(t, 100, res.WeightedPercentage, 0.001)
}

func TestWeightedPercentageBounds(t *testing.T) {
	res := Aggregate([]QuestionScore{
		q(model.QuestionTypeObjective, "go", 10, 10),
		q(model.QuestionTypeSubjective, "", 20, 20),
		q(model.QuestionTypeProgramming, "", 40, 40),
	}, testJob())
	assert.InDelta(t, 100, res.WeightedPercentage, 0.001)

	res = Aggregate([]QuestionScore{
		q(model.QuestionTypeObjective, "go", 0, 10),
		q(model.QuestionTypeSubjective, "", 0, 20),
		q(model.QuestionTypeProgramming, "", 0, 40),
	}, testJob())
	assert.InDelta(t, 0, res.WeightedPercentage, 0.001)
}

func TestAggregateClampsOverscoredQuestion(t *testing.T) {
	res := Aggregate([]QuestionScore{
		q(model.QuestionTypeSubjective, "", 130, 100),
	}, testJob())

	assert.InDelta(t, 100, res.Subjective.Score, 0.001)
	assert.InDelta(t, 100, res.Subjective.Percentage, 0.001)
}

func TestCompetencyBoundaries(t *testing.T) {
	assert.Equal(t, model.CompetencyExpert, CompetencyFor(90))
	assert.Equal(t, model.CompetencyProficient, CompetencyFor(89.99))
	assert.Equal(t, model.CompetencyProficient, CompetencyFor(70))
	assert.Equal(t, model.CompetencyIntermediate, CompetencyFor(69.99))
	assert.Equal(t, model.CompetencyIntermediate, CompetencyFor(50))
	assert.Equal(t, model.CompetencyBeginner, CompetencyFor(49.99))
	assert.Equal(t, model.CompetencyBeginner, CompetencyFor(0))
}

func TestSkillScores(t *testing.T) {
	res := Aggregate([]QuestionScore{
		q(model.QuestionTypeObjective, "go", 9, 10),
		q(model.QuestionTypeObjective, "go", 10, 10),
		q(model.QuestionTypeObjective, "sql", 5, 10),
	}, testJob())

	require.Len(t, res.SkillScores, 2)
	assert.Equal(t, "go", res.SkillScores[0].Skill)
	assert.InDelta(t, 95, res.SkillScores[0].Percentage, 0.001)
	assert.Equal(t, model.CompetencyExpert, res.SkillScores[0].Competency)
	assert.Equal(t, "sql", res.SkillScores[1].Skill)
	assert.Equal(t, model.CompetencyIntermediate, res.SkillScores[1].Competency)
}

func TestRecommendationBands(t *testing.T) {
	job := testJob() // cutoff 60, hold margin 10

	cases := []struct {
		weighted float64
		want     model.Recommendation
	}{
		{85, model.RecommendationPass},
		{60, model.RecommendationPass},
		{59.99, model.RecommendationHold},
		{50, model.RecommendationHold},
		{49.99, model.RecommendationFail},
		{0, model.RecommendationFail},
	}
	for _, tc := range cases {
		got := recommend(tc.weighted, job.CutoffScore, job.HoldMargin)
		assert.Equal(t, tc.want, got, "weighted=%v", tc.weighted)
	}
}

func TestNeedsReviewPropagates(t *testing.T) {
	qs := q(model.QuestionTypeSubjective, "", 0, 20)
	qs.NeedsReview = true

	res := Aggregate([]QuestionScore{qs}, testJob())
	assert.True(t, res.NeedsReview)
}

func TestProgrammingScorePartialCredit(t *testing.T) {
	assert.InDelta(t, 20, ProgrammingScore(2, 4, 40), 0.001)
	assert.InDelta(t, 40, ProgrammingScore(4, 4, 40), 0.001)
	assert.InDelta(t, 0, ProgrammingScore(0, 4, 40), 0.001)
	assert.InDelta(t, 0, ProgrammingScore(3, 0, 40), 0.001)
}
