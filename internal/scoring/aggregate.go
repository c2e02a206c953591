package scoring

import (
	"sort"

	"github.com/google/uuid"

	"github.com/talentgate/assess-backend/internal/model"
)

// QuestionScore is one graded question feeding the aggregator.
type QuestionScore struct {
	QuestionID  uuid.UUID
	Type        model.QuestionType
	Skill       string
	Score       float64 // earned points
	MaxScore    float64 // question points
	Attempted   bool
	Feedback    string
	NeedsReview bool
}

// Result is the aggregated scoring outcome before persistence.
type Result struct {
	Objective          model.Section
	Subjective         model.Section
	Programming        model.Section
	TotalScore         float64
	MaxTotalScore      float64
	Percentage         float64
	WeightedPercentage float64
	SkillScores        []model.SkillScore
	Recommendation     model.Recommendation
	NeedsReview        bool
}

// Aggregate folds per-question scores into section totals, the weighted
// percentage, per-skill competency labels, and a recommendation against
// the job's cutoff. Unattempted questions score zero but still count
// toward section maxima.
func Aggregate(scores []QuestionScore, job *model.Job) *Result {
	res := &Result{}
	weights := job.Weights
	if weights.Objective <= 0 && weights.Subjective <= 0 && weights.Programming <= 0 {
		weights = model.DefaultWeights
	}

	skillEarned := map[string]float64{}
	skillMax := map[string]float64{}

	for _, qs := range scores {
		earned := clamp(qs.Score, 0, qs.MaxScore)
		detail := model.SectionDetail{
			QuestionID:  qs.QuestionID,
			Score:       earned,
			MaxScore:    qs.MaxScore,
			Attempted:   qs.Attempted,
			Feedback:    qs.Feedback,
			NeedsReview: qs.NeedsReview,
		}
		if qs.NeedsReview {
			res.NeedsReview = true
		}

		switch qs.Type {
		case model.QuestionTypeObjective:
			addDetail(&res.Objective, detail)
			if qs.Skill != "" {
				skillEarned[qs.Skill] += earned
				skillMax[qs.Skill] += qs.MaxScore
			}
		case model.QuestionTypeSubjective:
			addDetail(&res.Subjective, detail)
		case model.QuestionTypeProgramming:
			addDetail(&res.Programming, detail)
		}
	}

	finalizeSection(&res.Objective)
	finalizeSection(&res.Subjective)
	finalizeSection(&res.Programming)

	res.TotalScore = res.Objective.Score + res.Subjective.Score + res.Programming.Score
	res.MaxTotalScore = res.Objective.MaxScore + res.Subjective.MaxScore + res.Programming.MaxScore
	if res.MaxTotalScore > 0 {
		res.Percentage = clamp(res.TotalScore/res.MaxTotalScore*100, 0, 100)
	}
	res.WeightedPercentage = weightedPercentage(res, weights)
	res.SkillScores = buildSkillScores(skillEarned, skillMax)
	res.Recommendation = recommend(res.WeightedPercentage, job.CutoffScore, job.HoldMargin)
	return res
}

func addDetail(s *model.Section, d model.SectionDetail) {
	s.Score += d.Score
	s.MaxScore += d.MaxScore
	s.Details = append(s.Details, d)
}

func finalizeSection(s *model.Section) {
	if s.MaxScore > 0 {
		s.Percentage = clamp(s.Score/s.MaxScore*100, 0, 100)
	}
}

// weightedPercentage combines section percentages. Sections with a zero
// max score are excluded and the remaining weights renormalized, so a
// set without a programming section does not silently lose 40% of the
// achievable score.
func weightedPercentage(res *Result, w model.Weights) float64 {
	type part struct {
		pct, weight float64
		present     bool
	}
	parts := []part{
		{res.Objective.Percentage, w.Objective, res.Objective.MaxScore > 0},
		{res.Subjective.Percentage, w.Subjective, res.Subjective.MaxScore > 0},
		{res.Programming.Percentage, w.Programming, res.Programming.MaxScore > 0},
	}

	var sum, weightTotal float64
	for _, p := range parts {
		if !p.present || p.weight <= 0 {
			continue
		}
		sum += p.pct * p.weight
		weightTotal += p.weight
	}
	if weightTotal == 0 {
		return 0
	}
	return clamp(sum/weightTotal, 0, 100)
}

// CompetencyFor maps an objective skill percentage to a categorical
// competency label.
func CompetencyFor(percentage float64) model.CompetencyLevel {
	switch {
	case percentage >= 90:
		return model.CompetencyExpert
	case percentage >= 70:
		return model.CompetencyProficient
	case percentage >= 50:
		return model.CompetencyIntermediate
	default:
		return model.CompetencyBeginner
	}
}

func buildSkillScores(earned, max map[string]float64) []model.SkillScore {
	skills := make([]string, 0, len(max))
	for skill := range max {
		skills = append(skills, skill)
	}
	sort.Strings(skills)

	out := make([]model.SkillScore, 0, len(skills))
	for _, skill := range skills {
		if max[skill] <= 0 {
			continue
		}
		pct := clamp(earned[skill]/max[skill]*100, 0, 100)
		out = append(out, model.SkillScore{
			Skill:      skill,
			Percentage: pct,
			Competency: CompetencyFor(pct),
		})
	}
	return out
}

func recommend(weighted, cutoff, holdMargin float64) model.Recommendation {
	switch {
	case weighted >= cutoff:
		return model.RecommendationPass
	case weighted >= cutoff-holdMargin:
		return model.RecommendationHold
	default:
		return model.RecommendationFail
	}
}

// ProgrammingScore converts test-pass counts into earned points with
// linear partial credit.
func ProgrammingScore(passed, total int, maxScore float64) float64 {
	if total <= 0 {
		return 0
	}
	return clamp(float64(passed)/float64(total)*maxScore, 0, maxScore)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
