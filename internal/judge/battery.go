package judge

import (
	"context"
	"sort"
	"strings"

	"github.com/talentgate/assess-backend/internal/model"
)

// BuildBattery returns a question's test cases in deterministic battery
// order: visible first, then hidden, then edge, each partition sorted by
// ordinal. When full is false only the visible partition is returned.
func BuildBattery(q *model.SetQuestion, full bool) []model.TestCase {
	battery := make([]model.TestCase, 0, len(q.TestCases))
	for _, tc := range q.TestCases {
		if !full && tc.CaseType != model.CaseVisible {
			continue
		}
		battery = append(battery, tc)
	}
	sort.SliceStable(battery, func(i, j int) bool {
		ri, rj := partitionRank(battery[i].CaseType), partitionRank(battery[j].CaseType)
		if ri != rj {
			return ri < rj
		}
		return battery[i].Ordinal < battery[j].Ordinal
	})
	return battery
}

func partitionRank(t model.CaseType) int {
	switch t {
	case model.CaseVisible:
		return 0
	case model.CaseHidden:
		return 1
	default:
		return 2
	}
}

// RunBattery executes every case in the battery against the candidate's
// code. Execution continues past failing cases: partial credit needs the
// full pass picture. An adapter error on one case marks that case failed
// with the error recorded, it never aborts the battery.
func RunBattery(ctx context.Context, exec Executor, code string, languageID int, battery []model.TestCase) ([]model.CaseResult, model.PassCounts) {
	results := make([]model.CaseResult, 0, len(battery))
	var counts model.PassCounts

	for _, tc := range battery {
		res := model.CaseResult{CaseType: tc.CaseType, Ordinal: tc.Ordinal}

		out, err := exec.Execute(ctx, code, languageID, tc.Input)
		if err != nil {
			res.ExecErr = err.Error()
		} else {
			res.Stdout = out.Stdout
			res.Stderr = out.Stderr
			res.Status = out.Status
			res.TimeMs = out.TimeMs
			res.MemoryKB = out.MemoryKB
			res.Passed = outputMatches(out.Stdout, tc.ExpectedOutput)
		}

		switch tc.CaseType {
		case model.CaseVisible:
			counts.VisibleTotal++
			if res.Passed {
				counts.Visible++
			}
		case model.CaseHidden:
			counts.HiddenTotal++
			if res.Passed {
				counts.Hidden++
			}
		case model.CaseEdge:
			counts.EdgeTotal++
			if res.Passed {
				counts.Edge++
			}
		}
		results = append(results, res)
	}
	return results, counts
}

// outputMatches compares actual and expected output ignoring trailing
// whitespace on each line and trailing newlines.
func outputMatches(actual, expected string) bool {
	return normalizeOutput(actual) == normalizeOutput(expected)
}

func normalizeOutput(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
