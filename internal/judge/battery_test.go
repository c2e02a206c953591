package judge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentgate/assess-backend/internal/model"
)

type fakeExecutor struct {
	outputs map[string]string // stdin -> stdout
	failOn  map[string]bool   // stdin -> force adapter error
}

func (f *fakeExecutor) Execute(_ context.Context, _ string, _ int, stdin string) (*ExecutionResult, error) {
	if f.failOn[stdin] {
		return nil, errors.New("execution service unavailable")
	}
	return &ExecutionResult{Stdout: f.outputs[stdin], Status: "Accepted"}, nil
}

func sampleQuestion() *model.SetQuestion {
	return &model.SetQuestion{
		Type: model.QuestionTypeProgramming,
		TestCases: []model.TestCase{
			{CaseType: model.CaseEdge, Ordinal: 1, Input: "e1", ExpectedOutput: "E1"},
			{CaseType: model.CaseVisible, Ordinal: 2, Input: "v2", ExpectedOutput: "V2"},
			{CaseType: model.CaseHidden, Ordinal: 1, Input: "h1", ExpectedOutput: "H1"},
			{CaseType: model.CaseVisible, Ordinal: 1, Input: "v1", ExpectedOutput: "V1"},
		},
	}
}

func TestBuildBatteryVisibleOnly(t *testing.T) {
	battery := BuildBattery(sampleQuestion(), false)

	require.Len(t, battery, 2)
	assert.Equal(t, model.CaseVisible, battery[0].CaseType)
	assert.Equal(t, 1, battery[0].Ordinal)
	assert.Equal(t, 2, battery[1].Ordinal)
}

func TestBuildBatteryFullOrder(t *testing.T) {
	battery := BuildBattery(sampleQuestion(), true)

	require.Len(t, battery, 4)
	got := make([]model.CaseType, 0, 4)
	for _, tc := range battery {
		got = append(got, tc.CaseType)
	}
	assert.Equal(t, []model.CaseType{
		model.CaseVisible, model.CaseVisible, model.CaseHidden, model.CaseEdge,
	}, got)
	assert.Equal(t, 1, battery[0].Ordinal)
	assert.Equal(t, 2, battery[1].Ordinal)
}

func TestRunBatteryCountsPartitions(t *testing.T) {
	exec := &fakeExecutor{outputs: map[string]string{
		"v1": "V1",
		"v2": "wrong",
		"h1": "H1",
		"e1": "E1",
	}}
	battery := BuildBattery(sampleQuestion(), true)

	results, counts := RunBattery(context.Background(), exec, "code", 71, battery)

	require.Len(t, results, 4)
	assert.Equal(t, 1, counts.Visible)
	assert.Equal(t, 2, counts.VisibleTotal)
	assert.Equal(t, 1, counts.Hidden)
	assert.Equal(t, 1, counts.HiddenTotal)
	assert.Equal(t, 1, counts.Edge)
	assert.Equal(t, 1, counts.EdgeTotal)
	assert.Equal(t, 3, counts.Passed())
	assert.Equal(t, 4, counts.Total())
}

func TestRunBatteryContinuesPastAdapterError(t *testing.T) {
	exec := &fakeExecutor{
		outputs: map[string]string{"v2": "V2"},
		failOn:  map[string]bool{"v1": true},
	}
	battery := BuildBattery(sampleQuestion(), false)

	results, counts := RunBattery(context.Background(), exec, "code", 71, battery)

	require.Len(t, results, 2)
	assert.False(t, results[0].Passed)
	assert.NotEmpty(t, results[0].ExecErr)
	assert.True(t, results[1].Passed)
	assert.Equal(t, 1, counts.Visible)
	assert.Equal(t, 2, counts.VisibleTotal)
}

func TestOutputMatchesNormalization(t *testing.T) {
	assert.True(t, outputMatches("42\n", "42"))
	assert.True(t, outputMatches("a  \nb\t\n", "a\nb"))
	assert.True(t, outputMatches("x\r\ny\r\n", "x\ny"))
	assert.False(t, outputMatches("a\nb", "a b"))
	assert.False(t, outputMatches("", "0"))
}

func TestLanguageID(t *testing.T) {
	id, ok := LanguageID("Python")
	require.True(t, ok)
	assert.Equal(t, 71, id)

	id, ok = LanguageID(" go ")
	require.True(t, ok)
	assert.Equal(t, 60, id)

	_, ok = LanguageID("brainfuck")
	assert.False(t, ok)
}
