package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentgate/assess-backend/internal/model"
)

// Validation rejects bad payloads before any repository call, so a nil
// repo is fine here.

func objectiveQuestion(correctIndex *int, options []string) model.CreateQuestionRequest {
	return model.CreateQuestionRequest{
		Type:         "OBJECTIVE",
		Skill:        "go",
		Points:       10,
		Text:         "pick one",
		Options:      options,
		CorrectIndex: correctIndex,
	}
}

func setRequest(questions ...model.CreateQuestionRequest) *model.CreateSetRequest {
	return &model.CreateSetRequest{
		JobID:            uuid.New(),
		Title:            "Default Set",
		TotalTimeMinutes: 60,
		Questions:        questions,
	}
}

func TestCreateRejectsObjectiveWithoutKey(t *testing.T) {
	s := NewSetService(nil)

	_, err := s.Create(context.Background(), setRequest(objectiveQuestion(nil, []string{"a", "b"})))
	assert.ErrorIs(t, err, ErrObjectiveNeedsKey)

	idx := 0
	_, err = s.Create(context.Background(), setRequest(objectiveQuestion(&idx, []string{"only one"})))
	assert.ErrorIs(t, err, ErrObjectiveNeedsKey)
}

func TestCreateRejectsCorrectIndexOutOfRange(t *testing.T) {
	s := NewSetService(nil)
	idx := 2

	_, err := s.Create(context.Background(), setRequest(objectiveQuestion(&idx, []string{"a", "b"})))
	assert.ErrorIs(t, err, ErrCorrectIndexOutOfRange)
}

func TestCreateRejectsProgrammingWithoutCases(t *testing.T) {
	s := NewSetService(nil)

	_, err := s.Create(context.Background(), setRequest(model.CreateQuestionRequest{
		Type:   "PROGRAMMING",
		Skill:  "go",
		Points: 25,
		Text:   "reverse a string",
	}))
	assert.ErrorIs(t, err, ErrProgrammingNeedsCases)
}

func TestBuildTestCasesOrdinalsPerPartition(t *testing.T) {
	cases := buildTestCases([]model.CreateTestCaseReq{
		{CaseType: "VISIBLE", Input: "a", ExpectedOutput: "1"},
		{CaseType: "HIDDEN", Input: "b", ExpectedOutput: "2"},
		{CaseType: "VISIBLE", Input: "c", ExpectedOutput: "3"},
		{CaseType: "EDGE", Input: "d", ExpectedOutput: "4"},
		{CaseType: "HIDDEN", Input: "e", ExpectedOutput: "5"},
	})
	require.Len(t, cases, 5)

	// Ordinals count within each partition, in request order.
	assert.Equal(t, model.CaseVisible, cases[0].CaseType)
	assert.Equal(t, 1, cases[0].Ordinal)
	assert.Equal(t, 1, cases[1].Ordinal)
	assert.Equal(t, 2, cases[2].Ordinal)
	assert.Equal(t, 1, cases[3].Ordinal)
	assert.Equal(t, 2, cases[4].Ordinal)
}
