package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    TaskStatus
		wantErr bool
	}{
		{in: "ready", want: StatusReady},
		{in: "In-Progress", want: StatusInProgress},
		{in: " testing ", want: StatusTesting},
		{in: "3", want: StatusComplete},
		{in: "blocked", want: StatusBlocked},
		{in: "done", wantErr: true},
		{in: "9", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseStatus(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTaskStatus_String(t *testing.T) {
	assert.Equal(t, "in-progress", StatusInProgress.String())
	assert.Equal(t, "status(42)", TaskStatus(42).String())
}

func TestScores_Validate(t *testing.T) {
	ok := Scores{Complexity: 1, UsersAffected: 5, Retention: 3, Conversion: 2, Confidence: 4}
	require.NoError(t, ok.Validate())

	bad := ok
	bad.Retention = 6
	require.ErrorContains(t, bad.Validate(), "retention")

	bad = ok
	bad.Complexity = 0
	require.ErrorContains(t, bad.Validate(), "complexity")
}

func TestScores_Value(t *testing.T) {
	s := Scores{Complexity: 2, UsersAffected: 4, Retention: 3, Conversion: 1, Confidence: 5}
	assert.InDelta(t, 20.0, s.Value(), 1e-9)
	assert.Zero(t, Scores{}.Value())
}

func TestSortByPriority(t *testing.T) {
	low := StackTask{ID: 1, Scores: Scores{Complexity: 5, UsersAffected: 1, Retention: 1, Conversion: 1, Confidence: 1}}
	high := StackTask{ID: 2, Scores: Scores{Complexity: 1, UsersAffected: 5, Retention: 5, Conversion: 5, Confidence: 5}}
	pinned := StackTask{ID: 3, Pinned: true, Scores: low.Scores}
	tie := StackTask{ID: 0, Scores: low.Scores}

	tasks := []StackTask{low, high, pinned, tie}
	SortByPriority(tasks)

	ids := []int64{tasks[0].ID, tasks[1].ID, tasks[2].ID, tasks[3].ID}
	assert.Equal(t, []int64{3, 2, 0, 1}, ids)
}

func TestStackTask_JSONFlattensScores(t *testing.T) {
	task := StackTask{
		ProjectID: 7,
		Title:     "Cache warmup",
		Scores:    Scores{Complexity: 2, UsersAffected: 3, Retention: 4, Conversion: 1, Confidence: 5},
	}
	b, err := json.Marshal(task)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.EqualValues(t, 2, m["complexity"])
	assert.EqualValues(t, 3, m["users_affected"])
	assert.NotContains(t, m, "id")
	assert.NotContains(t, m, "created_at")
}

func TestProject_Pointer(t *testing.T) {
	p := Project{ID: 4, UserID: "u", Name: "Rail", Problem: "p", Description: "d", Nickname: "n"}
	assert.Equal(t, CurrentProject{ID: 4, Name: "Rail", Problem: "p", Description: "d", Nickname: "n"}, p.Pointer())
}
