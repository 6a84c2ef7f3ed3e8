package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCVScore_Decode(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantScore int
		wantErr   bool
	}{
		{"integer score", `{"score":82,"analysis":"ok","status":"pass","skillsMatch":["Go"]}`, 82, false},
		{"integral float", `{"score":82.0,"analysis":"ok","status":"pass","skillsMatch":[]}`, 82, false},
		{"fractional score", `{"score":82.5,"analysis":"ok","status":"pass","skillsMatch":[]}`, 0, true},
		{"out of range", `{"score":140,"analysis":"ok","status":"pass","skillsMatch":[]}`, 0, true},
		{"bad status", `{"score":40,"analysis":"ok","status":"maybe","skillsMatch":[]}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var score CVScore
			err := json.Unmarshal([]byte(tt.payload), &score)
			if err == nil {
				err = score.Validate()
			}
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, score.Score)
		})
	}
}

func TestSentimentResult_ScoreIsRoundedAndClamped(t *testing.T) {
	tests := []struct {
		payload string
		want    int
	}{
		{`{"riskLevel":"High","score":72.6,"summary":"s","actionItems":[]}`, 73},
		{`{"riskLevel":"Low","score":130,"summary":"s","actionItems":[]}`, 100},
		{`{"riskLevel":"Critical","score":-4,"summary":"s","actionItems":[]}`, 0},
	}

	for _, tt := range tests {
		var result SentimentResult
		require.NoError(t, json.Unmarshal([]byte(tt.payload), &result))
		require.NoError(t, result.Validate())
		assert.Equal(t, tt.want, result.Score)
	}
}

func TestSentimentResult_RejectsUnknownRisk(t *testing.T) {
	result := SentimentResult{RiskLevel: "Severe", Score: 10}
	assert.Error(t, result.Validate())
}

func TestOnboardingPlan_ValidateAndNormalize(t *testing.T) {
	plan := OnboardingPlan{
		{ID: "a", Task: "Set up laptop", DueDate: "Day 1", Status: TaskCompleted, Assignee: "IT"},
		{ID: "b", Task: "Meet the team", DueDate: "Day 2", Status: "", Assignee: "Manager"},
	}
	require.NoError(t, plan.Validate())

	normalized := plan.Normalize()
	for i, task := range normalized {
		assert.Equal(t, TaskPending, task.Status)
		assert.Equal(t, string(rune('0'+i)), task.ID)
	}
	assert.Equal(t, TaskCompleted, plan[0].Status, "Normalize must not mutate the input")

	bad := OnboardingPlan{{Task: "x", Assignee: " "}}
	assert.Error(t, bad.Validate())
}

func TestTaskStatus_Toggle(t *testing.T) {
	assert.Equal(t, TaskCompleted, TaskPending.Toggle())
	assert.Equal(t, TaskPending, TaskCompleted.Toggle())
}

func TestJDAnalysis_Validate(t *testing.T) {
	a := JDAnalysis{Summary: "Backend role"}
	require.NoError(t, a.Validate())
	assert.NotNil(t, a.Skills)

	assert.Error(t, (&JDAnalysis{Summary: "  "}).Validate())
}

func TestFallbacks(t *testing.T) {
	cv := FallbackCVScore()
	assert.Equal(t, 0, cv.Score)
	assert.Equal(t, CVReview, cv.Status)
	assert.NotEmpty(t, cv.Analysis)
	assert.Empty(t, cv.SkillsMatch)
	assert.NoError(t, cv.Validate())

	assert.Equal(t, "Could not analyze JD.", FallbackJDAnalysis(English).Summary)
	assert.Equal(t, "Thỏa thuận", FallbackJDAnalysis(Vietnamese).Salary)

	sentiment := FallbackSentiment(English)
	assert.NoError(t, sentiment.Validate())
}

func TestMediaAsset_DataURI(t *testing.T) {
	asset := &MediaAsset{MIMEType: "image/png", Data: []byte{1, 2, 3}}
	assert.Equal(t, "data:image/png;base64,AQID", asset.DataURI())

	var empty *MediaAsset
	assert.True(t, empty.Empty())
	assert.Equal(t, "", empty.DataURI())
}
