package formatters

import (
	"encoding/json"
	"testing"

	"hrpilot/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_SupportedFormats(t *testing.T) {
	assert.Equal(t, []string{"json", "markdown", "text"}, NewFormatterRegistry().GetSupportedFormats())
}

func TestRegistry_JSONFallsBackForAnyType(t *testing.T) {
	r := NewFormatterRegistry()
	out, err := r.Format(map[string]int{"a": 1}, "json")
	require.NoError(t, err)

	var decoded map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 1, decoded["a"])
}

func TestRegistry_UnknownCombination(t *testing.T) {
	r := NewFormatterRegistry()
	_, err := r.Format(types.JDAnalysis{}, "xml")
	assert.EqualError(t, err, "no formatter found for format 'xml' and type 'JDAnalysis'")

	_, err = r.Format(42, "text")
	assert.Error(t, err)
}

func TestFormat_CVResult(t *testing.T) {
	r := NewFormatterRegistry()
	res := types.CVResult{
		Name:    "lan.txt",
		CVScore: types.CVScore{Score: 77, Status: types.CVReview, Analysis: "Solid", SkillsMatch: []string{"Go", "SQL"}},
	}

	text, err := r.Format(res, "text")
	require.NoError(t, err)
	assert.Contains(t, text, "Candidate: lan.txt")
	assert.Contains(t, text, "Score: 77/100")
	assert.Contains(t, text, "Status: Review")
	assert.Contains(t, text, "- SQL\n")

	md, err := r.Format(res, "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "# CV Screening")
	assert.Contains(t, md, "**Status:** Review")
}

func TestFormat_JobPostWithVideo(t *testing.T) {
	r := NewFormatterRegistry()
	post := types.JobPostOutput{
		Platform: "LinkedIn",
		Tone:     "Professional",
		Content:  "Join us",
		Image:    "media/post.png",
		Video:    &types.VideoResult{Outcome: types.VideoTimedOut, Reason: "60 polls"},
	}

	text, err := r.Format(post, "text")
	require.NoError(t, err)
	assert.Contains(t, text, "=== JOB POST (LinkedIn, Professional) ===")
	assert.Contains(t, text, "Image: media/post.png")
	assert.Contains(t, text, "Video: Timed Out (60 polls)")

	post.Video = &types.VideoResult{Outcome: types.VideoReady, Asset: "media/v.mp4"}
	md, err := r.Format(post, "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "![Job post image](media/post.png)")
	assert.Contains(t, md, "**Video:** media/v.mp4")
}

func TestFormat_Onboarding(t *testing.T) {
	r := NewFormatterRegistry()
	out := types.OnboardingOutput{
		Name: "Lan",
		Role: "Designer",
		Tasks: types.OnboardingPlan{
			{ID: "0", Task: "Laptop", DueDate: "Day 1", Assignee: "IT", Status: types.TaskCompleted},
			{ID: "1", Task: "Meet team", DueDate: "Day 2", Assignee: "Manager", Status: types.TaskPending},
		},
	}

	text, err := r.Format(out, "text")
	require.NoError(t, err)
	assert.Contains(t, text, "1. [x] Laptop")
	assert.Contains(t, text, "2. [ ] Meet team")

	md, err := r.Format(out, "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "| x | Laptop | Day 1 | IT |")

	empty, err := r.Format(types.OnboardingOutput{Name: "Lan"}, "text")
	require.NoError(t, err)
	assert.Contains(t, empty, "No tasks generated.")
}

func TestFormat_MarketAndSentiment(t *testing.T) {
	r := NewFormatterRegistry()

	md, err := r.Format(types.MarketBenchmark{
		Text:    "20-30M VND",
		Sources: []types.Source{{Title: "TopCV", URI: "https://topcv.vn"}},
	}, "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "- [TopCV](https://topcv.vn)")

	text, err := r.Format(types.SentimentResult{
		RiskLevel:   types.RiskCritical,
		Score:       12,
		Summary:     "Planning to leave",
		ActionItems: []string{"Stay interview"},
	}, "text")
	require.NoError(t, err)
	assert.Contains(t, text, "Risk: Critical")
	assert.Contains(t, text, "Retention score: 12/100")
	assert.Contains(t, text, "- Stay interview")
}

func TestFormat_Audio(t *testing.T) {
	r := NewFormatterRegistry()
	text, err := r.Format(types.InterviewAudio{Role: "PM"}, "text")
	require.NoError(t, err)
	assert.Equal(t, "No interview audio was produced for PM.\n", text)
}

func TestFormat_Dashboard(t *testing.T) {
	r := NewFormatterRegistry()
	snap := types.DashboardSnapshot{
		Stats:  []types.Stat{{Title: "New Hires", Value: "12"}},
		Weekly: []types.DailyActivity{{Day: "Fri", CVs: 3, Hired: 1}},
	}
	text, err := r.Format(snap, "text")
	require.NoError(t, err)
	assert.Contains(t, text, "New Hires")
	assert.Contains(t, text, "Fri  ###")

	md, err := r.Format(snap, "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "| Fri | 3 | 1 |")
}

func TestTypedFormatter_RejectsWrongType(t *testing.T) {
	f := textOf(typeEmail, emailText)
	_, err := f.Format(types.JDAnalysis{})
	assert.EqualError(t, err, "expected WelcomeEmail, got types.JDAnalysis")
	assert.Equal(t, typeEmail, f.SupportedType())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Pass", label("pass"))
	assert.Equal(t, "Timed Out", label("timed_out"))
}
