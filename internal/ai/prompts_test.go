package ai

import (
	"fmt"
	"strings"
	"testing"

	"hrpilot/internal/config"
	"hrpilot/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultUserPrompts_CoverEveryTool(t *testing.T) {
	for _, tool := range types.AllTools() {
		tmpl, ok := DefaultUserPrompts[tool]
		require.True(t, ok, tool)
		assert.NotEmpty(t, strings.TrimSpace(tmpl), tool)
	}
}

func TestPromptBuilder_InterpolatesInputs(t *testing.T) {
	b := NewPromptBuilder(nil)

	jd := b.AnalyzeJD("Senior Go developer, remote", types.English)
	assert.Contains(t, jd.Instruction, "Senior Go developer, remote")
	assert.Contains(t, jd.Instruction, "Output language: English.")
	assert.NotNil(t, jd.Schema)

	post := b.JobPost("JD text", "Facebook", "Friendly", types.Vietnamese)
	assert.Contains(t, post.Instruction, "Write a job post for Facebook.")
	assert.Contains(t, post.Instruction, "Tone: Friendly.")
	assert.Contains(t, post.Instruction, "Vietnamese")
	assert.Nil(t, post.Schema)

	cv := b.ScoreCV("the JD", "the CV")
	assert.Less(t, strings.Index(cv.Instruction, "the JD"), strings.Index(cv.Instruction, "the CV"))

	plan := b.OnboardingPlan("Designer", "Lan", types.Vietnamese)
	assert.Contains(t, plan.Instruction, "Name: Lan")
	assert.Contains(t, plan.Instruction, "Role: Designer")

	salary := b.SalaryBenchmark("Data Engineer", "Ho Chi Minh City", types.English)
	assert.Contains(t, salary.Instruction, `"Data Engineer" in "Ho Chi Minh City"`)
	require.Len(t, salary.Tools, 1)

	for _, spec := range []PromptSpec{jd, post, cv, plan, salary} {
		assert.NotContains(t, spec.Instruction, "%!", spec.Tool)
	}
}

func TestPromptBuilder_Deterministic(t *testing.T) {
	b := NewPromptBuilder(nil)
	assert.Equal(t, b.Sentiment("I am tired", types.English), b.Sentiment("I am tired", types.English))
}

func TestPromptBuilder_ChatTurn(t *testing.T) {
	b := NewPromptBuilder(nil)
	history := []types.ChatMessage{types.NewChatMessage(types.RoleModel, "Hi")}

	spec := b.ChatTurn(history, "question", types.English, types.PersonaRecruiter, true)
	assert.Equal(t, "question", spec.Instruction)
	assert.Equal(t, "You are a Senior Recruiter. Expert in sourcing, interviewing, and negotiation. Language: en.", spec.System)
	require.NotNil(t, spec.ThinkingBudget)
	assert.Equal(t, int32(1024), *spec.ThinkingBudget)

	history[0].Text = "mutated"
	assert.Equal(t, "Hi", spec.History[0].Text, "history must be copied")

	unknown := b.ChatTurn(nil, "q", types.Vietnamese, types.Persona("pirate"), false)
	assert.True(t, strings.HasPrefix(unknown.System, "You are a helpful HR Assistant."))
	assert.Nil(t, unknown.ThinkingBudget)
}

func TestPromptBuilder_Overrides(t *testing.T) {
	store, err := config.NewPromptStore(config.PromptConfig{
		Templates: map[string]string{
			string(types.ToolAnalyzeJD): "Summarize %[2]s in %[1]s",
			string(types.ToolScoreCV):   "Score %s %s %s %d",
		},
	})
	require.NoError(t, err)
	b := NewPromptBuilder(store)

	assert.Equal(t, "Summarize my JD in English", b.AnalyzeJD("my JD", types.English).Instruction)
	assert.Equal(t, "Summarize 100%! bonus in English", b.AnalyzeJD("100%! bonus", types.English).Instruction,
		"user text that looks like a verb error must not disable the override")

	// An override that does not accept the tool's arguments is ignored.
	cv := b.ScoreCV("jd", "cv")
	assert.Equal(t, fmt.Sprintf(DefaultUserPrompts[types.ToolScoreCV], "jd", "cv"), cv.Instruction)
}

func TestTemplateFits(t *testing.T) {
	tests := []struct {
		tmpl string
		n    int
		want bool
	}{
		{"%s and %s", 2, true},
		{"%[2]s then %[1]s", 2, true},
		{"only %s", 2, false},
		{"%s %s %s", 2, false},
		{"%d", 1, false},
		{"100%% literal %s", 1, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, templateFits(tt.tmpl, tt.n), tt.tmpl)
	}
}

func TestPromptBuilder_Build(t *testing.T) {
	b := NewPromptBuilder(nil)

	tests := []struct {
		name    string
		req     types.Request
		tool    types.ToolKind
		wantErr string
	}{
		{
			name: "job post defaults",
			req:  types.NewRequest(types.ToolJobPost, map[string]string{types.InputJD: "jd"}, nil),
			tool: types.ToolJobPost,
		},
		{
			name: "salary",
			req: types.NewRequest(types.ToolSalaryBenchmark,
				map[string]string{types.InputRole: "Engineer", types.InputLocation: "Hanoi"},
				map[string]string{types.OptionLanguage: "en"}),
			tool: types.ToolSalaryBenchmark,
		},
		{
			name:    "missing input",
			req:     types.NewRequest(types.ToolScoreCV, map[string]string{types.InputJD: "jd", types.InputCV: "  "}, nil),
			wantErr: `missing input "cv"`,
		},
		{
			name:    "unknown tool",
			req:     types.NewRequest("translate", nil, nil),
			wantErr: "unknown tool",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := b.Build(tt.req)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.tool, spec.Tool)
		})
	}

	spec, err := b.Build(types.NewRequest(types.ToolJobPost, map[string]string{types.InputJD: "jd"}, nil))
	require.NoError(t, err)
	assert.Contains(t, spec.Instruction, "Write a job post for LinkedIn.")
	assert.Contains(t, spec.Instruction, "Tone: Professional.")
}
