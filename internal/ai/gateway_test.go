package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"hrpilot/internal/config"
	"hrpilot/internal/errors"
	"hrpilot/internal/types"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

func TestRoleFor(t *testing.T) {
	tests := map[types.ToolKind]config.ModelRole{
		types.ToolAnalyzeJD:         config.RoleText,
		types.ToolJobPost:           config.RoleText,
		types.ToolScoreCV:           config.RoleText,
		types.ToolSentiment:         config.RoleText,
		types.ToolSalaryBenchmark:   config.RoleText,
		types.ToolChatTurn:          config.RoleReasoning,
		types.ToolJobImage:          config.RoleImage,
		types.ToolInterviewQuestion: config.RoleSpeech,
		types.ToolJobVideo:          config.RoleVideo,
	}
	for tool, role := range tests {
		assert.Equal(t, role, RoleFor(tool), tool)
	}
}

func TestInvoke_SystemInstructionWhenRoleAllowsIt(t *testing.T) {
	client := &fakeClient{content: replyWith("hi")}
	svc := newTestService(t, testConfig(t), client)

	history := []types.ChatMessage{
		types.NewChatMessage(types.RoleModel, "Hello"),
		types.NewChatMessage(types.RoleUser, "Hi there"),
	}
	spec := svc.Prompts().ChatTurn(history, "What is our leave policy?", types.English, types.PersonaPolicy, false)

	raw, err := svc.Gateway().Invoke(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, "hi", raw.Text)

	call := client.lastCall(t)
	require.NotNil(t, call.cfg.SystemInstruction)
	assert.Contains(t, contentText(call.cfg.SystemInstruction), "HR Policy Expert")
	assert.Contains(t, contentText(call.cfg.SystemInstruction), "Language: en.")

	require.Len(t, call.contents, 3)
	assert.Equal(t, string(genai.RoleModel), call.contents[0].Role)
	assert.Equal(t, string(genai.RoleUser), call.contents[1].Role)
	assert.Equal(t, "What is our leave policy?", contentText(call.contents[2]))
	assert.Nil(t, call.cfg.ThinkingConfig)
}

func TestInvoke_InlinesSystemWhenRoleDisallowsIt(t *testing.T) {
	cfg := testConfig(t)
	cfg.AI.UseSystemPrompts = false
	client := &fakeClient{}
	svc := newTestService(t, cfg, client)

	spec := svc.Prompts().ChatTurn(nil, "hello", types.Vietnamese, types.PersonaCulture, true)
	_, err := svc.Gateway().Invoke(context.Background(), spec)
	require.NoError(t, err)

	call := client.lastCall(t)
	assert.Nil(t, call.cfg.SystemInstruction)
	require.Len(t, call.contents, 1)
	text := contentText(call.contents[0])
	assert.True(t, strings.HasPrefix(text, "You are a Culture & Engagement Specialist."), text)
	assert.True(t, strings.HasSuffix(text, "hello"), text)

	require.NotNil(t, call.cfg.ThinkingConfig)
	require.NotNil(t, call.cfg.ThinkingConfig.ThinkingBudget)
	assert.Equal(t, int32(1024), *call.cfg.ThinkingConfig.ThinkingBudget)
}

func TestInvoke_RequestConfigPerTool(t *testing.T) {
	client := &fakeClient{}
	svc := newTestService(t, testConfig(t), client)
	b := svc.Prompts()
	ctx := context.Background()

	t.Run("structured output", func(t *testing.T) {
		_, err := svc.Gateway().Invoke(ctx, b.AnalyzeJD("Go engineer", types.English))
		require.NoError(t, err)
		call := client.lastCall(t)
		assert.Equal(t, "application/json", call.cfg.ResponseMIMEType)
		require.NotNil(t, call.cfg.ResponseSchema)
		assert.ElementsMatch(t, []string{"summary", "skills", "experience", "salary"}, call.cfg.ResponseSchema.Required)
		require.NotNil(t, call.cfg.Temperature)
		assert.InDelta(t, 0.7, *call.cfg.Temperature, 1e-6)
		assert.Equal(t, "test-model", call.model)
	})

	t.Run("search grounding", func(t *testing.T) {
		_, err := svc.Gateway().Invoke(ctx, b.SalaryBenchmark("Engineer", "Hanoi", types.English))
		require.NoError(t, err)
		call := client.lastCall(t)
		require.Len(t, call.cfg.Tools, 1)
		assert.NotNil(t, call.cfg.Tools[0].GoogleSearch)
		assert.Empty(t, call.cfg.ResponseMIMEType)
	})

	t.Run("speech", func(t *testing.T) {
		_, err := svc.Gateway().Invoke(ctx, b.InterviewQuestion("Engineer", types.English))
		require.NoError(t, err)
		call := client.lastCall(t)
		assert.Equal(t, []string{"AUDIO"}, call.cfg.ResponseModalities)
		require.NotNil(t, call.cfg.SpeechConfig)
		assert.Equal(t, "Fenrir", call.cfg.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)
		assert.Nil(t, call.cfg.Temperature)
	})

	t.Run("image", func(t *testing.T) {
		_, err := svc.Gateway().Invoke(ctx, b.JobImage("Designer"))
		require.NoError(t, err)
		call := client.lastCall(t)
		assert.Equal(t, []string{"IMAGE", "TEXT"}, call.cfg.ResponseModalities)
		assert.Contains(t, contentText(call.contents[0]), "16:9")
	})
}

func TestInvoke_VideoReturnsOperation(t *testing.T) {
	var gotCfg *genai.GenerateVideosConfig
	client := &fakeClient{
		submit: func(prompt string, cfg *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
			gotCfg = cfg
			return &genai.GenerateVideosOperation{Name: "operations/abc"}, nil
		},
	}
	svc := newTestService(t, testConfig(t), client)

	raw, err := svc.Gateway().Invoke(context.Background(), svc.Prompts().JobVideo("Designer", types.English))
	require.NoError(t, err)
	require.NotNil(t, raw.Operation)
	assert.Equal(t, "operations/abc", raw.Operation.Name)
	require.NotNil(t, gotCfg)
	assert.Equal(t, int32(1), gotCfg.NumberOfVideos)
	assert.Equal(t, "720p", gotCfg.Resolution)
	assert.Equal(t, "16:9", gotCfg.AspectRatio)
	assert.Empty(t, client.calls(), "video jobs must not call GenerateContent")
}

func TestInvoke_NeverRetries(t *testing.T) {
	client := &fakeClient{content: failWith(&googleapi.Error{Code: 503, Message: "overloaded"})}
	svc := newTestService(t, testConfig(t), client)

	_, err := svc.Gateway().Invoke(context.Background(), svc.Prompts().Sentiment("ok", types.English))
	require.Error(t, err)
	assert.Len(t, client.calls(), 1)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAIServiceFailed))

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, string(types.ToolSentiment), appErr.Context["tool"])
	assert.Equal(t, "test-model", appErr.Context["model"])
}

func TestInvoke_MissingAPIKey(t *testing.T) {
	svc, err := NewService(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	_, err = svc.Gateway().Invoke(context.Background(), svc.Prompts().WelcomeEmail("Engineer", "An", types.English))
	assert.True(t, errors.IsCode(err, errors.ErrCodeMissingAPIKey), "got %v", err)
}

func TestNewService_RejectsUnknownProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.AI.Image.Provider = "openai"

	_, err := NewService(context.Background(), cfg, WithModelClient(&fakeClient{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image")
}

func TestInvoke_CircuitBreakerOpens(t *testing.T) {
	cfg := testConfig(t)
	cfg.AI.Text.CircuitBreaker = config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		MinRequests:      2,
		FailureThreshold: 0.5,
	}
	client := &fakeClient{content: failWith(fmt.Errorf("boom"))}
	svc := newTestService(t, cfg, client)
	spec := svc.Prompts().AnalyzeJD("jd", types.English)

	for range 2 {
		_, err := svc.Gateway().Invoke(context.Background(), spec)
		require.Error(t, err)
	}
	_, err := svc.Gateway().Invoke(context.Background(), spec)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCircuitOpen), "got %v", err)
	assert.Len(t, client.calls(), 2, "an open breaker must not reach the model")

	stats := svc.CircuitBreakerStats()
	assert.Equal(t, false, stats["overall_healthy"])
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassifyError(t *testing.T) {
	existing := errors.NewAIError(errors.ErrCodeEmptyResponse, "empty", nil)

	tests := []struct {
		name string
		err  error
		code string
	}{
		{"app error kept", existing, errors.ErrCodeEmptyResponse},
		{"breaker open", gobreaker.ErrOpenState, errors.ErrCodeCircuitOpen},
		{"breaker half-open", gobreaker.ErrTooManyRequests, errors.ErrCodeCircuitOpen},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), errors.ErrCodeAITimeout},
		{"quota", &googleapi.Error{Code: 429}, errors.ErrCodeRateLimited},
		{"gateway timeout", &googleapi.Error{Code: 504}, errors.ErrCodeAITimeout},
		{"server error", &googleapi.Error{Code: 500}, errors.ErrCodeAIServiceFailed},
		{"net timeout", timeoutError{}, errors.ErrCodeNetworkTimeout},
		{"anything else", fmt.Errorf("boom"), errors.ErrCodeAIServiceFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, classifyError(tt.err).Code)
		})
	}

	assert.Same(t, existing, classifyError(existing))
}

func TestExtractOutput(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role: genai.RoleModel,
				Parts: []*genai.Part{
					{Text: "internal reasoning", Thought: true},
					{Text: "Range: 30-45M VND."},
					{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte{1, 2, 3}}},
					{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte{9}}},
				},
			},
			GroundingMetadata: &genai.GroundingMetadata{
				GroundingChunks: []*genai.GroundingChunk{
					{Web: &genai.GroundingChunkWeb{Title: "Survey", URI: "https://example.com/s"}},
					{},
				},
			},
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     10,
			CandidatesTokenCount: 5,
			TotalTokenCount:      15,
		},
	}

	out := extractOutput(resp)
	assert.Equal(t, "Range: 30-45M VND.", out.Text)
	require.NotNil(t, out.Media)
	assert.Equal(t, []byte{1, 2, 3}, out.Media.Data)
	assert.Equal(t, []types.Source{{Title: "Survey", URI: "https://example.com/s"}}, out.Sources)
	require.NotNil(t, out.TokenUsage)
	assert.Equal(t, int64(15), out.TokenUsage.TotalTokens)

	empty := extractOutput(nil)
	assert.Empty(t, empty.Text)
	assert.NotNil(t, empty.Sources)
}
