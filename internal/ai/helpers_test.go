package ai

import (
	"context"
	"sync"
	"testing"
	"time"

	"hrpilot/internal/config"
	"hrpilot/internal/types"

	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// contentCall records one GenerateContent request.
type contentCall struct {
	model    string
	contents []*genai.Content
	cfg      *genai.GenerateContentConfig
}

// fakeClient is a scriptable ModelClient.
type fakeClient struct {
	mu sync.Mutex

	content      func(call contentCall) (*genai.GenerateContentResponse, error)
	contentCalls []contentCall

	submit     func(prompt string, cfg *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error)
	videoCalls int
	poll       func(attempt int, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error)
	pollCalls  int
}

func (f *fakeClient) GenerateContent(_ context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	call := contentCall{model: model, contents: contents, cfg: cfg}
	f.contentCalls = append(f.contentCalls, call)
	fn := f.content
	f.mu.Unlock()

	if fn == nil {
		return textResponse("ok"), nil
	}
	return fn(call)
}

func (f *fakeClient) GenerateVideos(_ context.Context, _ string, prompt string, cfg *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
	f.mu.Lock()
	f.videoCalls++
	fn := f.submit
	f.mu.Unlock()

	if fn == nil {
		return &genai.GenerateVideosOperation{Name: "operations/test"}, nil
	}
	return fn(prompt, cfg)
}

func (f *fakeClient) GetVideosOperation(_ context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	f.mu.Lock()
	f.pollCalls++
	attempt := f.pollCalls
	fn := f.poll
	f.mu.Unlock()

	if fn == nil {
		return op, nil
	}
	return fn(attempt, op)
}

func (f *fakeClient) calls() []contentCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]contentCall(nil), f.contentCalls...)
}

func (f *fakeClient) lastCall(t *testing.T) contentCall {
	t.Helper()
	calls := f.calls()
	require.NotEmpty(t, calls, "no model call was made")
	return calls[len(calls)-1]
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(text, genai.RoleModel),
		}},
	}
}

func replyWith(text string) func(contentCall) (*genai.GenerateContentResponse, error) {
	return func(contentCall) (*genai.GenerateContentResponse, error) {
		return textResponse(text), nil
	}
}

func failWith(err error) func(contentCall) (*genai.GenerateContentResponse, error) {
	return func(contentCall) (*genai.GenerateContentResponse, error) {
		return nil, err
	}
}

// testConfig returns a config with fast polling, no rate limit and breakers
// off.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.AI.Provider = "gemini"
	cfg.AI.Model = "test-model"
	cfg.AI.Timeout = 5 * time.Second
	cfg.AI.Temperature = 0.7
	cfg.AI.UseSystemPrompts = true
	cfg.AI.Video.Model = "test-video-model"
	cfg.AI.Polling = config.PollingConfig{
		Interval:        time.Millisecond,
		MaxAttempts:     5,
		DownloadTimeout: 5 * time.Second,
	}
	cfg.App.MediaDir = t.TempDir()
	return cfg
}

// phaseLog collects observer callbacks.
type phaseLog struct {
	mu     sync.Mutex
	phases map[types.ToolKind][]Phase
}

func newPhaseLog() *phaseLog {
	return &phaseLog{phases: make(map[types.ToolKind][]Phase)}
}

func (l *phaseLog) observe(tool types.ToolKind, phase Phase) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.phases[tool] = append(l.phases[tool], phase)
}

func (l *phaseLog) of(tool types.ToolKind) []Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Phase(nil), l.phases[tool]...)
}

func newTestService(t *testing.T, cfg *config.Config, client ModelClient, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{WithModelClient(client)}, opts...)
	svc, err := NewService(context.Background(), cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func contentText(c *genai.Content) string {
	if c == nil {
		return ""
	}
	var out string
	for _, p := range c.Parts {
		out += p.Text
	}
	return out
}
