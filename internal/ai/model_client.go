package ai

import (
	"context"
	"net/http"

	"hrpilot/internal/errors"

	"google.golang.org/genai"
)

// ModelClient is the slice of the generative AI API the gateway and the
// video poller depend on.
type ModelClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateVideos(ctx context.Context, model, prompt string, cfg *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error)
	GetVideosOperation(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error)
}

// GeminiClient implements ModelClient on top of the Gemini API.
type GeminiClient struct {
	client *genai.Client
}

var _ ModelClient = (*GeminiClient)(nil)

// NewGeminiClient creates a client bound to one API key. httpClient may be
// nil.
func NewGeminiClient(ctx context.Context, apiKey string, httpClient *http.Client) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}
	return &GeminiClient{client: client}, nil
}

func (g *GeminiClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return g.client.Models.GenerateContent(ctx, model, contents, cfg)
}

func (g *GeminiClient) GenerateVideos(ctx context.Context, model, prompt string, cfg *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
	return g.client.Models.GenerateVideos(ctx, model, prompt, nil, cfg)
}

func (g *GeminiClient) GetVideosOperation(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	return g.client.Operations.GetVideosOperation(ctx, op, nil)
}

// unavailableClient fails every call. It stands in for the real client when
// no API key is configured so the shell still starts and tools fall back.
type unavailableClient struct{}

func (unavailableClient) err() error {
	return errors.NewAIError(errors.ErrCodeMissingAPIKey,
		"no API key configured (set HRPILOT_AI_APIKEY, GEMINI_API_KEY or vault.secrets.geminiKey)", nil)
}

func (u unavailableClient) GenerateContent(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return nil, u.err()
}

func (u unavailableClient) GenerateVideos(context.Context, string, string, *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
	return nil, u.err()
}

func (u unavailableClient) GetVideosOperation(context.Context, *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	return nil, u.err()
}
