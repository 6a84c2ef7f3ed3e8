package ai

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"strings"

	"hrpilot/internal/config"
	"hrpilot/internal/errors"
	"hrpilot/internal/observability"
	"hrpilot/internal/types"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// RoleFor maps a tool to the model role that serves it.
func RoleFor(tool types.ToolKind) config.ModelRole {
	switch tool {
	case types.ToolChatTurn:
		return config.RoleReasoning
	case types.ToolJobImage:
		return config.RoleImage
	case types.ToolInterviewQuestion:
		return config.RoleSpeech
	case types.ToolJobVideo:
		return config.RoleVideo
	default:
		return config.RoleText
	}
}

// RawOutput is an undecoded model response.
type RawOutput struct {
	Text    string
	Media   *types.MediaAsset
	Sources []types.Source
	// Operation is set for video jobs instead of content.
	Operation  *genai.GenerateVideosOperation
	TokenUsage *observability.TokenUsage
}

// Gateway is the single path from the application to the model. It applies
// the per-tool rate limit, the per-role breaker and timeout, and records
// telemetry. It never retries.
type Gateway struct {
	clients      map[config.ModelRole]ModelClient
	roles        map[config.ModelRole]config.OperationAIConfig
	breakers     map[config.ModelRole]*AICircuitBreaker
	videoBreaker *VideoCircuitBreaker
	limiter      *LimiterManager
	om           *observability.ObservabilityManager
	logger       *errors.Logger
}

// Invoke sends one prompt and returns the raw output. Errors are AppErrors
// classified by cause.
func (g *Gateway) Invoke(ctx context.Context, spec PromptSpec) (*RawOutput, error) {
	role := RoleFor(spec.Tool)
	rc := g.roles[role]
	client := g.clients[role]
	metrics := g.om.GetMetrics()

	waited, err := g.limiter.Wait(ctx, string(spec.Tool))
	if waited {
		metrics.RecordBusinessMetric(ctx, observability.MetricRateLimitWait, err == nil, g.om,
			attribute.String("tool", string(spec.Tool)))
	}
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeRateLimited, "gave up waiting for rate limiter", err).
			WithContext("tool", string(spec.Tool))
	}

	var raw *RawOutput
	err = metrics.TrackAIOperationWithTokens(ctx, string(spec.Tool), func(ctx context.Context) *observability.AIOperationResult {
		if span := trace.SpanFromContext(ctx); span.IsRecording() {
			span.SetAttributes(
				attribute.String("ai.provider", rc.Provider),
				attribute.String("ai.model", rc.Model),
				attribute.String("ai.role", string(role)),
				attribute.Int("input.instruction_length", len(spec.Instruction)),
			)
		}

		callCtx := ctx
		if rc.Timeout != nil && *rc.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, *rc.Timeout)
			defer cancel()
		}

		if spec.Video != nil {
			op, err := g.videoBreaker.Execute(func() (*genai.GenerateVideosOperation, error) {
				return client.GenerateVideos(callCtx, rc.Model, spec.Instruction, videoConfig(spec.Video))
			})
			if err != nil {
				return &observability.AIOperationResult{Error: classifyError(err)}
			}
			if op == nil {
				return &observability.AIOperationResult{Error: errors.NewAIError(errors.ErrCodeEmptyResponse, "video submission returned no operation", nil)}
			}
			raw = &RawOutput{Operation: op}
			return &observability.AIOperationResult{}
		}

		useSystem := rc.UseSystemPrompts != nil && *rc.UseSystemPrompts
		resp, err := g.breakers[role].Execute(func() (*genai.GenerateContentResponse, error) {
			return client.GenerateContent(callCtx, rc.Model, buildContents(spec, !useSystem), g.contentConfig(spec, rc))
		})
		if err != nil {
			return &observability.AIOperationResult{Error: classifyError(err)}
		}
		raw = extractOutput(resp)
		return &observability.AIOperationResult{TokenUsage: raw.TokenUsage}
	}, g.om)
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			appErr.WithContext("tool", string(spec.Tool)).WithContext("model", rc.Model)
		}
		return nil, err
	}
	g.logger.Debug("Model call completed",
		"tool", spec.Tool,
		"model", rc.Model,
		"text_length", len(raw.Text),
		"has_media", raw.Media != nil,
		"video_job", raw.Operation != nil)
	return raw, nil
}

func (g *Gateway) contentConfig(spec PromptSpec, rc config.OperationAIConfig) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}

	if rc.Temperature != nil && *rc.Temperature > 0 && spec.Speech == nil {
		cfg.Temperature = rc.Temperature
	}
	if spec.System != "" && rc.UseSystemPrompts != nil && *rc.UseSystemPrompts {
		cfg.SystemInstruction = genai.NewContentFromText(spec.System, genai.RoleUser)
	}
	if spec.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = spec.Schema
	}
	if len(spec.Tools) > 0 {
		cfg.Tools = spec.Tools
	}
	if len(spec.Modalities) > 0 {
		cfg.ResponseModalities = spec.Modalities
	}
	if spec.Speech != nil {
		cfg.SpeechConfig = spec.Speech
	}
	if spec.ThinkingBudget != nil {
		cfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: spec.ThinkingBudget}
	}
	return cfg
}

// buildContents turns chat history plus the instruction into request
// contents. With inlineSystem the system framing leads the instruction.
func buildContents(spec PromptSpec, inlineSystem bool) []*genai.Content {
	contents := make([]*genai.Content, 0, len(spec.History)+1)
	for _, msg := range spec.History {
		role := genai.Role(genai.RoleUser)
		if msg.Role == types.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Text, role))
	}
	instruction := spec.Instruction
	if inlineSystem && spec.System != "" {
		instruction = spec.System + "\n\n" + instruction
	}
	return append(contents, genai.NewContentFromText(instruction, genai.RoleUser))
}

func videoConfig(opts *VideoOptions) *genai.GenerateVideosConfig {
	return &genai.GenerateVideosConfig{
		NumberOfVideos: opts.Count,
		Resolution:     opts.Resolution,
		AspectRatio:    opts.AspectRatio,
	}
}

// extractOutput collects text, the first inline media part and web citations
// from the first candidate.
func extractOutput(resp *genai.GenerateContentResponse) *RawOutput {
	out := &RawOutput{Sources: []types.Source{}}
	if resp == nil {
		return out
	}
	out.TokenUsage = extractTokenUsage(resp)
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return out
	}

	cand := resp.Candidates[0]
	if cand.Content != nil {
		var text strings.Builder
		for _, part := range cand.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			if part.InlineData != nil && out.Media == nil && len(part.InlineData.Data) > 0 {
				out.Media = &types.MediaAsset{
					MIMEType: part.InlineData.MIMEType,
					Data:     part.InlineData.Data,
				}
			}
			text.WriteString(part.Text)
		}
		out.Text = text.String()
	}

	if gm := cand.GroundingMetadata; gm != nil {
		for _, chunk := range gm.GroundingChunks {
			if chunk == nil || chunk.Web == nil {
				continue
			}
			out.Sources = append(out.Sources, types.Source{Title: chunk.Web.Title, URI: chunk.Web.URI})
		}
	}
	return out
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *observability.TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &observability.TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}

// classifyError maps a call failure onto an AppError code.
func classifyError(err error) *errors.AppError {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.NewAIError(errors.ErrCodeCircuitOpen, "circuit breaker rejected the call", err)
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewAIError(errors.ErrCodeAITimeout, "model call timed out", err)
	}

	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		code := errors.ErrCodeAIServiceFailed
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			code = errors.ErrCodeRateLimited
		case http.StatusGatewayTimeout:
			code = errors.ErrCodeAITimeout
		}
		return errors.NewAIError(code, "model API returned an error", err).
			WithContext("status", apiErr.Code)
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		if netErr.Timeout() {
			return errors.NewNetworkError(errors.ErrCodeNetworkTimeout, "network timeout calling model", err)
		}
		return errors.NewNetworkError(errors.ErrCodeAIServiceFailed, "network error calling model", err)
	}

	return errors.NewAIError(errors.ErrCodeAIServiceFailed, "model call failed", err)
}
