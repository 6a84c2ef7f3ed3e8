package ai

import (
	"context"
	"fmt"
	"strings"

	"hrpilot/internal/errors"
	"hrpilot/internal/observability"
	"hrpilot/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Phase is a step of one tool invocation:
// Idle -> Sending -> Decoding|Failed -> Settled.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseSending  Phase = "sending"
	PhaseDecoding Phase = "decoding"
	PhaseFailed   Phase = "failed"
	PhaseSettled  Phase = "settled"
)

// Observer is told about every phase change of every invocation.
type Observer func(tool types.ToolKind, phase Phase)

// invocation tracks the phase of one tool call.
type invocation struct {
	s     *Service
	tool  types.ToolKind
	span  trace.Span
	phase Phase
}

func (s *Service) begin(ctx context.Context, tool types.ToolKind) (context.Context, *invocation) {
	ctx, span := s.om.Tracer("hrpilot.tools").Start(ctx, "tool."+string(tool))
	inv := &invocation{s: s, tool: tool, span: span, phase: PhaseIdle}
	inv.to(PhaseSending)
	return ctx, inv
}

func (inv *invocation) to(phase Phase) {
	inv.phase = phase
	inv.span.AddEvent("phase", trace.WithAttributes(attribute.String("phase", string(phase))))
	if inv.s.observer != nil {
		inv.s.observer(inv.tool, phase)
	}
}

// settle ends the invocation. A non-nil err means the fallback was used.
func (inv *invocation) settle(ctx context.Context, err error) {
	s := inv.s
	metrics := s.om.GetMetrics()
	tool := attribute.String("tool", string(inv.tool))

	if err != nil {
		if inv.phase == PhaseSending {
			inv.to(PhaseFailed)
		}
		s.logger.LogError(err, "AI tool failed, returning fallback",
			"tool", inv.tool,
			"phase", inv.phase)
		metrics.RecordBusinessMetric(ctx, observability.MetricFallbackSubstituted, true, s.om, tool,
			attribute.String("code", errors.CodeOf(err)))
		inv.span.RecordError(err)
	}
	metrics.RecordBusinessMetric(ctx, observability.MetricToolInvoked, err == nil, s.om, tool)

	inv.to(PhaseSettled)
	inv.span.End()
}

// call runs spec through the gateway and decodes the output. On any failure
// it returns fallback.
func call[T any](ctx context.Context, s *Service, spec PromptSpec, fallback T, decode func(*RawOutput) (T, error)) T {
	ctx, inv := s.begin(ctx, spec.Tool)

	raw, err := s.gateway.Invoke(ctx, spec)
	if err != nil {
		inv.settle(ctx, err)
		return fallback
	}

	inv.to(PhaseDecoding)
	out, err := decode(raw)
	if err != nil {
		inv.settle(ctx, err)
		return fallback
	}
	inv.settle(ctx, nil)
	return out
}

// structured decodes raw text against the spec's schema.
func structured[T any](spec PromptSpec) func(*RawOutput) (T, error) {
	return func(raw *RawOutput) (T, error) {
		var out T
		err := decodeStructured(raw.Text, spec.Schema, &out)
		return out, err
	}
}

// nonEmptyText requires a non-blank text reply.
func nonEmptyText(raw *RawOutput) (string, error) {
	if strings.TrimSpace(raw.Text) == "" {
		return "", errors.NewAIError(errors.ErrCodeEmptyResponse, "model returned no text", nil)
	}
	return raw.Text, nil
}

func (s *Service) AnalyzeJD(ctx context.Context, jd string, lang types.Language) types.JDAnalysis {
	spec := s.prompts.AnalyzeJD(jd, lang)
	return call(ctx, s, spec, types.FallbackJDAnalysis(lang), structured[types.JDAnalysis](spec))
}

func (s *Service) GenerateJobPost(ctx context.Context, jd, platform, tone string, lang types.Language) string {
	spec := s.prompts.JobPost(jd, platform, tone, lang)
	return call(ctx, s, spec, types.FallbackJobPost(lang), nonEmptyText)
}

// GenerateJobImage returns the image as a data URI, or "" when none was
// produced.
func (s *Service) GenerateJobImage(ctx context.Context, title string) string {
	spec := s.prompts.JobImage(title)
	return call(ctx, s, spec, "", func(raw *RawOutput) (string, error) {
		if raw.Media.Empty() {
			return "", errors.NewAIError(errors.ErrCodeEmptyResponse, "model returned no image", nil)
		}
		return raw.Media.DataURI(), nil
	})
}

func (s *Service) ScoreCV(ctx context.Context, jd, cv string) types.CVScore {
	spec := s.prompts.ScoreCV(jd, cv)
	return call(ctx, s, spec, types.FallbackCVScore(), structured[types.CVScore](spec))
}

// GenerateOnboardingPlan returns the checklist re-IDed by position with every
// entry pending.
func (s *Service) GenerateOnboardingPlan(ctx context.Context, role, name string, lang types.Language) types.OnboardingPlan {
	spec := s.prompts.OnboardingPlan(role, name, lang)
	decode := structured[types.OnboardingPlan](spec)
	return call(ctx, s, spec, types.FallbackOnboardingPlan(), func(raw *RawOutput) (types.OnboardingPlan, error) {
		plan, err := decode(raw)
		if err != nil {
			return nil, err
		}
		return plan.Normalize(), nil
	})
}

func (s *Service) GenerateWelcomeEmail(ctx context.Context, role, name string, lang types.Language) string {
	spec := s.prompts.WelcomeEmail(role, name, lang)
	return call(ctx, s, spec, types.FallbackWelcomeEmail(), nonEmptyText)
}

// ChatTurn answers message given the prior transcript. A blank reply is
// replaced by EmptyChatReply; a failed call yields the overload message.
func (s *Service) ChatTurn(ctx context.Context, history []types.ChatMessage, message string, lang types.Language, persona types.Persona, thinking bool) string {
	spec := s.prompts.ChatTurn(history, message, lang, persona, thinking)
	return call(ctx, s, spec, types.FallbackChatReply(lang), func(raw *RawOutput) (string, error) {
		if strings.TrimSpace(raw.Text) == "" {
			return types.EmptyChatReply, nil
		}
		return raw.Text, nil
	})
}

// GetSalaryBenchmark answers from web search and lists the cited pages.
func (s *Service) GetSalaryBenchmark(ctx context.Context, role, location string, lang types.Language) types.MarketBenchmark {
	spec := s.prompts.SalaryBenchmark(role, location, lang)
	return call(ctx, s, spec, types.FallbackMarketBenchmark(lang), func(raw *RawOutput) (types.MarketBenchmark, error) {
		text, err := nonEmptyText(raw)
		if err != nil {
			return types.MarketBenchmark{}, err
		}
		sources := raw.Sources
		if sources == nil {
			sources = []types.Source{}
		}
		return types.MarketBenchmark{Text: text, Sources: sources}, nil
	})
}

func (s *Service) AnalyzeSentiment(ctx context.Context, text string, lang types.Language) types.SentimentResult {
	spec := s.prompts.Sentiment(text, lang)
	return call(ctx, s, spec, types.FallbackSentiment(lang), structured[types.SentimentResult](spec))
}

// SpeakInterviewQuestion returns spoken audio, or nil when none was produced.
func (s *Service) SpeakInterviewQuestion(ctx context.Context, role string, lang types.Language) *types.MediaAsset {
	spec := s.prompts.InterviewQuestion(role, lang)
	return call(ctx, s, spec, nil, func(raw *RawOutput) (*types.MediaAsset, error) {
		if raw.Media.Empty() {
			return nil, errors.NewAIError(errors.ErrCodeEmptyResponse, "model returned no audio", nil)
		}
		return raw.Media, nil
	})
}

// GenerateRecruitmentVideo submits a video job and polls it to the end. The
// result is never an error; a missing video is reported in the outcome.
func (s *Service) GenerateRecruitmentVideo(ctx context.Context, title string, lang types.Language) types.VideoResult {
	spec := s.prompts.JobVideo(title, lang)
	ctx, inv := s.begin(ctx, spec.Tool)

	raw, err := s.gateway.Invoke(ctx, spec)
	if err != nil {
		inv.settle(ctx, err)
		return types.VideoResult{Outcome: types.VideoFailed, Reason: err.Error()}
	}

	inv.to(PhaseDecoding)
	handle := s.poller.Submit(raw.Operation)
	result := s.poller.Await(ctx, handle, raw.Operation)
	if !result.OK() {
		inv.settle(ctx, errors.NewAIError(videoErrorCode(result.Outcome), result.Reason, nil).
			WithContext("job_id", handle.ID))
		return result
	}
	inv.settle(ctx, nil)
	return result
}

func videoErrorCode(outcome types.VideoOutcome) string {
	if outcome == types.VideoTimedOut {
		return errors.ErrCodeJobTimeout
	}
	return errors.ErrCodeJobFailed
}

// Run executes a request against its typed tool. The error reports only
// malformed requests; model failures come back as fallback values.
func (s *Service) Run(ctx context.Context, req types.Request) (any, error) {
	if _, err := s.prompts.Build(req); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, err.Error(), err)
	}

	lang := req.Language()
	input := func(key string) string {
		v, _ := req.Input(key)
		return v
	}

	switch req.Operation() {
	case types.ToolAnalyzeJD:
		return s.AnalyzeJD(ctx, input(types.InputJD), lang), nil
	case types.ToolJobPost:
		return s.GenerateJobPost(ctx, input(types.InputJD),
			req.Option(types.OptionPlatform, DefaultPlatform), req.Option(types.OptionTone, DefaultTone), lang), nil
	case types.ToolJobImage:
		return s.GenerateJobImage(ctx, input(types.InputTitle)), nil
	case types.ToolJobVideo:
		return s.GenerateRecruitmentVideo(ctx, input(types.InputTitle), lang), nil
	case types.ToolScoreCV:
		return s.ScoreCV(ctx, input(types.InputJD), input(types.InputCV)), nil
	case types.ToolOnboardingPlan:
		return s.GenerateOnboardingPlan(ctx, input(types.InputRole), input(types.InputName), lang), nil
	case types.ToolWelcomeEmail:
		return s.GenerateWelcomeEmail(ctx, input(types.InputRole), input(types.InputName), lang), nil
	case types.ToolChatTurn:
		persona, err := types.ParsePersona(req.Option(types.OptionPersona, string(types.DefaultPersona)))
		if err != nil {
			persona = types.DefaultPersona
		}
		return s.ChatTurn(ctx, nil, input(types.InputMessage), lang, persona,
			req.Option(types.OptionThinking, "false") == "true"), nil
	case types.ToolSalaryBenchmark:
		location := input(types.InputLocation)
		if strings.TrimSpace(location) == "" {
			location = DefaultLocation
		}
		return s.GetSalaryBenchmark(ctx, input(types.InputRole), location, lang), nil
	case types.ToolSentiment:
		return s.AnalyzeSentiment(ctx, input(types.InputText), lang), nil
	case types.ToolInterviewQuestion:
		return s.SpeakInterviewQuestion(ctx, input(types.InputRole), lang), nil
	}
	return nil, fmt.Errorf("unknown tool %q", req.Operation())
}
