package types

import (
	"fmt"
	"maps"
	"slices"
)

// ToolKind identifies one AI-backed capability.
type ToolKind string

const (
	ToolAnalyzeJD         ToolKind = "analyze_jd"
	ToolJobPost           ToolKind = "job_post"
	ToolJobImage          ToolKind = "job_image"
	ToolJobVideo          ToolKind = "job_video"
	ToolScoreCV           ToolKind = "score_cv"
	ToolOnboardingPlan    ToolKind = "onboarding_plan"
	ToolWelcomeEmail      ToolKind = "welcome_email"
	ToolChatTurn          ToolKind = "chat_turn"
	ToolSalaryBenchmark   ToolKind = "salary_benchmark"
	ToolSentiment         ToolKind = "sentiment"
	ToolInterviewQuestion ToolKind = "interview_question"
)

// AllTools lists every tool in a stable order.
func AllTools() []ToolKind {
	return []ToolKind{
		ToolAnalyzeJD, ToolJobPost, ToolJobImage, ToolJobVideo, ToolScoreCV,
		ToolOnboardingPlan, ToolWelcomeEmail, ToolChatTurn, ToolSalaryBenchmark,
		ToolSentiment, ToolInterviewQuestion,
	}
}

// ParseToolKind validates a tool name.
func ParseToolKind(s string) (ToolKind, error) {
	kind := ToolKind(s)
	if !slices.Contains(AllTools(), kind) {
		return "", fmt.Errorf("unknown tool %q", s)
	}
	return kind, nil
}

// Input and option keys used in requests.
const (
	InputJD       = "jd"
	InputCV       = "cv"
	InputTitle    = "title"
	InputRole     = "role"
	InputName     = "name"
	InputLocation = "location"
	InputText     = "text"
	InputMessage  = "message"

	OptionLanguage = "language"
	OptionPlatform = "platform"
	OptionTone     = "tone"
	OptionPersona  = "persona"
	OptionThinking = "thinking"
)

// Request describes one tool invocation. It is immutable once built.
type Request struct {
	operation ToolKind
	inputs    map[string]string
	options   map[string]string
}

// NewRequest copies inputs and options so later changes by the caller do not
// leak into the request.
func NewRequest(op ToolKind, inputs, options map[string]string) Request {
	return Request{
		operation: op,
		inputs:    maps.Clone(inputs),
		options:   maps.Clone(options),
	}
}

func (r Request) Operation() ToolKind { return r.operation }

// Input returns a named input and whether it was set.
func (r Request) Input(key string) (string, bool) {
	v, ok := r.inputs[key]
	return v, ok
}

// Option returns a named option or def when unset.
func (r Request) Option(key, def string) string {
	if v, ok := r.options[key]; ok {
		return v
	}
	return def
}

// Inputs returns a copy of the request inputs.
func (r Request) Inputs() map[string]string { return maps.Clone(r.inputs) }

// Options returns a copy of the request options.
func (r Request) Options() map[string]string { return maps.Clone(r.options) }

// Language returns the language option, falling back to the default.
func (r Request) Language() Language {
	lang := Language(r.Option(OptionLanguage, string(DefaultLanguage)))
	if !lang.Valid() {
		return DefaultLanguage
	}
	return lang
}
