package ai

import (
	"fmt"
	"strings"

	"hrpilot/internal/config"
	"hrpilot/internal/types"

	"google.golang.org/genai"
)

// PromptSpec is everything the gateway needs to issue one model call.
type PromptSpec struct {
	Tool        types.ToolKind
	Instruction string
	// System is sent as the system instruction when the role allows it and
	// is prepended to the instruction otherwise.
	System     string
	History    []types.ChatMessage
	Schema     *genai.Schema
	Tools      []*genai.Tool
	Modalities []string
	Speech     *genai.SpeechConfig
	// ThinkingBudget is nil when thinking is off.
	ThinkingBudget *int32
	AspectRatio    string
	Video          *VideoOptions
}

// VideoOptions turns a spec into a long-running video job.
type VideoOptions struct {
	Count       int32
	Resolution  string
	AspectRatio string
}

const (
	thinkingBudget   = 1024
	interviewVoice   = "Fenrir"
	mediaAspectRatio = "16:9"
	videoResolution  = "720p"
)

// Default user prompt templates. Arguments are positional and documented per
// tool; templates loaded from configuration receive the same arguments.
var DefaultUserPrompts = map[types.ToolKind]string{
	// 1 language, 2 job description
	types.ToolAnalyzeJD: `You are an expert HR Specialist. Analyze the following Job Description (JD).
Output language: %[1]s.

JD Content:
%[2]s

Task: Extract the Top 5 most critical technical skills, a brief 1-sentence summary, the required experience level, and suggest a salary range if not mentioned.
Return a JSON object with the fields "summary" (string), "skills" (array of strings), "experience" (string) and "salary" (string).`,

	// 1 platform, 2 tone, 3 language, 4 job description
	types.ToolJobPost: `Role: Professional Copywriter for HR.
Task: Write a job post for %[1]s.
Tone: %[2]s.
Language: %[3]s.

Job Description:
%[4]s

Requirements:
- Catchy headline (emoji allowed).
- Clear Call to Action (CTA).
- Format properly for %[1]s (use relevant hashtags).`,

	// 1 job title, 2 aspect ratio
	types.ToolJobImage: `Generate a modern, professional, minimal, high-quality photograph suitable for a job posting background for the role of: %[1]s. Office environment, bright, tech-savvy, no text overlays. Aspect ratio %[2]s.`,

	// 1 job title
	types.ToolJobVideo: `Cinematic, high-quality video for a recruitment ad. A modern, bright office environment. Professionals collaborating on a project related to %[1]s. Professional lighting, 4k, smooth motion. No text.`,

	// 1 job description, 2 CV
	types.ToolScoreCV: `Role: AI Recruitment Officer.
Task: Compare the Candidate CV against the Job Description.

Job Description:
%[1]s

Candidate CV:
%[2]s

Output JSON format only:
{
  "score": integer (0-100),
  "analysis": "Short summary of strengths and weaknesses (max 50 words)",
  "status": "pass" | "fail" | "review" (pass if score > 75, fail if < 50),
  "skillsMatch": ["skill 1", "skill 2"] (List of matched skills found in both)
}`,

	// 1 name, 2 role, 3 language
	types.ToolOnboardingPlan: `Create a personalized 1-week onboarding checklist for a new employee.
Name: %[1]s
Role: %[2]s
Language: %[3]s

Return ONLY a JSON array of objects with the fields "id", "task", "dueDate", "status" and "assignee".
"task" and "assignee" must not be empty and "status" must be "pending".`,

	// 1 name, 2 role, 3 language
	types.ToolWelcomeEmail: `Write a warm, professional welcome email for a new employee.
Name: %[1]s
Role: %[2]s
Language: %[3]s
Context: It is their first day. Include instructions to check their onboarding dashboard.`,

	// 1 persona framing, 2 language code
	types.ToolChatTurn: `%[1]s Language: %[2]s.`,

	// 1 role, 2 location, 3 language
	types.ToolSalaryBenchmark: `Find current salary ranges for a "%[1]s" in "%[2]s" for 2024/2025.
Summarize the salary range and the general market trend (rising/stable/falling).
Language: %[3]s.`,

	// 1 feedback text, 2 language
	types.ToolSentiment: `Analyze this employee feedback/email for sentiment and retention risk.
Text: "%[1]s"
Language: %[2]s

Determine:
1. Risk Level (exactly one of Low, Medium, High, Critical)
2. Retention Score (integer 0-100, where 100 is high retention/happy, 0 is leaving)
3. Summary of issues
4. Actionable items for HR
Return a JSON object with the fields "riskLevel", "score", "summary" and "actionItems".`,

	// 1 role, 2 language
	types.ToolInterviewQuestion: `Act as a stern but professional hiring manager.
Ask ONE challenging behavioral interview question for a %[1]s.
Language: %[2]s.
Keep it under 30 words.`,
}

// personaFraming is the system framing per chat persona.
var personaFraming = map[types.Persona]string{
	types.PersonaAssistant: "You are a helpful HR Assistant.",
	types.PersonaRecruiter: "You are a Senior Recruiter. Expert in sourcing, interviewing, and negotiation.",
	types.PersonaPolicy:    "You are an HR Policy Expert. Strict, compliant, and knowledgeable about labor laws and company handbook.",
	types.PersonaCulture:   "You are a Culture & Engagement Specialist. Cheerful, focus on employee well-being and events.",
}

// PromptBuilder renders prompt specs. It reads overrides from a prompt store
// and is otherwise pure: the same inputs and templates give the same spec.
type PromptBuilder struct {
	store *config.PromptStore
}

// NewPromptBuilder creates a builder. A nil store means built-in templates only.
func NewPromptBuilder(store *config.PromptStore) *PromptBuilder {
	return &PromptBuilder{store: store}
}

// render formats the effective template for tool. An override that does not
// accept the tool's arguments falls back to the built-in template.
func (b *PromptBuilder) render(tool types.ToolKind, args ...any) string {
	tmpl := DefaultUserPrompts[tool]
	if b != nil {
		if override, _ := b.store.Lookup(string(tool)); override != "" && templateFits(override, len(args)) {
			tmpl = override
		}
	}
	return fmt.Sprintf(tmpl, args...)
}

// templateFits reports whether tmpl formats n string arguments without a
// verb error. It renders placeholders, so user text never affects the result.
func templateFits(tmpl string, n int) bool {
	placeholders := make([]any, n)
	for i := range placeholders {
		placeholders[i] = ""
	}
	return !strings.Contains(fmt.Sprintf(tmpl, placeholders...), "%!")
}

func (b *PromptBuilder) AnalyzeJD(jd string, lang types.Language) PromptSpec {
	return PromptSpec{
		Tool:        types.ToolAnalyzeJD,
		Instruction: b.render(types.ToolAnalyzeJD, lang.DisplayName(), jd),
		Schema:      jdAnalysisSchema(),
	}
}

func (b *PromptBuilder) JobPost(jd, platform, tone string, lang types.Language) PromptSpec {
	language := lang.Pick("Vietnamese (Natural, engaging, professional)", "English")
	return PromptSpec{
		Tool:        types.ToolJobPost,
		Instruction: b.render(types.ToolJobPost, platform, tone, language, jd),
	}
}

// JobImage asks the image model for a background photo. The aspect ratio is
// carried in the prompt text.
func (b *PromptBuilder) JobImage(title string) PromptSpec {
	return PromptSpec{
		Tool:        types.ToolJobImage,
		Instruction: b.render(types.ToolJobImage, title, mediaAspectRatio),
		Modalities:  []string{"IMAGE", "TEXT"},
		AspectRatio: mediaAspectRatio,
	}
}

// JobVideo builds a video job spec. The video prompt is language neutral.
func (b *PromptBuilder) JobVideo(title string, _ types.Language) PromptSpec {
	return PromptSpec{
		Tool:        types.ToolJobVideo,
		Instruction: b.render(types.ToolJobVideo, title),
		Video: &VideoOptions{
			Count:       1,
			Resolution:  videoResolution,
			AspectRatio: mediaAspectRatio,
		},
	}
}

func (b *PromptBuilder) ScoreCV(jd, cv string) PromptSpec {
	return PromptSpec{
		Tool:        types.ToolScoreCV,
		Instruction: b.render(types.ToolScoreCV, jd, cv),
		Schema:      cvScoreSchema(),
	}
}

func (b *PromptBuilder) OnboardingPlan(role, name string, lang types.Language) PromptSpec {
	return PromptSpec{
		Tool:        types.ToolOnboardingPlan,
		Instruction: b.render(types.ToolOnboardingPlan, name, role, lang.DisplayName()),
		Schema:      onboardingPlanSchema(),
	}
}

func (b *PromptBuilder) WelcomeEmail(role, name string, lang types.Language) PromptSpec {
	return PromptSpec{
		Tool:        types.ToolWelcomeEmail,
		Instruction: b.render(types.ToolWelcomeEmail, name, role, lang.DisplayName()),
	}
}

// ChatTurn sends message after history under the persona's system framing.
// The history slice is copied.
func (b *PromptBuilder) ChatTurn(history []types.ChatMessage, message string, lang types.Language, persona types.Persona, thinking bool) PromptSpec {
	framing, ok := personaFraming[persona]
	if !ok {
		framing = personaFraming[types.PersonaAssistant]
	}
	spec := PromptSpec{
		Tool:        types.ToolChatTurn,
		Instruction: message,
		System:      b.render(types.ToolChatTurn, framing, string(lang)),
		History:     append([]types.ChatMessage(nil), history...),
	}
	if thinking {
		budget := int32(thinkingBudget)
		spec.ThinkingBudget = &budget
	}
	return spec
}

// SalaryBenchmark enables web search grounding.
func (b *PromptBuilder) SalaryBenchmark(role, location string, lang types.Language) PromptSpec {
	return PromptSpec{
		Tool:        types.ToolSalaryBenchmark,
		Instruction: b.render(types.ToolSalaryBenchmark, role, location, lang.DisplayName()),
		Tools:       []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
}

func (b *PromptBuilder) Sentiment(text string, lang types.Language) PromptSpec {
	return PromptSpec{
		Tool:        types.ToolSentiment,
		Instruction: b.render(types.ToolSentiment, text, lang.DisplayName()),
		Schema:      sentimentSchema(),
	}
}

// InterviewQuestion asks for spoken audio in a fixed prebuilt voice.
func (b *PromptBuilder) InterviewQuestion(role string, lang types.Language) PromptSpec {
	return PromptSpec{
		Tool:        types.ToolInterviewQuestion,
		Instruction: b.render(types.ToolInterviewQuestion, role, lang.DisplayName()),
		Modalities:  []string{"AUDIO"},
		Speech: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: interviewVoice},
			},
		},
	}
}

// Build dispatches a request to its builder. Missing inputs and unknown tools
// are programming errors and are never sent to the model.
func (b *PromptBuilder) Build(req types.Request) (PromptSpec, error) {
	lang := req.Language()
	in := func(keys ...string) ([]string, error) {
		out := make([]string, len(keys))
		for i, key := range keys {
			v, ok := req.Input(key)
			if !ok || strings.TrimSpace(v) == "" {
				return nil, fmt.Errorf("%s: missing input %q", req.Operation(), key)
			}
			out[i] = v
		}
		return out, nil
	}

	switch req.Operation() {
	case types.ToolAnalyzeJD:
		v, err := in(types.InputJD)
		if err != nil {
			return PromptSpec{}, err
		}
		return b.AnalyzeJD(v[0], lang), nil
	case types.ToolJobPost:
		v, err := in(types.InputJD)
		if err != nil {
			return PromptSpec{}, err
		}
		return b.JobPost(v[0], req.Option(types.OptionPlatform, DefaultPlatform), req.Option(types.OptionTone, DefaultTone), lang), nil
	case types.ToolJobImage:
		v, err := in(types.InputTitle)
		if err != nil {
			return PromptSpec{}, err
		}
		return b.JobImage(v[0]), nil
	case types.ToolJobVideo:
		v, err := in(types.InputTitle)
		if err != nil {
			return PromptSpec{}, err
		}
		return b.JobVideo(v[0], lang), nil
	case types.ToolScoreCV:
		v, err := in(types.InputJD, types.InputCV)
		if err != nil {
			return PromptSpec{}, err
		}
		return b.ScoreCV(v[0], v[1]), nil
	case types.ToolOnboardingPlan, types.ToolWelcomeEmail:
		v, err := in(types.InputRole, types.InputName)
		if err != nil {
			return PromptSpec{}, err
		}
		if req.Operation() == types.ToolWelcomeEmail {
			return b.WelcomeEmail(v[0], v[1], lang), nil
		}
		return b.OnboardingPlan(v[0], v[1], lang), nil
	case types.ToolChatTurn:
		v, err := in(types.InputMessage)
		if err != nil {
			return PromptSpec{}, err
		}
		persona, err := types.ParsePersona(req.Option(types.OptionPersona, string(types.DefaultPersona)))
		if err != nil {
			return PromptSpec{}, err
		}
		return b.ChatTurn(nil, v[0], lang, persona, req.Option(types.OptionThinking, "false") == "true"), nil
	case types.ToolSalaryBenchmark:
		v, err := in(types.InputRole)
		if err != nil {
			return PromptSpec{}, err
		}
		location, _ := req.Input(types.InputLocation)
		if strings.TrimSpace(location) == "" {
			location = DefaultLocation
		}
		return b.SalaryBenchmark(v[0], location, lang), nil
	case types.ToolSentiment:
		v, err := in(types.InputText)
		if err != nil {
			return PromptSpec{}, err
		}
		return b.Sentiment(v[0], lang), nil
	case types.ToolInterviewQuestion:
		v, err := in(types.InputRole)
		if err != nil {
			return PromptSpec{}, err
		}
		return b.InterviewQuestion(v[0], lang), nil
	}
	return PromptSpec{}, fmt.Errorf("unknown tool %q", req.Operation())
}

// Defaults shared by the builders and the panels.
const (
	DefaultPlatform = "LinkedIn"
	DefaultTone     = "Professional"
	DefaultLocation = "Vietnam"
)
