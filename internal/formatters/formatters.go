package formatters

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"hrpilot/internal/types"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// Data type names used as registry keys.
const (
	typeAny        = "any"
	typeJDAnalysis = "JDAnalysis"
	typeCVResult   = "CVResult"
	typeJobPost    = "JobPostOutput"
	typeOnboarding = "OnboardingOutput"
	typeEmail      = "WelcomeEmail"
	typeMarket     = "MarketBenchmark"
	typeSentiment  = "SentimentResult"
	typeAudio      = "InterviewAudio"
	typeDashboard  = "DashboardSnapshot"
)

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", typeAny, &JSONFormatter{})

	registry.RegisterFormatter("text", typeJDAnalysis, textOf(typeJDAnalysis, jdAnalysisText))
	registry.RegisterFormatter("markdown", typeJDAnalysis, textOf(typeJDAnalysis, jdAnalysisMarkdown))
	registry.RegisterFormatter("text", typeCVResult, textOf(typeCVResult, cvResultText))
	registry.RegisterFormatter("markdown", typeCVResult, textOf(typeCVResult, cvResultMarkdown))
	registry.RegisterFormatter("text", typeJobPost, textOf(typeJobPost, jobPostText))
	registry.RegisterFormatter("markdown", typeJobPost, textOf(typeJobPost, jobPostMarkdown))
	registry.RegisterFormatter("text", typeOnboarding, textOf(typeOnboarding, onboardingText))
	registry.RegisterFormatter("markdown", typeOnboarding, textOf(typeOnboarding, onboardingMarkdown))
	registry.RegisterFormatter("text", typeEmail, textOf(typeEmail, emailText))
	registry.RegisterFormatter("markdown", typeEmail, textOf(typeEmail, emailMarkdown))
	registry.RegisterFormatter("text", typeMarket, textOf(typeMarket, marketText))
	registry.RegisterFormatter("markdown", typeMarket, textOf(typeMarket, marketMarkdown))
	registry.RegisterFormatter("text", typeSentiment, textOf(typeSentiment, sentimentText))
	registry.RegisterFormatter("markdown", typeSentiment, textOf(typeSentiment, sentimentMarkdown))
	registry.RegisterFormatter("text", typeAudio, textOf(typeAudio, audioText))
	registry.RegisterFormatter("markdown", typeAudio, textOf(typeAudio, audioText))
	registry.RegisterFormatter("text", typeDashboard, textOf(typeDashboard, dashboardText))
	registry.RegisterFormatter("markdown", typeDashboard, textOf(typeDashboard, dashboardMarkdown))

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters[typeAny]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.JDAnalysis:
		return typeJDAnalysis
	case types.CVResult:
		return typeCVResult
	case types.JobPostOutput:
		return typeJobPost
	case types.OnboardingOutput:
		return typeOnboarding
	case types.WelcomeEmail:
		return typeEmail
	case types.MarketBenchmark:
		return typeMarket
	case types.SentimentResult:
		return typeSentiment
	case types.InterviewAudio:
		return typeAudio
	case types.DashboardSnapshot:
		return typeDashboard
	default:
		return typeAny
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return typeAny
}

// typedFormatter adapts a render function for one concrete type.
type typedFormatter[T any] struct {
	name   string
	render func(T, *strings.Builder)
}

func textOf[T any](name string, render func(T, *strings.Builder)) *typedFormatter[T] {
	return &typedFormatter[T]{name: name, render: render}
}

func (f *typedFormatter[T]) Format(data any) (string, error) {
	v, ok := data.(T)
	if !ok {
		return "", fmt.Errorf("expected %s, got %T", f.name, data)
	}
	var out strings.Builder
	f.render(v, &out)
	return out.String(), nil
}

func (f *typedFormatter[T]) SupportedType() string {
	return f.name
}

var titleCaser = cases.Title(language.English)

// label title-cases an enum value for display ("pass" -> "Pass").
func label(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}

func bullets(out *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(out, "- %s\n", item)
	}
}

func jdAnalysisText(a types.JDAnalysis, out *strings.Builder) {
	out.WriteString("=== JOB DESCRIPTION ANALYSIS ===\n\n")
	out.WriteString("Summary:\n")
	out.WriteString(a.Summary)
	out.WriteString("\n\n")
	fmt.Fprintf(out, "Experience: %s\n", a.Experience)
	fmt.Fprintf(out, "Salary: %s\n\n", a.Salary)
	if len(a.Skills) > 0 {
		out.WriteString("Skills:\n")
		bullets(out, a.Skills)
	}
}

func jdAnalysisMarkdown(a types.JDAnalysis, out *strings.Builder) {
	out.WriteString("# Job Description Analysis\n\n")
	out.WriteString(a.Summary)
	out.WriteString("\n\n")
	fmt.Fprintf(out, "**Experience:** %s\n\n", a.Experience)
	fmt.Fprintf(out, "**Salary:** %s\n\n", a.Salary)
	if len(a.Skills) > 0 {
		out.WriteString("## Skills\n\n")
		bullets(out, a.Skills)
	}
}

func cvResultText(r types.CVResult, out *strings.Builder) {
	out.WriteString("=== CV SCREENING ===\n\n")
	if r.Name != "" {
		fmt.Fprintf(out, "Candidate: %s\n", r.Name)
	}
	fmt.Fprintf(out, "Score: %d/100\n", r.Score)
	fmt.Fprintf(out, "Status: %s\n\n", label(string(r.Status)))
	out.WriteString("Analysis:\n")
	out.WriteString(r.Analysis)
	out.WriteString("\n")
	if len(r.SkillsMatch) > 0 {
		out.WriteString("\nMatching skills:\n")
		bullets(out, r.SkillsMatch)
	}
}

func cvResultMarkdown(r types.CVResult, out *strings.Builder) {
	out.WriteString("# CV Screening\n\n")
	if r.Name != "" {
		fmt.Fprintf(out, "**Candidate:** %s\n\n", r.Name)
	}
	fmt.Fprintf(out, "**Score:** %d/100\n\n", r.Score)
	fmt.Fprintf(out, "**Status:** %s\n\n", label(string(r.Status)))
	out.WriteString("## Analysis\n\n")
	out.WriteString(r.Analysis)
	out.WriteString("\n")
	if len(r.SkillsMatch) > 0 {
		out.WriteString("\n## Matching Skills\n\n")
		bullets(out, r.SkillsMatch)
	}
}

func videoLine(v *types.VideoResult) string {
	if v.OK() {
		return v.Asset
	}
	if v.Reason != "" {
		return fmt.Sprintf("%s (%s)", label(string(v.Outcome)), v.Reason)
	}
	return label(string(v.Outcome))
}

func jobPostText(p types.JobPostOutput, out *strings.Builder) {
	fmt.Fprintf(out, "=== JOB POST (%s, %s) ===\n\n", p.Platform, p.Tone)
	out.WriteString(p.Content)
	out.WriteString("\n")
	if p.Image != "" {
		fmt.Fprintf(out, "\nImage: %s\n", p.Image)
	}
	if p.Video != nil {
		fmt.Fprintf(out, "\nVideo: %s\n", videoLine(p.Video))
	}
}

func jobPostMarkdown(p types.JobPostOutput, out *strings.Builder) {
	fmt.Fprintf(out, "# Job Post\n\n*%s, %s*\n\n", p.Platform, p.Tone)
	out.WriteString(p.Content)
	out.WriteString("\n")
	if p.Image != "" {
		fmt.Fprintf(out, "\n![Job post image](%s)\n", p.Image)
	}
	if p.Video != nil {
		fmt.Fprintf(out, "\n**Video:** %s\n", videoLine(p.Video))
	}
}

func onboardingText(o types.OnboardingOutput, out *strings.Builder) {
	fmt.Fprintf(out, "=== ONBOARDING: %s (%s) ===\n\n", o.Name, o.Role)
	if len(o.Tasks) == 0 {
		out.WriteString("No tasks generated.\n")
		return
	}
	for i, task := range o.Tasks {
		mark := " "
		if task.Status == types.TaskCompleted {
			mark = "x"
		}
		fmt.Fprintf(out, "%d. [%s] %s\n", i+1, mark, task.Task)
		fmt.Fprintf(out, "   Due: %s  Owner: %s\n", task.DueDate, task.Assignee)
	}
}

func onboardingMarkdown(o types.OnboardingOutput, out *strings.Builder) {
	fmt.Fprintf(out, "# Onboarding: %s\n\n*%s*\n\n", o.Name, o.Role)
	if len(o.Tasks) == 0 {
		out.WriteString("No tasks generated.\n")
		return
	}
	out.WriteString("| Done | Task | Due | Owner |\n|---|---|---|---|\n")
	for _, task := range o.Tasks {
		done := ""
		if task.Status == types.TaskCompleted {
			done = "x"
		}
		fmt.Fprintf(out, "| %s | %s | %s | %s |\n", done, task.Task, task.DueDate, task.Assignee)
	}
}

func emailText(e types.WelcomeEmail, out *strings.Builder) {
	fmt.Fprintf(out, "=== WELCOME EMAIL: %s (%s) ===\n\n", e.Name, e.Role)
	out.WriteString(e.Body)
	out.WriteString("\n")
}

func emailMarkdown(e types.WelcomeEmail, out *strings.Builder) {
	fmt.Fprintf(out, "# Welcome, %s\n\n", e.Name)
	out.WriteString(e.Body)
	out.WriteString("\n")
}

func marketText(m types.MarketBenchmark, out *strings.Builder) {
	out.WriteString("=== SALARY BENCHMARK ===\n\n")
	out.WriteString(m.Text)
	out.WriteString("\n")
	if len(m.Sources) > 0 {
		out.WriteString("\nSources:\n")
		for _, src := range m.Sources {
			fmt.Fprintf(out, "- %s <%s>\n", src.Title, src.URI)
		}
	}
}

func marketMarkdown(m types.MarketBenchmark, out *strings.Builder) {
	out.WriteString("# Salary Benchmark\n\n")
	out.WriteString(m.Text)
	out.WriteString("\n")
	if len(m.Sources) > 0 {
		out.WriteString("\n## Sources\n\n")
		for _, src := range m.Sources {
			fmt.Fprintf(out, "- [%s](%s)\n", src.Title, src.URI)
		}
	}
}

func sentimentText(s types.SentimentResult, out *strings.Builder) {
	out.WriteString("=== RETENTION SENTIMENT ===\n\n")
	fmt.Fprintf(out, "Risk: %s\n", s.RiskLevel)
	fmt.Fprintf(out, "Retention score: %d/100\n\n", s.Score)
	out.WriteString(s.Summary)
	out.WriteString("\n")
	if len(s.ActionItems) > 0 {
		out.WriteString("\nActions:\n")
		bullets(out, s.ActionItems)
	}
}

func sentimentMarkdown(s types.SentimentResult, out *strings.Builder) {
	out.WriteString("# Retention Sentiment\n\n")
	fmt.Fprintf(out, "**Risk:** %s\n\n", s.RiskLevel)
	fmt.Fprintf(out, "**Retention score:** %d/100\n\n", s.Score)
	out.WriteString(s.Summary)
	out.WriteString("\n")
	if len(s.ActionItems) > 0 {
		out.WriteString("\n## Actions\n\n")
		bullets(out, s.ActionItems)
	}
}

func audioText(a types.InterviewAudio, out *strings.Builder) {
	if a.Path == "" {
		fmt.Fprintf(out, "No interview audio was produced for %s.\n", a.Role)
		return
	}
	fmt.Fprintf(out, "Interview question for %s saved to %s (%s, %d bytes)\n", a.Role, a.Path, a.MIMEType, a.Size)
}

func dashboardText(d types.DashboardSnapshot, out *strings.Builder) {
	out.WriteString("=== DASHBOARD ===\n\n")
	for _, stat := range d.Stats {
		fmt.Fprintf(out, "%-20s %s\n", stat.Title, stat.Value)
	}
	out.WriteString("\nWeek:\n")
	for _, day := range d.Weekly {
		fmt.Fprintf(out, "%s  %-12s %d CVs, %d hired\n", day.Day, strings.Repeat("#", day.CVs), day.CVs, day.Hired)
	}
}

func dashboardMarkdown(d types.DashboardSnapshot, out *strings.Builder) {
	out.WriteString("# Dashboard\n\n")
	for _, stat := range d.Stats {
		fmt.Fprintf(out, "- **%s:** %s\n", stat.Title, stat.Value)
	}
	out.WriteString("\n| Day | CVs | Hired |\n|---|---|---|\n")
	for _, day := range d.Weekly {
		fmt.Fprintf(out, "| %s | %d | %d |\n", day.Day, day.CVs, day.Hired)
	}
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
