package panel

import (
	"context"
	"sync"
	"testing"
	"time"

	"hrpilot/internal/types"
)

// fakeAssistant answers every tool with canned values. When gate is set each
// call signals started and then waits for gate to be closed, so tests can act
// while a call is in flight.
type fakeAssistant struct {
	mu    sync.Mutex
	calls []string

	started chan string
	gate    chan struct{}

	analysis  types.JDAnalysis
	score     types.CVScore
	post      string
	image     string
	video     types.VideoResult
	plan      types.OnboardingPlan
	email     string
	reply     string
	benchmark types.MarketBenchmark
	sentiment types.SentimentResult
	audio     *types.MediaAsset

	lastHistory  []types.ChatMessage
	personas     []types.Persona
	lastLocation string
	lastTitle    string
	lastLang     types.Language
}

func newFakeAssistant() *fakeAssistant {
	return &fakeAssistant{
		analysis:  types.JDAnalysis{Summary: "Backend role", Skills: []string{"Go"}, Experience: "3 years", Salary: "2000 USD"},
		score:     types.CVScore{Score: 82, Analysis: "Strong match", Status: types.CVPass, SkillsMatch: []string{"Go"}},
		post:      "We are hiring!",
		image:     "data:image/png;base64,AAAA",
		video:     types.VideoResult{Outcome: types.VideoReady, Asset: "/tmp/v.mp4", Handle: types.JobHandle{ID: "job-1"}},
		plan:      types.OnboardingPlan{{Task: "Laptop setup", DueDate: "Day 1", Assignee: "IT", Status: types.TaskCompleted}, {Task: "Meet team", DueDate: "Day 2", Assignee: "Manager"}},
		email:     "Welcome aboard!",
		reply:     "Sure, here is a plan.",
		benchmark: types.MarketBenchmark{Text: "1500-2500 USD", Sources: []types.Source{{Title: "Survey", URI: "https://example.com"}}},
		sentiment: types.SentimentResult{RiskLevel: types.RiskHigh, Score: 30, Summary: "Unhappy", ActionItems: []string{"1:1"}},
		audio:     &types.MediaAsset{MIMEType: "audio/wav", Data: []byte{1, 2, 3}},
	}
}

// blocking arms the gate. Call release to let in-flight calls finish.
func (f *fakeAssistant) blocking() (release func()) {
	f.started = make(chan string, 8)
	f.gate = make(chan struct{})
	var once sync.Once
	return func() { once.Do(func() { close(f.gate) }) }
}

func (f *fakeAssistant) record(name string, lang types.Language) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.lastLang = lang
	f.mu.Unlock()
	if f.gate != nil {
		f.started <- name
		<-f.gate
	}
}

func (f *fakeAssistant) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAssistant) AnalyzeJD(_ context.Context, _ string, lang types.Language) types.JDAnalysis {
	f.record("AnalyzeJD", lang)
	return f.analysis
}

func (f *fakeAssistant) ScoreCV(_ context.Context, _, _ string) types.CVScore {
	f.record("ScoreCV", "")
	return f.score
}

func (f *fakeAssistant) GenerateJobPost(_ context.Context, _, _, _ string, lang types.Language) string {
	f.record("GenerateJobPost", lang)
	return f.post
}

func (f *fakeAssistant) GenerateJobImage(_ context.Context, title string) string {
	f.mu.Lock()
	f.lastTitle = title
	f.mu.Unlock()
	f.record("GenerateJobImage", "")
	return f.image
}

func (f *fakeAssistant) GenerateRecruitmentVideo(_ context.Context, title string, lang types.Language) types.VideoResult {
	f.mu.Lock()
	f.lastTitle = title
	f.mu.Unlock()
	f.record("GenerateRecruitmentVideo", lang)
	return f.video
}

func (f *fakeAssistant) GenerateOnboardingPlan(_ context.Context, _, _ string, lang types.Language) types.OnboardingPlan {
	f.record("GenerateOnboardingPlan", lang)
	return f.plan
}

func (f *fakeAssistant) GenerateWelcomeEmail(_ context.Context, _, _ string, lang types.Language) string {
	f.record("GenerateWelcomeEmail", lang)
	return f.email
}

func (f *fakeAssistant) ChatTurn(_ context.Context, history []types.ChatMessage, _ string, lang types.Language, persona types.Persona, _ bool) string {
	f.mu.Lock()
	f.lastHistory = history
	f.personas = append(f.personas, persona)
	f.mu.Unlock()
	f.record("ChatTurn", lang)
	return f.reply
}

func (f *fakeAssistant) GetSalaryBenchmark(_ context.Context, _, location string, lang types.Language) types.MarketBenchmark {
	f.mu.Lock()
	f.lastLocation = location
	f.mu.Unlock()
	f.record("GetSalaryBenchmark", lang)
	return f.benchmark
}

func (f *fakeAssistant) AnalyzeSentiment(_ context.Context, _ string, lang types.Language) types.SentimentResult {
	f.record("AnalyzeSentiment", lang)
	return f.sentiment
}

func (f *fakeAssistant) SpeakInterviewQuestion(_ context.Context, _ string, lang types.Language) *types.MediaAsset {
	f.record("SpeakInterviewQuestion", lang)
	return f.audio
}

// awaitStart waits until the fake has entered a call.
func awaitStart(t *testing.T, f *fakeAssistant) string {
	t.Helper()
	select {
	case name := <-f.started:
		return name
	case <-time.After(2 * time.Second):
		t.Fatal("assistant call did not start")
		return ""
	}
}
