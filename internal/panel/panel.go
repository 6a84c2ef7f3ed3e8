// Package panel holds the interaction state of each dashboard view. A panel
// is the only writer of its state; results arrive from the Assistant as
// complete values (a real result or its fallback) and are applied atomically.
package panel

import (
	"context"
	stderrors "errors"
	"sync"

	"hrpilot/internal/ai"
	"hrpilot/internal/errors"
	"hrpilot/internal/types"
)

var (
	// ErrEmptyInput rejects a trigger whose required field is blank.
	ErrEmptyInput = stderrors.New("required input is empty")
	// ErrBusy rejects a trigger while the same action is in flight.
	ErrBusy = stderrors.New("action already in progress")
	// ErrStale reports a result that arrived after the panel moved on
	// (persona or language switch, clear). The result was not applied.
	ErrStale = stderrors.New("result discarded: panel state changed")
)

// Assistant is the set of typed AI tools the panels call. None of them
// returns an error: failures come back as fallback values.
type Assistant interface {
	AnalyzeJD(ctx context.Context, jd string, lang types.Language) types.JDAnalysis
	ScoreCV(ctx context.Context, jd, cv string) types.CVScore
	GenerateJobPost(ctx context.Context, jd, platform, tone string, lang types.Language) string
	GenerateJobImage(ctx context.Context, title string) string
	GenerateRecruitmentVideo(ctx context.Context, title string, lang types.Language) types.VideoResult
	GenerateOnboardingPlan(ctx context.Context, role, name string, lang types.Language) types.OnboardingPlan
	GenerateWelcomeEmail(ctx context.Context, role, name string, lang types.Language) string
	ChatTurn(ctx context.Context, history []types.ChatMessage, message string, lang types.Language, persona types.Persona, thinking bool) string
	GetSalaryBenchmark(ctx context.Context, role, location string, lang types.Language) types.MarketBenchmark
	AnalyzeSentiment(ctx context.Context, text string, lang types.Language) types.SentimentResult
	SpeakInterviewQuestion(ctx context.Context, role string, lang types.Language) *types.MediaAsset
}

var _ Assistant = (*ai.Service)(nil)

// base carries what every AI-backed panel shares. Its lock must never be held
// across an Assistant call.
type base struct {
	mu        sync.Mutex
	lang      types.Language
	assistant Assistant
	logger    *errors.Logger
}

func (b *base) init(assistant Assistant, lang types.Language, logger *errors.Logger) {
	if !lang.Valid() {
		lang = types.DefaultLanguage
	}
	if logger == nil {
		logger = errors.Discard()
	}
	b.lang, b.assistant, b.logger = lang, assistant, logger
}

// begin marks flag in flight. The caller holds mu.
func begin(flag *bool) error {
	if *flag {
		return ErrBusy
	}
	*flag = true
	return nil
}

// Language returns the panel's output language.
func (b *base) Language() types.Language {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lang
}
