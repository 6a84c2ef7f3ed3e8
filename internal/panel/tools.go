package panel

import (
	"context"
	"fmt"
	"strings"

	"hrpilot/internal/ai"
	"hrpilot/internal/errors"
	"hrpilot/internal/types"
)

// ToolTab selects a lab tool.
type ToolTab string

const (
	ToolMarket    ToolTab = "market"
	ToolSentiment ToolTab = "sentiment"
	ToolInterview ToolTab = "interview"
)

// ToolsState is a snapshot of the tools panel.
type ToolsState struct {
	Active           ToolTab                `json:"active"`
	MarketRole       string                 `json:"marketRole"`
	MarketLocation   string                 `json:"marketLocation"`
	Market           *types.MarketBenchmark `json:"market,omitempty"`
	SentimentText    string                 `json:"sentimentText"`
	Sentiment        *types.SentimentResult `json:"sentiment,omitempty"`
	InterviewRole    string                 `json:"interviewRole"`
	Audio            *types.MediaAsset      `json:"audio,omitempty"`
	MarketLoading    bool                   `json:"marketLoading"`
	SentimentLoading bool                   `json:"sentimentLoading"`
	AudioLoading     bool                   `json:"audioLoading"`
}

// Tools is the AI lab: salary benchmark, retention sentiment and a spoken
// interview question. Each tool has its own loading flag.
type Tools struct {
	base
	active ToolTab

	marketRole     string
	marketLocation string
	market         *types.MarketBenchmark
	marketLoading  bool

	sentimentText    string
	sentiment        *types.SentimentResult
	sentimentLoading bool

	interviewRole string
	audio         *types.MediaAsset
	audioLoading  bool
}

func NewTools(assistant Assistant, lang types.Language, logger *errors.Logger) *Tools {
	t := &Tools{active: ToolMarket, marketLocation: ai.DefaultLocation}
	t.init(assistant, lang, logger)
	return t
}

func (t *Tools) SetLanguage(lang types.Language) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lang = lang
}

func (t *Tools) SetActive(tab ToolTab) error {
	switch tab {
	case ToolMarket, ToolSentiment, ToolInterview:
	default:
		return fmt.Errorf("unknown tool %q", tab)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = tab
	return nil
}

func (t *Tools) SetMarket(role, location string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.marketRole = role
	t.marketLocation = location
}

func (t *Tools) SetSentimentText(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sentimentText = text
}

func (t *Tools) SetInterviewRole(role string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.interviewRole = role
}

// SearchMarket fetches a grounded salary benchmark for the role. A blank
// location searches the default market.
func (t *Tools) SearchMarket(ctx context.Context) (types.MarketBenchmark, error) {
	t.mu.Lock()
	if strings.TrimSpace(t.marketRole) == "" {
		t.mu.Unlock()
		return types.MarketBenchmark{}, ErrEmptyInput
	}
	if err := begin(&t.marketLoading); err != nil {
		t.mu.Unlock()
		return types.MarketBenchmark{}, err
	}
	role, location, lang := t.marketRole, t.marketLocation, t.lang
	t.mu.Unlock()

	if strings.TrimSpace(location) == "" {
		location = ai.DefaultLocation
	}
	result := t.assistant.GetSalaryBenchmark(ctx, role, location, lang)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.marketLoading = false
	t.market = &result
	return result, nil
}

func (t *Tools) AnalyzeSentiment(ctx context.Context) (types.SentimentResult, error) {
	t.mu.Lock()
	if strings.TrimSpace(t.sentimentText) == "" {
		t.mu.Unlock()
		return types.SentimentResult{}, ErrEmptyInput
	}
	if err := begin(&t.sentimentLoading); err != nil {
		t.mu.Unlock()
		return types.SentimentResult{}, err
	}
	text, lang := t.sentimentText, t.lang
	t.mu.Unlock()

	result := t.assistant.AnalyzeSentiment(ctx, text, lang)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.sentimentLoading = false
	t.sentiment = &result
	return result, nil
}

// GenerateInterviewQuestion returns spoken audio, or nil when the model
// produced none.
func (t *Tools) GenerateInterviewQuestion(ctx context.Context) (*types.MediaAsset, error) {
	t.mu.Lock()
	if strings.TrimSpace(t.interviewRole) == "" {
		t.mu.Unlock()
		return nil, ErrEmptyInput
	}
	if err := begin(&t.audioLoading); err != nil {
		t.mu.Unlock()
		return nil, err
	}
	role, lang := t.interviewRole, t.lang
	t.mu.Unlock()

	audio := t.assistant.SpeakInterviewQuestion(ctx, role, lang)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.audioLoading = false
	t.audio = audio
	return audio, nil
}

func (t *Tools) State() ToolsState {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := ToolsState{
		Active:           t.active,
		MarketRole:       t.marketRole,
		MarketLocation:   t.marketLocation,
		SentimentText:    t.sentimentText,
		InterviewRole:    t.interviewRole,
		Audio:            t.audio,
		MarketLoading:    t.marketLoading,
		SentimentLoading: t.sentimentLoading,
		AudioLoading:     t.audioLoading,
	}
	if t.market != nil {
		m := *t.market
		st.Market = &m
	}
	if t.sentiment != nil {
		s := *t.sentiment
		st.Sentiment = &s
	}
	return st
}
