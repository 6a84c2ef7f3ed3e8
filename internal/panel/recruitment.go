package panel

import (
	"context"
	"strings"

	"hrpilot/internal/errors"
	"hrpilot/internal/types"

	"github.com/google/uuid"
)

// RecruitmentState is a snapshot of the recruitment panel.
type RecruitmentState struct {
	JD       string            `json:"jd"`
	CVName   string            `json:"cvName,omitempty"`
	Analysis *types.JDAnalysis `json:"analysis,omitempty"`
	CVResult *types.CVResult   `json:"cvResult,omitempty"`
	Loading  bool              `json:"loading"`
}

// Recruitment analyzes a job description and scores one CV against it. Both
// actions share one loading flag.
type Recruitment struct {
	base
	jd       string
	cvName   string
	cvText   string
	analysis *types.JDAnalysis
	cvResult *types.CVResult
	loading  bool
}

func NewRecruitment(assistant Assistant, lang types.Language, logger *errors.Logger) *Recruitment {
	r := &Recruitment{}
	r.init(assistant, lang, logger)
	return r
}

func (r *Recruitment) SetLanguage(lang types.Language) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lang = lang
}

func (r *Recruitment) SetJD(jd string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jd = jd
}

// SetCV selects the CV to score. name is shown with the result.
func (r *Recruitment) SetCV(name, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cvName = name
	r.cvText = text
}

func (r *Recruitment) AnalyzeJD(ctx context.Context) (types.JDAnalysis, error) {
	r.mu.Lock()
	if strings.TrimSpace(r.jd) == "" {
		r.mu.Unlock()
		return types.JDAnalysis{}, ErrEmptyInput
	}
	if err := begin(&r.loading); err != nil {
		r.mu.Unlock()
		return types.JDAnalysis{}, err
	}
	jd, lang := r.jd, r.lang
	r.mu.Unlock()

	result := r.assistant.AnalyzeJD(ctx, jd, lang)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = false
	r.analysis = &result
	return result, nil
}

// ScoreCV scores the selected CV against the current JD. Both must be set.
func (r *Recruitment) ScoreCV(ctx context.Context) (types.CVResult, error) {
	r.mu.Lock()
	if strings.TrimSpace(r.jd) == "" || strings.TrimSpace(r.cvText) == "" {
		r.mu.Unlock()
		return types.CVResult{}, ErrEmptyInput
	}
	if err := begin(&r.loading); err != nil {
		r.mu.Unlock()
		return types.CVResult{}, err
	}
	jd, name, text := r.jd, r.cvName, r.cvText
	r.mu.Unlock()

	score := r.assistant.ScoreCV(ctx, jd, text)
	result := types.CVResult{
		ID:      uuid.NewString(),
		Name:    name,
		Content: text,
		CVScore: score,
	}
	r.logger.Debug("CV scored", "cv", name, "score", score.Score, "status", score.Status)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = false
	r.cvResult = &result
	return result, nil
}

func (r *Recruitment) State() RecruitmentState {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := RecruitmentState{JD: r.jd, CVName: r.cvName, Loading: r.loading}
	if r.analysis != nil {
		a := *r.analysis
		st.Analysis = &a
	}
	if r.cvResult != nil {
		c := *r.cvResult
		st.CVResult = &c
	}
	return st
}
