package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Validator is implemented by every structured response contract. Decoding
// calls Validate after unmarshalling and treats an error as a failed call.
type Validator interface {
	Validate() error
}

// JDAnalysis is the structured summary of a job description.
type JDAnalysis struct {
	Summary    string   `json:"summary"`
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
	Salary     string   `json:"salary"`
}

func (a *JDAnalysis) Validate() error {
	if strings.TrimSpace(a.Summary) == "" {
		return fmt.Errorf("summary is empty")
	}
	if a.Skills == nil {
		a.Skills = []string{}
	}
	return nil
}

// CVStatus is the screening verdict for a CV.
type CVStatus string

const (
	CVPass   CVStatus = "pass"
	CVFail   CVStatus = "fail"
	CVReview CVStatus = "review"
)

func (s CVStatus) Valid() bool {
	return s == CVPass || s == CVFail || s == CVReview
}

// CVScore is the model's fit assessment of a CV against a JD.
type CVScore struct {
	Score       int      `json:"score"`
	Analysis    string   `json:"analysis"`
	Status      CVStatus `json:"status"`
	SkillsMatch []string `json:"skillsMatch"`
}

// UnmarshalJSON accepts integral JSON numbers written with a fraction
// ("82.0") and rejects fractional scores.
func (c *CVScore) UnmarshalJSON(data []byte) error {
	type alias CVScore
	aux := struct {
		Score json.Number `json:"score"`
		*alias
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Score == "" {
		return nil
	}
	f, err := aux.Score.Float64()
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("score %v is not an integer", f)
	}
	c.Score = int(f)
	return nil
}

func (c *CVScore) Validate() error {
	if c.Score < 0 || c.Score > 100 {
		return fmt.Errorf("score %d out of range 0-100", c.Score)
	}
	if !c.Status.Valid() {
		return fmt.Errorf("invalid status %q", c.Status)
	}
	if c.SkillsMatch == nil {
		c.SkillsMatch = []string{}
	}
	return nil
}

// CVResult is a scored CV as shown in the recruitment panel.
type CVResult struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"-"`
	CVScore
}

// TaskStatus tracks an onboarding checklist entry.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
)

// Toggle flips between pending and completed.
func (s TaskStatus) Toggle() TaskStatus {
	if s == TaskCompleted {
		return TaskPending
	}
	return TaskCompleted
}

type OnboardingTask struct {
	ID       string     `json:"id"`
	Task     string     `json:"task"`
	DueDate  string     `json:"dueDate"`
	Status   TaskStatus `json:"status"`
	Assignee string     `json:"assignee"`
}

// OnboardingPlan is an ordered checklist.
type OnboardingPlan []OnboardingTask

func (p *OnboardingPlan) Validate() error {
	if *p == nil {
		*p = OnboardingPlan{}
	}
	for i, task := range *p {
		if strings.TrimSpace(task.Task) == "" {
			return fmt.Errorf("task %d: empty task", i)
		}
		if strings.TrimSpace(task.Assignee) == "" {
			return fmt.Errorf("task %d: empty assignee", i)
		}
	}
	return nil
}

// Normalize assigns sequential IDs and resets every entry to pending.
func (p OnboardingPlan) Normalize() OnboardingPlan {
	out := make(OnboardingPlan, len(p))
	for i, task := range p {
		task.ID = fmt.Sprintf("%d", i)
		task.Status = TaskPending
		out[i] = task
	}
	return out
}

// RiskLevel is the retention risk of an employee.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// SentimentResult is the retention analysis of a piece of employee feedback.
// Score is a retention score: 100 means happy, 0 means leaving.
type SentimentResult struct {
	RiskLevel   RiskLevel `json:"riskLevel"`
	Score       int       `json:"score"`
	Summary     string    `json:"summary"`
	ActionItems []string  `json:"actionItems"`
}

// UnmarshalJSON rounds fractional scores and clamps them to 0-100.
func (s *SentimentResult) UnmarshalJSON(data []byte) error {
	type alias SentimentResult
	aux := struct {
		Score json.Number `json:"score"`
		*alias
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Score == "" {
		return nil
	}
	f, err := aux.Score.Float64()
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}
	s.Score = int(math.Max(0, math.Min(100, math.Round(f))))
	return nil
}

func (s *SentimentResult) Validate() error {
	if !s.RiskLevel.Valid() {
		return fmt.Errorf("invalid risk level %q", s.RiskLevel)
	}
	if s.Score < 0 || s.Score > 100 {
		return fmt.Errorf("score %d out of range 0-100", s.Score)
	}
	if s.ActionItems == nil {
		s.ActionItems = []string{}
	}
	return nil
}

// Source is a web citation attached to a grounded answer.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// MarketBenchmark is a grounded salary summary.
type MarketBenchmark struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}
