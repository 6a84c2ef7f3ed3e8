package panel

import (
	"context"
	"fmt"
	"strings"

	"hrpilot/internal/errors"
	"hrpilot/internal/types"
)

// OnboardingTab selects what Generate produces.
type OnboardingTab string

const (
	TabChecklist OnboardingTab = "checklist"
	TabEmail     OnboardingTab = "email"
)

// OnboardingState is a snapshot of the onboarding panel.
type OnboardingState struct {
	Name         string               `json:"name"`
	Role         string               `json:"role"`
	Tab          OnboardingTab        `json:"tab"`
	Tasks        types.OnboardingPlan `json:"tasks"`
	WelcomeEmail string               `json:"welcomeEmail"`
	Loading      bool                 `json:"loading"`
}

// Onboarding builds a first-week checklist or a welcome email for a new hire.
type Onboarding struct {
	base
	name    string
	role    string
	tab     OnboardingTab
	tasks   types.OnboardingPlan
	email   string
	loading bool
}

func NewOnboarding(assistant Assistant, lang types.Language, logger *errors.Logger) *Onboarding {
	o := &Onboarding{tab: TabChecklist, tasks: types.OnboardingPlan{}}
	o.init(assistant, lang, logger)
	return o
}

func (o *Onboarding) SetLanguage(lang types.Language) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lang = lang
}

// SetHire sets the new employee's name and role.
func (o *Onboarding) SetHire(name, role string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.name = name
	o.role = role
}

func (o *Onboarding) SetTab(tab OnboardingTab) error {
	if tab != TabChecklist && tab != TabEmail {
		return fmt.Errorf("unknown onboarding tab %q", tab)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tab = tab
	return nil
}

// Generate produces the checklist or the welcome email depending on the tab
// active when it was triggered.
func (o *Onboarding) Generate(ctx context.Context) error {
	o.mu.Lock()
	if strings.TrimSpace(o.name) == "" || strings.TrimSpace(o.role) == "" {
		o.mu.Unlock()
		return ErrEmptyInput
	}
	if err := begin(&o.loading); err != nil {
		o.mu.Unlock()
		return err
	}
	name, role, tab, lang := o.name, o.role, o.tab, o.lang
	o.mu.Unlock()

	var (
		plan  types.OnboardingPlan
		email string
	)
	if tab == TabChecklist {
		plan = o.assistant.GenerateOnboardingPlan(ctx, role, name, lang).Normalize()
	} else {
		email = o.assistant.GenerateWelcomeEmail(ctx, role, name, lang)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.loading = false
	if tab == TabChecklist {
		o.tasks = plan
	} else {
		o.email = email
	}
	return nil
}

// ToggleTask flips a checklist entry between pending and completed. It
// reports whether the entry exists.
func (o *Onboarding) ToggleTask(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i := range o.tasks {
		if o.tasks[i].ID == id {
			o.tasks[i].Status = o.tasks[i].Status.Toggle()
			return true
		}
	}
	return false
}

func (o *Onboarding) State() OnboardingState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return OnboardingState{
		Name:         o.name,
		Role:         o.role,
		Tab:          o.tab,
		Tasks:        append(types.OnboardingPlan{}, o.tasks...),
		WelcomeEmail: o.email,
		Loading:      o.loading,
	}
}
