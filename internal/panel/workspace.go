package panel

import (
	"fmt"
	"slices"
	"sync"

	"hrpilot/internal/errors"
	"hrpilot/internal/types"
)

// Theme is the color scheme of the shell.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// NavItem is one sidebar entry.
type NavItem struct {
	View   types.AgentType `json:"view"`
	Label  string          `json:"label"`
	Active bool            `json:"active"`
}

// Workspace is the shell around the panels: language, theme and the active
// view. It creates every panel and pushes language changes to all of them.
type Workspace struct {
	mu    sync.Mutex
	lang  types.Language
	theme Theme
	view  types.AgentType

	Dashboard   *Dashboard
	Recruitment *Recruitment
	JobPost     *JobPost
	Onboarding  *Onboarding
	Chatbot     *Chatbot
	Tools       *Tools

	logger *errors.Logger
}

// NewWorkspace builds all panels around one assistant.
func NewWorkspace(assistant Assistant, lang types.Language, logger *errors.Logger) *Workspace {
	if !lang.Valid() {
		lang = types.DefaultLanguage
	}
	if logger == nil {
		logger = errors.Discard()
	}
	w := &Workspace{
		lang:        lang,
		theme:       ThemeLight,
		view:        types.AgentDashboard,
		Recruitment: NewRecruitment(assistant, lang, logger),
		JobPost:     NewJobPost(assistant, lang, logger),
		Onboarding:  NewOnboarding(assistant, lang, logger),
		Chatbot:     NewChatbot(assistant, lang, logger),
		Tools:       NewTools(assistant, lang, logger),
		logger:      logger,
	}
	w.Dashboard = NewDashboard(lang, w.Navigate)
	return w
}

func (w *Workspace) Language() types.Language {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lang
}

// SetLanguage switches every panel to lang. The chat conversation restarts.
func (w *Workspace) SetLanguage(lang types.Language) error {
	if !lang.Valid() {
		return fmt.Errorf("unsupported language %q", lang)
	}
	w.mu.Lock()
	if lang == w.lang {
		w.mu.Unlock()
		return nil
	}
	w.lang = lang
	w.mu.Unlock()

	w.Dashboard.SetLanguage(lang)
	w.Recruitment.SetLanguage(lang)
	w.JobPost.SetLanguage(lang)
	w.Onboarding.SetLanguage(lang)
	w.Chatbot.SetLanguage(lang)
	w.Tools.SetLanguage(lang)

	w.logger.Debug("Workspace language changed", "language", lang)
	return nil
}

// ToggleLanguage flips between Vietnamese and English.
func (w *Workspace) ToggleLanguage() types.Language {
	next := types.Vietnamese
	if w.Language() == types.Vietnamese {
		next = types.English
	}
	_ = w.SetLanguage(next)
	return next
}

func (w *Workspace) Theme() Theme {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.theme
}

func (w *Workspace) ToggleTheme() Theme {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.theme == ThemeLight {
		w.theme = ThemeDark
	} else {
		w.theme = ThemeLight
	}
	return w.theme
}

// Navigate activates a view. Views without a panel of their own show the
// dashboard.
func (w *Workspace) Navigate(view types.AgentType) error {
	if _, err := types.ParseAgentType(string(view)); err != nil {
		return err
	}
	if !slices.Contains(types.NavigableViews(), view) {
		view = types.AgentDashboard
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.view = view
	return nil
}

func (w *Workspace) ActiveView() types.AgentType {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view
}

// Nav lists the sidebar entries with localized labels.
func (w *Workspace) Nav() []NavItem {
	w.mu.Lock()
	defer w.mu.Unlock()

	views := types.NavigableViews()
	items := make([]NavItem, 0, len(views))
	for _, v := range views {
		items = append(items, NavItem{View: v, Label: v.Label(w.lang), Active: v == w.view})
	}
	return items
}
