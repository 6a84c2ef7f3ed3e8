package panel

import (
	"sync"

	"hrpilot/internal/types"
)

// QuickLink is a dashboard shortcut to another view.
type QuickLink struct {
	View     types.AgentType `json:"view"`
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle"`
}

// DashboardView is everything the overview renders.
type DashboardView struct {
	types.DashboardSnapshot
	TrendTitle string      `json:"trendTitle"`
	QuickLinks []QuickLink `json:"quickLinks"`
}

var weeklyActivity = []types.DailyActivity{
	{Day: "Mon", CVs: 4, Hired: 1},
	{Day: "Tue", CVs: 3, Hired: 0},
	{Day: "Wed", CVs: 7, Hired: 2},
	{Day: "Thu", CVs: 5, Hired: 1},
	{Day: "Fri", CVs: 12, Hired: 3},
	{Day: "Sat", CVs: 6, Hired: 1},
	{Day: "Sun", CVs: 2, Hired: 0},
}

// Dashboard is the static overview. It makes no model calls.
type Dashboard struct {
	mu       sync.Mutex
	lang     types.Language
	navigate func(types.AgentType) error
}

// NewDashboard creates the overview. navigate is called by Open and may be
// nil.
func NewDashboard(lang types.Language, navigate func(types.AgentType) error) *Dashboard {
	if !lang.Valid() {
		lang = types.DefaultLanguage
	}
	return &Dashboard{lang: lang, navigate: navigate}
}

func (d *Dashboard) SetLanguage(lang types.Language) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lang = lang
}

// View returns the localized headline stats, weekly chart and shortcuts.
func (d *Dashboard) View() DashboardView {
	d.mu.Lock()
	lang := d.lang
	d.mu.Unlock()

	return DashboardView{
		DashboardSnapshot: types.DashboardSnapshot{
			Stats: []types.Stat{
				{Title: lang.Pick("Hồ sơ đã xử lý", "CVs Processed"), Value: "142"},
				{Title: lang.Pick("Tuyển dụng mới", "New Hires"), Value: "12"},
				{Title: lang.Pick("Hiệu suất AI", "AI Efficiency"), Value: "94%"},
				{Title: lang.Pick("Phỏng vấn", "Interviews"), Value: "28"},
			},
			Weekly: append([]types.DailyActivity(nil), weeklyActivity...),
		},
		TrendTitle: lang.Pick("Xu Hướng Tuyển Dụng", "Recruitment Trend"),
		QuickLinks: []QuickLink{
			{
				View:     types.AgentTools,
				Title:    lang.Pick("Công cụ AI Lab", "AI Tools Lab"),
				Subtitle: lang.Pick("Thị trường, Phỏng vấn, Phân tích", "Market, Sentiment, Voice"),
			},
			{
				View:     types.AgentRecruitment,
				Title:    lang.Pick("Tuyển dụng thông minh", "Recruitment AI"),
				Subtitle: lang.Pick("Phân tích JD & Lọc hồ sơ", "Analyze JDs & CVs"),
			},
			{
				View:     types.AgentOnboarding,
				Title:    lang.Pick("Quy trình Hội nhập", "Onboarding"),
				Subtitle: lang.Pick("Chào đón nhân sự mới", "Welcome new staff"),
			},
		},
	}
}

// Open follows a quick link.
func (d *Dashboard) Open(view types.AgentType) error {
	if d.navigate == nil {
		return nil
	}
	return d.navigate(view)
}
